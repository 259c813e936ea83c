package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/henboffman/ontology-builder-sub002/graph"
	"github.com/henboffman/ontology-builder-sub002/merge"
	"github.com/henboffman/ontology-builder-sub002/tabular"
)

func newMergeCmd(opts *globalOptions) *cobra.Command {
	var (
		into    string
		dryRun  bool
		rowFile string
	)

	cmd := &cobra.Command{
		Use:   "merge --into <ontology-id> [rows-file]",
		Short: "Merge tabular subject|relation|object rows into an ontology",
		Long: `Merge reads rows of the form "subject <TAB> relation <TAB> object"
(or pipe-separated) and applies them to an existing ontology. Unknown
subjects and objects become new concepts; rows whose relation is one of
is-a, isa, subclass-of, or type become subclass links on export.

Rows are read from the file argument, --rows, or stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if into == "" {
				return fmt.Errorf("--into is required")
			}
			path := rowFile
			if len(args) == 1 {
				path = args[0]
			}

			text, err := readRowText(path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			rows := tabular.ParseRows(text)
			a.metrics.ObserveParse("tabular", nil)
			for _, bad := range rows.Invalid {
				fmt.Fprintf(os.Stderr, "skipping line %d: %s\n", bad.Line, bad.Reason)
			}
			if len(rows.Rows) == 0 {
				return fmt.Errorf("no valid rows to merge")
			}

			target, err := a.store.GetOntology(ctx, into)
			if err != nil {
				return fmt.Errorf("load target ontology: %w", err)
			}

			triples := make([]merge.Triple, 0, len(rows.Rows))
			for _, row := range rows.Rows {
				triples = append(triples, merge.Triple{
					Subject:  row.Subject,
					Relation: row.Relation,
					Object:   row.Object,
				})
			}

			preview := merge.NewPlanner(nil).PlanTriples(target, triples)
			if dryRun {
				printPreview(preview)
				return nil
			}
			if preview.Empty() {
				fmt.Println("Nothing to merge.")
				return nil
			}

			executor := merge.NewExecutor(a.store, a.logger)
			result, err := executor.MergeIntoExisting(ctx, into, preview, a.executorOptions(false))
			if err != nil {
				return err
			}

			a.metrics.ObserveMergeItems("merge", result.Succeeded, result.Failed)
			if err := graph.PublishImportResult(ctx, a.graphClient, result); err != nil {
				a.logger.Warn("graph publish failed", "error", err)
			}

			printResult(result)
			if !result.Success {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Target ontology ID")
	cmd.Flags().StringVar(&rowFile, "rows", "", "Rows file (default stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview only, change nothing")
	return cmd
}

func readRowText(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
