package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/henboffman/ontology-builder-sub002/graph"
	"github.com/henboffman/ontology-builder-sub002/ingest"
	"github.com/henboffman/ontology-builder-sub002/merge"
	"github.com/henboffman/ontology-builder-sub002/model"
	"github.com/henboffman/ontology-builder-sub002/turtle"
)

func newPreviewCmd(opts *globalOptions) *cobra.Command {
	var into string

	cmd := &cobra.Command{
		Use:   "preview <file.ttl>",
		Short: "Show what importing a Turtle file would change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			preview, _, err := planTurtleFile(ctx, a, args[0], into)
			if err != nil {
				return err
			}

			printPreview(preview)
			return nil
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Target ontology ID (default: preview a fresh import)")
	return cmd
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	var (
		into      string
		asNew     string
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "import <file.ttl>",
		Short: "Import a Turtle file into an ontology",
		Long: `Import parses a Turtle file, plans the merge, and applies it.

With --into, new entities are merged into the existing ontology;
concepts are matched by name, case-insensitively. With --as-new, a new
ontology is created and everything in the file is imported into it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (into == "") == (asNew == "") {
				return fmt.Errorf("exactly one of --into or --as-new is required")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			preview, graphNS, err := planTurtleFile(ctx, a, args[0], into)
			if err != nil {
				return err
			}
			if preview.Empty() {
				fmt.Println("Nothing to import.")
				return nil
			}

			executor := merge.NewExecutor(a.store, a.logger)
			var result *merge.Result
			if into != "" {
				result, err = executor.MergeIntoExisting(ctx, into, preview, a.executorOptions(false))
			} else {
				ns := namespace
				if ns == "" {
					ns = graphNS
				}
				result, err = executor.ImportAsNewOntology(ctx, asNew, ns, preview, a.executorOptions(false))
			}
			if err != nil {
				return err
			}

			a.metrics.ObserveMergeItems("import", result.Succeeded, result.Failed)
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

	cmd.Flags().StringVar(&into, "into", "", "Merge into this existing ontology ID")
	cmd.Flags().StringVar(&asNew, "as-new", "", "Import as a new ontology with this name")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Namespace for --as-new (default: the file's base IRI)")
	return cmd
}

// planTurtleFile validates, reads, parses, and plans one Turtle file.
// It returns the preview and the file's base IRI for namespace
// derivation.
func planTurtleFile(ctx context.Context, a *app, path, into string) (*merge.Preview, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if err := ingest.ValidateUpload(path, "", info.Size()); err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := ingest.ReadAll(f)
	if err != nil {
		return nil, "", err
	}

	parsed, err := turtle.Parse(strings.NewReader(string(data)))
	a.metrics.ObserveParse("turtle", err)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", path, err)
	}

	target := &model.Ontology{}
	if into != "" {
		target, err = a.store.GetOntology(ctx, into)
		if err != nil {
			return nil, "", fmt.Errorf("load target ontology: %w", err)
		}
	}

	planner := merge.NewPlanner(nil)
	return planner.Plan(target, parsed), parsed.BaseIRI, nil
}

func printPreview(p *merge.Preview) {
	fmt.Printf("Matched concepts:   %d\n", len(p.Matched))
	fmt.Printf("New concepts:       %d\n", len(p.NewConcepts))
	fmt.Printf("New properties:     %d\n", len(p.NewProperties))
	fmt.Printf("New relationships:  %d\n", len(p.NewRelationships))

	for _, c := range p.NewConcepts {
		fmt.Printf("  + concept %s\n", c.Name)
	}
	for _, prop := range p.NewProperties {
		kind := "data"
		if prop.IsObject {
			kind = "object"
		}
		fmt.Printf("  + property %s.%s (%s)\n", prop.ConceptName, prop.Name, kind)
	}
	for _, r := range p.NewRelationships {
		fmt.Printf("  + %s %s %s\n", r.SourceName, r.RelationType, r.TargetName)
	}
	for _, w := range p.Warnings {
		fmt.Printf("  ! %s\n", w)
	}
}

func printResult(r *merge.Result) {
	status := "completed"
	if !r.Success {
		status = "completed with errors"
	}
	fmt.Printf("Import %s: %d succeeded, %d failed (%d concepts, %d properties, %d relationships)\n",
		status, r.Succeeded, r.Failed,
		r.ConceptsCreated, r.PropertiesCreated, r.RelationshipsCreated)
	for _, e := range r.Errors {
		fmt.Printf("  ! %s\n", e)
	}
	if r.MoreErrors {
		fmt.Println("  ! further errors omitted")
	}
}
