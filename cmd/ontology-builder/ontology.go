package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/henboffman/ontology-builder-sub002/export"
	"github.com/henboffman/ontology-builder-sub002/graph"
	"github.com/henboffman/ontology-builder-sub002/model"
)

func newCreateCmd(opts *globalOptions) *cobra.Command {
	var (
		namespace string
		version   string
		useBFO    bool
		useProvO  bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty ontology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ontology, err := model.NewOntology(args[0], namespace)
			if err != nil {
				return err
			}
			if version != "" {
				ontology.Version = version
			}
			ontology.UsesBFO = useBFO
			ontology.UsesProvO = useProvO

			if err := a.store.CreateOntology(ctx, ontology); err != nil {
				return fmt.Errorf("create ontology: %w", err)
			}

			if err := graph.PublishOntology(ctx, a.graphClient, ontology); err != nil {
				a.logger.Warn("graph publish failed", "error", err)
			}

			fmt.Printf("Created ontology %q (%s)\n", ontology.Name, ontology.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "Ontology namespace IRI (default derived from name)")
	cmd.Flags().StringVar(&version, "version", "", "Ontology version string")
	cmd.Flags().BoolVar(&useBFO, "bfo", false, "Declare an owl:imports of BFO")
	cmd.Flags().BoolVar(&useProvO, "prov-o", false, "Declare an owl:imports of PROV-O")
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored ontologies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ontologies, err := a.store.ListOntologies(ctx)
			if err != nil {
				return fmt.Errorf("list ontologies: %w", err)
			}
			if len(ontologies) == 0 {
				fmt.Println("No ontologies stored.")
				return nil
			}

			for _, o := range ontologies {
				fmt.Printf("%s  %-30s  %d concepts, %d relationships\n",
					o.ID, o.Name, len(o.Concepts), len(o.Relationships))
			}
			return nil
		},
	}
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <ontology-id>",
		Short: "Export an ontology as deterministic Turtle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ontology, err := a.store.GetOntology(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load ontology: %w", err)
			}

			data, err := export.NewSerializer().Serialize(ontology)
			if err != nil {
				return fmt.Errorf("serialize ontology: %w", err)
			}
			a.metrics.ObserveExport(len(data))

			if outPath == "" || outPath == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s\n", len(data), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default stdout)")
	return cmd
}
