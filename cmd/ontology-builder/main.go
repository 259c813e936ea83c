// Package main provides the ontology-builder binary entry point.
// Ontology-builder manages lightweight OWL ontologies: it imports and
// merges Turtle documents and tabular triple lists, and exports
// ontologies as deterministic Turtle.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ontology-builder"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Ontology exchange and merge engine",
		Long: `Ontology-builder manages lightweight OWL ontologies.

It provides:
- Turtle (OWL 2 DL subset) import with merge preview
- Tabular subject|relation|object merge into existing ontologies
- Deterministic Turtle export suitable for version control
- Directory watch mode for continuous re-import`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.storeBackend, "store", "", "Store backend (memory, sqlite, nats)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(
		newCreateCmd(opts),
		newListCmd(opts),
		newExportCmd(opts),
		newPreviewCmd(opts),
		newImportCmd(opts),
		newMergeCmd(opts),
		newWatchCmd(opts),
	)

	return cmd
}
