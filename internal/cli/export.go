package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/genehive/genehive/pkg/render"
	"github.com/genehive/genehive/pkg/snapshot"
)

// exportCommand creates the export command for producing shareable artifacts.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output       string
		asDOT        bool
		detailed     bool
		spousalEdges bool
	)

	cmd := &cobra.Command{
		Use:   "export [tree.json]",
		Short: "Produce a shareable export envelope or DOT rendering",
		Long: `Produce a shareable export envelope or DOT rendering.

By default the export command wraps the snapshot in a versioned envelope
with an export timestamp, suitable for sharing or re-import. With --dot
the tree is rendered as a Graphviz digraph instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", args[0], err)
			}

			// Validate before exporting so a broken tree never ships.
			g, err := snap.Graph()
			if err != nil {
				return fmt.Errorf("build pedigree: %w", err)
			}

			if asDOT {
				dot := render.ToDOT(g, render.Options{
					Detailed:     detailed,
					SpousalEdges: spousalEdges,
				})
				return writeExport(output, []byte(dot))
			}

			export := snapshot.NewExport(snap, time.Now())
			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(export); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			if output != "" {
				printSuccess("Exported %d members", len(snap.Members))
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&asDOT, "dot", false, "render a Graphviz digraph instead of the JSON envelope")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include ages, generations and risk scores in DOT labels")
	cmd.Flags().BoolVar(&spousalEdges, "spousal-edges", false, "draw dashed edges between co-parents in DOT output")

	return cmd
}

func writeExport(output string, data []byte) error {
	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printFile(output)
	return nil
}
