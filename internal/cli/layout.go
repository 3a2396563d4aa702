package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genehive/genehive/pkg/layout"
	"github.com/genehive/genehive/pkg/pipeline"
	"github.com/genehive/genehive/pkg/snapshot"
)

// layoutCommand creates the layout command for computing generational positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	cfg := layout.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute generational 3D positions for a family tree",
		Long: `Compute generational 3D positions for a family tree.

The layout command assigns each member a generation row and a 3D position
without touching risk scores. Use -o to write the positioned snapshot back
out for rendering.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, cfg, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the positioned snapshot to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().Float64Var(&cfg.GenerationSpacing, "generation-spacing", cfg.GenerationSpacing, "vertical distance between generation rows")
	cmd.Flags().Float64Var(&cfg.SiblingSpacing, "sibling-spacing", cfg.SiblingSpacing, "horizontal distance between siblings")
	cmd.Flags().Float64Var(&cfg.BranchSpacing, "branch-spacing", cfg.BranchSpacing, "extra distance between family branches")
	cmd.Flags().BoolVar(&cfg.SortByDescendants, "sort-by-descendants", cfg.SortByDescendants, "order siblings by descendant count")

	return cmd
}

// runLayout loads the snapshot and runs the layout stage only.
func (c *CLI) runLayout(ctx context.Context, input, output string, cfg layout.Config, noCache, refresh bool) error {
	snap, err := snapshot.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	g, err := snap.Graph()
	if err != nil {
		return fmt.Errorf("build pedigree: %w", err)
	}

	diseases := snap.Diseases
	if len(diseases) == 0 {
		diseases, err = c.catalogDiseases(ctx)
		if err != nil {
			return err
		}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Diseases: diseases,
		Layout:   cfg,
		Refresh:  refresh,
		Logger:   c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("layout: %w", err)
	}
	spinner.Stop()

	if output != "" {
		out := snapshot.FromGraph(g, snap.Diseases)
		out.Name = snap.Name
		if err := snapshot.WriteFile(out, output); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	printLayoutReport(result)
	printStats(g.Len(), len(diseases), cacheHit)
	if output != "" {
		printFile(output)
	}
	return nil
}

// printLayoutReport lists generation rows top to bottom.
func printLayoutReport(result layout.Result) {
	printNewline()
	fmt.Println(StyleTitle.Render("Generations"))
	printNewline()

	rows := make([]int, 0, len(result.Generations))
	for gen := range result.Generations {
		rows = append(rows, gen)
	}
	sort.Ints(rows)

	for _, gen := range rows {
		printKeyValue(fmt.Sprintf("Row %d", gen), strings.Join(result.Generations[gen], ", "))
	}
	if len(result.Unreachable) > 0 {
		printNewline()
		printWarning("%d member(s) unreachable from any root: %s",
			len(result.Unreachable), strings.Join(result.Unreachable, ", "))
	}
	printNewline()
}
