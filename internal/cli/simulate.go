package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/genehive/genehive/pkg/catalog"
	"github.com/genehive/genehive/pkg/pedigree"
	"github.com/genehive/genehive/pkg/pipeline"
	"github.com/genehive/genehive/pkg/risk"
	"github.com/genehive/genehive/pkg/snapshot"
)

// simulateCommand creates the simulate command for running risk propagation.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		refresh    bool
		skipLayout bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "simulate [tree.json]",
		Short: "Run risk propagation over a family tree snapshot",
		Long: `Run risk propagation over a family tree snapshot.

The simulate command reads a tree snapshot, propagates hereditary disease
risk through the pedigree, and lays the tree out generation by generation.
Diseases embedded in the snapshot take priority; when the snapshot carries
none, the configured catalog is used.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), args[0], output, simulateFlags{
				noCache:    noCache,
				refresh:    refresh,
				skipLayout: skipLayout,
				asJSON:     asJSON,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the updated snapshot (scores and positions) to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&skipLayout, "skip-layout", false, "compute risk only, skip the layout stage")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	return cmd
}

type simulateFlags struct {
	noCache    bool
	refresh    bool
	skipLayout bool
	asJSON     bool
}

// runSimulate loads the snapshot and runs the pipeline.
func (c *CLI) runSimulate(ctx context.Context, input, output string, flags simulateFlags) error {
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

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Diseases:   diseases,
		SkipLayout: flags.skipLayout,
		Refresh:    flags.refresh,
		Logger:     c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, "Propagating risk...")
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return fmt.Errorf("simulate: %w", err)
	}
	spinner.Stop()

	if output != "" {
		out := snapshot.FromGraph(g, diseases)
		out.Name = snap.Name
		if err := snapshot.WriteFile(out, output); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	if flags.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printRiskReport(g, result)
	if output != "" {
		printFile(output)
	}
	return nil
}

// catalogDiseases lists the configured catalog, falling back to the
// builtin seed entries when no catalog path is configured.
func (c *CLI) catalogDiseases(ctx context.Context) ([]pedigree.Disease, error) {
	cat, err := c.openCatalog(ctx)
	if err != nil {
		return nil, err
	}
	defer closeCatalog(cat)
	return cat.List(ctx)
}

// openCatalog builds the disease catalog from configuration. An empty
// catalog path selects the in-memory builtin catalog.
func (c *CLI) openCatalog(ctx context.Context) (catalog.Catalog, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Path == "" {
		return catalog.NewMemory(), nil
	}
	return catalog.OpenSQLite(ctx, cfg.Catalog.Path, cfg.Catalog.Debug)
}

func closeCatalog(cat catalog.Catalog) {
	if closer, ok := cat.(io.Closer); ok {
		_ = closer.Close()
	}
}

// printRiskReport renders the per-member risk table and the summary line.
func printRiskReport(g *pedigree.Graph, result *pipeline.Result) {
	printNewline()
	fmt.Println(StyleTitle.Render("Risk Report"))
	printNewline()

	byPerson := make(map[string][]risk.Result)
	for _, r := range result.Risks {
		byPerson[r.PersonID] = append(byPerson[r.PersonID], r)
	}

	for _, p := range g.People() {
		entries := byPerson[p.ID]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })

		label := p.Name
		if label == "" {
			label = p.ID
		}
		fmt.Println(StyleValue.Render(label) + StyleDim.Render(fmt.Sprintf("  (generation %d)", p.Generation)))
		for _, e := range entries {
			if e.Score == 0 {
				continue
			}
			score := riskStyle(e.Score).Render(fmt.Sprintf("%5.1f%%", e.Score*100))
			fmt.Printf("  %s  %s %s\n", score, e.DiseaseID, StyleDim.Render(e.Explanation))
		}
	}

	printNewline()
	printKeyValue("High", fmt.Sprintf("%d", result.Summary.HighCount))
	printKeyValue("Moderate", fmt.Sprintf("%d", result.Summary.ModerateCount))
	printKeyValue("Low", fmt.Sprintf("%d", result.Summary.LowCount))
	printKeyValue("Average", fmt.Sprintf("%.1f%%", result.Summary.AverageRisk*100))
	printStats(result.Stats.MemberCount, result.Stats.DiseaseCount, result.CacheInfo.RiskHit)
}
