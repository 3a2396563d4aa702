package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/genehive/genehive/pkg/cache"
	"github.com/genehive/genehive/pkg/layout"
	"github.com/genehive/genehive/pkg/pedigree"
	"github.com/genehive/genehive/pkg/risk"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, but not the same graph concurrently:
// both stages write to the graph's members.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete simulate → layout pipeline with caching.
// Risk scores, generations and positions land on the graph's members;
// the returned Result carries the flattened risks, summary and stats.
func (r *Runner) Execute(ctx context.Context, g *pedigree.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		TreeHash: TreeHash(g),
		Stats: Stats{
			MemberCount:  g.Len(),
			DiseaseCount: len(opts.Diseases),
		},
	}

	// Stage 1: Simulate
	riskStart := time.Now()
	risks, riskHit, err := r.SimulateWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	result.Risks = risks
	result.Summary = Summarize(risks)
	result.Stats.RiskTime = time.Since(riskStart)
	result.CacheInfo.RiskHit = riskHit

	r.Logger.Info("simulated risks",
		"members", g.Len(),
		"diseases", len(opts.Diseases),
		"entries", len(risks),
		"duration", result.Stats.RiskTime)

	if opts.SkipLayout {
		return result, nil
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	lay, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = lay
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"generations", len(lay.Generations),
		"unreachable", len(lay.Unreachable),
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// SimulateWithCacheInfo runs the risk stage with caching and returns
// cache hit info. On a hit the cached scores are re-applied to the
// graph's members, so the graph ends up identical to a fresh run.
func (r *Runner) SimulateWithCacheInfo(ctx context.Context, g *pedigree.Graph, opts Options) ([]risk.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	catalogData, _ := json.Marshal(opts.Diseases)
	cacheKey := r.Keyer.RiskKey(TreeHash(g), cache.RiskKeyOpts{
		CatalogHash: cache.Hash(catalogData),
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var risks []risk.Result
			if err := json.Unmarshal(data, &risks); err == nil {
				applyRisks(g, risks)
				return risks, true, nil
			}
			// Undecodable entry - fall through to recompute
		}
	}

	risks := risk.ComputeAll(g, opts.Diseases)

	if data, err := json.Marshal(risks); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.DefaultRiskTTL)
	}

	return risks, false, nil
}

// Simulate is a convenience wrapper that discards the cache hit info.
func (r *Runner) Simulate(ctx context.Context, g *pedigree.Graph, opts Options) ([]risk.Result, error) {
	risks, _, err := r.SimulateWithCacheInfo(ctx, g, opts)
	return risks, err
}

// cachedLayout is the wire form of a layout stage result: the report
// plus the per-member values normally written onto the graph.
type cachedLayout struct {
	Result      layout.Result             `json:"result"`
	Positions   map[string]pedigree.Point `json:"positions"`
	Generations map[string]int            `json:"generations"`
}

// LayoutWithCacheInfo runs the layout stage with caching and returns
// cache hit info. On a hit the cached positions are re-applied to the
// graph's members; unreachable members keep their previous values either
// way.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *pedigree.Graph, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Result{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(TreeHash(g), cache.LayoutKeyOpts{
		GenerationSpacing: opts.Layout.GenerationSpacing,
		SiblingSpacing:    opts.Layout.SiblingSpacing,
		BranchSpacing:     opts.Layout.BranchSpacing,
		SortByDescendants: opts.Layout.SortByDescendants,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedLayout
			if err := json.Unmarshal(data, &cached); err == nil {
				for _, p := range g.People() {
					if pos, ok := cached.Positions[p.ID]; ok {
						p.Position = pos
					}
					if gen, ok := cached.Generations[p.ID]; ok {
						p.Generation = gen
					}
				}
				return cached.Result, true, nil
			}
		}
	}

	lay, err := layout.Compute(g, opts.Layout)
	if err != nil {
		return layout.Result{}, false, err
	}

	cached := cachedLayout{
		Result:      lay,
		Positions:   make(map[string]pedigree.Point, g.Len()),
		Generations: make(map[string]int, g.Len()),
	}
	unreachable := make(map[string]bool, len(lay.Unreachable))
	for _, id := range lay.Unreachable {
		unreachable[id] = true
	}
	for _, p := range g.People() {
		if unreachable[p.ID] {
			continue
		}
		cached.Positions[p.ID] = p.Position
		cached.Generations[p.ID] = p.Generation
	}
	if data, err := json.Marshal(cached); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.DefaultLayoutTTL)
	}

	return lay, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *pedigree.Graph, opts Options) (layout.Result, error) {
	lay, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return lay, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// applyRisks writes cached risk entries back onto the graph, replacing
// all previous scores like a fresh engine run would.
func applyRisks(g *pedigree.Graph, risks []risk.Result) {
	for _, p := range g.People() {
		p.ResetRiskScores()
	}
	for _, res := range risks {
		if p, ok := g.Person(res.PersonID); ok {
			p.RiskScores[res.DiseaseID] = res.Score
		}
	}
}

// treeMember is the projection of a member that participates in cache
// identity: relationships and diagnoses, not engine outputs.
type treeMember struct {
	ID       string   `json:"id"`
	Age      int      `json:"age"`
	Sex      string   `json:"sex"`
	Parents  []string `json:"parents"`
	Diseases []string `json:"diseases"`
}

// TreeHash computes a content hash over the input-owned fields of every
// member, in insertion order. Engine outputs (scores, positions) do not
// participate, so running the pipeline never changes the tree's hash.
func TreeHash(g *pedigree.Graph) string {
	members := make([]treeMember, 0, g.Len())
	for _, p := range g.People() {
		members = append(members, treeMember{
			ID:       p.ID,
			Age:      p.Age,
			Sex:      string(p.Sex),
			Parents:  p.ParentIDs,
			Diseases: p.AffectedDiseaseIDs,
		})
	}
	data, _ := json.Marshal(members)
	return cache.Hash(data)
}
