// Package pipeline provides the core simulation pipeline for genehive.
//
// This package implements the simulate → layout pipeline shared by the
// CLI and the HTTP API. Centralizing it keeps behavior consistent across
// entry points and puts result caching in one place.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Simulate: Propagate hereditary disease risk through the pedigree
//  2. Layout: Compute generational 3D positions for every member
//
// Each stage can run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Diseases: catalog, Layout: layout.DefaultConfig()}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary.AverageRisk)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/genehive/genehive/pkg/layout"
	"github.com/genehive/genehive/pkg/pedigree"
	"github.com/genehive/genehive/pkg/risk"
)

// Options contains all configuration for the simulation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Diseases is the catalog to simulate against. Required and
	// validated before the first stage runs.
	Diseases []pedigree.Disease `json:"diseases"`

	// Layout holds spacing configuration. Zero values are replaced
	// with the defaults.
	Layout layout.Config `json:"layout,omitempty"`

	// SkipLayout runs the risk stage only.
	SkipLayout bool `json:"skip_layout,omitempty"`

	// Refresh bypasses the cache and recomputes both stages.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Diseases) == 0 {
		return fmt.Errorf("at least one disease is required")
	}
	if err := pedigree.ValidateDiseases(o.Diseases); err != nil {
		return err
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Risks holds one entry per member × disease, in deterministic order.
	Risks []risk.Result `json:"risks"`

	// Layout is the generation assignment and unreachable report.
	// Positions land on the graph's members directly.
	Layout layout.Result `json:"layout"`

	// Summary aggregates the risk entries.
	Summary Summary `json:"summary"`

	// TreeHash is the content hash of the input tree.
	TreeHash string `json:"tree_hash"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Summary aggregates a set of risk entries into headline numbers.
type Summary struct {
	TotalRisks    int     `json:"total_risks"`
	HighCount     int     `json:"high_count"`     // score >= 0.7
	ModerateCount int     `json:"moderate_count"` // 0.3 <= score < 0.7
	LowCount      int     `json:"low_count"`
	AverageRisk   float64 `json:"average_risk"`
}

// Summarize buckets risk entries by severity and averages their scores.
// An empty input yields the zero summary, average included.
func Summarize(risks []risk.Result) Summary {
	s := Summary{TotalRisks: len(risks)}
	if len(risks) == 0 {
		return s
	}
	total := 0.0
	for _, r := range risks {
		total += r.Score
		switch {
		case r.Score >= risk.HighThreshold:
			s.HighCount++
		case r.Score >= risk.ModerateThreshold:
			s.ModerateCount++
		default:
			s.LowCount++
		}
	}
	s.AverageRisk = total / float64(len(risks))
	return s
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MemberCount  int           `json:"member_count"`
	DiseaseCount int           `json:"disease_count"`
	RiskTime     time.Duration `json:"risk_time"`
	LayoutTime   time.Duration `json:"layout_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RiskHit   bool `json:"risk_hit"`   // Whether risk results came from cache
	LayoutHit bool `json:"layout_hit"` // Whether layout results came from cache
}
