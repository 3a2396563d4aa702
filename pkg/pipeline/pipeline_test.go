package pipeline

import (
	"context"
	"math"
	"testing"

	"github.com/genehive/genehive/pkg/cache"
	"github.com/genehive/genehive/pkg/pedigree"
	"github.com/genehive/genehive/pkg/risk"
)

func familyGraph(t *testing.T) *pedigree.Graph {
	t.Helper()
	g := pedigree.NewGraph()
	for _, p := range []*pedigree.Person{
		{ID: "dad", Sex: pedigree.Male, AffectedDiseaseIDs: []string{"huntington"}},
		{ID: "mom", Sex: pedigree.Female},
		{ID: "kid", Sex: pedigree.Female, Age: 30},
	} {
		if err := g.AddPerson(p); err != nil {
			t.Fatalf("AddPerson(%s): %v", p.ID, err)
		}
	}
	if err := g.SetParents("kid", "dad", "mom"); err != nil {
		t.Fatalf("SetParents: %v", err)
	}
	return g
}

func testCatalog() []pedigree.Disease {
	return []pedigree.Disease{
		{ID: "huntington", Name: "Huntington's Disease", Inheritance: pedigree.Dominant, Prevalence: 0.0001, Penetrance: 0.95},
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	g := familyGraph(t)

	result, err := runner.Execute(context.Background(), g, Options{Diseases: testCatalog()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Risks) != 3 {
		t.Errorf("Risks = %d entries, want 3 (3 members × 1 disease)", len(result.Risks))
	}
	if result.Summary.TotalRisks != 3 {
		t.Errorf("Summary.TotalRisks = %d, want 3", result.Summary.TotalRisks)
	}
	if result.TreeHash == "" {
		t.Error("TreeHash empty")
	}
	if result.Stats.MemberCount != 3 || result.Stats.DiseaseCount != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}

	// Both stages wrote onto the graph.
	dad, _ := g.Person("dad")
	if dad.RiskScores["huntington"] != 1.0 {
		t.Errorf("affected dad score = %v, want 1.0", dad.RiskScores["huntington"])
	}
	kid, _ := g.Person("kid")
	if kid.Generation != 1 {
		t.Errorf("kid generation = %d, want 1", kid.Generation)
	}
	if len(result.Layout.Generations) != 2 {
		t.Errorf("Generations = %v, want 2 rows", result.Layout.Generations)
	}
}

func TestExecuteSkipLayout(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	g := familyGraph(t)

	result, err := runner.Execute(context.Background(), g, Options{Diseases: testCatalog(), SkipLayout: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Layout.Generations != nil {
		t.Error("layout ran despite SkipLayout")
	}
}

func TestExecuteRejectsEmptyCatalog(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), familyGraph(t), Options{}); err == nil {
		t.Error("Execute succeeded with no diseases")
	}
}

func TestCaching(t *testing.T) {
	ctx := context.Background()
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	opts := Options{Diseases: testCatalog()}

	g := familyGraph(t)
	first, err := runner.Execute(ctx, g, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.RiskHit || first.CacheInfo.LayoutHit {
		t.Errorf("first run hit cache: %+v", first.CacheInfo)
	}

	// Same tree content in a fresh graph: both stages must hit and
	// produce identical graph state.
	g2 := familyGraph(t)
	second, err := runner.Execute(ctx, g2, Options{Diseases: testCatalog()})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.RiskHit || !second.CacheInfo.LayoutHit {
		t.Errorf("second run missed cache: %+v", second.CacheInfo)
	}
	for _, p := range g.People() {
		q, _ := g2.Person(p.ID)
		if q.Position != p.Position || q.Generation != p.Generation {
			t.Errorf("%s layout differs on cache hit: %+v vs %+v", p.ID, q.Position, p.Position)
		}
		if q.RiskScores["huntington"] != p.RiskScores["huntington"] {
			t.Errorf("%s score differs on cache hit", p.ID)
		}
	}

	// Refresh bypasses the cache.
	third, err := runner.Execute(ctx, familyGraph(t), Options{Diseases: testCatalog(), Refresh: true})
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.RiskHit {
		t.Error("Refresh run still hit the risk cache")
	}
}

func TestTreeHashIgnoresEngineOutputs(t *testing.T) {
	g := familyGraph(t)
	before := TreeHash(g)

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), g, Options{Diseases: testCatalog()}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if TreeHash(g) != before {
		t.Error("running the pipeline changed the tree hash")
	}

	// Changing a diagnosis changes the hash.
	kid, _ := g.Person("kid")
	kid.AffectedDiseaseIDs = []string{"huntington"}
	if TreeHash(g) == before {
		t.Error("diagnosis change did not change the tree hash")
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Summary
	}{
		{
			name: "Empty",
			want: Summary{},
		},
		{
			name:   "Buckets",
			scores: []float64{0.9, 0.7, 0.5, 0.3, 0.1, 0.0},
			want:   Summary{TotalRisks: 6, HighCount: 2, ModerateCount: 2, LowCount: 2, AverageRisk: 2.5 / 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risks := make([]risk.Result, len(tt.scores))
			for i, s := range tt.scores {
				risks[i] = risk.Result{Score: s}
			}
			got := Summarize(risks)
			if got.TotalRisks != tt.want.TotalRisks || got.HighCount != tt.want.HighCount ||
				got.ModerateCount != tt.want.ModerateCount || got.LowCount != tt.want.LowCount {
				t.Errorf("Summarize = %+v, want %+v", got, tt.want)
			}
			if math.Abs(got.AverageRisk-tt.want.AverageRisk) > 1e-12 {
				t.Errorf("AverageRisk = %v, want %v", got.AverageRisk, tt.want.AverageRisk)
			}
		})
	}
}
