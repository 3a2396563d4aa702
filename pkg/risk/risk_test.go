package risk

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/genehive/genehive/pkg/pedigree"
)

const epsilon = 1e-9

// trio builds mother, father and one child of the given sex, with the
// requested parents carrying the diagnosis.
func trio(t *testing.T, childSex pedigree.Sex, diseaseID string, motherAffected, fatherAffected bool) *pedigree.Graph {
	t.Helper()
	g := pedigree.NewGraph()
	mother := &pedigree.Person{ID: "mother", Sex: pedigree.Female, Age: 42}
	father := &pedigree.Person{ID: "father", Sex: pedigree.Male, Age: 44}
	if motherAffected {
		mother.AffectedDiseaseIDs = []string{diseaseID}
	}
	if fatherAffected {
		father.AffectedDiseaseIDs = []string{diseaseID}
	}
	for _, p := range []*pedigree.Person{mother, father, {ID: "child", Sex: childSex, Age: 12}} {
		if err := g.AddPerson(p); err != nil {
			t.Fatalf("AddPerson: %v", err)
		}
	}
	if err := g.SetParents("child", "mother", "father"); err != nil {
		t.Fatalf("SetParents: %v", err)
	}
	return g
}

func childScore(t *testing.T, g *pedigree.Graph, d pedigree.Disease) Result {
	t.Helper()
	m := ComputeRisks(g, []pedigree.Disease{d})
	r, ok := m.Lookup("child", d.ID)
	if !ok {
		t.Fatalf("no result for child/%s", d.ID)
	}
	return r
}

func TestAffectedShortCircuit(t *testing.T) {
	d := pedigree.Disease{ID: "hd", Name: "Huntington's Disease", Inheritance: pedigree.Dominant, Prevalence: 0.0001, Penetrance: 0.95}
	g := pedigree.NewGraph()
	g.AddPerson(&pedigree.Person{ID: "p", Sex: pedigree.Female, AffectedDiseaseIDs: []string{"hd"}})

	m := ComputeRisks(g, []pedigree.Disease{d})
	r, _ := m.Lookup("p", "hd")

	if r.Score != 1.0 {
		t.Errorf("Score = %v, want exactly 1.0", r.Score)
	}
	if r.Pattern != PatternAffected {
		t.Errorf("Pattern = %q, want %q", r.Pattern, PatternAffected)
	}
}

func TestNoFamilyHistoryIsBaseRateTimesPenetrance(t *testing.T) {
	d := pedigree.Disease{ID: "t2d", Inheritance: pedigree.Dominant, Prevalence: 0.11, Penetrance: 0.8}
	g := pedigree.NewGraph()
	g.AddPerson(&pedigree.Person{ID: "p", Sex: pedigree.Male})

	m := ComputeRisks(g, []pedigree.Disease{d})
	r, _ := m.Lookup("p", "t2d")

	want := math.Min(d.Prevalence*d.Penetrance, MaxScore)
	if math.Abs(r.Score-want) > epsilon {
		t.Errorf("Score = %v, want %v", r.Score, want)
	}
}

func TestPatternTable(t *testing.T) {
	tests := []struct {
		name           string
		inheritance    pedigree.Inheritance
		childSex       pedigree.Sex
		motherAffected bool
		fatherAffected bool
		prevalence     float64
		penetrance     float64
		want           float64
		wantPattern    string
	}{
		{
			name:        "DominantOneParent",
			inheritance: pedigree.Dominant, childSex: pedigree.Female,
			motherAffected: true,
			prevalence:     0.0002, penetrance: 0.9,
			want:        (1 - (1-0.0002)*(1-0.5)) * 0.9, // ≈ 0.45
			wantPattern: "autosomal dominant (one parent)",
		},
		{
			name:        "DominantBothParents",
			inheritance: pedigree.Dominant, childSex: pedigree.Male,
			motherAffected: true, fatherAffected: true,
			prevalence: 0.0001, penetrance: 1.0,
			want: math.Min(1-(1-0.0001)*(1-0.75), MaxScore),
		},
		{
			name:        "RecessiveNoParents",
			inheritance: pedigree.Recessive, childSex: pedigree.Female,
			prevalence: 0.0004, penetrance: 1.0,
			want: 1 - (1-0.0004)*(1-0.025), // carrier-frequency heuristic
		},
		{
			name:        "RecessiveBothParents",
			inheritance: pedigree.Recessive, childSex: pedigree.Male,
			motherAffected: true, fatherAffected: true,
			prevalence: 0.0004, penetrance: 0.99,
			want: MaxScore, // 1.0 parental risk, capped after penetrance
		},
		{
			name:        "XLinkedSonAffectedFatherOnly",
			inheritance: pedigree.XLinked, childSex: pedigree.Male,
			fatherAffected: true,
			prevalence:     0.08, penetrance: 0.95,
			want: (1 - (1-0.08)*(1-0.0)) * 0.95, // father cannot raise a son's risk
		},
		{
			name:        "XLinkedSonAffectedMother",
			inheritance: pedigree.XLinked, childSex: pedigree.Male,
			motherAffected: true,
			prevalence:     0.08, penetrance: 0.95,
			want: (1 - (1-0.08)*(1-0.5)) * 0.95,
		},
		{
			name:        "XLinkedDaughterOneParent",
			inheritance: pedigree.XLinked, childSex: pedigree.Female,
			motherAffected: true,
			prevalence:     0.08, penetrance: 0.95,
			want: (1 - (1-0.08)*(1-0.25)) * 0.95,
		},
		{
			name:        "XLinkedDaughterBothParents",
			inheritance: pedigree.XLinked, childSex: pedigree.Female,
			motherAffected: true, fatherAffected: true,
			prevalence: 0.08, penetrance: 0.95,
			want: (1 - (1-0.08)*(1-0.5)) * 0.95,
		},
		{
			name:        "MultifactorialNoParents",
			inheritance: pedigree.Multifactorial, childSex: pedigree.Male,
			prevalence: 0.06, penetrance: 0.7,
			want: (1 - (1-0.06)*(1-0.05)) * 0.7,
		},
		{
			name:        "MultifactorialBothParents",
			inheritance: pedigree.Multifactorial, childSex: pedigree.Female,
			motherAffected: true, fatherAffected: true,
			prevalence: 0.06, penetrance: 0.7,
			want: (1 - (1-0.06)*(1-0.05*2.5*2.5)) * 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := pedigree.Disease{ID: "d", Name: "d", Inheritance: tt.inheritance, Prevalence: tt.prevalence, Penetrance: tt.penetrance}
			g := trio(t, tt.childSex, "d", tt.motherAffected, tt.fatherAffected)

			r := childScore(t, g, d)

			if math.Abs(r.Score-tt.want) > epsilon {
				t.Errorf("Score = %.6f, want %.6f", r.Score, tt.want)
			}
			if tt.wantPattern != "" && r.Pattern != tt.wantPattern {
				t.Errorf("Pattern = %q, want %q", r.Pattern, tt.wantPattern)
			}
			if r.Score > MaxScore {
				t.Errorf("Score = %v exceeds MaxScore", r.Score)
			}
		})
	}
}

func TestDominantOneParentApproxHalf(t *testing.T) {
	// Worked example: prevalence 0.0002, penetrance 0.9, one affected
	// parent. Combined ≈ 0.5001, after penetrance ≈ 0.45.
	d := pedigree.Disease{ID: "d", Inheritance: pedigree.Dominant, Prevalence: 0.0002, Penetrance: 0.9}
	g := trio(t, pedigree.Female, "d", true, false)

	r := childScore(t, g, d)

	if r.Score < 0.45 || r.Score > 0.46 {
		t.Errorf("Score = %v, want ≈ 0.45", r.Score)
	}
}

func TestUnresolvedParentSkipped(t *testing.T) {
	d := pedigree.Disease{ID: "d", Inheritance: pedigree.Dominant, Prevalence: 0.01, Penetrance: 1.0}
	g := pedigree.NewGraph()
	g.AddPerson(&pedigree.Person{ID: "p", Sex: pedigree.Male, ParentIDs: []string{"ghost1", "ghost2"}})

	m := ComputeRisks(g, []pedigree.Disease{d})
	r, _ := m.Lookup("p", "d")

	// Unknown ancestry contributes nothing: pure base rate.
	if math.Abs(r.Score-0.01) > epsilon {
		t.Errorf("Score = %v, want 0.01", r.Score)
	}
}

func TestZeroRatesYieldZeroRisk(t *testing.T) {
	// Unvalidated catalog input must not divide by zero or produce NaN.
	d := pedigree.Disease{ID: "d", Inheritance: pedigree.Recessive, Prevalence: 0, Penetrance: 0}
	g := trio(t, pedigree.Male, "d", true, true)

	r := childScore(t, g, d)

	if r.Score != 0 {
		t.Errorf("Score = %v, want 0", r.Score)
	}
	if math.IsNaN(r.Score) {
		t.Error("Score is NaN")
	}
}

func TestStaleScoresCleared(t *testing.T) {
	old := pedigree.Disease{ID: "old", Inheritance: pedigree.Dominant, Prevalence: 0.1, Penetrance: 1.0}
	current := pedigree.Disease{ID: "new", Inheritance: pedigree.Dominant, Prevalence: 0.2, Penetrance: 1.0}
	g := pedigree.NewGraph()
	g.AddPerson(&pedigree.Person{ID: "p", Sex: pedigree.Female})

	ComputeRisks(g, []pedigree.Disease{old})
	ComputeRisks(g, []pedigree.Disease{current})

	p, _ := g.Person("p")
	if _, ok := p.RiskScores["old"]; ok {
		t.Error("stale entry for removed disease survived recomputation")
	}
	if _, ok := p.RiskScores["new"]; !ok {
		t.Error("missing entry for current disease")
	}
}

func TestIdempotence(t *testing.T) {
	d := pedigree.Disease{ID: "d", Inheritance: pedigree.Multifactorial, Prevalence: 0.06, Penetrance: 0.7}
	g := trio(t, pedigree.Male, "d", true, false)

	first := ComputeRisks(g, []pedigree.Disease{d})
	second := ComputeRisks(g, []pedigree.Disease{d})

	for id, row := range first {
		for did, r := range row {
			if got := second[id][did]; !reflect.DeepEqual(got, r) {
				t.Errorf("result for %s/%s changed between runs: %+v vs %+v", id, did, r, got)
			}
		}
	}
}

func TestExplanationIsNumeric(t *testing.T) {
	d := pedigree.Disease{ID: "d", Name: "Test", Inheritance: pedigree.Dominant, Prevalence: 0.0002, Penetrance: 0.9}
	g := trio(t, pedigree.Female, "d", true, false)

	r := childScore(t, g, d)

	for _, want := range []string{"base rate 0.0002", "parental contribution 0.5000", "penetrance 0.90"} {
		if !strings.Contains(r.Explanation, want) {
			t.Errorf("Explanation %q missing %q", r.Explanation, want)
		}
	}
	if len(r.Factors) == 0 || r.Factors[0] != "1 affected parent(s)" {
		t.Errorf("Factors = %v, want affected-parent factor", r.Factors)
	}
}
