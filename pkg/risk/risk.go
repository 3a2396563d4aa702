package risk

import (
	"fmt"
	"math"

	"github.com/genehive/genehive/pkg/pedigree"
)

// MaxScore caps every computed (non-diagnosed) risk. The headroom below
// 1.0 accounts for unmodeled environmental and incomplete-penetrance
// effects; only the already-affected short-circuit reports exactly 1.0.
const MaxScore = 0.95

// PatternAffected is the pattern label used for already-diagnosed pairs.
const PatternAffected = "affected"

// Risk classification thresholds used for summaries and display.
const (
	HighThreshold     = 0.7
	ModerateThreshold = 0.3
)

// Result is the evaluation of one person × disease pair.
type Result struct {
	PersonID  string  `json:"member_id" bson:"member_id"`
	DiseaseID string  `json:"disease_id" bson:"disease_id"`
	Score     float64 `json:"risk_score" bson:"risk_score"`

	// Pattern is the human-readable inheritance pattern label, e.g.
	// "autosomal dominant (one parent)".
	Pattern string `json:"inheritance_pattern" bson:"inheritance_pattern"`

	// Explanation documents the base rate and parental contribution
	// numerically. Required for UI transparency, not just debugging.
	Explanation string `json:"explanation" bson:"explanation"`

	// Factors lists contributing factors in display form, e.g.
	// "1 affected parent(s)".
	Factors []string `json:"contributing_factors,omitempty" bson:"contributing_factors,omitempty"`
}

// Matrix holds every result of a propagation run, keyed by person id and
// then disease id.
type Matrix map[string]map[string]Result

// Lookup returns the result for a (person, disease) pair.
func (m Matrix) Lookup(personID, diseaseID string) (Result, bool) {
	r, ok := m[personID][diseaseID]
	return r, ok
}

// all returns every result in deterministic order: people as supplied to
// the propagation run, diseases in catalog order.
func (m Matrix) all(g *pedigree.Graph, diseases []pedigree.Disease) []Result {
	out := make([]Result, 0, g.Len()*len(diseases))
	for _, p := range g.People() {
		for _, d := range diseases {
			if r, ok := m.Lookup(p.ID, d.ID); ok {
				out = append(out, r)
			}
		}
	}
	return out
}

// Combine merges two independent risk probabilities with the
// complementary (noisy-OR) rule 1-(1-a)(1-b). The result never exceeds 1
// and never double-counts overlapping signals.
func Combine(a, b float64) float64 {
	return 1 - (1-a)*(1-b)
}

// ComputeRisks evaluates every (person, disease) pair, stores the score in
// each person's RiskScores map, and returns the full matrix.
//
// Every person's RiskScores is reset before recomputation, so entries for
// diseases removed from the catalog never survive a run, and repeated
// invocation on an unchanged graph is idempotent.
func ComputeRisks(g *pedigree.Graph, diseases []pedigree.Disease) Matrix {
	people := g.People()
	m := make(Matrix, len(people))

	for _, p := range people {
		p.ResetRiskScores()
		row := make(map[string]Result, len(diseases))
		for _, d := range diseases {
			r := computeOne(g, p, d)
			row[d.ID] = r
			p.RiskScores[d.ID] = r.Score
		}
		m[p.ID] = row
	}
	return m
}

// ComputeAll runs ComputeRisks and flattens the matrix into a
// deterministic slice (people in input order, diseases in catalog order).
func ComputeAll(g *pedigree.Graph, diseases []pedigree.Disease) []Result {
	return ComputeRisks(g, diseases).all(g, diseases)
}

// computeOne evaluates a single pair. Total: never errors, never NaN.
func computeOne(g *pedigree.Graph, p *pedigree.Person, d pedigree.Disease) Result {
	name := p.Name
	if name == "" {
		name = p.ID
	}

	if p.IsAffected(d.ID) {
		return Result{
			PersonID:    p.ID,
			DiseaseID:   d.ID,
			Score:       1.0,
			Pattern:     PatternAffected,
			Explanation: fmt.Sprintf("%s is diagnosed with %s; risk is 1.0 by definition.", name, d.Name),
		}
	}

	parents := g.Parents(p.ID)
	parental, pattern := parentalRisk(d, p, parents)
	combined := Combine(d.Prevalence, parental)
	final := math.Min(combined*d.Penetrance, MaxScore)

	affected := 0
	for _, parent := range parents {
		if parent.IsAffected(d.ID) {
			affected++
		}
	}

	var factors []string
	if affected > 0 {
		factors = append(factors, fmt.Sprintf("%d affected parent(s)", affected))
	}
	if d.Inheritance == pedigree.Multifactorial && p.Age > 50 {
		// Reported for transparency only; age does not change the score.
		factors = append(factors, "advanced age")
	}

	return Result{
		PersonID:  p.ID,
		DiseaseID: d.ID,
		Score:     final,
		Pattern:   pattern,
		Explanation: fmt.Sprintf(
			"%s: base rate %.4f, parental contribution %.4f, combined %.4f, penetrance %.2f, risk %.4f",
			pattern, d.Prevalence, parental, combined, d.Penetrance, final),
		Factors: factors,
	}
}
