package pedigree

import "slices"

// Sex is the biological sex of a family member. It drives the X-linked
// inheritance computation: sons inherit their single X chromosome from
// their mother.
type Sex string

// Recognized sexes.
const (
	Male   Sex = "male"
	Female Sex = "female"
)

// Valid reports whether s is one of the recognized sexes.
func (s Sex) Valid() bool { return s == Male || s == Female }

// Point is a position in layout space. X runs along the sibling axis,
// Y is the generation axis (0 at the roots, negative for descendants),
// and Z is a small cosmetic depth offset used by 3D renderers.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Person is a single family member.
//
// Identity, relationship and diagnosis fields are owned by the editing
// layer. RiskScores is written only by the risk engine and is fully
// replaced on every run; Position and Generation are written only by the
// layout engine. The zero value is not usable - ID must be set before
// adding to a [Graph].
type Person struct {
	ID   string // Unique identifier, stable for the member's lifetime
	Name string // Display name
	Age  int    // Years, >= 0
	Sex  Sex

	// ParentIDs holds 0-2 parent identifiers in insertion order.
	// References that do not resolve to a Person in the graph are
	// treated as unknown ancestry by both engines, not as errors.
	ParentIDs []string

	// AffectedDiseaseIDs lists diseases this person is diagnosed with.
	// This is ground truth supplied by the caller, never computed.
	AffectedDiseaseIDs []string

	// RiskScores maps disease id to a probability in [0,1].
	// Recomputed from scratch by every risk propagation run.
	RiskScores map[string]float64

	// Position and Generation are layout engine outputs.
	Position   Point
	Generation int
}

// IsAffected reports whether the person is diagnosed with the disease.
func (p *Person) IsAffected(diseaseID string) bool {
	return slices.Contains(p.AffectedDiseaseIDs, diseaseID)
}

// ResetRiskScores clears all computed risk entries, dropping stale scores
// for diseases that no longer exist in the catalog.
func (p *Person) ResetRiskScores() {
	p.RiskScores = make(map[string]float64)
}
