package snapshot

import (
	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/pedigree"
)

// SchemaVersion identifies the snapshot document format.
const SchemaVersion = "1.0.0"

// Member is the wire form of a [pedigree.Person].
type Member struct {
	ID         string             `json:"id" bson:"id"`
	Name       string             `json:"name,omitempty" bson:"name,omitempty"`
	Age        int                `json:"age,omitempty" bson:"age,omitempty"`
	Sex        pedigree.Sex       `json:"sex,omitempty" bson:"sex,omitempty"`
	ParentIDs  []string           `json:"parent_ids,omitempty" bson:"parent_ids,omitempty"`
	Diseases   []string           `json:"diseases,omitempty" bson:"diseases,omitempty"`
	RiskScores map[string]float64 `json:"risk_scores,omitempty" bson:"risk_scores,omitempty"`
	Position   *pedigree.Point    `json:"position,omitempty" bson:"position,omitempty"`
	Generation int                `json:"generation,omitempty" bson:"generation,omitempty"`
}

// Snapshot is a complete serialized family tree: the members plus the
// disease catalog the tree was edited against.
type Snapshot struct {
	Version  string             `json:"version" bson:"version"`
	Name     string             `json:"name,omitempty" bson:"name,omitempty"`
	Members  []Member           `json:"members" bson:"members"`
	Diseases []pedigree.Disease `json:"diseases,omitempty" bson:"diseases,omitempty"`
}

// FromGraph captures the current state of a graph and catalog.
// Members appear in graph insertion order, so encoding is deterministic.
func FromGraph(g *pedigree.Graph, diseases []pedigree.Disease) Snapshot {
	snap := Snapshot{
		Version:  SchemaVersion,
		Members:  make([]Member, 0, g.Len()),
		Diseases: diseases,
	}
	for _, p := range g.People() {
		m := Member{
			ID:         p.ID,
			Name:       p.Name,
			Age:        p.Age,
			Sex:        p.Sex,
			ParentIDs:  p.ParentIDs,
			Diseases:   p.AffectedDiseaseIDs,
			Generation: p.Generation,
		}
		if len(p.RiskScores) > 0 {
			m.RiskScores = p.RiskScores
		}
		if p.Position != (pedigree.Point{}) {
			pos := p.Position
			m.Position = &pos
		}
		snap.Members = append(snap.Members, m)
	}
	return snap
}

// Graph rebuilds a pedigree graph from the snapshot.
//
// Structural problems (empty or duplicate ids, too many parents, a person
// listed as its own parent) are reported as INVALID_SNAPSHOT errors, as
// are invalid catalog entries. Parent references that do not resolve are
// tolerated, matching the graph's own semantics.
func (s Snapshot) Graph() (*pedigree.Graph, error) {
	if err := pedigree.ValidateDiseases(s.Diseases); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "disease catalog")
	}

	g := pedigree.NewGraph()
	for _, m := range s.Members {
		p := &pedigree.Person{
			ID:                 m.ID,
			Name:               m.Name,
			Age:                m.Age,
			Sex:                m.Sex,
			AffectedDiseaseIDs: m.Diseases,
			RiskScores:         m.RiskScores,
			Generation:         m.Generation,
		}
		if m.Position != nil {
			p.Position = *m.Position
		}
		if err := g.AddPerson(p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "member %q", m.ID)
		}
	}
	// Parents go in a second pass so forward references within the
	// document resolve regardless of member order.
	for _, m := range s.Members {
		if err := g.SetParents(m.ID, m.ParentIDs...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "member %q", m.ID)
		}
	}
	return g, nil
}
