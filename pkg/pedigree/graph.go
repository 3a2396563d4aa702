package pedigree

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidPersonID is returned by [Graph.AddPerson] when the person
	// has an empty id. All members must have non-empty identifiers.
	ErrInvalidPersonID = errors.New("person ID must not be empty")

	// ErrDuplicatePersonID is returned by [Graph.AddPerson] when a member
	// with the same id already exists. Person ids must be unique.
	ErrDuplicatePersonID = errors.New("duplicate person ID")

	// ErrUnknownPerson is returned by [Graph.SetParents] when the subject
	// id is not in the graph.
	ErrUnknownPerson = errors.New("unknown person")

	// ErrSelfParent is returned by [Graph.SetParents] and [Graph.Validate]
	// when a person's own id appears in its parent list.
	ErrSelfParent = errors.New("person cannot be its own parent")

	// ErrTooManyParents is returned by [Graph.SetParents] and
	// [Graph.Validate] when a person has more than two parents.
	ErrTooManyParents = errors.New("person cannot have more than two parents")

	// ErrPedigreeCycle is returned by [Graph.Validate] when the
	// parent→child relation contains a cycle. Cycles are detected with
	// depth-first search using white/gray/black coloring.
	ErrPedigreeCycle = errors.New("pedigree contains a cycle")
)

// Graph is an arena of [Person] records indexed by id.
//
// Relationships are stored once, as each person's ParentIDs; the inverse
// child index is derived and rebuilt on every mutation, so the referential
// symmetry invariant holds by construction. Iteration order over People is
// insertion order, which keeps both engines deterministic.
//
// The zero value is not usable - use [NewGraph].
type Graph struct {
	people   map[string]*Person
	order    []string            // insertion order of person ids
	children map[string][]string // parent id -> child ids, derived
}

// NewGraph creates an empty pedigree graph.
func NewGraph() *Graph {
	return &Graph{
		people:   make(map[string]*Person),
		children: make(map[string][]string),
	}
}

// AddPerson adds a member to the graph. The graph takes ownership of p.
// Returns ErrInvalidPersonID for an empty id or ErrDuplicatePersonID if
// the id is already in use. Any ParentIDs already set on p take part in
// the derived child index immediately; unresolved references stay dangling
// and are skipped by the engines.
func (g *Graph) AddPerson(p *Person) error {
	if p.ID == "" {
		return ErrInvalidPersonID
	}
	if _, exists := g.people[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePersonID, p.ID)
	}
	if p.RiskScores == nil {
		p.RiskScores = make(map[string]float64)
	}
	g.people[p.ID] = p
	g.order = append(g.order, p.ID)
	g.rebuildChildren()
	return nil
}

// RemovePerson deletes the member with the given id. References to the
// removed person in other members' ParentIDs are left dangling on purpose:
// the engines treat them as unknown ancestry, and the editing layer may
// re-add the member during an undo. Removing an unknown id is a no-op.
func (g *Graph) RemovePerson(id string) {
	if _, ok := g.people[id]; !ok {
		return
	}
	delete(g.people, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.rebuildChildren()
}

// SetParents replaces the parent list of the given person.
// Returns ErrUnknownPerson if id is not in the graph, ErrTooManyParents
// for more than two parents, or ErrSelfParent if id appears in parentIDs.
// Parent ids are deduplicated, preserving first occurrence. Parents do not
// need to exist yet; unresolved references are tolerated.
func (g *Graph) SetParents(id string, parentIDs ...string) error {
	p, ok := g.people[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPerson, id)
	}
	deduped := make([]string, 0, len(parentIDs))
	for _, pid := range parentIDs {
		if pid == id {
			return fmt.Errorf("%w: %s", ErrSelfParent, id)
		}
		if !slices.Contains(deduped, pid) {
			deduped = append(deduped, pid)
		}
	}
	if len(deduped) > 2 {
		return fmt.Errorf("%w: %s has %d", ErrTooManyParents, id, len(deduped))
	}
	p.ParentIDs = deduped
	g.rebuildChildren()
	return nil
}

// Person returns the member with the given id and true, or nil and false.
// The returned pointer refers to the actual record, so mutations are
// visible through the graph.
func (g *Graph) Person(id string) (*Person, bool) {
	p, ok := g.people[id]
	return p, ok
}

// People returns all members in insertion order. The slice is freshly
// allocated but the pointers refer to the actual records.
func (g *Graph) People() []*Person {
	out := make([]*Person, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.people[id])
	}
	return out
}

// Len returns the number of members.
func (g *Graph) Len() int { return len(g.people) }

// Parents returns the resolved parents of the given person, in ParentIDs
// order. Unresolved references are skipped, never reported as errors.
func (g *Graph) Parents(id string) []*Person {
	p, ok := g.people[id]
	if !ok {
		return nil
	}
	var out []*Person
	for _, pid := range p.ParentIDs {
		if parent, ok := g.people[pid]; ok {
			out = append(out, parent)
		}
	}
	return out
}

// Children returns the ids of members that list id as a parent, in
// insertion order of the children. The slice is a read-only view.
func (g *Graph) Children(id string) []string { return g.children[id] }

// Roots returns members with no resolved parents, in insertion order.
// These form generation 0 for the layout engine.
func (g *Graph) Roots() []*Person {
	var roots []*Person
	for _, id := range g.order {
		if len(g.Parents(id)) == 0 {
			roots = append(roots, g.people[id])
		}
	}
	return roots
}

// Spouses returns the ids of members that share at least one child with
// the given person, in insertion order. Renderers draw a spousal edge for
// every such pair.
func (g *Graph) Spouses(id string) []string {
	mine := g.children[id]
	if len(mine) == 0 {
		return nil
	}
	var out []string
	for _, other := range g.order {
		if other == id {
			continue
		}
		for _, c := range g.children[other] {
			if slices.Contains(mine, c) {
				out = append(out, other)
				break
			}
		}
	}
	return out
}

// Validate checks structural well-formedness at the editing boundary:
//
//  1. No person is its own parent and none has more than two parents
//  2. Every parent reference resolves to an existing member
//  3. The parent→child relation is acyclic
//
// Returns ErrSelfParent, ErrTooManyParents, ErrUnknownPerson, or
// ErrPedigreeCycle. The engines do not call this; they tolerate graphs
// that are transiently inconsistent during editing.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		p := g.people[id]
		if len(p.ParentIDs) > 2 {
			return fmt.Errorf("%w: %s has %d", ErrTooManyParents, id, len(p.ParentIDs))
		}
		for _, pid := range p.ParentIDs {
			if pid == id {
				return fmt.Errorf("%w: %s", ErrSelfParent, id)
			}
			if _, ok := g.people[pid]; !ok {
				return fmt.Errorf("%w: %s references parent %s", ErrUnknownPerson, id, pid)
			}
		}
	}
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.people))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.children[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrPedigreeCycle
			}
		}
	}
	return nil
}

// rebuildChildren recomputes the derived child index from ParentIDs.
// O(N) in the number of members; called on every structural mutation.
func (g *Graph) rebuildChildren() {
	g.children = make(map[string][]string, len(g.people))
	for _, id := range g.order {
		for _, pid := range g.people[id].ParentIDs {
			g.children[pid] = append(g.children[pid], id)
		}
	}
}
