package layout

import (
	"sort"
	"strings"

	"github.com/genehive/genehive/pkg/pedigree"
)

// Result reports what a layout run could and could not place.
type Result struct {
	// Generations maps generation index to person ids in left-to-right
	// placement order. Useful for renderers and tests.
	Generations map[int][]string `json:"generations"`

	// Unreachable lists ids that never finalized a generation (members
	// on or below a parent cycle). They keep their previous generation
	// and position, which are not contractually meaningful.
	Unreachable []string `json:"unreachable,omitempty"`
}

// Compute assigns Generation and Position to every reachable member of g.
// Deterministic given identical graph and config; repeated runs on an
// unchanged graph produce byte-identical output. Returns an error only
// for an invalid config, never for graph content.
func Compute(g *pedigree.Graph, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	generations, unreachable := assignGenerations(g)
	placed := place(g, generations, cfg)

	return Result{Generations: placed, Unreachable: unreachable}, nil
}

// assignGenerations computes longest-path layering over the resolved
// parent relation using Kahn's algorithm. Members whose in-degree never
// reaches zero (cycles and their descendants) are returned as unreachable
// and left untouched.
func assignGenerations(g *pedigree.Graph) (map[string]int, []string) {
	people := g.People()
	inDegree := make(map[string]int, len(people))
	gens := make(map[string]int, len(people))
	queue := make([]string, 0, len(people))

	for _, p := range people {
		degree := len(g.Parents(p.ID))
		inDegree[p.ID] = degree
		if degree == 0 {
			queue = append(queue, p.ID)
		}
	}

	finalized := make(map[string]bool, len(people))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		finalized[curr] = true

		for _, child := range g.Children(curr) {
			if gen := gens[curr] + 1; gen > gens[child] {
				gens[child] = gen
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	var unreachable []string
	for _, p := range people {
		if finalized[p.ID] {
			p.Generation = gens[p.ID]
		} else {
			delete(gens, p.ID)
			unreachable = append(unreachable, p.ID)
		}
	}
	return gens, unreachable
}

// siblingGroup is one full-sibling cluster within a generation.
type siblingGroup struct {
	key     string // canonical parent-set key
	members []*pedigree.Person
}

// groupKey canonicalizes a parent-id set. Two people are full siblings iff
// their parent sets are identical (same size, same members), so the key is
// the sorted id list. Half-siblings with partially overlapping parents get
// distinct keys.
func groupKey(parentIDs []string) string {
	ids := append([]string(nil), parentIDs...)
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}

// place positions every member with a finalized generation and returns the
// final left-to-right order per generation.
func place(g *pedigree.Graph, gens map[string]int, cfg Config) map[int][]string {
	// Bucket reachable members per generation, preserving input order.
	byGen := make(map[int][]*pedigree.Person)
	maxGen := 0
	for _, p := range g.People() {
		gen, ok := gens[p.ID]
		if !ok {
			continue
		}
		byGen[gen] = append(byGen[gen], p)
		if gen > maxGen {
			maxGen = gen
		}
	}

	var counter *descendantCounter
	if cfg.SortByDescendants {
		counter = newDescendantCounter(g)
	}

	placed := make(map[int][]string, len(byGen))
	for gen := 0; gen <= maxGen; gen++ {
		members := byGen[gen]
		if len(members) == 0 {
			continue
		}

		groups := groupSiblings(members)
		if counter != nil {
			reorder(groups, counter)
		}

		// Generations do not share horizontal cursor state.
		cursor := 0.0
		order := make([]string, 0, len(members))
		for _, grp := range groups {
			n := len(grp.members)
			for j, p := range grp.members {
				p.Position = pedigree.Point{
					X: cursor + (float64(j)-float64(n-1)/2)*cfg.SiblingSpacing,
					Y: -float64(gen) * cfg.GenerationSpacing,
					Z: depthJitter(p.ID),
				}
				order = append(order, p.ID)
			}
			cursor += float64(n-1)*cfg.SiblingSpacing + cfg.BranchSpacing
		}
		placed[gen] = order
	}
	return placed
}

// groupSiblings partitions one generation into full-sibling groups,
// ordered by first appearance in the input list.
func groupSiblings(members []*pedigree.Person) []*siblingGroup {
	index := make(map[string]*siblingGroup)
	var groups []*siblingGroup
	for _, p := range members {
		key := groupKey(p.ParentIDs)
		grp, ok := index[key]
		if !ok {
			grp = &siblingGroup{key: key}
			index[key] = grp
			groups = append(groups, grp)
		}
		grp.members = append(grp.members, p)
	}
	return groups
}
