package layout

import (
	"sort"

	"github.com/genehive/genehive/pkg/pedigree"
)

// descendantCounter memoizes transitive descendant counts per person.
// A visiting guard keeps the walk terminating on malformed (cyclic) input.
type descendantCounter struct {
	g        *pedigree.Graph
	counts   map[string]int
	visiting map[string]bool
}

func newDescendantCounter(g *pedigree.Graph) *descendantCounter {
	return &descendantCounter{
		g:        g,
		counts:   make(map[string]int),
		visiting: make(map[string]bool),
	}
}

// count returns the number of transitive descendants of id.
func (c *descendantCounter) count(id string) int {
	if n, ok := c.counts[id]; ok {
		return n
	}
	if c.visiting[id] {
		return 0
	}
	c.visiting[id] = true
	n := 0
	for _, child := range c.g.Children(id) {
		n += 1 + c.count(child)
	}
	delete(c.visiting, id)
	c.counts[id] = n
	return n
}

// groupWeight is the total descendant count across a sibling group.
func (c *descendantCounter) groupWeight(grp *siblingGroup) int {
	total := 0
	for _, p := range grp.members {
		total += c.count(p.ID)
	}
	return total
}

// reorder applies the optional optimization pass: sibling groups with
// heavier subtrees move left, and so do heavier members within a group.
// Both sorts are stable, so equal weights keep input order. Generation
// and group membership are never altered.
func reorder(groups []*siblingGroup, counter *descendantCounter) {
	sort.SliceStable(groups, func(i, j int) bool {
		return counter.groupWeight(groups[i]) > counter.groupWeight(groups[j])
	})
	for _, grp := range groups {
		sort.SliceStable(grp.members, func(i, j int) bool {
			return counter.count(grp.members[i].ID) > counter.count(grp.members[j].ID)
		})
	}
}
