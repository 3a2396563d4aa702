package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/genehive/genehive/pkg/pedigree"
)

// threeGenerations builds grandparents, parents, and three children where
// kid1/kid2 are full siblings and half is a half-sibling via dad only.
func threeGenerations(t *testing.T) *pedigree.Graph {
	t.Helper()
	g := pedigree.NewGraph()
	for _, p := range []*pedigree.Person{
		{ID: "gf", Sex: pedigree.Male},
		{ID: "gm", Sex: pedigree.Female},
		{ID: "gf2", Sex: pedigree.Male},
		{ID: "gm2", Sex: pedigree.Female},
		{ID: "dad", Sex: pedigree.Male},
		{ID: "mom", Sex: pedigree.Female},
		{ID: "other", Sex: pedigree.Female},
		{ID: "kid1", Sex: pedigree.Female},
		{ID: "kid2", Sex: pedigree.Male},
		{ID: "half", Sex: pedigree.Male},
	} {
		if err := g.AddPerson(p); err != nil {
			t.Fatalf("AddPerson(%s): %v", p.ID, err)
		}
	}
	// Multi-parent children must have parents at the same generation for
	// the per-parent invariant to hold, so mom and other get founder
	// parents of their own.
	for id, parents := range map[string][]string{
		"dad":   {"gf", "gm"},
		"mom":   {"gf2", "gm2"},
		"other": {"gf2", "gm2"},
		"kid1":  {"dad", "mom"},
		"kid2":  {"dad", "mom"},
		"half":  {"dad", "other"},
	} {
		if err := g.SetParents(id, parents...); err != nil {
			t.Fatalf("SetParents(%s): %v", id, err)
		}
	}
	return g
}

func mustCompute(t *testing.T, g *pedigree.Graph, cfg Config) Result {
	t.Helper()
	res, err := Compute(g, cfg)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return res
}

func TestGenerationInvariant(t *testing.T) {
	g := threeGenerations(t)
	mustCompute(t, g, DefaultConfig())

	for _, p := range g.People() {
		for _, parent := range g.Parents(p.ID) {
			if p.Generation != parent.Generation+1 {
				t.Errorf("%s generation %d, parent %s generation %d; want child == parent+1",
					p.ID, p.Generation, parent.ID, parent.Generation)
			}
		}
	}
}

func TestRootsAtGenerationZero(t *testing.T) {
	g := threeGenerations(t)
	mustCompute(t, g, DefaultConfig())

	for _, root := range g.Roots() {
		if root.Generation != 0 {
			t.Errorf("root %s generation = %d, want 0", root.ID, root.Generation)
		}
		if root.Position.Y != 0 {
			t.Errorf("root %s y = %v, want 0", root.ID, root.Position.Y)
		}
	}
}

func TestMarryInTakesMaxDepth(t *testing.T) {
	// spouse marries into generation 2: their common child must sit one
	// below the deeper parent, not at the spouse's root depth + 1.
	g := pedigree.NewGraph()
	for _, p := range []*pedigree.Person{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "spouse"}, {ID: "child"},
	} {
		g.AddPerson(p)
	}
	g.SetParents("b", "a")
	g.SetParents("c", "b")
	g.SetParents("child", "c", "spouse")

	mustCompute(t, g, DefaultConfig())

	c, _ := g.Person("c")
	child, _ := g.Person("child")
	if c.Generation != 2 {
		t.Fatalf("c generation = %d, want 2", c.Generation)
	}
	if child.Generation != 3 {
		t.Errorf("child generation = %d, want 3 (max over parents + 1)", child.Generation)
	}
}

func TestSiblingGrouping(t *testing.T) {
	cfg := DefaultConfig()
	g := threeGenerations(t)
	mustCompute(t, g, cfg)

	kid1, _ := g.Person("kid1")
	kid2, _ := g.Person("kid2")
	half, _ := g.Person("half")

	if kid1.Generation != kid2.Generation {
		t.Fatalf("full siblings in different generations: %d vs %d", kid1.Generation, kid2.Generation)
	}
	if kid1.Position.Y != kid2.Position.Y {
		t.Errorf("full siblings differ in y: %v vs %v", kid1.Position.Y, kid2.Position.Y)
	}
	if gap := math.Abs(kid1.Position.X - kid2.Position.X); math.Abs(gap-cfg.SiblingSpacing) > 1e-9 {
		t.Errorf("full sibling gap = %v, want %v", gap, cfg.SiblingSpacing)
	}

	// Half-sibling shares the generation but not the group: the gap to
	// either full sibling includes BranchSpacing.
	if half.Generation != kid1.Generation {
		t.Errorf("half sibling generation = %d, want %d", half.Generation, kid1.Generation)
	}
	if gap := math.Abs(half.Position.X - kid2.Position.X); gap <= cfg.SiblingSpacing {
		t.Errorf("half sibling gap = %v, want > %v (separate group)", gap, cfg.SiblingSpacing)
	}
}

func TestIdempotence(t *testing.T) {
	g := threeGenerations(t)
	mustCompute(t, g, DefaultConfig())

	first := make(map[string]pedigree.Point)
	gens := make(map[string]int)
	for _, p := range g.People() {
		first[p.ID] = p.Position
		gens[p.ID] = p.Generation
	}

	mustCompute(t, g, DefaultConfig())
	for _, p := range g.People() {
		if p.Position != first[p.ID] {
			t.Errorf("%s position changed between runs: %+v vs %+v", p.ID, first[p.ID], p.Position)
		}
		if p.Generation != gens[p.ID] {
			t.Errorf("%s generation changed between runs", p.ID)
		}
	}
}

func TestDepthJitterStableAndBounded(t *testing.T) {
	for _, id := range []string{"a", "b", "kid1", "9d3b", ""} {
		z1 := depthJitter(id)
		z2 := depthJitter(id)
		if z1 != z2 {
			t.Errorf("depthJitter(%q) not stable: %v vs %v", id, z1, z2)
		}
		if z1 < -2 || z1 > 2 {
			t.Errorf("depthJitter(%q) = %v, want within [-2,2]", id, z1)
		}
	}
}

func TestUnreachableReported(t *testing.T) {
	g := pedigree.NewGraph()
	for _, id := range []string{"root", "x", "y", "below"} {
		g.AddPerson(&pedigree.Person{ID: id})
	}
	// x and y form a parent cycle; below hangs off the cycle.
	px, _ := g.Person("x")
	px.ParentIDs = []string{"y"}
	py, _ := g.Person("y")
	py.ParentIDs = []string{"x"}
	g.SetParents("below", "x")

	// Pre-existing coordinates must survive untouched.
	px.Generation = 7
	px.Position = pedigree.Point{X: 1, Y: 2, Z: 3}

	res := mustCompute(t, g, DefaultConfig())

	want := map[string]bool{"x": true, "y": true, "below": true}
	if len(res.Unreachable) != len(want) {
		t.Fatalf("Unreachable = %v, want x, y, below", res.Unreachable)
	}
	for _, id := range res.Unreachable {
		if !want[id] {
			t.Errorf("unexpected unreachable id %s", id)
		}
	}
	if px.Generation != 7 || px.Position.X != 1 {
		t.Error("unreachable member's previous layout values were overwritten")
	}

	root, _ := g.Person("root")
	if root.Generation != 0 {
		t.Errorf("reachable root generation = %d, want 0", root.Generation)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Default", mutate: func(c *Config) {}},
		{name: "ZeroGeneration", mutate: func(c *Config) { c.GenerationSpacing = 0 }, wantErr: true},
		{name: "NegativeSibling", mutate: func(c *Config) { c.SiblingSpacing = -1 }, wantErr: true},
		{name: "ZeroBranch", mutate: func(c *Config) { c.BranchSpacing = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalidConfig", err)
			}
		})
	}
}

func TestComputeRejectsInvalidConfig(t *testing.T) {
	g := threeGenerations(t)
	if _, err := Compute(g, Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Compute() error = %v, want ErrInvalidConfig", err)
	}
}

func TestSortByDescendants(t *testing.T) {
	// Two founder couples; the second couple has children, the first
	// does not. With sorting enabled the heavier group moves left.
	g := pedigree.NewGraph()
	for _, id := range []string{"a1", "a2", "b1", "b2"} {
		g.AddPerson(&pedigree.Person{ID: id})
	}
	g.AddPerson(&pedigree.Person{ID: "c1"})
	g.AddPerson(&pedigree.Person{ID: "c2"})
	g.SetParents("c1", "b1", "b2")
	g.SetParents("c2", "b1", "b2")

	cfg := DefaultConfig()
	cfg.SortByDescendants = true
	res := mustCompute(t, g, cfg)

	order := res.Generations[0]
	if len(order) != 4 {
		t.Fatalf("generation 0 order = %v, want 4 members", order)
	}
	if order[0] != "b1" || order[1] != "b2" {
		t.Errorf("generation 0 order = %v, want b1,b2 first (heavier subtree)", order)
	}

	// The pass only permutes left-to-right order.
	b1, _ := g.Person("b1")
	if b1.Generation != 0 {
		t.Errorf("b1 generation = %d, want 0", b1.Generation)
	}
}

func TestBoundingBox(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		box := BoundingBox(nil)
		if box.Min != (pedigree.Point{}) || box.Max != (pedigree.Point{}) || box.Center != (pedigree.Point{}) {
			t.Errorf("BoundingBox(nil) = %+v, want zero box", box)
		}
	})

	t.Run("TwoPoints", func(t *testing.T) {
		people := []*pedigree.Person{
			{ID: "a", Position: pedigree.Point{X: -3, Y: 0, Z: 1}},
			{ID: "b", Position: pedigree.Point{X: 5, Y: -8, Z: -1}},
		}
		box := BoundingBox(people)
		if box.Min != (pedigree.Point{X: -3, Y: -8, Z: -1}) {
			t.Errorf("Min = %+v", box.Min)
		}
		if box.Max != (pedigree.Point{X: 5, Y: 0, Z: 1}) {
			t.Errorf("Max = %+v", box.Max)
		}
		if box.Center != (pedigree.Point{X: 1, Y: -4, Z: 0}) {
			t.Errorf("Center = %+v", box.Center)
		}
	})
}
