package layout

import "github.com/genehive/genehive/pkg/pedigree"

// Box is an axis-aligned bounding box over laid-out positions.
type Box struct {
	Min    pedigree.Point `json:"min"`
	Max    pedigree.Point `json:"max"`
	Center pedigree.Point `json:"center"`
}

// BoundingBox computes the axis-aligned min/max/center over all member
// positions. An empty member list returns the degenerate zero box rather
// than failing, so camera-framing callers never need a special case.
func BoundingBox(people []*pedigree.Person) Box {
	if len(people) == 0 {
		return Box{}
	}

	min := people[0].Position
	max := people[0].Position
	for _, p := range people[1:] {
		pos := p.Position
		if pos.X < min.X {
			min.X = pos.X
		}
		if pos.Y < min.Y {
			min.Y = pos.Y
		}
		if pos.Z < min.Z {
			min.Z = pos.Z
		}
		if pos.X > max.X {
			max.X = pos.X
		}
		if pos.Y > max.Y {
			max.Y = pos.Y
		}
		if pos.Z > max.Z {
			max.Z = pos.Z
		}
	}

	return Box{
		Min: min,
		Max: max,
		Center: pedigree.Point{
			X: (min.X + max.X) / 2,
			Y: (min.Y + max.Y) / 2,
			Z: (min.Z + max.Z) / 2,
		},
	}
}
