// Package layout assigns deterministic 2D/3D coordinates to every member
// of a pedigree so that generations are separated, full siblings are
// grouped, and parent-child and spousal edges can be drawn without
// ambiguity.
//
// # Algorithm
//
// Generation assignment uses longest-path layering over the resolved
// parent relation (Kahn's algorithm): roots sit at generation 0 and every
// child lands at one plus the maximum generation of its resolved parents.
// This makes marry-ins deterministic where a plain first-visit BFS would
// depend on queue order, and keeps child.Generation == parent.Generation+1
// for every resolved parent whenever the parents share a generation.
//
// Positioning then processes each generation independently: members are
// partitioned into full-sibling groups (identical parent-id sets), groups
// are laid out left to right along a running cursor, the vertical
// coordinate is -generation*GenerationSpacing, and the depth coordinate is
// a stable hash of the person id mapped into a small fixed range. The
// depth jitter is purely cosmetic de-overlap; the same id always maps to
// the same value, so repeated runs are visually stable.
//
// # Malformed input
//
// Members on or below a parent cycle never reach in-degree zero. They are
// reported in [Result.Unreachable] and keep whatever generation and
// position they had before the run; the engine terminates regardless of
// how malformed the graph is. Structural validation is the editing layer's
// job, see pedigree.Graph.Validate.
package layout
