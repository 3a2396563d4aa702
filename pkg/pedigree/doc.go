// Package pedigree provides the family-tree data model shared by the risk
// propagation and layout engines.
//
// # Overview
//
// A pedigree is a directed acyclic graph of [Person] records layered by
// generation: edges run from parent to child, every person has at most two
// parents, and generations strictly increase along parent→child edges.
// [Graph] is an arena of Person records indexed by id. The child index is
// always derived from the parent ids, so the parent/child symmetry
// invariant cannot drift out of sync through partial mutation.
//
// # Basic Usage
//
// Create a graph with [NewGraph], add members with [Graph.AddPerson], and
// wire relationships with [Graph.SetParents]:
//
//	g := pedigree.NewGraph()
//	g.AddPerson(&pedigree.Person{ID: "gm", Sex: pedigree.Female, Age: 71})
//	g.AddPerson(&pedigree.Person{ID: "mom", Sex: pedigree.Female, Age: 44})
//	g.SetParents("mom", "gm")
//
// Query structure with [Graph.Parents], [Graph.Children], [Graph.Roots] and
// [Graph.Spouses]. Use [Graph.Validate] before handing the graph to either
// engine: the engines themselves prioritize termination over rejecting
// malformed input and will silently skip unresolved parent references.
//
// # Ownership
//
// Person records are mutable and owned by the caller's Graph. The engines
// only read identity, relationship and diagnosis fields, and only write
// their own output fields (RiskScores for the risk engine, Position and
// Generation for the layout engine).
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. The two engines
// write disjoint Person fields and may run concurrently over the same
// stable snapshot, but no relationship may be edited while either runs.
package pedigree
