// Package snapshot serializes pedigree graphs and disease catalogs to a
// stable JSON document, and rebuilds graphs from such documents.
//
// A [Snapshot] is the unit of persistence and transport: session stores,
// the HTTP API, and the export command all speak this format. Decoding
// validates structure (ids, parent counts, disease rates) so that a graph
// rebuilt from a snapshot is always safe to hand to the engines.
package snapshot
