// Package render produces textual renderings of a pedigree graph.
package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/genehive/genehive/pkg/pedigree"
	"github.com/genehive/genehive/pkg/risk"
)

// Options configures pedigree DOT rendering.
type Options struct {
	// Detailed includes age, generation and risk scores in node labels.
	// When false, only the name (or id) is shown.
	Detailed bool

	// SpousalEdges draws a dashed undirected edge between members that
	// share a child.
	SpousalEdges bool
}

// ToDOT converts a pedigree to Graphviz DOT format. Generations map to
// ranks top to bottom; parent→child edges are solid, spousal edges
// dashed. Members diagnosed with any disease are filled.
func ToDOT(g *pedigree.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pedigree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, p := range g.People() {
		label := fmtLabel(p, opts.Detailed)
		attrs := fmtAttrs(p, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, p := range g.People() {
		for _, parent := range g.Parents(p.ID) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", parent.ID, p.ID)
		}
	}

	if opts.SpousalEdges {
		buf.WriteString("\n")
		seen := make(map[string]bool)
		for _, p := range g.People() {
			for _, spouse := range g.Spouses(p.ID) {
				key := pairKey(p.ID, spouse)
				if seen[key] {
					continue
				}
				seen[key] = true
				fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, constraint=false];\n", p.ID, spouse)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p *pedigree.Person, detailed bool) string {
	name := p.Name
	if name == "" {
		name = p.ID
	}
	if !detailed {
		return name
	}

	parts := []string{fmt.Sprintf("age: %d", p.Age), fmt.Sprintf("gen: %d", p.Generation)}
	for _, id := range slices.Sorted(maps.Keys(p.RiskScores)) {
		parts = append(parts, fmt.Sprintf("%s: %.2f", id, p.RiskScores[id]))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(p *pedigree.Person, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if len(p.AffectedDiseaseIDs) > 0 {
		attrs = append(attrs, "fillcolor=lightcoral")
	} else if highestScore(p.RiskScores) >= risk.HighThreshold {
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	return attrs
}

func highestScore(scores map[string]float64) float64 {
	max := 0.0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	return max
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
