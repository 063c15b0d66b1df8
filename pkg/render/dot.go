package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/graph"
)

// GenerateDOT converts a graph to Graphviz DOT format. State positions are
// written as pinned coordinates in points so neato reproduces the layout;
// dot ignores them. Rules sharing a source and target are stacked on one
// edge label.
func GenerateDOT(g *graph.Graph, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph TM {\n")
	sb.WriteString("    node [shape=circle, style=filled, fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	// Title
	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	// State nodes
	for _, s := range g.States {
		fill := geometry.Hex(s.Color)
		font := geometry.Hex(geometry.ContrastColor(s.Color))
		// screen Y grows downwards, Graphviz Y grows upwards
		y := -s.Position.Y
		if y == 0 {
			y = 0 // no "-0"
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" [fillcolor=\"%s\", fontcolor=\"%s\", pos=\"%.0f,%.0f!\"];\n",
			escapeDOT(s.Name), fill, font, s.Position.X, y))
	}
	sb.WriteString("\n")

	// Group transitions by (from, to)
	edgeLabels := make(map[[2]int][]string)
	for _, s := range g.States {
		for _, t := range s.Transitions {
			key := [2]int{t.ParentID, t.TargetID}
			edgeLabels[key] = append(edgeLabels[key], t.Text)
		}
	}
	keys := make([][2]int, 0, len(edgeLabels))
	for k := range edgeLabels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	// Write edges
	for _, key := range keys {
		from, to := g.State(key[0]), g.State(key[1])
		if from == nil || to == nil {
			continue
		}
		labels := edgeLabels[key]
		escaped := make([]string, len(labels))
		for i, l := range labels {
			escaped[i] = escapeDOT(l)
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [label=\"%s\"];\n",
			escapeDOT(from.Name), escapeDOT(to.Name), strings.Join(escaped, "\\n")))
	}

	sb.WriteString("}\n")

	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
