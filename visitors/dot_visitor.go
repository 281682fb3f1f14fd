package visitors

import (
	"fmt"
	"strings"

	"github.com/bawdo/predsql/nodes"
)

// Color constants for DOT node categories.
const (
	colorComparison = "#FFB347" // orange: comparisons
	colorLogical    = "#FFEB80" // yellow: logical and grouping
	colorLiteral    = "#D3D3D3" // grey: bind values
)

// dotNode represents a single node in the DOT graph.
type dotNode struct {
	id    string
	label string
	color string
}

// dotEdge represents a directed edge between two nodes in the DOT graph.
type dotEdge struct {
	from  string
	to    string
	label string
}

// DotVisitor walks a predicate tree and produces Graphviz DOT output.
// Bind values appear as leaf nodes whose edges carry their bind position,
// numbered in the same order Bind assigns them.
// It implements nodes.Visitor.
type DotVisitor struct {
	nextID    int
	position  int
	nodes     []dotNode
	edges     []dotEdge
	parentID  string
	edgeLabel string
}

// NewDotVisitor creates a new DotVisitor ready to walk a tree.
func NewDotVisitor() *DotVisitor {
	return &DotVisitor{}
}

// addNode creates a new DOT node with the given label and color, returning its ID.
func (dv *DotVisitor) addNode(label, color string) string {
	id := fmt.Sprintf("n%d", dv.nextID)
	dv.nextID++
	dv.nodes = append(dv.nodes, dotNode{id: id, label: label, color: color})
	return id
}

// addEdge records a directed edge from one node to another.
func (dv *DotVisitor) addEdge(from, to, label string) {
	dv.edges = append(dv.edges, dotEdge{from: from, to: to, label: label})
}

// visitChild saves and restores the parent context, sets the edge label,
// and calls child.Accept to recursively visit the child node.
func (dv *DotVisitor) visitChild(parentID, label string, child nodes.Predicate) string {
	savedParent := dv.parentID
	savedLabel := dv.edgeLabel
	dv.parentID = parentID
	dv.edgeLabel = label
	result := child.Accept(dv)
	dv.parentID = savedParent
	dv.edgeLabel = savedLabel
	return result
}

// connectToParent adds an edge from the current parentID to nodeID if a parent exists.
func (dv *DotVisitor) connectToParent(nodeID string) {
	if dv.parentID != "" {
		dv.addEdge(dv.parentID, nodeID, dv.edgeLabel)
	}
}

// addBind adds a leaf node for one bind value and returns its ID.
func (dv *DotVisitor) addBind(parentID string, val any) string {
	dv.position++
	id := dv.addNode("Bind\\n"+literalToSQL(val), colorLiteral)
	dv.addEdge(parentID, id, fmt.Sprintf("BIND[%d]", dv.position))
	return id
}

// NodeCount returns the number of nodes accumulated so far.
func (dv *DotVisitor) NodeCount() int {
	return len(dv.nodes)
}

// ToDot generates the complete DOT graph text.
func (dv *DotVisitor) ToDot() string {
	var sb strings.Builder

	sb.WriteString("digraph Predicate {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	for _, n := range dv.nodes {
		fmt.Fprintf(&sb, "  %s [label=\"%s\", fillcolor=\"%s\"];\n", n.id, escapeLabel(n.label), n.color)
	}
	for _, e := range dv.edges {
		if e.label != "" {
			fmt.Fprintf(&sb, "  %s -> %s [label=\"%s\"];\n", e.from, e.to, e.label)
		} else {
			fmt.Fprintf(&sb, "  %s -> %s;\n", e.from, e.to)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

// ToDot renders p as a Graphviz DOT graph using a fresh DotVisitor.
func ToDot(p nodes.Predicate) string {
	dv := NewDotVisitor()
	p.Accept(dv)
	return dv.ToDot()
}

// --- Visitor interface implementation ---

func (dv *DotVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	label := "Comparison\\n" + n.Column() + " " + comparisonOpSQL[n.Op()]
	id := dv.addNode(label, colorComparison)
	dv.connectToParent(id)
	for _, v := range n.Value().Binds() {
		dv.addBind(id, v)
	}
	return id
}

func (dv *DotVisitor) VisitLogical(n *nodes.LogicalNode) string {
	id := dv.addNode(logicalOpSQL[n.Op()], colorLogical)
	dv.connectToParent(id)
	dv.visitChild(id, "LEFT", n.Left())
	dv.visitChild(id, "RIGHT", n.Right())
	return id
}

func (dv *DotVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	id := dv.addNode("Grouping\\n( )", colorLogical)
	dv.connectToParent(id)
	dv.visitChild(id, "EXPR", n.Expr())
	return id
}
