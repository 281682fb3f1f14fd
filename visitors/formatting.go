package visitors

import (
	"strings"

	"github.com/bawdo/predsql/nodes"
)

// resetter is implemented by visitors that carry a placeholder counter.
type resetter interface {
	Reset()
}

// FormattingVisitor wraps a dialect visitor and produces human-readable
// multi-line SQL: each AND/OR connective starts a new line and grouped
// expressions are indented one level. Comparisons are rendered by the
// inner visitor, so placeholders are numbered exactly as in the
// single-line output.
type FormattingVisitor struct {
	inner  nodes.Visitor
	indent string
	depth  int
}

var _ nodes.Visitor = (*FormattingVisitor)(nil)

// NewFormattingVisitor constructs a FormattingVisitor wrapping the given
// dialect visitor.
func NewFormattingVisitor(inner nodes.Visitor) *FormattingVisitor {
	if inner == nil {
		panic("predsql: FormattingVisitor requires a non-nil inner visitor")
	}
	return &FormattingVisitor{inner: inner, indent: "  "}
}

// Render resets the inner visitor (when it has a counter) and renders p.
func (f *FormattingVisitor) Render(p nodes.Predicate) string {
	if r, ok := f.inner.(resetter); ok {
		r.Reset()
	}
	f.depth = 0
	return p.Accept(f)
}

func (f *FormattingVisitor) pad() string {
	return strings.Repeat(f.indent, f.depth)
}

func (f *FormattingVisitor) VisitComparison(node *nodes.ComparisonNode) string {
	return f.inner.VisitComparison(node)
}

func (f *FormattingVisitor) VisitLogical(node *nodes.LogicalNode) string {
	left := node.Left().Accept(f)
	right := node.Right().Accept(f)
	return left + "\n" + f.pad() + logicalOpSQL[node.Op()] + " " + right
}

func (f *FormattingVisitor) VisitGrouping(node *nodes.GroupingNode) string {
	f.depth++
	inner := node.Expr().Accept(f)
	f.depth--
	return "(\n" + strings.Repeat(f.indent, f.depth+1) + inner + "\n" + f.pad() + ")"
}
