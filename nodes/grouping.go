package nodes

// GroupingNode wraps a predicate in parentheses for precedence control.
type GroupingNode struct {
	expr Predicate
}

// NewGrouping creates a GroupingNode around expr.
func NewGrouping(expr Predicate) *GroupingNode {
	return &GroupingNode{expr: expr}
}

func (n *GroupingNode) Accept(v Visitor) string { return v.VisitGrouping(n) }

// Expr returns the wrapped predicate.
func (n *GroupingNode) Expr() Predicate { return n.expr }
