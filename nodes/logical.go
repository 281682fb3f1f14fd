package nodes

import "fmt"

// LogicalOp represents a binary logical connective.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (op LogicalOp) String() string {
	switch op {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return fmt.Sprintf("LogicalOp(%d)", int(op))
	}
}

// LogicalNode represents Left Op Right. No implicit grouping is applied to
// either side; wrap operands in a GroupingNode to control precedence.
type LogicalNode struct {
	op    LogicalOp
	left  Predicate
	right Predicate
}

// NewLogical creates a LogicalNode.
func NewLogical(op LogicalOp, left, right Predicate) *LogicalNode {
	if op != OpAnd && op != OpOr {
		panic(fmt.Sprintf("nodes: unknown logical operator %d", int(op)))
	}
	return &LogicalNode{op: op, left: left, right: right}
}

func (n *LogicalNode) Accept(v Visitor) string { return v.VisitLogical(n) }

// Op returns the connective.
func (n *LogicalNode) Op() LogicalOp { return n.op }

// Left returns the left operand.
func (n *LogicalNode) Left() Predicate { return n.left }

// Right returns the right operand.
func (n *LogicalNode) Right() Predicate { return n.right }
