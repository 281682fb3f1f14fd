package nodes

import "fmt"

// ComparisonOp represents a comparison operator.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpNotEq
	OpGt
	OpGtEq
	OpLt
	OpLtEq
	OpLike
	OpNotLike
	OpIn
	OpIsNull
	OpIsNotNull
)

var comparisonOpNames = [...]string{
	OpEq:        "EQ",
	OpNotEq:     "NEQ",
	OpGt:        "GT",
	OpGtEq:      "GTE",
	OpLt:        "LT",
	OpLtEq:      "LTE",
	OpLike:      "LIKE",
	OpNotLike:   "NOT_LIKE",
	OpIn:        "IN",
	OpIsNull:    "IS_NULL",
	OpIsNotNull: "IS_NOT_NULL",
}

func (op ComparisonOp) String() string {
	if op < 0 || int(op) >= len(comparisonOpNames) {
		return fmt.Sprintf("ComparisonOp(%d)", int(op))
	}
	return comparisonOpNames[op]
}

// wants returns the value kind an operator requires.
func (op ComparisonOp) wants() ValueKind {
	switch op {
	case OpIsNull, OpIsNotNull:
		return KindNull
	case OpIn:
		return KindList
	default:
		return KindScalar
	}
}

// ComparisonNode represents Column Op Value.
type ComparisonNode struct {
	op     ComparisonOp
	column string
	value  Value
}

// NewComparison creates a ComparisonNode. The value kind must match the
// operator: null for OpIsNull/OpIsNotNull, list for OpIn, scalar otherwise.
// A mismatch is a programming error and panics; the factory package never
// produces one.
func NewComparison(op ComparisonOp, column string, value Value) *ComparisonNode {
	if op < 0 || int(op) >= len(comparisonOpNames) {
		panic(fmt.Sprintf("nodes: unknown comparison operator %d", int(op)))
	}
	if value.Kind() != op.wants() {
		panic(fmt.Sprintf("nodes: %s requires a %s value, got %s", op, op.wants(), value.Kind()))
	}
	return &ComparisonNode{op: op, column: column, value: value}
}

func (n *ComparisonNode) Accept(v Visitor) string { return v.VisitComparison(n) }

// Op returns the comparison operator.
func (n *ComparisonNode) Op() ComparisonOp { return n.op }

// Column returns the resolved column name.
func (n *ComparisonNode) Column() string { return n.column }

// Value returns the right-hand value.
func (n *ComparisonNode) Value() Value { return n.value }
