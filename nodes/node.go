// Package nodes defines the immutable predicate tree that visitors render
// into parameterized SQL and binders walk to collect bind values.
//
// The set of node types is closed: ComparisonNode, LogicalNode and
// GroupingNode. Trees are normally built through the factory package,
// which resolves field names and validates values before calling the
// constructors here.
package nodes

// Predicate is the interface that all predicate tree nodes implement.
type Predicate interface {
	Accept(visitor Visitor) string
}

// Visitor defines the interface for walking a predicate tree.
// Every traversal (SQL rendering, bind collection, DOT output) implements
// all three methods, so they all dispatch on the same variants and visit
// children in the same left-to-right order.
type Visitor interface {
	VisitComparison(node *ComparisonNode) string
	VisitLogical(node *LogicalNode) string
	VisitGrouping(node *GroupingNode) string
}

// Owned reports whether p is a non-nil node of this package.
// Foreign implementations of Predicate are not owned.
func Owned(p Predicate) bool {
	switch n := p.(type) {
	case *ComparisonNode:
		return n != nil
	case *LogicalNode:
		return n != nil
	case *GroupingNode:
		return n != nil
	default:
		return false
	}
}
