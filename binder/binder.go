// Package binder collects the bind values of a predicate tree in
// placeholder order and writes them to a caller-owned Sink.
//
// Collection walks the tree through the same nodes.Visitor dispatch the
// SQL renderers use, so the i-th collected value always belongs to the
// i-th placeholder in the rendered text.
package binder

import "github.com/bawdo/predsql/nodes"

// FirstPosition is the position of the first bind value.
const FirstPosition = 1

// Sink receives bind values. Implementations perform any type-specific
// encoding; positions are written in strictly ascending order.
type Sink interface {
	SetValue(position int, value any) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(position int, value any) error

// SetValue calls fn(position, value).
func (fn SinkFunc) SetValue(position int, value any) error {
	return fn(position, value)
}

// collector is a nodes.Visitor that appends bind values to an ordered
// buffer. Its string results are unused.
type collector struct {
	values []any
}

func (c *collector) VisitComparison(n *nodes.ComparisonNode) string {
	c.values = append(c.values, n.Value().Binds()...)
	return ""
}

func (c *collector) VisitLogical(n *nodes.LogicalNode) string {
	n.Left().Accept(c)
	n.Right().Accept(c)
	return ""
}

func (c *collector) VisitGrouping(n *nodes.GroupingNode) string {
	n.Expr().Accept(c)
	return ""
}

// Values returns the bind values of p in placeholder order.
func Values(p nodes.Predicate) []any {
	c := &collector{}
	p.Accept(c)
	return c.values
}

// Bind writes the bind values of p to sink at positions 1, 2, ...
// The first error returned by sink is returned unchanged and no further
// positions are written.
func Bind(p nodes.Predicate, sink Sink) error {
	return BindFrom(p, sink, FirstPosition)
}

// BindFrom is like Bind but numbers positions starting at first. Use it
// when the fragment follows other parameters in a larger statement.
func BindFrom(p nodes.Predicate, sink Sink, first int) error {
	for i, v := range Values(p) {
		if err := sink.SetValue(first+i, v); err != nil {
			return err
		}
	}
	return nil
}
