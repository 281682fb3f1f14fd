package binder

import (
	"fmt"

	"github.com/bawdo/predsql/nodes"
)

// Args is a Sink that collects values into a slice suitable for the
// variadic args of database/sql. Positions must arrive contiguously,
// starting at Offset+1.
type Args struct {
	Offset int
	values []any
}

// SetValue appends value, rejecting positions that are out of order.
func (a *Args) SetValue(position int, value any) error {
	want := a.Offset + len(a.values) + 1
	if position != want {
		return fmt.Errorf("binder: position %d out of order, expected %d", position, want)
	}
	a.values = append(a.values, value)
	return nil
}

// Values returns the collected values.
func (a *Args) Values() []any {
	return a.values
}

// Len returns the number of collected values.
func (a *Args) Len() int {
	return len(a.values)
}

// ArgsOf binds p into a fresh Args and returns the values.
func ArgsOf(p nodes.Predicate) ([]any, error) {
	a := &Args{}
	if err := Bind(p, a); err != nil {
		return nil, err
	}
	return a.Values(), nil
}
