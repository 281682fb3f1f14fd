package factory

import "fmt"

// TypeMismatchError is returned when an operator receives a value of the
// wrong shape: a non-string for LIKE, or a list where a scalar is expected.
type TypeMismatchError struct {
	Op    string
	Value any
	// Want describes the accepted values. Empty means string values.
	Want string
}

// Wanted shapes reported by TypeMismatchError.
const (
	WantString = "string values"
	WantScalar = "scalar values"
)

func (e *TypeMismatchError) Error() string {
	want := e.Want
	if want == "" {
		want = WantString
	}
	return fmt.Sprintf("%s comparisons only accept %s, received: %v (%T)", e.Op, want, e.Value, e.Value)
}

// CapabilityMismatchError is returned when a combinator receives a
// predicate that was not built by this package family.
type CapabilityMismatchError struct {
	Op  string
	Got any
}

func (e *CapabilityMismatchError) Error() string {
	return fmt.Sprintf("%s expects a predicate built by this factory, got %T", e.Op, e.Got)
}

// EmptyListError is returned when In is called without any values.
type EmptyListError struct {
	Field string
}

func (e *EmptyListError) Error() string {
	return fmt.Sprintf("IN on field %q requires at least one value", e.Field)
}
