// Package testutil provides shared test helpers for the predsql project.
package testutil

import (
	"fmt"
	"strings"

	"github.com/bawdo/predsql/nodes"
)

// StubVisitor implements nodes.Visitor with short structural strings for
// testing tree shape independently of any dialect.
type StubVisitor struct{}

var _ nodes.Visitor = StubVisitor{}

func (sv StubVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	return fmt.Sprintf("%s(%s)", n.Op(), n.Column())
}
func (sv StubVisitor) VisitLogical(n *nodes.LogicalNode) string {
	return strings.ToLower(n.Op().String()) + "[" + n.Left().Accept(sv) + "," + n.Right().Accept(sv) + "]"
}
func (sv StubVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	return "group[" + n.Expr().Accept(sv) + "]"
}

// Assignment is one (position, value) pair written to a RecordingSink.
type Assignment struct {
	Position int
	Value    any
}

// RecordingSink records every SetValue call. When FailAt is non-zero,
// SetValue returns Err for that position instead of recording it.
type RecordingSink struct {
	Assignments []Assignment
	FailAt      int
	Err         error
}

func (s *RecordingSink) SetValue(position int, value any) error {
	if s.FailAt != 0 && position == s.FailAt {
		return s.Err
	}
	s.Assignments = append(s.Assignments, Assignment{Position: position, Value: value})
	return nil
}

// Values returns the recorded values in call order.
func (s *RecordingSink) Values() []any {
	vals := make([]any, len(s.Assignments))
	for i, a := range s.Assignments {
		vals[i] = a.Value
	}
	return vals
}

// ForeignPredicate implements nodes.Predicate without belonging to the
// nodes package, for capability checks.
type ForeignPredicate struct{}

func (ForeignPredicate) Accept(nodes.Visitor) string { return "foreign" }
