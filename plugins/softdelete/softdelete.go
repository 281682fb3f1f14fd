// Package softdelete provides a Transformer that restricts a predicate to
// rows that have not been soft-deleted, by ANDing "column IS NULL" onto it.
//
// # Basic usage
//
//	sd := softdelete.New()
//	m := managers.NewWhereManager("SELECT * FROM users").Where(p).Use(sd)
//	// SELECT * FROM users WHERE (<p>) AND deleted_at IS NULL
//
// # Custom column
//
//	sd := softdelete.New(softdelete.WithColumn("users.removed_at"))
//	// ... WHERE (<p>) AND users.removed_at IS NULL
//
// The original predicate is wrapped in parentheses so an OR inside it
// cannot escape the soft-delete condition. When the predicate already
// compares the soft-delete column, it is returned unchanged, so callers
// can still query deleted rows explicitly.
//
// # REPL usage
//
//	predsql> plugin softdelete
//	predsql> plugin softdelete removed_at
//	predsql> plugin off softdelete
package softdelete

import (
	"github.com/bawdo/predsql/nodes"
	"github.com/bawdo/predsql/plugins"
)

// SoftDelete is a Transformer that appends an IS NULL condition for the
// soft-delete column.
type SoftDelete struct {
	plugins.BaseTransformer
	Column string
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithColumn sets the soft-delete column name. Default is "deleted_at".
// The name is a physical column and is not resolved through a mapping.
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.Column = name }
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{Column: "deleted_at"}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// TransformPredicate returns (p) AND column IS NULL, or just the IS NULL
// condition when p is nil.
func (sd *SoftDelete) TransformPredicate(p nodes.Predicate) (nodes.Predicate, error) {
	isNull := nodes.NewComparison(nodes.OpIsNull, sd.Column, nodes.Null())
	if p == nil {
		return isNull, nil
	}
	if plugins.References(p, sd.Column) {
		return p, nil
	}
	return nodes.NewLogical(nodes.OpAnd, nodes.NewGrouping(p), isNull), nil
}
