// Package predsql builds filter predicates over a field mapping and renders
// them as parameterized SQL WHERE fragments.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/predsql/mapping (field to column resolution)
//   - github.com/bawdo/predsql/factory (predicate constructors)
//   - github.com/bawdo/predsql/visitors (SQL generation)
//   - github.com/bawdo/predsql/binder (bind value delivery)
//   - github.com/bawdo/predsql/managers (statement assembly)
//   - github.com/bawdo/predsql/plugins (predicate transformers)
package predsql

import (
	"io"

	"github.com/bawdo/predsql/binder"
	"github.com/bawdo/predsql/factory"
	"github.com/bawdo/predsql/managers"
	"github.com/bawdo/predsql/mapping"
	"github.com/bawdo/predsql/nodes"
	"github.com/bawdo/predsql/visitors"
)

// --- Core Types ---

// Predicate is a node of a predicate tree.
type Predicate = nodes.Predicate

// Resolver maps public field names to column names.
type Resolver = mapping.Resolver

// Factory builds predicates over a Resolver.
type Factory = factory.Factory

// Sink receives bind values by position.
type Sink = binder.Sink

// SinkFunc adapts a function to Sink.
type SinkFunc = binder.SinkFunc

// --- Errors ---

type (
	UnknownFieldError       = mapping.UnknownFieldError
	TypeMismatchError       = factory.TypeMismatchError
	CapabilityMismatchError = factory.CapabilityMismatchError
	EmptyListError          = factory.EmptyListError
)

// --- Constructors ---

// NewMapping creates a static Resolver from field: column pairs.
func NewMapping(columns map[string]string) *mapping.Static {
	return mapping.NewStatic(columns)
}

// LoadMapping reads a YAML mapping document.
func LoadMapping(r io.Reader) (*mapping.Static, error) {
	return mapping.Load(r)
}

// NewFactory creates a predicate factory over r.
func NewFactory(r Resolver, opts ...factory.Option) *factory.Factory {
	return factory.New(r, opts...)
}

// NewWhere creates a WhereManager for the given statement prefix.
func NewWhere(base string) *managers.WhereManager {
	return managers.NewWhereManager(base)
}

// --- Rendering ---

// ToSQL renders p with ? placeholders.
func ToSQL(p Predicate, opts ...visitors.Option) string {
	return visitors.ToSQL(p, opts...)
}

// ToDisplayString renders p with literal values. Not for execution.
func ToDisplayString(p Predicate) string {
	return visitors.ToDisplayString(p)
}

// NewPostgresVisitor creates a visitor emitting $1, $2, ... placeholders.
func NewPostgresVisitor(opts ...visitors.Option) *visitors.PostgresVisitor {
	return visitors.NewPostgresVisitor(opts...)
}

// NewMySQLVisitor creates a visitor emitting ? placeholders and backtick quoting.
func NewMySQLVisitor(opts ...visitors.Option) *visitors.MySQLVisitor {
	return visitors.NewMySQLVisitor(opts...)
}

// --- Binding ---

// Bind writes the bind values of p to sink starting at position 1.
func Bind(p Predicate, sink Sink) error {
	return binder.Bind(p, sink)
}

// Args returns the bind values of p for database/sql.
func Args(p Predicate) ([]any, error) {
	return binder.ArgsOf(p)
}
