// Package factory builds validated predicate trees.
//
// Every constructor resolves its field name through the configured
// mapping.Resolver and validates its value before any node is created, so
// a call either returns a complete predicate or an error and a nil
// predicate.
//
//	f := factory.New(mapping.NewStatic(map[string]string{"name": "full_name"}))
//	p, err := f.Like("name", "Jo*")
//	// full_name LIKE ?   binds: "Jo%"
package factory

import (
	"reflect"
	"strings"

	"github.com/bawdo/predsql/mapping"
	"github.com/bawdo/predsql/nodes"
)

// DefaultWildcard is the caller-facing wildcard accepted by Like and NotLike.
const DefaultWildcard = "*"

// likeWildcard is the SQL LIKE wildcard the caller token is rewritten to.
const likeWildcard = "%"

// Factory constructs predicates against a fixed field mapping.
// A Factory holds no mutable state and may be shared between goroutines.
type Factory struct {
	resolver mapping.Resolver
	wildcard string
}

// Option configures a Factory at construction time.
type Option func(*Factory)

// WithWildcard sets the caller-facing wildcard token that Like and NotLike
// rewrite to %. An empty token disables the rewrite.
func WithWildcard(token string) Option {
	return func(f *Factory) { f.wildcard = token }
}

// New creates a Factory that resolves field names through r.
func New(r mapping.Resolver, opts ...Option) *Factory {
	f := &Factory{resolver: r, wildcard: DefaultWildcard}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Equal builds field = value, or field IS NULL when value is nil.
func (f *Factory) Equal(field string, value any) (nodes.Predicate, error) {
	return f.nullable(field, value, nodes.OpEq, nodes.OpIsNull)
}

// NotEqual builds field <> value, or field IS NOT NULL when value is nil.
func (f *Factory) NotEqual(field string, value any) (nodes.Predicate, error) {
	return f.nullable(field, value, nodes.OpNotEq, nodes.OpIsNotNull)
}

// GreaterThan builds field > value.
func (f *Factory) GreaterThan(field string, value any) (nodes.Predicate, error) {
	return f.binary(field, value, nodes.OpGt)
}

// GreaterThanOrEqual builds field >= value.
func (f *Factory) GreaterThanOrEqual(field string, value any) (nodes.Predicate, error) {
	return f.binary(field, value, nodes.OpGtEq)
}

// LessThan builds field < value.
func (f *Factory) LessThan(field string, value any) (nodes.Predicate, error) {
	return f.binary(field, value, nodes.OpLt)
}

// LessThanOrEqual builds field <= value.
func (f *Factory) LessThanOrEqual(field string, value any) (nodes.Predicate, error) {
	return f.binary(field, value, nodes.OpLtEq)
}

// Like builds field LIKE pattern after rewriting the wildcard token.
func (f *Factory) Like(field string, pattern any) (nodes.Predicate, error) {
	return f.pattern(field, pattern, nodes.OpLike)
}

// NotLike builds field NOT LIKE pattern after rewriting the wildcard token.
func (f *Factory) NotLike(field string, pattern any) (nodes.Predicate, error) {
	return f.pattern(field, pattern, nodes.OpNotLike)
}

// In builds field IN (values...). Placeholder order follows values.
// A single list Value is expanded into its elements; every element must
// be a scalar, so slices and list or null Values are rejected.
func (f *Factory) In(field string, values ...any) (nodes.Predicate, error) {
	col, err := f.resolver.Resolve(field)
	if err != nil {
		return nil, err
	}
	if len(values) == 1 {
		if v, ok := values[0].(nodes.Value); ok && v.Kind() == nodes.KindList {
			values = v.List()
		}
	}
	if len(values) == 0 {
		return nil, &EmptyListError{Field: field}
	}
	elems := make([]any, len(values))
	for i, val := range values {
		if v, ok := val.(nodes.Value); ok {
			if v.Kind() != nodes.KindScalar {
				return nil, &TypeMismatchError{Op: nodes.OpIn.String(), Value: val, Want: WantScalar}
			}
			val = v.Scalar()
		}
		if isSlice(val) {
			return nil, &TypeMismatchError{Op: nodes.OpIn.String(), Value: val, Want: WantScalar}
		}
		elems[i] = val
	}
	return nodes.NewComparison(nodes.OpIn, col, nodes.List(elems...)), nil
}

// And builds left AND right. Neither side is parenthesized.
func (f *Factory) And(left, right nodes.Predicate) (nodes.Predicate, error) {
	return f.logical(nodes.OpAnd, left, right)
}

// Or builds left OR right. Neither side is parenthesized.
func (f *Factory) Or(left, right nodes.Predicate) (nodes.Predicate, error) {
	return f.logical(nodes.OpOr, left, right)
}

// Parenthesis wraps p in a grouping node.
func (f *Factory) Parenthesis(p nodes.Predicate) (nodes.Predicate, error) {
	if !nodes.Owned(p) {
		return nil, &CapabilityMismatchError{Op: "parenthesis", Got: p}
	}
	return nodes.NewGrouping(p), nil
}

func (f *Factory) nullable(field string, value any, op, nullOp nodes.ComparisonOp) (nodes.Predicate, error) {
	col, err := f.resolver.Resolve(field)
	if err != nil {
		return nil, err
	}
	v := toValue(value)
	switch v.Kind() {
	case nodes.KindNull:
		return nodes.NewComparison(nullOp, col, v), nil
	case nodes.KindList:
		return nil, &TypeMismatchError{Op: op.String(), Value: value, Want: WantScalar}
	}
	if isSlice(v.Scalar()) {
		return nil, &TypeMismatchError{Op: op.String(), Value: value, Want: WantScalar}
	}
	return nodes.NewComparison(op, col, v), nil
}

func (f *Factory) binary(field string, value any, op nodes.ComparisonOp) (nodes.Predicate, error) {
	col, err := f.resolver.Resolve(field)
	if err != nil {
		return nil, err
	}
	v := toValue(value)
	switch v.Kind() {
	case nodes.KindNull:
		// Absent is a caller error for ordering operators; it binds as NULL.
		v = nodes.Scalar(nil)
	case nodes.KindList:
		return nil, &TypeMismatchError{Op: op.String(), Value: value, Want: WantScalar}
	}
	if isSlice(v.Scalar()) {
		return nil, &TypeMismatchError{Op: op.String(), Value: value, Want: WantScalar}
	}
	return nodes.NewComparison(op, col, v), nil
}

func (f *Factory) pattern(field string, value any, op nodes.ComparisonOp) (nodes.Predicate, error) {
	col, err := f.resolver.Resolve(field)
	if err != nil {
		return nil, err
	}
	raw := value
	if v, ok := value.(nodes.Value); ok {
		raw = v.Scalar()
		if v.Kind() != nodes.KindScalar {
			return nil, &TypeMismatchError{Op: op.String(), Value: value}
		}
	}
	s, ok := raw.(string)
	if !ok {
		return nil, &TypeMismatchError{Op: op.String(), Value: value}
	}
	if f.wildcard != "" {
		s = strings.ReplaceAll(s, f.wildcard, likeWildcard)
	}
	return nodes.NewComparison(op, col, nodes.Scalar(s)), nil
}

func (f *Factory) logical(op nodes.LogicalOp, left, right nodes.Predicate) (nodes.Predicate, error) {
	name := strings.ToLower(op.String())
	if !nodes.Owned(left) {
		return nil, &CapabilityMismatchError{Op: name, Got: left}
	}
	if !nodes.Owned(right) {
		return nil, &CapabilityMismatchError{Op: name, Got: right}
	}
	return nodes.NewLogical(op, left, right), nil
}

// isSlice reports whether v is a slice other than []byte, which drivers
// bind as a single value.
func isSlice(v any) bool {
	if _, ok := v.([]byte); ok {
		return false
	}
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Slice
}

// toValue picks the value variant once, at construction time.
func toValue(value any) nodes.Value {
	switch v := value.(type) {
	case nil:
		return nodes.Null()
	case nodes.Value:
		return v
	default:
		return nodes.Scalar(v)
	}
}
