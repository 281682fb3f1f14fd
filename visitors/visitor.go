// Package visitors renders predicate trees to SQL text.
package visitors

import (
	"fmt"
	"strings"
	"time"

	"github.com/bawdo/predsql/internal/quoting"
	"github.com/bawdo/predsql/nodes"
)

// Operator SQL strings for ComparisonOp values.
var comparisonOpSQL = [...]string{
	nodes.OpEq:        "=",
	nodes.OpNotEq:     "<>",
	nodes.OpGt:        ">",
	nodes.OpGtEq:      ">=",
	nodes.OpLt:        "<",
	nodes.OpLtEq:      "<=",
	nodes.OpLike:      "LIKE",
	nodes.OpNotLike:   "NOT LIKE",
	nodes.OpIn:        "IN",
	nodes.OpIsNull:    "IS NULL",
	nodes.OpIsNotNull: "IS NOT NULL",
}

// SQL keywords for LogicalOp values.
var logicalOpSQL = [...]string{
	nodes.OpAnd: "AND",
	nodes.OpOr:  "OR",
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithoutParams renders literal values in place of placeholders.
//
// ⚠️ WARNING: The output is for display and debugging only. Values are
// escaped with basic quoting, which is not a substitute for bind parameters.
func WithoutParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = false
	}
}

// WithQuotedColumns quotes column identifiers using the dialect's quoting
// style. Qualified names such as users.name are quoted part by part.
func WithQuotedColumns() Option {
	return func(b *baseVisitor) {
		b.quoteColumns = true
	}
}

// WithFirstPosition sets the number of the first placeholder. It only
// affects numbered placeholder styles ($1, $2, ...) and is used when the
// fragment follows other parameters in a larger statement.
func WithFirstPosition(n int) Option {
	return func(b *baseVisitor) {
		if n > 0 {
			b.first = n
		}
	}
}

// baseVisitor implements the shared SQL generation logic used by all dialects.
// Dialect-specific visitors embed *baseVisitor and set the outer field to
// themselves, so recursive Accept calls dispatch through the dialect.
type baseVisitor struct {
	outer nodes.Visitor

	// quoteIdent quotes a single identifier part.
	quoteIdent func(string) string

	// quoteColumns enables identifier quoting for column names.
	quoteColumns bool

	// parameterize emits placeholders instead of literal values.
	parameterize bool

	// first is the number given to the first placeholder (1-based).
	first int

	// paramIndex counts placeholders emitted since the last Reset.
	paramIndex int

	// placeholder returns the bind placeholder for a given position.
	placeholder func(int) string
}

func newBaseVisitor(outer nodes.Visitor, quoteIdent func(string) string, placeholder func(int) string, opts []Option) *baseVisitor {
	b := &baseVisitor{
		outer:        outer,
		quoteIdent:   quoteIdent,
		parameterize: true,
		first:        1,
		placeholder:  placeholder,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Render resets the placeholder counter and renders p.
func (b *baseVisitor) Render(p nodes.Predicate) string {
	b.Reset()
	return p.Accept(b.outer)
}

// Reset clears the placeholder counter for reuse.
func (b *baseVisitor) Reset() {
	b.paramIndex = 0
}

// Placeholders returns the number of placeholders emitted since the last Reset.
func (b *baseVisitor) Placeholders() int {
	return b.paramIndex
}

func (b *baseVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	col := b.column(n.Column())
	op := comparisonOpSQL[n.Op()]
	switch n.Op() {
	case nodes.OpIsNull, nodes.OpIsNotNull:
		return col + " " + op
	case nodes.OpIn:
		vals := n.Value().List()
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = b.value(v)
		}
		return col + " " + op + " (" + strings.Join(parts, ", ") + ")"
	default:
		return col + " " + op + " " + b.value(n.Value().Scalar())
	}
}

func (b *baseVisitor) VisitLogical(n *nodes.LogicalNode) string {
	left := n.Left().Accept(b.outer)
	right := n.Right().Accept(b.outer)
	return left + " " + logicalOpSQL[n.Op()] + " " + right
}

func (b *baseVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	return "(" + n.Expr().Accept(b.outer) + ")"
}

func (b *baseVisitor) column(name string) string {
	if !b.quoteColumns {
		return name
	}
	return quoting.Qualified(name, b.quoteIdent)
}

// value emits the next placeholder, or the literal text in display mode.
func (b *baseVisitor) value(val any) string {
	if b.parameterize {
		pos := b.first + b.paramIndex
		b.paramIndex++
		return b.placeholder(pos)
	}
	return literalToSQL(val)
}

func literalToSQL(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + quoting.EscapeString(v) + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	case time.Time:
		return "'" + v.Format(time.RFC3339Nano) + "'"
	case fmt.Stringer:
		return "'" + quoting.EscapeString(v.String()) + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SQLVisitor renders ANSI SQL with ? placeholders. Quoted columns use
// double quotes.
type SQLVisitor struct {
	*baseVisitor
}

// NewSQLVisitor creates a SQLVisitor ready for use.
func NewSQLVisitor(opts ...Option) *SQLVisitor {
	v := &SQLVisitor{}
	v.baseVisitor = newBaseVisitor(v, quoting.DoubleQuote, func(_ int) string { return "?" }, opts)
	return v
}

// ToSQL renders p with ? placeholders using a fresh SQLVisitor.
func ToSQL(p nodes.Predicate, opts ...Option) string {
	return NewSQLVisitor(opts...).Render(p)
}

// ToDisplayString renders p with literal values in place of placeholders.
// The output is not safe to execute.
func ToDisplayString(p nodes.Predicate) string {
	return NewSQLVisitor(WithoutParams()).Render(p)
}
