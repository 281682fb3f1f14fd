package visitors

import (
	"fmt"

	"github.com/bawdo/predsql/internal/quoting"
)

// PostgresVisitor renders SQL with numbered placeholders: $1, $2, ...
// Quoted columns use double quotes: "users"."name".
type PostgresVisitor struct {
	*baseVisitor
}

// NewPostgresVisitor creates a PostgresVisitor ready for use.
func NewPostgresVisitor(opts ...Option) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = newBaseVisitor(v, quoting.DoubleQuote, func(i int) string { return fmt.Sprintf("$%d", i) }, opts)
	return v
}
