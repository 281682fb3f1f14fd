package visitors

import "github.com/bawdo/predsql/internal/quoting"

// MySQLVisitor renders SQL with ? placeholders.
// Quoted columns use backticks: `users`.`name`.
type MySQLVisitor struct {
	*baseVisitor
}

// NewMySQLVisitor creates a MySQLVisitor ready for use.
func NewMySQLVisitor(opts ...Option) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = newBaseVisitor(v, quoting.Backtick, func(_ int) string { return "?" }, opts)
	return v
}
