package managers

import (
	"github.com/bawdo/predsql/binder"
	"github.com/bawdo/predsql/nodes"
	"github.com/bawdo/predsql/plugins"
)

// WhereManager attaches a predicate to a fixed statement prefix such as
// "SELECT * FROM users" and produces SQL plus its ordered arguments.
//
//	m := managers.NewWhereManager("SELECT * FROM users").Where(p)
//	sql, args, err := m.ToSQL(visitors.NewPostgresVisitor())
//	rows, err := db.QueryContext(ctx, sql, args...)
type WhereManager struct {
	treeManager
	base      string
	predicate nodes.Predicate
}

// NewWhereManager creates a WhereManager for the given statement prefix.
func NewWhereManager(base string) *WhereManager {
	return &WhereManager{base: base}
}

// Where sets the predicate, or ANDs p onto the existing one. No grouping
// is added; wrap p in a parenthesis first when it contains an OR.
// A nil p is ignored.
func (m *WhereManager) Where(p nodes.Predicate) *WhereManager {
	switch {
	case p == nil:
	case m.predicate == nil:
		m.predicate = p
	default:
		m.predicate = nodes.NewLogical(nodes.OpAnd, m.predicate, p)
	}
	return m
}

// Use registers a transformer that runs before rendering.
func (m *WhereManager) Use(t plugins.Transformer) *WhereManager {
	m.addTransformer(t)
	return m
}

// Predicate returns the predicate after all transformers have run. It is
// nil when nothing was set and no transformer supplied one.
func (m *WhereManager) Predicate() (nodes.Predicate, error) {
	return m.transform(m.predicate)
}

// ToSQL renders the statement with r and returns the arguments in
// placeholder order. Without a predicate only the prefix is returned.
func (m *WhereManager) ToSQL(r Renderer) (string, []any, error) {
	p, err := m.Predicate()
	if err != nil {
		return "", nil, err
	}
	if p == nil {
		return m.base, nil, nil
	}
	args, err := binder.ArgsOf(p)
	if err != nil {
		return "", nil, err
	}
	return m.base + " WHERE " + r.Render(p), args, nil
}
