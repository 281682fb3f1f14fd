package plugins

import "github.com/bawdo/predsql/nodes"

// columnCollector is a nodes.Visitor that records comparison columns in
// visit order.
type columnCollector struct {
	seen    map[string]bool
	columns []string
}

func (c *columnCollector) VisitComparison(n *nodes.ComparisonNode) string {
	if !c.seen[n.Column()] {
		c.seen[n.Column()] = true
		c.columns = append(c.columns, n.Column())
	}
	return ""
}

func (c *columnCollector) VisitLogical(n *nodes.LogicalNode) string {
	n.Left().Accept(c)
	n.Right().Accept(c)
	return ""
}

func (c *columnCollector) VisitGrouping(n *nodes.GroupingNode) string {
	n.Expr().Accept(c)
	return ""
}

// CollectColumns returns the distinct columns referenced by p, in the
// order they first appear. A nil p has no columns.
func CollectColumns(p nodes.Predicate) []string {
	if p == nil {
		return nil
	}
	c := &columnCollector{seen: make(map[string]bool)}
	p.Accept(c)
	return c.columns
}

// References reports whether p compares column anywhere in its tree.
func References(p nodes.Predicate, column string) bool {
	for _, c := range CollectColumns(p) {
		if c == column {
			return true
		}
	}
	return false
}
