// Package managers assembles rendered predicates into statements.
package managers

import (
	"github.com/bawdo/predsql/nodes"
	"github.com/bawdo/predsql/plugins"
)

// Renderer turns a predicate into SQL text. Every visitor in the visitors
// package satisfies it.
type Renderer interface {
	Render(p nodes.Predicate) string
}

// treeManager holds the transformer pipeline shared by managers.
type treeManager struct {
	transformers []plugins.Transformer
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// transform runs the pipeline over p.
func (tm *treeManager) transform(p nodes.Predicate) (nodes.Predicate, error) {
	return plugins.Apply(p, tm.transformers...)
}
