// Package plugins defines the Transformer interface for predicate middleware.
package plugins

import "github.com/bawdo/predsql/nodes"

// Transformer rewrites a predicate before it is rendered. Trees are
// immutable, so a transformer returns a new tree rather than editing p.
// p is nil when no predicate has been set.
type Transformer interface {
	TransformPredicate(p nodes.Predicate) (nodes.Predicate, error)
}

// BaseTransformer provides a no-op default. Plugins embed it and
// override TransformPredicate.
type BaseTransformer struct{}

func (BaseTransformer) TransformPredicate(p nodes.Predicate) (nodes.Predicate, error) {
	return p, nil
}

// Apply runs transformers over p in order, stopping at the first error.
func Apply(p nodes.Predicate, transformers ...Transformer) (nodes.Predicate, error) {
	for _, t := range transformers {
		var err error
		p, err = t.TransformPredicate(p)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}
