package main

import (
	"fmt"
	"strings"

	"github.com/bawdo/predsql/plugins"
	"github.com/bawdo/predsql/plugins/softdelete"
)

// configureSoftdelete enables the softdelete plugin. The optional argument
// is a mapped field name; the plugin receives its physical column.
func configureSoftdelete(s *Session, args string) error {
	column := "deleted_at"
	if fields := strings.Fields(args); len(fields) > 0 {
		col, err := s.mapping.Resolve(fields[0])
		if err != nil {
			return err
		}
		column = col
	}

	s.plugins.register(pluginEntry{
		name: "softdelete",
		factory: func() plugins.Transformer {
			return softdelete.New(softdelete.WithColumn(column))
		},
		status: func() string { return "column: " + column },
	})
	_, _ = fmt.Fprintf(s.out, "  Soft-delete enabled (column: %s)\n", column)
	return nil
}
