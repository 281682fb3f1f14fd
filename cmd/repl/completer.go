package main

import (
	"fmt"
	"sort"
	"strings"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextNone                               // no candidates
	contextField                              // mapped field names
	contextRef                                // #n predicate references
	contextTableName                          // after run
	contextEngine                             // after engine
	contextPlugin                             // after plugin
	contextPluginOff                          // after plugin off
)

var engineNames = []string{"mysql", "postgres", "sqlite"}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix
// being completed; newLine holds the suffix to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	ctx, prefix := c.parseContext(string(line[:pos]))

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextField:
		candidates = filterPrefix(c.sess.mapping.Fields(), prefix)
	case contextRef:
		candidates = filterPrefix(c.refs(), prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextEngine:
		candidates = filterPrefix(engineNames, prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		candidates = filterPrefix(c.sess.plugins.names(), prefix)
	}

	for _, cand := range candidates {
		newLine = append(newLine, []rune(cand[len(prefix):]+" "))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to the cursor and determines what kind
// of completion is needed and the current prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)
	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue // exact-match commands have no arg completion
		}
		if strings.HasPrefix(lower, cmd.prefix) && cmd.completer != nil {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}
	return contextCommand, strings.TrimSpace(line)
}

// refs lists #1..#n for the predicates built so far.
func (c *replCompleter) refs() []string {
	out := make([]string, len(c.sess.preds))
	for i := range c.sess.preds {
		out[i] = fmt.Sprintf("#%d", i+1)
	}
	return out
}

// completeTableNames returns tables of the connected database.
func (c *replCompleter) completeTableNames(prefix string) []string {
	if c.sess.conn == nil {
		return nil
	}
	names := append([]string(nil), c.sess.conn.tables...)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last whitespace or comma separated token.
func lastToken(s string) string {
	if i := strings.LastIndexAny(s, " ,\t"); i >= 0 {
		return s[i+1:]
	}
	return s
}
