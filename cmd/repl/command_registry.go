package main

import (
	"sort"
	"strings"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- mapping ---
		{prefix: "map ", handler: func(a string) error { return s.cmdMap(a) }},
		{prefix: "mapping", handler: func(_ string) error { return s.cmdMapping() }},
		{prefix: "load ", handler: func(a string) error { return s.cmdLoad(a) }},

		// --- predicate building ---
		{prefix: "in ", handler: func(a string) error { return s.cmdIn(a) }, completer: completeFieldArgs},
		{prefix: "and ", handler: func(a string) error { return s.cmdLogical("and", a) }, completer: completeRefArgs},
		{prefix: "or ", handler: func(a string) error { return s.cmdLogical("or", a) }, completer: completeRefArgs},
		{prefix: "paren ", handler: func(a string) error { return s.cmdParen(a) }, completer: completeRefArgs},
		{prefix: "list", handler: func(_ string) error { return s.cmdList() }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},

		// --- output ---
		{prefix: "sql ", handler: func(a string) error { return s.cmdSQL(a) }, completer: completeRefArgs},
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL("") }},
		{prefix: "pretty ", handler: func(a string) error { return s.cmdPretty(a) }, completer: completeRefArgs},
		{prefix: "pretty", handler: func(_ string) error { return s.cmdPretty("") }},
		{prefix: "display ", handler: func(a string) error { return s.cmdDisplay(a) }, completer: completeRefArgs},
		{prefix: "display", handler: func(_ string) error { return s.cmdDisplay("") }},
		{prefix: "binds ", handler: func(a string) error { return s.cmdBinds(a) }, completer: completeRefArgs},
		{prefix: "binds", handler: func(_ string) error { return s.cmdBinds("") }},
		{prefix: "dot ", handler: func(a string) error { return s.cmdDot(a) }},
		{prefix: "dot", handler: func(_ string) error { return s.cmdDot("") }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- settings ---
		{prefix: "engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: completeEngineArgs},
		{prefix: "quote", handler: func(_ string) error { return s.cmdQuote() }},
		{prefix: "plugin ", handler: func(a string) error { return s.cmdPlugin(a) }, completer: completePluginArgs},
		{prefix: "plugins", handler: func(_ string) error { s.cmdPlugins(); return nil }},

		// --- database connectivity ---
		{prefix: "connect ", handler: func(a string) error { return s.cmdConnect(a) }},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec ", handler: func(a string) error { return s.cmdExec(a) }},
		{prefix: "run ", handler: func(a string) error { return s.cmdRun(a) }, completer: completeTableArgs},
	}

	for _, name := range []string{"eq", "neq", "gt", "gte", "lt", "lte", "like", "notlike"} {
		name := name
		s.commands = append(s.commands, commandEntry{
			prefix:    name + " ",
			handler:   func(a string) error { return s.cmdCompare(name, a) },
			completer: completeFieldArgs,
		})
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// --- Shared completion helpers ---

// completeFieldArgs completes the field name of a comparison command.
// Values are not completed.
func completeFieldArgs(args string) (completionContext, string) {
	if strings.ContainsAny(args, " \t") {
		return contextNone, ""
	}
	return contextField, args
}

// completeRefArgs completes #n references for combinators and output commands.
func completeRefArgs(args string) (completionContext, string) {
	return contextRef, lastToken(args)
}

// completeTableArgs completes the table of the run command, then a reference.
func completeTableArgs(args string) (completionContext, string) {
	if strings.ContainsAny(args, " \t") {
		return contextRef, lastToken(args)
	}
	return contextTableName, args
}

// completeEngineArgs handles completion for the engine command.
func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

// completePluginArgs handles completion for the plugin command:
// plugin names, or after "off" the names of enabled plugins.
func completePluginArgs(args string) (completionContext, string) {
	if strings.HasPrefix(strings.ToLower(args), "off ") {
		return contextPluginOff, strings.TrimSpace(args[4:])
	}
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextPlugin, arg
	}
	// Second softdelete argument is a field.
	return contextField, lastToken(args)
}
