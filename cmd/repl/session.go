package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ergochat/readline"

	"github.com/bawdo/predsql/binder"
	"github.com/bawdo/predsql/factory"
	"github.com/bawdo/predsql/internal/quoting"
	"github.com/bawdo/predsql/managers"
	"github.com/bawdo/predsql/mapping"
	"github.com/bawdo/predsql/nodes"
	"github.com/bawdo/predsql/plugins"
	"github.com/bawdo/predsql/visitors"
)

// sqlRenderer is satisfied by every dialect visitor.
type sqlRenderer interface {
	nodes.Visitor
	Render(p nodes.Predicate) string
}

// Session holds the REPL state: the field mapping, the predicates built so
// far, the active engine, and any enabled plugins.
type Session struct {
	mapping     *mapping.Static
	factory     *factory.Factory
	preds       []nodes.Predicate
	engine      string
	quote       bool
	plugins     pluginRegistry     // enabled plugins
	configurers []pluginConfigurer // all known plugins
	commands    []commandEntry     // command registry (sorted by prefix length desc)
	conn        *dbConn            // nil when disconnected
	lastDSN     string             // remembers the previous DSN for reconnect
	rl          *readline.Instance
	out         io.Writer    // destination for REPL output (default os.Stdout)
	log         *slog.Logger // diagnostics
}

// NewSession creates a session for the given SQL dialect with an empty
// mapping.
func NewSession(engine string, rl *readline.Instance) *Session {
	s := &Session{
		rl:  rl,
		out: os.Stdout,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.setMapping(mapping.NewStatic(nil))
	s.configurers = []pluginConfigurer{
		{name: "softdelete", configure: configureSoftdelete},
	}
	s.setEngine(engine)
	s.initCommands()
	return s
}

// pluginNames returns the names of all known plugins (for tab completion).
func (s *Session) pluginNames() []string {
	names := make([]string, len(s.configurers))
	for i, c := range s.configurers {
		names[i] = c.name
	}
	return names
}

func (s *Session) setEngine(engine string) {
	if !isValidEngine(engine) {
		engine = "postgres"
	}
	s.engine = engine
}

func (s *Session) setMapping(m *mapping.Static) {
	s.mapping = m
	s.factory = factory.New(m)
}

// newVisitor returns a visitor for the current engine. Display mode renders
// literal values instead of placeholders.
func (s *Session) newVisitor(display bool) sqlRenderer {
	var opts []visitors.Option
	if display {
		opts = append(opts, visitors.WithoutParams())
	}
	if s.quote {
		opts = append(opts, visitors.WithQuotedColumns())
	}
	switch s.engine {
	case "mysql":
		return visitors.NewMySQLVisitor(opts...)
	case "sqlite":
		return visitors.NewSQLVisitor(opts...)
	default:
		return visitors.NewPostgresVisitor(opts...)
	}
}

func (s *Session) quoteIdent() func(string) string {
	if s.engine == "mysql" {
		return quoting.Backtick
	}
	return quoting.DoubleQuote
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// add stores p and prints its reference.
func (s *Session) add(p nodes.Predicate) {
	s.preds = append(s.preds, p)
	_, _ = fmt.Fprintf(s.out, "  #%d  %s\n", len(s.preds), s.newVisitor(true).Render(p))
}

// pick resolves an optional "#n" argument. Empty means the latest predicate.
func (s *Session) pick(arg string) (nodes.Predicate, error) {
	if len(s.preds) == 0 {
		return nil, errNoPredicates
	}
	if arg == "" {
		return s.preds[len(s.preds)-1], nil
	}
	i, err := parseRef(arg, len(s.preds))
	if err != nil {
		return nil, err
	}
	return s.preds[i], nil
}

// effective resolves a reference and runs the enabled plugins over it.
func (s *Session) effective(arg string) (nodes.Predicate, error) {
	p, err := s.pick(arg)
	if err != nil {
		return nil, err
	}
	return plugins.Apply(p, s.plugins.transformers()...)
}

// --- Mapping ---

func (s *Session) cmdMap(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: map <field> <column>")
	}
	if !isIdentifier(parts[1]) {
		return fmt.Errorf("invalid column name %q", parts[1])
	}
	s.setMapping(s.mapping.With(parts[0], parts[1]))
	_, _ = fmt.Fprintf(s.out, "  Mapped %s -> %s\n", parts[0], parts[1])
	return nil
}

func (s *Session) cmdMapping() error {
	fields := s.mapping.Fields()
	if len(fields) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No fields mapped")
		return nil
	}
	for _, f := range fields {
		col, _ := s.mapping.Resolve(f)
		_, _ = fmt.Fprintf(s.out, "  %-16s -> %s\n", f, col)
	}
	return nil
}

func (s *Session) cmdLoad(args string) error {
	if args == "" {
		return errors.New("usage: load <file.yaml>")
	}
	m, err := mapping.LoadFile(args)
	if err != nil {
		return err
	}
	for _, f := range m.Fields() {
		if col, _ := m.Resolve(f); !isIdentifier(col) {
			return fmt.Errorf("load %s: invalid column name %q for field %q", args, col, f)
		}
	}
	s.setMapping(m)
	s.log.Info("mapping loaded", "path", args, "fields", len(m.Fields()))
	_, _ = fmt.Fprintf(s.out, "  Loaded %d field(s) from %s\n", len(m.Fields()), args)
	return nil
}

// --- Predicate building ---

type comparisonFunc func(field string, value any) (nodes.Predicate, error)

func (s *Session) comparisons() map[string]comparisonFunc {
	return map[string]comparisonFunc{
		"eq":      s.factory.Equal,
		"neq":     s.factory.NotEqual,
		"gt":      s.factory.GreaterThan,
		"gte":     s.factory.GreaterThanOrEqual,
		"lt":      s.factory.LessThan,
		"lte":     s.factory.LessThanOrEqual,
		"like":    s.factory.Like,
		"notlike": s.factory.NotLike,
	}
}

func (s *Session) cmdCompare(name, args string) error {
	tokens := tokenize(args)
	if len(tokens) != 2 {
		return fmt.Errorf("usage: %s <field> <value>", name)
	}
	val, err := parseValue(tokens[1])
	if err != nil {
		return err
	}
	p, err := s.comparisons()[name](tokens[0], val)
	if err != nil {
		return err
	}
	s.add(p)
	return nil
}

func (s *Session) cmdIn(args string) error {
	tokens := tokenize(args)
	if len(tokens) == 0 {
		return errors.New("usage: in <field> <v1>, <v2>, ...")
	}
	vals, err := parseValues(tokens[1:])
	if err != nil {
		return err
	}
	p, err := s.factory.In(tokens[0], vals...)
	if err != nil {
		return err
	}
	s.add(p)
	return nil
}

func (s *Session) cmdLogical(name, args string) error {
	refs := strings.Fields(args)
	if len(refs) != 2 {
		return fmt.Errorf("usage: %s #a #b", name)
	}
	left, err := s.pick(refs[0])
	if err != nil {
		return err
	}
	right, err := s.pick(refs[1])
	if err != nil {
		return err
	}
	combine := s.factory.And
	if name == "or" {
		combine = s.factory.Or
	}
	p, err := combine(left, right)
	if err != nil {
		return err
	}
	s.add(p)
	return nil
}

func (s *Session) cmdParen(args string) error {
	if args == "" {
		return errors.New("usage: paren #n")
	}
	inner, err := s.pick(args)
	if err != nil {
		return err
	}
	p, err := s.factory.Parenthesis(inner)
	if err != nil {
		return err
	}
	s.add(p)
	return nil
}

// --- Output ---

func (s *Session) cmdList() error {
	if len(s.preds) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No predicates")
		return nil
	}
	v := s.newVisitor(true)
	for i, p := range s.preds {
		_, _ = fmt.Fprintf(s.out, "  #%d  %s\n", i+1, v.Render(p))
	}
	return nil
}

func (s *Session) cmdSQL(args string) error {
	p, err := s.effective(args)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s\n", s.newVisitor(false).Render(p))
	if vals := binder.Values(p); len(vals) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Binds: %v\n", vals)
	}
	return nil
}

func (s *Session) cmdPretty(args string) error {
	p, err := s.effective(args)
	if err != nil {
		return err
	}
	text := visitors.NewFormattingVisitor(s.newVisitor(false)).Render(p)
	for _, line := range strings.Split(text, "\n") {
		_, _ = fmt.Fprintf(s.out, "  %s\n", line)
	}
	return nil
}

func (s *Session) cmdDisplay(args string) error {
	p, err := s.effective(args)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s\n", s.newVisitor(true).Render(p))
	return nil
}

func (s *Session) cmdBinds(args string) error {
	p, err := s.effective(args)
	if err != nil {
		return err
	}
	n := 0
	err = binder.Bind(p, binder.SinkFunc(func(pos int, val any) error {
		n++
		_, err := fmt.Fprintf(s.out, "  [%d] %v (%T)\n", pos, val, val)
		return err
	}))
	if err != nil {
		return err
	}
	if n == 0 {
		_, _ = fmt.Fprintln(s.out, "  No bind values")
	}
	return nil
}

func (s *Session) cmdDot(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 || len(parts) > 2 {
		return errors.New("usage: dot <filepath> [#n]")
	}
	ref := ""
	if len(parts) == 2 {
		ref = parts[1]
	}
	p, err := s.effective(ref)
	if err != nil {
		return err
	}
	if err := os.WriteFile(parts[0], []byte(visitors.ToDot(p)), 0600); err != nil {
		return fmt.Errorf("failed to write DOT file: %w", err)
	}
	_, _ = fmt.Fprintf(s.out, "  Wrote DOT to %s\n", parts[0])
	return nil
}

// --- Settings ---

func (s *Session) cmdEngine(args string) error {
	name := strings.ToLower(args)
	if !isValidEngine(name) {
		return fmt.Errorf("unknown engine %q (choose: postgres, mysql, sqlite)", name)
	}
	s.setEngine(name)
	_, _ = fmt.Fprintf(s.out, "  Engine set to %s\n", s.engine)
	return nil
}

func (s *Session) cmdQuote() error {
	s.quote = !s.quote
	if s.quote {
		_, _ = fmt.Fprintln(s.out, "  Column quoting enabled")
	} else {
		_, _ = fmt.Fprintln(s.out, "  Column quoting disabled")
	}
	return nil
}

// cmdPlugin routes plugin sub-commands: enables a plugin by name, or
// dispatches to cmdPluginOff for disabling.
func (s *Session) cmdPlugin(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return errors.New("usage: plugin <name> [args] | plugin off [name]")
	}
	name := strings.ToLower(parts[0])
	if name == "off" {
		return s.cmdPluginOff(parts[1:])
	}
	for _, c := range s.configurers {
		if c.name == name {
			return c.configure(s, strings.TrimSpace(args[len(parts[0]):]))
		}
	}
	return fmt.Errorf("unknown plugin: %s", name)
}

func (s *Session) cmdPluginOff(parts []string) error {
	if len(parts) == 0 {
		s.plugins.deregisterAll()
		_, _ = fmt.Fprintln(s.out, "  All plugins disabled")
		return nil
	}
	name := strings.ToLower(parts[0])
	if !s.plugins.deregister(name) {
		return fmt.Errorf("plugin %q is not enabled", name)
	}
	_, _ = fmt.Fprintf(s.out, "  %s disabled\n", name)
	return nil
}

func (s *Session) cmdPlugins() {
	_, _ = fmt.Fprintln(s.out, "  Available plugins:")
	for _, c := range s.configurers {
		if entry, ok := s.plugins.get(c.name); ok {
			_, _ = fmt.Fprintf(s.out, "    %-14s on   (%s)\n", c.name, entry.status())
		} else {
			_, _ = fmt.Fprintf(s.out, "    %-14s off\n", c.name)
		}
	}
}

// --- Database ---

func (s *Session) cmdConnect(args string) error {
	if s.conn != nil {
		return fmt.Errorf("already connected to %s (use 'disconnect' first)", sanitizeDSN(s.conn.dsn))
	}
	if args != "" {
		return s.connectWithDSN(args)
	}

	// Interactive: offer reconnect if we have a previous DSN, otherwise wizard.
	if s.lastDSN != "" {
		choice := prompt(s.rl, fmt.Sprintf("Reconnect to %s? (y/n/setup)", sanitizeDSN(s.lastDSN)), "y")
		switch strings.ToLower(choice) {
		case "y", "yes":
			return s.connectWithDSN(s.lastDSN)
		case "s", "setup":
		default:
			_, _ = fmt.Fprintln(s.out, "  Connect cancelled")
			return nil
		}
	}

	dsn := buildDSN(s.rl, s.engine)
	if dsn == "" {
		_, _ = fmt.Fprintln(s.out, "  No connection configured")
		return nil
	}
	return s.connectWithDSN(dsn)
}

func (s *Session) connectWithDSN(dsn string) error {
	conn, err := connect(context.Background(), s.log, s.engine, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.lastDSN = dsn
	s.log.Info("connected", "engine", s.engine, "dsn", sanitizeDSN(dsn))
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", sanitizeDSN(dsn), s.engine)
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	dsn := sanitizeDSN(s.conn.dsn)
	if err := s.conn.close(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.conn = nil
	_, _ = fmt.Fprintf(s.out, "  Disconnected from %s\n", dsn)
	return nil
}

// cmdExec runs a raw statement, for setting up tables to query.
func (s *Session) cmdExec(args string) error {
	if s.conn == nil {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}
	if err := s.conn.exec(context.Background(), args); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	_, _ = fmt.Fprintln(s.out, "  OK")
	return nil
}

// cmdRun selects from a table with a predicate as the WHERE clause, always
// using bind parameters.
func (s *Session) cmdRun(args string) error {
	if s.conn == nil {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}
	parts := strings.Fields(args)
	if len(parts) == 0 || len(parts) > 2 {
		return errors.New("usage: run <table> [#n]")
	}
	table := parts[0]
	if !isIdentifier(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	if s.quote {
		table = quoting.Qualified(table, s.quoteIdent())
	}
	if s.conn.engine != s.engine {
		_, _ = fmt.Fprintf(s.out, "  Warning: connected to %s but engine is set to %s\n", s.conn.engine, s.engine)
	}

	m := managers.NewWhereManager("SELECT * FROM " + table)
	switch {
	case len(parts) == 2:
		p, err := s.pick(parts[1])
		if err != nil {
			return err
		}
		m.Where(p)
	case len(s.preds) > 0:
		m.Where(s.preds[len(s.preds)-1])
	}
	for _, t := range s.plugins.transformers() {
		m.Use(t)
	}

	sqlStr, binds, err := m.ToSQL(s.newVisitor(false))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s;\n", sqlStr)
	if len(binds) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Binds: %v\n", binds)
	}
	s.log.Debug("running query", "sql", sqlStr, "binds", len(binds))

	result, err := s.conn.query(context.Background(), sqlStr, binds)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}

func (s *Session) cmdReset() error {
	s.preds = nil
	_, _ = fmt.Fprintln(s.out, "  Predicates cleared")
	return nil
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Mapping:
    map <field> <column>      Map a public field name to a column
    mapping                   Show the current mapping
    load <file.yaml>          Replace the mapping from a YAML file

  Building (each result gets a #n reference):
    eq <field> <value>        field = value (null gives IS NULL)
    neq <field> <value>       field <> value (null gives IS NOT NULL)
    gt|gte|lt|lte <f> <v>     Ordered comparisons
    like <field> '<pat>'      LIKE, * is the wildcard
    notlike <field> '<pat>'   NOT LIKE
    in <field> <v1>, <v2>     IN list (at least one value)
    and #a #b                 Combine with AND
    or #a #b                  Combine with OR
    paren #n                  Wrap in parentheses
    list                      Show all predicates
    reset                     Clear all predicates

  Output (#n defaults to the latest predicate):
    sql [#n]                  SQL with placeholders and bind values
    pretty [#n]               SQL split over lines
    display [#n]              SQL with literal values (not for execution)
    binds [#n]                Bind values by position
    dot <file> [#n]           Export the tree as a Graphviz DOT file

  Settings:
    engine <name>             postgres, mysql or sqlite
    quote                     Toggle column identifier quoting
    plugin softdelete [field] AND <field> IS NULL onto every predicate
    plugin off [name]         Disable one or all plugins
    plugins                   Show plugin status

  Database:
    connect [dsn]             Connect (wizard when no DSN)
    disconnect                Close the connection
    exec <statement>          Run a raw statement
    run <table> [#n]          SELECT * FROM <table> WHERE <predicate>

  Values: null, true, false, numbers, 'quoted strings', bare words.
  exit / quit                 Leave the REPL`)
}
