package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bawdo/predsql/factory"
	"github.com/bawdo/predsql/internal/testutil"
	"github.com/bawdo/predsql/mapping"
)

// newTestSession returns a session writing to a buffer.
func newTestSession(engine string) (*Session, *bytes.Buffer) {
	var buf bytes.Buffer
	sess := NewSession(engine, nil)
	sess.out = &buf
	return sess, &buf
}

// run executes commands, failing the test on the first error.
func run(t *testing.T, sess *Session, commands ...string) {
	t.Helper()
	for _, cmd := range commands {
		if err := sess.Execute(cmd); err != nil {
			t.Fatalf("command %q failed: %v", cmd, err)
		}
	}
}

// output runs commands, clears the buffer, runs last and returns its output.
func output(t *testing.T, engine string, setup []string, last string) string {
	t.Helper()
	sess, buf := newTestSession(engine)
	run(t, sess, setup...)
	buf.Reset()
	run(t, sess, last)
	return buf.String()
}

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected output to contain %q, got:\n%s", substr, s)
	}
}

var userFields = []string{"map name users.name", "map age users.age", "map status status"}

// --- Tokenizer / values ---

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected []string
	}{
		{"name ann", []string{"name", "ann"}},
		{"name 'John Smith'", []string{"name", "'John Smith'"}},
		{"status a, b,c", []string{"status", "a", "b", "c"}},
		{"name 'O''Brien'", []string{"name", "'O''Brien'"}},
		{"  spaced\tout  ", []string{"spaced", "out"}},
	}
	for _, tt := range tests {
		got := tokenize(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
			t.Errorf("tokenize(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		token string
		want  any
	}{
		{"null", nil},
		{"NULL", nil},
		{"true", true},
		{"False", false},
		{"42", 42},
		{"-7", -7},
		{"1.5", 1.5},
		{"'hello world'", "hello world"},
		{"'O''Brien'", "O'Brien"},
		{"''", ""},
		{"ann", "ann"},
	}
	for _, tt := range tests {
		got, err := parseValue(tt.token)
		testutil.AssertNoError(t, err)
		if got != tt.want {
			t.Errorf("parseValue(%q): expected %v (%T), got %v (%T)", tt.token, tt.want, tt.want, got, got)
		}
	}
	_, err := parseValue("'open")
	testutil.AssertError(t, err)
}

func TestParseRef(t *testing.T) {
	t.Parallel()
	i, err := parseRef("#2", 3)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, i, 1)

	for _, bad := range []string{"2", "#0", "#4", "#x"} {
		if _, err := parseRef(bad, 3); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	t.Parallel()
	for _, ok := range []string{"name", "users.name", "_x1", "a.b.c"} {
		testutil.AssertEqual(t, isIdentifier(ok), true)
	}
	for _, bad := range []string{"", "1abc", "a.", ".a", "a b", "a;drop", `a"b`} {
		if isIdentifier(bad) {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

// --- Building ---

func TestComparisonCommands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cmd  string
		want string
	}{
		{"eq name ann", "#1  users.name = 'ann'"},
		{"neq name 'ann'", "#1  users.name <> 'ann'"},
		{"eq name null", "#1  users.name IS NULL"},
		{"neq name null", "#1  users.name IS NOT NULL"},
		{"gt age 18", "#1  users.age > 18"},
		{"gte age 18", "#1  users.age >= 18"},
		{"lt age 1.5", "#1  users.age < 1.5"},
		{"lte age 65", "#1  users.age <= 65"},
		{"like name 'a*'", "#1  users.name LIKE 'a%'"},
		{"notlike name 'a*b'", "#1  users.name NOT LIKE 'a%b'"},
		{"in status 'on hold', open, 3", "#1  status IN ('on hold', 'open', 3)"},
		{"eq status true", "#1  status = TRUE"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.cmd, func(t *testing.T) {
			t.Parallel()
			assertContains(t, output(t, "postgres", userFields, tt.cmd), tt.want)
		})
	}
}

func TestCombinatorsAndSQL(t *testing.T) {
	t.Parallel()
	sess, buf := newTestSession("postgres")
	run(t, sess, userFields...)
	run(t, sess,
		"eq name ann",
		"eq name bob",
		"or #1 #2",
		"paren #3",
		"eq status null",
		"and #4 #5",
	)
	buf.Reset()
	run(t, sess, "sql")
	assertContains(t, buf.String(), "(users.name = $1 OR users.name = $2) AND status IS NULL")
	assertContains(t, buf.String(), "Binds: [ann bob]")

	buf.Reset()
	run(t, sess, "sql #1")
	assertContains(t, buf.String(), "users.name = $1\n")
}

func TestNoImplicitGrouping(t *testing.T) {
	t.Parallel()
	setup := append(append([]string{}, userFields...), "eq name a", "eq name b", "or #1 #2", "eq status x", "and #3 #4")
	assertContains(t, output(t, "sqlite", setup, "sql"), "users.name = ? OR users.name = ? AND status = ?")
}

func TestEnginesAndQuoting(t *testing.T) {
	t.Parallel()
	setup := append(append([]string{}, userFields...), "eq name ann", "in age 1, 2")
	setup = append(setup, "and #1 #2")

	assertContains(t, output(t, "postgres", setup, "sql"), "users.name = $1 AND users.age IN ($2, $3)")
	assertContains(t, output(t, "sqlite", setup, "sql"), "users.name = ? AND users.age IN (?, ?)")

	withMySQL := append(append([]string{}, setup...), "engine mysql", "quote")
	assertContains(t, output(t, "postgres", withMySQL, "sql"), "`users`.`name` = ? AND `users`.`age` IN (?, ?)")

	withQuote := append(append([]string{}, setup...), "quote")
	assertContains(t, output(t, "postgres", withQuote, "sql"), `"users"."name" = $1`)
}

func TestBindsCommand(t *testing.T) {
	t.Parallel()
	got := output(t, "postgres", append(append([]string{}, userFields...), "eq name ann", "in age 3, 4", "and #1 #2"), "binds")
	assertContains(t, got, "[1] ann (string)")
	assertContains(t, got, "[2] 3 (int)")
	assertContains(t, got, "[3] 4 (int)")

	got = output(t, "postgres", append(append([]string{}, userFields...), "eq name null"), "binds")
	assertContains(t, got, "No bind values")
}

func TestDisplayAndPretty(t *testing.T) {
	t.Parallel()
	setup := append(append([]string{}, userFields...), "eq name 'O''Brien'", "gt age 3", "or #1 #2", "paren #3", "eq status x", "and #4 #5")
	assertContains(t, output(t, "postgres", setup, "display"), "(users.name = 'O''Brien' OR users.age > 3) AND status = 'x'")

	got := output(t, "postgres", setup, "pretty")
	assertContains(t, got, "  (\n    users.name = $1\n    OR users.age > $2\n  )\n  AND status = $3\n")
}

func TestListAndReset(t *testing.T) {
	t.Parallel()
	sess, buf := newTestSession("postgres")
	run(t, sess, userFields...)
	run(t, sess, "eq name ann", "gt age 3")
	buf.Reset()
	run(t, sess, "list")
	assertContains(t, buf.String(), "#1  users.name = 'ann'")
	assertContains(t, buf.String(), "#2  users.age > 3")

	run(t, sess, "reset")
	if err := sess.Execute("sql"); !errors.Is(err, errNoPredicates) {
		t.Errorf("expected errNoPredicates after reset, got %v", err)
	}
}

// --- Errors ---

func TestUnknownField(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession("postgres")
	err := sess.Execute("eq nope 1")
	var ufe *mapping.UnknownFieldError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected *mapping.UnknownFieldError, got %v", err)
	}
	testutil.AssertEqual(t, ufe.Field, "nope")
	testutil.AssertEqual(t, len(sess.preds), 0)
}

func TestFactoryErrorsSurface(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession("postgres")
	run(t, sess, userFields...)

	var tme *factory.TypeMismatchError
	if err := sess.Execute("like age 5"); !errors.As(err, &tme) {
		t.Errorf("expected TypeMismatchError, got %v", err)
	}
	var ele *factory.EmptyListError
	if err := sess.Execute("in status"); !errors.As(err, &ele) {
		t.Errorf("expected EmptyListError, got %v", err)
	}
	testutil.AssertEqual(t, len(sess.preds), 0)
}

func TestCommandUsageErrors(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession("postgres")
	run(t, sess, userFields...)
	run(t, sess, "eq name ann")
	for _, cmd := range []string{
		"eq name",
		"eq name a b",
		"and #1",
		"and #1 #9",
		"or 1 2",
		"paren #2",
		"sql #7",
		"dot",
		"map onlyone",
		"map bad 'users name'",
		"engine oracle",
		"plugin nope",
		"plugin off softdelete",
		"run users",
		"disconnect",
		"frobnicate",
	} {
		if err := sess.Execute(cmd); err == nil {
			t.Errorf("expected error for %q", cmd)
		}
	}
}

// --- Mapping ---

func TestLoadMapping(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("name: users.full_name\nage: users.age_years\n"), 0600); err != nil {
		t.Fatal(err)
	}
	sess, buf := newTestSession("postgres")
	run(t, sess, "load "+path)
	assertContains(t, buf.String(), "Loaded 2 field(s)")

	buf.Reset()
	run(t, sess, "mapping")
	assertContains(t, buf.String(), "age              -> users.age_years")
	assertContains(t, buf.String(), "name             -> users.full_name")

	buf.Reset()
	run(t, sess, "eq name ann")
	assertContains(t, buf.String(), "users.full_name = 'ann'")
}

func TestLoadMappingRejectsBadColumn(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("name: \"users name\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	sess, _ := newTestSession("postgres")
	testutil.AssertError(t, sess.Execute("load "+path))
	testutil.AssertEqual(t, len(sess.mapping.Fields()), 0)
}

func TestMappingEmpty(t *testing.T) {
	t.Parallel()
	assertContains(t, output(t, "postgres", nil, "mapping"), "No fields mapped")
}

// --- Plugins ---

func TestSoftDeletePlugin(t *testing.T) {
	t.Parallel()
	sess, buf := newTestSession("postgres")
	run(t, sess, userFields...)
	run(t, sess, "eq name ann", "eq name bob", "or #1 #2", "plugin softdelete")
	buf.Reset()
	run(t, sess, "sql")
	assertContains(t, buf.String(), "(users.name = $1 OR users.name = $2) AND deleted_at IS NULL")

	// Stored predicates are not modified by plugins.
	buf.Reset()
	run(t, sess, "list")
	assertContains(t, buf.String(), "#3  users.name = 'ann' OR users.name = 'bob'\n")

	buf.Reset()
	run(t, sess, "plugins")
	assertContains(t, buf.String(), "softdelete     on   (column: deleted_at)")

	run(t, sess, "plugin off softdelete")
	buf.Reset()
	run(t, sess, "sql")
	assertContains(t, buf.String(), "  users.name = $1 OR users.name = $2\n")
}

func TestSoftDeletePluginMappedField(t *testing.T) {
	t.Parallel()
	setup := append(append([]string{}, userFields...), "map removed users.removed_at", "plugin softdelete removed", "eq name ann")
	assertContains(t, output(t, "postgres", setup, "sql"), "(users.name = $1) AND users.removed_at IS NULL")

	sess, _ := newTestSession("postgres")
	var ufe *mapping.UnknownFieldError
	if err := sess.Execute("plugin softdelete removed"); !errors.As(err, &ufe) {
		t.Errorf("expected UnknownFieldError, got %v", err)
	}
}

// --- DOT ---

func TestDotCommand(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "p.dot")
	sess, buf := newTestSession("postgres")
	run(t, sess, userFields...)
	run(t, sess, "eq name ann", "in age 1, 2", "and #1 #2", "dot "+path+" #2")
	assertContains(t, buf.String(), "Wrote DOT to "+path)

	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)
	assertContains(t, string(data), "digraph Predicate {")
	assertContains(t, string(data), `label="Comparison\nusers.age IN"`)
	if strings.Contains(string(data), "users.name") {
		t.Error("expected only #2 in the DOT output")
	}
}

// --- Logging ---

func TestParseLevel(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, parseLevel("DEBUG").String(), "DEBUG")
	testutil.AssertEqual(t, parseLevel("info").String(), "INFO")
	testutil.AssertEqual(t, parseLevel("error").String(), "ERROR")
	testutil.AssertEqual(t, parseLevel("").String(), "WARN")
	testutil.AssertEqual(t, parseLevel("bogus").String(), "WARN")
}

func TestNewLoggerWrites(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newLogger(&buf, "info")
	log.Debug("hidden")
	log.Info("connected", "engine", "sqlite")
	assertContains(t, buf.String(), "connected")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug line should be filtered at info level")
	}
}
