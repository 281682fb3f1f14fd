package binder

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bawdo/predsql/factory"
	"github.com/bawdo/predsql/internal/testutil"
	"github.com/bawdo/predsql/mapping"
	"github.com/bawdo/predsql/nodes"
	"github.com/bawdo/predsql/visitors"
)

var testFactory = factory.New(mapping.NewStatic(map[string]string{
	"a": "col_a",
	"b": "col_b",
	"c": "col_c",
}))

func must(t *testing.T) func(nodes.Predicate, error) nodes.Predicate {
	return func(p nodes.Predicate, err error) nodes.Predicate {
		t.Helper()
		testutil.AssertNoError(t, err)
		return p
	}
}

// sampleTree builds (a = 1 OR b IS NULL) AND c IN (x, y) AND a LIKE 'p%'.
func sampleTree(t *testing.T) nodes.Predicate {
	t.Helper()
	f := testFactory
	or := must(t)(f.Or(must(t)(f.Equal("a", 1)), must(t)(f.Equal("b", nil))))
	left := must(t)(f.Parenthesis(or))
	in := must(t)(f.In("c", "x", "y"))
	like := must(t)(f.Like("a", "p*"))
	return must(t)(f.And(must(t)(f.And(left, in)), like))
}

func TestValuesOrder(t *testing.T) {
	t.Parallel()
	p := sampleTree(t)
	testutil.AssertValues(t, Values(p), []any{1, "x", "y", "p%"})
}

func TestBindPositions(t *testing.T) {
	t.Parallel()
	p := sampleTree(t)
	sink := &testutil.RecordingSink{}
	testutil.AssertNoError(t, Bind(p, sink))

	want := []testutil.Assignment{
		{Position: 1, Value: 1},
		{Position: 2, Value: "x"},
		{Position: 3, Value: "y"},
		{Position: 4, Value: "p%"},
	}
	testutil.AssertEqual(t, len(sink.Assignments), len(want))
	for i, a := range want {
		testutil.AssertEqual(t, sink.Assignments[i], a)
	}
}

func TestPlaceholderCountMatchesBindCount(t *testing.T) {
	t.Parallel()
	f := testFactory
	trees := []nodes.Predicate{
		must(t)(f.Equal("a", nil)),
		must(t)(f.NotEqual("a", nil)),
		must(t)(f.In("a", 1, 2, 3, 4, 5)),
		must(t)(f.Or(must(t)(f.Equal("a", nil)), must(t)(f.GreaterThan("b", 2)))),
		sampleTree(t),
	}
	for _, p := range trees {
		sql := visitors.ToSQL(p)
		if got, want := strings.Count(sql, "?"), len(Values(p)); got != want {
			t.Errorf("%s: %d placeholders, %d values", sql, got, want)
		}
		v := visitors.NewPostgresVisitor()
		v.Render(p)
		testutil.AssertEqual(t, v.Placeholders(), len(Values(p)))
	}
}

func TestNullComparisonsConsumeNoPosition(t *testing.T) {
	t.Parallel()
	f := testFactory
	p := must(t)(f.And(must(t)(f.Equal("a", nil)), must(t)(f.NotEqual("b", nil))))
	sink := &testutil.RecordingSink{}
	testutil.AssertNoError(t, Bind(p, sink))
	testutil.AssertEqual(t, len(sink.Assignments), 0)
}

func TestRebindIsDeterministic(t *testing.T) {
	t.Parallel()
	p := sampleTree(t)
	first := &testutil.RecordingSink{}
	second := &testutil.RecordingSink{}
	testutil.AssertNoError(t, Bind(p, first))
	testutil.AssertNoError(t, Bind(p, second))
	testutil.AssertEqual(t, len(first.Assignments), len(second.Assignments))
	for i := range first.Assignments {
		testutil.AssertEqual(t, first.Assignments[i], second.Assignments[i])
	}
}

func TestConcurrentBind(t *testing.T) {
	t.Parallel()
	p := sampleTree(t)
	var wg sync.WaitGroup
	results := make([][]any, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sink := &testutil.RecordingSink{}
			if err := Bind(p, sink); err != nil {
				t.Error(err)
				return
			}
			results[i] = sink.Values()
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		testutil.AssertValues(t, r, []any{1, "x", "y", "p%"})
	}
}

func TestBindFrom(t *testing.T) {
	t.Parallel()
	p := must(t)(testFactory.In("a", "x", "y"))
	sink := &testutil.RecordingSink{}
	testutil.AssertNoError(t, BindFrom(p, sink, 4))
	testutil.AssertEqual(t, sink.Assignments[0], testutil.Assignment{Position: 4, Value: "x"})
	testutil.AssertEqual(t, sink.Assignments[1], testutil.Assignment{Position: 5, Value: "y"})
}

func TestSinkErrorPropagatesUnchanged(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	p := sampleTree(t)
	sink := &testutil.RecordingSink{FailAt: 2, Err: boom}

	err := Bind(p, sink)
	if err != boom {
		t.Fatalf("expected the sink error itself, got %v", err)
	}
	testutil.AssertEqual(t, len(sink.Assignments), 1)
}

func TestSinkFunc(t *testing.T) {
	t.Parallel()
	var got []int
	sink := SinkFunc(func(pos int, _ any) error {
		got = append(got, pos)
		return nil
	})
	testutil.AssertNoError(t, Bind(sampleTree(t), sink))
	testutil.AssertEqual(t, len(got), 4)
	for i, pos := range got {
		testutil.AssertEqual(t, pos, i+1)
	}
}

// --- Args ---

func TestArgsOf(t *testing.T) {
	t.Parallel()
	args, err := ArgsOf(sampleTree(t))
	testutil.AssertNoError(t, err)
	testutil.AssertValues(t, args, []any{1, "x", "y", "p%"})
}

func TestArgsRejectsOutOfOrder(t *testing.T) {
	t.Parallel()
	a := &Args{}
	testutil.AssertNoError(t, a.SetValue(1, "x"))
	testutil.AssertError(t, a.SetValue(3, "y"))
	testutil.AssertEqual(t, a.Len(), 1)
}

func TestArgsOffset(t *testing.T) {
	t.Parallel()
	a := &Args{Offset: 2}
	p := must(t)(testFactory.In("a", 1, 2))
	testutil.AssertError(t, Bind(p, a))

	a = &Args{Offset: 2}
	testutil.AssertNoError(t, BindFrom(p, a, 3))
	testutil.AssertValues(t, a.Values(), []any{1, 2})
}
