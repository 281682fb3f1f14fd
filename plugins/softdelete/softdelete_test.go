package softdelete

import (
	"testing"

	"github.com/bawdo/predsql/binder"
	"github.com/bawdo/predsql/factory"
	"github.com/bawdo/predsql/internal/testutil"
	"github.com/bawdo/predsql/mapping"
	"github.com/bawdo/predsql/nodes"
	"github.com/bawdo/predsql/plugins"
	"github.com/bawdo/predsql/visitors"
)

var f = factory.New(mapping.NewStatic(map[string]string{
	"name":    "name",
	"role":    "role",
	"deleted": "deleted_at",
}))

func must(t *testing.T) func(nodes.Predicate, error) nodes.Predicate {
	return func(p nodes.Predicate, err error) nodes.Predicate {
		t.Helper()
		testutil.AssertNoError(t, err)
		return p
	}
}

func TestSoftDeleteDefaultColumn(t *testing.T) {
	t.Parallel()
	p := must(t)(f.Equal("name", "ann"))
	got, err := New().TransformPredicate(p)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, visitors.ToSQL(got), "(name = ?) AND deleted_at IS NULL")
	testutil.AssertValues(t, binder.Values(got), []any{"ann"})
}

func TestSoftDeleteGroupsOr(t *testing.T) {
	t.Parallel()
	p := must(t)(f.Or(must(t)(f.Equal("role", "admin")), must(t)(f.Equal("role", "owner"))))
	got, err := New(WithColumn("users.removed_at")).TransformPredicate(p)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, visitors.ToSQL(got), "(role = ? OR role = ?) AND users.removed_at IS NULL")
}

func TestSoftDeleteNilPredicate(t *testing.T) {
	t.Parallel()
	got, err := New().TransformPredicate(nil)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, visitors.ToSQL(got), "deleted_at IS NULL")
}

func TestSoftDeleteSkipsWhenColumnReferenced(t *testing.T) {
	t.Parallel()
	p := must(t)(f.And(must(t)(f.Equal("name", "ann")), must(t)(f.NotEqual("deleted", nil))))
	got, err := New().TransformPredicate(p)
	testutil.AssertNoError(t, err)
	if got != p {
		t.Errorf("expected predicate unchanged, got %s", visitors.ToSQL(got))
	}
}

func TestSoftDeleteLeavesInputUntouched(t *testing.T) {
	t.Parallel()
	p := must(t)(f.Equal("name", "ann"))
	before := visitors.ToSQL(p)
	_, err := plugins.Apply(p, New())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, visitors.ToSQL(p), before)
}
