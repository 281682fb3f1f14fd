package nodes

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindScalar
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is the right-hand side of a comparison: a single scalar, an
// ordered list of scalars (for IN), or null. The variant is fixed when the
// value is created and never inferred later.
type Value struct {
	kind   ValueKind
	scalar any
	list   []any
}

// Null returns the absent value.
func Null() Value {
	return Value{kind: KindNull}
}

// Scalar wraps a single bind value. A nil v is still a scalar and binds
// as SQL NULL; use Null for IS NULL semantics.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// List wraps an ordered list of bind values. The slice is copied.
func List(vals ...any) Value {
	cp := make([]any, len(vals))
	copy(cp, vals)
	return Value{kind: KindList, list: cp}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Scalar returns the scalar payload. It is nil for null and list values.
func (v Value) Scalar() any { return v.scalar }

// List returns a copy of the list payload.
func (v Value) List() []any {
	if v.kind != KindList {
		return nil
	}
	cp := make([]any, len(v.list))
	copy(cp, v.list)
	return cp
}

// Len returns the number of bind positions the value occupies.
func (v Value) Len() int {
	switch v.kind {
	case KindScalar:
		return 1
	case KindList:
		return len(v.list)
	default:
		return 0
	}
}

// Binds returns the bind values in placeholder order.
func (v Value) Binds() []any {
	switch v.kind {
	case KindScalar:
		return []any{v.scalar}
	case KindList:
		return v.List()
	default:
		return nil
	}
}
