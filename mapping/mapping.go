// Package mapping resolves logical field names to physical column names.
//
// A Resolver is consulted once, when a predicate is constructed; the
// resolved column is stored in the node and never looked up again.
package mapping

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Resolver maps a field name to a column name.
type Resolver interface {
	Resolve(field string) (string, error)
}

// UnknownFieldError is returned when a field has no column mapping.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// Static is a Resolver backed by a constant map.
type Static struct {
	columns map[string]string
}

// NewStatic copies columns into a new Static resolver.
func NewStatic(columns map[string]string) *Static {
	cp := make(map[string]string, len(columns))
	for f, c := range columns {
		cp[f] = c
	}
	return &Static{columns: cp}
}

// Resolve returns the column for field or an *UnknownFieldError.
func (s *Static) Resolve(field string) (string, error) {
	col, ok := s.columns[field]
	if !ok {
		return "", &UnknownFieldError{Field: field}
	}
	return col, nil
}

// Fields returns the mapped field names in sorted order.
func (s *Static) Fields() []string {
	fields := make([]string, 0, len(s.columns))
	for f := range s.columns {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// With returns a new Static with field mapped to column. The receiver is
// left unchanged.
func (s *Static) With(field, column string) *Static {
	cp := make(map[string]string, len(s.columns)+1)
	for f, c := range s.columns {
		cp[f] = c
	}
	cp[field] = column
	return &Static{columns: cp}
}

// Load reads a YAML document of field: column pairs.
//
//	name: users.full_name
//	age: users.age_years
func Load(r io.Reader) (*Static, error) {
	var columns map[string]string
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&columns); err != nil {
		if err == io.EOF {
			return NewStatic(nil), nil
		}
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	for f, c := range columns {
		if f == "" || c == "" {
			return nil, fmt.Errorf("decode mapping: empty field or column in entry %q: %q", f, c)
		}
	}
	return NewStatic(columns), nil
}

// LoadFile reads a YAML mapping from path.
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}
