// Package binding resolves value placeholders of the template against
// externally supplied flat key/value data.
package binding

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"textpdf/utils/debug"
)

var (
	ErrKeyNotFound = errors.New("data key not found")
	ErrNotString   = errors.New("data key must have a string value")
)

// Data is the data document supplied with a template. Values is the flat
// binding map, Title is optional document title used by hypertext output.
type Data struct {
	Title  string
	Values map[string]any
}

// Binder resolves placeholder ids. It never modifies the underlying data and
// does no caching.
type Binder struct {
	values map[string]any
}

// New creates binder over the values map. Nil map is valid and resolves
// nothing.
func New(values map[string]any) *Binder {
	return &Binder{values: values}
}

// Binder returns binder over data values, nil Data resolves nothing.
func (d *Data) Binder() *Binder {
	if d == nil {
		return New(nil)
	}
	return New(d.Values)
}

// Resolve returns textual value for the id.
func (b *Binder) Resolve(id string) (string, error) {
	if b == nil {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, id)
	}
	v, ok := b.values[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, id)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q has %T", ErrNotString, id, v)
	}
	return s, nil
}

// Len returns number of bound keys.
func (b *Binder) Len() int {
	if b == nil {
		return 0
	}
	return len(b.values)
}

// String returns readable tree of the binding map in natural key order. It
// exists solely for debugging.
func (b *Binder) String() string {
	if b == nil {
		return "<nil Binder>"
	}
	tw := debug.NewTreeWriter()
	tw.Line(0, "Binding map: %d", len(b.values))
	keys := slices.Collect(maps.Keys(b.values))
	sort.Sort(natural.StringSlice(keys))
	for _, k := range keys {
		if s, ok := b.values[k].(string); ok {
			tw.TextBlock(1, k, s)
		} else {
			tw.Line(1, "%s: <%T>", k, b.values[k])
		}
	}
	return tw.String()
}
