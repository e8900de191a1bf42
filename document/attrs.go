// Package document defines the backend independent document model produced
// by the markup interpreter: chunks of styled text, tables, page geometry and
// the Sink interface output backends implement.
package document

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// Attrs holds styling and semantic attributes of an element. Keys are always
// stored lower-cased so lookups are case-insensitive.
type Attrs map[string]string

// NewAttrs builds attribute set from key/value pairs, odd trailing key is
// ignored.
func NewAttrs(kv ...string) Attrs {
	a := make(Attrs, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		a.Set(kv[i], kv[i+1])
	}
	return a
}

// Set stores value under key, overwriting previous value.
func (a Attrs) Set(key, value string) {
	a[strings.ToLower(key)] = value
}

// Get returns value for the key and whether it was present.
func (a Attrs) Get(key string) (string, bool) {
	v, ok := a[strings.ToLower(key)]
	return v, ok
}

// Value returns value for the key or empty string.
func (a Attrs) Value(key string) string {
	return a[strings.ToLower(key)]
}

// Has reports whether key is present.
func (a Attrs) Has(key string) bool {
	_, ok := a[strings.ToLower(key)]
	return ok
}

// Overlay copies all attributes from other on top of a, last write wins.
func (a Attrs) Overlay(other Attrs) {
	for k, v := range other {
		a.Set(k, v)
	}
}

// Clone returns deep copy of the attribute set. Clone of nil is an empty,
// usable set.
func (a Attrs) Clone() Attrs {
	c := make(Attrs, len(a))
	maps.Copy(c, a)
	return c
}

// Int parses integer attribute. Absent attribute is not an error, ok is
// false in this case.
func (a Attrs) Int(key string) (v int, ok bool, err error) {
	s, ok := a.Get(key)
	if !ok {
		return 0, false, nil
	}
	v, err = strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, true, fmt.Errorf("attribute %q must have integer value, got %q", key, s)
	}
	return v, true, nil
}

// Float parses floating point attribute, see Int.
func (a Attrs) Float(key string) (v float64, ok bool, err error) {
	s, ok := a.Get(key)
	if !ok {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, true, fmt.Errorf("attribute %q must have numeric value, got %q", key, s)
	}
	return v, true, nil
}

// Bool reports whether attribute is set to "true" (case-insensitive).
func (a Attrs) Bool(key string) bool {
	return strings.EqualFold(strings.TrimSpace(a.Value(key)), "true")
}

// List splits comma separated attribute value into trimmed non-empty items.
func (a Attrs) List(key string) []string {
	var out []string
	for item := range strings.SplitSeq(a.Value(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// String returns attributes in stable (natural) key order, for logs and
// debugging.
func (a Attrs) String() string {
	if len(a) == 0 {
		return "{}"
	}
	keys := slices.Collect(maps.Keys(a))
	sort.Sort(natural.StringSlice(keys))

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%q", k, a[k])
	}
	b.WriteByte('}')
	return b.String()
}
