package document

import (
	"fmt"
	"strconv"
	"strings"
)

// PageSize describes page dimensions in points.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// ISO 216 sizes, rounded to whole points.
var pageSizes = map[string]PageSize{
	"a0":  {"a0", 2384, 3370},
	"a1":  {"a1", 1684, 2384},
	"a2":  {"a2", 1190, 1684},
	"a3":  {"a3", 842, 1190},
	"a4":  {"a4", 595, 842},
	"a5":  {"a5", 420, 595},
	"a6":  {"a6", 297, 420},
	"a7":  {"a7", 210, 297},
	"a8":  {"a8", 148, 210},
	"a9":  {"a9", 105, 148},
	"a10": {"a10", 74, 105},
	"b0":  {"b0", 2834, 4008},
	"b1":  {"b1", 2004, 2834},
	"b2":  {"b2", 1417, 2004},
	"b3":  {"b3", 1000, 1417},
	"b4":  {"b4", 708, 1000},
	"b5":  {"b5", 498, 708},
	"b6":  {"b6", 354, 498},
	"b7":  {"b7", 249, 354},
	"b8":  {"b8", 175, 249},
	"b9":  {"b9", 124, 175},
	"b10": {"b10", 87, 124},
}

// PageA4 is the default page size.
var PageA4 = pageSizes["a4"]

// LookupPageSize finds named page size, case-insensitive.
func LookupPageSize(name string) (PageSize, bool) {
	ps, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	return ps, ok
}

// Margins are page margins in points.
type Margins struct {
	Left, Right, Top, Bottom int
}

// DefaultMargins are used until template changes them.
var DefaultMargins = Margins{Left: 50, Right: 50, Top: 50, Bottom: 56}

// ParseMargins parses "left,right,top,bottom" margin value. Exactly
// four integers are required.
func ParseMargins(value string) (Margins, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return Margins{}, fmt.Errorf("page margin format error: expected 4 comma separated integers, got %q", value)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Margins{}, fmt.Errorf("page margin format error: %q is not an integer", strings.TrimSpace(p))
		}
		vals[i] = v
	}
	return Margins{Left: vals[0], Right: vals[1], Top: vals[2], Bottom: vals[3]}, nil
}

// Hrule is horizontal rule: line thickness in points and its length in
// percents of the text width.
type Hrule struct {
	Width   int
	Percent int
}

// DefaultHrule is used when attributes are absent.
var DefaultHrule = Hrule{Width: 1, Percent: 100}
