package document

import "testing"

func TestLookupPageSize(t *testing.T) {
	ps, ok := LookupPageSize(" A4 ")
	if !ok || ps.Width != 595 || ps.Height != 842 {
		t.Errorf("A4 = %+v, %t", ps, ok)
	}
	if ps, ok := LookupPageSize("b5"); !ok || ps.Width != 498 || ps.Height != 708 {
		t.Errorf("B5 = %+v, %t", ps, ok)
	}
	if _, ok := LookupPageSize("letter"); ok {
		t.Error("letter must not be recognized")
	}
	for _, name := range []string{"a0", "a10", "b0", "b10"} {
		if _, ok := LookupPageSize(name); !ok {
			t.Errorf("%s must be recognized", name)
		}
	}
}

func TestParseMargins(t *testing.T) {
	m, err := ParseMargins("10, 20,30 ,40")
	if err != nil {
		t.Fatalf("ParseMargins error: %v", err)
	}
	if m != (Margins{Left: 10, Right: 20, Top: 30, Bottom: 40}) {
		t.Errorf("margins = %+v", m)
	}

	for _, bad := range []string{"", "1,2,3", "1,2,3,4,5", "1,2,x,4"} {
		if _, err := ParseMargins(bad); err == nil {
			t.Errorf("ParseMargins(%q) expected error", bad)
		}
	}
}
