package document

import (
	"testing"
)

func TestAttrs_CaseInsensitive(t *testing.T) {
	a := NewAttrs("Font-Style", "bold", "ALIGN", "center")

	if got := a.Value("font-style"); got != "bold" {
		t.Errorf("Value(font-style) = %q, want bold", got)
	}
	if !a.Has("align") || !a.Has("Align") {
		t.Error("expected align to be present regardless of case")
	}
	a.Set("FONT-STYLE", "italic")
	if len(a) != 2 {
		t.Errorf("len = %d, want 2 (same key in different case must overwrite)", len(a))
	}
	if got := a.Value("Font-Style"); got != "italic" {
		t.Errorf("Value after overwrite = %q, want italic", got)
	}
}

func TestAttrs_OverlayLastWriteWins(t *testing.T) {
	parent := NewAttrs("font-style", "bold", "align", "left")
	child := parent.Clone()
	child.Overlay(NewAttrs("font-style", "italic"))

	if got := child.Value("font-style"); got != "italic" {
		t.Errorf("child font-style = %q, want italic", got)
	}
	if got := child.Value("align"); got != "left" {
		t.Errorf("child align = %q, want inherited left", got)
	}
	if got := parent.Value("font-style"); got != "bold" {
		t.Errorf("parent font-style changed to %q", got)
	}
}

func TestAttrs_CloneNil(t *testing.T) {
	var a Attrs
	c := a.Clone()
	c.Set("x", "1")
	if c.Value("x") != "1" {
		t.Error("clone of nil attrs must be usable")
	}
}

func TestAttrs_Numbers(t *testing.T) {
	a := NewAttrs("size", " 3 ", "bad", "x3", "indent", "2.5")

	if v, ok, err := a.Int("size"); !ok || err != nil || v != 3 {
		t.Errorf("Int(size) = %d, %t, %v", v, ok, err)
	}
	if _, ok, err := a.Int("bad"); !ok || err == nil {
		t.Errorf("Int(bad) ok=%t err=%v, want present with error", ok, err)
	}
	if _, ok, err := a.Int("missing"); ok || err != nil {
		t.Errorf("Int(missing) ok=%t err=%v, want absent without error", ok, err)
	}
	if v, ok, err := a.Float("indent"); !ok || err != nil || v != 2.5 {
		t.Errorf("Float(indent) = %v, %t, %v", v, ok, err)
	}
}

func TestAttrs_List(t *testing.T) {
	a := NewAttrs("font-style", " bold, ,Underline ")
	got := a.List("font-style")
	if len(got) != 2 || got[0] != "bold" || got[1] != "Underline" {
		t.Errorf("List = %q", got)
	}
}

func TestAttrs_String(t *testing.T) {
	a := NewAttrs("b", "2", "a10", "x", "a2", "y")
	want := `{a2="y" a10="x" b="2"}`
	if got := a.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestChunk_CloneIsDeep(t *testing.T) {
	orig := Chunk{Contents: "x", Attrs: NewAttrs("font-size", "12"), IsValue: true}
	c := orig.Clone()
	orig.Attrs.Set("font-size", "20")
	orig.Contents = "y"

	if c.Attrs.Value("font-size") != "12" || c.Contents != "x" || !c.IsValue {
		t.Errorf("clone affected by original mutation: %+v", c)
	}
}

func TestChunk_FontStyles(t *testing.T) {
	c := Chunk{Attrs: NewAttrs("font-style", "Bold,UNDERLINE")}
	styles, ok := c.FontStyles()
	if !ok || len(styles) != 2 || styles[0] != "bold" || styles[1] != "underline" {
		t.Errorf("FontStyles = %q, %t", styles, ok)
	}
	if _, ok := (Chunk{Attrs: NewAttrs()}).FontStyles(); ok {
		t.Error("FontStyles reported presence for chunk without font-style")
	}
}

func TestParseBlockKind(t *testing.T) {
	tests := []struct {
		name string
		want BlockKind
		ok   bool
	}{
		{"title", BlockTitle, true},
		{"CHAPTER", BlockChapter, true},
		{"Section", BlockSection, true},
		{"para", BlockPara, true},
		{"table", "", false},
		{"span", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseBlockKind(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseBlockKind(%q) = %q, %t, want %q, %t", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
