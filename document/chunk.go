package document

import "strings"

// Chunk is the atomic unit of content: resolved text with its attributes.
type Chunk struct {
	Contents string
	Attrs    Attrs
	// IsValue marks chunks produced by data-bound placeholders, backends may
	// render them as input fields.
	IsValue bool
}

// Clone returns deep copy of the chunk. Chunks must be cloned before they
// leave the interpreter so later changes to open elements never leak into
// already emitted content.
func (c Chunk) Clone() Chunk {
	return Chunk{
		Contents: c.Contents,
		Attrs:    c.Attrs.Clone(),
		IsValue:  c.IsValue,
	}
}

// FontStyles returns lower-cased items of the font-style attribute and
// whether the attribute was present at all.
func (c Chunk) FontStyles() ([]string, bool) {
	if !c.Attrs.Has("font-style") {
		return nil, false
	}
	styles := c.Attrs.List("font-style")
	for i := range styles {
		styles[i] = strings.ToLower(styles[i])
	}
	return styles, true
}

// BlockKind names block level element which groups chunks into a single
// rendering unit.
type BlockKind string

const (
	BlockTitle   BlockKind = "title"
	BlockChapter BlockKind = "chapter"
	BlockSection BlockKind = "section"
	BlockPara    BlockKind = "para"
)

var blockKinds = [...]BlockKind{BlockTitle, BlockChapter, BlockSection, BlockPara}

// ParseBlockKind maps element name to block kind, case-insensitive.
func ParseBlockKind(name string) (BlockKind, bool) {
	for _, k := range blockKinds {
		if strings.EqualFold(string(k), name) {
			return k, true
		}
	}
	return "", false
}

func (k BlockKind) String() string {
	return string(k)
}
