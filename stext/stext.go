// Package stext models the structured-text representation of a rendered page:
// an ordered tree of blocks holding text lines, character glyphs and vector
// rectangles, the same shape the upstream extractor produces. Block lists are
// doubly linked and struct blocks carry strictly increasing sibling indices;
// every editing operation in this package preserves both invariants.
package stext

import "github.com/tablehunt/tablehunt/geometry"

type BlockType int

const (
	BlockText BlockType = iota
	BlockVector
	BlockStruct
	BlockGrid
)

// Role is the structural role of a Struct block. Upstream producers tag
// containers with document roles; the table hunter adds the table ones.
type Role int

const (
	RoleUnknown Role = iota
	RoleDocument
	RoleDiv
	RoleSection
	RoleParagraph
	RoleList
	RoleListItem
	RoleTable
	RoleTableRow
	RoleTableCell
)

func (r Role) String() string {
	switch r {
	case RoleDocument:
		return "Document"
	case RoleDiv:
		return "Div"
	case RoleSection:
		return "Sect"
	case RoleParagraph:
		return "P"
	case RoleList:
		return "L"
	case RoleListItem:
		return "LI"
	case RoleTable:
		return "Table"
	case RoleTableRow:
		return "TR"
	case RoleTableCell:
		return "TD"
	}
	return "Unknown"
}

// Page is the root container. A nil Struct in the editing functions below
// addresses the page-level block list.
type Page struct {
	FirstBlock *Block
	LastBlock  *Block
}

func NewPage() *Page { return &Page{} }

// Block is one node of the tree. Exactly one of Text, Struct, Grid is non-nil
// according to Type; a vector block is just its bounding rectangle.
type Block struct {
	Type BlockType
	BBox geometry.Rect
	Prev *Block
	Next *Block

	Text   *TextBlock
	Struct *Struct
	Grid   *GridData

	// Index orders struct blocks among their siblings. Strictly increasing
	// within one parent's block list.
	Index int
}

type TextBlock struct {
	FirstLine *Line
	LastLine  *Line
}

// Line owns an ordered list of chars. Dir and WMode come from the upstream
// extractor and survive content migration untouched.
type Line struct {
	Dir   geometry.Point
	WMode int
	BBox  geometry.Rect
	Prev  *Line
	Next  *Line

	FirstChar *Char
	LastChar  *Char
}

type Char struct {
	Codepoint rune
	Quad      geometry.Quad
	Next      *Char
}

// Rect is the axis-aligned hull of the glyph quad.
func (c *Char) Rect() geometry.Rect { return c.Quad.Rect() }

// Struct is the payload of a struct block: a role plus its own block list.
type Struct struct {
	Up     *Block
	Parent *Struct
	Role   Role
	Raw    string

	FirstBlock *Block
	LastBlock  *Block
}

// GridData annotates a detected table with its final divider positions.
type GridData struct {
	XS *GridPositions
	YS *GridPositions
}

// GridPositions is one axis of inferred table dividers. List is strictly
// ordered by Pos; the first and last entries are the outer edges and carry
// zero uncertainty.
type GridPositions struct {
	MaxUncertainty int
	List           []GridPos
}

type GridPos struct {
	Pos           float32
	Min           float32
	Max           float32
	Uncertainty   int
	Reinforcement int
}

func (g *GridPositions) Clone() *GridPositions {
	if g == nil {
		return nil
	}
	out := &GridPositions{MaxUncertainty: g.MaxUncertainty}
	out.List = make([]GridPos, len(g.List))
	copy(out.List, g.List)
	return out
}

// Envelope is the rectangle spanned by the outermost positions of both axes.
func Envelope(xs, ys *GridPositions) geometry.Rect {
	if xs == nil || ys == nil || len(xs.List) == 0 || len(ys.List) == 0 {
		return geometry.Empty
	}
	return geometry.Rect{
		X0: xs.List[0].Pos,
		Y0: ys.List[0].Pos,
		X1: xs.List[len(xs.List)-1].Pos,
		Y1: ys.List[len(ys.List)-1].Pos,
	}
}

// NewTextBlock returns an empty text block with an empty bounding box.
func NewTextBlock() *Block {
	return &Block{Type: BlockText, BBox: geometry.Empty, Text: &TextBlock{}}
}

// NewVectorBlock returns a vector block for a filled rectangle (possibly a
// hairline).
func NewVectorBlock(r geometry.Rect) *Block {
	return &Block{Type: BlockVector, BBox: r}
}

// AppendLine links a line at the end of a text block and grows the block
// bounding box.
func (b *Block) AppendLine(l *Line) {
	appendLineToBlock(l, b)
	b.BBox = b.BBox.Union(l.BBox)
}

// AppendChar links a glyph at the end of a line and grows the line bounding
// box.
func (l *Line) AppendChar(codepoint rune, quad geometry.Quad) *Char {
	c := &Char{Codepoint: codepoint, Quad: quad}
	if l.LastChar == nil {
		l.FirstChar = c
	} else {
		l.LastChar.Next = c
	}
	l.LastChar = c
	if l.FirstChar == c {
		l.BBox = c.Rect()
	} else {
		l.BBox = l.BBox.Union(c.Rect())
	}
	return c
}
