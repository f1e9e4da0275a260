package stext

import "github.com/tablehunt/tablehunt/geometry"

// blockList resolves the head and tail pointers of a container: the struct's
// child list, or the page list when s is nil.
func blockList(page *Page, s *Struct) (first, last **Block) {
	if s != nil {
		return &s.FirstBlock, &s.LastBlock
	}
	return &page.FirstBlock, &page.LastBlock
}

// InsertBlockBefore links block into dest's child list (page level when dest
// is nil) immediately before the given sibling, or at the end when before is
// nil.
func InsertBlockBefore(page *Page, dest *Struct, block, before *Block) {
	first, last := blockList(page, dest)
	if before != nil {
		block.Next = before
		block.Prev = before.Prev
		if before.Prev != nil {
			before.Prev.Next = block
		} else {
			*first = block
		}
		before.Prev = block
		return
	}
	block.Next = nil
	block.Prev = *last
	if *last != nil {
		(*last).Next = block
	}
	if *first == nil {
		*first = block
	}
	*last = block
}

// UnlinkBlock removes block from src's child list (page level when src is
// nil). The block keeps its payload; Prev and Next are left dangling for the
// caller to relink.
func UnlinkBlock(page *Page, src *Struct, block *Block) {
	first, last := blockList(page, src)
	if block.Prev != nil {
		block.Prev.Next = block.Next
	} else {
		*first = block.Next
	}
	if block.Next != nil {
		block.Next.Prev = block.Prev
	} else {
		*last = block.Prev
	}
}

// AddStructBlock creates a struct block with the given role and inserts it
// before the given sibling under parent (page level when parent is nil). The
// new block receives the next free sibling index; any following struct
// siblings whose indices would collide are bumped so that indices stay
// strictly increasing.
func AddStructBlock(page *Page, parent *Struct, before *Block, role Role, raw string) *Struct {
	first, _ := blockList(page, parent)

	idx := 0
	for b := *first; b != before; b = b.Next {
		if b.Type == BlockStruct {
			idx = b.Index + 1
		}
	}
	want := idx + 1
	for b := before; b != nil; b = b.Next {
		if b.Type != BlockStruct {
			continue
		}
		if b.Index >= want {
			break
		}
		b.Index = want
		want++
	}

	s := &Struct{Parent: parent, Role: role, Raw: raw}
	block := &Block{Type: BlockStruct, BBox: geometry.Empty, Struct: s, Index: idx}
	s.Up = block
	InsertBlockBefore(page, parent, block, before)
	return s
}

// AddGridBlock clones the divider positions into a grid annotation block and
// prepends it to the table's child list. The annotation bounding box is the
// envelope of the positions.
func AddGridBlock(page *Page, table *Struct, xs, ys *GridPositions) *Block {
	g := &GridData{XS: xs.Clone(), YS: ys.Clone()}
	block := &Block{Type: BlockGrid, Grid: g, BBox: Envelope(g.XS, g.YS)}
	InsertBlockBefore(page, table, block, table.FirstBlock)
	return block
}

func unlinkLineFromBlock(line *Line, block *Block) {
	t := block.Text
	if line.Prev != nil {
		line.Prev.Next = line.Next
	} else {
		t.FirstLine = line.Next
	}
	if line.Next != nil {
		line.Next.Prev = line.Prev
	} else {
		t.LastLine = line.Prev
	}
}

func appendLineToBlock(line *Line, block *Block) {
	t := block.Text
	if t.LastLine == nil {
		t.FirstLine = line
		line.Prev = nil
	} else {
		line.Prev = t.LastLine
		t.LastLine.Next = line
	}
	t.LastLine = line
	line.Next = nil
}

// RecalcTextBBox recomputes a text block's bounding box as the union of its
// lines' boxes.
func RecalcTextBBox(block *Block) {
	bbox := geometry.Empty
	for line := block.Text.FirstLine; line != nil; line = line.Next {
		bbox = bbox.Union(line.BBox)
	}
	block.BBox = bbox
}

// MoveContainedContent moves everything inside r from src's child list into
// dest. Blocks wholly inside r move as-is; partially covered text blocks are
// split line by line, and partially covered lines char by char: a glyph
// belongs to r iff the centre of its bounding rectangle does. Both the
// retained and the newly created text blocks get their boxes recomputed.
// Zero-area overlaps count as overlap, so space glyphs are not dropped.
func MoveContainedContent(page *Page, dest, src *Struct, r geometry.Rect) {
	var before *Block
	if dest != nil {
		before = dest.FirstBlock
	} else {
		before = page.FirstBlock
	}
	sfirst, _ := blockList(page, src)

	var next *Block
	for block := *sfirst; block != nil; block = next {
		next = block.Next
		bbox := block.BBox.Intersect(r)
		if bbox.X0 > bbox.X1 || bbox.Y0 > bbox.Y1 {
			continue
		}
		if bbox == block.BBox {
			UnlinkBlock(page, src, block)
			InsertBlockBefore(page, dest, block, before)
			before = block.Next
			continue
		}
		if block.Type != BlockText {
			continue
		}

		var newblock *Block
		var nextLine *Line
		for line := block.Text.FirstLine; line != nil; line = nextLine {
			nextLine = line.Next
			lrect := line.BBox.Intersect(r)
			if lrect.X0 > lrect.X1 || lrect.Y0 > lrect.Y1 {
				continue
			}
			if lrect == line.BBox {
				if newblock == nil {
					newblock = NewTextBlock()
					InsertBlockBefore(page, dest, newblock, before)
					before = newblock.Next
				}
				unlinkLineFromBlock(line, block)
				appendLineToBlock(line, newblock)
				continue
			}

			// Split the line: move only the glyphs whose centre is in r.
			var newline *Line
			var prevCh *Char
			var nextCh *Char
			for ch := line.FirstChar; ch != nil; ch = nextCh {
				nextCh = ch.Next
				crect := ch.Rect()
				x := (crect.X0 + crect.X1) / 2
				y := (crect.Y0 + crect.Y1) / 2
				if r.X0 > x || r.X1 < x || r.Y0 > y || r.Y1 < y {
					prevCh = ch
					continue
				}
				if newline == nil {
					newline = &Line{Dir: line.Dir, WMode: line.WMode, BBox: geometry.Empty}
				}
				if prevCh == nil {
					line.FirstChar = nextCh
				} else {
					prevCh.Next = nextCh
				}
				if nextCh == nil {
					line.LastChar = prevCh
				}
				ch.Next = nil
				if newline.LastChar == nil {
					newline.FirstChar = ch
				} else {
					newline.LastChar.Next = ch
				}
				newline.LastChar = ch
				newline.BBox = newline.BBox.Union(crect)
			}
			if newline != nil {
				if newblock == nil {
					newblock = NewTextBlock()
					InsertBlockBefore(page, dest, newblock, before)
					before = newblock.Next
				}
				appendLineToBlock(newline, newblock)
				line.BBox = recalcLineBBox(line)
			}
		}
		if newblock != nil {
			RecalcTextBBox(block)
			RecalcTextBBox(newblock)
		}
	}
}

func recalcLineBBox(line *Line) geometry.Rect {
	bbox := geometry.Empty
	for ch := line.FirstChar; ch != nil; ch = ch.Next {
		bbox = bbox.Union(ch.Rect())
	}
	return bbox
}
