package tablehunt

import (
	"github.com/tablehunt/tablehunt/geometry"
	"github.com/tablehunt/tablehunt/stext"
)

// findTableInsertionPoint returns the block the table should be inserted
// before: the successor of the last block whose bounding rectangle intersects
// the envelope, or nil to append.
func findTableInsertionPoint(r geometry.Rect, first *stext.Block) *stext.Block {
	var after *stext.Block
	for block := first; block != nil; block = block.Next {
		if r.Excludes(block.BBox) {
			continue
		}
		after = block
	}
	if after != nil {
		return after.Next
	}
	return nil
}

// transcribeTable rewrites the analysed grid as a Table/TR/TD subtree under
// parent and moves the covered content into the cells. Cell spans follow the
// crossing flags: a cell absorbs neighbours to the right while the shared
// edge is unruled, uncertain and crossed, and absorbs rows below while the
// whole strip beneath it stays unruled and at least one cell in it is
// h-crossed.
func (gd *gridWalker) transcribeTable(page *stext.Page, parent *stext.Struct) *stext.Struct {
	w := len(gd.xpos.List)
	h := len(gd.ypos.List)
	sent := make([]bool, w*h)

	var firstBlock *stext.Block
	if parent != nil {
		firstBlock = parent.FirstBlock
	} else {
		firstBlock = page.FirstBlock
	}

	r := gd.envelope()
	before := findTableInsertionPoint(r, firstBlock)
	table := stext.AddStructBlock(page, parent, before, stext.RoleTable, "Table")

	for y := 0; y < h-1; y++ {
		x := 0
		for ; x < w-1; x++ {
			if !sent[x+y*w] {
				break
			}
		}
		if x == w-1 {
			continue
		}

		tr := stext.AddStructBlock(page, table, nil, stext.RoleTableRow, "TR")

		for x = 0; x < w-1; x++ {
			if sent[x+y*w] {
				continue
			}

			cellw := 1
			for x2 := x + 1; x2 < w-1; x2++ {
				c := gd.cells.at(x2, y)
				if c.vLine != 0 {
					break
				}
				if gd.xpos.List[x2].Uncertainty == 0 {
					break
				}
				if c.vCrossed == 0 {
					break
				}
				cellw++
			}

			cellh := 1
			for y2 := y + 1; y2 < h-1; y2++ {
				if gd.ypos.List[y2].Uncertainty == 0 {
					break
				}
				c := gd.cells.at(x, y2)
				if c.hLine != 0 {
					break
				}
				hCrossed := c.hCrossed != 0
				x2 := x + 1
				for ; x2 < x+cellw; x2++ {
					c := gd.cells.at(x2, y2)
					if c.hLine != 0 || c.vLine != 0 {
						break
					}
					if gd.xpos.List[x2].Uncertainty == 0 {
						break
					}
					if c.vCrossed == 0 {
						break
					}
					if c.hCrossed != 0 {
						hCrossed = true
					}
				}
				if x2 == x+cellw && hCrossed {
					cellh++
				} else {
					break
				}
			}

			td := stext.AddStructBlock(page, tr, nil, stext.RoleTableCell, "TD")
			cr := geometry.Rect{
				X0: gd.xpos.List[x].Pos,
				Y0: gd.ypos.List[y].Pos,
				X1: gd.xpos.List[x+cellw].Pos,
				Y1: gd.ypos.List[y+cellh].Pos,
			}
			// The cell keeps the grid rectangle, not the content bbox;
			// otherwise spanned rows can end up empty.
			td.Up.BBox = cr
			stext.MoveContainedContent(page, td, parent, cr)
			Logger.Debug("cell emitted", "x", x, "y", y, "cellw", cellw, "cellh", cellh)

			for y2 := y; y2 < y+cellh; y2++ {
				for x2 := x; x2 < x+cellw; x2++ {
					sent[x2+y2*w] = true
				}
			}
		}

		tr.Up.BBox = geometry.Rect{
			X0: gd.xpos.List[0].Pos,
			Y0: gd.ypos.List[y].Pos,
			X1: gd.xpos.List[w-1].Pos,
			Y1: gd.ypos.List[y+1].Pos,
		}
		table.Up.BBox = table.Up.BBox.Union(tr.Up.BBox)
	}

	return table
}
