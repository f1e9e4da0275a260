package tablehunt

import (
	"strings"

	"github.com/tablehunt/tablehunt/geometry"
	"github.com/tablehunt/tablehunt/stext"
	"github.com/tidwall/rtree"
)

// cell records what the page told us about one grid cell: whether a ruled
// line is drawn on its top or left edge, whether content crosses those edges,
// and whether the cell holds any content at all. Counters accumulate; the
// decision rules treat them as booleans by truthiness.
type cell struct {
	hLine    int
	vLine    int
	hCrossed int
	vCrossed int
	full     int
}

// cellGrid is a w*h matrix of cells. The rightmost column and bottommost row
// only exist to carry the right and bottom border edges of the real cells;
// they never hold content.
type cellGrid struct {
	w    int
	h    int
	cell []cell
}

func newCellGrid(w, h int) *cellGrid {
	return &cellGrid{w: w, h: h, cell: make([]cell, w*h)}
}

func (c *cellGrid) at(x, y int) *cell {
	return &c.cell[x+y*c.w]
}

// gridWalker is the scratch state for analysing one candidate table.
type gridWalker struct {
	cells *cellGrid
	xpos  *stext.GridPositions
	ypos  *stext.GridPositions
}

func (gd *gridWalker) envelope() geometry.Rect {
	return stext.Envelope(gd.xpos, gd.ypos)
}

// findGridPos snaps a coordinate to the index of the grid position whose
// [min, max] interval contains it. A hit reinforces the position, pulling it
// toward the observed coordinate with a running mean. Coordinates in the gap
// between two intervals snap to the nearer neighbour when expand is set
// (splitting at the midpoint of the gap, without reinforcement) and report -1
// otherwise. Coordinates before the first or past the last position report
// -1 even when expand is set.
func findGridPos(pos *stext.GridPositions, x float32, expand bool) int {
	for i := range pos.List {
		p := &pos.List[i]
		if x > p.Max {
			continue
		}
		if x < p.Min {
			if expand && i > 0 {
				mid := (p.Min + pos.List[i-1].Max) / 2
				if x < mid {
					return i - 1
				}
				return i
			}
			return -1
		}
		r := p.Reinforcement
		p.Pos = (p.Pos*float32(r) + x) / float32(r+1)
		p.Reinforcement++
		return i
	}
	return -1
}

// findCell returns the largest index i with pos[i] <= v, or -1 when v lies
// before the first position or beyond the last.
func findCell(pos *stext.GridPositions, v float32) int {
	for i := range pos.List {
		if v < pos.List[i].Pos {
			return i - 1
		}
	}
	if v == pos.List[len(pos.List)-1].Pos {
		return len(pos.List) - 1
	}
	return -1
}

// addHLine stamps a horizontal rule spanning [x0, x1] at the y midpoint onto
// the grid. Reports failure when an endpoint cannot be snapped.
func (gd *gridWalker) addHLine(x0, x1, y0, y1 float32) bool {
	start := findGridPos(gd.xpos, x0, true)
	end := findGridPos(gd.xpos, x1, true)
	y := (y0 + y1) / 2
	yidx := findGridPos(gd.ypos, y, false)

	if start < 0 || end < 0 || yidx < 0 || start >= end {
		return true
	}
	for i := start; i < end; i++ {
		gd.cells.at(i, yidx).hLine++
	}
	return false
}

func (gd *gridWalker) addVLine(y0, y1, x0, x1 float32) bool {
	start := findGridPos(gd.ypos, y0, true)
	end := findGridPos(gd.ypos, y1, true)
	x := (x0 + x1) / 2
	xidx := findGridPos(gd.xpos, x, false)

	if start < 0 || end < 0 || xidx < 0 || start >= end {
		return true
	}
	for i := start; i < end; i++ {
		gd.cells.at(xidx, i).vLine++
	}
	return false
}

// walkGridLines harvests ruled lines from the vector blocks of the subtree.
// A rectangle thinner than one unit is a single rule at its midline; anything
// else is a framed cell contributing all four edges. When a rule fails to
// snap, successive vector blocks sharing the invariant axis are merged into a
// union rectangle and the rule retried; ruled lines are often drawn as many
// short strokes.
func (gd *gridWalker) walkGridLines(first *stext.Block) {
	for block := first; block != nil; block = block.Next {
		switch block.Type {
		case stext.BlockStruct:
			if block.Struct != nil {
				gd.walkGridLines(block.Struct.FirstBlock)
			}
		case stext.BlockVector:
			r := block.BBox
			w := r.X1 - r.X0
			h := r.Y1 - r.Y0
			failed := false
			if w > h && h < 1 {
				failed = gd.addHLine(r.X0, r.X1, r.Y0, r.Y1)
			} else if w < h && w < 1 {
				failed = gd.addVLine(r.Y0, r.Y1, r.X0, r.X1)
			} else {
				hFailed := gd.addHLine(r.X0, r.X1, r.Y0, r.Y0)
				hFailed = gd.addHLine(r.X0, r.X1, r.Y1, r.Y1) || hFailed
				vFailed := gd.addVLine(r.Y0, r.Y1, r.X0, r.X0)
				vFailed = gd.addVLine(r.Y0, r.Y1, r.X1, r.X1) || vFailed
				failed = hFailed && vFailed
			}
			if failed {
				if w > h {
					for block.Next != nil &&
						block.Next.Type == stext.BlockVector &&
						block.Next.BBox.Y0 == r.Y0 &&
						block.Next.BBox.Y1 == r.Y1 &&
						(block.Next.BBox.X0 < r.X1+1 || block.Next.BBox.X1 > r.X0-1) {
						block = block.Next
						r = r.Union(block.BBox)
					}
					gd.addHLine(r.X0, r.X1, r.Y0, r.Y1)
				} else {
					for block.Next != nil &&
						block.Next.Type == stext.BlockVector &&
						block.Next.BBox.X0 == r.X0 &&
						block.Next.BBox.X1 == r.X1 &&
						(block.Next.BBox.Y0 < r.Y1+1 || block.Next.BBox.Y1 > r.Y0-1) {
						block = block.Next
						r = r.Union(block.BBox)
					}
					gd.addVLine(r.Y0, r.Y1, r.X0, r.X1)
				}
			}
		}
	}
}

// indexTextBlocks loads the text blocks of the subtree (descending into
// struct children) into a spatial index keyed by bounding box.
func indexTextBlocks(tr *rtree.RTreeG[*stext.Block], first *stext.Block) {
	for block := first; block != nil; block = block.Next {
		switch block.Type {
		case stext.BlockStruct:
			if block.Struct != nil {
				indexTextBlocks(tr, block.Struct.FirstBlock)
			}
		case stext.BlockText:
			b := block.BBox
			if b.X0 > b.X1 || b.Y0 > b.Y1 {
				continue
			}
			tr.Insert(
				[2]float64{float64(b.X0), float64(b.Y0)},
				[2]float64{float64(b.X1), float64(b.Y1)},
				block,
			)
		}
	}
}

// eraseGridLines walks the glyphs of every text block intersecting the table
// envelope and records, per cell, which candidate dividers content crosses
// and which cells are occupied. Cell indices clamp at the padding boundary so
// the padding row and column stay empty and uncrossed.
func (gd *gridWalker) eraseGridLines(first *stext.Block) {
	bounds := gd.envelope()

	var tr rtree.RTreeG[*stext.Block]
	indexTextBlocks(&tr, first)
	tr.Search(
		[2]float64{float64(bounds.X0), float64(bounds.Y0)},
		[2]float64{float64(bounds.X1), float64(bounds.Y1)},
		func(_, _ [2]float64, block *stext.Block) bool {
			if block.BBox.X0 >= bounds.X1 || block.BBox.Y0 >= bounds.Y1 ||
				block.BBox.X1 <= bounds.X0 || block.BBox.Y1 <= bounds.Y0 {
				return true
			}
			gd.eraseTextBlock(block)
			return true
		},
	)
}

func (gd *gridWalker) eraseTextBlock(block *stext.Block) {
	for line := block.Text.FirstLine; line != nil; line = line.Next {
		ch := line.FirstChar

		for ch != nil && ch.Codepoint == ' ' {
			ch = ch.Next
		}

		for ; ch != nil; ch = ch.Next {
			if ch.Codepoint == ' ' {
				if ch.Next == nil {
					// Trailing space, skip it.
					break
				}
				if ch.Next.Codepoint == ' ' {
					for ch.Next != nil && ch.Next.Codepoint == ' ' {
						ch = ch.Next
					}
					continue
				}
				// A single space. Accept it.
			}
			r := ch.Rect()
			x0 := findCell(gd.xpos, r.X0)
			x1 := findCell(gd.xpos, r.X1)
			y0 := findCell(gd.ypos, r.Y0)
			y1 := findCell(gd.ypos, r.Y1)
			if x0 < 0 || x1 < 0 || y0 < 0 || y1 < 0 {
				continue
			}
			// A glyph ending exactly on the outer edge resolves to the
			// padding index; pull it back so padding never fills.
			if x1 > gd.cells.w-2 {
				x1 = gd.cells.w - 2
			}
			if y1 > gd.cells.h-2 {
				y1 = gd.cells.h - 2
			}
			if x1 < x0 || y1 < y0 {
				continue
			}
			if x0 < x1 {
				for y := y0; y <= y1; y++ {
					for x := x0; x < x1; x++ {
						gd.cells.at(x+1, y).vCrossed++
					}
				}
			}
			if y0 < y1 {
				for y := y0; y < y1; y++ {
					for x := x0; x <= x1; x++ {
						gd.cells.at(x, y+1).hCrossed++
					}
				}
			}
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					gd.cells.at(x, y).full++
				}
			}
		}
	}
}

// asciiArt renders the grid the way the hunt sees it: lines (- |), crossings
// (v >), both (*), and occupied cells (#). Debug output only.
func (gd *gridWalker) asciiArt() string {
	var sb strings.Builder
	w := gd.cells.w
	h := gd.cells.h
	for y := 0; y < h; y++ {
		for x := 0; x < w-1; x++ {
			c := gd.cells.at(x, y)
			sb.WriteByte('+')
			switch {
			case c.hLine != 0 && c.hCrossed != 0:
				sb.WriteByte('*')
			case c.hLine != 0:
				sb.WriteByte('-')
			case c.hCrossed != 0:
				sb.WriteByte('v')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("+\n")
		if y == h-1 {
			break
		}
		for x := 0; x < w; x++ {
			c := gd.cells.at(x, y)
			switch {
			case c.vLine != 0 && c.vCrossed != 0:
				sb.WriteByte('*')
			case c.vLine != 0:
				sb.WriteByte('|')
			case c.vCrossed != 0:
				sb.WriteByte('>')
			default:
				sb.WriteByte(' ')
			}
			if x < w-1 {
				if c.full != 0 {
					sb.WriteByte('#')
				} else {
					sb.WriteByte(' ')
				}
			} else {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
