package tablehunt

// Over-segmented projections produce more candidate dividers than the table
// has. Two adjacent columns collapse into one when every pair of cells across
// them is mergeable: no ruled divider between them, and either one of the
// pair is empty, or both agree on top-edge ruling and content demonstrably
// crosses the shared edge. Rows merge symmetrically.

func (gd *gridWalker) mergeColumn(x int) {
	w := gd.cells.w
	for y := 0; y < gd.cells.h; y++ {
		s := gd.cells.cell[x+y*w:]
		d := make([]cell, 0, w-1)
		d = append(d, gd.cells.cell[y*w:x+y*w]...)
		fused := s[0]
		if s[0].full != 0 || s[1].full != 0 {
			fused.full = 1
		} else {
			fused.full = 0
		}
		if s[0].hCrossed != 0 || s[1].hCrossed != 0 {
			fused.hCrossed = 1
		} else {
			fused.hCrossed = 0
		}
		// hLine equals s[1]'s by the merge rule; vLine and vCrossed stay
		// with the left column's edge.
		d = append(d, fused)
		d = append(d, s[2:w-x]...)
		copy(gd.cells.cell[y*(w-1):], d)
	}
	gd.cells.w--
	gd.cells.cell = gd.cells.cell[:gd.cells.w*gd.cells.h]

	copy(gd.xpos.List[x+1:], gd.xpos.List[x+2:])
	gd.xpos.List = gd.xpos.List[:len(gd.xpos.List)-1]
}

func (gd *gridWalker) mergeColumns() {
	for x := gd.cells.w - 3; x >= 0; x-- {
		y := 0
		for ; y < gd.cells.h-1; y++ {
			a := gd.cells.at(x, y)
			b := gd.cells.at(x+1, y)
			if b.vLine != 0 {
				break
			}
			if a.full == 0 || b.full == 0 {
				continue
			}
			if (a.hLine != 0) != (b.hLine != 0) {
				break
			}
			if b.vCrossed != 0 {
				continue
			}
			break
		}
		if y == gd.cells.h-1 {
			Logger.Debug("merging column", "x", x)
			gd.mergeColumn(x)
		}
	}
}

func (gd *gridWalker) mergeRow(y int) {
	w := gd.cells.w
	row := gd.cells.cell[y*w:]
	for x := 0; x < w-1; x++ {
		if row[x].full == 0 {
			row[x].full = row[x+w].full
		}
		if row[x].hCrossed == 0 {
			row[x].hCrossed = row[x+w].hCrossed
		}
	}
	copy(gd.cells.cell[(y+1)*w:], gd.cells.cell[(y+2)*w:gd.cells.h*w])
	gd.cells.h--
	gd.cells.cell = gd.cells.cell[:gd.cells.w*gd.cells.h]

	copy(gd.ypos.List[y+1:], gd.ypos.List[y+2:])
	gd.ypos.List = gd.ypos.List[:len(gd.ypos.List)-1]
}

func (gd *gridWalker) mergeRows() {
	for y := gd.cells.h - 3; y >= 0; y-- {
		x := 0
		for ; x < gd.cells.w-1; x++ {
			a := gd.cells.at(x, y)
			b := gd.cells.at(x, y+1)
			if b.hLine != 0 {
				break
			}
			if a.full == 0 || b.full == 0 {
				continue
			}
			if (a.vLine != 0) != (b.vLine != 0) {
				break
			}
			if b.hCrossed != 0 {
				continue
			}
			break
		}
		if x == gd.cells.w-1 {
			Logger.Debug("merging row", "y", y)
			gd.mergeRow(y)
		}
	}
}
