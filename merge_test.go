package tablehunt

import (
	"testing"

	"github.com/tablehunt/tablehunt/stext"
)

func walkerWithGrid(xPos, yPos []float32) *gridWalker {
	xs := &stext.GridPositions{}
	for _, p := range xPos {
		xs.List = append(xs.List, stext.GridPos{Pos: p, Min: p, Max: p})
	}
	ys := &stext.GridPositions{}
	for _, p := range yPos {
		ys.List = append(ys.List, stext.GridPos{Pos: p, Min: p, Max: p})
	}
	return &gridWalker{cells: newCellGrid(len(xPos), len(yPos)), xpos: xs, ypos: ys}
}

func TestMergeColumnsEmptyColumn(t *testing.T) {
	// Four real columns, the third one entirely empty: it fuses with its
	// right neighbour and the grid narrows by one.
	gd := walkerWithGrid([]float32{0, 10, 20, 30, 40}, []float32{0, 10, 20, 30})
	for y := 0; y < 3; y++ {
		gd.cells.at(0, y).full = 1
		gd.cells.at(1, y).full = 1
		gd.cells.at(3, y).full = 1
	}

	gd.mergeColumns()

	if gd.cells.w != 4 {
		t.Fatalf("w = %d after merge, want 4", gd.cells.w)
	}
	if len(gd.xpos.List) != 4 {
		t.Fatalf("xpos len = %d, want 4", len(gd.xpos.List))
	}
	want := []float32{0, 10, 20, 40}
	for i, p := range want {
		if gd.xpos.List[i].Pos != p {
			t.Errorf("xpos[%d] = %g, want %g", i, gd.xpos.List[i].Pos, p)
		}
	}
	for y := 0; y < 3; y++ {
		if gd.cells.at(2, y).full == 0 {
			t.Errorf("fused column lost content at row %d", y)
		}
	}
}

func TestMergeColumnsBlockedByContent(t *testing.T) {
	// Two adjacent full columns with no crossing stay separate.
	gd := walkerWithGrid([]float32{0, 10, 20, 30}, []float32{0, 10, 20, 30})
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			gd.cells.at(x, y).full = 1
		}
	}

	gd.mergeColumns()

	if gd.cells.w != 4 || len(gd.xpos.List) != 4 {
		t.Errorf("full uncrossed columns merged: w=%d", gd.cells.w)
	}
}

func TestMergeColumnsBlockedByRule(t *testing.T) {
	gd := walkerWithGrid([]float32{0, 10, 20}, []float32{0, 10, 20, 30})
	// Content crosses the shared edge, but a drawn vertical rule sits on it:
	// the rule wins.
	for y := 0; y < 3; y++ {
		gd.cells.at(0, y).full = 1
		gd.cells.at(1, y).full = 1
		gd.cells.at(1, y).vCrossed = 1
		gd.cells.at(1, y).vLine = 1
	}

	gd.mergeColumns()

	if gd.cells.w != 3 {
		t.Errorf("merge crossed a drawn rule: w=%d", gd.cells.w)
	}
}

func TestMergeColumnsCrossedContent(t *testing.T) {
	// Both columns full everywhere but content crosses the shared edge on
	// every row, so the divider is an artefact.
	gd := walkerWithGrid([]float32{0, 10, 20, 30}, []float32{0, 10, 20, 30})
	for y := 0; y < 3; y++ {
		gd.cells.at(0, y).full = 1
		gd.cells.at(1, y).full = 1
		gd.cells.at(1, y).vCrossed = 1
		gd.cells.at(2, y).full = 1
	}

	gd.mergeColumns()

	if gd.cells.w != 3 {
		t.Fatalf("w = %d, want 3 (one merge)", gd.cells.w)
	}
	want := []float32{0, 20, 30}
	for i, p := range want {
		if gd.xpos.List[i].Pos != p {
			t.Errorf("xpos[%d] = %g, want %g", i, gd.xpos.List[i].Pos, p)
		}
	}
	if gd.cells.at(0, 0).full == 0 || gd.cells.at(1, 0).full == 0 {
		t.Error("merged grid lost content")
	}
}

func TestMergeRowsEmptyRow(t *testing.T) {
	gd := walkerWithGrid([]float32{0, 10, 20, 30}, []float32{0, 10, 20, 30, 40})
	for x := 0; x < 3; x++ {
		gd.cells.at(x, 0).full = 1
		gd.cells.at(x, 1).full = 1
		gd.cells.at(x, 3).full = 1
	}

	gd.mergeRows()

	if gd.cells.h != 4 {
		t.Fatalf("h = %d after merge, want 4", gd.cells.h)
	}
	if len(gd.ypos.List) != 4 {
		t.Fatalf("ypos len = %d, want 4", len(gd.ypos.List))
	}
	want := []float32{0, 10, 20, 40}
	for i, p := range want {
		if gd.ypos.List[i].Pos != p {
			t.Errorf("ypos[%d] = %g, want %g", i, gd.ypos.List[i].Pos, p)
		}
	}
	for x := 0; x < 3; x++ {
		if gd.cells.at(x, 2).full == 0 {
			t.Errorf("fused row lost content at column %d", x)
		}
	}
}

func TestMergeMonotonicAndTerminates(t *testing.T) {
	// An entirely empty grid collapses as far as the rules allow and the
	// loops terminate; width and height never grow.
	gd := walkerWithGrid([]float32{0, 10, 20, 30, 40, 50}, []float32{0, 10, 20, 30, 40})
	w0, h0 := gd.cells.w, gd.cells.h

	gd.mergeColumns()
	gd.mergeRows()

	if gd.cells.w > w0 || gd.cells.h > h0 {
		t.Errorf("merge grew the grid: %dx%d -> %dx%d", w0, h0, gd.cells.w, gd.cells.h)
	}
	if gd.cells.w != len(gd.xpos.List) || gd.cells.h != len(gd.ypos.List) {
		t.Errorf("cells and positions out of sync: %dx%d vs %dx%d",
			gd.cells.w, gd.cells.h, len(gd.xpos.List), len(gd.ypos.List))
	}
}
