package tablehunt

import (
	"testing"

	"github.com/tablehunt/tablehunt/geometry"
	"github.com/tablehunt/tablehunt/stext"
)

func axisPositions(entries ...stext.GridPos) *stext.GridPositions {
	return &stext.GridPositions{List: entries}
}

func testWalker() *gridWalker {
	xpos := axisPositions(
		stext.GridPos{Pos: 0, Min: 0, Max: 0},
		stext.GridPos{Pos: 10, Min: 8, Max: 12, Uncertainty: 0},
		stext.GridPos{Pos: 20, Min: 20, Max: 20},
	)
	ypos := axisPositions(
		stext.GridPos{Pos: 0, Min: 0, Max: 0},
		stext.GridPos{Pos: 10, Min: 8, Max: 12, Uncertainty: 0},
		stext.GridPos{Pos: 20, Min: 20, Max: 20},
	)
	return &gridWalker{cells: newCellGrid(3, 3), xpos: xpos, ypos: ypos}
}

func TestFindGridPosReinforcement(t *testing.T) {
	gd := testWalker()

	if idx := findGridPos(gd.xpos, 9, false); idx != 1 {
		t.Fatalf("snap(9) = %d, want 1", idx)
	}
	// The first reinforcement replaces the position outright (running mean
	// seeded from zero observations).
	if p := gd.xpos.List[1]; p.Pos != 9 || p.Reinforcement != 1 {
		t.Errorf("after first snap: pos=%g reinforcement=%d, want 9/1", p.Pos, p.Reinforcement)
	}
	if idx := findGridPos(gd.xpos, 11, false); idx != 1 {
		t.Fatalf("snap(11) = %d, want 1", idx)
	}
	if p := gd.xpos.List[1]; p.Pos != 10 || p.Reinforcement != 2 {
		t.Errorf("after second snap: pos=%g reinforcement=%d, want 10/2", p.Pos, p.Reinforcement)
	}
}

func TestFindGridPosExpand(t *testing.T) {
	gd := testWalker()

	// 15 sits in the dead zone between max=12 and min=20; the midpoint is 16.
	if idx := findGridPos(gd.xpos, 15, true); idx != 1 {
		t.Errorf("expand snap(15) = %d, want 1", idx)
	}
	if idx := findGridPos(gd.xpos, 17, true); idx != 2 {
		t.Errorf("expand snap(17) = %d, want 2", idx)
	}
	// Expanded snaps do not reinforce.
	if r := gd.xpos.List[1].Reinforcement; r != 0 {
		t.Errorf("expand snap reinforced: %d", r)
	}
	if idx := findGridPos(gd.xpos, 15, false); idx != -1 {
		t.Errorf("non-expand snap(15) = %d, want -1", idx)
	}
	if idx := findGridPos(gd.xpos, 25, true); idx != -1 {
		t.Errorf("snap beyond last = %d, want -1", idx)
	}
	if idx := findGridPos(gd.xpos, -5, true); idx != -1 {
		t.Errorf("snap before first = %d, want -1", idx)
	}
}

func TestFindCell(t *testing.T) {
	pos := axisPositions(
		stext.GridPos{Pos: 0},
		stext.GridPos{Pos: 10},
		stext.GridPos{Pos: 20},
		stext.GridPos{Pos: 30},
	)
	cases := []struct {
		v    float32
		want int
	}{
		{5, 0},
		{10, 1},
		{29, 2},
		{30, 3},
		{-1, -1},
		{35, -1},
	}
	for _, tc := range cases {
		if got := findCell(pos, tc.v); got != tc.want {
			t.Errorf("findCell(%g) = %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestAddHLine(t *testing.T) {
	gd := testWalker()

	if failed := gd.addHLine(0, 20, 10, 10); failed {
		t.Fatal("addHLine failed")
	}
	if gd.cells.at(0, 1).hLine != 1 || gd.cells.at(1, 1).hLine != 1 {
		t.Error("h_line not stamped across the rule span")
	}
	if gd.cells.at(0, 0).hLine != 0 {
		t.Error("h_line stamped on the wrong row")
	}

	// A rule whose cross coordinate misses every interval is rejected.
	if failed := gd.addHLine(0, 20, 15, 15); !failed {
		t.Error("addHLine accepted an unsnappable rule")
	}
}

func TestWalkGridLinesMergesShortStrokes(t *testing.T) {
	gd := testWalker()

	// A ruled line drawn as two short strokes: the first alone cannot snap
	// (both endpoints resolve to position 0), the merged union can.
	page := stext.NewPage()
	stext.InsertBlockBefore(page, nil, stext.NewVectorBlock(geometry.Rect{X0: 0, Y0: 9.9, X1: 3, Y1: 10.1}), nil)
	stext.InsertBlockBefore(page, nil, stext.NewVectorBlock(geometry.Rect{X0: 4.5, Y0: 9.9, X1: 20, Y1: 10.1}), nil)

	gd.walkGridLines(page.FirstBlock)

	if gd.cells.at(0, 1).hLine != 1 {
		t.Errorf("merged stroke not stamped at (0,1): %d", gd.cells.at(0, 1).hLine)
	}
	if gd.cells.at(1, 1).hLine != 1 {
		t.Errorf("merged stroke not stamped at (1,1): %d", gd.cells.at(1, 1).hLine)
	}
}

func TestWalkGridLinesFramedCell(t *testing.T) {
	gd := testWalker()

	page := stext.NewPage()
	stext.InsertBlockBefore(page, nil, stext.NewVectorBlock(geometry.Rect{X0: 0, Y0: 0, X1: 20, Y1: 20}), nil)

	gd.walkGridLines(page.FirstBlock)

	// Top and bottom edges.
	for x := 0; x < 2; x++ {
		if gd.cells.at(x, 0).hLine == 0 {
			t.Errorf("top edge missing at (%d,0)", x)
		}
		if gd.cells.at(x, 2).hLine == 0 {
			t.Errorf("bottom edge missing at (%d,2)", x)
		}
	}
	// Left and right edges.
	for y := 0; y < 2; y++ {
		if gd.cells.at(0, y).vLine == 0 {
			t.Errorf("left edge missing at (0,%d)", y)
		}
		if gd.cells.at(2, y).vLine == 0 {
			t.Errorf("right edge missing at (2,%d)", y)
		}
	}
}

func TestEraseGridLinesCrossingAndPadding(t *testing.T) {
	gd := testWalker()

	page := stext.NewPage()
	b := stext.NewTextBlock()
	l := &stext.Line{}
	// Straddles the divider at x=10.
	l.AppendChar('w', geometry.QuadFromRect(geometry.Rect{X0: 5, Y0: 2, X1: 15, Y1: 4}))
	b.AppendLine(l)
	l2 := &stext.Line{}
	// Ends exactly on the outer edge; must not fill the padding column.
	l2.AppendChar('z', geometry.QuadFromRect(geometry.Rect{X0: 15, Y0: 12.5, X1: 20, Y1: 14}))
	b.AppendLine(l2)
	stext.InsertBlockBefore(page, nil, b, nil)

	gd.eraseGridLines(page.FirstBlock)

	if gd.cells.at(1, 0).vCrossed == 0 {
		t.Error("straddling glyph did not mark v_crossed at (1,0)")
	}
	if gd.cells.at(0, 0).full == 0 || gd.cells.at(1, 0).full == 0 {
		t.Error("straddling glyph did not fill both cells")
	}
	if gd.cells.at(1, 1).full == 0 {
		t.Error("edge-touching glyph did not fill its real cell")
	}
	for y := 0; y < 3; y++ {
		if c := gd.cells.at(2, y); c.full != 0 || c.vCrossed != 0 {
			t.Errorf("padding column dirtied at y=%d: %+v", y, *c)
		}
	}
	for x := 0; x < 3; x++ {
		if c := gd.cells.at(x, 2); c.full != 0 || c.hCrossed != 0 {
			t.Errorf("padding row dirtied at x=%d: %+v", x, *c)
		}
	}
}

func TestEraseGridLinesSpaceHandling(t *testing.T) {
	gd := testWalker()

	page := stext.NewPage()
	b := stext.NewTextBlock()
	l := &stext.Line{}
	// Leading space, then a glyph, then two trailing spaces: only the glyph
	// counts.
	l.AppendChar(' ', geometry.QuadFromRect(geometry.Rect{X0: 0, Y0: 2, X1: 2, Y1: 4}))
	l.AppendChar('a', geometry.QuadFromRect(geometry.Rect{X0: 2, Y0: 2, X1: 4, Y1: 4}))
	l.AppendChar(' ', geometry.QuadFromRect(geometry.Rect{X0: 4, Y0: 2, X1: 13, Y1: 4}))
	l.AppendChar(' ', geometry.QuadFromRect(geometry.Rect{X0: 13, Y0: 2, X1: 15, Y1: 4}))
	b.AppendLine(l)
	stext.InsertBlockBefore(page, nil, b, nil)

	gd.eraseGridLines(page.FirstBlock)

	if gd.cells.at(0, 0).full == 0 {
		t.Error("glyph cell not filled")
	}
	if gd.cells.at(1, 0).full != 0 {
		t.Error("space run filled a cell")
	}
	if gd.cells.at(1, 0).vCrossed != 0 {
		t.Error("space run crossed a divider")
	}
}
