// Package tablehunt finds tables in a structured-text page and rewrites the
// page's block tree so that each one is expressed as an explicit
// Table/TableRow/TableCell hierarchy with a grid annotation carrying the
// inferred divider positions.
//
// The hunt projects character runs and line extents onto each axis, reads
// candidate dividers off the local minima of the resulting winding trace,
// reinforces them with ruled lines harvested from vector graphics, records
// where content crosses a candidate divider, coalesces over-segmented rows
// and columns, and finally transcribes the surviving grid, moving the covered
// content into the new cells.
package tablehunt

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tablehunt/tablehunt/geometry"
	"github.com/tablehunt/tablehunt/internal/logger"
	"github.com/tablehunt/tablehunt/stext"
)

var Logger = logger.GetLogger("tablehunt")

// DetectTables runs the hunt over the whole page, recursing into structural
// containers first. Degenerate input (no content, too few dividers, a grid
// that simplifies below 3x3) is not an error: the page is simply left as it
// was. On success the page tree is mutated in place.
func DetectTables(page *stext.Page) {
	if page == nil {
		return
	}
	doTableHunt(page, nil)
}

// DetectPages fans DetectTables out over independent pages, one page per
// worker. The engine itself is single-threaded per page; this is the outer
// harness.
func DetectPages(ctx context.Context, pages []*stext.Page) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, page := range pages {
		page := page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			DetectTables(page)
			return nil
		})
	}
	return g.Wait()
}

func bboxOfBlocks(block *stext.Block) geometry.Rect {
	r := geometry.Empty
	for ; block != nil; block = block.Next {
		r = r.Union(block.BBox)
	}
	return r
}

func doTableHunt(page *stext.Page, parent *stext.Struct) {
	var first *stext.Block
	if parent != nil {
		first = parent.FirstBlock
	} else {
		first = page.FirstBlock
	}
	if first == nil {
		return
	}

	// Children that already look like containers may hold tables of their
	// own; hunt there before considering this level.
	count := 0
	for block := first; block != nil; block = block.Next {
		switch block.Type {
		case stext.BlockStruct:
			if block.Struct != nil {
				doTableHunt(page, block.Struct)
				count++
			}
		case stext.BlockText:
			count++
		}
	}

	// A single child cannot be a table.
	if count <= 1 {
		return
	}

	// Only content at this level is projected; structural children keep
	// their own geometry to themselves.
	var xs, ys divList
	walkBlocks(&xs, &ys, first, false)

	xs.sanitize()
	ys.sanitize()

	if len(xs.list) <= 2 || len(ys.list) <= 2 {
		return
	}

	rect := bboxOfBlocks(first)
	xps := makeTablePositions(&xs, rect.X0, rect.X1)
	yps := makeTablePositions(&ys, rect.Y0, rect.Y1)
	Logger.Debug("candidate grid",
		"xDividers", len(xps.List), "yDividers", len(yps.List),
		"maxUncertaintyX", xps.MaxUncertainty, "maxUncertaintyY", yps.MaxUncertainty)

	table := checkForGridLines(xps, yps, page, parent)
	if table == nil {
		return
	}

	grid := stext.AddGridBlock(page, table, xps, yps)
	Logger.Debug("table detected", "bbox", grid.BBox)
}

// checkForGridLines analyses one candidate grid and transcribes it if it
// survives simplification. All scratch state lives and dies here.
func checkForGridLines(xps, yps *stext.GridPositions, page *stext.Page, parent *stext.Struct) *stext.Struct {
	var first *stext.Block
	if parent != nil {
		first = parent.FirstBlock
	} else {
		first = page.FirstBlock
	}

	gd := gridWalker{
		cells: newCellGrid(len(xps.List), len(yps.List)),
		xpos:  xps,
		ypos:  yps,
	}

	// Drawn rules refine the candidate positions and stamp line flags.
	gd.walkGridLines(first)
	// Content that crosses a candidate divider marks the cells it spans.
	gd.eraseGridLines(first)

	if Logger.Enabled(context.Background(), slog.LevelDebug) {
		Logger.Debug("cell grid before simplification", "grid", "\n"+gd.asciiArt())
	}

	gd.mergeColumns()
	gd.mergeRows()

	if Logger.Enabled(context.Background(), slog.LevelDebug) {
		Logger.Debug("cell grid after simplification", "grid", "\n"+gd.asciiArt())
	}

	// Did we shrink the table so much it's not a table any more?
	if len(gd.xpos.List) < 3 || len(gd.ypos.List) < 3 {
		Logger.Debug("candidate rejected: grid collapsed",
			"w", len(gd.xpos.List), "h", len(gd.ypos.List))
		return nil
	}

	return gd.transcribeTable(page, parent)
}
