package tablehunt

import (
	"github.com/tablehunt/tablehunt/geometry"
	"github.com/tablehunt/tablehunt/stext"
)

const (
	sideStart = true
	sideEnd   = false
)

// divEntry is one edge of a projected content run: the side says whether a
// run starts or ends here.
type divEntry struct {
	start bool
	pos   float32
	freq  int
}

// divList is a projection of content runs onto one axis, kept sorted by
// position. Equal (position, side) entries coalesce by frequency.
type divList struct {
	list []divEntry
}

func (d *divList) push(start bool, pos float32) {
	i := 0
	for ; i < len(d.list); i++ {
		if d.list[i].pos > pos {
			break
		}
		if d.list[i].pos == pos && d.list[i].start == start {
			d.list[i].freq++
			return
		}
	}
	d.list = append(d.list, divEntry{})
	copy(d.list[i+1:], d.list[i:])
	d.list[i] = divEntry{start: start, pos: pos, freq: 1}
}

// sanitize collapses runs of same-side entries so that the list strictly
// alternates start/end. A run of starts keeps its first entry (the leftmost
// start); a run of ends keeps its last (the rightmost end), so the surviving
// positions are the outermost extents of the overlap. Idempotent.
func (d *divList) sanitize() {
	for i := 0; i < len(d.list); i++ {
		if d.list[i].start {
			j := i
			for i < len(d.list)-1 && d.list[i+1].start {
				i++
				d.list[j].freq += d.list[i].freq
				d.list[i].freq = 0
			}
		} else {
			for i < len(d.list)-1 && !d.list[i+1].start {
				i++
				d.list[i].freq += d.list[i-1].freq
				d.list[i-1].freq = 0
			}
		}
	}

	j := 0
	for i := 0; i < len(d.list); i++ {
		if d.list[i].freq == 0 {
			continue
		}
		if i != j {
			d.list[j] = d.list[i]
		}
		j++
	}
	d.list = d.list[:j]
}

// makeTablePositions compresses a sanitized projection into candidate grid
// positions. Walking the list keeps a running winding count (runs covering
// the current position); each local minimum becomes a divider whose
// uncertainty is the residual winding across the gap. The outer edges span
// from the given bounds to the outermost content extents and carry zero
// uncertainty.
func makeTablePositions(d *divList, min, max float32) *stext.GridPositions {
	n := len(d.list)
	if n == 0 {
		return nil
	}

	edges := 2
	localMin := false
	for i := 0; i < n; i++ {
		if d.list[i].start {
			if localMin {
				edges++
			}
		} else {
			localMin = true
		}
	}

	pos := &stext.GridPositions{List: make([]stext.GridPos, edges)}
	pos.List[0] = stext.GridPos{
		Pos: d.list[0].pos,
		Min: min,
		Max: d.list[0].pos,
	}

	wind := 0
	hi := 0
	localMin = false
	e := 1
	for i := 0; i < n; i++ {
		if d.list[i].start {
			if localMin {
				pos.List[e] = stext.GridPos{
					Pos:         (d.list[i-1].pos + d.list[i].pos) / 2,
					Min:         d.list[i-1].pos,
					Max:         d.list[i].pos,
					Uncertainty: wind,
				}
				e++
			}
			wind += d.list[i].freq
			if wind > hi {
				hi = wind
			}
		} else {
			wind -= d.list[i].freq
			localMin = true
		}
	}
	last := d.list[n-1].pos
	pos.List[e] = stext.GridPos{Pos: last, Min: last, Max: max}
	pos.MaxUncertainty = hi

	return pos
}

// walkBlocks projects the content of a block list onto both axes: line
// extents feed ys, character runs feed xs. A run of non-space glyphs ends at
// a run of two or more spaces or at a trailing space (using the left edge of
// the terminating space), or at end of line (using the right edge of the last
// glyph). A single interior space does not end a run. Struct children are
// only entered when descend is set; vector blocks never contribute.
func walkBlocks(xs, ys *divList, first *stext.Block, descend bool) {
	for block := first; block != nil; block = block.Next {
		switch block.Type {
		case stext.BlockStruct:
			if descend && block.Struct != nil {
				walkBlocks(xs, ys, block.Struct.FirstBlock, descend)
			}
		case stext.BlockText:
			for line := block.Text.FirstLine; line != nil; line = line.Next {
				var rpos float32
				left := true
				right := false
				ys.push(sideStart, line.BBox.Y0)
				ys.push(sideEnd, line.BBox.Y1)
				for ch := line.FirstChar; ch != nil; ch = ch.Next {
					if ch.Codepoint == ' ' {
						if ch.Next == nil {
							// Trailing spaces have been seen on cell
							// contents; end the run at the left edge of the
							// space rather than letting it leak across the
							// divider.
							if right {
								lpos := geometry.Min32(ch.Quad.LL.X, ch.Quad.UL.X)
								xs.push(sideEnd, lpos)
								left = true
								right = false
							}
						} else if ch.Next.Codepoint == ' ' {
							// Run of multiple spaces: end the run at the left
							// edge of the first space and skip the rest.
							if right {
								lpos := geometry.Min32(ch.Quad.LL.X, ch.Quad.UL.X)
								xs.push(sideEnd, lpos)
								for ch.Next != nil && ch.Next.Codepoint == ' ' {
									ch = ch.Next
								}
								left = true
								right = false
							}
						}
						// A single interior space neither starts nor ends a
						// run.
					} else {
						if left {
							lpos := geometry.Min32(ch.Quad.LL.X, ch.Quad.UL.X)
							xs.push(sideStart, lpos)
							left = false
						}
						rpos = geometry.Max32(ch.Quad.LR.X, ch.Quad.UR.X)
						right = true
					}
				}
				if right {
					xs.push(sideEnd, rpos)
				}
			}
		}
	}
}
