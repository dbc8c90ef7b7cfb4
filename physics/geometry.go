// Copyright (C) 2022-2023, VigilantDoomer
//
// This file is part of VigilantPhys program.
//
// VigilantPhys is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantPhys is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantPhys.  If not, see <https://www.gnu.org/licenses/>.

package physics

// Bounding box indices
const (
	BOXTOP    = 0
	BOXBOTTOM = 1
	BOXLEFT   = 2
	BOXRIGHT  = 3
)

type BBox [4]Fixed

func (box *BBox) Clear() {
	box[BOXTOP] = MININT
	box[BOXRIGHT] = MININT
	box[BOXBOTTOM] = MAXINT
	box[BOXLEFT] = MAXINT
}

func (box *BBox) Add(x, y Fixed) {
	if x < box[BOXLEFT] {
		box[BOXLEFT] = x
	}
	if x > box[BOXRIGHT] {
		box[BOXRIGHT] = x
	}
	if y < box[BOXBOTTOM] {
		box[BOXBOTTOM] = y
	}
	if y > box[BOXTOP] {
		box[BOXTOP] = y
	}
}

// Boxes that merely touch along an edge do not overlap
func (box *BBox) Overlaps(other *BBox) bool {
	return !(box[BOXRIGHT] <= other[BOXLEFT] ||
		box[BOXLEFT] >= other[BOXRIGHT] ||
		box[BOXTOP] <= other[BOXBOTTOM] ||
		box[BOXBOTTOM] >= other[BOXTOP])
}

// Line slope classification, drives the choice of box diagonal in
// box-crosses-line test
type SlopeType uint8

const (
	ST_HORIZONTAL SlopeType = iota
	ST_VERTICAL
	ST_POSITIVE
	ST_NEGATIVE
)

func slopeTypeOf(dx, dy Fixed) SlopeType {
	if dx == 0 {
		return ST_VERTICAL
	}
	if dy == 0 {
		return ST_HORIZONTAL
	}
	if FixedDiv(dy, dx) > 0 {
		return ST_POSITIVE
	}
	return ST_NEGATIVE
}

// Point and direction: partition lines and traces
type Divline struct {
	X, Y   Fixed
	Dx, Dy Fixed
}

// Returns 0 for the front (right) side of partition line, 1 for back. This
// is the exact test used for point location, including the axis-aligned
// shortcuts
func PointOnDivlineSide(x, y Fixed, line *Divline) int {
	if line.Dx == 0 {
		if x <= line.X {
			return b2i(line.Dy > 0)
		}
		return b2i(line.Dy < 0)
	}
	if line.Dy == 0 {
		if y <= line.Y {
			return b2i(line.Dx < 0)
		}
		return b2i(line.Dx > 0)
	}
	dx := x - line.X
	dy := y - line.Y
	// Try to quickly decide by looking at sign bits
	if (line.Dy^line.Dx^dx^dy)&MININT != 0 {
		if (line.Dy^dx)&MININT != 0 {
			// left is negative
			return 1
		}
		return 0
	}
	left := FixedMul(line.Dy>>FRACBITS, dx)
	right := FixedMul(dy, line.Dx>>FRACBITS)
	if right < left {
		// front side
		return 0
	}
	return 1
}

// Coarse side test used while tracing rays through the tree. Only the
// integer parts of the operands take part, and points exactly on the line
// count as the back side
func divlineSide(x, y Fixed, line *Divline) int {
	dx := x - line.X
	dy := y - line.Y
	left := int64(line.Dy>>FRACBITS) * int64(dx>>FRACBITS)
	right := int64(dy>>FRACBITS) * int64(line.Dx>>FRACBITS)
	return b2i(left <= right)
}

// Ray in integer map units, immutable during a single trace
type trace struct {
	Divline
	x2, y2 Fixed // end point
	// integer copies of start and end
	ix1, iy1, ix2, iy2 int64
}

func newTrace(x1, y1, x2, y2 Fixed) trace {
	return trace{
		Divline: Divline{X: x1, Y: y1, Dx: x2 - x1, Dy: y2 - y1},
		x2:      x2,
		y2:      y2,
		ix1:     int64(x1 >> FRACBITS),
		iy1:     int64(y1 >> FRACBITS),
		ix2:     int64(x2 >> FRACBITS),
		iy2:     int64(y2 >> FRACBITS),
	}
}

// Fraction along the trace (0..FRACUNIT) at which it crosses the segment
// v1-v2, or -1 if it does not. Parallel and degenerate segments never cross.
func (tr *trace) interceptFrac(v1x, v1y, v2x, v2y Fixed) Fixed {
	p1x, p1y := int64(v1x>>FRACBITS), int64(v1y>>FRACBITS)
	p2x, p2y := int64(v2x>>FRACBITS), int64(v2y>>FRACBITS)
	ldx := p2x - p1x
	ldy := p2y - p1y
	// which side of the segment each end of the trace is on
	s1 := (tr.ix1-p1x)*ldy - (tr.iy1-p1y)*ldx
	s2 := (tr.ix2-p1x)*ldy - (tr.iy2-p1y)*ldx
	if (s1 < 0) == (s2 < 0) {
		return -1
	}
	// which side of the trace each end of the segment is on
	tdx := tr.ix2 - tr.ix1
	tdy := tr.iy2 - tr.iy1
	e1 := (p1x-tr.ix1)*tdy - (p1y-tr.iy1)*tdx
	e2 := (p2x-tr.ix1)*tdy - (p2y-tr.iy1)*tdx
	if (e1 < 0) == (e2 < 0) && e1 != 0 && e2 != 0 {
		return -1
	}
	den := s1 - s2
	if den == 0 {
		return -1
	}
	return Fixed((s1 << FRACBITS) / den)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
