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

type sightState struct {
	tr trace
	// eye height of the looker
	zstart Fixed
	// window of visible slopes, as height differences over the whole trace
	topslope    Fixed
	bottomslope Fixed
}

// CheckSight returns true if a straight line between the eyes of t1 and
// any part of t2 is not blocked by walls, floors or ceilings
func (w *World) CheckSight(t1, t2 *Mobj) bool {
	lv := w.Level
	// First check for trivial rejection
	s1 := lv.Subsectors[t1.Subsector].Sector
	s2 := lv.Subsectors[t2.Subsector].Sector
	if lv.RejectBlocks(s1, s2) {
		// can't possibly be connected
		return false
	}

	lv.NextValidCount()
	// make sure it never lies exactly on a vertex coordinate
	x1 := (t1.X &^ 0x1ffff) | 0x10000
	y1 := (t1.Y &^ 0x1ffff) | 0x10000
	x2 := (t2.X &^ 0x1ffff) | 0x10000
	y2 := (t2.Y &^ 0x1ffff) | 0x10000

	st := &sightState{tr: newTrace(x1, y1, x2, y2)}
	// look from eyes of t1 to any part of t2
	st.zstart = t1.Z + t1.Height - (t1.Height >> 2)
	st.topslope = (t2.Z + t2.Height) - st.zstart
	st.bottomslope = t2.Z - st.zstart

	return w.crossBSPNode(&st.tr, lv.rootNode(), func(num int) bool {
		return w.sightCrossSubsector(st, num)
	})
}

// Returns false if sight is blocked within the subsector
func (w *World) sightCrossSubsector(st *sightState, num int) bool {
	lv := w.Level
	sub := &lv.Subsectors[num]
	for i := sub.FirstSeg; i < sub.FirstSeg+sub.NumSegs; i++ {
		ld := &lv.Lines[lv.Segs[i].Line]
		if lv.lineVisited(ld) {
			continue
		}
		s1 := divlineSide(ld.V1.X, ld.V1.Y, &st.tr.Divline)
		s2 := divlineSide(ld.V2.X, ld.V2.Y, &st.tr.Divline)
		if s1 == s2 {
			// line isn't crossed
			continue
		}
		ldl := Divline{X: ld.V1.X, Y: ld.V1.Y, Dx: ld.V2.X - ld.V1.X, Dy: ld.V2.Y - ld.V1.Y}
		if divlineSide(st.tr.X, st.tr.Y, &ldl) == divlineSide(st.tr.x2, st.tr.y2, &ldl) {
			// the line is crossed beyond the ends of the trace
			continue
		}
		if ld.BackSector == -1 || ld.Flags&ML_TWOSIDED == 0 {
			// stop because it is not two sided anyway
			return false
		}
		front, back, opentop, openbottom := w.lineOpening(ld)
		if front.FloorHeight == back.FloorHeight && front.CeilingHeight == back.CeilingHeight {
			// no wall to block sight with
			continue
		}
		if openbottom >= opentop {
			// quick test for totally closed doors
			return false
		}

		frac := st.tr.interceptFrac(ld.V1.X, ld.V1.Y, ld.V2.X, ld.V2.Y)
		if frac < 4 || frac > FRACUNIT {
			continue
		}
		frac >>= 2
		if front.FloorHeight != back.FloorHeight {
			slope := (((openbottom - st.zstart) << 6) / frac) << 8
			if slope > st.bottomslope {
				st.bottomslope = slope
			}
		}
		if front.CeilingHeight != back.CeilingHeight {
			slope := (((opentop - st.zstart) << 6) / frac) << 8
			if slope < st.topslope {
				st.topslope = slope
			}
		}
		if st.topslope <= st.bottomslope {
			// stop
			return false
		}
	}
	// passed the subsector ok
	return true
}
