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

// crossBSPNode walks the subsectors a trace passes through, nearest first,
// calling visit for each. Stops and returns false as soon as visit does.
// The far side of a partition is only entered when the trace crosses it
func (w *World) crossBSPNode(tr *trace, bspnum int, visit func(subsector int) bool) bool {
	if bspnum&NF_SUBSECTOR != 0 {
		if bspnum == -1 {
			// level without nodes
			return visit(0)
		}
		num := bspnum &^ NF_SUBSECTOR
		if num >= len(w.Level.Subsectors) {
			w.Log.Panicf("crossBSPNode: subsector %d out of range (level has %d)",
				num, len(w.Level.Subsectors))
		}
		return visit(num)
	}

	bsp := &w.Level.Nodes[bspnum]
	// decide which side the start point is on
	side := divlineSide(tr.X, tr.Y, &bsp.Divline)
	// cross the starting side
	if !w.crossBSPNode(tr, bsp.Children[side], visit) {
		return false
	}
	// the partition plane is crossed here
	if side == divlineSide(tr.x2, tr.y2, &bsp.Divline) {
		// the line doesn't touch the other side
		return true
	}
	// cross the ending side
	return w.crossBSPNode(tr, bsp.Children[side^1], visit)
}

// Heights of the opening between the two sectors of a line
func (w *World) lineOpening(ld *Line) (front, back *Sector, opentop, openbottom Fixed) {
	front = &w.Level.Sectors[ld.FrontSector]
	back = &w.Level.Sectors[ld.BackSector]
	opentop = back.CeilingHeight
	if front.CeilingHeight < back.CeilingHeight {
		opentop = front.CeilingHeight
	}
	openbottom = back.FloorHeight
	if front.FloorHeight > back.FloorHeight {
		openbottom = front.FloorHeight
	}
	return
}
