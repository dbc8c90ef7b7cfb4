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

// Thing linkage: every thing is in exactly one sector thing list and, unless
// MF_NOBLOCKMAP, in at most one blockmap cell list (none when its origin is
// off the grid). Unlink operations remember where the thing was linked and
// are no-ops on a thing that is not linked

func (w *World) UnlinkFromSectorList(mo *Mobj) {
	if mo.sectorLink == -1 {
		return
	}
	if mo.snext != NoMobj {
		w.mobjs[mo.snext].sprev = mo.sprev
	}
	if mo.sprev != NoMobj {
		w.mobjs[mo.sprev].snext = mo.snext
	} else {
		w.Level.Sectors[mo.sectorLink].ThingList = mo.snext
	}
	mo.sprev = NoMobj
	mo.snext = NoMobj
	mo.sectorLink = -1
}

// Things with MF_NOBLOCKMAP never get a cell, so the recorded cell alone
// decides
func (w *World) UnlinkFromBlockmap(mo *Mobj) {
	if mo.blockLink == -1 {
		return
	}
	bm := w.Level.Blockmap
	if mo.bnext != NoMobj {
		w.mobjs[mo.bnext].bprev = mo.bprev
	}
	if mo.bprev != NoMobj {
		w.mobjs[mo.bprev].bnext = mo.bnext
	} else if mo.blockLink < len(bm.Links) {
		bm.Links[mo.blockLink] = mo.bnext
	}
	mo.bprev = NoMobj
	mo.bnext = NoMobj
	mo.blockLink = -1
}

// Inserts thing at the head of the thing list of the sector that owns
// subsector
func (w *World) LinkToSectorList(mo *Mobj, subsector int) {
	mo.Subsector = subsector
	secnum := w.Level.Subsectors[subsector].Sector
	sec := &w.Level.Sectors[secnum]
	mo.sprev = NoMobj
	mo.snext = sec.ThingList
	if sec.ThingList != NoMobj {
		w.mobjs[sec.ThingList].sprev = mo.ID
	}
	sec.ThingList = mo.ID
	mo.sectorLink = secnum
}

// Inserts thing at the head of the cell list its origin falls into. A thing
// outside of the grid is left out of the blockmap
func (w *World) LinkToBlockmap(mo *Mobj) {
	if mo.Flags&MF_NOBLOCKMAP != 0 {
		return
	}
	bm := w.Level.Blockmap
	mo.bprev = NoMobj
	mo.bnext = NoMobj
	cx, cy := bm.CellCoordOf(mo.X, mo.Y)
	if !bm.InRange(cx, cy) {
		mo.blockLink = -1
		return
	}
	cell := cy*bm.Width + cx
	mo.bnext = bm.Links[cell]
	if mo.bnext != NoMobj {
		w.mobjs[mo.bnext].bprev = mo.ID
	}
	bm.Links[cell] = mo.ID
	mo.blockLink = cell
}

// Unlinks thing from both sector list and blockmap, as done before its
// position changes
func (w *World) UnsetThingPosition(mo *Mobj) {
	w.UnlinkFromSectorList(mo)
	w.UnlinkFromBlockmap(mo)
}

// Links thing according to its current x, y
func (w *World) SetThingPosition(mo *Mobj) {
	w.setThingPositionIn(mo, w.Level.PointInSubsector(mo.X, mo.Y))
}

func (w *World) setThingPositionIn(mo *Mobj, subsector int) {
	w.LinkToSectorList(mo, subsector)
	w.LinkToBlockmap(mo)
}

// Returns cell the thing is linked into, or -1
func (mo *Mobj) BlockCell() int {
	return mo.blockLink
}

// Returns sector the thing is linked into, or -1
func (mo *Mobj) LinkedSector() int {
	return mo.sectorLink
}
