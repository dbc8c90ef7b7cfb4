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

// Largest floor step a walking thing can climb, also the largest drop it
// will walk off
const MAXSTEPHEIGHT = 24 * FRACUNIT

// CollisionQuery is the state of one position check: the subject, where it
// wants to be, and what was found there. A query lives for one call and is
// handed back to the caller for inspection
type CollisionQuery struct {
	Subject *Mobj
	X, Y    Fixed
	Flags   uint32
	Radius  Fixed
	BBox    BBox

	Subsector int
	FloorZ    Fixed
	CeilingZ  Fixed
	DropoffZ  Fixed
	// line that set the lowest ceiling, -1 if none
	CeilingLine int
	// thing that was hit, NoMobj if none
	HitThing MobjID

	// whether touching specials counts; only when the move is real
	pickup bool
}

func newCollisionQuery(mo *Mobj, x, y Fixed) *CollisionQuery {
	q := &CollisionQuery{
		Subject:     mo,
		X:           x,
		Y:           y,
		Flags:       mo.Flags,
		Radius:      mo.Radius,
		CeilingLine: -1,
		HitThing:    NoMobj,
	}
	q.BBox[BOXTOP] = y + q.Radius
	q.BBox[BOXBOTTOM] = y - q.Radius
	q.BBox[BOXRIGHT] = x + q.Radius
	q.BBox[BOXLEFT] = x - q.Radius
	return q
}

// CheckPosition finds out whether mo could stand at x, y ignoring heights,
// and fills the query with the floor, ceiling and dropoff heights there.
// Returns false as soon as a blocking line or thing is found
func (w *World) CheckPosition(mo *Mobj, x, y Fixed) (*CollisionQuery, bool) {
	q := newCollisionQuery(mo, x, y)
	return q, w.checkPosition(q)
}

func (w *World) checkPosition(q *CollisionQuery) bool {
	lv := w.Level
	// the base floor / ceiling is from the subsector that contains the point.
	// Any contacted lines the step closer together will adjust them
	q.Subsector = lv.PointInSubsector(q.X, q.Y)
	sec := &lv.Sectors[lv.Subsectors[q.Subsector].Sector]
	q.FloorZ = sec.FloorHeight
	q.DropoffZ = sec.FloorHeight
	q.CeilingZ = sec.CeilingHeight

	lv.NextValidCount()
	q.CeilingLine = -1
	q.HitThing = NoMobj

	// things are grouped into cells by their origin, so the box is extended
	// by the largest radius any of them may have
	bm := lv.Blockmap
	xl, xh, yl, yh := bm.cellRange(&q.BBox, MAXRADIUS)
	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			if !w.blockLinesIterator(q, bx, by) {
				return false
			}
			if !w.blockThingsIterator(q, bx, by) {
				return false
			}
		}
	}
	return true
}

func (w *World) blockLinesIterator(q *CollisionQuery, bx, by int) bool {
	lv := w.Level
	for _, ldnum := range lv.Blockmap.LinesInCell(bx, by) {
		ld := &lv.Lines[ldnum]
		if lv.lineVisited(ld) {
			continue
		}
		if !w.checkLine(q, ld, int(ldnum)) {
			return false
		}
	}
	return true
}

func (w *World) blockThingsIterator(q *CollisionQuery, bx, by int) bool {
	for id := w.Level.Blockmap.ObjectsInCell(bx, by); id != NoMobj; {
		thing := w.mobjs[id]
		id = thing.bnext
		if !w.checkThing(q, thing) {
			return false
		}
	}
	return true
}

// Whether the query box crosses the line: the box diagonal most
// perpendicular to the line has its ends on different sides of it
func (q *CollisionQuery) boxCrossLine(ld *Line) bool {
	if !q.BBox.Overlaps(&ld.BBox) {
		return false
	}
	var x1, y1, x2, y2 Fixed
	if ld.SlopeType == ST_POSITIVE {
		x1 = q.BBox[BOXLEFT]
		y1 = q.BBox[BOXTOP]
		x2 = q.BBox[BOXRIGHT]
		y2 = q.BBox[BOXBOTTOM]
	} else {
		x1 = q.BBox[BOXRIGHT]
		y1 = q.BBox[BOXTOP]
		x2 = q.BBox[BOXLEFT]
		y2 = q.BBox[BOXBOTTOM]
	}
	lx := ld.V1.X
	ly := ld.V1.Y
	ldx := int64((ld.V2.X - lx) >> FRACBITS)
	ldy := int64((ld.V2.Y - ly) >> FRACBITS)
	dx1 := int64((x1 - lx) >> FRACBITS)
	dy1 := int64((y1 - ly) >> FRACBITS)
	dx2 := int64((x2 - lx) >> FRACBITS)
	dy2 := int64((y2 - ly) >> FRACBITS)
	side1 := ldy*dx1 < dy1*ldx
	side2 := ldy*dx2 < dy2*ldx
	return side1 != side2
}

// Adjusts the height envelope for contacted line. Returns false if the line
// blocks the move outright
func (w *World) checkLine(q *CollisionQuery, ld *Line, ldnum int) bool {
	if !q.boxCrossLine(ld) {
		return true
	}
	// A line has been hit. The moving thing's destination position will
	// cross the given line. If this should not be allowed, return false
	if ld.BackSector == -1 {
		// one sided line
		return false
	}
	if q.Flags&MF_MISSILE == 0 && ld.Flags&(ML_BLOCKING|ML_BLOCKMONSTERS) != 0 {
		// explicitly blocking everything but missiles
		return false
	}
	if ld.Flags&ML_BLOCKPROJECTILES != 0 {
		return false
	}

	front := &w.Level.Sectors[ld.FrontSector]
	back := &w.Level.Sectors[ld.BackSector]
	opentop := back.CeilingHeight
	if front.CeilingHeight < back.CeilingHeight {
		opentop = front.CeilingHeight
	}
	var openbottom, lowfloor Fixed
	if front.FloorHeight > back.FloorHeight {
		openbottom = front.FloorHeight
		lowfloor = back.FloorHeight
	} else {
		openbottom = back.FloorHeight
		lowfloor = front.FloorHeight
	}

	// adjust floor / ceiling heights
	if opentop < q.CeilingZ {
		q.CeilingZ = opentop
		q.CeilingLine = ldnum
	}
	if openbottom > q.FloorZ {
		q.FloorZ = openbottom
	}
	if lowfloor < q.DropoffZ {
		q.DropoffZ = lowfloor
	}
	return true
}

// Returns false if thing blocks the subject. Overlap is tested per axis
// against the sum of radii, which makes things square
func (w *World) checkThing(q *CollisionQuery, thing *Mobj) bool {
	subject := q.Subject
	if q.pickup && q.Flags&MF_PICKUP != 0 && thing.Flags&MF_SPECIAL != 0 &&
		thing != subject && w.thingOverlaps(q, thing) {
		w.touch.TouchSpecialThing(thing.ID, subject.ID)
		if thing.Flags&MF_SOLID == 0 {
			return true
		}
	}
	if thing.Flags&MF_SOLID == 0 {
		// didn't hit it
		return true
	}
	if !w.thingOverlaps(q, thing) {
		return true
	}
	if thing == subject {
		// don't clip against self
		return true
	}

	// check for skulls slamming into things
	if q.Flags&MF_SKULLFLY != 0 {
		q.HitThing = thing.ID
		return false
	}

	// missiles can hit other things
	if q.Flags&MF_MISSILE != 0 {
		// see if it went over / under
		if subject.Z > thing.Z+thing.Height {
			return true
		}
		if subject.Z+subject.Height < thing.Z {
			return true
		}
		if shooter := w.Mobj(subject.Target); shooter != nil && shooter.Type == thing.Type {
			// don't hit same species as originator
			if thing == shooter {
				return true
			}
			if !thing.Player {
				// explode, but do no damage
				return false
			}
			// let players missile other players
		}
		if thing.Flags&MF_SHOOTABLE == 0 {
			// didn't do any damage
			return thing.Flags&MF_SOLID == 0
		}
		// damage / explode
		q.HitThing = thing.ID
		return false
	}

	return thing.Flags&MF_SOLID == 0
}

func (w *World) thingOverlaps(q *CollisionQuery, thing *Mobj) bool {
	blockdist := thing.Radius + q.Radius
	if FixedAbs(thing.X-q.X) >= blockdist {
		return false
	}
	if FixedAbs(thing.Y-q.Y) >= blockdist {
		return false
	}
	return true
}

// TryMove attempts to move mo to x, y. On success the thing is relinked at
// the new position and its floorz, ceilingz are updated
func (w *World) TryMove(mo *Mobj, x, y Fixed) (*CollisionQuery, bool) {
	q := newCollisionQuery(mo, x, y)
	q.pickup = true
	if !w.checkPosition(q) {
		// solid wall or thing
		return q, false
	}
	if !q.fits(mo) {
		return q, false
	}
	if q.FloorZ-mo.Z > MAXSTEPHEIGHT {
		// too big a step up
		return q, false
	}
	if q.Flags&(MF_DROPOFF|MF_FLOAT) == 0 && q.FloorZ-q.DropoffZ > MAXSTEPHEIGHT {
		// don't stand over a dropoff
		return q, false
	}

	// the move is ok, so link the thing into its new position
	w.UnsetThingPosition(mo)
	mo.FloorZ = q.FloorZ
	mo.CeilingZ = q.CeilingZ
	mo.X = x
	mo.Y = y
	w.setThingPositionIn(mo, q.Subsector)
	return q, true
}

func (q *CollisionQuery) fits(mo *Mobj) bool {
	if q.CeilingZ-q.FloorZ < mo.Height {
		// doesn't fit
		return false
	}
	if q.CeilingZ-mo.Z < mo.Height {
		// mobj must lower itself to fit
		return false
	}
	return true
}

// CheckSpot tells whether mo would fit at x, y: nothing blocks it and the
// floor to ceiling gap is tall enough. Nothing is moved
func (w *World) CheckSpot(mo *Mobj, x, y Fixed) (*CollisionQuery, bool) {
	q, ok := w.CheckPosition(mo, x, y)
	if !ok {
		return q, false
	}
	return q, q.CeilingZ-q.FloorZ >= mo.Height
}
