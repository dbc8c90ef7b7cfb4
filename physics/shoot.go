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

const (
	MISSILERANGE = 32 * 64 * FRACUNIT
	MELEERANGE   = 70 * FRACUNIT
)

// Slope argument of LineAttack meaning: aim within the default vertical
// window of the view
const AUTOAIM = MAXINT

// Default vertical aiming window, as a slope
const (
	AIM_TOPSLOPE    = 100 * FRACUNIT / 160
	AIM_BOTTOMSLOPE = -100 * FRACUNIT / 160
)

// Result of a hitscan. At most one of Thing and Line is set
type ShotResult struct {
	Thing MobjID
	Line  int
	// impact point, pulled back a bit towards the shooter
	X, Y, Z Fixed
	// slope the thing was hit at
	Slope Fixed
}

func (r ShotResult) Hit() bool {
	return r.Thing != NoMobj || r.Line != -1
}

type shootState struct {
	tr          trace
	shooter     *Mobj
	attackrange Fixed
	shootz      Fixed
	topslope    Fixed
	bottomslope Fixed
	midslope    Fixed
	// trace direction decides which diagonal of a thing to test
	positive bool

	// Intercepts are held back one step: the candidate seen last is only
	// acted on once a farther one shows up (or at the end), so that of two
	// consecutive candidates the nearer is processed first
	oldFrac   Fixed
	oldValue  int
	oldIsLine bool

	firstLineFrac Fixed
	result        ShotResult
}

// shoot2 traces from shooter along angle through the BSP and fills in what
// was hit
func (w *World) shoot2(shooter *Mobj, angle Angle, distance Fixed, top, bottom Fixed) *shootState {
	x1, y1 := shooter.X, shooter.Y
	x2 := x1 + (distance>>FRACBITS)*FineCosine(angle)
	y2 := y1 + (distance>>FRACBITS)*FineSine(angle)
	s := &shootState{
		tr:          newTrace(x1, y1, x2, y2),
		shooter:     shooter,
		attackrange: distance,
		shootz:      shooter.Z + (shooter.Height >> 1) + 8*FRACUNIT,
		topslope:    top,
		bottomslope: bottom,
		result:      ShotResult{Thing: NoMobj, Line: -1},
	}
	s.positive = (s.tr.Dx ^ s.tr.Dy) > 0
	s.midslope = (s.topslope + s.bottomslope) >> 1

	w.Level.NextValidCount()
	w.crossBSPNode(&s.tr, w.Level.rootNode(), func(num int) bool {
		return w.shootCrossSubsector(s, num)
	})
	// check the last intercept if needed
	if s.result.Thing == NoMobj {
		w.doIntercept(s, -1, false, FRACUNIT)
	}

	if s.result.Thing != NoMobj || s.result.Line == -1 {
		return s
	}
	// calculate the intercept point for the first line hit, position a bit
	// closer
	frac := s.firstLineFrac - FixedDiv(4*FRACUNIT, s.attackrange)
	s.result.X = s.tr.X + FixedMul(s.tr.Dx, frac)
	s.result.Y = s.tr.Y + FixedMul(s.tr.Dy, frac)
	s.result.Z = s.shootz + FixedMul(s.midslope, FixedMul(frac, s.attackrange))
	return s
}

// Returns false once the shot has stopped
func (w *World) shootCrossSubsector(s *shootState, num int) bool {
	lv := w.Level
	sub := &lv.Subsectors[num]

	// check things
	for id := lv.Sectors[sub.Sector].ThingList; id != NoMobj; {
		thing := w.mobjs[id]
		id = thing.snext
		if thing.Subsector != num {
			continue
		}
		// check a corner to corner crossection for hit
		var x1, y1, x2, y2 Fixed
		r := thing.Radius
		if s.positive {
			x1, y1 = thing.X-r, thing.Y+r
			x2, y2 = thing.X+r, thing.Y-r
		} else {
			x1, y1 = thing.X-r, thing.Y-r
			x2, y2 = thing.X+r, thing.Y+r
		}
		frac := s.tr.interceptFrac(x1, y1, x2, y2)
		if frac < 0 || frac > FRACUNIT {
			continue
		}
		if !w.doIntercept(s, int(thing.ID), false, frac) {
			return false
		}
	}

	// check lines
	for i := sub.FirstSeg; i < sub.FirstSeg+sub.NumSegs; i++ {
		ldnum := lv.Segs[i].Line
		ld := &lv.Lines[ldnum]
		if lv.lineVisited(ld) {
			continue
		}
		frac := s.tr.interceptFrac(ld.V1.X, ld.V1.Y, ld.V2.X, ld.V2.Y)
		if frac < 0 || frac > FRACUNIT {
			continue
		}
		if !w.doIntercept(s, ldnum, true, frac) {
			return false
		}
	}
	// passed the subsector ok
	return true
}

func (w *World) doIntercept(s *shootState, value int, isline bool, frac Fixed) bool {
	if s.oldFrac < frac {
		// hold the new one, process the old one
		value, s.oldValue = s.oldValue, value
		isline, s.oldIsLine = s.oldIsLine, isline
		frac, s.oldFrac = s.oldFrac, frac
	}
	if frac == 0 || frac >= FRACUNIT {
		return true
	}
	if isline {
		return w.shootLine(s, value, frac)
	}
	return w.shootThing(s, MobjID(value), frac)
}

// Returns false if the shot stops at the line
func (w *World) shootLine(s *shootState, ldnum int, frac Fixed) bool {
	ld := &w.Level.Lines[ldnum]
	if ld.BackSector == -1 || ld.Flags&ML_TWOSIDED == 0 {
		if s.result.Line == -1 {
			s.result.Line = ldnum
			s.firstLineFrac = frac
		}
		// don't shoot anything past this
		s.oldFrac = 0
		return false
	}

	// crosses a two sided line
	front, back, opentop, openbottom := w.lineOpening(ld)
	dist := FixedMul(s.attackrange, frac)
	if front.FloorHeight != back.FloorHeight {
		slope := FixedDiv(openbottom-s.shootz, dist)
		if slope >= s.midslope && s.result.Line == -1 {
			s.result.Line = ldnum
			s.firstLineFrac = frac
		}
		if slope > s.bottomslope {
			s.bottomslope = slope
		}
	}
	if front.CeilingHeight != back.CeilingHeight {
		slope := FixedDiv(opentop-s.shootz, dist)
		if slope <= s.midslope && s.result.Line == -1 {
			s.result.Line = ldnum
			s.firstLineFrac = frac
		}
		if slope < s.topslope {
			s.topslope = slope
		}
	}
	if s.topslope <= s.bottomslope {
		// stop
		return false
	}
	// shot continues
	return true
}

// Returns false if the thing was hit
func (w *World) shootThing(s *shootState, id MobjID, frac Fixed) bool {
	th := w.Mobj(id)
	if th == nil || th == s.shooter {
		// can't shoot self
		return true
	}
	if th.Flags&MF_SHOOTABLE == 0 {
		// corpse or something
		return true
	}
	// check angles to see if the thing can be aimed at
	dist := FixedMul(s.attackrange, frac)
	thingtopslope := FixedDiv(th.Z+th.Height-s.shootz, dist)
	if thingtopslope < s.bottomslope {
		// shot over the thing
		return true
	}
	thingbottomslope := FixedDiv(th.Z-s.shootz, dist)
	if thingbottomslope > s.topslope {
		// shot under the thing
		return true
	}

	// this thing can be hit!
	if thingtopslope > s.topslope {
		thingtopslope = s.topslope
	}
	if thingbottomslope < s.bottomslope {
		thingbottomslope = s.bottomslope
	}
	// shoot middle of the thing (mid between top/bottom)
	slope := (thingtopslope + thingbottomslope) / 2
	// position a bit closer
	frac -= FixedDiv(10*FRACUNIT, s.attackrange)
	s.result.Thing = th.ID
	s.result.Slope = slope
	s.result.X = s.tr.X + FixedMul(s.tr.Dx, frac)
	s.result.Y = s.tr.Y + FixedMul(s.tr.Dy, frac)
	s.result.Z = s.shootz + FixedMul(slope, FixedMul(frac, s.attackrange))
	// don't go any farther
	return false
}

// AimLineAttack looks for a shootable thing along angle within distance and
// returns the slope to aim at it with, or 0. The thing is left in LineTarget
func (w *World) AimLineAttack(shooter *Mobj, angle Angle, distance Fixed) Fixed {
	s := w.shoot2(shooter, angle, distance, AIM_TOPSLOPE, AIM_BOTTOMSLOPE)
	w.LineTarget = s.result.Thing
	if w.LineTarget != NoMobj {
		return s.result.Slope
	}
	return 0
}

// LineAttack fires an instant hit shot. Slope AUTOAIM uses the default
// vertical window, any other value aims exactly at it. Damage, blood or puff
// are dealt with through collaborators; the thing hit is left in LineTarget
func (w *World) LineAttack(shooter *Mobj, angle Angle, distance, slope Fixed, damage int) ShotResult {
	top, bottom := AIM_TOPSLOPE, AIM_BOTTOMSLOPE
	if slope != AUTOAIM {
		top = slope + 1
		bottom = slope - 1
	}
	s := w.shoot2(shooter, angle, distance, top, bottom)
	r := s.result
	w.LineTarget = r.Thing

	// shoot thing
	if th := w.Mobj(r.Thing); th != nil {
		if th.Flags&MF_NOBLOOD != 0 {
			w.fx.SpawnPuff(r.X, r.Y, r.Z)
		} else {
			w.fx.SpawnBlood(r.X, r.Y, r.Z, damage)
		}
		w.damage.DamageMobj(th.ID, shooter.ID, shooter.ID, damage)
		return r
	}

	// shoot wall
	if r.Line != -1 {
		ld := &w.Level.Lines[r.Line]
		if ld.Special != 0 {
			w.fx.ShootSpecialLine(shooter.ID, r.Line)
		}
		front := &w.Level.Sectors[ld.FrontSector]
		if front.CeilingPic == SKY_FLAT {
			if r.Z > front.CeilingHeight {
				// don't shoot the sky!
				return r
			}
			if ld.BackSector != -1 && w.Level.Sectors[ld.BackSector].CeilingPic == SKY_FLAT {
				// it's a sky hack wall
				return r
			}
		}
		w.fx.SpawnPuff(r.X, r.Y, r.Z)
	}
	return r
}
