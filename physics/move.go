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
	MAXMOVE    = 16 * FRACUNIT
	STOPSPEED  = Fixed(0x1000)
	FRICTION   = Fixed(0xd240)
	GRAVITY    = 4 * FRACUNIT
	FLOATSPEED = 8 * FRACUNIT
)

// XYMovement moves thing by its momentum in steps no longer than MAXMOVE on
// either axis, then applies friction. A blocked step ends movement for the
// tick and may schedule a late action
func (w *World) XYMovement(mo *Mobj) {
	// the low bits of momentum are dropped
	xleft := mo.MomX &^ 7
	yleft := mo.MomY &^ 7
	xuse := xleft
	yuse := yleft
	for xuse > MAXMOVE || xuse < -MAXMOVE || yuse > MAXMOVE || yuse < -MAXMOVE {
		xuse >>= 1
		yuse >>= 1
	}

	for xleft != 0 || yleft != 0 {
		// halving may have lost low bits, the last step takes what is left
		xstep := clampStep(xuse, xleft)
		ystep := clampStep(yuse, yleft)
		xleft -= xstep
		yleft -= ystep
		q, ok := w.TryMove(mo, mo.X+xstep, mo.Y+ystep)
		if ok {
			continue
		}
		// blocked move
		if mo.Flags&MF_SKULLFLY != 0 {
			mo.Late = LateAction{Kind: LATE_SKULLBASH, Other: q.HitThing}
			return
		}
		// explode a missile
		if mo.Flags&MF_MISSILE != 0 {
			if w.hitSkyCeiling(q) {
				// hit the sky, vanish without an explosion
				mo.Late = LateAction{Kind: LATE_REMOVE}
				return
			}
			mo.Late = LateAction{Kind: LATE_MISSILEHIT, Other: q.HitThing}
			return
		}
		mo.MomX = 0
		mo.MomY = 0
		return
	}

	// slow down
	if mo.Flags&(MF_MISSILE|MF_SKULLFLY) != 0 {
		// no friction for missiles or lost souls ever
		return
	}
	if mo.Z > mo.FloorZ {
		// no friction when airborne
		return
	}
	if mo.Flags&MF_CORPSE != 0 {
		sec := &w.Level.Sectors[w.Level.Subsectors[mo.Subsector].Sector]
		if mo.FloorZ != sec.FloorHeight {
			// don't stop halfway off a step
			return
		}
	}
	if mo.MomX > -STOPSPEED && mo.MomX < STOPSPEED &&
		mo.MomY > -STOPSPEED && mo.MomY < STOPSPEED {
		mo.MomX = 0
		mo.MomY = 0
	} else {
		mo.MomX = applyFriction(mo.MomX)
		mo.MomY = applyFriction(mo.MomY)
	}
}

// Only the top 24 bits of momentum by the top 8 bits of friction
func applyFriction(mom Fixed) Fixed {
	return (mom >> 8) * (FRICTION >> 8)
}

// A step halved down to nothing takes the whole remainder at once, it is
// smaller than the step on the other axis
func clampStep(step, left Fixed) Fixed {
	if step == 0 || FixedAbs(step) > FixedAbs(left) {
		return left
	}
	return step
}

func (w *World) hitSkyCeiling(q *CollisionQuery) bool {
	if q.CeilingLine == -1 {
		return false
	}
	ld := &w.Level.Lines[q.CeilingLine]
	return ld.BackSector != -1 && w.Level.Sectors[ld.BackSector].CeilingPic == SKY_FLAT
}

// ZMovement applies vertical momentum, float seeking and gravity, and keeps
// the thing between its floor and ceiling
func (w *World) ZMovement(mo *Mobj) {
	// adjust height
	mo.Z += mo.MomZ
	if mo.Flags&MF_FLOAT != 0 {
		w.FloatChange(mo)
	}

	// clip movement
	if mo.Z <= mo.FloorZ {
		// hit the floor
		if mo.MomZ < 0 {
			mo.MomZ = 0
		}
		mo.Z = mo.FloorZ
		if mo.Flags&MF_MISSILE != 0 {
			mo.Late = LateAction{Kind: LATE_EXPLODE}
			return
		}
	} else if mo.Flags&MF_NOGRAVITY == 0 {
		// apply gravity
		if mo.MomZ == 0 {
			mo.MomZ = -GRAVITY
		} else {
			mo.MomZ -= GRAVITY / 2
		}
	}

	if mo.Z+mo.Height > mo.CeilingZ {
		// hit the ceiling
		if mo.MomZ > 0 {
			mo.MomZ = 0
		}
		mo.Z = mo.CeilingZ - mo.Height
		if mo.Flags&MF_MISSILE != 0 {
			mo.Late = LateAction{Kind: LATE_EXPLODE}
		}
	}
}

// FloatChange moves a floating thing towards its target's height when the
// target is close enough horizontally. The height difference is measured to
// target's z plus half of the floater's own height, times 3
func (w *World) FloatChange(mo *Mobj) {
	target := w.Mobj(mo.Target)
	if target == nil {
		return
	}
	dist := AproxDistance(mo.X-target.X, mo.Y-target.Y)
	delta := (target.Z + (mo.Height >> 1)) - mo.Z
	if delta < 0 && dist < -(delta*3) {
		mo.Z -= FLOATSPEED
	} else if delta > 0 && dist < (delta*3) {
		mo.Z += FLOATSPEED
	}
}

// MobjThinker runs one tick of a thing: movement, then state countdown. A
// late action scheduled by movement stops the tick for that thing
func (w *World) MobjThinker(mo *Mobj) {
	// momentum movement
	if mo.MomX != 0 || mo.MomY != 0 {
		w.XYMovement(mo)
		if mo.Late.Kind != LATE_NONE {
			return
		}
	}
	if mo.Z != mo.FloorZ || mo.MomZ != 0 {
		w.ZMovement(mo)
		if mo.Late.Kind != LATE_NONE {
			return
		}
	}

	// cycle through states
	if mo.Tics == -1 {
		// never stops
		return
	}
	mo.Tics--
	if mo.Tics > 0 {
		// not time to cycle yet
		return
	}
	next := w.Content.States[mo.State].Next
	if next == S_NULL {
		mo.Late = LateAction{Kind: LATE_REMOVE}
		return
	}
	st := &w.Content.States[next]
	mo.State = next
	mo.Tics = st.Tics
	mo.Sprite = st.Sprite
	mo.Frame = st.Frame
	if st.Action != 0 {
		mo.Late = LateAction{Kind: LATE_STATEACTION, Action: st.Action}
	}
}

// RunMobjBase thinks for every thing that is not a player, in list order.
// Pending late actions are cleared first
func (w *World) RunMobjBase() {
	w.ForEachMobj(func(mo *Mobj) {
		if mo.Player {
			return
		}
		mo.Late = LateAction{}
		w.MobjThinker(mo)
	})
}
