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
package main

import (
	"github.com/vigilantdoomer/vigilantphys/physics"
)

// Movement directions, counter-clockwise from east
const (
	DI_EAST = iota
	DI_NORTHEAST
	DI_NORTH
	DI_NORTHWEST
	DI_WEST
	DI_SOUTHWEST
	DI_SOUTH
	DI_SOUTHEAST
	DI_NODIR
)

var opposite = [...]int{
	DI_WEST, DI_SOUTHWEST, DI_SOUTH, DI_SOUTHEAST,
	DI_EAST, DI_NORTHEAST, DI_NORTH, DI_NORTHWEST, DI_NODIR,
}

var diags = [...]int{DI_NORTHWEST, DI_NORTHEAST, DI_SOUTHWEST, DI_SOUTHEAST}

var xspeed = [8]physics.Fixed{physics.FRACUNIT, 47000, 0, -47000, -physics.FRACUNIT, -47000, 0, 47000}
var yspeed = [8]physics.Fixed{0, 47000, physics.FRACUNIT, 47000, 0, -47000, -physics.FRACUNIT, -47000}

const (
	SKULLSPEED     = 20 * physics.FRACUNIT
	EXPLODE_DAMAGE = 128
	// missiles leave at chest height
	MISSILE_HEIGHT = 32 * physics.FRACUNIT
)

func (h *GameHost) runAction(action physics.ActionID, mo *physics.Mobj) {
	switch action {
	case A_LOOK:
		h.aLook(mo)
	case A_CHASE:
		h.aChase(mo)
	case A_FACETARGET:
		h.aFaceTarget(mo)
	case A_POSATTACK:
		h.aPosAttack(mo)
	case A_TROOPATTACK:
		h.aMeleeOrMissile(mo, sfx_claw, 8, 3, MT_TROOPSHOT)
	case A_SARGATTACK:
		h.aMeleeOrMissile(mo, sfx_none, 10, 4, -1)
	case A_HEADATTACK:
		h.aMeleeOrMissile(mo, sfx_none, 6, 10, MT_HEADSHOT)
	case A_SKULLATTACK:
		h.aSkullAttack(mo)
	case A_CYBERATTACK:
		h.aMeleeOrMissile(mo, sfx_none, 0, 0, MT_ROCKET)
	case A_PAIN:
		h.StartSound(mo.ID, h.def(mo).PainSound)
	case A_SCREAM:
		h.StartSound(mo.ID, mo.Info.DeathSound)
	case A_FALL:
		// corpse can be walked over
		mo.Flags &^= physics.MF_SOLID
	case A_EXPLODE:
		h.World.RadiusAttack(mo, mo.Target, EXPLODE_DAMAGE)
	}
}

// lookForPlayer targets the player if it can be seen. Unless allAround is
// set, a player behind the monster's back is only noticed when close
func (h *GameHost) lookForPlayer(mo *physics.Mobj, allAround bool) bool {
	player := h.Player()
	if player == nil || player.Health <= 0 {
		return false
	}
	if !h.World.CheckSight(mo, player) {
		return false
	}
	if !allAround {
		an := physics.PointToAngle(mo.X, mo.Y, player.X, player.Y) - mo.Angle
		if an > physics.ANG90 && an < physics.ANG270 {
			dist := physics.AproxDistance(player.X-mo.X, player.Y-mo.Y)
			if dist > physics.MELEERANGE {
				return false
			}
		}
	}
	mo.Target = player.ID
	return true
}

func (h *GameHost) aLook(mo *physics.Mobj) {
	if !h.lookForPlayer(mo, false) {
		return
	}
	def := h.def(mo)
	h.StartSound(mo.ID, def.SeeSound)
	h.World.SetMobjState(mo, def.SeeState)
}

func (h *GameHost) aChase(mo *physics.Mobj) {
	w := h.World
	def := h.def(mo)
	b := h.brainOf(mo)
	if b.reactionTime > 0 {
		b.reactionTime--
	}
	if b.threshold > 0 {
		if t := w.Mobj(mo.Target); t == nil || t.Health <= 0 {
			b.threshold = 0
		} else {
			b.threshold--
		}
	}

	// turn towards movement direction if not there yet
	if b.moveDir < DI_NODIR {
		mo.Angle &= 7 << 29
		delta := int32(mo.Angle - physics.Angle(b.moveDir<<29))
		if delta > 0 {
			mo.Angle -= physics.ANG45
		} else if delta < 0 {
			mo.Angle += physics.ANG45
		}
	}

	target := w.Mobj(mo.Target)
	if target == nil || target.Flags&physics.MF_SHOOTABLE == 0 {
		// look for a new target
		if h.lookForPlayer(mo, true) {
			return
		}
		w.SetMobjState(mo, def.SpawnState)
		return
	}

	// do not attack twice in a row
	if mo.Flags&physics.MF_JUSTATTACKED != 0 {
		mo.Flags &^= physics.MF_JUSTATTACKED
		h.newChaseDir(mo, target)
		return
	}

	if def.MeleeState != physics.S_NULL && h.checkMeleeRange(mo, target) {
		h.StartSound(mo.ID, def.AttackSound)
		w.SetMobjState(mo, def.MeleeState)
		return
	}
	if def.MissileState != physics.S_NULL && b.moveCount == 0 &&
		h.checkMissileRange(mo, target) {
		w.SetMobjState(mo, def.MissileState)
		mo.Flags |= physics.MF_JUSTATTACKED
		return
	}

	// chase towards player
	b.moveCount--
	if b.moveCount < 0 || !h.move(mo) {
		h.newChaseDir(mo, target)
	}
}

func (h *GameHost) checkMeleeRange(mo, target *physics.Mobj) bool {
	dist := physics.AproxDistance(target.X-mo.X, target.Y-mo.Y)
	if dist >= physics.MELEERANGE-20*physics.FRACUNIT+target.Radius {
		return false
	}
	return h.World.CheckSight(mo, target)
}

func (h *GameHost) checkMissileRange(mo, target *physics.Mobj) bool {
	if !h.World.CheckSight(mo, target) {
		return false
	}
	if mo.Flags&physics.MF_JUSTHIT != 0 {
		// the target just hit the monster, so fight back
		mo.Flags &^= physics.MF_JUSTHIT
		return true
	}
	if h.brainOf(mo).reactionTime > 0 {
		// do not attack yet
		return false
	}
	dist := physics.AproxDistance(target.X-mo.X, target.Y-mo.Y) - 64*physics.FRACUNIT
	if h.def(mo).MeleeState == physics.S_NULL {
		// no melee attack, so fire more
		dist -= 128 * physics.FRACUNIT
	}
	units := int(dist >> physics.FRACBITS)
	if mo.Type == MT_SKULL || mo.Type == MT_CYBORG {
		units >>= 1
	}
	if units > 200 {
		units = 200
	}
	if mo.Type == MT_CYBORG && units > 160 {
		units = 160
	}
	return h.rng.Random() >= units
}

// move takes one step in the current direction. A floater blocked by height
// alone rises or sinks towards the gap instead
func (h *GameHost) move(mo *physics.Mobj) bool {
	w := h.World
	b := h.brainOf(mo)
	if b.moveDir == DI_NODIR {
		return false
	}
	speed := h.def(mo).Speed
	tryx := mo.X + physics.FixedMul(speed, xspeed[b.moveDir])
	tryy := mo.Y + physics.FixedMul(speed, yspeed[b.moveDir])
	if _, ok := w.TryMove(mo, tryx, tryy); !ok {
		if mo.Flags&physics.MF_FLOAT == 0 {
			return false
		}
		q, ok := w.CheckPosition(mo, tryx, tryy)
		if !ok || q.CeilingZ-q.FloorZ < mo.Height {
			return false
		}
		if mo.Z < q.FloorZ {
			mo.Z += physics.FLOATSPEED
		} else {
			mo.Z -= physics.FLOATSPEED
		}
		mo.Flags |= physics.MF_INFLOAT
		return true
	}
	mo.Flags &^= physics.MF_INFLOAT
	if mo.Flags&physics.MF_FLOAT == 0 {
		mo.Z = mo.FloorZ
	}
	return true
}

func (h *GameHost) tryWalk(mo *physics.Mobj) bool {
	if !h.move(mo) {
		return false
	}
	h.brainOf(mo).moveCount = h.rng.Random() & 15
	return true
}

func (h *GameHost) newChaseDir(mo, target *physics.Mobj) {
	b := h.brainOf(mo)
	olddir := b.moveDir
	turnaround := opposite[olddir]

	var d [3]int
	deltax := target.X - mo.X
	deltay := target.Y - mo.Y
	switch {
	case deltax > 10*physics.FRACUNIT:
		d[1] = DI_EAST
	case deltax < -10*physics.FRACUNIT:
		d[1] = DI_WEST
	default:
		d[1] = DI_NODIR
	}
	switch {
	case deltay < -10*physics.FRACUNIT:
		d[2] = DI_SOUTH
	case deltay > 10*physics.FRACUNIT:
		d[2] = DI_NORTH
	default:
		d[2] = DI_NODIR
	}

	// try direct route
	if d[1] != DI_NODIR && d[2] != DI_NODIR {
		idx := 0
		if deltay < 0 {
			idx += 2
		}
		if deltax > 0 {
			idx++
		}
		b.moveDir = diags[idx]
		if b.moveDir != turnaround && h.tryWalk(mo) {
			return
		}
	}

	// try other directions
	if h.rng.Random() > 200 || physics.FixedAbs(deltay) > physics.FixedAbs(deltax) {
		d[1], d[2] = d[2], d[1]
	}
	if d[1] == turnaround {
		d[1] = DI_NODIR
	}
	if d[2] == turnaround {
		d[2] = DI_NODIR
	}
	for _, dir := range d[1:] {
		if dir == DI_NODIR {
			continue
		}
		b.moveDir = dir
		if h.tryWalk(mo) {
			return
		}
	}

	// there is no direct path to the player, so pick another direction
	if olddir != DI_NODIR {
		b.moveDir = olddir
		if h.tryWalk(mo) {
			return
		}
	}

	// randomly determine direction of search
	if h.rng.Random()&1 != 0 {
		for tdir := DI_EAST; tdir <= DI_SOUTHEAST; tdir++ {
			if tdir != turnaround {
				b.moveDir = tdir
				if h.tryWalk(mo) {
					return
				}
			}
		}
	} else {
		for tdir := DI_SOUTHEAST; tdir >= DI_EAST; tdir-- {
			if tdir != turnaround {
				b.moveDir = tdir
				if h.tryWalk(mo) {
					return
				}
			}
		}
	}

	if turnaround != DI_NODIR {
		b.moveDir = turnaround
		if h.tryWalk(mo) {
			return
		}
	}

	// can't move
	b.moveDir = DI_NODIR
}

func (h *GameHost) aFaceTarget(mo *physics.Mobj) {
	target := h.World.Mobj(mo.Target)
	if target == nil {
		return
	}
	mo.Flags &^= physics.MF_AMBUSH
	mo.Angle = physics.PointToAngle(mo.X, mo.Y, target.X, target.Y)
	if target.Flags&physics.MF_SHADOW != 0 {
		mo.Angle += physics.Angle((h.rng.Random() - h.rng.Random()) << 21)
	}
}

func (h *GameHost) aPosAttack(mo *physics.Mobj) {
	w := h.World
	if w.Mobj(mo.Target) == nil {
		return
	}
	h.aFaceTarget(mo)
	angle := mo.Angle
	slope := w.AimLineAttack(mo, angle, physics.MISSILERANGE)
	h.StartSound(mo.ID, sfx_pistol)
	angle += physics.Angle((h.rng.Random() - h.rng.Random()) << 20)
	damage := (h.rng.Random()%5 + 1) * 3
	h.Stats.Shots++
	w.LineAttack(mo, angle, physics.MISSILERANGE, slope, damage)
}

// aMeleeOrMissile hits the target up close for (1..dice)*mult damage, or
// fires a missile from further away. dice 0 means no melee, missile -1
// means no missile
func (h *GameHost) aMeleeOrMissile(mo *physics.Mobj, meleeSound, dice, mult, missile int) {
	target := h.World.Mobj(mo.Target)
	if target == nil {
		return
	}
	h.aFaceTarget(mo)
	if dice > 0 && h.checkMeleeRange(mo, target) {
		h.StartSound(mo.ID, meleeSound)
		damage := (h.rng.Random()%dice + 1) * mult
		h.DamageMobj(target.ID, mo.ID, mo.ID, damage)
		return
	}
	if missile != -1 {
		h.spawnMissile(mo, target, missile)
	}
}

// aSkullAttack sends the skull flying at its target. The charge ends when
// it runs into something
func (h *GameHost) aSkullAttack(mo *physics.Mobj) {
	target := h.World.Mobj(mo.Target)
	if target == nil {
		return
	}
	mo.Flags |= physics.MF_SKULLFLY
	h.StartSound(mo.ID, h.def(mo).AttackSound)
	h.aFaceTarget(mo)
	an := mo.Angle
	mo.MomX = physics.FixedMul(SKULLSPEED, physics.FineCosine(an))
	mo.MomY = physics.FixedMul(SKULLSPEED, physics.FineSine(an))
	dist := physics.AproxDistance(target.X-mo.X, target.Y-mo.Y) / SKULLSPEED
	if dist < 1 {
		dist = 1
	}
	mo.MomZ = (target.Z + (target.Height >> 1) - mo.Z) / dist
}

func (h *GameHost) spawnMissile(source, dest *physics.Mobj, mtype int) *physics.Mobj {
	w := h.World
	def := &h.Content.Defs[mtype]
	th := w.SpawnMobj(source.X, source.Y, source.Z+MISSILE_HEIGHT, mtype)
	h.StartSound(th.ID, def.SeeSound)
	// blame the shooter
	th.Target = source.ID
	an := physics.PointToAngle(source.X, source.Y, dest.X, dest.Y)
	if dest.Flags&physics.MF_SHADOW != 0 {
		an += physics.Angle((h.rng.Random() - h.rng.Random()) << 20)
	}
	th.Angle = an
	th.MomX = physics.FixedMul(def.Speed, physics.FineCosine(an))
	th.MomY = physics.FixedMul(def.Speed, physics.FineSine(an))
	dist := physics.AproxDistance(dest.X-source.X, dest.Y-source.Y) / def.Speed
	if dist < 1 {
		dist = 1
	}
	th.MomZ = (dest.Z - source.Z) / dist
	h.Stats.Missiles++
	h.checkMissileSpawn(th)
	return th
}

// Missile starts half a step ahead. If that is already inside something,
// it blows up at once
func (h *GameHost) checkMissileSpawn(th *physics.Mobj) {
	w := h.World
	th.Tics -= h.rng.Random() & 3
	if th.Tics < 1 {
		th.Tics = 1
	}
	th.X += th.MomX >> 1
	th.Y += th.MomY >> 1
	th.Z += th.MomZ >> 1
	if _, ok := w.TryMove(th, th.X, th.Y); !ok {
		w.ExplodeMissile(th)
	}
}
