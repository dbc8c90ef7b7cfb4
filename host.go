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
	"github.com/sirupsen/logrus"
	"github.com/vigilantdoomer/vigilantphys/physics"
)

const (
	// monsters keep chasing whoever hurt them for this many chase steps
	BASETHRESHOLD = 100
	// player start types other than the first one
	PLAYER_STARTS_MAX = 4
	DEATHMATCH_START  = 11

	// walking speed of the scripted player, per tic
	PLAYER_FORWARDMOVE = physics.Fixed(0x19 * 2048)
	// how often the scripted player pulls the trigger
	PLAYER_REFIRE     = 18
	PLAYER_START_AMMO = 50
	// how far the scripted player looks for something to shoot at
	PLAYER_AIMRANGE = 16 * 64 * physics.FRACUNIT
)

// Per-thing state the game keeps for monsters; the kernel has no room for it
type brain struct {
	moveDir      int
	moveCount    int
	reactionTime int
	threshold    int
}

type Stats struct {
	TotalKills   int  `msgpack:"total_kills"`
	Kills        int  `msgpack:"kills"`
	TotalItems   int  `msgpack:"total_items"`
	Items        int  `msgpack:"items"`
	Pickups      int  `msgpack:"pickups"`
	Deaths       int  `msgpack:"deaths"`
	DamageDealt  int  `msgpack:"damage_dealt"`
	Puffs        int  `msgpack:"puffs"`
	Blood        int  `msgpack:"blood"`
	Sounds       int  `msgpack:"sounds"`
	Shots        int  `msgpack:"shots"`
	Missiles     int  `msgpack:"missiles"`
	SpecialLines int  `msgpack:"special_lines"`
	Ammo         int  `msgpack:"ammo"`
	PlayerTurns  int  `msgpack:"player_turns"`
	PlayerDied   bool `msgpack:"player_died"`
	Skipped      int  `msgpack:"skipped_things"`
	// snapshots carry these as sorted counters
	Late    map[string]int `msgpack:"-"`
	Actions map[string]int `msgpack:"-"`
}

// GameHost plays the part of the game around the kernel: it spawns map
// things, takes damage and pickups, and runs monster actions
type GameHost struct {
	World   *physics.World
	Content *GameContent
	Stats   Stats

	rng      *physics.DoomRandom
	log      logrus.FieldLogger
	player   physics.MobjID
	brains   map[physics.MobjID]*brain
	dispatch *GameDispatcher
	tic      int
}

func NewGameHost(lv *physics.Level, content *GameContent, seed int,
	log logrus.FieldLogger) *GameHost {
	h := &GameHost{
		Content: content,
		rng:     physics.NewDoomRandom(seed),
		log:     log,
		player:  physics.NoMobj,
		brains:  make(map[physics.MobjID]*brain),
	}
	h.Stats.Ammo = PLAYER_START_AMMO
	h.Stats.Late = make(map[string]int)
	h.Stats.Actions = make(map[string]int)
	h.World = physics.NewWorld(lv, content.Physics, physics.Collaborators{
		Random:  h.rng,
		Damage:  h,
		Touch:   h,
		Effects: h,
		Actions: h,
	})
	h.World.Log = log
	h.dispatch = &GameDispatcher{
		BaseDispatcher: physics.BaseDispatcher{World: h.World},
		host:           h,
	}
	return h
}

func (h *GameHost) Tic() int {
	return h.tic
}

func (h *GameHost) Player() *physics.Mobj {
	return h.World.Mobj(h.player)
}

func (h *GameHost) RandomIndex() int {
	return h.rng.Index()
}

func (h *GameHost) def(mo *physics.Mobj) *ThingDef {
	return &h.Content.Defs[mo.Type]
}

func (h *GameHost) brainOf(mo *physics.Mobj) *brain {
	b := h.brains[mo.ID]
	if b == nil {
		b = &brain{moveDir: DI_NODIR, reactionTime: h.def(mo).ReactionTime}
		h.brains[mo.ID] = b
	}
	return b
}

// SpawnMapThings places level things for single player on the middle skill.
// Only the first player start is used
func (h *GameHost) SpawnMapThings(things []Thing) {
	for i, mt := range things {
		if mt.Flags&TF_MULTIPLAYER_ONLY != 0 {
			h.Stats.Skipped++
			continue
		}
		if mt.Type == 1 {
			h.spawnPlayer(mt)
			continue
		}
		if (mt.Type > 1 && mt.Type <= PLAYER_STARTS_MAX) || mt.Type == DEATHMATCH_START {
			continue
		}
		if mt.Flags&TF_NORMAL == 0 {
			h.Stats.Skipped++
			continue
		}
		mtype, ok := h.Content.TypeForDoomedNum(int(mt.Type))
		if !ok {
			h.Stats.Skipped++
			h.log.Debugf("thing %d: unknown type %d at (%d, %d)", i, mt.Type,
				mt.XPos, mt.YPos)
			continue
		}
		h.spawnMapThing(mt, mtype)
	}
	if h.player == physics.NoMobj {
		h.log.Warn("no player start")
	}
}

func mapAngle(mt Thing) physics.Angle {
	return physics.ANG45 * physics.Angle(int(mt.Angle)/45)
}

func (h *GameHost) spawnMapThing(mt Thing, mtype int) {
	def := &h.Content.Defs[mtype]
	z := physics.ONFLOORZ
	if def.Flags&physics.MF_SPAWNCEILING != 0 {
		z = physics.ONCEILINGZ
	}
	mo := h.World.SpawnMobj(physics.IntToFixed(int(mt.XPos)),
		physics.IntToFixed(int(mt.YPos)), z, mtype)
	if mo.Tics > 0 {
		// desync idle animations
		mo.Tics = 1 + h.rng.Random()%mo.Tics
	}
	if mo.Flags&physics.MF_COUNTKILL != 0 {
		h.Stats.TotalKills++
	}
	if mo.Flags&physics.MF_COUNTITEM != 0 {
		h.Stats.TotalItems++
	}
	mo.Angle = mapAngle(mt)
	if mt.Flags&TF_AMBUSH != 0 {
		mo.Flags |= physics.MF_AMBUSH
	}
}

func (h *GameHost) spawnPlayer(mt Thing) {
	if h.player != physics.NoMobj {
		return
	}
	mo := h.World.SpawnMobj(physics.IntToFixed(int(mt.XPos)),
		physics.IntToFixed(int(mt.YPos)), physics.ONFLOORZ, MT_PLAYER)
	mo.Player = true
	mo.Angle = mapAngle(mt)
	h.player = mo.ID
}

// RunTic moves the player, then runs the kernel's tick
func (h *GameHost) RunTic() {
	h.drivePlayer()
	h.World.Tick(h.dispatch)
	h.tic++
}

// The player walks straight ahead, turning left whenever a wall stops it,
// and shoots at whatever it is facing from time to time
func (h *GameHost) drivePlayer() {
	w := h.World
	mo := w.Mobj(h.player)
	if mo == nil || mo.Health <= 0 {
		return
	}
	mo.MomX += physics.FixedMul(PLAYER_FORWARDMOVE, physics.FineCosine(mo.Angle))
	mo.MomY += physics.FixedMul(PLAYER_FORWARDMOVE, physics.FineSine(mo.Angle))
	x, y := mo.X, mo.Y
	w.XYMovement(mo)
	if mo.Z != mo.FloorZ || mo.MomZ != 0 {
		w.ZMovement(mo)
	}
	if mo.Removed() {
		return
	}
	if mo.X == x && mo.Y == y {
		mo.Angle += physics.ANG90
		h.Stats.PlayerTurns++
	}

	if h.tic%PLAYER_REFIRE != 0 || h.Stats.Ammo <= 0 {
		return
	}
	slope := w.AimLineAttack(mo, mo.Angle, PLAYER_AIMRANGE)
	if w.LineTarget == physics.NoMobj {
		return
	}
	h.Stats.Ammo--
	h.Stats.Shots++
	h.StartSound(mo.ID, sfx_pistol)
	damage := 5 * (h.rng.Random()%3 + 1)
	w.LineAttack(mo, mo.Angle, physics.MISSILERANGE, slope, damage)
}

func (h *GameHost) DamageMobj(targetID, inflictorID, sourceID physics.MobjID, damage int) {
	w := h.World
	target := w.Mobj(targetID)
	if target == nil || target.Flags&physics.MF_SHOOTABLE == 0 || target.Health <= 0 {
		return
	}
	def := h.def(target)
	if target.Flags&physics.MF_SKULLFLY != 0 {
		target.MomX = 0
		target.MomY = 0
		target.MomZ = 0
	}

	// push the victim away from the inflictor
	inflictor := w.Mobj(inflictorID)
	if inflictor != nil && target.Flags&physics.MF_NOCLIP == 0 {
		ang := physics.PointToAngle(inflictor.X, inflictor.Y, target.X, target.Y)
		thrust := physics.Fixed(damage * int(physics.FRACUNIT>>3) * 100 / def.Mass)
		target.MomX += physics.FixedMul(thrust, physics.FineCosine(ang))
		target.MomY += physics.FixedMul(thrust, physics.FineSine(ang))
	}

	target.Health -= damage
	h.Stats.DamageDealt += damage
	source := w.Mobj(sourceID)
	if target.Health <= 0 {
		h.killMobj(source, target)
		return
	}
	if target.Player {
		h.StartSound(target.ID, def.PainSound)
		return
	}

	if def.PainState != physics.S_NULL && h.rng.Random() < def.PainChance &&
		target.Flags&physics.MF_SKULLFLY == 0 {
		target.Flags |= physics.MF_JUSTHIT
		if !w.SetMobjState(target, def.PainState) {
			return
		}
	}
	if def.SeeState == physics.S_NULL {
		return
	}
	b := h.brainOf(target)
	b.reactionTime = 0
	if b.threshold == 0 && source != nil && source != target {
		// fight back
		target.Target = source.ID
		b.threshold = BASETHRESHOLD
		if target.State == def.SpawnState {
			w.SetMobjState(target, def.SeeState)
		}
	}
}

func (h *GameHost) killMobj(source, target *physics.Mobj) {
	def := h.def(target)
	target.Flags &^= physics.MF_SHOOTABLE | physics.MF_FLOAT | physics.MF_SKULLFLY
	if target.Type != MT_SKULL {
		target.Flags &^= physics.MF_NOGRAVITY
	}
	target.Flags |= physics.MF_CORPSE | physics.MF_DROPOFF
	target.Height >>= 2
	h.Stats.Deaths++
	if target.Flags&physics.MF_COUNTKILL != 0 {
		h.Stats.Kills++
	}
	if target.Player {
		h.Stats.PlayerDied = true
		target.Flags &^= physics.MF_SOLID
	}
	killer := "world"
	if source != nil {
		killer = h.def(source).Name
	}
	h.log.WithField("mobj", target.ID).Debugf("%s killed by %s at tic %d",
		def.Name, killer, h.tic)

	if !h.World.SetMobjState(target, def.DeathState) {
		return
	}
	target.Tics -= h.rng.Random() & 3
	if target.Tics < 1 {
		target.Tics = 1
	}
	if def.DropType != -1 {
		mo := h.World.SpawnMobj(target.X, target.Y, physics.ONFLOORZ, def.DropType)
		mo.Flags |= physics.MF_DROPPED
	}
}

func (h *GameHost) TouchSpecialThing(specialID, toucherID physics.MobjID) {
	w := h.World
	special := w.Mobj(specialID)
	toucher := w.Mobj(toucherID)
	if special == nil || toucher == nil || toucher.Health <= 0 {
		return
	}
	delta := special.Z - toucher.Z
	if delta > toucher.Height || delta < -8*physics.FRACUNIT {
		// out of reach
		return
	}
	def := h.def(special)
	switch {
	case def.GiveHealth > 0:
		if toucher.Health >= def.MaxHealth && special.Type != MT_BONUS {
			return
		}
		toucher.Health += def.GiveHealth
		if toucher.Health > def.MaxHealth {
			toucher.Health = def.MaxHealth
		}
	case special.Type == MT_CLIP:
		if special.Flags&physics.MF_DROPPED != 0 {
			h.Stats.Ammo += 5
		} else {
			h.Stats.Ammo += 10
		}
	}
	if special.Flags&physics.MF_COUNTITEM != 0 {
		h.Stats.Items++
	}
	h.Stats.Pickups++
	w.RemoveMobj(special)
	h.StartSound(toucherID, sfx_itemup)
}

func (h *GameHost) SpawnPuff(x, y, z physics.Fixed) {
	h.Stats.Puffs++
	z += physics.Fixed((h.rng.Random() - h.rng.Random()) << 10)
	th := h.World.SpawnMobj(x, y, z, MT_PUFF)
	th.MomZ = physics.FRACUNIT
	th.Tics -= h.rng.Random() & 3
	if th.Tics < 1 {
		th.Tics = 1
	}
}

func (h *GameHost) SpawnBlood(x, y, z physics.Fixed, damage int) {
	h.Stats.Blood++
	z += physics.Fixed((h.rng.Random() - h.rng.Random()) << 10)
	th := h.World.SpawnMobj(x, y, z, MT_BLOOD)
	th.MomZ = 2 * physics.FRACUNIT
	th.Tics -= h.rng.Random() & 3
	if th.Tics < 1 {
		th.Tics = 1
	}
	// smaller splats for smaller hits
	spawn := h.Content.Defs[MT_BLOOD].SpawnState
	if damage <= 12 && damage >= 9 {
		h.World.SetMobjState(th, spawn+1)
	} else if damage < 9 {
		h.World.SetMobjState(th, spawn+2)
	}
}

func (h *GameHost) StartSound(origin physics.MobjID, sound int) {
	if sound == sfx_none {
		return
	}
	h.Stats.Sounds++
	h.log.WithField("mobj", origin).Tracef("sound %d", sound)
}

func (h *GameHost) ShootSpecialLine(shooter physics.MobjID, line int) {
	h.Stats.SpecialLines++
	h.log.WithField("mobj", shooter).Debugf("shot line %d with special %d",
		line, h.World.Level.Lines[line].Special)
}

func (h *GameHost) RunAction(action physics.ActionID, id physics.MobjID) {
	mo := h.World.Mobj(id)
	if mo == nil || action <= A_NONE || action >= NUMACTIONS {
		return
	}
	h.Stats.Actions[actionNames[action]]++
	h.runAction(action, mo)
}

// GameDispatcher counts late actions and forgets monster state of removed
// things, the rest is left to the kernel
type GameDispatcher struct {
	physics.BaseDispatcher
	host *GameHost
}

func (d *GameDispatcher) DispatchLate(mo *physics.Mobj, act physics.LateAction) {
	d.host.Stats.Late[act.Kind.String()]++
	d.BaseDispatcher.DispatchLate(mo, act)
	if mo.Removed() {
		delete(d.host.brains, mo.ID)
	}
}

type SightEntry struct {
	Mobj physics.MobjID `msgpack:"mobj"`
	Name string         `msgpack:"name"`
	Sees bool           `msgpack:"sees"`
}

// SightReport tells, for every live monster, whether it has a line of sight
// to the player
func (h *GameHost) SightReport() []SightEntry {
	player := h.Player()
	if player == nil {
		return nil
	}
	var report []SightEntry
	h.World.ForEachMobj(func(mo *physics.Mobj) {
		if mo.Flags&physics.MF_COUNTKILL == 0 || mo.Health <= 0 {
			return
		}
		report = append(report, SightEntry{
			Mobj: mo.ID,
			Name: h.def(mo).Name,
			Sees: h.World.CheckSight(mo, player),
		})
	})
	return report
}
