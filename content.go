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

// Sprites. Only names are kept, there's no renderer
const (
	SPR_PLAY = iota
	SPR_POSS
	SPR_TROO
	SPR_SARG
	SPR_SKUL
	SPR_HEAD
	SPR_CYBR
	SPR_BAL1
	SPR_BAL2
	SPR_MISL
	SPR_BAR1
	SPR_BEXP
	SPR_PUFF
	SPR_BLUD
	SPR_CLIP
	SPR_STIM
	SPR_MEDI
	SPR_BON1
	SPR_COLU
	NUMSPRITES
)

var SpriteNames = [NUMSPRITES]string{
	"PLAY", "POSS", "TROO", "SARG", "SKUL", "HEAD", "CYBR", "BAL1", "BAL2",
	"MISL", "BAR1", "BEXP", "PUFF", "BLUD", "CLIP", "STIM", "MEDI", "BON1",
	"COLU",
}

// Sounds
const (
	sfx_none = iota
	sfx_pistol
	sfx_posit1
	sfx_bgsit1
	sfx_sgtsit
	sfx_cacsit
	sfx_cybsit
	sfx_podth1
	sfx_bgdth1
	sfx_sgtdth
	sfx_cacdth
	sfx_cybdth
	sfx_popain
	sfx_dmpain
	sfx_plpain
	sfx_pldeth
	sfx_claw
	sfx_sgtatk
	sfx_sklatk
	sfx_firsht
	sfx_firxpl
	sfx_rlaunc
	sfx_barexp
	sfx_itemup
	sfx_wpnup
	NUMSFX
)

// Actions
const (
	A_NONE physics.ActionID = iota
	A_LOOK
	A_CHASE
	A_FACETARGET
	A_POSATTACK
	A_TROOPATTACK
	A_SARGATTACK
	A_HEADATTACK
	A_SKULLATTACK
	A_CYBERATTACK
	A_PAIN
	A_SCREAM
	A_FALL
	A_EXPLODE
	NUMACTIONS
)

var actionNames = [NUMACTIONS]string{
	"none", "Look", "Chase", "FaceTarget", "PosAttack", "TroopAttack",
	"SargAttack", "HeadAttack", "SkullAttack", "CyberAttack", "Pain", "Scream",
	"Fall", "Explode",
}

// Thing types
const (
	MT_PLAYER = iota
	MT_POSSESSED
	MT_TROOP
	MT_SERGEANT
	MT_SKULL
	MT_HEAD
	MT_CYBORG
	MT_BARREL
	MT_TROOPSHOT
	MT_HEADSHOT
	MT_ROCKET
	MT_PUFF
	MT_BLOOD
	MT_CLIP
	MT_STIM
	MT_MEDI
	MT_BONUS
	MT_COLUMN
	NUMMOBJTYPES
)

// Everything the game side knows about a thing type. The physics part of it
// is what the kernel sees
type ThingDef struct {
	physics.MobjInfo
	SeeState     physics.StateNum
	PainState    physics.StateNum
	MeleeState   physics.StateNum
	MissileState physics.StateNum
	PainChance   int
	ReactionTime int
	SeeSound     int
	PainSound    int
	AttackSound  int
	// thing type left behind on death, -1 for none
	DropType int
	// health given on pickup, and the ceiling it can raise health to
	GiveHealth int
	MaxHealth  int
	// resistance to being pushed around by damage
	Mass int
}

type GameContent struct {
	Defs    []ThingDef
	Physics *physics.Content
	// doomednum -> thing type
	byDoomedNum map[int]int
}

func (c *GameContent) TypeForDoomedNum(num int) (int, bool) {
	mtype, ok := c.byDoomedNum[num]
	return mtype, ok
}

type frameDef struct {
	frame  int
	tics   int
	action physics.ActionID
}

func frm(frame, tics int, action physics.ActionID) frameDef {
	return frameDef{frame: frame, tics: tics, action: action}
}

type seqRef struct {
	start physics.StateNum
	count int
}

type stateTable struct {
	states []physics.State
}

// seq appends frames chained one after another. Where the last one goes is
// decided by link
func (t *stateTable) seq(sprite int, frames ...frameDef) seqRef {
	start := physics.StateNum(len(t.states))
	for i, fr := range frames {
		t.states = append(t.states, physics.State{
			Sprite: sprite,
			Frame:  fr.frame,
			Tics:   fr.tics,
			Action: fr.action,
			Next:   start + physics.StateNum(i+1),
		})
	}
	return seqRef{start: start, count: len(frames)}
}

func (t *stateTable) link(s seqRef, next physics.StateNum) {
	t.states[int(s.start)+s.count-1].Next = next
}

// loop makes the sequence repeat forever
func (t *stateTable) loop(s seqRef) {
	t.link(s, s.start)
}

func (t *stateTable) loopFrom(s seqRef, idx int) {
	t.link(s, s.start+physics.StateNum(idx))
}

func chase(frames ...int) []frameDef {
	var r []frameDef
	for _, fr := range frames {
		r = append(r, frm(fr, 4, A_CHASE), frm(fr, 4, A_CHASE))
	}
	return r
}

func withTics(defs []frameDef, tics int) []frameDef {
	for i := range defs {
		defs[i].tics = tics
	}
	return defs
}

// monsterSeqs holds the usual set of sequences: idle, chasing, melee,
// missile, pain and death. An empty slice leaves the sequence out
type monsterSeqs struct {
	spawn, see, melee, missile, pain, death []frameDef
}

func (t *stateTable) monster(def *ThingDef, sprite int, m monsterSeqs) {
	spawn := t.seq(sprite, m.spawn...)
	t.loop(spawn)
	def.SpawnState = spawn.start
	see := t.seq(sprite, m.see...)
	t.loop(see)
	def.SeeState = see.start
	if len(m.melee) > 0 {
		s := t.seq(sprite, m.melee...)
		t.link(s, see.start)
		def.MeleeState = s.start
	}
	if len(m.missile) > 0 {
		s := t.seq(sprite, m.missile...)
		t.link(s, see.start)
		def.MissileState = s.start
	}
	if len(m.pain) > 0 {
		s := t.seq(sprite, m.pain...)
		t.link(s, see.start)
		def.PainState = s.start
	}
	death := t.seq(sprite, m.death...)
	// corpse frame lasts forever
	t.link(death, physics.S_NULL)
	def.DeathState = death.start
}

// decoration or item that just sits there
func (t *stateTable) still(def *ThingDef, sprite, frame int) {
	s := t.seq(sprite, frm(frame, -1, A_NONE))
	t.link(s, physics.S_NULL)
	def.SpawnState = s.start
}

// effect that plays once and vanishes
func (t *stateTable) once(sprite int, frames ...frameDef) physics.StateNum {
	s := t.seq(sprite, frames...)
	t.link(s, physics.S_NULL)
	return s.start
}

func fx(v int) physics.Fixed {
	return physics.IntToFixed(v)
}

var monsterFlags = physics.MF_SOLID | physics.MF_SHOOTABLE | physics.MF_COUNTKILL

// BuildContent makes the thing and state tables. Result is read only and can
// be shared between worlds
func BuildContent() *GameContent {
	t := &stateTable{}
	// state 0 is S_NULL
	t.states = append(t.states, physics.State{Sprite: SPR_PLAY, Tics: -1})
	defs := make([]ThingDef, NUMMOBJTYPES)
	for i := range defs {
		defs[i].DoomedNum = -1
		defs[i].DropType = -1
		defs[i].Mass = 100
	}

	d := &defs[MT_PLAYER]
	d.Name = "Player"
	d.SpawnHealth = 100
	d.Radius = fx(16)
	d.Height = fx(56)
	d.PainChance = 255
	d.PainSound = sfx_plpain
	d.DeathSound = sfx_pldeth
	d.Flags = physics.MF_SOLID | physics.MF_SHOOTABLE | physics.MF_DROPOFF |
		physics.MF_PICKUP | physics.MF_NOTDMATCH
	d.MaxHealth = 100
	t.monster(d, SPR_PLAY, monsterSeqs{
		spawn: []frameDef{frm(0, -1, A_NONE)},
		see:   []frameDef{frm(0, 4, A_NONE), frm(1, 4, A_NONE), frm(2, 4, A_NONE), frm(3, 4, A_NONE)},
		pain:  []frameDef{frm(6, 4, A_NONE), frm(6, 4, A_PAIN)},
		death: []frameDef{frm(7, 10, A_NONE), frm(8, 10, A_SCREAM), frm(9, 10, A_FALL),
			frm(10, 10, A_NONE), frm(11, 10, A_NONE), frm(12, 10, A_NONE), frm(13, -1, A_NONE)},
	})

	d = &defs[MT_POSSESSED]
	d.Name = "Zombieman"
	d.DoomedNum = 3004
	d.SpawnHealth = 20
	d.Speed = fx(8)
	d.Radius = fx(20)
	d.Height = fx(56)
	d.PainChance = 200
	d.ReactionTime = 8
	d.SeeSound = sfx_posit1
	d.PainSound = sfx_popain
	d.DeathSound = sfx_podth1
	d.AttackSound = sfx_pistol
	d.DropType = MT_CLIP
	d.Flags = monsterFlags
	t.monster(d, SPR_POSS, monsterSeqs{
		spawn:   []frameDef{frm(0, 10, A_LOOK), frm(1, 10, A_LOOK)},
		see:     chase(0, 1, 2, 3),
		missile: []frameDef{frm(4, 10, A_FACETARGET), frm(5, 8, A_POSATTACK), frm(4, 8, A_NONE)},
		pain:    []frameDef{frm(6, 3, A_NONE), frm(6, 3, A_PAIN)},
		death: []frameDef{frm(7, 5, A_NONE), frm(8, 5, A_SCREAM), frm(9, 5, A_FALL),
			frm(10, 5, A_NONE), frm(11, -1, A_NONE)},
	})

	d = &defs[MT_TROOP]
	d.Name = "Imp"
	d.DoomedNum = 3001
	d.SpawnHealth = 60
	d.Speed = fx(8)
	d.Radius = fx(20)
	d.Height = fx(56)
	d.PainChance = 200
	d.ReactionTime = 8
	d.SeeSound = sfx_bgsit1
	d.PainSound = sfx_popain
	d.DeathSound = sfx_bgdth1
	d.Flags = monsterFlags
	troopAttack := []frameDef{frm(4, 8, A_FACETARGET), frm(5, 8, A_FACETARGET), frm(6, 6, A_TROOPATTACK)}
	t.monster(d, SPR_TROO, monsterSeqs{
		spawn:   []frameDef{frm(0, 10, A_LOOK), frm(1, 10, A_LOOK)},
		see:     withTics(chase(0, 1, 2, 3), 3),
		melee:   troopAttack,
		missile: troopAttack,
		pain:    []frameDef{frm(7, 2, A_NONE), frm(7, 2, A_PAIN)},
		death: []frameDef{frm(8, 8, A_NONE), frm(9, 8, A_SCREAM), frm(10, 6, A_NONE),
			frm(11, 6, A_FALL), frm(12, -1, A_NONE)},
	})

	d = &defs[MT_SERGEANT]
	d.Name = "Demon"
	d.Mass = 400
	d.DoomedNum = 3002
	d.SpawnHealth = 150
	d.Speed = fx(10)
	d.Radius = fx(30)
	d.Height = fx(56)
	d.PainChance = 180
	d.ReactionTime = 8
	d.SeeSound = sfx_sgtsit
	d.PainSound = sfx_dmpain
	d.DeathSound = sfx_sgtdth
	d.AttackSound = sfx_sgtatk
	d.Flags = monsterFlags
	t.monster(d, SPR_SARG, monsterSeqs{
		spawn: []frameDef{frm(0, 10, A_LOOK), frm(1, 10, A_LOOK)},
		see:   withTics(chase(0, 1, 2, 3), 2),
		melee: []frameDef{frm(4, 8, A_FACETARGET), frm(5, 8, A_FACETARGET), frm(6, 8, A_SARGATTACK)},
		pain:  []frameDef{frm(7, 2, A_NONE), frm(7, 2, A_PAIN)},
		death: []frameDef{frm(8, 8, A_NONE), frm(9, 8, A_SCREAM), frm(10, 4, A_NONE),
			frm(11, 4, A_FALL), frm(12, 4, A_NONE), frm(13, -1, A_NONE)},
	})

	d = &defs[MT_SKULL]
	d.Name = "Lost Soul"
	d.Mass = 50
	d.DoomedNum = 3006
	d.SpawnHealth = 100
	d.Speed = fx(8)
	d.Radius = fx(16)
	d.Height = fx(56)
	d.Damage = 3
	d.PainChance = 256
	d.ReactionTime = 8
	d.PainSound = sfx_dmpain
	d.AttackSound = sfx_sklatk
	d.Flags = physics.MF_SOLID | physics.MF_SHOOTABLE | physics.MF_FLOAT |
		physics.MF_NOGRAVITY
	{
		spawn := t.seq(SPR_SKUL, frm(0, 10, A_LOOK), frm(1, 10, A_LOOK))
		t.loop(spawn)
		see := t.seq(SPR_SKUL, frm(0, 6, A_CHASE), frm(1, 6, A_CHASE))
		t.loop(see)
		// charge keeps flapping until it hits something
		missile := t.seq(SPR_SKUL, frm(2, 10, A_FACETARGET), frm(3, 4, A_SKULLATTACK),
			frm(2, 4, A_NONE), frm(3, 4, A_NONE))
		t.loopFrom(missile, 2)
		pain := t.seq(SPR_SKUL, frm(4, 3, A_NONE), frm(4, 3, A_PAIN))
		t.link(pain, see.start)
		death := t.seq(SPR_SKUL, frm(5, 6, A_NONE), frm(6, 6, A_SCREAM), frm(7, 6, A_NONE),
			frm(8, 6, A_FALL), frm(9, 6, A_NONE), frm(10, 6, A_NONE))
		t.link(death, physics.S_NULL)
		d.SpawnState, d.SeeState, d.MissileState = spawn.start, see.start, missile.start
		d.PainState, d.DeathState = pain.start, death.start
	}

	d = &defs[MT_HEAD]
	d.Name = "Cacodemon"
	d.Mass = 400
	d.DoomedNum = 3005
	d.SpawnHealth = 400
	d.Speed = fx(8)
	d.Radius = fx(31)
	d.Height = fx(56)
	d.PainChance = 128
	d.ReactionTime = 8
	d.SeeSound = sfx_cacsit
	d.PainSound = sfx_dmpain
	d.DeathSound = sfx_cacdth
	d.Flags = monsterFlags | physics.MF_FLOAT | physics.MF_NOGRAVITY
	t.monster(d, SPR_HEAD, monsterSeqs{
		spawn:   []frameDef{frm(0, 10, A_LOOK)},
		see:     []frameDef{frm(0, 3, A_CHASE)},
		missile: []frameDef{frm(1, 5, A_FACETARGET), frm(2, 5, A_FACETARGET), frm(3, 5, A_HEADATTACK)},
		pain:    []frameDef{frm(4, 3, A_NONE), frm(4, 3, A_PAIN), frm(5, 6, A_NONE)},
		death: []frameDef{frm(6, 8, A_NONE), frm(7, 8, A_SCREAM), frm(8, 8, A_NONE),
			frm(9, 8, A_NONE), frm(10, 8, A_FALL), frm(11, -1, A_NONE)},
	})

	d = &defs[MT_CYBORG]
	d.Name = "Cyberdemon"
	d.Mass = 1000
	d.DoomedNum = 16
	d.SpawnHealth = 4000
	d.Speed = fx(16)
	d.Radius = fx(40)
	d.Height = fx(110)
	d.PainChance = 20
	d.ReactionTime = 8
	d.SeeSound = sfx_cybsit
	d.PainSound = sfx_dmpain
	d.DeathSound = sfx_cybdth
	d.Flags = monsterFlags | physics.MF_NORADIUSDMG
	t.monster(d, SPR_CYBR, monsterSeqs{
		spawn: []frameDef{frm(0, 10, A_LOOK), frm(1, 10, A_LOOK)},
		see:   withTics(chase(0, 1, 2, 3), 3),
		missile: []frameDef{frm(4, 6, A_FACETARGET), frm(5, 12, A_CYBERATTACK),
			frm(4, 12, A_FACETARGET), frm(5, 12, A_CYBERATTACK)},
		pain: []frameDef{frm(6, 10, A_PAIN)},
		death: []frameDef{frm(7, 10, A_NONE), frm(8, 10, A_SCREAM), frm(9, 10, A_NONE),
			frm(10, 10, A_NONE), frm(11, 10, A_FALL), frm(15, -1, A_NONE)},
	})

	d = &defs[MT_BARREL]
	d.Name = "Barrel"
	d.DoomedNum = 2035
	d.SpawnHealth = 20
	d.Radius = fx(10)
	d.Height = fx(42)
	d.DeathSound = sfx_barexp
	d.Flags = physics.MF_SOLID | physics.MF_SHOOTABLE | physics.MF_NOBLOOD
	{
		spawn := t.seq(SPR_BAR1, frm(0, 6, A_NONE), frm(1, 6, A_NONE))
		t.loop(spawn)
		d.SpawnState = spawn.start
		d.DeathState = t.once(SPR_BEXP, frm(0, 5, A_NONE), frm(1, 5, A_SCREAM),
			frm(2, 5, A_NONE), frm(3, 10, A_EXPLODE), frm(4, 10, A_NONE))
	}

	missile := func(d *ThingDef, name string, sprite, speed, damage int, radius, height int) {
		d.Name = name
		d.Speed = fx(speed)
		d.Damage = damage
		d.Radius = fx(radius)
		d.Height = fx(height)
		d.SpawnHealth = 1000
		d.Flags = physics.MF_NOBLOCKMAP | physics.MF_MISSILE | physics.MF_DROPOFF |
			physics.MF_NOGRAVITY
		s := t.seq(sprite, frm(0, 4, A_NONE), frm(1, 4, A_NONE))
		t.loop(s)
		d.SpawnState = s.start
	}
	d = &defs[MT_TROOPSHOT]
	missile(d, "Imp fireball", SPR_BAL1, 10, 3, 6, 8)
	d.SeeSound = sfx_firsht
	d.DeathSound = sfx_firxpl
	d.DeathState = t.once(SPR_BAL1, frm(2, 6, A_NONE), frm(3, 6, A_NONE), frm(4, 6, A_NONE))

	d = &defs[MT_HEADSHOT]
	missile(d, "Cacodemon fireball", SPR_BAL2, 10, 5, 6, 8)
	d.SeeSound = sfx_firsht
	d.DeathSound = sfx_firxpl
	d.DeathState = t.once(SPR_BAL2, frm(2, 6, A_NONE), frm(3, 6, A_NONE), frm(4, 6, A_NONE))

	d = &defs[MT_ROCKET]
	missile(d, "Rocket", SPR_MISL, 20, 20, 11, 8)
	d.SeeSound = sfx_rlaunc
	d.DeathSound = sfx_barexp
	d.DeathState = t.once(SPR_MISL, frm(1, 8, A_EXPLODE), frm(2, 6, A_NONE), frm(3, 4, A_NONE))

	d = &defs[MT_PUFF]
	d.Name = "Bullet puff"
	d.Radius = fx(20)
	d.Height = fx(16)
	d.SpawnHealth = 1000
	d.Flags = physics.MF_NOBLOCKMAP | physics.MF_NOGRAVITY
	d.SpawnState = t.once(SPR_PUFF, frm(0, 4, A_NONE), frm(1, 4, A_NONE), frm(2, 4, A_NONE), frm(3, 4, A_NONE))

	d = &defs[MT_BLOOD]
	d.Name = "Blood"
	d.Radius = fx(20)
	d.Height = fx(16)
	d.SpawnHealth = 1000
	d.Flags = physics.MF_NOBLOCKMAP
	d.SpawnState = t.once(SPR_BLUD, frm(2, 8, A_NONE), frm(1, 8, A_NONE), frm(0, 8, A_NONE))

	item := func(d *ThingDef, name string, doomednum, sprite int, flags uint32) {
		d.Name = name
		d.DoomedNum = doomednum
		d.Radius = fx(20)
		d.Height = fx(16)
		d.SpawnHealth = 1000
		d.Flags = physics.MF_SPECIAL | flags
		t.still(d, sprite, 0)
	}
	item(&defs[MT_CLIP], "Clip", 2007, SPR_CLIP, 0)
	item(&defs[MT_STIM], "Stimpack", 2011, SPR_STIM, 0)
	defs[MT_STIM].GiveHealth, defs[MT_STIM].MaxHealth = 10, 100
	item(&defs[MT_MEDI], "Medikit", 2012, SPR_MEDI, 0)
	defs[MT_MEDI].GiveHealth, defs[MT_MEDI].MaxHealth = 25, 100
	item(&defs[MT_BONUS], "Health bonus", 2014, SPR_BON1, physics.MF_COUNTITEM)
	defs[MT_BONUS].GiveHealth, defs[MT_BONUS].MaxHealth = 1, 200

	d = &defs[MT_COLUMN]
	d.Name = "Tech column"
	d.DoomedNum = 48
	d.Radius = fx(16)
	d.Height = fx(16)
	d.SpawnHealth = 1000
	d.Flags = physics.MF_SOLID
	t.still(d, SPR_COLU, 0)

	c := &GameContent{
		Defs:        defs,
		Physics:     &physics.Content{States: t.states},
		byDoomedNum: make(map[int]int),
	}
	for i := range defs {
		c.Physics.Info = append(c.Physics.Info, defs[i].MobjInfo)
		if defs[i].DoomedNum != -1 {
			c.byDoomedNum[defs[i].DoomedNum] = i
		}
	}
	return c
}
