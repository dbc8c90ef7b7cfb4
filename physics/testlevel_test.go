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

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Rooms are laid side by side along X and share the Y extent. Neighbours are
// joined by a two-sided line, everything else is a one-sided wall. A
// vertical partition at each joint makes up the BSP
type testRoom struct {
	x1, x2      int
	floor, ceil int
	ceilPic     int
}

func buildRoomsLevel(y1, y2 int, rooms []testRoom) *Level {
	lv := &Level{}
	for _, r := range rooms {
		lv.Sectors = append(lv.Sectors, Sector{
			FloorHeight:   IntToFixed(r.floor),
			CeilingHeight: IntToFixed(r.ceil),
			CeilingPic:    r.ceilPic,
			ThingList:     NoMobj,
		})
	}
	v := func(x, y int) Vertex {
		return Vertex{X: IntToFixed(x), Y: IntToFixed(y)}
	}
	addLine := func(a, b Vertex, flags uint32, front, back int) int {
		lv.Lines = append(lv.Lines, NewLine(a, b, flags, front, back))
		return len(lv.Lines) - 1
	}
	n := len(rooms)
	segsOf := make([][]Seg, n)
	addSeg := func(room, line int, a, b Vertex) {
		segsOf[room] = append(segsOf[room], Seg{V1: a, V2: b, Line: line, FrontSector: room})
	}
	for i, r := range rooms {
		bl, br, tl, tr := v(r.x1, y1), v(r.x2, y1), v(r.x1, y2), v(r.x2, y2)
		l := addLine(br, bl, ML_BLOCKING, i, -1)
		addSeg(i, l, br, bl)
		l = addLine(tl, tr, ML_BLOCKING, i, -1)
		addSeg(i, l, tl, tr)
		if i == 0 {
			l = addLine(bl, tl, ML_BLOCKING, i, -1)
			addSeg(i, l, bl, tl)
		}
		if i == n-1 {
			l = addLine(tr, br, ML_BLOCKING, i, -1)
			addSeg(i, l, tr, br)
		} else {
			l = addLine(tr, br, ML_TWOSIDED, i, i+1)
			addSeg(i, l, tr, br)
			addSeg(i+1, l, br, tr)
		}
	}
	for i := range rooms {
		lv.Subsectors = append(lv.Subsectors, Subsector{
			Sector:   i,
			FirstSeg: len(lv.Segs),
			NumSegs:  len(segsOf[i]),
		})
		lv.Segs = append(lv.Segs, segsOf[i]...)
	}
	for i := 1; i < n; i++ {
		b := rooms[i].x1
		front := NF_SUBSECTOR
		if i > 1 {
			front = i - 2
		}
		lv.Nodes = append(lv.Nodes, Node{
			Divline: Divline{
				X:  IntToFixed(b),
				Y:  IntToFixed(y2),
				Dy: IntToFixed(y1 - y2),
			},
			Children: [2]int{front, i | NF_SUBSECTOR},
		})
	}
	lv.Blockmap = BuildBlockmap(BlockmapInput{Lines: lv.Lines})
	return lv
}

// Single square room centered on the origin
func buildBoxLevel(half int) *Level {
	return buildRoomsLevel(-half, half, []testRoom{{x1: -half, x2: half, floor: 0, ceil: 128}})
}

const (
	stSpawn = StateNum(iota + 1)
	stDeath1
	stDeath2
	stBlink
	stVanish
)

const blinkAction = ActionID(7)

const (
	mtMonster = iota
	mtImp
	mtMissile
	mtSkull
	mtItem
	mtBoss
	mtDecor
	mtPickup
)

const missileDeathSound = 9

func testContent() *Content {
	return &Content{
		States: []State{
			S_NULL:   {},
			stSpawn:  {Tics: -1, Next: stSpawn},
			stDeath1: {Sprite: 1, Tics: 4, Next: stDeath2},
			stDeath2: {Sprite: 1, Frame: 1, Tics: 4, Next: S_NULL},
			stBlink:  {Sprite: 2, Tics: 1, Action: blinkAction, Next: stBlink},
			stVanish: {Tics: 1, Next: S_NULL},
		},
		Info: []MobjInfo{
			mtMonster: {Name: "monster", SpawnState: stSpawn, DeathState: stDeath1, SpawnHealth: 100,
				Radius: 16 * FRACUNIT, Height: 56 * FRACUNIT, Damage: 3, Flags: MF_SOLID | MF_SHOOTABLE},
			mtImp: {Name: "imp", SpawnState: stSpawn, DeathState: stDeath1, SpawnHealth: 60,
				Radius: 20 * FRACUNIT, Height: 56 * FRACUNIT, Flags: MF_SOLID | MF_SHOOTABLE},
			mtMissile: {Name: "missile", SpawnState: stSpawn, DeathState: stDeath1, Radius: 8 * FRACUNIT,
				Height: 8 * FRACUNIT, Damage: 5, DeathSound: missileDeathSound,
				Flags: MF_NOBLOCKMAP | MF_MISSILE | MF_DROPOFF | MF_NOGRAVITY},
			mtSkull: {Name: "skull", SpawnState: stSpawn, DeathState: stDeath1, SpawnHealth: 100,
				Radius: 16 * FRACUNIT, Height: 56 * FRACUNIT, Damage: 3,
				Flags: MF_SOLID | MF_SHOOTABLE | MF_FLOAT | MF_NOGRAVITY},
			mtItem: {Name: "item", SpawnState: stSpawn, Radius: 20 * FRACUNIT, Height: 16 * FRACUNIT,
				Flags: MF_SPECIAL},
			mtBoss: {Name: "boss", SpawnState: stSpawn, DeathState: stDeath1, SpawnHealth: 4000,
				Radius: 32 * FRACUNIT, Height: 100 * FRACUNIT, Flags: MF_SOLID | MF_SHOOTABLE | MF_NORADIUSDMG},
			mtDecor: {Name: "decor", SpawnState: stSpawn, Radius: 16 * FRACUNIT, Height: 16 * FRACUNIT},
			mtPickup: {Name: "pickup", SpawnState: stSpawn, DeathState: stDeath1, SpawnHealth: 100,
				Radius: 16 * FRACUNIT, Height: 56 * FRACUNIT,
				Flags: MF_SOLID | MF_SHOOTABLE | MF_PICKUP | MF_DROPOFF},
		},
	}
}

type damageCall struct {
	target, inflictor, source MobjID
	damage                    int
}

// Records every call made through the collaborator interfaces
type recorder struct {
	damage   []damageCall
	puffs    [][3]Fixed
	blood    [][3]Fixed
	sounds   []int
	actions  []ActionID
	touched  []MobjID
	specials []int
}

func (r *recorder) DamageMobj(target, inflictor, source MobjID, damage int) {
	r.damage = append(r.damage, damageCall{target, inflictor, source, damage})
}

func (r *recorder) TouchSpecialThing(special, toucher MobjID) {
	r.touched = append(r.touched, special)
}

func (r *recorder) SpawnPuff(x, y, z Fixed) {
	r.puffs = append(r.puffs, [3]Fixed{x, y, z})
}

func (r *recorder) SpawnBlood(x, y, z Fixed, damage int) {
	r.blood = append(r.blood, [3]Fixed{x, y, z})
}

func (r *recorder) StartSound(origin MobjID, sound int) {
	r.sounds = append(r.sounds, sound)
}

func (r *recorder) ShootSpecialLine(shooter MobjID, line int) {
	r.specials = append(r.specials, line)
}

func (r *recorder) RunAction(action ActionID, mo MobjID) {
	r.actions = append(r.actions, action)
}

func newTestWorld(lv *Level) (*World, *recorder) {
	rec := &recorder{}
	w := NewWorld(lv, testContent(), Collaborators{
		Damage:  rec,
		Touch:   rec,
		Effects: rec,
		Actions: rec,
	})
	quiet := logrus.New()
	quiet.Out = io.Discard
	w.Log = quiet
	return w, rec
}

func spawnAt(w *World, mtype int, x, y int) *Mobj {
	return w.SpawnMobj(IntToFixed(x), IntToFixed(y), ONFLOORZ, mtype)
}
