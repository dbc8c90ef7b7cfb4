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
	"github.com/sirupsen/logrus"
)

// Handle of a thing inside World. Handles are never reused, so a handle kept
// past removal of its thing resolves to nil rather than to a stranger
type MobjID int32

const NoMobj = MobjID(-1)

// Thing flags
const (
	MF_SPECIAL      = uint32(0x1) // call TouchSpecialThing when touched
	MF_SOLID        = uint32(0x2)
	MF_SHOOTABLE    = uint32(0x4)
	MF_NOSECTOR     = uint32(0x8) // not used by the kernel, kept for content tables
	MF_NOBLOCKMAP   = uint32(0x10)
	MF_AMBUSH       = uint32(0x20)
	MF_JUSTHIT      = uint32(0x40)
	MF_JUSTATTACKED = uint32(0x80)
	MF_SPAWNCEILING = uint32(0x100)
	MF_NOGRAVITY    = uint32(0x200)
	MF_DROPOFF      = uint32(0x400) // may step off ledges
	MF_PICKUP       = uint32(0x800)
	MF_NOCLIP       = uint32(0x1000)
	MF_SLIDE        = uint32(0x2000)
	MF_FLOAT        = uint32(0x4000)
	MF_TELEPORT     = uint32(0x8000)
	MF_MISSILE      = uint32(0x10000)
	MF_DROPPED      = uint32(0x20000)
	MF_SHADOW       = uint32(0x40000)
	MF_NOBLOOD      = uint32(0x80000)
	MF_CORPSE       = uint32(0x100000)
	MF_INFLOAT      = uint32(0x200000)
	MF_COUNTKILL    = uint32(0x400000)
	MF_COUNTITEM    = uint32(0x800000)
	MF_SKULLFLY     = uint32(0x1000000)
	MF_NOTDMATCH    = uint32(0x2000000)
	// immune to splash damage (the two big bosses)
	MF_NORADIUSDMG = uint32(0x10000000)
)

// Spawn height markers
const (
	ONFLOORZ   = MININT
	ONCEILINGZ = MAXINT
)

type StateNum int

// The null state: entering it removes the thing
const S_NULL = StateNum(0)

// Opaque reference to a state action; 0 means no action
type ActionID int

type State struct {
	Sprite int
	Frame  int
	Tics   int // -1 lasts forever
	Action ActionID
	Next   StateNum
}

type MobjInfo struct {
	Name        string
	DoomedNum   int // -1 if can't be placed in map
	SpawnState  StateNum
	DeathState  StateNum
	SpawnHealth int
	Speed       Fixed
	Radius      Fixed
	Height      Fixed
	Damage      int
	DeathSound  int
	Flags       uint32
}

// Content tables; read only
type Content struct {
	States []State
	Info   []MobjInfo
}

type Mobj struct {
	ID   MobjID
	Type int
	Info *MobjInfo

	X, Y, Z          Fixed
	MomX, MomY, MomZ Fixed
	Angle            Angle
	Radius, Height   Fixed
	// cached height envelope of the current position
	FloorZ, CeilingZ Fixed
	Flags            uint32
	Health           int

	State  StateNum
	Tics   int
	Sprite int
	Frame  int
	// pending deferred action for this tick
	Late LateAction

	// weak reference, may resolve to nil
	Target MobjID
	// driven by player code, never thought for by this package
	Player bool

	Subsector int

	// intrusive links
	sprev, snext MobjID
	bprev, bnext MobjID
	prev, next   MobjID
	// sector and blockmap cell currently linked into, -1 when not linked
	sectorLink int
	blockLink  int
	removed    bool
}

func (mo *Mobj) Removed() bool {
	return mo.removed
}

// World is one running level: geometry, content tables, all things and the
// collaborators the kernel calls out to
type World struct {
	Level   *Level
	Content *Content
	Log     logrus.FieldLogger

	rng     Random
	damage  DamageSink
	touch   TouchSink
	fx      Effects
	actions ActionRunner

	mobjs      []*Mobj
	head, tail MobjID

	// last thing hit by LineAttack or AimLineAttack
	LineTarget MobjID
}

var Log logrus.FieldLogger = logrus.StandardLogger()

// Replaces logger used by worlds created afterwards
func SetLogger(l logrus.FieldLogger) {
	Log = l
}

// Level is taken over by the world: its thing lists are reset
func NewWorld(level *Level, content *Content, c Collaborators) *World {
	c.fillDefaults()
	level.resetLinks()
	return &World{
		Level:      level,
		Content:    content,
		Log:        Log,
		rng:        c.Random,
		damage:     c.Damage,
		touch:      c.Touch,
		fx:         c.Effects,
		actions:    c.Actions,
		head:       NoMobj,
		tail:       NoMobj,
		LineTarget: NoMobj,
	}
}

// Resolves handle, nil if never existed or removed
func (w *World) Mobj(id MobjID) *Mobj {
	if id < 0 || int(id) >= len(w.mobjs) {
		return nil
	}
	mo := w.mobjs[id]
	if mo.removed {
		return nil
	}
	return mo
}

func (w *World) Random() int {
	return w.rng.Random()
}

// Calls fn for every live thing in list order. fn may remove things
func (w *World) ForEachMobj(fn func(mo *Mobj)) {
	var next MobjID
	for id := w.head; id != NoMobj; id = next {
		mo := w.mobjs[id]
		// in case mo is removed this time
		next = mo.next
		if mo.removed {
			continue
		}
		fn(mo)
	}
}

func (w *World) NumMobjs() int {
	n := 0
	w.ForEachMobj(func(*Mobj) { n++ })
	return n
}

// Creates a thing of the given type at x, y. z may be ONFLOORZ or ONCEILINGZ
func (w *World) SpawnMobj(x, y, z Fixed, mtype int) *Mobj {
	info := &w.Content.Info[mtype]
	mo := &Mobj{
		ID:         MobjID(len(w.mobjs)),
		Type:       mtype,
		Info:       info,
		X:          x,
		Y:          y,
		Radius:     info.Radius,
		Height:     info.Height,
		Flags:      info.Flags,
		Health:     info.SpawnHealth,
		Target:     NoMobj,
		sprev:      NoMobj,
		snext:      NoMobj,
		bprev:      NoMobj,
		bnext:      NoMobj,
		prev:       NoMobj,
		next:       NoMobj,
		sectorLink: -1,
		blockLink:  -1,
	}
	st := &w.Content.States[info.SpawnState]
	mo.State = info.SpawnState
	mo.Tics = st.Tics
	mo.Sprite = st.Sprite
	mo.Frame = st.Frame
	w.mobjs = append(w.mobjs, mo)

	// set subsector and/or block links
	w.SetThingPosition(mo)
	sec := &w.Level.Sectors[w.Level.Subsectors[mo.Subsector].Sector]
	mo.FloorZ = sec.FloorHeight
	mo.CeilingZ = sec.CeilingHeight
	switch z {
	case ONFLOORZ:
		mo.Z = mo.FloorZ
	case ONCEILINGZ:
		mo.Z = mo.CeilingZ - mo.Height
	default:
		mo.Z = z
	}

	w.addToList(mo)
	w.Log.WithField("mobj", mo.ID).Tracef("spawned %s at (%v, %v, %v)",
		info.Name, x.Float(), y.Float(), mo.Z.Float())
	return mo
}

// Unlinks thing from everything. The handle stays dead forever
func (w *World) RemoveMobj(mo *Mobj) {
	if mo.removed {
		return
	}
	w.UnsetThingPosition(mo)
	w.removeFromList(mo)
	mo.removed = true
	mo.Late = LateAction{}
	w.Log.WithField("mobj", mo.ID).Trace("removed")
}

// Appends to the tail of the global list, so new things think after the
// existing ones
func (w *World) addToList(mo *Mobj) {
	mo.prev = w.tail
	mo.next = NoMobj
	if w.tail != NoMobj {
		w.mobjs[w.tail].next = mo.ID
	} else {
		w.head = mo.ID
	}
	w.tail = mo.ID
}

// Removed thing keeps its forward link, so that a cursor parked on it still
// reaches the rest of the list
func (w *World) removeFromList(mo *Mobj) {
	if mo.prev != NoMobj {
		w.mobjs[mo.prev].next = mo.next
	} else {
		w.head = mo.next
	}
	if mo.next != NoMobj {
		w.mobjs[mo.next].prev = mo.prev
	} else {
		w.tail = mo.prev
	}
}

// Enters state and runs its action right away. Returns false if thing was
// removed because state is S_NULL
func (w *World) SetMobjState(mo *Mobj, state StateNum) bool {
	if state == S_NULL {
		mo.State = S_NULL
		w.RemoveMobj(mo)
		return false
	}
	st := &w.Content.States[state]
	mo.State = state
	mo.Tics = st.Tics
	mo.Sprite = st.Sprite
	mo.Frame = st.Frame
	if st.Action != 0 {
		w.actions.RunAction(st.Action, mo.ID)
	}
	return !mo.removed
}
