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
	"testing"

	"github.com/vigilantdoomer/vigilantphys/physics"
)

func TestContentStates(t *testing.T) {
	c := BuildContent()
	states := c.Physics.States
	if states[physics.S_NULL].Tics != -1 {
		t.Errorf("S_NULL should never advance")
	}
	for i, st := range states {
		if int(st.Next) < 0 || int(st.Next) >= len(states) {
			t.Errorf("state %d: next %d out of range", i, st.Next)
		}
		if st.Sprite < 0 || st.Sprite >= NUMSPRITES {
			t.Errorf("state %d: sprite %d", i, st.Sprite)
		}
		if st.Action < A_NONE || st.Action >= NUMACTIONS {
			t.Errorf("state %d: action %d", i, st.Action)
		}
		if st.Tics == 0 {
			t.Errorf("state %d lasts no time", i)
		}
	}
}

func TestContentDefs(t *testing.T) {
	c := BuildContent()
	nstates := physics.StateNum(len(c.Physics.States))
	if len(c.Defs) != NUMMOBJTYPES || len(c.Physics.Info) != NUMMOBJTYPES {
		t.Fatalf("%d defs, %d infos", len(c.Defs), len(c.Physics.Info))
	}
	for i := range c.Defs {
		d := &c.Defs[i]
		if d.Name == "" {
			t.Errorf("type %d has no name", i)
		}
		if c.Physics.Info[i] != d.MobjInfo {
			t.Errorf("%s: kernel info differs from the definition", d.Name)
		}
		if d.SpawnState == physics.S_NULL || d.SpawnState >= nstates {
			t.Errorf("%s: spawn state %d", d.Name, d.SpawnState)
		}
		for _, s := range []physics.StateNum{d.SeeState, d.PainState, d.MeleeState,
			d.MissileState, d.DeathState} {
			if s >= nstates {
				t.Errorf("%s: state %d out of range", d.Name, s)
			}
		}
		if d.Radius <= 0 || d.Height <= 0 || d.Mass <= 0 {
			t.Errorf("%s: radius %v height %v mass %d", d.Name,
				d.Radius.Float(), d.Height.Float(), d.Mass)
		}
		if d.Flags&physics.MF_SHOOTABLE != 0 && d.DeathState == physics.S_NULL {
			t.Errorf("%s can be shot but can't die", d.Name)
		}
		if d.Flags&physics.MF_COUNTKILL != 0 && d.SeeState == physics.S_NULL {
			t.Errorf("%s never wakes up", d.Name)
		}
	}
}

// Death sequences end in a corpse frame that lasts forever, or in removal.
// Missile sequences come back to chasing, except for the charging skull
func TestContentSequencesTerminate(t *testing.T) {
	c := BuildContent()
	states := c.Physics.States
	walk := func(from physics.StateNum) (physics.StateNum, bool) {
		s := from
		for steps := 0; steps < 32; steps++ {
			if s == physics.S_NULL || states[s].Tics == -1 {
				return s, true
			}
			s = states[s].Next
		}
		return s, false
	}
	for i := range c.Defs {
		d := &c.Defs[i]
		if d.DeathState == physics.S_NULL {
			continue
		}
		if _, ok := walk(d.DeathState); !ok {
			t.Errorf("%s: death sequence loops", d.Name)
		}
	}
	for _, mtype := range []int{MT_POSSESSED, MT_TROOP, MT_HEAD, MT_CYBORG} {
		d := &c.Defs[mtype]
		s := d.MissileState
		back := false
		for steps := 0; steps < 16 && !back; steps++ {
			s = states[s].Next
			back = s == d.SeeState
		}
		if !back {
			t.Errorf("%s: attack doesn't return to chasing", d.Name)
		}
	}
	// blood splats of all sizes vanish
	for k := physics.StateNum(0); k < 3; k++ {
		if end, ok := walk(c.Defs[MT_BLOOD].SpawnState + k); !ok || end != physics.S_NULL {
			t.Errorf("blood splat %d doesn't vanish", k)
		}
	}
}

func TestTypeForDoomedNum(t *testing.T) {
	c := BuildContent()
	for num, want := range map[int]int{
		3004: MT_POSSESSED,
		3001: MT_TROOP,
		3002: MT_SERGEANT,
		3006: MT_SKULL,
		3005: MT_HEAD,
		16:   MT_CYBORG,
		2035: MT_BARREL,
		2007: MT_CLIP,
		2011: MT_STIM,
		2012: MT_MEDI,
		2014: MT_BONUS,
		48:   MT_COLUMN,
	} {
		got, ok := c.TypeForDoomedNum(num)
		if !ok || got != want {
			t.Errorf("doomednum %d: got %d (%v), want %d", num, got, ok, want)
		}
	}
	for _, num := range []int{1, 11, -1, 9999} {
		if _, ok := c.TypeForDoomedNum(num); ok {
			t.Errorf("doomednum %d should not be a spawnable thing", num)
		}
	}
}
