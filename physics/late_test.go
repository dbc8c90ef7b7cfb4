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
	"testing"
)

func TestStateCycling(t *testing.T) {
	w, _ := newTestWorld(buildBoxLevel(512))
	mo := spawnAt(w, mtMonster, 0, 0)
	if !w.SetMobjState(mo, stDeath1) {
		t.Fatalf("SetMobjState removed the thing")
	}
	for i := 0; i < 4; i++ {
		w.Tick(nil)
	}
	if mo.State != stDeath2 || mo.Tics != 4 || mo.Frame != 1 {
		t.Fatalf("after 4 ticks: state %d tics %d frame %d", mo.State, mo.Tics, mo.Frame)
	}
	for i := 0; i < 3; i++ {
		w.Tick(nil)
	}
	if mo.Removed() {
		t.Fatalf("removed a tick early")
	}
	w.Tick(nil)
	if !mo.Removed() || w.NumMobjs() != 0 {
		t.Errorf("state chain ran out but thing is still alive")
	}
}

func TestStateActionsRunLate(t *testing.T) {
	w, rec := newTestWorld(buildBoxLevel(512))
	mo := spawnAt(w, mtMonster, 0, 0)
	w.SetMobjState(mo, stBlink)
	if len(rec.actions) != 1 {
		t.Fatalf("entering state ran %d actions", len(rec.actions))
	}
	w.RunMobjBase()
	if mo.Late.Kind != LATE_STATEACTION || mo.Late.Action != blinkAction {
		t.Fatalf("late action %+v", mo.Late)
	}
	if len(rec.actions) != 1 {
		t.Fatalf("action ran during movement")
	}
	w.RunLateActions(nil)
	w.Tick(nil)
	w.Tick(nil)
	if len(rec.actions) != 4 {
		t.Errorf("%d actions ran, want 4", len(rec.actions))
	}
	for _, a := range rec.actions {
		if a != blinkAction {
			t.Errorf("unexpected action %d", a)
		}
	}
}

func TestPlayersAreSkipped(t *testing.T) {
	w, _ := newTestWorld(buildBoxLevel(512))
	mo := spawnAt(w, mtMonster, 0, 0)
	mo.Player = true
	w.SetMobjState(mo, stDeath1)
	mo.MomX = 10 * FRACUNIT
	for i := 0; i < 10; i++ {
		w.Tick(nil)
	}
	if mo.Removed() || mo.X != 0 || mo.State != stDeath1 {
		t.Errorf("player thing was thought for")
	}
}

type removingDispatcher struct {
	base    *BaseDispatcher
	victim  *Mobj
	visited []MobjID
}

func (d *removingDispatcher) DispatchLate(mo *Mobj, act LateAction) {
	d.visited = append(d.visited, mo.ID)
	if mo.Late.Kind != LATE_NONE {
		panic("late action not cleared before dispatch")
	}
	if d.victim != nil {
		d.base.World.RemoveMobj(d.victim)
		d.victim = nil
	}
	d.base.DispatchLate(mo, act)
}

func TestLatePhaseSurvivesRemovals(t *testing.T) {
	w, _ := newTestWorld(buildBoxLevel(512))
	var mobjs []*Mobj
	for i := 0; i < 4; i++ {
		mo := spawnAt(w, mtDecor, i*40, 0)
		w.SetMobjState(mo, stVanish)
		mobjs = append(mobjs, mo)
	}
	d := &removingDispatcher{base: &BaseDispatcher{World: w}, victim: mobjs[1]}
	w.Tick(d)
	want := []MobjID{mobjs[0].ID, mobjs[2].ID, mobjs[3].ID}
	if len(d.visited) != len(want) {
		t.Fatalf("visited %v, want %v", d.visited, want)
	}
	for i := range want {
		if d.visited[i] != want[i] {
			t.Errorf("visited %v, want %v", d.visited, want)
			break
		}
	}
	if w.NumMobjs() != 0 {
		t.Errorf("%d things left", w.NumMobjs())
	}
	// list is still usable
	mo := spawnAt(w, mtDecor, 0, 0)
	n := 0
	w.ForEachMobj(func(m *Mobj) {
		if m != mo {
			t.Errorf("list yields thing %d", m.ID)
		}
		n++
	})
	if n != 1 {
		t.Errorf("list has %d things, want 1", n)
	}
}

func TestLateKindString(t *testing.T) {
	if LATE_MISSILEHIT.String() != "missilehit" || LateKind(99).String() != "unknown" {
		t.Errorf("bad names: %s %s", LATE_MISSILEHIT, LateKind(99))
	}
}
