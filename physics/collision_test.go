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
	"math/rand"
	"testing"
)

// Line 3 is the joint of the first two rooms
const jointLine = 3

func TestOneSidedWallBlocks(t *testing.T) {
	lv := buildRoomsLevel(-256, 256, []testRoom{{x1: -256, x2: 16, floor: 0, ceil: 128}})
	w, _ := newTestWorld(lv)
	mo := spawnAt(w, mtMonster, 0, 0)
	// touching the wall is fine
	if _, ok := w.CheckPosition(mo, 0, 0); !ok {
		t.Fatalf("thing touching the wall is blocked")
	}
	if _, ok := w.CheckPosition(mo, FRACUNIT, 0); ok {
		t.Errorf("thing overlapping one-sided wall is not blocked")
	}
	mo.MomX = 17 * FRACUNIT
	w.XYMovement(mo)
	if mo.X != 0 {
		t.Errorf("thing moved into the wall: x = %v", mo.X.Float())
	}
	if mo.MomX != 0 || mo.MomY != 0 {
		t.Errorf("blocked thing keeps momentum (%v, %v)", mo.MomX.Float(), mo.MomY.Float())
	}
}

func TestTwoSidedLineFoldsHeights(t *testing.T) {
	lv := buildRoomsLevel(-256, 256, []testRoom{
		{x1: -256, x2: 0, floor: 0, ceil: 128},
		{x1: 0, x2: 256, floor: 16, ceil: 100},
	})
	w, _ := newTestWorld(lv)
	mo := spawnAt(w, mtMonster, -20, 0)
	q, ok := w.CheckPosition(mo, -8*FRACUNIT, 0)
	if !ok {
		t.Fatalf("two-sided line blocked the thing")
	}
	if q.FloorZ != 16*FRACUNIT || q.CeilingZ != 100*FRACUNIT || q.DropoffZ != 0 {
		t.Errorf("floor %v ceiling %v dropoff %v, want 16 100 0",
			q.FloorZ.Float(), q.CeilingZ.Float(), q.DropoffZ.Float())
	}
	if q.CeilingLine != jointLine {
		t.Errorf("ceiling line = %d, want %d", q.CeilingLine, jointLine)
	}
	if q.Subsector != 0 {
		t.Errorf("subsector = %d, want 0", q.Subsector)
	}
	// away from the line
	q, _ = w.CheckPosition(mo, -100*FRACUNIT, 0)
	if q.FloorZ != 0 || q.CeilingZ != 128*FRACUNIT || q.CeilingLine != -1 {
		t.Errorf("heights away from the line: %v %v line %d", q.FloorZ.Float(), q.CeilingZ.Float(), q.CeilingLine)
	}
}

func TestDropoff(t *testing.T) {
	for _, c := range []struct {
		low   int
		flags uint32
		want  bool
	}{
		{-25, 0, false},
		{-24, 0, true},
		{-25, MF_DROPOFF, true},
		{-25, MF_FLOAT, true},
	} {
		lv := buildRoomsLevel(-256, 256, []testRoom{
			{x1: -256, x2: 0, floor: 0, ceil: 128},
			{x1: 0, x2: 256, floor: c.low, ceil: 128},
		})
		w, _ := newTestWorld(lv)
		mo := spawnAt(w, mtMonster, -20, 0)
		mo.Flags |= c.flags
		if _, ok := w.CheckPosition(mo, 4*FRACUNIT, 0); !ok {
			t.Errorf("floor %d: CheckPosition should not care about dropoffs", c.low)
		}
		q, ok := w.TryMove(mo, 4*FRACUNIT, 0)
		if ok != c.want {
			t.Errorf("floor %d flags %#x: TryMove = %v, want %v (floor %v dropoff %v)",
				c.low, c.flags, ok, c.want, q.FloorZ.Float(), q.DropoffZ.Float())
		}
	}
}

func TestStepAndHeadroom(t *testing.T) {
	step := buildRoomsLevel(-256, 256, []testRoom{
		{x1: -256, x2: 0, floor: 0, ceil: 128},
		{x1: 0, x2: 256, floor: 30, ceil: 128},
	})
	w, _ := newTestWorld(step)
	mo := spawnAt(w, mtMonster, -20, 0)
	if _, ok := w.TryMove(mo, 20*FRACUNIT, 0); ok {
		t.Errorf("climbed a 30 unit step")
	}
	if mo.X != -20*FRACUNIT {
		t.Errorf("failed move changed position")
	}

	low := buildRoomsLevel(-256, 256, []testRoom{
		{x1: -256, x2: 0, floor: 0, ceil: 128},
		{x1: 0, x2: 256, floor: 0, ceil: 40},
	})
	w, _ = newTestWorld(low)
	mo = spawnAt(w, mtMonster, -20, 0)
	if _, ok := w.TryMove(mo, 20*FRACUNIT, 0); ok {
		t.Errorf("56 unit thing went under a 40 unit ceiling")
	}
	if _, ok := w.CheckSpot(mo, 100*FRACUNIT, 0); ok {
		t.Errorf("CheckSpot ignores headroom")
	}
	if _, ok := w.CheckSpot(mo, -100*FRACUNIT, 0); !ok {
		t.Errorf("CheckSpot rejects a free spot")
	}
}

func TestLineFlags(t *testing.T) {
	lv := buildRoomsLevel(-256, 256, []testRoom{
		{x1: -256, x2: 0, floor: 0, ceil: 128},
		{x1: 0, x2: 256, floor: 0, ceil: 128},
	})
	w, _ := newTestWorld(lv)
	monster := spawnAt(w, mtMonster, -100, 100)
	missile := spawnAt(w, mtMissile, -100, -100)
	at := func(mo *Mobj) bool {
		_, ok := w.CheckPosition(mo, -4*FRACUNIT, mo.Y)
		return ok
	}
	if !at(monster) || !at(missile) {
		t.Fatalf("plain two-sided line blocks")
	}
	for _, c := range []struct {
		flags            uint32
		monster, missile bool
	}{
		{ML_BLOCKING, false, true},
		{ML_BLOCKMONSTERS, false, true},
		{ML_BLOCKPROJECTILES, false, false},
	} {
		lv.Lines[jointLine].Flags = ML_TWOSIDED | c.flags
		if got := at(monster); got != c.monster {
			t.Errorf("flags %#x: monster passes = %v, want %v", c.flags, got, c.monster)
		}
		if got := at(missile); got != c.missile {
			t.Errorf("flags %#x: missile passes = %v, want %v", c.flags, got, c.missile)
		}
	}
}

func TestMissileAgainstThings(t *testing.T) {
	w, _ := newTestWorld(buildBoxLevel(512))
	shooter := spawnAt(w, mtImp, 0, 0)
	other := spawnAt(w, mtImp, 200, 0)
	monster := spawnAt(w, mtMonster, 0, 200)
	wall := spawnAt(w, mtDecor, 200, 200)
	wall.Flags = MF_SOLID
	missile := spawnAt(w, mtMissile, -200, -200)
	missile.Target = shooter.ID

	check := func(x, y int) *CollisionQuery {
		q, ok := w.CheckPosition(missile, IntToFixed(x), IntToFixed(y))
		if ok {
			return nil
		}
		return q
	}
	if q := check(0, 0); q != nil {
		t.Errorf("missile hit its own shooter")
	}
	if q := check(200, 0); q == nil || q.HitThing != NoMobj {
		t.Errorf("missile should explode harmlessly on same species, got %+v", q)
	}
	other.Player = true
	if q := check(200, 0); q == nil || q.HitThing != other.ID {
		t.Errorf("player missiles should hit other players")
	}
	other.Player = false
	if q := check(0, 200); q == nil || q.HitThing != monster.ID {
		t.Errorf("missile should hit the monster")
	}
	if q := check(200, 200); q == nil || q.HitThing != NoMobj {
		t.Errorf("solid non-shootable thing should stop the missile without a hit")
	}
	missile.Z = 57 * FRACUNIT
	if q := check(0, 200); q != nil {
		t.Errorf("missile above the monster should fly over it")
	}
	missile.Z = 0

	missile.Target = NoMobj
	if q := check(200, 0); q == nil || q.HitThing != other.ID {
		t.Errorf("missile without shooter should hit anything shootable")
	}
	// shooter gone
	missile.Target = shooter.ID
	w.RemoveMobj(shooter)
	if q := check(200, 0); q == nil || q.HitThing != other.ID {
		t.Errorf("missile of removed shooter should hit anything shootable")
	}
}

func TestSkullHitsThing(t *testing.T) {
	w, _ := newTestWorld(buildBoxLevel(512))
	skull := spawnAt(w, mtSkull, 0, 0)
	monster := spawnAt(w, mtMonster, 40, 0)
	skull.Flags |= MF_SKULLFLY
	q, ok := w.CheckPosition(skull, 10*FRACUNIT, 0)
	if ok || q.HitThing != monster.ID {
		t.Errorf("charging skull should report what it hit, ok=%v hit=%d", ok, q.HitThing)
	}
	skull.Flags &^= MF_SKULLFLY
	q, ok = w.CheckPosition(skull, 10*FRACUNIT, 0)
	if ok || q.HitThing != NoMobj {
		t.Errorf("plain solid thing should block without a hit, ok=%v hit=%d", ok, q.HitThing)
	}
}

func TestPickupOnlyOnRealMoves(t *testing.T) {
	w, rec := newTestWorld(buildBoxLevel(512))
	mo := spawnAt(w, mtPickup, 0, 0)
	item := spawnAt(w, mtItem, 30, 0)
	if _, ok := w.CheckSpot(mo, 10*FRACUNIT, 0); !ok {
		t.Fatalf("non-solid item blocks")
	}
	w.CheckPosition(mo, 10*FRACUNIT, 0)
	if len(rec.touched) != 0 {
		t.Fatalf("position checks touched %v", rec.touched)
	}
	if _, ok := w.TryMove(mo, 10*FRACUNIT, 0); !ok {
		t.Fatalf("move over item failed")
	}
	if len(rec.touched) != 1 || rec.touched[0] != item.ID {
		t.Errorf("touched = %v, want [%d]", rec.touched, item.ID)
	}
	// things without MF_PICKUP don't touch
	other := spawnAt(w, mtMonster, 0, 100)
	w.TryMove(other, 30*FRACUNIT, 100*FRACUNIT)
	w.TryMove(other, 30*FRACUNIT, 30*FRACUNIT)
	if len(rec.touched) != 1 {
		t.Errorf("monster touched %v", rec.touched)
	}
}

// Every blocking neighbour is found, however the things fall into cells
func TestBroadPhaseFindsAllOverlaps(t *testing.T) {
	w, _ := newTestWorld(buildBoxLevel(1024))
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 60; i++ {
		mtype := mtMonster
		if i%3 == 0 {
			mtype = mtImp
		}
		spawnAt(w, mtype, rnd.Intn(1600)-800, rnd.Intn(1600)-800)
	}
	probe := spawnAt(w, mtImp, 0, 0)
	for i := 0; i < 2000; i++ {
		x := IntToFixed(rnd.Intn(1600)-800) + Fixed(rnd.Intn(int(FRACUNIT)))
		y := IntToFixed(rnd.Intn(1600)-800) + Fixed(rnd.Intn(int(FRACUNIT)))
		want := true
		w.ForEachMobj(func(mo *Mobj) {
			if mo == probe {
				return
			}
			d := mo.Radius + probe.Radius
			if FixedAbs(mo.X-x) < d && FixedAbs(mo.Y-y) < d {
				want = false
			}
		})
		if _, ok := w.CheckPosition(probe, x, y); ok != want {
			t.Fatalf("CheckPosition(%v, %v) = %v, exhaustive search says %v", x.Float(), y.Float(), ok, want)
		}
	}
}
