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
	"strings"
	"testing"
)

func TestPointInSubsector(t *testing.T) {
	lv := buildRoomsLevel(-64, 64, []testRoom{
		{x1: 0, x2: 128, floor: 0, ceil: 128},
		{x1: 128, x2: 144, floor: 0, ceil: 0},
		{x1: 144, x2: 400, floor: 0, ceil: 128},
	})
	for _, c := range []struct {
		x    int
		want int
	}{
		{10, 0}, {127, 0}, {129, 1}, {143, 1}, {145, 2}, {399, 2},
	} {
		if got := lv.PointInSubsector(IntToFixed(c.x), 0); got != c.want {
			t.Errorf("x = %d: subsector %d, want %d", c.x, got, c.want)
		}
	}
	if sec := lv.SectorAt(IntToFixed(130), 0); sec.CeilingHeight != 0 {
		t.Errorf("SectorAt found the wrong sector")
	}
}

func TestValidate(t *testing.T) {
	if err := buildBoxLevel(128).Validate(); err != nil {
		t.Fatalf("valid level rejected: %v", err)
	}
	for _, c := range []struct {
		name   string
		breakf func(lv *Level)
		msg    string
	}{
		{"back sector", func(lv *Level) { lv.Lines[3].BackSector = 9 }, "back sector"},
		{"seg line", func(lv *Level) { lv.Segs[0].Line = 100 }, "seg 0"},
		{"subsector segs", func(lv *Level) { lv.Subsectors[1].NumSegs = 50 }, "subsector 1"},
		{"node child", func(lv *Level) { lv.Nodes[0].Children[1] = 7 | NF_SUBSECTOR }, "missing subsector"},
		{"node order", func(lv *Level) { lv.Nodes[0].Children[0] = 0 }, "refers to node"},
		{"blockmap", func(lv *Level) { lv.Blockmap.Lists[0] = 99 }, "missing line"},
		{"no blockmap", func(lv *Level) { lv.Blockmap = nil }, "no blockmap"},
	} {
		lv := twoRooms()
		c.breakf(lv)
		err := lv.Validate()
		if err == nil {
			t.Errorf("%s: broken level accepted", c.name)
			continue
		}
		if !strings.Contains(err.Error(), c.msg) {
			t.Errorf("%s: error %q doesn't mention %q", c.name, err, c.msg)
		}
	}
}

func TestDoomRandom(t *testing.T) {
	r := NewDoomRandom(0)
	want := []int{8, 109, 220, 222}
	for i, w := range want {
		if got := r.Random(); got != w {
			t.Errorf("draw %d = %d, want %d", i, got, w)
		}
	}
	if r.Index() != 4 {
		t.Errorf("index %d, want 4", r.Index())
	}
	// wraps around
	r = NewDoomRandom(255)
	if got := r.Random(); got != 0 {
		t.Errorf("draw after wrap = %d, want 0", got)
	}
}
