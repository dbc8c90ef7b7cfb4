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

func TestFixedMul(t *testing.T) {
	cases := []struct {
		a, b, want Fixed
	}{
		{FRACUNIT, FRACUNIT, FRACUNIT},
		{2 * FRACUNIT, 3 * FRACUNIT, 6 * FRACUNIT},
		{-2 * FRACUNIT, FRACUNIT / 2, -FRACUNIT},
		{FRACUNIT / 2, FRACUNIT / 2, FRACUNIT / 4},
	}
	for _, c := range cases {
		if got := FixedMul(c.a, c.b); got != c.want {
			t.Errorf("FixedMul(%v, %v) = %v, want %v", c.a.Float(), c.b.Float(), got.Float(), c.want.Float())
		}
	}
}

func TestFixedDiv(t *testing.T) {
	if got := FixedDiv(FRACUNIT, 2*FRACUNIT); got != FRACUNIT/2 {
		t.Errorf("1/2 = %v", got.Float())
	}
	if got := FixedDiv(-9*FRACUNIT, 3*FRACUNIT); got != -3*FRACUNIT {
		t.Errorf("-9/3 = %v", got.Float())
	}
	// saturation instead of overflow
	if got := FixedDiv(30000*FRACUNIT, FRACUNIT); got != MAXINT {
		t.Errorf("30000/1 should saturate to MAXINT, got %v", got)
	}
	if got := FixedDiv(-30000*FRACUNIT, FRACUNIT); got != MININT {
		t.Errorf("-30000/1 should saturate to MININT, got %v", got)
	}
	// never divides by zero
	if got := FixedDiv(FRACUNIT, 0); got != MAXINT {
		t.Errorf("1/0 should saturate to MAXINT, got %v", got)
	}
	if got := FixedDiv(0, 0); got != MAXINT {
		t.Errorf("0/0 should saturate, got %v", got)
	}
}

func TestAproxDistance(t *testing.T) {
	if got := AproxDistance(100*FRACUNIT, 0); got != 100*FRACUNIT {
		t.Errorf("axis distance = %v", got.Float())
	}
	// 100 + 40 - 20
	if got := AproxDistance(-100*FRACUNIT, 40*FRACUNIT); got != 120*FRACUNIT {
		t.Errorf("AproxDistance(-100, 40) = %v, want 120", got.Float())
	}
	if AproxDistance(3*FRACUNIT, 7*FRACUNIT) != AproxDistance(7*FRACUNIT, -3*FRACUNIT) {
		t.Errorf("AproxDistance should be symmetric")
	}
}

func TestFineTables(t *testing.T) {
	if got := FineSine(0); got != 25 {
		t.Errorf("sin(0) = %d, want 25", got)
	}
	if got := FineCosine(0); got < FRACUNIT-2 || got > FRACUNIT {
		t.Errorf("cos(0) = %d, want ~FRACUNIT", got)
	}
	if got := FineSine(ANG90); got < FRACUNIT-2 || got > FRACUNIT {
		t.Errorf("sin(90) = %d, want ~FRACUNIT", got)
	}
	if got := FineCosine(ANG180); got > -FRACUNIT+2 {
		t.Errorf("cos(180) = %d, want ~-FRACUNIT", got)
	}
	if got := FineSine(ANG45); got != 46358 {
		t.Errorf("sin(45) = %d, want 46358 (sampled at the middle of the fine angle)", got)
	}
}

func TestPointToAngle(t *testing.T) {
	cases := []struct {
		x, y Fixed
		want Angle
	}{
		{FRACUNIT, 0, 0},
		{0, FRACUNIT, ANG90},
		{-FRACUNIT, 0, ANG180},
		{0, -FRACUNIT, ANG270},
		{100 * FRACUNIT, 100 * FRACUNIT, ANG45},
		{-100 * FRACUNIT, -100 * FRACUNIT, ANG180 + ANG45},
		{-100 * FRACUNIT, 100 * FRACUNIT, ANG90 + ANG45},
		{100 * FRACUNIT, -100 * FRACUNIT, ANG270 + ANG45},
	}
	for _, c := range cases {
		got := PointToAngle(0, 0, c.x, c.y)
		if d := int32(got - c.want); d < -2 || d > 2 {
			t.Errorf("PointToAngle(%v, %v) = %#x, want %#x", c.x.Float(), c.y.Float(), uint32(got), uint32(c.want))
		}
	}
	if a := PointToAngle(5*FRACUNIT, 5*FRACUNIT, 5*FRACUNIT, 5*FRACUNIT); a != 0 {
		t.Errorf("angle to self %#x", uint32(a))
	}
}
