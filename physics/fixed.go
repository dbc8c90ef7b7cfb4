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

// Package physics is the motion and collision kernel: fixed-point geometry,
// blockmap, thing linkage, position checks, momentum integration, hitscan
// and sight tracing, and splash damage.
//
// Everything here runs on the caller's goroutine. A World must not be used
// from more than one goroutine at a time, since position checks, shooting and
// sight all stamp the same per-level validcount.
package physics

// 16.16 fixed point number, the unit of every coordinate and height
type Fixed int32

const (
	FRACBITS = 16
	FRACUNIT = Fixed(1 << FRACBITS)

	MAXINT = Fixed(0x7fffffff)
	MININT = Fixed(-0x7fffffff - 1)
)

// Converts integer map units to fixed point
func IntToFixed(i int) Fixed {
	return Fixed(i << FRACBITS)
}

// Integer part (rounds towards negative infinity, as arithmetic shift does)
func (f Fixed) Int() int {
	return int(f >> FRACBITS)
}

func (f Fixed) Float() float64 {
	return float64(f) / float64(FRACUNIT)
}

func FixedMul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FRACBITS)
}

// FixedDiv saturates instead of overflowing, the same way the legacy
// routine did: when the quotient would not fit, MAXINT or MININT is returned
// depending on the sign of the result. b == 0 always saturates.
func FixedDiv(a, b Fixed) Fixed {
	if (abs64(int64(a)) >> 14) >= abs64(int64(b)) {
		if (a ^ b) < 0 {
			return MININT
		}
		return MAXINT
	}
	return Fixed((int64(a) << FRACBITS) / int64(b))
}

func FixedAbs(a Fixed) Fixed {
	if a < 0 {
		return -a
	}
	return a
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// Approximate distance: dx + dy - min(dx, dy)/2 over absolute deltas
func AproxDistance(dx, dy Fixed) Fixed {
	dx = FixedAbs(dx)
	dy = FixedAbs(dy)
	if dx < dy {
		return dx + dy - (dx >> 1)
	}
	return dx + dy - (dy >> 1)
}
