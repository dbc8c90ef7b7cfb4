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

import "math"

// Binary angle measurement: the full circle is 2^32
type Angle uint32

const (
	ANG45  = Angle(0x20000000)
	ANG90  = Angle(0x40000000)
	ANG180 = Angle(0x80000000)
	ANG270 = Angle(0xc0000000)
)

const (
	FINEANGLES       = 8192
	FINEMASK         = FINEANGLES - 1
	ANGLETOFINESHIFT = 19
)

// Quarter of the circle is added on top so that cosine can be read off the
// same table with an offset
var finesine [5 * FINEANGLES / 4]Fixed

func init() {
	// Same sampling as the shipped table: the midpoint of each fine angle,
	// scaled to FRACUNIT and truncated towards zero
	for i := range finesine {
		a := (float64(i) + 0.5) * 2 * math.Pi / FINEANGLES
		finesine[i] = Fixed(math.Sin(a) * float64(FRACUNIT))
	}
}

func FineSine(a Angle) Fixed {
	return finesine[a>>ANGLETOFINESHIFT]
}

func FineCosine(a Angle) Fixed {
	return finesine[(a>>ANGLETOFINESHIFT)+FINEANGLES/4]
}

const SLOPERANGE = 2048

// Angles of slopes 0..1 in SLOPERANGE steps
var tantoangle [SLOPERANGE + 1]Angle

func init() {
	for i := range tantoangle {
		a := math.Atan(float64(i) / SLOPERANGE)
		tantoangle[i] = Angle(math.Round(a / (2 * math.Pi) * 4294967296.0))
	}
}

func slopeDiv(num, den uint32) uint32 {
	if den < 512 {
		return SLOPERANGE
	}
	ans := (num << 3) / (den >> 8)
	if ans > SLOPERANGE {
		return SLOPERANGE
	}
	return ans
}

// PointToAngle returns the angle of the direction from (x1, y1) to (x2, y2),
// resolved by octant through the slope table
func PointToAngle(x1, y1, x2, y2 Fixed) Angle {
	x := x2 - x1
	y := y2 - y1
	if x == 0 && y == 0 {
		return 0
	}
	if x >= 0 {
		if y >= 0 {
			if x > y {
				return tantoangle[slopeDiv(uint32(y), uint32(x))]
			}
			return ANG90 - 1 - tantoangle[slopeDiv(uint32(x), uint32(y))]
		}
		y = -y
		if x > y {
			return -tantoangle[slopeDiv(uint32(y), uint32(x))]
		}
		return ANG270 + tantoangle[slopeDiv(uint32(x), uint32(y))]
	}
	x = -x
	if y >= 0 {
		if x > y {
			return ANG180 - 1 - tantoangle[slopeDiv(uint32(y), uint32(x))]
		}
		return ANG90 + tantoangle[slopeDiv(uint32(x), uint32(y))]
	}
	y = -y
	if x > y {
		return ANG180 + tantoangle[slopeDiv(uint32(y), uint32(x))]
	}
	return ANG270 - 1 - tantoangle[slopeDiv(uint32(x), uint32(y))]
}
