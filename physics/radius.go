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

// RadiusAttack deals splash damage from spot to every shootable thing
// around it: damage minus distance in map units, where distance is the
// larger axis delta less the victim's radius. Victims must be able to see
// the spot. source gets the blame and may be NoMobj
func (w *World) RadiusAttack(spot *Mobj, source MobjID, damage int) {
	if damage <= 0 {
		return
	}
	bm := w.Level.Blockmap
	dist := IntToFixed(damage) + MAXRADIUS
	var box BBox
	box[BOXTOP] = spot.Y
	box[BOXBOTTOM] = spot.Y
	box[BOXLEFT] = spot.X
	box[BOXRIGHT] = spot.X
	xl, xh, yl, yh := bm.cellRange(&box, dist)

	// Victims are gathered before any damage is dealt, so that things
	// dying (and unlinking) in the middle don't disturb the walk
	var victims []MobjID
	for y := yl; y <= yh; y++ {
		for x := xl; x <= xh; x++ {
			for id := bm.ObjectsInCell(x, y); id != NoMobj; id = w.mobjs[id].bnext {
				victims = append(victims, id)
			}
		}
	}
	for _, id := range victims {
		thing := w.Mobj(id)
		if thing == nil {
			continue
		}
		if n := w.radiusDamageTo(spot, thing, damage); n > 0 {
			w.damage.DamageMobj(thing.ID, spot.ID, source, n)
		}
	}
}

// Damage thing would take from a blast of given strength at spot, 0 if none
func (w *World) radiusDamageTo(spot, thing *Mobj, damage int) int {
	if thing.Flags&MF_SHOOTABLE == 0 {
		return 0
	}
	if thing.Flags&MF_NORADIUSDMG != 0 {
		// bosses take no damage from concussion
		return 0
	}
	dx := FixedAbs(thing.X - spot.X)
	dy := FixedAbs(thing.Y - spot.Y)
	dist := dx
	if dy > dx {
		dist = dy
	}
	d := int((dist - thing.Radius) >> FRACBITS)
	if d < 0 {
		d = 0
	}
	if d >= damage {
		// out of range
		return 0
	}
	if !w.CheckSight(thing, spot) {
		return 0
	}
	return damage - d
}
