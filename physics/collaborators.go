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

// The kernel calls out through these interfaces and observes no results.
// Any of them may be left nil in Collaborators, a no-op is used instead.

// Source of deterministic pseudo-random bytes (0..255)
type Random interface {
	Random() int
}

type DamageSink interface {
	DamageMobj(target, inflictor, source MobjID, damage int)
}

type TouchSink interface {
	TouchSpecialThing(special, toucher MobjID)
}

type Effects interface {
	SpawnPuff(x, y, z Fixed)
	SpawnBlood(x, y, z Fixed, damage int)
	StartSound(origin MobjID, sound int)
	// Shooting a line that has a special
	ShootSpecialLine(shooter MobjID, line int)
}

// Runs state actions. The kernel only records which action is due, this is
// where it gets executed
type ActionRunner interface {
	RunAction(action ActionID, mo MobjID)
}

type Collaborators struct {
	Random  Random
	Damage  DamageSink
	Touch   TouchSink
	Effects Effects
	Actions ActionRunner
}

type nopCollaborator struct{}

func (nopCollaborator) DamageMobj(target, inflictor, source MobjID, damage int) {}
func (nopCollaborator) TouchSpecialThing(special, toucher MobjID)               {}
func (nopCollaborator) SpawnPuff(x, y, z Fixed)                                 {}
func (nopCollaborator) SpawnBlood(x, y, z Fixed, damage int)                    {}
func (nopCollaborator) StartSound(origin MobjID, sound int)                     {}
func (nopCollaborator) ShootSpecialLine(shooter MobjID, line int)               {}
func (nopCollaborator) RunAction(action ActionID, mo MobjID)                    {}

func (c *Collaborators) fillDefaults() {
	if c.Random == nil {
		c.Random = NewDoomRandom(0)
	}
	if c.Damage == nil {
		c.Damage = nopCollaborator{}
	}
	if c.Touch == nil {
		c.Touch = nopCollaborator{}
	}
	if c.Effects == nil {
		c.Effects = nopCollaborator{}
	}
	if c.Actions == nil {
		c.Actions = nopCollaborator{}
	}
}
