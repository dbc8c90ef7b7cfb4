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

// Kind of action deferred to the late phase of a tick
type LateKind uint8

const (
	LATE_NONE LateKind = iota
	// remove the thing
	LATE_REMOVE
	// missile ran into the floor or ceiling
	LATE_EXPLODE
	// missile was blocked; Other is what it hit, if anything
	LATE_MISSILEHIT
	// flying skull was blocked; Other is what it hit, if anything
	LATE_SKULLBASH
	// new state was entered; Action is the state's action
	LATE_STATEACTION
)

var lateKindNames = [...]string{"none", "remove", "explode", "missilehit", "skullbash", "stateaction"}

func (k LateKind) String() string {
	if int(k) < len(lateKindNames) {
		return lateKindNames[k]
	}
	return "unknown"
}

// LateAction is recorded on a thing during movement and carried out after
// every thing has moved
type LateAction struct {
	Kind   LateKind
	Other  MobjID
	Action ActionID
}

// Carries out late actions. BaseDispatcher covers every kind; hosts wrap it
// to intercept some
type LateDispatcher interface {
	DispatchLate(mo *Mobj, act LateAction)
}

type BaseDispatcher struct {
	World *World
}

func (d *BaseDispatcher) DispatchLate(mo *Mobj, act LateAction) {
	w := d.World
	switch act.Kind {
	case LATE_REMOVE:
		w.RemoveMobj(mo)
	case LATE_EXPLODE:
		w.ExplodeMissile(mo)
	case LATE_MISSILEHIT:
		w.MissileHit(mo, act.Other)
	case LATE_SKULLBASH:
		w.SkullBash(mo, act.Other)
	case LATE_STATEACTION:
		w.actions.RunAction(act.Action, mo.ID)
	}
}

// RunLateActions hands every pending late action to d, in list order. nil
// means BaseDispatcher
func (w *World) RunLateActions(d LateDispatcher) {
	if d == nil {
		d = &BaseDispatcher{World: w}
	}
	w.ForEachMobj(func(mo *Mobj) {
		act := mo.Late
		if act.Kind == LATE_NONE {
			return
		}
		mo.Late = LateAction{}
		d.DispatchLate(mo, act)
	})
}

// Tick runs one whole game tick for non-player things
func (w *World) Tick(d LateDispatcher) {
	w.RunMobjBase()
	w.RunLateActions(d)
}

// ExplodeMissile stops the missile and puts it into its death state
func (w *World) ExplodeMissile(mo *Mobj) {
	mo.MomX = 0
	mo.MomY = 0
	mo.MomZ = 0
	if !w.SetMobjState(mo, mo.Info.DeathState) {
		return
	}
	mo.Tics -= w.rng.Random() & 1
	if mo.Tics < 1 {
		mo.Tics = 1
	}
	mo.Flags &^= MF_MISSILE
	if mo.Info.DeathSound != 0 {
		w.fx.StartSound(mo.ID, mo.Info.DeathSound)
	}
}

func (w *World) rollDamage(mo *Mobj) int {
	return ((w.rng.Random() & 7) + 1) * mo.Info.Damage
}

// MissileHit damages what the missile ran into (blame goes to the shooter)
// and explodes it
func (w *World) MissileHit(mo *Mobj, hit MobjID) {
	if w.Mobj(hit) != nil {
		damage := w.rollDamage(mo)
		w.damage.DamageMobj(hit, mo.ID, mo.Target, damage)
	}
	w.ExplodeMissile(mo)
}

// SkullBash damages what the skull slammed into and ends its charge
func (w *World) SkullBash(mo *Mobj, hit MobjID) {
	if w.Mobj(hit) != nil {
		damage := w.rollDamage(mo)
		w.damage.DamageMobj(hit, mo.ID, mo.ID, damage)
	}
	mo.Flags &^= MF_SKULLFLY
	mo.MomX = 0
	mo.MomY = 0
	mo.MomZ = 0
	w.SetMobjState(mo, mo.Info.SpawnState)
}
