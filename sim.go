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
	"context"

	"github.com/pkg/errors"
)

const TICRATE = 35

type LevelResult struct {
	Name     string
	Snapshot *Snapshot
	Digest   string
	Sight    []SightEntry
}

// RunLevel loads a level, spawns its things and runs it for cfg.Tics tics.
// It gives up between seconds of game time once ctx is done. A corrupt level
// that trips the physics shows up as an error, not a crash
func RunLevel(ctx context.Context, wad *WadFile, lumps *LevelLumps,
	content *GameContent, cfg *ProgramConfig, mlog *MiniLogger) (res *LevelResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = errors.Errorf("level %s: physics gave up: %v", lumps.Name, r)
		}
	}()

	loaded, err := LoadLevel(wad, lumps, mlog)
	if err != nil {
		return nil, errors.Wrapf(err, "level %s", lumps.Name)
	}
	h := NewGameHost(loaded.Level, content, cfg.Seed, mlog.FieldLogger())
	h.SpawnMapThings(loaded.Things)
	mlog.Verbose(1, "%d things spawned, %d skipped\n", h.World.NumMobjs(),
		h.Stats.Skipped)

	for tic := 0; tic < cfg.Tics; tic++ {
		if tic%TICRATE == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		h.RunTic()
	}

	res = &LevelResult{Name: lumps.Name}
	if cfg.SightReport {
		res.Sight = h.SightReport()
	}
	res.Snapshot = TakeSnapshot(lumps.Name, h, cfg.Seed)
	res.Snapshot.Sight = res.Sight
	res.Digest, err = res.Snapshot.Digest()
	if err != nil {
		return nil, err
	}
	st := &h.Stats
	mlog.Printf("After %d tics: kills %d/%d, items %d/%d, %d things left\n",
		h.Tic(), st.Kills, st.TotalKills, st.Items, st.TotalItems,
		h.World.NumMobjs())
	mlog.Verbose(1, "Shots %d, missiles %d, puffs %d, blood %d, deaths %d\n",
		st.Shots, st.Missiles, st.Puffs, st.Blood, st.Deaths)
	if cfg.SightReport {
		seeing := 0
		for _, e := range res.Sight {
			if e.Sees {
				seeing++
				mlog.Verbose(2, "%s (thing %d) sees the player\n", e.Name, e.Mobj)
			}
		}
		mlog.Printf("%d of %d monsters can see the player\n", seeing, len(res.Sight))
	}
	mlog.Printf("State digest %s\n", res.Digest)
	return res, nil
}
