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
// -- This file is where the program entry is.
// VigilantPhys runs the thing physics of PSX Doom over the levels of a wad:
// movement, collision, sight and hitscan, with a small game layer on top to
// keep monsters busy, and can save where everything ended up
package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/vigilantdoomer/vigilantphys/physics"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	timeStart := time.Now()

	// before config can be legitimately accessed, must call Configure()
	Configure()

	if config.Profile {
		f, err := os.Create(config.ProfilePath)
		if err != nil {
			Log.Printf("Could not create CPU profile: %s", err.Error())
		} else {
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				Log.Printf("Could not start CPU profile: %s", err.Error())
			} else {
				defer pprof.StopCPUProfile()
			}
		}
	}

	config.InputFileName, _ = filepath.Abs(config.InputFileName)
	if config.SnapshotFile != "" {
		config.SnapshotFile, _ = filepath.Abs(config.SnapshotFile)
		f1, err1 := os.Stat(config.InputFileName)
		f2, err2 := os.Stat(config.SnapshotFile)
		if err1 == nil && err2 == nil && os.SameFile(f1, f2) {
			Log.Error("You cannot specify snapshot file that maps to the input file\n")
			return 1
		}
	}

	mainFileControl := FileControl{}
	defer mainFileControl.Shutdown()

	f, err := mainFileControl.OpenInputFile(config.InputFileName)
	if err != nil {
		Log.Error("An error has occured while trying to read %s: %s\n",
			config.InputFileName, err)
		return 1
	}
	wad, err := OpenWad(f)
	if err != nil {
		Log.Error("%s: %s\n", config.InputFileName, err)
		return 1
	}

	var levels []*LevelLumps
	for _, lvl := range wad.FindLevels() {
		if CanRunThisLevel([]byte(lvl.Name)) {
			levels = append(levels, lvl)
		} else {
			Log.Verbose(1, "will not simulate level %s\n", lvl.Name)
		}
	}
	if len(levels) == 0 {
		Log.Error("Unable to find any levels I can simulate - terminating.\n")
		return 1
	}
	Log.Printf("Number of levels that will be simulated: %d\n", len(levels))

	var bus *SnapshotBusControl
	if config.SnapshotFile != "" {
		fout, err := mainFileControl.OpenOutputFile(config.SnapshotFile)
		if err != nil {
			Log.Error("An error has occured while trying to create %s: %s\n",
				config.SnapshotFile, err)
			return 1
		}
		bus = StartSnapshotBus(fout)
	}

	physics.SetLogger(Log.out)
	content := BuildContent()
	results := make([]*LevelResult, len(levels))
	mlogs := make([]*MiniLogger, len(levels))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(config.Jobs)
	for i, lumps := range levels {
		i, lumps := i, lumps
		mlogs[i] = CreateMiniLogger(lumps.Name)
		g.Go(func() error {
			res, err := RunLevel(ctx, wad, lumps, content, config, mlogs[i])
			if bus != nil {
				if err == nil {
					bus.Send(i, res.Snapshot)
				} else {
					bus.Skip(i)
				}
			}
			results[i] = res
			return err
		})
	}
	runErr := g.Wait()

	for i, lumps := range levels {
		Log.Merge(mlogs[i], "Level "+lumps.Name+":")
	}

	failed := runErr != nil
	if runErr != nil {
		Log.Error("%s\n", runErr.Error())
	}
	if bus != nil {
		if err := bus.Shutdown(); err != nil {
			Log.Error("Writing snapshots to %s failed: %s\n", config.SnapshotFile, err)
			failed = true
		} else if !failed {
			Log.Printf("Written %d snapshots to %s\n", bus.Written(), config.SnapshotFile)
		}
	}
	if failed {
		return 1
	}
	if !mainFileControl.Success() {
		return 1
	}

	completed := 0
	for _, res := range results {
		if res != nil {
			completed++
		}
	}
	Log.Printf("%d levels simulated for %d tics each. Total time: %s\n",
		completed, config.Tics, time.Since(timeStart))
	Log.Sync()
	return 0
}
