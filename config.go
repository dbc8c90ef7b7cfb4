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
	"os"
	"runtime"
)

const VERSION = "0.3a"

/*
-m= Comma separated list of maps to simulate, e.g. -m=MAP01,E1M1
	(default: every map found in the wad)

-t= Number of tics to simulate each map for (default: 350, ten seconds)

-s Report which monsters can see the player at the end (default: enabled)

-j= Number of maps simulated at the same time
	(defaults to number of cores available)

-v Add verbosity to text output. Use multiple times for increased verbosity.

--snapshot <file> Write the state of every simulated map to file, msgpack encoded

--seed <n> Random table index to start from, 0-255 (default: 0)

*/

const DEFAULT_TICS = 35 * 10

type ProgramConfig struct {
	InputFileName string
	// Upper case map names; empty means every map
	FilterLevel    [][]byte
	Tics           int
	SightReport    bool
	Jobs           int
	Seed           int
	VerbosityLevel int
	SnapshotFile   string
	Profile        bool
	ProfilePath    string
}

var config *ProgramConfig // global variable that will be accessed from other threads too

func DefaultConfig() *ProgramConfig {
	return &(ProgramConfig{
		Tics:           DEFAULT_TICS,
		SightReport:    true,
		Jobs:           0,
		Seed:           0,
		VerbosityLevel: 0,
	})
}

// Must be called before config is accessed. Exits the program on bad
// arguments, or when there is no input file to work with
func Configure() {
	Log.Printf("VigilantPhys ver %s\n", VERSION)
	Log.Printf("Copyright (c)   2022-2023 VigilantDoomer\n")
	Log.Printf("Simulates thing movement and collision of Doom maps with PSX Doom\n")
	Log.Printf("physics, and is distributed under the terms of GNU General Public License v2.\n")
	Log.Printf("\n")
	// Initialize with defaults
	config = DefaultConfig()
	// Proceed to parse command line
	if !(config.FromCommandLine(os.Args[1:])) {
		Log.Printf("\n")
		os.Exit(1)
	}
	Log.SetVerbosity(config.VerbosityLevel)

	// If input file name was not passed, print help
	if config.InputFileName == "" {
		PrintHelp()
		os.Exit(0)
	}
	if config.Jobs <= 0 {
		config.Jobs = runtime.NumCPU()
	}
}

func PrintHelp() {
	Log.Printf("Usage: vigilantphys {-options} filename.wad {--snapshot state.bin}\n")
	Log.Printf("\n")
	Log.Printf("-x+ turn on option -x- turn off option")
	Log.Printf("\n")
	Log.Printf("-m= Comma separated list of maps to simulate, e.g. -m=MAP01,E1M1\n")
	Log.Printf("	(default: every map found in the wad)\n")
	Log.Printf("\n")
	Log.Printf("-t= Number of tics to simulate each map for (default: %d)\n", DEFAULT_TICS)
	Log.Printf("\n")
	Log.Printf("-s Report which monsters can see the player at the end (default: enabled)\n")
	Log.Printf("\n")
	Log.Printf("-j= Number of maps simulated at the same time\n")
	Log.Printf("	(defaults to number of cores available)\n")
	Log.Printf("\n")
	Log.Printf("-v Add verbosity to text output. Use multiple times for increased verbosity.\n")
	Log.Printf("\n")
	Log.Printf("--snapshot <file> Write the state of every simulated map to file, msgpack encoded\n")
	Log.Printf("--seed <n> Random table index to start from, 0-255 (default: 0)\n")
	Log.Printf("--cpuprofile <file> Write cpu profile to file\n")
	Log.Printf("\n")
	Log.Printf("Example (1): vigilantphys -m=MAP01 -t=700 doom2.wad\n")
	Log.Printf("	Runs MAP01 for 20 seconds of game time.\n")
	Log.Printf("Example (2): vigilantphys -j=1 -s- --seed 17 file.wad --snapshot file.state\n")
	Log.Printf("	Runs every map one after another, starting random numbers at index\n")
	Log.Printf("	17, and saves where everything ended up to 'file.state'. Running\n")
	Log.Printf("	this twice must produce identical state files.\n")
	Log.Printf("\n")
}
