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
	"bytes"
	"testing"
)

func TestFromCommandLine(t *testing.T) {
	c := DefaultConfig()
	ok := c.FromCommandLine([]string{"-m=map01,e1m2", "-t=70", "-s-", "-j=3",
		"-vv", "doom2.wad", "--snapshot", "out.state", "--seed", "17"})
	if !ok {
		t.Fatalf("valid command line rejected")
	}
	if c.InputFileName != "doom2.wad" || c.SnapshotFile != "out.state" {
		t.Errorf("files: input %q snapshot %q", c.InputFileName, c.SnapshotFile)
	}
	if len(c.FilterLevel) != 2 || !bytes.Equal(c.FilterLevel[0], []byte("MAP01")) ||
		!bytes.Equal(c.FilterLevel[1], []byte("E1M2")) {
		t.Errorf("maps %q", c.FilterLevel)
	}
	if c.Tics != 70 || c.SightReport || c.Jobs != 3 || c.VerbosityLevel != 2 || c.Seed != 17 {
		t.Errorf("config %+v", c)
	}
	if c.Profile {
		t.Errorf("profiling turned on by itself")
	}
}

func TestFromCommandLineDefaults(t *testing.T) {
	c := DefaultConfig()
	if !c.FromCommandLine([]string{"e1.wad", "-j-", "--cpuprofile", "cpu.out"}) {
		t.Fatalf("valid command line rejected")
	}
	if c.Tics != DEFAULT_TICS || !c.SightReport || c.Jobs != 1 || c.Seed != 0 {
		t.Errorf("config %+v", c)
	}
	if !c.Profile || c.ProfilePath != "cpu.out" {
		t.Errorf("profile %v %q", c.Profile, c.ProfilePath)
	}
	if len(c.FilterLevel) != 0 {
		t.Errorf("maps %q", c.FilterLevel)
	}
}

func TestFromCommandLineErrors(t *testing.T) {
	for _, args := range [][]string{
		{"a.wad", "b.wad"},
		{"-t=0", "a.wad"},
		{"-t+", "a.wad"},
		{"-m=", "a.wad"},
		{"-m=TITLEPIC", "a.wad"},
		{"a.wad", "--seed", "256"},
		{"a.wad", "--seed", "x"},
		{"a.wad", "--snapshot"},
		{"a.wad", "--bogus", "1"},
		{"-q", "a.wad"},
	} {
		if DefaultConfig().FromCommandLine(args) {
			t.Errorf("%q accepted", args)
		}
	}
}
