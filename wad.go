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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

var LUMP_SORT_ORDER = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS", "SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP", "BEHAVIOR"}
var LUMP_MUSTEXIST = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS", "SSECTORS", "SECTORS"}

type WadFile struct {
	r      io.ReaderAt
	Header WadHeader
	Dir    []LumpEntry
}

// Where the lumps of one map are in the directory. Lumps is keyed by lump
// name, a lump that appears twice is reported once, the first one wins
type LevelLumps struct {
	Name     string
	DirIndex int
	Lumps    map[string]int
	Hexen    bool
}

// ByteSliceBeforeTerm returns a part of the original bytes
// excluding everything that starts with zero-byte character.
// This allows string operations (such as pattern matching) to be performed
// correctly on returned value
func ByteSliceBeforeTerm(b []byte) []byte {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return b
	} else {
		return b[:i]
	}
}

// Reads header and the whole directory at once
func OpenWad(r io.ReaderAt) (*WadFile, error) {
	wad := &WadFile{r: r}
	err := binary.Read(io.NewSectionReader(r, 0, 12), binary.LittleEndian, &wad.Header)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read file header")
	}
	wh := &wad.Header
	if wh.MagicSig == IWAD_MAGIC_SIG {
		Log.Verbose(1, "The input file is an IWAD\n")
	} else if wh.MagicSig == PWAD_MAGIC_SIG {
		Log.Verbose(1, "The input file is a PWAD\n")
	} else {
		return nil, errors.New("the input file is NOT a wad")
	}
	Log.Verbose(1, "The directory contains %d lumps and starts at %d byte offset\n",
		wh.LumpCount, wh.DirectoryStart)
	if wh.LumpCount == 0 {
		return nil, errors.New("wad has no lumps")
	}
	dirSize := int64(wh.LumpCount) * int64(binary.Size(LumpEntry{}))
	wad.Dir = make([]LumpEntry, wh.LumpCount)
	err = binary.Read(io.NewSectionReader(r, int64(wh.DirectoryStart), dirSize),
		binary.LittleEndian, wad.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read lump info from a wad's directory (%d offset)",
			wh.DirectoryStart)
	}
	return wad, nil
}

func (wad *WadFile) LumpName(idx int) string {
	return string(ByteSliceBeforeTerm(wad.Dir[idx].Name[:]))
}

func (wad *WadFile) ReadLump(idx int) ([]byte, error) {
	le := wad.Dir[idx]
	buf := make([]byte, le.Size)
	if le.Size == 0 {
		return buf, nil
	}
	_, err := wad.r.ReadAt(buf, int64(le.FilePos))
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read lump %s (number %d)",
			wad.LumpName(idx), idx)
	}
	return buf, nil
}

// Decodes a lump made of fixed size records. A partial record at the end is
// ignored, like vanilla does
func readRecords[T any](wad *WadFile, idx int) ([]T, error) {
	le := wad.Dir[idx]
	recordSize := binary.Size(new(T))
	if int(le.Size)%recordSize != 0 {
		Log.Verbose(1, "Lump %s size %d is not a multiple of %d, the tail is ignored\n",
			wad.LumpName(idx), le.Size, recordSize)
	}
	out := make([]T, int(le.Size)/recordSize)
	if len(out) == 0 {
		return out, nil
	}
	sr := io.NewSectionReader(wad.r, int64(le.FilePos), int64(len(out)*recordSize))
	err := binary.Read(sr, binary.LittleEndian, out)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode %s (lump number %d)",
			wad.LumpName(idx), idx)
	}
	return out, nil
}

// Identifies levels: a marker lump followed by the lumps that belong to a
// level. Levels missing mandatory lumps are reported and skipped
func (wad *WadFile) FindLevels() []*LevelLumps {
	var levels []*LevelLumps
	var cur *LevelLumps
	for i := range wad.Dir {
		bname := ByteSliceBeforeTerm(wad.Dir[i].Name[:])
		if IsALevel(bname) {
			cur = &LevelLumps{
				Name:     string(bname),
				DirIndex: i,
				Lumps:    make(map[string]int),
			}
			levels = append(levels, cur)
			continue
		}
		if cur == nil {
			continue
		}
		sname := string(bname)
		if !isLevelSpec(sname) {
			// level lumps are over
			cur = nil
			continue
		}
		if _, dup := cur.Lumps[sname]; dup {
			Log.Error("Level %s has one or more duplicate of lump %s - only the first one will be used\n",
				cur.Name, sname)
			continue
		}
		cur.Lumps[sname] = i
		if sname == "BEHAVIOR" {
			cur.Hexen = true
		}
	}

	valid := levels[:0]
	for _, lvl := range levels {
		ok := true
		for _, name := range LUMP_MUSTEXIST {
			if _, has := lvl.Lumps[name]; !has {
				Log.Error("Level %s is not valid: missing lump %s\n", lvl.Name, name)
				ok = false
			}
		}
		if lvl.Hexen {
			Log.Error("Level %s is in Hexen format, which is not supported\n", lvl.Name)
			ok = false
		}
		if ok {
			valid = append(valid, lvl)
		}
	}
	return valid
}

func isLevelSpec(name string) bool {
	for _, s := range LUMP_SORT_ORDER {
		if s == name {
			return true
		}
	}
	return name == "SCRIPTS" // source code for BEHAVIOR lump
}

// Returns whether a level should be simulated based on current configuration
// If user supplied arguments specifying precise levels, they must have been
// stored in configuration in upper case, or this will fail to work as intended
func CanRunThisLevel(levelName []byte) bool {
	// Go treats nil (null) array as having zero size
	if len(config.FilterLevel) == 0 { // reference to global: config
		return true
	}
	for _, entry := range config.FilterLevel {
		if bytes.Equal(entry, levelName) {
			return true
		}
	}
	return false
}
