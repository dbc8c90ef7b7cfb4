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

// Wad format constants for Doom format maps
package main

import (
	"regexp"
)

// Both brought in accordance with Prboom-Plus 2.6.1um map name ranges, except
// that E1M0x is possible (when it is probably shouldn't be) since I don't
// want to complicate these regexp's (and E9M97 is perfectly legal, for example)
var MAP_SEQUEL *regexp.Regexp = regexp.MustCompile(`^MAP[0-9][0-9]$`)
var MAP_ExMx *regexp.Regexp = regexp.MustCompile(`^E[1-9]M[0-9][0-9]?$`)

const IWAD_MAGIC_SIG = uint32(0x44415749) // ASCII - 'IWAD'
const PWAD_MAGIC_SIG = uint32(0x44415750) // ASCII - 'PWAD'

// Doom thing flag constants
const TF_ROOKIE = int16(0x0001)
const TF_NORMAL = int16(0x0002)
const TF_HARD = int16(0x0004)
const TF_AMBUSH = int16(0x0008)
const TF_MULTIPLAYER_ONLY = int16(0x0010)

const SIDEDEF_NONE = uint16(0xFFFF)

const DOOM_THING_SIZE = 10
const DOOM_LINEDEF_SIZE = 14 // Size of "Linedef" struct
const DOOM_SIDEDEF_SIZE = 30 // Size of "Sidedef" struct
const DOOM_VERTEX_SIZE = 4
const DOOM_SEG_SIZE = 12
const DOOM_SUBSECTOR_SIZE = 4
const DOOM_NODE_SIZE = 28
const DOOM_SECTOR_SIZE = 26 // Size of "Sector" struct

// The ceiling flat that means sky
var SKY_FLAT_NAME = []byte("F_SKY1")

// Wad header, 12 bytes.
type WadHeader struct {
	MagicSig       uint32
	LumpCount      uint32 // vanilla treats this as signed int32
	DirectoryStart uint32 // vanilla treats this as signed int32
}

// Lump entries listed one after another comprise the directory,
// the first such lump entry is found at WadHeader.DirectoryStart offset into
// the wad file.
// Each lump entry is 16 bytes long
type LumpEntry struct {
	FilePos uint32 // vanilla treats this as signed int32
	Size    uint32 // vanilla treats this as signed int32
	Name    [8]byte
}

// This is Doom/Heretic/Strife thing. Not Hexen thing
type Thing struct {
	XPos  int16
	YPos  int16
	Angle int16
	Type  int16
	Flags int16
}

// Doom/Heretic linedef format
type Linedef struct {
	// Vanilla treats ALL fields as signed int16
	StartVertex uint16
	EndVertex   uint16
	Flags       uint16
	Action      uint16
	Tag         uint16
	FrontSdef   uint16 // Front Sidedef number
	BackSdef    uint16 // Back Sidedef number (0xFFFF special value for one-sided line)
}

type Sidedef struct {
	XOffset int16
	YOffset int16
	UpName  [8]byte // name of upper texture
	LoName  [8]byte // name of lower texture
	MidName [8]byte // name of middle texture
	Sector  uint16  // sector number; vanilla treats this as signed int16
}

// A Vertex is a coordinate on the map, and can be used in both linedefs and segs
// as starting(ending) point
type Vertex struct {
	XPos int16
	YPos int16
}

type Seg struct {
	// Vanilla treats ALL fields as signed int16
	StartVertex uint16
	EndVertex   uint16
	Angle       int16
	Linedef     uint16
	Flip        int16  // 0 - seg follows same direction as linedef, 1 - the opposite
	Offset      uint16 // distance along linedef to start of seg
}

// Each subsector has only these two fields, yes. And the segs in SEGS lump
// follow the order so that consecutive segs in FirstSeg...FirstSeq+SeqCount-1
// all belong to this subsector. So each seg is a part of one and only one subsector
type SubSector struct {
	// Vanilla treats ALL fields as signed int16
	SegCount uint16 // number of Segs in this SubSector
	FirstSeg uint16 // first Seg number
}

type Node struct {
	X      int16
	Y      int16
	Dx     int16
	Dy     int16
	Rbox   [4]int16 // right bounding box
	Lbox   [4]int16 // left bounding box
	RChild int16    // -| if sign bit = 0 then this is a subnode number
	LChild int16    // ->     else 0-14 bits are subsector number
}

type Sector struct {
	FloorHeight int16
	CeilHeight  int16
	FloorName   [8]byte
	CeilName    [8]byte
	LightLevel  uint16
	Special     uint16
	Tag         uint16
}

// NOTE There is no type for reject - it is a stream of bits packed into bytes.
// Blockmap is decoded by the physics package itself

// Returns whether the string in lumpName represents Doom level marker,
// i.e. MAP02, E3M1
func IsALevel(lumpName []byte) bool {
	return MAP_SEQUEL.Match(lumpName) || MAP_ExMx.Match(lumpName)
}
