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
	"reflect"
)

// Builds wads in memory for tests

type testLump struct {
	name string
	data []byte
}

func name8(s string) [8]byte {
	var b [8]byte
	copy(b[:], s)
	return b
}

func records(v interface{}) []byte {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func buildWad(sig uint32, lumps []testLump) []byte {
	var body bytes.Buffer
	dir := make([]LumpEntry, len(lumps))
	pos := binary.Size(WadHeader{})
	for i, l := range lumps {
		dir[i] = LumpEntry{
			FilePos: uint32(pos),
			Size:    uint32(len(l.data)),
			Name:    name8(l.name),
		}
		body.Write(l.data)
		pos += len(l.data)
	}
	hdr := WadHeader{
		MagicSig:       sig,
		LumpCount:      uint32(len(lumps)),
		DirectoryStart: uint32(pos),
	}
	var out bytes.Buffer
	out.Write(records(hdr))
	out.Write(body.Bytes())
	out.Write(records(dir))
	return out.Bytes()
}

// Rooms are laid side by side along X between y1 and y2, joined by
// two-sided lines. Each room is a subsector; a vertical partition at every
// joint makes up the node tree
type wadRoom struct {
	x1, x2      int16
	floor, ceil int16
	ceilFlat    string
}

type testMap struct {
	name   string
	y1, y2 int16
	rooms  []wadRoom
	things []Thing
	// lump names to leave out
	omit []string
}

func (m *testMap) lumps() []testLump {
	var verts []Vertex
	var lines []Linedef
	var sides []Sidedef
	vert := func(x, y int16) uint16 {
		verts = append(verts, Vertex{XPos: x, YPos: y})
		return uint16(len(verts) - 1)
	}
	side := func(sector int) uint16 {
		sides = append(sides, Sidedef{MidName: name8("STARTAN3"), Sector: uint16(sector)})
		return uint16(len(sides) - 1)
	}
	addLine := func(a, b uint16, flags uint16, front, back int) uint16 {
		ld := Linedef{StartVertex: a, EndVertex: b, Flags: flags,
			FrontSdef: side(front), BackSdef: SIDEDEF_NONE}
		if back != -1 {
			ld.BackSdef = side(back)
		}
		lines = append(lines, ld)
		return uint16(len(lines) - 1)
	}
	n := len(m.rooms)
	segsOf := make([][]Seg, n)
	addSeg := func(room int, line, a, b uint16, flip int16) {
		segsOf[room] = append(segsOf[room], Seg{StartVertex: a, EndVertex: b,
			Linedef: line, Flip: flip})
	}
	for i, r := range m.rooms {
		bl, br := vert(r.x1, m.y1), vert(r.x2, m.y1)
		tl, tr := vert(r.x1, m.y2), vert(r.x2, m.y2)
		l := addLine(br, bl, 1, i, -1)
		addSeg(i, l, br, bl, 0)
		l = addLine(tl, tr, 1, i, -1)
		addSeg(i, l, tl, tr, 0)
		if i == 0 {
			l = addLine(bl, tl, 1, i, -1)
			addSeg(i, l, bl, tl, 0)
		}
		if i == n-1 {
			l = addLine(tr, br, 1, i, -1)
			addSeg(i, l, tr, br, 0)
		} else {
			l = addLine(tr, br, 4, i, i+1)
			addSeg(i, l, tr, br, 0)
			addSeg(i+1, l, br, tr, 1)
		}
	}
	var segs []Seg
	var ssectors []SubSector
	for i := range m.rooms {
		ssectors = append(ssectors, SubSector{
			SegCount: uint16(len(segsOf[i])),
			FirstSeg: uint16(len(segs)),
		})
		segs = append(segs, segsOf[i]...)
	}
	var nodes []Node
	for i := 1; i < n; i++ {
		front := uint16(0x8000)
		if i > 1 {
			front = uint16(i - 2)
		}
		back := uint16(0x8000 | i)
		nodes = append(nodes, Node{
			X:      m.rooms[i].x1,
			Y:      m.y2,
			Dy:     m.y1 - m.y2,
			RChild: int16(front),
			LChild: int16(back),
		})
	}
	var sectors []Sector
	for _, r := range m.rooms {
		ceil := r.ceilFlat
		if ceil == "" {
			ceil = "CEIL3_5"
		}
		sectors = append(sectors, Sector{
			FloorHeight: r.floor,
			CeilHeight:  r.ceil,
			FloorName:   name8("FLOOR4_8"),
			CeilName:    name8(ceil),
			LightLevel:  160,
		})
	}

	all := []testLump{
		{m.name, nil},
		{"THINGS", records(m.things)},
		{"LINEDEFS", records(lines)},
		{"SIDEDEFS", records(sides)},
		{"VERTEXES", records(verts)},
		{"SEGS", records(segs)},
		{"SSECTORS", records(ssectors)},
		{"NODES", records(nodes)},
		{"SECTORS", records(sectors)},
		{"REJECT", nil},
		{"BLOCKMAP", nil},
	}
	var res []testLump
	for _, l := range all {
		keep := true
		for _, o := range m.omit {
			if l.name == o {
				keep = false
			}
		}
		if keep {
			res = append(res, l)
		}
	}
	return res
}

func boxMap(name string, half int16, things []Thing) *testMap {
	return &testMap{
		name:   name,
		y1:     -half,
		y2:     half,
		rooms:  []wadRoom{{x1: -half, x2: half, floor: 0, ceil: 128}},
		things: things,
	}
}

const allSkills = TF_ROOKIE | TF_NORMAL | TF_HARD

func thingAt(mtype, x, y, angle int16) Thing {
	return Thing{XPos: x, YPos: y, Angle: angle, Type: mtype, Flags: allSkills}
}

// Arena for simulation tests: the player in the west end facing east at a
// couple of monsters, a barrel, an item on the way and a column
func arenaMap(name string) *testMap {
	return boxMap(name, 512, []Thing{
		thingAt(1, -400, 0, 0),
		thingAt(3004, 300, 0, 180),
		thingAt(3001, 300, 200, 180),
		thingAt(2035, 100, -150, 0),
		thingAt(2014, -300, 0, 0),
		thingAt(48, 0, 300, 0),
	})
}

func wadOf(maps ...*testMap) []byte {
	var lumps []testLump
	for _, m := range maps {
		lumps = append(lumps, m.lumps()...)
	}
	return buildWad(PWAD_MAGIC_SIG, lumps)
}

func openTestWad(data []byte) *WadFile {
	wad, err := OpenWad(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	return wad
}
