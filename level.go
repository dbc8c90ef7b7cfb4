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

	"github.com/pkg/errors"

	"github.com/vigilantdoomer/vigilantphys/physics"
)

// A map as loaded from the wad: geometry ready for the physics, plus the
// things to spawn into it
type LoadedLevel struct {
	Name   string
	Level  *physics.Level
	Things []Thing
	// flat names, in the order of first use; sky is not there
	Flats []string
}

// Assigns indices to flat names. The sky flat maps to physics.SKY_FLAT
type flatIndex struct {
	names []string
	idx   map[string]int
}

func (fi *flatIndex) lookup(name [8]byte) int {
	bname := bytes.ToUpper(ByteSliceBeforeTerm(name[:]))
	if bytes.Equal(bname, SKY_FLAT_NAME) {
		return physics.SKY_FLAT
	}
	s := string(bname)
	if i, ok := fi.idx[s]; ok {
		return i
	}
	fi.idx[s] = len(fi.names)
	fi.names = append(fi.names, s)
	return fi.idx[s]
}

func wadVertex(v Vertex) physics.Vertex {
	return physics.Vertex{
		X: physics.IntToFixed(int(v.XPos)),
		Y: physics.IntToFixed(int(v.YPos)),
	}
}

func wadBox(box [4]int16) physics.BBox {
	return physics.BBox{
		physics.BOXTOP:    physics.IntToFixed(int(box[0])),
		physics.BOXBOTTOM: physics.IntToFixed(int(box[1])),
		physics.BOXLEFT:   physics.IntToFixed(int(box[2])),
		physics.BOXRIGHT:  physics.IntToFixed(int(box[3])),
	}
}

// LoadLevel decodes the lumps of a Doom format map into physics data. A
// missing or unreadable BLOCKMAP is built from the lines instead
func LoadLevel(wad *WadFile, lumps *LevelLumps, mlog *MiniLogger) (*LoadedLevel, error) {
	things, err := readRecords[Thing](wad, lumps.Lumps["THINGS"])
	if err != nil {
		return nil, err
	}
	linedefs, err := readRecords[Linedef](wad, lumps.Lumps["LINEDEFS"])
	if err != nil {
		return nil, err
	}
	sidedefs, err := readRecords[Sidedef](wad, lumps.Lumps["SIDEDEFS"])
	if err != nil {
		return nil, err
	}
	vertices, err := readRecords[Vertex](wad, lumps.Lumps["VERTEXES"])
	if err != nil {
		return nil, err
	}
	segs, err := readRecords[Seg](wad, lumps.Lumps["SEGS"])
	if err != nil {
		return nil, err
	}
	ssectors, err := readRecords[SubSector](wad, lumps.Lumps["SSECTORS"])
	if err != nil {
		return nil, err
	}
	sectors, err := readRecords[Sector](wad, lumps.Lumps["SECTORS"])
	if err != nil {
		return nil, err
	}
	var nodes []Node
	if idx, ok := lumps.Lumps["NODES"]; ok {
		nodes, err = readRecords[Node](wad, idx)
		if err != nil {
			return nil, err
		}
	}

	lv := &physics.Level{}
	flats := &flatIndex{idx: make(map[string]int)}

	for _, v := range vertices {
		lv.Vertices = append(lv.Vertices, wadVertex(v))
	}

	for _, sec := range sectors {
		lv.Sectors = append(lv.Sectors, physics.Sector{
			FloorHeight:   physics.IntToFixed(int(sec.FloorHeight)),
			CeilingHeight: physics.IntToFixed(int(sec.CeilHeight)),
			FloorPic:      flats.lookup(sec.FloorName),
			CeilingPic:    flats.lookup(sec.CeilName),
			LightLevel:    int(sec.LightLevel),
			Special:       int(sec.Special),
			Tag:           int(sec.Tag),
			ThingList:     physics.NoMobj,
		})
	}

	sideSector := func(sdef uint16) (int, error) {
		if int(sdef) >= len(sidedefs) {
			return -1, errors.Errorf("sidedef %d out of range (%d sidedefs)", sdef, len(sidedefs))
		}
		return int(sidedefs[sdef].Sector), nil
	}
	vertexAt := func(i uint16) (physics.Vertex, error) {
		if int(i) >= len(lv.Vertices) {
			return physics.Vertex{}, errors.Errorf("vertex %d out of range (%d vertices)", i, len(lv.Vertices))
		}
		return lv.Vertices[i], nil
	}

	for i, ld := range linedefs {
		v1, err := vertexAt(ld.StartVertex)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: linedef %d", lumps.Name, i)
		}
		v2, err := vertexAt(ld.EndVertex)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: linedef %d", lumps.Name, i)
		}
		front, err := sideSector(ld.FrontSdef)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: linedef %d front", lumps.Name, i)
		}
		back := -1
		if ld.BackSdef != SIDEDEF_NONE {
			back, err = sideSector(ld.BackSdef)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: linedef %d back", lumps.Name, i)
			}
		}
		line := physics.NewLine(v1, v2, uint32(ld.Flags), front, back)
		line.Special = int(ld.Action)
		line.Tag = int(ld.Tag)
		lv.Lines = append(lv.Lines, line)
	}

	for i, sg := range segs {
		v1, err := vertexAt(sg.StartVertex)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: seg %d", lumps.Name, i)
		}
		v2, err := vertexAt(sg.EndVertex)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: seg %d", lumps.Name, i)
		}
		if int(sg.Linedef) >= len(linedefs) {
			return nil, errors.Errorf("%s: seg %d refers to missing linedef %d",
				lumps.Name, i, sg.Linedef)
		}
		ld := linedefs[sg.Linedef]
		sdef := ld.FrontSdef
		if sg.Flip != 0 {
			sdef = ld.BackSdef
		}
		sector, err := sideSector(sdef)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: seg %d", lumps.Name, i)
		}
		lv.Segs = append(lv.Segs, physics.Seg{
			V1:          v1,
			V2:          v2,
			Line:        int(sg.Linedef),
			FrontSector: sector,
		})
	}

	for i, ss := range ssectors {
		if ss.SegCount == 0 || int(ss.FirstSeg)+int(ss.SegCount) > len(lv.Segs) {
			return nil, errors.Errorf("%s: subsector %d has bad segs %d+%d",
				lumps.Name, i, ss.FirstSeg, ss.SegCount)
		}
		lv.Subsectors = append(lv.Subsectors, physics.Subsector{
			// all segs of a subsector face the same sector
			Sector:   lv.Segs[ss.FirstSeg].FrontSector,
			FirstSeg: int(ss.FirstSeg),
			NumSegs:  int(ss.SegCount),
		})
	}

	for _, nd := range nodes {
		lv.Nodes = append(lv.Nodes, physics.Node{
			Divline: physics.Divline{
				X:  physics.IntToFixed(int(nd.X)),
				Y:  physics.IntToFixed(int(nd.Y)),
				Dx: physics.IntToFixed(int(nd.Dx)),
				Dy: physics.IntToFixed(int(nd.Dy)),
			},
			BBox:     [2]physics.BBox{wadBox(nd.Rbox), wadBox(nd.Lbox)},
			Children: [2]int{int(uint16(nd.RChild)), int(uint16(nd.LChild))},
		})
	}

	if idx, ok := lumps.Lumps["REJECT"]; ok {
		lv.Reject, err = wad.ReadLump(idx)
		if err != nil {
			return nil, err
		}
	}

	if idx, ok := lumps.Lumps["BLOCKMAP"]; ok && wad.Dir[idx].Size > 0 {
		data, err := wad.ReadLump(idx)
		if err != nil {
			return nil, err
		}
		lv.Blockmap, err = physics.NewBlockmapFromLump(data)
		if err != nil {
			mlog.Printf("BLOCKMAP is unusable (%s), building a new one\n", err)
			lv.Blockmap = nil
		}
	}
	if lv.Blockmap == nil {
		mlog.Verbose(1, "Building blockmap from %d lines\n", len(lv.Lines))
		lv.Blockmap = physics.BuildBlockmap(physics.BlockmapInput{
			Lines:      lv.Lines,
			ZeroHeader: true,
		})
	}

	if err := lv.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s", lumps.Name)
	}
	mlog.Verbose(1, "Loaded %d sectors, %d lines, %d subsectors, %d nodes, %d things\n",
		len(lv.Sectors), len(lv.Lines), len(lv.Subsectors), len(lv.Nodes), len(things))
	return &LoadedLevel{
		Name:   lumps.Name,
		Level:  lv,
		Things: things,
		Flats:  flats.names,
	}, nil
}
