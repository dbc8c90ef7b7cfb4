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

import (
	"github.com/pkg/errors"
)

// Ceiling (or floor) picture marker of the sky
const SKY_FLAT = -1

// Line flags. Values match the map format
const (
	ML_BLOCKING         = uint32(0x0001)
	ML_BLOCKMONSTERS    = uint32(0x0002)
	ML_TWOSIDED         = uint32(0x0004)
	ML_DONTPEGTOP       = uint32(0x0008)
	ML_DONTPEGBOTTOM    = uint32(0x0010)
	ML_SECRET           = uint32(0x0020)
	ML_SOUNDBLOCK       = uint32(0x0040)
	ML_DONTDRAW         = uint32(0x0080)
	ML_MAPPED           = uint32(0x0100)
	ML_BLOCKPROJECTILES = uint32(0x0800)
)

// Child index with this bit set refers to a subsector rather than a node
const NF_SUBSECTOR = 0x8000

type Vertex struct {
	X, Y Fixed
}

type Sector struct {
	FloorHeight   Fixed
	CeilingHeight Fixed
	FloorPic      int
	CeilingPic    int // SKY_FLAT for sky
	LightLevel    int
	Special       int
	Tag           int
	// head of the list of things whose origin is inside this sector
	ThingList MobjID
}

type Line struct {
	V1, V2      Vertex
	Dx, Dy      Fixed
	Flags       uint32
	Special     int
	Tag         int
	FrontSector int
	BackSector  int // -1 if one-sided
	BBox        BBox
	SlopeType   SlopeType
	validCount  int
}

// Fills in the derived fields: direction, bounding box and slope type
func NewLine(v1, v2 Vertex, flags uint32, front, back int) Line {
	ln := Line{
		V1:          v1,
		V2:          v2,
		Dx:          v2.X - v1.X,
		Dy:          v2.Y - v1.Y,
		Flags:       flags,
		FrontSector: front,
		BackSector:  back,
	}
	ln.BBox.Clear()
	ln.BBox.Add(v1.X, v1.Y)
	ln.BBox.Add(v2.X, v2.Y)
	ln.SlopeType = slopeTypeOf(ln.Dx, ln.Dy)
	return ln
}

type Seg struct {
	V1, V2      Vertex
	Line        int
	FrontSector int
}

type Subsector struct {
	Sector   int
	FirstSeg int
	NumSegs  int
}

type Node struct {
	Divline
	BBox [2]BBox
	// front, back. NF_SUBSECTOR marks a leaf
	Children [2]int
}

// Level holds static geometry together with the mutable heads of thing lists
// (sector thing lists and blockmap links) and the validcount stamp used to
// visit each line at most once per query
type Level struct {
	Vertices   []Vertex
	Sectors    []Sector
	Lines      []Line
	Segs       []Seg
	Subsectors []Subsector
	Nodes      []Node
	Blockmap   *Blockmap
	// Optional; sector-pair bits that can never see each other
	Reject []byte

	validCount int
}

// Starts a new query: lines stamped with any previous value are unvisited
func (lv *Level) NextValidCount() int {
	lv.validCount++
	return lv.validCount
}

// Tests and stamps line, returning true if it was already visited during the
// current query
func (lv *Level) lineVisited(ld *Line) bool {
	if ld.validCount == lv.validCount {
		return true
	}
	ld.validCount = lv.validCount
	return false
}

func (lv *Level) rootNode() int {
	if len(lv.Nodes) == 0 {
		// single subsector level
		return -1
	}
	return len(lv.Nodes) - 1
}

// Locates the subsector containing the point by walking the BSP tree
func (lv *Level) PointInSubsector(x, y Fixed) int {
	nodenum := lv.rootNode()
	if nodenum == -1 {
		return 0
	}
	for nodenum&NF_SUBSECTOR == 0 {
		node := &lv.Nodes[nodenum]
		side := PointOnDivlineSide(x, y, &node.Divline)
		nodenum = node.Children[side]
	}
	return nodenum &^ NF_SUBSECTOR
}

func (lv *Level) SectorAt(x, y Fixed) *Sector {
	return &lv.Sectors[lv.Subsectors[lv.PointInSubsector(x, y)].Sector]
}

// Returns true when the reject table says nothing in sector s1 can see
// anything in sector s2. No table means nothing is rejected
func (lv *Level) RejectBlocks(s1, s2 int) bool {
	pnum := s1*len(lv.Sectors) + s2
	bytenum := pnum >> 3
	if bytenum >= len(lv.Reject) {
		return false
	}
	return lv.Reject[bytenum]&(1<<uint(pnum&7)) != 0
}

// Clears live thing lists; used when a level is handed to a new world
func (lv *Level) resetLinks() {
	for i := range lv.Sectors {
		lv.Sectors[i].ThingList = NoMobj
	}
	for i := range lv.Lines {
		lv.Lines[i].validCount = 0
	}
	lv.validCount = 0
	if lv.Blockmap != nil {
		lv.Blockmap.resetLinks()
	}
}

// Validate cross-checks indices so that the kernel never has to: bad data is
// reported here, once, at load time
func (lv *Level) Validate() error {
	if len(lv.Sectors) == 0 {
		return errors.New("level has no sectors")
	}
	if len(lv.Subsectors) == 0 {
		return errors.New("level has no subsectors")
	}
	if lv.Blockmap == nil {
		return errors.New("level has no blockmap")
	}
	validSector := func(s int) bool {
		return s >= 0 && s < len(lv.Sectors)
	}
	for i, ln := range lv.Lines {
		if !validSector(ln.FrontSector) {
			return errors.Errorf("line %d: bad front sector %d", i, ln.FrontSector)
		}
		if ln.BackSector != -1 && !validSector(ln.BackSector) {
			return errors.Errorf("line %d: bad back sector %d", i, ln.BackSector)
		}
	}
	for i, sg := range lv.Segs {
		if sg.Line < 0 || sg.Line >= len(lv.Lines) {
			return errors.Errorf("seg %d: bad line %d", i, sg.Line)
		}
		if !validSector(sg.FrontSector) {
			return errors.Errorf("seg %d: bad sector %d", i, sg.FrontSector)
		}
	}
	for i, ss := range lv.Subsectors {
		if !validSector(ss.Sector) {
			return errors.Errorf("subsector %d: bad sector %d", i, ss.Sector)
		}
		if ss.FirstSeg < 0 || ss.NumSegs < 0 || ss.FirstSeg+ss.NumSegs > len(lv.Segs) {
			return errors.Errorf("subsector %d: segs %d+%d out of range", i, ss.FirstSeg, ss.NumSegs)
		}
	}
	for i, nd := range lv.Nodes {
		for side, child := range nd.Children {
			if child&NF_SUBSECTOR != 0 {
				if child&^NF_SUBSECTOR >= len(lv.Subsectors) {
					return errors.Errorf("node %d: child %d refers to missing subsector %d",
						i, side, child&^NF_SUBSECTOR)
				}
			} else if child >= i {
				// children always precede their parent
				return errors.Errorf("node %d: child %d refers to node %d", i, side, child)
			}
		}
	}
	bm := lv.Blockmap
	for i, off := range bm.Offsets {
		if off < 0 || off >= len(bm.Lists) {
			return errors.Errorf("blockmap cell %d: offset %d out of range", i, off)
		}
	}
	for _, ld := range bm.Lists {
		if int(ld) >= len(lv.Lines) {
			return errors.Errorf("blockmap refers to missing line %d", ld)
		}
	}
	return nil
}
