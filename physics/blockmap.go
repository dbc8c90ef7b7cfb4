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
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	MAPBLOCKUNITS = 128
	MAPBLOCKSHIFT = FRACBITS + 7
	// largest radius of any thing; things are linked by their origin, so
	// queries widen their box by this much to catch neighbours' edges
	MAXRADIUS = 32 * FRACUNIT
)

// Blockmap is a grid of 128x128 cells over the level. Each cell has a static
// list of lines crossing it, stored as in the BLOCKMAP lump (flat int16 array,
// each list terminated by -1), and a live list of things whose origin is in it
type Blockmap struct {
	OrgX, OrgY    Fixed
	Width, Height int
	// per cell, index into Lists where the cell's line list begins
	Offsets []int
	Lists   []int16
	// per cell, head of intrusive thing list
	Links []MobjID
}

// Cell coordinates of a point. May be out of range
func (bm *Blockmap) CellCoordOf(x, y Fixed) (int, int) {
	return int((x - bm.OrgX) >> MAPBLOCKSHIFT), int((y - bm.OrgY) >> MAPBLOCKSHIFT)
}

func (bm *Blockmap) InRange(cx, cy int) bool {
	return cx >= 0 && cx < bm.Width && cy >= 0 && cy < bm.Height
}

// Clamps inclusive cell range to the grid
func (bm *Blockmap) ClampRange(xl, xh, yl, yh int) (int, int, int, int) {
	if xl < 0 {
		xl = 0
	}
	if yl < 0 {
		yl = 0
	}
	if xh >= bm.Width {
		xh = bm.Width - 1
	}
	if yh >= bm.Height {
		yh = bm.Height - 1
	}
	return xl, xh, yl, yh
}

// Inclusive, clamped range of cells touched by the box widened by margin
func (bm *Blockmap) cellRange(box *BBox, margin Fixed) (int, int, int, int) {
	xl := int((box[BOXLEFT] - bm.OrgX - margin) >> MAPBLOCKSHIFT)
	xh := int((box[BOXRIGHT] - bm.OrgX + margin) >> MAPBLOCKSHIFT)
	yl := int((box[BOXBOTTOM] - bm.OrgY - margin) >> MAPBLOCKSHIFT)
	yh := int((box[BOXTOP] - bm.OrgY + margin) >> MAPBLOCKSHIFT)
	return bm.ClampRange(xl, xh, yl, yh)
}

// Line indices of a cell, without the terminator. Callers must pass
// coordinates that are in range
func (bm *Blockmap) LinesInCell(cx, cy int) []int16 {
	start := bm.Offsets[cy*bm.Width+cx]
	end := start
	for end < len(bm.Lists) && bm.Lists[end] != -1 {
		end++
	}
	return bm.Lists[start:end]
}

// Head of the thing list of a cell, NoMobj if the cell is empty or out of
// range
func (bm *Blockmap) ObjectsInCell(cx, cy int) MobjID {
	if !bm.InRange(cx, cy) {
		return NoMobj
	}
	return bm.Links[cy*bm.Width+cx]
}

func (bm *Blockmap) resetLinks() {
	bm.Links = make([]MobjID, bm.Width*bm.Height)
	for i := range bm.Links {
		bm.Links[i] = NoMobj
	}
}

// Layout of the lump header
type blockmapHeader struct {
	XMin    int16
	YMin    int16
	XBlocks uint16
	YBlocks uint16
}

const blockmapHeaderSize = 8

// Decodes BLOCKMAP lump. Offsets in the lump are in 2-byte words from the
// start of the lump, here they are turned into indices into Lists
func NewBlockmapFromLump(data []byte) (*Blockmap, error) {
	if len(data) < blockmapHeaderSize {
		return nil, errors.Errorf("blockmap lump too short: %d bytes", len(data))
	}
	hdr := blockmapHeader{
		XMin:    int16(binary.LittleEndian.Uint16(data[0:])),
		YMin:    int16(binary.LittleEndian.Uint16(data[2:])),
		XBlocks: binary.LittleEndian.Uint16(data[4:]),
		YBlocks: binary.LittleEndian.Uint16(data[6:]),
	}
	cells := int(hdr.XBlocks) * int(hdr.YBlocks)
	words := len(data) / 2
	listStart := 4 + cells
	if cells == 0 || listStart > words {
		return nil, errors.Errorf("blockmap lump of %d bytes can't hold %dx%d cells",
			len(data), hdr.XBlocks, hdr.YBlocks)
	}
	bm := &Blockmap{
		OrgX:    IntToFixed(int(hdr.XMin)),
		OrgY:    IntToFixed(int(hdr.YMin)),
		Width:   int(hdr.XBlocks),
		Height:  int(hdr.YBlocks),
		Offsets: make([]int, cells),
		Lists:   make([]int16, words-listStart),
	}
	for i := 0; i < cells; i++ {
		// unsigned, as in ports that handle blockmaps past 64K bytes
		off := int(binary.LittleEndian.Uint16(data[(4+i)*2:]))
		if off < listStart || off >= words {
			return nil, errors.Errorf("blockmap cell %d has offset %d outside of lists [%d, %d)",
				i, off, listStart, words)
		}
		bm.Offsets[i] = off - listStart
	}
	for i := range bm.Lists {
		bm.Lists[i] = int16(binary.LittleEndian.Uint16(data[(listStart+i)*2:]))
	}
	bm.resetLinks()
	return bm, nil
}
