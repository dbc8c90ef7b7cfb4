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

// blockmapgen
// aka build blockmap, for levels that come without one
package physics

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

const BLOCK_BITS = 7
const BLOCK_WIDTH = 1 << BLOCK_BITS

// Type of input argument passed to BuildBlockmap
type BlockmapInput struct {
	Lines []Line
	// Each list starts with a dummy line 0, the way original node builders
	// wrote them. Engines iterate it as a regular entry
	ZeroHeader bool
}

type blockLines []int16

func (bl *blockLines) push(line int16) {
	*bl = append(*bl, line)
}

func pushAxis(line int16, wbeg int, wend int, step int, blocklist []blockLines) {
	for w := wbeg; w <= wend; w += step {
		blocklist[w].push(line)
	}
}

// same hash function as Zdbsp courtesy of Marisa Heit
func (bl blockLines) hash() uint {
	hash := uint(0)
	for i := 0; i < len(bl); i++ {
		hash = hash*12235 + uint(uint16(bl[i]))
	}
	return hash & 0x7fffffff
}

func sameBlocklist(bl1, bl2 blockLines) bool {
	if len(bl1) != len(bl2) {
		return false
	}
	for i := range bl1 {
		if bl1[i] != bl2[i] {
			return false
		}
	}
	return true
}

// Builds blockmap from line geometry. Origin is the bottom-left corner of
// the lines' bounding box in whole map units
func BuildBlockmap(input BlockmapInput) *Blockmap {
	xmin, ymin, xmax, ymax := 0, 0, 0, 0
	for i, ld := range input.Lines {
		x1, y1 := ld.V1.X.Int(), ld.V1.Y.Int()
		x2, y2 := ld.V2.X.Int(), ld.V2.Y.Int()
		if i == 0 {
			xmin, ymin, xmax, ymax = x1, y1, x1, y1
		}
		xmin = minInt(xmin, minInt(x1, x2))
		ymin = minInt(ymin, minInt(y1, y2))
		xmax = maxInt(xmax, maxInt(x1, x2))
		ymax = maxInt(ymax, maxInt(y1, y2))
	}
	xblocks := (xmax-xmin)>>BLOCK_BITS + 1
	yblocks := (ymax-ymin)>>BLOCK_BITS + 1
	blocklist := make([]blockLines, xblocks*yblocks)

	// The algorithm as used here is taken from ZDBSP v1.19 (c) Marisa Heit
	// Cycle over lines once, walking the blocks each of them passes through
	for i, ld := range input.Lines {
		cid := int16(i)
		x1, y1 := ld.V1.X.Int(), ld.V1.Y.Int()
		x2, y2 := ld.V2.X.Int(), ld.V2.Y.Int()
		dx := x2 - x1
		dy := y2 - y1
		bx := (x1 - xmin) >> BLOCK_BITS
		by := (y1 - ymin) >> BLOCK_BITS
		bx2 := (x2 - xmin) >> BLOCK_BITS
		by2 := (y2 - ymin) >> BLOCK_BITS

		// blocks that host starting and ending vertices
		wbeg := bx + by*xblocks
		wend := bx2 + by2*xblocks

		if wbeg == wend { // Single block
			blocklist[wbeg].push(cid)
		} else if by == by2 { // Horizontal line
			if bx > bx2 {
				pushAxis(cid, wend, wbeg, 1, blocklist)
			} else {
				pushAxis(cid, wbeg, wend, 1, blocklist)
			}
		} else if bx == bx2 { // Vertical line
			if by > by2 {
				pushAxis(cid, wend, wbeg, xblocks, blocklist)
			} else {
				pushAxis(cid, wbeg, wend, xblocks, blocklist)
			}
		} else { // Diagonal line
			xchange := sign(dx)
			ychange := sign(dy)
			ymove := ychange * xblocks
			adx := absInt(dx)
			ady := absInt(dy)
			if adx == ady { // 45 degrees
				xb := (x1 - xmin) & (BLOCK_WIDTH - 1)
				yb := (y1 - ymin) & (BLOCK_WIDTH - 1)
				if dx < 0 {
					xb = BLOCK_WIDTH - xb
				}
				if dy < 0 {
					yb = BLOCK_WIDTH - yb
				}
				if xb < yb {
					adx--
				}
			}
			if adx >= ady { // X major
				yadd := BLOCK_WIDTH
				if dy < 0 {
					yadd = -1
				}
				for {
					stop := (scale(by<<BLOCK_BITS+yadd-(y1-ymin), dx, dy) + (x1 - xmin)) >> BLOCK_BITS
					for bx != stop {
						blocklist[wbeg].push(cid)
						wbeg += xchange
						bx += xchange
					}
					blocklist[wbeg].push(cid)
					wbeg += ymove
					by += ychange
					if by == by2 {
						break
					}
				}
				for wbeg != wend {
					blocklist[wbeg].push(cid)
					wbeg += xchange
				}
				blocklist[wbeg].push(cid)
			} else { // Y major
				xadd := BLOCK_WIDTH
				if dx < 0 {
					xadd = -1
				}
				for {
					stop := (scale(bx<<BLOCK_BITS+xadd-(x1-xmin), dy, dx) + (y1 - ymin)) >> BLOCK_BITS
					for by != stop {
						blocklist[wbeg].push(cid)
						wbeg += ymove
						by += ychange
					}
					blocklist[wbeg].push(cid)
					wbeg += xchange
					bx += xchange
					if bx == bx2 {
						break
					}
				}
				for wbeg != wend {
					blocklist[wbeg].push(cid)
					wbeg += ymove
				}
				blocklist[wbeg].push(cid)
			}
		}
	}

	bm := &Blockmap{
		OrgX:    IntToFixed(xmin),
		OrgY:    IntToFixed(ymin),
		Width:   xblocks,
		Height:  yblocks,
		Offsets: make([]int, len(blocklist)),
	}
	// Identical blocklists are stored once
	seen := make(map[uint][]int)
	for i, block := range blocklist {
		if input.ZeroHeader {
			block = append(blockLines{0}, block...)
		}
		h := block.hash()
		found := -1
		for _, off := range seen[h] {
			if off+len(block) < len(bm.Lists) &&
				sameBlocklist(block, bm.Lists[off:off+len(block)]) &&
				bm.Lists[off+len(block)] == -1 {
				found = off
				break
			}
		}
		if found == -1 {
			found = len(bm.Lists)
			bm.Lists = append(bm.Lists, block...)
			bm.Lists = append(bm.Lists, -1)
			seen[h] = append(seen[h], found)
		}
		bm.Offsets[i] = found
	}
	bm.resetLinks()
	return bm
}

// Returns bytes to store in BLOCKMAP lump. Fails if the offsets can't be
// expressed in 16 bits
func (bm *Blockmap) Bytes() ([]byte, error) {
	cells := bm.Width * bm.Height
	listStart := 4 + cells
	if listStart+len(bm.Lists) > 0x10000 {
		return nil, errors.Errorf("blockmap too big: %d words", listStart+len(bm.Lists))
	}
	var buf bytes.Buffer
	buf.Grow((listStart + len(bm.Lists)) * 2)
	hdr := blockmapHeader{
		XMin:    int16(bm.OrgX.Int()),
		YMin:    int16(bm.OrgY.Int()),
		XBlocks: uint16(bm.Width),
		YBlocks: uint16(bm.Height),
	}
	binary.Write(&buf, binary.LittleEndian, hdr)
	for _, off := range bm.Offsets {
		binary.Write(&buf, binary.LittleEndian, uint16(off+listStart))
	}
	binary.Write(&buf, binary.LittleEndian, bm.Lists)
	return buf.Bytes(), nil
}

func sign(x int) int {
	if x < 0 {
		return -1
	} else if x > 0 {
		return 1
	}
	return 0
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// a*b/c with 64-bit intermediate
func scale(a int, b int, c int) int {
	return int(int64(a) * int64(b) / int64(c))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
