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
// Bus for ordered writes of snapshots to destination file
package main

import (
	"bufio"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Levels finish in whatever order the workers get to them; the bus writes
// their snapshots in level order
type SnapshotBusRequest struct {
	idx  int
	snap *Snapshot // nil: level produced nothing
}

type SnapshotBus struct {
	w       *bufio.Writer
	enc     *msgpack.Encoder
	next    int
	pending map[int]*Snapshot
	written int
	err     error
}

type SnapshotBusControl struct {
	bus      *SnapshotBus
	ch       chan<- SnapshotBusRequest
	finisher <-chan error
}

func StartSnapshotBus(fout io.Writer) *SnapshotBusControl {
	w := bufio.NewWriter(fout)
	bus := &SnapshotBus{
		w:       w,
		enc:     newSnapshotEncoder(w),
		pending: make(map[int]*Snapshot),
	}
	ch := make(chan SnapshotBusRequest)
	finisher := make(chan error, 1)
	go bus.SnapshotBusLoop(ch, finisher)
	return &SnapshotBusControl{
		bus:      bus,
		ch:       ch,
		finisher: finisher,
	}
}

func (b *SnapshotBus) SnapshotBusLoop(ch <-chan SnapshotBusRequest, chFinish chan<- error) {
	for req := range ch {
		b.pending[req.idx] = req.snap
		for {
			snap, ok := b.pending[b.next]
			if !ok {
				break
			}
			delete(b.pending, b.next)
			b.write(snap)
			b.next++
		}
	}
	// levels that never reported leave gaps, the rest still goes out in order
	rest := make([]int, 0, len(b.pending))
	for idx := range b.pending {
		rest = append(rest, idx)
	}
	sort.Ints(rest)
	for _, idx := range rest {
		b.write(b.pending[idx])
	}
	if b.err == nil {
		b.err = b.w.Flush()
	}
	chFinish <- b.err
}

func (b *SnapshotBus) write(snap *Snapshot) {
	if snap == nil || b.err != nil {
		return
	}
	if err := b.enc.Encode(snap); err != nil {
		b.err = errors.Wrapf(err, "writing snapshot of %s", snap.Map)
		return
	}
	b.written++
}

func (c *SnapshotBusControl) Send(idx int, snap *Snapshot) {
	c.ch <- SnapshotBusRequest{idx: idx, snap: snap}
}

// Skip tells the bus level idx has nothing to write, so later ones needn't
// wait on it
func (c *SnapshotBusControl) Skip(idx int) {
	c.ch <- SnapshotBusRequest{idx: idx}
}

// Shutdown waits for everything sent to be written and returns the first
// error, if any
func (c *SnapshotBusControl) Shutdown() error {
	close(c.ch)
	return <-c.finisher
}

// Only valid after Shutdown
func (c *SnapshotBusControl) Written() int {
	return c.bus.written
}
