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
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/vigilantdoomer/vigilantphys/physics"
	"github.com/vmihailenco/msgpack/v5"
)

type MobjSnapshot struct {
	ID     int32  `msgpack:"id"`
	Type   string `msgpack:"type"`
	X      int32  `msgpack:"x"`
	Y      int32  `msgpack:"y"`
	Z      int32  `msgpack:"z"`
	MomX   int32  `msgpack:"momx"`
	MomY   int32  `msgpack:"momy"`
	MomZ   int32  `msgpack:"momz"`
	Angle  uint32 `msgpack:"angle"`
	Flags  uint32 `msgpack:"flags"`
	Health int    `msgpack:"health"`
	State  int    `msgpack:"state"`
	Tics   int    `msgpack:"tics"`
	Target int32  `msgpack:"target"`
}

type Counter struct {
	Name string `msgpack:"name"`
	N    int    `msgpack:"n"`
}

// Counters are ordered by name, msgpack does not sort the keys of typed maps
func sortedCounters(m map[string]int) []Counter {
	res := make([]Counter, 0, len(m))
	for name, n := range m {
		res = append(res, Counter{Name: name, N: n})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Snapshot is the state of a level after a run: every live thing, in
// thinking order, and the counters the game kept
type Snapshot struct {
	Map         string         `msgpack:"map"`
	Tic         int            `msgpack:"tic"`
	Seed        int            `msgpack:"seed"`
	RandomIndex int            `msgpack:"rndindex"`
	Stats       Stats          `msgpack:"stats"`
	Late        []Counter      `msgpack:"late"`
	Actions     []Counter      `msgpack:"actions"`
	Sight       []SightEntry   `msgpack:"sight,omitempty"`
	Mobjs       []MobjSnapshot `msgpack:"mobjs"`
}

func TakeSnapshot(name string, h *GameHost, seed int) *Snapshot {
	s := &Snapshot{
		Map:         name,
		Tic:         h.Tic(),
		Seed:        seed,
		RandomIndex: h.RandomIndex(),
		Stats:       h.Stats,
		Late:        sortedCounters(h.Stats.Late),
		Actions:     sortedCounters(h.Stats.Actions),
	}
	h.World.ForEachMobj(func(mo *physics.Mobj) {
		s.Mobjs = append(s.Mobjs, MobjSnapshot{
			ID:     int32(mo.ID),
			Type:   mo.Info.Name,
			X:      int32(mo.X),
			Y:      int32(mo.Y),
			Z:      int32(mo.Z),
			MomX:   int32(mo.MomX),
			MomY:   int32(mo.MomY),
			MomZ:   int32(mo.MomZ),
			Angle:  uint32(mo.Angle),
			Flags:  mo.Flags,
			Health: mo.Health,
			State:  int(mo.State),
			Tics:   mo.Tics,
			Target: int32(mo.Target),
		})
	})
	return s
}

// Map keys are sorted so that equal snapshots encode to equal bytes
func newSnapshotEncoder(w io.Writer) *msgpack.Encoder {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc
}

func (s *Snapshot) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := newSnapshotEncoder(&buf).Encode(s); err != nil {
		return nil, errors.Wrapf(err, "encoding snapshot of %s", s.Map)
	}
	return buf.Bytes(), nil
}

// Digest is a hash of the encoded snapshot. Two runs of the same map with
// the same seed and tic count must agree on it
func (s *Snapshot) Digest() (string, error) {
	data, err := s.Encode()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// DecodeSnapshots reads back a stream of snapshots as written by the
// snapshot bus
func DecodeSnapshots(r io.Reader) ([]*Snapshot, error) {
	dec := msgpack.NewDecoder(r)
	var res []*Snapshot
	for {
		s := &Snapshot{}
		err := dec.Decode(s)
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, errors.Wrapf(err, "decoding snapshot #%d", len(res))
		}
		res = append(res, s)
	}
}
