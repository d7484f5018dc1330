// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rsc

import (
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/ianlewis/go-dictstore/internal/format"
	"github.com/ianlewis/go-dictstore/internal/index"
	"github.com/ianlewis/go-dictstore/internal/invariants"
)

const recordSize = 8

// MapRecord locates a record inside the data files.
type MapRecord struct {
	// BlockOffset is the logical offset of the compressed block.
	BlockOffset uint32

	// InnerOffset is the offset of the record in the inflated block.
	InnerOffset uint32
}

func decodeMapRecord(b []byte) MapRecord {
	return MapRecord{
		BlockOffset: binary.LittleEndian.Uint32(b),
		InnerOffset: binary.LittleEndian.Uint32(b[4:]),
	}
}

// IDRecord maps an item ID to a map position.
type IDRecord struct {
	ItemID uint32
	MapIdx uint32
}

func decodeIDRecord(b []byte) IDRecord {
	return IDRecord{
		ItemID: binary.LittleEndian.Uint32(b),
		MapIdx: binary.LittleEndian.Uint32(b[4:]),
	}
}

// readMap reads a .map file and returns its version and records.
func readMap(path string) (uint32, *index.Array[MapRecord], error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "reading %q", path)
	}
	version, err := format.Uint32(b, 0)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "reading %q", path)
	}
	recs, err := index.Load(b, 4, recordSize, decodeMapRecord)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "reading %q", path)
	}
	return version, recs, nil
}

// readIDs reads a .idx file. It returns nil if the file does not exist.
func readIDs(path string) (*index.Array[IDRecord], error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}

	n, err := format.Uint32(b, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	if len(b) < 8 {
		return nil, errors.Wrapf(format.ErrTruncatedData, "reading %q: header", path)
	}
	ids, err := index.Decode(b[8:], int(n), recordSize, decodeIDRecord)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}

	if err := invariants.CheckSorted(path, func() (bool, error) {
		return ids.IsSorted(func(x, y IDRecord) (int, error) {
			return compareID(x.ItemID, y), nil
		})
	}); err != nil {
		return nil, err
	}
	return ids, nil
}

func compareID(id uint32, r IDRecord) int {
	switch {
	case id < r.ItemID:
		return -1
	case id > r.ItemID:
		return 1
	default:
		return 0
	}
}

// resolver maps item IDs and positions to map records.
type resolver struct {
	recs *index.Array[MapRecord]

	// ids is nil when item IDs are map positions.
	ids *index.Array[IDRecord]
}

// mapIndex returns the map position of the item id.
func (r *resolver) mapIndex(id uint32) (int, error) {
	if r.ids == nil {
		if uint64(id) >= uint64(r.recs.Len()) {
			return 0, errors.Wrapf(format.ErrNotFound, "item %d", id)
		}
		return int(id), nil
	}

	// IDs are usually dense, so the ID's own position, or the one before
	// it, is tried first.
	pos := -1
	for _, guess := range []int64{int64(id), int64(id) - 1} {
		if guess < 0 || guess >= int64(r.ids.Len()) {
			continue
		}
		rec, _ := r.ids.Get(int(guess))
		if rec.ItemID == id {
			pos = int(guess)
			break
		}
	}
	if pos < 0 {
		i, ok, err := r.ids.Search(func(rec IDRecord) (int, error) {
			return compareID(id, rec), nil
		})
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, errors.Wrapf(format.ErrNotFound, "item %d", id)
		}
		pos = i
	}

	rec, err := r.ids.Get(pos)
	if err != nil {
		return 0, err
	}
	if uint64(rec.MapIdx) >= uint64(r.recs.Len()) {
		return 0, errors.Wrapf(format.ErrCorruptIndex,
			"item %d maps to record %d of %d", id, rec.MapIdx, r.recs.Len())
	}
	return int(rec.MapIdx), nil
}

// byID returns the map record of the item id.
func (r *resolver) byID(id uint32) (MapRecord, error) {
	i, err := r.mapIndex(id)
	if err != nil {
		return MapRecord{}, err
	}
	//nolint:wrapcheck // error should not be wrapped
	return r.recs.Get(i)
}

// byPosition returns the item ID and map record at map position i.
func (r *resolver) byPosition(i int) (uint32, MapRecord, error) {
	rec, err := r.recs.Get(i)
	if err != nil {
		return 0, MapRecord{}, err
	}
	if r.ids == nil {
		return uint32(i), rec, nil
	}

	id, err := r.ids.Get(i)
	if err != nil {
		return 0, MapRecord{}, errors.Wrapf(format.ErrCorruptIndex, "no item for record %d", i)
	}
	if uint64(id.MapIdx) != uint64(i) {
		return 0, MapRecord{}, errors.Wrapf(format.ErrCorruptIndex,
			"item %d at position %d maps to record %d", id.ItemID, i, id.MapIdx)
	}
	return id.ItemID, rec, nil
}
