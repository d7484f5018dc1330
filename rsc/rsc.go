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
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ianlewis/go-dictstore/internal/block"
	"github.com/ianlewis/go-dictstore/internal/segment"
)

// Options are options for opening a Store.
type Options struct {
	// Decompressor inflates blocks. Defaults to zlib.
	Decompressor block.Decompressor

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Store is a block-cached resource store. A Store is not safe for
// concurrent use. It must be closed with Close.
type Store struct {
	name    string
	version uint32

	resolver
	segs  *segment.Store
	cache *block.Cache
}

// Open opens the resource store called name in dir.
func Open(dir, name string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	stem := filepath.Join(dir, name)
	version, recs, err := readMap(stem + ".map")
	if err != nil {
		return nil, err
	}
	ids, err := readIDs(stem + ".idx")
	if err != nil {
		return nil, err
	}

	segs, err := segment.Open(dir, &segment.Options{
		Base:   1,
		Parse:  segment.Numbered(name+"-", ".rsc"),
		Logger: logger,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "resource store %q", name)
	}

	logger.Debug("opened resource store",
		zap.String("name", name),
		zap.Uint32("version", version),
		zap.Int("records", recs.Len()),
		zap.Bool("ids", ids != nil),
		zap.Int("files", segs.Len()),
	)

	return &Store{
		name:     name,
		version:  version,
		resolver: resolver{recs: recs, ids: ids},
		segs:     segs,
		cache: block.NewCache(segs, &block.Options{
			Decompressor: opts.Decompressor,
			Logger:       logger,
		}),
	}, nil
}

// Name returns the store name.
func (s *Store) Name() string {
	return s.name
}

// Version returns the version field of the map file.
func (s *Store) Version() uint32 {
	return s.version
}

// HasIDs reports whether the store has an item ID index. Without one, item
// IDs are positions.
func (s *Store) HasIDs() bool {
	return s.ids != nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.recs.Len()
}

func (s *Store) fetch(rec MapRecord) ([]byte, error) {
	//nolint:wrapcheck // error should not be wrapped
	return s.cache.Fetch(int64(rec.BlockOffset), int(rec.InnerOffset))
}

// Get returns the data of the item id. It returns [format.ErrNotFound] if
// there is no such item.
func (s *Store) Get(id uint32) ([]byte, error) {
	rec, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	b, err := s.fetch(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "item %d", id)
	}
	return b, nil
}

// GetByPosition returns the item ID and data of the i-th record.
func (s *Store) GetByPosition(i int) (uint32, []byte, error) {
	id, rec, err := s.byPosition(i)
	if err != nil {
		return 0, nil, err
	}
	b, err := s.fetch(rec)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "record %d", i)
	}
	return id, b, nil
}

// Close closes the data files.
func (s *Store) Close() error {
	//nolint:wrapcheck // error should not be wrapped
	return s.segs.Close()
}
