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

package nrsc

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ianlewis/go-dictstore/internal/block"
	"github.com/ianlewis/go-dictstore/internal/format"
	"github.com/ianlewis/go-dictstore/internal/index"
	"github.com/ianlewis/go-dictstore/internal/segment"
)

// IndexFile is the name of the index file in a store directory.
const IndexFile = "index.nidx"

const (
	headerSize = 8
	recordSize = 16
)

// Format is the storage format of a record.
type Format uint16

const (
	// Raw records are stored as is.
	Raw Format = 0

	// Zlib records are zlib streams.
	Zlib Format = 1
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Raw:
		return "raw"
	case Zlib:
		return "zlib"
	default:
		return "unknown"
	}
}

// Record is an index.nidx record.
type Record struct {
	Format Format

	// FileSeq is the position of the data file holding the record.
	FileSeq uint16

	// NameOffset is the offset of the record's name in index.nidx.
	NameOffset uint32

	// FileOffset is the offset of the record in its data file.
	FileOffset uint32

	// Length is the stored length of the record.
	Length uint32
}

func decodeRecord(b []byte) Record {
	return Record{
		Format:     Format(binary.LittleEndian.Uint16(b)),
		FileSeq:    binary.LittleEndian.Uint16(b[2:]),
		NameOffset: binary.LittleEndian.Uint32(b[4:]),
		FileOffset: binary.LittleEndian.Uint32(b[8:]),
		Length:     binary.LittleEndian.Uint32(b[12:]),
	}
}

// Options are options for opening a Store.
type Options struct {
	// Decompressor inflates zlib records. Defaults to zlib.
	Decompressor block.Decompressor

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Store is a per-record resource store. A Store is not safe for concurrent
// use. It must be closed with Close.
type Store struct {
	recs *index.Array[Record]

	// names is the name region of index.nidx and base its file offset.
	names []byte
	base  int

	byName map[string]int

	segs   *segment.Store
	reader *block.Reader
}

// Open opens the store in dir.
func Open(dir string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	path := filepath.Join(dir, IndexFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	recs, err := index.Load(b, 4, recordSize, decodeRecord)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}

	s := &Store{
		recs:   recs,
		base:   headerSize + recordSize*recs.Len(),
		byName: make(map[string]int, recs.Len()),
	}
	s.names = b[s.base:]

	for i := range recs.Len() {
		name, err := s.Name(i)
		if err != nil {
			logger.Debug("skipping unnamed record", zap.Int("record", i), zap.Error(err))
			continue
		}
		if _, ok := s.byName[name]; !ok {
			s.byName[name] = i
		}
	}

	s.segs, err = segment.Open(dir, &segment.Options{
		Base:   0,
		Parse:  segment.Numbered("", ".nrsc"),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	s.reader = block.NewReader(s.segs, &block.Options{
		Decompressor: opts.Decompressor,
		Logger:       logger,
	})

	logger.Debug("opened per-record store",
		zap.String("dir", dir),
		zap.Int("records", recs.Len()),
		zap.Int("names", len(s.byName)),
		zap.Int("files", s.segs.Len()),
	)
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.recs.Len()
}

// Record returns the i-th index record.
func (s *Store) Record(i int) (Record, error) {
	//nolint:wrapcheck // error should not be wrapped
	return s.recs.Get(i)
}

// Name returns the name of the i-th record.
func (s *Store) Name(i int) (string, error) {
	r, err := s.recs.Get(i)
	if err != nil {
		return "", err
	}
	off := int64(r.NameOffset) - int64(s.base)
	if off < 0 || off > int64(len(s.names)) {
		return "", errors.Wrapf(format.ErrIndexOutOfRange, "name of record %d at %d", i, r.NameOffset)
	}
	// Names start right after the previous name's terminator.
	if off > 0 && s.names[off-1] != 0 {
		return "", errors.Wrapf(format.ErrCorruptIndex, "name of record %d at %d", i, r.NameOffset)
	}
	name, err := format.CString(s.names, int(off))
	if err != nil {
		return "", errors.Wrapf(err, "name of record %d", i)
	}
	return string(name), nil
}

// Position returns the position of the first record called name. It
// returns [format.ErrNotFound] if there is no such record.
func (s *Store) Position(name string) (int, error) {
	i, ok := s.byName[name]
	if !ok {
		return 0, errors.Wrapf(format.ErrNotFound, "record %q", name)
	}
	return i, nil
}

func (s *Store) fetch(r Record) ([]byte, error) {
	var compressed bool
	switch r.Format {
	case Raw:
	case Zlib:
		compressed = true
	default:
		return nil, errors.Wrapf(format.ErrCorruptIndex, "record format %d", r.Format)
	}

	start, err := s.segs.Start(int(r.FileSeq))
	if err != nil {
		return nil, errors.Wrapf(format.ErrCorruptIndex, "data file %d of %d", r.FileSeq, s.segs.Len())
	}
	//nolint:wrapcheck // error should not be wrapped
	return s.reader.Fetch(start+int64(r.FileOffset), int(r.Length), compressed)
}

// GetByPosition returns the name and data of the i-th record.
func (s *Store) GetByPosition(i int) (string, []byte, error) {
	name, err := s.Name(i)
	if err != nil {
		return "", nil, err
	}
	r, err := s.recs.Get(i)
	if err != nil {
		return "", nil, err
	}
	b, err := s.fetch(r)
	if err != nil {
		return "", nil, errors.Wrapf(err, "record %d", i)
	}
	return name, b, nil
}

// Get returns the data of the record called name. It returns
// [format.ErrNotFound] if there is no such record.
func (s *Store) Get(name string) ([]byte, error) {
	i, err := s.Position(name)
	if err != nil {
		return nil, err
	}
	r, err := s.recs.Get(i)
	if err != nil {
		return nil, err
	}
	b, err := s.fetch(r)
	if err != nil {
		return nil, errors.Wrapf(err, "record %q", name)
	}
	return b, nil
}

// Close closes the data files.
func (s *Store) Close() error {
	//nolint:wrapcheck // error should not be wrapped
	return s.segs.Close()
}
