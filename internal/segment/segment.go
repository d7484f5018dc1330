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

// Package segment implements a logical byte address space spread over a
// sequence of numbered files. Each file starts where the previous one ends
// and records never straddle files.
package segment

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ianlewis/go-dictstore/internal/format"
)

// ParseFunc extracts the sequence number from a file name. It returns false
// for files that are not segments.
type ParseFunc func(name string) (int, bool)

// Numbered returns a ParseFunc for names made of prefix, a decimal sequence
// number and suffix (e.g. "contents-" + "0001" + ".rsc").
func Numbered(prefix, suffix string) ParseFunc {
	return func(name string) (int, bool) {
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			return 0, false
		}
		num := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		if num == "" || strings.Trim(num, "0123456789") != "" {
			return 0, false
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, false
		}
		return n, true
	}
}

// Options are options for opening a Store.
type Options struct {
	// Base is the sequence number of the first segment.
	Base int

	// Parse extracts sequence numbers from file names.
	Parse ParseFunc

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

type segment struct {
	seq   int
	path  string
	f     *os.File
	start int64
	size  int64
}

// Store is a segmented blob store. Store owns its files and must be closed
// with Close.
type Store struct {
	segs []segment
	size int64
}

// Open enumerates dir and opens all segment files in it. The segment numbers
// must be contiguous starting at opts.Base.
func Open(dir string, opts *Options) (*Store, error) {
	if opts == nil || opts.Parse == nil {
		return nil, errors.New("segment: no file name parser")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading segment directory %q", dir)
	}

	var segs []segment
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		seq, ok := opts.Parse(e.Name())
		if !ok {
			logger.Debug("ignoring file", zap.String("dir", dir), zap.String("name", e.Name()))
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, errors.Wrapf(err, "stat %q", e.Name())
		}
		segs = append(segs, segment{
			seq:  seq,
			path: filepath.Join(dir, e.Name()),
			size: info.Size(),
		})
	}

	if err := checkSequence(segs, opts.Base); err != nil {
		return nil, errors.Wrapf(err, "segments in %q", dir)
	}

	s := &Store{segs: segs}
	for i := range s.segs {
		f, err := os.Open(s.segs[i].path)
		if err != nil {
			_ = s.Close()
			return nil, errors.Wrapf(err, "opening segment %q", s.segs[i].path)
		}
		s.segs[i].f = f
		s.segs[i].start = s.size
		s.size += s.segs[i].size
	}

	logger.Debug("opened segments",
		zap.String("dir", dir),
		zap.Int("count", len(s.segs)),
		zap.Int64("size", s.size),
	)
	return s, nil
}

// checkSequence sorts segs by sequence number and verifies numbering is
// contiguous from base.
func checkSequence(segs []segment, base int) error {
	slices.SortFunc(segs, func(a, b segment) int {
		return a.seq - b.seq
	})
	if len(segs) == 0 {
		return errors.Wrapf(format.ErrMissingSegment, "no segment files")
	}
	if segs[0].seq != base {
		return errors.Wrapf(format.ErrMissingSegment, "first segment is %d, want %d", segs[0].seq, base)
	}
	for i := 1; i < len(segs); i++ {
		switch {
		case segs[i].seq == segs[i-1].seq:
			return errors.Wrapf(format.ErrSequenceGap, "duplicate segment %d", segs[i].seq)
		case segs[i].seq != segs[i-1].seq+1:
			return errors.Wrapf(format.ErrSequenceGap, "segment %d follows %d", segs[i].seq, segs[i-1].seq)
		}
	}
	return nil
}

// Len returns the number of segments.
func (s *Store) Len() int {
	return len(s.segs)
}

// Size returns the total size of the address space.
func (s *Store) Size() int64 {
	return s.size
}

// Start returns the logical offset of the i-th segment, counting from zero
// regardless of the sequence base.
func (s *Store) Start(i int) (int64, error) {
	if i < 0 || i >= len(s.segs) {
		return 0, errors.Wrapf(format.ErrIndexOutOfRange, "segment %d of %d", i, len(s.segs))
	}
	return s.segs[i].start, nil
}

// Resolve maps a logical offset to the zero-based segment position holding
// it and the offset local to that segment.
func (s *Store) Resolve(off int64) (int, int64, error) {
	if off < 0 || off >= s.size {
		return 0, 0, errors.Wrapf(format.ErrAddressOutOfRange, "offset %d of %d", off, s.size)
	}
	i := sort.Search(len(s.segs), func(i int) bool {
		return s.segs[i].start+s.segs[i].size > off
	})
	return i, off - s.segs[i].start, nil
}

// ReadAt reads len(p) bytes at logical offset off. It implements
// [io.ReaderAt] but never returns a short read: a span that crosses a
// segment boundary or the end of the store fails with
// [format.ErrAddressOutOfRange].
func (s *Store) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		if off < 0 || off > s.size {
			return 0, errors.Wrapf(format.ErrAddressOutOfRange, "offset %d of %d", off, s.size)
		}
		return 0, nil
	}
	i, local, err := s.Resolve(off)
	if err != nil {
		return 0, err
	}
	seg := &s.segs[i]
	if local+int64(len(p)) > seg.size {
		return 0, errors.Wrapf(format.ErrAddressOutOfRange,
			"%d bytes at %d cross the end of segment %d", len(p), off, seg.seq)
	}
	n, err := seg.f.ReadAt(p, local)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(p)) {
		return n, errors.Wrapf(err, "reading segment %d", seg.seq)
	}
	return n, nil
}

// Close closes all segment files.
func (s *Store) Close() error {
	var err error
	for i := range s.segs {
		if s.segs[i].f == nil {
			continue
		}
		if cerr := s.segs[i].f.Close(); cerr != nil {
			err = errors.CombineErrors(err, errors.Wrapf(cerr, "closing segment %d", s.segs[i].seq))
		}
		s.segs[i].f = nil
	}
	return err
}
