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

package headline

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/ianlewis/go-dictstore/internal/format"
	"github.com/ianlewis/go-dictstore/internal/index"
	"github.com/ianlewis/go-dictstore/internal/invariants"
)

// Record is a headline store record.
type Record struct {
	Page uint32
	Item uint8
	Type uint8

	// Offset is the offset of the headline text in the text region.
	Offset uint32
}

func decodeRecord(b []byte) Record {
	return Record{
		Page:   binary.LittleEndian.Uint32(b),
		Item:   b[4],
		Type:   b[5],
		Offset: binary.LittleEndian.Uint32(b[8:]),
	}
}

// compare orders records by page then item.
func compare(page uint32, item uint16, r Record) int {
	if c := cmp.Compare(page, r.Page); c != 0 {
		return c
	}
	return cmp.Compare(item, uint16(r.Item))
}

// Headline is a headline with its page and item.
type Headline struct {
	Page uint32
	Item uint8
	Text string
}

// ID returns the display form of the headline's page and item: the five
// digit page, followed by a dash and the four digit hex item when the item
// is non-zero.
func (h *Headline) ID() string {
	if h.Item == 0 {
		return fmt.Sprintf("%05d", h.Page)
	}
	return fmt.Sprintf("%05d-%04X", h.Page, h.Item)
}

// Store is an in-memory headline store.
type Store struct {
	header Header
	recs   *index.Array[Record]
	text   []byte
}

// Open reads the headline store at path.
func Open(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	s, err := New(b)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	return s, nil
}

// New returns a Store over the contents of a headline store file. The Store
// retains b.
func New(b []byte) (*Store, error) {
	hdr, err := parseHeader(b)
	if err != nil {
		return nil, err
	}

	recBytes := b[hdr.RecordsOffset:hdr.TextOffset]
	recs, err := index.Decode(recBytes, len(recBytes)/recordSize, recordSize, decodeRecord)
	if err != nil {
		return nil, errors.Wrap(err, "reading records")
	}

	if err := invariants.CheckSorted("headline records", func() (bool, error) {
		return recs.IsSorted(func(x, y Record) (int, error) {
			return compare(x.Page, uint16(x.Item), y), nil
		})
	}); err != nil {
		return nil, err
	}

	return &Store{
		header: hdr,
		recs:   recs,
		text:   b[hdr.TextOffset:],
	}, nil
}

// Header returns the file header.
func (s *Store) Header() Header {
	return s.header
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.recs.Len()
}

// Record returns the i-th record.
func (s *Store) Record(i int) (Record, error) {
	//nolint:wrapcheck // error should not be wrapped
	return s.recs.Get(i)
}

// Text returns the headline text of r.
func (s *Store) Text(r Record) (string, error) {
	b, err := format.CString16(s.text, int(r.Offset))
	if err != nil {
		return "", errors.Wrapf(err, "headline %d-%d", r.Page, r.Item)
	}
	return format.DecodeUTF16(b)
}

// Headline returns the i-th headline.
func (s *Store) Headline(i int) (*Headline, error) {
	r, err := s.Record(i)
	if err != nil {
		return nil, err
	}
	text, err := s.Text(r)
	if err != nil {
		return nil, err
	}
	return &Headline{
		Page: r.Page,
		Item: r.Item,
		Text: text,
	}, nil
}

// Get returns the headline text for the page and item. It returns
// [format.ErrNotFound] if there is no such headline.
func (s *Store) Get(page uint32, item uint16) (string, error) {
	i, ok, err := s.recs.Search(func(r Record) (int, error) {
		return compare(page, item, r), nil
	})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Wrapf(format.ErrNotFound, "headline %d-%d", page, item)
	}
	r, err := s.recs.Get(i)
	if err != nil {
		return "", err
	}
	return s.Text(r)
}
