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

package key

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/transform"

	"github.com/ianlewis/go-dictstore/internal/folding"
	"github.com/ianlewis/go-dictstore/internal/format"
	"github.com/ianlewis/go-dictstore/internal/index"
	"github.com/ianlewis/go-dictstore/internal/invariants"
)

// Order identifies one of the index orders of a key store.
type Order int

const (
	// LengthOrder orders words by length.
	LengthOrder Order = iota

	// PrefixOrder orders words by their bytes. It is used for search.
	PrefixOrder

	// SuffixOrder orders words by their reversed text.
	SuffixOrder

	// UnorderedOrder keeps words in no particular order.
	UnorderedOrder

	orderCount
)

// String returns the order name.
func (o Order) String() string {
	switch o {
	case LengthOrder:
		return "length"
	case PrefixOrder:
		return "prefix"
	case SuffixOrder:
		return "suffix"
	case UnorderedOrder:
		return "unordered"
	default:
		return "unknown"
	}
}

// Word is a key store word.
type Word struct {
	// Word is the key text.
	Word string

	// PagesOffset locates the word's page list.
	PagesOffset uint32
}

// Options are options for reading a key store.
type Options struct {
	// Folder returns a [transform.Transformer] applied to queries before
	// they are searched.
	Folder func() transform.Transformer
}

// DefaultOptions is the default options for a Store. Queries are folded
// from hiragana to katakana.
var DefaultOptions = &Options{
	Folder: folding.NewKanaFolder,
}

// Store is an in-memory key store.
type Store struct {
	header Header

	// words is the words section. Word and page list offsets index into it.
	words []byte

	table   *index.Array[uint32]
	indexes [orderCount]*Index

	folder func() transform.Transformer
}

// Index is one ordering of a key store's words.
type Index struct {
	s       *Store
	offsets *index.Array[uint32]
}

func decodeOffset(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// Open reads the key store at path.
func Open(path string, options *Options) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	s, err := New(b, options)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	return s, nil
}

// New returns a Store over the contents of a key store file. The Store
// retains b.
func New(b []byte, options *Options) (*Store, error) {
	if options == nil {
		options = DefaultOptions
	}

	h, err := parseHeader(b)
	if err != nil {
		return nil, err
	}
	ih, err := parseIndexHeader(b, h)
	if err != nil {
		return nil, err
	}

	s := &Store{
		header: h,
		words:  b[h.WordsOffset:h.IndexOffset],
		folder: DefaultOptions.Folder,
	}
	if options.Folder != nil {
		s.folder = options.Folder
	}

	s.table, err = index.Load(s.words, 0, 4, decodeOffset)
	if err != nil {
		return nil, errors.Wrap(err, "reading word table")
	}

	section := b[:h.indexEnd(len(b))]
	for i, rel := range ih.offsets {
		if rel == 0 {
			continue
		}
		offsets, err := index.Load(section, int(h.IndexOffset)+int(rel), 4, decodeOffset)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s index", Order(i))
		}
		s.indexes[i] = &Index{s: s, offsets: offsets}
	}

	if err := invariants.CheckSorted("prefix index", func() (bool, error) {
		return s.indexes[PrefixOrder].offsets.IsSorted(func(x, y uint32) (int, error) {
			wx, err := s.key(x)
			if err != nil {
				return 0, err
			}
			wy, err := s.key(y)
			if err != nil {
				return 0, err
			}
			return bytes.Compare(wx, wy), nil
		})
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// Header returns the file header.
func (s *Store) Header() Header {
	return s.header
}

// key returns the raw key bytes of the word at off.
func (s *Store) key(off uint32) ([]byte, error) {
	//nolint:wrapcheck // error should not be wrapped
	return format.CString(s.words, int(off)+5)
}

// word reads the word at off.
func (s *Store) word(off uint32) (*Word, error) {
	pagesOffset, err := format.Uint32(s.words, int(off))
	if err != nil {
		return nil, errors.Wrapf(err, "word at %d", off)
	}
	k, err := s.key(off)
	if err != nil {
		return nil, errors.Wrapf(err, "word at %d", off)
	}
	return &Word{
		Word:        string(k),
		PagesOffset: pagesOffset,
	}, nil
}

// Len returns the number of words in the word table.
func (s *Store) Len() int {
	return s.table.Len()
}

// Word returns the i-th word of the word table.
func (s *Store) Word(i int) (*Word, error) {
	off, err := s.table.Get(i)
	if err != nil {
		return nil, err
	}
	return s.word(off)
}

// Index returns the index with the given order or nil if the store does
// not have it.
func (s *Store) Index(o Order) *Index {
	if o < 0 || o >= orderCount {
		return nil
	}
	return s.indexes[o]
}

// Pages returns the page list at offset.
func (s *Store) Pages(offset uint32) (*Pages, error) {
	return newPages(s.words, int(offset))
}

// SearchExact folds key and returns the position of the first matching
// word in the prefix index and its page list. Only whole keys match; a
// stored key that merely starts with the query does not. It returns
// [format.ErrNotFound] when no word matches.
func (s *Store) SearchExact(key string) (int, *Pages, error) {
	i, _, err := s.search(key)
	if err != nil {
		return 0, nil, err
	}
	w, err := s.indexes[PrefixOrder].Word(i)
	if err != nil {
		return 0, nil, err
	}
	pages, err := s.Pages(w.PagesOffset)
	if err != nil {
		return 0, nil, err
	}
	return i, pages, nil
}

// SearchAll is like SearchExact but returns the page lists of every word in
// the prefix index that matches key, in index order. A key may be stored
// more than once, each copy with its own page list.
func (s *Store) SearchAll(key string) ([]*Pages, error) {
	i, target, err := s.search(key)
	if err != nil {
		return nil, err
	}

	idx := s.indexes[PrefixOrder]
	var all []*Pages
	for ; i < idx.Len(); i++ {
		off, err := idx.offsets.Get(i)
		if err != nil {
			return nil, err
		}
		k, err := s.key(off)
		if err != nil {
			return nil, errors.Wrapf(err, "searching %q", key)
		}
		if !bytes.Equal(target, k) {
			break
		}
		w, err := s.word(off)
		if err != nil {
			return nil, err
		}
		pages, err := s.Pages(w.PagesOffset)
		if err != nil {
			return nil, err
		}
		all = append(all, pages)
	}
	return all, nil
}

// search folds key and returns the position of the first matching word in
// the prefix index along with the folded key.
func (s *Store) search(key string) (int, []byte, error) {
	folded, _, err := transform.String(s.folder(), key)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "folding %q", key)
	}
	target := []byte(folded)

	i, ok, err := s.indexes[PrefixOrder].offsets.Search(func(off uint32) (int, error) {
		k, err := s.key(off)
		if err != nil {
			return 0, err
		}
		return bytes.Compare(target, k), nil
	})
	if err != nil {
		return 0, nil, errors.Wrapf(err, "searching %q", key)
	}
	if !ok {
		return 0, nil, errors.Wrapf(format.ErrNotFound, "key %q", key)
	}
	return i, target, nil
}

// Len returns the number of words in the index.
func (idx *Index) Len() int {
	return idx.offsets.Len()
}

// Word returns the i-th word in index order.
func (idx *Index) Word(i int) (*Word, error) {
	off, err := idx.offsets.Get(i)
	if err != nil {
		return nil, err
	}
	return idx.s.word(off)
}
