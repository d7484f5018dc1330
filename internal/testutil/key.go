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

package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"
	"testing"
)

// Page is a page reference.
type Page struct {
	Page uint32
	Item uint16
}

// AppendPageRef appends the compact encoding of p using the narrowest
// widths that hold its values.
func AppendPageRef(b []byte, p Page) []byte {
	var tag byte
	var page []byte
	switch {
	case p.Page <= 0xff:
		tag = 1
		page = []byte{byte(p.Page)}
	case p.Page <= 0xffff:
		tag = 2
		page = []byte{byte(p.Page >> 8), byte(p.Page)}
	case p.Page <= 0xffffff:
		tag = 4
		page = []byte{byte(p.Page >> 16), byte(p.Page >> 8), byte(p.Page)}
	default:
		panic(fmt.Sprintf("page id too large: %d", p.Page))
	}

	var item []byte
	switch {
	case p.Item == 0:
	case p.Item <= 0xff:
		tag |= 1 << 4
		item = []byte{byte(p.Item)}
	default:
		tag |= 2 << 4
		item = []byte{byte(p.Item >> 8), byte(p.Item)}
	}

	b = append(b, tag)
	b = append(b, page...)
	return append(b, item...)
}

// AppendPageList appends a count prefixed page list.
func AppendPageList(b []byte, pages []Page) []byte {
	b = binary.LittleEndian.AppendUint16(b, uint16(len(pages)))
	for _, p := range pages {
		b = AppendPageRef(b, p)
	}
	return b
}

// KeyEntry is a key store entry. RawPages, when set, is written as the
// page list instead of encoding Pages.
type KeyEntry struct {
	Key      string
	Pages    []Page
	RawPages []byte
}

// KeyStoreOptions are options for MakeKeyStore. Index orders are lists of
// entry positions; a nil order omits that index section.
type KeyStoreOptions struct {
	// Version is 1 or 2. Defaults to 2.
	Version int

	// Length is the length sorted order.
	Length []int

	// Prefix is the prefix sorted order. Defaults to entries sorted by the
	// bytes of their key.
	Prefix []int

	// NoPrefix omits the prefix index.
	NoPrefix bool

	// Suffix is the suffix sorted order.
	Suffix []int

	// Unordered is the unordered index.
	Unordered []int
}

// KeyIndexMagic is the index header magic of a key store.
const KeyIndexMagic = 4

// MakeKeyStore creates a .keystore file. The word table holds the entries
// in the given order.
func MakeKeyStore(t *testing.T, entries []KeyEntry, opts *KeyStoreOptions) []byte {
	t.Helper()
	if opts == nil {
		opts = &KeyStoreOptions{}
	}

	version := opts.Version
	if version == 0 {
		version = 2
	}
	var headerSize int
	switch version {
	case 1:
		headerSize = 0x10
	case 2:
		headerSize = 0x20
	default:
		t.Fatalf("unsupported key store version %d", version)
	}

	// Words section: word table, then entries, then page lists. Offsets are
	// relative to the start of the section.
	tableSize := 4 + 4*len(entries)
	var body []byte
	wordOffsets := make([]uint32, len(entries))
	for i, e := range entries {
		wordOffsets[i] = uint32(tableSize + len(body))
		// Page list offset is patched below.
		body = appendUint32(body, 0)
		body = append(body, 0)
		body = append(body, e.Key...)
		body = append(body, 0)
	}
	for i, e := range entries {
		pagesOffset := uint32(tableSize + len(body))
		binary.LittleEndian.PutUint32(body[int(wordOffsets[i])-tableSize:], pagesOffset)
		if e.RawPages != nil {
			body = append(body, e.RawPages...)
		} else {
			body = AppendPageList(body, e.Pages)
		}
	}
	words := appendUint32(nil, uint32(len(entries)))
	words = appendUint32(words, wordOffsets...)
	words = append(words, body...)

	prefix := opts.Prefix
	if prefix == nil && !opts.NoPrefix {
		prefix = make([]int, len(entries))
		for i := range prefix {
			prefix[i] = i
		}
		slices.SortStableFunc(prefix, func(a, b int) int {
			return bytes.Compare([]byte(entries[a].Key), []byte(entries[b].Key))
		})
	}

	// Index section: header then each present order.
	idx := make([]byte, 20)
	putUint32(idx, 0, KeyIndexMagic)
	for i, order := range [][]int{opts.Length, prefix, opts.Suffix, opts.Unordered} {
		if order == nil {
			continue
		}
		putUint32(idx, 4+4*i, uint32(len(idx)))
		idx = appendUint32(idx, uint32(len(order)))
		for _, pos := range order {
			idx = appendUint32(idx, wordOffsets[pos])
		}
	}

	wordsOffset := headerSize
	idxOffset := wordsOffset + len(words)

	b := make([]byte, headerSize)
	putUint32(b, 0, uint32(version)<<16)
	putUint32(b, 4, 0)
	putUint32(b, 8, uint32(wordsOffset))
	putUint32(b, 12, uint32(idxOffset))
	// Version 2 headers carry next offset, which is zero when the index runs
	// to the end of the file, followed by reserved fields.
	b = append(b, words...)
	return append(b, idx...)
}
