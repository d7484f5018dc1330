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
	"github.com/cockroachdb/errors"

	"github.com/ianlewis/go-dictstore/internal/format"
)

const (
	version1 = 0x10000
	version2 = 0x20000

	indexMagic      = 4
	indexHeaderSize = 20
)

// Header is the key store file header.
type Header struct {
	// Version is the format version, either 0x10000 or 0x20000.
	Version uint32

	// WordsOffset is the file offset of the words section.
	WordsOffset uint32

	// IndexOffset is the file offset of the index section.
	IndexOffset uint32

	// NextOffset is the file offset of the section following the index or
	// zero if the index runs to the end of the file.
	NextOffset uint32
}

// indexEnd returns the end of the index section in a file of size bytes.
func (h Header) indexEnd(size int) int {
	if h.NextOffset != 0 {
		return int(h.NextOffset)
	}
	return size
}

func invalidHeader(field string) error {
	return errors.Wrapf(format.ErrInvalidHeader, "key store: %s", field)
}

func parseHeader(b []byte) (Header, error) {
	if len(b) < 16 {
		return Header{}, invalidHeader("file too short")
	}
	var h Header
	h.Version, _ = format.Uint32(b, 0)
	magic1, _ := format.Uint32(b, 4)
	h.WordsOffset, _ = format.Uint32(b, 8)
	h.IndexOffset, _ = format.Uint32(b, 12)

	switch {
	case h.Version == version1 && h.WordsOffset == 0x10:
	case h.Version == version2 && h.WordsOffset == 0x20:
		if len(b) < 28 {
			return Header{}, invalidHeader("file too short")
		}
		h.NextOffset, _ = format.Uint32(b, 16)
		magic5, _ := format.Uint32(b, 20)
		magic6, _ := format.Uint32(b, 24)
		if magic5 != 0 {
			return Header{}, invalidHeader("magic5")
		}
		if magic6 != 0 {
			return Header{}, invalidHeader("magic6")
		}
		if h.NextOffset != 0 && h.IndexOffset >= h.NextOffset {
			return Header{}, invalidHeader("next offset")
		}
	default:
		return Header{}, invalidHeader("version")
	}

	if magic1 != 0 {
		return Header{}, invalidHeader("magic1")
	}
	if h.WordsOffset >= h.IndexOffset {
		return Header{}, invalidHeader("index offset")
	}
	if int64(h.IndexOffset)+indexHeaderSize > int64(len(b)) || int64(h.NextOffset) > int64(len(b)) {
		return Header{}, invalidHeader("offset past end of file")
	}
	return h, nil
}

// indexHeader holds the offsets of the index arrays relative to the index
// section. A zero offset means the array is absent.
type indexHeader struct {
	offsets [orderCount]uint32
}

func parseIndexHeader(b []byte, h Header) (indexHeader, error) {
	var ih indexHeader
	off := int(h.IndexOffset)
	magic, err := format.Uint32(b, off)
	if err != nil {
		return ih, invalidHeader("index header too short")
	}
	if magic != indexMagic {
		return ih, invalidHeader("index magic")
	}
	for i := range ih.offsets {
		ih.offsets[i], err = format.Uint32(b, off+4+4*i)
		if err != nil {
			return ih, invalidHeader("index header too short")
		}
	}

	// Each present array must start before the next one and before the
	// end of the index section.
	ordered := func(l, r uint32) bool { return l < r || r == 0 }
	for i := 1; i < len(ih.offsets); i++ {
		if !ordered(ih.offsets[i-1], ih.offsets[i]) {
			return ih, invalidHeader(Order(i).String() + " index offset")
		}
	}
	end := h.indexEnd(len(b))
	for i, rel := range ih.offsets {
		if rel != 0 && int64(h.IndexOffset)+int64(rel) >= int64(end) {
			return ih, invalidHeader(Order(i).String() + " index offset past end")
		}
	}
	if ih.offsets[PrefixOrder] == 0 {
		return ih, invalidHeader("missing prefix index")
	}
	return ih, nil
}
