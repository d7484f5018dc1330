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
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ianlewis/go-dictstore/internal/format"
)

// Page is a reference to an entry: a page and an optional item within it.
type Page struct {
	Page uint32
	Item uint16
}

// String returns the five digit page, followed by a dash and the four digit
// hex item when the item is non-zero.
func (p Page) String() string {
	if p.Item == 0 {
		return fmt.Sprintf("%05d", p.Page)
	}
	return fmt.Sprintf("%05d-%04X", p.Page, p.Item)
}

// ParsePage parses the display form produced by [Page.String].
func ParsePage(s string) (Page, error) {
	page, item, hasItem := strings.Cut(s, "-")
	p, err := strconv.ParseUint(page, 10, 24)
	if err != nil {
		return Page{}, errors.Wrapf(err, "page %q", s)
	}
	var i uint64
	if hasItem {
		i, err = strconv.ParseUint(item, 16, 16)
		if err != nil {
			return Page{}, errors.Wrapf(err, "page %q", s)
		}
	}
	return Page{Page: uint32(p), Item: uint16(i)}, nil
}

// decodePage decodes the page reference at off and returns it with the
// number of bytes consumed.
//
// The low nibble of the tag byte gives the width of the big-endian page:
// 1 for one byte, 2 for two bytes and 4 for three bytes. The high nibble
// gives the width of the trailing big-endian item: 0, 1 or 2 bytes.
func decodePage(b []byte, off int) (Page, int, error) {
	if off < 0 || off >= len(b) {
		return Page{}, 0, errors.Wrapf(format.ErrTruncatedData, "page reference at %d", off)
	}
	tag := b[off]

	var pageWidth int
	switch tag & 0xf {
	case 1:
		pageWidth = 1
	case 2:
		pageWidth = 2
	case 4:
		pageWidth = 3
	default:
		return Page{}, 0, errors.Wrapf(format.ErrCorruptEncoding, "page tag %#02x at %d", tag, off)
	}

	itemWidth := int(tag >> 4)
	if itemWidth > 2 {
		return Page{}, 0, errors.Wrapf(format.ErrCorruptEncoding, "item tag %#02x at %d", tag, off)
	}

	n := 1 + pageWidth + itemWidth
	if n > len(b)-off {
		return Page{}, 0, errors.Wrapf(format.ErrTruncatedData, "page reference at %d", off)
	}

	var p Page
	for _, c := range b[off+1 : off+1+pageWidth] {
		p.Page = p.Page<<8 | uint32(c)
	}
	for _, c := range b[off+1+pageWidth : off+n] {
		p.Item = p.Item<<8 | uint16(c)
	}
	return p, n, nil
}

// Pages scans a page list. A page list is a little-endian uint16 count
// followed by that many page references. Pages decodes lazily and cannot be
// rewound; get a new Pages from the Store to scan the list again.
type Pages struct {
	b         []byte
	off       int
	count     int
	remaining int
	page      Page
	err       error
}

func newPages(b []byte, off int) (*Pages, error) {
	n, err := format.Uint16(b, off)
	if err != nil {
		return nil, errors.Wrap(err, "reading page list count")
	}
	return &Pages{
		b:         b,
		off:       off + 2,
		count:     int(n),
		remaining: int(n),
	}, nil
}

// Len returns the number of pages in the list.
func (p *Pages) Len() int {
	return p.count
}

// Scan advances to the next page. It returns false when the list is
// exhausted or a reference fails to decode.
func (p *Pages) Scan() bool {
	if p.err != nil || p.remaining == 0 {
		return false
	}
	page, n, err := decodePage(p.b, p.off)
	if err != nil {
		p.err = err
		return false
	}
	p.page = page
	p.off += n
	p.remaining--
	return true
}

// Page returns the page most recently read by Scan.
func (p *Pages) Page() Page {
	return p.page
}

// Err returns the first error encountered.
func (p *Pages) Err() error {
	return p.err
}

// All scans the remaining pages.
func (p *Pages) All() ([]Page, error) {
	var pages []Page
	for p.Scan() {
		pages = append(pages, p.Page())
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}
