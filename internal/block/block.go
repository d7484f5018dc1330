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

// Package block retrieves record payloads from a logical address space,
// either one compressed record at a time or out of compressed blocks shared
// by many records.
package block

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"

	"github.com/ianlewis/go-dictstore/internal/format"
)

// Decompressor inflates src, appending to dst[:0].
type Decompressor interface {
	Decompress(dst, src []byte) ([]byte, error)
}

// Zlib decompresses zlib streams. The zero value is ready to use. The
// underlying inflater is reused between calls.
type Zlib struct {
	src bytes.Reader
	r   io.ReadCloser
}

var _ Decompressor = (*Zlib)(nil)

// Decompress implements [Decompressor.Decompress].
func (z *Zlib) Decompress(dst, src []byte) ([]byte, error) {
	z.src.Reset(src)
	if z.r == nil {
		r, err := zlib.NewReader(&z.src)
		if err != nil {
			return nil, errors.Wrapf(format.ErrDecompressionFailure, "%d bytes: %v", len(src), err)
		}
		z.r = r
	} else if err := z.r.(zlib.Resetter).Reset(&z.src, nil); err != nil {
		return nil, errors.Wrapf(format.ErrDecompressionFailure, "%d bytes: %v", len(src), err)
	}

	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, z.r); err != nil {
		return nil, errors.Wrapf(format.ErrDecompressionFailure, "%d bytes: %v", len(src), err)
	}
	return buf.Bytes(), nil
}

// Options are options for a Reader or a Cache.
type Options struct {
	// Decompressor inflates compressed payloads. Defaults to zlib.
	Decompressor Decompressor

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (o *Options) decompressor() Decompressor {
	if o != nil && o.Decompressor != nil {
		return o.Decompressor
	}
	return &Zlib{}
}

func (o *Options) logger() *zap.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// sizer is implemented by address spaces that know their total size.
type sizer interface {
	Size() int64
}

// readFull reads length bytes at off into buf, growing it as needed. It
// refuses lengths that cannot fit in r when r reports its size.
func readFull(r io.ReaderAt, buf []byte, off int64, length int) ([]byte, error) {
	if length < 0 {
		return nil, errors.Wrapf(format.ErrAddressOutOfRange, "negative length %d", length)
	}
	if s, ok := r.(sizer); ok && (off < 0 || int64(length) > s.Size()-off) {
		return nil, errors.Wrapf(format.ErrAddressOutOfRange, "%d bytes at %d of %d", length, off, s.Size())
	}
	if cap(buf) < length {
		buf = make([]byte, length)
	}
	buf = buf[:length]
	if _, err := r.ReadAt(buf, off); err != nil {
		return nil, errors.Wrapf(err, "reading %d bytes at %d", length, off)
	}
	return buf, nil
}

// Reader fetches records that are individually compressed. It keeps no
// cache; every Fetch reads and, if needed, inflates again.
type Reader struct {
	r   io.ReaderAt
	d   Decompressor
	buf []byte
}

// NewReader returns a Reader over r.
func NewReader(r io.ReaderAt, opts *Options) *Reader {
	return &Reader{
		r: r,
		d: opts.decompressor(),
	}
}

// Fetch reads length bytes at off and inflates them when compressed is true.
// The returned slice is owned by the caller.
func (r *Reader) Fetch(off int64, length int, compressed bool) ([]byte, error) {
	b, err := readFull(r.r, r.buf, off, length)
	if err != nil {
		return nil, err
	}
	r.buf = b

	if !compressed {
		return bytes.Clone(b), nil
	}
	return r.d.Decompress(nil, b)
}

// Cache fetches records stored inside compressed blocks. A block is a
// little-endian uint32 length followed by that many compressed bytes; once
// inflated, each record inside it is a uint32 length followed by the record
// data. Cache holds the most recently inflated block only.
type Cache struct {
	r      io.ReaderAt
	d      Decompressor
	logger *zap.Logger

	zbuf []byte

	// block is the inflated block read from offset off when valid is true.
	block []byte
	off   int64
	valid bool
}

// NewCache returns a Cache over r.
func NewCache(r io.ReaderAt, opts *Options) *Cache {
	return &Cache{
		r:      r,
		d:      opts.decompressor(),
		logger: opts.logger(),
	}
}

// load makes the block at off the cached block.
func (c *Cache) load(off int64) error {
	if c.valid && c.off == off {
		return nil
	}
	c.valid = false

	var lenBuf [4]byte
	if _, err := readFull(c.r, lenBuf[:], off, 4); err != nil {
		return errors.Wrap(err, "reading block length")
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])

	zbuf, err := readFull(c.r, c.zbuf, off+4, int(n))
	if err != nil {
		return errors.Wrapf(err, "reading block at %d", off)
	}
	c.zbuf = zbuf

	block, err := c.d.Decompress(c.block, zbuf)
	if err != nil {
		return errors.Wrapf(err, "block at %d", off)
	}
	c.logger.Debug("loaded block",
		zap.Int64("offset", off),
		zap.Int("compressed", len(zbuf)),
		zap.Int("size", len(block)),
	)
	c.block = block
	c.off = off
	c.valid = true
	return nil
}

// Fetch returns the record at inner inside the block at blockOff. The
// returned slice is owned by the caller.
func (c *Cache) Fetch(blockOff int64, inner int) ([]byte, error) {
	if err := c.load(blockOff); err != nil {
		return nil, err
	}

	n, err := format.Uint32(c.block, inner)
	if err != nil {
		return nil, errors.Wrapf(format.ErrIndexOutOfRange, "record at %d of block size %d", inner, len(c.block))
	}
	start := inner + 4
	if uint64(n) > uint64(len(c.block)-start) {
		return nil, errors.Wrapf(format.ErrIndexOutOfRange,
			"record of %d bytes at %d of block size %d", n, inner, len(c.block))
	}
	return bytes.Clone(c.block[start : start+int(n)]), nil
}
