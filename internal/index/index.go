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

// Package index implements flat arrays of fixed-width binary records that
// are decoded wholesale into memory.
package index

import (
	"github.com/cockroachdb/errors"

	"github.com/ianlewis/go-dictstore/internal/format"
)

// Array is an in-memory array of records decoded from a fixed-width binary
// layout. Records keep their on-disk order.
type Array[T any] struct {
	recs []T
}

// Load reads a little-endian uint32 record count at off followed
// immediately by count records of size bytes each.
func Load[T any](b []byte, off, size int, decode func([]byte) T) (*Array[T], error) {
	n, err := format.Uint32(b, off)
	if err != nil {
		return nil, errors.Wrap(err, "reading record count")
	}
	return Decode(b[off+4:], int(n), size, decode)
}

// Decode decodes n records of size bytes each from the start of b.
func Decode[T any](b []byte, n, size int, decode func([]byte) T) (*Array[T], error) {
	if size <= 0 || n < 0 {
		return nil, errors.Newf("invalid record layout: %d records of %d bytes", n, size)
	}
	if n > len(b)/size {
		return nil, errors.Wrapf(format.ErrTruncatedData, "%d records of %d bytes declared, %d bytes available", n, size, len(b))
	}

	recs := make([]T, n)
	for i := range recs {
		recs[i] = decode(b[i*size : (i+1)*size])
	}
	return &Array[T]{recs: recs}, nil
}

// Len returns the number of records.
func (a *Array[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.recs)
}

// Get returns the record at position i.
func (a *Array[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= a.Len() {
		return zero, errors.Wrapf(format.ErrIndexOutOfRange, "record %d of %d", i, a.Len())
	}
	return a.recs[i], nil
}

// Search performs a binary search over the array. cmp compares the search
// target to a record and returns a negative number when the target orders
// before the record, a positive number when it orders after and zero on a
// match. Search returns the smallest matching position. The array must be
// sorted consistently with cmp; on unsorted data the result is unspecified
// but Search still terminates.
func (a *Array[T]) Search(cmp func(T) (int, error)) (int, bool, error) {
	i, j := 0, a.Len()
	for i < j {
		h := int(uint(i+j) >> 1)
		c, err := cmp(a.recs[h])
		if err != nil {
			return 0, false, err
		}
		if c > 0 {
			i = h + 1
		} else {
			j = h
		}
	}
	if i < a.Len() {
		c, err := cmp(a.recs[i])
		if err != nil {
			return 0, false, err
		}
		if c == 0 {
			return i, true, nil
		}
	}
	return i, false, nil
}

// IsSorted reports whether no record orders before its predecessor
// according to cmp.
func (a *Array[T]) IsSorted(cmp func(x, y T) (int, error)) (bool, error) {
	for i := 1; i < a.Len(); i++ {
		c, err := cmp(a.recs[i-1], a.recs[i])
		if err != nil {
			return false, err
		}
		if c > 0 {
			return false, nil
		}
	}
	return true, nil
}
