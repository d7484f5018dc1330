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

// Package format holds the pieces shared by every container format reader:
// the error kinds and bounds-checked decoding of little-endian integers and
// NUL terminated strings.
package format

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidHeader indicates a file header failed validation.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrTruncatedData indicates fewer bytes were available than declared.
	ErrTruncatedData = errors.New("truncated data")

	// ErrIndexOutOfRange indicates a position or inner offset outside of
	// its array or block.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMissingTerminator indicates a string scan ran off the payload
	// region.
	ErrMissingTerminator = errors.New("missing string terminator")

	// ErrSequenceGap indicates segment files are not contiguously numbered.
	ErrSequenceGap = errors.New("segment sequence gap")

	// ErrMissingSegment indicates no segment file exists for the base
	// sequence number.
	ErrMissingSegment = errors.New("missing segment")

	// ErrAddressOutOfRange indicates a logical offset outside of a
	// segmented address space, or a read crossing a segment boundary.
	ErrAddressOutOfRange = errors.New("address out of range")

	// ErrDecompressionFailure indicates malformed compressed data.
	ErrDecompressionFailure = errors.New("decompression failure")

	// ErrCorruptEncoding indicates an unrecognized page reference tag.
	ErrCorruptEncoding = errors.New("corrupt encoding")

	// ErrCorruptIndex indicates an inconsistent cross-reference between
	// index structures.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrNotFound indicates the key or ID is absent. It is an expected
	// negative result rather than a failure.
	ErrNotFound = errors.New("not found")
)
