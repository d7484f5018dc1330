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

package format

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/unicode"
)

// Uint16 returns the little-endian uint16 at off.
func Uint16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, errors.Wrapf(ErrTruncatedData, "u16 at %d of %d", off, len(b))
	}
	return binary.LittleEndian.Uint16(b[off:]), nil
}

// Uint32 returns the little-endian uint32 at off.
func Uint32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, errors.Wrapf(ErrTruncatedData, "u32 at %d of %d", off, len(b))
	}
	return binary.LittleEndian.Uint32(b[off:]), nil
}

// CString returns the bytes from off up to, not including, the next NUL
// byte.
func CString(b []byte, off int) ([]byte, error) {
	if off < 0 || off > len(b) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "string at %d of %d", off, len(b))
	}
	i := bytes.IndexByte(b[off:], 0)
	if i < 0 {
		return nil, errors.Wrapf(ErrMissingTerminator, "string at %d", off)
	}
	return b[off : off+i], nil
}

// CString16 returns the UTF-16 code units from off up to, not including, the
// next NUL code unit. Code units are aligned to off.
func CString16(b []byte, off int) ([]byte, error) {
	if off < 0 || off > len(b) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "string at %d of %d", off, len(b))
	}
	for i := off; i+2 <= len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[off:i], nil
		}
	}
	return nil, errors.Wrapf(ErrMissingTerminator, "string at %d", off)
}

// DecodeUTF16 decodes little-endian UTF-16 text.
func DecodeUTF16(b []byte) (string, error) {
	s, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(err, "decoding utf-16")
	}
	return string(s), nil
}
