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
	"github.com/cockroachdb/errors"

	"github.com/ianlewis/go-dictstore/internal/format"
)

const (
	headerSize = 32
	recordSize = 24
)

// Header is the headline store file header.
type Header struct {
	// Count is the number of records as declared by the header.
	Count uint32

	// RecordsOffset is the file offset of the record array.
	RecordsOffset uint32

	// TextOffset is the file offset of the text region.
	TextOffset uint32
}

func parseHeader(b []byte) (Header, error) {
	if len(b) < headerSize {
		return Header{}, errors.Wrapf(format.ErrInvalidHeader, "file too short: %d bytes", len(b))
	}

	var f [8]uint32
	for i := range f {
		f[i], _ = format.Uint32(b, 4*i)
	}
	checks := []struct {
		name string
		ok   bool
	}{
		{"magic1", f[0] == 0},
		{"magic2", f[1] == 2},
		{"record size", f[5] == recordSize},
		{"magic4", f[6] == 0},
		{"magic5", f[7] == 0},
		{"records offset", f[3] >= headerSize && f[3] <= f[4]},
		{"text offset", int64(f[4]) <= int64(len(b))},
		{"records length", (f[4]-f[3])%recordSize == 0},
	}
	for _, c := range checks {
		if !c.ok {
			return Header{}, errors.Wrapf(format.ErrInvalidHeader, "headline store: %s", c.name)
		}
	}

	return Header{
		Count:         f[2],
		RecordsOffset: f[3],
		TextOffset:    f[4],
	}, nil
}
