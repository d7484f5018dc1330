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
	"encoding/binary"
	"fmt"
	"testing"
)

// NrscRecordSize is the size of an index.nidx record.
const NrscRecordSize = 16

// NrscRecord is a record in a per-record compressed resource store.
type NrscRecord struct {
	Name       string
	Data       []byte
	Compressed bool
}

// NrscOptions are options for WriteNrsc.
type NrscOptions struct {
	// FileRecords is the number of records per .nrsc file. Defaults to 2.
	FileRecords int
}

// WriteNrsc writes index.nidx and NNNNN.nrsc files numbered from 0 into dir.
func WriteNrsc(t *testing.T, dir string, records []NrscRecord, opts *NrscOptions) {
	t.Helper()
	fileRecords := 2
	if opts != nil && opts.FileRecords > 0 {
		fileRecords = opts.FileRecords
	}

	namesBase := 8 + NrscRecordSize*len(records)
	idx := appendUint32(nil, 0, uint32(len(records)))
	var names []byte

	var file []byte
	seq := 0
	for i, r := range records {
		data := r.Data
		var f uint16
		if r.Compressed {
			data = Deflate(t, data)
			f = 1
		}
		idx = binary.LittleEndian.AppendUint16(idx, f)
		idx = binary.LittleEndian.AppendUint16(idx, uint16(seq))
		idx = appendUint32(idx, uint32(namesBase+len(names)), uint32(len(file)), uint32(len(data)))

		names = append(names, r.Name...)
		names = append(names, 0)
		file = append(file, data...)

		if (i+1)%fileRecords == 0 {
			WriteFile(t, dir, fmt.Sprintf("%05d.nrsc", seq), file)
			file = nil
			seq++
		}
	}
	if len(file) > 0 || len(records)%fileRecords != 0 || len(records) == 0 {
		WriteFile(t, dir, fmt.Sprintf("%05d.nrsc", seq), file)
	}

	WriteFile(t, dir, "index.nidx", append(idx, names...))
}
