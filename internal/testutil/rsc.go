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
	"fmt"
	"testing"
)

// RscOptions are options for WriteRsc.
type RscOptions struct {
	// IDs are the item IDs of the records. When nil no .idx file is written
	// and records are addressed by position.
	IDs []uint32

	// BlockRecords is the number of records per compressed block. Defaults
	// to 2.
	BlockRecords int

	// FileBlocks is the number of blocks per .rsc file. Defaults to 2.
	FileBlocks int
}

// WriteRsc writes the files of a resource store called name into dir:
// name.map, name.idx when opts.IDs is set, and name-N.rsc numbered from 1.
func WriteRsc(t *testing.T, dir, name string, records [][]byte, opts *RscOptions) {
	t.Helper()
	if opts == nil {
		opts = &RscOptions{}
	}
	blockRecords := opts.BlockRecords
	if blockRecords <= 0 {
		blockRecords = 2
	}
	fileBlocks := opts.FileBlocks
	if fileBlocks <= 0 {
		fileBlocks = 2
	}

	mapFile := appendUint32(nil, 0, uint32(len(records)))

	var file []byte
	seq := 1
	blocks := 0
	logical := 0
	for start := 0; start < len(records); start += blockRecords {
		end := min(start+blockRecords, len(records))
		var raw []byte
		for _, r := range records[start:end] {
			mapFile = appendUint32(mapFile, uint32(logical+len(file)), uint32(len(raw)))
			raw = appendUint32(raw, uint32(len(r)))
			raw = append(raw, r...)
		}
		z := Deflate(t, raw)
		file = appendUint32(file, uint32(len(z)))
		file = append(file, z...)

		blocks++
		if blocks == fileBlocks {
			WriteFile(t, dir, fmt.Sprintf("%s-%04d.rsc", name, seq), file)
			logical += len(file)
			file = nil
			blocks = 0
			seq++
		}
	}
	if len(file) > 0 || seq == 1 {
		WriteFile(t, dir, fmt.Sprintf("%s-%04d.rsc", name, seq), file)
	}

	WriteFile(t, dir, name+".map", mapFile)

	if opts.IDs != nil {
		idx := appendUint32(nil, uint32(len(opts.IDs)), 0)
		for i, id := range opts.IDs {
			idx = appendUint32(idx, id, uint32(i))
		}
		WriteFile(t, dir, name+".idx", idx)
	}
}
