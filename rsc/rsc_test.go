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

package rsc_test

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/go-dictstore/internal/block"
	"github.com/ianlewis/go-dictstore/internal/format"
	"github.com/ianlewis/go-dictstore/internal/testutil"
	"github.com/ianlewis/go-dictstore/rsc"
)

func makeRecords(n int) [][]byte {
	var recs [][]byte
	for i := range n {
		recs = append(recs, []byte(fmt.Sprintf("<p>record %d</p>", i)))
	}
	return recs
}

func openStore(t *testing.T, dir string, opts *rsc.Options) *rsc.Store {
	t.Helper()
	s, err := rsc.Open(dir, "contents", opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func writeIDs(t *testing.T, dir string, recs ...[2]uint32) {
	t.Helper()
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(recs)))
	b = binary.LittleEndian.AppendUint32(b, 0)
	for _, r := range recs {
		b = binary.LittleEndian.AppendUint32(b, r[0])
		b = binary.LittleEndian.AppendUint32(b, r[1])
	}
	testutil.WriteFile(t, dir, "contents.idx", b)
}

type countingDecompressor struct {
	block.Zlib
	calls int
}

func (c *countingDecompressor) Decompress(dst, src []byte) ([]byte, error) {
	c.calls++
	return c.Zlib.Decompress(dst, src)
}

func TestStore_Positional(t *testing.T) {
	t.Parallel()

	records := makeRecords(5)
	dir := t.TempDir()
	testutil.WriteRsc(t, dir, "contents", records, nil)

	s := openStore(t, dir, nil)
	if diff := cmp.Diff(len(records), s.Len()); diff != "" {
		t.Fatalf("Len (-want, +got):\n%s", diff)
	}
	if s.HasIDs() {
		t.Fatalf("HasIDs: want false")
	}

	for i, want := range records {
		id, got, err := s.GetByPosition(i)
		if err != nil {
			t.Fatalf("GetByPosition(%d): %v", i, err)
		}
		if diff := cmp.Diff(uint32(i), id); diff != "" {
			t.Errorf("GetByPosition(%d) id (-want, +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetByPosition(%d) (-want, +got):\n%s", i, diff)
		}

		got, err = s.Get(uint32(i))
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Get(%d) (-want, +got):\n%s", i, diff)
		}
	}

	_, err := s.Get(uint32(len(records)))
	if diff := cmp.Diff(format.ErrNotFound, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("Get (-want, +got):\n%s", diff)
	}
	_, _, err = s.GetByPosition(len(records))
	if diff := cmp.Diff(format.ErrIndexOutOfRange, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("GetByPosition (-want, +got):\n%s", diff)
	}
}

func TestStore_Get(t *testing.T) {
	t.Parallel()

	records := makeRecords(6)
	ids := []uint32{1, 2, 5, 9, 10, 1000}
	dir := t.TempDir()
	testutil.WriteRsc(t, dir, "contents", records, &testutil.RscOptions{IDs: ids})

	s := openStore(t, dir, nil)
	if !s.HasIDs() {
		t.Fatalf("HasIDs: want true")
	}

	// Look up out of order so the cached block changes.
	for _, i := range []int{5, 0, 3, 1, 4, 2} {
		got, err := s.Get(ids[i])
		if err != nil {
			t.Fatalf("Get(%d): %v", ids[i], err)
		}
		if diff := cmp.Diff(records[i], got); diff != "" {
			t.Errorf("Get(%d) (-want, +got):\n%s", ids[i], diff)
		}

		id, got, err := s.GetByPosition(i)
		if err != nil {
			t.Fatalf("GetByPosition(%d): %v", i, err)
		}
		if diff := cmp.Diff(ids[i], id); diff != "" {
			t.Errorf("GetByPosition(%d) id (-want, +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(records[i], got); diff != "" {
			t.Errorf("GetByPosition(%d) (-want, +got):\n%s", i, diff)
		}
	}

	for _, id := range []uint32{0, 3, 8, 11, 999, 1001} {
		_, err := s.Get(id)
		if diff := cmp.Diff(format.ErrNotFound, err, cmpopts.EquateErrors()); diff != "" {
			t.Errorf("Get(%d) (-want, +got):\n%s", id, diff)
		}
	}
}

func TestStore_CorruptIndex(t *testing.T) {
	t.Parallel()

	records := makeRecords(3)
	dir := t.TempDir()
	testutil.WriteRsc(t, dir, "contents", records, nil)
	// Item 7 points past the map. The record at position 1 maps elsewhere.
	writeIDs(t, dir, [2]uint32{1, 0}, [2]uint32{4, 2}, [2]uint32{7, 3})

	s := openStore(t, dir, nil)

	_, err := s.Get(7)
	if diff := cmp.Diff(format.ErrCorruptIndex, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("Get (-want, +got):\n%s", diff)
	}
	_, _, err = s.GetByPosition(1)
	if diff := cmp.Diff(format.ErrCorruptIndex, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("GetByPosition (-want, +got):\n%s", diff)
	}

	// Other lookups still work.
	got, err := s.Get(4)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(records[2], got); diff != "" {
		t.Errorf("Get (-want, +got):\n%s", diff)
	}
	id, got, err := s.GetByPosition(0)
	if err != nil {
		t.Fatalf("GetByPosition: %v", err)
	}
	if diff := cmp.Diff(uint32(1), id); diff != "" {
		t.Errorf("GetByPosition id (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(records[0], got); diff != "" {
		t.Errorf("GetByPosition (-want, +got):\n%s", diff)
	}
}

func TestStore_BlockCache(t *testing.T) {
	t.Parallel()

	records := makeRecords(5)
	dir := t.TempDir()
	testutil.WriteRsc(t, dir, "contents", records, &testutil.RscOptions{BlockRecords: 2})

	d := &countingDecompressor{}
	s := openStore(t, dir, &rsc.Options{Decompressor: d})

	for _, test := range []struct {
		id    uint32
		calls int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{0, 3},
		{4, 4},
		{4, 4},
	} {
		if _, err := s.Get(test.id); err != nil {
			t.Fatalf("Get(%d): %v", test.id, err)
		}
		if diff := cmp.Diff(test.calls, d.calls); diff != "" {
			t.Errorf("Get(%d) calls (-want, +got):\n%s", test.id, diff)
		}
	}
}

func TestStore_DecompressionFailure(t *testing.T) {
	t.Parallel()

	records := makeRecords(4)
	dir := t.TempDir()
	testutil.WriteRsc(t, dir, "contents", records, &testutil.RscOptions{BlockRecords: 2, FileBlocks: 1})

	// Keep the block length so offsets stay valid but garble the stream.
	path := filepath.Join(dir, "contents-0002.rsc")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for i := 4; i < len(b); i++ {
		b[i] = 0xff
	}
	testutil.WriteFile(t, dir, "contents-0002.rsc", b)

	s := openStore(t, dir, nil)
	_, err = s.Get(2)
	if diff := cmp.Diff(format.ErrDecompressionFailure, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("Get (-want, +got):\n%s", diff)
	}

	got, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(records[1], got); diff != "" {
		t.Errorf("Get (-want, +got):\n%s", diff)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		modify   func(t *testing.T, dir string)
		expected error
	}{
		{
			name: "missing first file",
			modify: func(t *testing.T, dir string) {
				if err := os.Remove(filepath.Join(dir, "contents-0001.rsc")); err != nil {
					t.Fatal(err)
				}
			},
			expected: format.ErrMissingSegment,
		},
		{
			name: "gap",
			modify: func(t *testing.T, dir string) {
				if err := os.Remove(filepath.Join(dir, "contents-0002.rsc")); err != nil {
					t.Fatal(err)
				}
			},
			expected: format.ErrSequenceGap,
		},
		{
			name: "missing map",
			modify: func(t *testing.T, dir string) {
				if err := os.Remove(filepath.Join(dir, "contents.map")); err != nil {
					t.Fatal(err)
				}
			},
			expected: os.ErrNotExist,
		},
		{
			name: "truncated map",
			modify: func(t *testing.T, dir string) {
				b, err := os.ReadFile(filepath.Join(dir, "contents.map"))
				if err != nil {
					t.Fatal(err)
				}
				testutil.WriteFile(t, dir, "contents.map", b[:len(b)-1])
			},
			expected: format.ErrTruncatedData,
		},
		{
			name: "truncated ids",
			modify: func(t *testing.T, dir string) {
				testutil.WriteFile(t, dir, "contents.idx", []byte{9, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0})
			},
			expected: format.ErrTruncatedData,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.WriteRsc(t, dir, "contents", makeRecords(6), &testutil.RscOptions{FileBlocks: 1})
			test.modify(t, dir)

			s, err := rsc.Open(dir, "contents", nil)
			if err == nil {
				_ = s.Close()
			}
			if diff := cmp.Diff(test.expected, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("Open (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestOpen_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	records := makeRecords(2)
	dir := t.TempDir()
	testutil.WriteRsc(t, dir, "contents", records, nil)
	testutil.WriteFile(t, dir, "other-0001.rsc", []byte("junk"))
	testutil.WriteFile(t, dir, "contents-x.rsc", []byte("junk"))

	s := openStore(t, dir, nil)
	got, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(records[1], got); diff != "" {
		t.Errorf("Get (-want, +got):\n%s", diff)
	}
}
