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

package key_test

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/text/transform"

	"github.com/ianlewis/go-dictstore/internal/format"
	"github.com/ianlewis/go-dictstore/internal/testutil"
	"github.com/ianlewis/go-dictstore/key"
)

var entries = []testutil.KeyEntry{
	{
		Key:   "アメ",
		Pages: []testutil.Page{{Page: 12}, {Page: 300, Item: 2}},
	},
	{
		Key:   "アメリカ",
		Pages: []testutil.Page{{Page: 70000, Item: 0x1ff}},
	},
	{
		Key:   "ア",
		Pages: []testutil.Page{{Page: 5, Item: 1}, {Page: 4}, {Page: 0x123456}},
	},
}

func pagesOf(t *testing.T, p *key.Pages) []key.Page {
	t.Helper()
	pages, err := p.All()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	return pages
}

func TestStore_SearchExact(t *testing.T) {
	t.Parallel()

	expected := map[string][]key.Page{
		"アメ":   {{Page: 12}, {Page: 300, Item: 2}},
		"アメリカ": {{Page: 70000, Item: 0x1ff}},
		"ア":    {{Page: 5, Item: 1}, {Page: 4}, {Page: 0x123456}},
	}

	for _, version := range []int{1, 2} {
		s, err := key.New(testutil.MakeKeyStore(t, entries, &testutil.KeyStoreOptions{Version: version}), nil)
		if err != nil {
			t.Fatalf("v%d: New: %v", version, err)
		}

		for k, want := range expected {
			_, pages, err := s.SearchExact(k)
			if err != nil {
				t.Fatalf("v%d: SearchExact(%q): %v", version, k, err)
			}
			if diff := cmp.Diff(want, pagesOf(t, pages)); diff != "" {
				t.Errorf("v%d: SearchExact(%q) (-want, +got):\n%s", version, k, diff)
			}
		}

		for _, k := range []string{"", "アメリ", "アメリカン", "イ", "a"} {
			_, _, err := s.SearchExact(k)
			if diff := cmp.Diff(format.ErrNotFound, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("v%d: SearchExact(%q) (-want, +got):\n%s", version, k, diff)
			}
		}
	}
}

func TestStore_SearchAll(t *testing.T) {
	t.Parallel()

	dup := append([]testutil.KeyEntry{}, entries...)
	dup = append(dup,
		testutil.KeyEntry{Key: "アメ", Pages: []testutil.Page{{Page: 300, Item: 2}, {Page: 400}}},
		testutil.KeyEntry{Key: "アメ", Pages: []testutil.Page{{Page: 12}}},
	)
	s, err := key.New(testutil.MakeKeyStore(t, dup, nil), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lists, err := s.SearchAll("あめ")
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	var got [][]key.Page
	for _, p := range lists {
		got = append(got, pagesOf(t, p))
	}
	want := [][]key.Page{
		{{Page: 12}, {Page: 300, Item: 2}},
		{{Page: 300, Item: 2}, {Page: 400}},
		{{Page: 12}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchAll (-want, +got):\n%s", diff)
	}

	// The first copy is the one SearchExact returns.
	_, pages, err := s.SearchExact("アメ")
	if err != nil {
		t.Fatalf("SearchExact: %v", err)
	}
	if diff := cmp.Diff(want[0], pagesOf(t, pages)); diff != "" {
		t.Errorf("SearchExact (-want, +got):\n%s", diff)
	}

	// Neighbors that only share a prefix are not included.
	lists, err = s.SearchAll("ア")
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if diff := cmp.Diff(1, len(lists)); diff != "" {
		t.Errorf("SearchAll (-want, +got):\n%s", diff)
	}

	_, err = s.SearchAll("イ")
	if diff := cmp.Diff(format.ErrNotFound, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("SearchAll (-want, +got):\n%s", diff)
	}
}

func TestStore_SearchExactPosition(t *testing.T) {
	t.Parallel()

	s, err := key.New(testutil.MakeKeyStore(t, entries, nil), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Prefix order is ア, アメ, アメリカ.
	for want, k := range []string{"ア", "アメ", "アメリカ"} {
		got, _, err := s.SearchExact(k)
		if err != nil {
			t.Fatalf("SearchExact(%q): %v", k, err)
		}
		if got != want {
			t.Errorf("SearchExact(%q): want %d, got %d", k, want, got)
		}
		w, err := s.Index(key.PrefixOrder).Word(got)
		if err != nil {
			t.Fatalf("Word: %v", err)
		}
		if diff := cmp.Diff(k, w.Word); diff != "" {
			t.Errorf("Word(%d) (-want, +got):\n%s", got, diff)
		}
	}
}

func TestStore_SearchExactFolding(t *testing.T) {
	t.Parallel()

	s, err := key.New(testutil.MakeKeyStore(t, entries, nil), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, pair := range [][2]string{{"あめ", "アメ"}, {"あめりか", "アメリカ"}, {"アめりカ", "アメリカ"}} {
		i1, p1, err := s.SearchExact(pair[0])
		if err != nil {
			t.Fatalf("SearchExact(%q): %v", pair[0], err)
		}
		i2, p2, err := s.SearchExact(pair[1])
		if err != nil {
			t.Fatalf("SearchExact(%q): %v", pair[1], err)
		}
		if i1 != i2 {
			t.Errorf("SearchExact(%q) = %d, SearchExact(%q) = %d", pair[0], i1, pair[1], i2)
		}
		if diff := cmp.Diff(pagesOf(t, p2), pagesOf(t, p1)); diff != "" {
			t.Errorf("SearchExact(%q) (-want, +got):\n%s", pair[0], diff)
		}
	}

	// Without folding, hiragana does not match.
	s, err = key.New(testutil.MakeKeyStore(t, entries, nil), &key.Options{
		Folder: func() transform.Transformer { return transform.Nop },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, _, err = s.SearchExact("あめ")
	if diff := cmp.Diff(format.ErrNotFound, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("SearchExact (-want, +got):\n%s", diff)
	}
}

func TestStore_Indexes(t *testing.T) {
	t.Parallel()

	s, err := key.New(testutil.MakeKeyStore(t, entries, &testutil.KeyStoreOptions{
		Length:    []int{2, 0, 1},
		Suffix:    []int{2, 1, 0},
		Unordered: []int{1},
	}), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	words := func(idx *key.Index) []string {
		var ws []string
		for i := 0; i < idx.Len(); i++ {
			w, err := idx.Word(i)
			if err != nil {
				t.Fatalf("Word(%d): %v", i, err)
			}
			ws = append(ws, w.Word)
		}
		return ws
	}

	tests := []struct {
		order    key.Order
		expected []string
	}{
		{key.LengthOrder, []string{"ア", "アメ", "アメリカ"}},
		{key.PrefixOrder, []string{"ア", "アメ", "アメリカ"}},
		{key.SuffixOrder, []string{"ア", "アメリカ", "アメ"}},
		{key.UnorderedOrder, []string{"アメリカ"}},
	}
	for _, test := range tests {
		idx := s.Index(test.order)
		if idx == nil {
			t.Fatalf("Index(%v): missing", test.order)
		}
		if diff := cmp.Diff(test.expected, words(idx)); diff != "" {
			t.Errorf("Index(%v) (-want, +got):\n%s", test.order, diff)
		}
	}

	// The word table keeps file order.
	if diff := cmp.Diff(len(entries), s.Len()); diff != "" {
		t.Fatalf("Len (-want, +got):\n%s", diff)
	}
	for i, e := range entries {
		w, err := s.Word(i)
		if err != nil {
			t.Fatalf("Word(%d): %v", i, err)
		}
		if diff := cmp.Diff(e.Key, w.Word); diff != "" {
			t.Errorf("Word(%d) (-want, +got):\n%s", i, diff)
		}
		p, err := s.Pages(w.PagesOffset)
		if err != nil {
			t.Fatalf("Pages: %v", err)
		}
		if diff := cmp.Diff(len(e.Pages), p.Len()); diff != "" {
			t.Errorf("Pages(%d).Len (-want, +got):\n%s", i, diff)
		}
	}

	_, err = s.Word(len(entries))
	if diff := cmp.Diff(format.ErrIndexOutOfRange, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("Word (-want, +got):\n%s", diff)
	}
}

func TestStore_OptionalIndexesAbsent(t *testing.T) {
	t.Parallel()

	s, err := key.New(testutil.MakeKeyStore(t, entries, nil), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, o := range []key.Order{key.LengthOrder, key.SuffixOrder, key.UnorderedOrder} {
		if s.Index(o) != nil {
			t.Errorf("Index(%v): want nil", o)
		}
	}
}

func TestStore_CorruptPageList(t *testing.T) {
	t.Parallel()

	bad := append([]testutil.KeyEntry{}, entries...)
	bad = append(bad, testutil.KeyEntry{
		Key:      "イ",
		RawPages: []byte{2, 0, 0x01, 0x09, 0x0f, 0x01},
	})
	s, err := key.New(testutil.MakeKeyStore(t, bad, nil), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, pages, err := s.SearchExact("い")
	if err != nil {
		t.Fatalf("SearchExact: %v", err)
	}
	_, err = pages.All()
	if diff := cmp.Diff(format.ErrCorruptEncoding, err, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("All (-want, +got):\n%s", diff)
	}

	// The store is still usable.
	_, pages, err = s.SearchExact("アメ")
	if err != nil {
		t.Fatalf("SearchExact: %v", err)
	}
	if diff := cmp.Diff(2, len(pagesOf(t, pages))); diff != "" {
		t.Fatalf("pages (-want, +got):\n%s", diff)
	}
}

func TestNew_InvalidHeader(t *testing.T) {
	t.Parallel()

	valid := testutil.MakeKeyStore(t, entries, &testutil.KeyStoreOptions{Suffix: []int{0, 1, 2}})
	if _, err := key.New(valid, nil); err != nil {
		t.Fatalf("New: %v", err)
	}
	idxOffset := int(binary.LittleEndian.Uint32(valid[12:]))

	tests := []struct {
		name  string
		off   int
		value uint32
	}{
		{"version", 0, 0x30000},
		{"magic1", 4, 1},
		{"words offset", 8, 0x10},
		{"index offset before words", 12, 0x10},
		{"index offset past end", 12, uint32(len(valid))},
		{"next offset", 16, 0x20},
		{"magic5", 20, 1},
		{"magic6", 24, 1},
		{"index magic", idxOffset, 5},
		{"prefix after suffix", idxOffset + 8, 0xffff},
		{"suffix past end", idxOffset + 12, uint32(len(valid))},
		{"missing prefix", idxOffset + 8, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			b := append([]byte{}, valid...)
			binary.LittleEndian.PutUint32(b[test.off:], test.value)

			_, err := key.New(b, nil)
			if diff := cmp.Diff(format.ErrInvalidHeader, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("New (-want, +got):\n%s", diff)
			}
		})
	}

	t.Run("short", func(t *testing.T) {
		t.Parallel()

		_, err := key.New(valid[:12], nil)
		if diff := cmp.Diff(format.ErrInvalidHeader, err, cmpopts.EquateErrors()); diff != "" {
			t.Fatalf("New (-want, +got):\n%s", diff)
		}
	})
}

func TestNew_TruncatedIndex(t *testing.T) {
	t.Parallel()

	b := testutil.MakeKeyStore(t, entries, nil)
	// Drop the last word offset of the prefix index, which ends the file.
	_, err := key.New(b[:len(b)-4], nil)
	if diff := cmp.Diff(format.ErrTruncatedData, err, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("New (-want, +got):\n%s", diff)
	}
}
