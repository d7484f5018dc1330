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
	"testing"
)

// HeadlineSize is the size of a headline store record.
const HeadlineSize = 24

// HeadlineHeaderSize is the size of a headline store header.
const HeadlineHeaderSize = 32

// Headline is a headline store entry.
type Headline struct {
	Page uint32
	Item uint8
	Type uint8
	Text string
}

// MakeHeadlineStore creates a .headlinestore file holding the headlines in
// the given order.
func MakeHeadlineStore(t *testing.T, headlines []Headline) []byte {
	t.Helper()

	recOffset := HeadlineHeaderSize
	wordsOffset := recOffset + len(headlines)*HeadlineSize

	b := make([]byte, wordsOffset)
	putUint32(b, 0, 0)
	putUint32(b, 4, 2)
	putUint32(b, 8, uint32(len(headlines)))
	putUint32(b, 12, uint32(recOffset))
	putUint32(b, 16, uint32(wordsOffset))
	putUint32(b, 20, HeadlineSize)

	var words []byte
	for i, h := range headlines {
		rec := b[recOffset+i*HeadlineSize:]
		putUint32(rec, 0, h.Page)
		rec[4] = h.Item
		rec[5] = h.Type
		putUint32(rec, 8, uint32(len(words)))

		words = append(words, EncodeUTF16(t, h.Text)...)
		words = append(words, 0, 0)
	}
	return append(b, words...)
}
