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

// Package folding implements text folding applied to keys before they are
// compared against a key store's index.
package folding

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

const (
	hiraganaFirst = 'ぁ'
	hiraganaLast  = 'ん'

	// kanaOffset is the distance between a hiragana code point and its
	// katakana counterpart.
	kanaOffset = 'ァ' - 'ぁ'
)

// KanaFolder folds hiragana to katakana. Runes in the range U+3041 (ぁ) to
// U+3093 (ん) are shifted to U+30A1 (ァ) to U+30F3 (ン). All other runes
// pass through unchanged.
type KanaFolder struct {
	transform.NopResetter
}

// NewKanaFolder returns a new KanaFolder as a [transform.Transformer].
func NewKanaFolder() transform.Transformer {
	return &KanaFolder{}
}

// Transform implements [transform.Transformer.Transform].
func (*KanaFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		c, size := utf8.DecodeRune(src[nSrc:])
		if c == utf8.RuneError && size == 1 && !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		if c == utf8.RuneError && size == 1 {
			// Invalid bytes are copied as is.
			if nDst+1 > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = src[nSrc]
			nDst++
			nSrc++
			continue
		}

		if hiraganaFirst <= c && c <= hiraganaLast {
			c += kanaOffset
		}
		if nDst+utf8.RuneLen(c) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], c)
		nSrc += size
	}

	return nDst, nSrc, nil
}
