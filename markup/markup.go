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

// Package markup defines the boundary between resource store payloads and
// the code that interprets them.
//
// The contents of a dictionary are stored as marked-up text. The readers in
// this module return that text untouched; a [Transformer] turns it into
// whatever value an application needs. [PlainText] is a Transformer that
// renders the markup as readable plain text.
package markup

import (
	"regexp"
	"strings"

	"github.com/k3a/html2text"
)

// Transformer converts a decoded markup payload into a value.
type Transformer interface {
	Transform(s string) (any, error)
}

// Func adapts a function to a Transformer.
type Func func(s string) (any, error)

// Transform implements [Transformer.Transform].
func (f Func) Transform(s string) (any, error) {
	return f(s)
}

var (
	roundBoxOpen  = regexp.MustCompile(`<round_box(\s[^>]*)?>`)
	roundBoxClose = regexp.MustCompile(`</round_box\s*>`)
)

// Text renders markup as plain text. Elements are dropped in favor of their
// text, round_box elements are wrapped in parentheses and entities are
// decoded.
func Text(s string) string {
	s = roundBoxOpen.ReplaceAllString(s, "(")
	s = roundBoxClose.ReplaceAllString(s, ")")
	return strings.TrimSpace(html2text.HTML2TextWithOptions(s, html2text.WithUnixLineBreaks()))
}

// PlainText is a Transformer that returns the [Text] of a payload as a
// string.
var PlainText Transformer = Func(func(s string) (any, error) {
	return Text(s), nil
})
