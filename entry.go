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

package dictstore

import (
	"strings"

	"github.com/ianlewis/go-dictstore/key"
	"github.com/ianlewis/go-dictstore/markup"
)

// Entry is a dictionary entry.
type Entry struct {
	// Page is the entry's page reference.
	Page key.Page

	// Headline is the entry's headline. It is empty if no headline store
	// has the entry.
	Headline string

	// Data is the entry's raw marked-up contents. It is nil if the
	// contents store does not have the entry.
	Data []byte

	markup markup.Transformer
}

// ID returns the entry's display id.
func (e *Entry) ID() string {
	return e.Page.String()
}

// Value returns the entry's contents converted by the dictionary's
// [markup.Transformer].
func (e *Entry) Value() (any, error) {
	t := e.markup
	if t == nil {
		t = markup.PlainText
	}
	//nolint:wrapcheck // error should not be wrapped
	return t.Transform(string(e.Data))
}

// String returns a string representation of the Entry.
func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString(e.ID())
	if e.Headline != "" {
		b.WriteString(" ")
		b.WriteString(e.Headline)
	}
	b.WriteString("\n")
	if e.Data != nil {
		b.WriteString(markup.Text(string(e.Data)))
		b.WriteString("\n")
	}
	return b.String()
}
