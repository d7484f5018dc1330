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

// Package key implements reading .keystore files.
//
// A key store maps text keys to lists of page references. The file has
// three parts:
//  1. A header giving the version and the offsets of the other sections.
//  2. The words section. It starts with a count prefixed table of word
//     offsets, followed by the words and their page lists. Each word is a
//     uint32 page list offset, a reserved byte and a NUL terminated UTF-8
//     key. All offsets are relative to the start of the section.
//  3. The index section. A small header locates up to four count prefixed
//     arrays of word offsets, each giving the words in a different order:
//     by length, by prefix, by suffix and unordered.
//
// Keys are searched through the prefix ordered index. Before searching,
// the query is folded so that hiragana matches the katakana stored in the
// index.
package key
