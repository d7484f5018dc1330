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

// Package headline implements reading .headlinestore files.
//
// A headline store maps a (page, item) pair to the entry's display
// headline. The file has three parts:
//  1. A 32 byte header of eight little-endian uint32 fields.
//  2. An array of 24 byte records sorted by page then item. Each record
//     holds the page, item, item type and the offset of the headline text.
//  3. The text region: UTF-16LE strings terminated by a NUL code unit.
package headline
