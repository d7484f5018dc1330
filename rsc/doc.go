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

// Package rsc implements reading block-cached resource stores.
//
// A resource store called name is made of the following files in one
// directory:
//
//   - name.map: a uint32 version and a uint32 record count, followed by 8
//     byte records holding the logical offset of the compressed block that
//     contains the record and the record's offset inside the inflated block.
//   - name.idx (optional): a uint32 count and a reserved uint32, followed by
//     8 byte records mapping item IDs, in ascending order, to map positions.
//     Without it, item IDs are map positions.
//   - name-N.rsc: the data files, numbered from 1. They form a single
//     logical address space of compressed blocks. Each block is a uint32
//     length followed by a zlib stream; inflated, each record inside is a
//     uint32 length followed by the record data.
package rsc
