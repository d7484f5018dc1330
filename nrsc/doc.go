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

// Package nrsc implements reading per-record resource stores such as audio
// archives.
//
// A store is a directory holding index.nidx and data files NNNNN.nrsc
// numbered from 0. The index starts with a reserved uint32 and a uint32
// record count, followed by 16 byte records and then the NUL terminated
// UTF-8 record names. Each record holds a format (0 for raw, 1 for zlib),
// the data file's position in the sequence, the file offset of the record's
// name, the record's offset in its data file and its stored length.
package nrsc
