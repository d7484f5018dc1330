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

// Package dictstore implements a library for reading packaged dictionaries
// in pure Go.
//
// A dictionary directory contains several stores:
//  1. headline/*.headlinestore files that map a page and item to the entry's
//     display headline.
//  2. key/*.keystore files that map search keys to lists of pages.
//  3. A contents/ directory holding the "contents" resource store. Its
//     records are the marked-up entries, addressed by page.
//  4. An optional audio/ directory holding a per-record resource store of
//     audio clips addressed by name.
//
// The stores can also be used on their own through the headline, key, rsc
// and nrsc packages.
package dictstore
