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

// Package invariants gates extra consistency checks on the "invariants"
// build tag. Sorted on-disk arrays are trusted in normal builds; with the
// tag set, stores verify the ordering at open time and refuse to open
// files that violate it.
package invariants

import (
	"github.com/cockroachdb/errors"
)

// ErrUnsorted is returned by stores built with the "invariants" tag when a
// sorted array is out of order.
var ErrUnsorted = errors.New("array is not sorted")

// CheckSorted runs isSorted when invariants are enabled and returns
// ErrUnsorted, annotated with name, when it reports false.
func CheckSorted(name string, isSorted func() (bool, error)) error {
	if !Enabled {
		return nil
	}
	ok, err := isSorted()
	if err != nil {
		return errors.Wrapf(err, "checking %s order", name)
	}
	if !ok {
		return errors.Wrapf(ErrUnsorted, "%s", name)
	}
	return nil
}
