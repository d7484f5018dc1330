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

//go:build invariants

package invariants

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCheckSorted(t *testing.T) {
	t.Parallel()

	errRead := errors.New("read")
	tests := map[string]struct {
		sorted bool
		err    error
		want   error
	}{
		"sorted":   {sorted: true},
		"unsorted": {want: ErrUnsorted},
		"error":    {err: errRead, want: errRead},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := CheckSorted("test", func() (bool, error) { return tc.sorted, tc.err })
			if diff := cmp.Diff(tc.want, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("CheckSorted (-want, +got):\n%s", diff)
			}
		})
	}
}
