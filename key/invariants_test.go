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

package key_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/go-dictstore/internal/invariants"
	"github.com/ianlewis/go-dictstore/internal/testutil"
	"github.com/ianlewis/go-dictstore/key"
)

func TestNew_UnsortedPrefix(t *testing.T) {
	t.Parallel()

	unsorted := []testutil.KeyEntry{
		{Key: "アメ", Pages: []testutil.Page{{Page: 12}}},
		{Key: "イヌ", Pages: []testutil.Page{{Page: 40}}},
	}
	b := testutil.MakeKeyStore(t, unsorted, &testutil.KeyStoreOptions{Prefix: []int{1, 0}})

	_, err := key.New(b, nil)
	if diff := cmp.Diff(invariants.ErrUnsorted, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("New (-want, +got):\n%s", diff)
	}
}
