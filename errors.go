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
	"github.com/ianlewis/go-dictstore/internal/format"
)

// Errors returned by the stores. Match them with errors.Is.
var (
	ErrInvalidHeader        = format.ErrInvalidHeader
	ErrTruncatedData        = format.ErrTruncatedData
	ErrIndexOutOfRange      = format.ErrIndexOutOfRange
	ErrMissingTerminator    = format.ErrMissingTerminator
	ErrSequenceGap          = format.ErrSequenceGap
	ErrMissingSegment       = format.ErrMissingSegment
	ErrAddressOutOfRange    = format.ErrAddressOutOfRange
	ErrDecompressionFailure = format.ErrDecompressionFailure
	ErrCorruptEncoding      = format.ErrCorruptEncoding
	ErrCorruptIndex         = format.ErrCorruptIndex
	ErrNotFound             = format.ErrNotFound
)
