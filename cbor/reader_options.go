// Copyright 2026 Blink Labs Software
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

package cbor

import (
	"log/slog"
)

// DefaultMaxDepth is the default limit on nested arrays, maps and tags
const DefaultMaxDepth = 256

// ReaderOptionFunc is a type that represents functions that modify the Reader config
type ReaderOptionFunc func(*Reader)

// WithMaxDepth specifies the maximum nesting depth of arrays, maps and tags.
// Values below 1 leave the default in place
func WithMaxDepth(depth int) ReaderOptionFunc {
	return func(r *Reader) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithZeroCopy specifies whether decoded strings and raw spans alias the
// input buffer instead of owning a copy. The default is to copy
func WithZeroCopy(zeroCopy bool) ReaderOptionFunc {
	return func(r *Reader) {
		r.zeroCopy = zeroCopy
	}
}

// WithStrictMapKeys specifies whether a map containing two keys with the same
// value is rejected. The default is to keep duplicates as found
func WithStrictMapKeys(strict bool) ReaderOptionFunc {
	return func(r *Reader) {
		r.strictMapKeys = strict
	}
}

// WithLogger specifies the logger used to report decode failures. If none is
// provided, the default logger is used
func WithLogger(logger *slog.Logger) ReaderOptionFunc {
	return func(r *Reader) {
		r.logger = logger
	}
}
