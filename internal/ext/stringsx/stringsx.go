// Copyright 2025-2026 The Nurse Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// package stringsx contains extensions to Go's package strings.
package stringsx

import (
	"iter"
	"strings"
)

// Split is like [strings.Split], but returning an iterator instead of a slice.
func Split[Sep string | rune](s string, sep Sep) iter.Seq[string] {
	r := string(sep)
	return func(yield func(string) bool) {
		for {
			chunk, rest, found := strings.Cut(s, r)
			s = rest
			if !yield(chunk) || !found {
				return
			}
		}
	}
}

// Lines returns an iterator over the lines in the given string.
//
// It is equivalent to Split(s, '\n').
func Lines(s string) iter.Seq[string] {
	return Split(s, '\n')
}

// PartitionKey returns an iterator over chunks of s on which key returns the
// same value for every rune, along with the byte offset of each chunk.
//
// In other words, PartitionKey("ab  cd", unicode.IsSpace) yields
// (0, "ab"), (2, "  "), and (4, "cd").
func PartitionKey(s string, key func(rune) bool) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		var start int
		var prev, first = false, true
		for i, r := range s {
			k := key(r)
			if first {
				prev, first = k, false
				continue
			}
			if k != prev {
				if !yield(start, s[start:i]) {
					return
				}
				start, prev = i, k
			}
		}
		if len(s) > 0 {
			yield(start, s[start:])
		}
	}
}
