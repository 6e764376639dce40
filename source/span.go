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

package source

import (
	"cmp"
	"fmt"
)

// Spanner is any type with a [Span].
type Spanner interface {
	// Should return the zero [Span] to indicate that it does not contribute
	// span information.
	Span() Span
}

// Span is a half-open byte range [Start, End) within a registered file.
//
// Spans hold only the file handle and two offsets; they are cheap values
// that remain valid for the lifetime of the registry that issued the
// handle. A zero-width span (Start == End) is valid and denotes an
// insertion point.
type Span struct {
	// The handle of the file this span refers to.
	File FileID

	// The start and end byte offsets for this span.
	Start, End int
}

// IsZero returns whether or not this is the zero span.
func (s Span) IsZero() bool {
	return s.File.IsZero()
}

// Len returns the length of this span, in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Span implements [Spanner].
func (s Span) Span() Span {
	return s
}

// Compare orders spans by (file, start, end), giving diagnostics a
// deterministic span ordering. Declaration order breaks remaining ties.
func (s Span) Compare(other Span) int {
	if diff := s.File.compare(other.File); diff != 0 {
		return diff
	}
	if diff := cmp.Compare(s.Start, other.Start); diff != 0 {
		return diff
	}
	return cmp.Compare(s.End, other.End)
}

// Join returns the smallest span that contains both s and other.
//
// If either span is zero, the other is returned unchanged. Joining spans
// from different files is a programming error and panics.
func (s Span) Join(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	if s.File != other.File {
		panic(fmt.Sprintf("nurse/source: joined spans from distinct files: %v != %v", s.File, other.File))
	}

	return Span{
		File:  s.File,
		Start: min(s.Start, other.Start),
		End:   max(s.End, other.End),
	}
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	return fmt.Sprintf("%v[%d:%d]", s.File, s.Start, s.End)
}
