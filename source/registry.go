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
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

var (
	// ErrUnknownFile is returned when a [FileID] was not issued by the
	// registry it is used with.
	ErrUnknownFile = errors.New("unknown file handle")

	// ErrLineOutOfRange is returned when a line number exceeds a file's
	// line count.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrSpanOutOfBounds is returned when a span's offsets exceed the
	// registered text's length. This indicates a bug at the span's
	// construction site; offsets are never clamped, because a clamped span
	// would render a misleading location.
	ErrSpanOutOfBounds = errors.New("span out of bounds")
)

// FileID is an opaque handle for a file registered with a [Registry].
//
// Handles are only meaningful to the registry that issued them; using a
// handle with any other registry fails with [ErrUnknownFile]. The zero
// FileID is not a valid handle.
type FileID struct {
	registry, index uint32
}

// IsZero returns whether this is the zero handle.
func (id FileID) IsZero() bool {
	return id == FileID{}
}

// String implements [fmt.Stringer].
func (id FileID) String() string {
	if id.IsZero() {
		return "file(none)"
	}
	return fmt.Sprintf("file(%d.%d)", id.registry, id.index)
}

func (id FileID) compare(other FileID) int {
	if diff := cmp.Compare(id.registry, other.registry); diff != 0 {
		return diff
	}
	return cmp.Compare(id.index, other.index)
}

// nextRegistry distinguishes handles issued by different registries within
// the same process.
var nextRegistry atomic.Uint32

// Registry owns the source texts that diagnostics point into.
//
// Mutating operations (Register) must be serialized by the caller; all
// other operations are read-only against registered files and may be
// shared freely once registration is done.
type Registry struct {
	id    uint32
	files []*File
}

// NewRegistry returns a new, empty registry.
func NewRegistry() *Registry {
	return &Registry{id: nextRegistry.Add(1)}
}

// Register stores an immutable copy of text under a fresh handle.
//
// Registration always succeeds, including for empty text. The name does not
// need to be a real path, and duplicate names are allowed; every call issues
// a distinct handle. Handles are never reused.
func (r *Registry) Register(path, text string) FileID {
	r.files = append(r.files, NewFile(path, text))
	return FileID{registry: r.id, index: uint32(len(r.files))}
}

// Lookup returns the file registered under the given handle.
func (r *Registry) Lookup(id FileID) (*File, error) {
	if id.registry != r.id || id.index == 0 || int(id.index) > len(r.files) {
		return nil, fmt.Errorf("%w: %v was not issued by this registry", ErrUnknownFile, id)
	}
	return r.files[id.index-1], nil
}

// LineText returns the raw text of a 1-indexed line, excluding its
// terminating newline.
func (r *Registry) LineText(id FileID, line int) (string, error) {
	f, err := r.Lookup(id)
	if err != nil {
		return "", err
	}
	if line < 1 || line > f.LineCount() {
		return "", fmt.Errorf("%w: line %d of %q, which has %d lines",
			ErrLineOutOfRange, line, f.Path(), f.LineCount())
	}
	return strings.TrimSuffix(f.Line(line), "\n"), nil
}

// Span returns a span over [start, end) in the given file.
func (r *Registry) Span(id FileID, start, end int) Span {
	return Span{File: id, Start: start, End: end}
}

// EOF returns a zero-width span at the end of the given file, useful for
// reporting errors at an unexpected end of input.
func (r *Registry) EOF(id FileID) (Span, error) {
	f, err := r.Lookup(id)
	if err != nil {
		return Span{}, err
	}
	eof := len(f.Text())
	return Span{File: id, Start: eof, End: eof}, nil
}

// Resolve maps a span to its start and end locations, measuring columns in
// the given units.
//
// Offsets beyond the registered text fail with [ErrSpanOutOfBounds] rather
// than being clamped.
func (r *Registry) Resolve(span Span, units LengthUnit) (start, end Location, err error) {
	f, err := r.Lookup(span.File)
	if err != nil {
		return Location{}, Location{}, err
	}
	if span.Start < 0 || span.Start > span.End || span.End > len(f.Text()) {
		return Location{}, Location{}, fmt.Errorf("%w: %v in %q, which has %d bytes",
			ErrSpanOutOfBounds, span, f.Path(), len(f.Text()))
	}
	return f.Location(span.Start, units), f.Location(span.End, units), nil
}

// Text returns the text corresponding to the given span.
//
// Like [Registry.Resolve], out-of-bounds offsets fail rather than clamp.
func (r *Registry) Text(span Span) (string, error) {
	f, err := r.Lookup(span.File)
	if err != nil {
		return "", err
	}
	if span.Start < 0 || span.Start > span.End || span.End > len(f.Text()) {
		return "", fmt.Errorf("%w: %v in %q, which has %d bytes",
			ErrSpanOutOfBounds, span, f.Path(), len(f.Text()))
	}
	return f.Text()[span.Start:span.End], nil
}
