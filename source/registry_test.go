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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonkestrel/nurse/source"
)

func TestRegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := source.NewRegistry()
	id := r.Register("a.ks", "hello\nworld\n")
	require.False(t, id.IsZero())

	file, err := r.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, "a.ks", file.Path())
	assert.Equal(t, "hello\nworld\n", file.Text())

	// Duplicate paths get distinct handles.
	dup := r.Register("a.ks", "other contents")
	assert.NotEqual(t, id, dup)
}

func TestLookupUnknown(t *testing.T) {
	t.Parallel()

	r := source.NewRegistry()
	r.Register("a.ks", "text")

	_, err := r.Lookup(source.FileID{})
	assert.ErrorIs(t, err, source.ErrUnknownFile)

	// Handles are not transferable between registries, even when the
	// index would be in range.
	other := source.NewRegistry()
	alien := other.Register("b.ks", "text")
	_, err = r.Lookup(alien)
	assert.ErrorIs(t, err, source.ErrUnknownFile)
}

func TestLineText(t *testing.T) {
	t.Parallel()

	r := source.NewRegistry()
	id := r.Register("lines.ks", "first\nsecond\n")

	line, err := r.LineText(id, 1)
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = r.LineText(id, 2)
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	// The trailing newline opens an empty final line.
	line, err = r.LineText(id, 3)
	require.NoError(t, err)
	assert.Equal(t, "", line)

	_, err = r.LineText(id, 0)
	assert.ErrorIs(t, err, source.ErrLineOutOfRange)
	_, err = r.LineText(id, 4)
	assert.ErrorIs(t, err, source.ErrLineOutOfRange)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := source.NewRegistry()
	id := r.Register("resolve.ks", "ab\ncdef\n")

	start, end, err := r.Resolve(r.Span(id, 3, 7), source.TermWidth)
	require.NoError(t, err)
	assert.Equal(t, source.Location{Offset: 3, Line: 2, Column: 1}, start)
	assert.Equal(t, source.Location{Offset: 7, Line: 2, Column: 5}, end)

	text, err := r.Text(r.Span(id, 3, 7))
	require.NoError(t, err)
	assert.Equal(t, "cdef", text)
}

func TestResolveOutOfBounds(t *testing.T) {
	t.Parallel()

	r := source.NewRegistry()
	id := r.Register("short.ks", "tiny")

	// Out-of-bounds offsets fail instead of clamping.
	for _, span := range []source.Span{
		r.Span(id, 0, 5),
		r.Span(id, 9, 12),
		r.Span(id, -1, 2),
		r.Span(id, 3, 2),
	} {
		_, _, err := r.Resolve(span, source.ByteLength)
		assert.ErrorIs(t, err, source.ErrSpanOutOfBounds, "span %v", span)
		_, err = r.Text(span)
		assert.ErrorIs(t, err, source.ErrSpanOutOfBounds, "span %v", span)
	}
}

func TestEOF(t *testing.T) {
	t.Parallel()

	r := source.NewRegistry()
	id := r.Register("eof.ks", "stuff\n")

	span, err := r.EOF(id)
	require.NoError(t, err)
	assert.Equal(t, 0, span.Len())
	assert.Equal(t, 6, span.Start)

	start, end, err := r.Resolve(span, source.TermWidth)
	require.NoError(t, err)
	assert.Equal(t, start, end)
	assert.Equal(t, 2, start.Line)
	assert.Equal(t, 1, start.Column)
}

func TestEmptyFile(t *testing.T) {
	t.Parallel()

	r := source.NewRegistry()
	id := r.Register("empty.ks", "")

	file, err := r.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, 1, file.LineCount())

	span, err := r.EOF(id)
	require.NoError(t, err)
	assert.Equal(t, source.Span{File: id, Start: 0, End: 0}, span)

	start, _, err := r.Resolve(span, source.TermWidth)
	require.NoError(t, err)
	assert.Equal(t, source.Location{Offset: 0, Line: 1, Column: 1}, start)
}
