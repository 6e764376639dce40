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

	"github.com/commonkestrel/nurse/source"
)

func TestLocation(t *testing.T) {
	t.Parallel()

	file := source.NewFile(
		"test",
		"foo\nbar\ncat: 🐈‍⬛\n",
	)

	tests := []struct {
		loc  source.Location
		unit source.LengthUnit
	}{
		{loc: source.Location{Offset: 0, Line: 1, Column: 1}, unit: source.ByteLength},
		{loc: source.Location{Offset: 0, Line: 1, Column: 1}, unit: source.UTF16Length},
		{loc: source.Location{Offset: 0, Line: 1, Column: 1}, unit: source.RuneLength},
		{loc: source.Location{Offset: 0, Line: 1, Column: 1}, unit: source.TermWidth},

		{loc: source.Location{Offset: 2, Line: 1, Column: 3}, unit: source.ByteLength},
		{loc: source.Location{Offset: 2, Line: 1, Column: 3}, unit: source.UTF16Length},
		{loc: source.Location{Offset: 2, Line: 1, Column: 3}, unit: source.RuneLength},
		{loc: source.Location{Offset: 2, Line: 1, Column: 3}, unit: source.TermWidth},

		{loc: source.Location{Offset: 13, Line: 3, Column: 6}, unit: source.ByteLength},
		{loc: source.Location{Offset: 13, Line: 3, Column: 6}, unit: source.UTF16Length},
		{loc: source.Location{Offset: 13, Line: 3, Column: 6}, unit: source.RuneLength},
		{loc: source.Location{Offset: 13, Line: 3, Column: 6}, unit: source.TermWidth},

		{loc: source.Location{Offset: 23, Line: 3, Column: 16}, unit: source.ByteLength},
		{loc: source.Location{Offset: 23, Line: 3, Column: 10}, unit: source.UTF16Length},
		{loc: source.Location{Offset: 23, Line: 3, Column: 9}, unit: source.RuneLength},
		// The ZWJ renders as its <U+200D> escape, splitting the cluster:
		// "cat: " (5) + cat face (2) + escape (8) + square (2), plus one.
		{loc: source.Location{Offset: 23, Line: 3, Column: 18}, unit: source.TermWidth},
	}

	for _, test := range tests {
		t.Run("", func(t *testing.T) {
			t.Logf("%q | %q", file.Text()[:test.loc.Offset], file.Text()[test.loc.Offset:])
			assert.Equal(t, test.loc, file.Location(test.loc.Offset, test.unit), "offset/%s -> line/col", test.unit)

			if test.unit != source.TermWidth {
				assert.Equal(t, test.loc,
					file.InverseLocation(test.loc.Line, test.loc.Column, test.unit),
					"line/col/%s -> offset", test.unit)
			}
		})
	}
}

// For plain text, resolving an offset and re-deriving the offset from the
// resulting line and column must reproduce the original offset.
func TestLocationRoundTrip(t *testing.T) {
	t.Parallel()

	file := source.NewFile("roundtrip", "alpha\nbeta gamma\n\ndelta\n")
	for offset := range len(file.Text()) + 1 {
		loc := file.Location(offset, source.ByteLength)
		assert.Equal(t, offset, loc.Offset)
		assert.Equal(t, offset,
			file.InverseLocation(loc.Line, loc.Column, source.ByteLength).Offset,
			"offset %d", offset)
	}
}

func TestColumnsMonotonic(t *testing.T) {
	t.Parallel()

	file := source.NewFile("mono", "a\tb🐈c d\nplain\n")
	units := []source.LengthUnit{
		source.ByteLength, source.RuneLength, source.UTF16Length, source.TermWidth,
	}

	var offsets []int
	for offset := range file.Text() {
		offsets = append(offsets, offset)
	}
	offsets = append(offsets, len(file.Text()))

	for _, unit := range units {
		prev := source.Location{Line: 1}
		for _, offset := range offsets {
			loc := file.Location(offset, unit)
			if loc.Line == prev.Line {
				assert.GreaterOrEqual(t, loc.Column, prev.Column,
					"%s columns regressed at offset %d", unit, offset)
			}
			prev = loc
		}
	}
}

func TestLineOffsets(t *testing.T) {
	t.Parallel()

	file := source.NewFile("lines", "one\ntwo\nlast")
	assert.Equal(t, 3, file.LineCount())
	assert.Equal(t, "one\n", file.Line(1))
	assert.Equal(t, "two\n", file.Line(2))
	assert.Equal(t, "last", file.Line(3))

	start, end := file.LineOffsets(3)
	assert.Equal(t, 8, start)
	assert.Equal(t, 12, end)
}

func TestIndentation(t *testing.T) {
	t.Parallel()

	file := source.NewFile("indent", "none\n    four\n\ttab then text\n")
	assert.Equal(t, "", file.Indentation(2))
	assert.Equal(t, "    ", file.Indentation(11))
	assert.Equal(t, "\t", file.Indentation(len(file.Text())-2))
}
