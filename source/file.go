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
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"

	"github.com/commonkestrel/nurse/internal/ext/unicodex"
)

// LengthUnit is a unit of measurement for the column of a [Location].
type LengthUnit int8

const (
	// ByteLength measures columns in UTF-8 bytes.
	ByteLength LengthUnit = 1 + iota
	// RuneLength measures columns in Unicode scalar values.
	RuneLength
	// UTF16Length measures columns in UTF-16 code units, the measurement
	// used by the Language Server Protocol.
	UTF16Length
	// TermWidth measures columns in terminal cells as the renderer draws
	// them: tabs expand to the next tabstop, grapheme clusters count
	// their display width, and non-printable runes count as their
	// <U+NNNN> escape.
	TermWidth
)

// String implements [fmt.Stringer].
func (u LengthUnit) String() string {
	switch u {
	case ByteLength:
		return "bytes"
	case RuneLength:
		return "runes"
	case UTF16Length:
		return "utf16"
	case TermWidth:
		return "columns"
	default:
		return "unknown"
	}
}

// Location is a user-displayable location within a source code file.
type Location struct {
	// The byte offset for this location.
	Offset int

	// The line and column for this location, 1-indexed.
	//
	// The units of measurement for column depend on the [LengthUnit] used
	// when constructing it.
	//
	// Because these are 1-indexed, a zero Line can be used as a sentinel.
	Line, Column int
}

// File is a single registered source text.
//
// It contains additional book-keeping information for resolving span
// locations. A File is immutable once registered.
type File struct {
	path, text string

	once sync.Once
	// The byte offset of the start of each line: lineIndex[0] is always 0,
	// and lineIndex[i] is the offset of the first byte after the i-1th
	// newline. Strictly increasing; its length is the line count.
	lineIndex []int
}

// NewFile constructs a new source file.
//
// Most callers should go through [Registry.Register] instead, which issues
// a handle that spans can carry.
func NewFile(path, text string) *File {
	return &File{path: path, text: text}
}

// Path returns this file's filesystem path.
//
// It doesn't need to be a real path; it is only used for display and for
// grouping spans by file.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Text returns this file's textual contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// LineCount returns the number of lines in this file.
//
// A file always has at least one line; a trailing newline opens a final
// empty line.
func (f *File) LineCount() int {
	return len(f.lines())
}

// Line returns the given 1-indexed line, including its trailing newline.
func (f *File) Line(line int) string {
	start, end := f.LineOffsets(line)
	return f.text[start:end]
}

// LineOffsets returns the byte offsets for the given 1-indexed line,
// including its trailing newline.
func (f *File) LineOffsets(line int) (start, end int) {
	lines := f.lines()
	start = lines[line-1]
	if line < len(lines) {
		end = lines[line]
	} else {
		end = len(f.text)
	}
	return start, end
}

// Location searches this file's line index to build full Location
// information for the given byte offset.
//
// This operation is O(log n).
func (f *File) Location(offset int, units LengthUnit) Location {
	if f == nil && offset == 0 {
		return Location{Offset: 0, Line: 1, Column: 1}
	}

	lines := f.lines()

	// Find the greatest index such that lines[line] <= offset.
	line, exact := slices.BinarySearch(lines, offset)
	if !exact {
		line--
	}

	chunk := f.text[lines[line]:offset]
	var column int
	switch units {
	case ByteLength:
		column = len(chunk)
	case RuneLength:
		for range chunk {
			column++
		}
	case UTF16Length:
		for _, r := range chunk {
			column += utf16.RuneLen(r)
		}
	case TermWidth:
		column = unicodex.Measure(0, chunk, true)
	}

	return Location{
		Offset: offset,
		Line:   line + 1,
		Column: column + 1,
	}
}

// InverseLocation inverts the operation in [File.Location].
//
// line and column should be 1-indexed, and units should be the units used to
// measure the column. If units is [TermWidth], this function panics, because
// inverting a [TermWidth] location is ambiguous.
func (f *File) InverseLocation(line, column int, units LengthUnit) Location {
	if f == nil && line == 1 && column == 1 {
		return Location{Offset: 0, Line: 1, Column: 1}
	}

	start, end := f.LineOffsets(line)
	chunk := f.text[start:end]
	remaining := column
	var offset int
	switch units {
	case ByteLength:
		offset = remaining - 1
	case RuneLength:
		for offset = range chunk {
			remaining--
			if remaining <= 0 {
				break
			}
		}
	case UTF16Length:
		var r rune
		for offset, r = range chunk {
			remaining -= utf16.RuneLen(r)
			if remaining <= 0 {
				break
			}
		}
	case TermWidth:
		panic("nurse/source: passed TermWidth to File.InverseLocation")
	}

	return Location{
		Line: line, Column: column,
		Offset: start + offset,
	}
}

// Indentation returns the indentation preceding the given offset.
//
// Indentation is defined as the substring between the last newline before
// the offset and the first non-whitespace rune after that newline.
func (f *File) Indentation(offset int) string {
	nl := strings.LastIndexByte(f.Text()[:offset], '\n') + 1
	margin := strings.IndexFunc(f.Text()[nl:], func(r rune) bool {
		return !unicode.In(r, unicode.Pattern_White_Space)
	})
	if margin == -1 {
		margin = len(f.Text()) - nl
	}
	return f.Text()[nl : nl+margin]
}

func (f *File) lines() []int {
	// Compute the line index on-demand; files are often registered and
	// never resolved against.
	f.once.Do(func() {
		f.lineIndex = append(f.lineIndex, 0)
		for i := 0; i < len(f.text); i++ {
			if f.text[i] == '\n' {
				f.lineIndex = append(f.lineIndex, i+1)
			}
		}
	})
	return f.lineIndex
}
