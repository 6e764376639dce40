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

// package unicodex provides display-width measurement for source text as it
// will appear in a terminal: tabstops expand to the next stop, grapheme
// clusters count their terminal cell width, and unprintable characters can
// be escaped as <U+NNNN>.
package unicodex

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/commonkestrel/nurse/internal/ext/iterx"
	"github.com/commonkestrel/nurse/internal/ext/stringsx"
)

const (
	// TabstopWidth is the size we render all tabstops as.
	TabstopWidth int = 4
	// MaxMessageWidth is the maximum width of a diagnostic message before it
	// is word-wrapped, to try to keep everything within the bounds of a
	// terminal.
	MaxMessageWidth int = 80
)

// NonPrint defines whether or not a rune is considered "unprintable for the
// purposes of diagnostics", that is, whether it is a rune that the rendering
// engine will replace with <U+NNNN> when printing.
func NonPrint(r rune) bool {
	return !strings.ContainsRune(" \r\t\n", r) && !unicode.IsPrint(r)
}

// Width is used for calculating the approximate width of a string in terminal
// columns.
type Width struct {
	// The column at which the text is being rendered. This is necessary for
	// tabstop calculations.
	Column int

	// The width of a tabstop in columns. If set to zero, a default value will
	// be selected.
	Tabstop int

	// If set, non-printable characters are escaped in the format <U+NNNN>.
	EscapeNonPrint bool

	// If non-nil, text will be output to this writer, converting tabs to
	// spaces and escaping unprintables as requested.
	Out io.StringWriter
}

// WriteString writes the given text, advancing w.Column and writing to w.Out.
//
// text must not contain newlines.
func (w *Width) WriteString(text string) (int, error) {
	// We can't just use uniseg.StringWidth, because that doesn't respect
	// tabstops correctly.
	n := 0
	write := func(s string) error {
		if w.Out != nil {
			m, err := w.Out.WriteString(s)
			n += m
			return err
		}
		return nil
	}

	tabstop := w.Tabstop
	if tabstop <= 0 {
		tabstop = TabstopWidth
	}

	for i, next := range iterx.Enumerate(stringsx.Split(text, '\t')) {
		if i > 0 {
			tab := tabstop - (w.Column % tabstop)
			w.Column += tab

			// Repeat(" ", n) will typically not allocate.
			if err := write(strings.Repeat(" ", tab)); err != nil {
				return n, err
			}
		}

		if !w.EscapeNonPrint {
			w.Column += uniseg.StringWidth(next)
			if err := write(next); err != nil {
				return n, err
			}
			continue
		}

		// Handle unprintable characters. We render those as <U+NNNN>.
		for next != "" {
			pos := strings.IndexFunc(next, NonPrint)
			if pos == -1 {
				w.Column += uniseg.StringWidth(next)
				if err := write(next); err != nil {
					return n, err
				}
				break
			}

			chunk := next[:pos]
			nonPrint, size := utf8.DecodeRuneInString(next[pos:])
			next = next[pos+size:]

			escape := fmt.Sprintf("<U+%04X>", nonPrint)
			w.Column += uniseg.StringWidth(chunk) + len(escape)
			if err := write(chunk); err != nil {
				return n, err
			}
			if err := write(escape); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// Measure returns the display width of text when rendered starting at the
// given column.
func Measure(column int, text string, escapeNonPrint bool) int {
	w := Width{Column: column, EscapeNonPrint: escapeNonPrint}
	_, _ = w.WriteString(text)
	return w.Column - column
}

// WordWrap returns an iterator over chunks of text that are no wider than
// width, which can be printed as their own lines.
//
// A single token wider than width is yielded whole; policy for overlong
// tokens belongs to the caller (see [Truncate]).
func (w *Width) WordWrap(text string, width int) iter.Seq[string] {
	return func(yield func(string) bool) {
		// Split along lines first, since those are hard breaks we don't plan
		// to change.
		for line := range stringsx.Lines(text) {
			var column, cursor int
			for start, chunk := range stringsx.PartitionKey(line, unicode.IsSpace) {
				isSpace := strings.TrimSpace(chunk) == ""
				if isSpace && column == 0 {
					continue
				}

				cw := Measure(column, chunk, w.EscapeNonPrint)
				if column+cw <= width {
					column += cw
					continue
				}

				prev := strings.TrimSpace(line[cursor:start])
				if prev != "" && !yield(prev) {
					return
				}

				if isSpace {
					cursor = start + len(chunk)
					column = 0
				} else {
					cursor = start
					column = cw
				}
			}

			rest := strings.TrimSpace(line[cursor:])
			if rest != "" && !yield(rest) {
				return
			}
		}
	}
}

// Truncate cuts text down to at most width terminal columns, replacing the
// final grapheme with a … marker when a cut happens.
func Truncate(text string, width int) string {
	if uniseg.StringWidth(text) <= width {
		return text
	}

	var out strings.Builder
	var column int
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		cw := uniseg.StringWidth(cluster)
		if column+cw > width-1 {
			break
		}
		out.WriteString(cluster)
		column += cw
	}
	out.WriteString("…")
	return out.String()
}
