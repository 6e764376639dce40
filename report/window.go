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

package report

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
	"unicode"

	"github.com/commonkestrel/nurse/internal/ext/unicodex"
	"github.com/commonkestrel/nurse/internal/interval"
	"github.com/commonkestrel/nurse/source"
)

const maxMultilinesPerWindow = 8

// layoutConfig carries the renderer knobs the layout algorithm consults.
type layoutConfig struct {
	// Hard cap on rendered line width; 0 means unlimited.
	maxWidth int
	// A multi-line span taller than this many lines renders with its middle
	// omitted.
	maxSpanLines int
	// How many leading and trailing lines of an omitted range remain
	// visible.
	contextLines int
}

// window is an intermediate structure for rendering an annotated code
// snippet consisting of multiple spans in the same file.
type window struct {
	file *source.File
	// The line number at which the text starts in the overall source file.
	start int
	// The byte offset range this window's text occupies in the containing
	// source file.
	offsets [2]int
	// All underline elements in this window, sorted by cmpUnderlines.
	underlines []underline
	multilines []multiline
}

// buildWindow builds a diagnostic window for the given annotations, which
// must all refer to the same file.
//
// This is separate from [window.Render] because it performs layout
// decisions that cannot happen in the middle of actually rendering the
// source code.
func buildWindow(level Level, annotations []Annotation) *window {
	w := new(window)
	w.file = annotations[0].File
	text := w.file.Text()

	// Calculate the range of the file we will be printing. This is given
	// by every line that has a piece of diagnostic in it. To find this, we
	// calculate the join of all of the spans in the window, and find the
	// nearest \n runes in the text.
	w.start = annotations[0].Start.Line
	w.offsets[0] = annotations[0].Start.Offset
	for _, annotation := range annotations {
		w.start = min(w.start, annotation.Start.Line)
		w.offsets[0] = min(w.offsets[0], annotation.Start.Offset)
		w.offsets[1] = max(w.offsets[1], annotation.End.Offset)
	}
	// Now, find the newlines before and after the given ranges,
	// respectively. This snaps the range to start immediately after a
	// newline (or SOF) and end immediately before a newline (or EOF).
	w.offsets[0] = strings.LastIndexByte(text[:w.offsets[0]], '\n') + 1
	if end := strings.IndexByte(text[w.offsets[1]:], '\n'); end != -1 {
		w.offsets[1] += end
	} else {
		w.offsets[1] = len(text)
	}

	// Now, convert each annotation into an underline or multiline.
	for _, annotation := range annotations {
		isMulti := annotation.Start.Line != annotation.End.Line

		if isMulti && len(w.multilines) < maxMultilinesPerWindow {
			w.multilines = append(w.multilines, multiline{
				start:      annotation.Start.Line,
				end:        annotation.End.Line,
				startWidth: annotation.Start.Column,
				endWidth:   annotation.End.Column,
				level:      secondaryLevel,
				message:    annotation.Message,
			})
			ml := &w.multilines[len(w.multilines)-1]

			// Calculate whether this annotation starts on the first
			// non-space rune of the line; if so the opening bracket hugs
			// the gutter instead of reaching over the code.
			if annotation.Start.Offset != 0 {
				firstLineStart := strings.LastIndexByte(text[:annotation.Start.Offset], '\n')
				if !strings.ContainsFunc(
					text[firstLineStart+1:annotation.Start.Offset],
					func(r rune) bool { return !unicode.IsSpace(r) },
				) {
					ml.startWidth = 0
				}
			}

			if annotation.Primary {
				ml.level = level
			}
			continue
		}

		w.underlines = append(w.underlines, underline{
			line:    annotation.Start.Line,
			start:   annotation.Start.Column,
			end:     annotation.End.Column,
			level:   secondaryLevel,
			message: annotation.Message,
		})

		ul := &w.underlines[len(w.underlines)-1]
		if annotation.Primary {
			ul.level = level
		}

		if isMulti {
			// This is an "overflow multiline" for diagnostics with too
			// many multilines. In this case, we want to end the underline
			// at the end of the first line.
			lineEnd := strings.IndexByte(text[annotation.Start.Offset:], '\n')
			if lineEnd == -1 {
				lineEnd = len(text)
			} else {
				lineEnd += annotation.Start.Offset
			}
			ul.end = ul.start + unicodex.Measure(
				ul.start-1, text[annotation.Start.Offset:lineEnd], true)
		}

		// A zero-width span still renders a single caret at its insertion
		// point.
		if ul.Len() == 0 {
			ul.end++
		}
	}

	slices.SortStableFunc(w.underlines, cmpUnderlines)
	slices.SortStableFunc(w.multilines, cmpMultilines)
	return w
}

// Render renders this window into out.
//
// lineBarWidth is the width of this window's line number gutter; it is
// constant for every row of the window so that numbers stay right-aligned
// and source text stays left-aligned.
func (w *window) Render(lineBarWidth int, c *styleSheet, cfg layoutConfig, out *strings.Builder) {
	// lineInfo is layout information for a single line of this window.
	// There is one lineInfo for each line of the file we intend to render,
	// as given by w.offsets.
	type lineInfo struct {
		// The multilines whose connector pipes intersect with this line.
		sidebar []*multiline
		// Strings to render verbatim under the actual source code line.
		// This makes it possible to lay out all of the annotation rows
		// ahead of time instead of interleaved with rendering the source
		// lines.
		underlines []string
		// Whether this line should be printed in the window. Used to elide
		// the middle of very tall multilines.
		shouldEmit bool
	}

	text := w.file.Text()
	lines := strings.Split(text[w.offsets[0]:w.offsets[1]], "\n")
	info := make([]lineInfo, len(lines))

	// First, lay out the multilines, and compute how wide the sidebar is.
	for i := range w.multilines {
		multi := &w.multilines[i]

		// Assign each multiline a "sidebar index", the column its
		// connecting pipes are placed on: the leftmost index that does not
		// conflict with any already-placed multiline intersecting this
		// one's line range. We cannot simply take the max of their indices,
		// because this multiline may only intersect multis on lines that
		// use, say, indices 0 and 2. A bitset over the already-laid-out
		// multis in range finds the least unused index; the window builder
		// caps the number of multilines so the bitset cannot overflow.
		var multilineBitset uint
		for line := multi.start; line <= multi.end; line++ {
			for col, ml := range info[line-w.start].sidebar {
				if ml != nil {
					multilineBitset |= 1 << col
				}
			}
		}
		idx := bits.TrailingZeros(^multilineBitset)

		for line := multi.start; line <= multi.end; line++ {
			sidebar := &info[line-w.start].sidebar
			for len(*sidebar) < idx+1 {
				*sidebar = append(*sidebar, nil)
			}
			(*sidebar)[idx] = multi
		}

		// Decide which of the spanned lines are shown. Every line of the
		// range is a source row, unless the range is too tall, in which
		// case only the first and last contextLines lines survive and the
		// emit loop below renders an omission marker for the gap.
		height := multi.end - multi.start + 1
		if height <= cfg.maxSpanLines {
			for line := multi.start; line <= multi.end; line++ {
				info[line-w.start].shouldEmit = true
			}
		} else {
			for line := multi.start; line < multi.start+cfg.contextLines; line++ {
				info[line-w.start].shouldEmit = true
			}
			for line := multi.end - cfg.contextLines + 1; line <= multi.end; line++ {
				info[line-w.start].shouldEmit = true
			}
		}
	}
	var sidebarLen int
	for i := range info {
		sidebarLen = max(sidebarLen, len(info[i].sidebar))
	}

	// Next, we can render the underline rows. This aggregates all
	// underlines for the same line, packs them into annotation rows, and
	// renders each row under the line.
	parts := partition(w.underlines, func(a, b *underline) bool { return a.line != b.line })
	parts(func(_ int, part []underline) bool {
		cur := &info[part[0].line-w.start]
		cur.shouldEmit = true

		// A "sidebar prefix" for this line, determined by any sidebars
		// active on this line, even if they end on it.
		sidebar := renderSidebar(sidebarLen, -1, -1, c, cur.sidebar)

		// Pack the underlines into rows. part is sorted so that earlier
		// starts come first and, for equal starts, longer spans come
		// first; first-fit packing therefore places an enclosing span
		// above the spans it encloses, and disjoint spans share a row.
		var rows interval.Rows[int, *underline]
		for i := range part {
			ul := &part[i]
			rows.Insert(ul.start, ul.end-1, ul)
		}

		// Messages that did not fit inline on their row; rendered on
		// trailing rows with connector pipes.
		var rest []*underline

		for rowIdx := range rows.Len() {
			var row []*underline
			for _, ul := range rows.Row(rowIdx) {
				row = append(row, ul)
			}

			// Lay the row's underlines into a column buffer. Rows are
			// non-overlapping by construction, so no cell is written
			// twice.
			var buf []*underline
			for _, ul := range row {
				if len(buf) < ul.end-1 {
					buf = append(buf, make([]*underline, ul.end-1-len(buf))...)
				}
				for j := ul.start - 1; j < ul.end-1; j++ {
					buf[j] = ul
				}
			}

			// Convert the buffer into a styled string.
			var carets strings.Builder
			runs := partition(buf, func(a, b **underline) bool { return *a != *b })
			runs(func(_ int, run []*underline) bool {
				ul := run[0]
				if ul == nil {
					carets.WriteString(c.reset)
				} else {
					carets.WriteString(c.BoldForLevel(ul.level))
				}
				for range run {
					switch {
					case ul == nil:
						carets.WriteByte(' ')
					case ul.level == secondaryLevel:
						carets.WriteByte('-')
					default:
						carets.WriteByte('^')
					}
				}
				return true
			})

			// The rightmost underline of the row gets its message inline,
			// when it fits within the configured width; everything else
			// waits for the pipe rows.
			rightmost := row[0]
			for _, ul := range row {
				if ul.end > rightmost.end {
					rightmost = ul
				}
			}

			line := strings.TrimRight(carets.String(), " ")
			inline := rightmost.message != "" &&
				messageFits(cfg, lineBarWidth, sidebarLen, rightmost.end, rightmost.message)
			if inline {
				line += " " + c.BoldForLevel(rightmost.level) + rightmost.message
			}
			cur.underlines = append(cur.underlines, sidebar+line)
			if !inline && rightmost.message != "" {
				// Wrap the message onto continuation rows aligned under
				// the underline's start column.
				cur.underlines = append(cur.underlines,
					continuationRows(cfg, c, sidebar, rightmost)...)
			}

			for _, ul := range row {
				if ul != rightmost && ul.message != "" {
					rest = append(rest, ul)
				}
			}
		}

		// Now, all the leftover messages, one per line. For each message,
		// we also draw pipes above it to connect it to its underline.
		// There are two layers per message: the pipes, and the message
		// itself, so that every message has a pipe directly above it.
		var buf []byte
		for idx := range rest {
			buf = buf[:0]

			// rest is not necessarily ordered left to right, so sort the
			// pending pipes first. Quadratic, but nobody puts more than a
			// handful of annotations on one line.
			restSorted := slices.Clone(rest[idx:])
			slices.SortFunc(restSorted, func(a, b *underline) int {
				return a.start - b.start
			})

			var nonColorLen int
			for _, ul := range restSorted {
				col := ul.start - 1
				for nonColorLen < col {
					buf = append(buf, ' ')
					nonColorLen++
				}

				if nonColorLen == col {
					// Two pipes may appear in the same column, hence the
					// conditional.
					buf = append(buf, c.BoldForLevel(ul.level)...)
					buf = append(buf, '|')
					nonColorLen++
				}
			}

			cur.underlines = append(cur.underlines, strings.TrimRight(sidebar+string(buf), " "))

			ul := rest[idx]
			actualStart := ul.start - 1
			for _, other := range rest[idx:] {
				if other.start <= ul.start {
					actualStart += len(c.BoldForLevel(other.level))
				}
			}
			for len(buf) < actualStart {
				buf = append(buf, ' ')
			}
			buf = append(buf[:actualStart], ul.message...)
			cur.underlines = append(cur.underlines, strings.TrimRight(sidebar+string(buf), " "))
		}

		return true
	})

	// Now that the underlines are laid out, add the starts and ends of all
	// of the multilines, which go after the underline rows:
	//
	//   code
	//  ____^
	// | code code code
	// \______________^ message
	var line strings.Builder
	for i := range info {
		cur := &info[i]
		prevStart := -1
		for j, ml := range cur.sidebar {
			if ml == nil {
				continue
			}

			line.Reset()
			var isStart bool
			switch w.start + i {
			case ml.start:
				if ml.startWidth == 0 {
					continue
				}

				isStart = true
				fallthrough
			case ml.end:
				// We need to be flush with the sidebar here, so we trim
				// the trailing space.
				sidebar := []byte(strings.TrimRight(renderSidebar(0, -1, prevStart, c, cur.sidebar[:j+1]), " "))

				// Erase the bars of any multis before this one that end on
				// the same line.
				if !isStart {
					for i, otherML := range cur.sidebar[:j+1] {
						if otherML != nil && otherML.end == ml.end {
							// We assume all the color codes have the same
							// byte length.
							codeLen := len(c.bAccent)
							idx := i*(2+codeLen) + codeLen
							if idx < len(sidebar) {
								sidebar[idx] = ' '
							}
						}
					}
				}

				// Delete the last pipe and replace it with a slash or
				// space, depending on orientation.
				line.Write(sidebar[:len(sidebar)-1])
				if isStart {
					line.WriteByte(' ')
				} else {
					line.WriteByte('\\')
				}

				// Pad out to the gutter of the code block.
				remaining := sidebarLen - (j + 1)
				padByRune(&line, remaining*2, '_')

				// Pad to right before we need to insert a ^ or -.
				if isStart {
					padByRune(&line, ml.startWidth-1, '_')
				} else {
					padByRune(&line, ml.endWidth-1, '_')
				}

				if ml.level == secondaryLevel {
					line.WriteByte('-')
				} else {
					line.WriteByte('^')
				}
				if !isStart && ml.message != "" {
					line.WriteByte(' ')
					line.WriteString(ml.message)
				}
				cur.underlines = append(cur.underlines, line.String())
			}

			if isStart {
				prevStart = j
			} else {
				prevStart = -1
			}
		}
	}

	// Make sure to emit any lines adjacent to another line we want to
	// emit, so long as that line contains printable characters.
	//
	// We copy the emit set before this transformation; doing it in-place
	// would cause every nonempty line after a must-emit line to be shown.
	mustEmit := make(map[int]bool)
	for i := range info {
		if info[i].shouldEmit {
			mustEmit[i] = true
		}
	}
	for i := range info {
		// At least two of the conditions below must hold for this line to
		// be pulled in.
		var score int
		if strings.IndexFunc(lines[i], unicode.IsGraphic) != 0 {
			score++
		}
		if mustEmit[i-1] {
			score++
		}
		if mustEmit[i+1] {
			score++
		}
		if score >= 2 {
			info[i].shouldEmit = true
		}
	}

	lastEmit := 0
	for i, lineText := range lines {
		cur := &info[i]
		lineno := i + w.start

		if !cur.shouldEmit {
			continue
		}

		// If the last multi of the previous line starts on that line, make
		// its pipe here a slash so that it connects properly.
		slashAt := -1
		if i > 0 {
			prevSidebar := info[i-1].sidebar
			if len(prevSidebar) > 0 &&
				prevSidebar[len(prevSidebar)-1] != nil &&
				prevSidebar[len(prevSidebar)-1].start == lineno-1 &&
				prevSidebar[len(prevSidebar)-1].startWidth > 0 {
				slashAt = len(prevSidebar) - 1
			}
		}
		sidebar := renderSidebar(sidebarLen, lineno, slashAt, c, cur.sidebar)

		if i > 0 && !info[i-1].shouldEmit {
			// Generate a visual break for the lines we are not showing.
			omitted := i - lastEmit - 1
			out.WriteByte('\n')
			out.WriteString(c.nAccent)
			padBy(out, lineBarWidth-2)
			out.WriteString("...  ")

			// Generate a sidebar as before, but this time against the last
			// line that was actually emitted.
			slashAt := -1
			prevSidebar := info[lastEmit].sidebar
			if len(prevSidebar) > 0 &&
				prevSidebar[len(prevSidebar)-1] != nil &&
				prevSidebar[len(prevSidebar)-1].start == lastEmit+w.start &&
				prevSidebar[len(prevSidebar)-1].startWidth > 0 {
				slashAt = len(prevSidebar) - 1
			}

			out.WriteString(renderSidebar(sidebarLen, lineno, slashAt, c, cur.sidebar))
			fmt.Fprintf(out, "(%d line%v omitted)", omitted, plural(omitted))
		}

		fmt.Fprintf(out, "\n%s%*d | %s%s", c.nAccent, lineBarWidth, lineno, sidebar, c.reset)
		lastEmit = i

		// Render the source text, expanding tabstops and escaping
		// non-printable characters exactly the way column resolution
		// measured them.
		uw := &unicodex.Width{
			Tabstop:        unicodex.TabstopWidth,
			EscapeNonPrint: true,
			Out:            out,
		}
		_, _ = uw.WriteString(lineText)

		// If this happens to be an annotated line, this is when it gets
		// annotated.
		for _, annotation := range cur.underlines {
			out.WriteByte('\n')
			out.WriteString(c.nAccent)
			padBy(out, lineBarWidth)
			out.WriteString(" | ")
			out.WriteString(annotation)
		}
	}
}

// messageFits reports whether an underline's message can sit inline at the
// end of its annotation row without exceeding the configured width.
func messageFits(cfg layoutConfig, lineBarWidth, sidebarLen, end int, message string) bool {
	if cfg.maxWidth == 0 {
		return true
	}
	used := lineBarWidth + 3 + sidebarLen*2 + (end - 1) + 1
	return used+unicodex.Measure(0, message, true) <= cfg.maxWidth
}

// continuationRows wraps a message that did not fit inline onto rows
// beneath its underline, indented to the underline's start column. A word
// too wide for even a full continuation row is truncated with a marker
// rather than aborting the render.
func continuationRows(cfg layoutConfig, c *styleSheet, sidebar string, ul *underline) []string {
	indent := ul.start - 1
	width := cfg.maxWidth - indent
	if width < 1 {
		width = 1
	}

	var rows []string
	uw := &unicodex.Width{EscapeNonPrint: true}
	for line := range uw.WordWrap(ul.message, width) {
		if unicodex.Measure(0, line, true) > width {
			line = unicodex.Truncate(line, width)
		}
		var buf strings.Builder
		buf.WriteString(sidebar)
		padBy(&buf, indent)
		buf.WriteString(c.BoldForLevel(ul.level))
		buf.WriteString(line)
		rows = append(rows, buf.String())
	}
	return rows
}

type underline struct {
	line       int
	start, end int
	level      Level
	message    string
}

func (u underline) Len() int {
	return u.end - u.start
}

// cmpUnderlines sorts ascending on line, then ascending on start column,
// then descending on length, so that for equal starts the enclosing span
// sorts first. Ties preserve declaration order under a stable sort.
func cmpUnderlines(a, b underline) int {
	if diff := a.line - b.line; diff != 0 {
		return diff
	}
	if diff := a.start - b.start; diff != 0 {
		return diff
	}
	return b.Len() - a.Len()
}

type multiline struct {
	start, end           int
	startWidth, endWidth int
	level                Level
	message              string
}

// cmpMultilines sorts ascending on line, then descending on end. This sort
// order is intended to promote visual nesting of multis from left to right.
func cmpMultilines(a, b multiline) int {
	if diff := a.start - b.start; diff != 0 {
		return diff
	}
	return b.end - a.end
}

func renderSidebar(bars, lineno, slashAt int, c *styleSheet, multis []*multiline) string {
	var sidebar strings.Builder
	for i, ml := range multis {
		if ml == nil {
			sidebar.WriteString("  ")
			continue
		}

		sidebar.WriteString(c.BoldForLevel(ml.level))

		switch {
		case slashAt == i:
			sidebar.WriteByte('/')
		case lineno != ml.start:
			sidebar.WriteByte('|')
		case ml.startWidth == 0:
			sidebar.WriteByte('/')
		default:
			sidebar.WriteByte(' ')
		}
		sidebar.WriteByte(' ')
	}
	for sidebar.Len() < bars*2 {
		sidebar.WriteByte(' ')
	}
	return sidebar.String()
}

// partition returns an iterator of subslices of s such that each yielded
// slice is delimited according to delimit. Also yields the starting index
// of the subslice.
//
// In other words, suppose delimit is !=. Then, the slice [a a a b c c] is
// yielded as the subslices [a a a], [b], and [c c].
//
// Will never yield an empty slice.
func partition[T any](s []T, delimit func(a, b *T) bool) func(func(int, []T) bool) {
	return func(yield func(int, []T) bool) {
		var start int
		for i := 1; i < len(s); i++ {
			if delimit(&s[i-1], &s[i]) {
				if !yield(start, s[start:i]) {
					return
				}
				start = i
			}
		}
		rest := s[start:]
		if len(rest) > 0 {
			yield(start, rest)
		}
	}
}

func padBy(out *strings.Builder, spaces int) {
	for range spaces {
		out.WriteByte(' ')
	}
}

func padByRune(out *strings.Builder, spaces int, r rune) {
	for range spaces {
		out.WriteRune(r)
	}
}
