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
	"io"
	"strconv"
	"strings"

	"github.com/commonkestrel/nurse/source"
)

// Renderer configures a diagnostic rendering operation.
type Renderer struct {
	// If set, uses a compact one-line format for each diagnostic.
	Compact bool

	// If set, rendering results are enriched with ANSI color escapes.
	Colorize bool

	// Upgrades all warnings to errors.
	WarningsAreErrors bool

	// If set, debug diagnostics will be printed.
	//
	// Ignored by [Renderer.Diagnostic].
	ShowDebug bool

	// Drops diagnostics less severe than this level before rendering.
	// Zero means no filter. Severity ranks from most to least severe as
	// Error, Warning, Note, Debug.
	//
	// Ignored by [Renderer.Diagnostic].
	MinLevel Level

	// Hard cap on the width of rendered lines; 0 means unlimited. Label
	// messages that do not fit are wrapped, and a single word wider than
	// the cap is truncated with a marker instead of failing the render.
	MaxWidth int

	// A multi-line span covering more than this many lines renders with
	// its middle omitted. Zero means the default of 8.
	MaxSpanLines int

	// How many leading and trailing lines of an omitted range stay
	// visible. Zero means the default of 2.
	ContextLines int

	// The severity-to-style table; nil means [DefaultStyles].
	Styles *Styles
}

const (
	defaultMaxSpanLines = 8
	defaultContextLines = 2
)

func (r *Renderer) layoutConfig() layoutConfig {
	cfg := layoutConfig{
		maxWidth:     r.MaxWidth,
		maxSpanLines: r.MaxSpanLines,
		contextLines: r.ContextLines,
	}
	if cfg.maxSpanLines <= 0 {
		cfg.maxSpanLines = defaultMaxSpanLines
	}
	if cfg.contextLines <= 0 {
		cfg.contextLines = defaultContextLines
	}
	return cfg
}

// Render renders a report's queued diagnostics to out, in FIFO order.
//
// In addition to the error and warning tallies, returns a non-nil error
// only if some diagnostics could not be rendered or the sink failed. A
// diagnostic that fails to render is recorded in the returned [*EmitError]
// and rendering continues with the next one, unless the report sets
// [Options.StopOnFirstFailure]. A sink failure stops output; writes are
// never retried.
func (r Renderer) Render(report *Report, out io.Writer) (errorCount, warningCount int, err error) {
	w := &writer{out: out}
	emit := new(EmitError)

	for i := range report.Diagnostics {
		d := &report.Diagnostics[i]
		if !r.ShowDebug && d.level == Debug {
			continue
		}
		if r.MinLevel != 0 && severity(d.level) > severity(r.MinLevel) {
			continue
		}

		text, derr := r.Diagnostic(report.Files, d)
		if derr != nil {
			emit.Failures = append(emit.Failures, &RenderError{Index: i, Cause: derr})
			if report.StopOnFirstFailure {
				break
			}
			continue
		}

		_, _ = w.WriteString(text)
		_, _ = w.WriteString("\n")
		if !r.Compact {
			_, _ = w.WriteString("\n")
		}

		switch d.level {
		case Error:
			errorCount++
		case Warning:
			if r.WarningsAreErrors {
				errorCount++
			} else {
				warningCount++
			}
		}
	}

	if !r.Compact {
		c := r.colors()
		switch {
		case errorCount > 0:
			fmt.Fprintf(w, "%sencountered %d error%v", c.bError, errorCount, plural(errorCount))
			if warningCount > 0 {
				fmt.Fprintf(w, " and %d warning%v", warningCount, plural(warningCount))
			}
			_, _ = w.WriteString(c.reset + "\n")
		case warningCount > 0:
			fmt.Fprintf(w, "%sencountered %d warning%v%s\n", c.bWarning, warningCount, plural(warningCount), c.reset)
		}
	}

	emit.IO = w.Flush()
	return errorCount, warningCount, emit.errorOrNil()
}

// RenderString is a helper for calling [Renderer.Render] with a
// [strings.Builder].
func (r Renderer) RenderString(report *Report) (text string, errorCount, warningCount int) {
	var buf strings.Builder
	e, w, _ := r.Render(report, &buf)
	return buf.String(), e, w
}

// Diagnostic renders a single diagnostic to a string.
//
// Returns an error if any of the diagnostic's spans do not resolve against
// the given registry; nothing is rendered at a guessed location in that
// case.
func (r *Renderer) Diagnostic(files *source.Registry, d *Diagnostic) (string, error) {
	annotations, err := Resolve(files, d)
	if err != nil {
		return "", err
	}

	c := r.colors()
	level := c.LabelForLevel(d.level)
	style := r.styles().forLevel(d.level)

	anchor := anchorOf(annotations)

	// For the simple style, we imitate the Go compiler.
	if r.Compact {
		if anchor == nil || !style.ShowLocation {
			if d.inFile != "" && style.ShowLocation {
				return fmt.Sprintf(
					"%s%s: %s: %s%s",
					c.ColorForLevel(d.level), level, d.inFile, d.message, c.reset,
				), nil
			}
			return fmt.Sprintf(
				"%s%s: %s%s",
				c.ColorForLevel(d.level), level, d.message, c.reset,
			), nil
		}

		return fmt.Sprintf(
			"%s%s: %s:%d:%d: %s%s",
			c.ColorForLevel(d.level), level,
			anchor.Path, anchor.Start.Line, anchor.Start.Column,
			d.message, c.reset,
		), nil
	}

	// For the other styles, we imitate the Rust compiler.

	var out strings.Builder
	fmt.Fprint(&out, c.BoldForLevel(d.level), level, ": ", d.message, c.reset)

	cfg := r.layoutConfig()
	footerBarWidth := 2
	for i, group := range groupByFile(annotations) {
		// The gutter is sized per block, from the largest line number the
		// block references.
		var greatestLine int
		for _, annotation := range group {
			greatestLine = max(greatestLine, annotation.End.Line)
		}
		lineBarWidth := max(2, len(strconv.Itoa(greatestLine)))
		footerBarWidth = lineBarWidth

		// The location shown for the first block is the anchor's, when the
		// anchor lives in it; every other block leads with its own first
		// annotation.
		at := &group[0]
		arrow := ":::"
		if i == 0 {
			arrow = "-->"
			if anchor != nil && anchor.File == at.File {
				at = anchor
			}
		}

		out.WriteByte('\n')
		out.WriteString(c.nAccent)
		padBy(&out, lineBarWidth)
		fmt.Fprintf(&out, "%s %s:%d:%d", arrow, at.Path, at.Start.Line, at.Start.Column)

		// A blank rule before and after the source rows gives the window
		// some visual breathing room.
		out.WriteByte('\n')
		padBy(&out, lineBarWidth)
		out.WriteString(" | ")

		window := buildWindow(d.level, group)
		window.Render(lineBarWidth, &c, cfg, &out)

		out.WriteByte('\n')
		out.WriteString(c.nAccent)
		padBy(&out, lineBarWidth)
		out.WriteString(" |")
	}

	// Render a remedial file name for spanless diagnostics.
	if len(annotations) == 0 && d.inFile != "" {
		out.WriteByte('\n')
		out.WriteString(c.nAccent)
		out.WriteString(" --> ")
		out.WriteString(d.inFile)
	}

	// Render the footers. For simplicity we collect them into an array
	// first.
	footers := make([][2]string, 0, len(d.notes)+len(d.help))
	for _, note := range d.notes {
		footers = append(footers, [2]string{"note", note})
	}
	for _, help := range d.help {
		footers = append(footers, [2]string{"help", help})
	}
	for _, footer := range footers {
		out.WriteByte('\n')
		out.WriteString(c.nAccent)
		padBy(&out, footerBarWidth)
		out.WriteString(" = ")
		fmt.Fprint(&out, c.bNote, footer[0], ": ", c.reset)
		for i, line := range strings.Split(footer[1], "\n") {
			if i > 0 {
				out.WriteByte('\n')
				margin := footerBarWidth + 3 + len(footer[0]) + 2
				padBy(&out, margin)
			}
			out.WriteString(line)
		}
	}

	out.WriteString(c.reset)
	return out.String(), nil
}

// anchorOf returns the first primary annotation, if any.
func anchorOf(annotations []Annotation) *Annotation {
	for i := range annotations {
		if annotations[i].Primary {
			return &annotations[i]
		}
	}
	return nil
}
