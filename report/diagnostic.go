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

	"github.com/commonkestrel/nurse/source"
)

// Level represents the severity of a diagnostic message.
type Level int8

const (
	// Red. Indicates a semantic constraint violation.
	Error Level = 1 + iota
	// Yellow. Indicates something that probably should not be ignored.
	Warning
	// Cyan. Debugging output not intended for normal users; hidden unless
	// [Renderer.ShowDebug] is set.
	Debug
	// Blue. Informational remarks.
	Note

	secondaryLevel // Used internally to style non-primary underlines.
)

// severity ranks levels from most to least severe, for comparing against
// [Renderer.MinLevel]. The enum's declaration order is presentational, so
// the rank is explicit here.
func severity(l Level) int {
	switch l {
	case Error:
		return 0
	case Warning:
		return 1
	case Note:
		return 2
	case Debug:
		return 3
	default:
		return 4
	}
}

// String implements [fmt.Stringer].
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Debug:
		return "debug"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Role distinguishes the primary label of a diagnostic from supporting
// context labels.
type Role int8

const (
	// Primary marks the label the diagnostic is about. The first primary
	// label provides the anchor location shown in the header.
	Primary Role = 1 + iota
	// Secondary marks a supporting label, rendered in the accent style.
	Secondary
)

// Label is an annotated source span within a [Diagnostic].
//
// Labels render as underlined (or bracketed, when multi-line) regions of
// source code, each optionally carrying its own message.
type Label struct {
	// The region of source this label points at.
	Span source.Span

	// A message to show next to this label's underline.
	//
	// May be empty, in which case the underline renders with no message
	// attached. This is useful when the overall diagnostic message already
	// explains the problem.
	Message string

	// Whether this label is the diagnostic's subject or supporting context.
	Role Role
}

// Diagnostic is a single report: a severity, a message, and any number of
// labeled source spans.
//
// Diagnostics are constructed through a [Report]'s Errorf, Warnf, Debugf,
// and Notef methods, then built up by applying options with
// [Diagnostic.With]. Once the caller releases the returned pointer the
// diagnostic is frozen in the report's queue.
type Diagnostic struct {
	level   Level
	message string

	// The file this diagnostic occurs in, if it has no labels. This is used
	// for errors like "file too big" that cannot be given a span.
	inFile string

	labels      []Label
	notes, help []string
}

// Level returns this diagnostic's severity.
func (d *Diagnostic) Level() Level {
	return d.level
}

// Message returns this diagnostic's top-line message.
func (d *Diagnostic) Message() string {
	return d.message
}

// Labels returns this diagnostic's labels, in declaration order.
func (d *Diagnostic) Labels() []Label {
	return d.labels
}

// Anchor returns this diagnostic's first primary label, if it has one.
//
// The anchor provides the location shown in the diagnostic's header.
func (d *Diagnostic) Anchor() (Label, bool) {
	for _, label := range d.labels {
		if label.Role == Primary {
			return label, true
		}
	}
	return Label{}, false
}

// With applies the given options to this diagnostic.
//
// Nil options are ignored.
func (d *Diagnostic) With(options ...DiagnosticOption) *Diagnostic {
	for _, option := range options {
		if option != nil {
			option(d)
		}
	}
	return d
}

// DiagnosticOption is an option that can be applied to a [Diagnostic].
type DiagnosticOption func(*Diagnostic)

// Message returns an option that sets the main diagnostic message.
func Message(format string, args ...any) DiagnosticOption {
	message := fmt.Sprintf(format, args...)
	return func(d *Diagnostic) {
		if d.message != "" {
			panic("nurse/report: set diagnostic message more than once")
		}
		d.message = message
	}
}

// Snippet is equivalent to Snippetf(at, "").
func Snippet(at source.Spanner) DiagnosticOption {
	return Snippetf(at, "")
}

// Snippetf returns an option that adds a labeled span to a diagnostic.
//
// The first label added to a diagnostic is its primary label; all later
// ones are secondary. Use [Secondaryf] to add a supporting label ahead of
// the primary one.
//
// If at is nil or returns the zero span, this function returns nil, which
// [Diagnostic.With] ignores.
func Snippetf(at source.Spanner, format string, args ...any) DiagnosticOption {
	return label(at, 0, format, args...)
}

// Secondaryf is like [Snippetf], but the label is secondary regardless of
// its position.
func Secondaryf(at source.Spanner, format string, args ...any) DiagnosticOption {
	return label(at, Secondary, format, args...)
}

func label(at source.Spanner, role Role, format string, args ...any) DiagnosticOption {
	if at == nil {
		return nil
	}
	span := at.Span()
	if span.IsZero() {
		return nil
	}

	// Hoisted out of the closure so that a bad format blames the
	// Snippetf call, not the later With.
	l := Label{Span: span, Message: fmt.Sprintf(format, args...), Role: role}
	return func(d *Diagnostic) {
		if l.Role == 0 {
			l.Role = Primary
			for _, prev := range d.labels {
				if prev.Role == Primary {
					l.Role = Secondary
					break
				}
			}
		}
		d.labels = append(d.labels, l)
	}
}

// WithNote returns an option that adds context prose after the rendered
// spans.
func WithNote(format string, args ...any) DiagnosticOption {
	note := fmt.Sprintf(format, args...)
	return func(d *Diagnostic) { d.notes = append(d.notes, note) }
}

// WithNoteAt is like [WithNote], but anchored to a span. The note renders
// as a secondary annotation in the source window rather than as footer
// prose.
func WithNoteAt(at source.Spanner, format string, args ...any) DiagnosticOption {
	return label(at, Secondary, format, args...)
}

// WithHelp returns an option that adds a prose suggestion for resolving the
// diagnostic.
func WithHelp(format string, args ...any) DiagnosticOption {
	help := fmt.Sprintf(format, args...)
	return func(d *Diagnostic) { d.help = append(d.help, help) }
}

// InFile returns an option that causes a diagnostic without labels to
// mention the given file.
func InFile(path string) DiagnosticOption {
	return func(d *Diagnostic) { d.inFile = path }
}
