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

// Style configures how one severity is presented.
type Style struct {
	// The header word for this severity, e.g. "error".
	Label string

	// ANSI SGR color parameter for this severity, e.g. "31" for red.
	// Only consulted when [Renderer.Colorize] is set; an empty color
	// renders with no escapes even then.
	Color string

	// Whether headers for this severity include the anchor's
	// file:line:column location.
	ShowLocation bool
}

// Styles is the severity-to-style table consulted by a [Renderer].
type Styles struct {
	Error, Warning, Debug, Note Style

	// Accent is the SGR color parameter used for everything that is not
	// source text or a primary underline: line numbers, window furniture,
	// and secondary underlines. This separates the rendering apparatus
	// from the code itself, which appears unstyled.
	Accent string
}

// DefaultStyles returns the style table used when [Renderer.Styles] is nil.
func DefaultStyles() *Styles {
	return &Styles{
		Error:   Style{Label: "error", Color: "31", ShowLocation: true},
		Warning: Style{Label: "warning", Color: "33", ShowLocation: true},
		Debug:   Style{Label: "debug", Color: "36", ShowLocation: true},
		Note:    Style{Label: "note", Color: "34", ShowLocation: true},
		Accent:  "34",
	}
}

func (s *Styles) forLevel(l Level) Style {
	switch l {
	case Error:
		return s.Error
	case Warning:
		return s.Warning
	case Debug:
		return s.Debug
	case Note:
		return s.Note
	default:
		return Style{}
	}
}

// styleSheet is the resolved escape table for one rendering operation.
type styleSheet struct {
	r *Renderer

	reset string
	// Normal and bold escapes per severity.
	nError, bError     string
	nWarning, bWarning string
	nDebug, bDebug     string
	nNote, bNote       string
	// Accents style line numbers, secondary span underlines, and other
	// rendering furniture to clearly separate them from the source code.
	nAccent, bAccent string
}

func (r *Renderer) styles() *Styles {
	if r.Styles != nil {
		return r.Styles
	}
	return DefaultStyles()
}

func (r *Renderer) colors() styleSheet {
	if !r.Colorize {
		return styleSheet{r: r}
	}

	sgr := func(bold bool, color string) string {
		if color == "" {
			return ""
		}
		if bold {
			return "\033[1;" + color + "m"
		}
		return "\033[0;" + color + "m"
	}

	s := r.styles()
	return styleSheet{
		r:     r,
		reset: "\033[0m",

		nError: sgr(false, s.Error.Color),
		bError: sgr(true, s.Error.Color),

		nWarning: sgr(false, s.Warning.Color),
		bWarning: sgr(true, s.Warning.Color),

		nDebug: sgr(false, s.Debug.Color),
		bDebug: sgr(true, s.Debug.Color),

		nNote: sgr(false, s.Note.Color),
		bNote: sgr(true, s.Note.Color),

		nAccent: sgr(false, s.Accent),
		bAccent: sgr(true, s.Accent),
	}
}

func (c *styleSheet) ColorForLevel(l Level) string {
	switch l {
	case Error:
		return c.nError
	case Warning:
		if c.r.WarningsAreErrors {
			return c.nError
		}
		return c.nWarning
	case Debug:
		return c.nDebug
	case Note:
		return c.nNote
	case secondaryLevel:
		return c.nAccent
	default:
		return ""
	}
}

func (c *styleSheet) BoldForLevel(l Level) string {
	switch l {
	case Error:
		return c.bError
	case Warning:
		if c.r.WarningsAreErrors {
			return c.bError
		}
		return c.bWarning
	case Debug:
		return c.bDebug
	case Note:
		return c.bNote
	case secondaryLevel:
		return c.bAccent
	default:
		return ""
	}
}

// LabelForLevel returns the header word for the given severity, accounting
// for warnings-as-errors promotion.
func (c *styleSheet) LabelForLevel(l Level) string {
	if l == Warning && c.r.WarningsAreErrors {
		l = Error
	}
	label := c.r.styles().forLevel(l).Label
	if label == "" {
		label = l.String()
	}
	return label
}
