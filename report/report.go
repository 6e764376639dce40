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

// Options for a [Report].
type Options struct {
	// If set, emission stops at the first diagnostic whose spans fail to
	// resolve, instead of recording the failure and moving on to the next
	// diagnostic.
	StopOnFirstFailure bool
}

// Report is a collection of diagnostics queued for emission.
//
// A report owns the [source.Registry] its diagnostics' spans refer to; all
// labels attached to a report's diagnostics must use handles minted by that
// registry.
//
// Report is not thread-safe.
type Report struct {
	// The source files diagnostics in this report may reference.
	Files *source.Registry

	// The queued diagnostics, in the order they were constructed.
	Diagnostics []Diagnostic

	Options
}

// New returns an empty report with a fresh file registry.
func New(options Options) *Report {
	return &Report{
		Files:   source.NewRegistry(),
		Options: options,
	}
}

// RegisterFile registers a file with this report's registry, returning a
// handle usable in [source.Span]s.
func (r *Report) RegisterFile(path, text string) source.FileID {
	return r.Files.Register(path, text)
}

// Errorf pushes an error diagnostic with the given message onto this report.
//
// The returned diagnostic can be extended with [Diagnostic.With]; it is only
// valid until the next push.
func (r *Report) Errorf(format string, args ...any) *Diagnostic {
	return r.push(Error, fmt.Sprintf(format, args...))
}

// Warnf pushes a warning diagnostic with the given message onto this report.
//
// See [Report.Errorf].
func (r *Report) Warnf(format string, args ...any) *Diagnostic {
	return r.push(Warning, fmt.Sprintf(format, args...))
}

// Debugf pushes a debug diagnostic with the given message onto this report.
//
// Debug diagnostics are dropped at render time unless [Renderer.ShowDebug]
// is set. See [Report.Errorf].
func (r *Report) Debugf(format string, args ...any) *Diagnostic {
	return r.push(Debug, fmt.Sprintf(format, args...))
}

// Notef pushes a note diagnostic with the given message onto this report.
//
// See [Report.Errorf].
func (r *Report) Notef(format string, args ...any) *Diagnostic {
	return r.push(Note, fmt.Sprintf(format, args...))
}

// Push appends a fully-formed diagnostic to this report.
//
// Most callers should prefer [Report.Errorf] and friends.
func (r *Report) Push(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Len returns the number of queued diagnostics.
func (r *Report) Len() int {
	return len(r.Diagnostics)
}

// HasErrors returns whether this report contains any error diagnostics.
func (r *Report) HasErrors() bool {
	for i := range r.Diagnostics {
		if r.Diagnostics[i].level == Error {
			return true
		}
	}
	return false
}

// Clear empties the diagnostic queue, retaining the file registry.
func (r *Report) Clear() {
	r.Diagnostics = r.Diagnostics[:0]
}

func (r *Report) push(level Level, message string) *Diagnostic {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		level:   level,
		message: message,
	})
	return &r.Diagnostics[len(r.Diagnostics)-1]
}
