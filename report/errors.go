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
	"strings"
)

// RenderError records a diagnostic that could not be rendered, along with
// its position in the report's queue.
type RenderError struct {
	// Index of the failed diagnostic within [Report.Diagnostics].
	Index int

	// Why rendering failed. Wraps one of the sentinels in package source,
	// such as [source.ErrUnknownFile] or [source.ErrSpanOutOfBounds].
	Cause error
}

// Error implements [error].
func (e *RenderError) Error() string {
	return fmt.Sprintf("diagnostic %d: %v", e.Index, e.Cause)
}

// Unwrap implements the interface used by [errors.Is].
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// EmitError aggregates every failure encountered while emitting a report.
type EmitError struct {
	// Diagnostics that failed to render.
	Failures []*RenderError

	// The first error returned by the output writer, if any. Once the
	// writer fails, no further output is attempted.
	IO error
}

// Error implements [error].
func (e *EmitError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "emitting report: %d failure(s)", len(e.Failures))
	for _, failure := range e.Failures {
		buf.WriteString("; ")
		buf.WriteString(failure.Error())
	}
	if e.IO != nil {
		fmt.Fprintf(&buf, "; write: %v", e.IO)
	}
	return buf.String()
}

// Unwrap implements the interface used by [errors.Is].
func (e *EmitError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	for _, failure := range e.Failures {
		errs = append(errs, failure)
	}
	if e.IO != nil {
		errs = append(errs, e.IO)
	}
	return errs
}

// errorOrNil collapses an empty aggregate to nil so callers can compare
// the result of emission against nil directly.
func (e *EmitError) errorOrNil() error {
	if len(e.Failures) == 0 && e.IO == nil {
		return nil
	}
	return e
}
