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

// Package report provides a compiler-grade diagnostic engine: diagnostics
// are collected into a [Report] and rendered as annotated source listings
// in the style of modern compilers, with underlined spans, multi-line
// brackets, and severity-colored headers.
//
// A [Report] owns a [source.Registry] of file contents; diagnostics refer
// to source code through [source.Span]s minted against that registry. Build
// diagnostics with [Report.Errorf] and friends, attach spans and footers
// with [Diagnostic.With], and emit everything with a [Renderer]:
//
//	r := report.New(report.Options{})
//	file := r.RegisterFile("example.ks", text)
//	r.Errorf("unexpected token").With(
//		report.Snippetf(r.Files.Span(file, 10, 13), "found here"),
//		report.WithHelp("remove this token"),
//	)
//	report.Renderer{Colorize: true}.Render(r, os.Stderr)
//
// Rendering is read-only against the report and the registry, so
// concurrent renders of the same frozen report are safe; mutating a report
// or its registry concurrently with anything else is not. Neither type
// locks internally.
package report
