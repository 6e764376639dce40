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

// Annotation is a [Label] resolved against a registry: its span converted
// into line and column information ready for layout.
//
// Annotations are exposed so that consumers other than the built-in
// renderer, such as protocol adapters, can reuse position resolution
// without re-deriving it from rendered text.
type Annotation struct {
	// Path of the file this annotation is in.
	Path string

	// The file's contents.
	File *source.File

	// Start and end positions, inclusive and exclusive respectively.
	// Lines and columns are 1-based; columns are in terminal display
	// width, the same unit the renderer draws underlines in.
	Start, End source.Location

	// The label's message. May be empty.
	Message string

	// Whether the label was primary.
	Primary bool
}

// Resolve converts a diagnostic's labels into annotations, in declaration
// order.
//
// All spans must refer to files registered with the given registry and lie
// within their file's text; a violation is a bug at the diagnostic's
// construction site, and is reported as an error wrapping
// [source.ErrUnknownFile] or [source.ErrSpanOutOfBounds] rather than
// rendered at a corrected location.
func Resolve(files *source.Registry, d *Diagnostic) ([]Annotation, error) {
	annotations := make([]Annotation, 0, len(d.labels))
	for i, label := range d.labels {
		file, err := files.Lookup(label.Span.File)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}

		start, end, err := files.Resolve(label.Span, source.TermWidth)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}

		annotations = append(annotations, Annotation{
			Path:    file.Path(),
			File:    file,
			Start:   start,
			End:     end,
			Message: label.Message,
			Primary: label.Role == Primary,
		})
	}
	return annotations, nil
}

// groupByFile splits annotations into per-file groups. Groups are ordered
// by the declaration order of their first annotation, not alphabetically.
//
// Grouping is by file identity, not path: the registry permits distinct
// files to share a name, and their windows must stay independent.
func groupByFile(annotations []Annotation) [][]Annotation {
	var groups [][]Annotation
	index := make(map[*source.File]int)
	for _, annotation := range annotations {
		i, ok := index[annotation.File]
		if !ok {
			i = len(groups)
			index[annotation.File] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], annotation)
	}
	return groups
}
