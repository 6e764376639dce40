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
	"bytes"
	"io"
	"unicode"

	"github.com/commonkestrel/nurse/internal/ext/iterx"
	"github.com/commonkestrel/nurse/internal/ext/stringsx"
)

// writer implements low-level writing helpers, including a custom buffering
// routine to avoid printing trailing whitespace to the output.
type writer struct {
	out io.Writer
	buf []byte // Never contains a '\n' byte.
	err error
}

// Write implements [io.Writer].
func (w *writer) Write(data []byte) (int, error) {
	_, _ = w.WriteString(string(data))
	return len(data), nil
}

func (w *writer) WriteString(data string) (int, error) {
	// Break the input along newlines; each time we're about to append a
	// newline, discard all trailing whitespace that isn't a newline.
	for i, line := range iterx.Enumerate(stringsx.Lines(data)) {
		if i > 0 {
			w.flush(true)
		}
		w.buf = append(w.buf, line...)
	}
	return len(data), nil
}

// Flush flushes the buffer to the writer's output.
func (w *writer) Flush() error {
	defer func() { w.err = nil }()
	return w.flush(false)
}

// flush is like [writer.Flush], but instead retains the error to be
// returned out of Flush later. This allows e.g. WriteString to call flush()
// without needing to return an error and complicating the rendering code.
//
// If withNewline is set, appends a newline to the data being written.
func (w *writer) flush(withNewline bool) error {
	if w.err != nil {
		return w.err
	}

	orig := w.buf
	w.buf = bytes.TrimRightFunc(w.buf, unicode.IsSpace)
	if withNewline {
		w.buf = append(w.buf, '\n')
	} else if len(w.buf) == 0 {
		// Nothing to write; an empty flush must not touch the sink.
		w.buf = orig
		return nil
	}

	_, w.err = w.out.Write(w.buf)

	if withNewline {
		w.buf = w.buf[:0]
		return w.err
	}

	// Retain everything that was trimmed; the caller may still append more
	// to the current line.
	w.buf = append(orig[:0], orig[len(w.buf):]...) //nolint:gocritic
	return w.err
}

// plural is a helper for printing out plurals of numbers.
type plural int

// String implements [fmt.Stringer].
func (p plural) String() string {
	if p == 1 {
		return ""
	}
	return "s"
}
