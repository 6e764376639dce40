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

package unicodex_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commonkestrel/nurse/internal/ext/unicodex"
)

func TestMeasure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		column int
		want   int
	}{
		{text: "", column: 0, want: 0},
		{text: "hello", column: 0, want: 5},
		{text: "🐈", column: 0, want: 2},
		{text: "\t", column: 0, want: 4},
		{text: "\t", column: 3, want: 1},
		{text: "ab\tc", column: 0, want: 5},
		{text: "a\x00b", column: 0, want: 2 + len("<U+0000>")},
	}

	for _, test := range tests {
		assert.Equal(t, test.want,
			unicodex.Measure(test.column, test.text, true),
			"%q at column %d", test.text, test.column)
	}
}

func TestWidthWriter(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	w := &unicodex.Width{Tabstop: 4, EscapeNonPrint: true, Out: &out}
	_, err := w.WriteString("a\tb\x01c")
	assert.NoError(t, err)
	assert.Equal(t, "a   b<U+0001>c", out.String())
	assert.Equal(t, 14, w.Column)
}

func TestWordWrap(t *testing.T) {
	t.Parallel()

	w := &unicodex.Width{}
	lines := slices.Collect(w.WordWrap("the quick brown fox jumps over the lazy dog", 10))
	assert.Equal(t, []string{"the quick", "brown fox", "jumps over", "the lazy", "dog"}, lines)

	// A single token wider than the limit is yielded whole.
	lines = slices.Collect(w.WordWrap("antidisestablishmentarianism", 10))
	assert.Equal(t, []string{"antidisestablishmentarianism"}, lines)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", unicodex.Truncate("short", 10))
	assert.Equal(t, "abcd…", unicodex.Truncate("abcdefgh", 5))
	assert.Equal(t, "🐈…", unicodex.Truncate("🐈🐈🐈", 4))
}
