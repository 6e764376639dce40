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

package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonkestrel/nurse/report"
)

func TestPush(t *testing.T) {
	t.Parallel()

	r := report.New(report.Options{})
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.HasErrors())

	r.Warnf("watch out")
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.HasErrors())

	r.Errorf("broke")
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.HasErrors())

	assert.Equal(t, report.Warning, r.Diagnostics[0].Level())
	assert.Equal(t, "watch out", r.Diagnostics[0].Message())
	assert.Equal(t, report.Error, r.Diagnostics[1].Level())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.HasErrors())
}

func TestLabelRoles(t *testing.T) {
	t.Parallel()

	r := report.New(report.Options{})
	file := r.RegisterFile("roles.ks", "one two three\n")

	d := r.Errorf("roles").With(
		report.Secondaryf(r.Files.Span(file, 0, 3), "context"),
		report.Snippetf(r.Files.Span(file, 4, 7), "subject"),
		report.Snippetf(r.Files.Span(file, 8, 13), "more"),
	)

	labels := d.Labels()
	require.Len(t, labels, 3)
	assert.Equal(t, report.Secondary, labels[0].Role)
	assert.Equal(t, report.Primary, labels[1].Role)
	assert.Equal(t, report.Secondary, labels[2].Role)

	// The anchor is the first primary label, not the first label.
	anchor, ok := d.Anchor()
	require.True(t, ok)
	assert.Equal(t, "subject", anchor.Message)
}

func TestFirstSnippetIsPrimary(t *testing.T) {
	t.Parallel()

	r := report.New(report.Options{})
	file := r.RegisterFile("first.ks", "abc\n")

	d := r.Errorf("first").With(
		report.Snippet(r.Files.Span(file, 0, 1)),
		report.Snippetf(r.Files.Span(file, 1, 2), "second"),
	)

	labels := d.Labels()
	require.Len(t, labels, 2)
	assert.Equal(t, report.Primary, labels[0].Role)
	assert.Equal(t, report.Secondary, labels[1].Role)
}

func TestSpannedNote(t *testing.T) {
	t.Parallel()

	r := report.New(report.Options{})
	file := r.RegisterFile("noted.ks", "one two\n")

	d := r.Errorf("bad").With(
		report.Snippet(r.Files.Span(file, 0, 3)),
		report.WithNoteAt(r.Files.Span(file, 4, 7), "defined here"),
	)

	labels := d.Labels()
	require.Len(t, labels, 2)
	assert.Equal(t, report.Secondary, labels[1].Role)
	assert.Equal(t, "defined here", labels[1].Message)
}

func TestZeroSpanIgnored(t *testing.T) {
	t.Parallel()

	r := report.New(report.Options{})
	d := r.Errorf("spanless").With(
		report.Snippet(nil),
		report.InFile("missing.ks"),
	)

	assert.Empty(t, d.Labels())
	_, ok := d.Anchor()
	assert.False(t, ok)
}
