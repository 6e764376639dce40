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

package stringsx_test

import (
	"slices"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"

	"github.com/commonkestrel/nurse/internal/ext/stringsx"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, slices.Collect(stringsx.Split("a,b,c", ',')))
	assert.Equal(t, []string{"", ""}, slices.Collect(stringsx.Split(",", ',')))
	assert.Equal(t, []string{"solo"}, slices.Collect(stringsx.Split("solo", ',')))
}

func TestLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", ""}, slices.Collect(stringsx.Lines("a\nb\n")))
	assert.Equal(t, []string{"bare"}, slices.Collect(stringsx.Lines("bare")))
}

func TestPartitionKey(t *testing.T) {
	t.Parallel()

	var offsets []int
	var chunks []string
	for offset, chunk := range stringsx.PartitionKey("ab  cd", unicode.IsSpace) {
		offsets = append(offsets, offset)
		chunks = append(chunks, chunk)
	}
	assert.Equal(t, []int{0, 2, 4}, offsets)
	assert.Equal(t, []string{"ab", "  ", "cd"}, chunks)
}
