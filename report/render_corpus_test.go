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

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/commonkestrel/nurse/internal/golden"
	"github.com/commonkestrel/nurse/report"
	"github.com/commonkestrel/nurse/source"
)

type corpusFile struct {
	Path string `yaml:"path"`
	Text string `yaml:"text"`
}

type corpusLabel struct {
	File      int    `yaml:"file"`
	Start     int    `yaml:"start"`
	End       int    `yaml:"end"`
	Message   string `yaml:"message"`
	Secondary bool   `yaml:"secondary"`
}

type corpusDiagnostic struct {
	Level   string        `yaml:"level"`
	Message string        `yaml:"message"`
	Labels  []corpusLabel `yaml:"labels"`
	Notes   []string      `yaml:"notes"`
	Help    []string      `yaml:"help"`
	InFile  string        `yaml:"in_file"`
}

type corpusCase struct {
	Files       []corpusFile       `yaml:"files"`
	Diagnostics []corpusDiagnostic `yaml:"diagnostics"`
}

func TestRenderCorpus(t *testing.T) {
	t.Parallel()

	corpus := golden.Corpus{
		Root:       "testdata",
		Refresh:    "NURSE_REFRESH",
		Extensions: []string{"yaml"},
		Outputs: []golden.Output{
			{Extension: "compact.txt"},
			{Extension: "fancy.txt"},
		},
	}

	corpus.Run(t, func(t *testing.T, path, text string, outputs []string) {
		var testCase corpusCase
		require.NoError(t, yaml.Unmarshal([]byte(text), &testCase))

		r := report.New(report.Options{})
		ids := make([]source.FileID, len(testCase.Files))
		for i, file := range testCase.Files {
			ids[i] = r.RegisterFile(file.Path, file.Text)
		}

		for _, diagnostic := range testCase.Diagnostics {
			var d *report.Diagnostic
			switch diagnostic.Level {
			case "warning":
				d = r.Warnf("%s", diagnostic.Message)
			case "debug":
				d = r.Debugf("%s", diagnostic.Message)
			case "note":
				d = r.Notef("%s", diagnostic.Message)
			default:
				d = r.Errorf("%s", diagnostic.Message)
			}

			for _, label := range diagnostic.Labels {
				span := r.Files.Span(ids[label.File], label.Start, label.End)
				if label.Secondary {
					d.With(report.Secondaryf(span, "%s", label.Message))
				} else {
					d.With(report.Snippetf(span, "%s", label.Message))
				}
			}
			for _, note := range diagnostic.Notes {
				d.With(report.WithNote("%s", note))
			}
			for _, help := range diagnostic.Help {
				d.With(report.WithHelp("%s", help))
			}
			if diagnostic.InFile != "" {
				d.With(report.InFile(diagnostic.InFile))
			}
		}

		outputs[0], _, _ = report.Renderer{Compact: true, ShowDebug: true}.RenderString(r)
		outputs[1], _, _ = report.Renderer{ShowDebug: true}.RenderString(r)
	})
}
