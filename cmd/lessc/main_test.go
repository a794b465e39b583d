// Golang port of Overleaf
// Copyright (C) 2021-2023 Jakob Ackermann <das7pad@outlook.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less"
)

func writeInput(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, s := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(s), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		want    less.Options
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{"in.less"},
			want: less.Options{IndentChar: ' ', IndentWidth: 2},
		},
		{
			name: "flags",
			args: []string{"-strict-math", "-compress", "-indent", "\t", "in.less"},
			want: less.Options{
				StrictMath:  true,
				Compress:    true,
				IndentChar:  '\t',
				IndentWidth: 1,
			},
		},
		{
			name: "env",
			env: map[string]string{
				"LESSC_RELATIVE_URLS": "true",
				"LESSC_MINIFY":        "TRUE",
				"LESSC_INDENT":        "    ",
			},
			args: []string{"in.less"},
			want: less.Options{
				RelativeURLs: true,
				Minify:       true,
				IndentChar:   ' ',
				IndentWidth:  4,
			},
		},
		{
			name: "flag overrides env",
			env:  map[string]string{"LESSC_COMPRESS": "true"},
			args: []string{"-compress=false", "in.less"},
			want: less.Options{IndentChar: ' ', IndentWidth: 2},
		},
		{
			name:    "mixed indent",
			args:    []string{"-indent", " \t", "in.less"},
			wantErr: true,
		},
		{
			name:    "missing input",
			args:    []string{"-compress"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"-nope", "in.less"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := parseFlags(tt.args, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.o != tt.want {
				t.Errorf("parseFlags() options = %+v, want %+v", got.o, tt.want)
			}
			if got.input != "in.less" {
				t.Errorf("parseFlags() input = %q, want in.less", got.input)
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"in.less":       "@import \"lib/vars\";\n.a { width: @w * 2; }",
		"lib/vars.less": "@w: 5px;",
		"bad.less":      ".a { b: @missing; }",
	})
	in := filepath.Join(dir, "in.less")

	t.Run("compile", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		if err := run([]string{in}, stdout, &bytes.Buffer{}); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if got, want := stdout.String(), ".a {\n  width: 10px;\n}\n"; got != want {
			t.Errorf("run() output = %q, want %q", got, want)
		}
	})
	t.Run("compress", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		if err := run([]string{"-compress", in}, stdout, &bytes.Buffer{}); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if got, want := stdout.String(), ".a{width:10px;}"; got != want {
			t.Errorf("run() output = %q, want %q", got, want)
		}
	})
	t.Run("print tree", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		if err := run([]string{"-print-tree", in}, stdout, &bytes.Buffer{}); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if !strings.Contains(stdout.String(), "Ruleset(.a)") {
			t.Errorf("run() output = %q, want a tree", stdout.String())
		}
	})
	t.Run("error", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		err := run([]string{filepath.Join(dir, "bad.less")}, stdout, &bytes.Buffer{})
		if !errors.IsUndefinedVariableError(err) {
			t.Errorf("run() error = %v, want undefined variable", err)
		}
		if stdout.Len() != 0 {
			t.Errorf("run() output = %q, want none", stdout.String())
		}
	})
	t.Run("missing input", func(t *testing.T) {
		err := run([]string{filepath.Join(dir, "nope.less")}, &bytes.Buffer{}, &bytes.Buffer{})
		if !errors.IsNotFoundError(err) {
			t.Errorf("run() error = %v, want not found", err)
		}
	})
}
