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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/das7pad/lessc/pkg/less"
)

func TestRouter(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"main.less":       "@import \"theme/vars\";\n.a { color: @c; }",
		"theme/vars.less": "@c: red;",
		"theme/dark.less": "@import \"vars\";\n.d { background: darken(@c, 100%); }",
		"broken.less":     ".a { b: @missing; }",
	})
	c, err := less.WithCache(10, less.Options{})
	if err != nil {
		t.Fatalf("WithCache() error = %v", err)
	}
	router := newRouter(c, dir)

	tests := []struct {
		name        string
		method      string
		path        string
		wantStatus  int
		wantBody    string
		wantCSSType bool
	}{
		{
			name:        "compile",
			method:      http.MethodGet,
			path:        "/main.css",
			wantStatus:  http.StatusOK,
			wantBody:    ".a {\n  color: red;\n}\n",
			wantCSSType: true,
		},
		{
			name:        "nested",
			method:      http.MethodGet,
			path:        "/theme/dark.css",
			wantStatus:  http.StatusOK,
			wantBody:    ".d {\n  background: #000000;\n}\n",
			wantCSSType: true,
		},
		{
			name:       "missing",
			method:     http.MethodGet,
			path:       "/nope.css",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "compile error",
			method:     http.MethodGet,
			path:       "/broken.css",
			wantStatus: http.StatusInternalServerError,
			wantBody:   "ERR: ",
		},
		{
			name:       "other extension",
			method:     http.MethodGet,
			path:       "/main.less",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "post",
			method:     http.MethodPost,
			path:       "/main.css",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "status",
			method:     http.MethodGet,
			path:       "/status",
			wantStatus: http.StatusOK,
			wantBody:   "lessc is alive\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.HasPrefix(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want prefix %q", w.Body.String(), tt.wantBody)
			}
			ct := w.Header().Get("Content-Type")
			if tt.wantCSSType && !strings.HasPrefix(ct, "text/css") {
				t.Errorf("Content-Type = %q, want text/css", ct)
			}
		})
	}
}

func TestServeRoot(t *testing.T) {
	dir := writeInput(t, map[string]string{"main.less": ""})
	for _, input := range []string{dir, dir + "/main.less"} {
		got, err := serveRoot(input)
		if err != nil {
			t.Fatalf("serveRoot(%q) error = %v", input, err)
		}
		if got != dir {
			t.Errorf("serveRoot(%q) = %q, want %q", input, got, dir)
		}
	}
	if _, err := serveRoot(dir + "/nope"); err == nil {
		t.Error("serveRoot() error = nil for a missing path")
	}
}
