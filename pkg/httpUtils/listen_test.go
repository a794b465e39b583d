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

package httpUtils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListen(t *testing.T) {
	t.Run("tcp", func(t *testing.T) {
		l, err := Listen("127.0.0.1:0")
		if err != nil {
			t.Fatalf("Listen() error = %v", err)
		}
		defer func() { _ = l.Close() }()
		if got := l.Addr().Network(); got != "tcp" {
			t.Errorf("Listen() network = %s, want tcp", got)
		}
	})
	t.Run("unix replaces stale socket", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "s.sock")
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		l, err := Listen(p)
		if err != nil {
			t.Fatalf("Listen() error = %v", err)
		}
		defer func() { _ = l.Close() }()
		if got := l.Addr().Network(); got != "unix" {
			t.Errorf("Listen() network = %s, want unix", got)
		}
	})
}
