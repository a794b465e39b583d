// Golang port of Overleaf
// Copyright (C) 2023 Jakob Ackermann <das7pad@outlook.com>
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

package ast

import (
	"strings"
)

type WriterOptions struct {
	IndentChar  byte
	IndentWidth int
	Compress    bool
}

type Writer struct {
	o      WriterOptions
	b      strings.Builder
	depth  int
	indent string
}

func NewWriter(o WriterOptions) *Writer {
	if o.IndentChar == 0 {
		o.IndentChar = ' '
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = 2
	}
	return &Writer{
		o:      o,
		indent: strings.Repeat(string(o.IndentChar), o.IndentWidth),
	}
}

func (w *Writer) Compress() bool {
	return w.o.Compress
}

func (w *Writer) WriteString(s string) {
	w.b.WriteString(s)
}

func (w *Writer) WriteByte(c byte) error {
	return w.b.WriteByte(c)
}

func (w *Writer) Indent() {
	if w.o.Compress {
		return
	}
	for i := 0; i < w.depth; i++ {
		w.b.WriteString(w.indent)
	}
}

func (w *Writer) Newline() {
	if !w.o.Compress {
		w.b.WriteByte('\n')
	}
}

func (w *Writer) OpenBlock() {
	if w.o.Compress {
		w.b.WriteByte('{')
	} else {
		w.b.WriteString(" {\n")
	}
	w.depth++
}

func (w *Writer) CloseBlock() {
	w.depth--
	w.Indent()
	w.b.WriteByte('}')
	w.Newline()
}

func (w *Writer) String() string {
	return w.b.String()
}
