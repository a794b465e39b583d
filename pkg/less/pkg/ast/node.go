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

// Package ast holds the typed tree produced by the parser and by
// evaluation. The node set is closed: Node carries an unexported marker
// method, so only this package can add node kinds.
package ast

import (
	"fmt"
	"strconv"
)

type Node interface {
	fmt.Stringer
	WriteCSS(w *Writer)
	node()
}

type Statement interface {
	Node
	statement()
}

type Expr interface {
	Node
	expr()
}

type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" && p.Line == 0 {
		return "?"
	}
	return p.File + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

func (p Position) IsZero() bool {
	return p == Position{}
}

// CSS renders a node with the given options.
func CSS(n Node, o WriterOptions) string {
	w := NewWriter(o)
	n.WriteCSS(w)
	return w.String()
}

// InlineCSS renders an expression or selector without layout.
func InlineCSS(n Node) string {
	return CSS(n, WriterOptions{})
}
