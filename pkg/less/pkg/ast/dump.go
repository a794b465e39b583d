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
	"github.com/xlab/treeprint"
)

// Dump renders the node tree for debugging.
func Dump(n Node) string {
	t := treeprint.New()
	dump(t, n)
	return t.String()
}

func dump(t treeprint.Tree, n Node) {
	switch n := n.(type) {
	case *Stylesheet:
		b := t.AddBranch(n.String())
		dumpStatements(b, n.Rules)
	case *Ruleset:
		b := t.AddBranch(n.String())
		if n.Guard != nil {
			b.AddNode("when " + InlineCSS(n.Guard))
		}
		dumpStatements(b, n.Rules)
	case *MixinDefinition:
		b := t.AddBranch(n.String())
		for _, p := range n.Params {
			switch p.Kind {
			case ParamPattern:
				b.AddNode("pattern " + InlineCSS(p.Value))
			case ParamVariadic:
				b.AddNode("@" + p.Name + "...")
			default:
				if p.Value != nil {
					b.AddNode("@" + p.Name + ": " + InlineCSS(p.Value))
				} else {
					b.AddNode("@" + p.Name)
				}
			}
		}
		if n.Guard != nil {
			b.AddNode("when " + InlineCSS(n.Guard))
		}
		dumpStatements(b, n.Rules)
	case *Media:
		b := t.AddBranch(n.String())
		dumpStatements(b, n.Rules)
	case *AtRule:
		if n.HasBlock {
			b := t.AddBranch(n.String())
			dumpStatements(b, n.Rules)
		} else {
			t.AddNode(n.String())
		}
	case *MixinCall:
		b := t.AddBranch(n.String())
		for _, a := range n.Args {
			if a.Name != "" {
				b.AddNode("@" + a.Name + ": " + a.Value.String())
			} else {
				b.AddNode(a.Value.String())
			}
		}
	case *Declaration:
		t.AddNode(n.Name.Text() + ": " + n.Value.String())
	case *VariableDeclaration:
		if d, ok := n.Value.(*DetachedRuleset); ok {
			b := t.AddBranch("@" + n.Name)
			dumpStatements(b, d.Rules)
		} else {
			t.AddNode("@" + n.Name + ": " + n.Value.String())
		}
	default:
		t.AddNode(n.String())
	}
}

func dumpStatements(t treeprint.Tree, rules []Statement) {
	for _, r := range rules {
		dump(t, r)
	}
}
