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
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
	"github.com/das7pad/lessc/pkg/less/pkg/parser"
	"github.com/das7pad/lessc/pkg/options/env"
)

type config struct {
	o         less.Options
	input     string
	printTree bool
	serve     string
	cacheSize int
}

func parseIndent(s string) (byte, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	if strings.Trim(s, s[:1]) != "" {
		return 0, 0, &errors.ValidationError{
			Msg: "indent must not mix characters",
		}
	}
	return s[0], len(s), nil
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	c := config{}
	fs := flag.NewFlagSet("lessc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), "Usage: lessc [flags] input.less")
		fs.PrintDefaults()
	}
	fs.BoolVar(
		&c.o.StrictMath, "strict-math", env.GetBool("LESSC_STRICT_MATH"),
		"only reduce math inside parentheses",
	)
	fs.BoolVar(
		&c.o.RelativeURLs, "relative-urls", env.GetBool("LESSC_RELATIVE_URLS"),
		"rewrite urls of imported files relative to the input",
	)
	fs.BoolVar(
		&c.o.Compress, "compress", env.GetBool("LESSC_COMPRESS"),
		"drop optional whitespace",
	)
	fs.BoolVar(
		&c.o.Minify, "minify", env.GetBool("LESSC_MINIFY"),
		"minify the output with esbuild",
	)
	indent := fs.String(
		"indent", env.GetString("LESSC_INDENT", "  "),
		"indentation, spaces or tabs",
	)
	fs.BoolVar(
		&c.printTree, "print-tree", env.GetBool("LESSC_PRINT_TREE"),
		"print the parsed tree instead of css",
	)
	fs.StringVar(
		&c.serve, "serve", env.GetString("LESSC_SERVE", ""),
		"serve compiled css on these comma separated addresses, a leading / selects a unix socket",
	)
	fs.IntVar(
		&c.cacheSize, "cache-size", env.GetInt("LESSC_CACHE_SIZE", 1000),
		"number of parsed files to keep in memory when serving",
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, &errors.ValidationError{Msg: "expected one input path"}
	}
	c.input = fs.Arg(0)

	var err error
	if c.o.IndentChar, c.o.IndentWidth, err = parseIndent(*indent); err != nil {
		return nil, err
	}
	if err = c.o.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func printTree(w io.Writer, f string) error {
	blob, err := os.ReadFile(f)
	if err != nil {
		return errors.Tag(err, "read "+f)
	}
	root, err := parser.Parse(string(blob), f)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, ast.Dump(root))
	return err
}

func run(args []string, stdout, stderr io.Writer) error {
	c, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	switch {
	case c.serve != "":
		return serve(c)
	case c.printTree:
		return printTree(stdout, c.input)
	}
	s, _, err := less.Compile(c.input, c.o)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, s)
	return err
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return
	}
	_, _ = fmt.Fprintln(os.Stderr, "ERR: "+err.Error())
	os.Exit(1)
}
