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

package errors

import (
	"fmt"
	"strconv"
)

type SyntaxError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return e.File + ":" + strconv.Itoa(e.Line) + ":" +
		strconv.Itoa(e.Column) + ": syntax error: " + e.Msg
}

func (e *SyntaxError) IsUserFacing() {}

func IsSyntaxError(err error) bool {
	_, ok := GetCause(err).(*SyntaxError)
	return ok
}

type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return "variable @" + e.Name + " is undefined"
}

func (e *UndefinedVariableError) IsUserFacing() {}

func IsUndefinedVariableError(err error) bool {
	_, ok := GetCause(err).(*UndefinedVariableError)
	return ok
}

type RecursiveVariableError struct {
	Name string
}

func (e *RecursiveVariableError) Error() string {
	return "recursive variable definition for @" + e.Name
}

func (e *RecursiveVariableError) IsUserFacing() {}

type NoMixinFoundError struct {
	Selector string
	Detail   string
}

func (e *NoMixinFoundError) Error() string {
	if e.Detail != "" {
		return "no mixin found for " + e.Selector + ": " + e.Detail
	}
	return "no mixin found for " + e.Selector
}

func (e *NoMixinFoundError) IsUserFacing() {}

func IsNoMixinFoundError(err error) bool {
	_, ok := GetCause(err).(*NoMixinFoundError)
	return ok
}

type AmbiguousDefaultGuardError struct {
	Selector string
}

func (e *AmbiguousDefaultGuardError) Error() string {
	return "ambiguous use of default() for " + e.Selector
}

func (e *AmbiguousDefaultGuardError) IsUserFacing() {}

type InvalidMixinCallError struct {
	Msg string
}

func (e *InvalidMixinCallError) Error() string {
	return "invalid mixin call: " + e.Msg
}

func (e *InvalidMixinCallError) IsUserFacing() {}

func IsInvalidMixinCallError(err error) bool {
	_, ok := GetCause(err).(*InvalidMixinCallError)
	return ok
}

type ComparisonError struct {
	LHS string
	Op  string
	RHS string
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf(
		"comparison only works with comparable operands: %s %s %s",
		e.LHS, e.Op, e.RHS,
	)
}

func (e *ComparisonError) IsUserFacing() {}

func IsComparisonError(err error) bool {
	_, ok := GetCause(err).(*ComparisonError)
	return ok
}

type ArgumentError struct {
	Function string
	Msg      string
}

func (e *ArgumentError) Error() string {
	return e.Function + "(): " + e.Msg
}

func (e *ArgumentError) IsUserFacing() {}

func IsArgumentError(err error) bool {
	_, ok := GetCause(err).(*ArgumentError)
	return ok
}

type OperationError struct {
	Msg string
}

func (e *OperationError) Error() string {
	return "operation: " + e.Msg
}

func (e *OperationError) IsUserFacing() {}

type IdentifierError struct {
	Msg string
}

func (e *IdentifierError) Error() string {
	return "identifier: " + e.Msg
}

func (e *IdentifierError) IsUserFacing() {}

type ImportError struct {
	Path  string
	cause error
}

func NewImportError(p string, cause error) *ImportError {
	return &ImportError{Path: p, cause: cause}
}

func (e *ImportError) Error() string {
	return "import " + strconv.Quote(e.Path) + ": " + e.cause.Error()
}

func (e *ImportError) Cause() error {
	return e.cause
}

func (e *ImportError) Unwrap() error {
	return e.cause
}

func (e *ImportError) IsUserFacing() {}
