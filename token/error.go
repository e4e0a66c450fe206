// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Kind discriminates the error taxonomy of spec.md §7. Each Kind is a node
// in a small "is-a DataError" tree, flattened from the source's prototype
// inheritance per spec.md §9 into a single tagged struct.
type Kind int

const (
	// KindData is the generic root: any failure in the data pipeline that
	// doesn't fit a more specific Kind.
	KindData Kind = iota
	// KindParse is a syntactic violation caught by the parser (missing
	// prefix command, row symmetry violation, ...).
	KindParse
	// KindSyntax is a ParseError tagged to one specific token's position.
	KindSyntax
	// KindToken is a lexer rejection: an invalid character or malformed
	// token.
	KindToken
	// KindExpression is a semantic violation on an already-built
	// expression (duplicate under throw policy, Section/Property name
	// clash, ...).
	KindExpression
	// KindFormat is a formatter that received a node it cannot emit.
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindSyntax:
		return "SyntaxError"
	case KindToken:
		return "TokenError"
	case KindExpression:
		return "ExpressionError"
	case KindFormat:
		return "FormatError"
	default:
		return "DataError"
	}
}

// Error is the single concrete error type for the whole core. Every
// raised error carries a Kind, an optional position, a message, and an
// optional cause, mirroring the source's PosError/Explain machinery
// (token/error.go in the teacher) but as one flat struct instead of a
// class hierarchy.
type Error struct {
	Kind    Kind
	Pos     Pos
	HasPos  bool
	Message string
	Cause   error
}

// New creates a positionless Error of the given Kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At creates an Error tagged to the given node's begin position.
func At(kind Kind, n Node, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: n.Begin(), HasPos: true, Message: fmt.Sprintf(format, args...)}
}

// AtToken creates an Error tagged to a token's begin position; this is
// the common case for KindSyntax and KindToken.
func AtToken(kind Kind, t Token, format string, args ...any) *Error {
	return At(kind, t, format, args...)
}

// WithCause attaches a wrapped cause and returns the receiver for chaining.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.String())

	if e.HasPos {
		sb.WriteString(" at ")
		sb.WriteString(e.Pos.String())
	}

	sb.WriteString(": ")
	sb.WriteString(e.Message)

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, KindParse) style matching against a bare Kind
// wrapped in an Error with no message, by comparing Kinds.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}

	return false
}

// Explain renders a one-line, human readable message including kind,
// line, position and context, with the full cause chain appended — the
// "user-visible failure" contract of spec.md §7. Unlike the teacher's
// multi-line caret snippet (which needs the original source text kept
// around), this renders from the Error alone since the core does not
// retain source buffers once a chunk has been consumed.
func Explain(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}

	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return fmt.Sprintf("%s: %s:%s: %s", KindSyntax, pos.Filename,
			strconv.Itoa(pos.Line)+":"+strconv.Itoa(pos.Column), perr.Message())
	}

	return err.Error()
}
