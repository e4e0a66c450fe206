// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package syntax describes one dialect's lexical and structural rules as
// a single immutable record (spec.md §4.1). A Syntax is built once,
// shared read-only across every conversion that uses it, and never
// mutated afterwards.
package syntax

import (
	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/params"
	"github.com/golangee/dataform/token"
)

// Format identifies which family of rules a Syntax describes.
type Format int

const (
	CSV Format = iota
	INI
)

func (f Format) String() string {
	if f == INI {
		return "INI"
	}

	return "CSV"
}

// QuoteMode controls when a CSV field must or may be quoted on output.
type QuoteMode int

const (
	QuoteAuto QuoteMode = iota
	QuoteAlways
	QuoteNone
)

// DuplicatePolicy controls how a second occurrence of the same section or
// property name is resolved.
type DuplicatePolicy int

const (
	Merge DuplicatePolicy = iota
	Overwrite
	Discard
	Throw
)

// UnicodePrefix describes one "\uXXXX"-style escape family: a prefix rune
// (the 'u' right after the escape char), how many hex (or other radix)
// digits follow, and
// an optional terminating suffix rune for variable-width forms.
type UnicodePrefix struct {
	MinDigits int
	MaxDigits int
	Radix     int
	Suffix    rune // 0 if the escape has no terminator
}

// Escape describes one dialect's escape-sequence rules.
type Escape struct {
	Char                 rune
	AllowedOutsideQuotes bool
	Special              map[rune]bool
	UnicodePrefixes      map[rune]UnicodePrefix
	// Parse resolves a two-or-more character escape sequence (the chars
	// after Char, including any unicode-prefix digits) to its rune. The
	// default, used when Parse is nil, handles the common single
	// character translations (\n, \t, ...) plus registered unicode
	// prefixes.
	Parse func(seq string) (rune, error)
}

// Nesting describes the operators used to (a) traverse nested JSON object
// keys, (b) index into nested JSON arrays, and (c) declare INI
// sub-section hierarchies.
type Nesting struct {
	Object rune // e.g. '.'
	Array  rune // e.g. '#'
	// Relative, when true, means a leading Object/Array rune in a section
	// name is relative to the previously declared section path rather
	// than absolute from the root.
	Relative bool
}

func (n Nesting) enabled() bool { return n.Object != 0 || n.Array != 0 }

// CommentRule describes one comment-starter character's behavior.
type CommentRule struct {
	Retain        bool
	InlineAllowed bool
}

// CellParser converts a raw cell/value string into the JSON value it
// represents. The default (see Syntax.ParseCell) returns nil for
// an empty string and the string itself otherwise.
type CellParser func(raw string) (any, error)

// Engine is the minimal surface a command needs from the parser that is
// invoking it. It is declared here, not in the parser package, so that
// Syntax can hold Commands keyed by token type without creating an import
// cycle; package parser implements this interface.
type Engine interface {
	// Peek returns the next token without consuming it.
	Peek() token.Token
	// Next consumes and returns the next token.
	Next() token.Token
	// ParseExpression runs the Pratt loop with the given minimum binding
	// precedence, as step 4 of spec.md §4.5 describes.
	ParseExpression(minPrecedence int) (expr.Expression, error)
	// Params returns the per-parse mutable bag.
	Params() *params.Params
	// Syntax returns the Syntax driving this parse.
	Syntax() *Syntax
	// Fail builds a positioned *token.Error of the given kind.
	Fail(kind token.Kind, tok token.Token, format string, args ...any) *token.Error
}

// PrefixCommand builds an expression when tok is encountered with no
// preceding left-hand expression.
type PrefixCommand func(e Engine, tok token.Token) (expr.Expression, error)

// InfixCommand builds an expression combining a left-hand expression with
// tok and whatever the command chooses to parse next.
type InfixCommand func(e Engine, tok token.Token, left expr.Expression) (expr.Expression, error)

// Commands is the three-map command registry of spec.md §4.1/§4.5/§4.9.
// Re-registering a token type overwrites the previous command, giving the
// required last-insert-wins semantics for free via plain map assignment.
type Commands struct {
	Prefix  map[token.Type]PrefixCommand
	Infix   map[token.Type]InfixCommand
	Postfix map[token.Type]InfixCommand
}

// NewCommands creates an empty, ready to populate Commands table.
func NewCommands() *Commands {
	return &Commands{
		Prefix:  make(map[token.Type]PrefixCommand),
		Infix:   make(map[token.Type]InfixCommand),
		Postfix: make(map[token.Type]InfixCommand),
	}
}

// RegisterPrefix installs (or replaces) the prefix command for typ.
func (c *Commands) RegisterPrefix(typ token.Type, cmd PrefixCommand) { c.Prefix[typ] = cmd }

// RegisterInfix installs (or replaces) the infix command for typ.
func (c *Commands) RegisterInfix(typ token.Type, cmd InfixCommand) { c.Infix[typ] = cmd }

// RegisterPostfix installs (or replaces) the postfix command for typ.
func (c *Commands) RegisterPostfix(typ token.Type, cmd InfixCommand) { c.Postfix[typ] = cmd }

// Syntax is the immutable, fully resolved configuration for one dialect.
// Construct it with a Builder; never mutate a built Syntax in place, since
// spec.md §5 allows it to be shared read-only across concurrent
// conversions.
type Syntax struct {
	Format Format

	// CSV
	Delimiters      []rune
	QuoteChar       rune
	QuoteMode       QuoteMode
	EnforceSymmetry bool

	// INI
	QuoteChars                          []rune // self-delimiting quote runes, e.g. ' and "
	Assignment                          []rune // one or more assignment delimiters, e.g. '=' or "=:\t\f"
	SectionOpen, SectionClose            rune
	DuplicateSection, DuplicateProperty DuplicatePolicy

	// Shared
	LineTerminator string
	CommentChars   map[rune]CommentRule
	Nesting        Nesting
	Escape         *Escape
	CellParser     CellParser
	IsWhitespace   func(rune) bool
	TrimLeading    bool
	TrimTrailing   bool

	// Metadata, read by formatters/converters only.
	BOM           bool
	Encoding      string
	MediaType     string
	Standard      string
	FileExtension string

	Commands *Commands
}

// Whitespace reports whether r is whitespace under this Syntax, i.e. the
// configured predicate minus the line terminator, per spec.md §4.1.
func (s *Syntax) Whitespace(r rune) bool {
	if s.LineTerminator != "" && len(s.LineTerminator) == 1 && rune(s.LineTerminator[0]) == r {
		return false
	}

	return s.IsWhitespace(r)
}

// IsDelimiter reports whether r is one of the configured CSV delimiters.
func (s *Syntax) IsDelimiter(r rune) bool {
	for _, d := range s.Delimiters {
		if d == r {
			return true
		}
	}

	return false
}

// IsQuoteChar reports whether r is one of the configured INI quote runes.
func (s *Syntax) IsQuoteChar(r rune) bool {
	for _, q := range s.QuoteChars {
		if q == r {
			return true
		}
	}

	return false
}

// IsAssignment reports whether r is one of the configured INI assignment
// delimiters.
func (s *Syntax) IsAssignment(r rune) bool {
	for _, a := range s.Assignment {
		if a == r {
			return true
		}
	}

	return false
}

// IsCommentStart reports whether r begins a comment, and its rule.
func (s *Syntax) IsCommentStart(r rune) (CommentRule, bool) {
	rule, ok := s.CommentChars[r]
	return rule, ok
}

// ParseCell runs the configured CellParser, defaulting to the trivial
// empty-string-is-null rule when none was set.
func (s *Syntax) ParseCell(raw string) (any, error) {
	if s.CellParser == nil {
		if raw == "" {
			return nil, nil
		}

		return raw, nil
	}

	return s.CellParser(raw)
}
