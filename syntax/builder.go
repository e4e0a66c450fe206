// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	"unicode"

	"github.com/golangee/dataform/token"
)

// Builder mediates Syntax construction with cross-field validation,
// per spec.md §4.1. It is mutable scratch state; call Build to obtain
// the immutable Syntax once every option is set.
type Builder struct {
	s Syntax
}

// NewBuilder starts from the zero-value Syntax plus the handful of
// defaults every dialect needs (whitespace predicate, line terminator,
// command table).
func NewBuilder(format Format) *Builder {
	b := &Builder{s: Syntax{
		Format:         format,
		LineTerminator: "\n",
		IsWhitespace:   unicode.IsSpace,
		CommentChars:   make(map[rune]CommentRule),
		Commands:       NewCommands(),
	}}

	return b
}

func (b *Builder) Delimiters(d ...rune) *Builder { b.s.Delimiters = d; return b }
func (b *Builder) LineTerminator(s string) *Builder { b.s.LineTerminator = s; return b }
func (b *Builder) QuoteChar(r rune, mode QuoteMode) *Builder {
	b.s.QuoteChar = r
	b.s.QuoteMode = mode

	return b
}
func (b *Builder) EnforceSymmetry(v bool) *Builder { b.s.EnforceSymmetry = v; return b }
func (b *Builder) QuoteChars(rs ...rune) *Builder   { b.s.QuoteChars = rs; return b }
func (b *Builder) Assignment(rs ...rune) *Builder   { b.s.Assignment = rs; return b }
func (b *Builder) SectionBrackets(open, close rune) *Builder {
	b.s.SectionOpen = open
	b.s.SectionClose = close

	return b
}
func (b *Builder) DuplicateSection(p DuplicatePolicy) *Builder  { b.s.DuplicateSection = p; return b }
func (b *Builder) DuplicateProperty(p DuplicatePolicy) *Builder { b.s.DuplicateProperty = p; return b }
func (b *Builder) Nesting(n Nesting) *Builder                   { b.s.Nesting = n; return b }
func (b *Builder) Escape(e *Escape) *Builder                    { b.s.Escape = e; return b }
func (b *Builder) CellParser(p CellParser) *Builder             { b.s.CellParser = p; return b }
func (b *Builder) Whitespace(p func(rune) bool) *Builder        { b.s.IsWhitespace = p; return b }
func (b *Builder) Trim(leading, trailing bool) *Builder {
	b.s.TrimLeading = leading
	b.s.TrimTrailing = trailing

	return b
}
func (b *Builder) BOM(v bool) *Builder               { b.s.BOM = v; return b }
func (b *Builder) Encoding(v string) *Builder         { b.s.Encoding = v; return b }
func (b *Builder) MediaType(v string) *Builder        { b.s.MediaType = v; return b }
func (b *Builder) Standard(v string) *Builder         { b.s.Standard = v; return b }
func (b *Builder) FileExtension(v string) *Builder    { b.s.FileExtension = v; return b }

// Comment registers a comment-starter character and its rule.
func (b *Builder) Comment(ch rune, retain, inlineAllowed bool) *Builder {
	b.s.CommentChars[ch] = CommentRule{Retain: retain, InlineAllowed: inlineAllowed}
	return b
}

// CommandTable exposes the in-progress command table so a dialect's init
// function can register its prefix/infix commands directly.
func (b *Builder) CommandTable() *Commands { return b.s.Commands }

// CurrentQuoteChar returns the CSV quote rune configured so far, letting a
// later call change only its QuoteMode via QuoteChar without repeating the
// rune.
func (b *Builder) CurrentQuoteChar() rune { return b.s.QuoteChar }

// structuralTokens collects every single-character structural token this
// Builder has configured, for the uniqueness/whitespace validation below.
func (b *Builder) structuralTokens() map[string]string {
	toks := make(map[string]string)

	add := func(name string, r rune) {
		if r == 0 {
			return
		}

		toks[name] = string(r)
	}

	for _, d := range b.s.Delimiters {
		add("delimiter "+string(d), d)
	}

	if len(b.s.LineTerminator) == 1 {
		add("line terminator", rune(b.s.LineTerminator[0]))
	}

	add("quote", b.s.QuoteChar)

	for _, q := range b.s.QuoteChars {
		add("quote "+string(q), q)
	}

	for _, a := range b.s.Assignment {
		add("assignment "+string(a), a)
	}

	add("section open", b.s.SectionOpen)
	add("section close", b.s.SectionClose)
	add("nesting object", b.s.Nesting.Object)
	add("nesting array", b.s.Nesting.Array)

	if b.s.Escape != nil {
		add("escape", b.s.Escape.Char)

		for p := range b.s.Escape.UnicodePrefixes {
			add("unicode prefix "+string(p), p)
		}
	}

	for c := range b.s.CommentChars {
		add("comment "+string(c), c)
	}

	return toks
}

// Build validates cross-field constraints and returns the immutable
// Syntax, or a *token.Error describing the first violation found.
//
// Validation contracts (spec.md §4.1):
//   - no two structural tokens may be the same single-rune string.
//   - none of those tokens may satisfy the whitespace predicate.
//   - single-character options must in fact have length 1 (guaranteed
//     here since every field above is typed as rune, not string).
func (b *Builder) Build() (*Syntax, error) {
	toks := b.structuralTokens()

	seen := make(map[string]string, len(toks))

	for name, val := range toks {
		if other, dup := seen[val]; dup {
			return nil, token.New(token.KindData,
				"structural token %q is used by both %s and %s", val, other, name)
		}

		seen[val] = name

		r := []rune(val)[0]
		if b.s.IsWhitespace(r) && !(len(b.s.LineTerminator) == 1 && rune(b.s.LineTerminator[0]) == r) {
			return nil, token.New(token.KindData,
				"structural token %q (%s) must not be classified as whitespace", val, name)
		}
	}

	if b.s.LineTerminator == "" {
		return nil, token.New(token.KindData, "line terminator must not be empty")
	}

	out := b.s
	out.CommentChars = cloneCommentChars(b.s.CommentChars)
	out.Commands = b.s.Commands // command table is shared read-only after Build

	return &out, nil
}

func cloneCommentChars(m map[rune]CommentRule) map[rune]CommentRule {
	out := make(map[rune]CommentRule, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// Rebuild copies every field from an existing Syntax into the builder
// (no validation is re-run until Build is called again), letting a
// caller start a new dialect as a variation of an existing one.
func Rebuild(from *Syntax) *Builder {
	b := &Builder{s: *from}
	b.s.CommentChars = cloneCommentChars(from.CommentChars)

	return b
}

// Clear resets the builder. When toDefaults is true it reinitializes to
// NewBuilder's defaults for the same Format; otherwise it zeroes
// everything, including the whitespace predicate and command table.
func (b *Builder) Clear(toDefaults bool) *Builder {
	format := b.s.Format

	if toDefaults {
		*b = *NewBuilder(format)
		return b
	}

	b.s = Syntax{Format: format, CommentChars: make(map[rune]CommentRule), Commands: NewCommands()}

	return b
}
