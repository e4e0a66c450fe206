// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package convert implements the streaming transform of spec.md §4.8:
// Converter wires one lexer, one parser, one syntax, and one Params bag
// together, exposing Transform (feed a chunk, get back every expression
// the lexer now holds enough tokens to complete) and Flush (finalize and
// emit whatever tail remains).
package convert

import (
	"strings"

	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/format"
	"github.com/golangee/dataform/lexer"
	"github.com/golangee/dataform/params"
	"github.com/golangee/dataform/parser"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// Converter composes a Lexer, a Syntax's command table (via parser.Parser),
// and a Params bag into the single streaming transform of spec.md §4.8.
// One Converter belongs to exactly one conversion (spec.md §5): it is
// never shared, and nothing it touches is safe for concurrent use.
type Converter struct {
	lex    lexer.Lexer
	syn    *syntax.Syntax
	params *params.Params
	parser *parser.Parser

	sawFirstChunk bool
	documentDone  bool
}

// New creates a Converter over lex, under syn's command table, threading
// p as the mutable scratch area for the whole conversion.
func New(lex lexer.Lexer, syn *syntax.Syntax, p *params.Params) *Converter {
	return &Converter{lex: lex, syn: syn, params: p, parser: parser.New(lex, syn, p)}
}

// Transform takes an already decoded chunk (stripping a matching BOM from the very first
// chunk, per SPEC_FULL.md's symmetric-BOM supplement to spec.md §9(c)),
// feeds it to the lexer, and, for CSV, parses and returns one Record per
// complete row the lexer now holds (spec.md §4.8: "while the lexer holds
// at least one EOL, parse one record ... and push it out"). INI documents
// are not row-oriented — a section is only complete at its SECTION_END or
// EOF — so Transform only feeds the lexer for INI; the whole tree is
// built once, by Flush, via parser.Parser.ParseDocument.
func (c *Converter) Transform(chunk string, encoding string) ([]expr.Expression, error) {
	if !c.sawFirstChunk {
		c.sawFirstChunk = true
		chunk = stripBOM(chunk, encoding)
	}

	if err := c.lex.Process(chunk); err != nil {
		return nil, err
	}

	if c.syn.Format != syntax.CSV {
		return nil, nil
	}

	var out []expr.Expression

	for c.lex.Frequency(token.CSVEOL) > 0 {
		e, err := c.parser.ParseExpression(0)
		if err != nil {
			return out, err
		}

		out = append(out, e)
	}

	return out, nil
}

// Flush finalizes the lexer and parses whatever tail remains: for CSV,
// a trailing record without an EOL that End() promoted to one (spec.md
// §8 "a trailing record without an eol is still emitted on flush"); for
// INI, the entire document, since an INI parse only completes once EOF
// is in hand.
func (c *Converter) Flush() (expr.Expression, error) {
	if err := c.lex.End(); err != nil {
		return nil, err
	}

	switch c.syn.Format {
	case syntax.INI:
		if c.documentDone {
			return nil, nil
		}

		c.documentDone = true

		return c.parser.ParseDocument()
	default:
		if !c.lex.HasTokens() {
			return nil, nil
		}

		return c.parser.ParseExpression(0)
	}
}

// stripBOM removes a leading byte-order-mark from chunk. Decoding bytes
// to text is the external transform glue's job (spec.md §1 non-goals);
// by the time a chunk reaches Transform it is already a Go string, so
// the only BOM shape left to see is the decoded U+FEFF marker itself
// (every multi-byte encoding in format.BOMBytes' table decodes to that
// one code point). encoding is accepted for symmetry with Transform's
// signature and so a caller can tell a genuinely BOM-less encoding
// (empty table entry) from "present but already stripped upstream".
func stripBOM(chunk string, encoding string) string {
	bom := string(rune(0xFEFF))

	if format.BOMBytes(encoding) == nil {
		return chunk
	}

	return strings.TrimPrefix(chunk, bom)
}
