// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package lexer implements the streaming, chunk-tolerant text lexers of
// spec.md §4.3: one family per format (CSV, INI), built on a shared
// tokenizer-factory mechanism for multi-character tokens that may span a
// process() call boundary, plus the JSON-to-token lexers used for the
// JSON -> text direction.
package lexer

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/golangee/dataform/token"
)

// cursor tracks the lexer's position as runes are consumed. Column is
// monotonic within a line and resets to 1 at a line terminator, per
// spec.md §3's invariant on Lexer.
type cursor struct {
	filename string
	line     int
	col      int
	offset   int
}

func newCursor(filename string) cursor {
	return cursor{filename: filename, line: 1, col: 1}
}

// pos returns the position of the rune that would be read next.
func (c cursor) pos() token.Pos {
	return token.Pos{Position: lexer.Position{Filename: c.filename, Line: c.line, Column: c.col, Offset: c.offset}}
}

// advance returns the position of r (before consuming it) and moves the
// cursor past it.
func (c *cursor) advance(r rune) token.Pos {
	p := c.pos()

	c.offset += len(string(r))

	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}

	return p
}
