// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// CSV is the streaming CSV/TSV/DSV text lexer of spec.md §4.3. Outside a
// quoted field, the longest prefix match against the line terminator
// wins (via opBuffer); a broken match spills back as literal field
// content. Inside a quoted field (tracked via a one-rune lookahead on
// the quote char rather than strict parity, since a doubled quote must
// be told apart from a genuine close), delimiter and terminator
// characters are literal.
type CSV struct {
	syn *syntax.Syntax
	cur cursor
	q   queue
	op  opBuffer

	fieldBuf   []rune
	fieldStart token.Pos
	rowStarted bool

	inQuotes          bool
	pendingCloseQuote bool

	ended bool
}

// NewCSV creates a CSV lexer for the given Syntax, ready to Process.
func NewCSV(filename string, syn *syntax.Syntax) *CSV {
	l := &CSV{syn: syn, cur: newCursor(filename), op: newOpBuffer(syn.LineTerminator)}
	l.q = newQueue(token.Token{Type: token.EOF})
	l.fieldStart = l.cur.pos()

	return l
}

func (l *CSV) CanProcess() bool       { return !l.ended }
func (l *CSV) Position() int          { return l.cur.offset }
func (l *CSV) Line() int              { return l.cur.line }
func (l *CSV) Next() token.Token      { return l.q.Next() }
func (l *CSV) Peek() token.Token      { return l.q.Peek() }
func (l *CSV) Processed() []token.Token { return l.q.Processed() }
func (l *CSV) HasTokens() bool        { return l.q.HasTokens() }
func (l *CSV) IndexOf(t token.Type) int     { return l.q.IndexOf(t) }
func (l *CSV) LastIndexOf(t token.Type) int { return l.q.LastIndexOf(t) }
func (l *CSV) Frequency(t token.Type) int   { return l.q.Frequency(t) }

func (l *CSV) Process(chunk string) error {
	if l.ended {
		return token.New(token.KindToken, "lexer already ended")
	}

	for _, r := range chunk {
		if err := l.step(r); err != nil {
			return err
		}
	}

	return nil
}

func (l *CSV) step(r rune) error {
	if l.pendingCloseQuote {
		l.pendingCloseQuote = false

		if r == l.syn.QuoteChar {
			// Doubled quote: escaped literal, stays inside the field.
			l.fieldBuf = append(l.fieldBuf, r)
			l.rowStarted = true

			return nil
		}

		// The earlier quote really did close the field; fall through to
		// dispatch r under "not inside quotes" rules.
		l.inQuotes = false
	}

	if l.inQuotes {
		l.rowStarted = true

		if r == l.syn.QuoteChar {
			l.fieldBuf = append(l.fieldBuf, r)
			l.pendingCloseQuote = true
			l.cur.advance(r)

			return nil
		}

		l.fieldBuf = append(l.fieldBuf, r)
		l.cur.advance(r)

		return nil
	}

	if l.op.active() {
		complete, broke := l.op.feed(r)

		if broke {
			spilled := l.op.buffered()
			l.fieldBuf = append(l.fieldBuf, []rune(spilled)...)
			l.rowStarted = l.rowStarted || len(spilled) > 0
			// r was not consumed by the match; dispatch it fresh.
			return l.dispatch(r)
		}

		l.cur.advance(r)

		if complete {
			eol := l.op.buffered()
			l.emitRecord(eol)
		}

		return nil
	}

	return l.dispatch(r)
}

// dispatch handles r when neither inside quotes nor mid-terminator-match.
func (l *CSV) dispatch(r rune) error {
	if l.fieldBuf == nil && l.syn.QuoteMode != syntax.QuoteNone && r == l.syn.QuoteChar {
		l.inQuotes = true
		l.fieldBuf = append(l.fieldBuf, r)
		l.rowStarted = true
		l.cur.advance(r)

		return nil
	}

	if started, complete := l.op.tryStart(r); started {
		l.rowStarted = true
		l.cur.advance(r)

		if complete {
			l.emitRecord(l.op.buffered())
		}

		return nil
	}

	if l.syn.IsDelimiter(r) {
		l.rowStarted = true
		start := l.fieldStart
		end := l.cur.pos()
		l.q.push(token.New(token.Field, string(l.fieldBuf), start, end))

		sepStart := l.cur.pos()
		l.cur.advance(r)
		l.q.push(token.New(token.Separator, string(r), sepStart, l.cur.pos()))

		l.fieldBuf = nil
		l.fieldStart = l.cur.pos()

		return nil
	}

	l.rowStarted = true
	l.fieldBuf = append(l.fieldBuf, r)
	l.cur.advance(r)

	return nil
}

// emitRecord pushes the pending FIELD and an EOL carrying the given
// terminator text, then resets per-row lexer state.
func (l *CSV) emitRecord(eol string) {
	start := l.fieldStart
	end := l.cur.pos()
	l.q.push(token.New(token.Field, string(l.fieldBuf), start, end))
	l.q.push(token.New(token.CSVEOL, eol, end, l.cur.pos()))

	l.fieldBuf = nil
	l.fieldStart = l.cur.pos()
	l.rowStarted = false
}

// End finalizes the lexer: any partial terminator match is spilled as
// literal text and, if a row is still open, a synthetic EOL is emitted
// so the trailing record is not lost (spec.md §8, "a trailing record
// without an eol is still emitted on flush").
func (l *CSV) End() error {
	if l.ended {
		return nil
	}

	l.ended = true

	if l.pendingCloseQuote {
		l.pendingCloseQuote = false
		l.inQuotes = false
	}

	if l.op.active() {
		spilled := l.op.buffered()
		l.fieldBuf = append(l.fieldBuf, []rune(spilled)...)
		l.rowStarted = l.rowStarted || len(spilled) > 0
	}

	if l.rowStarted || len(l.fieldBuf) > 0 {
		l.emitRecord(l.syn.LineTerminator)
	}

	return nil
}
