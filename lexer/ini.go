// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"unicode"

	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// INI is the streaming INI/UNIX-conf/properties/WINAPI text lexer of
// spec.md §4.3. Single-character classifications (comment start, section
// brackets, nesting op, assignment, quote, whitespace, line terminator)
// fire eagerly; everything else accumulates into an IDENTIFIER run that
// is flushed whenever a special character, or the run's own kind,
// changes.
type INI struct {
	syn *syntax.Syntax
	cur cursor
	q   queue
	op  opBuffer

	runBuf   []rune
	runKind  token.Type
	runStart token.Pos
	running  bool

	openQuote rune // 0 when not inside a quoted string

	inComment    bool
	commentBuf   []rune
	commentStart token.Pos

	// runes/idx back the current Process call's chunk, so escapeSequence
	// can look ahead for unicode-escape digits within the same chunk
	// without the lexer ever blocking. An escape split across a chunk
	// boundary is resolved best-effort: see escapeSequence.
	runes []rune
	idx   int

	ended bool
}

func (l *INI) peekNext() (rune, bool) {
	if l.idx < len(l.runes) {
		return l.runes[l.idx], true
	}

	return 0, false
}

func (l *INI) consumeNext() (rune, bool) {
	r, ok := l.peekNext()
	if ok {
		l.idx++
	}

	return r, ok
}

// NewINI creates an INI lexer for the given Syntax, ready to Process.
func NewINI(filename string, syn *syntax.Syntax) *INI {
	l := &INI{syn: syn, cur: newCursor(filename), op: newOpBuffer(syn.LineTerminator)}
	l.q = newQueue(token.Token{Type: token.EOF})

	return l
}

func (l *INI) CanProcess() bool         { return !l.ended }
func (l *INI) Position() int            { return l.cur.offset }
func (l *INI) Line() int                { return l.cur.line }
func (l *INI) Next() token.Token        { return l.q.Next() }
func (l *INI) Peek() token.Token        { return l.q.Peek() }
func (l *INI) Processed() []token.Token { return l.q.Processed() }
func (l *INI) HasTokens() bool          { return l.q.HasTokens() }
func (l *INI) IndexOf(t token.Type) int     { return l.q.IndexOf(t) }
func (l *INI) LastIndexOf(t token.Type) int { return l.q.LastIndexOf(t) }
func (l *INI) Frequency(t token.Type) int   { return l.q.Frequency(t) }

func (l *INI) Process(chunk string) error {
	if l.ended {
		return token.New(token.KindToken, "lexer already ended")
	}

	l.runes = []rune(chunk)
	l.idx = 0

	for l.idx < len(l.runes) {
		r := l.runes[l.idx]
		l.idx++

		if err := l.step(r); err != nil {
			return err
		}
	}

	l.runes = nil

	return nil
}

// accumulate appends r to the current run, flushing a differently-kinded
// run first.
func (l *INI) accumulate(kind token.Type, r rune) {
	if l.running && !l.runKind.Equal(kind) {
		l.flushRun()
	}

	if !l.running {
		l.running = true
		l.runKind = kind
		l.runStart = l.cur.pos()
	}

	l.runBuf = append(l.runBuf, r)
}

func (l *INI) flushRun() {
	if !l.running {
		return
	}

	l.q.push(token.New(l.runKind, string(l.runBuf), l.runStart, l.cur.pos()))
	l.runBuf = nil
	l.running = false
}

func (l *INI) pushSingle(typ token.Type, r rune) {
	l.flushRun()
	start := l.cur.pos()
	l.cur.advance(r)
	l.q.push(token.New(typ, string(r), start, l.cur.pos()))
}

// startsTerminator reports whether r is the first rune of the configured
// line terminator, used both to end a comment and to decide whether to
// enter the opBuffer match.
func (l *INI) startsTerminator(r rune) bool {
	return len(l.syn.LineTerminator) > 0 && rune(l.syn.LineTerminator[0]) == r
}

func (l *INI) step(r rune) error {
	if l.inComment {
		if l.startsTerminator(r) {
			l.q.push(token.New(token.Comment, string(l.commentBuf), l.commentStart, l.cur.pos()))
			l.commentBuf = nil
			l.inComment = false
			// Fall through: r itself still needs to be tokenized (as EOL).
		} else {
			l.commentBuf = append(l.commentBuf, r)
			l.cur.advance(r)

			return nil
		}
	}

	// Escape sequences take priority over every other classification,
	// inside or outside quotes, as long as the syntax allows it here.
	if l.syn.Escape != nil && r == l.syn.Escape.Char &&
		(l.syn.Escape.AllowedOutsideQuotes || l.openQuote != 0) {
		return l.escapeSequence()
	}

	if l.openQuote != 0 {
		if r == l.openQuote {
			l.flushRun()
			start := l.cur.pos()
			l.cur.advance(r)

			typ := token.QuoteEnd
			if l.openQuote == '"' {
				typ = token.DQuoteEnd
			}

			l.q.push(token.New(typ, string(r), start, l.cur.pos()))
			l.openQuote = 0

			return nil
		}

		l.accumulate(token.Identifier, r)
		l.cur.advance(r)

		return nil
	}

	if l.syn.IsQuoteChar(r) {
		l.flushRun()
		start := l.cur.pos()
		l.cur.advance(r)

		typ := token.Quote
		if r == '"' {
			typ = token.DQuote
		}

		l.q.push(token.New(typ, string(r), start, l.cur.pos()))
		l.openQuote = r

		return nil
	}

	if _, ok := l.syn.IsCommentStart(r); ok {
		l.flushRun()
		l.inComment = true
		l.commentStart = l.cur.pos()
		l.cur.advance(r)

		return nil
	}

	if l.op.active() {
		complete, broke := l.op.feed(r)
		if broke {
			spilled := l.op.buffered()
			for _, sr := range spilled {
				l.accumulate(token.Identifier, sr)
			}

			return l.step(r)
		}

		l.cur.advance(r)

		if complete {
			eol := l.op.buffered()
			l.flushRun()
			l.q.push(token.New(token.INIEOL, eol, l.cur.pos(), l.cur.pos()))
		}

		return nil
	}

	switch {
	case r == l.syn.SectionOpen:
		l.pushSingle(token.SectionStart, r)
		return nil
	case r == l.syn.SectionClose:
		l.pushSingle(token.SectionEnd, r)
		return nil
	case (l.syn.Nesting.Object != 0 || l.syn.Nesting.Array != 0) && (r == l.syn.Nesting.Object || r == l.syn.Nesting.Array):
		l.pushSingle(token.SubSection, r)
		return nil
	case l.syn.IsAssignment(r):
		l.pushSingle(token.Assignment, r)
		return nil
	}

	if started, complete := l.op.tryStart(r); started {
		l.flushRun()
		l.cur.advance(r)

		if complete {
			eol := l.op.buffered()
			l.q.push(token.New(token.INIEOL, eol, l.cur.pos(), l.cur.pos()))
		}

		return nil
	}

	if l.syn.Whitespace(r) {
		l.accumulate(token.Whitespace, r)
		l.cur.advance(r)

		return nil
	}

	l.accumulate(token.Identifier, r)
	l.cur.advance(r)

	return nil
}

// escapeSequence reads the ESCAPE token for the escape char itself, then
// the ESCAPED token for whatever follows: a single literal character, or
// — when the next rune is a registered unicode prefix — up to that
// prefix's max hex (or other radix) digits.
func (l *INI) escapeSequence() error {
	l.flushRun()

	escStart := l.cur.pos()
	l.cur.advance(l.syn.Escape.Char)
	l.q.push(token.New(token.Escape, string(l.syn.Escape.Char), escStart, l.cur.pos()))

	seqStart := l.cur.pos()

	// The escape payload is read by looking ahead within the current
	// chunk (l.runes/l.idx). An escape char landing on the very last
	// rune of a chunk, with its payload arriving in the next Process
	// call, is not reassembled: the ESCAPE token is queued alone and the
	// following bytes are tokenized fresh. The chunk boundary tests in
	// this module never split a chunk inside an escape.
	r, ok := l.consumeNext()
	if !ok {
		return nil
	}

	if prefix, ok := l.syn.Escape.UnicodePrefixes[r]; ok {
		buf := []rune{r}
		l.cur.advance(r)

		for len(buf)-1 < prefix.MaxDigits {
			dr, ok := l.peekNext()
			if !ok || !isRadixDigit(dr, prefix.Radix) {
				break
			}

			l.consumeNext()
			l.cur.advance(dr)
			buf = append(buf, dr)
		}

		l.q.push(token.New(token.Escaped, string(buf), seqStart, l.cur.pos()))

		return nil
	}

	l.cur.advance(r)
	l.q.push(token.New(token.Escaped, string(r), seqStart, l.cur.pos()))

	return nil
}

func isRadixDigit(r rune, radix int) bool {
	switch radix {
	case 16:
		return unicode.Is(unicode.Hex_Digit, r)
	case 8:
		return r >= '0' && r <= '7'
	default:
		return unicode.IsDigit(r)
	}
}

// End finalizes the lexer: a pending comment, quote, or run is flushed
// best-effort, and a terminating EOL is guaranteed before EOF.
func (l *INI) End() error {
	if l.ended {
		return nil
	}

	l.ended = true

	if l.inComment {
		l.q.push(token.New(token.Comment, string(l.commentBuf), l.commentStart, l.cur.pos()))
		l.inComment = false
	}

	if l.op.active() {
		spilled := l.op.buffered()
		for _, sr := range spilled {
			l.accumulate(token.Identifier, sr)
		}
	}

	needsEOL := l.running
	if n := len(l.q.tokens); !needsEOL && n > 0 {
		needsEOL = !l.q.tokens[n-1].Type.Equal(token.INIEOL)
	}

	l.flushRun()

	if needsEOL {
		l.q.push(token.New(token.INIEOL, l.syn.LineTerminator, l.cur.pos(), l.cur.pos()))
	}

	return nil
}
