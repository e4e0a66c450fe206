// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import "strings"

// opBuffer is the tokenizer-factory mechanism of spec.md §4.3: it holds
// the partial match against a multi-character target (the line
// terminator) across process() calls. A '\r' in a "\r\n" terminator is
// held here until the following character decides whether to append,
// complete, or abort the match.
type opBuffer struct {
	target string
	buf    []rune
}

func newOpBuffer(target string) opBuffer {
	return opBuffer{target: target}
}

// active reports whether a match is in progress.
func (o *opBuffer) active() bool { return len(o.buf) > 0 }

// tryStart begins a match if r is a prefix of target. Reports whether it
// started (and whether that start is already a complete match, for
// single-character terminators).
func (o *opBuffer) tryStart(r rune) (started, complete bool) {
	if len(o.target) == 0 || rune(o.target[0]) != r {
		return false, false
	}

	o.buf = append(o.buf[:0], r)

	return true, len(o.target) == 1
}

// feed extends an in-progress match with r. It reports whether the match
// is now complete, or whether it broke (in which case the caller must
// spill buffered() back out and re-dispatch r on its own).
func (o *opBuffer) feed(r rune) (complete, broke bool) {
	candidate := string(o.buf) + string(r)

	if !strings.HasPrefix(o.target, candidate) {
		return false, true
	}

	o.buf = append(o.buf, r)

	return candidate == o.target, false
}

// buffered returns the characters accumulated so far and clears the
// match, used both on successful completion and on abort/spill.
func (o *opBuffer) buffered() string {
	s := string(o.buf)
	o.buf = o.buf[:0]

	return s
}
