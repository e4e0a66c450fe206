// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import "github.com/golangee/dataform/token"

// Lexer is the common contract every concrete lexer in this package
// satisfies (spec.md §4.3). It never blocks: Process may be called
// repeatedly with successive chunks of input, suspending mid-token
// between calls, and End finalizes whatever partial state remains.
type Lexer interface {
	// Process feeds one chunk of input, enqueuing zero or more tokens.
	Process(chunk string) error
	// End finalizes the lexer: a partial token is emitted best-effort or
	// promoted to EOL depending on the format, and a terminating EOL is
	// guaranteed before EOF.
	End() error
	// Processed returns a snapshot of the still-queued tokens.
	Processed() []token.Token
	// IndexOf/LastIndexOf/Frequency inspect the still-queued tokens.
	IndexOf(typ token.Type) int
	LastIndexOf(typ token.Type) int
	Frequency(typ token.Type) int
	// HasTokens reports whether Next would return a non-EOF token.
	HasTokens() bool
	// CanProcess reports whether End has not yet been called.
	CanProcess() bool
	// Next pops the next token FIFO, or the EOF sentinel.
	Next() token.Token
	// Peek returns the next token without consuming it, or the EOF
	// sentinel, letting the parser decide whether to bind an infix
	// command before committing to pop.
	Peek() token.Token
	// Position and Line report the current cursor location.
	Position() int
	Line() int
}
