// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package params holds the mutable, per-parse scratch area described in
// spec.md §3 ("Params"): the bits of state a single conversion accumulates
// as it walks its token stream, as opposed to the read-only Syntax it
// walks under. One Params belongs to exactly one conversion; it is never
// shared across parses, matching the single-threaded scheduling model of
// spec.md §5.
package params

// DuplicateAction enumerates the ways a repeated section or property
// name can be resolved. Params has no field of this type, and the parser
// does not report which action it took.
type DuplicateAction int

const (
	DuplicateNone DuplicateAction = iota
	DuplicateMerged
	DuplicateOverwritten
	DuplicateDiscarded
)

// Params is the exclusive, mutable scratch area for one conversion.
// Fields are set at most once where the comment says so; everything else
// is free to mutate as the parse progresses.
type Params struct {
	// Header is the CSV column path list, set once from the first row
	// unless Headerless is true, in which case it is supplied by the
	// caller up front.
	Header []string
	// Headerless is set once, before parsing begins.
	Headerless bool
	// HeaderWritten tracks whether a formatter has already emitted the
	// header row — see SPEC_FULL.md §C for why this replaces the
	// source's inverted "headerless" check.
	HeaderWritten bool

	// RowCount counts the CSV records emitted so far; FieldCount resets
	// to 0 at each CSV record boundary (EOL).
	RowCount   int
	FieldCount int

	// SectionPath is the dotted path of the INI section currently being
	// populated; it is replaced with the full path each time a
	// [SECTION_START...SECTION_END] header is parsed.
	SectionPath []string
	// InsideSectionName is true while the parser is reading the bracketed
	// name of a section, during which a nesting char means "path
	// separator" rather than "start a new sub-section".
	InsideSectionName bool

	// PendingBlockComments accumulates comment lines seen before the next
	// non-comment expression; PendingInlineComment holds a single
	// same-line trailing comment. Both are drained (and reset) by the
	// command that attaches them to the expression they precede/follow.
	PendingBlockComments []string
	PendingInlineComment string

	// Assigned is true once the current KeyValue has consumed its '='
	// (or equivalent) token. The INI assignment commands set it; it is
	// never reset, and no command reads it.
	Assigned bool
}

// New creates a Params for a fresh conversion. header is nil for INI or
// for CSV input that carries its own header row.
func New(header []string, headerless bool) *Params {
	return &Params{Header: header, Headerless: headerless}
}

// ResetRow clears the per-record counters; called by the CSV EOL command
// once a Record has been emitted.
func (p *Params) ResetRow() {
	p.RowCount++
	p.FieldCount = 0
}

// PushSection appends a path segment.
func (p *Params) PushSection(name string) {
	p.SectionPath = append(p.SectionPath, name)
}

// PopSection removes the last n path segments (used when a relative
// nesting declaration replaces part of the current path).
func (p *Params) PopSection(n int) {
	if n > len(p.SectionPath) {
		n = len(p.SectionPath)
	}

	p.SectionPath = p.SectionPath[:len(p.SectionPath)-n]
}

// DrainBlockComments returns and clears the accumulated block comments.
func (p *Params) DrainBlockComments() []string {
	c := p.PendingBlockComments
	p.PendingBlockComments = nil

	return c
}

// DrainInlineComment returns and clears the pending inline comment, if any.
func (p *Params) DrainInlineComment() (string, bool) {
	c := p.PendingInlineComment
	p.PendingInlineComment = ""

	return c, c != ""
}
