// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"strconv"

	"github.com/golangee/dataform/headerpath"
	"github.com/golangee/dataform/jsonval"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// CSVFromJSON is the JSON-to-token lexer of spec.md §4.3 for the CSV
// family: it consumes an in-memory JSON array of row objects and emits
// the FIELD/SEPARATOR/EOL token stream that would have produced it, so
// the existing CSV parser/command table can build the Record chain
// exactly as it would from text. Unlike the text lexers, every token is
// known the moment the JSON value is in hand, so the whole queue is
// built eagerly in the constructor and Process/End are no-ops.
type CSVFromJSON struct {
	q     queue
	ended bool
}

// NewCSVFromJSON builds the token stream for doc, a jsonval.Value of
// Kind Array whose elements are row objects. header, when non-empty, is
// the caller-supplied column path list (spec.md §4.3 "obeying a
// caller-supplied header path list"); when empty, the header is derived
// from doc itself via the first-seen-order flattening of spec.md §4.6.
func NewCSVFromJSON(doc *jsonval.Value, syn *syntax.Syntax, header []string) (*CSVFromJSON, error) {
	l := &CSVFromJSON{q: newQueue(token.Token{Type: token.EOF})}

	var rows []*jsonval.Value
	if doc != nil && doc.Kind == jsonval.Array {
		rows = doc.Arr
	}

	hdr, cells, err := resolveRows(rows, syn, header)
	if err != nil {
		return nil, err
	}

	if len(hdr) > 0 {
		l.emitRow(hdr, syn)
	}

	for _, row := range cells {
		l.emitRow(row, syn)
	}

	return l, nil
}

// resolveRows picks between a caller-supplied header (resolving each
// row against it via headerpath.Plan/Get) and the derived first-seen
// flattening of headerpath.Flatten.
func resolveRows(rows []*jsonval.Value, syn *syntax.Syntax, header []string) (hdr []string, cells [][]string, err error) {
	if len(header) == 0 {
		return headerpath.Flatten(rows, syn)
	}

	plans := make([][]headerpath.Segment, len(header))

	for i, h := range header {
		plan, err := headerpath.Plan(h, syn)
		if err != nil {
			return nil, nil, err
		}

		plans[i] = plan
	}

	cells = make([][]string, len(rows))

	for i, row := range rows {
		rowCells := make([]string, len(header))

		for j, plan := range plans {
			leaf, ok := headerpath.Get(row, plan)
			if !ok {
				continue
			}

			rowCells[j] = scalarText(leaf)
		}

		cells[i] = rowCells
	}

	return header, cells, nil
}

func scalarText(v *jsonval.Value) string {
	if v == nil {
		return ""
	}

	switch v.Kind {
	case jsonval.Null:
		return ""
	case jsonval.Bool:
		return strconv.FormatBool(v.Bln)
	case jsonval.Number:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case jsonval.String:
		return v.Str
	default:
		return ""
	}
}

// emitRow pushes one FIELD token per cell, separated by SEPARATOR
// tokens, terminated by an EOL. Positions are zero-valued: a
// JSON-sourced row was never at any line/column in source text.
func (l *CSVFromJSON) emitRow(fields []string, syn *syntax.Syntax) {
	var zero token.Pos

	delim := ""
	if len(syn.Delimiters) > 0 {
		delim = string(syn.Delimiters[0])
	}

	for i, f := range fields {
		if i > 0 {
			l.q.push(token.New(token.Separator, delim, zero, zero))
		}

		l.q.push(token.New(token.Field, f, zero, zero))
	}

	l.q.push(token.New(token.CSVEOL, syn.LineTerminator, zero, zero))
}

func (l *CSVFromJSON) CanProcess() bool         { return !l.ended }
func (l *CSVFromJSON) Position() int            { return 0 }
func (l *CSVFromJSON) Line() int                { return 0 }
func (l *CSVFromJSON) Next() token.Token        { return l.q.Next() }
func (l *CSVFromJSON) Peek() token.Token        { return l.q.Peek() }
func (l *CSVFromJSON) Processed() []token.Token { return l.q.Processed() }
func (l *CSVFromJSON) HasTokens() bool          { return l.q.HasTokens() }
func (l *CSVFromJSON) IndexOf(t token.Type) int     { return l.q.IndexOf(t) }
func (l *CSVFromJSON) LastIndexOf(t token.Type) int { return l.q.LastIndexOf(t) }
func (l *CSVFromJSON) Frequency(t token.Type) int   { return l.q.Frequency(t) }

// Process is a no-op: the whole token stream was built from doc at
// construction time, not from text chunks.
func (l *CSVFromJSON) Process(string) error { return nil }

// End marks the lexer finished; all tokens were already queued.
func (l *CSVFromJSON) End() error {
	l.ended = true
	return nil
}
