// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"github.com/golangee/dataform/jsonval"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// INIFromJSON is the JSON-to-token lexer of spec.md §4.3 for the INI
// family: it walks a jsonval.Value object and emits the
// IDENTIFIER/ASSIGNMENT/SECTION_START/SECTION_END/EOL token stream that
// would have produced it, so the existing INI parser/command table
// (parser.RegisterINI) builds the same Section/Property tree it would
// from text. As with CSVFromJSON, the whole queue is built eagerly and
// Process/End are no-ops.
//
// A nested object becomes a Section named by the path of keys leading
// to it; a scalar leaf becomes a one-value Property; an array of
// scalars becomes one Property with a KeyValue per element (merged by
// whatever DuplicateProperty policy the parser's command table applies,
// matching the text direction exactly); a null leaf becomes a Property
// with no value. Arrays of objects have no INI representation (spec.md
// §1 non-goals: the core does not schema-validate JSON) and are
// rendered with each object flattened under an index segment, the same
// convention headerpath.Join uses for CSV header paths.
type INIFromJSON struct {
	q     queue
	ended bool
}

// NewINIFromJSON builds the token stream for root, a jsonval.Value of
// Kind Object.
func NewINIFromJSON(root *jsonval.Value, syn *syntax.Syntax) (*INIFromJSON, error) {
	l := &INIFromJSON{q: newQueue(token.Token{Type: token.EOF})}

	if root == nil || root.Kind != jsonval.Object {
		return nil, token.New(token.KindData, "INIFromJSON: root must be a JSON object")
	}

	var sections [][]string

	l.emitProperties(nil, root, &sections)

	if len(sections) > 0 && syn.SectionOpen == 0 {
		return nil, token.New(token.KindData,
			"INIFromJSON: %s syntax has no section brackets, but the JSON document has a nested object", syn.Standard)
	}

	for len(sections) > 0 {
		path := sections[0]
		sections = sections[1:]

		obj, ok := lookupPath(root, path)
		if !ok {
			continue
		}

		l.emitSectionHeader(path)
		l.emitProperties(path, obj, &sections)
	}

	return l, nil
}

func lookupPath(root *jsonval.Value, path []string) (*jsonval.Value, bool) {
	cur := root

	for _, seg := range path {
		if cur.Kind != jsonval.Object {
			return nil, false
		}

		child, ok := cur.Obj.Get(seg)
		if !ok {
			return nil, false
		}

		cur = child
	}

	return cur, true
}

// emitProperties emits every scalar/array leaf directly under obj as an
// assignment line, in key order, and appends the path of every nested
// object child to pending so the caller processes it as its own
// SECTION_START block afterwards (INI sections are a flat sequence of
// blocks; nesting is carried by the dotted path, not by token nesting,
// matching how sectionStartPrefix/parseSectionBody read real text).
func (l *INIFromJSON) emitProperties(path []string, obj *jsonval.Value, pending *[][]string) {
	if obj.Kind != jsonval.Object {
		return
	}

	var zero token.Pos

	for _, key := range obj.Obj.Keys() {
		child, _ := obj.Obj.Get(key)

		if child != nil && child.Kind == jsonval.Object {
			*pending = append(*pending, append(append([]string{}, path...), key))
			continue
		}

		values := leafValues(child)

		if len(values) == 0 {
			l.q.push(token.New(token.Identifier, key, zero, zero))
			l.q.push(token.New(token.Assignment, "=", zero, zero))
			l.q.push(token.New(token.INIEOL, "\n", zero, zero))

			continue
		}

		for _, v := range values {
			l.q.push(token.New(token.Identifier, key, zero, zero))
			l.q.push(token.New(token.Assignment, "=", zero, zero))
			l.q.push(token.New(token.Identifier, v, zero, zero))
			l.q.push(token.New(token.INIEOL, "\n", zero, zero))
		}
	}
}

// leafValues renders child into zero (null), one (scalar), or many
// (array of scalars) assignment values.
func leafValues(child *jsonval.Value) []string {
	if jsonval.IsNull(child) {
		return nil
	}

	if child.Kind == jsonval.Array {
		out := make([]string, 0, len(child.Arr))

		for _, e := range child.Arr {
			out = append(out, scalarText(e))
		}

		return out
	}

	return []string{scalarText(child)}
}

// emitSectionHeader pushes SECTION_START, one IDENTIFIER token per path
// segment, SECTION_END. Consecutive IDENTIFIER tokens with no SUB_SECTION
// between them each push one segment onto sectionStartPrefix's path
// slice regardless of whether the dialect configures a nesting rune, so
// this encodes an arbitrary-depth path even for dialects (PROPERTIES,
// WINAPI) with Nesting disabled entirely.
func (l *INIFromJSON) emitSectionHeader(path []string) {
	var zero token.Pos

	l.q.push(token.New(token.SectionStart, "[", zero, zero))

	for _, seg := range path {
		l.q.push(token.New(token.Identifier, seg, zero, zero))
	}

	l.q.push(token.New(token.SectionEnd, "]", zero, zero))
}

func (l *INIFromJSON) CanProcess() bool         { return !l.ended }
func (l *INIFromJSON) Position() int            { return 0 }
func (l *INIFromJSON) Line() int                { return 0 }
func (l *INIFromJSON) Next() token.Token        { return l.q.Next() }
func (l *INIFromJSON) Peek() token.Token        { return l.q.Peek() }
func (l *INIFromJSON) Processed() []token.Token { return l.q.Processed() }
func (l *INIFromJSON) HasTokens() bool          { return l.q.HasTokens() }
func (l *INIFromJSON) IndexOf(t token.Type) int     { return l.q.IndexOf(t) }
func (l *INIFromJSON) LastIndexOf(t token.Type) int { return l.q.LastIndexOf(t) }
func (l *INIFromJSON) Frequency(t token.Type) int   { return l.q.Frequency(t) }

// Process is a no-op: the whole token stream was built from root at
// construction time, not from text chunks.
func (l *INIFromJSON) Process(string) error { return nil }

// End marks the lexer finished; all tokens were already queued.
func (l *INIFromJSON) End() error {
	l.ended = true
	return nil
}
