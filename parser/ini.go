// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strconv"
	"strings"

	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// RegisterINI installs the INI command table of spec.md §4.5 into cmds:
// prefix/infix COMMENT, prefix SECTION_START, prefix/infix ASSIGNMENT,
// prefix IDENTIFIER/QUOTE/D_QUOTE, prefix INIT.
func RegisterINI(cmds *syntax.Commands) {
	cmds.RegisterPrefix(token.Comment, commentPrefix)
	cmds.RegisterInfix(token.Comment, commentInfix)
	cmds.RegisterPrefix(token.SectionStart, sectionStartPrefix)
	cmds.RegisterPrefix(token.Assignment, assignmentPrefix)
	cmds.RegisterInfix(token.Assignment, assignmentInfix)
	cmds.RegisterPrefix(token.Identifier, identifierPrefix)
	cmds.RegisterPrefix(token.Quote, quotePrefix)
	cmds.RegisterPrefix(token.DQuote, dquotePrefix)
	cmds.RegisterPrefix(token.Init, initPrefix)
}

// ParseDocument drives the INIT-rooted whole-document parse described by
// spec.md §4.5's INIT command: seed the sentinel token, run its prefix
// command, and return the root Section it builds. Converter uses this
// once per INI document (see convert/convert.go) rather than the
// per-EOL streaming CSV uses, since an INI section only becomes whole
// once its SECTION_END and every property inside it have been seen.
func (ps *Parser) ParseDocument() (*expr.Section, error) {
	prefix, ok := ps.syn.Commands.Prefix[token.Init]
	if !ok {
		return nil, token.New(token.KindParse, "no INIT command registered")
	}

	result, err := prefix(ps, token.Token{Type: token.Init})
	if err != nil {
		return nil, err
	}

	root, ok := result.(*expr.Section)
	if !ok {
		return nil, token.New(token.KindParse, "INIT command did not produce a root section")
	}

	return root, nil
}

// initPrefix creates the document root, then alternates between parsing
// bare top-level properties (parseSectionBody, attached directly to
// root) and SECTION_START blocks (each of which recursively parses and
// returns its own fully populated Section) until EOF.
func initPrefix(e syntax.Engine, _ token.Token) (expr.Expression, error) {
	root := expr.NewSection(nil)
	syn := e.Syntax()

	for {
		if e.Peek().IsEOF() {
			break
		}

		if e.Peek().Type.Equal(token.SectionStart) {
			startTok := e.Peek()

			result, err := e.ParseExpression(0)
			if err != nil {
				return nil, err
			}

			sec, ok := result.(*expr.Section)
			if !ok {
				return nil, e.Fail(token.KindParse, startTok, "expected a section")
			}

			if err := attachSection(root, sec.Path, sec, syn.DuplicateSection); err != nil {
				return nil, err
			}

			continue
		}

		if err := parseSectionBody(e, root); err != nil {
			return nil, err
		}
	}

	return root, nil
}

// sectionStartPrefix reads the bracketed path (IDENTIFIER/SUB_SECTION
// segments until SECTION_END, honoring a leading SUB_SECTION rune as
// the syntax's relative-nesting marker), then recursively parses the
// section's body before returning the fully populated Section.
func sectionStartPrefix(e syntax.Engine, tok token.Token) (expr.Expression, error) {
	syn := e.Syntax()
	p := e.Params()
	p.InsideSectionName = true

	var segs []string

	relative := false
	sawAny := false

	for {
		next := e.Peek()

		switch {
		case next.Type.Equal(token.SectionEnd):
			e.Next()
			p.InsideSectionName = false

			path := segs
			if relative && syn.Nesting.Relative {
				path = append(append([]string{}, p.SectionPath...), segs...)
			}

			p.SectionPath = path

			sec := expr.NewSection(path)
			sec.Comments = p.DrainBlockComments()

			if c, ok := p.DrainInlineComment(); ok {
				sec.InlineComment = c
			}

			if err := parseSectionBody(e, sec); err != nil {
				return nil, err
			}

			return sec, nil
		case next.Type.Equal(token.SubSection):
			e.Next()

			if !sawAny {
				relative = true
			}

			sawAny = true
		case next.Type.Equal(token.Identifier):
			e.Next()
			segs = append(segs, next.Value)
			sawAny = true
		case next.Type.Equal(token.Whitespace):
			e.Next()
		case next.IsEOF():
			p.InsideSectionName = false
			return nil, e.Fail(token.KindSyntax, next, "unterminated section name, starting at %s", tok.Begin())
		default:
			return nil, e.Fail(token.KindSyntax, next, "unexpected %s in section name", next.Type)
		}
	}
}

// parseSectionBody consumes comments, blank lines, and properties into
// sec until the next SECTION_START or EOF, at which point control
// returns to the caller (initPrefix, or the enclosing sectionStartPrefix
// recursion) with that token still unconsumed.
func parseSectionBody(e syntax.Engine, sec *expr.Section) error {
	syn := e.Syntax()
	p := e.Params()

	for {
		next := e.Peek()

		switch {
		case next.IsEOF(), next.Type.Equal(token.SectionStart):
			return nil
		case next.Type.Equal(token.INIEOL):
			e.Next()
			continue
		case next.Type.Equal(token.Comment):
			e.Next()

			if cmd, ok := syn.Commands.Prefix[token.Comment]; ok {
				if _, err := cmd(e, next); err != nil {
					return err
				}
			}

			continue
		}

		result, err := e.ParseExpression(0)
		if err != nil {
			return err
		}

		kv, ok := result.(*expr.KeyValue)
		if !ok {
			txt, ok := result.(*expr.Text)
			if !ok {
				return token.At(token.KindParse, result, "expected a key/value property")
			}

			kv = &expr.KeyValue{Position: txt.Position, Key: txt.Value, BlockComments: p.DrainBlockComments()}

			if c, ok := p.DrainInlineComment(); ok {
				kv.InlineComment = c
			}
		}

		if err := insertProperty(sec, kv, syn.DuplicateProperty); err != nil {
			return err
		}

		if e.Peek().Type.Equal(token.INIEOL) {
			e.Next()
		}
	}
}

// insertProperty binds kv under its key in sec, applying policy when the
// key already names a Property; a name already bound to a Section is a
// hard error (spec.md §7 ExpressionError: "type conflict between Section
// and Property sharing a name").
func insertProperty(sec *expr.Section, kv *expr.KeyValue, policy syntax.DuplicatePolicy) error {
	existing, ok := sec.Get(kv.Key)
	if !ok {
		sec.Set(kv.Key, &expr.Property{Position: kv.Position, Name: kv.Key, Values: []*expr.KeyValue{kv}})
		return nil
	}

	prop, ok := existing.(*expr.Property)
	if !ok {
		return token.At(token.KindExpression, kv, "name %q is used by both a section and a property", kv.Key)
	}

	switch policy {
	case syntax.Merge:
		prop.Append(kv)
	case syntax.Overwrite:
		prop.Values = []*expr.KeyValue{kv}
	case syntax.Discard:
		// keep the first occurrence; kv is dropped.
	case syntax.Throw:
		return token.At(token.KindExpression, kv, "duplicate property %q", kv.Key)
	}

	return nil
}

// attachSection grafts leaf into root at path, creating intermediate
// Sections as needed and applying policy only at the final segment —
// intermediate containers are always reused regardless of policy, since
// the duplicate-section policy governs name collisions, not traversal.
func attachSection(root *expr.Section, path []string, leaf *expr.Section, policy syntax.DuplicatePolicy) error {
	cur := root

	for i, name := range path {
		last := i == len(path)-1

		existing, ok := cur.Get(name)
		if !ok {
			if last {
				cur.Set(name, leaf)
				return nil
			}

			next := expr.NewSection(append(append([]string{}, cur.Path...), name))
			cur.Set(name, next)
			cur = next

			continue
		}

		existingSec, ok := existing.(*expr.Section)
		if !ok {
			return token.At(token.KindExpression, leaf, "name %q is used by both a section and a property", name)
		}

		if !last {
			cur = existingSec
			continue
		}

		switch policy {
		case syntax.Merge:
			return mergeSections(existingSec, leaf)
		case syntax.Overwrite:
			cur.Children[name] = leaf
		case syntax.Discard:
			// keep the first occurrence; leaf is dropped.
		case syntax.Throw:
			return token.At(token.KindExpression, leaf, "duplicate section %q", name)
		}

		return nil
	}

	return nil
}

// mergeSections folds src's children into dst in place: nested sections
// merge recursively, properties concatenate their value lists, and a
// name bound to conflicting kinds in each is an error.
func mergeSections(dst, src *expr.Section) error {
	dst.Comments = append(dst.Comments, src.Comments...)

	for _, name := range src.Names {
		child := src.Children[name]

		existing, ok := dst.Get(name)
		if !ok {
			dst.Set(name, child)
			continue
		}

		switch c := child.(type) {
		case *expr.Section:
			es, ok := existing.(*expr.Section)
			if !ok {
				return token.At(token.KindExpression, child, "name %q is used by both a section and a property", name)
			}

			if err := mergeSections(es, c); err != nil {
				return err
			}
		case *expr.Property:
			ep, ok := existing.(*expr.Property)
			if !ok {
				return token.At(token.KindExpression, child, "name %q is used by both a section and a property", name)
			}

			ep.Values = append(ep.Values, c.Values...)
		}
	}

	return nil
}

// commentPrefix is invoked directly (not via the generic Pratt dispatch)
// by parseSectionBody/initPrefix whenever a leading COMMENT token is
// seen: it accumulates into Params' pending block comments, to be
// attached to whatever property or section follows.
func commentPrefix(e syntax.Engine, tok token.Token) (expr.Expression, error) {
	e.Params().PendingBlockComments = append(e.Params().PendingBlockComments, tok.Value)
	return &expr.Text{Position: tok.Position, Value: tok.Value}, nil
}

// commentInfix attaches a same-line trailing comment to the KeyValue
// just parsed.
func commentInfix(_ syntax.Engine, tok token.Token, left expr.Expression) (expr.Expression, error) {
	if kv, ok := left.(*expr.KeyValue); ok {
		kv.InlineComment = tok.Value
	}

	return left, nil
}

// assignmentPrefix handles an empty-key assignment: a line whose first
// token is the assignment delimiter itself.
func assignmentPrefix(e syntax.Engine, tok token.Token) (expr.Expression, error) {
	p := e.Params()
	p.Assigned = true

	value, err := readAssignedValue(e, tok)
	if err != nil {
		return nil, err
	}

	kv := &expr.KeyValue{Position: tok.Position, Key: "", Value: value, BlockComments: p.DrainBlockComments()}

	if c, ok := p.DrainInlineComment(); ok {
		kv.InlineComment = c
	}

	return kv, nil
}

// assignmentInfix combines the already-parsed key text with the value
// that follows the assignment delimiter.
func assignmentInfix(e syntax.Engine, tok token.Token, left expr.Expression) (expr.Expression, error) {
	leftText, ok := left.(*expr.Text)
	if !ok {
		return nil, e.Fail(token.KindParse, tok, "assignment left-hand side must be a key")
	}

	p := e.Params()
	p.Assigned = true

	value, err := readAssignedValue(e, tok)
	if err != nil {
		return nil, err
	}

	kv := &expr.KeyValue{
		Position:      token.Position{BeginPos: leftText.Begin(), EndPos: tok.End()},
		Key:           leftText.Value,
		Value:         value,
		BlockComments: p.DrainBlockComments(),
	}

	if c, ok := p.DrainInlineComment(); ok {
		kv.InlineComment = c
	}

	return kv, nil
}

// readAssignedValue parses whatever follows an ASSIGNMENT token as a
// Text value, treating an immediately following terminator (no value at
// all) as the empty string rather than a parse error.
func readAssignedValue(e syntax.Engine, tok token.Token) (string, error) {
	switch next := e.Peek(); {
	case next.IsEOF(), next.Type.Equal(token.INIEOL), next.Type.Equal(token.Comment),
		next.Type.Equal(token.SectionStart), next.Type.Equal(token.SectionEnd):
		return "", nil
	}

	right, err := e.ParseExpression(tok.Type.Precedence)
	if err != nil {
		return "", err
	}

	text, ok := right.(*expr.Text)
	if !ok {
		return "", e.Fail(token.KindParse, tok, "assignment right-hand side must be a value")
	}

	return text.Value, nil
}

// identifierPrefix accumulates an unquoted run of text: IDENTIFIER,
// WHITESPACE, SUB_SECTION (outside section-name context), and
// ESCAPE/ESCAPED pairs all fold into one Text, stopping at the next
// structural token (ASSIGNMENT, SECTION_START/END, COMMENT, EOL/EOF).
func identifierPrefix(e syntax.Engine, tok token.Token) (expr.Expression, error) {
	return collectUnquotedText(e, tok)
}

func collectUnquotedText(e syntax.Engine, first token.Token) (expr.Expression, error) {
	var sb strings.Builder

	sb.WriteString(first.Value)

	begin := first.Begin()
	end := first.End()

	for {
		next := e.Peek()

		switch {
		case next.Type.Equal(token.Identifier), next.Type.Equal(token.Whitespace):
			e.Next()
			sb.WriteString(next.Value)
			end = next.End()
		case next.Type.Equal(token.SubSection) && !e.Params().InsideSectionName:
			e.Next()
			sb.WriteString(next.Value)
			end = next.End()
		case next.Type.Equal(token.Escape):
			e.Next()

			escaped := e.Next()

			s, err := decodeEscape(e.Syntax(), escaped.Value)
			if err != nil {
				return nil, err
			}

			sb.WriteString(s)
			end = escaped.End()
		default:
			return &expr.Text{
				Position: token.Position{BeginPos: begin, EndPos: end},
				Value:    trimRunes(sb.String(), e.Syntax()),
			}, nil
		}
	}
}

func quotePrefix(e syntax.Engine, tok token.Token) (expr.Expression, error) {
	return collectQuotedText(e, tok, token.QuoteEnd)
}

func dquotePrefix(e syntax.Engine, tok token.Token) (expr.Expression, error) {
	return collectQuotedText(e, tok, token.DQuoteEnd)
}

// collectQuotedText reads every token up to (and consuming) the
// matching close-quote type, unescaping ESCAPE/ESCAPED pairs and
// otherwise taking every token's raw value literally — unlike unquoted
// text, nothing inside a quote is structural.
func collectQuotedText(e syntax.Engine, open token.Token, closeType token.Type) (expr.Expression, error) {
	var sb strings.Builder

	begin := open.Begin()

	for {
		next := e.Next()

		switch {
		case next.Type.Equal(closeType):
			return &expr.Text{Position: token.Position{BeginPos: begin, EndPos: next.End()}, Value: sb.String()}, nil
		case next.IsEOF(), next.Type.Equal(token.INIEOL):
			return nil, e.Fail(token.KindToken, next, "unterminated quoted value, starting at %s", open.Begin())
		case next.Type.Equal(token.Escape):
			escaped := e.Next()

			s, err := decodeEscape(e.Syntax(), escaped.Value)
			if err != nil {
				return nil, err
			}

			sb.WriteString(s)
		default:
			sb.WriteString(next.Value)
		}
	}
}

// decodeEscape resolves an ESCAPED token's payload to its literal text:
// syn.Escape.Parse when the dialect supplied one, otherwise a registered
// unicode prefix's hex (or other radix) digits, otherwise the small set
// of common single-character translations from spec.md §6's UNIX
// dialect list, falling back to the character itself.
func decodeEscape(syn *syntax.Syntax, seq string) (string, error) {
	if syn.Escape == nil || seq == "" {
		return seq, nil
	}

	if syn.Escape.Parse != nil {
		r, err := syn.Escape.Parse(seq)
		if err != nil {
			return "", err
		}

		return string(r), nil
	}

	runes := []rune(seq)
	first := runes[0]

	if prefix, ok := syn.Escape.UnicodePrefixes[first]; ok {
		digits := string(runes[1:])

		v, err := strconv.ParseInt(digits, prefix.Radix, 32)
		if err != nil {
			return "", token.New(token.KindToken, "invalid unicode escape %q: %v", seq, err)
		}

		return string(rune(v)), nil
	}

	switch first {
	case 'n':
		return "\n", nil
	case 't':
		return "\t", nil
	case 'r':
		return "\r", nil
	case '0':
		return "\x00", nil
	case 'b':
		return "\b", nil
	case 'a':
		return "\a", nil
	default:
		return string(first), nil
	}
}
