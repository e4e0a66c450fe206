// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strings"

	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// RegisterCSV installs the CSV command table of spec.md §4.5 into cmds:
// prefix FIELD, infix SEPARATOR, infix EOL.
func RegisterCSV(cmds *syntax.Commands) {
	cmds.RegisterPrefix(token.Field, csvFieldPrefix)
	cmds.RegisterInfix(token.Separator, csvSeparatorInfix)
	cmds.RegisterInfix(token.CSVEOL, csvEolInfix)
}

func trimRunes(s string, syn *syntax.Syntax) string {
	if syn.TrimLeading {
		s = strings.TrimLeftFunc(s, syn.Whitespace)
	}

	if syn.TrimTrailing {
		s = strings.TrimRightFunc(s, syn.Whitespace)
	}

	return s
}

// csvFieldPrefix builds a Field, or a Quoted wrapping an unescaped Field
// when the raw token value is quote-delimited and the syntax's quote
// mode permits quoting (spec.md §4.5, §4.7).
func csvFieldPrefix(e syntax.Engine, tok token.Token) (expr.Expression, error) {
	syn := e.Syntax()
	e.Params().FieldCount++

	raw := tok.Value

	if syn.QuoteMode != syntax.QuoteNone && syn.QuoteChar != 0 &&
		len(raw) >= 2 && rune(raw[0]) == syn.QuoteChar && rune(raw[len(raw)-1]) == syn.QuoteChar {
		inner := raw[1 : len(raw)-1]
		double := string(syn.QuoteChar) + string(syn.QuoteChar)
		unescaped := strings.ReplaceAll(inner, double, string(syn.QuoteChar))

		field := &expr.Field{Position: tok.Position, Text: unescaped}

		return &expr.Quoted{
			Position: tok.Position,
			Open:     string(syn.QuoteChar),
			Inner:    field,
			Close:    string(syn.QuoteChar),
		}, nil
	}

	return &expr.Field{Position: tok.Position, Text: trimRunes(raw, syn)}, nil
}

// csvSeparatorInfix parses exactly the next field (ParseExpression bound
// to the separator's own precedence stops before a further separator or
// the row's EOL), folding it onto left. Repeated application by the
// Pratt loop in Parser.ParseExpression builds the full row as a chain of
// Separator nodes; spec.md §8's Fields()/Debug() walk a Separator's
// Left then Right, so the exact associativity of the fold does not
// affect field order.
func csvSeparatorInfix(e syntax.Engine, tok token.Token, left expr.Expression) (expr.Expression, error) {
	right, err := e.ParseExpression(tok.Type.Precedence)
	if err != nil {
		return nil, err
	}

	return &expr.Separator{
		Position: token.Position{BeginPos: left.Begin(), EndPos: right.End()},
		Left:     left,
		Value:    tok.Value,
		Right:    right,
	}, nil
}

// csvEolInfix finalizes the row: establishes the header from the first
// row when one was not supplied, otherwise enforces symmetry, then
// emits the Record and resets the per-row counters.
func csvEolInfix(e syntax.Engine, tok token.Token, left expr.Expression) (expr.Expression, error) {
	p := e.Params()
	syn := e.Syntax()

	record := &expr.Record{
		Position: token.Position{BeginPos: left.Begin(), EndPos: tok.End()},
		Chain:    left,
		Eol:      tok.Value,
	}

	fields := record.Fields()

	if p.Header == nil && !p.Headerless {
		p.Header = fields
	} else if syn.EnforceSymmetry && len(p.Header) > 0 && len(fields) != len(p.Header) {
		p.ResetRow()

		return nil, e.Fail(token.KindParse, tok,
			"row has %d field(s), header has %d", len(fields), len(p.Header))
	}

	p.ResetRow()

	return record, nil
}
