// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package dialect supplies the builtin CSV and INI presets of spec.md §6
// (RFC4180/TSV/DSV, Generic/UNIX/PROPERTIES/WINAPI), plus a small
// declarative mini-grammar, ParseCommandSpec, for describing a
// third-party custom dialect from a single configuration string instead
// of hand-writing a preset function.
package dialect

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// commandSpecLexer tokenizes a directive string. Keys and bare values are
// Ident; a value may also be a quoted String (to carry a literal space or
// semicolon) or a single Punct rune (a delimiter given as itself, e.g.
// "quote=\"").
var commandSpecLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"|'(\\'|[^'])*'`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[^a-zA-Z0-9_\s;=]`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Semi", Pattern: `;`},
	{Name: "whitespace", Pattern: `\s+`},
})

// directive is one "key=value" clause of a command-spec string, e.g.
// "quote='" or "comment=#!".
type directive struct {
	Key   string `@Ident "="`
	Value string `@(Ident | String | Punct)*`
}

// commandSpec is a semicolon-separated list of directives: the whole
// grammar ParseCommandSpec understands.
type commandSpec struct {
	Directives []*directive `(@@ (";" @@)*)?`
}

var commandSpecParser = participle.MustBuild[commandSpec](
	participle.Lexer(commandSpecLexer),
	participle.Unquote("String"),
)

// ParseCommandSpec parses spec (e.g. `delim=";";quote=';comment=#`) and
// applies each recognized directive to b. It exists so a caller
// integrating a dialect they don't control (a partner's export format,
// say) can describe it in one config string rather than writing Go code
// against Builder directly. Recognized keys: delim, eol, quote,
// quotemode (always|none|auto), comment, assign, section (two chars,
// open then close), nop (nesting object op), nap (nesting array op).
func ParseCommandSpec(b *syntax.Builder, spec string) error {
	doc, err := commandSpecParser.ParseString("", spec)
	if err != nil {
		return token.New(token.KindData, "parsing custom dialect spec %q", spec).WithCause(err)
	}

	var nesting syntax.Nesting

	sawNesting := false

	for _, d := range doc.Directives {
		value := d.Value

		switch d.Key {
		case "delim":
			b.Delimiters([]rune(value)...)
		case "eol":
			b.LineTerminator(value)
		case "quote":
			if len([]rune(value)) != 1 {
				return token.New(token.KindData, "directive %q: quote must be a single character, got %q", d.Key, value)
			}

			b.QuoteChar([]rune(value)[0], syntax.QuoteAuto)
		case "quotemode":
			mode, err := parseQuoteMode(value)
			if err != nil {
				return err
			}

			b.QuoteChar(currentQuoteChar(b), mode)
		case "comment":
			for _, r := range value {
				b.Comment(r, true, true)
			}
		case "assign":
			b.Assignment([]rune(value)...)
		case "section":
			rs := []rune(value)
			if len(rs) != 2 {
				return token.New(token.KindData, "directive %q: section needs exactly two characters (open, close), got %q", d.Key, value)
			}

			b.SectionBrackets(rs[0], rs[1])
		case "nop":
			if len([]rune(value)) != 1 {
				return token.New(token.KindData, "directive %q: expected a single character", d.Key)
			}

			nesting.Object = []rune(value)[0]
			sawNesting = true
		case "nap":
			if len([]rune(value)) != 1 {
				return token.New(token.KindData, "directive %q: expected a single character", d.Key)
			}

			nesting.Array = []rune(value)[0]
			sawNesting = true
		default:
			return token.New(token.KindData, "unrecognized custom-dialect directive %q", d.Key)
		}
	}

	if sawNesting {
		nesting.Relative = true
		b.Nesting(nesting)
	}

	return nil
}

func parseQuoteMode(s string) (syntax.QuoteMode, error) {
	switch s {
	case "always":
		return syntax.QuoteAlways, nil
	case "none":
		return syntax.QuoteNone, nil
	case "auto":
		return syntax.QuoteAuto, nil
	default:
		return 0, token.New(token.KindData, "unrecognized quotemode %q", s)
	}
}

// currentQuoteChar lets the "quotemode" directive change the mode of a
// quote char set by an earlier "quote" directive without Builder
// exposing a general-purpose getter for every field.
func currentQuoteChar(b *syntax.Builder) rune {
	return b.CurrentQuoteChar()
}
