// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package parser implements the Vaughn-Pratt precedence-climbing engine
// of spec.md §4.5, instantiated per format by registering a CSV or INI
// command table (see csv.go, ini.go) into a syntax.Syntax built for that
// dialect. Parser itself is format-agnostic: it only knows how to pop a
// token, look up its prefix/infix command, and climb precedence.
package parser

import (
	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/lexer"
	"github.com/golangee/dataform/params"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// Parser drives one lexer against one Syntax's command table, threading
// a single Params bag through the whole parse. It satisfies
// syntax.Engine so a registered command function can recurse back into
// ParseExpression without the syntax package importing this one.
type Parser struct {
	lex lexer.Lexer
	syn *syntax.Syntax
	p   *params.Params
}

// New creates a Parser over lex using syn's command table, with params
// as the mutable scratch area for the whole conversion.
func New(lex lexer.Lexer, syn *syntax.Syntax, p *params.Params) *Parser {
	return &Parser{lex: lex, syn: syn, p: p}
}

func (ps *Parser) Peek() token.Token { return ps.lex.Peek() }
func (ps *Parser) Next() token.Token { return ps.lex.Next() }
func (ps *Parser) Params() *params.Params { return ps.p }
func (ps *Parser) Syntax() *syntax.Syntax { return ps.syn }

// Fail builds a positioned *token.Error at tok, of the given Kind.
func (ps *Parser) Fail(kind token.Kind, tok token.Token, format string, args ...any) *token.Error {
	return token.AtToken(kind, tok, format, args...)
}

// ParseExpression runs the Pratt loop of spec.md §4.5 steps 1-5: pop a
// token, apply its prefix command, then keep applying infix commands as
// long as the next token's precedence exceeds minPrecedence.
func (ps *Parser) ParseExpression(minPrecedence int) (expr.Expression, error) {
	tok := ps.Next()

	prefix, ok := ps.syn.Commands.Prefix[tok.Type]
	if !ok {
		return nil, ps.Fail(token.KindSyntax, tok, "no prefix command registered for %s", tok.Type)
	}

	left, err := prefix(ps, tok)
	if err != nil {
		return nil, err
	}

	for {
		next := ps.Peek()
		if next.Type.Precedence <= minPrecedence {
			break
		}

		infix, ok := ps.syn.Commands.Infix[next.Type]
		if !ok {
			break
		}

		ps.Next()

		left, err = infix(ps, next, left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// AtEOF reports whether the next token is the EOF sentinel.
func (ps *Parser) AtEOF() bool { return ps.Peek().IsEOF() }
