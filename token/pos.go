// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package token defines the lexemes shared by every dialect: the token
// type/value/position triple the lexer produces and the parser consumes,
// and the tagged error hierarchy the rest of the core raises.
package token

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

// Pos is a resolved position within a parsed document. It embeds
// participle's lexer.Position rather than reinventing a line/column/offset
// triple, since the rest of the pipeline may accept a participle-driven
// dialect description (see dialect.ParseCommandSpec) and positions should
// explain through the same code path either way.
type Pos struct {
	lexer.Position
}

// String returns the content in the "file:line:col" format.
func (p Pos) String() string {
	if p.Filename == "" {
		return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	}

	return p.Filename + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Node is anything with a resolved begin/end position, usable in error
// messages and caret-annotated snippets.
type Node interface {
	Begin() Pos
	End() Pos
}

// Position is the embeddable begin/end pair that every Token and Expression
// carries.
type Position struct {
	BeginPos Pos
	EndPos   Pos
}

func (p Position) Begin() Pos { return p.BeginPos }
func (p Position) End() Pos   { return p.EndPos }

type defaultNode struct {
	begin, end Pos
}

func (d defaultNode) Begin() Pos { return d.begin }
func (d defaultNode) End() Pos   { return d.end }

// NewNode builds a Node from a pair of resolved positions, for use in
// errors that do not have a concrete Token or Expression at hand.
func NewNode(begin, end Pos) Node {
	return defaultNode{begin, end}
}
