// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package expr defines the expression tree variants built by the parser,
// one family per format (spec.md §3 "Expression"). Formatters consume
// these read-only via a type switch rather than a virtual Format method,
// which keeps this package free of any dependency on how a tree is
// eventually rendered.
package expr

import "github.com/golangee/dataform/token"

// Expression is implemented by every node in either tree. The unexported
// marker method seals the variant set to this package.
type Expression interface {
	token.Node
	exprNode()
}

// Field is a single, already-unescaped CSV cell value.
type Field struct {
	token.Position
	Text string
}

func (*Field) exprNode() {}

// Quoted wraps a Field that was surrounded by quote characters on the
// wire, recording the exact open/close runes so a round-trip can restore
// them verbatim.
type Quoted struct {
	token.Position
	Open  string
	Inner *Field
	Close string
}

func (*Quoted) exprNode() {}

// Separator is one link in the chain of fields that makes up a row:
// Separator(left, sep, right). The parser folds rows left-to-right, so
// Left may itself be a Separator holding everything parsed so far while
// Right holds exactly the field that followed this separator; Fields
// and Debug walk Left then Right, so field order is unaffected by the
// fold's associativity.
type Separator struct {
	token.Position
	Left  Expression
	Value string
	Right Expression
}

func (*Separator) exprNode() {}

// Record is one complete CSV row.
type Record struct {
	token.Position
	Chain Expression // the Separator/Field chain
	Eol   string
}

func (*Record) exprNode() {}

// Fields flattens a Record's Separator/Field chain into an ordered slice
// of cell text, resolving Quoted wrappers to their inner text.
func (r *Record) Fields() []string {
	var out []string

	var walk func(e Expression)
	walk = func(e Expression) {
		switch n := e.(type) {
		case *Field:
			out = append(out, n.Text)
		case *Quoted:
			out = append(out, n.Inner.Text)
		case *Separator:
			walk(n.Left)
			walk(n.Right)
		}
	}

	walk(r.Chain)

	return out
}

// Debug reconstructs the row's original surface form (round-trippable
// when the syntax's quoting mode permits it).
func (r *Record) Debug() string {
	var sb []byte

	var walk func(e Expression)
	walk = func(e Expression) {
		switch n := e.(type) {
		case *Field:
			sb = append(sb, n.Text...)
		case *Quoted:
			sb = append(sb, n.Open...)
			sb = append(sb, n.Inner.Text...)
			sb = append(sb, n.Close...)
		case *Separator:
			walk(n.Left)
			sb = append(sb, n.Value...)
			walk(n.Right)
		}
	}

	if r.Chain != nil {
		walk(r.Chain)
	}

	sb = append(sb, r.Eol...)

	return string(sb)
}
