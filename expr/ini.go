// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package expr

import "github.com/golangee/dataform/token"

// Text is a run of already-unescaped text: the left or right hand side of
// an assignment, or the body of a quoted string.
type Text struct {
	token.Position
	Value string
}

func (*Text) exprNode() {}

// KeyValue is one "key = value" pair, with any comments that preceded or
// trailed it on the wire.
type KeyValue struct {
	token.Position
	Key           string
	Value         string
	BlockComments []string
	InlineComment string
}

func (*KeyValue) exprNode() {}

// Property is a key with its ordered list of values: one KeyValue for a
// single assignment, more when the duplicate-property policy is merge.
type Property struct {
	token.Position
	Name   string
	Values []*KeyValue
}

func (*Property) exprNode() {}

// Append adds a duplicate occurrence's KeyValue to this Property.
func (p *Property) Append(kv *KeyValue) {
	p.Values = append(p.Values, kv)
}

// Section is a named scope holding an ordered map from key to either a
// nested *Section or a *Property.
type Section struct {
	token.Position
	// Path is the full dotted name, e.g. []string{"a", "b"} for [a.b].
	Path          []string
	Comments      []string
	InlineComment string

	// Names records the keys in insertion order; Children maps each key
	// to its node.
	Names    []string
	Children map[string]Expression
}

func (*Section) exprNode() {}

// NewSection creates an empty Section rooted at path.
func NewSection(path []string) *Section {
	return &Section{Path: path, Children: make(map[string]Expression)}
}

// Get returns the child bound to name, if any.
func (s *Section) Get(name string) (Expression, bool) {
	e, ok := s.Children[name]
	return e, ok
}

// Set binds name to child, recording first-seen insertion order. It does
// not enforce any duplicate policy — callers (the parser's duplicate
// resolution commands) decide whether to call Set, merge in place, or
// skip entirely.
func (s *Section) Set(name string, child Expression) {
	if _, exists := s.Children[name]; !exists {
		s.Names = append(s.Names, name)
	}

	s.Children[name] = child
}

// Name returns the last path segment, or "" for the root section.
func (s *Section) Name() string {
	if len(s.Path) == 0 {
		return ""
	}

	return s.Path[len(s.Path)-1]
}
