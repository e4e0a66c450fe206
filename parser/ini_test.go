// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"testing"

	"github.com/golangee/dataform/dialect"
	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/lexer"
	"github.com/golangee/dataform/params"
)

func TestINIParserUnixRelativeNesting(t *testing.T) {
	syn, err := dialect.UNIX()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewINI("t.conf", syn)
	if err := l.Process("[a]\nx=1\n[.b]\ny=2\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := New(l, syn, p)

	root, err := ps.ParseDocument()
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	a, ok := root.Get("a")
	if !ok {
		t.Fatalf("expected root section %q to exist", "a")
	}

	aSec, ok := a.(*expr.Section)
	if !ok {
		t.Fatalf("expected %q to be a Section, got %T", "a", a)
	}

	b, ok := aSec.Get("b")
	if !ok {
		t.Fatalf("expected [.b] to nest under [a] via relative nesting, got children %v", aSec.Names)
	}

	bSec, ok := b.(*expr.Section)
	if !ok {
		t.Fatalf("expected %q to be a Section, got %T", "b", b)
	}

	prop, ok := bSec.Get("y")
	if !ok {
		t.Fatalf("expected property %q under [a.b]", "y")
	}

	propVal := prop.(*expr.Property)
	if len(propVal.Values) != 1 || propVal.Values[0].Value != "2" {
		t.Fatalf("unexpected property values: %+v", propVal.Values)
	}
}

func TestINIParserPropertiesUnicodeEscapeAndNoSections(t *testing.T) {
	syn, err := dialect.PROPERTIES()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewINI("t.properties", syn)
	if err := l.Process("greeting=caf\\u00e9\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := New(l, syn, p)

	root, err := ps.ParseDocument()
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	got, ok := root.Get("greeting")
	if !ok {
		t.Fatalf("expected a %q property at the document root", "greeting")
	}

	prop := got.(*expr.Property)
	if len(prop.Values) != 1 || prop.Values[0].Value != "café" {
		t.Fatalf("expected the unicode escape to decode to %q, got %+v", "café", prop.Values)
	}
}

func TestINIParserWinapiDuplicatePropertyMerges(t *testing.T) {
	syn, err := dialect.WINAPI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewINI("t.ini", syn)
	if err := l.Process("[s]\nk=1\nk=2\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := New(l, syn, p)

	root, err := ps.ParseDocument()
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	s, ok := root.Get("s")
	if !ok {
		t.Fatalf("expected section %q", "s")
	}

	sec := s.(*expr.Section)

	k, ok := sec.Get("k")
	if !ok {
		t.Fatalf("expected property %q", "k")
	}

	prop := k.(*expr.Property)
	if len(prop.Values) != 2 || prop.Values[0].Value != "1" || prop.Values[1].Value != "2" {
		t.Fatalf("expected a merged duplicate-property value list, got %+v", prop.Values)
	}
}

func TestINIParserWinapiDuplicateSectionDiscards(t *testing.T) {
	syn, err := dialect.WINAPI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewINI("t.ini", syn)
	if err := l.Process("[s]\nk=1\n[s]\nk=2\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := New(l, syn, p)

	root, err := ps.ParseDocument()
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	s, ok := root.Get("s")
	if !ok {
		t.Fatalf("expected section %q", "s")
	}

	sec := s.(*expr.Section)

	k, ok := sec.Get("k")
	if !ok {
		t.Fatalf("expected property %q", "k")
	}

	prop := k.(*expr.Property)
	if len(prop.Values) != 1 || prop.Values[0].Value != "1" {
		t.Fatalf("expected the second [s] section to be discarded entirely, got %+v", prop.Values)
	}
}

func TestINIParserEmptyKeyAssignment(t *testing.T) {
	syn, err := dialect.UNIX()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewINI("t.conf", syn)
	if err := l.Process("=value\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := New(l, syn, p)

	root, err := ps.ParseDocument()
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	got, ok := root.Get("")
	if !ok {
		t.Fatalf("expected a property bound to the empty key")
	}

	prop := got.(*expr.Property)
	if len(prop.Values) != 1 || prop.Values[0].Value != "value" {
		t.Fatalf("unexpected empty-key property values: %+v", prop.Values)
	}
}
