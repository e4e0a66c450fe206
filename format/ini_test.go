// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"strings"
	"testing"

	"github.com/golangee/dataform/dialect"
	"github.com/golangee/dataform/jsonval"
	"github.com/golangee/dataform/lexer"
	"github.com/golangee/dataform/params"
	"github.com/golangee/dataform/parser"
)

func TestINIStringFormatRoundTripsSections(t *testing.T) {
	syn, err := dialect.UNIX()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewINI("t.conf", syn)
	if err := l.Process("[server]\nhost=localhost\nport=8080\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := parser.New(l, syn, p)

	root, err := ps.ParseDocument()
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	out := NewINIStringFormat(syn, nil)
	if err := out.Append(root); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data := out.Data()

	if !strings.Contains(data, "[server]\n") {
		t.Fatalf("expected a rendered [server] header, got:\n%s", data)
	}

	if !strings.Contains(data, "host=localhost\n") || !strings.Contains(data, "port=8080\n") {
		t.Fatalf("expected both properties rendered under the section, got:\n%s", data)
	}
}

func TestINIFileFormatWritesBOM(t *testing.T) {
	syn, err := dialect.UNIX()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	syn.BOM = true
	syn.Encoding = "UTF-8"

	l := lexer.NewINI("t.conf", syn)
	if err := l.Process("key=value\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := parser.New(l, syn, p)

	root, err := ps.ParseDocument()
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	var buf strings.Builder
	out := NewINIFileFormat(&buf, syn, nil)

	if err := out.Append(root); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "\xEF\xBB\xBF") {
		t.Fatalf("expected a leading UTF-8 BOM, got %q", buf.String())
	}
}

func TestINIJSFormatBuildsNestedObjectsAndArrays(t *testing.T) {
	syn, err := dialect.WINAPI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewINI("t.ini", syn)
	if err := l.Process("[s]\nk=1\nk=2\nempty=\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := parser.New(l, syn, p)

	root, err := ps.ParseDocument()
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	out := NewINIJSFormat(syn)

	doc, err := out.Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	s, ok := doc.Obj.Get("s")
	if !ok {
		t.Fatalf("expected the root object to have an %q section", "s")
	}

	k, ok := s.Obj.Get("k")
	if !ok || len(k.Arr) != 2 {
		t.Fatalf("expected %q to be a 2-element array from the merged duplicate property, got %+v", "k", k)
	}

	empty, ok := s.Obj.Get("empty")
	if !ok {
		t.Fatalf("expected an %q entry", "empty")
	}

	if empty.Kind != jsonval.Null {
		t.Fatalf("expected the empty-valued property to round-trip as JSON null, got %+v", empty)
	}
}
