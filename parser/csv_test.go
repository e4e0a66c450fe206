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

func TestCSVParserBuildsHeaderFromFirstRow(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewCSV("t.csv", syn)
	if err := l.Process("a,b,c\r\n1,2,3\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := New(l, syn, p)

	first, err := ps.ParseExpression(0)
	if err != nil {
		t.Fatalf("first ParseExpression: %v", err)
	}

	rec, ok := first.(*expr.Record)
	if !ok {
		t.Fatalf("expected *expr.Record, got %T", first)
	}

	if got := rec.Fields(); len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected header fields: %v", got)
	}

	if len(p.Header) != 3 {
		t.Fatalf("expected Params.Header to be set from the first row, got %v", p.Header)
	}

	second, err := ps.ParseExpression(0)
	if err != nil {
		t.Fatalf("second ParseExpression: %v", err)
	}

	rec2 := second.(*expr.Record)
	if got := rec2.Fields(); len(got) != 3 || got[0] != "1" {
		t.Fatalf("unexpected data row fields: %v", got)
	}
}

func TestCSVParserEnforcesSymmetry(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewCSV("t.csv", syn)
	if err := l.Process("a,b\r\n1,2,3\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := New(l, syn, p)

	if _, err := ps.ParseExpression(0); err != nil {
		t.Fatalf("header row parse: %v", err)
	}

	if _, err := ps.ParseExpression(0); err == nil {
		t.Fatalf("expected a symmetry error for a row with a different field count")
	}
}

func TestCSVParserQuotedFieldUnescapesDoubledQuote(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewCSV("t.csv", syn)
	if err := l.Process(`"say ""hi""",plain` + "\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, true)
	ps := New(l, syn, p)

	e, err := ps.ParseExpression(0)
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}

	rec := e.(*expr.Record)
	fields := rec.Fields()

	if fields[0] != `say "hi"` {
		t.Fatalf("expected doubled quote to unescape to a single literal quote, got %q", fields[0])
	}

	if fields[1] != "plain" {
		t.Fatalf("expected second field %q, got %q", "plain", fields[1])
	}
}

func TestCSVParserHeaderlessSkipsHeaderCapture(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewCSV("t.csv", syn)
	if err := l.Process("1,2\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New([]string{"x", "y"}, true)
	ps := New(l, syn, p)

	if _, err := ps.ParseExpression(0); err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}

	if len(p.Header) != 2 || p.Header[0] != "x" {
		t.Fatalf("expected the caller-supplied header to survive untouched, got %v", p.Header)
	}
}
