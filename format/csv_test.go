// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"strings"
	"testing"

	"github.com/golangee/dataform/dialect"
	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/jsonval"
	"github.com/golangee/dataform/lexer"
	"github.com/golangee/dataform/params"
	"github.com/golangee/dataform/parser"
)

func TestCSVStringFormatRendersHeaderOnce(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewCSV("t.csv", syn)
	if err := l.Process("a,b\r\n1,2\r\n3,4\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := parser.New(l, syn, p)
	out := NewCSVStringFormat(syn, p, nil)

	for i := 0; i < 3; i++ {
		e, err := ps.ParseExpression(0)
		if err != nil {
			t.Fatalf("ParseExpression %d: %v", i, err)
		}

		if err := out.Append(e.(*expr.Record)); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	data := out.Data()

	if strings.Count(data, "a,b\r\n") != 1 {
		t.Fatalf("expected the header row to appear exactly once, got:\n%s", data)
	}

	if !strings.Contains(data, "1,2\r\n") || !strings.Contains(data, "3,4\r\n") {
		t.Fatalf("expected both data rows rendered, got:\n%s", data)
	}

	if out.Rows() != 2 {
		t.Fatalf("expected Rows() to count only data rows, got %d", out.Rows())
	}
}

func TestCSVStringFormatQuotesWhenNeeded(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := params.New(nil, true)
	out := NewCSVStringFormat(syn, p, nil)

	rec := &expr.Record{
		Chain: &expr.Separator{
			Left:  &expr.Field{Text: "hello, world"},
			Value: ",",
			Right: &expr.Field{Text: "plain"},
		},
		Eol: "\r\n",
	}

	if err := out.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data := out.Data()

	if !strings.Contains(data, `"hello, world"`) {
		t.Fatalf("expected the comma-containing field to be quoted, got %q", data)
	}
}

func TestCSVFileFormatWritesBOM(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	syn.BOM = true
	syn.Encoding = "UTF-8"

	p := params.New(nil, true)
	var buf strings.Builder
	out := NewCSVFileFormat(&buf, syn, p, nil)

	rec := &expr.Record{
		Chain: &expr.Field{Text: "x"},
		Eol:   "\r\n",
	}

	if err := out.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got := buf.String()

	if !strings.HasPrefix(got, "\xEF\xBB\xBF") {
		t.Fatalf("expected a leading UTF-8 BOM, got %q", got)
	}
}

func TestCSVJSFormatProjectsRowsUsingHeader(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := lexer.NewCSV("t.csv", syn)
	if err := l.Process("name,age\r\nalice,30\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p := params.New(nil, false)
	ps := parser.New(l, syn, p)
	out := NewCSVJSFormat(syn, p, nil)

	header, err := ps.ParseExpression(0)
	if err != nil {
		t.Fatalf("header ParseExpression: %v", err)
	}

	if err := out.Append(header.(*expr.Record)); err != nil {
		t.Fatalf("Append header: %v", err)
	}

	row, err := ps.ParseExpression(0)
	if err != nil {
		t.Fatalf("row ParseExpression: %v", err)
	}

	if err := out.Append(row.(*expr.Record)); err != nil {
		t.Fatalf("Append row: %v", err)
	}

	if out.Rows() != 1 {
		t.Fatalf("expected exactly one JSON row (the header row produces none), got %d", out.Rows())
	}

	doc := out.Data()
	if doc.Kind != jsonval.Array || len(doc.Arr) != 1 {
		t.Fatalf("expected a one-element JSON array, got %+v", doc)
	}

	obj := doc.Arr[0]

	name, ok := obj.Obj.Get("name")
	if !ok || name.Str != "alice" {
		t.Fatalf("expected name=alice in the projected object, got %+v", obj)
	}
}
