// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"testing"

	"github.com/golangee/dataform/dialect"
	"github.com/golangee/dataform/token"
)

func TestCSVChunkBoundarySplitMidTerminator(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := NewCSV("test.csv", syn)

	if err := l.Process("hello,wor"); err != nil {
		t.Fatalf("first chunk: %v", err)
	}

	if err := l.Process("ld\r\n"); err != nil {
		t.Fatalf("second chunk: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	toks := l.Processed()

	want := []struct {
		typ token.Type
		val string
	}{
		{token.Field, "hello"},
		{token.Separator, ","},
		{token.Field, "world"},
		{token.CSVEOL, "\r\n"},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}

	for i, w := range want {
		if !toks[i].Type.Equal(w.typ) || toks[i].Value != w.val {
			t.Errorf("token %d = %q (%v), want %q (%v)", i, toks[i].Value, toks[i].Type, w.val, w.typ)
		}
	}
}

func TestCSVQuotedFieldWithEmbeddedDelimiterAndNewline(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := NewCSV("test.csv", syn)

	if err := l.Process("\"a,b\r\nc\",plain\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	toks := l.Processed()

	if len(toks) < 4 {
		t.Fatalf("expected at least 4 tokens, got %d: %+v", len(toks), toks)
	}

	if toks[0].Value != "\"a,b\r\nc\"" {
		t.Fatalf("expected the quoted field to retain its raw quotes and embedded delimiter/newline, got %q", toks[0].Value)
	}
}

func TestCSVDoubledQuoteIsLiteral(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := NewCSV("test.csv", syn)

	if err := l.Process(`"say ""hi"""` + "\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	toks := l.Processed()

	if len(toks) == 0 || toks[0].Value != `"say ""hi"""` {
		t.Fatalf("expected doubled quotes preserved as literal content within the field, got %+v", toks)
	}
}

func TestCSVTrailingRecordWithoutEOLIsFlushed(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := NewCSV("test.csv", syn)

	if err := l.Process("a,b"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	toks := l.Processed()

	last := toks[len(toks)-1]
	if !last.Type.Equal(token.CSVEOL) {
		t.Fatalf("expected End() to synthesize a trailing EOL, got final token %+v", last)
	}
}

func TestCSVEndIsIdempotent(t *testing.T) {
	syn, err := dialect.RFC4180()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := NewCSV("test.csv", syn)

	if err := l.Process("a,b\r\n"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := l.End(); err != nil {
		t.Fatalf("first End: %v", err)
	}

	before := len(l.Processed())

	if err := l.End(); err != nil {
		t.Fatalf("second End: %v", err)
	}

	if after := len(l.Processed()); after != before {
		t.Fatalf("calling End twice must not emit more tokens: before=%d after=%d", before, after)
	}

	if l.CanProcess() {
		t.Fatalf("expected CanProcess to be false once ended")
	}
}
