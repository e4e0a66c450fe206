// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

import "testing"

func TestBuilderRejectsDuplicateStructuralTokens(t *testing.T) {
	b := NewBuilder(CSV)
	b.Delimiters(',')
	b.QuoteChar(',', QuoteAuto) // same rune as the delimiter

	if _, err := b.Build(); err == nil {
		t.Fatalf("expected Build to reject a quote char that collides with the delimiter")
	}
}

func TestBuilderRejectsWhitespaceStructuralToken(t *testing.T) {
	b := NewBuilder(CSV)
	b.Delimiters(' ') // space is whitespace under the default predicate

	if _, err := b.Build(); err == nil {
		t.Fatalf("expected Build to reject a delimiter classified as whitespace")
	}
}

func TestBuilderAllowsLineTerminatorEvenThoughItIsWhitespace(t *testing.T) {
	b := NewBuilder(CSV)
	b.Delimiters(',')
	b.LineTerminator("\n")

	if _, err := b.Build(); err != nil {
		t.Fatalf("line terminator must be exempt from the whitespace check: %v", err)
	}
}

func TestBuilderRejectsEmptyLineTerminator(t *testing.T) {
	b := NewBuilder(CSV)
	b.Delimiters(',')
	b.LineTerminator("")

	if _, err := b.Build(); err == nil {
		t.Fatalf("expected Build to reject an empty line terminator")
	}
}

func TestBuilderAcceptsDistinctStructuralTokens(t *testing.T) {
	b := NewBuilder(INI)
	b.Assignment('=')
	b.SectionBrackets('[', ']')
	b.QuoteChars('\'', '"')
	b.Comment('#', true, true)
	b.Nesting(Nesting{Object: '.', Relative: true})

	syn, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if syn.SectionOpen != '[' || syn.SectionClose != ']' {
		t.Fatalf("section brackets not carried through: %+v", syn)
	}
}

func TestRebuildCopiesWithoutRevalidating(t *testing.T) {
	b := NewBuilder(CSV)
	b.Delimiters(',')
	b.LineTerminator("\n")

	syn, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b2 := Rebuild(syn)
	syn2, err := b2.Build()

	if err != nil {
		t.Fatalf("rebuild should validate cleanly when starting from a valid syntax: %v", err)
	}

	if syn2.LineTerminator != syn.LineTerminator {
		t.Fatalf("rebuild did not preserve LineTerminator")
	}
}

func TestClearToDefaultsResetsBuilder(t *testing.T) {
	b := NewBuilder(CSV)
	b.Delimiters(';')
	b.Clear(true)

	syn, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error after Clear(true): %v", err)
	}

	if len(syn.Delimiters) != 0 {
		t.Fatalf("expected Clear(true) to drop the previously configured delimiter, got %v", syn.Delimiters)
	}
}

func TestWhitespaceExcludesConfiguredLineTerminator(t *testing.T) {
	b := NewBuilder(CSV)
	b.Delimiters(',')
	b.LineTerminator("\n")

	syn, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if syn.Whitespace('\n') {
		t.Fatalf("the configured line terminator must not count as whitespace")
	}

	if !syn.Whitespace(' ') {
		t.Fatalf("plain space should still be classified as whitespace")
	}
}
