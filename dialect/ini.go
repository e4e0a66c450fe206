// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package dialect

import (
	"unicode"

	"github.com/golangee/dataform/parser"
	"github.com/golangee/dataform/syntax"
)

// Generic is the bare-bones INI dialect of spec.md §6: default builder
// settings (equals-sign assignment, bracketed sections, no nesting, no
// escapes, no comment retention), the starting point for a caller who
// wants to override one or two options without adopting UNIX/PROPERTIES/
// WINAPI wholesale.
func Generic() (*syntax.Syntax, error) {
	b := syntax.NewBuilder(syntax.INI)
	b.Assignment('=')
	b.SectionBrackets('[', ']')
	b.QuoteChars('\'', '"')
	b.DuplicateSection(syntax.Merge)
	b.DuplicateProperty(syntax.Overwrite)
	b.MediaType("text/plain")
	b.Standard("INI")
	b.FileExtension(".ini")

	parser.RegisterINI(b.CommandTable())

	return b.Build()
}

// UNIX is the dialect of spec.md §6 found in most UNIX-style ".conf"
// files: "#" comments, "=" assignment, "." nested section names,
// quoted strings with a small fixed escape table and no unicode
// escapes, properties overwrite on duplicate, sections merge.
func UNIX() (*syntax.Syntax, error) {
	b := syntax.NewBuilder(syntax.INI)
	b.Assignment('=')
	b.SectionBrackets('[', ']')
	b.QuoteChars('\'', '"')
	b.Comment('#', true, true)
	b.Nesting(syntax.Nesting{Object: '.', Relative: true})
	b.Escape(&syntax.Escape{
		Char:                 '\\',
		AllowedOutsideQuotes: false,
		Special: map[rune]bool{
			'\n': true, '\r': true, '\t': true,
			'\'': true, '"': true, '\\': true,
			0: true, '=': true, '[': true, ']': true, '#': true,
			'\b': true, '\a': true,
		},
	})
	b.DuplicateSection(syntax.Merge)
	b.DuplicateProperty(syntax.Overwrite)
	b.MediaType("text/plain")
	b.Standard("UNIX")
	b.FileExtension(".conf")

	parser.RegisterINI(b.CommandTable())

	return b.Build()
}

// PROPERTIES is the Java ".properties" dialect of spec.md §6: "#" or "!"
// comments, any of "= : \t \f" as assignment, no section brackets (flat
// key space only), non-quoted escapes on, "\uXXXX" unicode escapes,
// duplicate properties overwrite.
func PROPERTIES() (*syntax.Syntax, error) {
	b := syntax.NewBuilder(syntax.INI)
	b.Assignment('=', ':', '\t', '\f')
	b.Whitespace(func(r rune) bool { return r != '\t' && r != '\f' && unicode.IsSpace(r) })
	b.Comment('#', true, true)
	b.Comment('!', true, true)
	b.Escape(&syntax.Escape{
		Char:                 '\\',
		AllowedOutsideQuotes: true,
		Special: map[rune]bool{
			'\n': true, '\r': true, '\t': true, '\f': true,
			'\\': true, '=': true, ':': true, '#': true, '!': true,
		},
		UnicodePrefixes: map[rune]syntax.UnicodePrefix{
			'u': {MinDigits: 4, MaxDigits: 4, Radix: 16},
		},
	})
	b.DuplicateSection(syntax.Overwrite)
	b.DuplicateProperty(syntax.Overwrite)
	b.MediaType("text/x-java-properties")
	b.Standard("PROPERTIES")
	b.FileExtension(".properties")

	parser.RegisterINI(b.CommandTable())

	return b.Build()
}

// WINAPI is the Win32 ".ini" dialect of spec.md §6: only ";" comments
// with no inline form, "=" only, no nesting, no unicode escapes, quoted
// text supported, sections discard on duplicate, properties merge into
// arrays.
func WINAPI() (*syntax.Syntax, error) {
	b := syntax.NewBuilder(syntax.INI)
	b.Assignment('=')
	b.SectionBrackets('[', ']')
	b.QuoteChars('"')
	b.Comment(';', true, false)
	b.DuplicateSection(syntax.Discard)
	b.DuplicateProperty(syntax.Merge)
	b.MediaType("text/plain")
	b.Standard("WINAPI")
	b.FileExtension(".ini")

	parser.RegisterINI(b.CommandTable())

	return b.Build()
}
