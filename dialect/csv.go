// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package dialect

import (
	"unicode"

	"github.com/golangee/dataform/parser"
	"github.com/golangee/dataform/syntax"
)

// RFC4180 is the comma-separated, double-quoted, CRLF-terminated dialect
// of spec.md §6, the default interpretation of "CSV" absent other
// instructions.
func RFC4180() (*syntax.Syntax, error) {
	b := syntax.NewBuilder(syntax.CSV)
	b.Delimiters(',')
	b.LineTerminator("\r\n")
	b.QuoteChar('"', syntax.QuoteAuto)
	b.EnforceSymmetry(true)
	b.MediaType("text/csv")
	b.Standard("RFC4180")
	b.FileExtension(".csv")

	parser.RegisterCSV(b.CommandTable())

	return b.Build()
}

// TSV is the tab-separated dialect: no quoting, LF line endings, fields
// that cannot themselves contain a tab or newline.
func TSV() (*syntax.Syntax, error) {
	b := syntax.NewBuilder(syntax.CSV)
	b.Delimiters('\t')
	b.Whitespace(func(r rune) bool { return r != '\t' && unicode.IsSpace(r) })
	b.LineTerminator("\n")
	b.QuoteChar(0, syntax.QuoteNone)
	b.EnforceSymmetry(false)
	b.MediaType("text/tab-separated-values")
	b.Standard("TSV")
	b.FileExtension(".tsv")

	parser.RegisterCSV(b.CommandTable())

	return b.Build()
}

// DSV builds a generic delimiter-separated-values dialect for any single
// delimiter/quote/line-terminator combination a caller names, e.g. a
// semicolon-separated European export or a pipe-separated legacy feed.
func DSV(delimiter rune, quote rune, mode syntax.QuoteMode, lineTerminator string) (*syntax.Syntax, error) {
	b := syntax.NewBuilder(syntax.CSV)
	b.Delimiters(delimiter)
	b.LineTerminator(lineTerminator)
	b.QuoteChar(quote, mode)
	b.EnforceSymmetry(true)
	b.MediaType("text/csv")
	b.Standard("DSV")

	parser.RegisterCSV(b.CommandTable())

	return b.Build()
}
