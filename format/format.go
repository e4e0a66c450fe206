// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package format implements the three output formatters of spec.md
// §4.7 (StringFormat, FileFormat, JSFormat) for both CSV and INI
// expression trees. The String formatters and CSVJSFormat expose
// Append and Data; the File formatters expose Append only and have no
// Data, and INIJSFormat has neither, converting a whole root Section in
// one Build call. File additionally prepends a BOM byte sequence, and
// JS builds a jsonval.Value instead of text.
package format

import "fmt"

// Logger receives formatter warnings that do not abort the conversion
// (spec.md §7: "Warnings ... are sent to the formatter's logger and do
// not abort"), grounded on shapestone-shape-csv's Options.WarningCallback
// (other_examples/8ef1f1c1_shapestone-shape-csv__internal-parser-parser.go.go)
// — the one pack example that wires a warning sink into a parser core.
type Logger interface {
	Warnf(format string, args ...any)
}

// SliceLogger is a Logger that appends every warning to Messages in
// order, for callers that want to inspect them after the fact rather
// than react to each one as it happens.
type SliceLogger struct {
	Messages []string
}

func (l *SliceLogger) Warnf(format string, args ...any) {
	l.Messages = append(l.Messages, fmt.Sprintf(format, args...))
}

// NopLogger discards every warning. It is the Logger the formatter
// constructors use when given nil.
type NopLogger struct{}

func (NopLogger) Warnf(string, ...any) {}
