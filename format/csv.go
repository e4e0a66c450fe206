// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"io"
	"strings"

	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/headerpath"
	"github.com/golangee/dataform/jsonval"
	"github.com/golangee/dataform/params"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

func containsAny(s string, rs []rune) bool {
	for _, r := range rs {
		if strings.ContainsRune(s, r) {
			return true
		}
	}

	return false
}

// quoteCSVCell applies the configured QuoteMode to one cell's raw text,
// doubling any embedded quote characters (spec.md §4.7).
func quoteCSVCell(v string, syn *syntax.Syntax, logger Logger) string {
	if syn.QuoteMode == syntax.QuoteNone {
		if containsAny(v, syn.Delimiters) || (syn.LineTerminator != "" && strings.Contains(v, syn.LineTerminator)) {
			logger.Warnf("csv: value %q contains a delimiter or line terminator but quoting is disabled", v)
		}

		return v
	}

	needsQuote := syn.QuoteMode == syntax.QuoteAlways ||
		strings.ContainsRune(v, syn.QuoteChar) ||
		containsAny(v, syn.Delimiters) ||
		(syn.LineTerminator != "" && strings.Contains(v, syn.LineTerminator))

	if !needsQuote {
		return v
	}

	double := string(syn.QuoteChar) + string(syn.QuoteChar)
	escaped := strings.ReplaceAll(v, string(syn.QuoteChar), double)

	return string(syn.QuoteChar) + escaped + string(syn.QuoteChar)
}

func renderCSVRow(fields []string, syn *syntax.Syntax, logger Logger) string {
	var sb strings.Builder

	delim := rune(0)
	if len(syn.Delimiters) > 0 {
		delim = syn.Delimiters[0]
	}

	for i, v := range fields {
		if i > 0 {
			sb.WriteRune(delim)
		}

		sb.WriteString(quoteCSVCell(v, syn, logger))
	}

	sb.WriteString(syn.LineTerminator)

	return sb.String()
}

// CSVStringFormat accumulates CSV rows into a growing in-memory buffer.
type CSVStringFormat struct {
	syn    *syntax.Syntax
	p      *params.Params
	logger Logger
	buf    strings.Builder
	rows   int
	cols   int
}

func NewCSVStringFormat(syn *syntax.Syntax, p *params.Params, logger Logger) *CSVStringFormat {
	if logger == nil {
		logger = NopLogger{}
	}

	return &CSVStringFormat{syn: syn, p: p, logger: logger}
}

// Append writes rec's row, first writing the header row if one is known
// and has not been written yet (spec.md §9(a)'s corrected convention).
func (f *CSVStringFormat) Append(rec *expr.Record) error {
	if f.p.Header != nil && !f.p.HeaderWritten {
		f.buf.WriteString(renderCSVRow(f.p.Header, f.syn, f.logger))
		f.p.HeaderWritten = true

		if !f.p.Headerless {
			// rec is the Record that set p.Header; it was just written.
			return nil
		}
	}

	fields := rec.Fields()
	f.buf.WriteString(renderCSVRow(fields, f.syn, f.logger))
	f.rows++

	if len(fields) > f.cols {
		f.cols = len(fields)
	}

	return nil
}

func (f *CSVStringFormat) Data() string { return f.buf.String() }
func (f *CSVStringFormat) Rows() int    { return f.rows }
func (f *CSVStringFormat) Columns() int { return f.cols }

// CSVFileFormat is CSVStringFormat's byte-sink counterpart: identical
// row semantics, routed through an io.Writer, with the configured BOM
// written once before the first payload byte.
type CSVFileFormat struct {
	syn      *syntax.Syntax
	p        *params.Params
	logger   Logger
	w        io.Writer
	wroteBOM bool
	rows     int
	cols     int
}

func NewCSVFileFormat(w io.Writer, syn *syntax.Syntax, p *params.Params, logger Logger) *CSVFileFormat {
	if logger == nil {
		logger = NopLogger{}
	}

	return &CSVFileFormat{syn: syn, p: p, logger: logger, w: w}
}

func (f *CSVFileFormat) ensureBOM() error {
	if f.wroteBOM {
		return nil
	}

	f.wroteBOM = true

	if !f.syn.BOM {
		return nil
	}

	if b := BOMBytes(f.syn.Encoding); len(b) > 0 {
		if _, err := f.w.Write(b); err != nil {
			return token.New(token.KindFormat, "writing BOM").WithCause(err)
		}
	}

	return nil
}

func (f *CSVFileFormat) Append(rec *expr.Record) error {
	if err := f.ensureBOM(); err != nil {
		return err
	}

	if f.p.Header != nil && !f.p.HeaderWritten {
		if _, err := io.WriteString(f.w, renderCSVRow(f.p.Header, f.syn, f.logger)); err != nil {
			return token.New(token.KindFormat, "writing header row").WithCause(err)
		}

		f.p.HeaderWritten = true

		if !f.p.Headerless {
			// rec is the Record that set p.Header; it was just written.
			return nil
		}
	}

	fields := rec.Fields()

	if _, err := io.WriteString(f.w, renderCSVRow(fields, f.syn, f.logger)); err != nil {
		return token.New(token.KindFormat, "writing row").WithCause(err)
	}

	f.rows++

	if len(fields) > f.cols {
		f.cols = len(fields)
	}

	return nil
}

func (f *CSVFileFormat) Rows() int    { return f.rows }
func (f *CSVFileFormat) Columns() int { return f.cols }

// CSVJSFormat projects each CSV row into a JSON object using the header
// paths of spec.md §4.6, collecting every row into a JSON array.
type CSVJSFormat struct {
	syn    *syntax.Syntax
	p      *params.Params
	logger Logger
	plans  [][]headerpath.Segment
	root   *jsonval.Value

	consumedHeaderRow bool
}

func NewCSVJSFormat(syn *syntax.Syntax, p *params.Params, logger Logger) *CSVJSFormat {
	if logger == nil {
		logger = NopLogger{}
	}

	return &CSVJSFormat{syn: syn, p: p, logger: logger, root: jsonval.NewArray()}
}

func (f *CSVJSFormat) ensurePlans() error {
	if f.plans != nil || len(f.p.Header) == 0 {
		return nil
	}

	f.plans = make([][]headerpath.Segment, len(f.p.Header))

	for i, h := range f.p.Header {
		plan, err := headerpath.Plan(h, f.syn)
		if err != nil {
			return err
		}

		f.plans[i] = plan
	}

	return nil
}

// Append skips emitting a row for the header record itself (the first
// parsed Record, when it set p.Header); every subsequent Record becomes
// one JSON object.
func (f *CSVJSFormat) Append(rec *expr.Record) error {
	if err := f.ensurePlans(); err != nil {
		return err
	}

	if !f.consumedHeaderRow {
		f.consumedHeaderRow = true

		if !f.p.Headerless {
			// This Record is the one that set p.Header; it carries no data
			// of its own to project.
			return nil
		}
	}

	fields := rec.Fields()
	obj := jsonval.NewObject()

	for i, plan := range f.plans {
		var raw string
		if i < len(fields) {
			raw = fields[i]
		}

		val, err := f.syn.ParseCell(raw)
		if err != nil {
			return err
		}

		if err := headerpath.Set(obj, plan, anyToJSON(val)); err != nil {
			f.logger.Warnf("csv jsformat: %v", err)
		}
	}

	f.root.Arr = append(f.root.Arr, obj)

	return nil
}

func (f *CSVJSFormat) Data() *jsonval.Value { return f.root }
func (f *CSVJSFormat) Rows() int            { return len(f.root.Arr) }
