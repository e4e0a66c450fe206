// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"io"
	"strings"

	"github.com/golangee/dataform/expr"
	"github.com/golangee/dataform/jsonval"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// escapeINIValue re-applies the dialect's escape rules on output: each
// character in syn.Escape.Special, plus the escape char itself, is
// prefixed with the escape char (spec.md §4.7, "writes ... escape encoding per
// syntax"). With no Escape configured, text is written verbatim.
func escapeINIValue(v string, syn *syntax.Syntax, logger Logger) string {
	if syn.Escape == nil {
		if syn.LineTerminator != "" && strings.Contains(v, syn.LineTerminator) {
			logger.Warnf("ini: value %q contains the line terminator but escaping is disabled", v)
		}

		return v
	}

	var sb strings.Builder

	for _, r := range v {
		if r == syn.Escape.Char || syn.Escape.Special[r] {
			sb.WriteRune(syn.Escape.Char)
		}

		sb.WriteRune(r)
	}

	return sb.String()
}

func commentRune(syn *syntax.Syntax) (rune, bool) {
	for r, rule := range syn.CommentChars {
		if rule.Retain {
			return r, true
		}
	}

	return 0, false
}

func assignmentRune(syn *syntax.Syntax) rune {
	if len(syn.Assignment) > 0 {
		return syn.Assignment[0]
	}

	return '='
}

// renderINITree walks root breadth-first, writing every Property it
// meets immediately and queuing every nested Section to be written as
// its own later bracketed block — matching the flat on-wire shape real
// INI dialects use rather than inlining each level's brackets.
func renderINITree(sb *strings.Builder, root *expr.Section, syn *syntax.Syntax, logger Logger) {
	queue := []*expr.Section{root}
	cmt, canComment := commentRune(syn)
	assign := assignmentRune(syn)

	writeComments := func(lines []string) {
		if !canComment {
			return
		}

		for _, c := range lines {
			sb.WriteRune(cmt)
			sb.WriteString(c)
			sb.WriteString(syn.LineTerminator)
		}
	}

	for len(queue) > 0 {
		sec := queue[0]
		queue = queue[1:]

		if len(sec.Path) > 0 {
			writeComments(sec.Comments)
			sb.WriteRune(syn.SectionOpen)
			sb.WriteString(strings.Join(sec.Path, string(syn.Nesting.Object)))
			sb.WriteRune(syn.SectionClose)

			if sec.InlineComment != "" && canComment {
				sb.WriteRune(' ')
				sb.WriteRune(cmt)
				sb.WriteString(sec.InlineComment)
			}

			sb.WriteString(syn.LineTerminator)
		}

		for _, name := range sec.Names {
			switch c := sec.Children[name].(type) {
			case *expr.Property:
				for _, kv := range c.Values {
					writeComments(kv.BlockComments)
					sb.WriteString(escapeINIValue(kv.Key, syn, logger))
					sb.WriteRune(assign)
					sb.WriteString(escapeINIValue(kv.Value, syn, logger))

					if kv.InlineComment != "" && canComment {
						sb.WriteRune(' ')
						sb.WriteRune(cmt)
						sb.WriteString(kv.InlineComment)
					}

					sb.WriteString(syn.LineTerminator)
				}
			case *expr.Section:
				queue = append(queue, c)
			}
		}
	}
}

// INIStringFormat renders a whole parsed document (the root Section
// INIT produces) into a growing in-memory buffer.
type INIStringFormat struct {
	syn    *syntax.Syntax
	logger Logger
	buf    strings.Builder
}

func NewINIStringFormat(syn *syntax.Syntax, logger Logger) *INIStringFormat {
	if logger == nil {
		logger = NopLogger{}
	}

	return &INIStringFormat{syn: syn, logger: logger}
}

func (f *INIStringFormat) Append(root *expr.Section) error {
	renderINITree(&f.buf, root, f.syn, f.logger)
	return nil
}

func (f *INIStringFormat) Data() string { return f.buf.String() }

// INIFileFormat is INIStringFormat's byte-sink counterpart, prepending
// the configured BOM before the first payload byte.
type INIFileFormat struct {
	syn      *syntax.Syntax
	logger   Logger
	w        io.Writer
	wroteBOM bool
}

func NewINIFileFormat(w io.Writer, syn *syntax.Syntax, logger Logger) *INIFileFormat {
	if logger == nil {
		logger = NopLogger{}
	}

	return &INIFileFormat{syn: syn, logger: logger, w: w}
}

func (f *INIFileFormat) Append(root *expr.Section) error {
	if !f.wroteBOM {
		f.wroteBOM = true

		if f.syn.BOM {
			if b := BOMBytes(f.syn.Encoding); len(b) > 0 {
				if _, err := f.w.Write(b); err != nil {
					return token.New(token.KindFormat, "writing BOM").WithCause(err)
				}
			}
		}
	}

	var sb strings.Builder

	renderINITree(&sb, root, f.syn, f.logger)

	if _, err := io.WriteString(f.w, sb.String()); err != nil {
		return token.New(token.KindFormat, "writing document").WithCause(err)
	}

	return nil
}

// INIJSFormat builds an in-memory JSON value from a parsed root
// Section: nested Sections become nested objects, a single-valued
// Property becomes a scalar, a multi-valued one an array, and an
// empty Property (no KeyValue at all) becomes null (spec.md §4.7).
type INIJSFormat struct {
	syn *syntax.Syntax
}

func NewINIJSFormat(syn *syntax.Syntax) *INIJSFormat {
	return &INIJSFormat{syn: syn}
}

func (f *INIJSFormat) Build(root *expr.Section) (*jsonval.Value, error) {
	return f.buildSection(root)
}

func (f *INIJSFormat) buildSection(sec *expr.Section) (*jsonval.Value, error) {
	obj := jsonval.NewObject()

	for _, name := range sec.Names {
		switch c := sec.Children[name].(type) {
		case *expr.Property:
			v, err := f.buildProperty(c)
			if err != nil {
				return nil, err
			}

			obj.Obj.Set(name, v)
		case *expr.Section:
			v, err := f.buildSection(c)
			if err != nil {
				return nil, err
			}

			obj.Obj.Set(name, v)
		}
	}

	return obj, nil
}

func (f *INIJSFormat) buildProperty(p *expr.Property) (*jsonval.Value, error) {
	if len(p.Values) == 0 {
		return jsonval.Null_(), nil
	}

	if len(p.Values) == 1 {
		v, err := f.syn.ParseCell(p.Values[0].Value)
		if err != nil {
			return nil, err
		}

		return anyToJSON(v), nil
	}

	arr := jsonval.NewArray()

	for _, kv := range p.Values {
		v, err := f.syn.ParseCell(kv.Value)
		if err != nil {
			return nil, err
		}

		arr.Arr = append(arr.Arr, anyToJSON(v))
	}

	return arr, nil
}
