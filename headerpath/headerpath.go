// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package headerpath implements the header-directed CSV <-> JSON
// projection of spec.md §4.6: splitting a dotted/indexed column name
// into a sequence of path segments, and using that sequence to resolve
// or create the corresponding leaf in a jsonval.Value tree.
//
// Resolution is planned before it mutates anything (spec.md §9(b)): Plan
// walks the syntax's nesting/array operators once to produce a pure
// []Segment, and Set/Get separately walk that plan against a concrete
// value tree. This keeps traversal order fixed ahead of time instead of
// interleaved with the container creation a naive recursive walk would
// do, matching the Design Notes' objection to the source's
// mid-walk-mutating JSONLexer.
package headerpath

import (
	"strconv"
	"strings"

	"github.com/golangee/dataform/jsonval"
	"github.com/golangee/dataform/syntax"
	"github.com/golangee/dataform/token"
)

// Segment is one step of a header path: either an object key or an
// array index, per spec.md §4.6 ("a segment beginning with the array op
// is an integer index; a segment beginning with the object op is a
// property name; the first segment has no op prefix").
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Plan splits header, a raw CSV column name, into its Segment sequence
// using syn's configured Nesting operators. The first segment never
// carries an operator prefix; every later segment must, or Plan fails.
func Plan(header string, syn *syntax.Syntax) ([]Segment, error) {
	if header == "" {
		return nil, token.New(token.KindData, "empty header path")
	}

	var segs []Segment

	runes := []rune(header)
	i := 0

	readRun := func() string {
		start := i
		for i < len(runes) && runes[i] != syn.Nesting.Object && runes[i] != syn.Nesting.Array {
			i++
		}

		return string(runes[start:i])
	}

	first := true

	for i < len(runes) {
		isIndex := false

		if !first {
			switch runes[i] {
			case syn.Nesting.Object:
				i++
			case syn.Nesting.Array:
				isIndex = true
				i++
			default:
				return nil, token.New(token.KindData, "header %q: expected a nesting operator at position %d", header, i)
			}
		}

		first = false

		run := readRun()

		if isIndex {
			n, err := strconv.Atoi(run)
			if err != nil {
				return nil, token.New(token.KindData, "header %q: array segment %q is not an integer", header, run)
			}

			segs = append(segs, Segment{Index: n, IsIndex: true})
		} else {
			segs = append(segs, Segment{Key: run})
		}
	}

	return segs, nil
}

// Join renders segs back into a header string using syn's nesting
// operators — the inverse of Plan, used when deriving header names from
// a JSON document's reachable leaf paths.
func Join(segs []Segment, syn *syntax.Syntax) string {
	var sb strings.Builder

	for i, s := range segs {
		if i > 0 {
			if s.IsIndex {
				sb.WriteRune(syn.Nesting.Array)
			} else {
				sb.WriteRune(syn.Nesting.Object)
			}
		}

		if s.IsIndex {
			sb.WriteString(strconv.Itoa(s.Index))
		} else {
			sb.WriteString(s.Key)
		}
	}

	return sb.String()
}

// Get resolves segs against root, returning the leaf value if every
// segment along the way exists, or ok=false if any is missing.
func Get(root *jsonval.Value, segs []Segment) (*jsonval.Value, bool) {
	cur := root

	for _, s := range segs {
		if cur == nil {
			return nil, false
		}

		if s.IsIndex {
			if cur.Kind != jsonval.Array || s.Index >= len(cur.Arr) {
				return nil, false
			}

			cur = cur.Arr[s.Index]
		} else {
			if cur.Kind != jsonval.Object {
				return nil, false
			}

			child, ok := cur.Obj.Get(s.Key)
			if !ok {
				return nil, false
			}

			cur = child
		}
	}

	return cur, true
}

// Set walks segs against root, creating an object or array container at
// each intermediate step as the segment kind dictates, and binds value
// at the final segment — unless a non-null leaf is already there, per
// spec.md §4.6's "do not overwrite an existing non-null leaf".
func Set(root *jsonval.Value, segs []Segment, value *jsonval.Value) error {
	if len(segs) == 0 {
		return token.New(token.KindData, "empty header path")
	}

	cur := root

	for i, s := range segs {
		last := i == len(segs)-1

		if s.IsIndex {
			if cur.Kind != jsonval.Array {
				if cur.Kind != jsonval.Null {
					return token.New(token.KindData, "path segment %d: expected an array, found %v", i, cur.Kind)
				}

				cur.Kind = jsonval.Array
			}

			for len(cur.Arr) <= s.Index {
				cur.Arr = append(cur.Arr, jsonval.Null_())
			}

			if last {
				if jsonval.IsNull(cur.Arr[s.Index]) {
					cur.Arr[s.Index] = value
				}

				return nil
			}

			cur = cur.Arr[s.Index]
		} else {
			if cur.Kind != jsonval.Object {
				if cur.Kind != jsonval.Null {
					return token.New(token.KindData, "path segment %d: expected an object, found %v", i, cur.Kind)
				}

				cur.Kind = jsonval.Object
				cur.Obj = jsonval.NewMap()
			}

			child, ok := cur.Obj.Get(s.Key)
			if !ok {
				child = jsonval.Null_()
				cur.Obj.Set(s.Key, child)
			}

			if last {
				if jsonval.IsNull(child) {
					cur.Obj.Set(s.Key, value)
				}

				return nil
			}

			cur = child
		}
	}

	return nil
}

// Flatten derives a first-seen-order header array and one row of cell
// values per element of rows (spec.md §4.6 "Flattening JSON -> CSV
// tokens", phase 1): every reachable leaf path across every row is
// enumerated in the order first encountered, and rows seen before a new
// column was discovered are back-filled with an empty cell for it.
func Flatten(rows []*jsonval.Value, syn *syntax.Syntax) (header []string, cells [][]string, err error) {
	seen := make(map[string]int) // header string -> column index

	for _, row := range rows {
		var rowCells []string

		if err := flattenInto(row, nil, syn, seen, &header, &rowCells); err != nil {
			return nil, nil, err
		}

		for len(rowCells) < len(header) {
			rowCells = append(rowCells, "")
		}

		cells = append(cells, rowCells)
	}

	for i := range cells {
		for len(cells[i]) < len(header) {
			cells[i] = append(cells[i], "")
		}
	}

	return header, cells, nil
}

func flattenInto(v *jsonval.Value, prefix []Segment, syn *syntax.Syntax, seen map[string]int, header *[]string, rowCells *[]string) error {
	if v == nil || v.Kind == jsonval.Null || v.Kind == jsonval.Bool || v.Kind == jsonval.Number || v.Kind == jsonval.String {
		return setCell(prefix, syn, seen, header, rowCells, scalarText(v))
	}

	if v.Kind == jsonval.Array {
		for i, e := range v.Arr {
			if err := flattenInto(e, append(append([]Segment{}, prefix...), Segment{Index: i, IsIndex: true}), syn, seen, header, rowCells); err != nil {
				return err
			}
		}

		return nil
	}

	for _, k := range v.Obj.Keys() {
		child, _ := v.Obj.Get(k)
		if err := flattenInto(child, append(append([]Segment{}, prefix...), Segment{Key: k}), syn, seen, header, rowCells); err != nil {
			return err
		}
	}

	return nil
}

func setCell(path []Segment, syn *syntax.Syntax, seen map[string]int, header *[]string, rowCells *[]string, text string) error {
	name := Join(path, syn)

	idx, ok := seen[name]
	if !ok {
		idx = len(*header)
		seen[name] = idx
		*header = append(*header, name)
	}

	for len(*rowCells) <= idx {
		*rowCells = append(*rowCells, "")
	}

	(*rowCells)[idx] = text

	return nil
}

func scalarText(v *jsonval.Value) string {
	if v == nil {
		return ""
	}

	switch v.Kind {
	case jsonval.Null:
		return ""
	case jsonval.Bool:
		return strconv.FormatBool(v.Bln)
	case jsonval.Number:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case jsonval.String:
		return v.Str
	default:
		return ""
	}
}
