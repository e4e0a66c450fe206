// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package jsonval

import (
	"encoding/json"
	"testing"
)

func TestMarshalScalars(t *testing.T) {
	cases := []struct {
		v    *Value
		want string
	}{
		{Null_(), "null"},
		{NewBool(true), "true"},
		{NewNumber(3.5), "3.5"},
		{NewString("hi"), `"hi"`},
	}

	for _, c := range cases {
		b, err := c.v.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON: %v", err)
		}

		if string(b) != c.want {
			t.Errorf("got %s, want %s", b, c.want)
		}
	}
}

func TestMarshalObjectPreservesInsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Obj.Set("z", NewString("1"))
	obj.Obj.Set("a", NewString("2"))
	obj.Obj.Set("m", NewString("3"))

	b, err := obj.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	want := `{"z":"1","a":"2","m":"3"}`
	if string(b) != want {
		t.Fatalf("got %s, want %s (object key order must match insertion order, not alphabetical)", b, want)
	}
}

func TestUnmarshalRoundTripPreservesOrder(t *testing.T) {
	src := `{"z":1,"a":{"nested":true},"m":[1,2,3]}`

	var v Value
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if v.Kind != Object {
		t.Fatalf("expected top-level Object, got %v", v.Kind)
	}

	if got := v.Obj.Keys(); len(got) != 3 || got[0] != "z" || got[1] != "a" || got[2] != "m" {
		t.Fatalf("expected key order [z a m], got %v", got)
	}

	nested, ok := v.Obj.Get("a")
	if !ok || nested.Kind != Object {
		t.Fatalf("expected nested object at key %q, got %+v", "a", nested)
	}

	arr, ok := v.Obj.Get("m")
	if !ok || arr.Kind != Array || len(arr.Arr) != 3 {
		t.Fatalf("expected a 3-element array at key %q, got %+v", "m", arr)
	}

	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	if string(b) != src {
		t.Fatalf("round trip mismatch: got %s, want %s", b, src)
	}
}

func TestIsNull(t *testing.T) {
	if !IsNull(nil) {
		t.Fatalf("expected a nil *Value to report IsNull")
	}

	if !IsNull(Null_()) {
		t.Fatalf("expected an explicit null Value to report IsNull")
	}

	if IsNull(NewString("")) {
		t.Fatalf("an empty string is not null")
	}
}
