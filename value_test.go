package main

import (
	"math"
	"strings"
	"testing"
)

func TestParseValueKeepsFieldOrder(t *testing.T) {
	v, err := ParseValue([]byte(`{"b": 1, "a": [true, null, "x"], "c": {"n": 2.5}}`))
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if v.Kind != KindMap || len(v.Fields) != 3 {
		t.Fatalf("got kind %s with %d fields", v.Kind, len(v.Fields))
	}
	names := []string{v.Fields[0].Name, v.Fields[1].Name, v.Fields[2].Name}
	if strings.Join(names, ",") != "b,a,c" {
		t.Fatalf("field order = %v, want b,a,c", names)
	}
	list, _ := v.Get("a")
	if list.Kind != KindList || len(list.Items) != 3 || list.Items[1].Kind != KindNull {
		t.Fatalf("unexpected list %+v", list)
	}
	if got := v.String(); got != `{"b":1,"a":[true,null,"x"],"c":{"n":2.5}}` {
		t.Fatalf("String() = %s", got)
	}
}

func TestParseValueRejectsTrailingData(t *testing.T) {
	if _, err := ParseValue([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Fatalf("expected error for trailing data")
	}
	if _, err := ParseValue([]byte(`{"a":`)); err == nil {
		t.Fatalf("expected error for truncated document")
	}
}

func TestValueScalars(t *testing.T) {
	cases := []struct {
		v        Value
		str      string
		category string
	}{
		{Number(3), "3", "number"},
		{Number(-1.5), "-1.5", "number"},
		{Text("hi"), "hi", "string"},
		{Bool(true), "true", "boolean"},
		{Null(), "null", "object"},
		{List(Number(1), Number(2)), "[1,2]", "object"},
		{Map(F("k", Text("v"))), `{"k":"v"}`, "object"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.str {
			t.Fatalf("String() = %q, want %q", got, tc.str)
		}
		if got := tc.v.Category(); got != tc.category {
			t.Fatalf("Category(%s) = %q, want %q", tc.str, got, tc.category)
		}
	}
}

func TestValueInt(t *testing.T) {
	if n, ok := Number(42).Int(); !ok || n != 42 {
		t.Fatalf("Int(42) = %d, %v", n, ok)
	}
	if _, ok := Number(1.5).Int(); ok {
		t.Fatalf("Int(1.5) should fail")
	}
	if _, ok := Text("4").Int(); ok {
		t.Fatalf("Int on text should fail")
	}
	if _, ok := Number(1e300).Int(); ok {
		t.Fatalf("Int on huge number should fail")
	}
	if n, ok := Number(math.Exp2(63)).Int(); ok {
		t.Fatalf("Int(2^63) = %d, should fail", n)
	}
}

func TestValuePretty(t *testing.T) {
	got := Map(F("a", List(Number(1)))).Pretty()
	want := "{\n  \"a\": [\n    1\n  ]\n}"
	if got != want {
		t.Fatalf("Pretty() = %q, want %q", got, want)
	}
	if Text("plain").Pretty() != "plain" {
		t.Fatalf("Pretty on scalar should match String")
	}
}

func TestBindings(t *testing.T) {
	b := Bindings{F("x", Number(1)), F("name", Text("bob"))}
	if v, ok := b.Get("name"); !ok || v.Text != "bob" {
		t.Fatalf("Get(name) = %v, %v", v, ok)
	}
	if _, ok := b.Get("missing"); ok {
		t.Fatalf("Get(missing) should fail")
	}
	if got := b.String(); got != "x=1, name=bob" {
		t.Fatalf("String() = %q", got)
	}
}
