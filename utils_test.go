package main

import "testing"

func TestCleanPastedCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a\r\nb\rc", "a\nb\nc"},
		{"x\x00\x07 = 1\n\tpass", "x = 1\n\tpass"},
		{"<div>{count}</div>", "<div>{count}</div>"},
		{`{\rtf1\ansi\f0 print(1)\par x = \{\}\par}`, "print(1)\nx = {}"},
	}
	for _, tc := range cases {
		if got := cleanPastedCode(tc.in); got != tc.want {
			t.Fatalf("cleanPastedCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	if splitLines("") != nil {
		t.Fatalf("empty code has no lines")
	}
	lines := splitLines("a\nb\n")
	if len(lines) != 2 || lines[1] != "b" {
		t.Fatalf("splitLines = %q", lines)
	}
}
