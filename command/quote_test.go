// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote_SafeCharsAreIdentity(t *testing.T) {
	for _, s := range []string{
		"hello",
		"a-b_c.d/e",
		"1234567890",
		"x+y=z",
		"user@host:path,etc",
		"!important",
	} {
		assert.Equal(t, s, Quote(s), "safe string %q should pass through unquoted", s)
	}
}

func TestQuote_Empty(t *testing.T) {
	assert.Equal(t, "''", Quote(""))
}

func TestQuote_SingleQuoteWrap(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "'hello world'"},
		{"a;b", "'a;b'"},
		{"tab\there", "'tab\there'"},
		{"(parens)", "'(parens)'"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Quote(tc.in), "quoting %q", tc.in)
	}
}

func TestQuote_DoubleQuoteEscapes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`don't`, `"don't"`},
		{`don't say "no"`, `"don't say \"no\""`},
		{"it's $HOME", `"it's \$HOME"`},
		{"won't\\", `"won't\\"`},
		{"can't `tick`", "\"can't \\`tick\\`\""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Quote(tc.in), "quoting %q", tc.in)
	}
}

func TestQuoteList(t *testing.T) {
	got := QuoteList([]string{"", "safe", "two words"})
	assert.Equal(t, []string{"''", "safe", "'two words'"}, got)
}
