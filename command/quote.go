// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import "strings"

// Characters that never need quoting in an sh-like command line.
const safeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@%_-+=:,./"

// Characters that must be backslash-escaped inside double quotes.
const escapeChars = "\"`$\\"

// Quote shell-quotes text for an sh-like syntax. The empty string becomes
// ''. Text made only of safe characters is returned unchanged. Text without
// a single quote is wrapped in single quotes; otherwise it is wrapped in
// double quotes with ", `, $ and \ backslash-escaped.
func Quote(text string) string {
	if text == "" {
		return "''"
	}

	safe := true

	for _, c := range text {
		if !strings.ContainsRune(safeChars, c) {
			safe = false
			break
		}
	}

	if safe {
		return text
	}

	if !strings.Contains(text, "'") {
		return "'" + text + "'"
	}

	var sb strings.Builder

	sb.WriteByte('"')

	for _, c := range text {
		if strings.ContainsRune(escapeChars, c) {
			sb.WriteByte('\\')
		}

		sb.WriteRune(c)
	}

	sb.WriteByte('"')

	return sb.String()
}

// QuoteList applies Quote to every element of seq.
func QuoteList(seq []string) []string {
	out := make([]string, len(seq))
	for i, s := range seq {
		out[i] = Quote(s)
	}

	return out
}
