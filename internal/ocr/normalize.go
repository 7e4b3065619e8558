// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"regexp"
	"strings"
)

// replacer folds Unicode lookalikes onto their ASCII equivalents. Greek
// letters, math symbols, and the degree sign stay untouched; recognized
// text keeps its scientific notation.
var replacer = strings.NewReplacer(
	// Quotes.
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"«", `"`, "»", `"`,
	// Dashes, hyphens, and the minus sign.
	"–", "-", "—", "-", "‐", "-", "‑", "-",
	"‒", "-", "−", "-",
	// Space variants.
	" ", " ",
	" ", " ", " ", " ", " ", " ", " ", " ",
	" ", " ", " ", " ", " ", " ", " ", " ",
	" ", " ", " ", " ", " ", " ", " ", " ",
	" ", " ",
	// Bullets and list markers.
	"•", "*", "◦", "*", "▪", "*", "▫", "*",
	"●", "*", "○", "*",
	// Ellipsis, multiplication, division.
	"…", "...", "×", "x", "÷", "/",
	// Zero-width characters that break rendering.
	"​", "", "‌", "", "‍", "", "﻿", "", "⁠", "",
	// Line endings.
	"\r\n", "\n", "\r", "\n",
)

var (
	hSpaceRun  = regexp.MustCompile(`[ \t\v\f]+`)
	blankRun   = regexp.MustCompile(`\n{3,}`)
	trailingWS = regexp.MustCompile(` +\n`)
)

// Normalize cleans one page of recognized or embedded text: consistent
// ASCII punctuation, single spaces, at most one blank line in a row, no
// surrounding whitespace.
func Normalize(text string) string {
	if text == "" {
		return text
	}
	text = replacer.Replace(text)
	text = hSpaceRun.ReplaceAllString(text, " ")
	text = trailingWS.ReplaceAllString(text, "\n")
	text = blankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
