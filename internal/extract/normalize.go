package extract

import (
	"errors"
	"strings"
)

// MinContentLength is the minimum length of normalized text accepted by
// the generation pipeline.
const MinContentLength = 10

// ErrInsufficientContent is returned when normalized text is too short
// to generate anything meaningful from.
var ErrInsufficientContent = errors.New("extracted text is too short to be meaningful")

// punctReplacer maps common unicode punctuation to ASCII equivalents.
var punctReplacer = strings.NewReplacer(
	"\u2018", "'", // left single quote
	"\u2019", "'", // right single quote
	"\u201C", `"`, // left double quote
	"\u201D", `"`, // right double quote
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2026", "...", // ellipsis
	"\u00B7", " ", // middle dot
)

// Normalize cleans raw extracted text: control characters and unicode
// space variants become plain spaces, smart punctuation becomes ASCII,
// runs of whitespace collapse to single spaces, and consecutive blank
// lines are capped at one. It fails if fewer than MinContentLength
// characters remain. The function is pure and idempotent.
func Normalize(raw string) (string, error) {
	mapped := punctReplacer.Replace(raw)
	mapped = strings.Map(mapSpace, mapped)
	mapped = strings.ReplaceAll(mapped, "\r\n", "\n")
	mapped = strings.ReplaceAll(mapped, "\r", "\n")

	var out []string
	blankRun := 0
	for _, line := range strings.Split(mapped, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blankRun++
			if blankRun > 1 || len(out) == 0 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, line)
	}

	cleaned := strings.TrimSpace(strings.Join(out, "\n"))
	if len(cleaned) < MinContentLength {
		return "", ErrInsufficientContent
	}
	return cleaned, nil
}

// mapSpace replaces non-printable control characters and unicode space
// variants with a plain space, leaving tab and newline intact.
func mapSpace(r rune) rune {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return r
	case r < 0x20, r >= 0x7F && r <= 0x9F:
		return ' '
	case r == '\u00A0', r >= '\u2000' && r <= '\u200B', r == '\u202F', r == '\u205F', r == '\u3000':
		return ' '
	}
	return r
}
