package chandas

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeOptions controls NormalizeText.
type NormalizeOptions struct {
	// StripSvaras removes Vedic accent marks before segmentation.
	StripSvaras bool
}

// NormalizeText converts raw Devanagari input into the canonical form consumed by the
// pāda splitter: NFC, pāda markers rewritten to "|" and "||" with single spaces around
// them, verse numbers and control characters dropped and whitespace collapsed.
// It is idempotent.
func NormalizeText(text string, opts NormalizeOptions) string {
	normed := norm.NFC.String(text)
	normed = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		case opts.StripSvaras && IsSvaraMark(r):
			return -1
		}
		return r
	}, normed)
	fields := strings.Fields(canonicalizeDandas(normed))
	kept := fields[:0]
	for _, f := range fields {
		if !isVerseNumber(f) {
			kept = append(kept, f)
		}
	}
	// Removing numbers can leave adjacent markers such as "|| ||".
	normed = canonicalizeDandas(strings.Join(kept, " "))
	return strings.Join(strings.Fields(normed), " ")
}

// isVerseNumber reports tokens such as "१२" or "1.1.3".
func isVerseNumber(tok string) bool {
	digits := 0
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.':
		default:
			return false
		}
	}
	return digits > 0
}

// StripSvaraMarks removes accent marks and leaves everything else untouched.
func StripSvaraMarks(text string) string {
	return strings.Map(func(r rune) rune {
		if IsSvaraMark(r) {
			return -1
		}
		return r
	}, text)
}

func canonicalizeDandas(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(runes); {
		bars := barWidth(runes[i])
		if bars == 0 {
			b.WriteRune(runes[i])
			i++
			continue
		}
		// Bars separated only by whitespace belong to the same marker.
		j := i + 1
		for j < len(runes) {
			if w := barWidth(runes[j]); w > 0 {
				bars += w
				j++
				continue
			}
			k := j
			for k < len(runes) && unicode.IsSpace(runes[k]) {
				k++
			}
			if k > j && k < len(runes) && barWidth(runes[k]) > 0 {
				j = k
				continue
			}
			break
		}
		if bars >= 2 {
			b.WriteString(" || ")
		} else {
			b.WriteString(" | ")
		}
		i = j
	}
	return b.String()
}

func barWidth(r rune) int {
	switch r {
	case '|', '/', '\\', danda:
		return 1
	case doubleDanda:
		return 2
	}
	return 0
}
