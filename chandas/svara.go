package chandas

import "strings"

// Svara is the Vedic pitch accent marked on a syllable.
type Svara string

const (
	SvaraNone     Svara = "none"
	SvaraUdatta   Svara = "udatta"
	SvaraAnudatta Svara = "anudatta"
	SvaraSvarita  Svara = "svarita"
)

const (
	udattaMark   = '॑'
	anudattaMark = '॒'
)

// Tag returns the one-letter form used in accent patterns.
func (s Svara) Tag() string {
	switch s {
	case SvaraUdatta:
		return "U"
	case SvaraAnudatta:
		return "A"
	case SvaraSvarita:
		return "S"
	default:
		return "-"
	}
}

// DetectSvara inspects the accent marks in text. Anudātta wins over udātta, which wins
// over svarita.
func DetectSvara(text string) Svara {
	var udatta, svarita bool
	for _, r := range text {
		switch {
		case r == anudattaMark:
			return SvaraAnudatta
		case r == udattaMark:
			udatta = true
		case r == '॓' || r == '॔' || (r >= 0x1CD0 && r <= 0x1CE8):
			svarita = true
		}
	}
	switch {
	case udatta:
		return SvaraUdatta
	case svarita:
		return SvaraSvarita
	}
	return SvaraNone
}

// AccentPattern renders the accent tags of one pāda's syllables.
func AccentPattern(syllables []Syllable) string {
	var b strings.Builder
	for _, s := range syllables {
		b.WriteString(s.Svara().Tag())
	}
	return b.String()
}
