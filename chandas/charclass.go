package chandas

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// CharClass is the category a rune falls into for syllabification.
type CharClass int

const (
	ClassOther CharClass = iota
	ClassSpace
	ClassBoundary
	ClassIndependentVowel
	ClassVowelSign
	ClassConsonant
	ClassCombiningMark
	ClassVirama
)

func (c CharClass) String() string {
	switch c {
	case ClassSpace:
		return "space"
	case ClassBoundary:
		return "boundary"
	case ClassIndependentVowel:
		return "independent_vowel"
	case ClassVowelSign:
		return "vowel_sign"
	case ClassConsonant:
		return "consonant"
	case ClassCombiningMark:
		return "combining_mark"
	case ClassVirama:
		return "virama"
	default:
		return "other"
	}
}

const (
	inherentVowel = 'अ'
	virama        = '्'
	nukta         = '़'
	anusvara      = 'ं'
	visarga       = 'ः'
	candrabindu   = 'ँ'
	danda         = '।'
	doubleDanda   = '॥'
	plutiMark     = '३'
)

var (
	independentVowels = rangetable.New([]rune("अआइईउऊऋॠऌॡएऐओऔॐ")...)
	vowelSigns        = rangetable.New([]rune("ािीुूृॄॢॣेैोौॅॉॆॊ")...)
	combiningMarks    = rangetable.New(candrabindu, anusvara, visarga, nukta)
	longVowels        = rangetable.New([]rune("आईऊॠॡएऐओऔॐाीूॄॣेैोौ")...)
	boundaryMarks     = rangetable.New('|', danda, doubleDanda)
	consonants        = rangetable.Merge(
		runeSpan(0x0915, 0x0939),
		runeSpan(0x0958, 0x095F),
	)
	svaraMarks = rangetable.Merge(
		runeSpan(0x0951, 0x0954),
		runeSpan(0x1CD0, 0x1CE8),
		runeSpan(0x1CF2, 0x1CF4),
	)
)

func runeSpan(lo, hi rune) *unicode.RangeTable {
	rs := make([]rune, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		rs = append(rs, r)
	}
	return rangetable.New(rs...)
}

// Classify returns the syllabification category of r.
func Classify(r rune) CharClass {
	switch {
	case unicode.IsSpace(r):
		return ClassSpace
	case IsBoundary(r):
		return ClassBoundary
	case IsIndependentVowel(r):
		return ClassIndependentVowel
	case IsVowelSign(r):
		return ClassVowelSign
	case IsConsonant(r):
		return ClassConsonant
	case IsCombiningMark(r):
		return ClassCombiningMark
	case IsVirama(r):
		return ClassVirama
	default:
		return ClassOther
	}
}

func IsIndependentVowel(r rune) bool { return unicode.Is(independentVowels, r) }
func IsVowelSign(r rune) bool        { return unicode.Is(vowelSigns, r) }
func IsVowel(r rune) bool            { return IsIndependentVowel(r) || IsVowelSign(r) }
func IsConsonant(r rune) bool        { return unicode.Is(consonants, r) }

// IsCombiningMark reports candrabindu, anusvara, visarga and nukta.
func IsCombiningMark(r rune) bool { return unicode.Is(combiningMarks, r) }

func IsVirama(r rune) bool   { return r == virama }
func IsBoundary(r rune) bool { return unicode.Is(boundaryMarks, r) }

// IsSvaraMark reports Vedic accent marks, including the Vedic extensions block.
func IsSvaraMark(r rune) bool { return unicode.Is(svaraMarks, r) }

// IsLongVowel reports whether r is a prosodically long vowel or vowel sign.
// Vowels outside the known sets count as short.
func IsLongVowel(r rune) bool { return unicode.Is(longVowels, r) }
