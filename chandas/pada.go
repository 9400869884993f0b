package chandas

import (
	"strings"
	"unicode"
)

// SandhiProfile holds simple per-pāda counters about word-final sounds and clusters.
type SandhiProfile struct {
	WordFinalVisarga  int `json:"word_final_visarga"`
	WordFinalAnusvara int `json:"word_final_anusvara"`
	InternalClusters  int `json:"internal_clusters"`
}

// Pada is one metrical quarter of a verse.
type Pada struct {
	Index  int           `json:"index"`
	Text   string        `json:"text"`
	Sandhi SandhiProfile `json:"sandhi_profile"`
}

// SplitPadas divides normalized text on pāda markers. The verse-end marker "||" is
// treated as an ordinary separator, chunks are trimmed and empty ones discarded.
// Text without markers yields a single pāda; blank text yields none.
func SplitPadas(normalized string) []Pada {
	text := strings.ReplaceAll(normalized, "||", "|")
	var padas []Pada
	for _, chunk := range strings.Split(text, "|") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		padas = append(padas, Pada{
			Index:  len(padas),
			Text:   chunk,
			Sandhi: ComputeSandhiProfile(chunk),
		})
	}
	return padas
}

// SplitPadapatha segments a padapāṭha string on raw or normalized dandas.
// Units carry an empty sandhi profile.
func SplitPadapatha(text string) []Pada {
	chunks := strings.FieldsFunc(text, IsBoundary)
	var units []Pada
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		units = append(units, Pada{Index: len(units), Text: chunk})
	}
	return units
}

// ComputeSandhiProfile counts word-final visarga and anusvara and the consonant
// conjuncts (consonant, virama, consonant) inside each word. A conjunct counts once,
// so a virama or a word-final halanta is never a cluster on its own.
func ComputeSandhiProfile(padaText string) SandhiProfile {
	var p SandhiProfile
	for _, word := range strings.FieldsFunc(padaText, unicode.IsSpace) {
		runes := []rune(StripSvaraMarks(word))
		if len(runes) == 0 {
			continue
		}
		switch runes[len(runes)-1] {
		case visarga:
			p.WordFinalVisarga++
		case anusvara:
			p.WordFinalAnusvara++
		}
		for i := 0; i+2 < len(runes); i++ {
			if IsConsonant(runes[i]) && IsVirama(runes[i+1]) && IsConsonant(runes[i+2]) {
				p.InternalClusters++
			}
		}
	}
	return p
}
