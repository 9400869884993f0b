package chandas

import (
	"strconv"
	"strings"
)

// Features is the verse-level summary used for reports and exports.
type Features struct {
	PadaCount      int             `json:"pada_count"`
	SyllableCounts []int           `json:"syllable_counts"`
	CountsText     string          `json:"syllable_count_per_pada"`
	WeightSequence string          `json:"L_G_sequence"`
	GanaSequence   string          `json:"gana_sequence"`
	AccentPattern  string          `json:"accent_pattern"`
	HasPluti       bool            `json:"has_pluti"`
	HasStobha      bool            `json:"has_stobha"`
	HasSpecialH    bool            `json:"has_special_H"`
	Sandhi         []SandhiProfile `json:"sandhi_profile"`
}

// Sāman chant particles inserted between words of the text.
var stobhaParticles = map[string]bool{
	"हो": true, "हि": true, "है": true, "हौ": true, "ओ": true,
	"आइ": true, "इउ": true, "हु": true, "हे": true, "हा": true,
}

// Ardhavisarga signs (jihvāmūlīya and upadhmānīya).
const (
	specialH1 = '\u1CF2'
	specialH2 = '\u1CF3'
)

// ExtractFeatures summarizes a normalized verse, its pādas and their syllabifications.
// padas and sylls are parallel slices.
func ExtractFeatures(normalized string, padas []Pada, sylls []Syllabification) Features {
	f := Features{
		PadaCount:      len(padas),
		SyllableCounts: make([]int, len(sylls)),
		Sandhi:         make([]SandhiProfile, len(padas)),
	}
	counts := make([]string, len(sylls))
	weights := make([]string, len(sylls))
	ganas := make([]string, len(sylls))
	accents := make([]string, len(sylls))
	for i, s := range sylls {
		f.SyllableCounts[i] = s.Count()
		counts[i] = strconv.Itoa(s.Count())
		weights[i] = s.Weights
		ganas[i] = strings.Join(s.Ganas, "-")
		accents[i] = AccentPattern(s.Syllables)
	}
	for i, p := range padas {
		f.Sandhi[i] = p.Sandhi
	}
	f.CountsText = strings.Join(counts, ",")
	f.WeightSequence = strings.Join(weights, " | ")
	f.GanaSequence = strings.Join(ganas, " || ")
	f.AccentPattern = strings.Join(accents, " || ")
	f.HasPluti = strings.ContainsRune(normalized, plutiMark)
	f.HasSpecialH = strings.ContainsRune(normalized, specialH1) || strings.ContainsRune(normalized, specialH2)
	f.HasStobha = hasStobha(normalized)
	return f
}

// hasStobha looks for chant particles standing as separate words.
func hasStobha(text string) bool {
	for _, word := range strings.Fields(StripSvaraMarks(text)) {
		word = strings.TrimRight(word, "|३")
		if stobhaParticles[word] {
			return true
		}
	}
	return false
}
