package chandas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syllableTexts(s Syllabification) []string {
	out := make([]string, len(s.Syllables))
	for i, syl := range s.Syllables {
		out[i] = syl.Text
	}
	return out
}

func syllableReasons(s Syllabification) []WeightReason {
	out := make([]WeightReason, len(s.Syllables))
	for i, syl := range s.Syllables {
		out[i] = syl.Reason
	}
	return out
}

func TestSyllabify(t *testing.T) {
	tests := []struct {
		name    string
		pada    string
		texts   []string
		weights string
		reasons []WeightReason
	}{
		{
			name:    "visarga closes final syllable",
			pada:    "रामः",
			texts:   []string{"रा", "मः"},
			weights: "GG",
			reasons: []WeightReason{ReasonLongVowel, ReasonCodaCluster},
		},
		{
			name:    "conjunct splits across syllables",
			pada:    "इन्द्रः",
			texts:   []string{"इन्", "द्रः"},
			weights: "GG",
			reasons: []WeightReason{ReasonCodaCluster, ReasonCodaCluster},
		},
		{
			name:    "rigveda opening",
			pada:    "अग्निमीळे पुरोहितं",
			texts:   []string{"अग्", "नि", "मी", "ळे", "पु", "रो", "हि", "तं"},
			weights: "GLGGLGLG",
		},
		{
			name:    "short before conjunct is heavy",
			pada:    "कर्म",
			texts:   []string{"कर्", "म"},
			weights: "GL",
			reasons: []WeightReason{ReasonCodaCluster, ReasonShortOpen},
		},
		{
			name:    "word final dead consonant joins coda",
			pada:    "वाक्",
			texts:   []string{"वाक्"},
			weights: "G",
			reasons: []WeightReason{ReasonCodaCluster},
		},
		{
			name:    "initial cluster is onset",
			pada:    "स्त्री",
			texts:   []string{"स्त्री"},
			weights: "G",
			reasons: []WeightReason{ReasonLongVowel},
		},
		{
			name:    "final halanta after conjunct",
			pada:    "यज्ञम्",
			texts:   []string{"यज्", "ञम्"},
			weights: "GG",
		},
		{
			name:    "independent short vowels",
			pada:    "अइउ",
			texts:   []string{"अ", "इ", "उ"},
			weights: "LLL",
		},
		{
			name:    "accent marks stay in text",
			pada:    "अ॒ग्निमी॑ळे",
			texts:   []string{"अ॒ग्", "नि", "मी॑", "ळे"},
			weights: "GLGG",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Syllabify(tt.pada)
			assert.Equal(t, tt.texts, syllableTexts(got))
			assert.Equal(t, tt.weights, got.Weights)
			assert.Equal(t, len(tt.texts), got.Count())
			if tt.reasons != nil {
				assert.Equal(t, tt.reasons, syllableReasons(got))
			}
		})
	}
}

func TestSyllabifyEmpty(t *testing.T) {
	got := Syllabify("")
	assert.Zero(t, got.Count())
	assert.Empty(t, got.Weights)
	assert.Empty(t, got.Ganas)

	got = Syllabify("   ")
	assert.Zero(t, got.Count())
}

func TestSyllabifyReconstructsText(t *testing.T) {
	padas := []string{
		"अग्निमीळे पुरोहितं",
		"यज्ञस्य देवमृत्विजम्",
		"होतारं रत्नधातमम्",
		"इन्द्रः",
		"स्वस्ति नो बृहस्पतिर्दधातु",
		"ऽ",
		"ं",
		"३",
		"ऽ ं",
		"ऽग्ने",
	}
	for _, p := range padas {
		got := Syllabify(p)
		var b strings.Builder
		for _, s := range got.Syllables {
			b.WriteString(s.Text)
		}
		assert.Equal(t, strings.ReplaceAll(p, " ", ""), b.String(), "pada %q", p)
		for _, s := range got.Syllables {
			want := Light
			if s.Coda != "" {
				want = Heavy
			}
			for _, r := range s.Nucleus {
				if IsLongVowel(r) {
					want = Heavy
				}
			}
			assert.Equal(t, want, s.Weight, "syllable %q of %q", s.Text, p)
		}
	}
}

func TestSyllabifyResidue(t *testing.T) {
	got := Syllabify("ऽ")
	require.Len(t, got.Syllables, 1)
	assert.Equal(t, Syllable{Text: "ऽ", Weight: Light, Reason: ReasonShortOpen}, got.Syllables[0])

	got = Syllabify("ं")
	require.Len(t, got.Syllables, 1)
	assert.Equal(t, Syllable{Text: "ं", Coda: "ं", Weight: Heavy, Reason: ReasonCodaCluster}, got.Syllables[0])

	got = Syllabify("ऽग्ने")
	assert.Equal(t, []string{"ऽग्ने"}, syllableTexts(got), "a leading avagraha joins the first syllable")
}

func TestSyllableMatra(t *testing.T) {
	got := Syllabify("रामः")
	require.Len(t, got.Syllables, 2)
	assert.Equal(t, 2, got.Syllables[0].Matra())
	assert.Equal(t, 1, Syllable{Weight: Light}.Matra())
}

func TestSyllabifyPadas(t *testing.T) {
	padas := SplitPadas("अग्निमीळे पुरोहितं | रामः")
	got := SyllabifyPadas(padas)
	require.Len(t, got, 2)
	assert.Equal(t, 8, got[0].Count())
	assert.Equal(t, 2, got[1].Count())
	assert.Equal(t, []string{"bha", "bha"}, got[0].Ganas)
}
