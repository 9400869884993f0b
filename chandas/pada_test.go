package chandas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPadas(t *testing.T) {
	padas := SplitPadas(NormalizeText("अग्निमीळे पुरोहितं । यज्ञस्य देवमृत्विजम् ॥", NormalizeOptions{}))
	require.Len(t, padas, 2)
	assert.Equal(t, 0, padas[0].Index)
	assert.Equal(t, "अग्निमीळे पुरोहितं", padas[0].Text)
	assert.Equal(t, 1, padas[1].Index)
	assert.Equal(t, "यज्ञस्य देवमृत्विजम्", padas[1].Text)

	single := SplitPadas("रामः")
	require.Len(t, single, 1)
	assert.Equal(t, "रामः", single[0].Text)

	assert.Empty(t, SplitPadas(""))
	assert.Empty(t, SplitPadas(" | || | "))
}

func TestSplitPadasResplitIsStable(t *testing.T) {
	inputs := []string{
		rigvedaOpening,
		"स्वस्ति नो बृहस्पतिर्दधातु ॥ १ ॥",
		"रामः",
		"  अ॒ग्निमी॑ळे  ।।  पु॒रोहि॑तं / रामः ",
	}
	for _, in := range inputs {
		for _, p := range SplitPadas(NormalizeText(in, NormalizeOptions{})) {
			again := SplitPadas(p.Text)
			require.Len(t, again, 1, "pada %q", p.Text)
			assert.Equal(t, p.Text, again[0].Text)
			assert.Equal(t, 0, again[0].Index)
			assert.Equal(t, p.Sandhi, again[0].Sandhi)
		}
	}
}

func TestSplitPadapatha(t *testing.T) {
	units := SplitPadapatha("अ॒ग्निम् । ई॒ळे॒ । पु॒रःऽहि॑तम् ॥")
	require.Len(t, units, 3)
	assert.Equal(t, "अ॒ग्निम्", units[0].Text)
	assert.Equal(t, 2, units[2].Index)
	assert.Equal(t, SandhiProfile{}, units[1].Sandhi)
}

func TestComputeSandhiProfile(t *testing.T) {
	got := ComputeSandhiProfile("रामः वनं गच्छति")
	assert.Equal(t, SandhiProfile{WordFinalVisarga: 1, WordFinalAnusvara: 1, InternalClusters: 1}, got)

	// only consonant+virama+consonant conjuncts count
	got = ComputeSandhiProfile("इन्द्रः स्त्री वाक्")
	assert.Equal(t, 4, got.InternalClusters)

	// accents after the final sign do not hide it
	got = ComputeSandhiProfile("दे॒वः॑")
	assert.Equal(t, 1, got.WordFinalVisarga)
}
