package chandas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := map[rune]CharClass{
		' ':      ClassSpace,
		'\t':     ClassSpace,
		'|':      ClassBoundary,
		'।':      ClassBoundary,
		'॥':      ClassBoundary,
		'अ':      ClassIndependentVowel,
		'ॐ':      ClassIndependentVowel,
		'ा':      ClassVowelSign,
		'ौ':      ClassVowelSign,
		'क':      ClassConsonant,
		'ह':      ClassConsonant,
		'ळ':      ClassConsonant,
		'\u0958': ClassConsonant,
		'ं':      ClassCombiningMark,
		'ः':      ClassCombiningMark,
		'ँ':      ClassCombiningMark,
		'\u093C': ClassCombiningMark,
		'्':      ClassVirama,
		'॑':      ClassOther,
		'१':      ClassOther,
		'a':      ClassOther,
	}
	for r, want := range tests {
		assert.Equal(t, want, Classify(r), "rune %q (%U)", r, r)
	}
}

func TestCharClassPredicates(t *testing.T) {
	assert.True(t, IsVowel('इ'))
	assert.True(t, IsVowel('ि'))
	assert.False(t, IsVowel('क'))

	for _, r := range "आईऊएऐओऔाीूेैोौ" {
		assert.True(t, IsLongVowel(r), "%q should be long", r)
	}
	for _, r := range "अइउऋिुृ" {
		assert.False(t, IsLongVowel(r), "%q should be short", r)
	}

	assert.True(t, IsSvaraMark('॑'))
	assert.True(t, IsSvaraMark('॒'))
	assert.True(t, IsSvaraMark('᳚'))
	assert.False(t, IsSvaraMark('ं'))

	assert.Equal(t, "consonant", ClassConsonant.String())
	assert.Equal(t, "other", CharClass(99).String())
}
