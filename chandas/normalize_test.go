package chandas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts NormalizeOptions
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "collapses whitespace", in: "  अग्निमीळे \t पुरोहितं\n", want: "अग्निमीळे पुरोहितं"},
		{name: "single danda", in: "अग्निमीळे।पुरोहितं", want: "अग्निमीळे | पुरोहितं"},
		{name: "double danda", in: "रामः॥", want: "रामः ||"},
		{name: "two single dandas merge", in: "रामः । । सीता", want: "रामः || सीता"},
		{name: "ascii bars", in: "a|b||c", want: "a | b || c"},
		{name: "slash as marker", in: "a / b", want: "a | b"},
		{name: "verse number dropped", in: "रामः ॥ १.१ ॥", want: "रामः ||"},
		{name: "latin verse number dropped", in: "रामः || 12 ||", want: "रामः ||"},
		{name: "control chars dropped", in: "रा\u0007मः", want: "रामः"},
		{name: "svaras kept", in: "अ॒ग्निमी॑ळे", want: "अ॒ग्निमी॑ळे"},
		{name: "svaras stripped", in: "अ॒ग्निमी॑ळे", opts: NormalizeOptions{StripSvaras: true}, want: "अग्निमीळे"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in, tt.opts))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"अ॒ग्निमी॑ळे पु॒रोहि॑तं य॒ज्ञस्य॑ दे॒वमृ॒त्विज॑म् । होता॑रं रत्न॒धात॑मम् ॥ १ ॥",
		"a | | b ||| c",
		"  ।  ॥ ",
		"रामः\n\nसीता",
	}
	for _, in := range inputs {
		for _, opts := range []NormalizeOptions{{}, {StripSvaras: true}} {
			once := NormalizeText(in, opts)
			assert.Equal(t, once, NormalizeText(once, opts), "input %q", in)
		}
	}
}

func TestStripSvaraMarks(t *testing.T) {
	assert.Equal(t, "अग्निमीळे", StripSvaraMarks("अ॒ग्निमी॑ळे"))
	assert.Equal(t, "होता", StripSvaraMarks("हो᳚ता"))
}

func TestIsVerseNumber(t *testing.T) {
	assert.True(t, isVerseNumber("१२"))
	assert.True(t, isVerseNumber("1.1.3"))
	assert.False(t, isVerseNumber("."))
	assert.False(t, isVerseNumber("रामः"))
	assert.False(t, isVerseNumber("3a"))
}
