package chandas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSvara(t *testing.T) {
	tests := map[string]Svara{
		"क":   SvaraNone,
		"अ॒":  SvaraAnudatta,
		"मी॑": SvaraUdatta,
		"हो᳚": SvaraSvarita,
		"अ॒॑": SvaraAnudatta,
	}
	for text, want := range tests {
		assert.Equal(t, want, DetectSvara(text), "text %q", text)
	}
	assert.Equal(t, "A", SvaraAnudatta.Tag())
	assert.Equal(t, "-", SvaraNone.Tag())
}

func TestAccentPattern(t *testing.T) {
	got := Syllabify("अ॒ग्निमी॑ळे")
	assert.Equal(t, "A-U-", AccentPattern(got.Syllables))
	assert.Equal(t, SvaraUdatta, got.Syllables[2].Svara())
}
