package chandas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersesPlainText(t *testing.T) {
	input := "अग्निमीळे पुरोहितं यज्ञस्य देवमृत्विजम् ।\n" +
		"होतारं रत्नधातमम् ॥ १ ॥\n" +
		"अग्निः पूर्वेभिः\n" +
		"\n" +
		"रामः\n"
	records, err := ParseVerses(strings.NewReader(input), "text", VerseParseOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "अग्निमीळे पुरोहितं यज्ञस्य देवमृत्विजम् । होतारं रत्नधातमम् ॥ १ ॥", records[0].Text)
	assert.Equal(t, "अग्निः पूर्वेभिः", records[1].Text)
	assert.Equal(t, "3", records[2].ID)

	records, err = ParseVerses(strings.NewReader(input), "text", VerseParseOptions{PerLine: true})
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestParseVersesCSV(t *testing.T) {
	input := "\ufeffid,text,chanda,veda\n" +
		"RV1.1.1,अग्निमीळे पुरोहितं,गायत्री,RigVeda\n" +
		",,empty,\n" +
		",रामः,,\n"
	records, err := ParseVerses(strings.NewReader(input), "csv", VerseParseOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, VerseRecord{
		ID:         "RV1.1.1",
		Text:       "अग्निमीळे पुरोहितं",
		MeterGold:  "गायत्री",
		SourceVeda: "rigveda",
	}, records[0])
	assert.Equal(t, "4", records[1].ID, "missing ids fall back to the line number")
}

func TestParseVersesExplicitColumns(t *testing.T) {
	input := "a\tb\nx\tरामः\n"
	records, err := ParseVerses(strings.NewReader(input), "tsv", VerseParseOptions{TextColumn: "#2"})
	require.NoError(t, err)
	require.Len(t, records, 2, "index columns keep the first row as data")
	assert.Equal(t, "रामः", records[1].Text)

	records, err = ParseVerses(strings.NewReader(input), "tsv", VerseParseOptions{TextColumn: "b"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "रामः", records[0].Text)

	_, err = ParseVerses(strings.NewReader(input), "tsv", VerseParseOptions{TextColumn: "missing"})
	assert.ErrorContains(t, err, "not found")

	_, err = ParseVerses(strings.NewReader(input), "tsv", VerseParseOptions{TextColumn: "#0"})
	assert.ErrorContains(t, err, "1-based")

	_, err = ParseVerses(strings.NewReader(""), "csv", VerseParseOptions{})
	assert.Error(t, err)
}

func TestParseVerseFileAndMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verses.tsv")
	require.NoError(t, os.WriteFile(path, []byte("Mantra\tChanda\nरामः\tगायत्री\n"), 0o644))

	meta, err := ReadVerseFileMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mantra", "Chanda"}, meta.Columns)
	assert.Equal(t, "Mantra", meta.Suggested.TextColumn)
	assert.Equal(t, "Chanda", meta.Suggested.MeterColumn)
	assert.Empty(t, meta.Suggested.IDColumn)

	records, err := ParseVerseFile(path, VerseParseOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "गायत्री", records[0].MeterGold)

	_, err = ParseVerseFile(filepath.Join(t.TempDir(), "nope.csv"), VerseParseOptions{})
	assert.Error(t, err)
}

func TestReadHeader(t *testing.T) {
	header, err := ReadHeader(strings.NewReader("\ufeffid, text \n1,x\n"), "csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "text"}, header)

	header, err = ReadHeader(strings.NewReader("a\tb\n"), "tsv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, header)

	header, err = ReadHeader(strings.NewReader(""), "csv")
	require.NoError(t, err)
	assert.Nil(t, header)
}

func TestParseCounts(t *testing.T) {
	assert.Equal(t, []int{8, 8, 9}, ParseCounts("8, 8;x 9"))
	assert.Equal(t, []int{11, 11, 11, 11}, ParseCounts("11|11|11|11"))
	assert.Empty(t, ParseCounts(""))
}
