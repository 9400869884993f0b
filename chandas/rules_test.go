package chandas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRulesJSON = `[
  {"label": "गायत्री", "pada_count": 3, "syllable_pattern": [8, 8, 8], "max_diff_tolerance": 1, "count": 120, "base_family": "gayatri"},
  {"label": "निचृद् गायत्री", "pada_count": 3, "syllable_pattern": [7, 8, 8], "count": 14},
  {"label": "", "pada_count": 3, "syllable_pattern": [8, 8, 8]},
  {"label": "bad pattern", "pada_count": 3, "syllable_pattern": ["x", 8, 8]},
  {"label": "bad tolerance", "pada_count": 3, "syllable_pattern": [8, 8, 8], "max_diff_tolerance": -1},
  "not an object",
  {"label": "त्रिष्टुप्", "pada_count": "4", "syllable_pattern": [11, 11, 11, 11], "max_diff_tolerance": 1.0}
]`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRuleStoreJSON(t *testing.T) {
	path := writeTestFile(t, "rules.json", sampleRulesJSON)
	store, report, err := LoadRuleStore(path)
	require.NoError(t, err)
	assert.True(t, report.Found)
	assert.Equal(t, 3, report.Loaded)
	assert.Equal(t, 4, report.Skipped)
	assert.Len(t, report.Notes, 4)
	assert.Equal(t, path, store.Source())

	want := []ChandaRule{
		{Label: "गायत्री", PadaCount: 3, Pattern: []int{8, 8, 8}, Tolerance: 1, BaseFamily: Gayatri, Support: 120},
		{Label: "निचृद् गायत्री", PadaCount: 3, Pattern: []int{7, 8, 8}, Support: 14},
		{Label: "त्रिष्टुप्", PadaCount: 4, Pattern: []int{11, 11, 11, 11}, Tolerance: 1},
	}
	if diff := cmp.Diff(want, store.Rules()); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRuleStoreYAMLObject(t *testing.T) {
	yamlDoc := `
rules:
  - label: अनुष्टुप्
    pada_count: 4
    syllable_pattern: [8, 8, 8, 8]
    max_diff_tolerance: 1
    base_family: anushtubh
    count: 40
  - label: broken
    pada_count: 0
    syllable_pattern: [8]
`
	store, report, err := LoadRuleStore(writeTestFile(t, "rules.yaml", yamlDoc))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, Anushtubh, store.Rules()[0].BaseFamily)
}

func TestLoadRuleStoreMissing(t *testing.T) {
	store, report, err := LoadRuleStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Zero(t, store.Len())
	assert.False(t, report.Found)
	require.Len(t, report.Notes, 1)
	assert.Contains(t, report.Notes[0], "No rule table")

	store, _, err = LoadRuleStore("")
	require.NoError(t, err)
	assert.Zero(t, store.Len())
}

func TestLoadRuleStoreErrors(t *testing.T) {
	_, _, err := LoadRuleStore(writeTestFile(t, "rules.txt", "[]"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = LoadRuleStore(writeTestFile(t, "rules.json", "{not json"))
	assert.Error(t, err)

	_, _, err = LoadRuleStore(writeTestFile(t, "rules.json", `{"other": []}`))
	assert.Error(t, err)
}

func TestSaveRuleFileRoundTrip(t *testing.T) {
	rules := []ChandaRule{
		{Label: "गायत्री", PadaCount: 3, Pattern: []int{8, 8, 8}, Tolerance: 1, BaseFamily: Gayatri, Support: 120},
		{Label: "जगती", PadaCount: 4, Pattern: []int{12, 12, 12, 12}},
	}
	dir := t.TempDir()
	for _, name := range []string{"rules.json", "rules.yaml", "rules.json.xz", "rules.yml.xz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveRuleFile(path, NewRuleStore(rules)))
			store, report, err := LoadRuleStore(path)
			require.NoError(t, err)
			assert.Zero(t, report.Skipped)
			if diff := cmp.Diff(rules, store.Rules()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRuleStoreIsImmutable(t *testing.T) {
	src := []ChandaRule{{Label: "a", PadaCount: 1, Pattern: []int{8}}}
	store := NewRuleStore(src)
	src[0].Pattern[0] = 99
	got := store.Rules()
	assert.Equal(t, 8, got[0].Pattern[0])
	got[0].Pattern[0] = 77
	assert.Equal(t, 8, store.Rules()[0].Pattern[0])

	var nilStore *RuleStore
	assert.Zero(t, nilStore.Len())
	assert.Nil(t, nilStore.Rules())
}

func TestDecodeRules(t *testing.T) {
	rules, report, err := DecodeRules(strings.NewReader(sampleRulesJSON), "json")
	require.NoError(t, err)
	assert.Len(t, rules, 3)
	assert.Equal(t, 4, report.Skipped)

	rules, _, err = DecodeRules(strings.NewReader("  "), "json")
	require.NoError(t, err)
	assert.Empty(t, rules)
}
