package chandas

import "sync"

var (
	columnCandidatesMu  sync.RWMutex
	activeColumnOptions = defaultColumnCandidates()
)

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		ID:              []string{"id", "index", "mantra_id", "Mantra Number", "no"},
		Text:            []string{"text", "text_dev", "text_dev_original", "Mantra", "MantraText", "shloka", "verse"},
		Padapatha:       []string{"padapatha", "Padpath", "text_dev_padapatha", "padapath"},
		Meter:           []string{"chanda", "Chanda", "meter", "meter_gold_raw", "chandas"},
		SourceVeda:      []string{"source_veda", "veda", "Veda"},
		Transliteration: []string{"transliteration", "text_roman", "iast"},
	}
}

// DefaultColumnCandidates returns the built-in column detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return defaultColumnCandidates().clone()
}

// SetColumnCandidates updates the column detection candidates used during auto-detection.
// Fields left nil fall back to the built-in defaults, allowing callers to override only
// the parts they need.
func SetColumnCandidates(candidates ColumnCandidates) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	activeColumnOptions = candidates.withDefaults()
}

func getColumnCandidates() ColumnCandidates {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return activeColumnOptions.clone()
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := defaultColumnCandidates()
	return ColumnCandidates{
		ID:              pickStrings(c.ID, defaults.ID),
		Text:            pickStrings(c.Text, defaults.Text),
		Padapatha:       pickStrings(c.Padapatha, defaults.Padapatha),
		Meter:           pickStrings(c.Meter, defaults.Meter),
		SourceVeda:      pickStrings(c.SourceVeda, defaults.SourceVeda),
		Transliteration: pickStrings(c.Transliteration, defaults.Transliteration),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		ID:              cloneStrings(c.ID),
		Text:            cloneStrings(c.Text),
		Padapatha:       cloneStrings(c.Padapatha),
		Meter:           cloneStrings(c.Meter),
		SourceVeda:      cloneStrings(c.SourceVeda),
		Transliteration: cloneStrings(c.Transliteration),
	}
}

func pickStrings(custom, fallback []string) []string {
	if custom == nil {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
