package chandas

// Family is a canonical Vedic meter family (Piṅgala's seven).
type Family string

const (
	Gayatri   Family = "gayatri"
	Ushnih    Family = "ushnih"
	Anushtubh Family = "anushtubh"
	Brihati   Family = "brihati"
	Pankti    Family = "pankti"
	Trishtubh Family = "trishtubh"
	Jagati    Family = "jagati"
)

// FamilyEntry pairs a family with its target syllables per pāda.
type FamilyEntry struct {
	Family    Family `json:"family"`
	Syllables int    `json:"syllables"`
}

// familyTable is ordered by target, then by the conventional listing. The nearest-family
// fallback walks it in this order, so equal distances resolve to the first entry.
var familyTable = []FamilyEntry{
	{Family: Ushnih, Syllables: 7},
	{Family: Gayatri, Syllables: 8},
	{Family: Anushtubh, Syllables: 8},
	{Family: Pankti, Syllables: 8},
	{Family: Brihati, Syllables: 9},
	{Family: Trishtubh, Syllables: 11},
	{Family: Jagati, Syllables: 12},
}

// CanonicalFamilies returns a copy of the family table in fallback order.
func CanonicalFamilies() []FamilyEntry {
	out := make([]FamilyEntry, len(familyTable))
	copy(out, familyTable)
	return out
}

// TargetSyllables returns the per-pāda syllable target of f.
func TargetSyllables(f Family) (int, bool) {
	for _, e := range familyTable {
		if e.Family == f {
			return e.Syllables, true
		}
	}
	return 0, false
}

// exactShape is a pāda count range and uniform syllable count naming a family.
type exactShape struct {
	minPadas, maxPadas int
	syllables          int
	family             Family
}

var exactShapes = []exactShape{
	{3, 3, 8, Gayatri},
	{4, 4, 8, Anushtubh},
	{5, 5, 8, Pankti},
	{4, 4, 11, Trishtubh},
	{4, 4, 12, Jagati},
	{4, 4, 9, Brihati},
	{2, 4, 7, Ushnih},
}

func exactFamily(padaCount, syllables int) (Family, bool) {
	for _, s := range exactShapes {
		if padaCount >= s.minPadas && padaCount <= s.maxPadas && syllables == s.syllables {
			return s.family, true
		}
	}
	return "", false
}

// Deviation names the offset of a verse from its family target.
type Deviation string

const (
	DeviationNone Deviation = ""
	Nichrid       Deviation = "nichrid"
	Bhurik        Deviation = "bhurik"
	Viraj         Deviation = "viraj"
	Svaraj        Deviation = "svaraj"
)

// DeviationFor maps D = actual - target to its label: -1 nicṛt, +1 bhurik, +2 virāj,
// +3 or more svarāj. Every other D carries no label.
func DeviationFor(d int) Deviation {
	switch {
	case d == -1:
		return Nichrid
	case d == 1:
		return Bhurik
	case d == 2:
		return Viraj
	case d >= 3:
		return Svaraj
	}
	return DeviationNone
}

// IsDeviation reports whether s is a known deviation label.
func IsDeviation(s string) bool {
	switch Deviation(s) {
	case Nichrid, Bhurik, Viraj, Svaraj:
		return true
	}
	return false
}
