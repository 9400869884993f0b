package chandas

import (
	"fmt"
	"strings"
)

// Input is what the classifier needs to know about a verse.
type Input struct {
	PadaCount      int    `json:"pada_count"`
	SyllableCounts []int  `json:"syllable_counts"`
	SourceVeda     string `json:"source_veda,omitempty"`
}

// Result is one of Unclassified, MatchedByRule or MatchedByHeuristic.
type Result interface {
	// Trail returns the ordered audit notes explaining the decision.
	Trail() []string
	// Summary flattens the result for reports and serialization.
	Summary() Summary
}

// Audit carries the human-readable decision trail shared by every result.
type Audit struct {
	Notes []string `json:"notes"`
}

func (a Audit) Trail() []string { return append([]string(nil), a.Notes...) }

func (a *Audit) notef(format string, args ...any) {
	a.Notes = append(a.Notes, fmt.Sprintf(format, args...))
}

// Measured is a deviation computed against a family target.
type Measured struct {
	D     int       `json:"d"`
	Label Deviation `json:"label,omitempty"`
}

// Unclassified means no family could be assigned.
type Unclassified struct {
	Audit
}

// MatchedByRule means a data-derived rule accepted the counts.
type MatchedByRule struct {
	Audit
	Rule    ChandaRule `json:"rule"`
	MaxDiff int        `json:"max_diff"`
	// Family is the rule's base family, or the fallback family when the rule has none.
	Family         Family    `json:"family,omitempty"`
	FamilyFallback bool      `json:"family_fallback,omitempty"`
	Deviation      *Measured `json:"deviation,omitempty"`
	FullLabel      string    `json:"full_label"`
}

// MatchedByHeuristic means the family came from Piṅgala's table or the nearest target.
type MatchedByHeuristic struct {
	Audit
	Family    Family   `json:"family"`
	Exact     bool     `json:"exact"`
	Deviation Measured `json:"deviation"`
	FullLabel string   `json:"full_label"`
}

// Summary is the flat view of any Result. Absent values are nil.
type Summary struct {
	Outcome        string   `json:"outcome"`
	BaseFamily     *string  `json:"base_family"`
	DeviationD     *int     `json:"deviation_D"`
	DeviationLabel *string  `json:"deviation_label"`
	FullLabel      *string  `json:"full_label"`
	Notes          []string `json:"notes"`
}

const (
	OutcomeUnclassified = "unclassified"
	OutcomeRule         = "rule"
	OutcomeHeuristic    = "heuristic"
)

func (u Unclassified) Summary() Summary {
	return Summary{Outcome: OutcomeUnclassified, Notes: u.Trail()}
}

func (m MatchedByRule) Summary() Summary {
	s := Summary{Outcome: OutcomeRule, FullLabel: ptr(m.FullLabel), Notes: m.Trail()}
	if m.Family != "" {
		s.BaseFamily = ptr(string(m.Family))
	}
	if m.Deviation != nil {
		s.DeviationD = ptr(m.Deviation.D)
		if m.Deviation.Label != DeviationNone {
			s.DeviationLabel = ptr(string(m.Deviation.Label))
		}
	}
	return s
}

func (m MatchedByHeuristic) Summary() Summary {
	s := Summary{
		Outcome:    OutcomeHeuristic,
		BaseFamily: ptr(string(m.Family)),
		DeviationD: ptr(m.Deviation.D),
		FullLabel:  ptr(m.FullLabel),
		Notes:      m.Trail(),
	}
	if m.Deviation.Label != DeviationNone {
		s.DeviationLabel = ptr(string(m.Deviation.Label))
	}
	return s
}

func ptr[T any](v T) *T { return &v }

// Classifier maps pāda and syllable counts to a meter. It holds an immutable rule
// table and is safe for concurrent use.
type Classifier struct {
	rules *RuleStore
}

// NewClassifier builds a classifier over rules. A nil store disables the rule layer.
func NewClassifier(rules *RuleStore) *Classifier {
	return &Classifier{rules: rules}
}

// Rules returns the store the classifier consults.
func (c *Classifier) Rules() *RuleStore { return c.rules }

// Classify runs the data-derived rule layer and falls back to Piṅgala's families.
// It never fails; every decision is recorded in the result's notes.
func (c *Classifier) Classify(in Input) Result {
	var audit Audit
	counts := in.SyllableCounts
	padaCount := in.PadaCount
	if padaCount <= 0 {
		padaCount = len(counts)
	}
	audit.notef("Parsed syllable counts per pāda: %s (pāda count %d).", formatCounts(counts), padaCount)
	if in.SourceVeda != "" {
		audit.notef("Source veda hint: %s.", in.SourceVeda)
	}
	if padaCount != len(counts) {
		audit.notef("Pāda count %d differs from the %d counted pādas.", padaCount, len(counts))
	}
	if len(counts) == 0 {
		audit.notef("No syllable counts; cannot classify.")
		return Unclassified{Audit: audit}
	}

	rule, diff, matched := c.matchRule(padaCount, counts, &audit)
	if matched {
		return c.fromRule(rule, diff, padaCount, counts, audit)
	}
	return c.fromHeuristic(padaCount, counts, audit)
}

// ClassifyCounts is shorthand for Classify without a source hint.
func (c *Classifier) ClassifyCounts(padaCount int, counts []int) Result {
	return c.Classify(Input{PadaCount: padaCount, SyllableCounts: counts})
}

func (c *Classifier) matchRule(padaCount int, counts []int, audit *Audit) (ChandaRule, int, bool) {
	if c.rules.Len() == 0 {
		audit.notef("No data-derived rules loaded; skipping rule layer.")
		return ChandaRule{}, 0, false
	}
	best := -1
	bestDiff := 0
	for i, r := range c.rules.rules {
		if r.PadaCount != padaCount || len(r.Pattern) != len(counts) {
			continue
		}
		diff := maxAbsDiff(counts, r.Pattern)
		if diff > r.Tolerance {
			continue
		}
		if best < 0 || diff < bestDiff || (diff == bestDiff && r.Support > c.rules.rules[best].Support) {
			best, bestDiff = i, diff
		}
	}
	if best < 0 {
		audit.notef("No data-derived rule within tolerance for %d pādas of %s.", padaCount, formatCounts(counts))
		return ChandaRule{}, 0, false
	}
	rule := c.rules.rules[best].clone()
	audit.notef("Data rule matched: %q (pattern %s, max diff %d <= tolerance %d, support %d).",
		rule.Label, formatCounts(rule.Pattern), bestDiff, rule.Tolerance, rule.Support)
	return rule, bestDiff, true
}

func (c *Classifier) fromRule(rule ChandaRule, diff, padaCount int, counts []int, audit Audit) Result {
	res := MatchedByRule{Rule: rule, MaxDiff: diff, FullLabel: rule.Label}
	family := rule.BaseFamily
	if family == "" {
		audit.notef("Rule carries no base family; using Piṅgala fallback for the family.")
		family, _ = heuristicFamily(padaCount, counts, &audit)
		res.FamilyFallback = true
	}
	res.Family = family
	if target, ok := TargetSyllables(family); ok {
		m := measure(counts[0], target, family, &audit)
		res.Deviation = &m
	} else {
		audit.notef("Base family %q is outside the canonical table; deviation not computed.", family)
	}
	audit.notef("Full label taken from rule: %q.", rule.Label)
	res.Audit = audit
	return res
}

func (c *Classifier) fromHeuristic(padaCount int, counts []int, audit Audit) Result {
	family, exact := heuristicFamily(padaCount, counts, &audit)
	target, _ := TargetSyllables(family)
	m := measure(counts[0], target, family, &audit)
	label := string(family)
	if m.Label != DeviationNone {
		label = string(m.Label) + " " + string(family)
	}
	audit.notef("Full label: %q.", label)
	return MatchedByHeuristic{
		Audit:     audit,
		Family:    family,
		Exact:     exact,
		Deviation: m,
		FullLabel: label,
	}
}

// heuristicFamily applies Piṅgala's exact shapes to uniform counts and otherwise picks
// the family whose target is nearest the first pāda.
func heuristicFamily(padaCount int, counts []int, audit *Audit) (Family, bool) {
	if n, ok := uniformCount(counts); ok {
		audit.notef("All pādas have %d syllables.", n)
		if fam, ok := exactFamily(padaCount, n); ok {
			audit.notef("Piṅgala: %d pādas x %d syllables -> %s.", padaCount, n, fam)
			return fam, true
		}
		audit.notef("No Piṅgala family for %d pādas x %d syllables.", padaCount, n)
	} else {
		audit.notef("Pādas differ in length: %s.", formatCounts(counts))
	}
	first := counts[0]
	best := familyTable[0]
	for _, e := range familyTable[1:] {
		if absInt(e.Syllables-first) < absInt(best.Syllables-first) {
			best = e
		}
	}
	audit.notef("Nearest family by first pāda (%d syllables): %s (target %d).", first, best.Family, best.Syllables)
	return best.Family, false
}

func measure(actual, target int, family Family, audit *Audit) Measured {
	d := actual - target
	m := Measured{D: d, Label: DeviationFor(d)}
	if m.Label == DeviationNone {
		audit.notef("D = %d - %d = %d -> no deviation label for %s.", actual, target, d, family)
	} else {
		audit.notef("D = %d - %d = %d -> %s.", actual, target, d, m.Label)
	}
	return m
}

func uniformCount(counts []int) (int, bool) {
	if len(counts) == 0 {
		return 0, false
	}
	for _, n := range counts[1:] {
		if n != counts[0] {
			return 0, false
		}
	}
	return counts[0], true
}

func maxAbsDiff(a, b []int) int {
	diff := 0
	for i := range a {
		if d := absInt(a[i] - b[i]); d > diff {
			diff = d
		}
	}
	return diff
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func formatCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = fmt.Sprint(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
