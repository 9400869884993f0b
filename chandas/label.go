package chandas

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParsedLabel is one component of a scholarly chanda label such as
// "स्वराड् ब्राह्मी त्रिष्टुप्".
type ParsedLabel struct {
	Raw       string    `json:"raw"`
	BaseMeter Family    `json:"base_meter,omitempty"`
	Variants  []string  `json:"variant_prefixes,omitempty"`
	Deviation Deviation `json:"deviation_label,omitempty"`
	D         *int      `json:"deviation_D,omitempty"`
}

var devanagariBaseMeters = map[string]Family{
	"गायत्री":    Gayatri,
	"गायत्रीः":   Gayatri,
	"उष्णिक्":    Ushnih,
	"उष्णिह्":    Ushnih,
	"उष्णिग्":    Ushnih,
	"अनुष्टुप्":  Anushtubh,
	"अनुष्टुभ्":  Anushtubh,
	"बृहती":      Brihati,
	"बृहतीः":     Brihati,
	"पङ्क्तिः":   Pankti,
	"पङ्क्ति":    Pankti,
	"पंक्ति":     Pankti,
	"पंक्तिः":    Pankti,
	"त्रिष्टुप्": Trishtubh,
	"त्रिष्टुभ्": Trishtubh,
	"जगती":       Jagati,
	"जगतीः":      Jagati,
}

var devanagariDeviations = map[string]Deviation{
	"स्वराड्": Svaraj,
	"स्वराड":  Svaraj,
	"स्वराट्": Svaraj,
	"भुरिक्":  Bhurik,
	"भूरिक्":  Bhurik,
	"भुरिग्":  Bhurik,
	"विराट्":  Viraj,
	"विराड्":  Viraj,
	"विराज्":  Viraj,
	"विराज":   Viraj,
	"निचृत्":  Nichrid,
	"निचृद्":  Nichrid,
}

var devanagariVariants = map[string]string{
	"ब्राह्मी":    "brahmi",
	"आर्ची":       "archi",
	"आर्षी":       "arshi",
	"याजुषी":      "yajushi",
	"साम्नी":      "samni",
	"प्राजापत्या": "prajapatya",
	"आसुरी":       "asuri",
	"दैवी":        "daivi",
}

// Words that only say "meter" and carry no classification.
var labelFillers = map[string]bool{
	"छन्दः": true, "छन्दस्": true, "छन्द": true,
	"chandah": true, "chandas": true, "chanda": true, "meter": true,
}

var asciiAliases = map[string]string{
	"anushtup": "anushtubh",
	"anustubh": "anushtubh",
	"trishtup": "trishtubh",
	"tristubh": "trishtubh",
	"ushnik":   "ushnih",
	"usnih":    "ushnih",
	"brhati":   "brihati",
	"panki":    "pankti",
	"nicrt":    "nichrid",
	"nicrd":    "nichrid",
	"nichrit":  "nichrid",
	"nichrt":   "nichrid",
	"bhurig":   "bhurik",
	"virat":    "viraj",
	"virad":    "viraj",
	"svarat":   "svaraj",
	"svarad":   "svaraj",
	"swaraj":   "svaraj",
}

// deviationPrefixes are tried longest first when a deviation is fused to the meter name.
var deviationPrefixes = func() []string {
	keys := make([]string, 0, len(devanagariDeviations))
	for k := range devanagariDeviations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

var sibilantFolder = strings.NewReplacer("ś", "sh", "ṣ", "sh", "Ś", "sh", "Ṣ", "sh", "’", "", "'", "")

// NormalizeLabelToken maps one label token to its ASCII identifier: Devanagari meter,
// deviation and variant names through fixed tables, romanized tokens by folding
// diacritics. Filler words normalize to "".
func NormalizeLabelToken(tok string) string {
	tok = strings.TrimSpace(norm.NFC.String(tok))
	tok = strings.TrimRight(tok, ",;.।॥|")
	if tok == "" || labelFillers[tok] {
		return ""
	}
	if fam, ok := devanagariBaseMeters[tok]; ok {
		return string(fam)
	}
	if dev, ok := devanagariDeviations[tok]; ok {
		return string(dev)
	}
	if v, ok := devanagariVariants[tok]; ok {
		return v
	}
	if isDevanagari(tok) {
		return tok
	}
	folded := foldRoman(tok)
	if labelFillers[folded] {
		return ""
	}
	if alias, ok := asciiAliases[folded]; ok {
		return alias
	}
	return folded
}

func foldRoman(tok string) string {
	tok = sibilantFolder.Replace(tok)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, tok)
	if err != nil {
		out = tok
	}
	return strings.ToLower(out)
}

func isDevanagari(s string) bool {
	for _, r := range s {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}

// labelTokens splits a component on whitespace and separates deviation prefixes fused
// to a meter name, e.g. "स्वराड्बृहती".
func labelTokens(component string) []string {
	var out []string
	for _, tok := range strings.Fields(component) {
		out = append(out, splitFused(tok)...)
	}
	return out
}

func splitFused(tok string) []string {
	if _, ok := devanagariBaseMeters[tok]; ok {
		return []string{tok}
	}
	if _, ok := devanagariDeviations[tok]; ok {
		return []string{tok}
	}
	for _, prefix := range deviationPrefixes {
		rest := strings.TrimPrefix(tok, prefix)
		if rest == tok || rest == "" {
			continue
		}
		// A zero-width joiner sometimes separates the halant form from the meter.
		rest = strings.TrimLeft(rest, "\u200c\u200d")
		return append([]string{prefix}, splitFused(rest)...)
	}
	return []string{tok}
}

// ParseLabelCell splits a raw label cell on commas (one component per pāda group) and
// classifies each token as base meter, deviation or variant prefix.
func ParseLabelCell(raw string) []ParsedLabel {
	var out []ParsedLabel
	for _, comp := range strings.Split(raw, ",") {
		comp = strings.TrimSpace(comp)
		if comp == "" {
			continue
		}
		p := ParsedLabel{Raw: comp}
		for _, tok := range labelTokens(comp) {
			n := NormalizeLabelToken(tok)
			switch {
			case n == "":
			case isFamily(n):
				p.BaseMeter = Family(n)
			case IsDeviation(n):
				p.Deviation = Deviation(n)
			default:
				p.Variants = append(p.Variants, n)
			}
		}
		out = append(out, p)
	}
	return out
}

func isFamily(s string) bool {
	_, ok := TargetSyllables(Family(s))
	return ok
}

// WithDeviation computes D = actual - target for the label's base meter. An explicit
// deviation in the label is kept; otherwise it is inferred from D.
func (p ParsedLabel) WithDeviation(actual int) ParsedLabel {
	target, ok := TargetSyllables(p.BaseMeter)
	if !ok {
		return p
	}
	d := actual - target
	p.D = &d
	if p.Deviation == DeviationNone {
		p.Deviation = DeviationFor(d)
	}
	p.Variants = append([]string(nil), p.Variants...)
	return p
}

// String renders the label as "<deviation> <variants...> <family>".
func (p ParsedLabel) String() string {
	var parts []string
	if p.Deviation != DeviationNone {
		parts = append(parts, string(p.Deviation))
	}
	parts = append(parts, p.Variants...)
	if p.BaseMeter != "" {
		parts = append(parts, string(p.BaseMeter))
	}
	return strings.Join(parts, " ")
}
