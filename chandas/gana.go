package chandas

// ganaTable names every L/G triplet. The assignment follows the reference
// dataset's trika, not Piṅgala's, so gaṇa columns line up with its exports.
var ganaTable = map[string]string{
	"LLL": "na",
	"LLG": "ya",
	"LGL": "ta",
	"LGG": "ra",
	"GLL": "ma",
	"GLG": "bha",
	"GGL": "sa",
	"GGG": "ja",
}

// Ganas names each complete triplet of a weight string read from the start.
// A trailing remainder of one or two tags is dropped.
func Ganas(weights string) []string {
	out := make([]string, 0, len(weights)/3)
	for i := 0; i+3 <= len(weights); i += 3 {
		name, ok := ganaTable[weights[i:i+3]]
		if !ok {
			// Only L and G tags can appear; anything else ends grouping.
			break
		}
		out = append(out, name)
	}
	return out
}

// GanaFor returns the name of a single three-tag triplet.
func GanaFor(triplet string) (string, bool) {
	name, ok := ganaTable[triplet]
	return name, ok
}

// GanaPattern returns the triplet a gaṇa name stands for.
func GanaPattern(name string) (string, bool) {
	for pattern, n := range ganaTable {
		if n == name {
			return pattern, true
		}
	}
	return "", false
}
