package chandas

import "strings"

// Weight is the prosodic weight of a syllable, tagged "L" (laghu) or "G" (guru).
type Weight string

const (
	Light Weight = "L"
	Heavy Weight = "G"
)

// WeightReason records which rule decided a syllable's weight.
type WeightReason string

const (
	ReasonCodaCluster WeightReason = "coda_cluster"
	ReasonLongVowel   WeightReason = "long_vowel"
	ReasonShortOpen   WeightReason = "short_open"
)

// Syllable is one akṣara with its weight.
type Syllable struct {
	Text    string       `json:"text"`
	Nucleus string       `json:"nucleus"`
	Coda    string       `json:"coda"`
	Weight  Weight       `json:"weight"`
	Reason  WeightReason `json:"reason"`
}

// Matra returns the prosodic length: 1 for light, 2 for heavy.
func (s Syllable) Matra() int {
	if s.Weight == Heavy {
		return 2
	}
	return 1
}

// Svara returns the accent carried by the syllable text.
func (s Syllable) Svara() Svara {
	return DetectSvara(s.Text)
}

// Syllabification is the result of segmenting one pāda.
type Syllabification struct {
	Syllables []Syllable `json:"syllables"`
	Weights   string     `json:"weights"`
	Ganas     []string   `json:"ganas"`
}

// Count returns the number of syllables.
func (s Syllabification) Count() int { return len(s.Syllables) }

// Syllabify segments a single pāda into syllables. Whitespace and pāda markers end the
// open syllable. A consonant followed by a virama is dead: the first one after a vowel
// closes that syllable as its coda, later ones are held as the onset of the next akṣara
// and fall back into the coda when the word ends. A live consonant starts a new akṣara
// carrying the inherent vowel until a vowel sign overrides it. Combining marks always
// land in the coda; other runes are kept in the text without affecting weight.
func Syllabify(pada string) Syllabification {
	sb := syllabifier{runes: []rune(pada)}
	sb.run()
	weights := WeightString(sb.out)
	return Syllabification{
		Syllables: sb.out,
		Weights:   weights,
		Ganas:     Ganas(weights),
	}
}

// SyllabifyPadas runs Syllabify over each pāda in order.
func SyllabifyPadas(padas []Pada) []Syllabification {
	out := make([]Syllabification, len(padas))
	for i, p := range padas {
		out[i] = Syllabify(p.Text)
	}
	return out
}

// WeightString joins the weight tags of the given syllables.
func WeightString(syllables []Syllable) string {
	var b strings.Builder
	b.Grow(len(syllables))
	for _, s := range syllables {
		b.WriteString(string(s.Weight))
	}
	return b.String()
}

type openSyllable struct {
	text    []rune
	nucleus rune
	voiced  bool
	coda    []rune
	// codaConsonant is set once a dead consonant has closed the syllable.
	codaConsonant bool
}

type syllabifier struct {
	runes []rune
	out   []Syllable
	cur   *openSyllable
	// held collects dead consonants after the coda; they become the next onset.
	held   []rune
	orphan []rune
}

func (sb *syllabifier) run() {
	for i, r := range sb.runes {
		switch Classify(r) {
		case ClassSpace, ClassBoundary:
			sb.flush()
		case ClassIndependentVowel:
			sb.flush()
			sb.open([]rune{r}, r, true)
		case ClassConsonant:
			sb.consonant(r, sb.deadAt(i))
		case ClassVowelSign:
			sb.vowelSign(r)
		case ClassCombiningMark:
			sb.mark(r)
		default:
			sb.other(r)
		}
	}
	sb.flush()
	sb.residue()
}

// residue keeps runes that never found a syllable, as in a pāda holding only an
// avagraha or a stray anusvara. They become one vowelless syllable so no text is lost.
func (sb *syllabifier) residue() {
	if len(sb.orphan) == 0 {
		return
	}
	var coda []rune
	for _, r := range sb.orphan {
		if Classify(r) == ClassCombiningMark {
			coda = append(coda, r)
		}
	}
	weight, reason := weighSyllable("", string(coda))
	sb.out = append(sb.out, Syllable{
		Text:   string(sb.orphan),
		Coda:   string(coda),
		Weight: weight,
		Reason: reason,
	})
	sb.orphan = nil
}

// deadAt reports whether the consonant at i is followed by a virama, looking past a nukta.
func (sb *syllabifier) deadAt(i int) bool {
	j := i + 1
	if j < len(sb.runes) && sb.runes[j] == nukta {
		j++
	}
	return j < len(sb.runes) && IsVirama(sb.runes[j])
}

// open starts a syllable whose text is any orphaned runes followed by runes.
func (sb *syllabifier) open(runes []rune, nucleus rune, voiced bool) {
	text := make([]rune, 0, len(sb.orphan)+len(runes)+2)
	text = append(text, sb.orphan...)
	text = append(text, runes...)
	sb.orphan = nil
	sb.cur = &openSyllable{text: text, nucleus: nucleus, voiced: voiced}
}

func (sb *syllabifier) consonant(c rune, dead bool) {
	cur := sb.cur
	switch {
	case cur == nil:
		sb.open([]rune{c}, liveNucleus(dead), !dead)
	case !cur.voiced:
		cur.text = append(cur.text, c)
		if !dead {
			cur.voiced = true
			cur.nucleus = inherentVowel
		}
	case dead && len(sb.held) == 0 && !cur.codaConsonant:
		cur.text = append(cur.text, c)
		cur.coda = append(cur.coda, c)
		cur.codaConsonant = true
	case dead:
		sb.held = append(sb.held, c)
	default:
		onset := append(sb.takeHeld(), c)
		sb.emit()
		sb.open(onset, inherentVowel, true)
	}
}

func liveNucleus(dead bool) rune {
	if dead {
		return 0
	}
	return inherentVowel
}

func (sb *syllabifier) vowelSign(v rune) {
	cur := sb.cur
	switch {
	case cur == nil:
		sb.open([]rune{v}, v, true)
	case len(sb.held) > 0:
		onset := append(sb.takeHeld(), v)
		sb.emit()
		sb.open(onset, v, true)
	default:
		cur.text = append(cur.text, v)
		cur.nucleus = v
		cur.voiced = true
	}
}

func (sb *syllabifier) mark(m rune) {
	if sb.cur == nil {
		if n := len(sb.out); n > 0 {
			last := &sb.out[n-1]
			last.Text += string(m)
			last.Coda += string(m)
			last.Weight, last.Reason = weighSyllable(last.Nucleus, last.Coda)
			return
		}
		sb.orphan = append(sb.orphan, m)
		return
	}
	sb.releaseHeld()
	sb.cur.text = append(sb.cur.text, m)
	sb.cur.coda = append(sb.cur.coda, m)
}

func (sb *syllabifier) other(r rune) {
	switch {
	case len(sb.held) > 0:
		sb.held = append(sb.held, r)
	case sb.cur != nil:
		sb.cur.text = append(sb.cur.text, r)
	case len(sb.out) > 0:
		sb.out[len(sb.out)-1].Text += string(r)
	default:
		sb.orphan = append(sb.orphan, r)
	}
}

func (sb *syllabifier) takeHeld() []rune {
	held := sb.held
	sb.held = nil
	return held
}

// releaseHeld moves held consonants into the open syllable's coda.
func (sb *syllabifier) releaseHeld() {
	if len(sb.held) == 0 || sb.cur == nil {
		return
	}
	for _, r := range sb.held {
		sb.cur.text = append(sb.cur.text, r)
		if IsConsonant(r) {
			sb.cur.coda = append(sb.cur.coda, r)
		}
	}
	sb.held = nil
}

func (sb *syllabifier) flush() {
	sb.releaseHeld()
	sb.emit()
}

func (sb *syllabifier) emit() {
	cur := sb.cur
	if cur == nil {
		return
	}
	sb.cur = nil
	if !cur.voiced {
		// A vowelless cluster closes the previous syllable when there is one.
		var cluster []rune
		for _, r := range cur.text {
			if IsConsonant(r) {
				cluster = append(cluster, r)
			}
		}
		cluster = append(cluster, cur.coda...)
		if n := len(sb.out); n > 0 {
			last := &sb.out[n-1]
			last.Text += string(cur.text)
			last.Coda += string(cluster)
			last.Weight, last.Reason = weighSyllable(last.Nucleus, last.Coda)
			return
		}
		cur.coda = cluster
	}
	nucleus := ""
	if cur.nucleus != 0 {
		nucleus = string(cur.nucleus)
	}
	coda := string(cur.coda)
	weight, reason := weighSyllable(nucleus, coda)
	sb.out = append(sb.out, Syllable{
		Text:    string(cur.text),
		Nucleus: nucleus,
		Coda:    coda,
		Weight:  weight,
		Reason:  reason,
	})
}

func weighSyllable(nucleus, coda string) (Weight, WeightReason) {
	if coda != "" {
		return Heavy, ReasonCodaCluster
	}
	for _, r := range nucleus {
		if IsLongVowel(r) {
			return Heavy, ReasonLongVowel
		}
	}
	return Light, ReasonShortOpen
}
