package app

import (
	"fmt"
	"strconv"
	"strings"

	"yashubustudio/chandas/chandas"
)

type tableColumn struct {
	Title  string
	Width  float32
	Render func(chandas.Analysis) string
}

func resultColumns() []tableColumn {
	return []tableColumn{
		{Title: "本文", Width: 300, Render: func(a chandas.Analysis) string { return a.Input }},
		{Title: "パーダ", Width: 60, Render: func(a chandas.Analysis) string { return strconv.Itoa(a.Features.PadaCount) }},
		{Title: "音節数", Width: 110, Render: func(a chandas.Analysis) string { return a.Features.CountsText }},
		{Title: "L/G", Width: 200, Render: func(a chandas.Analysis) string {
			return padaLines(a, func(p chandas.PadaAnalysis) string { return p.Weights })
		}},
		{Title: "ガナ", Width: 160, Render: func(a chandas.Analysis) string {
			return padaLines(a, func(p chandas.PadaAnalysis) string { return strings.Join(p.Ganas, "-") })
		}},
		{Title: "韻律", Width: 160, Render: func(a chandas.Analysis) string { return meterCell(a.Meter) }},
		{Title: "D", Width: 50, Render: func(a chandas.Analysis) string { return deviationD(a.Meter) }},
		{Title: "逸脱", Width: 90, Render: func(a chandas.Analysis) string { return valueOr(a.Meter.DeviationLabel, "") }},
		{Title: "参照", Width: 150, Render: func(a chandas.Analysis) string { return goldCell(a.Gold) }},
	}
}

func padaLines(a chandas.Analysis, fn func(chandas.PadaAnalysis) string) string {
	lines := make([]string, len(a.Padas))
	for i, p := range a.Padas {
		lines[i] = fn(p)
	}
	return strings.Join(lines, "\n")
}

func meterCell(m chandas.Summary) string {
	switch m.Outcome {
	case chandas.OutcomeUnclassified:
		return "判定不能"
	case chandas.OutcomeRule:
		return valueOr(m.FullLabel, "") + "\n(ルール)"
	default:
		return valueOr(m.FullLabel, "")
	}
}

func deviationD(m chandas.Summary) string {
	if m.DeviationD == nil {
		return ""
	}
	return fmt.Sprintf("%+d", *m.DeviationD)
}

func goldCell(g *chandas.GoldReport) string {
	if g == nil || g.Record.MeterGold == "" {
		return ""
	}
	switch {
	case g.Agrees == nil:
		return g.Record.MeterGold
	case *g.Agrees:
		return g.Record.MeterGold + "\n一致"
	default:
		return g.Record.MeterGold + "\n不一致"
	}
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

// detailText renders the syllable breakdown and decision trail shown in the details dialog.
func detailText(a chandas.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "正規化: %s\n", a.Normalized)
	fmt.Fprintf(&b, "ヴェーダ: %s\n\n", a.SourceVeda)
	for _, p := range a.Padas {
		sylls := make([]string, len(p.Syllables))
		for i, s := range p.Syllables {
			sylls[i] = s.Text
		}
		fmt.Fprintf(&b, "パーダ %d: %s\n", p.Index+1, p.Text)
		fmt.Fprintf(&b, "  %s\n", strings.Join(sylls, " · "))
		fmt.Fprintf(&b, "  %s  %s", p.Weights, strings.Join(p.Ganas, "-"))
		if p.Accents != "" && strings.Trim(p.Accents, "-") != "" {
			fmt.Fprintf(&b, "  [%s]", p.Accents)
		}
		b.WriteString("\n")
	}
	if len(a.Padapatha) > 0 {
		units := make([]string, len(a.Padapatha))
		for i, p := range a.Padapatha {
			units[i] = fmt.Sprintf("%s(%s)", p.Text, p.Weights)
		}
		fmt.Fprintf(&b, "\nパダパータ: %s\n", strings.Join(units, " "))
	}
	b.WriteString("\n判定過程:\n")
	for _, notes := range [][]string{a.Notes, a.Meter.Notes} {
		for _, n := range notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return b.String()
}

func summarizeText(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "(空のテキスト)"
	}
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return text
}
