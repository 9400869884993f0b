package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"yashubustudio/chandas/chandas"
)

const previewRunes = 40

func printTable(w io.Writer, analyses []chandas.Analysis) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVERSE\tCOUNTS\tMETER\tD\tOUTCOME\tGOLD")
	for _, an := range analyses {
		m := an.Meter
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			an.ID,
			summarizeText(an.Input),
			an.Features.CountsText,
			orDash(m.FullLabel),
			intOrDash(m.DeviationD),
			m.Outcome,
			goldCell(an.Gold),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(analyses) == 1 {
		printDetail(w, analyses[0])
	}
	return nil
}

// printEvaluation prints the agreement rate and the most frequent confusions.
func printEvaluation(w io.Writer, ev chandas.Evaluation) error {
	fmt.Fprintf(w, "verses: %d  labeled: %d  agreed: %d (%.1f%%)\n",
		ev.Total, ev.Labeled, ev.Agreed, 100*ev.AgreementRate())
	if len(ev.Confusions) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "GOLD\tPREDICTED\tCOUNT")
	for _, c := range ev.Confusions {
		predicted := c.Predicted
		if predicted == "" {
			predicted = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Gold, predicted, c.Count)
	}
	return tw.Flush()
}

// printDetail shows the pāda breakdown and decision trail of a single verse.
func printDetail(w io.Writer, an chandas.Analysis) {
	fmt.Fprintln(w)
	for _, p := range an.Padas {
		texts := make([]string, len(p.Syllables))
		for i, s := range p.Syllables {
			texts[i] = s.Text
		}
		fmt.Fprintf(w, "pāda %d: %s\n", p.Index+1, p.Text)
		fmt.Fprintf(w, "    %s\n", strings.Join(texts, " · "))
		fmt.Fprintf(w, "    %s  %s\n", p.Weights, strings.Join(p.Ganas, "-"))
	}
	fmt.Fprintln(w)
	printMeter(w, an.Meter)
	for _, notes := range [][]string{an.Notes, an.Meter.Notes} {
		for _, note := range notes {
			fmt.Fprintf(w, "  - %s\n", note)
		}
	}
}

func printMeter(w io.Writer, m chandas.Summary) {
	fmt.Fprintf(w, "meter: %s (family %s, D %s, %s)\n",
		orDash(m.FullLabel), orDash(m.BaseFamily), intOrDash(m.DeviationD), m.Outcome)
}

func goldCell(g *chandas.GoldReport) string {
	if g == nil || g.Record.MeterGold == "" {
		return "-"
	}
	mark := "?"
	if g.Agrees != nil {
		mark = "✗"
		if *g.Agrees {
			mark = "✓"
		}
	}
	return g.Record.MeterGold + " " + mark
}

func summarizeText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "(空のテキスト)"
	}
	runes := []rune(text)
	if len(runes) > previewRunes {
		return string(runes[:previewRunes]) + "…"
	}
	return text
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
