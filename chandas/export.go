package chandas

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportHeader is the column layout written by WriteAnalysesCSV.
var ExportHeader = []string{
	"id", "text", "pada_count", "syllable_count_per_pada", "L_G_sequence", "gana_sequence",
	"outcome", "base_family", "deviation_D", "deviation_label", "full_label",
	"meter_gold", "gold_agrees", "has_pluti", "has_stobha", "has_special_H",
}

// ExportRow flattens an analysis into ExportHeader order.
func ExportRow(an Analysis) []string {
	m := an.Meter
	gold, agrees := "", ""
	if an.Gold != nil {
		gold = an.Gold.Record.MeterGold
		if an.Gold.Agrees != nil {
			agrees = strconv.FormatBool(*an.Gold.Agrees)
		}
	}
	return []string{
		an.ID,
		an.Input,
		strconv.Itoa(an.Features.PadaCount),
		an.Features.CountsText,
		an.Features.WeightSequence,
		an.Features.GanaSequence,
		m.Outcome,
		deref(m.BaseFamily),
		derefInt(m.DeviationD),
		deref(m.DeviationLabel),
		deref(m.FullLabel),
		gold,
		agrees,
		strconv.FormatBool(an.Features.HasPluti),
		strconv.FormatBool(an.Features.HasStobha),
		strconv.FormatBool(an.Features.HasSpecialH),
	}
}

// WriteAnalysesCSV writes a header and one row per analysis.
func WriteAnalysesCSV(w io.Writer, analyses []Analysis) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, an := range analyses {
		if err := writer.Write(ExportRow(an)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
