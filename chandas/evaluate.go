package chandas

import "sort"

// Confusion counts verses whose reference base meter differs from the classified one.
type Confusion struct {
	Gold      string `json:"gold"`
	Predicted string `json:"predicted"`
	Count     int    `json:"count"`
}

// Evaluation summarizes agreement between classifications and reference labels.
type Evaluation struct {
	Total      int         `json:"total"`
	Labeled    int         `json:"labeled"`
	Agreed     int         `json:"agreed"`
	Confusions []Confusion `json:"confusions"`
}

// AgreementRate is Agreed over Labeled, or 0 when nothing carried a base meter.
func (e Evaluation) AgreementRate() float64 {
	if e.Labeled == 0 {
		return 0
	}
	return float64(e.Agreed) / float64(e.Labeled)
}

// Evaluate compares each analysis with its reference label. Only analyses whose gold
// label names a base meter count as labeled. Confusions are ordered by count, then by
// name, and cut to topK when topK > 0. An unclassified verse is predicted as "".
func Evaluate(analyses []Analysis, topK int) Evaluation {
	ev := Evaluation{Total: len(analyses)}
	pairs := map[[2]string]int{}
	for _, an := range analyses {
		if an.Gold == nil || an.Gold.Agrees == nil {
			continue
		}
		ev.Labeled++
		if *an.Gold.Agrees {
			ev.Agreed++
			continue
		}
		predicted := ""
		if an.Meter.BaseFamily != nil {
			predicted = *an.Meter.BaseFamily
		}
		pairs[[2]string{goldBase(an.Gold), predicted}]++
	}
	ev.Confusions = make([]Confusion, 0, len(pairs))
	for k, n := range pairs {
		ev.Confusions = append(ev.Confusions, Confusion{Gold: k[0], Predicted: k[1], Count: n})
	}
	sort.Slice(ev.Confusions, func(i, j int) bool {
		a, b := ev.Confusions[i], ev.Confusions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Gold != b.Gold {
			return a.Gold < b.Gold
		}
		return a.Predicted < b.Predicted
	})
	if topK > 0 && len(ev.Confusions) > topK {
		ev.Confusions = ev.Confusions[:topK]
	}
	return ev
}

// goldBase is the first base meter named by the reference label, the one Agrees was
// decided on.
func goldBase(rep *GoldReport) string {
	for _, label := range rep.Labels {
		if label.BaseMeter != "" {
			return string(label.BaseMeter)
		}
	}
	return ""
}
