package chandas

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	svc := newTestService()
	out, err := svc.AnalyzeAll(context.Background(), []VerseRecord{
		{ID: "1", Text: rigvedaOpening, MeterGold: "गायत्री"},
		{ID: "2", Text: rigvedaOpening, MeterGold: "त्रिष्टुप्"},
		{ID: "3", Text: rigvedaOpening, MeterGold: "निचृत् त्रिष्टुप्"},
		{ID: "4", Text: rigvedaOpening, MeterGold: "जगती"},
		{ID: "5", Text: "", MeterGold: "जगती"},
		{ID: "6", Text: rigvedaOpening, MeterGold: "एकपदा"},
		{ID: "7", Text: rigvedaOpening},
	}, nil)
	require.NoError(t, err)

	ev := Evaluate(out, 0)
	assert.Equal(t, 7, ev.Total)
	assert.Equal(t, 5, ev.Labeled)
	assert.Equal(t, 1, ev.Agreed)
	assert.InDelta(t, 0.2, ev.AgreementRate(), 1e-9)
	want := []Confusion{
		{Gold: "trishtubh", Predicted: "gayatri", Count: 2},
		{Gold: "jagati", Predicted: "", Count: 1},
		{Gold: "jagati", Predicted: "gayatri", Count: 1},
	}
	if diff := cmp.Diff(want, ev.Confusions); diff != "" {
		t.Errorf("confusions mismatch (-want +got):\n%s", diff)
	}

	top := Evaluate(out, 1)
	require.Len(t, top.Confusions, 1)
	assert.Equal(t, "trishtubh", top.Confusions[0].Gold)
}

func TestEvaluateEmpty(t *testing.T) {
	ev := Evaluate(nil, 5)
	assert.Zero(t, ev.Total)
	assert.Zero(t, ev.AgreementRate())
	assert.Empty(t, ev.Confusions)
}
