package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"yashubustudio/chandas/chandas"
)

func ptr[T any](v T) *T { return &v }

func TestMeterCell(t *testing.T) {
	assert.Equal(t, "判定不能", meterCell(chandas.Summary{Outcome: chandas.OutcomeUnclassified}))
	assert.Equal(t, "bhurik jagati", meterCell(chandas.Summary{
		Outcome:   chandas.OutcomeHeuristic,
		FullLabel: ptr("bhurik jagati"),
	}))
	assert.Equal(t, "गायत्री\n(ルール)", meterCell(chandas.Summary{
		Outcome:   chandas.OutcomeRule,
		FullLabel: ptr("गायत्री"),
	}))
}

func TestDeviationAndGoldCells(t *testing.T) {
	assert.Empty(t, deviationD(chandas.Summary{}))
	assert.Equal(t, "+2", deviationD(chandas.Summary{DeviationD: ptr(2)}))
	assert.Equal(t, "-1", deviationD(chandas.Summary{DeviationD: ptr(-1)}))
	assert.Equal(t, "+0", deviationD(chandas.Summary{DeviationD: ptr(0)}))

	assert.Empty(t, goldCell(nil))
	gold := &chandas.GoldReport{Record: chandas.VerseRecord{MeterGold: "गायत्री"}}
	assert.Equal(t, "गायत्री", goldCell(gold))
	gold.Agrees = ptr(true)
	assert.Equal(t, "गायत्री\n一致", goldCell(gold))
	gold.Agrees = ptr(false)
	assert.Equal(t, "गायत्री\n不一致", goldCell(gold))
}

func TestDetailText(t *testing.T) {
	svc := chandas.NewService(chandas.Config{}, chandas.NewRuleStore(nil))
	an, err := svc.AnalyzeRecord(context.Background(), chandas.VerseRecord{
		Text:      "अ॒ग्निमी॑ळे पु॒रोहि॑तं । रामः ॥",
		Padapatha: "अ॒ग्निम् । ई॒ळे॒ ।",
	})
	require.NoError(t, err)

	text := detailText(an)
	assert.Contains(t, text, "パーダ 1: अ॒ग्निमी॑ळे पु॒रोहि॑तं")
	assert.Contains(t, text, "पु॒ · रो · हि॑ · तं")
	assert.Contains(t, text, "パーダ 2: रामः")
	assert.Contains(t, text, "パダパータ: ")
	assert.Contains(t, text, "判定過程:\n")

	cols := resultColumns()
	require.Len(t, cols, 9)
	assert.Equal(t, "8,2", cols[2].Render(an))
	assert.Equal(t, "GLGGLGLG\nGG", cols[3].Render(an))
}

func TestSummarizeText(t *testing.T) {
	assert.Equal(t, "(空のテキスト)", summarizeText("  \n ", 10))
	assert.Equal(t, "a b", summarizeText("a\n  b", 10))
	assert.Equal(t, "अग्नि…", summarizeText("अग्निमीळे", 5))
}

func TestTeeToPane(t *testing.T) {
	var lines []string
	base := zap.NewNop()
	logger := teeToPane(base, func(s string) { lines = append(lines, s) }, zapcore.InfoLevel)

	logger.Debug("hidden")
	logger.Info("analyzed", zap.Int("verses", 3))
	logger.Warn("lookup failed")

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "INFO"), lines[0])
	assert.Contains(t, lines[0], `{"verses": 3}`)
	assert.Contains(t, lines[1], "lookup failed")
}

func TestLogSinkSplitsLines(t *testing.T) {
	var lines []string
	sink := logSink{emit: func(s string) { lines = append(lines, s) }}
	n, err := sink.Write([]byte("one\r\ntwo\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, []string{"one", "two"}, lines)
}
