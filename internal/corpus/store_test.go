package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/chandas/chandas"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "corpus.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestImportAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	n, err := s.Import(ctx, []chandas.VerseRecord{
		{ID: "1.1.1", SourceVeda: "rigveda", Text: "अ॒ग्निमी॑ळे पु॒रोहि॑तं", MeterGold: "गायत्री", Padapatha: "अ॒ग्निम् । ई॒ळे॒ ।"},
		{ID: "empty", SourceVeda: "rigveda"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// exact normalized form
	rec, err := s.Lookup(ctx, "अ॒ग्निमी॑ळे   पु॒रोहि॑तं")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "1.1.1", rec.ID)
	assert.Equal(t, "गायत्री", rec.MeterGold)

	// accents stripped
	rec, err = s.Lookup(ctx, "अग्निमीळे पुरोहितं")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "rigveda", rec.SourceVeda)

	rec, err = s.Lookup(ctx, "इन्द्रः")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestImportUpserts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Import(ctx, []chandas.VerseRecord{{ID: "1", SourceVeda: "rigveda", Text: "रामः", MeterGold: "गायत्री"}})
	require.NoError(t, err)
	_, err = s.Import(ctx, []chandas.VerseRecord{{ID: "1", SourceVeda: "rigveda", Text: "रामः", MeterGold: "त्रिष्टुप्"}})
	require.NoError(t, err)

	rec, err := s.Get(ctx, "rigveda", "1")
	require.NoError(t, err)
	assert.Equal(t, "त्रिष्टुप्", rec.MeterGold)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.Get(ctx, "rigveda", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerses(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Import(ctx, []chandas.VerseRecord{
		{ID: "2", SourceVeda: "rigveda", Text: "इन्द्रः", MeterGold: "त्रिष्टुप्"},
		{ID: "1", SourceVeda: "rigveda", Text: "रामः", MeterGold: "गायत्री"},
		{ID: "1", SourceVeda: "samaveda", Text: "अग्न आ याहि", MeterGold: "गायत्री"},
	})
	require.NoError(t, err)

	all, err := s.Verses(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "rigveda", all[0].SourceVeda)
	assert.Equal(t, "samaveda", all[2].SourceVeda)

	rv, err := s.Verses(ctx, "samaveda")
	require.NoError(t, err)
	require.Len(t, rv, 1)
	assert.Equal(t, "गायत्री", rv[0].MeterGold)

	none, err := s.Verses(ctx, "atharvaveda")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	svc := chandas.NewService(chandas.Config{}, chandas.NewRuleStore(nil))
	analyses, err := svc.AnalyzeAll(ctx, []chandas.VerseRecord{
		{Text: "रामः"},
		{Text: ""},
	}, nil)
	require.NoError(t, err)

	id, err := s.SaveRun(ctx, analyses)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	rows, err := s.RunResults(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, "रामः", rows[0].Text)
	assert.Equal(t, chandas.OutcomeHeuristic, rows[0].Outcome)
	require.NotNil(t, rows[0].BaseFamily)
	assert.Equal(t, "2", rows[0].SyllableCounts)

	assert.Equal(t, chandas.OutcomeUnclassified, rows[1].Outcome)
	assert.Nil(t, rows[1].BaseFamily)
	assert.Nil(t, rows[1].DeviationD)

	_, err = s.RunResults(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
