package chandas

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service ties normalization, segmentation and classification together and adds the
// optional reference lookup.
type Service struct {
	cfgMu sync.RWMutex
	cfg   Config

	classifier *Classifier
	lookup     GoldLookup

	logger *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithLookup enables reference label and padapāṭha lookup.
func WithLookup(l GoldLookup) Option {
	return func(s *Service) { s.lookup = l }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService constructs a service over an already loaded rule table.
func NewService(cfg Config, rules *RuleStore, opts ...Option) *Service {
	cfg.ApplyDefaults()
	s := &Service{
		cfg:        cfg,
		classifier: NewClassifier(rules),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	SetColumnCandidates(cfg.Columns)
	s.logger.Debug("chandas service ready",
		zap.Int("rules", rules.Len()),
		zap.String("rules_source", rules.Source()),
		zap.Bool("lookup", s.lookup != nil))
	return s
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration and returns the applied copy. The rule table
// is not reloaded.
func (s *Service) UpdateConfig(cfg Config) Config {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	SetColumnCandidates(cfg.Columns)
	return cfg.Clone()
}

// Rules returns the rule table in use.
func (s *Service) Rules() *RuleStore { return s.classifier.Rules() }

// Classifier returns the underlying classifier.
func (s *Service) Classifier() *Classifier { return s.classifier }

// Analyze runs the full pipeline on one verse text.
func (s *Service) Analyze(ctx context.Context, text string) (Analysis, error) {
	return s.AnalyzeRecord(ctx, VerseRecord{Text: text})
}

// AnalyzeRecord analyzes a verse. A reference label or padapāṭha already on the record
// is used as is; otherwise the configured lookup is consulted.
func (s *Service) AnalyzeRecord(ctx context.Context, rec VerseRecord) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	cfg := s.Config()
	an := Analysis{
		ID:         rec.ID,
		Input:      rec.Text,
		Normalized: NormalizeText(rec.Text, NormalizeOptions{StripSvaras: cfg.StripSvaras}),
	}
	padas := SplitPadas(an.Normalized)
	sylls := SyllabifyPadas(padas)
	an.Padas = padaAnalyses(padas, sylls)
	an.Features = ExtractFeatures(an.Normalized, padas, sylls)

	gold, err := s.resolveGold(ctx, rec, &an)
	if err != nil {
		return Analysis{}, err
	}

	an.SourceVeda = cfg.SourceVeda
	switch {
	case gold != nil && gold.SourceVeda != "":
		an.SourceVeda = gold.SourceVeda
	case rec.SourceVeda != "":
		an.SourceVeda = rec.SourceVeda
	}

	an.Result = s.classifier.Classify(Input{
		PadaCount:      len(padas),
		SyllableCounts: an.Features.SyllableCounts,
		SourceVeda:     an.SourceVeda,
	})
	an.Meter = an.Result.Summary()

	if gold != nil {
		an.Gold = compareGold(*gold, an.Features.SyllableCounts, an.Meter)
		if gold.Padapatha != "" {
			units := SplitPadapatha(NormalizeText(gold.Padapatha, NormalizeOptions{StripSvaras: cfg.StripSvaras}))
			an.Padapatha = padaAnalyses(units, SyllabifyPadas(units))
		}
	}
	return an, nil
}

func (s *Service) resolveGold(ctx context.Context, rec VerseRecord, an *Analysis) (*VerseRecord, error) {
	if rec.MeterGold != "" || rec.Padapatha != "" {
		g := rec
		return &g, nil
	}
	if s.lookup == nil || rec.Text == "" {
		return nil, nil
	}
	gold, err := s.lookup.Lookup(ctx, rec.Text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("reference lookup failed", zap.Error(err))
		an.Notes = append(an.Notes, fmt.Sprintf("Reference lookup failed: %v", err))
		return nil, nil
	}
	if gold == nil {
		an.Notes = append(an.Notes, "Verse not found in reference dataset.")
		return nil, nil
	}
	an.Notes = append(an.Notes, fmt.Sprintf("Reference record %s found.", gold.ID))
	return gold, nil
}

func compareGold(gold VerseRecord, counts []int, meter Summary) *GoldReport {
	rep := &GoldReport{Record: gold}
	for _, label := range ParseLabelCell(gold.MeterGold) {
		if len(counts) > 0 {
			label = label.WithDeviation(counts[0])
		}
		rep.Labels = append(rep.Labels, label)
	}
	for _, label := range rep.Labels {
		if label.BaseMeter == "" {
			continue
		}
		agrees := meter.BaseFamily != nil && *meter.BaseFamily == string(label.BaseMeter)
		rep.Agrees = &agrees
		break
	}
	return rep
}

func padaAnalyses(padas []Pada, sylls []Syllabification) []PadaAnalysis {
	out := make([]PadaAnalysis, len(padas))
	for i, p := range padas {
		out[i] = PadaAnalysis{
			Pada:      p,
			Syllables: sylls[i].Syllables,
			Weights:   sylls[i].Weights,
			Ganas:     sylls[i].Ganas,
			Accents:   AccentPattern(sylls[i].Syllables),
		}
	}
	return out
}

// AnalyzeAll analyzes records concurrently with at most Config.Workers in flight.
// Results keep input order. progress, when set, is called after each record.
func (s *Service) AnalyzeAll(ctx context.Context, records []VerseRecord, progress func(done, total int)) ([]Analysis, error) {
	cfg := s.Config()
	out := make([]Analysis, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	var done atomic.Int64
	for i := range records {
		i := i
		g.Go(func() error {
			an, err := s.AnalyzeRecord(gctx, records[i])
			if err != nil {
				return fmt.Errorf("verse %d: %w", i+1, err)
			}
			out[i] = an
			n := done.Add(1)
			if progress != nil {
				progress(int(n), len(records))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Info("batch analyzed", zap.Int("verses", len(records)))
	return out, nil
}

// ClassifyCounts classifies pre-computed syllable counts directly.
func (s *Service) ClassifyCounts(padaCount int, counts []int, sourceVeda string) Result {
	if sourceVeda == "" {
		sourceVeda = s.Config().SourceVeda
	}
	return s.classifier.Classify(Input{PadaCount: padaCount, SyllableCounts: counts, SourceVeda: sourceVeda})
}
