// Package app is the fyne desktop front end for chandas analysis.
package app

import (
	"context"
	"fmt"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"yashubustudio/chandas/chandas"
	"yashubustudio/chandas/internal/corpus"
	"yashubustudio/chandas/internal/logging"
)

const fyneAppID = "yashubustudio.chandas"

// Run loads configuration, rules and the optional reference dataset, then starts
// the desktop UI. cfgPath may be empty for ./config.json.
func Run(cfgPath string) error {
	cfg, err := chandas.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	base, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer base.Sync()
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	// Entries logged before the window exists only reach stderr.
	var u *uiState
	logger := teeToPane(base, func(line string) {
		if u != nil {
			u.appendLog(line)
		}
	}, level)

	rules, report, err := chandas.LoadRuleStore(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("ルールの読み込みに失敗しました: %w", err)
	}

	var store *corpus.Store
	opts := []chandas.Option{chandas.WithLogger(logger.Named("service"))}
	if cfg.CorpusPath != "" {
		store, err = corpus.Open(context.Background(), cfg.CorpusPath, logger.Named("corpus"))
		if err != nil {
			return fmt.Errorf("参照データを開けません: %w", err)
		}
		defer store.Close()
		opts = append(opts, chandas.WithLookup(store))
	}
	svc := chandas.NewService(cfg, rules, opts...)

	a := fyneapp.NewWithID(fyneAppID)
	u = buildUI(a, svc, store, cfgPath)
	u.logger = logger
	for _, note := range report.Notes {
		logger.Info(note)
	}
	logger.Info("ready", zap.Int("rules", rules.Len()), zap.Bool("corpus", store != nil))
	u.w.ShowAndRun()
	return nil
}
