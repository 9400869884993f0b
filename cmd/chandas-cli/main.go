// Command chandas-cli identifies the meter of Vedic and classical Sanskrit verses.
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"yashubustudio/chandas/chandas"
	"yashubustudio/chandas/internal/corpus"
	"yashubustudio/chandas/internal/logging"
)

const version = "0.2.0"

// Globals are flags shared by every command.
type Globals struct {
	Config    string `help:"Path to config.json or config.yaml (default: ./config.json)" type:"path"`
	Rules     string `help:"Rule table (.json/.yaml, optionally .xz); overrides config" type:"path"`
	Corpus    string `help:"SQLite reference dataset; overrides config" type:"path"`
	LogLevel  string `name:"log-level" help:"debug, info, warn or error"`
	LogFormat string `name:"log-format" help:"console or json"`
}

// CLI defines the command-line interface.
var CLI struct {
	Globals

	Analyze  AnalyzeCmd  `cmd:"" help:"Analyze verse text or a verse file"`
	Classify ClassifyCmd `cmd:"" help:"Classify pre-computed syllable counts"`
	Rules    RulesGroup  `cmd:"" help:"Rule table operations"`
	Corpus   CorpusGroup `cmd:"" help:"Reference dataset operations"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// RulesGroup contains rule table operations.
type RulesGroup struct {
	Show RulesShowCmd `cmd:"" help:"List the loaded rules"`
	Pack RulesPackCmd `cmd:"" help:"Rewrite a rule table in another format (e.g. .json.xz)"`
}

// CorpusGroup contains reference dataset operations.
type CorpusGroup struct {
	Import   CorpusImportCmd   `cmd:"" help:"Import verses with reference labels"`
	Lookup   CorpusLookupCmd   `cmd:"" help:"Look up the reference record of a verse"`
	Evaluate CorpusEvaluateCmd `cmd:"" help:"Classify stored verses and compare with their reference meters"`
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("chandas-cli version %s\n", version)
	return nil
}

// env is the runtime assembled from config and global flags.
type env struct {
	cfg    chandas.Config
	logger *zap.Logger
	store  *corpus.Store
}

func (g *Globals) setup(ctx context.Context) (*env, error) {
	cfg, err := chandas.LoadConfig(strings.TrimSpace(g.Config))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.Rules != "" {
		cfg.RulesPath = g.Rules
	}
	if g.Corpus != "" {
		cfg.CorpusPath = g.Corpus
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	e := &env{cfg: cfg, logger: logger}
	if cfg.CorpusPath != "" {
		store, err := corpus.Open(ctx, cfg.CorpusPath, logger.Named("corpus"))
		if err != nil {
			return nil, err
		}
		e.store = store
	}
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close corpus", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

func (e *env) requireStore() (*corpus.Store, error) {
	if e.store == nil {
		return nil, errors.New("no reference dataset: set --corpus or corpusPath in config")
	}
	return e.store, nil
}

// service loads the rule table and builds the analysis service.
func (e *env) service() (*chandas.Service, error) {
	rules, report, err := chandas.LoadRuleStore(e.cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	for _, note := range report.Notes {
		e.logger.Info(note)
	}
	opts := []chandas.Option{chandas.WithLogger(e.logger.Named("service"))}
	if e.store != nil {
		opts = append(opts, chandas.WithLookup(e.store))
	}
	return chandas.NewService(e.cfg, rules, opts...), nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("chandas-cli"),
		kong.Description("Sanskrit chandas (meter) identification"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.Bind(&CLI.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
