package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"yashubustudio/chandas/chandas"
)

// AnalyzeCmd analyzes one verse or a file of verses.
type AnalyzeCmd struct {
	Text        string `arg:"" optional:"" help:"Verse text; \"-\" reads standard input"`
	File        string `short:"f" help:"CSV/TSV/text file of verses" type:"existingfile"`
	PerLine     bool   `name:"per-line" help:"Treat each line of a text file as one verse"`
	TextColumn  string `name:"text-column" help:"Column name or #index holding the verse text"`
	MeterColumn string `name:"meter-column" help:"Column name or #index holding the reference meter"`
	Veda        string `help:"Source veda hint (rigveda, samaveda, ...)"`
	Format      string `short:"F" enum:"table,json,csv" default:"table" help:"Output format: table, json or csv"`
	Output      string `short:"o" help:"Write results to this file (csv defaults to csv/result_*.csv)" type:"path"`
	SaveRun     bool   `name:"save-run" help:"Store the results as a run in the reference dataset"`
}

func (c *AnalyzeCmd) Run(ctx context.Context, g *Globals) error {
	e, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	if c.Veda != "" {
		e.cfg.SourceVeda = strings.ToLower(c.Veda)
	}

	records, err := c.records()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("input does not contain any verses")
	}
	svc, err := e.service()
	if err != nil {
		return err
	}

	started := time.Now()
	analyses, err := svc.AnalyzeAll(ctx, records, nil)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	e.logger.Debug("analysis finished", zap.Int("verses", len(analyses)), zap.Duration("elapsed", time.Since(started)))

	if c.SaveRun {
		store, err := e.requireStore()
		if err != nil {
			return err
		}
		id, err := store.SaveRun(ctx, analyses)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "実行結果を保存しました (run %s)\n", id)
	}
	return c.write(analyses)
}

func (c *AnalyzeCmd) records() ([]chandas.VerseRecord, error) {
	if c.File != "" {
		return chandas.ParseVerseFile(c.File, chandas.VerseParseOptions{
			TextColumn:  c.TextColumn,
			MeterColumn: c.MeterColumn,
			PerLine:     c.PerLine,
		})
	}
	text := c.Text
	if text == "-" {
		return chandas.ParseVerses(os.Stdin, "text", chandas.VerseParseOptions{PerLine: c.PerLine})
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("provide verse TEXT or --file")
	}
	return []chandas.VerseRecord{{ID: "1", Text: text, SourceVeda: strings.ToLower(c.Veda)}}, nil
}

func (c *AnalyzeCmd) write(analyses []chandas.Analysis) error {
	switch c.Format {
	case "csv":
		path, err := resolveOutputPath(c.Output, "csv")
		if err != nil {
			return err
		}
		if err := writeFile(path, func(w io.Writer) error { return chandas.WriteAnalysesCSV(w, analyses) }); err != nil {
			return err
		}
		fmt.Printf("分析結果を %s に保存しました\n", path)
		return nil
	case "json":
		return c.toOutput(func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if len(analyses) == 1 {
				return enc.Encode(analyses[0])
			}
			return enc.Encode(analyses)
		})
	default:
		return c.toOutput(func(w io.Writer) error { return printTable(w, analyses) })
	}
}

func (c *AnalyzeCmd) toOutput(fn func(io.Writer) error) error {
	if c.Output == "" {
		return fn(os.Stdout)
	}
	path, err := resolveOutputPath(c.Output, "")
	if err != nil {
		return err
	}
	return writeFile(path, fn)
}

// ClassifyCmd classifies counts without text.
type ClassifyCmd struct {
	Padas  int    `arg:"" help:"Number of pādas"`
	Counts string `arg:"" help:"Syllables per pāda, e.g. 8,8,8,8"`
	Veda   string `help:"Source veda hint"`
	JSON   bool   `name:"json" help:"Print the summary as JSON"`
}

func (c *ClassifyCmd) Run(ctx context.Context, g *Globals) error {
	e, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	svc, err := e.service()
	if err != nil {
		return err
	}
	summary := svc.ClassifyCounts(c.Padas, chandas.ParseCounts(c.Counts), strings.ToLower(c.Veda)).Summary()
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(summary)
	}
	printMeter(os.Stdout, summary)
	for _, note := range summary.Notes {
		fmt.Printf("  - %s\n", note)
	}
	return nil
}

// RulesShowCmd lists the rule table.
type RulesShowCmd struct{}

func (c *RulesShowCmd) Run(ctx context.Context, g *Globals) error {
	e, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	store, report, err := chandas.LoadRuleStore(e.cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	fmt.Printf("rules: %s (loaded %d, skipped %d)\n", report.Path, report.Loaded, report.Skipped)
	for _, note := range report.Notes {
		fmt.Printf("  - %s\n", note)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLABEL\tPADAS\tPATTERN\tTOL\tFAMILY\tSUPPORT")
	for i, r := range store.Rules() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\t%d\n",
			i+1, r.Label, r.PadaCount, joinInts(r.Pattern), r.Tolerance, r.BaseFamily, r.Support)
	}
	return tw.Flush()
}

// RulesPackCmd converts a rule table between formats.
type RulesPackCmd struct {
	In  string `arg:"" help:"Source rule table" type:"existingfile"`
	Out string `arg:"" help:"Destination (.json, .yaml, optionally .xz)" type:"path"`
}

func (c *RulesPackCmd) Run() error {
	store, report, err := chandas.LoadRuleStore(c.In)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	if err := chandas.SaveRuleFile(c.Out, store); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}
	fmt.Printf("%d 件のルールを %s に保存しました (スキップ %d 件)\n", store.Len(), c.Out, report.Skipped)
	return nil
}

// CorpusImportCmd loads reference verses into the dataset.
type CorpusImportCmd struct {
	File        string `arg:"" help:"CSV/TSV file with verse text and reference meter" type:"existingfile"`
	IDColumn    string `name:"id-column" help:"Column name or #index for the verse id"`
	TextColumn  string `name:"text-column" help:"Column name or #index for the verse text"`
	PadaColumn  string `name:"padapatha-column" help:"Column name or #index for the padapāṭha"`
	MeterColumn string `name:"meter-column" help:"Column name or #index for the reference meter"`
	VedaColumn  string `name:"veda-column" help:"Column name or #index for the source veda"`
	Veda        string `help:"Source veda for rows that do not name one"`
}

func (c *CorpusImportCmd) Run(ctx context.Context, g *Globals) error {
	e, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	store, err := e.requireStore()
	if err != nil {
		return err
	}
	records, err := chandas.ParseVerseFile(c.File, chandas.VerseParseOptions{
		IDColumn:         c.IDColumn,
		TextColumn:       c.TextColumn,
		PadapathaColumn:  c.PadaColumn,
		MeterColumn:      c.MeterColumn,
		SourceVedaColumn: c.VedaColumn,
	})
	if err != nil {
		return fmt.Errorf("read verses: %w", err)
	}
	for i := range records {
		if records[i].SourceVeda == "" {
			records[i].SourceVeda = strings.ToLower(c.Veda)
		}
	}
	n, err := store.Import(ctx, records)
	if err != nil {
		return err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d 件を取り込みました (合計 %d 件)\n", n, total)
	return nil
}

// CorpusLookupCmd prints the reference record of a verse.
type CorpusLookupCmd struct {
	Text string `arg:"" help:"Verse text"`
}

func (c *CorpusLookupCmd) Run(ctx context.Context, g *Globals) error {
	e, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	store, err := e.requireStore()
	if err != nil {
		return err
	}
	rec, err := store.Lookup(ctx, c.Text)
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Println("見つかりませんでした")
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}

// CorpusEvaluateCmd measures agreement with the reference dataset.
type CorpusEvaluateCmd struct {
	Veda string `help:"Only evaluate verses from this source veda"`
	Top  int    `default:"10" help:"Number of confusions to list"`
	JSON bool   `name:"json" help:"Print the evaluation as JSON"`
}

func (c *CorpusEvaluateCmd) Run(ctx context.Context, g *Globals) error {
	e, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	store, err := e.requireStore()
	if err != nil {
		return err
	}
	records, err := store.Verses(ctx, strings.ToLower(c.Veda))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("reference dataset has no verses to evaluate")
	}
	svc, err := e.service()
	if err != nil {
		return err
	}
	analyses, err := svc.AnalyzeAll(ctx, records, nil)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	ev := chandas.Evaluate(analyses, c.Top)
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(ev)
	}
	return printEvaluation(os.Stdout, ev)
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("result_%s.csv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
