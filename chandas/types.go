package chandas

import (
	"context"
	"encoding/json"
)

// VerseRecord is a verse as read from a file or the reference dataset.
type VerseRecord struct {
	ID              string `json:"id,omitempty"`
	SourceVeda      string `json:"source_veda,omitempty"`
	Text            string `json:"text"`
	Padapatha       string `json:"padapatha,omitempty"`
	MeterGold       string `json:"meter_gold,omitempty"`
	Transliteration string `json:"transliteration,omitempty"`
}

// GoldLookup finds the reference record for a verse text. It returns nil, nil when
// the verse is unknown.
type GoldLookup interface {
	Lookup(ctx context.Context, text string) (*VerseRecord, error)
}

// PadaAnalysis is a pāda with its syllables, weights and gaṇas.
type PadaAnalysis struct {
	Pada
	Syllables []Syllable `json:"aksharas"`
	Weights   string     `json:"LG"`
	Ganas     []string   `json:"ganas"`
	Accents   string     `json:"accents"`
}

// GoldReport compares the reference label with the classification.
type GoldReport struct {
	Record VerseRecord   `json:"record"`
	Labels []ParsedLabel `json:"labels"`
	// Agrees is nil when the reference label names no base meter.
	Agrees *bool `json:"agrees,omitempty"`
}

// Analysis is the complete report for one verse.
type Analysis struct {
	ID         string         `json:"id,omitempty"`
	Input      string         `json:"input"`
	SourceVeda string         `json:"assumed_source_veda"`
	Normalized string         `json:"normalized"`
	Padas      []PadaAnalysis `json:"padas"`
	Features   Features       `json:"features"`
	Result     Result         `json:"-"`
	Meter      Summary        `json:"meter"`
	Gold       *GoldReport    `json:"gold,omitempty"`
	Padapatha  []PadaAnalysis `json:"padapatha,omitempty"`
	Notes      []string       `json:"notes,omitempty"`
}

// ColumnCandidates defines possible header names for auto-detecting CSV/TSV columns.
type ColumnCandidates struct {
	ID              []string `json:"id" yaml:"id"`
	Text            []string `json:"text" yaml:"text"`
	Padapatha       []string `json:"padapatha" yaml:"padapatha"`
	Meter           []string `json:"meter" yaml:"meter"`
	SourceVeda      []string `json:"sourceVeda" yaml:"source_veda"`
	Transliteration []string `json:"transliteration" yaml:"transliteration"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"CHANDAS_LOG_LEVEL" env-default:"info"`
	Format string `json:"format" yaml:"format" env:"CHANDAS_LOG_FORMAT" env-default:"console"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	RulesPath   string           `json:"rulesPath" yaml:"rules_path" env:"CHANDAS_RULES_PATH" env-default:"data/chanda_rules.json"`
	CorpusPath  string           `json:"corpusPath" yaml:"corpus_path" env:"CHANDAS_CORPUS_PATH"`
	SourceVeda  string           `json:"sourceVeda" yaml:"source_veda" env:"CHANDAS_SOURCE_VEDA" env-default:"unknown"`
	StripSvaras bool             `json:"stripSvaras" yaml:"strip_svaras" env:"CHANDAS_STRIP_SVARAS"`
	Workers     int              `json:"workers" yaml:"workers" env:"CHANDAS_WORKERS" env-default:"4"`
	Columns     ColumnCandidates `json:"columns" yaml:"columns"`
	Log         LogConfig        `json:"log" yaml:"log"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.RulesPath == "" {
		c.RulesPath = "data/chanda_rules.json"
	}
	if c.SourceVeda == "" {
		c.SourceVeda = "unknown"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	c.Columns = c.Columns.withDefaults()
}
