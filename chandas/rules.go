package chandas

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for rule files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported rule file format")

// ChandaRule is one data-derived meter pattern.
type ChandaRule struct {
	Label      string `json:"label" yaml:"label"`
	PadaCount  int    `json:"pada_count" yaml:"pada_count"`
	Pattern    []int  `json:"syllable_pattern" yaml:"syllable_pattern"`
	Tolerance  int    `json:"max_diff_tolerance" yaml:"max_diff_tolerance"`
	BaseFamily Family `json:"base_family,omitempty" yaml:"base_family,omitempty"`
	Support    int    `json:"count" yaml:"count"`
}

func (r ChandaRule) clone() ChandaRule {
	r.Pattern = append([]int(nil), r.Pattern...)
	return r
}

// RuleStore is an immutable, ordered rule table. A nil or empty store is valid and
// simply matches nothing.
type RuleStore struct {
	rules  []ChandaRule
	source string
}

// NewRuleStore copies rules into a new store, keeping their order.
func NewRuleStore(rules []ChandaRule) *RuleStore {
	s := &RuleStore{rules: make([]ChandaRule, len(rules))}
	for i, r := range rules {
		s.rules[i] = r.clone()
	}
	return s
}

// Len returns the number of rules.
func (s *RuleStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns a copy of the stored rules.
func (s *RuleStore) Rules() []ChandaRule {
	if s == nil {
		return nil
	}
	out := make([]ChandaRule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.clone()
	}
	return out
}

// Source is the path the store was loaded from, if any.
func (s *RuleStore) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// LoadReport describes what LoadRuleStore found.
type LoadReport struct {
	Path    string   `json:"path"`
	Found   bool     `json:"found"`
	Loaded  int      `json:"loaded"`
	Skipped int      `json:"skipped"`
	Notes   []string `json:"notes,omitempty"`
}

func (r *LoadReport) notef(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// LoadRuleStore reads a rule table from path. A missing file (or empty path) gives an
// empty store and no error. Malformed records are skipped one by one and counted.
func LoadRuleStore(path string) (*RuleStore, LoadReport, error) {
	report := LoadReport{Path: path}
	if strings.TrimSpace(path) == "" {
		report.notef("No rule table configured; skipping data-derived rules.")
		return NewRuleStore(nil), report, nil
	}
	format, compressed, err := ruleFormat(path)
	if err != nil {
		return nil, report, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			report.notef("No rule table at %s; skipping data-derived rules.", path)
			return NewRuleStore(nil), report, nil
		}
		return nil, report, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()
	report.Found = true

	var r io.Reader = bufio.NewReader(f)
	if compressed {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, report, fmt.Errorf("open xz stream: %w", err)
		}
		r = xr
	}
	rules, err := decodeRules(r, format, &report)
	if err != nil {
		return nil, report, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	store := NewRuleStore(rules)
	store.source = path
	return store, report, nil
}

// DecodeRules parses a rule table in the given format ("json" or "yaml").
func DecodeRules(r io.Reader, format string) ([]ChandaRule, LoadReport, error) {
	var report LoadReport
	rules, err := decodeRules(r, format, &report)
	return rules, report, err
}

func decodeRules(r io.Reader, format string, report *LoadReport) ([]ChandaRule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		report.notef("Rule table is empty.")
		return nil, nil
	}
	var doc any
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	records, err := ruleRecords(doc)
	if err != nil {
		return nil, err
	}
	rules := make([]ChandaRule, 0, len(records))
	for i, rec := range records {
		rule, err := parseRuleRecord(rec)
		if err != nil {
			report.Skipped++
			report.notef("Skipped rule #%d: %v", i+1, err)
			continue
		}
		rules = append(rules, rule)
	}
	report.Loaded = len(rules)
	return rules, nil
}

// ruleRecords accepts either a bare list or an object with a "rules" list.
func ruleRecords(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if list, ok := v["rules"].([]any); ok {
			return list, nil
		}
		return nil, errors.New(`rule object has no "rules" list`)
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected rule document of type %T", doc)
}

func parseRuleRecord(rec any) (ChandaRule, error) {
	var rule ChandaRule
	m, ok := rec.(map[string]any)
	if !ok {
		return rule, fmt.Errorf("record is %T, not an object", rec)
	}
	label, _ := m["label"].(string)
	rule.Label = strings.TrimSpace(label)
	if rule.Label == "" {
		return rule, errors.New("missing label")
	}
	padaCount, ok := toInt(m["pada_count"])
	if !ok || padaCount <= 0 {
		return rule, errors.New("missing or invalid pada_count")
	}
	rule.PadaCount = padaCount

	rawPattern, ok := m["syllable_pattern"].([]any)
	if !ok || len(rawPattern) == 0 {
		return rule, errors.New("missing syllable_pattern")
	}
	rule.Pattern = make([]int, len(rawPattern))
	for i, v := range rawPattern {
		n, ok := toInt(v)
		if !ok {
			return rule, fmt.Errorf("non-numeric pattern entry %v", v)
		}
		rule.Pattern[i] = n
	}

	if v, present := m["max_diff_tolerance"]; present && v != nil {
		tol, ok := toInt(v)
		if !ok || tol < 0 {
			return rule, fmt.Errorf("invalid max_diff_tolerance %v", v)
		}
		rule.Tolerance = tol
	}
	if v, present := m["count"]; present && v != nil {
		if n, ok := toInt(v); ok {
			rule.Support = n
		}
	}
	if fam, ok := m["base_family"].(string); ok {
		rule.BaseFamily = Family(strings.TrimSpace(fam))
	}
	return rule, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// ruleFormat derives the encoding from the file name: .json or .yaml/.yml, each
// optionally followed by .xz.
func ruleFormat(path string) (format string, compressed bool, err error) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".xz") {
		compressed = true
		name = strings.TrimSuffix(name, ".xz")
	}
	switch filepath.Ext(name) {
	case ".json":
		return "json", compressed, nil
	case ".yaml", ".yml":
		return "yaml", compressed, nil
	}
	return "", false, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// SaveRuleFile writes the store to path in the format implied by its extension.
func SaveRuleFile(path string, store *RuleStore) error {
	format, compressed, err := ruleFormat(path)
	if err != nil {
		return err
	}
	rules := store.Rules()
	if rules == nil {
		rules = []ChandaRule{}
	}
	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(rules, "", "  ")
	default:
		data, err = yaml.Marshal(rules)
	}
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if compressed {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("open xz writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("compress rules: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("compress rules: %w", err)
		}
		data = buf.Bytes()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create rule dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp rules: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename rules: %w", err)
	}
	return nil
}
