package chandas

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// VerseParseOptions allows callers to choose which CSV columns map to record fields
// and how plain text is split into verses.
type VerseParseOptions struct {
	IDColumn              string
	TextColumn            string
	PadapathaColumn       string
	MeterColumn           string
	SourceVedaColumn      string
	TransliterationColumn string
	// PerLine treats every non-empty line of a plain text file as one verse.
	PerLine bool
}

// VerseFileMetadata provides header information and automatic column suggestions.
type VerseFileMetadata struct {
	Columns   []string
	Suggested VerseParseOptions
}

// ParseVerseFile reads verses from a .csv, .tsv or plain text file.
func ParseVerseFile(path string, opts VerseParseOptions) ([]VerseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	records, err := ParseVerses(f, formatForPath(path), opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// ParseVerses reads verses from r. format is "csv", "tsv" or "text".
func ParseVerses(r io.Reader, format string, opts VerseParseOptions) ([]VerseRecord, error) {
	switch format {
	case "csv":
		return parseDelimitedVerses(r, ',', opts)
	case "tsv":
		return parseDelimitedVerses(r, '\t', opts)
	default:
		return parsePlainTextVerses(r, opts.PerLine)
	}
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".tsv":
		return "tsv"
	}
	return "text"
}

// parsePlainTextVerses splits on blank lines and after lines closing with a double
// danda; lines of one verse are joined with a space.
func parsePlainTextVerses(r io.Reader, perLine bool) ([]VerseRecord, error) {
	var (
		out  []VerseRecord
		cur  []string
		scan = bufio.NewScanner(r)
	)
	scan.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, VerseRecord{
			ID:   strconv.Itoa(len(out) + 1),
			Text: strings.Join(cur, " "),
		})
		cur = nil
	}
	for scan.Scan() {
		line := cleanCell(scan.Text())
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
		if perLine || endsVerse(line) {
			flush()
		}
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("scan text: %w", err)
	}
	flush()
	return out, nil
}

func endsVerse(line string) bool {
	trimmed := strings.TrimRightFunc(line, func(r rune) bool {
		return r == ' ' || isVerseNumber(string(r)) || r == '.'
	})
	return strings.HasSuffix(trimmed, "॥") || strings.HasSuffix(trimmed, "||")
}

func parseDelimitedVerses(r io.Reader, comma rune, opts VerseParseOptions) ([]VerseRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	resolved, skipHeader, err := resolveVerseColumns(header, opts)
	if err != nil {
		return nil, err
	}
	start := 0
	if skipHeader {
		start = 1
	}
	records := make([]VerseRecord, 0, len(rows)-start)
	for i, row := range rows[start:] {
		rec := VerseRecord{
			ID:              cellAt(row, resolved.ID.Index),
			Text:            cellAt(row, resolved.Text.Index),
			Padapatha:       cellAt(row, resolved.Padapatha.Index),
			MeterGold:       cellAt(row, resolved.Meter.Index),
			SourceVeda:      strings.ToLower(cellAt(row, resolved.SourceVeda.Index)),
			Transliteration: cellAt(row, resolved.Transliteration.Index),
		}
		if rec.Text == "" {
			continue
		}
		if rec.ID == "" {
			rec.ID = strconv.Itoa(start + i + 1)
		}
		records = append(records, rec)
	}
	return records, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

type columnResult struct {
	Index      int
	FromHeader bool
	HeaderName string
}

type resolvedColumns struct {
	ID              columnResult
	Text            columnResult
	Padapatha       columnResult
	Meter           columnResult
	SourceVeda      columnResult
	Transliteration columnResult
}

func (r *resolvedColumns) all() []*columnResult {
	return []*columnResult{&r.ID, &r.Text, &r.Padapatha, &r.Meter, &r.SourceVeda, &r.Transliteration}
}

func resolveVerseColumns(header []string, opts VerseParseOptions) (resolvedColumns, bool, error) {
	var res resolvedColumns
	candidates := getColumnCandidates()
	picks := []struct {
		dst        *columnResult
		explicit   string
		candidates []string
	}{
		{&res.ID, opts.IDColumn, candidates.ID},
		{&res.Text, opts.TextColumn, candidates.Text},
		{&res.Padapatha, opts.PadapathaColumn, candidates.Padapatha},
		{&res.Meter, opts.MeterColumn, candidates.Meter},
		{&res.SourceVeda, opts.SourceVedaColumn, candidates.SourceVeda},
		{&res.Transliteration, opts.TransliterationColumn, candidates.Transliteration},
	}
	skipHeader := false
	for _, p := range picks {
		col, err := pickColumn(header, p.explicit, p.candidates)
		if err != nil {
			return res, false, err
		}
		*p.dst = col
		skipHeader = skipHeader || col.FromHeader
	}
	if !skipHeader && res.Text.Index < 0 && len(header) > 0 {
		res.Text.Index = 0
	}
	if res.Text.Index < 0 {
		return res, false, errors.New("no usable text column found")
	}
	for _, col := range res.all() {
		col.HeaderName = headerNameForIndex(header, col.Index, col.FromHeader)
	}
	return res, skipHeader, nil
}

func pickColumn(header []string, explicit string, candidates []string) (columnResult, error) {
	res := columnResult{Index: -1}
	if strings.TrimSpace(explicit) != "" {
		idx, fromHeader, err := matchExplicitColumn(header, explicit)
		if err != nil {
			return res, err
		}
		res.Index = idx
		res.FromHeader = fromHeader
		return res, nil
	}
	if idx := findColumn(header, candidates); idx >= 0 {
		res.Index = idx
		res.FromHeader = true
	}
	return res, nil
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, false, err
		}
		if idx >= len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

func headerNameForIndex(header []string, idx int, fromHeader bool) string {
	if idx < 0 {
		return ""
	}
	if fromHeader && idx < len(header) {
		if name := header[idx]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("#%d", idx+1)
}

// ReadVerseFileMetadata returns header information and automatic suggestions for
// structured files. Plain text files yield empty metadata.
func ReadVerseFileMetadata(path string) (VerseFileMetadata, error) {
	meta := VerseFileMetadata{}
	format := formatForPath(path)
	if format == "text" {
		return meta, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return meta, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	header, err := ReadHeader(f, format)
	if err != nil {
		return meta, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if header == nil {
		return meta, nil
	}
	meta.Columns = header
	if resolved, _, err := resolveVerseColumns(header, VerseParseOptions{}); err == nil {
		meta.Suggested = VerseParseOptions{
			IDColumn:              resolved.ID.HeaderName,
			TextColumn:            resolved.Text.HeaderName,
			PadapathaColumn:       resolved.Padapatha.HeaderName,
			MeterColumn:           resolved.Meter.HeaderName,
			SourceVedaColumn:      resolved.SourceVeda.HeaderName,
			TransliterationColumn: resolved.Transliteration.HeaderName,
		}
	}
	return meta, nil
}

// ReadHeader returns the cleaned first row of a csv or tsv stream, or nil when the
// stream is empty.
func ReadHeader(r io.Reader, format string) ([]string, error) {
	reader := csv.NewReader(r)
	if format == "tsv" {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	row, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	header := make([]string, len(row))
	for i, cell := range row {
		header[i] = cleanCell(cell)
	}
	return header, nil
}

// ParseCounts reads a comma or whitespace separated list of syllable counts such as
// "8,8,8,8". Entries that are not integers are skipped.
func ParseCounts(s string) []int {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == ' ' || r == '\t'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
