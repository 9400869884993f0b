// Package corpus stores reference verses (gold labels and padapāṭha) and saved
// analysis runs in SQLite.
package corpus

import (
	"context"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"yashubustudio/chandas/chandas"
)

const driverName = "sqlite"

// ErrNotFound is returned when a requested verse or run does not exist.
var ErrNotFound = errors.New("corpus: not found")

//go:embed migrations/*.sql
var migrationsFS embed.FS

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var verseColumns = []string{"source_veda", "id", "text", "padapatha", "meter_gold", "transliteration"}

// Store is a SQLite-backed reference dataset. It implements chandas.GoldLookup.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ chandas.GoldLookup = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	// One connection keeps pragmas in effect and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("corpus opened", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// TextKeys returns the lookup digests of a verse: normalized with accents kept and
// normalized with accents stripped.
func TextKeys(text string) (withSvara, bare string) {
	return digest(chandas.NormalizeText(text, chandas.NormalizeOptions{})),
		digest(chandas.NormalizeText(text, chandas.NormalizeOptions{StripSvaras: true}))
}

func digest(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Import upserts records keyed by (source veda, id) and returns how many were written.
// Records without text are skipped.
func (s *Store) Import(ctx context.Context, records []chandas.VerseRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	written := 0
	for i, rec := range records {
		if rec.Text == "" {
			continue
		}
		if rec.ID == "" {
			rec.ID = fmt.Sprint(i + 1)
		}
		normKey, bareKey := TextKeys(rec.Text)
		q, args, err := qb.Insert("verses").
			Columns(append(verseColumns, "norm_key", "bare_key")...).
			Values(rec.SourceVeda, rec.ID, rec.Text, rec.Padapatha, rec.MeterGold, rec.Transliteration, normKey, bareKey).
			Suffix(`ON CONFLICT (source_veda, id) DO UPDATE SET
				text = excluded.text,
				padapatha = excluded.padapatha,
				meter_gold = excluded.meter_gold,
				transliteration = excluded.transliteration,
				norm_key = excluded.norm_key,
				bare_key = excluded.bare_key`).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return 0, fmt.Errorf("insert verse %s: %w", rec.ID, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	s.logger.Info("corpus import", zap.Int("written", written), zap.Int("records", len(records)))
	return written, nil
}

// Lookup finds the reference record for text, first by its accented normal form and
// then with accents stripped. It returns nil, nil when nothing matches.
func (s *Store) Lookup(ctx context.Context, text string) (*chandas.VerseRecord, error) {
	normKey, bareKey := TextKeys(text)
	for _, by := range []sq.Eq{{"norm_key": normKey}, {"bare_key": bareKey}} {
		rec, err := s.first(ctx, by)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	return nil, nil
}

// Get returns one verse by source veda and id.
func (s *Store) Get(ctx context.Context, sourceVeda, id string) (*chandas.VerseRecord, error) {
	return s.first(ctx, sq.Eq{"source_veda": sourceVeda, "id": id})
}

func (s *Store) first(ctx context.Context, where sq.Eq) (*chandas.VerseRecord, error) {
	q, args, err := qb.Select(verseColumns...).
		From("verses").
		Where(where).
		OrderBy("source_veda", "id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var rec chandas.VerseRecord
	err = s.db.QueryRowContext(ctx, q, args...).Scan(
		&rec.SourceVeda, &rec.ID, &rec.Text, &rec.Padapatha, &rec.MeterGold, &rec.Transliteration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query verse: %w", err)
	}
	return &rec, nil
}

// Verses returns stored verses ordered by source veda and id. An empty sourceVeda
// returns every verse.
func (s *Store) Verses(ctx context.Context, sourceVeda string) ([]chandas.VerseRecord, error) {
	b := qb.Select(verseColumns...).From("verses").OrderBy("source_veda", "id")
	if sourceVeda != "" {
		b = b.Where(sq.Eq{"source_veda": sourceVeda})
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query verses: %w", err)
	}
	defer rows.Close()
	var out []chandas.VerseRecord
	for rows.Next() {
		var rec chandas.VerseRecord
		if err := rows.Scan(&rec.SourceVeda, &rec.ID, &rec.Text, &rec.Padapatha, &rec.MeterGold, &rec.Transliteration); err != nil {
			return nil, fmt.Errorf("scan verse: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of stored verses.
func (s *Store) Count(ctx context.Context) (int, error) {
	q, args, err := qb.Select("COUNT(*)").From("verses").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count verses: %w", err)
	}
	return n, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
