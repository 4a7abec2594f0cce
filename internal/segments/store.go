package segments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"setlist/internal/config"
	"setlist/internal/detector"
)

// Record is a persisted music segment row.
type Record struct {
	ID           string
	SourcePath   string
	Start        string
	End          string
	StartSeconds int
	EndSeconds   int
	Title        string
	Subtitle     string
	CreatedAt    time.Time
}

// Store manages segment persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the segments database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save inserts a detected segment and returns the stored record.
func (s *Store) Save(ctx context.Context, seg detector.MusicSegment) (*Record, error) {
	record := &Record{
		ID:           uuid.NewString(),
		SourcePath:   seg.SourcePath,
		Start:        seg.Start,
		End:          seg.End,
		StartSeconds: seg.StartSeconds,
		EndSeconds:   seg.EndSeconds,
		Title:        seg.Title,
		Subtitle:     seg.Subtitle,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO music_segments (
            id, source_path, start_time, end_time,
            start_seconds, end_seconds, title, subtitle, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.SourcePath,
		record.Start,
		record.End,
		record.StartSeconds,
		record.EndSeconds,
		nullableString(record.Title),
		nullableString(record.Subtitle),
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert segment: %w", err)
	}
	return record, nil
}

// SaveAll inserts a batch of detected segments in a single transaction.
func (s *Store) SaveAll(ctx context.Context, segs []detector.MusicSegment) ([]*Record, error) {
	if len(segs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	records := make([]*Record, 0, len(segs))
	for _, seg := range segs {
		record := &Record{
			ID:           uuid.NewString(),
			SourcePath:   seg.SourcePath,
			Start:        seg.Start,
			End:          seg.End,
			StartSeconds: seg.StartSeconds,
			EndSeconds:   seg.EndSeconds,
			Title:        seg.Title,
			Subtitle:     seg.Subtitle,
			CreatedAt:    now,
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO music_segments (
                id, source_path, start_time, end_time,
                start_seconds, end_seconds, title, subtitle, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID,
			record.SourcePath,
			record.Start,
			record.End,
			record.StartSeconds,
			record.EndSeconds,
			nullableString(record.Title),
			nullableString(record.Subtitle),
			record.CreatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return nil, fmt.Errorf("insert segment: %w", err)
		}
		records = append(records, record)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit segments: %w", err)
	}
	return records, nil
}

// List returns all stored segments ordered by source and playback position.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM music_segments ORDER BY source_path, start_seconds`,
	)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListBySource returns segments for one source file ordered by playback position.
func (s *Store) ListBySource(ctx context.Context, sourcePath string) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM music_segments WHERE source_path = ? ORDER BY start_seconds`,
		sourcePath,
	)
	if err != nil {
		return nil, fmt.Errorf("list segments by source: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// GetByID fetches a segment record by identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM music_segments WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get segment: %w", err)
	}
	return record, nil
}

// DeleteBySource removes stored segments for one source file.
func (s *Store) DeleteBySource(ctx context.Context, sourcePath string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM music_segments WHERE source_path = ?`, sourcePath)
	if err != nil {
		return 0, fmt.Errorf("delete segments by source: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all stored segments.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM music_segments`)
	if err != nil {
		return 0, fmt.Errorf("clear segments: %w", err)
	}
	return res.RowsAffected()
}

const recordColumns = "id, source_path, start_time, end_time, start_seconds, end_seconds, title, subtitle, created_at"

func collectRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id         string
		sourcePath string
		start      string
		end        string
		startSecs  int
		endSecs    int
		title      sql.NullString
		subtitle   sql.NullString
		createdRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&start,
		&end,
		&startSecs,
		&endSecs,
		&title,
		&subtitle,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:           id,
		SourcePath:   sourcePath,
		Start:        start,
		End:          end,
		StartSeconds: startSecs,
		EndSeconds:   endSecs,
		Title:        title.String,
		Subtitle:     subtitle.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
