// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuispeak/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so practiced_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for practice records.
type Store struct {
	db *sql.DB
}

// RecordFilter narrows ListRecords.
type RecordFilter struct {
	Topic string
	Since *time.Time
	Limit int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS practice_records (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			text_content TEXT NOT NULL,
			score REAL NOT NULL,
			pronunciation_score REAL NOT NULL,
			fluency_score REAL NOT NULL,
			feedback TEXT NOT NULL,
			audio_bytes INTEGER NOT NULL,
			practiced_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_practice_records_practiced_at ON practice_records(practiced_at);`,
		`CREATE INDEX IF NOT EXISTS idx_practice_records_topic ON practice_records(topic);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRecord stores a scored practice attempt.
func (s *Store) InsertRecord(ctx context.Context, rec model.PracticeRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO practice_records (session_id, topic, text_content, score, pronunciation_score, fluency_score, feedback, audio_bytes, practiced_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Topic,
		rec.Text,
		rec.Score,
		rec.PronunciationScore,
		rec.FluencyScore,
		rec.Feedback,
		rec.AudioBytes,
		rec.PracticedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRecords returns records newest first.
func (s *Store) ListRecords(ctx context.Context, f RecordFilter) ([]model.PracticeRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Topic != "" {
		clauses = append(clauses, "topic = ?")
		args = append(args, f.Topic)
	}
	if f.Since != nil {
		clauses = append(clauses, "practiced_at >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, session_id, topic, text_content, score, pronunciation_score, fluency_score, feedback, audio_bytes, practiced_at
		FROM practice_records
		WHERE %s
		ORDER BY practiced_at DESC, id DESC`, strings.Join(clauses, " AND "))
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.PracticeRecord
	for rows.Next() {
		var rec model.PracticeRecord
		var practicedAt string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Topic, &rec.Text, &rec.Score,
			&rec.PronunciationScore, &rec.FluencyScore, &rec.Feedback, &rec.AudioBytes, &practicedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, practicedAt)
		if err != nil {
			return nil, err
		}
		rec.PracticedAt = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
