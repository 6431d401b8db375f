package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agenthands/echofilter/internal/core/model"
)

// Fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps analysis history in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.BuildSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Printf("Opened analysis store at %s", path)
	return s, nil
}

func (s *SQLiteStore) BuildSchema(ctx context.Context) error {
	for _, q := range []string{createAnalysesTable, createCreatedAtIndex} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, a *model.Analysis) error {
	categories, err := json.Marshal(a.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	lines, err := json.Marshal(a.Lines)
	if err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}
	sum := a.Summary()

	_, err = s.db.ExecContext(ctx, saveAnalysisQuery,
		a.ID, a.AudioName, string(categories), a.Transcript, string(lines),
		sum.LineCount, sum.Critical, sum.Warning,
		a.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Analysis, error) {
	var (
		a                 model.Analysis
		categories, lines string
		createdAt         string
	)
	err := s.db.QueryRowContext(ctx, getAnalysisQuery, id).
		Scan(&a.ID, &a.AudioName, &categories, &a.Transcript, &lines, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(categories), &a.Categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if err := json.Unmarshal([]byte(lines), &a.Lines); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	if a.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &a, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, listAnalysesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []model.Summary
	for rows.Next() {
		var sum model.Summary
		var createdAt string
		if err := rows.Scan(&sum.ID, &sum.AudioName, &sum.LineCount, &sum.Critical, &sum.Warning, &createdAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, deleteAnalysisQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
