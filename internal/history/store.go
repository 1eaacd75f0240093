package history

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrEmptyPath = errors.New("history path is empty")

// Entry is one "check answer" action.
type Entry struct {
	QuestionID    string
	Question      string
	Guess         string
	CorrectAnswer string
	Correct       bool
	CheckedAt     time.Time
}

// Store is an append-only sqlite journal of checked answers. It only records
// what the user checked; the question collection itself is never persisted.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_id TEXT NOT NULL,
			question TEXT NOT NULL,
			guess TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			correct INTEGER NOT NULL,
			checked_at_unix_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_checks_checked_at ON checks(checked_at_unix_ms DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record appends an entry. A zero CheckedAt is filled with the current time.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	checkedAt := entry.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = s.now()
	}

	correct := 0
	if entry.Correct {
		correct = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checks (question_id, question, guess, correct_answer, correct, checked_at_unix_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.QuestionID,
		entry.Question,
		entry.Guess,
		entry.CorrectAnswer,
		correct,
		checkedAt.UTC().UnixMilli(),
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, question, guess, correct_answer, correct, checked_at_unix_ms
		 FROM checks
		 ORDER BY checked_at_unix_ms DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			entry     Entry
			correct   int
			checkedAt int64
		)
		if err := rows.Scan(&entry.QuestionID, &entry.Question, &entry.Guess, &entry.CorrectAnswer, &correct, &checkedAt); err != nil {
			return nil, err
		}
		entry.Correct = correct == 1
		entry.CheckedAt = time.UnixMilli(checkedAt).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
