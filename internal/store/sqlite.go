// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/remaimber-it/interviewer/internal/judge"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    job_role TEXT NOT NULL,
    skills TEXT NOT NULL,
    questions TEXT NOT NULL,
    text_length INTEGER NOT NULL,
    resume_excerpt TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS verdicts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    skill TEXT NOT NULL,
    level TEXT NOT NULL,
    question TEXT NOT NULL,
    passes INTEGER NOT NULL,
    violations TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_verdicts_skill ON verdicts(skill);
`

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY
	// from concurrent background saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Analyses
// ============================================================================

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *Analysis) error {
	skillsJSON, err := json.Marshal(a.Skills)
	if err != nil {
		return err
	}
	questionsJSON, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, job_role, skills, questions, text_length, resume_excerpt, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.JobRole, string(skillsJSON), string(questionsJSON), a.TextLength, a.ResumeExcerpt,
		a.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*Analysis, error) {
	var (
		a                            Analysis
		skillsJSON, questionsJSON, c string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, job_role, skills, questions, text_length, resume_excerpt, created_at FROM analyses WHERE id = ?",
		id,
	).Scan(&a.ID, &a.JobRole, &skillsJSON, &questionsJSON, &a.TextLength, &a.ResumeExcerpt, &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(skillsJSON), &a.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal([]byte(questionsJSON), &a.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, c); err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	return &a, nil
}

// ListAnalyses returns the newest analyses first.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, job_role, skills, created_at FROM analyses ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []AnalysisSummary{}
	for rows.Next() {
		var (
			sum           AnalysisSummary
			skillsJSON, c string
			skills        []StoredSkill
		)
		if err := rows.Scan(&sum.ID, &sum.JobRole, &skillsJSON, &c); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(skillsJSON), &skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
		sum.SkillCount = len(skills)
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, c)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// ============================================================================
// Verdicts
// ============================================================================

// Append records a judge audit entry.
func (s *SQLiteStore) Append(ctx context.Context, e judge.Entry) error {
	violationsJSON, err := json.Marshal(e.Violations)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO verdicts (timestamp, skill, level, question, passes, violations) VALUES (?, ?, ?, ?, ?, ?)",
		e.Timestamp, e.Skill, e.Level, e.Question, e.Passes, string(violationsJSON),
	)
	return err
}

// ListVerdicts returns verdicts in insertion order. An empty skill matches all.
func (s *SQLiteStore) ListVerdicts(ctx context.Context, skill string, limit int) ([]judge.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, skill, level, question, passes, violations FROM verdicts
		 WHERE ? = '' OR skill = ? ORDER BY id LIMIT ?`,
		skill, skill, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []judge.Entry{}
	for rows.Next() {
		var (
			e              judge.Entry
			violationsJSON string
		)
		if err := rows.Scan(&e.Timestamp, &e.Skill, &e.Level, &e.Question, &e.Passes, &violationsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(violationsJSON), &e.Violations); err != nil {
			return nil, fmt.Errorf("decode violations: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
