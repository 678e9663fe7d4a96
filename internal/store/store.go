package store

import (
	"context"
	"errors"
	"time"

	"github.com/remaimber-it/interviewer/internal/judge"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store persists analyses and judge verdicts. It also satisfies judge.Sink.
type Store interface {
	SaveAnalysis(ctx context.Context, a *Analysis) error
	GetAnalysis(ctx context.Context, id string) (*Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error)

	Append(ctx context.Context, e judge.Entry) error
	ListVerdicts(ctx context.Context, skill string, limit int) ([]judge.Entry, error)

	Close() error
}

type StoredSkill struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Level   string `json:"level"`
	Context string `json:"context,omitempty"`
}

type StoredQuestion struct {
	Skill    string `json:"skill"`
	Level    string `json:"level"`
	Question string `json:"question"`
	Solution string `json:"solution,omitempty"`
	Source   string `json:"source"`
}

// Analysis is one analyzed resume. ResumeExcerpt is kept so later refreshes
// can be personalised without re-uploading the document.
type Analysis struct {
	ID            string           `json:"id"`
	JobRole       string           `json:"job_role"`
	Skills        []StoredSkill    `json:"skills"`
	Questions     []StoredQuestion `json:"questions"`
	TextLength    int              `json:"text_length"`
	ResumeExcerpt string           `json:"-"`
	CreatedAt     time.Time        `json:"created_at"`
}

type AnalysisSummary struct {
	ID         string    `json:"id"`
	JobRole    string    `json:"job_role"`
	SkillCount int       `json:"skill_count"`
	CreatedAt  time.Time `json:"created_at"`
}
