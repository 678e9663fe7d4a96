// Package judge is a heuristic quality gate for interview questions.
package judge

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/remaimber-it/interviewer/internal/metrics"
)

const (
	ViolationMissingSkill = "question_does_not_mention_skill"
	ViolationTooAdvanced  = "question_too_advanced_for_level"
	ViolationTooBasic     = "question_too_basic_for_level"
)

var (
	advancedKeywords = []string{"optimize", "implement", "design", "architecture", "complex"}
	// allowances let an advanced question pass without an advanced keyword.
	allowances = []string{"how would you", "describe how"}
)

// Verdict is the outcome of one evaluation.
type Verdict struct {
	Passes     bool     `json:"passes"`
	Violations []string `json:"violations"`
}

// Entry is one audit record.
type Entry struct {
	Timestamp  string   `json:"timestamp"`
	Skill      string   `json:"skill"`
	Level      string   `json:"level"`
	Question   string   `json:"question"`
	Passes     bool     `json:"passes"`
	Violations []string `json:"violations"`
}

// Sink durably appends audit entries.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

type Judge struct {
	sink   Sink
	now    func() time.Time
	logger *slog.Logger
}

// New creates a Judge writing to sink. A nil sink disables auditing.
func New(sink Sink, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{sink: sink, now: time.Now, logger: logger}
}

// Evaluate checks question against skill and level and records the
// evaluation. A failed audit write is logged and never changes the verdict.
func (j *Judge) Evaluate(ctx context.Context, skill, level, question string) Verdict {
	v := Check(skill, level, question)

	metrics.JudgeVerdictsTotal.WithLabelValues(strconv.FormatBool(v.Passes)).Inc()

	if j.sink != nil {
		entry := Entry{
			Timestamp:  j.now().UTC().Format("2006-01-02T15:04:05.000000") + "Z",
			Skill:      skill,
			Level:      level,
			Question:   question,
			Passes:     v.Passes,
			Violations: v.Violations,
		}
		if err := j.sink.Append(ctx, entry); err != nil {
			j.logger.Error("failed to write judge audit entry", "skill", skill, "error", err)
		}
	}

	return v
}

// Check is the stateless heuristic behind Evaluate.
func Check(skill, level, question string) Verdict {
	violations := []string{}

	s := strings.ToLower(skill)
	q := strings.ToLower(question)

	if !strings.Contains(q, s) && !strings.Contains(strings.ReplaceAll(q, " ", ""), strings.ReplaceAll(s, " ", "")) {
		violations = append(violations, ViolationMissingSkill)
	}

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner":
		if containsAny(q, advancedKeywords) {
			violations = append(violations, ViolationTooAdvanced)
		}
	case "advanced":
		if !containsAny(q, advancedKeywords) && !containsAny(q, allowances) {
			violations = append(violations, ViolationTooBasic)
		}
	}

	return Verdict{Passes: len(violations) == 0, Violations: violations}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
