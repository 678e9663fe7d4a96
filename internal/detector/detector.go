// Package detector infers a candidate's skills and proficiency levels from
// resume text. It asks the completion provider first and falls back to
// vocabulary matching with keyword level inference.
package detector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/remaimber-it/interviewer/internal/cascade"
	"github.com/remaimber-it/interviewer/internal/completion"
	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/domain/vocabulary"
	"github.com/remaimber-it/interviewer/internal/llmjson"
	"github.com/remaimber-it/interviewer/internal/metrics"
)

const (
	// resumePromptLimit bounds how much resume text goes into the prompt.
	resumePromptLimit = 3000
	// levelContextRadius and maxLevelContexts bound the AI level prompt.
	levelContextRadius = 200
	maxLevelContexts   = 3
)

// DetectedSkill is a canonical skill found in a resume.
type DetectedSkill struct {
	Key     string
	Name    string
	Level   questionbank.Level
	Context string
}

// Config tunes a Detector.
type Config struct {
	// AILevels asks the model for the level of vocabulary matches before
	// falling back to keyword inference.
	AILevels bool
	// Priorities reorders results for a job role. Nil means DefaultPriorities.
	Priorities []RolePriority
}

// Detector is stateless across requests and safe for concurrent use.
type Detector struct {
	bank       *questionbank.QuestionBank
	vocab      *vocabulary.Vocabulary
	gate       *completion.Gate
	parser     *llmjson.Parser
	aiLevels   bool
	priorities []RolePriority
	logger     *slog.Logger
}

// New creates a Detector. gate may be nil, meaning no AI path.
func New(bank *questionbank.QuestionBank, vocab *vocabulary.Vocabulary, gate *completion.Gate, cfg Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	priorities := cfg.Priorities
	if priorities == nil {
		priorities = DefaultPriorities
	}
	return &Detector{
		bank:       bank,
		vocab:      vocab,
		gate:       gate,
		parser:     llmjson.New("skill", "level"),
		aiLevels:   cfg.AILevels,
		priorities: priorities,
		logger:     logger,
	}
}

// ============================================================================
// Detection
// ============================================================================

// Detect returns the skills found in text, ordered for jobRole. It never
// fails: any problem on the AI path degrades to keyword detection.
func (d *Detector) Detect(ctx context.Context, text, jobRole string) []DetectedSkill {
	var outcome cascade.Outcome[[]DetectedSkill]
	if d.gate.Available() {
		outcome = cascade.Attempt(ctx, d.logger, "detect_skills", func(ctx context.Context) ([]DetectedSkill, error) {
			return d.detectWithAI(ctx, text, jobRole)
		})
	} else {
		outcome = cascade.Skip[[]DetectedSkill]("detect_skills", completion.ErrDisabled)
	}

	skills := outcome.OrElse(func() []DetectedSkill {
		return d.detectWithKeywords(ctx, text)
	})

	return Prioritize(skills, jobRole, d.priorities)
}

func (d *Detector) detectWithAI(ctx context.Context, text, jobRole string) ([]DetectedSkill, error) {
	raw, err := d.gate.Complete(ctx, completion.Prompt{
		System: detectSystemPrompt,
		User:   buildDetectPrompt(d.bank.Keys(), truncate(text, resumePromptLimit), jobRole),
		Options: completion.Options{
			Temperature: 0.1,
		},
	})
	if err != nil {
		return nil, err
	}

	records, err := d.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	parsed, dropped := llmjson.Decode[llmjson.SkillRecord](records)

	var (
		out     []DetectedSkill
		seen    = make(map[string]bool)
		unknown int
	)
	for _, rec := range parsed {
		key, ok := d.bank.Lookup(rec.Skill)
		if !ok {
			unknown++
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, DetectedSkill{
			Key:     key,
			Name:    d.bank.DisplayName(key),
			Level:   questionbank.ParseLevel(rec.Level),
			Context: strings.TrimSpace(rec.Context),
		})
	}

	if dropped+unknown > 0 {
		metrics.RecordsDroppedTotal.WithLabelValues("skill").Add(float64(dropped + unknown))
		d.logger.Debug("dropped model skill records", "malformed", dropped, "unknown_skill", unknown)
	}

	if len(out) == 0 {
		return nil, cascade.ErrEmpty
	}
	return out, nil
}

func (d *Detector) detectWithKeywords(ctx context.Context, text string) []DetectedSkill {
	normalized := vocabulary.Normalize(text)

	var out []DetectedSkill
	for _, m := range d.vocab.Canonicalize(normalized) {
		out = append(out, DetectedSkill{
			Key:   m.Key,
			Name:  d.bank.DisplayName(m.Key),
			Level: d.inferLevel(ctx, normalized, m),
		})
	}
	return out
}

// ============================================================================
// Level inference
// ============================================================================

func (d *Detector) inferLevel(ctx context.Context, normalized string, m vocabulary.Match) questionbank.Level {
	var outcome cascade.Outcome[questionbank.Level]
	if d.aiLevels && d.gate.Available() {
		outcome = cascade.Attempt(ctx, d.logger, "infer_level", func(ctx context.Context) (questionbank.Level, error) {
			return d.inferLevelWithAI(ctx, normalized, m)
		})
	} else {
		outcome = cascade.Skip[questionbank.Level]("infer_level", completion.ErrDisabled)
	}

	return outcome.OrElse(func() questionbank.Level {
		return InferLevel(normalized, m.Variant)
	})
}

// inferLevelWithAI asks for a one-word level. Any answer that is not a
// level word counts as intermediate; only a failed call falls back.
func (d *Detector) inferLevelWithAI(ctx context.Context, normalized string, m vocabulary.Match) (questionbank.Level, error) {
	var contexts []string
	for _, start := range occurrences(normalized, m.Variant) {
		contexts = append(contexts, window(normalized, start, start+len(m.Variant), levelContextRadius))
		if len(contexts) == maxLevelContexts {
			break
		}
	}
	if len(contexts) == 0 {
		return "", cascade.ErrEmpty
	}

	raw, err := d.gate.Complete(ctx, completion.Prompt{
		System: levelSystemPrompt,
		User:   buildLevelPrompt(m.Key, contexts),
		Options: completion.Options{
			MaxTokens:   5,
			Temperature: 0,
		},
	})
	if err != nil {
		return "", err
	}

	word := strings.Trim(strings.TrimSpace(raw), `"'.!`)
	if fields := strings.Fields(word); len(fields) > 0 {
		word = fields[0]
	}
	return questionbank.ParseLevel(word), nil
}

// ============================================================================
// Prompt builders
// ============================================================================

const detectSystemPrompt = "You are a technical resume analyzer. You identify technical skills and assess proficiency levels from resume text. Always respond with valid JSON only."

const levelSystemPrompt = "You are a technical recruiter analyzing skill proficiency levels. Respond with only one word: beginner, intermediate, or advanced."

func buildDetectPrompt(keys []string, resume, jobRole string) string {
	skills := strings.Join(keys, ", ")
	role := strings.TrimSpace(jobRole)
	if role == "" {
		role = "none"
	}

	return fmt.Sprintf(`Analyze the following resume text and identify technical skills that match these available skills: %s

Resume text:
%s

For each skill you detect, provide:
1. The skill name (must match one of the available skills exactly: %s)
2. The proficiency level: beginner, intermediate, or advanced
3. Brief context from the resume that supports your assessment

Return your response as a JSON array with this format:
[
  {"skill": "python", "level": "advanced", "context": "brief context"},
  {"skill": "git", "level": "intermediate", "context": "brief context"}
]

Only include skills that are clearly mentioned or implied in the resume. If a job role is specified (%s), prioritize skills relevant to that role.

Return ONLY valid JSON, no additional text.`, skills, resume, skills, role)
}

func buildLevelPrompt(skill string, contexts []string) string {
	return fmt.Sprintf(`Analyze the following resume excerpts that mention the skill %q and determine the proficiency level.

Resume excerpts:
%s

Based on the context, experience descriptions, years of experience, project complexity, and language used, determine if the proficiency level is:
- "beginner": Basic knowledge, learning, introductory experience, familiar with
- "intermediate": Proficient, comfortable, 2-4 years experience, working knowledge
- "advanced": Expert, senior level, 5+ years, deep expertise, lead/architect experience

Respond with ONLY one word: "beginner", "intermediate", or "advanced".`, skill, strings.Join(contexts, "\n\n---\n\n"))
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
