// Package generator builds the interview question list for detected skills.
// Personalized questions come from the completion provider when it is
// available; the question bank fills whatever the model does not cover.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/remaimber-it/interviewer/internal/cascade"
	"github.com/remaimber-it/interviewer/internal/completion"
	"github.com/remaimber-it/interviewer/internal/detector"
	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/llmjson"
	"github.com/remaimber-it/interviewer/internal/metrics"
	"github.com/remaimber-it/interviewer/internal/rotator"
	"github.com/remaimber-it/interviewer/internal/worker"
)

const (
	MaxQuestions = 5
	MinQuestions = 3

	resumePromptLimit = 2000
	referenceSkills   = 3
	solutionSentences = 2
)

// ErrNoQuestionsAvailable means neither the model nor the bank could
// produce a question for the requested skill and level.
var ErrNoQuestionsAvailable = errors.New("no questions available")

// Source records where a question came from.
type Source string

const (
	SourceAI   Source = "ai"
	SourceBank Source = "bank"
)

// Question is one generated interview question.
type Question struct {
	Skill    string
	Level    questionbank.Level
	Text     string
	Solution string
	Source   Source
}

// Config tunes a Generator.
type Config struct {
	IncludeSolutions bool
	SolutionWorkers  int
}

type Generator struct {
	bank    *questionbank.QuestionBank
	rotator *rotator.Rotator
	gate    *completion.Gate
	parser  *llmjson.Parser
	cfg     Config
	logger  *slog.Logger
}

// New creates a Generator. gate may be nil, meaning bank questions only.
func New(bank *questionbank.QuestionBank, rot *rotator.Rotator, gate *completion.Gate, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SolutionWorkers < 1 {
		cfg.SolutionWorkers = 1
	}
	return &Generator{
		bank:    bank,
		rotator: rot,
		gate:    gate,
		parser:  llmjson.New("skill", "level", "question"),
		cfg:     cfg,
		logger:  logger,
	}
}

// ============================================================================
// Question list
// ============================================================================

// Generate returns at most MaxQuestions questions in detected-skill order.
//
// Model questions are taken as they come and may repeat a skill; this is
// kept on purpose pending a product decision. Bank backfill adds at most one
// question per skill not yet covered, first at the detected level, then at
// intermediate while fewer than MinQuestions exist.
func (g *Generator) Generate(ctx context.Context, skills []detector.DetectedSkill, resumeText string) []Question {
	if len(skills) == 0 {
		return nil
	}

	var outcome cascade.Outcome[[]Question]
	if g.gate.Available() && strings.TrimSpace(resumeText) != "" {
		outcome = cascade.Attempt(ctx, g.logger, "generate_questions", func(ctx context.Context) ([]Question, error) {
			return g.generateWithAI(ctx, skills, resumeText)
		})
	} else {
		outcome = cascade.Skip[[]Question]("generate_questions", completion.ErrDisabled)
	}
	questions := outcome.OrElse(func() []Question { return nil })

	if len(questions) < MaxQuestions {
		questions = g.backfill(questions, skills)
	}
	if len(questions) > MaxQuestions {
		questions = questions[:MaxQuestions]
	}

	for _, q := range questions {
		metrics.QuestionsServedTotal.WithLabelValues(string(q.Source)).Inc()
	}

	if g.cfg.IncludeSolutions {
		g.attachSolutions(ctx, questions)
	}
	return questions
}

func (g *Generator) backfill(questions []Question, skills []detector.DetectedSkill) []Question {
	covered := make(map[string]bool, len(questions))
	for _, q := range questions {
		covered[q.Skill] = true
	}

	pass := func(limit int, levelOf func(detector.DetectedSkill) questionbank.Level) {
		for _, s := range skills {
			if len(questions) >= limit {
				return
			}
			if covered[s.Key] {
				continue
			}
			level := levelOf(s)
			text, ok := g.rotator.Next(g.bank, s.Key, level, "")
			if !ok {
				continue
			}
			questions = append(questions, Question{Skill: s.Key, Level: level, Text: text, Source: SourceBank})
			covered[s.Key] = true
		}
	}

	pass(MaxQuestions, func(s detector.DetectedSkill) questionbank.Level { return s.Level })
	if len(questions) < MinQuestions {
		pass(MinQuestions, func(detector.DetectedSkill) questionbank.Level { return questionbank.LevelIntermediate })
	}
	return questions
}

func (g *Generator) generateWithAI(ctx context.Context, skills []detector.DetectedSkill, resumeText string) ([]Question, error) {
	raw, err := g.gate.Complete(ctx, completion.Prompt{
		System: generateSystemPrompt,
		User:   g.buildGeneratePrompt(skills, truncate(resumeText, resumePromptLimit)),
		Options: completion.Options{
			Temperature: 0.7,
		},
	})
	if err != nil {
		return nil, err
	}

	records, err := g.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	parsed, dropped := llmjson.Decode[llmjson.QuestionRecord](records)

	var out []Question
	for _, rec := range parsed {
		key, ok := g.bank.Lookup(rec.Skill)
		if !ok {
			dropped++
			continue
		}
		out = append(out, Question{
			Skill:  key,
			Level:  questionbank.ParseLevel(rec.Level),
			Text:   strings.TrimSpace(rec.Question),
			Source: SourceAI,
		})
		if len(out) == MaxQuestions {
			break
		}
	}

	if dropped > 0 {
		metrics.RecordsDroppedTotal.WithLabelValues("question").Add(float64(dropped))
		g.logger.Debug("dropped model question records", "count", dropped)
	}

	if len(out) == 0 {
		return nil, cascade.ErrEmpty
	}
	return out, nil
}

// ============================================================================
// Single fresh question
// ============================================================================

// Fresh returns one question for (skill, level) that differs from exclude
// when possible. The model is asked only when a resume hint is given; the
// bank rotation is used otherwise or when the model fails.
func (g *Generator) Fresh(ctx context.Context, skill string, level questionbank.Level, exclude, resumeHint string) (Question, error) {
	var outcome cascade.Outcome[Question]
	if g.gate.Available() && strings.TrimSpace(resumeHint) != "" {
		outcome = cascade.Attempt(ctx, g.logger, "fresh_question", func(ctx context.Context) (Question, error) {
			return g.freshWithAI(ctx, skill, level, exclude, resumeHint)
		})
	} else {
		outcome = cascade.Skip[Question]("fresh_question", completion.ErrDisabled)
	}

	q := outcome.OrElse(func() Question {
		text, ok := g.rotator.Next(g.bank, skill, level, exclude)
		if !ok {
			return Question{}
		}
		return Question{Skill: skill, Level: level, Text: text, Source: SourceBank}
	})
	if q.Text == "" {
		return Question{}, fmt.Errorf("%s/%s: %w", skill, level, ErrNoQuestionsAvailable)
	}

	metrics.QuestionsServedTotal.WithLabelValues(string(q.Source)).Inc()
	if g.cfg.IncludeSolutions {
		q.Solution = g.solve(ctx, q)
	}
	return q, nil
}

func (g *Generator) freshWithAI(ctx context.Context, skill string, level questionbank.Level, exclude, resumeHint string) (Question, error) {
	raw, err := g.gate.Complete(ctx, completion.Prompt{
		System: generateSystemPrompt,
		User:   g.buildFreshPrompt(skill, level, exclude, truncate(resumeHint, resumePromptLimit)),
		Options: completion.Options{
			Temperature: 0.9,
		},
	})
	if err != nil {
		return Question{}, err
	}

	records, err := g.parser.Parse(raw)
	if err != nil {
		return Question{}, err
	}

	parsed, _ := llmjson.Decode[llmjson.QuestionRecord](records)
	for _, rec := range parsed {
		key, ok := g.bank.Lookup(rec.Skill)
		text := strings.TrimSpace(rec.Question)
		if !ok || key != skill || text == exclude {
			continue
		}
		return Question{Skill: skill, Level: level, Text: text, Source: SourceAI}, nil
	}
	return Question{}, cascade.ErrEmpty
}

// ============================================================================
// Solutions
// ============================================================================

func (g *Generator) attachSolutions(ctx context.Context, questions []Question) {
	if !g.gate.Available() || len(questions) == 0 {
		return
	}

	jobs := make(map[string]worker.Job[string], len(questions))
	for i, q := range questions {
		jobs[strconv.Itoa(i)] = func(ctx context.Context) string {
			return g.solve(ctx, q)
		}
	}

	for id, solution := range worker.Run(ctx, g.cfg.SolutionWorkers, jobs) {
		i, _ := strconv.Atoi(id)
		questions[i].Solution = solution
	}
}

// solve asks for a short model answer. Failures leave the solution empty.
func (g *Generator) solve(ctx context.Context, q Question) string {
	if !g.gate.Available() {
		return ""
	}

	raw, err := g.gate.Complete(ctx, completion.Prompt{
		System: solutionSystemPrompt,
		User:   buildSolutionPrompt(q),
		Options: completion.Options{
			MaxTokens:   60,
			Temperature: 0.3,
			Stop:        []string{"\n\n"},
		},
	})
	if err != nil {
		g.logger.Warn("solution generation failed", "skill", q.Skill, "error", err)
		return ""
	}
	return TruncateSentences(raw, solutionSentences)
}

// TruncateSentences keeps the first n sentences of text, collapsing
// whitespace. A sentence ends at '.', '!' or '?' followed by a space or the
// end of the text. Text with fewer sentences is returned whole.
func TruncateSentences(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		count++
		if count == n {
			return string(runes[:i+1])
		}
	}
	return text
}

// ============================================================================
// Prompt builders
// ============================================================================

const generateSystemPrompt = "You are an expert technical interviewer. You create personalized, level-appropriate technical interview questions based on resume analysis. Always respond with valid JSON only."

const solutionSystemPrompt = "You are a senior engineer giving model answers to interview questions. Answer in at most two short sentences."

type promptSkill struct {
	Skill       string `json:"skill"`
	DisplayName string `json:"displayName"`
	Level       string `json:"level"`
	Context     string `json:"context"`
}

func (g *Generator) buildGeneratePrompt(skills []detector.DetectedSkill, resume string) string {
	var examples []string
	for _, s := range skills[:min(referenceSkills, len(skills))] {
		qs := g.bank.Questions(s.Key, s.Level)
		if len(qs) == 0 {
			continue
		}
		examples = append(examples, fmt.Sprintf("Skill: %s, Level: %s, Example: %q", s.Key, s.Level, qs[0]))
	}

	list := make([]promptSkill, len(skills))
	for i, s := range skills {
		list[i] = promptSkill{Skill: s.Key, DisplayName: s.Name, Level: string(s.Level), Context: s.Context}
	}
	skillsJSON, _ := json.MarshalIndent(list, "", "  ")

	return fmt.Sprintf(`You are a technical interviewer creating personalized interview questions based on a candidate's resume.

Reference question examples (to understand the style and difficulty):
%s

Candidate's detected skills and proficiency levels:
%s

Resume context (relevant excerpts):
%s

Generate 3-5 technical interview questions that:
1. Match the skill and proficiency level for each detected skill
2. Are personalized based on the resume context
3. Are appropriate for the stated proficiency level:
   - Beginner: Basic concepts, definitions, simple usage
   - Intermediate: Practical application, problem-solving, common patterns
   - Advanced: Complex scenarios, optimization, architecture, deep understanding
4. Are specific and technical (not generic "tell me about yourself" questions)

Return your response as a JSON array with this format:
[
  {"skill": "python", "level": "advanced", "question": "Your generated question here"},
  {"skill": "git", "level": "intermediate", "question": "Your generated question here"}
]

Generate questions for the top skills first. Return exactly 3-5 questions total.
Return ONLY valid JSON, no additional text.`, strings.Join(examples, "\n"), skillsJSON, resume)
}

func (g *Generator) buildFreshPrompt(skill string, level questionbank.Level, exclude, resume string) string {
	example := ""
	if qs := g.bank.Questions(skill, level); len(qs) > 0 {
		example = fmt.Sprintf("\nReference question (style only, do not repeat it): %q\n", qs[0])
	}
	avoid := ""
	if exclude != "" {
		avoid = fmt.Sprintf("\nThe new question must be different from: %q\n", exclude)
	}

	return fmt.Sprintf(`Create one new %s-level technical interview question about %s (skill key %q) for this candidate.
%s%s
Resume context:
%s

Return ONLY this JSON, no additional text:
[{"skill": %q, "level": %q, "question": "Your generated question here"}]`,
		level, g.bank.DisplayName(skill), skill, example, avoid, resume, skill, level)
}

func buildSolutionPrompt(q Question) string {
	return fmt.Sprintf(`Give a concise model answer (at most 2 sentences, about 60 tokens) to this %s interview question for a %s candidate:

%s

Answer:`, q.Skill, q.Level, q.Text)
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
