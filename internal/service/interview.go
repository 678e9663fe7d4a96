// internal/service/interview.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/remaimber-it/interviewer/internal/completion"
	"github.com/remaimber-it/interviewer/internal/detector"
	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/generator"
	"github.com/remaimber-it/interviewer/internal/id"
	"github.com/remaimber-it/interviewer/internal/judge"
	"github.com/remaimber-it/interviewer/internal/store"
	"github.com/remaimber-it/interviewer/internal/textextract"
)

const (
	// minMeaningfulChars is the smallest resume worth analyzing.
	minMeaningfulChars = 10
	// excerptLimit bounds the resume text kept with a stored analysis.
	excerptLimit = 2000
	saveTimeout  = 10 * time.Second
)

var ErrUnknownSkill = errors.New("unknown skill")

// Result is the outcome of one resume analysis.
type Result struct {
	ID        string
	Skills    []detector.DetectedSkill
	Questions []generator.Question
}

// RefreshRequest asks for one replacement question.
type RefreshRequest struct {
	Skill      string
	Level      questionbank.Level
	Exclude    string
	ResumeText string // optional personalisation hint
	AnalysisID string // hint source when ResumeText is empty
}

// Deps wires an InterviewService. Store may be nil, which disables
// persistence of analyses.
type Deps struct {
	Bank      *questionbank.QuestionBank
	Extractor textextract.Extractor
	Detector  *detector.Detector
	Generator *generator.Generator
	Judge     *judge.Judge
	Gate      *completion.Gate
	Store     store.Store
}

// InterviewService orchestrates analysis and question refresh. Persisting
// an analysis happens in the background; Wait blocks until those writes
// finish so shutdown does not lose them.
type InterviewService struct {
	bank      *questionbank.QuestionBank
	extractor textextract.Extractor
	detector  *detector.Detector
	generator *generator.Generator
	judge     *judge.Judge
	gate      *completion.Gate
	store     store.Store
	logger    *slog.Logger

	pending sync.WaitGroup
	now     func() time.Time
}

func NewInterviewService(deps Deps, logger *slog.Logger) *InterviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InterviewService{
		bank:      deps.Bank,
		extractor: deps.Extractor,
		detector:  deps.Detector,
		generator: deps.Generator,
		judge:     deps.Judge,
		gate:      deps.Gate,
		store:     deps.Store,
		logger:    logger,
		now:       time.Now,
	}
}

// AIAvailable reports whether the completion provider answered its ping.
func (s *InterviewService) AIAvailable() bool {
	return s.gate.Available()
}

// Analyze extracts text from doc and analyzes it. Extraction failures are
// returned as *textextract.ExtractionError.
func (s *InterviewService) Analyze(ctx context.Context, doc []byte, jobRole string) (*Result, error) {
	text, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeText(ctx, text, jobRole)
}

// AnalyzeText detects skills in resume text and generates questions for
// them. Text with fewer than ten non-space characters yields an empty result.
func (s *InterviewService) AnalyzeText(ctx context.Context, text, jobRole string) (*Result, error) {
	if textextract.Meaningful(text) < minMeaningfulChars {
		s.logger.Info("resume text too short to analyze", "length", len(text))
		return &Result{Skills: []detector.DetectedSkill{}, Questions: []generator.Question{}}, nil
	}

	skills := s.detector.Detect(ctx, text, jobRole)
	questions := s.generator.Generate(ctx, skills, text)
	if skills == nil {
		skills = []detector.DetectedSkill{}
	}
	if questions == nil {
		questions = []generator.Question{}
	}

	res := &Result{
		ID:        id.NewAnalysisID(),
		Skills:    skills,
		Questions: questions,
	}
	s.logger.Info("resume analyzed",
		"analysis_id", res.ID,
		"skills", len(skills),
		"questions", len(questions),
		"job_role", jobRole,
	)

	s.persist(ctx, toAnalysis(res, jobRole, text, s.now()))
	return res, nil
}

// persist saves the analysis in the background. The write is detached from
// the request context so it survives the response being sent.
func (s *InterviewService) persist(ctx context.Context, a *store.Analysis) {
	if s.store == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()

		if err := s.store.SaveAnalysis(ctx, a); err != nil {
			s.logger.Error("failed to save analysis", "analysis_id", a.ID, "error", err)
		}
	}()
}

// Wait blocks until every background save has finished.
func (s *InterviewService) Wait() {
	s.pending.Wait()
}

// GetAnalysis returns a stored analysis.
func (s *InterviewService) GetAnalysis(ctx context.Context, analysisID string) (*store.Analysis, error) {
	if s.store == nil {
		return nil, store.ErrNotFound
	}
	return s.store.GetAnalysis(ctx, analysisID)
}

// ListAnalyses returns summaries of the most recent analyses.
func (s *InterviewService) ListAnalyses(ctx context.Context, limit int) ([]store.AnalysisSummary, error) {
	if s.store == nil {
		return []store.AnalysisSummary{}, nil
	}
	return s.store.ListAnalyses(ctx, limit)
}

// Refresh returns one fresh question for a skill and level, avoiding
// req.Exclude when an alternative exists.
func (s *InterviewService) Refresh(ctx context.Context, req RefreshRequest) (generator.Question, error) {
	key, ok := s.bank.Lookup(strings.TrimSpace(req.Skill))
	if !ok {
		return generator.Question{}, fmt.Errorf("%q: %w", req.Skill, ErrUnknownSkill)
	}
	level := questionbank.ParseLevel(string(req.Level))

	return s.generator.Fresh(ctx, key, level, req.Exclude, s.resumeHint(ctx, req))
}

func (s *InterviewService) resumeHint(ctx context.Context, req RefreshRequest) string {
	if req.ResumeText != "" || req.AnalysisID == "" || s.store == nil {
		return req.ResumeText
	}

	a, err := s.store.GetAnalysis(ctx, req.AnalysisID)
	if err != nil {
		// The hint is optional; a missing analysis only loses personalisation.
		s.logger.Debug("refresh hint unavailable", "analysis_id", req.AnalysisID, "error", err)
		return ""
	}
	return a.ResumeExcerpt
}

// Judge evaluates a question against its skill and level.
func (s *InterviewService) Judge(ctx context.Context, skill, level, question string) judge.Verdict {
	return s.judge.Evaluate(ctx, skill, level, question)
}

func toAnalysis(res *Result, jobRole, text string, now time.Time) *store.Analysis {
	a := &store.Analysis{
		ID:            res.ID,
		JobRole:       jobRole,
		Skills:        make([]store.StoredSkill, 0, len(res.Skills)),
		Questions:     make([]store.StoredQuestion, 0, len(res.Questions)),
		TextLength:    len(text),
		ResumeExcerpt: excerpt(text, excerptLimit),
		CreatedAt:     now.UTC(),
	}
	for _, sk := range res.Skills {
		a.Skills = append(a.Skills, store.StoredSkill{
			Key:     sk.Key,
			Name:    sk.Name,
			Level:   string(sk.Level),
			Context: sk.Context,
		})
	}
	for _, q := range res.Questions {
		a.Questions = append(a.Questions, store.StoredQuestion{
			Skill:    q.Skill,
			Level:    string(q.Level),
			Question: q.Text,
			Solution: q.Solution,
			Source:   string(q.Source),
		})
	}
	return a
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
