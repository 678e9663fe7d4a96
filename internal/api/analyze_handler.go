package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/remaimber-it/interviewer/internal/detector"
	"github.com/remaimber-it/interviewer/internal/generator"
	"github.com/remaimber-it/interviewer/internal/store"
	"github.com/remaimber-it/interviewer/internal/textextract"
)

// ── Request / Response types ────────────────────────────────────────────────

type SkillResponse struct {
	Name  string `json:"name" example:"Python"`
	Key   string `json:"key" example:"python"`
	Level string `json:"level" example:"advanced"`
}

type QuestionResponse struct {
	Skill    string `json:"skill" example:"python"`
	Level    string `json:"level" example:"advanced"`
	Question string `json:"question" example:"How would you profile a slow Python service?"`
	Solution string `json:"solution,omitempty"`
	Source   string `json:"source" example:"bank"`
}

type AnalyzeResponse struct {
	ID        string             `json:"id,omitempty" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	Skills    []SkillResponse    `json:"skills"`
	Questions []QuestionResponse `json:"questions"`
}

type AnalysisResponse struct {
	ID         string             `json:"id"`
	JobRole    string             `json:"job_role"`
	Skills     []SkillResponse    `json:"skills"`
	Questions  []QuestionResponse `json:"questions"`
	TextLength int                `json:"text_length"`
	CreatedAt  time.Time          `json:"created_at"`
}

func toSkillResponses(skills []detector.DetectedSkill) []SkillResponse {
	out := make([]SkillResponse, len(skills))
	for i, s := range skills {
		out[i] = SkillResponse{Name: s.Name, Key: s.Key, Level: string(s.Level)}
	}
	return out
}

func toQuestionResponse(q generator.Question) QuestionResponse {
	return QuestionResponse{
		Skill:    q.Skill,
		Level:    string(q.Level),
		Question: q.Text,
		Solution: q.Solution,
		Source:   string(q.Source),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// analyzeResume extracts skills from an uploaded resume and generates
// interview questions for them.
// @Summary      Analyze a resume
// @Description  Upload a PDF resume; returns detected skills with levels and 3-5 interview questions.
// @Tags         Resume
// @Accept       multipart/form-data
// @Produce      json
// @Param        resumeFile  formData  file    true   "PDF resume"
// @Param        jobRole     formData  string  false  "Job role used to prioritise skills, e.g. Data Science"
// @Success      200  {object}  AnalyzeResponse
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/analyze_resume [post]
func (h *Handler) analyzeResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("resumeFile")
	if err != nil {
		respondError(w, http.StatusBadRequest, "resumeFile is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read resumeFile")
		return
	}
	if !mimetype.Detect(data).Is("application/pdf") {
		respondError(w, http.StatusBadRequest, "File must be a PDF")
		return
	}

	jobRole := strings.TrimSpace(r.FormValue("jobRole"))
	res, err := h.svc.Analyze(r.Context(), data, jobRole)
	if err != nil {
		var ee *textextract.ExtractionError
		if errors.As(err, &ee) {
			respondError(w, http.StatusBadRequest, ee.Error())
			return
		}
		loggerFrom(r.Context(), h.logger).Error("analyze failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error analyzing resume")
		return
	}

	questions := make([]QuestionResponse, len(res.Questions))
	for i, q := range res.Questions {
		questions[i] = toQuestionResponse(q)
	}
	respondJSON(w, http.StatusOK, AnalyzeResponse{
		ID:        res.ID,
		Skills:    toSkillResponses(res.Skills),
		Questions: questions,
	})
}

// getAnalysis returns a previously stored analysis.
// @Summary      Get an analysis
// @Tags         Resume
// @Produce      json
// @Param        analysisID  path      string  true  "Analysis ID"
// @Success      200  {object}  AnalysisResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/analyses/{analysisID} [get]
func (h *Handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAnalysis(r.Context(), r.PathValue("analysisID"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		loggerFrom(r.Context(), h.logger).Error("store error", "error", err, "entity", "analysis")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := AnalysisResponse{
		ID:         a.ID,
		JobRole:    a.JobRole,
		Skills:     make([]SkillResponse, len(a.Skills)),
		Questions:  make([]QuestionResponse, len(a.Questions)),
		TextLength: a.TextLength,
		CreatedAt:  a.CreatedAt,
	}
	for i, s := range a.Skills {
		resp.Skills[i] = SkillResponse{Name: s.Name, Key: s.Key, Level: s.Level}
	}
	for i, q := range a.Questions {
		resp.Questions[i] = QuestionResponse{
			Skill:    q.Skill,
			Level:    q.Level,
			Question: q.Question,
			Solution: q.Solution,
			Source:   q.Source,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// listAnalyses returns the most recent analyses, newest first.
// @Summary      List analyses
// @Tags         Resume
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of results (default 50, max 200)"
// @Success      200    {array}   store.AnalysisSummary
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/analyses [get]
func (h *Handler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, 200)
	}

	summaries, err := h.svc.ListAnalyses(r.Context(), limit)
	if err != nil {
		loggerFrom(r.Context(), h.logger).Error("store error", "error", err, "entity", "analysis")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}
