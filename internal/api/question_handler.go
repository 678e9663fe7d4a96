package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/generator"
	"github.com/remaimber-it/interviewer/internal/id"
	"github.com/remaimber-it/interviewer/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type RefreshQuestionRequest struct {
	Skill           string `json:"skill" validate:"required,max=100" example:"python"`
	Level           string `json:"level" validate:"required,max=32" example:"intermediate"`
	ExcludeQuestion string `json:"exclude_question,omitempty" example:"What is a Python decorator?"`
	ResumeText      string `json:"resume_text,omitempty" validate:"max=20000"`
	AnalysisID      string `json:"analysis_id,omitempty" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
}

func (r *RefreshQuestionRequest) Validate() error {
	if r.AnalysisID != "" && !id.ValidAnalysisID(r.AnalysisID) {
		return errors.New("analysis_id must be a UUID")
	}
	return nil
}

// ── Handlers ────────────────────────────────────────────────────────────────

// refreshQuestion returns one replacement question for a skill and level.
// @Summary      Refresh a question
// @Description  Returns a fresh question for the skill and level, different from exclude_question when possible. Unknown levels are treated as intermediate.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshQuestionRequest  true  "Skill and level"
// @Success      200   {object}  QuestionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "no questions for skill and level"
// @Failure      500   {object}  map[string]string
// @Router       /api/refresh_question [post]
func (h *Handler) refreshQuestion(w http.ResponseWriter, r *http.Request) {
	var req RefreshQuestionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	q, err := h.svc.Refresh(r.Context(), service.RefreshRequest{
		Skill:      req.Skill,
		Level:      questionbank.Level(req.Level),
		Exclude:    req.ExcludeQuestion,
		ResumeText: req.ResumeText,
		AnalysisID: req.AnalysisID,
	})
	switch {
	case errors.Is(err, service.ErrUnknownSkill), errors.Is(err, generator.ErrNoQuestionsAvailable):
		respondError(w, http.StatusNotFound,
			fmt.Sprintf("No questions available for skill '%s' at level '%s'", req.Skill, req.Level))
		return
	case err != nil:
		loggerFrom(r.Context(), h.logger).Error("refresh failed", "error", err, "skill", req.Skill)
		respondError(w, http.StatusInternalServerError, "Error refreshing question")
		return
	}

	respondJSON(w, http.StatusOK, toQuestionResponse(q))
}
