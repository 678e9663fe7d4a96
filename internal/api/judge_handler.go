package api

import (
	"encoding/json"
	"mime"
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type JudgeRequest struct {
	Skill         string `json:"skill" validate:"required" example:"python"`
	Level         string `json:"level" validate:"required" example:"beginner"`
	Question      string `json:"question" validate:"required" example:"Explain what is a list comprehension in python"`
	ResumeSnippet string `json:"resumeSnippet,omitempty"`
}

// fillFromQuery copies query parameters into fields the body left empty.
func (r *JudgeRequest) fillFromQuery(q map[string][]string) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	if r.Skill == "" {
		r.Skill = get("skill")
	}
	if r.Level == "" {
		r.Level = get("level")
	}
	if r.Question == "" {
		r.Question = get("question")
	}
	if r.ResumeSnippet == "" {
		r.ResumeSnippet = get("resumeSnippet")
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// judgeQuestion checks that a question suits its skill and level. Every
// evaluation is written to the audit trail.
// @Summary      Judge a question
// @Description  Heuristic check that a question mentions its skill and matches the level. Fields may be sent as JSON or as query parameters.
// @Tags         Agents
// @Accept       json
// @Produce      json
// @Param        body      body      JudgeRequest  false  "Question to judge"
// @Param        skill     query     string        false  "Skill"
// @Param        level     query     string        false  "Level"
// @Param        question  query     string        false  "Question"
// @Success      200  {object}  judge.Verdict
// @Failure      400  {object}  map[string]string
// @Router       /agents/judge [post]
func (h *Handler) judgeQuestion(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	req.fillFromQuery(r.URL.Query())
	if !h.check(w, &req) {
		return
	}

	respondJSON(w, http.StatusOK, h.svc.Judge(r.Context(), req.Skill, req.Level, req.Question))
}
