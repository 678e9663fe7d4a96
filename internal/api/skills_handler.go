package api

import (
	"net/http"

	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
)

type SkillSummary struct {
	Key          string         `json:"key" example:"python"`
	DisplayName  string         `json:"display_name" example:"Python"`
	PerLevel     map[string]int `json:"per_level"`
	Total        int            `json:"total" example:"15"`
	MissingLevel []string       `json:"missing_levels,omitempty"`
}

type SkillsResponse struct {
	Skills         []SkillSummary `json:"skills"`
	TotalQuestions int            `json:"total_questions" example:"120"`
}

// listSkills describes the loaded question bank.
// @Summary      List bank skills
// @Description  Skills known to the question bank with question counts per level.
// @Tags         Questions
// @Produce      json
// @Success      200  {object}  SkillsResponse
// @Router       /api/skills [get]
func (h *Handler) listSkills(w http.ResponseWriter, r *http.Request) {
	stats := h.bank.Stats()

	resp := SkillsResponse{
		Skills:         make([]SkillSummary, 0, len(stats.PerSkill)),
		TotalQuestions: stats.TotalQuestions,
	}
	for _, s := range stats.PerSkill {
		sum := SkillSummary{
			Key:         s.Skill,
			DisplayName: s.DisplayName,
			PerLevel:    make(map[string]int, len(questionbank.Levels)),
			Total:       s.Total,
		}
		for lvl, n := range s.PerLevel {
			sum.PerLevel[string(lvl)] = n
		}
		for _, lvl := range s.MissingLevel {
			sum.MissingLevel = append(sum.MissingLevel, string(lvl))
		}
		resp.Skills = append(resp.Skills, sum)
	}
	respondJSON(w, http.StatusOK, resp)
}
