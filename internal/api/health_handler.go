package api

import "net/http"

type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	Message     string `json:"message" example:"Resume Interviewer API is running"`
	AIAvailable bool   `json:"ai_available" example:"true"`
}

// health reports liveness and whether a completion provider is reachable.
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /api/health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Message:     "Resume Interviewer API is running",
		AIAvailable: h.svc.AIAvailable(),
	})
}
