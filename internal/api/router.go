// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/remaimber-it/interviewer/internal/metrics"
)

// RouterConfig tunes the outer middleware chain.
type RouterConfig struct {
	CORSOrigins     []string
	RateLimitPerMin int // per client IP on resume analysis; 0 disables
}

// Route is one API endpoint. Path uses ServeMux wildcard syntax, which is
// also the swagger path syntax.
type Route struct {
	Method  string
	Path    string
	Handler http.Handler
}

// Routes lists the API endpoints served by h.
func Routes(h *Handler, rateLimitPerMin int) []Route {
	analyze := http.Handler(http.HandlerFunc(h.analyzeResume))
	if rateLimitPerMin > 0 {
		analyze = httprate.LimitByIP(rateLimitPerMin, time.Minute)(analyze)
	}

	return []Route{
		{http.MethodGet, "/api/health", http.HandlerFunc(h.health)},
		{http.MethodPost, "/api/analyze_resume", analyze},
		{http.MethodGet, "/api/analyses", http.HandlerFunc(h.listAnalyses)},
		{http.MethodGet, "/api/analyses/{analysisID}", http.HandlerFunc(h.getAnalysis)},
		{http.MethodPost, "/api/refresh_question", http.HandlerFunc(h.refreshQuestion)},
		{http.MethodGet, "/api/skills", http.HandlerFunc(h.listSkills)},
		{http.MethodPost, "/agents/judge", http.HandlerFunc(h.judgeQuestion)},
	}
}

// RegisterRoutes mounts the API endpoints on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler, rateLimitPerMin int) {
	for _, rt := range Routes(h, rateLimitPerMin) {
		mux.Handle(rt.Method+" "+rt.Path, rt.Handler)
	}
}

// NewRouter builds the full HTTP handler:
// Recoverer → RequestID → Logging → CORS → Metrics → mux.
func NewRouter(h *Handler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, h, cfg.RateLimitPerMin)

	metrics.Init()
	mux.Handle("GET /metrics", metrics.Handler())

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	// Metrics reads r.Pattern, which the mux sets on the request it was
	// handed, so it must wrap the mux directly.
	handler = metrics.Middleware(handler)
	handler = CORS(cfg.CORSOrigins)(handler)
	handler = Logging(logger)(handler)
	handler = RequestID(logger)(handler)
	handler = Recoverer(logger)(handler)
	return handler
}
