package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaimber-it/interviewer/docs"
	"github.com/remaimber-it/interviewer/internal/api"
	"github.com/remaimber-it/interviewer/internal/detector"
	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/domain/vocabulary"
	"github.com/remaimber-it/interviewer/internal/generator"
	"github.com/remaimber-it/interviewer/internal/judge"
	"github.com/remaimber-it/interviewer/internal/rotator"
	"github.com/remaimber-it/interviewer/internal/service"
	"github.com/remaimber-it/interviewer/internal/store"
	"github.com/remaimber-it/interviewer/internal/textextract"
)

var fakePDF = []byte("%PDF-1.4\n% test document\n")

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Extract(context.Context, []byte) (string, error) {
	return s.text, s.err
}

type testServer struct {
	handler http.Handler
	svc     *service.InterviewService
}

func newTestServer(t *testing.T, ext textextract.Extractor, cfg api.RouterConfig) testServer {
	t.Helper()

	levels := func(prefix string) map[questionbank.Level][]string {
		return map[questionbank.Level][]string{
			questionbank.LevelBeginner:     {"What is " + prefix + "?", "Explain " + prefix + " basics"},
			questionbank.LevelIntermediate: {"How do you test " + prefix + " code?", "Describe " + prefix + " tooling"},
			questionbank.LevelAdvanced:     {"How would you scale " + prefix + "?", "Design a " + prefix + " architecture"},
		}
	}
	bank, err := questionbank.New([]questionbank.Entry{
		{Skill: "python", DisplayName: "Python", Levels: levels("python")},
		{Skill: "sql", DisplayName: "SQL", Levels: levels("sql")},
		{Skill: "git", DisplayName: "Git", Levels: levels("git")},
		{Skill: "rust", DisplayName: "Rust", Levels: map[questionbank.Level][]string{questionbank.LevelBeginner: {"What is rust?"}}},
	})
	require.NoError(t, err)

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc := service.NewInterviewService(service.Deps{
		Bank:      bank,
		Extractor: ext,
		Detector:  detector.New(bank, vocabulary.New(bank), nil, detector.Config{}, logger),
		Generator: generator.New(bank, rotator.New(), nil, generator.Config{}, logger),
		Judge:     judge.New(nil, logger),
		Store:     st,
	}, logger)

	h := api.NewHandler(svc, bank, 1<<20, logger)
	return testServer{handler: api.NewRouter(h, cfg, logger), svc: svc}
}

func (ts testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func multipartUpload(t *testing.T, field, filename string, data []byte, jobRole string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	if jobRole != "" {
		require.NoError(t, mw.WriteField("jobRole", jobRole))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze_resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const resumeText = "Senior Python developer. Comfortable with SQL and git."

// ── Health ──────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	body := decode[api.HealthResponse](t, rec)
	assert.Equal(t, "healthy", body.Status)
	assert.False(t, body.AIAvailable)
}

func TestRequestID_Propagated(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := ts.do(t, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}

// ── Analyze ─────────────────────────────────────────────────────────────────

func TestAnalyzeResume_Success(t *testing.T) {
	ts := newTestServer(t, stubExtractor{text: resumeText}, api.RouterConfig{})

	rec := ts.do(t, multipartUpload(t, "resumeFile", "cv.pdf", fakePDF, "Data Science"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[api.AnalyzeResponse](t, rec)
	require.NotEmpty(t, body.ID)
	require.Len(t, body.Skills, 3)
	assert.Equal(t, api.SkillResponse{Name: "Python", Key: "python", Level: "advanced"}, body.Skills[0])
	assert.GreaterOrEqual(t, len(body.Questions), 3)
	assert.LessOrEqual(t, len(body.Questions), 5)
	for _, q := range body.Questions {
		assert.Equal(t, "bank", q.Source)
	}

	ts.svc.Wait()
	rec = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/analyses/"+body.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[api.AnalysisResponse](t, rec)
	assert.Equal(t, "Data Science", stored.JobRole)
	assert.Equal(t, body.Skills, stored.Skills)
	assert.Equal(t, body.Questions, stored.Questions)
}

func TestAnalyzeResume_ShortText(t *testing.T) {
	ts := newTestServer(t, stubExtractor{text: "   hi  "}, api.RouterConfig{})

	rec := ts.do(t, multipartUpload(t, "resumeFile", "cv.pdf", fakePDF, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"skills":[],"questions":[]}`, rec.Body.String())
}

func TestAnalyzeResume_BadRequests(t *testing.T) {
	ts := newTestServer(t, stubExtractor{
		err: &textextract.ExtractionError{MIME: "application/pdf", Wrapped: io.ErrUnexpectedEOF},
	}, api.RouterConfig{})

	tests := []struct {
		name string
		req  *http.Request
		want string
	}{
		{"not a pdf", multipartUpload(t, "resumeFile", "cv.txt", []byte("plain text resume"), ""), "File must be a PDF"},
		{"missing file", multipartUpload(t, "", "", nil, "Data Science"), "resumeFile is required"},
		{"not multipart", jsonRequest(http.MethodPost, "/api/analyze_resume", `{}`), "invalid multipart form"},
		{"unreadable pdf", multipartUpload(t, "resumeFile", "cv.pdf", fakePDF, ""), "failed to extract text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tt.want)
		})
	}
}

func TestAnalyzeResume_RateLimited(t *testing.T) {
	ts := newTestServer(t, stubExtractor{text: resumeText}, api.RouterConfig{RateLimitPerMin: 1})

	first := ts.do(t, multipartUpload(t, "resumeFile", "cv.pdf", fakePDF, ""))
	assert.Equal(t, http.StatusOK, first.Code)

	second := ts.do(t, multipartUpload(t, "resumeFile", "cv.pdf", fakePDF, ""))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Other routes are not limited.
	health := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
	ts.svc.Wait()
}

func TestListAnalyses(t *testing.T) {
	ts := newTestServer(t, stubExtractor{text: resumeText}, api.RouterConfig{})

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/analyses", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(t, multipartUpload(t, "resumeFile", "cv.pdf", fakePDF, "Backend Developer"))
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[api.AnalyzeResponse](t, rec).ID
	ts.svc.Wait()

	rec = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/analyses?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]store.AnalysisSummary](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "Backend Developer", list[0].JobRole)
	assert.Equal(t, 3, list[0].SkillCount)

	rec = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/analyses?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/analyses/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ── Refresh ─────────────────────────────────────────────────────────────────

func TestRefreshQuestion(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	rec := ts.do(t, jsonRequest(http.MethodPost, "/api/refresh_question",
		`{"skill": "Python", "level": "beginner", "exclude_question": "What is python?"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[api.QuestionResponse](t, rec)
	assert.Equal(t, api.QuestionResponse{
		Skill:    "python",
		Level:    "beginner",
		Question: "Explain python basics",
		Source:   "bank",
	}, body)
}

func TestRefreshQuestion_Errors(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{"invalid json", `{"skill":`, http.StatusBadRequest, "invalid json"},
		{"missing level", `{"skill": "python"}`, http.StatusBadRequest, "level is required"},
		{"missing skill", `{"level": "beginner"}`, http.StatusBadRequest, "skill is required"},
		{"bad analysis id", `{"skill": "python", "level": "beginner", "analysis_id": "x"}`, http.StatusBadRequest, "analysis_id must be a UUID"},
		{"unknown skill", `{"skill": "cobol", "level": "beginner"}`, http.StatusNotFound, "No questions available for skill 'cobol' at level 'beginner'"},
		{"empty level list", `{"skill": "rust", "level": "advanced"}`, http.StatusNotFound, "No questions available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, jsonRequest(http.MethodPost, "/api/refresh_question", tt.body))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tt.wantMsg)
		})
	}
}

// ── Judge ───────────────────────────────────────────────────────────────────

func TestJudge_JSONBody(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	rec := ts.do(t, jsonRequest(http.MethodPost, "/agents/judge",
		`{"skill": "python", "level": "beginner", "question": "Design an optimized distributed architecture"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"passes": false, "violations": ["question_does_not_mention_skill", "question_too_advanced_for_level"]}`,
		rec.Body.String())
}

func TestJudge_QueryParams(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	req := httptest.NewRequest(http.MethodPost,
		"/agents/judge?skill=python&level=beginner&question=Explain+what+is+a+list+comprehension+in+python", nil)
	rec := ts.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"passes": true, "violations": []}`, rec.Body.String())
}

func TestJudge_MissingQuestion(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	rec := ts.do(t, jsonRequest(http.MethodPost, "/agents/judge", `{"skill": "python", "level": "beginner"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "question is required")
}

// ── Skills ──────────────────────────────────────────────────────────────────

func TestListSkills(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/skills", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[api.SkillsResponse](t, rec)
	require.Len(t, body.Skills, 4)
	assert.Equal(t, 19, body.TotalQuestions)
	assert.Equal(t, "rust", body.Skills[3].Key)
	assert.Equal(t, []string{"intermediate", "advanced"}, body.Skills[3].MissingLevel)
}

// ── Middleware ──────────────────────────────────────────────────────────────

func TestCORS(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{CORSOrigins: []string{"http://localhost:5173"}})

	preflight := httptest.NewRequest(http.MethodOptions, "/api/refresh_question", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	preflight.Header.Set("Access-Control-Request-Method", "POST")
	rec := ts.do(t, preflight)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))

	actual := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	actual.Header.Set("Origin", "http://localhost:5173")
	rec = ts.do(t, actual)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Request-Id", rec.Header().Get("Access-Control-Expose-Headers"))

	other := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	other.Header.Set("Origin", "http://evil.example")
	rec = ts.do(t, other)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoverer(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := api.Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, stubExtractor{}, api.RouterConfig{})

	ts.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="GET /api/health",status="200"}`)
}

// ── Swagger document ────────────────────────────────────────────────────────

func TestSwaggerDocumentsEveryRoute(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	h := api.NewHandler(nil, nil, 0, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	served := make(map[string]bool)
	for _, rt := range api.Routes(h, 0) {
		key := strings.ToLower(rt.Method) + " " + rt.Path
		served[key] = true
		assert.Contains(t, doc.Paths[rt.Path], strings.ToLower(rt.Method), "undocumented route %s", key)
	}

	for path, ops := range doc.Paths {
		for method := range ops {
			assert.True(t, served[method+" "+path], "documented route %s %s is not served", method, path)
		}
	}
}
