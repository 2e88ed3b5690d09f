package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-feedback/internal/admin"
	"portfolio-feedback/internal/feedback"
)

func setupRouter(t *testing.T, opts Options) (*gin.Engine, *feedback.Service) {
	t.Helper()
	repo, err := feedback.NewFileRepository(filepath.Join(t.TempDir(), "feedback-data.json"))
	require.NoError(t, err)
	svc := feedback.NewService(repo, nil)
	router := NewRouter(NewHandler(svc), opts)
	gin.SetMode(gin.TestMode)
	return router, svc
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateThenGet(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	w := do(router, http.MethodPost, "/api/feedback",
		`{"type":"fix","priority":"high","pageSection":"Hero","text":"Typo"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Success bool   `json:"success"`
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Feedback received and saved locally", created.Message)

	w = do(router, http.MethodGet, "/api/feedback", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []feedback.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, feedback.StatusPending, list[0].Status)
	assert.Equal(t, "Typo", list[0].Text)

	w = do(router, http.MethodGet, "/api/feedback/"+jsonID(created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got feedback.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Hero", got.PageSection)
}

func TestPatchUnknownIDIsNotFound(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	w := do(router, http.MethodPatch, "/api/feedback/99999999999", `{"status":"completed"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Feedback not found"}`, w.Body.String())

	w = do(router, http.MethodGet, "/api/feedback/not-a-number", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Feedback not found"}`, w.Body.String())
}

func TestPatchMergesAndStampsLastUpdated(t *testing.T) {
	router, svc := setupRouter(t, Options{})
	rec, err := svc.Create(map[string]json.RawMessage{
		"type": json.RawMessage(`"design"`), "priority": json.RawMessage(`"low"`),
		"pageSection": json.RawMessage(`"Footer"`), "text": json.RawMessage(`"Darker"`),
	})
	require.NoError(t, err)

	w := do(router, http.MethodPatch, "/api/feedback/"+jsonID(rec.ID),
		`{"status":"in-progress","text":"ignored","reviewer":"me"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "in-progress", doc["status"])
	assert.Equal(t, "Darker", doc["text"])
	assert.Equal(t, "me", doc["reviewer"])
	assert.NotEmpty(t, doc["lastUpdated"])
}

func TestMalformedBodies(t *testing.T) {
	router, svc := setupRouter(t, Options{})

	w := do(router, http.MethodPost, "/api/feedback", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = do(router, http.MethodPost, "/api/feedback", `{"text":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	records, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	w := do(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "running", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestCORS(t *testing.T) {
	router, _ := setupRouter(t, Options{CORSOrigins: []string{"https://portfolio.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/feedback", nil)
	req.Header.Set("Origin", "https://portfolio.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://portfolio.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminMountedOnlyWhenConfigured(t *testing.T) {
	router, _ := setupRouter(t, Options{})
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/admin/login", "").Code)

	repo, err := feedback.NewFileRepository(filepath.Join(t.TempDir(), "feedback-data.json"))
	require.NoError(t, err)
	svc := feedback.NewService(repo, nil)
	ah, err := admin.NewHandler(svc, admin.Config{Username: "admin", Password: "pw", SessionSecret: "s"})
	require.NoError(t, err)
	router = NewRouter(NewHandler(svc), Options{Admin: ah})
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/admin/login", "").Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
