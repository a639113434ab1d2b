package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/admin"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway/memory"
	"github.com/skyphotography/wedding-portal-backend/internal/notify"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	backend, err := memory.New()
	require.NoError(t, err)

	svc := admin.NewService(backend, nil, notify.Branding{CompanyName: "Sky Photography", PhotographerName: "Sky"})
	r := gin.New()
	New(svc).Register(r.Group("/admin"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestExportClientsCSV(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodGet, "/admin/clients/export.csv?search=emma", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment; filename=\"clients-")

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\r\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"Name","Email"`))
	assert.Contains(t, lines[1], `"emma.wilson@example.com"`)
}

func TestGetClientNotFound(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodGet, "/admin/clients/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["kind"])
}

func TestCreateClient(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodPost, "/admin/clients", `{"email":"New@Example.com","full_name":"New Client"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(router, http.MethodPost, "/admin/clients", `{"email":"sarah.johnson@example.com","full_name":"Dup"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(router, http.MethodPost, "/admin/clients", `{"email":"not-an-email","full_name":"X"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateTemplateRejectsUnknownType(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodPost, "/admin/emails/templates", `{"name":"x","subject":"s","template":"b","type":"spam"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "invalid_input", body["kind"])
}

func TestScheduleEmailRequiresClients(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodPost, "/admin/emails/scheduled", `{"template_id":"t1","client_ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDashboard(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodGet, "/admin/dashboard", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Stats admin.DashboardStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Stats.TotalClients)
}
