package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/wasteops-portal/internal/auth"
	"github.com/nurpe/wasteops-portal/internal/config"
	"github.com/nurpe/wasteops-portal/internal/http/middleware"
	"github.com/nurpe/wasteops-portal/internal/model"
	"github.com/nurpe/wasteops-portal/internal/service"
)

const testSecret = "handler-test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		HTTP:        config.HTTPConfig{AllowedOrigin: "http://localhost:3000"},
		Dashboard: config.DashboardConfig{
			DayOffset: 5*time.Hour + 30*time.Minute,
		},
		PickerQuota: config.PickerQuotaConfig{MinWards: 5, MinBins: 10},
		Storage:     config.StorageConfig{Backend: "gcs"},
	}

	// Routes under test stop at the middleware or at pure parsing, so
	// the services never reach their stores.
	collections := service.NewCollectionService(nil, nil, cfg, zerolog.Nop())
	handler := NewHandler(nil, nil, collections, nil, nil, service.NewPoller(nil, time.Minute, zerolog.Nop()), zerolog.Nop())

	parser := auth.NewParser(testSecret)
	return NewRouter(handler, middleware.Auth(parser), cfg)
}

func tokenFor(t *testing.T, role model.Role) string {
	t.Helper()
	issuer := auth.NewIssuer(testSecret, time.Hour)
	raw, err := issuer.Issue(model.Profile{ID: uuid.New(), Role: role})
	require.NoError(t, err)
	return raw
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRejectBadToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectPickerToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.RolePicker))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPickerRoutesRejectCitizenToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/collections/scan",
		strings.NewReader(`{"scan_text":"BIN=DEMO_BIN_001"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.RoleCitizen))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestParseScanEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/collections/scan",
		strings.NewReader(`{"scan_text":"BIN=DEMO_BIN_001 | WARD=Demo Ward"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.RolePicker))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bin_id":"DEMO_BIN_001","ward":"Demo Ward"}`, rec.Body.String())
}

func TestParseScanRequiresText(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/collections/scan", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.RolePicker))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
