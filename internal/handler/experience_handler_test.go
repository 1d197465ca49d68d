package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lookfor-app/experience-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock CancellationService ---

type mockCancellationService struct {
	cancelFn func(ctx context.Context, experienceID uuid.UUID, hostID, reason string) (*service.CancellationResult, error)
}

func (m *mockCancellationService) CancelExperience(ctx context.Context, experienceID uuid.UUID, hostID, reason string) (*service.CancellationResult, error) {
	return m.cancelFn(ctx, experienceID, hostID, reason)
}

// --- Mock DiscoveryService ---

type mockDiscoveryService struct {
	searchFn     func(ctx context.Context, viewerID string, filter service.Filter) ([]service.Result, error)
	listJoinedFn func(ctx context.Context, userID string) ([]service.Result, error)
}

func (m *mockDiscoveryService) Search(ctx context.Context, viewerID string, filter service.Filter) ([]service.Result, error) {
	return m.searchFn(ctx, viewerID, filter)
}
func (m *mockDiscoveryService) ListJoined(ctx context.Context, userID string) ([]service.Result, error) {
	return m.listJoinedFn(ctx, userID)
}

func performCancel(t *testing.T, svc service.CancellationService, experienceID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/experiences/:id")
	c.SetParamNames("id")
	c.SetParamValues(experienceID)

	h := NewExperienceHandler(&mockExperienceService{}, &mockDiscoveryService{}, svc)
	err := h.CancelExperience(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestCancelExperience_ReturnsCounts(t *testing.T) {
	svc := &mockCancellationService{
		cancelFn: func(ctx context.Context, experienceID uuid.UUID, hostID, reason string) (*service.CancellationResult, error) {
			assert.Equal(t, "host-1", hostID)
			assert.Equal(t, "venue flooded", reason)
			return &service.CancellationResult{Participants: 5, Notified: 4, Failed: 1}, nil
		},
	}

	rec := performCancel(t, svc, uuid.NewString(), `{"user_id":"host-1","reason":"venue flooded"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(5), resp["participants"])
	assert.Equal(t, float64(4), resp["notified"])
	assert.Equal(t, float64(1), resp["failed"])
}

func TestCancelExperience_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "locked", err: service.ErrCancellationLocked, wantCode: http.StatusConflict},
		{name: "not host", err: service.ErrNotHost, wantCode: http.StatusForbidden},
		{name: "not found", err: service.ErrExperienceNotFound, wantCode: http.StatusNotFound},
		{name: "reason required", err: service.ErrReasonRequired, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCancellationService{
				cancelFn: func(ctx context.Context, experienceID uuid.UUID, hostID, reason string) (*service.CancellationResult, error) {
					return nil, tt.err
				},
			}
			rec := performCancel(t, svc, uuid.NewString(), `{"user_id":"host-1","reason":"x"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func performSearch(t *testing.T, svc service.DiscoveryService, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/experiences")

	h := NewExperienceHandler(&mockExperienceService{}, svc, &mockCancellationService{})
	err := h.SearchExperiences(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSearchExperiences_ParsesFilter(t *testing.T) {
	var captured service.Filter
	svc := &mockDiscoveryService{
		searchFn: func(ctx context.Context, viewerID string, filter service.Filter) ([]service.Result, error) {
			assert.Equal(t, "user-1", viewerID)
			captured = filter
			return nil, nil
		},
	}

	rec := performSearch(t, svc, "user_id=user-1&q=yoga&category=Wellness&price=free&lat=13.75&lng=100.50&radius_km=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "yoga", captured.Query)
	assert.Equal(t, "Wellness", captured.Category)
	assert.Equal(t, service.PriceFree, captured.Price)
	require.NotNil(t, captured.Origin)
	assert.Equal(t, 13.75, captured.Origin.Lat)
	assert.True(t, captured.RadiusFilter)
	assert.Equal(t, 10.0, captured.RadiusKm)
}

func TestSearchExperiences_SortOnlyWithoutRadiusParam(t *testing.T) {
	svc := &mockDiscoveryService{
		searchFn: func(ctx context.Context, viewerID string, filter service.Filter) ([]service.Result, error) {
			assert.NotNil(t, filter.Origin)
			assert.False(t, filter.RadiusFilter, "origin alone ranks but never filters")
			return nil, nil
		},
	}

	rec := performSearch(t, svc, "lat=13.75&lng=100.50")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchExperiences_RejectsBadParams(t *testing.T) {
	svc := &mockDiscoveryService{
		searchFn: func(ctx context.Context, viewerID string, filter service.Filter) ([]service.Result, error) {
			t.Fatal("search should not run with invalid params")
			return nil, nil
		},
	}

	for _, query := range []string{
		"price=cheap",
		"date=03-10-2026",
		"hour=25",
		"lat=13.75", // lng missing
		"radius_km=10",
		"radius_km=-5&lat=13.75&lng=100.50",
	} {
		rec := performSearch(t, svc, query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q should be rejected", query)
	}
}
