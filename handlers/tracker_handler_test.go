package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoTrackerAPI/internal/policy"
	"ecoTrackerAPI/services"
)

// setupTestHandler wires a handler to the test database with a clean slate.
// Skipped when no database is configured, like the service-level tests.
func setupTestHandler(t *testing.T) *TrackerHandler {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set; skipping storage tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, services.InitSchema(ctx, pool))

	service := services.NewTrackerService(pool)
	require.NoError(t, service.ResetAll(ctx))

	t.Cleanup(pool.Close)
	return NewTrackerHandler(service)
}

func postLogAction(handler *TrackerHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracker/log", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.LogAction(rr, req)
	return rr
}

func TestLogActionRejectsMalformedBody(t *testing.T) {
	handler := NewTrackerHandler(services.NewTrackerService(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracker/log", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	handler.LogAction(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid request body")
}

func TestLogActionEnforcesWeeklyCap(t *testing.T) {
	handler := setupTestHandler(t)

	rr := postLogAction(handler, `{"action": "Plant Seed", "points": 990}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var logged logActionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &logged))
	assert.Equal(t, 990, logged.WeeklyPoints)
	assert.Equal(t, "cold", logged.StreakLabel)
	require.NotEmpty(t, logged.NewMilestones)
	assert.Equal(t, milestoneAward{Points: 50, Tier: "bronze"}, logged.NewMilestones[0])
	assert.Equal(t, milestoneAward{Points: 900, Tier: "gold"}, logged.NewMilestones[len(logged.NewMilestones)-1])

	// 990 + 20 crosses the cap, so the second action is refused.
	rr = postLogAction(handler, `{"action": "Recycle", "points": 20}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Weekly point cap")

	// The refused action must not reach the log.
	histRR := httptest.NewRecorder()
	handler.GetHistory(histRR, httptest.NewRequest(http.MethodGet, "/api/v1/tracker/history", nil))
	require.Equal(t, http.StatusOK, histRR.Code)

	var history struct {
		TotalCount int `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(histRR.Body.Bytes(), &history))
	assert.Equal(t, 1, history.TotalCount)
}

func TestGetChallengesReportsProgressPercentage(t *testing.T) {
	handler := setupTestHandler(t)

	rr := postLogAction(handler, `{"action": "Recycle", "points": 10}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	challengesRR := httptest.NewRecorder()
	handler.GetChallenges(challengesRR, httptest.NewRequest(http.MethodGet, "/api/v1/tracker/challenges", nil))
	require.Equal(t, http.StatusOK, challengesRR.Code)

	var body struct {
		Data []struct {
			Name               string  `json:"name"`
			CurrentCount       int     `json:"current_count"`
			ProgressPercentage float64 `json:"progress_percentage"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(challengesRR.Body.Bytes(), &body))
	require.Len(t, body.Data, 6)

	progress := make(map[string]float64, len(body.Data))
	for _, c := range body.Data {
		progress[c.Name] = c.ProgressPercentage
	}
	assert.InDelta(t, 10.0, progress["Eco Beginner"], 0.001)
	assert.InDelta(t, 100.0/15.0, progress["Recycling Master"], 0.001)
	assert.InDelta(t, 0.0, progress["Transport Hero"], 0.001)
}

func TestGetActionCatalog(t *testing.T) {
	handler := NewTrackerHandler(services.NewTrackerService(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracker/actions", nil)
	rr := httptest.NewRecorder()

	handler.GetActionCatalog(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Status    string                `json:"status"`
		Data      []policy.ActionOption `json:"data"`
		WeeklyCap int                   `json:"weekly_cap"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	assert.Equal(t, "success", body.Status)
	assert.Equal(t, policy.WeeklyCap, body.WeeklyCap)
	require.Len(t, body.Data, 6)
	assert.Equal(t, "Recycle", body.Data[0].Name)
	assert.Equal(t, 10, body.Data[0].Points)
}
