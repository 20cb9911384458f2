package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"ecoTrackerAPI/internal/action"
	"ecoTrackerAPI/internal/challenge"
	"ecoTrackerAPI/internal/policy"
	"ecoTrackerAPI/middleware"
	"ecoTrackerAPI/services"
)

type TrackerHandler struct {
	trackerService *services.TrackerService
}

func NewTrackerHandler(trackerService *services.TrackerService) *TrackerHandler {
	return &TrackerHandler{
		trackerService: trackerService,
	}
}

type logActionResponse struct {
	Status        string           `json:"status"`
	Message       string           `json:"message"`
	Entry         *action.Entry    `json:"entry"`
	PointsEarned  int              `json:"points_earned"`
	TotalPoints   int              `json:"total_points"`
	WeeklyPoints  int              `json:"weekly_points"`
	CurrentStreak int              `json:"current_streak"`
	LongestStreak int              `json:"longest_streak"`
	StreakLabel   string           `json:"streak_label"`
	NewMilestones []milestoneAward `json:"new_milestones,omitempty"`
}

type milestoneAward struct {
	Points int    `json:"points"`
	Tier   string `json:"tier"`
}

func milestoneAwards(milestones []int) []milestoneAward {
	awards := make([]milestoneAward, 0, len(milestones))
	for _, m := range milestones {
		awards = append(awards, milestoneAward{Points: m, Tier: policy.MilestoneTier(m)})
	}
	return awards
}

// LogAction records one eco-action. The weekly point cap is enforced here,
// against the engine's rolling 7-day sum — the engine itself stays agnostic
// to the scoring policy.
func (h *TrackerHandler) LogAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req action.LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	weekly, err := h.trackerService.WeeklyPoints(ctx)
	if err != nil {
		log.Printf("LogAction Handler: Failed to read weekly points: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to check weekly cap")
		return
	}
	if weekly+req.Points > policy.WeeklyCap {
		respondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Weekly point cap (%d pts) reached", policy.WeeklyCap))
		return
	}

	result, err := h.trackerService.LogAction(ctx, req.Action, req.Points)
	if err != nil {
		if services.IsValidation(err) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("LogAction Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to log action")
		return
	}

	middleware.CountActionLogged(result.Entry.Action)

	respondWithJSON(w, http.StatusCreated, &logActionResponse{
		Status:        "success",
		Message:       fmt.Sprintf("Successfully logged %s", result.Entry.Action),
		Entry:         result.Entry,
		PointsEarned:  result.Entry.Points,
		TotalPoints:   result.TotalPoints,
		WeeklyPoints:  result.WeeklyPoints,
		CurrentStreak: result.CurrentStreak,
		LongestStreak: result.LongestStreak,
		StreakLabel:   policy.StreakLabel(result.CurrentStreak),
		NewMilestones: milestoneAwards(policy.MilestonesCrossed(result.TotalPoints-result.Entry.Points, result.TotalPoints)),
	})
}

func (h *TrackerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snapshot, err := h.trackerService.GetSnapshot(ctx)
	if err != nil {
		log.Printf("GetStats Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":             "success",
		"data":               snapshot,
		"earned_milestones":  milestoneAwards(policy.EarnedMilestones(snapshot.TotalPoints)),
		"streak_label":       policy.StreakLabel(snapshot.CurrentStreak),
		"weekly_cap":         policy.WeeklyCap,
		"weekly_cap_reached": snapshot.WeeklyPoints >= policy.WeeklyCap,
	})
}

func (h *TrackerHandler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challenges, err := h.trackerService.ListChallenges(ctx)
	if err != nil {
		log.Printf("GetChallenges Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to get challenges")
		return
	}

	formatted := make([]*challenge.WithProgress, 0, len(challenges))
	for _, c := range challenges {
		progress := 0.0
		if c.TargetCount > 0 {
			progress = min(100, float64(c.CurrentCount)/float64(c.TargetCount)*100)
		}
		formatted = append(formatted, &challenge.WithProgress{
			Challenge:          *c,
			ProgressPercentage: progress,
		})
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   formatted,
	})
}

func (h *TrackerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'limit' must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := h.trackerService.ListHistory(ctx, limit)
	if err != nil {
		log.Printf("GetHistory Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to get history")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"data":        entries,
		"total_count": len(entries),
	})
}

// ResetAll wipes the action log and all derived progress.
func (h *TrackerHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.trackerService.ResetAll(ctx); err != nil {
		log.Printf("ResetAll Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to reset data")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "All data has been reset successfully",
	})
}

// GetActionCatalog serves the action->points menu UI layers render.
func (h *TrackerHandler) GetActionCatalog(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"data":       policy.Catalog(),
		"weekly_cap": policy.WeeklyCap,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
