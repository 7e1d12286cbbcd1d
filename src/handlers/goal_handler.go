package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/security/validation"
	"github.com/financialtrack/backend/src/store"
)

type GoalHandler struct {
	goals store.GoalStore
}

func NewGoalHandler(goals store.GoalStore) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type goalPayload struct {
	GoalName     string  `json:"goal_name"`
	TargetAmount float64 `json:"target_amount"`
	Deadline     string  `json:"deadline"`
}

func (h *GoalHandler) ListGoalsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	goals, err := h.goals.GetGoalsByUser(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list goals", "error", err)
		sendJSONError(w, "Failed to fetch goals", http.StatusInternalServerError)
		return
	}
	sendJSON(w, goals, http.StatusOK)
}

func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := validation.SanitizeText(strings.TrimSpace(payload.GoalName))
	if err := validation.ValidateStringNotEmpty(name, "Goal name"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.TargetAmount <= 0 {
		sendJSONError(w, "Target amount must be positive", http.StatusBadRequest)
		return
	}

	goal := &models.FinancialGoal{
		UserID:       userID,
		GoalName:     name,
		TargetAmount: payload.TargetAmount,
		CreatedAt:    time.Now(),
	}
	if payload.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, payload.Deadline)
		if err != nil {
			sendJSONError(w, "Invalid deadline, expected RFC 3339", http.StatusBadRequest)
			return
		}
		goal.Deadline = models.NullTime{Time: deadline, Valid: true}
	}

	id, err := h.goals.InsertGoal(r.Context(), goal)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to create goal", "error", err)
		sendJSONError(w, "Failed to create goal", http.StatusInternalServerError)
		return
	}

	goal.ID = id
	sendJSON(w, goal, http.StatusCreated)
}

func (h *GoalHandler) UpdateGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid goal id", http.StatusBadRequest)
		return
	}

	existing, err := h.goals.GetGoalByID(r.Context(), id)
	if err != nil || existing.UserID != userID {
		sendJSONError(w, "Goal not found", http.StatusNotFound)
		return
	}

	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if name := validation.SanitizeText(strings.TrimSpace(payload.GoalName)); name != "" {
		existing.GoalName = name
	}
	if payload.TargetAmount > 0 {
		existing.TargetAmount = payload.TargetAmount
	}
	if payload.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, payload.Deadline)
		if err != nil {
			sendJSONError(w, "Invalid deadline, expected RFC 3339", http.StatusBadRequest)
			return
		}
		existing.Deadline = models.NullTime{Time: deadline, Valid: true}
	}
	existing.IsCompleted = existing.SavedAmount >= existing.TargetAmount

	if err := h.goals.UpdateGoal(r.Context(), existing); err != nil {
		logger.FromContext(r.Context()).Error("Failed to update goal", "goalID", id, "error", err)
		sendJSONError(w, "Failed to update goal", http.StatusInternalServerError)
		return
	}
	sendJSON(w, existing, http.StatusOK)
}

func (h *GoalHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid goal id", http.StatusBadRequest)
		return
	}

	if err := h.goals.DeleteGoal(r.Context(), id, userID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete goal", "goalID", id, "error", err)
		sendJSONError(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
