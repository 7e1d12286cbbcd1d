package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/security/validation"
	"github.com/financialtrack/backend/src/store"
)

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

type BudgetHandler struct {
	budgets store.BudgetStore
}

func NewBudgetHandler(budgets store.BudgetStore) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

type budgetPayload struct {
	Category    string  `json:"category"`
	LimitAmount float64 `json:"limit_amount"`
	Month       string  `json:"month"`
}

func (h *BudgetHandler) ListBudgetsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	budgets, err := h.budgets.GetBudgetsByUser(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list budgets", "error", err)
		sendJSONError(w, "Failed to fetch budgets", http.StatusInternalServerError)
		return
	}
	sendJSON(w, budgets, http.StatusOK)
}

func (h *BudgetHandler) CreateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	category := validation.SanitizeText(strings.TrimSpace(payload.Category))
	if err := validation.ValidateStringNotEmpty(category, "Category"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.LimitAmount <= 0 {
		sendJSONError(w, "Limit amount must be positive", http.StatusBadRequest)
		return
	}
	if !monthRegex.MatchString(payload.Month) {
		sendJSONError(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	budget := &models.Budget{
		UserID:      userID,
		Category:    category,
		LimitAmount: payload.LimitAmount,
		Month:       payload.Month,
	}

	id, err := h.budgets.InsertBudget(r.Context(), budget)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to create budget", "error", err)
		sendJSONError(w, "Failed to create budget", http.StatusInternalServerError)
		return
	}

	budget.ID = id
	sendJSON(w, budget, http.StatusCreated)
}

func (h *BudgetHandler) UpdateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid budget id", http.StatusBadRequest)
		return
	}

	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.LimitAmount <= 0 {
		sendJSONError(w, "Limit amount must be positive", http.StatusBadRequest)
		return
	}

	budget := &models.Budget{
		ID:          id,
		UserID:      userID,
		Category:    validation.SanitizeText(strings.TrimSpace(payload.Category)),
		LimitAmount: payload.LimitAmount,
		Month:       payload.Month,
	}

	if err := h.budgets.UpdateBudget(r.Context(), budget); err != nil {
		logger.FromContext(r.Context()).Error("Failed to update budget", "budgetID", id, "error", err)
		sendJSONError(w, "Failed to update budget", http.StatusInternalServerError)
		return
	}
	sendJSON(w, budget, http.StatusOK)
}

func (h *BudgetHandler) DeleteBudgetHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid budget id", http.StatusBadRequest)
		return
	}

	if err := h.budgets.DeleteBudget(r.Context(), id, userID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete budget", "budgetID", id, "error", err)
		sendJSONError(w, "Failed to delete budget", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
