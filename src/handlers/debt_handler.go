package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/security/validation"
	"github.com/financialtrack/backend/src/services"
	"github.com/financialtrack/backend/src/store"
	"github.com/go-chi/chi/v5"
)

type DebtHandler struct {
	debts           store.DebtStore
	debtService     *services.DebtService
	reminderService *services.ReminderService
}

func NewDebtHandler(debts store.DebtStore, debtService *services.DebtService, reminderService *services.ReminderService) *DebtHandler {
	return &DebtHandler{debts: debts, debtService: debtService, reminderService: reminderService}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

type debtPayload struct {
	CreditorName string  `json:"creditor_name"`
	Amount       float64 `json:"amount"`
	AmountPaid   float64 `json:"amount_paid"`
	InterestRate float64 `json:"interest_rate"`
	DueDate      string  `json:"due_date"`
	Type         string  `json:"type"`
	Description  string  `json:"description"`
}

func (p *debtPayload) toModel(userID int64) (*models.Debt, error) {
	name := validation.SanitizeText(strings.TrimSpace(p.CreditorName))
	if err := validation.ValidateStringNotEmpty(name, "Creditor name"); err != nil {
		return nil, err
	}
	if p.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	dueDate, err := parseDate(p.DueDate)
	if err != nil {
		return nil, errors.New("invalid due_date, expected RFC 3339")
	}

	debtType := models.DebtType(p.Type)
	switch debtType {
	case models.DebtTypeLoan, models.DebtTypeDebt, models.DebtTypeCreditCard:
	case "":
		debtType = models.DebtTypeLoan
	default:
		return nil, errors.New("invalid debt type")
	}

	return &models.Debt{
		UserID:       userID,
		CreditorName: name,
		Amount:       p.Amount,
		AmountPaid:   p.AmountPaid,
		InterestRate: p.InterestRate,
		DueDate:      dueDate,
		Type:         debtType,
		Description:  validation.SanitizeText(strings.TrimSpace(p.Description)),
	}, nil
}

// ListActiveDebtsHandler returns the user's open debts, running a reminder
// evaluation over them first so the debts screen is always current.
func (h *DebtHandler) ListActiveDebtsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	debts, err := h.debts.GetActiveDebts(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list active debts", "error", err)
		sendJSONError(w, "Failed to fetch debts", http.StatusInternalServerError)
		return
	}

	h.reminderService.EvaluateAndNotify(r.Context(), debts, services.SystemClock().Now())

	// Re-read so flag updates from the evaluation are reflected.
	debts, err = h.debts.GetActiveDebts(r.Context(), userID)
	if err != nil {
		sendJSONError(w, "Failed to fetch debts", http.StatusInternalServerError)
		return
	}
	sendJSON(w, debts, http.StatusOK)
}

func (h *DebtHandler) ListPaidDebtsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	debts, err := h.debts.GetPaidDebts(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list paid debts", "error", err)
		sendJSONError(w, "Failed to fetch debts", http.StatusInternalServerError)
		return
	}
	sendJSON(w, debts, http.StatusOK)
}

func (h *DebtHandler) CreateDebtHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	var payload debtPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	debt, err := payload.toModel(userID)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.debtService.Create(r.Context(), debt)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to create debt", "error", err)
		sendJSONError(w, "Failed to create debt", http.StatusInternalServerError)
		return
	}

	debt.ID = id
	sendJSON(w, debt, http.StatusCreated)
}

func (h *DebtHandler) UpdateDebtHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid debt id", http.StatusBadRequest)
		return
	}

	existing, err := h.debts.GetDebtByID(r.Context(), id)
	if err != nil || existing.UserID != userID {
		sendJSONError(w, "Debt not found", http.StatusNotFound)
		return
	}

	var payload debtPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	debt, err := payload.toModel(userID)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	debt.ID = id
	debt.IsActive = existing.IsActive
	debt.CreatedAt = existing.CreatedAt
	debt.PaidAt = existing.PaidAt
	debt.Notified5Days = existing.Notified5Days
	debt.Notified3Days = existing.Notified3Days
	debt.Notified1Day = existing.Notified1Day
	debt.Notified5Hours = existing.Notified5Hours
	debt.Notified3Hours = existing.Notified3Hours
	debt.Notified1Hour = existing.Notified1Hour
	debt.NotifiedOverdue = existing.NotifiedOverdue

	if err := h.debtService.Update(r.Context(), debt); err != nil {
		logger.FromContext(r.Context()).Error("Failed to update debt", "debtID", id, "error", err)
		sendJSONError(w, "Failed to update debt", http.StatusInternalServerError)
		return
	}
	sendJSON(w, debt, http.StatusOK)
}

func (h *DebtHandler) MarkDebtPaidHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid debt id", http.StatusBadRequest)
		return
	}

	if err := h.debtService.MarkPaid(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, "Debt not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to mark debt paid", "debtID", id, "error", err)
		sendJSONError(w, "Failed to mark debt paid", http.StatusInternalServerError)
		return
	}
	sendJSON(w, map[string]string{"status": "paid"}, http.StatusOK)
}

func (h *DebtHandler) ReactivateDebtHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid debt id", http.StatusBadRequest)
		return
	}

	if err := h.debtService.Reactivate(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, "Debt not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to reactivate debt", "debtID", id, "error", err)
		sendJSONError(w, "Failed to reactivate debt", http.StatusInternalServerError)
		return
	}
	sendJSON(w, map[string]string{"status": "active"}, http.StatusOK)
}

func (h *DebtHandler) DeleteDebtHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid debt id", http.StatusBadRequest)
		return
	}

	if err := h.debtService.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, "Debt not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete debt", "debtID", id, "error", err)
		sendJSONError(w, "Failed to delete debt", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
