package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/security/validation"
	"github.com/financialtrack/backend/src/services"
	"github.com/financialtrack/backend/src/store"
)

type TransactionHandler struct {
	txs       store.TransactionStore
	txService *services.TransactionService
}

func NewTransactionHandler(txs store.TransactionStore, txService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{txs: txs, txService: txService}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	return time.Parse(time.RFC3339, s)
}

type transactionPayload struct {
	AccountID      int64   `json:"account_id"`
	Type           string  `json:"type"`
	Category       string  `json:"category"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	Date           string  `json:"date"`
	TransferToID   int64   `json:"transfer_to_id"`
	TransferToType string  `json:"transfer_to_type"`
	// LoanID tags an expense as a payment toward a loan. Only honored at
	// creation time.
	LoanID *int64 `json:"loan_id"`
}

func (p *transactionPayload) toModel(userID int64) (*models.Transaction, error) {
	tx := &models.Transaction{
		UserID:         userID,
		AccountID:      p.AccountID,
		Type:           models.TransactionType(p.Type),
		Category:       validation.SanitizeText(strings.TrimSpace(p.Category)),
		Description:    validation.SanitizeText(strings.TrimSpace(p.Description)),
		Amount:         p.Amount,
		TransferToID:   p.TransferToID,
		TransferToType: models.TransferTargetType(p.TransferToType),
	}
	if p.Date != "" {
		date, err := parseDate(p.Date)
		if err != nil {
			return nil, errors.New("invalid date, expected RFC 3339")
		}
		tx.Date = date
	}
	if tx.Type == models.TransactionTransfer && tx.TransferToType == "" {
		tx.TransferToType = models.TransferTargetAccount
	}
	return tx, nil
}

func (h *TransactionHandler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	txType := r.URL.Query().Get("type")
	var (
		txs []models.Transaction
		err error
	)
	if txType != "" {
		txs, err = h.txs.GetTransactionsByType(r.Context(), userID, models.TransactionType(txType))
	} else {
		txs, err = h.txs.GetTransactionsByUser(r.Context(), userID)
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list transactions", "error", err)
		sendJSONError(w, "Failed to fetch transactions", http.StatusInternalServerError)
		return
	}
	sendJSON(w, txs, http.StatusOK)
}

func (h *TransactionHandler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := payload.toModel(userID)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.txService.Create(r.Context(), tx, payload.LoanID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInvalidType) {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to create transaction", "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	tx.ID = id
	sendJSON(w, tx, http.StatusCreated)
}

func (h *TransactionHandler) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	existing, err := h.txs.GetTransactionByID(r.Context(), id)
	if err != nil || existing.UserID != userID {
		sendJSONError(w, "Transaction not found", http.StatusNotFound)
		return
	}

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := payload.toModel(userID)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx.ID = id
	if tx.Date.IsZero() {
		tx.Date = existing.Date
	}

	if err := h.txService.Update(r.Context(), tx); err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInvalidType) {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update transaction", "txID", id, "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	sendJSON(w, tx, http.StatusOK)
}

func (h *TransactionHandler) DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	if err := h.txService.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete transaction", "txID", id, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
