package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/security/validation"
	"github.com/financialtrack/backend/src/store"
)

type AccountHandler struct {
	accounts store.AccountStore
}

func NewAccountHandler(accounts store.AccountStore) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountPayload struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

func (h *AccountHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	accounts, err := h.accounts.GetAccountsByUser(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list accounts", "error", err)
		sendJSONError(w, "Failed to fetch accounts", http.StatusInternalServerError)
		return
	}
	sendJSON(w, accounts, http.StatusOK)
}

func (h *AccountHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	var payload accountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := validation.SanitizeText(strings.TrimSpace(payload.Name))
	if err := validation.ValidateStringNotEmpty(name, "Account name"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	accountType := models.AccountType(payload.Type)
	switch accountType {
	case models.AccountTypeBank, models.AccountTypeCash, models.AccountTypeWallet, models.AccountTypeOther:
	case "":
		accountType = models.AccountTypeOther
	default:
		sendJSONError(w, "Invalid account type", http.StatusBadRequest)
		return
	}

	account := &models.Account{
		UserID:  userID,
		Name:    name,
		Type:    accountType,
		Balance: payload.Balance,
	}

	id, err := h.accounts.InsertAccount(r.Context(), account)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to create account", "error", err)
		sendJSONError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	account.ID = id
	sendJSON(w, account, http.StatusCreated)
}

func (h *AccountHandler) UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid account id", http.StatusBadRequest)
		return
	}

	existing, err := h.accounts.GetAccountByID(r.Context(), id)
	if err != nil || existing.UserID != userID {
		sendJSONError(w, "Account not found", http.StatusNotFound)
		return
	}

	var payload accountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if name := validation.SanitizeText(strings.TrimSpace(payload.Name)); name != "" {
		existing.Name = name
	}
	if payload.Type != "" {
		existing.Type = models.AccountType(payload.Type)
	}

	if err := h.accounts.UpdateAccount(r.Context(), existing); err != nil {
		logger.FromContext(r.Context()).Error("Failed to update account", "accountID", id, "error", err)
		sendJSONError(w, "Failed to update account", http.StatusInternalServerError)
		return
	}
	sendJSON(w, existing, http.StatusOK)
}

func (h *AccountHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid account id", http.StatusBadRequest)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), id, userID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete account", "accountID", id, "error", err)
		sendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
