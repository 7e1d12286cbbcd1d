package handlers

import (
	"net/http"
	"time"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/services"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// MonthlySummaryHandler returns the cached income/expense summary for the
// month given as ?month=YYYY-MM, defaulting to the current month.
func (h *ReportHandler) MonthlySummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	} else if !monthRegex.MatchString(month) {
		sendJSONError(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	summary, err := h.reports.GetMonthlySummary(r.Context(), userID, month)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to build monthly summary", "month", month, "error", err)
		sendJSONError(w, "Failed to build report", http.StatusInternalServerError)
		return
	}
	sendJSON(w, summary, http.StatusOK)
}
