package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/harvestfolio/src/logger"
	"github.com/username/harvestfolio/src/models"
	"github.com/username/harvestfolio/src/services"
	"github.com/username/harvestfolio/src/utils"
)

// AccountRequest is the JSON payload of the process-account endpoint.
type AccountRequest struct {
	AccountID string `json:"account_id"`
}

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// HandleProcessAccount computes the tax-loss-harvesting report for one
// account and returns it as a flat JSON array, one record per surviving lot.
// Fatal processing errors (insufficient inventory, price lookup failure)
// surface as a 500 with an error message; no partial report is ever sent.
func (h *ReportHandler) HandleProcessAccount(w http.ResponseWriter, r *http.Request) {
	var payload AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body: expected JSON with an account_id field", http.StatusBadRequest)
		return
	}

	report, err := h.reportService.ProcessAccount(payload.AccountID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAccountID) {
			utils.SendJSONError(w, "Account ID is required.", http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, fmt.Sprintf("Error processing account %s: %v", payload.AccountID, err), http.StatusInternalServerError)
		return
	}
	if report == nil {
		report = []models.ReportRow{}
	}

	etag, err := utils.GenerateETag(report)
	if err == nil {
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		logger.L.Error("Error generating JSON response for account report", "accountID", payload.AccountID, "error", err)
	}
}
