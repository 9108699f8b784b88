package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/username/harvestfolio/src/config"
	"github.com/username/harvestfolio/src/logger"
	"github.com/username/harvestfolio/src/services"
	"github.com/username/harvestfolio/src/utils"
)

type UploadHandler struct {
	importService services.ImportService
}

func NewUploadHandler(importService services.ImportService) *UploadHandler {
	return &UploadHandler{importService: importService}
}

// HandleUpload bulk-loads a brokerage CSV export into the stocks table,
// replacing its previous contents.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	rowCount, err := h.importService.LoadCSV(file)
	if err != nil {
		logger.L.Error("Bulk CSV load failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Failed to load CSV: %v", err), http.StatusBadRequest)
		return
	}

	logger.L.Info("Bulk CSV load succeeded", "filename", fileHeader.Filename, "rows", rowCount)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     "CSV loaded successfully",
		"rows_loaded": rowCount,
	})
}
