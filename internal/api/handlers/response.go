package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/models"
)

// Error codes carried in ErrorResponse.ErrorCode.
const (
	CodeNoFile            = "NO_FILE"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeInvalidImage      = "INVALID_IMAGE"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidSettings   = "INVALID_SETTINGS"
	CodeProcessingError   = "PROCESSING_ERROR"
	CodeTimeout           = "TIMEOUT"
	CodeNotFound          = "NOT_FOUND"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("http: could not write response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.ErrorResponse{Status: "error", Message: message, ErrorCode: code})
}
