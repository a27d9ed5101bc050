package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/core"
	"github.com/markdave123-py/docscan/internal/core/archive"
	"github.com/markdave123-py/docscan/internal/models"
)

// ScanHandler serves stored scans. obj may be nil when archiving is off.
type ScanHandler struct {
	store core.ScanStore
	obj   core.ObjectClient
}

func NewScanHandler(store core.ScanStore, obj core.ObjectClient) *ScanHandler {
	return &ScanHandler{store: store, obj: obj}
}

// GetScan returns a stored scan by id.
func (h *ScanHandler) GetScan(w http.ResponseWriter, r *http.Request) {
	if scan := h.load(w, r); scan != nil {
		writeJSON(w, http.StatusOK, scan)
	}
}

// GetOriginal streams the archived upload of a scan.
func (h *ScanHandler) GetOriginal(w http.ResponseWriter, r *http.Request) {
	scan := h.load(w, r)
	if scan == nil {
		return
	}
	if h.obj == nil || scan.StorageURL == "" {
		writeError(w, http.StatusNotFound, CodeNotFound, "original not archived")
		return
	}

	data, err := h.obj.GetFile(r.Context(), archive.ObjectKey(scan.ID, scan.FileName))
	if err != nil {
		logrus.WithError(err).WithField("scan_id", scan.ID).Error("scans: fetching original failed")
		writeError(w, http.StatusBadGateway, CodeProcessingError, "could not fetch the original")
		return
	}

	contentType := scan.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", scan.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// load resolves the {id} parameter. It writes the error response and
// returns nil when the scan cannot be served.
func (h *ScanHandler) load(w http.ResponseWriter, r *http.Request) *models.Scan {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "scan id must be a UUID")
		return nil
	}

	scan, err := h.store.GetScanByID(r.Context(), id)
	if err != nil {
		logrus.WithError(err).WithField("scan_id", id).Error("scans: lookup failed")
		writeError(w, http.StatusInternalServerError, CodeProcessingError, "could not load scan")
		return nil
	}
	if scan == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "scan not found")
		return nil
	}
	return scan
}
