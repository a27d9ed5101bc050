package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/core/imageproc"
	"github.com/markdave123-py/docscan/internal/models"
	"github.com/markdave123-py/docscan/internal/services"
)

// multipartSlack covers the form framing around the file part.
const multipartSlack = 1 << 20

var allowedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".tiff": true, ".tif": true, ".webp": true, ".pdf": true,
}

type OCRHandler struct {
	svc       *services.OCRService
	maxUpload int64
	defaults  models.OCRSettings
}

func NewOCRHandler(svc *services.OCRService, maxUpload int64, defaults models.OCRSettings) *OCRHandler {
	return &OCRHandler{svc: svc, maxUpload: maxUpload, defaults: defaults}
}

// Upload handles POST /ocr/upload: a multipart "file" plus optional settings
// in the query string or form.
func (h *OCRHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartSlack)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, tooLargeMessage(h.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, CodeNoFile, "expected a multipart form with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeNoFile, "no file uploaded")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		writeError(w, http.StatusBadRequest, CodeUnsupportedFormat, "unsupported file type; use png, jpg, jpeg, gif, bmp, tiff, webp or pdf")
		return
	}
	if header.Size > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, tooLargeMessage(h.maxUpload))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "could not read the uploaded file")
		return
	}

	settings, err := settingsFromForm(r.FormValue, h.defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidSettings, err.Error())
		return
	}

	h.run(w, r, services.ScanInput{
		FileName:    name,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Settings:    settings,
	})
}

// Camera handles POST /ocr/camera with a base64 image in a JSON body.
func (h *OCRHandler) Camera(w http.ResponseWriter, r *http.Request) {
	// base64 grows the payload by a third.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload*4/3+multipartSlack)

	var req models.CameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, tooLargeMessage(h.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.ImageData) == "" {
		writeError(w, http.StatusBadRequest, CodeNoFile, "image_data is required")
		return
	}

	data, err := imageproc.DecodeBase64(req.ImageData)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidImage, "image_data is not valid base64")
		return
	}
	if int64(len(data)) > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, tooLargeMessage(h.maxUpload))
		return
	}

	settings := h.defaults
	if req.Language != "" {
		settings.Language = req.Language
	}
	if req.DocumentType != "" {
		settings.DocumentType = req.DocumentType
	}
	if req.EnhancedProcessing != nil {
		settings.Enhanced = *req.EnhancedProcessing
	}
	if req.ConfidenceThreshold != nil {
		settings.ConfidenceThreshold = *req.ConfidenceThreshold
	}

	h.run(w, r, services.ScanInput{
		FileName:    "camera",
		ContentType: http.DetectContentType(data),
		Data:        data,
		Settings:    settings,
	})
}

func (h *OCRHandler) run(w http.ResponseWriter, r *http.Request, in services.ScanInput) {
	res, err := h.svc.Scan(r.Context(), in)
	if err != nil {
		h.fail(w, in, err)
		return
	}
	writeJSON(w, http.StatusOK, models.OCRResponse{
		Text:             res.Lines,
		Status:           "success",
		ProcessingTimeMS: res.Elapsed.Milliseconds(),
		LanguageDetected: res.Language,
		DocumentType:     res.DocumentType,
		ScanID:           res.ScanID,
		Cached:           res.Cached,
	})
}

func (h *OCRHandler) fail(w http.ResponseWriter, in services.ScanInput, err error) {
	switch {
	case errors.Is(err, imageproc.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, CodeInvalidImage, "invalid or corrupted image")
	case errors.Is(err, services.ErrInvalidSettings):
		writeError(w, http.StatusBadRequest, CodeInvalidSettings, err.Error())
	case errors.Is(err, services.ErrUnsupportedDocument):
		writeError(w, http.StatusUnsupportedMediaType, CodeUnsupportedFormat, "PDF documents are not supported by this server")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, CodeTimeout, "processing timed out")
	default:
		logrus.WithError(err).WithField("file", in.FileName).Error("ocr: request failed")
		writeError(w, http.StatusInternalServerError, CodeProcessingError, "could not process the document")
	}
}

// settingsFromForm overlays request values on defaults. Values that do not
// parse are rejected here; range checks happen in the service.
func settingsFromForm(get func(string) string, def models.OCRSettings) (models.OCRSettings, error) {
	s := def
	if v := strings.TrimSpace(get("language")); v != "" {
		s.Language = v
	}
	if v := strings.TrimSpace(get("document_type")); v != "" {
		s.DocumentType = v
	}
	if v := strings.TrimSpace(get("enhanced_processing")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s, fmt.Errorf("enhanced_processing: %q is not a boolean", v)
		}
		s.Enhanced = b
	}
	if v := strings.TrimSpace(get("confidence_threshold")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("confidence_threshold: %q is not a number", v)
		}
		s.ConfidenceThreshold = f
	}
	return s, nil
}

func tooLargeMessage(limit int64) string {
	if limit < 1<<20 {
		return fmt.Sprintf("file exceeds the %d byte limit", limit)
	}
	return fmt.Sprintf("file exceeds the %d MB limit", limit>>20)
}
