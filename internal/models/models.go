package models

import (
	"time"
)

// Scan is one processed document as persisted in the scans table.
type Scan struct {
	ID            string    `db:"id" json:"id"`
	FileName      string    `db:"file_name" json:"file_name"`
	ContentType   string    `db:"content_type" json:"content_type"`
	SHA256        string    `db:"sha256" json:"sha256"`
	Language      string    `db:"language" json:"language"`
	DocumentType  string    `db:"document_type" json:"document_type"`
	Enhanced      bool      `db:"enhanced" json:"enhanced"`
	MinConfidence float64   `db:"min_confidence" json:"min_confidence"`
	Engine        string    `db:"engine" json:"engine"`
	RawLines      []string  `db:"raw_lines" json:"raw_lines"`     // recognizer output
	ReportLines   []string  `db:"report_lines" json:"text"`       // formatted response
	StorageURL    string    `db:"storage_url" json:"storage_url"` // S3 URL of the original, when archived
	ProcessingMS  int64     `db:"processing_ms" json:"processing_time_ms"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// OCRSettings are the per-request recognition options.
type OCRSettings struct {
	Language            string  `json:"language"`      // por | eng | spa | auto
	DocumentType        string  `json:"document_type"` // rg | cpf | cnh | generic
	Enhanced            bool    `json:"enhanced_processing"`
	ConfidenceThreshold float64 `json:"confidence_threshold"` // 0-100
}

// DefaultOCRSettings mirror the form defaults of the web UI.
func DefaultOCRSettings() OCRSettings {
	return OCRSettings{Language: "por", DocumentType: "generic", Enhanced: true}
}

// CameraRequest is the body of POST /ocr/camera.
type CameraRequest struct {
	ImageData           string   `json:"image_data"`
	Language            string   `json:"language"`
	DocumentType        string   `json:"document_type"`
	EnhancedProcessing  *bool    `json:"enhanced_processing"`
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
}

// OCRResponse is the success body of both OCR endpoints.
type OCRResponse struct {
	Text             []string `json:"text"`
	Status           string   `json:"status"`
	ProcessingTimeMS int64    `json:"processing_time_ms"`
	LanguageDetected string   `json:"language_detected,omitempty"`
	DocumentType     string   `json:"document_type,omitempty"`
	ScanID           string   `json:"scan_id,omitempty"`
	Cached           bool     `json:"cached,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// Statistics is a snapshot of the processing counters.
type Statistics struct {
	TotalRequests           int64            `json:"total_requests"`
	SuccessfulRequests      int64            `json:"successful_requests"`
	FailedRequests          int64            `json:"failed_requests"`
	AverageProcessingTimeMS float64          `json:"average_processing_time_ms"`
	ByLanguage              map[string]int64 `json:"by_language"`
	ByDocumentType          map[string]int64 `json:"by_document_type"`
	Since                   time.Time        `json:"since"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Engine    string    `json:"engine"`
	Database  bool      `json:"database"`
	Archive   bool      `json:"archive"`
	Endpoints []string  `json:"endpoints"`
	Time      time.Time `json:"time"`
}
