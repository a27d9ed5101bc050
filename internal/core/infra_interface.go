package core

import (
	"context"
	"image"

	"github.com/markdave123-py/docscan/internal/core/recognizer"
	"github.com/markdave123-py/docscan/internal/models"
)

// ScanStore persists processed scans and serves the OCR cache.
// It abstracts Postgres so services never depend on a specific DB.
type ScanStore interface {
	CreateScan(ctx context.Context, scan *models.Scan) error
	GetScanByID(ctx context.Context, id string) (*models.Scan, error)
	// FindCachedScan returns the newest scan of identical bytes recognized
	// with the same settings, or nil.
	FindCachedScan(ctx context.Context, sha256, language string, enhanced bool, minConfidence float64) (*models.Scan, error)
	UpdateScanStorageURL(ctx context.Context, id, url string) error

	Close() error
}

// ObjectClient stores uploaded originals in S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
	GetFile(ctx context.Context, key string) ([]byte, error)
}

// Recognizer reads text lines from a decoded image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, opts recognizer.Options) ([]string, error)
	Engine() string
}

// TextExtractor reads the embedded text of a non-image document.
type TextExtractor interface {
	Lines(ctx context.Context, data []byte) ([]string, error)
}

// Archiver queues an original upload for storage.
type Archiver interface {
	Enqueue(job ArchiveJob) bool
}

// ArchiveJob is one upload waiting to be copied to object storage.
type ArchiveJob struct {
	ScanID      string
	FileName    string
	ContentType string
	Data        []byte
}
