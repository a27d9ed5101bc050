package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/core"
	"github.com/markdave123-py/docscan/internal/core/fields"
	"github.com/markdave123-py/docscan/internal/core/imageproc"
	"github.com/markdave123-py/docscan/internal/core/recognizer"
	"github.com/markdave123-py/docscan/internal/models"
)

// NoTextMessage is the single line returned when nothing could be read.
const NoTextMessage = "Nenhum texto detectado na imagem."

var (
	// ErrInvalidSettings wraps every rejected request option.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrUnsupportedDocument is returned for PDFs when no text extractor is
	// configured.
	ErrUnsupportedDocument = errors.New("unsupported document")
)

var validDocumentTypes = map[string]bool{"rg": true, "cpf": true, "cnh": true, "generic": true}

// ScanInput is one document to process.
type ScanInput struct {
	FileName    string
	ContentType string
	Data        []byte
	Settings    models.OCRSettings
}

// ScanResult is what the handlers render.
type ScanResult struct {
	Lines        []string
	ScanID       string
	Cached       bool
	Language     string
	DocumentType string
	Elapsed      time.Duration
}

// OCRService runs the decode, recognize and report pipeline.
//
// store and archiver are optional; without them scans are neither cached nor
// archived.
type OCRService struct {
	recognizer core.Recognizer
	pdf        core.TextExtractor
	store      core.ScanStore
	archiver   core.Archiver
	stats      *StatsService
	extractor  *fields.Extractor
	maxSide    int
	now        func() time.Time
}

func NewOCRService(rec core.Recognizer, pdf core.TextExtractor, store core.ScanStore, archiver core.Archiver, stats *StatsService, maxSide int) *OCRService {
	if stats == nil {
		stats = NewStatsService()
	}
	return &OCRService{
		recognizer: rec,
		pdf:        pdf,
		store:      store,
		archiver:   archiver,
		stats:      stats,
		extractor:  fields.NewExtractor(),
		maxSide:    maxSide,
		now:        time.Now,
	}
}

// Stats exposes the counters this service records into.
func (s *OCRService) Stats() *StatsService { return s.stats }

// Engine names the image recognizer.
func (s *OCRService) Engine() string { return s.recognizer.Engine() }

// Scan processes one document. Undecodable input and invalid settings are
// returned as errors; recognition failures are not, they yield
// NoTextMessage instead.
func (s *OCRService) Scan(ctx context.Context, in ScanInput) (*ScanResult, error) {
	start := s.now()
	res, err := s.scan(ctx, in, start)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.stats.Record(false, elapsed, in.Settings.Language, in.Settings.DocumentType)
		return nil, err
	}
	res.Elapsed = elapsed
	s.stats.Record(true, elapsed, res.Language, res.DocumentType)
	return res, nil
}

func (s *OCRService) scan(ctx context.Context, in ScanInput, start time.Time) (*ScanResult, error) {
	settings, err := normalizeSettings(in.Settings)
	if err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{
		"file":     in.FileName,
		"bytes":    len(in.Data),
		"language": settings.Language,
		"enhanced": settings.Enhanced,
	})

	sum := imageproc.Checksum(in.Data)
	res := &ScanResult{Language: settings.Language}

	raw, cached := s.lookupCache(ctx, sum, settings, log)
	if cached != nil {
		res.Cached = true
		res.ScanID = cached.ID
	} else {
		raw, err = s.recognize(ctx, in, settings, log)
		if err != nil {
			return nil, err
		}
	}

	hint := fields.ParseDocumentType(settings.DocumentType)
	if len(raw) == 0 {
		res.Lines = []string{NoTextMessage}
		res.DocumentType = settings.DocumentType
		return res, nil
	}

	record, lines := s.extractor.Analyze(raw, hint)
	res.Lines = lines
	if detected := record.DocumentType; detected != fields.TypeUnidentified {
		res.DocumentType = string(detected)
	} else {
		res.DocumentType = settings.DocumentType
	}

	if cached == nil {
		res.ScanID = s.persist(ctx, in, settings, sum, raw, res, start, log)
	}
	return res, nil
}

// recognize returns the raw OCR lines. An empty result with a nil error means
// nothing was read.
func (s *OCRService) recognize(ctx context.Context, in ScanInput, settings models.OCRSettings, log *logrus.Entry) ([]string, error) {
	if isPDF(in) {
		if s.pdf == nil {
			return nil, ErrUnsupportedDocument
		}
		lines, err := s.pdf.Lines(ctx, in.Data)
		if err != nil {
			log.WithError(err).Warn("ocr: pdf text extraction failed")
			return nil, nil
		}
		return lines, nil
	}

	img, err := imageproc.Decode(in.Data)
	if err != nil {
		return nil, err
	}
	img = imageproc.Fit(img, s.maxSide)

	lines, err := s.recognizer.Recognize(ctx, img, recognizer.Options{
		Language:      settings.Language,
		Enhanced:      settings.Enhanced,
		MinConfidence: settings.ConfidenceThreshold,
	})
	switch {
	case err == nil:
		log.WithField("lines", len(lines)).Debug("ocr: recognized")
		return lines, nil
	case errors.Is(err, recognizer.ErrNoText):
		return nil, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		log.WithError(err).Error("ocr: recognition failed")
		return nil, nil
	}
}

func (s *OCRService) lookupCache(ctx context.Context, sum string, settings models.OCRSettings, log *logrus.Entry) ([]string, *models.Scan) {
	if s.store == nil {
		return nil, nil
	}
	scan, err := s.store.FindCachedScan(ctx, sum, settings.Language, settings.Enhanced, settings.ConfidenceThreshold)
	if err != nil {
		log.WithError(err).Warn("ocr: cache lookup failed")
		return nil, nil
	}
	if scan == nil || len(scan.RawLines) == 0 {
		return nil, nil
	}
	log.WithField("scan_id", scan.ID).Debug("ocr: cache hit")
	return scan.RawLines, scan
}

// persist records the scan and queues the original for archiving. It
// returns the scan id, or "" when neither happened.
func (s *OCRService) persist(ctx context.Context, in ScanInput, settings models.OCRSettings, sum string, raw []string, res *ScanResult, start time.Time, log *logrus.Entry) string {
	if s.store == nil && s.archiver == nil {
		return ""
	}
	id := uuid.NewString()
	stored := false

	if s.store != nil {
		scan := &models.Scan{
			ID:            id,
			FileName:      in.FileName,
			ContentType:   in.ContentType,
			SHA256:        sum,
			Language:      settings.Language,
			DocumentType:  res.DocumentType,
			Enhanced:      settings.Enhanced,
			MinConfidence: settings.ConfidenceThreshold,
			Engine:        s.engineName(in),
			RawLines:      raw,
			ReportLines:   res.Lines,
			ProcessingMS:  s.now().Sub(start).Milliseconds(),
			CreatedAt:     s.now(),
		}
		if err := s.store.CreateScan(ctx, scan); err != nil {
			log.WithError(err).Error("ocr: could not record scan")
		} else {
			stored = true
		}
	}

	queued := false
	if s.archiver != nil {
		queued = s.archiver.Enqueue(core.ArchiveJob{
			ScanID:      id,
			FileName:    in.FileName,
			ContentType: in.ContentType,
			Data:        in.Data,
		})
	}

	if !stored && !queued {
		return ""
	}
	return id
}

func (s *OCRService) engineName(in ScanInput) string {
	if isPDF(in) {
		return "pdftext"
	}
	return s.recognizer.Engine()
}

func isPDF(in ScanInput) bool {
	return in.ContentType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(in.FileName), ".pdf") ||
		bytes.HasPrefix(in.Data, []byte("%PDF-"))
}

// normalizeSettings applies defaults and rejects out-of-range options.
func normalizeSettings(in models.OCRSettings) (models.OCRSettings, error) {
	out := in
	out.Language = strings.ToLower(strings.TrimSpace(in.Language))
	if out.Language == "" {
		out.Language = "por"
	}
	if _, ok := recognizer.Languages(out.Language); !ok {
		return out, fmt.Errorf("%w: language %q", ErrInvalidSettings, in.Language)
	}

	out.DocumentType = strings.ToLower(strings.TrimSpace(in.DocumentType))
	if out.DocumentType == "" {
		out.DocumentType = "generic"
	}
	if !validDocumentTypes[out.DocumentType] {
		return out, fmt.Errorf("%w: document_type %q", ErrInvalidSettings, in.DocumentType)
	}

	if in.ConfidenceThreshold < 0 || in.ConfidenceThreshold > 100 {
		return out, fmt.Errorf("%w: confidence_threshold must be between 0 and 100", ErrInvalidSettings)
	}
	return out, nil
}
