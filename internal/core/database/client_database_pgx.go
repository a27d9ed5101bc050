package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/docscan/internal/config"
	"github.com/markdave123-py/docscan/internal/core"
	"github.com/markdave123-py/docscan/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.ScanStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	dsn, err := buildDSN(cfg.DatabaseURL, cfg.SslCertPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// buildDSN appends certificate verification to DATABASE_URL when a root
// certificate is configured.
func buildDSN(databaseURL, sslCertPath string) (string, error) {
	if databaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is empty")
	}
	if sslCertPath == "" {
		return databaseURL, nil
	}
	if _, err := os.Stat(sslCertPath); err != nil {
		return "", fmt.Errorf("ssl cert not accessible at %q: %w", sslCertPath, err)
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	q := u.Query()
	q.Set("sslmode", "verify-ca")
	q.Set("sslrootcert", sslCertPath)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) CreateScan(ctx context.Context, s *models.Scan) error {
	if s == nil {
		return errors.New("nil scan")
	}
	raw, err := json.Marshal(nonNil(s.RawLines))
	if err != nil {
		return fmt.Errorf("encode raw lines: %w", err)
	}
	report, err := json.Marshal(nonNil(s.ReportLines))
	if err != nil {
		return fmt.Errorf("encode report lines: %w", err)
	}

	const q = `
		INSERT INTO scans
			(id, file_name, content_type, sha256, language, document_type, enhanced, min_confidence,
			 engine, raw_lines, report_lines, storage_url, processing_ms, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, now()))
	`
	var createdAt any
	if !s.CreatedAt.IsZero() {
		createdAt = s.CreatedAt
	}
	_, err = c.db.ExecContext(ctx, q,
		s.ID, s.FileName, s.ContentType, s.SHA256, s.Language, s.DocumentType, s.Enhanced, s.MinConfidence,
		s.Engine, string(raw), string(report), s.StorageURL, s.ProcessingMS, createdAt)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

const scanColumns = `id, file_name, content_type, sha256, language, document_type, enhanced, min_confidence,
	engine, raw_lines, report_lines, storage_url, processing_ms, created_at`

func (c *DatabaseClient) GetScanByID(ctx context.Context, id string) (*models.Scan, error) {
	q := `SELECT ` + scanColumns + ` FROM scans WHERE id = $1`
	return scanRow(c.db.QueryRowContext(ctx, q, id))
}

func (c *DatabaseClient) FindCachedScan(ctx context.Context, sha256, language string, enhanced bool, minConfidence float64) (*models.Scan, error) {
	q := `SELECT ` + scanColumns + `
		FROM scans
		WHERE sha256 = $1 AND language = $2 AND enhanced = $3 AND min_confidence = $4
		ORDER BY created_at DESC
		LIMIT 1`
	return scanRow(c.db.QueryRowContext(ctx, q, sha256, language, enhanced, minConfidence))
}

func (c *DatabaseClient) UpdateScanStorageURL(ctx context.Context, id, storageURL string) error {
	const q = `UPDATE scans SET storage_url = $2 WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id, storageURL)
	if err != nil {
		return fmt.Errorf("update scan: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("scan not found: %s", id)
	}
	return nil
}

// scanRow decodes one scans row. A missing row yields (nil, nil).
func scanRow(row *sql.Row) (*models.Scan, error) {
	var (
		s           models.Scan
		raw, report []byte
	)
	err := row.Scan(
		&s.ID, &s.FileName, &s.ContentType, &s.SHA256, &s.Language, &s.DocumentType, &s.Enhanced, &s.MinConfidence,
		&s.Engine, &raw, &report, &s.StorageURL, &s.ProcessingMS, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	if err := json.Unmarshal(raw, &s.RawLines); err != nil {
		return nil, fmt.Errorf("decode raw lines: %w", err)
	}
	if err := json.Unmarshal(report, &s.ReportLines); err != nil {
		return nil, fmt.Errorf("decode report lines: %w", err)
	}
	return &s, nil
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
