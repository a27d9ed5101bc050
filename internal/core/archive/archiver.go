// Package archive copies original uploads to object storage in the
// background and records the resulting URL on the scan.
package archive

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/core"
)

// DefaultQueueSize bounds the number of uploads waiting for a worker.
const DefaultQueueSize = 64

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Archiver is a bounded job queue drained by a fixed worker pool.
//
// db:    optional; when set the scan row gets the storage URL.
// obj:   object storage receiving the originals.
// jobs:  in-memory queue; uploads are dropped when it is full.
type Archiver struct {
	db   core.ScanStore
	obj  core.ObjectClient
	jobs chan core.ArchiveJob
	wg   sync.WaitGroup
}

func NewArchiver(db core.ScanStore, obj core.ObjectClient, queueSize int) *Archiver {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Archiver{db: db, obj: obj, jobs: make(chan core.ArchiveJob, queueSize)}
}

// Start runs numWorkers goroutines until ctx is cancelled.
func (a *Archiver) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for w := 0; w < numWorkers; w++ {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-a.jobs:
					if err := a.processOne(ctx, job); err != nil {
						logrus.WithField("scan_id", job.ScanID).WithError(err).Error("archive: upload failed")
					}
				}
			}
		}()
	}
}

// Wait blocks until every worker has returned.
func (a *Archiver) Wait() { a.wg.Wait() }

// Enqueue schedules an upload. It never blocks the request path: a full
// queue drops the job and reports false.
func (a *Archiver) Enqueue(job core.ArchiveJob) bool {
	select {
	case a.jobs <- job:
		return true
	default:
		logrus.WithField("scan_id", job.ScanID).Warn("archive: queue full, dropping upload")
		return false
	}
}

func (a *Archiver) processOne(ctx context.Context, job core.ArchiveJob) error {
	key := ObjectKey(job.ScanID, job.FileName)
	url, err := a.obj.UploadFile(ctx, key, job.Data, job.ContentType)
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	logrus.WithFields(logrus.Fields{"scan_id": job.ScanID, "key": key}).Debug("archive: stored original")

	if a.db == nil {
		return nil
	}
	if err := a.db.UpdateScanStorageURL(ctx, job.ScanID, url); err != nil {
		// Nothing points at the object any more.
		if delErr := a.obj.DeleteFile(ctx, key); delErr != nil {
			logrus.WithField("key", key).WithError(delErr).Warn("archive: could not remove orphaned object")
		}
		return fmt.Errorf("record storage url: %w", err)
	}
	return nil
}

// ObjectKey is scans/<scan-id>/<file>, with the file name reduced to safe
// characters.
func ObjectKey(scanID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	name = strings.Trim(unsafeKeyChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "original"
	}
	return "scans/" + scanID + "/" + name
}

var _ core.Archiver = (*Archiver)(nil)
