package archive

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/docscan/internal/core"
	"github.com/markdave123-py/docscan/internal/models"
)

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (m *memObjects) UploadFile(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", errors.New("s3 down")
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return "https://bucket.s3.local/" + key, nil
}

func (m *memObjects) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memObjects) GetFile(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key], nil
}

type urlStore struct {
	mu   sync.Mutex
	urls map[string]string
	done chan struct{}
	fail bool
}

func (s *urlStore) CreateScan(context.Context, *models.Scan) error { return nil }
func (s *urlStore) GetScanByID(context.Context, string) (*models.Scan, error) {
	return nil, nil
}
func (s *urlStore) FindCachedScan(context.Context, string, string, bool, float64) (*models.Scan, error) {
	return nil, nil
}
func (s *urlStore) UpdateScanStorageURL(_ context.Context, id, url string) error {
	if s.fail {
		return errors.New("scan not found")
	}
	s.mu.Lock()
	s.urls[id] = url
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}
func (s *urlStore) Close() error { return nil }

func TestArchiver_UploadsAndRecordsURL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obj := &memObjects{}
	store := &urlStore{urls: map[string]string{}, done: make(chan struct{}, 1)}
	a := NewArchiver(store, obj, 4)
	a.Start(ctx, 2)

	require.True(t, a.Enqueue(core.ArchiveJob{ScanID: "s1", FileName: "rg front.jpg", ContentType: "image/jpeg", Data: []byte("img")}))

	select {
	case <-store.done:
	case <-time.After(2 * time.Second):
		t.Fatal("archive job was not processed")
	}

	store.mu.Lock()
	assert.Equal(t, "https://bucket.s3.local/scans/s1/rg_front.jpg", store.urls["s1"])
	store.mu.Unlock()

	data, _ := obj.GetFile(ctx, "scans/s1/rg_front.jpg")
	assert.Equal(t, []byte("img"), data)

	cancel()
	a.Wait()
}

func TestArchiver_EnqueueDropsWhenFull(t *testing.T) {
	a := NewArchiver(nil, &memObjects{}, 1)

	assert.True(t, a.Enqueue(core.ArchiveJob{ScanID: "a"}))
	assert.False(t, a.Enqueue(core.ArchiveJob{ScanID: "b"}), "no worker is draining the queue")
}

func TestArchiver_ProcessOneErrors(t *testing.T) {
	a := NewArchiver(nil, &memObjects{fail: true}, 1)
	err := a.processOne(context.Background(), core.ArchiveJob{ScanID: "x", FileName: "f.png"})
	assert.ErrorContains(t, err, "s3 down")

	a = NewArchiver(nil, &memObjects{}, 1)
	assert.NoError(t, a.processOne(context.Background(), core.ArchiveJob{ScanID: "x", FileName: "f.png"}))
}

func TestArchiver_RemovesObjectWhenScanIsMissing(t *testing.T) {
	obj := &memObjects{}
	a := NewArchiver(&urlStore{fail: true}, obj, 1)

	err := a.processOne(context.Background(), core.ArchiveJob{ScanID: "gone", FileName: "f.png", Data: []byte("x")})
	assert.ErrorContains(t, err, "record storage url")
	assert.Empty(t, obj.objects)
}

func TestObjectKey(t *testing.T) {
	tests := []struct{ id, name, want string }{
		{"1", "doc.png", "scans/1/doc.png"},
		{"1", "../../etc/passwd", "scans/1/passwd"},
		{"1", `C:\Users\me\foto RG.jpeg`, "scans/1/foto_RG.jpeg"},
		{"1", "", "scans/1/original"},
		{"1", "ção.png", "scans/1/o.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObjectKey(tt.id, tt.name), tt.name)
	}
}
