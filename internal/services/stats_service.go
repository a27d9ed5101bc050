package services

import (
	"maps"
	"sync"
	"time"

	"github.com/markdave123-py/docscan/internal/models"
)

// StatsService keeps in-memory processing counters. It is safe for
// concurrent use.
type StatsService struct {
	mu      sync.Mutex
	now     func() time.Time
	total   int64
	ok      int64
	failed  int64
	avgMS   float64
	byLang  map[string]int64
	byType  map[string]int64
	startAt time.Time
}

func NewStatsService() *StatsService {
	s := &StatsService{now: time.Now}
	s.Reset()
	return s
}

// Record counts one finished request. The average covers successful
// requests only and is updated incrementally.
func (s *StatsService) Record(success bool, elapsed time.Duration, language, documentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if !success {
		s.failed++
		return
	}
	s.ok++
	ms := float64(elapsed) / float64(time.Millisecond)
	s.avgMS += (ms - s.avgMS) / float64(s.ok)
	if language != "" {
		s.byLang[language]++
	}
	if documentType != "" {
		s.byType[documentType]++
	}
}

// Snapshot returns a copy of the counters.
func (s *StatsService) Snapshot() models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.Statistics{
		TotalRequests:           s.total,
		SuccessfulRequests:      s.ok,
		FailedRequests:          s.failed,
		AverageProcessingTimeMS: s.avgMS,
		ByLanguage:              maps.Clone(s.byLang),
		ByDocumentType:          maps.Clone(s.byType),
		Since:                   s.startAt,
	}
}

// Reset zeroes every counter.
func (s *StatsService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total, s.ok, s.failed, s.avgMS = 0, 0, 0, 0
	s.byLang = map[string]int64{}
	s.byType = map[string]int64{}
	s.startAt = s.now()
}
