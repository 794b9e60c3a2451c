// Package history keeps finished transcriptions for the history endpoints.
package history

import (
	"sync"
	"time"

	"voxscribe/internal/textdiff"

	"github.com/google/uuid"
)

// Record is one finished transcription plus its optional comparison.
type Record struct {
	ID            string             `json:"id"`
	Filename      string             `json:"filename"`
	ModelUsed     string             `json:"model_used"`
	Transcription string             `json:"transcription"`
	ReferenceText string             `json:"reference_text,omitempty"`
	Duration      float64            `json:"duration"`
	Diff          []textdiff.Segment `json:"diff,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Store persists transcription records. MemoryStore is the reference
// implementation; a durable one can replace it behind the same interface.
type Store interface {
	Add(rec Record) Record
	List(limit, offset int) ([]Record, int)
	Get(id string) (Record, bool)
	Delete(id string) bool
	Clear() int
}

// MemoryStore keeps the newest maxRecords records in memory, newest first.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	max     int
}

func NewMemoryStore(maxRecords int) *MemoryStore {
	if maxRecords <= 0 {
		maxRecords = 200
	}
	return &MemoryStore{max: maxRecords}
}

func (s *MemoryStore) Add(rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]Record{rec}, s.records...)
	if len(s.records) > s.max {
		s.records = s.records[:s.max]
	}
	return rec
}

// List returns up to limit records starting at offset, plus the total count.
func (s *MemoryStore) List(limit, offset int) ([]Record, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.records)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return nil, total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]Record, end-offset)
	copy(out, s.records[offset:end])
	return out, total
}

func (s *MemoryStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every record and returns how many were removed.
func (s *MemoryStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.records)
	s.records = nil
	return n
}
