package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
)

// === In-memory store ===

// memStore はテスト用のメモリ上のレコードストア
type memStore struct {
	mu      sync.Mutex
	records [][]string
}

func newMemStore(records ...[]string) *memStore {
	return &memStore{records: records}
}

func (s *memStore) ReadAll(ctx context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.records))
	for i, r := range s.records {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (s *memStore) Append(ctx context.Context, fields []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, append([]string(nil), fields...))
	return nil
}

func (s *memStore) Overwrite(ctx context.Context, records [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	for _, r := range records {
		s.records = append(s.records, append([]string(nil), r...))
	}
	return nil
}

func (s *memStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// === Mock implementations ===

// MockStore implements record.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ReadAll(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

func (m *MockStore) Append(ctx context.Context, fields []string) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

func (m *MockStore) Overwrite(ctx context.Context, records [][]string) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// === Fixtures ===

// testNow は 2025-03-10 09:00 UTC
var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func testTemplates(t *testing.T) []*room.Template {
	t.Helper()
	var out []*room.Template
	for _, name := range room.DefaultNames {
		tmpl, err := room.NewTemplate(name, seat.DefaultRows, seat.DefaultCount)
		require.NoError(t, err)
		out = append(out, tmpl)
	}
	return out
}

func scheduleLine(start time.Time, title, genre, roomName string) []string {
	return []string{showing.FormatStart(start), title, genre, roomName}
}

func logLine(start time.Time, roomName, title, seatID string) []string {
	return []string{showing.FormatStart(start), roomName, title, seatID}
}

func newTestCatalog(t *testing.T, schedule, tickets record.Store, opts ...Option) *Catalog {
	t.Helper()
	base := []Option{WithClock(fixedClock()), WithLocation(time.UTC)}
	return NewCatalog(testTemplates(t), schedule, tickets, append(base, opts...)...)
}

func availableIDs(sh *showing.Showing) map[string]bool {
	out := make(map[string]bool)
	for _, s := range sh.Seats() {
		out[s.ID] = s.Available
	}
	return out
}
