package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
)

// MockCatalogService はCatalogServiceInterfaceのモック
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Location() *time.Location {
	return time.UTC
}

func (m *MockCatalogService) Rooms() []*room.Template {
	args := m.Called()
	return args.Get(0).([]*room.Template)
}

func (m *MockCatalogService) ListForDate(day time.Time, includeStarted bool) []*showing.Showing {
	args := m.Called(day, includeStarted)
	return args.Get(0).([]*showing.Showing)
}

func (m *MockCatalogService) ListAll() []*showing.Showing {
	args := m.Called()
	return args.Get(0).([]*showing.Showing)
}

func (m *MockCatalogService) Find(key showing.Key) (*showing.Showing, bool) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*showing.Showing), args.Bool(1)
}

func (m *MockCatalogService) AddShowing(startAt time.Time, movie showing.Movie, roomName string) (*showing.Showing, error) {
	args := m.Called(startAt, movie, roomName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showing.Showing), args.Error(1)
}

func (m *MockCatalogService) RemoveShowing(ctx context.Context, key showing.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCatalogService) SaveSchedule(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockReservationService はReservationServiceInterfaceのモック
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Purchase(ctx context.Context, input application.PurchaseInput) ([]*ticket.Ticket, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

func (m *MockReservationService) CustomerTickets(customerID string) ([]*ticket.Ticket, error) {
	args := m.Called(customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

// MockReportService はReportServiceInterfaceのモック
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate() []application.ReportLine {
	args := m.Called()
	return args.Get(0).([]application.ReportLine)
}

// newTestShowing は Sala 1（80席）の上映を作成する
func newTestShowing(t *testing.T, start time.Time, title string) *showing.Showing {
	t.Helper()
	tmpl, err := room.NewTemplate("Sala 1", seat.DefaultRows, seat.DefaultCount)
	require.NoError(t, err)
	sh, err := showing.New(start, showing.Movie{Title: title, Genre: "Sci-Fi"}, tmpl)
	require.NoError(t, err)
	return sh
}
