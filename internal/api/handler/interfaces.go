package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
)

// LocationProvider は日時を解釈するタイムゾーンを返す
type LocationProvider interface {
	Location() *time.Location
}

// CatalogServiceInterface は上映カタログのインターフェース
type CatalogServiceInterface interface {
	LocationProvider
	Rooms() []*room.Template
	ListForDate(day time.Time, includeStarted bool) []*showing.Showing
	ListAll() []*showing.Showing
	Find(key showing.Key) (*showing.Showing, bool)
	AddShowing(startAt time.Time, movie showing.Movie, roomName string) (*showing.Showing, error)
	RemoveShowing(ctx context.Context, key showing.Key) error
	SaveSchedule(ctx context.Context) error
}

// ReservationServiceInterface は購入サービスのインターフェース
type ReservationServiceInterface interface {
	Purchase(ctx context.Context, input application.PurchaseInput) ([]*ticket.Ticket, error)
	CustomerTickets(customerID string) ([]*ticket.Ticket, error)
}

// ReportServiceInterface は売上レポートのインターフェース
type ReportServiceInterface interface {
	Generate() []application.ReportLine
}
