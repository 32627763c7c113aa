package ticket

import (
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
)

// Ticket は購入済みの1座席分のチケット
// 発行後は変更しない
type Ticket struct {
	ID         string
	Price      int
	Showing    showing.Key
	StartAt    time.Time
	Room       string
	Title      string
	CustomerID string
	SeatID     string
	IssuedAt   time.Time
}

// New は上映・顧客・座席からチケットを発行する
func New(sh *showing.Showing, customerID, seatID string, price int) (*Ticket, error) {
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	return &Ticket{
		ID:         uuid.New().String(),
		Price:      price,
		Showing:    sh.Key(),
		StartAt:    sh.StartAt,
		Room:       sh.Room,
		Title:      sh.Movie.Title,
		CustomerID: customerID,
		SeatID:     seatID,
		IssuedAt:   time.Now(),
	}, nil
}

// Record は予約ログに書き出す永続化レコードを返す
func (t *Ticket) Record() LogRecord {
	return LogRecord{StartAt: t.StartAt, Room: t.Room, Title: t.Title, SeatID: t.SeatID}
}
