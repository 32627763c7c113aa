package handler

import (
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
)

// 日時は保存ファイルと同じ "DD/MM/YYYY - HH:MM" 形式で返す

type ShowingResponse struct {
	Start     string `json:"start" example:"10/03/2025 - 14:00"`
	Title     string `json:"title" example:"Dune"`
	Genre     string `json:"genre" example:"Sci-Fi"`
	Room      string `json:"room" example:"Sala 1"`
	Deadline  string `json:"deadline" example:"10/03/2025 - 14:30"`
	Capacity  int    `json:"capacity" example:"80"`
	Available int    `json:"available" example:"77"`
}

func toShowingResponse(sh *showing.Showing) ShowingResponse {
	return ShowingResponse{
		Start:     showing.FormatStart(sh.StartAt),
		Title:     sh.Movie.Title,
		Genre:     sh.Movie.Genre,
		Room:      sh.Room,
		Deadline:  showing.FormatStart(sh.Deadline),
		Capacity:  sh.Capacity(),
		Available: sh.Capacity() - sh.SeatsSold(),
	}
}

func toShowingResponses(list []*showing.Showing) []ShowingResponse {
	resp := make([]ShowingResponse, len(list))
	for i, sh := range list {
		resp[i] = toShowingResponse(sh)
	}
	return resp
}

type SeatResponse struct {
	ID        string `json:"id" example:"A1"`
	Available bool   `json:"available"`
}

func toSeatResponses(seats []seat.Seat) []SeatResponse {
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = SeatResponse{ID: s.ID, Available: s.Available}
	}
	return resp
}

type TicketResponse struct {
	ID         string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Start      string `json:"start" example:"10/03/2025 - 14:00"`
	Room       string `json:"room" example:"Sala 1"`
	Title      string `json:"title" example:"Dune"`
	SeatID     string `json:"seat_id" example:"A1"`
	CustomerID string `json:"customer_id" example:"1234567890"`
	Price      int    `json:"price" example:"15000"`
}

func toTicketResponses(tickets []*ticket.Ticket) []TicketResponse {
	resp := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = TicketResponse{
			ID:         t.ID,
			Start:      showing.FormatStart(t.StartAt),
			Room:       t.Room,
			Title:      t.Title,
			SeatID:     t.SeatID,
			CustomerID: t.CustomerID,
			Price:      t.Price,
		}
	}
	return resp
}
