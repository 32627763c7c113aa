package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
)

type ReportHandler struct {
	service ReportServiceInterface
}

func NewReportHandler(s ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: s}
}

type ReportLineResponse struct {
	Start     string `json:"start" example:"10/03/2025 - 14:00"`
	Room      string `json:"room" example:"Sala 1"`
	Title     string `json:"title" example:"Dune"`
	SeatsSold int    `json:"seats_sold" example:"3"`
	Revenue   int    `json:"revenue" example:"45000"`
}

type SalesReportResponse struct {
	Lines     []ReportLineResponse `json:"lines"`
	Showings  int                  `json:"showings"`
	SeatsSold int                  `json:"seats_sold"`
	Revenue   int                  `json:"revenue"`
}

// Sales godoc
// @Summary 売上レポート
// @Description 上映ごとの販売座席数と売上
// @Tags reports
// @Produce json
// @Success 200 {object} SalesReportResponse
// @Router /reports/sales [get]
func (h *ReportHandler) Sales(c echo.Context) error {
	lines := h.service.Generate()
	totals := application.Totals(lines)

	resp := SalesReportResponse{
		Lines:     make([]ReportLineResponse, len(lines)),
		Showings:  totals.Showings,
		SeatsSold: totals.SeatsSold,
		Revenue:   totals.Revenue,
	}
	for i, l := range lines {
		resp.Lines[i] = ReportLineResponse{
			Start:     showing.FormatStart(l.StartAt),
			Room:      l.Room,
			Title:     l.Title,
			SeatsSold: l.SeatsSold,
			Revenue:   l.Revenue,
		}
	}
	return c.JSON(http.StatusOK, resp)
}
