package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-reservation/internal/application"
)

type PurchaseHandler struct {
	service     ReservationServiceInterface
	loc         LocationProvider
	ticketPrice int
}

func NewPurchaseHandler(s ReservationServiceInterface, loc LocationProvider, ticketPrice int) *PurchaseHandler {
	return &PurchaseHandler{service: s, loc: loc, ticketPrice: ticketPrice}
}

type PurchaseRequest struct {
	Start        string   `json:"start" validate:"required" example:"10/03/2025 - 14:00"`
	Room         string   `json:"room" validate:"required" example:"Sala 1"`
	Title        string   `json:"title" validate:"required" example:"Dune"`
	CustomerID   string   `json:"customer_id" validate:"required,len=10,numeric" example:"1234567890"`
	CustomerName string   `json:"customer_name" example:"Ana Maria"`
	SeatIDs      []string `json:"seat_ids" validate:"required,min=1,dive,required" example:"A1,A2"`
}

type PurchaseResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total" example:"30000"`
}

// Create godoc
// @Summary 座席を購入
// @Description 指定した座席をすべて購入する。1席でも購入できなければ何も購入しない
// @Tags purchases
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "購入情報"
// @Success 201 {object} PurchaseResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse "上映または座席が存在しない"
// @Failure 409 {object} api.ErrorResponse "座席が使用中"
// @Failure 410 {object} api.ErrorResponse "購入受付期限切れ"
// @Router /purchases [post]
func (h *PurchaseHandler) Create(c echo.Context) error {
	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	key, err := parseKey(req.Start, strings.TrimSpace(req.Room), strings.TrimSpace(req.Title), h.loc.Location())
	if err != nil {
		return err
	}

	tickets, err := h.service.Purchase(c.Request().Context(), application.PurchaseInput{
		Showing:      key,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		SeatIDs:      req.SeatIDs,
		UnitPrice:    h.ticketPrice,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}

	total := 0
	for _, t := range tickets {
		total += t.Price
	}
	return c.JSON(http.StatusCreated, PurchaseResponse{Tickets: toTicketResponses(tickets), Total: total})
}

// CustomerTickets godoc
// @Summary 顧客のチケット一覧
// @Tags customers
// @Produce json
// @Param id path string true "顧客ID（10桁）"
// @Success 200 {array} TicketResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /customers/{id}/tickets [get]
func (h *PurchaseHandler) CustomerTickets(c echo.Context) error {
	tickets, err := h.service.CustomerTickets(c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toTicketResponses(tickets))
}
