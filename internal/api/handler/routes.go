package handler

import "github.com/labstack/echo/v4"

// Handlers はルーティングに登録するハンドラーの集合
type Handlers struct {
	Health    *HealthHandler
	Showings  *ShowingHandler
	Purchases *PurchaseHandler
	Reports   *ReportHandler
}

// RegisterRoutes は /api/v1 配下のルートを登録する
func RegisterRoutes(g *echo.Group, h Handlers) {
	g.GET("/health", h.Health.Check)

	g.GET("/rooms", h.Showings.ListRooms)
	g.GET("/showings", h.Showings.ListForDate)
	g.GET("/showings/all", h.Showings.ListAll)
	g.GET("/showings/seats", h.Showings.Seats)
	g.POST("/showings", h.Showings.Create)
	g.DELETE("/showings", h.Showings.Delete)
	g.POST("/schedule/save", h.Showings.Save)

	g.POST("/purchases", h.Purchases.Create)
	g.GET("/customers/:id/tickets", h.Purchases.CustomerTickets)

	g.GET("/reports/sales", h.Reports.Sales)
}
