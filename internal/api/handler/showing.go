package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
)

// DateLayout は date クエリの書式
const DateLayout = "02/01/2006"

type ShowingHandler struct {
	catalog CatalogServiceInterface
}

func NewShowingHandler(c CatalogServiceInterface) *ShowingHandler {
	return &ShowingHandler{catalog: c}
}

type RoomResponse struct {
	Name  string `json:"name" example:"Sala 1"`
	Seats int    `json:"seats" example:"80"`
}

type ShowingListResponse struct {
	Date     string            `json:"date,omitempty" example:"10/03/2025"`
	Titles   []string          `json:"titles"`
	Showings []ShowingResponse `json:"showings"`
}

type CreateShowingRequest struct {
	Start string `json:"start" validate:"required" example:"10/03/2025 - 14:00"`
	Title string `json:"title" validate:"required,max=100,nosep" example:"Dune"`
	Genre string `json:"genre" validate:"required,max=100,nosep" example:"Sci-Fi"`
	Room  string `json:"room" validate:"required" example:"Sala 1"`
}

type SeatMapResponse struct {
	Showing ShowingResponse `json:"showing"`
	Seats   []SeatResponse  `json:"seats"`
}

// ListRooms godoc
// @Summary ルーム一覧
// @Tags rooms
// @Produce json
// @Success 200 {array} RoomResponse
// @Router /rooms [get]
func (h *ShowingHandler) ListRooms(c echo.Context) error {
	rooms := h.catalog.Rooms()
	resp := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		resp[i] = RoomResponse{Name: r.Name(), Seats: r.SeatCount()}
	}
	return c.JSON(http.StatusOK, resp)
}

// ListForDate godoc
// @Summary 指定日の上映一覧
// @Description date を省略すると今日。include_started=true で開始済みの上映も含める
// @Tags showings
// @Produce json
// @Param date query string false "DD/MM/YYYY"
// @Param include_started query bool false "開始済みも含める"
// @Param title query string false "映画タイトル"
// @Param room query string false "ルーム名"
// @Success 200 {object} ShowingListResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /showings [get]
func (h *ShowingHandler) ListForDate(c echo.Context) error {
	loc := h.catalog.Location()
	day := time.Now().In(loc)
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		d, err := time.ParseInLocation(DateLayout, raw, loc)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "日付は DD/MM/YYYY 形式で指定してください")
		}
		day = d
	}
	includeStarted := false
	if raw := c.QueryParam("include_started"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "include_started は true または false で指定してください")
		}
		includeStarted = v
	}

	list := h.catalog.ListForDate(day, includeStarted)
	filtered := application.Filter(list, strings.TrimSpace(c.QueryParam("title")), strings.TrimSpace(c.QueryParam("room")))
	titles := application.MovieTitles(list)
	if titles == nil {
		titles = []string{}
	}
	return c.JSON(http.StatusOK, ShowingListResponse{
		Date:     day.Format(DateLayout),
		Titles:   titles,
		Showings: toShowingResponses(filtered),
	})
}

// ListAll godoc
// @Summary 全上映の一覧
// @Tags showings
// @Produce json
// @Success 200 {array} ShowingResponse
// @Router /showings/all [get]
func (h *ShowingHandler) ListAll(c echo.Context) error {
	return c.JSON(http.StatusOK, toShowingResponses(h.catalog.ListAll()))
}

// Create godoc
// @Summary 上映を追加
// @Description メモリ上に追加する。ファイルへの保存は /schedule/save で行う
// @Tags showings
// @Accept json
// @Produce json
// @Param request body CreateShowingRequest true "上映情報"
// @Success 201 {object} ShowingResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse "ルームが存在しない"
// @Failure 409 {object} api.ErrorResponse "同日上限または重複"
// @Router /showings [post]
func (h *ShowingHandler) Create(c echo.Context) error {
	var req CreateShowingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	startAt, err := showing.ParseStart(req.Start, h.catalog.Location())
	if err != nil {
		return api.ToHTTPError(err)
	}
	sh, err := h.catalog.AddShowing(startAt, showing.Movie{Title: req.Title, Genre: req.Genre}, strings.TrimSpace(req.Room))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toShowingResponse(sh))
}

// Delete godoc
// @Summary 上映を削除
// @Description 予約ログに記録がある上映は削除できない
// @Tags showings
// @Param start query string true "DD/MM/YYYY - HH:MM"
// @Param room query string true "ルーム名"
// @Param title query string true "映画タイトル"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "チケット登録済み"
// @Router /showings [delete]
func (h *ShowingHandler) Delete(c echo.Context) error {
	key, err := h.keyFromQuery(c)
	if err != nil {
		return err
	}
	if err := h.catalog.RemoveShowing(c.Request().Context(), key); err != nil {
		return api.ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Save godoc
// @Summary スケジュールを保存
// @Tags schedule
// @Success 204
// @Failure 500 {object} api.ErrorResponse
// @Router /schedule/save [post]
func (h *ShowingHandler) Save(c echo.Context) error {
	if err := h.catalog.SaveSchedule(c.Request().Context()); err != nil {
		return api.ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Seats godoc
// @Summary 上映の座席表
// @Tags showings
// @Produce json
// @Param start query string true "DD/MM/YYYY - HH:MM"
// @Param room query string true "ルーム名"
// @Param title query string true "映画タイトル"
// @Success 200 {object} SeatMapResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /showings/seats [get]
func (h *ShowingHandler) Seats(c echo.Context) error {
	key, err := h.keyFromQuery(c)
	if err != nil {
		return err
	}
	sh, ok := h.catalog.Find(key)
	if !ok {
		return api.ToHTTPError(application.ErrShowingNotFound)
	}
	return c.JSON(http.StatusOK, SeatMapResponse{
		Showing: toShowingResponse(sh),
		Seats:   toSeatResponses(sh.Seats()),
	})
}

// keyFromQuery は start, room, title クエリから上映の複合キーを組み立てる
func (h *ShowingHandler) keyFromQuery(c echo.Context) (showing.Key, error) {
	room := strings.TrimSpace(c.QueryParam("room"))
	title := strings.TrimSpace(c.QueryParam("title"))
	if room == "" || title == "" {
		return showing.Key{}, echo.NewHTTPError(http.StatusBadRequest, "start, room, title は必須です")
	}
	return parseKey(c.QueryParam("start"), room, title, h.catalog.Location())
}

func parseKey(start, room, title string, loc *time.Location) (showing.Key, error) {
	startAt, err := showing.ParseStart(start, loc)
	if err != nil {
		return showing.Key{}, api.ToHTTPError(err)
	}
	return showing.NewKey(startAt, room, title), nil
}
