package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/customer"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

var statusByError = []struct {
	err    error
	status int
}{
	// 先に判定するものほど優先（ErrStorage は他のエラーを包むことがある）
	{application.ErrStorage, http.StatusInternalServerError},

	{application.ErrShowingNotFound, http.StatusNotFound},
	{room.ErrRoomNotFound, http.StatusNotFound},
	{seat.ErrSeatNotFound, http.StatusNotFound},
	{customer.ErrCustomerNotFound, http.StatusNotFound},

	{seat.ErrSeatNotAvailable, http.StatusConflict},
	{application.ErrShowingHasTickets, http.StatusConflict},
	{application.ErrRoomDayCapReached, http.StatusConflict},
	{application.ErrShowingAlreadyExists, http.StatusConflict},

	{application.ErrPurchaseWindowClosed, http.StatusGone},

	{application.ErrNoSeatsSelected, http.StatusBadRequest},
	{application.ErrDuplicateSeat, http.StatusBadRequest},
	{seat.ErrSeatIDRequired, http.StatusBadRequest},
	{customer.ErrInvalidID, http.StatusBadRequest},
	{customer.ErrNameRequired, http.StatusBadRequest},
	{customer.ErrInvalidName, http.StatusBadRequest},
	{showing.ErrTitleRequired, http.StatusBadRequest},
	{showing.ErrInvalidCharacter, http.StatusBadRequest},
	{showing.ErrTextTooLong, http.StatusBadRequest},
	{showing.ErrInvalidStartTime, http.StatusBadRequest},
	{ticket.ErrInvalidPrice, http.StatusBadRequest},
	{record.ErrInvalidField, http.StatusBadRequest},
}

// StatusFor はドメインエラーに対応するHTTPステータスを返す
func StatusFor(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// ToHTTPError はドメインエラーを echo.HTTPError に変換する
func ToHTTPError(err error) error {
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	status := StatusFor(err)
	message := err.Error()
	if status >= 500 {
		message = "内部サーバーエラー"
	}
	return echo.NewHTTPError(status, message).SetInternal(err)
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he, ok := ToHTTPError(err).(*echo.HTTPError)
	if !ok {
		he = echo.NewHTTPError(http.StatusInternalServerError)
	}
	code := he.Code
	message, ok := he.Message.(string)
	if !ok {
		message = http.StatusText(code)
	}

	if code >= 500 {
		cause := err
		if he.Internal != nil {
			cause = he.Internal
		}
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(cause),
		)
	}

	if err := c.JSON(code, ErrorResponse{Error: message, Code: code}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
