package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound     = errors.New("座席が見つかりません")
	ErrSeatNotAvailable = errors.New("座席は既に販売済みです")
	ErrSeatIDRequired   = errors.New("座席IDは必須です")
)
