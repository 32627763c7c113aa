package ticket

import "errors"

// Ticket ドメインのエラー定義
var (
	ErrInvalidPrice    = errors.New("価格は0以上である必要があります")
	ErrMalformedRecord = errors.New("予約ログレコードの形式が不正です")
)
