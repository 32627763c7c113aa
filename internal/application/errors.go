package application

import "errors"

// アプリケーション層のエラー定義
var (
	// 検証エラー
	ErrShowingNotFound      = errors.New("上映が見つかりません")
	ErrNoSeatsSelected      = errors.New("座席を1つ以上選択してください")
	ErrDuplicateSeat        = errors.New("同じ座席が複数回指定されています")
	ErrPurchaseWindowClosed = errors.New("購入受付期限を過ぎています")

	// スケジュール上限（ソフトエラー）
	ErrRoomDayCapReached    = errors.New("このルームの同日の上映数が上限に達しています")
	ErrShowingAlreadyExists = errors.New("同じ開始時刻・ルーム・タイトルの上映が既に存在します")

	// 削除拒否
	ErrShowingHasTickets = errors.New("チケットが登録済みのため上映を削除できません")

	// ストアへの書き込み・読み込み失敗
	ErrStorage = errors.New("ストレージエラー")
)
