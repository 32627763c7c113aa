package showing

import "errors"

// Showing ドメインのエラー定義
var (
	ErrTitleRequired    = errors.New("映画タイトルは必須です")
	ErrInvalidCharacter = errors.New("タイトルとジャンルにセミコロンや改行は使用できません")
	ErrTextTooLong      = errors.New("タイトルとジャンルは100文字以内で入力してください")
	ErrMalformedRecord  = errors.New("スケジュールレコードの形式が不正です")
	ErrInvalidStartTime = errors.New("開始時刻の形式が不正です（DD/MM/YYYY - HH:MM）")
)
