package customer

import "errors"

// Customer ドメインのエラー定義
var (
	ErrCustomerNotFound = errors.New("顧客が見つかりません")
	ErrInvalidID        = errors.New("顧客IDは10桁の数字である必要があります")
	ErrNameRequired     = errors.New("新規顧客には氏名が必要です")
	ErrInvalidName      = errors.New("氏名に数字や記号は使用できません")
)
