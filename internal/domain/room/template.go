package room

import (
	"errors"
	"strings"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
)

// DefaultNames は標準のルーム名
var DefaultNames = []string{"Sala 1", "Sala 2", "Sala 3"}

var (
	ErrRoomNameRequired = errors.New("ルーム名は必須です")
	ErrRoomNotFound     = errors.New("ルームが存在しません")
)

// Template はルームの座席レイアウトの雛形
// 座席状態は生成後に変更されず、上映ごとの複製元としてのみ使う
type Template struct {
	name  string
	seats *seat.Inventory
}

// NewTemplate は行ラベルと座席数からルームの雛形を作成する
func NewTemplate(name, rows string, seatCount int) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoomNameRequired
	}
	return &Template{name: name, seats: seat.Generate(rows, seatCount)}, nil
}

// Name はルーム名を返す
func (t *Template) Name() string {
	return t.name
}

// SeatCount は座席数を返す
func (t *Template) SeatCount() int {
	return t.seats.Len()
}

// Layout は雛形の座席一覧（コピー）を返す
func (t *Template) Layout() []seat.Seat {
	return t.seats.Seats()
}

// CloneInventory は上映用に独立した座席在庫を作成する
func (t *Template) CloneInventory() *seat.Inventory {
	return t.seats.Clone()
}
