package showing

import (
	"fmt"
	"time"
)

// Key は (開始時刻, ルーム名, 映画タイトル) の複合キー
// 開始時刻は分単位に切り捨てたUnix秒で比較する
type Key struct {
	StartUnix int64
	Room      string
	Title     string
}

// NewKey は複合キーを作成する
func NewKey(startAt time.Time, room, title string) Key {
	return Key{
		StartUnix: startAt.Truncate(time.Minute).Unix(),
		Room:      room,
		Title:     title,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%d|%s|%s", k.StartUnix, k.Room, k.Title)
}
