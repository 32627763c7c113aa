package showing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
)

// ストアの区切り文字と改行はタイトル・ジャンルに使えない
const reservedChars = ";\r\n"

// MaxTextLength はタイトル・ジャンルの最大文字数
const MaxTextLength = 100

// PurchaseGracePeriod は上映開始後も購入を受け付ける猶予時間
const PurchaseGracePeriod = 30 * time.Minute

// Movie は上映される映画
type Movie struct {
	Title string
	Genre string
}

// Showing は1回の上映を表す
// 座席在庫はルームの雛形から作成時に複製され、以後は他の上映と共有しない
type Showing struct {
	Movie    Movie
	Room     string
	StartAt  time.Time
	Deadline time.Time
	seats    *seat.Inventory
}

// New はルームの雛形から新しい上映を作成する
func New(startAt time.Time, movie Movie, tmpl *room.Template) (*Showing, error) {
	movie.Title = strings.TrimSpace(movie.Title)
	movie.Genre = strings.TrimSpace(movie.Genre)
	if movie.Title == "" {
		return nil, ErrTitleRequired
	}
	if strings.ContainsAny(movie.Title+movie.Genre, reservedChars) {
		return nil, ErrInvalidCharacter
	}
	if utf8.RuneCountInString(movie.Title) > MaxTextLength || utf8.RuneCountInString(movie.Genre) > MaxTextLength {
		return nil, ErrTextTooLong
	}
	if tmpl == nil {
		return nil, room.ErrRoomNotFound
	}
	startAt = startAt.Truncate(time.Minute)
	return &Showing{
		Movie:    movie,
		Room:     tmpl.Name(),
		StartAt:  startAt,
		Deadline: startAt.Add(PurchaseGracePeriod),
		seats:    tmpl.CloneInventory(),
	}, nil
}

// Key は永続化レコードから上映を特定するための複合キーを返す
func (s *Showing) Key() Key {
	return NewKey(s.StartAt, s.Room, s.Movie.Title)
}

// IsPastDeadline は購入受付期限を過ぎているかを返す
func (s *Showing) IsPastDeadline(now time.Time) bool {
	return now.After(s.Deadline)
}

// OnDate は上映日が指定日と同じかを返す
func (s *Showing) OnDate(day time.Time) bool {
	return SameDate(s.StartAt, day)
}

// FindSeat は上映自身の座席在庫から座席を探す
func (s *Showing) FindSeat(id string) (*seat.Seat, bool) {
	return s.seats.Find(id)
}

// ReserveSeat は座席を使用中にする
func (s *Showing) ReserveSeat(id string) error {
	return s.seats.Reserve(id)
}

// ReleaseSeat は座席を解放する
func (s *Showing) ReleaseSeat(id string) error {
	return s.seats.Release(id)
}

// AvailableSeats は空席一覧を返す
func (s *Showing) AvailableSeats() []seat.Seat {
	return s.seats.Available()
}

// Seats は全座席を並び順で返す
func (s *Showing) Seats() []seat.Seat {
	return s.seats.Seats()
}

// SeatsSold は使用中の座席数を返す
func (s *Showing) SeatsSold() int {
	return s.seats.Occupied()
}

// Capacity は座席数を返す
func (s *Showing) Capacity() int {
	return s.seats.Len()
}

// Midnight は t と同じ日の 00:00 を返す
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate は2つの時刻が同じ暦日かを返す（a のロケーション基準）
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
