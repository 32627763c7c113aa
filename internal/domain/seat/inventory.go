package seat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

const (
	// DefaultRows は座席の行ラベル（左から順に埋める）
	DefaultRows = "ABCDEFGHIJ"
	// DefaultCount はルームあたりの標準座席数
	DefaultCount = 80

	fillerPrefix = "Extra"
)

// Inventory は1つのルームレイアウトに属する座席の並び
// 座席は連続した配列で保持し、IDから位置を引く索引を持つ
type Inventory struct {
	seats []Seat
	index map[string]int
}

// Generate は行ラベルと座席数から決定的に座席を生成する
//
// 1行あたりの座席数は count / len(rows)（最低1）。行を左から順に使い切り、
// それでも count に届かない分は "Extra<n>" の補助IDで埋める。
func Generate(rows string, count int) *Inventory {
	inv := &Inventory{index: make(map[string]int, max(count, 0))}
	if count <= 0 || rows == "" {
		return inv
	}
	labels := []rune(rows)
	perRow := max(1, count/len(labels))

	for _, row := range labels {
		for n := 1; n <= perRow && len(inv.seats) < count; n++ {
			inv.add(fmt.Sprintf("%c%d", row, n))
		}
		if len(inv.seats) >= count {
			break
		}
	}
	for len(inv.seats) < count {
		inv.add(fmt.Sprintf("%s%d", fillerPrefix, len(inv.seats)+1))
	}
	return inv
}

func (inv *Inventory) add(id string) {
	inv.index[id] = len(inv.seats)
	inv.seats = append(inv.seats, NewSeat(id))
}

// Len は座席数を返す
func (inv *Inventory) Len() int {
	return len(inv.seats)
}

// Seats は座席のコピーを並び順で返す
func (inv *Inventory) Seats() []Seat {
	out := make([]Seat, len(inv.seats))
	copy(out, inv.seats)
	return out
}

// Find はIDから座席を取得する
func (inv *Inventory) Find(id string) (*Seat, bool) {
	i, ok := inv.index[id]
	if !ok {
		return nil, false
	}
	return &inv.seats[i], true
}

// Reserve は座席を使用中にする
// 既に使用中の場合は状態を変えずに警告ログのみ出す（検証は呼び出し側の責務）
func (inv *Inventory) Reserve(id string) error {
	s, ok := inv.Find(id)
	if !ok {
		return ErrSeatNotFound
	}
	if !s.IsAvailable() {
		logger.Warn("既に使用中の座席を予約しようとしました", zap.String("seat_id", id))
		return nil
	}
	s.Reserve()
	return nil
}

// Release は座席を無条件に解放する
func (inv *Inventory) Release(id string) error {
	s, ok := inv.Find(id)
	if !ok {
		return ErrSeatNotFound
	}
	s.Release()
	return nil
}

// Available は利用可能な座席を並び順で返す
func (inv *Inventory) Available() []Seat {
	out := make([]Seat, 0, len(inv.seats))
	for _, s := range inv.seats {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

// Occupied は使用中の座席数を返す
func (inv *Inventory) Occupied() int {
	n := 0
	for _, s := range inv.seats {
		if !s.Available {
			n++
		}
	}
	return n
}

// Clone は座席配列と索引を新しく確保した独立コピーを返す
func (inv *Inventory) Clone() *Inventory {
	seats := make([]Seat, len(inv.seats))
	copy(seats, inv.seats)
	index := make(map[string]int, len(inv.index))
	for id, i := range inv.index {
		index[id] = i
	}
	return &Inventory{seats: seats, index: index}
}
