package seat

// Seat は1つの座席を表す
type Seat struct {
	ID        string
	Available bool
}

// NewSeat は利用可能な座席を作成する
func NewSeat(id string) Seat {
	return Seat{ID: id, Available: true}
}

// IsAvailable は座席が購入可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Available
}

// Reserve は座席を使用中にする
func (s *Seat) Reserve() {
	s.Available = false
}

// Release は座席を解放する
func (s *Seat) Release() {
	s.Available = true
}
