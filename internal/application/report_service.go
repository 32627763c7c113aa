package application

import (
	"time"
)

// ReportLine は上映ごとの販売実績
type ReportLine struct {
	StartAt   time.Time
	Room      string
	Title     string
	SeatsSold int
	Revenue   int
}

// ReportTotals は販売実績の合計
type ReportTotals struct {
	Showings  int
	SeatsSold int
	Revenue   int
}

// ReportService は上映の座席状態から売上を集計する
type ReportService struct {
	catalog     *Catalog
	ticketPrice int
}

func NewReportService(catalog *Catalog, ticketPrice int) *ReportService {
	return &ReportService{catalog: catalog, ticketPrice: ticketPrice}
}

// Generate は読み込み済みの全上映について販売座席数と売上を返す
// 並びは (開始時刻, ルーム名)
func (s *ReportService) Generate() []ReportLine {
	all := s.catalog.ListAll()
	lines := make([]ReportLine, 0, len(all))
	for _, sh := range all {
		sold := sh.SeatsSold()
		lines = append(lines, ReportLine{
			StartAt:   sh.StartAt,
			Room:      sh.Room,
			Title:     sh.Movie.Title,
			SeatsSold: sold,
			Revenue:   sold * s.ticketPrice,
		})
	}
	return lines
}

// Totals は販売実績を合計する
func Totals(lines []ReportLine) ReportTotals {
	t := ReportTotals{Showings: len(lines)}
	for _, l := range lines {
		t.SeatsSold += l.SeatsSold
		t.Revenue += l.Revenue
	}
	return t
}
