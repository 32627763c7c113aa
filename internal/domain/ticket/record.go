package ticket

import (
	"strings"
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
)

const logFieldCount = 4

// LogRecord は予約ログの1行 START;ROOM;TITLE;SEAT_ID
type LogRecord struct {
	StartAt time.Time
	Room    string
	Title   string
	SeatID  string
}

// ParseLogRecord はフィールド列を予約ログレコードに変換する
func ParseLogRecord(fields []string, loc *time.Location) (LogRecord, error) {
	if len(fields) < logFieldCount {
		return LogRecord{}, ErrMalformedRecord
	}
	startAt, err := showing.ParseStart(fields[0], loc)
	if err != nil {
		return LogRecord{}, err
	}
	rec := LogRecord{
		StartAt: startAt,
		Room:    strings.TrimSpace(fields[1]),
		Title:   strings.TrimSpace(fields[2]),
		SeatID:  strings.TrimSpace(fields[3]),
	}
	if rec.Room == "" || rec.Title == "" || rec.SeatID == "" {
		return LogRecord{}, ErrMalformedRecord
	}
	return rec, nil
}

// Key は記録対象の上映の複合キーを返す
func (r LogRecord) Key() showing.Key {
	return showing.NewKey(r.StartAt, r.Room, r.Title)
}

// Fields はストアに書き出すフィールド列を返す
func (r LogRecord) Fields() []string {
	return []string{showing.FormatStart(r.StartAt), r.Room, r.Title, r.SeatID}
}
