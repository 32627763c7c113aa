package showing

import (
	"strings"
	"time"
)

// TimeLayout はストア上の開始時刻の書式 (DD/MM/YYYY - HH:MM)
const TimeLayout = "02/01/2006 - 15:04"

const scheduleFieldCount = 4

// ScheduleRecord はスケジュールストアの1行 START;TITLE;GENRE;ROOM
type ScheduleRecord struct {
	StartAt time.Time
	Title   string
	Genre   string
	Room    string
}

// ParseStart はストア書式の開始時刻を解析する
func ParseStart(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, ErrInvalidStartTime
	}
	return t, nil
}

// FormatStart は開始時刻をストア書式にする
func FormatStart(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseScheduleRecord はフィールド列をスケジュールレコードに変換する
// 5番目以降のフィールドは無視する
func ParseScheduleRecord(fields []string, loc *time.Location) (ScheduleRecord, error) {
	if len(fields) < scheduleFieldCount {
		return ScheduleRecord{}, ErrMalformedRecord
	}
	startAt, err := ParseStart(fields[0], loc)
	if err != nil {
		return ScheduleRecord{}, err
	}
	rec := ScheduleRecord{
		StartAt: startAt,
		Title:   strings.TrimSpace(fields[1]),
		Genre:   strings.TrimSpace(fields[2]),
		Room:    strings.TrimSpace(fields[3]),
	}
	if rec.Title == "" || rec.Room == "" {
		return ScheduleRecord{}, ErrMalformedRecord
	}
	return rec, nil
}

// Fields はストアに書き出すフィールド列を返す
func (r ScheduleRecord) Fields() []string {
	return []string{FormatStart(r.StartAt), r.Title, r.Genre, r.Room}
}

// Record は上映のスケジュールレコードを返す
func (s *Showing) Record() ScheduleRecord {
	return ScheduleRecord{
		StartAt: s.StartAt,
		Title:   s.Movie.Title,
		Genre:   s.Movie.Genre,
		Room:    s.Room,
	}
}
