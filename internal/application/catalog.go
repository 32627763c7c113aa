package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// MaxShowingsPerRoomDay は同じルーム・同じ日に登録できる上映数の上限
const MaxShowingsPerRoomDay = 2

// LoadResult はスケジュール読み込みの集計
type LoadResult struct {
	Loaded      int
	Malformed   int
	UnknownRoom int
	Duplicate   int
	Capped      int
}

// Dropped は破棄したレコード数を返す
func (r LoadResult) Dropped() int {
	return r.Malformed + r.UnknownRoom + r.Duplicate + r.Capped
}

type roomDay struct {
	room string
	year int
	mon  time.Month
	day  int
}

func roomDayOf(roomName string, t time.Time) roomDay {
	y, m, d := t.Date()
	return roomDay{room: roomName, year: y, mon: m, day: d}
}

// Catalog はルームの雛形とルームごとの上映を保持する
// 単一のアクターから使う前提で、内部でロックは取らない
type Catalog struct {
	rooms         map[string]*room.Template
	roomOrder     []string
	showings      map[string][]*showing.Showing
	scheduleStore record.Store
	ticketStore   record.Store
	opts          options
}

// NewCatalog は新しいCatalogを作成する
// ticketStore は上映削除時の販売済みチェックに使う
func NewCatalog(templates []*room.Template, scheduleStore, ticketStore record.Store, opts ...Option) *Catalog {
	c := &Catalog{
		rooms:         make(map[string]*room.Template, len(templates)),
		showings:      make(map[string][]*showing.Showing, len(templates)),
		scheduleStore: scheduleStore,
		ticketStore:   ticketStore,
		opts:          buildOptions(opts),
	}
	for _, t := range templates {
		if _, dup := c.rooms[t.Name()]; dup {
			continue
		}
		c.rooms[t.Name()] = t
		c.roomOrder = append(c.roomOrder, t.Name())
		c.showings[t.Name()] = nil
	}
	return c
}

// Location はストアの時刻を解釈するタイムゾーンを返す
func (c *Catalog) Location() *time.Location {
	return c.opts.loc
}

// Rooms はルームの雛形を登録順で返す
func (c *Catalog) Rooms() []*room.Template {
	out := make([]*room.Template, 0, len(c.roomOrder))
	for _, name := range c.roomOrder {
		out = append(out, c.rooms[name])
	}
	return out
}

// LoadSchedule はスケジュールストアから上映を読み込む
// 既存の上映はすべて置き換える。不正なレコードはログを出して破棄する
func (c *Catalog) LoadSchedule(ctx context.Context) (LoadResult, error) {
	var result LoadResult
	records, err := c.scheduleStore.ReadAll(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: スケジュールの読み込みに失敗: %w", ErrStorage, err)
	}

	for name := range c.showings {
		c.showings[name] = nil
	}
	perRoomDay := make(map[roomDay]int)
	seen := make(map[showing.Key]bool)

	for i, fields := range records {
		line := i + 1
		rec, err := showing.ParseScheduleRecord(fields, c.opts.loc)
		if err != nil {
			result.Malformed++
			logger.Warn("スケジュールレコードを破棄（形式不正）",
				zap.Int("line", line), zap.Strings("fields", fields), zap.Error(err))
			continue
		}
		tmpl, ok := c.rooms[rec.Room]
		if !ok {
			result.UnknownRoom++
			logger.Warn("スケジュールレコードを破棄（不明なルーム）",
				zap.Int("line", line), zap.String("room", rec.Room))
			continue
		}
		key := showing.NewKey(rec.StartAt, rec.Room, rec.Title)
		if seen[key] {
			result.Duplicate++
			logger.Warn("スケジュールレコードを破棄（重複）", zap.Int("line", line), zap.String("key", key.String()))
			continue
		}
		rd := roomDayOf(rec.Room, rec.StartAt)
		if perRoomDay[rd] >= MaxShowingsPerRoomDay {
			result.Capped++
			logger.Info("スケジュールレコードを破棄（同日上限）",
				zap.Int("line", line), zap.String("room", rec.Room), zap.String("start", showing.FormatStart(rec.StartAt)))
			continue
		}
		sh, err := showing.New(rec.StartAt, showing.Movie{Title: rec.Title, Genre: rec.Genre}, tmpl)
		if err != nil {
			result.Malformed++
			logger.Warn("スケジュールレコードを破棄", zap.Int("line", line), zap.Error(err))
			continue
		}
		c.showings[rec.Room] = append(c.showings[rec.Room], sh)
		perRoomDay[rd]++
		seen[key] = true
		result.Loaded++
	}

	m := c.opts.metrics
	m.ObserveScheduleRecords("loaded", result.Loaded)
	m.ObserveScheduleRecords("malformed", result.Malformed)
	m.ObserveScheduleRecords("unknown_room", result.UnknownRoom)
	m.ObserveScheduleRecords("duplicate", result.Duplicate)
	m.ObserveScheduleRecords("capped", result.Capped)

	logger.Info("スケジュールを読み込みました",
		zap.Int("loaded", result.Loaded), zap.Int("dropped", result.Dropped()))
	return result, nil
}

// AddShowing は上映をメモリ上に追加する（永続化は SaveSchedule で行う）
func (c *Catalog) AddShowing(startAt time.Time, movie showing.Movie, roomName string) (*showing.Showing, error) {
	tmpl, ok := c.rooms[roomName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", room.ErrRoomNotFound, roomName)
	}
	startAt = startAt.In(c.opts.loc)

	sameDay := 0
	for _, sh := range c.showings[roomName] {
		if sh.OnDate(startAt) {
			sameDay++
		}
	}
	if sameDay >= MaxShowingsPerRoomDay {
		return nil, fmt.Errorf("%w: %s %s", ErrRoomDayCapReached, roomName, startAt.Format("02/01/2006"))
	}

	sh, err := showing.New(startAt, movie, tmpl)
	if err != nil {
		return nil, err
	}
	if _, exists := c.Find(sh.Key()); exists {
		return nil, ErrShowingAlreadyExists
	}
	c.showings[roomName] = append(c.showings[roomName], sh)
	logger.Info("上映を追加しました",
		zap.String("room", sh.Room), zap.String("title", sh.Movie.Title),
		zap.String("start", showing.FormatStart(sh.StartAt)))
	return sh, nil
}

// RemoveShowing は予約ログに記録のない上映をメモリ上から削除する
// 削除のたびに予約ログを全件走査する
func (c *Catalog) RemoveShowing(ctx context.Context, key showing.Key) error {
	if _, ok := c.Find(key); !ok {
		return ErrShowingNotFound
	}

	records, err := c.ticketStore.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: 予約ログの読み込みに失敗: %w", ErrStorage, err)
	}
	for _, fields := range records {
		rec, err := ticket.ParseLogRecord(fields, c.opts.loc)
		if err != nil {
			continue
		}
		if rec.Key() == key {
			return ErrShowingHasTickets
		}
	}

	list := c.showings[key.Room]
	for i, sh := range list {
		if sh.Key() == key {
			c.showings[key.Room] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	logger.Info("上映を削除しました", zap.String("key", key.String()))
	return nil
}

// SaveSchedule は現在の全上映でスケジュールストアを上書きする
func (c *Catalog) SaveSchedule(ctx context.Context) error {
	all := c.ListAll()
	records := make([][]string, 0, len(all))
	for _, sh := range all {
		records = append(records, sh.Record().Fields())
	}
	if err := c.scheduleStore.Overwrite(ctx, records); err != nil {
		logger.Error("スケジュールの保存に失敗しました", zap.Error(err))
		return fmt.Errorf("%w: スケジュールの保存に失敗: %w", ErrStorage, err)
	}
	logger.Info("スケジュールを保存しました", zap.Int("showings", len(records)))
	return nil
}

// Find は複合キーから上映を探す
func (c *Catalog) Find(key showing.Key) (*showing.Showing, bool) {
	for _, sh := range c.showings[key.Room] {
		if sh.Key() == key {
			return sh, true
		}
	}
	return nil, false
}

// ListForDate は指定日の上映を開始時刻順に返す
// includeStarted が false の場合は現在時刻より前に始まった上映を除く
func (c *Catalog) ListForDate(day time.Time, includeStarted bool) []*showing.Showing {
	day = day.In(c.opts.loc)
	ref := c.opts.now()
	if includeStarted {
		ref = showing.Midnight(day)
	}

	var out []*showing.Showing
	for _, name := range c.roomOrder {
		for _, sh := range c.showings[name] {
			if sh.OnDate(day) && !sh.StartAt.Before(ref) {
				out = append(out, sh)
			}
		}
	}
	sortShowings(out)
	return out
}

// ListAll は全上映を (開始時刻, ルーム名) 順に返す
func (c *Catalog) ListAll() []*showing.Showing {
	var out []*showing.Showing
	for _, name := range c.roomOrder {
		out = append(out, c.showings[name]...)
	}
	sortShowings(out)
	return out
}

// Filter はタイトルとルームで上映を絞り込む（空文字は条件なし）
func Filter(list []*showing.Showing, title, roomName string) []*showing.Showing {
	out := make([]*showing.Showing, 0, len(list))
	for _, sh := range list {
		if title != "" && sh.Movie.Title != title {
			continue
		}
		if roomName != "" && sh.Room != roomName {
			continue
		}
		out = append(out, sh)
	}
	return out
}

// MovieTitles は上映一覧に含まれる映画タイトルを重複なしで昇順に返す
func MovieTitles(list []*showing.Showing) []string {
	seen := make(map[string]bool)
	var titles []string
	for _, sh := range list {
		if !seen[sh.Movie.Title] {
			seen[sh.Movie.Title] = true
			titles = append(titles, sh.Movie.Title)
		}
	}
	sort.Strings(titles)
	return titles
}

func sortShowings(list []*showing.Showing) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].StartAt.Equal(list[j].StartAt) {
			return list[i].StartAt.Before(list[j].StartAt)
		}
		return list[i].Room < list[j].Room
	})
}
