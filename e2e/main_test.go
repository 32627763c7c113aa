package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/app"
	"github.com/sanosuguru/go-cinema-reservation/internal/config"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
)

const (
	testCustomerID   = "1234567890"
	testCustomerName = "Ana Maria"
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	App *app.App
	Dir string
}

// testConfig はファイルストアを dir に置く設定を返す
func testConfig(dir string) *config.Config {
	cfg := config.Load()
	cfg.Store = config.StoreConfig{
		Backend:      config.BackendFile,
		ScheduleFile: filepath.Join(dir, "movies.txt"),
		TicketFile:   filepath.Join(dir, "tickets.txt"),
	}
	cfg.Cinema.Rooms = []string{"Sala 1", "Sala 2", "Sala 3"}
	cfg.Cinema.SeatRows = "ABCDEFGHIJ"
	cfg.Cinema.SeatsPerRoom = 80
	cfg.Cinema.TicketPrice = 15000
	cfg.Cinema.Timezone = "UTC"
	cfg.Metrics = config.MetricsConfig{}
	return cfg
}

// NewTestServer はテスト用サーバーを作成
// 同じ dir を渡すと保存済みのファイルから再起動した状態になる
func NewTestServer(t *testing.T, dir string) *TestServer {
	t.Helper()
	return newTestServerWithConfig(t, testConfig(dir))
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *TestServer {
	t.Helper()
	a, err := app.Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return &TestServer{App: a, Dir: filepath.Dir(cfg.Store.ScheduleFile)}
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.App.Echo.ServeHTTP(rec, req)
	return rec
}

// decode はレスポンスボディをJSONとして読む
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// futureDay は購入受付中の上映を作れる日付（2日後, UTC）を返す
func futureDay() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 2)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func startOf(day time.Time, hour int) string {
	return showing.FormatStart(day.Add(time.Duration(hour) * time.Hour))
}

func keyQuery(start, room, title string) string {
	return url.Values{"start": {start}, "room": {room}, "title": {title}}.Encode()
}
