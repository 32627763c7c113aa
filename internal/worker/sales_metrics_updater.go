package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
)

// ReportGenerator は上映ごとの販売実績を返すインターフェース
type ReportGenerator interface {
	Generate() []application.ReportLine
}

// SalesMetricsUpdater は販売実績を定期的にPrometheusのゲージへ反映するワーカー
// 上映カタログに触れる間は HTTP ハンドラーと同じ mu を保持する
type SalesMetricsUpdater struct {
	report   ReportGenerator
	metrics  *metrics.Metrics
	mu       sync.Locker
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	log      *zap.Logger
}

// DefaultInterval は interval が正でない場合に使う更新間隔
const DefaultInterval = time.Minute

// NewSalesMetricsUpdater は新しいワーカーを作成する
func NewSalesMetricsUpdater(report ReportGenerator, m *metrics.Metrics, mu sync.Locker, interval time.Duration) *SalesMetricsUpdater {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &SalesMetricsUpdater{
		report:   report,
		metrics:  m,
		mu:       mu,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		log:      logger.Component("sales_metrics_updater"),
	}
}

// Start はワーカーを開始する（起動直後に1回反映してから interval ごとに実行）
func (u *SalesMetricsUpdater) Start(ctx context.Context) {
	u.log.Info("販売実績メトリクス更新を開始", zap.Duration("interval", u.interval))

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	defer close(u.doneCh)

	u.update()
	for {
		select {
		case <-ctx.Done():
			u.log.Info("販売実績メトリクス更新を停止（コンテキストキャンセル）")
			return
		case <-u.stopCh:
			u.log.Info("販売実績メトリクス更新を停止（シグナル受信）")
			return
		case <-ticker.C:
			u.update()
		}
	}
}

// Stop はワーカーを停止し、終了を待つ
func (u *SalesMetricsUpdater) Stop() {
	u.stopOnce.Do(func() { close(u.stopCh) })
	<-u.doneCh
}

// update はレポートを作成してゲージを置き換える
// 削除された上映のラベルを残さないよう、毎回リセットしてから設定する
func (u *SalesMetricsUpdater) update() {
	u.mu.Lock()
	lines := u.report.Generate()
	u.mu.Unlock()

	if u.metrics == nil {
		return
	}
	u.metrics.ShowingSeatsSold.Reset()
	u.metrics.ShowingRevenue.Reset()
	for _, l := range lines {
		start := showing.FormatStart(l.StartAt)
		u.metrics.ShowingSeatsSold.WithLabelValues(start, l.Room, l.Title).Set(float64(l.SeatsSold))
		u.metrics.ShowingRevenue.WithLabelValues(start, l.Room, l.Title).Set(float64(l.Revenue))
	}

	totals := application.Totals(lines)
	u.log.Debug("販売実績メトリクスを更新",
		zap.Int("showings", totals.Showings),
		zap.Int("seats_sold", totals.SeatsSold),
		zap.Int("revenue", totals.Revenue),
	)
}
