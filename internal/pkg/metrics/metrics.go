package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 購入処理の総数（status: success, rejected, storage_error）
	PurchasesTotal *prometheus.CounterVec

	// 発行したチケットの総数
	TicketsIssuedTotal prometheus.Counter

	// スケジュール読み込みのレコード数（outcome: loaded, malformed, unknown_room, capped）
	ScheduleRecordsTotal *prometheus.CounterVec

	// 予約ログ再適用のレコード数（outcome: applied, unknown_showing, seat_skipped, malformed）
	ReconciledRecordsTotal *prometheus.CounterVec

	// 上映ごとの販売座席数（start, room, title）
	ShowingSeatsSold *prometheus.GaugeVec

	// 上映ごとの売上（start, room, title）
	ShowingRevenue *prometheus.GaugeVec
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	showingLabels := []string{"start", "room", "title"}
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		PurchasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinema_purchases_total",
				Help: "Total number of ticket purchase attempts",
			},
			[]string{"status"},
		),
		TicketsIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cinema_tickets_issued_total",
				Help: "Total number of tickets issued",
			},
		),
		ScheduleRecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinema_schedule_records_total",
				Help: "Schedule store records processed on load",
			},
			[]string{"outcome"},
		),
		ReconciledRecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinema_reconciled_records_total",
				Help: "Reservation log records processed on reconciliation",
			},
			[]string{"outcome"},
		),
		ShowingSeatsSold: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cinema_showing_seats_sold",
				Help: "Occupied seats per showing",
			},
			showingLabels,
		),
		ShowingRevenue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cinema_showing_revenue",
				Help: "Revenue per showing",
			},
			showingLabels,
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PurchasesTotal,
		m.TicketsIssuedTotal,
		m.ScheduleRecordsTotal,
		m.ReconciledRecordsTotal,
		m.ShowingSeatsSold,
		m.ShowingRevenue,
	)

	return m
}

// ObserveHTTPRequest はHTTPリクエストの件数と処理時間を記録する
func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// ObservePurchase は購入結果を記録する（nil の場合は何もしない）
func (m *Metrics) ObservePurchase(status string, tickets int) {
	if m == nil {
		return
	}
	m.PurchasesTotal.WithLabelValues(status).Inc()
	if tickets > 0 {
		m.TicketsIssuedTotal.Add(float64(tickets))
	}
}

// ObserveScheduleRecords はスケジュール読み込み結果を記録する
func (m *Metrics) ObserveScheduleRecords(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ScheduleRecordsTotal.WithLabelValues(outcome).Add(float64(n))
}

// ObserveReconciledRecords は予約ログ再適用の結果を記録する
func (m *Metrics) ObserveReconciledRecords(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReconciledRecordsTotal.WithLabelValues(outcome).Add(float64(n))
}
