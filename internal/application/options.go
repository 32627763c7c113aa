package application

import (
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
)

type options struct {
	now     func() time.Time
	loc     *time.Location
	metrics *metrics.Metrics
}

// Option はサービス生成時の任意設定
type Option func(*options)

// WithClock は現在時刻の取得方法を差し替える
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation はストアの時刻を解釈するタイムゾーンを指定する
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithMetrics はメトリクスの記録先を指定する
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
