package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-reservation/internal/api/handler"
	"github.com/sanosuguru/go-cinema-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/config"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-reservation/internal/worker"
)

// App は設定から組み立てたサーバー一式
type App struct {
	Echo    *echo.Echo
	Catalog *application.Catalog
	Metrics *metrics.Metrics

	cfg      *config.Config
	worker   *worker.SalesMetricsUpdater
	stores   *stores
	registry *prometheus.Registry
}

// Build はストアを開き、スケジュールの読み込みと予約ログの再適用を行ってからサーバーを組み立てる
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Cinema.Location()
	if err != nil {
		return nil, fmt.Errorf("タイムゾーンの読み込みに失敗: %w", err)
	}
	templates, err := buildTemplates(cfg.Cinema)
	if err != nil {
		return nil, err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewWithRegistry(reg)

	opts := []application.Option{application.WithLocation(loc), application.WithMetrics(m)}
	catalog := application.NewCatalog(templates, st.schedule, st.tickets, opts...)
	customers := application.NewCustomerRegistry()
	reservations := application.NewReservationService(catalog, customers, st.tickets, opts...)
	reconciler := application.NewReconciler(catalog, st.tickets, opts...)
	reports := application.NewReportService(catalog, cfg.Cinema.TicketPrice)

	loaded, err := catalog.LoadSchedule(ctx)
	if err != nil {
		st.close()
		return nil, err
	}
	reconciled, err := reconciler.Reconcile(ctx)
	if err != nil {
		st.close()
		return nil, err
	}
	logger.With(zap.String("backend", cfg.Store.Backend)).Info("起動時の復元が完了しました",
		zap.Int("showings", loaded.Loaded),
		zap.Int("dropped", loaded.Dropped()),
		zap.Int("seats_restored", reconciled.Applied),
	)

	// カタログに触れる処理はすべてこのロックで直列化する
	mu := &sync.Mutex{}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e, m)

	handler.RegisterRoutes(e.Group("/api/v1", middleware.Serialize(mu)), handler.Handlers{
		Health:    handler.NewHealthHandler(st.checks),
		Showings:  handler.NewShowingHandler(catalog),
		Purchases: handler.NewPurchaseHandler(reservations, catalog, cfg.Cinema.TicketPrice),
		Reports:   handler.NewReportHandler(reports),
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		middleware.MetricsBasicAuth(cfg.Metrics))

	return &App{
		Echo:     e,
		Catalog:  catalog,
		Metrics:  m,
		cfg:      cfg,
		worker:   worker.NewSalesMetricsUpdater(reports, m, mu, cfg.Worker.ReportInterval),
		stores:   st,
		registry: reg,
	}, nil
}

// Run はワーカーとHTTPサーバーを起動し、ctx が終わるかインスタンスロックを失うまで待つ
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.worker.Start(ctx)
	defer a.worker.Stop()

	a.Echo.Server.ReadTimeout = a.cfg.Server.ReadTimeout
	a.Echo.Server.WriteTimeout = a.cfg.Server.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		logger.Info("サーバーを起動します", zap.String("port", a.cfg.Server.Port))
		if err := a.Echo.Start(":" + a.cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case <-a.stores.lockLost:
		runErr = errors.New("インスタンスロックを失ったため停止します")
	case err := <-errCh:
		runErr = fmt.Errorf("サーバー起動エラー: %w", err)
	}

	logger.Info("サーバーをシャットダウンしています")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}
	return runErr
}

// Close はストアの接続とロックを解放する
func (a *App) Close() {
	a.stores.close()
}

func buildTemplates(cfg config.CinemaConfig) ([]*room.Template, error) {
	if len(cfg.Rooms) == 0 {
		return nil, errors.New("CINEMA_ROOMS が空です")
	}
	templates := make([]*room.Template, 0, len(cfg.Rooms))
	for _, name := range cfg.Rooms {
		t, err := room.NewTemplate(name, cfg.SeatRows, cfg.SeatsPerRoom)
		if err != nil {
			return nil, fmt.Errorf("ルーム %q: %w", name, err)
		}
		templates = append(templates, t)
	}
	return templates, nil
}
