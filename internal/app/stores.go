package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/api/handler"
	"github.com/sanosuguru/go-cinema-reservation/internal/config"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
	"github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/filestore"
	"github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

const (
	scheduleStoreName = "schedule"
	ticketStoreName   = "tickets"

	instanceLockName = "writer"
	instanceLockTTL  = 30 * time.Second
)

// stores はバックエンドごとに開いたスケジュールストアと予約ログ
type stores struct {
	schedule record.Store
	tickets  record.Store
	checks   map[string]handler.HealthCheck
	lockLost <-chan struct{}
	closers  []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Backend {
	case config.BackendFile, "":
		return openFileStores(cfg.Store)
	case config.BackendPostgres:
		return openPostgresStores(ctx, cfg)
	case config.BackendRedis:
		return openRedisStores(ctx, cfg)
	default:
		return nil, fmt.Errorf("未対応の STORE_BACKEND です: %q", cfg.Store.Backend)
	}
}

func openFileStores(cfg config.StoreConfig) (*stores, error) {
	schedule, err := filestore.Open(cfg.ScheduleFile)
	if err != nil {
		return nil, fmt.Errorf("スケジュールファイル: %w", err)
	}
	tickets, err := filestore.Open(cfg.TicketFile)
	if err != nil {
		return nil, fmt.Errorf("予約ログファイル: %w", err)
	}
	logger.Info("ファイルストアを使用します",
		zap.String("schedule", schedule.Path()), zap.String("tickets", tickets.Path()))
	return &stores{schedule: schedule, tickets: tickets}, nil
}

func openPostgresStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(db.DB, cfg.Store.MigrationsPath); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("PostgreSQLストアを使用します", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))
	return &stores{
		schedule: postgres.NewRecordStore(db, scheduleStoreName),
		tickets:  postgres.NewRecordStore(db, ticketStoreName),
		checks: map[string]handler.HealthCheck{
			"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
		},
		closers: []func(){func() { db.Close() }},
	}, nil
}

func openRedisStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	client := redisinfra.NewClient(&cfg.Redis)
	if err := redisinfra.Ping(ctx, client); err != nil {
		client.Close()
		return nil, err
	}

	// 同じストアに書き込むプロセスは1つだけにする
	lock, err := redisinfra.NewLockManager(client).AcquireWithRetry(ctx, instanceLockName, instanceLockTTL, 3, time.Second)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("インスタンスロック: %w", err)
	}
	keepAliveCtx, stopKeepAlive := context.WithCancel(context.Background())
	lost := lock.KeepAlive(keepAliveCtx)

	logger.Info("Redisストアを使用します", zap.String("addr", cfg.Redis.Addr()), zap.String("lock_owner", lock.Owner()))
	return &stores{
		schedule: redisinfra.NewRecordStore(client, scheduleStoreName),
		tickets:  redisinfra.NewRecordStore(client, ticketStoreName),
		checks: map[string]handler.HealthCheck{
			"redis": func(ctx context.Context) error { return redisinfra.Ping(ctx, client) },
		},
		lockLost: lost,
		closers: []func(){
			func() { client.Close() },
			func() {
				stopKeepAlive()
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := lock.Release(releaseCtx); err != nil {
					logger.Warn("インスタンスロックの解放に失敗しました", zap.Error(err))
				}
			},
		},
	}, nil
}
