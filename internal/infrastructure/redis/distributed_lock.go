package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

var (
	ErrLockNotAcquired = errors.New("別のインスタンスがストアを使用中です")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

const (
	releaseScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	extendScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
)

// InstanceLock はRedisのストアへ書き込むプロセスを1つに限定するためのロック
// 予約処理は単一のプロセス内で直列化されるため、同じストアを共有する
// 2つ目のプロセスは起動時に拒否する
type InstanceLock struct {
	client *redis.Client
	key    string
	owner  string
	ttl    time.Duration
}

// LockManager はインスタンスロックを発行する
type LockManager struct {
	client *redis.Client
}

func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

// Acquire はロックを取得する
func (m *LockManager) Acquire(ctx context.Context, name string, ttl time.Duration) (*InstanceLock, error) {
	key := keyPrefix + "lock:" + name
	owner := uuid.New().String()

	ok, err := m.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return &InstanceLock{client: m.client, key: key, owner: owner, ttl: ttl}, nil
}

// AcquireWithRetry は前のプロセスのロックが切れるまで待って取得する
func (m *LockManager) AcquireWithRetry(ctx context.Context, name string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*InstanceLock, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.Acquire(ctx, name, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Owner はロック所有者の識別子を返す
func (l *InstanceLock) Owner() string {
	return l.owner
}

// Release はロックを解放する（自分が所有している場合のみ）
func (l *InstanceLock) Release(ctx context.Context) error {
	result, err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.owner).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Extend はロックの有効期限を延長する
func (l *InstanceLock) Extend(ctx context.Context) error {
	result, err := l.client.Eval(ctx, extendScript, []string{l.key}, l.owner, l.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// KeepAlive は ctx が終わるまで TTL の半分ごとにロックを延長する
// 所有権を失った場合は lost を閉じて終了する
func (l *InstanceLock) KeepAlive(ctx context.Context) (lost <-chan struct{}) {
	ch := make(chan struct{})
	go func() {
		ticker := time.NewTicker(l.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := l.Extend(ctx); err != nil {
					if errors.Is(err, ErrLockNotOwned) {
						logger.Error("インスタンスロックを失いました", zap.String("key", l.key))
						close(ch)
						return
					}
					logger.Warn("インスタンスロックの延長に失敗しました", zap.Error(err))
				}
			}
		}
	}()
	return ch
}
