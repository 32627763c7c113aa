package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
)

const keyPrefix = "cinema:"

var _ record.Store = (*RecordStore)(nil)

// RecordStore はRedisのリストを使ったレコードストア
// 1要素が1行で、書式はファイルストアと同じセミコロン区切り
type RecordStore struct {
	client *redis.Client
	key    string
}

// NewRecordStore は name ごとのリストを使うストアを作成する（例: "schedule", "tickets"）
func NewRecordStore(client *redis.Client, name string) *RecordStore {
	return &RecordStore{client: client, key: keyPrefix + name}
}

// Key はリストのキーを返す
func (s *RecordStore) Key() string {
	return s.key
}

// ReadAll は全レコードを追加順に返す
func (s *RecordStore) ReadAll(ctx context.Context) ([][]string, error) {
	lines, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("レコード読み込みに失敗: %w", err)
	}
	records := make([][]string, 0, len(lines))
	for _, line := range lines {
		if fields := record.DecodeLine(line); fields != nil {
			records = append(records, fields)
		}
	}
	return records, nil
}

// Append はリスト末尾にレコードを追加する
func (s *RecordStore) Append(ctx context.Context, fields []string) error {
	line, err := record.EncodeLine(fields)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, s.key, line).Err(); err != nil {
		return fmt.Errorf("レコード追記に失敗: %w", err)
	}
	return nil
}

// Overwrite はMULTI/EXECでリストを削除してから全レコードを書き込む
func (s *RecordStore) Overwrite(ctx context.Context, records [][]string) error {
	lines := make([]interface{}, 0, len(records))
	for _, fields := range records {
		line, err := record.EncodeLine(fields)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(lines) > 0 {
			pipe.RPush(ctx, s.key, lines...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("レコード上書きに失敗: %w", err)
	}
	return nil
}
