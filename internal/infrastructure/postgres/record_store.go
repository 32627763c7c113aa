package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
)

var _ record.Store = (*RecordStore)(nil)

type recordRow struct {
	Seq    int64          `db:"seq"`
	Fields pq.StringArray `db:"fields"`
}

// RecordStore は store_records テーブルを使ったレコードストア
// 同じテーブルを name で区切って、スケジュールと予約ログで共用する
type RecordStore struct {
	db   *sqlx.DB
	name string
}

func NewRecordStore(db *sqlx.DB, name string) *RecordStore {
	return &RecordStore{db: db, name: name}
}

// ReadAll は全レコードを追記順に返す
func (s *RecordStore) ReadAll(ctx context.Context) ([][]string, error) {
	var rows []recordRow
	query := `SELECT seq, fields FROM store_records WHERE store = $1 ORDER BY seq`
	if err := s.db.SelectContext(ctx, &rows, query, s.name); err != nil {
		return nil, fmt.Errorf("レコード読み込みに失敗: %w", err)
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string(r.Fields))
	}
	return records, nil
}

// Append はレコードを1件追記する
func (s *RecordStore) Append(ctx context.Context, fields []string) error {
	if _, err := record.EncodeLine(fields); err != nil {
		return err
	}
	query := `INSERT INTO store_records (store, fields) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, s.name, pq.Array(fields)); err != nil {
		return fmt.Errorf("レコード追記に失敗: %w", err)
	}
	return nil
}

// Overwrite は1トランザクションで既存レコードを削除して書き直す
func (s *RecordStore) Overwrite(ctx context.Context, records [][]string) error {
	for _, fields := range records {
		if _, err := record.EncodeLine(fields); err != nil {
			return err
		}
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM store_records WHERE store = $1`, s.name); err != nil {
			return fmt.Errorf("レコード削除に失敗: %w", err)
		}
		for _, fields := range records {
			if _, err := tx.ExecContext(ctx, `INSERT INTO store_records (store, fields) VALUES ($1, $2)`, s.name, pq.Array(fields)); err != nil {
				return fmt.Errorf("レコード書き込みに失敗: %w", err)
			}
		}
		return nil
	})
}
