package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// ReconcileResult は予約ログ再適用の集計
type ReconcileResult struct {
	Applied        int
	UnknownShowing int
	SeatSkipped    int
	Malformed      int
}

// Reconciler は予約ログを読み込み済みの上映に再適用して座席状態を復元する
type Reconciler struct {
	catalog     *Catalog
	ticketStore record.Store
	opts        options
}

func NewReconciler(catalog *Catalog, ticketStore record.Store, opts ...Option) *Reconciler {
	return &Reconciler{catalog: catalog, ticketStore: ticketStore, opts: buildOptions(opts)}
}

// Reconcile は予約ログの各レコードに対応する座席を使用中にする
//
// 上映が見つからないレコードや、座席が存在しない・既に使用中のレコードは
// 読み飛ばす。適用済みの座席は使用中なので、何度実行しても結果は変わらない。
func (r *Reconciler) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult
	records, err := r.ticketStore.ReadAll(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: 予約ログの読み込みに失敗: %w", ErrStorage, err)
	}

	all := r.catalog.ListAll()
	byKey := make(map[showing.Key]*showing.Showing, len(all))
	for _, sh := range all {
		byKey[sh.Key()] = sh
	}

	loc := r.catalog.Location()
	for i, fields := range records {
		rec, err := ticket.ParseLogRecord(fields, loc)
		if err != nil {
			result.Malformed++
			logger.Warn("予約ログのレコードを読み飛ばしました（形式不正）",
				zap.Int("line", i+1), zap.Strings("fields", fields), zap.Error(err))
			continue
		}
		sh, ok := byKey[rec.Key()]
		if !ok {
			result.UnknownShowing++
			logger.Debug("予約ログの上映がスケジュールにありません", zap.Int("line", i+1), zap.String("key", rec.Key().String()))
			continue
		}
		se, ok := sh.FindSeat(rec.SeatID)
		if !ok || !se.IsAvailable() {
			result.SeatSkipped++
			continue
		}
		se.Reserve()
		result.Applied++
	}

	m := r.opts.metrics
	m.ObserveReconciledRecords("applied", result.Applied)
	m.ObserveReconciledRecords("unknown_showing", result.UnknownShowing)
	m.ObserveReconciledRecords("seat_skipped", result.SeatSkipped)
	m.ObserveReconciledRecords("malformed", result.Malformed)

	logger.Info("予約ログを再適用しました",
		zap.Int("applied", result.Applied),
		zap.Int("unknown_showing", result.UnknownShowing),
		zap.Int("seat_skipped", result.SeatSkipped),
		zap.Int("malformed", result.Malformed),
	)
	return result, nil
}
