package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/customer"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

type ReservationService struct {
	catalog     *Catalog
	customers   *CustomerRegistry
	ticketStore record.Store
	opts        options
}

func NewReservationService(catalog *Catalog, customers *CustomerRegistry, ticketStore record.Store, opts ...Option) *ReservationService {
	return &ReservationService{catalog: catalog, customers: customers, ticketStore: ticketStore, opts: buildOptions(opts)}
}

type PurchaseInput struct {
	Showing      showing.Key
	CustomerID   string
	CustomerName string
	SeatIDs      []string
	UnitPrice    int
}

// Purchase は上映と顧客を解決してから座席を購入する
// 未登録の顧客IDは氏名を検証して登録する
func (s *ReservationService) Purchase(ctx context.Context, input PurchaseInput) ([]*ticket.Ticket, error) {
	sh, ok := s.catalog.Find(input.Showing)
	if !ok {
		s.opts.metrics.ObservePurchase("rejected", 0)
		return nil, ErrShowingNotFound
	}
	cust, err := s.customers.Resolve(input.CustomerID, input.CustomerName)
	if err != nil {
		s.opts.metrics.ObservePurchase("rejected", 0)
		return nil, err
	}
	return s.PurchaseSeats(ctx, sh, cust, input.SeatIDs, input.UnitPrice)
}

// PurchaseSeats は複数座席を全件成功か全件失敗で購入する
//
// 検証はすべての座席について変更前に行う。予約開始後に失敗した場合は、
// この呼び出しで予約した座席を解放してからエラーを返す。予約ログには
// 失敗前に書き込んだレコードが残りうる（次回の再適用で取り込まれる）。
func (s *ReservationService) PurchaseSeats(ctx context.Context, sh *showing.Showing, cust *customer.Customer, seatIDs []string, unitPrice int) ([]*ticket.Ticket, error) {
	ids, err := s.validate(sh, seatIDs, unitPrice)
	if err != nil {
		s.opts.metrics.ObservePurchase("rejected", 0)
		logger.Info("購入を拒否しました",
			zap.String("showing", sh.Key().String()), zap.Strings("seat_ids", seatIDs), zap.Error(err))
		return nil, err
	}

	reserved := make([]string, 0, len(ids))
	tickets := make([]*ticket.Ticket, 0, len(ids))
	rollback := func(cause error) error {
		for _, id := range reserved {
			if err := sh.ReleaseSeat(id); err != nil {
				logger.Error("座席の解放に失敗しました", zap.String("seat_id", id), zap.Error(err))
			}
		}
		s.customers.removeTickets(cust.ID, tickets)
		s.opts.metrics.ObservePurchase("storage_error", 0)
		logger.Error("購入処理に失敗したため巻き戻しました",
			zap.String("showing", sh.Key().String()), zap.Strings("released", reserved), zap.Error(cause))
		return fmt.Errorf("%w: 購入処理に失敗: %w", ErrStorage, cause)
	}

	// 呼び出し元のキャンセルで途中の座席だけが書き込まれないよう、追記はキャンセルを引き継がない
	writeCtx := context.WithoutCancel(ctx)
	for _, id := range ids {
		if err := sh.ReserveSeat(id); err != nil {
			return nil, rollback(err)
		}
		reserved = append(reserved, id)

		tk, err := ticket.New(sh, cust.ID, id, unitPrice)
		if err != nil {
			return nil, rollback(err)
		}
		tickets = append(tickets, tk)
		s.customers.addTicket(cust.ID, tk)

		// 1座席ごとに1行追記する
		if err := s.ticketStore.Append(writeCtx, tk.Record().Fields()); err != nil {
			return nil, rollback(err)
		}
	}

	s.opts.metrics.ObservePurchase("success", len(tickets))
	logger.Info("購入が完了しました",
		zap.String("showing", sh.Key().String()),
		zap.String("customer_id", cust.ID),
		zap.Strings("seat_ids", ids),
		zap.Int("total", unitPrice*len(tickets)),
	)
	return tickets, nil
}

// validate は座席の状態を変更せずに購入可否を検証し、正規化した座席IDを返す
func (s *ReservationService) validate(sh *showing.Showing, seatIDs []string, unitPrice int) ([]string, error) {
	if sh.IsPastDeadline(s.opts.now()) {
		return nil, ErrPurchaseWindowClosed
	}
	if len(seatIDs) == 0 {
		return nil, ErrNoSeatsSelected
	}
	if unitPrice < 0 {
		return nil, ticket.ErrInvalidPrice
	}
	ids := make([]string, 0, len(seatIDs))
	seen := make(map[string]bool, len(seatIDs))
	for _, raw := range seatIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, seat.ErrSeatIDRequired
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeat, id)
		}
		seen[id] = true

		se, ok := sh.FindSeat(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", seat.ErrSeatNotFound, id)
		}
		if !se.IsAvailable() {
			return nil, fmt.Errorf("%w: %s", seat.ErrSeatNotAvailable, id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CustomerTickets は顧客が購入したチケット一覧を返す
func (s *ReservationService) CustomerTickets(customerID string) ([]*ticket.Ticket, error) {
	return s.customers.Tickets(customerID)
}
