package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/customer"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
)

const testPrice = 15000

type reservationFixture struct {
	catalog   *Catalog
	customers *CustomerRegistry
	tickets   *memStore
	service   *ReservationService
	showing   *showing.Showing
}

func newReservationFixture(t *testing.T, opts ...Option) *reservationFixture {
	t.Helper()
	tickets := newMemStore()
	c := newTestCatalog(t, newMemStore(), tickets)
	sh, err := c.AddShowing(at(10, 14, 0), showing.Movie{Title: "Dune", Genre: "Sci-Fi"}, "Sala 1")
	require.NoError(t, err)

	base := []Option{WithClock(fixedClock()), WithLocation(time.UTC)}
	customers := NewCustomerRegistry()
	return &reservationFixture{
		catalog:   c,
		customers: customers,
		tickets:   tickets,
		service:   NewReservationService(c, customers, tickets, append(base, opts...)...),
		showing:   sh,
	}
}

func TestReservationService_Purchase(t *testing.T) {
	ctx := context.Background()

	t.Run("正常に購入できる", func(t *testing.T) {
		f := newReservationFixture(t)

		got, err := f.service.Purchase(ctx, PurchaseInput{
			Showing:      f.showing.Key(),
			CustomerID:   "1234567890",
			CustomerName: "Ana Maria",
			SeatIDs:      []string{"A1", "A2", "A3"},
			UnitPrice:    testPrice,
		})

		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, id := range []string{"A1", "A2", "A3"} {
			assert.Equal(t, id, got[i].SeatID)
			assert.Equal(t, testPrice, got[i].Price)
			assert.Equal(t, "1234567890", got[i].CustomerID)
			assert.NotEmpty(t, got[i].ID)
		}

		seats := availableIDs(f.showing)
		assert.False(t, seats["A1"])
		assert.False(t, seats["A2"])
		assert.False(t, seats["A3"])
		assert.True(t, seats["A4"], "指定していない座席は変わらない")
		assert.Equal(t, 3, f.showing.SeatsSold())

		assert.Equal(t, [][]string{
			{"10/03/2025 - 14:00", "Sala 1", "Dune", "A1"},
			{"10/03/2025 - 14:00", "Sala 1", "Dune", "A2"},
			{"10/03/2025 - 14:00", "Sala 1", "Dune", "A3"},
		}, f.tickets.records)

		owned, err := f.service.CustomerTickets("1234567890")
		require.NoError(t, err)
		assert.Len(t, owned, 3)
	})

	t.Run("存在しない上映", func(t *testing.T) {
		f := newReservationFixture(t)

		_, err := f.service.Purchase(ctx, PurchaseInput{
			Showing:      showing.NewKey(at(10, 14, 0), "Sala 2", "Dune"),
			CustomerID:   "1234567890",
			CustomerName: "Ana",
			SeatIDs:      []string{"A1"},
		})

		assert.ErrorIs(t, err, ErrShowingNotFound)
	})

	t.Run("顧客情報が不正なら何も変更しない", func(t *testing.T) {
		f := newReservationFixture(t)

		_, err := f.service.Purchase(ctx, PurchaseInput{
			Showing:      f.showing.Key(),
			CustomerID:   "12345",
			CustomerName: "Ana",
			SeatIDs:      []string{"A1"},
		})

		assert.ErrorIs(t, err, customer.ErrInvalidID)
		assert.Equal(t, 0, f.showing.SeatsSold())
		assert.Equal(t, 0, f.tickets.Len())
	})

	t.Run("既存顧客は氏名なしでも購入できる", func(t *testing.T) {
		f := newReservationFixture(t)
		_, err := f.customers.Resolve("1234567890", "Ana")
		require.NoError(t, err)

		got, err := f.service.Purchase(ctx, PurchaseInput{
			Showing:    f.showing.Key(),
			CustomerID: "1234567890",
			SeatIDs:    []string{"J8"},
			UnitPrice:  testPrice,
		})

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestReservationService_PurchaseSeats_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(t *testing.T, f *reservationFixture)
		clock   time.Time
		seatIDs []string
		price   int
		wantErr error
	}{
		{
			name:    "座席が未指定",
			seatIDs: nil,
			price:   testPrice,
			wantErr: ErrNoSeatsSelected,
		},
		{
			name:    "存在しない座席",
			seatIDs: []string{"A1", "Z99"},
			price:   testPrice,
			wantErr: seat.ErrSeatNotFound,
		},
		{
			name: "使用中の座席を含む",
			prepare: func(t *testing.T, f *reservationFixture) {
				require.NoError(t, f.showing.ReserveSeat("A1"))
			},
			seatIDs: []string{"B1", "A1"},
			price:   testPrice,
			wantErr: seat.ErrSeatNotAvailable,
		},
		{
			name:    "同じ座席の重複指定",
			seatIDs: []string{"A1", "A1"},
			price:   testPrice,
			wantErr: ErrDuplicateSeat,
		},
		{
			name:    "空の座席ID",
			seatIDs: []string{"A1", " "},
			price:   testPrice,
			wantErr: seat.ErrSeatIDRequired,
		},
		{
			name:    "負の価格",
			seatIDs: []string{"A1"},
			price:   -1,
			wantErr: ticket.ErrInvalidPrice,
		},
		{
			name:    "購入受付期限を過ぎている",
			clock:   at(10, 14, 31),
			seatIDs: []string{"A1"},
			price:   testPrice,
			wantErr: ErrPurchaseWindowClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if !tt.clock.IsZero() {
				clock := tt.clock
				opts = append(opts, WithClock(func() time.Time { return clock }))
			}
			f := newReservationFixture(t, opts...)
			if tt.prepare != nil {
				tt.prepare(t, f)
			}
			before := availableIDs(f.showing)
			cust, err := f.customers.Resolve("1234567890", "Ana")
			require.NoError(t, err)

			got, err := f.service.PurchaseSeats(ctx, f.showing, cust, tt.seatIDs, tt.price)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
			assert.Equal(t, before, availableIDs(f.showing), "座席状態は変更されない")
			assert.Equal(t, 0, f.tickets.Len())
		})
	}
}

func TestReservationService_PurchaseSeats_Deadline(t *testing.T) {
	ctx := context.Background()

	t.Run("開始後30分ちょうどまでは購入できる", func(t *testing.T) {
		f := newReservationFixture(t, WithClock(func() time.Time { return at(10, 14, 30) }))
		cust, err := f.customers.Resolve("1234567890", "Ana")
		require.NoError(t, err)

		got, err := f.service.PurchaseSeats(ctx, f.showing, cust, []string{"A1"}, testPrice)

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestReservationService_PurchaseSeats_AppendFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("2件目の追記に失敗したら全座席を巻き戻す", func(t *testing.T) {
		tickets := new(MockStore)
		tickets.On("Append", mock.Anything, []string{"10/03/2025 - 14:00", "Sala 1", "Dune", "A1"}).Return(nil).Once()
		tickets.On("Append", mock.Anything, []string{"10/03/2025 - 14:00", "Sala 1", "Dune", "A2"}).Return(errors.New("disk full")).Once()

		c := newTestCatalog(t, newMemStore(), newMemStore())
		sh, err := c.AddShowing(at(10, 14, 0), showing.Movie{Title: "Dune"}, "Sala 1")
		require.NoError(t, err)
		customers := NewCustomerRegistry()
		cust, err := customers.Resolve("1234567890", "Ana")
		require.NoError(t, err)

		reg := prometheus.NewRegistry()
		m := metrics.NewWithRegistry(reg)
		svc := NewReservationService(c, customers, tickets, WithClock(fixedClock()), WithMetrics(m))

		got, err := svc.PurchaseSeats(ctx, sh, cust, []string{"A1", "A2", "A3"}, testPrice)

		assert.ErrorIs(t, err, ErrStorage)
		assert.Nil(t, got)
		assert.Equal(t, 0, sh.SeatsSold())
		owned, err := customers.Tickets("1234567890")
		require.NoError(t, err)
		assert.Empty(t, owned)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.PurchasesTotal.WithLabelValues("storage_error")))
		tickets.AssertExpectations(t)
		tickets.AssertNumberOfCalls(t, "Append", 2)
	})
}

func TestReservationService_PurchaseSeats_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	tickets := new(MockStore)
	tickets.On("Append", live, mock.Anything).Return(nil).Twice()

	c := newTestCatalog(t, newMemStore(), newMemStore())
	sh, err := c.AddShowing(at(10, 14, 0), showing.Movie{Title: "Dune"}, "Sala 1")
	require.NoError(t, err)
	customers := NewCustomerRegistry()
	cust, err := customers.Resolve("1234567890", "Ana")
	require.NoError(t, err)
	svc := NewReservationService(c, customers, tickets, WithClock(fixedClock()))

	got, err := svc.PurchaseSeats(ctx, sh, cust, []string{"A1", "A2"}, testPrice)

	require.NoError(t, err, "購入途中でキャンセルされても全座席を書き込む")
	assert.Len(t, got, 2)
	assert.Equal(t, 2, sh.SeatsSold())
	tickets.AssertExpectations(t)
}

func TestReservationService_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	f := newReservationFixture(t, WithMetrics(m))
	cust, err := f.customers.Resolve("1234567890", "Ana")
	require.NoError(t, err)

	_, err = f.service.PurchaseSeats(ctx, f.showing, cust, []string{"A1", "A2"}, testPrice)
	require.NoError(t, err)
	_, err = f.service.PurchaseSeats(ctx, f.showing, cust, []string{"A1"}, testPrice)
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.PurchasesTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PurchasesTotal.WithLabelValues("rejected")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.TicketsIssuedTotal))
}
