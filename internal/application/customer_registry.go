package application

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/customer"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// CustomerRegistry はメモリ上の顧客と顧客ごとのチケット一覧を保持する
type CustomerRegistry struct {
	customers map[string]*customer.Customer
	tickets   map[string][]*ticket.Ticket
}

func NewCustomerRegistry() *CustomerRegistry {
	return &CustomerRegistry{
		customers: make(map[string]*customer.Customer),
		tickets:   make(map[string][]*ticket.Ticket),
	}
}

// Get はIDから顧客を取得する
func (r *CustomerRegistry) Get(id string) (*customer.Customer, bool) {
	c, ok := r.customers[strings.TrimSpace(id)]
	return c, ok
}

// Resolve は既存の顧客を返し、未登録のIDなら氏名を検証して新規登録する
func (r *CustomerRegistry) Resolve(id, name string) (*customer.Customer, error) {
	id = strings.TrimSpace(id)
	if err := customer.ValidateID(id); err != nil {
		return nil, err
	}
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	c, err := customer.New(id, name)
	if err != nil {
		return nil, err
	}
	r.customers[id] = c
	r.tickets[id] = nil
	logger.Info("顧客を登録しました", zap.String("customer_id", c.ID))
	return c, nil
}

// Tickets は顧客のチケット一覧を返す
func (r *CustomerRegistry) Tickets(id string) ([]*ticket.Ticket, error) {
	id = strings.TrimSpace(id)
	if _, ok := r.customers[id]; !ok {
		return nil, customer.ErrCustomerNotFound
	}
	out := make([]*ticket.Ticket, len(r.tickets[id]))
	copy(out, r.tickets[id])
	return out, nil
}

func (r *CustomerRegistry) addTicket(customerID string, t *ticket.Ticket) {
	r.tickets[customerID] = append(r.tickets[customerID], t)
}

// removeTickets は指定したチケットを一覧から取り除く（購入の巻き戻し用）
func (r *CustomerRegistry) removeTickets(customerID string, drop []*ticket.Ticket) {
	if len(drop) == 0 {
		return
	}
	skip := make(map[string]bool, len(drop))
	for _, t := range drop {
		skip[t.ID] = true
	}
	kept := r.tickets[customerID][:0:0]
	for _, t := range r.tickets[customerID] {
		if !skip[t.ID] {
			kept = append(kept, t)
		}
	}
	r.tickets[customerID] = kept
}
