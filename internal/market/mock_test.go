package market

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/record"
)

// mockRepository implements Repository in memory with the same key rules as the
// database schema. References are not checked.
type mockRepository struct {
	users  map[int64]domain.User
	orders map[int64]domain.Order
	offers map[int64]domain.Offer
	nextID int64

	// err, when set, is returned by every call.
	err error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:  make(map[int64]domain.User),
		orders: make(map[int64]domain.Order),
		offers: make(map[int64]domain.Offer),
		nextID: 100,
	}
}

func (m *mockRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return sortedValues(m.users), nil
}

func (m *mockRepository) GetUser(_ context.Context, id int64) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *mockRepository) ListOrders(_ context.Context) ([]domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return sortedValues(m.orders), nil
}

func (m *mockRepository) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (m *mockRepository) ListOffers(_ context.Context) ([]domain.Offer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return sortedValues(m.offers), nil
}

func (m *mockRepository) GetOffer(_ context.Context, id int64) (*domain.Offer, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.offers[id]
	if !ok {
		return nil, ErrOfferNotFound
	}
	return &o, nil
}

func (m *mockRepository) Create(_ context.Context, e record.Entity) error {
	if m.err != nil {
		return m.err
	}
	if e.Key() == 0 {
		m.nextID++
		e.SetKey(m.nextID)
	}
	if m.exists(e) {
		return ErrDuplicateID
	}
	return m.store(e)
}

func (m *mockRepository) Update(_ context.Context, e record.Entity, fields map[string]json.RawMessage) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := fields[record.KeyColumn]; ok {
		return &record.FieldError{Field: record.KeyColumn, Err: record.ErrImmutableField}
	}
	if err := record.Populate(e, fields); err != nil {
		return err
	}
	return m.store(e)
}

func (m *mockRepository) Delete(_ context.Context, e record.Entity) error {
	if m.err != nil {
		return m.err
	}
	switch e.(type) {
	case *domain.User:
		delete(m.users, e.Key())
	case *domain.Order:
		delete(m.orders, e.Key())
	case *domain.Offer:
		delete(m.offers, e.Key())
	}
	return nil
}

func (m *mockRepository) exists(e record.Entity) bool {
	var ok bool
	switch e.(type) {
	case *domain.User:
		_, ok = m.users[e.Key()]
	case *domain.Order:
		_, ok = m.orders[e.Key()]
	case *domain.Offer:
		_, ok = m.offers[e.Key()]
	}
	return ok
}

func (m *mockRepository) store(e record.Entity) error {
	switch v := e.(type) {
	case *domain.User:
		m.users[v.ID] = *v
	case *domain.Order:
		m.orders[v.ID] = *v
	case *domain.Offer:
		m.offers[v.ID] = *v
	default:
		return fmt.Errorf("unexpected entity %T", e)
	}
	return nil
}

func sortedValues[T any](m map[int64]T) []T {
	out := make([]T, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[id])
	}
	return out
}
