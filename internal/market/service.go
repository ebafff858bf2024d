package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/record"
)

// Service implements create/read/update/delete for users, orders and offers.
type Service struct {
	repo Repository
}

// NewService creates a new market service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListUsers returns every user.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser builds a user from fields and stores it.
func (s *Service) CreateUser(ctx context.Context, fields map[string]json.RawMessage) (*domain.User, error) {
	user := &domain.User{}
	if err := s.create(ctx, user, fields); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser overwrites the given fields of an existing user.
func (s *Service) UpdateUser(ctx context.Context, id int64, fields map[string]json.RawMessage) error {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return s.update(ctx, user, fields)
}

// DeleteUser removes a user. Orders and offers referring to it are left as they are.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user)
}

// ListOrders returns every order.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

// GetOrder returns the order with the given id.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// CreateOrder builds an order from fields and stores it. start_date and
// end_date must be MM/DD/YYYY strings.
func (s *Service) CreateOrder(ctx context.Context, fields map[string]json.RawMessage) (*domain.Order, error) {
	order := &domain.Order{}
	if err := s.create(ctx, order, fields); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrder overwrites the given fields of an existing order.
func (s *Service) UpdateOrder(ctx context.Context, id int64, fields map[string]json.RawMessage) error {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	return s.update(ctx, order, fields)
}

// DeleteOrder removes an order.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, order)
}

// ListOffers returns every offer.
func (s *Service) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	return s.repo.ListOffers(ctx)
}

// GetOffer returns the offer with the given id.
func (s *Service) GetOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	return s.repo.GetOffer(ctx, id)
}

// CreateOffer builds an offer from fields and stores it.
func (s *Service) CreateOffer(ctx context.Context, fields map[string]json.RawMessage) (*domain.Offer, error) {
	offer := &domain.Offer{}
	if err := s.create(ctx, offer, fields); err != nil {
		return nil, err
	}
	return offer, nil
}

// UpdateOffer overwrites the given fields of an existing offer.
func (s *Service) UpdateOffer(ctx context.Context, id int64, fields map[string]json.RawMessage) error {
	offer, err := s.repo.GetOffer(ctx, id)
	if err != nil {
		return err
	}
	return s.update(ctx, offer, fields)
}

// DeleteOffer removes an offer.
func (s *Service) DeleteOffer(ctx context.Context, id int64) error {
	offer, err := s.repo.GetOffer(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, offer)
}

func (s *Service) create(ctx context.Context, e record.Entity, fields map[string]json.RawMessage) error {
	if err := record.Populate(e, fields); err != nil {
		return invalidInput(err)
	}
	return s.repo.Create(ctx, e)
}

func (s *Service) update(ctx context.Context, e record.Entity, fields map[string]json.RawMessage) error {
	return invalidInput(s.repo.Update(ctx, e, fields))
}

// invalidInput marks field assignment failures as client errors.
func invalidInput(err error) error {
	var fe *record.FieldError
	if errors.As(err, &fe) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
