package market

import (
	"context"
	"encoding/json"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/record"
)

// Repository defines the data operations behind the users, orders and offers endpoints.
type Repository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	ListOffers(ctx context.Context) ([]domain.Offer, error)
	GetOffer(ctx context.Context, id int64) (*domain.Offer, error)

	// Generic record operations, shared by all entity types.
	Create(ctx context.Context, e record.Entity) error
	Update(ctx context.Context, e record.Entity, fields map[string]json.RawMessage) error
	Delete(ctx context.Context, e record.Entity) error
}
