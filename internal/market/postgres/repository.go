// Package postgres provides PostgreSQL implementation of the market repository.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/market"
	pgutil "github.com/bissquit/taskboard/internal/pkg/postgres"
	"github.com/bissquit/taskboard/internal/record"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userColumns  = `id, first_name, last_name, age, email, role, phone`
	orderColumns = `id, name, description, start_date, end_date, address, price, customer_id, executor_id`
	offerColumns = `id, order_id, executor_id`
)

// Repository implements the market.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListUsers retrieves all users ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by id.
func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, market.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

// ListOrders retrieves all orders ordered by id.
func (r *Repository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves an order by id.
func (r *Repository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, market.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return &order, nil
}

// ListOffers retrieves all offers ordered by id.
func (r *Repository) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+offerColumns+` FROM offers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0)
	for rows.Next() {
		var offer domain.Offer
		if err := rows.Scan(&offer.ID, &offer.OrderID, &offer.ExecutorID); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}

// GetOffer retrieves an offer by id.
func (r *Repository) GetOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	var offer domain.Offer
	err := r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id).
		Scan(&offer.ID, &offer.OrderID, &offer.ExecutorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, market.ErrOfferNotFound
		}
		return nil, fmt.Errorf("get offer by id: %w", err)
	}
	return &offer, nil
}

// Create inserts e and sets its generated id.
func (r *Repository) Create(ctx context.Context, e record.Entity) error {
	if err := record.Insert(ctx, r.db, e); err != nil {
		return translateWriteError(e, err)
	}
	return nil
}

// Update overwrites the named fields of e.
func (r *Repository) Update(ctx context.Context, e record.Entity, fields map[string]json.RawMessage) error {
	if err := record.ApplyPartialUpdate(ctx, r.db, e, fields); err != nil {
		return translateWriteError(e, err)
	}
	return nil
}

// Delete removes e. Rows referring to it keep their now dangling ids.
func (r *Repository) Delete(ctx context.Context, e record.Entity) error {
	err := record.Delete(ctx, r.db, e)
	if errors.Is(err, record.ErrNotFound) {
		return notFound(e)
	}
	return err
}

func translateWriteError(e record.Entity, err error) error {
	var fe *record.FieldError
	switch {
	case errors.As(err, &fe):
		return err
	case errors.Is(err, record.ErrNotFound):
		return notFound(e)
	case pgutil.ErrorCode(err) == pgutil.CodeUniqueViolation:
		return market.ErrDuplicateID
	case pgutil.IsDataError(err):
		return fmt.Errorf("%w: %w", market.ErrInvalidInput, err)
	}
	return err
}

func notFound(e record.Entity) error {
	switch e.(type) {
	case *domain.User:
		return market.ErrUserNotFound
	case *domain.Order:
		return market.ErrOrderNotFound
	case *domain.Offer:
		return market.ErrOfferNotFound
	}
	return record.ErrNotFound
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Age,
		&user.Email,
		&user.Role,
		&user.Phone,
	)
}

func scanOrder(row pgx.Row, order *domain.Order) error {
	var start, end pgtype.Date
	err := row.Scan(
		&order.ID,
		&order.Name,
		&order.Description,
		&start,
		&end,
		&order.Address,
		&order.Price,
		&order.CustomerID,
		&order.ExecutorID,
	)
	if err != nil {
		return err
	}
	order.StartDate = fromPgDate(start)
	order.EndDate = fromPgDate(end)
	return nil
}

func fromPgDate(d pgtype.Date) *domain.Date {
	if !d.Valid {
		return nil
	}
	date := domain.DateFromTime(d.Time)
	return &date
}
