// Package seed parses the static startup dataset and loads it into the store.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/record"
)

//go:embed payload.json
var defaultPayload []byte

// Payload is the raw seed document: key/value records per entity type.
type Payload struct {
	Users  []map[string]json.RawMessage `json:"users"`
	Orders []map[string]json.RawMessage `json:"orders"`
	Offers []map[string]json.RawMessage `json:"offers"`
}

// Dataset holds the entities built from a Payload.
type Dataset struct {
	Users  []*domain.User
	Orders []*domain.Order
	Offers []*domain.Offer
}

// Open returns the dataset stored at path, or the embedded default dataset
// when path is empty.
func Open(path string) (*Dataset, error) {
	if path == "" {
		return Parse(bytes.NewReader(defaultPayload))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed payload: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse decodes a payload and builds its entities. Order dates are parsed from
// MM/DD/YYYY; unknown keys and mistyped values are errors.
func Parse(r io.Reader) (*Dataset, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode seed payload: %w", err)
	}

	users, err := build(p.Users, "users", func() *domain.User { return &domain.User{} })
	if err != nil {
		return nil, err
	}
	orders, err := build(p.Orders, "orders", func() *domain.Order { return &domain.Order{} })
	if err != nil {
		return nil, err
	}
	offers, err := build(p.Offers, "offers", func() *domain.Offer { return &domain.Offer{} })
	if err != nil {
		return nil, err
	}

	return &Dataset{Users: users, Orders: orders, Offers: offers}, nil
}

func build[T record.Entity](records []map[string]json.RawMessage, table string, newEntity func() T) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, fields := range records {
		e := newEntity()
		if err := record.Populate(e, fields); err != nil {
			return nil, fmt.Errorf("seed %s[%d]: %w", table, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
