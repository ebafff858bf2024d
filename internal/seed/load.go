package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/taskboard/internal/pkg/ctxlog"
	"github.com/bissquit/taskboard/internal/pkg/metrics"
	"github.com/bissquit/taskboard/internal/record"
	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions. Satisfied by *pgxpool.Pool.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ErrMissingReference is returned by Load when a seeded record refers to an id
// that is not in the store.
var ErrMissingReference = errors.New("seed record references a missing id")

// reference is a column holding the id of a row in another table.
type reference struct {
	column string
	target string
}

type tableBatch struct {
	table    string
	entities []record.Entity
	refs     []reference
}

// Load inserts ds in a single transaction, one batch per table, in reference
// order: users, orders, offers. After each table is inserted its references must
// resolve to rows already in the store. Identity sequences are moved past the
// highest inserted id. Any failure rolls the whole load back.
func Load(ctx context.Context, db Beginner, ds *Dataset) error {
	batches := []tableBatch{
		{table: "users", entities: entities(ds.Users)},
		{
			table:    "orders",
			entities: entities(ds.Orders),
			refs:     []reference{{"customer_id", "users"}, {"executor_id", "users"}},
		},
		{
			table:    "offers",
			entities: entities(ds.Offers),
			refs:     []reference{{"order_id", "orders"}, {"executor_id", "users"}},
		},
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, b := range batches {
		if err := insertBatch(ctx, tx, b.entities); err != nil {
			return fmt.Errorf("seed %s: %w", b.table, err)
		}
		if err := checkReferences(ctx, tx, b.table, b.refs); err != nil {
			return fmt.Errorf("seed %s: %w", b.table, err)
		}
		if err := record.AdvanceSequence(ctx, tx, b.table); err != nil {
			return fmt.Errorf("seed %s: %w", b.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	logger := ctxlog.FromContext(ctx)
	for _, b := range batches {
		metrics.SeedRecords.WithLabelValues(b.table).Add(float64(len(b.entities)))
		logger.Info("seeded table", "table", b.table, "records", len(b.entities))
	}
	return nil
}

func insertBatch(ctx context.Context, tx pgx.Tx, list []record.Entity) error {
	if len(list) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range list {
		query, args := record.InsertQuery(e)
		batch.Queue(query, args...).QueryRow(func(row pgx.Row) error {
			var id int64
			if err := row.Scan(&id); err != nil {
				return err
			}
			e.SetKey(id)
			return nil
		})
	}

	return tx.SendBatch(ctx, batch).Close()
}

func checkReferences(ctx context.Context, tx pgx.Tx, table string, refs []reference) error {
	for _, ref := range refs {
		var id, missing int64
		err := tx.QueryRow(ctx, danglingQuery(table, ref)).Scan(&id, &missing)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("check %s: %w", ref.column, err)
		}
		return fmt.Errorf("%w: %s %d has %s %d", ErrMissingReference, table, id, ref.column, missing)
	}
	return nil
}

// danglingQuery selects the first row of table whose ref column names no row of
// the target table.
func danglingQuery(table string, ref reference) string {
	col := pgx.Identifier{ref.column}.Sanitize()
	return fmt.Sprintf(
		`SELECT t.id, t.%[2]s FROM %[1]s t WHERE t.%[2]s IS NOT NULL `+
			`AND NOT EXISTS (SELECT 1 FROM %[3]s r WHERE r.id = t.%[2]s) ORDER BY t.id LIMIT 1`,
		pgx.Identifier{table}.Sanitize(), col, pgx.Identifier{ref.target}.Sanitize(),
	)
}

func entities[T record.Entity](list []T) []record.Entity {
	out := make([]record.Entity, len(list))
	for i, e := range list {
		out[i] = e
	}
	return out
}
