// Package record implements the generic row operations shared by every entity:
// construction from a key/value mapping, insert, partial update and delete.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// KeyColumn is the primary key column of every table.
const KeyColumn = "id"

// Errors returned by record operations.
var (
	ErrNotFound       = errors.New("record not found")
	ErrImmutableField = errors.New("field cannot be changed")
)

// FieldError reports a value that could not be assigned to a field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Entity is a row of a table with an integer primary key.
type Entity interface {
	Table() string
	Key() int64
	SetKey(id int64)
	// Columns lists the non-key columns in declaration order.
	Columns() []string
	Value(column string) any
	Assign(column string, raw json.RawMessage) error
}

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Populate assigns every entry of fields to e. Keys are applied in sorted order
// so the first failing key is deterministic.
func Populate(e Entity, fields map[string]json.RawMessage) error {
	for _, name := range sortedKeys(fields) {
		if err := e.Assign(name, fields[name]); err != nil {
			return &FieldError{Field: name, Err: err}
		}
	}
	return nil
}

// InsertQuery builds the INSERT statement for e. The key column is included
// only when e already carries a non-zero key.
func InsertQuery(e Entity) (string, []any) {
	columns := e.Columns()
	if e.Key() != 0 {
		columns = append([]string{KeyColumn}, columns...)
	}

	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		names[i] = ident(col)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = e.Value(col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		ident(e.Table()),
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		ident(KeyColumn),
	)
	return query, args
}

// Insert stores e and sets its key to the one assigned by the database.
// An explicit key moves the table's identity sequence past it.
func Insert(ctx context.Context, db DB, e Entity) error {
	explicit := e.Key() != 0
	query, args := InsertQuery(e)

	var id int64
	if err := db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return fmt.Errorf("insert into %s: %w", e.Table(), err)
	}
	e.SetKey(id)

	if explicit {
		return AdvanceSequence(ctx, db, e.Table())
	}
	return nil
}

// AdvanceSequence makes the next generated key of table greater than both the
// highest stored key and any key the sequence already handed out.
func AdvanceSequence(ctx context.Context, db DB, table string) error {
	if _, err := db.Exec(ctx, advanceSequenceQuery(table), table); err != nil {
		return fmt.Errorf("advance %s id sequence: %w", table, err)
	}
	return nil
}

func advanceSequenceQuery(table string) string {
	return fmt.Sprintf(
		`SELECT setval(seq, GREATEST(COALESCE(pg_sequence_last_value(seq) + 1, 1), `+
			`COALESCE((SELECT MAX(%[2]s) FROM %[1]s), 0) + 1), false) `+
			`FROM (SELECT pg_get_serial_sequence($1, '%[3]s')::regclass AS seq) s`,
		ident(table), ident(KeyColumn), KeyColumn,
	)
}

// ApplyPartialUpdate overwrites exactly the named fields of e and persists them
// with one UPDATE statement. All fields are assigned in memory first; if any
// assignment fails nothing is written.
func ApplyPartialUpdate(ctx context.Context, db DB, e Entity, fields map[string]json.RawMessage) error {
	names := sortedKeys(fields)
	if len(names) == 0 {
		return nil
	}

	for _, name := range names {
		if name == KeyColumn {
			return &FieldError{Field: name, Err: ErrImmutableField}
		}
		if err := e.Assign(name, fields[name]); err != nil {
			return &FieldError{Field: name, Err: err}
		}
	}

	sets := make([]string, len(names))
	args := make([]any, 0, len(names)+1)
	args = append(args, e.Key())
	for i, name := range names {
		sets[i] = fmt.Sprintf("%s = $%d", ident(name), i+2)
		args = append(args, e.Value(name))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1",
		ident(e.Table()),
		strings.Join(sets, ", "),
		ident(KeyColumn),
	)

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", e.Table(), err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes e from its table.
func Delete(ctx context.Context, db DB, e Entity) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(e.Table()), ident(KeyColumn))

	tag, err := db.Exec(ctx, query, e.Key())
	if err != nil {
		return fmt.Errorf("delete from %s: %w", e.Table(), err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedKeys(fields map[string]json.RawMessage) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
