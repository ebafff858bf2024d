package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestCalcBackoff(t *testing.T) {
	assert.Equal(t, 1*time.Second, calcBackoff(1))
	assert.Equal(t, 2*time.Second, calcBackoff(2))
	assert.Equal(t, 8*time.Second, calcBackoff(4))
	assert.Equal(t, 16*time.Second, calcBackoff(5))
	assert.Equal(t, 16*time.Second, calcBackoff(10))
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, sleep(ctx, time.Minute))
	assert.True(t, sleep(context.Background(), time.Millisecond))
}

func TestErrorCode(t *testing.T) {
	dup := &pgconn.PgError{Code: CodeUniqueViolation}

	assert.Equal(t, CodeUniqueViolation, ErrorCode(dup))
	assert.Equal(t, CodeUniqueViolation, ErrorCode(fmt.Errorf("insert: %w", dup)))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))

	assert.True(t, IsDataError(&pgconn.PgError{Code: CodeNumericValueOutOfRange}))
	assert.False(t, IsDataError(dup))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), Config{URL: "://not-a-url"})
	assert.Error(t, err)
}
