package testutil

import (
	"strings"

	"github.com/google/uuid"
)

// RandomSuffix returns a short unique token for test fixtures.
func RandomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// RandomEmail returns a unique address under example.com.
func RandomEmail() string {
	return "user-" + RandomSuffix() + "@example.com"
}

// RandomName returns prefix followed by a unique token.
func RandomName(prefix string) string {
	return prefix + " " + RandomSuffix()
}
