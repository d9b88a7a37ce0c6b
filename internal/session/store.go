// Package session tracks live game sessions. Sessions are ephemeral:
// the store is in-memory and bounded, and the oldest idle session is
// evicted when the bound is hit.
package session

import (
	"errors"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when no session exists for an ID, either
// because it never did or because it was evicted.
var ErrNotFound = errors.New("session: not found")

// Store holds live sessions keyed by ID. Implementations must be safe
// for concurrent use.
type Store[T any] interface {
	Get(id string) (T, error)
	Put(id string, v T)
	Remove(id string)
	Len() int
}

// NewID mints a lexically sortable session identifier.
func NewID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Now(), entropy).String()
}
