// Package dao defines the generic data-access contract used by runtime
// services to persist their records.
package dao

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidID is returned when an identifier is empty or malformed.
	ErrInvalidID = errors.New("invalid entity id")

	// ErrNilEntity is returned when a nil entity is saved.
	ErrNilEntity = errors.New("nil entity")
)

// Service is a generic CRUD contract keyed by K.
type Service[K comparable, T any] interface {
	// Save persists the entity under the given key.
	Save(ctx context.Context, key K, entity T) error

	// Get returns the entity stored under the key, or ErrNotFound.
	Get(ctx context.Context, key K) (T, error)

	// Delete removes the entity; deleting an absent key returns ErrNotFound.
	Delete(ctx context.Context, key K) error

	// List returns all stored entities.
	List(ctx context.Context) ([]T, error)
}
