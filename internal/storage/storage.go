// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"skin_tracker/internal/model"
)

// Sentinel errors returned by Storage implementations. Callers distinguish
// a rejected duplicate from storage trouble with errors.Is.
var (
	ErrDuplicate = errors.New("subscription already exists")
	ErrNotFound  = errors.New("subscription not found")
)

// Storage is the interface for all persistence operations. Implementations
// must be safe for concurrent use: the scan loop and the bot mutate the
// subscription set at the same time.
type Storage interface {
	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	ListSubscriptions(ctx context.Context, userID int64) ([]model.Subscription, error)
	ListAllSubscriptions(ctx context.Context) ([]model.Subscription, error)
	DeleteSubscription(ctx context.Context, id int64) error

	HasProcessed(ctx context.Context, id model.ItemID) (bool, error)
	MarkProcessed(ctx context.Context, item *model.ProcessedItem) error

	Close() error
}
