// Package matcher implements the listing-against-subscription match engine.
package matcher

import (
	"context"
	"log/slog"

	"skin_tracker/internal/model"
)

// Store is the slice of the storage contract the engine needs: the dedup
// state for already-processed listings.
type Store interface {
	HasProcessed(ctx context.Context, id model.ItemID) (bool, error)
	MarkProcessed(ctx context.Context, item *model.ProcessedItem) error
}

// Engine evaluates fetched listings against the active subscriptions.
type Engine struct {
	store Store
	log   *slog.Logger
}

// New creates an Engine using the given dedup store.
func New(store Store, log *slog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// KeychainMatch reports whether a listing satisfies a subscription's
// accessory requirement. Without the requirement it always passes.
func KeychainMatch(required bool, keychains []model.Keychain) bool {
	if !required {
		return true
	}
	return len(keychains) > 0
}

// Evaluate tests every listing against every subscription and returns one
// event per matching pair, in listing order then subscription order.
//
// A listing already present in the processed set is skipped entirely. A
// listing that matches at least one subscription is marked processed exactly
// once; a listing that matches none is left unmarked so a future
// subscription can still catch it. Trouble with a single listing is logged
// and never aborts the rest of the batch.
func (e *Engine) Evaluate(ctx context.Context, listings []model.Listing, subs []model.Subscription) []model.MatchEvent {
	var events []model.MatchEvent

	for _, listing := range listings {
		if listing.ID == "" {
			e.log.Warn("listing without id, skipping", "name", listing.Name)
			continue
		}

		processed, err := e.store.HasProcessed(ctx, listing.ID)
		if err != nil {
			e.log.Error("check processed", "item_id", listing.ID, "error", err)
			continue
		}
		if processed {
			continue
		}

		var matched []model.MatchEvent
		for _, sub := range subs {
			if !NameMatch(sub.SkinName, listing.Name) {
				continue
			}
			if !KeychainMatch(sub.CharmRequired, listing.Keychains) {
				continue
			}
			matched = append(matched, model.MatchEvent{
				UserID:       sub.UserID,
				ItemID:       listing.ID,
				Name:         listing.Name,
				Price:        listing.Price,
				Float:        listing.Float,
				HasKeychains: len(listing.Keychains) > 0,
				InspectLink:  listing.InspectLink,
			})
		}

		if len(matched) == 0 {
			continue
		}

		item := &model.ProcessedItem{
			ID:            listing.ID,
			Name:          listing.Name,
			Price:         listing.Price,
			Float:         listing.Float,
			KeychainCount: len(listing.Keychains),
			InspectLink:   listing.InspectLink,
		}
		if err := e.store.MarkProcessed(ctx, item); err != nil {
			// The item stays unmarked; next cycle will retry it.
			e.log.Error("mark processed", "item_id", listing.ID, "error", err)
			continue
		}
		events = append(events, matched...)
	}

	return events
}
