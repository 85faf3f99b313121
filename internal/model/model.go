// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ItemID is the upstream-assigned identity of a marketplace listing.
// The API emits it as either a JSON string or a JSON number; both decode
// to the same canonical string form so "42" and 42 share one identity.
type ItemID string

// UnmarshalJSON accepts a quoted string or a bare number.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("unquote item id: %w", err)
		}
		*id = ItemID(unquoted)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("item id %q is neither string nor number", s)
	}
	*id = ItemID(s)
	return nil
}

func (id ItemID) String() string { return string(id) }

// Subscription is a user's standing request to be notified about listings
// whose name contains SkinName. CharmRequired additionally demands at least
// one keychain attached to the listing.
type Subscription struct {
	ID            int64
	UserID        int64
	SkinName      string
	CharmRequired bool
	CreatedAt     time.Time
}

// Keychain is a single attachment record on a listing.
type Keychain struct {
	Name string `json:"name"`
}

// Listing is one marketplace item as returned by the inventory API.
// Listings are transient; only the id and summary fields survive a cycle.
type Listing struct {
	ID          ItemID     `json:"id"`
	Name        string     `json:"marketHashName"`
	Price       float64    `json:"price"`
	Float       float64    `json:"float"`
	Keychains   []Keychain `json:"keyChains"`
	InspectLink string     `json:"inspectInGameLink"`
}

// ProcessedItem is the dedup record for a listing that matched at least one
// subscription. A given item id is written at most once and never mutated.
type ProcessedItem struct {
	ID            ItemID
	Name          string
	Price         float64
	Float         float64
	KeychainCount int
	InspectLink   string
	CheckedAt     time.Time
}

// MatchEvent pairs one listing with one subscription that it satisfied.
// Events are ephemeral; they are handed to the notifier and not stored.
type MatchEvent struct {
	UserID       int64
	ItemID       ItemID
	Name         string
	Price        float64
	Float        float64
	HasKeychains bool
	InspectLink  string
}
