// Package kvstore is a namespaced key-value store used for per-user solo
// features (watchlist, swipe preferences, personalize settings). The same
// service logic runs against the in-memory store in tests and the Redis
// store in production.
package kvstore

import "context"

// Namespaces for the logical collections stored here.
const (
	NSWatchlist   = "watchlist"
	NSPreferences = "swipePreferences"
	NSPersonalize = "personalizeSettings"
)

// Store is a minimal key-value interface: string values plus unordered
// string sets, both scoped by namespace.
type Store interface {
	Get(ctx context.Context, ns, key string) (string, error)
	Set(ctx context.Context, ns, key, value string) error
	Delete(ctx context.Context, ns, key string) error

	SAdd(ctx context.Context, ns, key string, members ...string) error
	SRem(ctx context.Context, ns, key string, members ...string) error
	SMembers(ctx context.Context, ns, key string) ([]string, error)
}

func compose(ns, key string) string { return ns + ":" + key }
