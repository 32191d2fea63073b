// Package uistate persists small pieces of browse-UI state (the expanded
// folder set) behind an injected key-value abstraction, so the backing
// store can be swapped or mocked.
package uistate

import "context"

// Store holds named string sets for the browse UI.
type Store interface {
	// Get returns the values stored under key, or domain.ErrStateNotFound.
	Get(ctx context.Context, key string) ([]string, error)
	// Put replaces the values stored under key.
	Put(ctx context.Context, key string, values []string) error
}
