package domain

import "context"

// SessionCache defines the key-value contract for session tokens.
// A token maps to the JSON-encoded public profile of the authenticated user
// and expires after a fixed TTL managed entirely by the backing store.
// Tokens are not renewed on read.
type SessionCache interface {
	// Set stores the profile under the given token with the configured TTL.
	Set(ctx context.Context, token string, profile *Profile) error

	// Get returns the profile stored under the token, or (nil, nil) when
	// the token is absent or expired.
	Get(ctx context.Context, token string) (*Profile, error)

	// Delete removes the token. Deleting an absent token is a no-op.
	Delete(ctx context.Context, token string) error
}
