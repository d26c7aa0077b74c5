// Package session holds the server side of the login cookie: an opaque
// token mapped to a user id, with a fixed TTL.
package session

import "context"

// Store is the session table. Resolve returns ("", nil) for a token that is
// unknown or expired; Destroy of an already-gone token is a no-op.
type Store interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
	Close() error
}
