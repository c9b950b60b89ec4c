package port

import "context"

// Authenticator is the device credential boundary consulted before a swap is
// confirmed. Implementations are opaque to the core; it only acts on the
// returned boolean.
type Authenticator interface {
	Authenticate(ctx context.Context, prompt string) (bool, error)
}
