// Package correlation carries the per-request correlation identifier
// through the call chain. The value is owned by a single request and is
// never shared across concurrently handled requests.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// Header is the transport header the identifier travels in, both inbound
// and on every response.
const Header = "X-Correlation-ID"

type contextKey struct {
	name string
}

var idCtxKey = &contextKey{"correlation-id"}

// WithID sets the correlation identifier in the given context
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idCtxKey, id)
}

// ID finds the correlation identifier in the context.
func ID(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(idCtxKey).(string)
	return raw, ok
}

// NewID generates a fresh random identifier for requests that arrive
// without one.
func NewID() string {
	return uuid.NewString()
}
