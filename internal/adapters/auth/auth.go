// Package auth is the seam between the HTTP layer and the external
// authentication service. The core treats the resolved user id as an opaque
// key and performs no further identity validation.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Sentinel kinds for auth errors.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or unknown token")
)

// Resolver maps a bearer token to a user id. Real deployments back this
// with the token-issuing service; tests and dev use StaticResolver.
type Resolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// StaticResolver resolves tokens from a fixed map.
type StaticResolver struct {
	mu     sync.RWMutex
	tokens map[string]int64
}

// NewStaticResolver creates a resolver over a token -> user id map.
func NewStaticResolver(tokens map[string]int64) *StaticResolver {
	copied := make(map[string]int64, len(tokens))
	for t, id := range tokens {
		copied[t] = id
	}
	return &StaticResolver{tokens: copied}
}

// Resolve returns the user id for a token.
func (r *StaticResolver) Resolve(_ context.Context, token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrMissingToken
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.tokens[token]
	if !ok {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Add registers a token at runtime. Test helper.
func (r *StaticResolver) Add(token string, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = userID
}
