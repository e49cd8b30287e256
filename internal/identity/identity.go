// Package identity tracks the active demo user. The dashboard persists the
// active identity under the same "current-user" key the browser demo uses;
// when nothing has been established the configured default identity applies.
package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/kvstore"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/logger"
)

// CurrentUserKey is where the active identity record lives.
const CurrentUserKey = "current-user"

// User is the active identity record. Only ID is required.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type ctxKey struct{}

// WithOwnerID returns a context carrying an explicit owner id, as set by the
// demo auth middleware from a bearer token's subject.
func WithOwnerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// OwnerIDFromContext returns the owner id carried on ctx, if any.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Resolver resolves the owning identity for service operations.
type Resolver struct {
	kv        kvstore.Store
	defaultID string
}

func NewResolver(kv kvstore.Store, defaultID string) *Resolver {
	if defaultID == "" {
		defaultID = "demo-user"
	}
	return &Resolver{kv: kv, defaultID: defaultID}
}

// OwnerID determines the active owner: an id carried on the context wins,
// then the stored current-user record, then the configured default. A corrupt
// stored record falls back to the default rather than failing.
func (r *Resolver) OwnerID(ctx context.Context) string {
	if id, ok := OwnerIDFromContext(ctx); ok {
		return id
	}
	u, err := r.CurrentUser(ctx)
	if err != nil || u == nil || u.ID == "" {
		return r.defaultID
	}
	return u.ID
}

// CurrentUser returns the stored identity record, or nil when absent.
func (r *Resolver) CurrentUser(ctx context.Context) (*User, error) {
	raw, ok, err := r.kv.Get(ctx, CurrentUserKey)
	if err != nil {
		return nil, fmt.Errorf("read current user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		logger.Warnf("corrupt value under %q, ignoring: %v", CurrentUserKey, err)
		return nil, nil
	}
	return &u, nil
}

// SetCurrentUser persists the active identity record.
func (r *Resolver) SetCurrentUser(ctx context.Context, u *User) error {
	if u == nil || u.ID == "" {
		return fmt.Errorf("set current user: id is required")
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	if err := r.kv.Set(ctx, CurrentUserKey, string(b)); err != nil {
		return fmt.Errorf("write current user: %w", err)
	}
	return nil
}
