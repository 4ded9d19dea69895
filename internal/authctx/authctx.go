// Package authctx carries the authenticated caller through request contexts.
package authctx

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller and the permission codenames they hold.
type Identity struct {
	AccountID   uuid.UUID
	SessionID   uuid.UUID
	Email       string
	IsSuperuser bool
	Permissions map[string]struct{}
}

// Has reports whether the caller holds codename. Superusers hold everything.
func (i *Identity) Has(codename string) bool {
	if i == nil {
		return false
	}
	if i.IsSuperuser {
		return true
	}
	_, ok := i.Permissions[codename]
	return ok
}

// Codenames returns the held codenames in no particular order.
func (i *Identity) Codenames() []string {
	out := make([]string, 0, len(i.Permissions))
	for c := range i.Permissions {
		out = append(out, c)
	}
	return out
}

type ctxKey struct{}

func With(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the caller, or nil for anonymous contexts such as the CLI.
func From(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxKey{}).(*Identity)
	return id
}

// ActorID returns the caller's account id, or nil when anonymous.
func ActorID(ctx context.Context) *uuid.UUID {
	if id := From(ctx); id != nil {
		a := id.AccountID
		return &a
	}
	return nil
}
