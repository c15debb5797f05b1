package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
)

// Actor holds the authenticated caller's identity for a single request.
// For carrier users, CarrierName binds the actor to exactly one carrier.
type Actor struct {
	UserID      uuid.UUID
	FullName    string
	Email       string
	Role        domain.UserType
	CarrierName string
}

type contextKey string

const actorContextKey contextKey = "actor"

// WithActor adds the actor to the context
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// FromContext extracts the actor from the context
func FromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(*Actor)
	return actor, ok
}

// MustFromContext extracts the actor or panics
func MustFromContext(ctx context.Context) *Actor {
	actor, ok := FromContext(ctx)
	if !ok {
		panic("actor not found in context")
	}
	return actor
}

// IsStaff reports whether the actor may perform staff-only operations
func (a *Actor) IsStaff() bool {
	return a.Role == domain.UserTypeAdmin || a.Role == domain.UserTypeUser
}

// IsAdmin reports whether the actor is an administrator
func (a *Actor) IsAdmin() bool {
	return a.Role == domain.UserTypeAdmin
}

// IsCarrier reports whether the actor is a carrier user
func (a *Actor) IsCarrier() bool {
	return a.Role == domain.UserTypeCarrier
}

// CanActOn reports whether the actor may act on the given freight map row.
// Staff see everything; carrier users only rows negotiating with their
// bound carrier.
func (a *Actor) CanActOn(m *domain.FreightMap) bool {
	if a.IsStaff() {
		return true
	}
	return a.IsCarrier() && a.CarrierName == m.SelectedCarrier
}
