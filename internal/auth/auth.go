// Package auth models the external identity-provider collaborator. The core
// only ever sees an opaque creator uid; the provider exchange itself (OAuth
// popup flows in the reference client) happens outside this service.
package auth

import (
	"context"
	"errors"
)

// Identity is the profile returned by a successful sign-in.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// Known provider failure causes. Anything else falls back to a generic message.
var (
	ErrPopupClosed  = errors.New("auth/popup-closed-by-user")
	ErrPopupBlocked = errors.New("auth/popup-blocked")
	ErrUnknownToken = errors.New("auth/unknown-token")
)

// Provider exchanges a credential for an identity.
type Provider interface {
	SignIn(ctx context.Context, credential string) (Identity, error)
}

// Message maps a provider failure to the user-facing text.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPopupClosed):
		return "Sign-in was cancelled. Please try again."
	case errors.Is(err, ErrPopupBlocked):
		return "The sign-in popup was blocked by your browser. Please allow popups and retry."
	}
	return "Sign-in failed. Please try again."
}

// StaticProvider resolves credentials against a fixed token table; it backs
// the dev configuration and tests.
type StaticProvider struct {
	identities map[string]Identity
}

func NewStaticProvider(identities map[string]Identity) *StaticProvider {
	return &StaticProvider{identities: identities}
}

func (p *StaticProvider) SignIn(_ context.Context, credential string) (Identity, error) {
	if identity, ok := p.identities[credential]; ok {
		return identity, nil
	}
	return Identity{}, ErrUnknownToken
}
