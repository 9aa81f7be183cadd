// Package session keeps the signed-in identity and its bearer token between runs.
package session

import (
	"context"
	"errors"
	"time"

	"routehub-client/internal/dto"
)

// ErrNoSession is returned by stores that hold nothing
var ErrNoSession = errors.New("no stored session")

// Identity is the authenticated user as seen by the comment engine
type Identity struct {
	UserID      string
	UserName    string
	DisplayName string
}

// Provider exposes the current identity synchronously
type Provider interface {
	Current() (Identity, bool)
}

// Data is what a Store persists
type Data struct {
	Token     string           `json:"token" yaml:"token"`
	ExpiresAt time.Time        `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	User      *dto.UserProfile `json:"user,omitempty" yaml:"user,omitempty"`
}

// Store persists session data
type Store interface {
	// Load returns ErrNoSession when nothing is stored
	Load(ctx context.Context) (*Data, error)
	Save(ctx context.Context, data *Data) error
	Clear(ctx context.Context) error
}

// Static is a Provider with a fixed identity, mostly for tests
type Static struct {
	identity Identity
	ok       bool
}

// NewStatic returns a provider that always reports id
func NewStatic(id Identity) *Static {
	return &Static{identity: id, ok: true}
}

// Anonymous returns a provider with no identity
func Anonymous() *Static {
	return &Static{}
}

// Current returns the fixed identity
func (s *Static) Current() (Identity, bool) {
	return s.identity, s.ok
}

func identityFrom(u *dto.UserProfile) Identity {
	display := u.FirstName
	if u.LastName != "" {
		if display != "" {
			display += " "
		}
		display += u.LastName
	}
	if display == "" {
		display = u.UserName
	}
	return Identity{
		UserID:      u.ID,
		UserName:    u.UserName,
		DisplayName: display,
	}
}
