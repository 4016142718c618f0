// Package policy holds the access-control guard functions. Guards are
// plain functions invoked at the top of a handler; the caller branches
// on the returned error instead of relying on middleware aborts. Guards
// never touch the store — the caller fetches the resource first, so a
// missing id surfaces as NotFound before any permission decision.
package policy

import (
	"errors"

	"photovote/internal/models"
)

var (
	// ErrUnauthenticated means no identity is attached to the session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the identity exists but lacks permission.
	ErrForbidden = errors.New("forbidden")
)

// AdminOnly permits only users carrying the admin role.
func AdminOnly(u *models.User) error {
	if u == nil {
		return ErrUnauthenticated
	}
	if !u.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// AuthorOrAdmin permits the owner of the resource or an admin.
func AuthorOrAdmin(u *models.User, ownerID int64) error {
	if u == nil {
		return ErrUnauthenticated
	}
	if u.ID != ownerID && !u.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
