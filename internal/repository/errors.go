// Package repository implements the credential store and the token
// revocation store.  Sentinel errors let the service layer tell the
// interesting failure cases apart without knowing which backend is in use.
package repository

import "errors"

// ErrEmailExists is returned by Create when the store's unique constraint on
// the email rejects the write.  It is the authoritative uniqueness signal.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrMissingProfile is returned when a stored student or teacher has no
// profile of its role.
var ErrMissingProfile = errors.New("stored user is missing its profile")
