// Package repository defines the persistence contracts for users and events
// and their MongoDB and MySQL implementations.  The sentinel values below let
// the service layer distinguish failure scenarios without knowing which
// driver is in use.
package repository

import "errors"

// ErrNotFound is returned when a lookup by email or id matches nothing.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a unique index (duplicate
// email, or duplicate title for the same owner).  The application checks
// uniqueness before writing; the index is the real enforcement point when two
// requests race.
var ErrConflict = errors.New("conflict")
