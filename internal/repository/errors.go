// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that an operation cannot proceed due
// to conflicting state (an overlapping reservation on the same room,
// or a lifecycle transition from the wrong status), while the
// per-entity not-found errors live next to their repositories.
package repository

import "errors"

// ErrConflict is returned when an insert or update cannot be
// performed because of conflicting state, such as booking a room
// that already holds an overlapping reservation or checking out a
// reservation that was never checked in. Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInUse is returned when a delete would orphan dependent rows,
// such as removing a customer who still has reservations. Handlers
// should translate this into an HTTP 409 response.
var ErrInUse = errors.New("resource in use")
