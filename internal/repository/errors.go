// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: a duplicate email on
// registration, a missing account or product, or an ownership violation.
package repository

import "errors"

// ErrEmailExists is returned when an account cannot be created because the
// email is already registered, either caught by the pre-insert check or by
// the unique index on admins.email. Handlers map this to HTTP 400.
var ErrEmailExists = errors.New("email already exists")

// ErrAccountNotFound is returned when an account lookup or delete finds no
// matching row.
var ErrAccountNotFound = errors.New("account not found")

// ErrProductNotFound is returned when a product lookup, ownership-scoped
// lookup or delete finds no matching row. Ownership-scoped lookups
// deliberately do not distinguish "absent" from "owned by someone else".
var ErrProductNotFound = errors.New("product not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
