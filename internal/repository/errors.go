// Package repository provides data access to the MySQL tables backing the
// locker service.  Sentinel errors defined here let the service and handler
// layers distinguish failure cases with errors.Is without inspecting SQL
// driver errors.
package repository

import "errors"

// ErrBookingNotFound is returned when no booking row exists for an id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNoLockersAvailable is returned when the pool holds no closed locker
// that could be claimed.
var ErrNoLockersAvailable = errors.New("no available lockers")

// ErrLockerNotFound is returned when a locker lookup matches no row.
var ErrLockerNotFound = errors.New("locker not found")

// ErrSettingNotFound is returned when a settings key has no row.
var ErrSettingNotFound = errors.New("setting not found")

// ErrEmailExists is returned on registration with an already-used email.
var ErrEmailExists = errors.New("email already exists")
