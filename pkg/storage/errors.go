package storage

import "errors"

// ErrDealNotFound is returned when a deal does not exist in the store.
var ErrDealNotFound = errors.New("Deal not found")

// ErrDealExists is returned when creating a deal whose ID is already
// taken. Replay treats it as already applied.
var ErrDealExists = errors.New("deal already exists")

// ErrStaleDeal is returned when a conditional status write loses a race:
// the stored status no longer matches the one the caller validated against.
var ErrStaleDeal = errors.New("deal status changed concurrently")
