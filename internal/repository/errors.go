package repository

import "errors"

// ErrParse is returned when the persisted submissions cannot be decoded.
var ErrParse = errors.New("malformed submissions store")
