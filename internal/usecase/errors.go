package usecase

import "github.com/cockroachdb/errors"

// ErrAlreadyExists marks a create call that found the resource in place.
// Provisioning treats it as success-equivalent.
var ErrAlreadyExists = errors.New("resource already exists")
