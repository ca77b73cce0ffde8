package auth

import "errors"

// ErrValidation marks malformed or missing input; wrap it with the
// human-readable detail.
var ErrValidation = errors.New("validation failed")

// ErrInvalidCredentials is returned for any email/password mismatch. The
// message is deliberately the same for unknown emails and wrong
// passwords.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNotFound is returned by a Store when no record matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned by a Store when the unique email
// constraint rejects a write.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrInvalidToken covers malformed tokens, bad signatures and
// signature-valid tokens matching no recognized shape.
var ErrInvalidToken = errors.New("invalid token")

// ErrExpiredToken is returned for structured tokens past their expiry.
var ErrExpiredToken = errors.New("token expired")
