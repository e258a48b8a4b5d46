package service

import (
	"FileVault/internal/token"
	"errors"
)

// Terminal outcomes of link issuance and redemption. Handlers map these to
// HTTP statuses; the messages sent to callers stay generic.
var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")

	// ErrInvalidToken covers undecryptable, malformed and unmatched tokens
	// alike so a caller cannot probe which check failed.
	ErrInvalidToken = token.ErrInvalidToken

	ErrLinkExpired = errors.New("download link expired")
	ErrLinkUsed    = errors.New("download link already used")

	ErrIssuance = errors.New("link issuance failed")

	// ErrInvalidUpload marks uploads rejected by validation. Anything else
	// failing an upload is an internal error and stays out of the response.
	ErrInvalidUpload = errors.New("invalid upload")
)
