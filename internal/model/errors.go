// Package model defines domain models and errors for lixshare.
// This package contains the core data structure (Document) and the
// sentinel errors used throughout the application.
package model

import "errors"

// Domain-specific errors for lixshare operations.
// These errors allow handlers to pick the right HTTP status code
// or page variant.
var (
	// ErrDocumentNotFound is returned when a requested document doesn't exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentExpired is returned when a document has passed its deadline
	ErrDocumentExpired = errors.New("document has expired")

	// ErrDocumentExists is returned by an insert that hit an existing ID
	ErrDocumentExists = errors.New("document already exists")

	// ErrIDSpaceExhausted is returned when every candidate ID collided
	ErrIDSpaceExhausted = errors.New("id space temporarily exhausted")

	// ErrInvalidDocumentID is returned when an ID fails format validation
	ErrInvalidDocumentID = errors.New("invalid document ID format")

	// ErrInvalidDocType is returned for a doc_type other than markdown or html
	ErrInvalidDocType = errors.New("invalid doc_type")

	// ErrInvalidExpiration is returned for an expire value below -1
	ErrInvalidExpiration = errors.New("invalid expiration")

	// ErrContentTooLarge is returned when content exceeds the size limit
	ErrContentTooLarge = errors.New("content exceeds maximum size limit")
)

// IsNotFound returns true if the error means the document can't be shown,
// either because it never existed or because it expired.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrDocumentExpired) ||
		errors.Is(err, ErrInvalidDocumentID)
}

// IsConflict returns true if the error indicates an ID collision on insert.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDocumentExists)
}

// IsValidationError returns true if the error is due to invalid input
// or is otherwise meant to reach the client as HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDocType) ||
		errors.Is(err, ErrInvalidExpiration) ||
		errors.Is(err, ErrContentTooLarge) ||
		errors.Is(err, ErrIDSpaceExhausted)
}
