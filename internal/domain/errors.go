package domain

import "errors"

var (
	// ErrManifestUnavailable signals that no manifest has been loaded yet.
	ErrManifestUnavailable = errors.New("manifest unavailable")
	// ErrManifestInvalid signals a malformed or inconsistent manifest.
	ErrManifestInvalid = errors.New("manifest invalid")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrTextUnavailable signals that a document's text could not be fetched.
	ErrTextUnavailable = errors.New("document text unavailable")
	// ErrInvalidCriteria signals malformed search criteria.
	ErrInvalidCriteria = errors.New("invalid search criteria")
	// ErrStateNotFound signals a missing UI state entry.
	ErrStateNotFound = errors.New("ui state not found")
)
