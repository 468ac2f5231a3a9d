// Package extraction converts resume sources (raw bytes or fetchable URLs)
// into structured candidate facts with a raw-text fallback.
package extraction

import "fmt"

// UnsupportedFormatError means the source bytes are not a parseable document type.
type UnsupportedFormatError struct {
	Name   string // original filename, when known
	Detail string
	Cause  error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unsupported format for %q: %s: %v", e.Name, e.Detail, e.Cause)
	}
	return fmt.Sprintf("unsupported format for %q: %s", e.Name, e.Detail)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return e.Cause
}

// FetchError means a URL source could not be retrieved.
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// EmptyDocumentError means the source parsed but yielded no extractable text.
type EmptyDocumentError struct {
	Source string // filename or URL identifying the offending artifact
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("no extractable text in document %q", e.Source)
}
