package emv

import (
	"errors"
)

// Structural failures of a PAN read. Unlike transport and status word
// errors these are never retried: a malformed or incomplete response will
// not get better on a second attempt.
var (
	// ErrNoApplication means the PPSE response carried no application
	// identifier to select.
	ErrNoApplication = errors.New("no application identifier in PPSE response")

	// ErrNoAFL means the GPO response carried neither track data nor an
	// application file locator, leaving nothing to read.
	ErrNoAFL = errors.New("no application file locator in GPO response")

	// ErrMalformedAFL means the application file locator failed its
	// structural validation.
	ErrMalformedAFL = errors.New("malformed application file locator")

	// ErrPANNotFound means every candidate field was scanned without a
	// single PAN parsing successfully.
	ErrPANNotFound = errors.New("no usable PAN found")
)
