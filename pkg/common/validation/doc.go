// Package validation provides common validation utilities for configuration
// parameters across the goflux library.
//
// Every validator returns a *errors.ValidationError that wraps
// errors.ErrInvalidConfiguration, so callers can match either the concrete
// type or the sentinel.
package validation
