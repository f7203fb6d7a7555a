// Package gen implements the oneshot generation engine.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrScanFailed indicates the symbol scanner could not produce a snapshot.
	ErrScanFailed = errors.New("oneshot: scan failed")
	// ErrInvalidOwner indicates a marked field's owner is not an eligible state record.
	ErrInvalidOwner = errors.New("oneshot: invalid owner")
	// ErrMissingConfig indicates a generator configuration error.
	ErrMissingConfig = errors.New("oneshot: missing configuration")
	// ErrGenerationFailed indicates a synthesis or write failure.
	ErrGenerationFailed = errors.New("oneshot: code generation failed")
)

// ScanError represents a failure to scan the compilation snapshot.
// Scan failures happen upstream of grouping, so they are the one error
// class that aborts a whole round.
type ScanError struct {
	Patterns []string
	Cause    error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	var b strings.Builder
	b.WriteString("oneshot: scan error")
	if len(e.Patterns) > 0 {
		fmt.Fprintf(&b, " for %v", e.Patterns)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ScanError.
func (e *ScanError) Is(target error) bool {
	return target == ErrScanFailed
}

// NewScanError creates a new ScanError.
func NewScanError(patterns []string, cause error) *ScanError {
	return &ScanError{Patterns: patterns, Cause: cause}
}

// OwnerError represents an ineligible owner record or a contradiction
// among its marked fields.
type OwnerError struct {
	Owner   string // owner record name
	Field   string // field name (if applicable)
	Message string
}

// Error implements the error interface.
func (e *OwnerError) Error() string {
	var b strings.Builder
	b.WriteString("oneshot: owner error")
	if e.Owner != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Owner)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for OwnerError.
func (e *OwnerError) Is(target error) bool {
	return target == ErrInvalidOwner
}

// NewOwnerError creates a new OwnerError.
func NewOwnerError(owner, field, message string) *OwnerError {
	return &OwnerError{Owner: owner, Field: field, Message: message}
}

// ConfigError represents a generator configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("oneshot: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("oneshot: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError represents a synthesis or artifact-write failure for one
// owner group.
type GenerationError struct {
	Owner   string
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("oneshot: generation error")
	if e.Owner != "" {
		b.WriteString(" for ")
		b.WriteString(e.Owner)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(owner, file, message string, cause error) *GenerationError {
	return &GenerationError{Owner: owner, File: file, Message: message, Cause: cause}
}

// IsScanError reports whether the error is a ScanError.
func IsScanError(err error) bool {
	var scanErr *ScanError
	return errors.As(err, &scanErr)
}

// IsOwnerError reports whether the error is an OwnerError.
func IsOwnerError(err error) bool {
	var ownerErr *OwnerError
	return errors.As(err, &ownerErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
