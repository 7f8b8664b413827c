package config

import (
	"fmt"

	"github.com/dshills/cellgrid/internal/config/loader"
)

// ParseError reports a configuration source that could not be decoded.
// Path names the file (or "environment"), with a position when the
// decoder supplies one.
type ParseError = loader.ParseError

// ValidationError describes a setting whose value is not acceptable.
type ValidationError struct {
	// Path is the dotted setting path, e.g. "frame.fps".
	Path string
	// Message describes the problem.
	Message string
	// Value is the rejected value.
	Value any
	// Code categorizes the failure.
	Code ValidationErrorCode
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode uint8

const (
	// ErrCodeOutOfRange indicates a numeric value is out of range.
	ErrCodeOutOfRange ValidationErrorCode = iota
	// ErrCodeInvalidEnum indicates the value is not one of the known names.
	ErrCodeInvalidEnum
	// ErrCodeInvalidFormat indicates a string that does not parse.
	ErrCodeInvalidFormat
)

// String returns a human-readable name for the error code.
func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeInvalidEnum:
		return "invalid_enum"
	case ErrCodeInvalidFormat:
		return "invalid_format"
	default:
		return "unknown"
	}
}
