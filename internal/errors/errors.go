// Package errors provides standardized error handling for notepad.
// It defines the error kinds the editor distinguishes (I/O failures,
// user cancellation, bad configuration) and helpers for creating,
// wrapping and classifying them.
package errors

import (
	"errors"
	"fmt"
	"os"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds, all of which count as I/O errors
	FileNotFound
	FileAccessDenied
	FileReadFailed
	FileWriteFailed
	InvalidEncoding
	InvalidPath
	// Dialog dismissed without a value
	UserCancelled
	// Config error kind
	InvalidConfig
)

// Common error constants for frequently occurring errors
var (
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	// ErrCancelled is returned by prompts the user dismissed.
	ErrCancelled = &ApplicationError{msg: "cancelled by user", kind: UserCancelled}
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ReadError classifies an error returned while reading path.
func ReadError(path string, err error) *FileError {
	switch {
	case os.IsNotExist(err):
		return NewFileError("file not found", path, FileNotFound, err)
	case os.IsPermission(err):
		return NewFileError("file access denied", path, FileAccessDenied, err)
	default:
		return NewFileError("failed to read file", path, FileReadFailed, err)
	}
}

// WriteError classifies an error returned while writing path.
func WriteError(path string, err error) *FileError {
	switch {
	case os.IsNotExist(err):
		return NewFileError("directory not found", path, InvalidPath, err)
	case os.IsPermission(err):
		return NewFileError("file access denied", path, FileAccessDenied, err)
	default:
		return NewFileError("failed to write file", path, FileWriteFailed, err)
	}
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsIOError reports whether err is a read or write failure of any kind.
func IsIOError(err error) bool {
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		return false
	}
	switch fileErr.Kind() {
	case FileNotFound, FileAccessDenied, FileReadFailed, FileWriteFailed, InvalidEncoding, InvalidPath:
		return true
	}
	return false
}

// IsCancelled reports whether err means the user dismissed a prompt.
func IsCancelled(err error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if appErr, ok := err.(*ApplicationError); ok && appErr.Kind() == UserCancelled {
			return true
		}
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
