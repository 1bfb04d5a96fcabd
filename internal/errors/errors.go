// Package errors provides standardized error handling for romselect.
// It defines the error kinds the install pipeline can fail with, typed
// errors carrying the offending path, setting, extension or archiver
// invocation, and helpers for creating, wrapping and classifying them.
package errors

import (
	"errors"
	"fmt"
	"strings"
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
	// File error kinds
	FileNotFound
	FileAccessDenied
	FileCreateFailed
	FileOperationFailed
	DirectoryNotFound
	// Config error kinds
	InvalidConfig
	// Library error kinds
	UnmappedExtension
	// Archiver error kinds
	ToolNotFound
	ToolFailed
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

// ExtensionError represents a file extension the library has no platform
// directory for
type ExtensionError struct {
	ApplicationError
	extension string
}

// NewExtensionError creates a new extension error
func NewExtensionError(msg string, extension string, kind ErrorKind, err error) *ExtensionError {
	return &ExtensionError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		extension: extension,
	}
}

// Error returns the extension error message
func (e *ExtensionError) Error() string {
	if e.extension != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.extension, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.extension)
	}
	return e.ApplicationError.Error()
}

// Extension returns the extension associated with the error
func (e *ExtensionError) Extension() string {
	return e.extension
}

// ToolError represents a failed or unavailable archiver invocation.
// It keeps the captured standard streams so they can be reported.
type ToolError struct {
	ApplicationError
	operation string
	exitCode  int
	stdout    string
	stderr    string
}

// NewToolError creates a new archiver error
func NewToolError(msg string, operation string, kind ErrorKind, err error) *ToolError {
	return &ToolError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		operation: operation,
		exitCode:  -1,
	}
}

// WithExitCode records the archiver exit status
func (e *ToolError) WithExitCode(code int) *ToolError {
	e.exitCode = code
	return e
}

// WithOutput records the captured standard streams
func (e *ToolError) WithOutput(stdout, stderr string) *ToolError {
	e.stdout = stdout
	e.stderr = stderr
	return e
}

// Error returns the archiver error message
func (e *ToolError) Error() string {
	if e.operation != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: operation=%s: %v", e.msg, e.operation, e.err)
		}
		return fmt.Sprintf("%s: operation=%s", e.msg, e.operation)
	}
	return e.ApplicationError.Error()
}

// Operation returns the archiver operation (lookup, list, extract, create)
func (e *ToolError) Operation() string {
	return e.operation
}

// ExitCode returns the archiver exit status, -1 when it never ran
func (e *ToolError) ExitCode() int {
	return e.exitCode
}

// Stdout returns the captured standard output
func (e *ToolError) Stdout() string {
	return e.stdout
}

// Stderr returns the captured standard error
func (e *ToolError) Stderr() string {
	return e.stderr
}

// Output returns both captured streams, trimmed, one after the other
func (e *ToolError) Output() string {
	var parts []string
	if s := strings.TrimSpace(e.stdout); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(e.stderr); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
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

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsDirectoryNotFound checks if the error is a missing directory error
func IsDirectoryNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == DirectoryNotFound
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

// IsUnmappedExtension checks if the error is an unknown rom type error
func IsUnmappedExtension(err error) bool {
	var extErr *ExtensionError
	if errors.As(err, &extErr) {
		return extErr.Kind() == UnmappedExtension
	}
	return false
}

// IsToolMissing checks if the archiver could not be found
func IsToolMissing(err error) bool {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Kind() == ToolNotFound
	}
	return false
}

// IsToolFailed checks if the archiver ran and reported failure
func IsToolFailed(err error) bool {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Kind() == ToolFailed
	}
	return false
}
