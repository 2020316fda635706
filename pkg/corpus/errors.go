// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError is returned at construction time when a required index or lookup file is missing
// or can't be parsed. No part of the corpus is usable after such an error.
type ConfigurationError struct {
	// Path of the offending file, or a description of the missing configuration.
	Path string
	Err  error
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("corpus configuration error (%s): %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// DataReadError is returned when a sample or label file referenced by an index can't be read, for
// corpora whose index is assumed to be consistent with the files on disk.
type DataReadError struct {
	// Path of the sample or label file.
	Path string
	Err  error
}

// Error implements error.
func (e *DataReadError) Error() string {
	return fmt.Sprintf("failed to read sample data %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DataReadError) Unwrap() error { return e.Err }

// NewConfigurationError returns a ConfigurationError (with a stack trace) for path.
func NewConfigurationError(path string, err error) error {
	return errors.WithStack(&ConfigurationError{Path: path, Err: err})
}

// NewDataReadError returns a DataReadError (with a stack trace) for path.
func NewDataReadError(path string, err error) error {
	return errors.WithStack(&DataReadError{Path: path, Err: err})
}

// IsConfigurationError returns whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsDataReadError returns whether err is or wraps a DataReadError.
func IsDataReadError(err error) bool {
	var target *DataReadError
	return errors.As(err, &target)
}
