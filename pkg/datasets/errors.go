// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"fmt"

	"github.com/pkg/errors"
)

// IndexError is returned when a sample index is out of range.
type IndexError struct {
	Index, Len int
}

// Error implements error.
func (e *IndexError) Error() string {
	return fmt.Sprintf("sample index %d out of range, dataset has %d samples", e.Index, e.Len)
}

func newIndexError(index, length int) error {
	return errors.WithStack(&IndexError{Index: index, Len: length})
}

// IsIndexError returns whether err is or wraps an IndexError.
func IsIndexError(err error) bool {
	var indexErr *IndexError
	return errors.As(err, &indexErr)
}
