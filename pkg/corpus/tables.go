// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

const (
	// SegClassesTableFile is the default file name of the table with the number of segmentation classes
	// per ShapeNet category, see CountShapeNetSegClasses.
	SegClassesTableFile = "num_seg_classes.txt"

	// ModelNetIDsTableFile is the default file name of the table with the ModelNet category ids, see
	// GenerateModelNetIDs.
	ModelNetIDsTableFile = "modelnet_id.txt"
)

// Table is an ordered two-column table of names to integer values.
//
// It's the format of the side files generated offline: one "name<TAB>value" per line.
type Table[T constraints.Integer] struct {
	Names  []string
	Values map[string]T
}

// NewTable returns an empty Table.
func NewTable[T constraints.Integer]() *Table[T] {
	return &Table[T]{Values: make(map[string]T)}
}

// Set the value for name, appending name to the table if it's new.
func (t *Table[T]) Set(name string, value T) {
	if _, found := t.Values[name]; !found {
		t.Names = append(t.Names, name)
	}
	t.Values[name] = value
}

// Get returns the value for name and whether it was found.
func (t *Table[T]) Get(name string) (T, bool) {
	v, found := t.Values[name]
	return v, found
}

// Len returns the number of rows.
func (t *Table[T]) Len() int { return len(t.Names) }

// Write the table to path, one "name<TAB>value" per line, in the table order.
func (t *Table[T]) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create table file %q", path)
	}
	w := bufio.NewWriter(f)
	for _, name := range t.Names {
		if _, err = fmt.Fprintf(w, "%s\t%d\n", name, t.Values[name]); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "failed to write table file %q", path)
		}
	}
	if err = w.Flush(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to write table file %q", path)
	}
	return errors.Wrapf(f.Close(), "failed to close table file %q", path)
}

// ReadTable reads a table of names to integers. Any failure is returned as a ConfigurationError, since
// these tables are required to build the datasets that use them.
func ReadTable[T constraints.Integer](path string) (*Table[T], error) {
	pairs, err := ReadPairs(path)
	if err != nil {
		return nil, err
	}
	table := NewTable[T]()
	for lineIdx, pair := range pairs {
		v, err := strconv.ParseInt(pair[1], 10, 64)
		if err != nil {
			return nil, NewConfigurationError(path, errors.Wrapf(err, "row %d: invalid value for %q", lineIdx+1, pair[0]))
		}
		if v < 0 || int64(T(v)) != v {
			return nil, NewConfigurationError(path, errors.Errorf("row %d: value %d for %q out of range", lineIdx+1, v, pair[0]))
		}
		table.Set(pair[0], T(v))
	}
	return table, nil
}

// ReadPairs reads the first two whitespace-separated columns of every non-empty line of path,
// in file order. Extra columns are ignored. Failures are returned as ConfigurationError.
func ReadPairs(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewConfigurationError(path, err)
	}
	defer func() { _ = f.Close() }()

	var pairs [][2]string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, NewConfigurationError(path, errors.Errorf("line %d: expected 2 columns, got %q", lineNum, scanner.Text()))
		}
		pairs = append(pairs, [2]string{fields[0], fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, NewConfigurationError(path, err)
	}
	return pairs, nil
}

// ReadLines reads the trimmed non-empty lines of path. Failures are returned as ConfigurationError.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewConfigurationError(path, err)
	}
	defer func() { _ = f.Close() }()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, NewConfigurationError(path, err)
	}
	return lines, nil
}
