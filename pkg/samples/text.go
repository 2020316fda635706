// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package samples

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxLineSize limits the size of one row in a text sample file.
const maxLineSize = 1 << 20

// ReadText reads a whitespace-delimited text sample file with rows "x y z [label]".
//
// The first 3 columns are the coordinates. If the rows have a 4th column it is parsed as the
// per-point label; any further columns (normals, colors) are ignored. All rows must have the
// same number of columns, and there must be at least one row. Empty lines are skipped.
func ReadText(path string) (*Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sample file")
	}
	defer func() { _ = f.Close() }()
	raw, err := ParseText(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "while reading sample file %q", path)
	}
	return raw, nil
}

// ParseText parses the contents of a text sample file. See ReadText.
func ParseText(r io.Reader) (*Raw, error) {
	raw := &Raw{}
	numColumns := -1
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if numColumns == -1 {
			numColumns = len(fields)
			if numColumns < 3 {
				return nil, errors.Errorf("line %d: expected at least 3 columns (x y z), got %d", lineNum, numColumns)
			}
		} else if len(fields) != numColumns {
			return nil, errors.Errorf("line %d: expected %d columns, got %d", lineNum, numColumns, len(fields))
		}

		var point [3]float32
		for axis := range 3 {
			v, err := strconv.ParseFloat(fields[axis], 32)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: invalid coordinate", lineNum)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Errorf("line %d: non-finite coordinate %q", lineNum, fields[axis])
			}
			point[axis] = float32(v)
		}
		raw.Points = append(raw.Points, point)

		if numColumns >= 4 {
			label, err := parseLabel(fields[3])
			if err != nil {
				return nil, errors.WithMessagef(err, "line %d", lineNum)
			}
			raw.Labels = append(raw.Labels, label)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed reading line %d", lineNum+1)
	}
	if len(raw.Points) == 0 {
		return nil, errors.New("no points found")
	}
	return raw, nil
}

// ReadLabels reads a label file with one non-negative integer label per line. Empty lines are skipped.
func ReadLabels(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open label file")
	}
	defer func() { _ = f.Close() }()

	var labels []int64
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		label, err := parseLabel(line)
		if err != nil {
			return nil, errors.WithMessagef(err, "label file %q, line %d", path, lineNum)
		}
		labels = append(labels, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed reading label file %q", path)
	}
	if len(labels) == 0 {
		return nil, errors.Errorf("no labels found in %q", path)
	}
	return labels, nil
}

// parseLabel parses a non-negative integer label. Labels written as floats ("2.0") are accepted and truncated.
func parseLabel(field string) (int64, error) {
	if label, err := strconv.ParseInt(field, 10, 64); err == nil {
		if label < 0 {
			return 0, errors.Errorf("negative label %d", label)
		}
		return label, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("invalid label %q", field)
	}
	if v < 0 {
		return 0, errors.Errorf("negative label %q", field)
	}
	return int64(v), nil
}
