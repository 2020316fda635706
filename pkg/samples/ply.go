// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package samples

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"
	"strings"

	"github.com/chenzhekl/goply"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/pointclouds/pkg/pointset"
	"github.com/pkg/errors"
)

// ReadPLY reads the x, y, z properties of the "vertex" elements of a PLY file. Any other element
// (faces, edges) or vertex property (normals, colors) is ignored.
func ReadPLY(path string) (pointset.Points, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PLY file")
	}
	defer func() { _ = f.Close() }()
	points, err := ParsePLY(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "while reading PLY file %q", path)
	}
	return points, nil
}

// ParsePLY parses the vertices of a PLY stream. See ReadPLY.
func ParsePLY(r io.Reader) (pointset.Points, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read PLY")
	}
	if err = checkPLYHeader(contents); err != nil {
		return nil, err
	}

	var points pointset.Points
	// goply panics on malformed input.
	exception := exceptions.Try(func() {
		ply := goply.New(bytes.NewReader(contents))
		vertices := ply.Elements("vertex")
		points = make(pointset.Points, 0, len(vertices))
		for vertexIdx, vertex := range vertices {
			var point [3]float32
			for axis, name := range []string{"x", "y", "z"} {
				value, found := vertex[name]
				if !found {
					err = errors.Errorf("vertex #%d has no property %q", vertexIdx, name)
					return
				}
				v, ok := plyValueToFloat(value)
				if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
					err = errors.Errorf("vertex #%d has invalid property %q=%v (%T)", vertexIdx, name, value, value)
					return
				}
				point[axis] = float32(v)
			}
			points = append(points, point)
		}
	})
	if exception != nil {
		return nil, errors.Errorf("failed to parse PLY: %v", exception)
	}
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, errors.New("PLY has no vertices")
	}
	return points, nil
}

// checkPLYHeader checks the magic number and that the header is terminated.
func checkPLYHeader(contents []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(contents))
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return errors.New("not a PLY file, missing \"ply\" magic number")
	}
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "end_header" {
			return nil
		}
	}
	return errors.New("PLY header not terminated by \"end_header\"")
}

// plyValueToFloat converts any of the PLY scalar types to float64.
func plyValueToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int8:
		return float64(v), true
	case uint8:
		return float64(v), true
	case int16:
		return float64(v), true
	case uint16:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
