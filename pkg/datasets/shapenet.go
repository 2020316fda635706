// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"fmt"
	"path/filepath"

	"github.com/gomlx/pointclouds/pkg/corpus"
	"github.com/gomlx/pointclouds/pkg/pointset"
	"github.com/gomlx/pointclouds/pkg/samples"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// NewShapeNet creates a Dataset for the ShapeNet part segmentation benchmark at config.Root.
// See corpus.ShapeNetIndexer for the expected layout.
//
// Points are resampled with replacement. The per-point labels are read from the `.seg` files, which
// number the parts from 1, and are returned shifted to start from 0.
//
// NumSegClasses is read from the config.SegClassesTable (see corpus.CountShapeNetSegClasses), for the
// first selected category in the order of the lookup table. The table is only required when
// not in classification mode.
//
// When more than one category is selected, the labels of the other categories may be >= NumSegClasses.
// To size a model output for several categories, select a single one in config.Categories or take the
// largest value of the table read with corpus.ReadTable.
func NewShapeNet(config Config) (*Dataset, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	index, err := (&corpus.ShapeNetIndexer{Root: config.Root}).Index(config.Split, config.filter())
	if err != nil {
		return nil, err
	}
	ds := newDataset(fmt.Sprintf("ShapeNet %s", config.Split), config, index)
	ds.policy = pointset.WithReplacement
	ds.load = loadShapeNet

	tablePath := config.SegClassesTable
	if tablePath == "" {
		tablePath = filepath.Join(config.Root, corpus.SegClassesTableFile)
	}
	table, err := corpus.ReadTable[int](tablePath)
	if err != nil {
		if !config.Classification {
			return nil, err
		}
		klog.V(1).Infof("ShapeNet segmentation classes table not available: %v", err)
	} else {
		var found bool
		ds.numSegClasses, found = table.Get(index.Active[0])
		if !found {
			return nil, corpus.NewConfigurationError(tablePath,
				errors.Errorf("no number of segmentation classes for category %q", index.Active[0]))
		}
	}
	klog.V(1).Infof("%s", ds)
	return ds, nil
}

// loadShapeNet reads the `.pts` points and the `.seg` labels, converted to 0-based.
func loadShapeNet(entry corpus.Entry) (*samples.Raw, error) {
	raw, err := samples.ReadText(entry.PointsPath)
	if err != nil {
		return nil, corpus.NewDataReadError(entry.PointsPath, err)
	}
	labels, err := samples.ReadLabels(entry.LabelsPath)
	if err != nil {
		return nil, corpus.NewDataReadError(entry.LabelsPath, err)
	}
	if len(labels) != len(raw.Points) {
		return nil, corpus.NewDataReadError(entry.LabelsPath,
			errors.Errorf("%d labels for %d points in %q", len(labels), len(raw.Points), entry.PointsPath))
	}
	for i, label := range labels {
		if label < 1 {
			return nil, corpus.NewDataReadError(entry.LabelsPath, errors.Errorf("line %d: invalid part label %d", i+1, label))
		}
		labels[i] = label - 1
	}
	raw.Labels = labels
	return raw, nil
}
