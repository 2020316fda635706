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

// NewModelNet creates a classification Dataset for a ModelNet corpus of PLY meshes at config.Root.
// See corpus.ModelNetIndexer for the expected layout. Only the mesh vertices are used as points,
// resampled with replacement.
//
// The category ids are read from config.CategoryIDsTable, usually generated with
// corpus.GenerateModelNetIDs. config.Classification must be set: there are no per-point labels.
func NewModelNet(config Config) (*Dataset, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if !config.Classification {
		return nil, corpus.NewConfigurationError(config.Root,
			errors.New("ModelNet has no per-point labels, only classification is supported"))
	}
	tablePath := config.CategoryIDsTable
	if tablePath == "" {
		tablePath = filepath.Join(config.Root, corpus.ModelNetIDsTableFile)
	}
	ids, err := corpus.ReadTable[int](tablePath)
	if err != nil {
		return nil, err
	}
	index, err := (&corpus.ModelNetIndexer{Root: config.Root, IDs: ids.Values}).Index(config.Split, config.filter())
	if err != nil {
		return nil, err
	}
	ds := newDataset(fmt.Sprintf("ModelNet %s", config.Split), config, index)
	ds.policy = pointset.WithReplacement
	ds.load = loadModelNet
	klog.V(1).Infof("%s", ds)
	return ds, nil
}

func loadModelNet(entry corpus.Entry) (*samples.Raw, error) {
	points, err := samples.ReadPLY(entry.PointsPath)
	if err != nil {
		return nil, corpus.NewDataReadError(entry.PointsPath, err)
	}
	return &samples.Raw{Points: points}, nil
}
