// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"fmt"

	"github.com/gomlx/pointclouds/pkg/corpus"
	"github.com/gomlx/pointclouds/pkg/pointset"
	"github.com/gomlx/pointclouds/pkg/samples"
	"k8s.io/klog/v2"
)

// NewFolders creates a Dataset for a generic corpus with one folder per category of text files
// with rows "x y z [label]". See corpus.FoldersIndexer for the expected layout.
//
// Points are resampled without replacement if the sample has more points than needed, and with
// replacement otherwise. Samples without a label column get all-ones labels.
//
// Sample files that can't be read or parsed don't fail: they are replaced by a placeholder with
// random points (see Example.Placeholder).
//
// NumSegClasses is estimated from the labels of the first corpus.FoldersSegClassesScanLimit samples.
func NewFolders(config Config) (*Dataset, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	index, err := (&corpus.FoldersIndexer{Root: config.Root}).Index(config.Split, config.filter())
	if err != nil {
		return nil, err
	}
	ds := newDataset(fmt.Sprintf("Folders %s", config.Split), config, index)
	ds.policy = pointset.WithoutReplacementIfEnough
	ds.softFail = true
	ds.load = func(entry corpus.Entry) (*samples.Raw, error) {
		return samples.ReadText(entry.PointsPath)
	}
	ds.numSegClasses = corpus.EstimateFoldersSegClasses(index.Entries, corpus.FoldersSegClassesScanLimit)
	klog.V(1).Infof("%s", ds)
	return ds, nil
}
