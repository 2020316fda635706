// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"path/filepath"

	"github.com/gomlx/pointclouds/pkg/downloader"
	"github.com/gomlx/pointclouds/pkg/support/fsutil"
	"github.com/pkg/errors"
)

const (
	ShapeNetURL     = "https://shapenet.cs.stanford.edu/ml/shapenetcore_partanno_segmentation_benchmark_v0.zip"
	ShapeNetZipName = "shapenetcore_partanno_segmentation_benchmark_v0.zip"
	ShapeNetSubDir  = "shapenetcore_partanno_segmentation_benchmark_v0"
)

// DownloadShapeNet downloads and unzips the ShapeNet part segmentation benchmark under baseDir, if
// not there yet. It returns the root directory of the corpus, to be used as Config.Root.
func DownloadShapeNet(baseDir string) (root string, err error) {
	baseDir, err = fsutil.ReplaceTildeInDir(baseDir)
	if err != nil {
		return "", err
	}
	baseDir, err = filepath.Abs(baseDir)
	if err != nil {
		return "", errors.Wrapf(err, "invalid directory %q", baseDir)
	}
	root = filepath.Join(baseDir, ShapeNetSubDir)
	err = downloader.DownloadAndUnzipIfMissing(ShapeNetURL, filepath.Join(baseDir, ShapeNetZipName), baseDir, root, "")
	if err != nil {
		return "", errors.WithMessage(err, "failed to download ShapeNet")
	}
	return root, nil
}
