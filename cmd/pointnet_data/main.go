// pointnet_data prepares and inspects point cloud corpora.
//
// Usage:
//
//	pointnet_data [flags] seg-classes <shapenet_root>    # Writes num_seg_classes.txt.
//	pointnet_data [flags] modelnet-ids <modelnet_root>   # Writes modelnet_id.txt.
//	pointnet_data [flags] inspect <root>                 # Loads the dataset and prints a summary.
//	pointnet_data [flags] download <base_dir>            # Downloads the ShapeNet benchmark.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomlx/pointclouds/pkg/corpus"
	"github.com/gomlx/pointclouds/pkg/datasets"
	"github.com/gomlx/pointclouds/pkg/support/fsutil"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagLayout = flag.String("layout", "shapenet", "Corpus layout for \"inspect\": shapenet, modelnet or folders.")
	flagSplit  = flag.String("split", "train", "Split to inspect.")
	flagPoints = flag.Int("points", datasets.DefaultNumPoints, "Number of points per sample.")

	flagCategories = flag.String("categories", "", "Comma-separated list of categories to include. "+
		"If empty all categories are included.")

	flagClassification = flag.Bool("classification", false, "Serve class labels instead of per-point labels.")
	flagAugment        = flag.Bool("augment", false, "Enable random rotation and jitter.")
	flagSeed           = flag.Uint64("seed", 0, "Seed for the random number generators.")
	flagSamples        = flag.Int("samples", 1, "Number of samples to read and describe in \"inspect\".")

	flagOutput = flag.String("output", "", "Output file for \"seg-classes\" and \"modelnet-ids\". "+
		"Defaults to the standard table file name under the corpus root.")
	flagParallelism = flag.Int("parallelism", 0, "Number of files read in parallel by \"seg-classes\". "+
		"If 0 it uses the number of cores.")
	flagProgress = flag.Bool("progress", true, "Display progress bar.")
)

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] <seg-classes|modelnet-ids|inspect|download> <dir>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		klog.Errorf("Expected a command and a directory. See 'pointnet_data -help'")
		os.Exit(1)
	}
	dir := must.M1(fsutil.ReplaceTildeInDir(args[1]))
	switch args[0] {
	case "seg-classes":
		segClasses(dir)
	case "modelnet-ids":
		modelNetIDs(dir)
	case "inspect":
		inspect(dir)
	case "download":
		root := must.M1(datasets.DownloadShapeNet(dir))
		fmt.Printf("ShapeNet available in %q\n", root)
	default:
		klog.Errorf("Unknown command %q. See 'pointnet_data -help'", args[0])
		os.Exit(1)
	}
}

// outputPath returns the path of the generated table: -output or defaultName under root.
func outputPath(root, defaultName string) string {
	if *flagOutput != "" {
		return must.M1(fsutil.ReplaceTildeInDir(*flagOutput))
	}
	return filepath.Join(root, defaultName)
}

func segClasses(root string) {
	table := must.M1(corpus.CountShapeNetSegClasses(root, corpus.ScanConfig{
		ShowProgress: *flagProgress,
		Parallelism:  *flagParallelism,
	}))
	output := outputPath(root, corpus.SegClassesTableFile)
	must.M(table.Write(output))
	fmt.Println(titleStyle.Render("Segmentation classes"))
	printTable(table, "Category", "# classes")
	fmt.Printf("Written to %q\n", output)
}

func modelNetIDs(root string) {
	table := must.M1(corpus.GenerateModelNetIDs(root))
	output := outputPath(root, corpus.ModelNetIDsTableFile)
	must.M(table.Write(output))
	fmt.Println(titleStyle.Render("ModelNet category ids"))
	printTable(table, "Category", "ID")
	fmt.Printf("Written to %q\n", output)
}

func configFromFlags(root string) datasets.Config {
	config := datasets.DefaultConfig(root)
	config.Split = *flagSplit
	config.NumPoints = *flagPoints
	config.Augment = *flagAugment
	config.Classification = *flagClassification
	config.Seed = *flagSeed
	if *flagCategories != "" {
		for _, category := range strings.Split(*flagCategories, ",") {
			if category = strings.TrimSpace(category); category != "" {
				config.Categories = append(config.Categories, category)
			}
		}
	}
	return config
}

func inspect(root string) {
	config := configFromFlags(root)
	var ds *datasets.Dataset
	switch *flagLayout {
	case "shapenet":
		ds = must.M1(datasets.NewShapeNet(config))
	case "modelnet":
		ds = must.M1(datasets.NewModelNet(config))
	case "folders":
		ds = must.M1(datasets.NewFolders(config))
	default:
		klog.Fatalf("Unknown -layout=%q, valid values are shapenet, modelnet or folders", *flagLayout)
	}
	describe(ds)
}
