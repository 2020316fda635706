package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/pointclouds/pkg/corpus"
	"github.com/gomlx/pointclouds/pkg/datasets"
	"github.com/gomlx/pointclouds/pkg/pointset"
	"github.com/gomlx/pointclouds/pkg/support/sets"
	"github.com/janpfeifer/must"
	"golang.org/x/exp/constraints"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == 0 {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

// printTable prints one of the side tables.
func printTable[T constraints.Integer](table *corpus.Table[T], nameHeader, valueHeader string) {
	t := newPlainTable(true)
	t.Row(nameHeader, valueHeader)
	for _, name := range table.Names {
		t.Row(name, fmt.Sprintf("%d", table.Values[name]))
	}
	fmt.Println(t.Render())
}

// describe prints a summary of the dataset and of its first -samples samples.
func describe(ds *datasets.Dataset) {
	config := ds.Config()
	fmt.Println(titleStyle.Render(ds.Name()))
	summary := newPlainTable(false)
	summary.Row("root", config.Root)
	summary.Row("# samples", humanize.Comma(int64(ds.Len())))
	summary.Row("# categories", humanize.Comma(int64(ds.NumCategories())))
	summary.Row("# seg classes", humanize.Comma(int64(ds.NumSegClasses())))
	summary.Row("points per sample", humanize.Comma(int64(config.NumPoints)))
	summary.Row("classification", fmt.Sprintf("%v", config.Classification))
	summary.Row("augment", fmt.Sprintf("%v", config.Augment))
	fmt.Println(summary.Render())

	numSamples := min(*flagSamples, ds.Len())
	if numSamples <= 0 {
		return
	}
	fmt.Println(titleStyle.Render("Samples"))
	samplesTable := newPlainTable(true)
	samplesTable.Row("#", "Category", "Points", "Labels", "Max norm", "Distinct labels")
	rng := rand.New(rand.NewPCG(config.Seed, 0))
	for index := range numSamples {
		example := must.M1(ds.Example(index, rng))
		category := example.Category
		if example.Placeholder {
			category += " (placeholder)"
		}
		samplesTable.Row(
			humanize.Comma(int64(index)),
			category,
			pointsShape(example.Points),
			fmt.Sprintf("[%d]int64", len(example.Labels)),
			fmt.Sprintf("%.4f", example.Points.MaxNorm()),
			fmt.Sprintf("%v", sets.Sorted(sets.MakeWith(example.Labels...))),
		)
	}
	fmt.Println(samplesTable.Render())
	if n := ds.NumPlaceholders(); n > 0 {
		fmt.Printf("%s samples replaced by placeholders\n", humanize.Comma(int64(n)))
	}
}

func pointsShape(points pointset.Points) string {
	return fmt.Sprintf("[%d][3]float32", len(points))
}
