package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/tgis"
)

var (
	sampleType    string
	sampleMethods []string
	sampleSpatial bool
)

// SampleCmd represents the sample command
var SampleCmd = &cobra.Command{
	Use:   "sample DATASET SAMPLER",
	Short: "Sample a dataset against another dataset",
	Long: `Sample the maps of DATASET against the granules of SAMPLER: for each
member of the sampler, print the matching maps of the sampled dataset.
Granules without matches are printed as gaps.

Examples:
  tgis sample temps months
  tgis sample temps months --method start --spatial`,
	Args: cobra.ExactArgs(2),
	RunE: runSample,
}

func init() {
	SampleCmd.Flags().StringVar(&sampleType, "type", "raster", "Dataset kind (raster/raster3d/vector)")
	SampleCmd.Flags().StringSliceVar(&sampleMethods, "method", nil,
		"Sampling methods (start/during/overlap/contain/equal/follows/precedes)")
	SampleCmd.Flags().BoolVar(&sampleSpatial, "spatial", false, "Only accept spatially overlapping maps")
}

func runSample(cmd *cobra.Command, args []string) error {
	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()
	ctx := context.Background()

	kind, err := tgis.ParseKind(sampleType)
	if err != nil {
		return err
	}
	methods, err := tgis.ParseSampleMethods(sampleMethods)
	if err != nil {
		return err
	}

	read := func(arg string) (*tgis.Dataset, error) {
		name, mapset, _ := tgis.SplitID(arg)
		if mapset == "" {
			mapset = currentMapset()
		}
		return reg.ReadDataset(ctx, name, mapset, kind)
	}
	d, err := read(args[0])
	if err != nil {
		return err
	}
	sampler, err := read(args[1])
	if err != nil {
		return err
	}

	granules, err := reg.SampleByDataset(ctx, d, sampler, methods, sampleSpatial)
	if err != nil {
		return err
	}

	fmt.Printf("%-20s|%-20s|%s\n", "start", "end", "maps")
	for _, g := range granules {
		ids := make([]string, 0, len(g.Samples))
		for _, m := range g.Samples {
			if m.IsGap() {
				ids = append(ids, "gap")
				continue
			}
			ids = append(ids, m.ID)
		}
		fmt.Printf("%-20s|%-20s|%s\n",
			g.Granule.Extent.StartString(), g.Granule.Extent.EndString(),
			strings.Join(ids, ","))
	}
	return nil
}
