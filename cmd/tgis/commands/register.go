package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/errors"
	"github.com/grass-svn2git/grass/tgis"
)

var (
	registerMaps      string
	registerStart     string
	registerEnd       string
	registerIncrement string
	registerInterval  bool
	registerUnit      string
	registerType      string
)

// RegisterCmd represents the register command
var RegisterCmd = &cobra.Command{
	Use:   "register DATASET",
	Short: "Register maps in a space time dataset",
	Long: `Register maps in a space time dataset, assigning timestamps.

Without --start, the maps must already carry valid timestamps in the
temporal database. With --start and --increment, consecutive maps get
consecutive timestamps; --interval turns them into intervals closed by
the following start.

Examples:
  tgis register temps --maps jan,feb,mar --start 2001-01-01 --increment "1 months" --interval
  tgis register counts --maps c1,c2 --start 0 --increment 1 --unit days --interval
  tgis register temps --maps apr         # apr already has a timestamp`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	RegisterCmd.Flags().StringVar(&registerMaps, "maps", "", "Comma-separated map names (required)")
	RegisterCmd.Flags().StringVar(&registerStart, "start", "", "Start time of the first map")
	RegisterCmd.Flags().StringVar(&registerEnd, "end", "", "End time, applied when no increment is given")
	RegisterCmd.Flags().StringVar(&registerIncrement, "increment", "", `Time step between maps, e.g. "1 months"`)
	RegisterCmd.Flags().BoolVar(&registerInterval, "interval", false, "Create intervals instead of time points")
	RegisterCmd.Flags().StringVar(&registerUnit, "unit", "", "Relative time unit (years/months/days/hours/minutes/seconds)")
	RegisterCmd.Flags().StringVar(&registerType, "type", "raster", "Dataset kind (raster/raster3d/vector)")
	RegisterCmd.MarkFlagRequired("maps")
}

func runRegister(cmd *cobra.Command, args []string) error {
	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()
	ctx := context.Background()

	kind, err := tgis.ParseKind(registerType)
	if err != nil {
		return err
	}
	name, mapset, _ := tgis.SplitID(args[0])
	if mapset == "" {
		mapset = currentMapset()
	}
	d, err := reg.ReadDataset(ctx, name, mapset, kind)
	if err != nil {
		return err
	}

	names := strings.Split(registerMaps, ",")
	var extents []tgis.TemporalExtent
	if registerStart != "" {
		extents, err = buildRegisterExtents(d, len(names))
		if err != nil {
			return err
		}
	}

	for i, mapName := range names {
		mapName = strings.TrimSpace(mapName)
		mname, mmapset, layer := tgis.SplitID(mapName)
		if mmapset == "" {
			mmapset = mapset
		}
		id := tgis.MapID(mname, mmapset, layer)

		m, err := reg.ReadMap(ctx, id, d.Kind)
		switch {
		case err == nil:
			if extents != nil {
				m.Extent = extents[i]
				if err := reg.UpdateMapTime(ctx, m); err != nil {
					return err
				}
			}
		case errors.IsNotFoundError(err):
			if extents == nil {
				return errors.Wrapf(err, "map <%s> is not in the temporal database and no --start was given", id)
			}
			m = tgis.NewMap(mname, mmapset, layer, d.Kind)
			m.Extent = extents[i]
			if err := reg.InsertMap(ctx, m); err != nil {
				return err
			}
		default:
			return err
		}

		if err := reg.RegisterMap(ctx, d, m); err != nil {
			return err
		}
	}

	if err := reg.UpdateFromRegisteredMaps(ctx, d); err != nil {
		return err
	}
	fmt.Printf("Registered %d maps in <%s>\n", len(names), d.ID())
	return nil
}

// buildRegisterExtents derives one extent per map from the start, end,
// increment and interval options.
func buildRegisterExtents(d *tgis.Dataset, count int) ([]tgis.TemporalExtent, error) {
	if d.TemporalType == tgis.Relative {
		return buildRelativeExtents(d, count)
	}
	return buildAbsoluteExtents(count)
}

func buildAbsoluteExtents(count int) ([]tgis.TemporalExtent, error) {
	start, err := tgis.ParseDatetime(registerStart)
	if err != nil {
		return nil, err
	}
	var gran tgis.Granularity
	if registerIncrement != "" {
		if gran, err = tgis.ParseGranularity(registerIncrement); err != nil {
			return nil, err
		}
		if gran.Unit == "" {
			return nil, errors.Wrapf(errors.ErrInvalidGranularity,
				"absolute increment needs a unit, e.g. \"1 months\"")
		}
	}

	out := make([]tgis.TemporalExtent, count)
	cur := start
	for i := 0; i < count; i++ {
		switch {
		case registerIncrement != "" && registerInterval:
			out[i] = tgis.NewAbsoluteInterval(cur, gran.Next(cur))
		case registerIncrement != "":
			out[i] = tgis.NewAbsolutePoint(cur)
		case registerEnd != "":
			end, err := tgis.ParseDatetime(registerEnd)
			if err != nil {
				return nil, err
			}
			out[i] = tgis.NewAbsoluteInterval(cur, end)
		default:
			out[i] = tgis.NewAbsolutePoint(cur)
		}
		if registerIncrement != "" {
			cur = gran.Next(cur)
		}
	}
	return out, nil
}

func buildRelativeExtents(d *tgis.Dataset, count int) ([]tgis.TemporalExtent, error) {
	unit := d.Unit
	if registerUnit != "" {
		var err error
		if unit, err = tgis.ParseUnit(registerUnit); err != nil {
			return nil, err
		}
	}
	if unit == "" {
		return nil, errors.Newf("relative time registration needs --unit")
	}
	start, err := strconv.ParseInt(registerStart, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidTime, "unable to parse relative start %q", registerStart)
	}
	var inc int64
	if registerIncrement != "" {
		if inc, err = strconv.ParseInt(registerIncrement, 10, 64); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidGranularity,
				"unable to parse relative increment %q", registerIncrement)
		}
	}

	out := make([]tgis.TemporalExtent, count)
	cur := start
	for i := 0; i < count; i++ {
		switch {
		case inc != 0 && registerInterval:
			out[i] = tgis.NewRelativeInterval(cur, cur+inc, unit)
		case inc != 0:
			out[i] = tgis.NewRelativePoint(cur, unit)
		case registerEnd != "":
			end, err := strconv.ParseInt(registerEnd, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrInvalidTime, "unable to parse relative end %q", registerEnd)
			}
			out[i] = tgis.NewRelativeInterval(cur, end, unit)
		default:
			out[i] = tgis.NewRelativePoint(cur, unit)
		}
		cur += inc
	}
	return out, nil
}
