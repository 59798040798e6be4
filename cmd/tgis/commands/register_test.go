package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grass-svn2git/grass/tgis"
)

func resetRegisterFlags() {
	registerStart = ""
	registerEnd = ""
	registerIncrement = ""
	registerInterval = false
	registerUnit = ""
}

func TestBuildAbsoluteExtentsIntervals(t *testing.T) {
	resetRegisterFlags()
	registerStart = "2001-01-01"
	registerIncrement = "1 months"
	registerInterval = true

	extents, err := buildAbsoluteExtents(3)
	require.NoError(t, err)
	require.Len(t, extents, 3)
	require.Equal(t, "2001-01-01 00:00:00", extents[0].StartString())
	require.Equal(t, "2001-02-01 00:00:00", extents[0].EndString())
	require.Equal(t, "2001-03-01 00:00:00", extents[2].StartString())
	require.Equal(t, "2001-04-01 00:00:00", extents[2].EndString())
}

func TestBuildAbsoluteExtentsPoints(t *testing.T) {
	resetRegisterFlags()
	registerStart = "2001-01-01"
	registerIncrement = "7 days"

	extents, err := buildAbsoluteExtents(2)
	require.NoError(t, err)
	require.Equal(t, "2001-01-08 00:00:00", extents[1].StartString())
	require.False(t, extents[1].HasEnd)
}

func TestBuildAbsoluteExtentsBareIncrementRejected(t *testing.T) {
	resetRegisterFlags()
	registerStart = "2001-01-01"
	registerIncrement = "7"

	_, err := buildAbsoluteExtents(2)
	require.Error(t, err)
}

func TestBuildRelativeExtents(t *testing.T) {
	resetRegisterFlags()
	registerStart = "0"
	registerIncrement = "2"
	registerInterval = true
	registerUnit = "days"

	d := tgis.NewDataset("counts", "test", tgis.KindRaster, tgis.Relative)
	extents, err := buildRelativeExtents(d, 3)
	require.NoError(t, err)
	require.Equal(t, int64(4), extents[2].RelStart)
	require.Equal(t, int64(6), extents[2].RelEnd)
	require.Equal(t, tgis.UnitDays, extents[2].Unit)
}

func TestBuildRelativeExtentsNeedsUnit(t *testing.T) {
	resetRegisterFlags()
	registerStart = "0"

	d := tgis.NewDataset("counts", "test", tgis.KindRaster, tgis.Relative)
	_, err := buildRelativeExtents(d, 1)
	require.Error(t, err)
}
