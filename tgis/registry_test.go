package tgis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grass-svn2git/grass/db"
	gerrors "github.com/grass-svn2git/grass/errors"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	database, err := db.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database, nil))
	return NewRegistry(database, nil)
}

func insertIntervalMap(t *testing.T, r *Registry, id, start, end string) *Map {
	t.Helper()
	m := intervalMap(id, start, end)
	require.NoError(t, r.InsertMap(context.Background(), m))
	return m
}

func TestRegisterAndReadBack(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))

	m := insertIntervalMap(t, r, "t1", "2001-01-01", "2001-02-01")
	require.NoError(t, r.RegisterMap(ctx, d, m))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))

	loaded, err := r.ReadDataset(ctx, "temps", "test", KindRaster)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.MapCount)
	require.Equal(t, MapTimeInterval, loaded.MapTime)
	require.Equal(t, "2001-01-01 00:00:00", loaded.Extent.StartString())
	require.Equal(t, "2001-02-01 00:00:00", loaded.Extent.EndString())
	require.NotEmpty(t, loaded.RegisterTable)

	members, err := r.RegisteredMaps(ctx, loaded, "", "start_time")
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, m.ID, members[0].ID)
}

func TestRegisterDuplicateIsNoOp(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))
	m := insertIntervalMap(t, r, "t1", "2001-01-01", "2001-02-01")

	require.NoError(t, r.RegisterMap(ctx, d, m))
	require.NoError(t, r.RegisterMap(ctx, d, m))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))
	require.Equal(t, 1, d.MapCount)
}

func TestRegisterConsistencyViolations(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))

	// No valid time
	noTime := NewMap("empty", "test", 0, KindRaster)
	err := r.RegisterMap(ctx, d, noTime)
	require.ErrorIs(t, err, gerrors.ErrInvalidTime)

	// Wrong mapset
	foreign := intervalMap("foreign", "2001-01-01", "2001-02-01")
	foreign.Mapset = "elsewhere"
	foreign.ID = MapID(foreign.Name, foreign.Mapset, 0)
	err = r.RegisterMap(ctx, d, foreign)
	require.ErrorIs(t, err, gerrors.ErrMapsetMismatch)

	// Wrong temporal type
	relMap := relIntervalMap("rel", 0, 10, UnitDays)
	err = r.RegisterMap(ctx, d, relMap)
	require.ErrorIs(t, err, gerrors.ErrTemporalTypeMismatch)

	// Wrong kind
	vect := NewMap("borders", "test", 0, KindVector)
	vect.Extent = absInterval("2001-01-01", "2001-02-01")
	require.NoError(t, r.InsertMap(ctx, vect))
	err = r.RegisterMap(ctx, d, vect)
	require.ErrorIs(t, err, gerrors.ErrKindMismatch)
}

// The kind is part of map and dataset identity: a raster and a vector
// entity may share the same name@mapset and must stay distinct rows.
func TestKindPartOfIdentity(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	raster := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, raster, false))
	vector := NewDataset("temps", "test", KindVector, Absolute)
	require.NoError(t, r.CreateDataset(ctx, vector, false))

	rm := insertIntervalMap(t, r, "jan", "2001-01-01", "2001-02-01")
	vm := NewMap("jan", "test", 0, KindVector)
	vm.Extent = absInterval("2001-06-01", "2001-07-01")
	require.NoError(t, r.InsertMap(ctx, vm))

	require.NoError(t, r.RegisterMap(ctx, raster, rm))
	require.NoError(t, r.RegisterMap(ctx, vector, vm))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, raster))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, vector))

	gotRaster, err := r.ReadMap(ctx, "jan@test", KindRaster)
	require.NoError(t, err)
	require.Equal(t, "2001-01-01 00:00:00", gotRaster.Extent.StartString())
	gotVector, err := r.ReadMap(ctx, "jan@test", KindVector)
	require.NoError(t, err)
	require.Equal(t, "2001-06-01 00:00:00", gotVector.Extent.StartString())

	// Each series sees only the member of its own kind
	members, err := r.RegisteredMaps(ctx, vector, "", "start_time")
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, KindVector, members[0].Kind)

	loaded, err := r.ReadDataset(ctx, "temps", "test", KindVector)
	require.NoError(t, err)
	require.Equal(t, "2001-06-01 00:00:00", loaded.Extent.StartString())

	// Removing the vector map must not touch its raster namesake
	require.NoError(t, r.RemoveMap(ctx, vm))
	exists, err := r.MapExists(ctx, "jan@test", KindRaster)
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = r.MapExists(ctx, "jan@test", KindVector)
	require.NoError(t, err)
	require.False(t, exists)
}

// Registering a map whose relative unit differs from the unit pinned
// by the first member must fail before any row is written.
func TestRegisterUnitMismatch(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("counts", "test", KindRaster, Relative)
	require.NoError(t, r.CreateDataset(ctx, d, false))

	years := relIntervalMap("a", 0, 1, UnitYears)
	require.NoError(t, r.InsertMap(ctx, years))
	require.NoError(t, r.RegisterMap(ctx, d, years))
	require.Equal(t, UnitYears, d.Unit)

	months := relIntervalMap("b", 0, 12, UnitMonths)
	require.NoError(t, r.InsertMap(ctx, months))
	err := r.RegisterMap(ctx, d, months)
	require.ErrorIs(t, err, gerrors.ErrUnitMismatch)

	members, err := r.RegisteredMaps(ctx, d, "", "start_time")
	require.NoError(t, err)
	require.Len(t, members, 1, "failed registration must not write any row")
}

// Register followed by unregister returns the dataset to zero members
// with cleared extent and granularity.
func TestRegisterUnregisterRoundTrip(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))
	m := insertIntervalMap(t, r, "t1", "2001-01-01", "2001-02-01")

	require.NoError(t, r.RegisterMap(ctx, d, m))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))
	require.NoError(t, r.UnregisterMap(ctx, d, m))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))

	loaded, err := r.ReadDataset(ctx, "temps", "test", KindRaster)
	require.NoError(t, err)
	require.Zero(t, loaded.MapCount)
	require.False(t, loaded.Extent.HasStart)
	require.False(t, loaded.Extent.HasEnd)
	require.Nil(t, loaded.Granularity)
	require.Empty(t, string(loaded.MapTime))
}

func TestUnregisterNonMemberIsNoOp(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))
	m := insertIntervalMap(t, r, "t1", "2001-01-01", "2001-02-01")

	require.NoError(t, r.UnregisterMap(ctx, d, m))
	require.Zero(t, d.MapCount)
}

// A dataset whose sole member has no end time gets the member's start
// as its end, the max-start fallback.
func TestUpdateMetadataMaxStartFallback(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("events", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))

	m := NewMap("e1", "test", 0, KindRaster)
	m.Extent = NewAbsolutePoint(date("2001-06-15"))
	require.NoError(t, r.InsertMap(ctx, m))
	require.NoError(t, r.RegisterMap(ctx, d, m))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))

	loaded, err := r.ReadDataset(ctx, "events", "test", KindRaster)
	require.NoError(t, err)
	require.Equal(t, "2001-06-15 00:00:00", loaded.Extent.StartString())
	require.True(t, loaded.Extent.HasEnd)
	require.Equal(t, "2001-06-15 00:00:00", loaded.Extent.EndString())
	require.Equal(t, MapTimePoint, loaded.MapTime)
}

func TestUpdateMetadataAggregates(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))

	a := intervalMap("a", "2001-01-01", "2001-02-01")
	a.Spatial = SpatialExtent{West: 0, East: 10, South: 0, North: 10}
	b := intervalMap("b", "2001-02-01", "2001-03-01")
	b.Spatial = SpatialExtent{West: -5, East: 5, South: 2, North: 20}
	for _, m := range []*Map{a, b} {
		require.NoError(t, r.InsertMap(ctx, m))
		require.NoError(t, r.RegisterMap(ctx, d, m))
	}
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))

	loaded, err := r.ReadDataset(ctx, "temps", "test", KindRaster)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.MapCount)
	require.Equal(t, SpatialExtent{West: -5, East: 10, South: 0, North: 20}, loaded.Spatial)
	require.NotNil(t, loaded.Granularity)
	require.Equal(t, int64(1), loaded.Granularity.Count)
	require.Equal(t, UnitMonths, loaded.Granularity.Unit)
}

func TestDeleteDatasetKeepsMaps(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))
	m := insertIntervalMap(t, r, "t1", "2001-01-01", "2001-02-01")
	require.NoError(t, r.RegisterMap(ctx, d, m))

	require.NoError(t, r.DeleteDataset(ctx, d))

	_, err := r.ReadDataset(ctx, "temps", "test", KindRaster)
	require.Error(t, err)

	exists, err := r.MapExists(ctx, m.ID, m.Kind)
	require.NoError(t, err)
	require.True(t, exists, "deleting a dataset must not delete member maps")
}

func TestRemoveMapUpdatesDatasets(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))
	a := insertIntervalMap(t, r, "a", "2001-01-01", "2001-02-01")
	b := insertIntervalMap(t, r, "b", "2001-02-01", "2001-03-01")
	require.NoError(t, r.RegisterMap(ctx, d, a))
	require.NoError(t, r.RegisterMap(ctx, d, b))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))

	require.NoError(t, r.RemoveMap(ctx, a))

	exists, err := r.MapExists(ctx, a.ID, a.Kind)
	require.NoError(t, err)
	require.False(t, exists)

	loaded, err := r.ReadDataset(ctx, "temps", "test", KindRaster)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.MapCount)
	require.Equal(t, "2001-02-01 00:00:00", loaded.Extent.StartString())
}

func TestCreateDatasetOverwrite(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))

	again := NewDataset("temps", "test", KindRaster, Absolute)
	err := r.CreateDataset(ctx, again, false)
	require.ErrorIs(t, err, gerrors.ErrMapExists)

	require.NoError(t, r.CreateDataset(ctx, again, true))
}

func TestRelativeTimeStorageRoundTrip(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("counts", "test", KindRaster, Relative)
	require.NoError(t, r.CreateDataset(ctx, d, false))

	m := relIntervalMap("a", 5, 10, UnitDays)
	require.NoError(t, r.InsertMap(ctx, m))
	require.NoError(t, r.RegisterMap(ctx, d, m))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))

	members, err := r.RegisteredMaps(ctx, d, "", "start_time")
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, int64(5), members[0].Extent.RelStart)
	require.Equal(t, int64(10), members[0].Extent.RelEnd)
	require.Equal(t, UnitDays, members[0].Extent.Unit)

	loaded, err := r.ReadDataset(ctx, "counts", "test", KindRaster)
	require.NoError(t, err)
	require.Equal(t, UnitDays, loaded.Unit)
	require.Equal(t, int64(5), loaded.Extent.RelStart)
	require.Equal(t, int64(10), loaded.Extent.RelEnd)
}
