package tgis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	gerrors "github.com/grass-svn2git/grass/errors"
)

func buildDataset(t *testing.T, r *Registry, name string, intervals [][2]string) *Dataset {
	t.Helper()
	ctx := context.Background()
	d := NewDataset(name, "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))
	for i, iv := range intervals {
		m := intervalMap(name+"_m"+string(rune('a'+i)), iv[0], iv[1])
		require.NoError(t, r.InsertMap(ctx, m))
		require.NoError(t, r.RegisterMap(ctx, d, m))
	}
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))
	return d
}

// Three members with one temporal hole yield the three members plus
// exactly one gap spanning the hole.
func TestMapsWithGapsInsertsGap(t *testing.T) {
	r := testRegistry(t)
	d := buildDataset(t, r, "temps", [][2]string{
		{"2001-01-01", "2001-02-01"},
		{"2001-02-01", "2001-03-01"},
		{"2001-04-01", "2001-05-01"},
	})

	maps, err := r.MapsWithGaps(context.Background(), d, "")
	require.NoError(t, err)
	require.Len(t, maps, 4)

	gap := maps[2]
	require.True(t, gap.IsGap())
	require.Equal(t, "2001-03-01 00:00:00", gap.Extent.StartString())
	require.Equal(t, "2001-04-01 00:00:00", gap.Extent.EndString())

	for i, m := range []*Map{maps[0], maps[1], maps[3]} {
		require.False(t, m.IsGap(), "entry %d must be a real member", i)
	}
}

func TestMapsWithGapsContiguousUnchanged(t *testing.T) {
	r := testRegistry(t)
	d := buildDataset(t, r, "temps", [][2]string{
		{"2001-01-01", "2001-02-01"},
		{"2001-02-01", "2001-03-01"},
		{"2001-03-01", "2001-04-01"},
	})

	maps, err := r.MapsWithGaps(context.Background(), d, "")
	require.NoError(t, err)
	require.Len(t, maps, 3)
	for _, m := range maps {
		require.False(t, m.IsGap())
	}
}

func TestCountGaps(t *testing.T) {
	r := testRegistry(t)
	d := buildDataset(t, r, "temps", [][2]string{
		{"2001-01-01", "2001-02-01"},
		{"2001-03-01", "2001-04-01"},
		{"2001-05-01", "2001-06-01"},
	})

	gaps, err := r.CountGaps(context.Background(), d, "")
	require.NoError(t, err)
	require.Equal(t, 2, gaps)
}

func TestCountTemporalRelations(t *testing.T) {
	r := testRegistry(t)
	d := buildDataset(t, r, "temps", [][2]string{
		{"2001-01-01", "2001-02-01"},
		{"2001-02-01", "2001-03-01"},
		{"2001-03-01", "2001-04-01"},
	})

	counts, err := r.CountTemporalRelations(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, 2, counts[RelationFollows])
	require.Equal(t, 2, counts[RelationPrecedes])
	require.Zero(t, counts[RelationOverlaps])
}

func TestMapsByGranularity(t *testing.T) {
	r := testRegistry(t)
	d := buildDataset(t, r, "temps", [][2]string{
		{"2001-01-01", "2001-02-01"},
		{"2001-02-01", "2001-03-01"},
		{"2001-04-01", "2001-05-01"},
	})

	granules, err := r.MapsByGranularity(context.Background(), d, nil)
	require.NoError(t, err)
	require.Len(t, granules, 4, "full extent at 1 month granularity")

	require.False(t, granules[0][0].IsGap())
	require.False(t, granules[1][0].IsGap())
	require.True(t, granules[2][0].IsGap(), "March granule is a gap")
	require.False(t, granules[3][0].IsGap())

	require.Equal(t, "2001-03-01 00:00:00", granules[2][0].Extent.StartString())
	require.Equal(t, "2001-04-01 00:00:00", granules[2][0].Extent.EndString())
}

func TestMapsByGranularityRequiresIntervalTime(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	d := NewDataset("events", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, d, false))
	m := NewMap("e1", "test", 0, KindRaster)
	m.Extent = NewAbsolutePoint(date("2001-01-01"))
	require.NoError(t, r.InsertMap(ctx, m))
	require.NoError(t, r.RegisterMap(ctx, d, m))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, d))

	_, err := r.MapsByGranularity(ctx, d, nil)
	require.ErrorIs(t, err, gerrors.ErrInvalidGranularity)
}

func TestSampleByDataset(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	data := buildDataset(t, r, "data", [][2]string{
		{"2001-01-01", "2001-01-15"},
		{"2001-01-15", "2001-02-01"},
		{"2001-02-01", "2001-02-15"},
	})
	sampler := buildDataset(t, r, "sampler", [][2]string{
		{"2001-01-01", "2001-02-01"},
		{"2001-02-01", "2001-03-01"},
	})

	granules, err := r.SampleByDataset(ctx, data, sampler, SampleMethods{}, false)
	require.NoError(t, err)
	require.Len(t, granules, 2)

	// January granule: two members lie during/starts/finishes it
	require.Len(t, granules[0].Samples, 2)
	require.Equal(t, "data_ma@test", granules[0].Samples[0].ID)
	require.Equal(t, "data_mb@test", granules[0].Samples[1].ID)

	// February granule: one member starts it
	require.Len(t, granules[1].Samples, 1)
	require.Equal(t, "data_mc@test", granules[1].Samples[0].ID)
}

// Every granule yields at least one entry: an empty match is replaced
// by a placeholder carrying the granule's extent.
func TestSampleByDatasetEmptyGranule(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	data := buildDataset(t, r, "data", [][2]string{
		{"2001-01-01", "2001-01-15"},
	})
	sampler := buildDataset(t, r, "sampler", [][2]string{
		{"2001-01-01", "2001-02-01"},
		{"2001-02-01", "2001-03-01"},
	})

	granules, err := r.SampleByDataset(ctx, data, sampler, SampleMethods{}, false)
	require.NoError(t, err)
	require.Len(t, granules, 2)

	require.Len(t, granules[1].Samples, 1)
	placeholder := granules[1].Samples[0]
	require.True(t, placeholder.IsGap())
	require.Equal(t, "2001-02-01 00:00:00", placeholder.Extent.StartString())
	require.Equal(t, "2001-03-01 00:00:00", placeholder.Extent.EndString())
}

func TestSampleByDatasetTypeChecks(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	absData := buildDataset(t, r, "data", [][2]string{{"2001-01-01", "2001-02-01"}})

	relSampler := NewDataset("rel", "test", KindRaster, Relative)
	require.NoError(t, r.CreateDataset(ctx, relSampler, false))
	m := relIntervalMap("rm", 0, 10, UnitDays)
	require.NoError(t, r.InsertMap(ctx, m))
	require.NoError(t, r.RegisterMap(ctx, relSampler, m))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, relSampler))

	_, err := r.SampleByDataset(ctx, absData, relSampler, SampleMethods{}, false)
	require.ErrorIs(t, err, gerrors.ErrTemporalTypeMismatch)

	// A point-time sampler cannot partition the axis
	events := NewDataset("events", "test", KindRaster, Absolute)
	require.NoError(t, r.CreateDataset(ctx, events, false))
	p := NewMap("p1", "test", 0, KindRaster)
	p.Extent = NewAbsolutePoint(date("2001-01-01"))
	require.NoError(t, r.InsertMap(ctx, p))
	require.NoError(t, r.RegisterMap(ctx, events, p))
	require.NoError(t, r.UpdateFromRegisteredMaps(ctx, events))

	_, err = r.SampleByDataset(ctx, absData, events, SampleMethods{}, false)
	require.ErrorIs(t, err, gerrors.ErrInvalidGranularity)
}
