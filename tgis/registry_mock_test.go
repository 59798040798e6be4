package tgis

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// Failure-path tests use sqlmock: a real sqlite handle cannot be made
// to fail on demand.

func TestReadMapPropagatesQueryError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT .+ FROM maps WHERE id = . AND kind = .").
		WithArgs("broken@test", "raster").
		WillReturnError(sqlmock.ErrCancelled)

	r := NewRegistry(mockDB, nil)
	_, err = r.ReadMap(context.Background(), "broken@test", KindRaster)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read map <broken@test>")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMapExistsPropagatesQueryError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT 1 FROM maps WHERE id = . AND kind = .").
		WithArgs("broken@test", "raster").
		WillReturnError(sqlmock.ErrCancelled)

	r := NewRegistry(mockDB, nil)
	_, err = r.MapExists(context.Background(), "broken@test", KindRaster)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMapPropagatesExecError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("INSERT INTO maps").WillReturnError(sqlmock.ErrCancelled)

	r := NewRegistry(mockDB, nil)
	m := NewMap("broken", "test", 0, KindRaster)
	err = r.InsertMap(context.Background(), m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to insert map <broken@test>")
	require.NoError(t, mock.ExpectationsWereMet())
}

// A failure halfway through the registration transaction must roll the
// whole membership change back: the per-map register row inserted
// before the failing per-dataset insert may not survive, and the
// in-memory member counter stays untouched.
func TestRegisterMapRollsBackOnRegisterTableError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	d := NewDataset("temps", "test", KindRaster, Absolute)
	d.RegisterTable = "stds_feed_raster_register"
	d.MapCount = 1

	m := NewMap("jan", "test", 0, KindRaster)
	m.Extent = NewAbsoluteInterval(date("2001-01-01"), date("2001-02-01"))
	m.RegisterTable = "map_feed_raster_register"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM stds_feed_raster_register WHERE id = .").
		WithArgs("jan@test").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT OR IGNORE INTO map_feed_raster_register").
		WithArgs("temps@test").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO stds_feed_raster_register").
		WithArgs("jan@test").
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	r := NewRegistry(mockDB, nil)
	err = r.RegisterMap(context.Background(), d, m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to register map <jan@test>")
	require.Equal(t, 1, d.MapCount, "counter must not move on a rolled back registration")
	require.NoError(t, mock.ExpectationsWereMet())
}
