package tgis

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grass-svn2git/grass/errors"
)

// Statement is a prepared SQL mutation with its arguments. The
// dry-run unregistration path returns statements instead of executing
// them so that callers can batch many unregistrations into a single
// transaction.
type Statement struct {
	SQL  string
	Args []interface{}
}

// Registry is the space-time dataset registration engine. It manages
// the many-to-many relationship between datasets and their member maps
// through lazily created register tables and keeps the denormalized
// aggregate metadata of each dataset consistent after every membership
// change. All mutating SQL for one logical operation runs in a single
// transaction.
type Registry struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewRegistry creates a registration engine over an open temporal
// database. The logger may be nil.
func NewRegistry(db *sql.DB, logger *zap.SugaredLogger) *Registry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Registry{db: db, log: logger}
}

// timeArg renders a temporal boundary for storage: a datetime string
// for absolute time, a bare integer for relative time, nil when the
// boundary is absent. SQLite's dynamic typing keeps both forms
// comparable within one column.
func timeArg(e TemporalExtent, end bool) interface{} {
	if end && !e.HasEnd {
		return nil
	}
	if !end && !e.HasStart {
		return nil
	}
	if e.Type == Relative {
		if end {
			return e.RelEnd
		}
		return e.RelStart
	}
	if end {
		return FormatDatetime(e.End)
	}
	return FormatDatetime(e.Start)
}

// parseTimeColumn fills one temporal boundary of an extent from a
// stored column value.
func parseTimeColumn(e *TemporalExtent, v sql.NullString, end bool) error {
	if !v.Valid || v.String == "" {
		return nil
	}
	if e.Type == Relative {
		n, err := strconv.ParseInt(strings.TrimSpace(v.String), 10, 64)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidTime, "invalid relative time %q", v.String)
		}
		if end {
			e.RelEnd, e.HasEnd = n, true
		} else {
			e.RelStart, e.HasStart = n, true
		}
		return nil
	}
	t, err := ParseDatetime(v.String)
	if err != nil {
		return err
	}
	if end {
		e.End, e.HasEnd = t, true
	} else {
		e.Start, e.HasStart = t, true
	}
	return nil
}

const mapColumns = `id, name, mapset, layer, kind, creator, temporal_type,
	start_time, end_time, unit, west, east, south, north, bottom, top, register_table`

func scanMap(row interface{ Scan(...interface{}) error }) (*Map, error) {
	var m Map
	var layer sql.NullInt64
	var creator, ttype, unit, register sql.NullString
	var start, end sql.NullString
	var west, east, south, north, bottom, top sql.NullFloat64

	err := row.Scan(&m.ID, &m.Name, &m.Mapset, &layer, &m.Kind, &creator, &ttype,
		&start, &end, &unit, &west, &east, &south, &north, &bottom, &top, &register)
	if err != nil {
		return nil, err
	}

	m.Layer = int(layer.Int64)
	m.Creator = creator.String
	m.RegisterTable = register.String
	m.Extent.Type = TemporalType(ttype.String)
	m.Extent.Unit = Unit(unit.String)
	m.Spatial = SpatialExtent{
		West: west.Float64, East: east.Float64,
		South: south.Float64, North: north.Float64,
		Bottom: bottom.Float64, Top: top.Float64,
	}
	if err := parseTimeColumn(&m.Extent, start, false); err != nil {
		return nil, err
	}
	if err := parseTimeColumn(&m.Extent, end, true); err != nil {
		return nil, err
	}
	return &m, nil
}

// InsertMap writes a map's metadata row. The map must not exist yet.
func (r *Registry) InsertMap(ctx context.Context, m *Map) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO maps (id, name, mapset, layer, kind, creator, temporal_type,
			start_time, end_time, unit, west, east, south, north, bottom, top, register_table)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Mapset, nullInt(m.Layer), string(m.Kind), nullStr(m.Creator),
		nullStr(string(m.Extent.Type)),
		timeArg(m.Extent, false), timeArg(m.Extent, true), nullStr(string(m.Extent.Unit)),
		m.Spatial.West, m.Spatial.East, m.Spatial.South, m.Spatial.North,
		m.Spatial.Bottom, m.Spatial.Top, nullStr(m.RegisterTable))
	if err != nil {
		return errors.Wrapf(err, "failed to insert map <%s>", m.ID)
	}
	return nil
}

// UpdateMapTime rewrites a map's temporal extent.
func (r *Registry) UpdateMapTime(ctx context.Context, m *Map) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE maps SET temporal_type = ?, start_time = ?, end_time = ?, unit = ?
		WHERE id = ? AND kind = ?`,
		nullStr(string(m.Extent.Type)), timeArg(m.Extent, false), timeArg(m.Extent, true),
		nullStr(string(m.Extent.Unit)), m.ID, string(m.Kind))
	if err != nil {
		return errors.Wrapf(err, "failed to update time of map <%s>", m.ID)
	}
	return nil
}

// ReadMap loads a map's metadata row. A raster and a vector map may
// share the same name@mapset id, so the kind is part of the identity.
func (r *Registry) ReadMap(ctx context.Context, id string, kind Kind) (*Map, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+mapColumns+" FROM maps WHERE id = ? AND kind = ?", id, string(kind))
	m, err := scanMap(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("%s map <%s> is not in the temporal database", kind, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read map <%s>", id)
	}
	return m, nil
}

// MapExists reports whether a map metadata row of the given kind exists.
func (r *Registry) MapExists(ctx context.Context, id string, kind Kind) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM maps WHERE id = ? AND kind = ?", id, string(kind)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to query map <%s>", id)
	}
	return true, nil
}

// DatasetsOfMap returns the ids of all datasets the map is registered
// in, read from the map's register table.
func (r *Registry) DatasetsOfMap(ctx context.Context, m *Map) ([]string, error) {
	if m.RegisterTable == "" {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM "+m.RegisterTable)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read register table <%s>", m.RegisterTable)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateDataset writes a new, empty space-time dataset. Creating a
// dataset that already exists fails unless overwrite is set, in which
// case the existing dataset is deleted first.
func (r *Registry) CreateDataset(ctx context.Context, d *Dataset, overwrite bool) error {
	existing, err := r.ReadDataset(ctx, d.Name, d.Mapset, d.Kind)
	if err != nil && !errors.IsNotFoundError(err) {
		return err
	}
	if existing != nil {
		if !overwrite {
			return errors.Wrapf(errors.ErrMapExists,
				"space time %s dataset <%s> already exists", d.Kind, d.ID())
		}
		if err := r.DeleteDataset(ctx, existing); err != nil {
			return err
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO datasets (id, name, mapset, kind, temporal_type, semantic_type,
			title, description, creator)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID(), d.Name, d.Mapset, string(d.Kind), string(d.TemporalType),
		nullStr(d.SemanticType), nullStr(d.Title), nullStr(d.Description), nullStr(d.Creator))
	if err != nil {
		return errors.Wrapf(err, "failed to create dataset <%s>", d.ID())
	}

	r.log.Infow("created space time dataset",
		"dataset", d.ID(), "kind", d.Kind, "temporal_type", d.TemporalType)
	return nil
}

// ReadDataset loads a dataset with its aggregate metadata.
func (r *Registry) ReadDataset(ctx context.Context, name, mapset string, kind Kind) (*Dataset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, mapset, kind, temporal_type, semantic_type, title, description,
			unit, start_time, end_time, granularity, map_time, map_count,
			west, east, south, north, bottom, top, register_table, creator
		FROM datasets WHERE name = ? AND mapset = ? AND kind = ?`,
		name, mapset, string(kind))

	var d Dataset
	var semantic, title, desc, unit, gran, mapTime, register, creator sql.NullString
	var start, end sql.NullString
	var west, east, south, north, bottom, top sql.NullFloat64

	err := row.Scan(&d.Name, &d.Mapset, &d.Kind, &d.TemporalType, &semantic, &title, &desc,
		&unit, &start, &end, &gran, &mapTime, &d.MapCount,
		&west, &east, &south, &north, &bottom, &top, &register, &creator)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(
			"space time %s dataset <%s@%s> not found", kind, name, mapset)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset <%s@%s>", name, mapset)
	}

	d.SemanticType = semantic.String
	d.Title = title.String
	d.Description = desc.String
	d.Unit = Unit(unit.String)
	d.MapTime = MapTime(mapTime.String)
	d.RegisterTable = register.String
	d.Creator = creator.String
	d.Spatial = SpatialExtent{
		West: west.Float64, East: east.Float64,
		South: south.Float64, North: north.Float64,
		Bottom: bottom.Float64, Top: top.Float64,
	}
	d.Extent = TemporalExtent{Type: d.TemporalType, Unit: d.Unit}
	if err := parseTimeColumn(&d.Extent, start, false); err != nil {
		return nil, err
	}
	if err := parseTimeColumn(&d.Extent, end, true); err != nil {
		return nil, err
	}
	if gran.Valid && gran.String != "" {
		g, err := ParseGranularity(gran.String)
		if err != nil {
			return nil, err
		}
		if d.TemporalType == Relative {
			g.Unit = d.Unit
		}
		d.Granularity = &g
	}
	return &d, nil
}

// ListDatasets returns all datasets of one kind, ordered by id. An
// empty mapset lists across mapsets.
func (r *Registry) ListDatasets(ctx context.Context, kind Kind, mapset string) ([]*Dataset, error) {
	query := "SELECT name, mapset FROM datasets WHERE kind = ?"
	args := []interface{}{string(kind)}
	if mapset != "" {
		query += " AND mapset = ?"
		args = append(args, mapset)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list datasets")
	}
	defer rows.Close()

	var out []*Dataset
	for rows.Next() {
		var name, ms string
		if err := rows.Scan(&name, &ms); err != nil {
			return nil, err
		}
		d, err := r.ReadDataset(ctx, name, ms, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RegisterMap registers a map as member of a dataset. The map must
// carry a valid time, be of the dataset's kind, live in the dataset's
// mapset and share the dataset's temporal type; a relative-time dataset additionally pins
// its unit to the first registered map and rejects units that differ.
// Registering an already registered map is an idempotent no-op that
// logs a warning. All table creation and row insertion happens in one
// transaction.
func (r *Registry) RegisterMap(ctx context.Context, d *Dataset, m *Map) error {
	if !m.Extent.IsValid() {
		return errors.Wrapf(errors.ErrInvalidTime,
			"only maps with absolute or relative valid time can be registered, map <%s>", m.ID)
	}
	if d.Kind != m.Kind {
		return errors.Wrapf(errors.ErrKindMismatch,
			"only %s maps can be registered in dataset <%s>, map <%s> is a %s map",
			d.Kind, d.ID(), m.ID, m.Kind)
	}
	if d.Mapset != m.Mapset {
		return errors.Wrapf(errors.ErrMapsetMismatch,
			"only maps from mapset <%s> can be registered in dataset <%s>, map <%s> is from <%s>",
			d.Mapset, d.ID(), m.ID, m.Mapset)
	}
	if d.TemporalType != m.Extent.Type {
		return errors.Wrapf(errors.ErrTemporalTypeMismatch,
			"temporal type of dataset <%s> (%s) and map <%s> (%s) are different",
			d.ID(), d.TemporalType, m.ID, m.Extent.Type)
	}

	adoptUnit := false
	if d.TemporalType == Relative {
		if d.MapCount == 0 && d.Unit == "" {
			adoptUnit = true
		} else if d.Unit != m.Extent.Unit {
			return errors.Wrapf(errors.ErrUnitMismatch,
				"relative time unit of dataset <%s> (%s) and map <%s> (%s) are different",
				d.ID(), d.Unit, m.ID, m.Extent.Unit)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin registration transaction")
	}
	defer tx.Rollback()

	if adoptUnit {
		if _, err := tx.ExecContext(ctx,
			"UPDATE datasets SET unit = ? WHERE id = ? AND kind = ?",
			string(m.Extent.Unit), d.ID(), string(d.Kind)); err != nil {
			return errors.Wrapf(err, "failed to set temporal unit of dataset <%s>", d.ID())
		}
		r.log.Infow("adopted relative time unit from first registered map",
			"dataset", d.ID(), "unit", m.Extent.Unit)
	}

	// Create the per-map register table listing owning datasets
	if m.RegisterTable == "" {
		table := "map_" + uuidHex() + "_" + d.Kind.Suffix() + "_register"
		if _, err := tx.ExecContext(ctx,
			"CREATE TABLE "+table+" (id TEXT NOT NULL PRIMARY KEY)"); err != nil {
			return errors.Wrapf(err, "failed to create register table for map <%s>", m.ID)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE maps SET register_table = ? WHERE id = ? AND kind = ?",
			table, m.ID, string(m.Kind)); err != nil {
			return errors.Wrapf(err, "failed to store register table of map <%s>", m.ID)
		}
		m.RegisterTable = table
		r.log.Debugw("created map register table", "map", m.ID, "table", table)
	}

	// Create the per-dataset register table listing member maps
	if d.RegisterTable == "" {
		table := "stds_" + uuidHex() + "_" + d.Kind.Suffix() + "_register"
		if _, err := tx.ExecContext(ctx,
			"CREATE TABLE "+table+" (id TEXT NOT NULL PRIMARY KEY)"); err != nil {
			return errors.Wrapf(err, "failed to create register table for dataset <%s>", d.ID())
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE datasets SET register_table = ? WHERE id = ? AND kind = ?",
			table, d.ID(), string(d.Kind)); err != nil {
			return errors.Wrapf(err, "failed to store register table of dataset <%s>", d.ID())
		}
		d.RegisterTable = table
		r.log.Debugw("created dataset register table", "dataset", d.ID(), "table", table)
	}

	// Duplicate registration is a warning, not an error
	var existing string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM "+d.RegisterTable+" WHERE id = ?", m.ID).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return errors.Wrapf(err, "failed to query register table <%s>", d.RegisterTable)
	}
	if err == nil {
		r.log.Warnw("map is already registered", "map", m.ID, "dataset", d.ID())
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+m.RegisterTable+" (id) VALUES (?)", d.ID()); err != nil {
		return errors.Wrapf(err, "failed to register dataset <%s> for map <%s>", d.ID(), m.ID)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+d.RegisterTable+" (id) VALUES (?)", m.ID); err != nil {
		return errors.Wrapf(err, "failed to register map <%s> in dataset <%s>", m.ID, d.ID())
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit registration transaction")
	}

	d.MapCount++
	if adoptUnit {
		d.Unit = m.Extent.Unit
		d.Extent.Unit = m.Extent.Unit
	}
	r.log.Debugw("registered map", "map", m.ID, "dataset", d.ID())
	return nil
}

// UnregisterMapStatements prepares the deletions that remove the
// membership link in both directions, without executing them.
func (r *Registry) UnregisterMapStatements(d *Dataset, m *Map) []Statement {
	var stmts []Statement
	if m.RegisterTable != "" {
		stmts = append(stmts, Statement{
			SQL:  "DELETE FROM " + m.RegisterTable + " WHERE id = ?",
			Args: []interface{}{d.ID()},
		})
	}
	if d.RegisterTable != "" {
		stmts = append(stmts, Statement{
			SQL:  "DELETE FROM " + d.RegisterTable + " WHERE id = ?",
			Args: []interface{}{m.ID},
		})
	}
	return stmts
}

// UnregisterMap removes a map from a dataset. Unregistering a map that
// is not a member is an idempotent no-op that logs a warning.
func (r *Registry) UnregisterMap(ctx context.Context, d *Dataset, m *Map) error {
	registered := false
	if d.RegisterTable != "" {
		var id string
		err := r.db.QueryRowContext(ctx,
			"SELECT id FROM "+d.RegisterTable+" WHERE id = ?", m.ID).Scan(&id)
		if err != nil && err != sql.ErrNoRows {
			return errors.Wrapf(err, "failed to query register table <%s>", d.RegisterTable)
		}
		registered = err == nil
	}
	if !registered {
		r.log.Warnw("map is not registered", "map", m.ID, "dataset", d.ID())
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin unregistration transaction")
	}
	defer tx.Rollback()

	for _, stmt := range r.UnregisterMapStatements(d, m) {
		if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			return errors.Wrapf(err, "failed to unregister map <%s> from dataset <%s>", m.ID, d.ID())
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit unregistration transaction")
	}

	d.MapCount--
	r.log.Debugw("unregistered map", "map", m.ID, "dataset", d.ID())
	return nil
}

// DeleteDataset removes a dataset from the temporal database:
// unregisters every member, drops the dataset's register table and
// deletes the metadata row, all in one transaction. Member maps
// themselves are not touched.
func (r *Registry) DeleteDataset(ctx context.Context, d *Dataset) error {
	var members []*Map
	if d.RegisterTable != "" {
		var err error
		members, err = r.RegisteredMaps(ctx, d, "", "start_time")
		if err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin delete transaction")
	}
	defer tx.Rollback()

	for _, m := range members {
		for _, stmt := range r.UnregisterMapStatements(d, m) {
			if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
				return errors.Wrapf(err, "failed to unregister map <%s>", m.ID)
			}
		}
	}
	if d.RegisterTable != "" {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+d.RegisterTable); err != nil {
			return errors.Wrapf(err, "failed to drop register table <%s>", d.RegisterTable)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM datasets WHERE id = ? AND kind = ?", d.ID(), string(d.Kind)); err != nil {
		return errors.Wrapf(err, "failed to delete dataset <%s>", d.ID())
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit delete transaction")
	}

	r.log.Infow("deleted space time dataset", "dataset", d.ID(), "members", len(members))
	return nil
}

// RemoveMap deletes a map from the temporal database, unregistering it
// from every dataset it is a member of first. The owning datasets'
// aggregate metadata is recomputed.
func (r *Registry) RemoveMap(ctx context.Context, m *Map) error {
	datasetIDs, err := r.DatasetsOfMap(ctx, m)
	if err != nil {
		return err
	}
	for _, id := range datasetIDs {
		name, mapset, _ := SplitID(id)
		d, err := r.ReadDataset(ctx, name, mapset, m.Kind)
		if err != nil {
			return err
		}
		if err := r.UnregisterMap(ctx, d, m); err != nil {
			return err
		}
		if err := r.UpdateFromRegisteredMaps(ctx, d); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin remove transaction")
	}
	defer tx.Rollback()

	if m.RegisterTable != "" {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+m.RegisterTable); err != nil {
			return errors.Wrapf(err, "failed to drop register table <%s>", m.RegisterTable)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM maps WHERE id = ? AND kind = ?", m.ID, string(m.Kind)); err != nil {
		return errors.Wrapf(err, "failed to delete map <%s>", m.ID)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit remove transaction")
	}

	r.log.Infow("removed map", "map", m.ID, "datasets", len(datasetIDs))
	return nil
}

// RegisteredMaps returns the dataset's member maps. The where argument
// is an optional SQL predicate over (start_time, end_time) without the
// WHERE keyword, as produced by BuildWhere; order is an ORDER BY
// column expression, usually "start_time".
func (r *Registry) RegisteredMaps(ctx context.Context, d *Dataset, where, order string) ([]*Map, error) {
	if d.RegisterTable == "" {
		return nil, nil
	}

	query := "SELECT " + mapColumns + " FROM maps WHERE maps.kind = ? AND maps.id IN (SELECT id FROM " +
		d.RegisterTable + ")"
	if where != "" {
		query += " AND (" + strings.SplitN(where, ";", 2)[0] + ")"
	}
	if order != "" {
		query += " ORDER BY " + strings.SplitN(order, ";", 2)[0]
	}

	rows, err := r.db.QueryContext(ctx, query, string(d.Kind))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read member maps of dataset <%s>", d.ID())
	}
	defer rows.Close()

	var out []*Map
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountTemporalRelations builds the pairwise temporal topology over
// the dataset's members and returns the number of recorded pairs per
// relation. A dataset with fewer than two members yields nil.
func (r *Registry) CountTemporalRelations(ctx context.Context, d *Dataset) (map[Relation]int, error) {
	maps, err := r.RegisteredMaps(ctx, d, "", "start_time")
	if err != nil {
		return nil, err
	}
	return BuildTopology(maps, nil, false).Counts(), nil
}

// UpdateFromRegisteredMaps recomputes the dataset's denormalized
// aggregate metadata from its current membership: the union spatial
// extent, the temporal extent (end falling back to the maximum member
// start when no later explicit end exists), the map time
// classification and the granularity. A dataset left with zero members
// has its extent and granularity cleared. The persisted member count
// is authoritative; the in-memory counter is resynchronized here.
func (r *Registry) UpdateFromRegisteredMaps(ctx context.Context, d *Dataset) error {
	if d.RegisterTable == "" {
		return nil
	}

	maps, err := r.RegisteredMaps(ctx, d, "", "start_time")
	if err != nil {
		return err
	}

	if len(maps) == 0 {
		_, err := r.db.ExecContext(ctx, `
			UPDATE datasets SET map_count = 0, start_time = NULL, end_time = NULL,
				granularity = NULL, map_time = NULL,
				west = NULL, east = NULL, south = NULL, north = NULL,
				bottom = NULL, top = NULL,
				modified_at = ?
			WHERE id = ? AND kind = ?`, time.Now().UTC(), d.ID(), string(d.Kind))
		if err != nil {
			return errors.Wrapf(err, "failed to clear metadata of dataset <%s>", d.ID())
		}
		d.MapCount = 0
		d.Extent = TemporalExtent{Type: d.TemporalType, Unit: d.Unit}
		d.Spatial = SpatialExtent{}
		d.Granularity = nil
		d.MapTime = ""
		r.log.Debugw("cleared metadata of empty dataset", "dataset", d.ID())
		return nil
	}

	// Union spatial extent, tracking each axis independently
	spatial := maps[0].Spatial
	for _, m := range maps[1:] {
		spatial = spatial.Union(m.Spatial)
	}

	// Temporal extent: min start, max end with max-start fallback
	extent := maps[0].Extent
	for _, m := range maps[1:] {
		extent = extent.Union(m.Extent)
	}
	maxStart := maps[len(maps)-1].Extent
	if !extent.HasEnd {
		// No member carries an explicit end, use the maximum start
		extent.HasEnd = true
		extent.End, extent.RelEnd = maxStart.Start, maxStart.RelStart
	}

	points, intervals, invalid := CountTemporalTypes(maps)
	mapTime := ClassifyMapTime(points, intervals, invalid)

	var gran *Granularity
	if mapTime != MapTimeInvalid {
		gran = ComputeGranularity(d.TemporalType, d.Unit, maps)
	}
	var granStr interface{}
	if gran != nil {
		if d.TemporalType == Relative {
			granStr = strconv.FormatInt(gran.Count, 10)
		} else {
			granStr = gran.String()
		}
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE datasets SET map_count = ?, start_time = ?, end_time = ?,
			granularity = ?, map_time = ?,
			west = ?, east = ?, south = ?, north = ?, bottom = ?, top = ?,
			modified_at = ?
		WHERE id = ? AND kind = ?`,
		len(maps), timeArg(extent, false), timeArg(extent, true),
		granStr, string(mapTime),
		spatial.West, spatial.East, spatial.South, spatial.North,
		spatial.Bottom, spatial.Top,
		time.Now().UTC(), d.ID(), string(d.Kind))
	if err != nil {
		return errors.Wrapf(err, "failed to update metadata of dataset <%s>", d.ID())
	}

	d.MapCount = len(maps)
	d.Extent = extent
	d.Spatial = spatial
	d.Granularity = gran
	d.MapTime = mapTime

	r.log.Debugw("updated dataset metadata from registered maps",
		"dataset", d.ID(), "maps", len(maps), "map_time", mapTime)
	return nil
}

func uuidHex() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}
