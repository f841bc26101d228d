package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"pointserv/internal/octree"
)

// Identifiers cannot travel as bound parameters, so table and column
// names are whitelisted before they are ever spliced into query text.
// Every value goes through a placeholder.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PgStore runs the pgPointcloud spatial queries for one dataset and
// implements octree.Store.
type PgStore struct {
	db     *gorm.DB
	table  string
	column string
	srid   int
	schema *Schema
}

// NewPgStore validates the dataset identifiers and binds the store to
// one patch table/column pair.
func NewPgStore(db *gorm.DB, table, column string, srid int, schema *Schema) (*PgStore, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table identifier %q", table)
	}
	if !identifierPattern.MatchString(column) {
		return nil, fmt.Errorf("invalid column identifier %q", column)
	}
	return &PgStore{db: db, table: table, column: column, srid: srid, schema: schema}, nil
}

// patchSource selects the patches whose bounding diagonal intersects
// the diagonal of the query box, the pgPointcloud idiom for a cheap
// spatial prefilter on the patch index.
func (s *PgStore) patchSource() string {
	return fmt.Sprintf(`select %s as pa from %s
where pc_boundingdiagonalgeometry(%s) &&&
    st_setsrid(st_makeline(st_makepoint(?, ?, ?), st_makepoint(?, ?, ?)), ?)`,
		s.column, s.table, s.column)
}

func (s *PgStore) diagonalArgs(box octree.BoundingBox) []interface{} {
	return []interface{}{box.Xmin, box.Ymin, box.Zmin, box.Xmax, box.Ymax, box.Zmax, s.srid}
}

// CountPoints sums, over every patch intersecting box, the points of
// the [start, start+count) range that fall inside the box.
func (s *PgStore) CountPoints(ctx context.Context, box octree.BoundingBox, start, count int64) (int64, error) {
	query := fmt.Sprintf(`
select sum(pc_numpoints(pts)) from (
    select
        pc_filterbetween(
                pc_filterbetween(
                    pc_filterbetween(
                        pc_range(pa, ?, ?)
                        , 'z', ?, ?
                    ), 'y', ?, ?
                ), 'x', ?, ?
        ) as pts
    from (%s) _
) _`, s.patchSource())

	args := append(
		[]interface{}{start, count, box.Zmin, box.Zmax, box.Ymin, box.Ymax, box.Xmin, box.Xmax},
		s.diagonalArgs(box)...,
	)

	var total sql.NullInt64
	if err := s.db.WithContext(ctx).Raw(query, args...).Row().Scan(&total); err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Int64, nil
}

// FetchPoints unions the [start, start+count) range of every patch
// intersecting box and decodes the result.
func (s *PgStore) FetchPoints(ctx context.Context, box octree.BoundingBox, start, count int64) ([]octree.PointRecord, error) {
	query := fmt.Sprintf(`
select pc_union(pts) from (
    select pc_range(pa, ?, ?) as pts
    from (%s) _
) _`, s.patchSource())

	args := append([]interface{}{start, count}, s.diagonalArgs(box)...)

	var patch sql.NullString
	if err := s.db.WithContext(ctx).Raw(query, args...).Row().Scan(&patch); err != nil {
		return nil, fmt.Errorf("fetch patch union: %w", err)
	}
	if !patch.Valid || patch.String == "" {
		return nil, octree.ErrNoPoints
	}

	blob, err := hex.DecodeString(strings.TrimPrefix(patch.String, `\x`))
	if err != nil {
		return nil, fmt.Errorf("decode patch hex: %w", err)
	}
	points, err := DecodePatch(blob, s.schema)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, octree.ErrNoPoints
	}
	return points, nil
}

// LoadSchema fetches and parses the pointcloud_formats entry for pcid.
func LoadSchema(ctx context.Context, db *gorm.DB, pcid int) (*Schema, error) {
	var doc sql.NullString
	if err := db.WithContext(ctx).Raw(
		`select schema from pointcloud_formats where pcid = ?`, pcid,
	).Row().Scan(&doc); err != nil {
		return nil, fmt.Errorf("load point schema %d: %w", pcid, err)
	}
	if !doc.Valid {
		return nil, fmt.Errorf("no point schema registered for pcid %d", pcid)
	}
	return ParseSchema(doc.String)
}
