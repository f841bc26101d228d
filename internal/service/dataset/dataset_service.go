package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pointserv/internal/config"
	"pointserv/internal/model"
	"pointserv/internal/octree"
	"pointserv/internal/postgres"
	"pointserv/internal/redis"
	"pointserv/internal/service/storage"
	"pointserv/internal/store"
)

// ErrUnknownDataset marks a table/column pair absent from the catalog.
var ErrUnknownDataset = errors.New("unknown dataset")

// Meta bundles everything a request needs about one dataset: the
// catalog row, the parsed point schema and the store bound to the
// patch table.
type Meta struct {
	model.Dataset
	Schema *store.Schema
	Store  octree.Store
}

// Bounds returns the dataset's root bounding box.
func (m *Meta) Bounds() octree.BoundingBox {
	return octree.BoundingBox{
		Xmin: m.Xmin, Ymin: m.Ymin, Zmin: m.Zmin,
		Xmax: m.Xmax, Ymax: m.Ymax, Zmax: m.Zmax,
	}
}

type DatasetService struct {
	cache *storage.MemoryStorage[string, *Meta]
}

var (
	datasetServiceInstance *DatasetService
	datasetServiceOnce     sync.Once
)

// GetDatasetService returns the singleton instance of DatasetService.
func GetDatasetService() *DatasetService {
	datasetServiceOnce.Do(func() {
		datasetServiceInstance = &DatasetService{
			cache: storage.NewMemoryStorage[string, *Meta](),
		}
	})
	return datasetServiceInstance
}

// InitService loads the dataset catalog into memory
func (s *DatasetService) InitService(ctx context.Context) error {
	return s.RefreshCatalog(ctx)
}

// RefreshCatalog reloads every catalog row and its point schema from
// PostgreSQL into the in-memory cache.
func (s *DatasetService) RefreshCatalog(ctx context.Context) error {
	db := postgres.GetDB()

	var rows []model.Dataset
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return fmt.Errorf("load dataset catalog: %w", err)
	}

	for _, ds := range rows {
		schema, err := store.LoadSchema(ctx, db, ds.Pcid)
		if err != nil {
			return err
		}
		pg, err := store.NewPgStore(db, ds.SourceTable, ds.SourceColumn, ds.Srid, schema)
		if err != nil {
			return err
		}
		s.cache.Set(metaKey(ds.SourceTable, ds.SourceColumn), &Meta{
			Dataset: ds,
			Schema:  schema,
			Store:   pg,
		})
	}

	log.Printf("Dataset catalog loaded: %d datasets", len(rows))
	return nil
}

// GetDataset returns the cached metadata of one dataset.
func (s *DatasetService) GetDataset(table, column string) (*Meta, error) {
	meta, ok := s.cache.Get(metaKey(table, column))
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownDataset, table, column)
	}
	return meta, nil
}

// DatasetCount returns how many datasets the catalog currently holds.
func (s *DatasetService) DatasetCount() int {
	return s.cache.Count()
}

// Hierarchy builds (or serves from Redis) the binary hierarchy buffer
// for one node of a dataset's octree.
func (s *DatasetService) Hierarchy(ctx context.Context, table, column, encoded string) ([]byte, time.Time, error) {
	meta, err := s.GetDataset(table, column)
	if err != nil {
		return nil, time.Time{}, err
	}
	addr, err := octree.ParseAddress(encoded)
	if err != nil {
		return nil, time.Time{}, err
	}

	lastModified := meta.UpdatedAt

	// The cache key carries the catalog timestamp, so a reloaded
	// dataset never serves stale hierarchies
	cacheKey := fmt.Sprintf("hrc:%s:%s:%s:%d", table, column, addr, lastModified.Unix())
	if cached, err := redis.Get(cacheKey); err == nil {
		return []byte(cached), lastModified, nil
	}

	builder := &octree.HierarchyBuilder{
		Store:      meta.Store,
		Thresholds: octree.ComputeThresholds(meta.NbPoints, meta.PatchSize),
		PatchSize:  meta.PatchSize,
	}
	box := octree.DecodeAddress(meta.Bounds(), addr)

	buf, err := builder.Build(ctx, box, addr.Depth())
	if err != nil {
		return nil, time.Time{}, err
	}

	if err := redis.Set(cacheKey, string(buf), config.HierarchyCacheTTL); err != nil {
		log.Printf("Hierarchy cache write failed: %v", err)
	}
	return buf, lastModified, nil
}

// Tile builds the binary point tile for one node of a dataset's
// octree.
func (s *DatasetService) Tile(ctx context.Context, table, column, encoded string, isleaf bool) ([]byte, time.Time, error) {
	meta, err := s.GetDataset(table, column)
	if err != nil {
		return nil, time.Time{}, err
	}
	addr, err := octree.ParseAddress(encoded)
	if err != nil {
		return nil, time.Time{}, err
	}

	assembler := &octree.TileAssembler{
		Store:      meta.Store,
		Thresholds: octree.ComputeThresholds(meta.NbPoints, meta.PatchSize),
		PatchSize:  meta.PatchSize,
		Schema: octree.PatchSchema{
			HasColor:          meta.Schema.HasDimension("Red"),
			HasClassification: meta.Schema.HasDimension("Classification"),
		},
		ScaleOffset: octree.ScaleOffset{
			Scale:  meta.Schema.Scales,
			Offset: meta.Schema.Offsets,
		},
	}
	box := octree.DecodeAddress(meta.Bounds(), addr)

	buf, err := assembler.Build(ctx, box, addr.Depth(), isleaf)
	if err != nil {
		return nil, time.Time{}, err
	}
	return buf, meta.UpdatedAt, nil
}

func metaKey(table, column string) string {
	return table + ":" + column
}
