package dataset

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Info is the JSON metadata a viewer needs to bootstrap a dataset.
type Info struct {
	Table       string           `json:"table"`
	Column      string           `json:"column"`
	Srid        int              `json:"srid"`
	NbPoints    int64            `json:"nbpoints"`
	PatchSize   int64            `json:"patch_size"`
	BoundingBox [6]float64       `json:"bbox"`
	Footprint   *geojson.Feature `json:"footprint"`
}

// Info assembles the metadata response for one dataset, including its
// 2D footprint as a GeoJSON feature.
func (s *DatasetService) Info(table, column string) (*Info, error) {
	meta, err := s.GetDataset(table, column)
	if err != nil {
		return nil, err
	}

	ring := orb.Ring{
		{meta.Xmin, meta.Ymin},
		{meta.Xmax, meta.Ymin},
		{meta.Xmax, meta.Ymax},
		{meta.Xmin, meta.Ymax},
		{meta.Xmin, meta.Ymin},
	}
	footprint := geojson.NewFeature(orb.Polygon{ring})
	footprint.Properties["srid"] = meta.Srid

	return &Info{
		Table:       table,
		Column:      column,
		Srid:        meta.Srid,
		NbPoints:    meta.NbPoints,
		PatchSize:   meta.PatchSize,
		BoundingBox: [6]float64{meta.Xmin, meta.Ymin, meta.Zmin, meta.Xmax, meta.Ymax, meta.Zmax},
		Footprint:   footprint,
	}, nil
}
