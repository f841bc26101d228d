package model

import "time"

// Dataset is one published point-cloud table in the catalog. A row
// mirrors the metadata pgPointcloud keeps about the patch column plus
// the precomputed extent of the whole cloud; UpdatedAt doubles as the
// cache-validation timestamp echoed to clients.
type Dataset struct {
	ID uint `gorm:"primaryKey"`

	SourceTable  string `gorm:"size:255;not null;uniqueIndex:idx_dataset_source"`
	SourceColumn string `gorm:"size:255;not null;uniqueIndex:idx_dataset_source"`

	Srid              int   `gorm:"not null"`
	Pcid              int   `gorm:"not null"`
	NbPoints          int64 `gorm:"not null"`
	PatchSize         int64 `gorm:"not null"`
	MaxPointsPerPatch int64

	Xmin float64 `gorm:"not null"`
	Ymin float64 `gorm:"not null"`
	Zmin float64 `gorm:"not null"`
	Xmax float64 `gorm:"not null"`
	Ymax float64 `gorm:"not null"`
	Zmax float64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the catalog table name.
func (Dataset) TableName() string {
	return "pointcloud_datasets"
}
