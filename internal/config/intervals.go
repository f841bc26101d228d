package config

import "time"

// Worker intervals and cache lifetimes
const (
	// CatalogRefreshInterval defines how often the catalog worker reloads dataset metadata
	CatalogRefreshInterval = 5 * time.Minute

	// HierarchyCacheTTL defines how long computed hierarchy buffers stay in Redis
	HierarchyCacheTTL = 1 * time.Hour
)
