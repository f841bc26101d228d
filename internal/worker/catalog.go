package worker

import (
	"context"
	"log"
	"time"

	"pointserv/internal/config"
	"pointserv/internal/service/dataset"
)

// StartCatalogWorker starts the worker that keeps the in-memory
// dataset catalog in sync with the database
func StartCatalogWorker() {
	datasetService := dataset.GetDatasetService()

	ticker := time.NewTicker(config.CatalogRefreshInterval)
	go func() {
		for range ticker.C {
			if err := datasetService.RefreshCatalog(context.Background()); err != nil {
				log.Printf("Catalog refresh failed: %v", err)
			}
		}
	}()

	log.Println("Catalog worker started with interval:", config.CatalogRefreshInterval)
}
