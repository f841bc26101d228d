package api

import (
	routes "pointserv/internal/api/handlers"
	"pointserv/internal/service/dataset"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine) {
	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""))

	// Setup dataset streaming handlers
	routes.SetupDatasetHandlers(r.Group(""), dataset.GetDatasetService())
}
