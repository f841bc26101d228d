package routes

import (
	"github.com/gin-gonic/gin"

	"pointserv/internal/service/dataset"
)

// SetupMainHandlers registers the main application endpoints
func SetupMainHandlers(router *gin.RouterGroup) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":     "pointserv",
			"datasets": dataset.GetDatasetService().DatasetCount(),
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}
