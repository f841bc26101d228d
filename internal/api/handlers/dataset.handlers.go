package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pointserv/internal/octree"
	"pointserv/internal/service/dataset"
)

// DatasetAPI is the surface the streaming endpoints need; the concrete
// implementation is the dataset service singleton.
type DatasetAPI interface {
	Info(table, column string) (*dataset.Info, error)
	Hierarchy(ctx context.Context, table, column, address string) ([]byte, time.Time, error)
	Tile(ctx context.Context, table, column, address string, isleaf bool) ([]byte, time.Time, error)
}

// SetupDatasetHandlers registers the point-cloud streaming endpoints
func SetupDatasetHandlers(router *gin.RouterGroup, api DatasetAPI) {
	group := router.Group("/datasets/:table/:column")

	group.GET("/info", func(c *gin.Context) { getInfo(c, api) })
	group.GET("/hrc/:address", func(c *gin.Context) { getHierarchy(c, api) })
	group.GET("/tile/:address", func(c *gin.Context) { getTile(c, api) })
}

// getInfo handles the dataset metadata endpoint
func getInfo(c *gin.Context, api DatasetAPI) {
	info, err := api.Info(c.Param("table"), c.Param("column"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// getHierarchy handles the octree hierarchy endpoint
func getHierarchy(c *gin.Context, api DatasetAPI) {
	buf, lastModified, err := api.Hierarchy(
		c.Request.Context(), c.Param("table"), c.Param("column"), c.Param("address"),
	)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.Header("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, "application/octet-stream", buf)
}

// getTile handles the binary point tile endpoint
func getTile(c *gin.Context, api DatasetAPI) {
	isleaf, _ := strconv.ParseBool(c.Query("isleaf"))

	buf, lastModified, err := api.Tile(
		c.Request.Context(), c.Param("table"), c.Param("column"), c.Param("address"), isleaf,
	)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.Header("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, "application/octet-stream", buf)
}

func abortWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, octree.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, octree.ErrNoPoints), errors.Is(err, dataset.ErrUnknownDataset):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	default:
		log.Printf("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "internal error",
		})
	}
}
