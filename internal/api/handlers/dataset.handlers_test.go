package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pointserv/internal/octree"
	"pointserv/internal/service/dataset"
)

var fakeModified = time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)

type fakeAPI struct {
	lastIsleaf bool
}

func (f *fakeAPI) Info(table, column string) (*dataset.Info, error) {
	if table != "lidar" {
		return nil, dataset.ErrUnknownDataset
	}
	return &dataset.Info{Table: table, Column: column, Srid: 4326}, nil
}

func (f *fakeAPI) Hierarchy(_ context.Context, table, _, address string) ([]byte, time.Time, error) {
	if table != "lidar" {
		return nil, time.Time{}, dataset.ErrUnknownDataset
	}
	switch address {
	case "r9":
		return nil, time.Time{}, octree.ErrInvalidAddress
	case "r7":
		return nil, time.Time{}, octree.ErrNoPoints
	}
	return []byte{0x81, 1, 0, 0, 0}, fakeModified, nil
}

func (f *fakeAPI) Tile(_ context.Context, table, _, address string, isleaf bool) ([]byte, time.Time, error) {
	f.lastIsleaf = isleaf
	if table != "lidar" {
		return nil, time.Time{}, dataset.ErrUnknownDataset
	}
	if address == "r7" {
		return nil, time.Time{}, octree.ErrNoPoints
	}
	return make([]byte, 40), fakeModified, nil
}

func newTestRouter(api DatasetAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupDatasetHandlers(r.Group(""), api)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHierarchyEndpoint(t *testing.T) {
	r := newTestRouter(&fakeAPI{})

	w := get(r, "/datasets/lidar/pa/hrc/r0")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("content type = %q", ct)
	}
	if lm := w.Header().Get("Last-Modified"); lm != fakeModified.Format(http.TimeFormat) {
		t.Errorf("Last-Modified = %q, want %q", lm, fakeModified.Format(http.TimeFormat))
	}
	if w.Body.Len() != 5 {
		t.Errorf("body length = %d, want 5", w.Body.Len())
	}
}

func TestHierarchyEndpointErrors(t *testing.T) {
	r := newTestRouter(&fakeAPI{})

	if w := get(r, "/datasets/lidar/pa/hrc/r9"); w.Code != http.StatusBadRequest {
		t.Errorf("invalid address status = %d, want 400", w.Code)
	}
	if w := get(r, "/datasets/lidar/pa/hrc/r7"); w.Code != http.StatusNotFound {
		t.Errorf("no points status = %d, want 404", w.Code)
	}
	if w := get(r, "/datasets/unknown/pa/hrc/r0"); w.Code != http.StatusNotFound {
		t.Errorf("unknown dataset status = %d, want 404", w.Code)
	}
}

func TestTileEndpoint(t *testing.T) {
	api := &fakeAPI{}
	r := newTestRouter(api)

	w := get(r, "/datasets/lidar/pa/tile/r02")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if api.lastIsleaf {
		t.Error("isleaf should default to false")
	}

	get(r, "/datasets/lidar/pa/tile/r02?isleaf=1")
	if !api.lastIsleaf {
		t.Error("isleaf=1 not parsed")
	}

	get(r, "/datasets/lidar/pa/tile/r02?isleaf=true")
	if !api.lastIsleaf {
		t.Error("isleaf=true not parsed")
	}

	if w := get(r, "/datasets/lidar/pa/tile/r7"); w.Code != http.StatusNotFound {
		t.Errorf("no points status = %d, want 404", w.Code)
	}
}

func TestInfoEndpoint(t *testing.T) {
	r := newTestRouter(&fakeAPI{})

	w := get(r, "/datasets/lidar/pa/info")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w := get(r, "/datasets/unknown/pa/info"); w.Code != http.StatusNotFound {
		t.Errorf("unknown dataset status = %d, want 404", w.Code)
	}
}
