package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/search-client/internal/handler"
)

const (
	PathHealth = "/health"
	PathReady  = "/ready"
	PathAPI    = "/api/v1"
)

// New builds the gateway; index only feeds the readiness probe.
func New(searchHandler *handler.SearchHandler, index string) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(PathHealth, handler.Health)
	r.GET(PathReady, handler.Ready(index))

	api := r.Group(PathAPI)
	api.PUT("/index", searchHandler.CreateIndex)
	api.GET("/status", searchHandler.Status)
	api.GET("/search", searchHandler.SearchAll)
	api.POST("/suggest", searchHandler.Suggest)

	types := api.Group("/types/:type")
	types.GET("/count", searchHandler.Count)
	types.PUT("/mapping", searchHandler.SetMapping)
	types.GET("/search", searchHandler.Search)
	types.POST("/search", searchHandler.AdvancedSearch)
	types.GET("/docs/:id", searchHandler.GetDocument)
	types.PUT("/docs/:id", searchHandler.PutDocument)
	types.DELETE("/docs/:id", searchHandler.DeleteDocument)
	types.GET("/docs/:id/similar", searchHandler.Similar)
	types.POST("/docs/:id/similar", searchHandler.Similar)
	return r
}
