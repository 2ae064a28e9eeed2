package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "search-client",
		"time":    time.Now().Unix(),
	})
}

// Ready сообщает готовность: без имени индекса любой вызов движка завершится ошибкой конфигурации.
func Ready(index string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if index == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "error": "ES_INDEX is empty"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ready": true, "index": index})
	}
}
