package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home is the link target the dashboard navigation points back to.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "dashboard-api",
			"status":  "ok",
		})
	}
}

func Healthz() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
