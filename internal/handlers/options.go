package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Option is a fixed select entry rendered by the dashboard forms.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var states = []Option{
	{Value: "alabama", Label: "Alabama"},
	{Value: "new-york", Label: "New York"},
	{Value: "san-francisco", Label: "San Francisco"},
	{Value: "los-angeles", Label: "Los Angeles"},
}

var locations = []string{"Location 1", "Location 2", "Location 3"}

var roles = []string{"user", "admin"}

func validLocation(value string) bool {
	for _, l := range locations {
		if value == l {
			return true
		}
	}
	return false
}

func validRole(value string) bool {
	for _, r := range roles {
		if value == r {
			return true
		}
	}
	return false
}

// Options publishes the select enumerations so the dashboard renders them
// from one source of truth.
func Options() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"states":    states,
			"locations": locations,
			"roles":     roles,
		})
	}
}
