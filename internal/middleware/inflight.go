package middleware

import (
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// SubmitGuard tracks form submissions that are still running so a second
// submit of the same form cannot start overlapping remote work.
type SubmitGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{active: make(map[string]struct{})}
}

func (g *SubmitGuard) begin(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

func (g *SubmitGuard) end(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}

// OneInFlight rejects a submission while an identical one is still running.
// The key combines the route scope with the client's form token (or address
// when the dashboard sends none), so distinct forms never block each other.
func OneInFlight(guard *SubmitGuard, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := strings.TrimSpace(c.GetHeader("X-Form-Token"))
		if client == "" {
			client = c.ClientIP()
		}
		key := scope + "|" + client

		if !guard.begin(key) {
			log.Println("[SUBMIT] [WARN] duplicate submission rejected:", key)
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "submission already in progress"})
			return
		}
		defer guard.end(key)

		c.Next()
	}
}
