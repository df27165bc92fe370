package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SignInService exchanges dashboard credentials for a bearer token. The
// identity service issues the token; this API only validates it afterwards.
type SignInService interface {
	SignIn(ctx context.Context, email, password string) (string, error)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(idsvc SignInService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		token, err := idsvc.SignIn(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
		if err != nil {
			log.Println("[AUTH] [ERROR] sign-in failed:", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
