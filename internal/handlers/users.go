package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"backend/internal/identity"
)

// IdentityService is the account-creation surface of the external identity
// service. Persistence and credential handling are entirely its concern.
type IdentityService interface {
	CreateAccount(ctx context.Context, account identity.NewAccount) error
}

type createUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// CreateUser collects the new-account fields and delegates creation. It never
// touches the document store for this entity.
func CreateUser(idsvc IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		role := strings.TrimSpace(req.Role)
		if role == "" {
			role = "user"
		}
		if !validRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		err := idsvc.CreateAccount(ctx, identity.NewAccount{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Role:      role,
		})
		if err != nil {
			log.Println("[USERS] [ERROR] create account failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		log.Println("[USERS] [INFO] user created:", req.Email)
		c.JSON(http.StatusCreated, gin.H{"message": "user created"})
	}
}
