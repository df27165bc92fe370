package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"backend/internal/models"
	"backend/internal/store"
	"backend/internal/users"
)

// GetUser backs the account screen's initial load. The three outcomes are
// kept distinct: invalid identifier (no remote call made), document absent,
// and remote failure.
func GetUser(fetcher *users.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := fetcher.Get(ctx, c.Param("id"))
		if errors.Is(err, store.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		if errors.Is(err, store.ErrNoSuchUser) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such user"})
			return
		}
		if err != nil {
			log.Println("[ACCOUNT] [ERROR] fetch user failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// UpdateUserDetails commits the account form. The form submits its entire
// local copy, so the payload carries every editable field and all of them are
// written back at once. It never creates a document.
func UpdateUserDetails(userStore store.UserStore, fetcher *users.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields models.UserFields
		if err := c.ShouldBindJSON(&fields); err != nil {
			var verr validator.ValidationErrors
			if errors.As(err, &verr) && len(verr) > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": verr[0].Field() + " is required"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		id := c.Param("id")
		err := userStore.UpdateUser(ctx, id, fields)
		if errors.Is(err, store.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		if errors.Is(err, store.ErrNoSuchUser) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			log.Println("[ACCOUNT] [ERROR] update user failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		fetcher.Invalidate(id)

		log.Println("[ACCOUNT] [INFO] user details updated:", id)
		c.JSON(http.StatusOK, gin.H{"message": "user details updated"})
	}
}
