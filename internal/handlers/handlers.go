// Package handlers maps each user-facing route to store and policy
// calls. Handlers are thin: validate the form, run the guard, touch a
// handful of rows, respond. Rendering is JSON bodies plus redirects.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photovote/internal/config"
	"photovote/internal/middleware"
	"photovote/internal/models"
	"photovote/internal/policy"
	"photovote/internal/store"
)

type Handler struct {
	store *store.Store
	cfg   config.Config
}

func New(st *store.Store, cfg config.Config) *Handler {
	return &Handler{store: st, cfg: cfg}
}

// errorJSON writes a uniform error body.
func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// photoIDQuery parses the photo_id query parameter. Writes a 400
// response and returns false when it is missing or malformed.
func photoIDQuery(c *gin.Context) (int64, bool) {
	raw := c.Query("photo_id")
	if raw == "" {
		errorJSON(c, http.StatusBadRequest, "photo_id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "photo_id must be an integer")
		return 0, false
	}
	return id, true
}

// guardError maps policy failures to responses. The guard runs before
// any mutation, so a denial leaves all rows untouched.
func guardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, policy.ErrUnauthenticated):
		errorJSON(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, policy.ErrForbidden):
		errorJSON(c, http.StatusForbidden, "forbidden")
	default:
		errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}

// authorOrAdmin runs the author-or-admin guard for the current request
// identity against the resource owner.
func authorOrAdmin(c *gin.Context, ownerID int64) error {
	return policy.AuthorOrAdmin(middleware.UserFromContext(c), ownerID)
}

// photoCreationGuard is the configurable gate on /new-photo. The
// default admits any authenticated user; ADMIN_ONLY_PHOTOS narrows it
// to admins.
func (h *Handler) photoCreationGuard(u *models.User) error {
	if h.cfg.AdminOnlyPhotos {
		return policy.AdminOnly(u)
	}
	if u == nil {
		return policy.ErrUnauthenticated
	}
	return nil
}
