package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"photovote/internal/middleware"
	"photovote/internal/store"
)

// HandleVote answers GET /vote?photo_id=. The route sits behind
// AuthRequired, so an identity is always present here. Every request
// appends one more vote — there is no de-duplication, a user may vote
// on the same photo as often as they like and each vote raises the
// score by one.
func (h *Handler) HandleVote(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		errorJSON(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := photoIDQuery(c)
	if !ok {
		return
	}

	if err := h.store.CastVote(id, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "photo not found")
			return
		}
		slog.Error("vote failed", "photo_id", id, "user_id", user.ID, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("vote cast", "photo_id", id, "user_id", user.ID)
	c.Redirect(http.StatusFound, "/")
}
