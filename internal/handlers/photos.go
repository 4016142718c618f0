package handlers

import (
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"photovote/internal/middleware"
	"photovote/internal/store"
)

// createdOnFormat is the locale-formatted date stamped on new photos,
// e.g. "August 28, 2026".
const createdOnFormat = "January 2, 2006"

type photoForm struct {
	Title  string `form:"title" json:"title" binding:"required"`
	Place  string `form:"place" json:"place" binding:"required"`
	ImgURL string `form:"img_url" json:"img_url" binding:"required,url"`
}

type commentForm struct {
	Text string `form:"text" json:"text" binding:"required"`
}

// ListPhotos answers GET /. Photos come back ranked by vote count
// descending, ties by id ascending; the ranking is recomputed on every
// request.
func (h *Handler) ListPhotos(c *gin.Context) {
	photos, err := h.store.ListPhotosByVotes()
	if err != nil {
		slog.Error("photo listing failed", "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// ShowPhoto answers GET /photo?photo_id=. The voters list is freshly
// shuffled on every read; the shuffle is presentation only and never
// affects the score.
func (h *Handler) ShowPhoto(c *gin.Context) {
	id, ok := photoIDQuery(c)
	if !ok {
		return
	}

	photo, err := h.store.PhotoByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "photo not found")
			return
		}
		slog.Error("photo lookup failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	comments, err := h.store.CommentsByPhoto(id)
	if err != nil {
		slog.Error("comment listing failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	voters, err := h.store.VotersByPhoto(id)
	if err != nil {
		slog.Error("voter listing failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	rand.Shuffle(len(voters), func(i, j int) {
		voters[i], voters[j] = voters[j], voters[i]
	})

	c.JSON(http.StatusOK, gin.H{
		"photo":    photo,
		"comments": comments,
		"voters":   voters,
	})
}

// AddComment answers POST /photo?photo_id=. Comments require an
// authenticated author and are create-only.
func (h *Handler) AddComment(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		errorJSON(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := photoIDQuery(c)
	if !ok {
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		errorJSON(c, http.StatusBadRequest, "comment text is required")
		return
	}

	comment, err := h.store.CreateComment(id, user.ID, form.Text)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "photo not found")
			return
		}
		slog.Error("comment creation failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	comment.AuthorName = user.DisplayName()

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ShowNewPhotoPage answers GET /new-photo after the configurable
// creation guard.
func (h *Handler) ShowNewPhotoPage(c *gin.Context) {
	if err := h.photoCreationGuard(middleware.UserFromContext(c)); err != nil {
		guardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":   "new-photo",
		"fields": []string{"title", "place", "img_url"},
	})
}

// HandleNewPhoto answers POST /new-photo: validate, stamp the creation
// date, persist with the current identity as owner.
func (h *Handler) HandleNewPhoto(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if err := h.photoCreationGuard(user); err != nil {
		guardError(c, err)
		return
	}

	var form photoForm
	if err := c.ShouldBind(&form); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid photo form: "+err.Error())
		return
	}

	photo, err := h.store.CreatePhoto(store.NewPhoto{
		AuthorID:  user.ID,
		Title:     form.Title,
		Place:     form.Place,
		ImgURL:    form.ImgURL,
		CreatedOn: time.Now().Format(createdOnFormat),
	})
	if err != nil {
		slog.Error("photo creation failed", "author_id", user.ID, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("photo created", "photo_id", photo.ID, "author_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}

// ShowEditPhotoPage answers GET /edit-photo?photo_id= with the current
// field values for prefill. The photo is fetched first so a missing id
// is a 404 before any permission decision.
func (h *Handler) ShowEditPhotoPage(c *gin.Context) {
	id, ok := photoIDQuery(c)
	if !ok {
		return
	}

	photo, err := h.store.PhotoByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "photo not found")
			return
		}
		slog.Error("photo lookup failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	if err := authorOrAdmin(c, photo.AuthorID); err != nil {
		guardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo": photo})
}

// HandleEditPhoto answers POST /edit-photo?photo_id=. Only the fields
// present in the submission are overwritten; absent fields keep their
// stored values.
func (h *Handler) HandleEditPhoto(c *gin.Context) {
	id, ok := photoIDQuery(c)
	if !ok {
		return
	}

	photo, err := h.store.PhotoByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "photo not found")
			return
		}
		slog.Error("photo lookup failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	if err := authorOrAdmin(c, photo.AuthorID); err != nil {
		guardError(c, err)
		return
	}

	upd, ok := photoUpdateFromForm(c)
	if !ok {
		return
	}

	if err := h.store.UpdatePhoto(id, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "photo not found")
			return
		}
		slog.Error("photo update failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	updated, err := h.store.PhotoByID(id)
	if err != nil {
		slog.Error("photo reload failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": updated})
}

// HandleDeletePhoto answers GET,POST /delete_photo?photo_id=. The
// delete cascades over the photo's comments and votes.
func (h *Handler) HandleDeletePhoto(c *gin.Context) {
	id, ok := photoIDQuery(c)
	if !ok {
		return
	}

	photo, err := h.store.PhotoByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "photo not found")
			return
		}
		slog.Error("photo lookup failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	if err := authorOrAdmin(c, photo.AuthorID); err != nil {
		guardError(c, err)
		return
	}

	if err := h.store.DeletePhoto(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "photo not found")
			return
		}
		slog.Error("photo delete failed", "photo_id", id, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("photo deleted", "photo_id", id)
	c.Redirect(http.StatusFound, "/")
}

// photoUpdateFromForm builds a partial update from the submitted form
// fields. A present-but-empty field is a validation error; required
// fields cannot be blanked. Writes the 400 itself and returns false on
// bad input.
func photoUpdateFromForm(c *gin.Context) (store.PhotoUpdate, bool) {
	var upd store.PhotoUpdate

	if title, ok := c.GetPostForm("title"); ok {
		if title == "" {
			errorJSON(c, http.StatusBadRequest, "title cannot be empty")
			return upd, false
		}
		upd.Title = &title
	}
	if place, ok := c.GetPostForm("place"); ok {
		if place == "" {
			errorJSON(c, http.StatusBadRequest, "place cannot be empty")
			return upd, false
		}
		upd.Place = &place
	}
	if imgURL, ok := c.GetPostForm("img_url"); ok {
		if u, err := url.ParseRequestURI(imgURL); err != nil || u.Host == "" {
			errorJSON(c, http.StatusBadRequest, "img_url must be a valid URL")
			return upd, false
		}
		upd.ImgURL = &imgURL
	}
	return upd, true
}
