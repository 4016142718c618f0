// Package router assembles the gin engine: session store, middleware
// chain and the route table. Tests build isolated engines over
// throwaway stores.
package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"photovote/internal/config"
	"photovote/internal/handlers"
	"photovote/internal/middleware"
	"photovote/internal/store"
)

// SessionName is the name of the session cookie.
const SessionName = "photovote_session"

func New(st *store.Store, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions(SessionName, sessionStore))
	r.Use(middleware.CurrentUser(st))

	h := handlers.New(st, cfg)

	// Public routes. Ownership and creation-policy checks happen inside
	// the handlers: the resource is fetched first, then the guard runs.
	r.GET("/", h.ListPhotos)
	r.GET("/login", h.ShowLoginPage)
	r.POST("/login", h.HandleLogin)
	r.GET("/register", h.ShowRegisterPage)
	r.POST("/register", h.HandleRegister)
	r.GET("/logout", h.HandleLogout)
	r.GET("/photo", h.ShowPhoto)
	r.POST("/photo", h.AddComment)
	r.GET("/new-photo", h.ShowNewPhotoPage)
	r.POST("/new-photo", h.HandleNewPhoto)
	r.GET("/edit-photo", h.ShowEditPhotoPage)
	r.POST("/edit-photo", h.HandleEditPhoto)
	r.GET("/delete_photo", h.HandleDeletePhoto)
	r.POST("/delete_photo", h.HandleDeletePhoto)

	// Voting needs a logged-in identity; browsers are bounced to /login.
	protected := r.Group("/")
	protected.Use(middleware.AuthRequired())
	{
		protected.GET("/vote", h.HandleVote)
	}

	return r
}
