package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"photovote/internal/auth"
	"photovote/internal/middleware"
	"photovote/internal/models"
	"photovote/internal/store"
)

type registerForm struct {
	FirstName  string `form:"first_name" json:"first_name" binding:"required"`
	LastName   string `form:"last_name" json:"last_name" binding:"required"`
	Department string `form:"department" json:"department" binding:"required"`
	Email      string `form:"email" json:"email" binding:"required,email"`
	Password   string `form:"password" json:"password" binding:"required,min=8"`
}

type loginForm struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// ShowRegisterPage answers GET /register. The form itself is rendered
// client-side; this endpoint only names the fields.
func (h *Handler) ShowRegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":   "register",
		"fields": []string{"first_name", "last_name", "department", "email", "password"},
	})
}

// HandleRegister creates an account and logs it in. A duplicate email
// answers 409 and points the client at /login.
func (h *Handler) HandleRegister(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid registration form: "+err.Error())
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	role := models.RoleMember
	if h.cfg.IsAdminEmail(form.Email) {
		role = models.RoleAdmin
	}

	user, err := h.store.CreateUser(store.NewUser{
		Email:        form.Email,
		PasswordHash: hash,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Department:   form.Department,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"error":    "user already exists",
				"redirect": "/login",
			})
			return
		}
		slog.Error("user creation failed", "email", form.Email, "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.establishSession(c, user); err != nil {
		return
	}
	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	c.Redirect(http.StatusFound, "/")
}

// ShowLoginPage answers GET /login.
func (h *Handler) ShowLoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":   "login",
		"fields": []string{"email", "password"},
	})
}

// HandleLogin authenticates an email/password pair and establishes the
// session. Unknown email and wrong password answer distinct messages.
func (h *Handler) HandleLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid login form: "+err.Error())
		return
	}

	user, err := h.store.UserByEmail(form.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Info("login attempt for unknown email", "ip", c.ClientIP())
			errorJSON(c, http.StatusUnauthorized, "user does not exist")
			return
		}
		slog.Error("user lookup failed", "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	if !auth.CheckPasswordHash(form.Password, user.PasswordHash) {
		slog.Info("failed login", "user_id", user.ID, "ip", c.ClientIP())
		errorJSON(c, http.StatusUnauthorized, "invalid password")
		return
	}

	if err := h.establishSession(c, user); err != nil {
		return
	}
	slog.Info("user logged in", "user_id", user.ID)
	c.Redirect(http.StatusFound, "/")
}

// HandleLogout clears the session and sends the browser home.
func (h *Handler) HandleLogout(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get(middleware.SessionUserKey)

	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		slog.Error("failed to clear session on logout", "user_id", userID, "error", err)
	} else if userID != nil {
		slog.Info("user logged out", "user_id", userID)
	}
	c.Redirect(http.StatusFound, "/")
}

// establishSession stores the user id in the session cookie. On failure
// it writes the error response itself and returns a non-nil error.
func (h *Handler) establishSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		slog.Error("session save failed", "user_id", user.ID, "error", err)
		errorJSON(c, http.StatusInternalServerError, "could not establish session")
		return err
	}
	return nil
}
