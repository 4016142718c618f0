// Package testutil provides fixtures and HTTP helpers shared by the
// package tests. Every test gets its own store backed by a throwaway
// SQLite file and its own router instance.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"photovote/internal/auth"
	"photovote/internal/config"
	"photovote/internal/models"
	"photovote/internal/router"
	"photovote/internal/store"
)

// TestPassword is the password every fixture user is created with.
const TestPassword = "correct-horse-battery"

// NewStore opens an isolated store in a per-test temp directory.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestConfig returns a standard test configuration.
func TestConfig() config.Config {
	return config.Config{
		ListenAddr:    ":0",
		DatabaseURL:   "unused",
		SessionSecret: "test-session-secret",
		AdminEmails:   []string{"admin@example.com"},
	}
}

// NewRouter builds a full engine over the given store.
func NewRouter(t *testing.T, st *store.Store, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return router.New(st, cfg)
}

// CreateUser inserts a user with TestPassword and the given role.
func CreateUser(t *testing.T, st *store.Store, email, role string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	name := strings.SplitN(email, "@", 2)[0]
	user, err := st.CreateUser(store.NewUser{
		Email:        email,
		PasswordHash: hash,
		FirstName:    name,
		LastName:     "Tester",
		Department:   "QA",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

// CreatePhoto inserts a photo owned by authorID.
func CreatePhoto(t *testing.T, st *store.Store, authorID int64, title string) *models.Photo {
	t.Helper()
	photo, err := st.CreatePhoto(store.NewPhoto{
		AuthorID:  authorID,
		Title:     title,
		Place:     "Lisbon",
		ImgURL:    "https://photos.example.com/" + url.PathEscape(title) + ".jpg",
		CreatedOn: "August 28, 2026",
	})
	if err != nil {
		t.Fatalf("failed to create test photo %q: %v", title, err)
	}
	return photo
}

// CastVotes casts n votes on a photo by the same user.
func CastVotes(t *testing.T, st *store.Store, photoID, userID int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := st.CastVote(photoID, userID); err != nil {
			t.Fatalf("failed to cast test vote: %v", err)
		}
	}
}

// Get performs a GET against the engine with optional session cookies.
func Get(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// PostForm performs a form-encoded POST with optional session cookies.
func PostForm(r http.Handler, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Login authenticates with TestPassword and returns the session cookies
// for subsequent requests.
func Login(t *testing.T, r http.Handler, email string) []*http.Cookie {
	t.Helper()
	w := PostForm(r, "/login", url.Values{
		"email":    {email},
		"password": {TestPassword},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("login for %s failed: status %d, body %s", email, w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("login for %s set no session cookie", email)
	}
	return cookies
}

// AssertStatus checks the response status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// DecodeJSON decodes the response body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON response: %v. Body: %s", err, w.Body.String())
	}
}
