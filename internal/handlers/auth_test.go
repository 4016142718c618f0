package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"photovote/internal/models"
	"photovote/internal/testutil"
)

func registerForm(email string) url.Values {
	return url.Values{
		"first_name": {"Grace"},
		"last_name":  {"Hopper"},
		"department": {"Research"},
		"email":      {email},
		"password":   {testutil.TestPassword},
	}
}

func TestRegisterAndLoginFlow(t *testing.T) {
	st := testutil.NewStore(t)
	r := testutil.NewRouter(t, st, testutil.TestConfig())

	// Registration logs the new account in and redirects home.
	w := testutil.PostForm(r, "/register", registerForm("grace@example.com"), nil)
	testutil.AssertStatus(t, w, http.StatusFound)
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("registration did not establish a session")
	}

	user, err := st.UserByEmail("grace@example.com")
	if err != nil {
		t.Fatalf("registered user not stored: %v", err)
	}
	if user.Role != models.RoleMember {
		t.Errorf("role = %q, want member", user.Role)
	}
	if user.PasswordHash == testutil.TestPassword {
		t.Error("password stored in plaintext")
	}

	// Fresh login with the same credentials.
	cookies := testutil.Login(t, r, "grace@example.com")
	if len(cookies) == 0 {
		t.Fatal("no session cookie after login")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	st := testutil.NewStore(t)
	r := testutil.NewRouter(t, st, testutil.TestConfig())

	w := testutil.PostForm(r, "/register", registerForm("grace@example.com"), nil)
	testutil.AssertStatus(t, w, http.StatusFound)

	w = testutil.PostForm(r, "/register", registerForm("grace@example.com"), nil)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp struct {
		Error    string `json:"error"`
		Redirect string `json:"redirect"`
	}
	testutil.DecodeJSON(t, w, &resp)
	if resp.Redirect != "/login" {
		t.Errorf("redirect hint = %q, want /login", resp.Redirect)
	}
}

func TestRegisterValidation(t *testing.T) {
	st := testutil.NewStore(t)
	r := testutil.NewRouter(t, st, testutil.TestConfig())

	tests := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"missing email", func(f url.Values) { f.Del("email") }},
		{"malformed email", func(f url.Values) { f.Set("email", "not-an-email") }},
		{"short password", func(f url.Values) { f.Set("password", "short") }},
		{"missing first name", func(f url.Values) { f.Del("first_name") }},
		{"missing department", func(f url.Values) { f.Del("department") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := registerForm("grace@example.com")
			tt.mutate(form)
			w := testutil.PostForm(r, "/register", form, nil)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestRegisterAdminEmailGetsAdminRole(t *testing.T) {
	st := testutil.NewStore(t)
	cfg := testutil.TestConfig() // admin@example.com is configured admin
	r := testutil.NewRouter(t, st, cfg)

	w := testutil.PostForm(r, "/register", registerForm("admin@example.com"), nil)
	testutil.AssertStatus(t, w, http.StatusFound)

	admin, err := st.UserByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("admin not stored: %v", err)
	}
	if !admin.IsAdmin() {
		t.Error("configured admin email did not receive the admin role")
	}
}

func TestLoginFailures(t *testing.T) {
	st := testutil.NewStore(t)
	r := testutil.NewRouter(t, st, testutil.TestConfig())
	testutil.CreateUser(t, st, "grace@example.com", models.RoleMember)

	// Unknown email and wrong password fail with distinct messages.
	w := testutil.PostForm(r, "/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {testutil.TestPassword},
	}, nil)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	var resp struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, w, &resp)
	if resp.Error != "user does not exist" {
		t.Errorf("unknown-email message = %q", resp.Error)
	}

	w = testutil.PostForm(r, "/login", url.Values{
		"email":    {"grace@example.com"},
		"password": {"wrong-password-entirely"},
	}, nil)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	testutil.DecodeJSON(t, w, &resp)
	if resp.Error != "invalid password" {
		t.Errorf("wrong-password message = %q", resp.Error)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	st := testutil.NewStore(t)
	r := testutil.NewRouter(t, st, testutil.TestConfig())
	testutil.CreateUser(t, st, "grace@example.com", models.RoleMember)

	cookies := testutil.Login(t, r, "grace@example.com")

	w := testutil.Get(r, "/logout", cookies)
	testutil.AssertStatus(t, w, http.StatusFound)

	// The cleared cookie no longer authenticates /vote.
	cleared := w.Result().Cookies()
	w = testutil.Get(r, "/vote?photo_id=1", cleared)
	testutil.AssertStatus(t, w, http.StatusFound)
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login after logout, got %q", loc)
	}
}
