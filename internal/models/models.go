package models

// User roles. Admin rights are an explicit attribute of the account,
// assigned at registration (see config.AdminEmails) or later through
// Store.SetUserRole.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents a registered account. Fields map to columns of the
// 'users' table. The password hash is never serialized.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Department   string `json:"department"`
	Role         string `json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName is the name shown next to comments and votes.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Photo is a shared photo. The author is fixed at creation and never
// changes. CreatedOn is a locale-formatted date string ("January 2, 2006")
// stamped by the create handler. VoteCount is recomputed on every read,
// not maintained as an index.
type Photo struct {
	ID        int64  `json:"id"`
	AuthorID  int64  `json:"author_id"`
	Title     string `json:"title"`
	Place     string `json:"place"`
	ImgURL    string `json:"img_url"`
	CreatedOn string `json:"created_on"`
	VoteCount int64  `json:"vote_count"`
}

// Comment belongs to exactly one photo and one author. Comments are
// create-only: no route edits or deletes them directly, but they are
// removed together with their parent photo.
type Comment struct {
	ID         int64  `json:"id"`
	PhotoID    int64  `json:"photo_id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	Text       string `json:"text"`
}

// Voter is one cast vote resolved to the voting user's display name.
// The same user appears once per vote cast: repeat votes are allowed
// and each one counts.
type Voter struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}
