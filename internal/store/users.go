package store

import (
	"database/sql"
	"fmt"

	"photovote/internal/models"
)

// NewUser carries the fields of a registration after validation and
// password hashing.
type NewUser struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Department   string
	Role         string
}

// CreateUser inserts a new user. The duplicate-email pre-check and the
// insert run in one transaction so concurrent registrations with the
// same email cannot both pass; the UNIQUE index is the backstop.
// Returns ErrEmailTaken when the email is already registered.
func (s *Store) CreateUser(nu NewUser) (*models.User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin CreateUser: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", nu.Email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check email %s: %w", nu.Email, err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	if nu.Role == "" {
		nu.Role = models.RoleMember
	}

	res, err := tx.Exec(`
		INSERT INTO users (email, password_hash, first_name, last_name, department, role)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nu.Email, nu.PasswordHash, nu.FirstName, nu.LastName, nu.Department, nu.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit CreateUser: %w", err)
	}

	return &models.User{
		ID:         id,
		Email:      nu.Email,
		FirstName:  nu.FirstName,
		LastName:   nu.LastName,
		Department: nu.Department,
		Role:       nu.Role,
	}, nil
}

// UserByEmail loads a user by email. Returns ErrNotFound when no user
// matches.
func (s *Store) UserByEmail(email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, email, password_hash, first_name, last_name, department, role
		FROM users WHERE email = ?`, email))
}

// UserByID loads a user by id. Returns ErrNotFound when no user matches.
func (s *Store) UserByID(id int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, email, password_hash, first_name, last_name, department, role
		FROM users WHERE id = ?`, id))
}

// SetUserRole changes a user's role. This is the administrative action
// that promotes or demotes accounts after creation.
func (s *Store) SetUserRole(id int64, role string) error {
	res, err := s.db.Exec("UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return fmt.Errorf("set role for user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Department, &u.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
