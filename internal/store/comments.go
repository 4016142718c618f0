package store

import (
	"fmt"

	"photovote/internal/models"
)

// CreateComment appends a comment under a photo. Comments are
// create-only; there is no edit or delete path. Returns ErrNotFound
// when the photo does not exist.
func (s *Store) CreateComment(photoID, authorID int64, text string) (*models.Comment, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM photos WHERE id = ?)", photoID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check photo %d: %w", photoID, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	res, err := s.db.Exec(`
		INSERT INTO comments (photo_id, author_id, text) VALUES (?, ?, ?)`,
		photoID, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &models.Comment{ID: id, PhotoID: photoID, AuthorID: authorID, Text: text}, nil
}

// CommentsByPhoto lists a photo's comments oldest first, with author
// names resolved.
func (s *Store) CommentsByPhoto(photoID int64) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.photo_id, c.author_id, u.first_name, u.last_name, c.text
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.photo_id = ?
		ORDER BY c.id ASC`, photoID)
	if err != nil {
		return nil, fmt.Errorf("list comments of photo %d: %w", photoID, err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		var first, last string
		if err := rows.Scan(&c.ID, &c.PhotoID, &c.AuthorID, &first, &last, &c.Text); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		c.AuthorName = (&models.User{FirstName: first, LastName: last}).DisplayName()
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
