package store

import (
	"fmt"

	"photovote/internal/models"
)

// CastVote appends one vote for a photo by a user. The insert is
// unconditional: there is no de-duplication, the same user may vote on
// the same photo any number of times and every vote raises the score by
// one. Returns ErrNotFound when the photo does not exist.
func (s *Store) CastVote(photoID, userID int64) error {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM photos WHERE id = ?)", photoID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check photo %d: %w", photoID, err)
	}
	if !exists {
		return ErrNotFound
	}

	_, err = s.db.Exec("INSERT INTO votes (photo_id, user_id, value) VALUES (?, ?, 1)", photoID, userID)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// VoteCount returns the current number of votes on a photo.
func (s *Store) VoteCount(photoID int64) (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM votes WHERE photo_id = ?", photoID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count votes of photo %d: %w", photoID, err)
	}
	return n, nil
}

// VotersByPhoto returns one entry per cast vote, resolved to the
// voter's display name, in insertion order. Callers that display the
// list shuffle it per read; the stored order is never presented.
func (s *Store) VotersByPhoto(photoID int64) ([]models.Voter, error) {
	rows, err := s.db.Query(`
		SELECT u.id, u.first_name, u.last_name
		FROM votes v
		JOIN users u ON u.id = v.user_id
		WHERE v.photo_id = ?
		ORDER BY v.id ASC`, photoID)
	if err != nil {
		return nil, fmt.Errorf("list voters of photo %d: %w", photoID, err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var id int64
		var first, last string
		if err := rows.Scan(&id, &first, &last); err != nil {
			return nil, fmt.Errorf("scan voter row: %w", err)
		}
		voters = append(voters, models.Voter{
			UserID: id,
			Name:   (&models.User{FirstName: first, LastName: last}).DisplayName(),
		})
	}
	return voters, rows.Err()
}
