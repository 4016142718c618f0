package store

import (
	"database/sql"
	"fmt"

	"photovote/internal/models"
)

// NewPhoto carries the validated fields of a photo submission.
type NewPhoto struct {
	AuthorID  int64
	Title     string
	Place     string
	ImgURL    string
	CreatedOn string
}

// PhotoUpdate holds the fields of an edit. A nil field was not submitted
// and keeps its stored value.
type PhotoUpdate struct {
	Title  *string
	Place  *string
	ImgURL *string
}

// CreatePhoto inserts a photo owned by AuthorID. Ownership is fixed at
// creation.
func (s *Store) CreatePhoto(np NewPhoto) (*models.Photo, error) {
	res, err := s.db.Exec(`
		INSERT INTO photos (author_id, title, place, img_url, created_on)
		VALUES (?, ?, ?, ?, ?)`,
		np.AuthorID, np.Title, np.Place, np.ImgURL, np.CreatedOn)
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &models.Photo{
		ID:        id,
		AuthorID:  np.AuthorID,
		Title:     np.Title,
		Place:     np.Place,
		ImgURL:    np.ImgURL,
		CreatedOn: np.CreatedOn,
	}, nil
}

// PhotoByID loads one photo with its current vote count. Returns
// ErrNotFound when the id does not resolve. The read never mutates
// state, so access-control checks can call it before deciding.
func (s *Store) PhotoByID(id int64) (*models.Photo, error) {
	p := &models.Photo{}
	err := s.db.QueryRow(`
		SELECT p.id, p.author_id, p.title, p.place, p.img_url, p.created_on,
		       (SELECT COUNT(*) FROM votes v WHERE v.photo_id = p.id)
		FROM photos p WHERE p.id = ?`, id).
		Scan(&p.ID, &p.AuthorID, &p.Title, &p.Place, &p.ImgURL, &p.CreatedOn, &p.VoteCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan photo %d: %w", id, err)
	}
	return p, nil
}

// ListPhotosByVotes returns all photos ordered by vote count descending.
// The ranking is recomputed from the votes table on every call, so a
// cast vote is reflected by the next listing immediately. Ties break by
// id ascending.
func (s *Store) ListPhotosByVotes() ([]models.Photo, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.author_id, p.title, p.place, p.img_url, p.created_on,
		       COUNT(v.id) AS vote_count
		FROM photos p
		LEFT JOIN votes v ON v.photo_id = p.id
		GROUP BY p.id
		ORDER BY vote_count DESC, p.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	photos := []models.Photo{}
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Place, &p.ImgURL, &p.CreatedOn, &p.VoteCount); err != nil {
			return nil, fmt.Errorf("scan photo row: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// UpdatePhoto overwrites only the submitted fields and leaves the rest
// untouched. Load and write run in one transaction to close the
// load-then-edit race. Returns ErrNotFound when the id does not resolve.
func (s *Store) UpdatePhoto(id int64, upd PhotoUpdate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin UpdatePhoto: %w", err)
	}
	defer tx.Rollback()

	var title, place, imgURL string
	err = tx.QueryRow("SELECT title, place, img_url FROM photos WHERE id = ?", id).
		Scan(&title, &place, &imgURL)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load photo %d: %w", id, err)
	}

	if upd.Title != nil {
		title = *upd.Title
	}
	if upd.Place != nil {
		place = *upd.Place
	}
	if upd.ImgURL != nil {
		imgURL = *upd.ImgURL
	}

	_, err = tx.Exec("UPDATE photos SET title = ?, place = ?, img_url = ? WHERE id = ?",
		title, place, imgURL, id)
	if err != nil {
		return fmt.Errorf("update photo %d: %w", id, err)
	}
	return tx.Commit()
}

// DeletePhoto removes a photo together with its comments and votes in
// one transaction — an explicit cascade, nothing dangles. Returns
// ErrNotFound when the id does not resolve.
func (s *Store) DeletePhoto(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin DeletePhoto: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM votes WHERE photo_id = ?", id); err != nil {
		return fmt.Errorf("delete votes of photo %d: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM comments WHERE photo_id = ?", id); err != nil {
		return fmt.Errorf("delete comments of photo %d: %w", id, err)
	}
	res, err := tx.Exec("DELETE FROM photos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete photo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
