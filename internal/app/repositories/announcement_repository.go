package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
)

// AnnouncementRepository handles database operations for announcements
type AnnouncementRepository struct {
	db *pgxpool.Pool
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{
		db: db,
	}
}

// Create creates a new announcement
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	query := `
		INSERT INTO announcements (class_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		announcement.ClassID,
		announcement.Title,
		announcement.Content,
	).Scan(&announcement.ID, &announcement.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating announcement: %w", err)
	}

	return nil
}

// ListByClass retrieves announcements of a class, newest first, with an
// optional limit (0 means no limit).
func (r *AnnouncementRepository) ListByClass(ctx context.Context, classID int64, limit int) ([]models.Announcement, error) {
	query := `
		SELECT id, class_id, title, content, created_at
		FROM announcements
		WHERE class_id = $1
		ORDER BY created_at DESC
	`

	args := []interface{}{classID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	var announcements []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.ClassID, &a.Title, &a.Content, &a.CreatedAt); err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}

// Delete removes an announcement, scoped to its class
func (r *AnnouncementRepository) Delete(ctx context.Context, classID, announcementID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1 AND class_id = $2`, announcementID, classID)
	if err != nil {
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAnnouncementNotFound
	}
	return nil
}
