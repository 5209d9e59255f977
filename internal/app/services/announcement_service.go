package services

import (
	"context"
	"strings"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/app/repositories"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
)

// AnnouncementService handles class announcements.
type AnnouncementService struct {
	annRepo *repositories.AnnouncementRepository
}

// NewAnnouncementService creates a new announcement service.
func NewAnnouncementService(annRepo *repositories.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{
		annRepo: annRepo,
	}
}

// CreateAnnouncement posts an announcement to a class.
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, classID int64, title, content string) (*models.Announcement, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, apperrors.ErrValidationFailed
	}

	announcement := &models.Announcement{
		ClassID: classID,
		Title:   title,
		Content: content,
	}
	if err := s.annRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// ListAnnouncements retrieves a class's announcements, newest first.
func (s *AnnouncementService) ListAnnouncements(ctx context.Context, classID int64) ([]models.Announcement, error) {
	return s.annRepo.ListByClass(ctx, classID, 0)
}

// DeleteAnnouncement removes an announcement, scoped to its class.
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, classID, announcementID int64) error {
	return s.annRepo.Delete(ctx, classID, announcementID)
}
