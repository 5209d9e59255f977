package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/logger"
)

// ClassStore is the slice of the class repository authorization needs
type ClassStore interface {
	GetByID(ctx context.Context, id int64) (*models.Class, error)
}

// EnrollmentStore is the slice of the enrollment repository authorization needs
type EnrollmentStore interface {
	Exists(ctx context.Context, studentID, classID int64) (bool, error)
}

// AuthorizationService answers ownership and membership questions for
// class-scoped operations.
type AuthorizationService struct {
	classStore      ClassStore
	enrollmentStore EnrollmentStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(classStore ClassStore, enrollmentStore EnrollmentStore) *AuthorizationService {
	return &AuthorizationService{
		classStore:      classStore,
		enrollmentStore: enrollmentStore,
	}
}

// CheckClassOwner loads a class and verifies the professor owns it.
// Returns the class so callers don't fetch it twice.
func (s *AuthorizationService) CheckClassOwner(ctx context.Context, classID, professorID int64) (*models.Class, error) {
	class, err := s.classStore.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, apperrors.ErrClassNotFound) {
			return nil, apperrors.ErrClassNotFound
		}
		logger.Error().Err(err).Int64("classID", classID).Msg("Error loading class for ownership check")
		return nil, fmt.Errorf("failed to check class ownership: %w", err)
	}

	if class.ProfessorID != professorID {
		return nil, apperrors.ErrNotClassOwner
	}

	return class, nil
}

// CheckEnrolled loads a class and verifies the student is enrolled in it
func (s *AuthorizationService) CheckEnrolled(ctx context.Context, classID, studentID int64) (*models.Class, error) {
	class, err := s.classStore.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, apperrors.ErrClassNotFound) {
			return nil, apperrors.ErrClassNotFound
		}
		logger.Error().Err(err).Int64("classID", classID).Msg("Error loading class for enrollment check")
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	enrolled, err := s.enrollmentStore.Exists(ctx, studentID, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}

	return class, nil
}
