package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/rollcall-app/rollcall/internal/app/models"
	appRepos "github.com/rollcall-app/rollcall/internal/app/repositories"
)

// CreateDefaultData creates a default professor and student account if they
// don't exist, so a fresh deployment can be exercised immediately.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default accounts...")
	var finalErr error // To collect potential errors without stopping the process

	defaults := []struct {
		email     string
		password  string
		username  string
		firstName string
		lastName  string
		role      appModels.RoleType
	}{
		{"professor@rollcall.app", "Professor123!", "demoprofessor", "Demo", "Professor", appModels.RoleProfessor},
		{"student@rollcall.app", "Student123!", "demostudent", "Demo", "Student", appModels.RoleStudent},
	}

	for _, d := range defaults {
		exists, err := userRepo.EmailExists(ctx, d.email)
		if err != nil {
			lgr.Error().Err(err).Str("email", d.email).Msg("Error checking if default user exists")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Str("email", d.email).Msg("Error hashing default user password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &appModels.User{
			Email:     d.email,
			Password:  string(hashedPassword),
			Username:  d.username,
			FirstName: d.firstName,
			LastName:  d.lastName,
			RoleType:  d.role,
			IsActive:  true,
		}
		if err := userRepo.CreateUser(ctx, user); err != nil {
			lgr.Error().Err(err).Str("email", d.email).Msg("Error creating default user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("email", d.email).Str("role", string(d.role)).Msg("Default user created")
	}

	return finalErr
}
