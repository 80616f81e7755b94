package security

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"
	"webservicepoc/src/repositories"
)

// OAuth2UserService turns a provider profile into a local principal,
// creating the account on first login and refreshing name and picture on
// later ones. The stored role is never changed here.
type OAuth2UserService struct {
	logger      *slog.Logger
	users       repositories.UsersStore
	defaultRole domain.Role
}

func NewOAuth2UserService(logger *slog.Logger, users repositories.UsersStore, defaultRole domain.Role) *OAuth2UserService {
	return &OAuth2UserService{
		logger:      logger,
		users:       users,
		defaultRole: defaultRole,
	}
}

func (s *OAuth2UserService) LoadUser(ctx context.Context, registrationID string, attributes map[string]any) (*domain.Principal, error) {
	profile, err := MapProfile(registrationID, attributes)
	if err != nil {
		return nil, err
	}

	user, err := s.saveOrUpdate(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "provider", registrationID, "user_id", user.ID, "role", user.Role)

	return user.Principal(), nil
}

func (s *OAuth2UserService) saveOrUpdate(ctx context.Context, profile OAuthAttributes) (entities.User, error) {
	user, err := s.users.FindByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user = profile.ToEntity(s.defaultRole)
	case err != nil:
		return entities.User{}, fmt.Errorf("OAuth2UserService.LoadUser - failed to find %s: %w", profile.Email, err)
	default:
		user.Update(profile.Name, profile.Picture)
	}

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return entities.User{}, fmt.Errorf("OAuth2UserService.LoadUser - failed to save %s: %w", profile.Email, err)
	}

	return saved, nil
}
