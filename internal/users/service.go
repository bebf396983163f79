package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
)

// UpdateInput carries the editable profile fields. Nil means unchanged.
type UpdateInput struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type welcomer interface {
	Welcome(ctx context.Context, profile *models.Profile)
}

// Service manages profile records keyed by the auth provider's subject.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Ensure(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*models.Profile, error)
}

type service struct {
	repo   *Repository
	notify welcomer
	logg   *logger.Logger
}

func NewService(repo *Repository, notify welcomer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, notify: notify, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

// Ensure loads the caller's profile, creating it on first contact. A newly
// created profile gets a welcome email.
func (s *service) Ensure(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	profile, err := s.repo.FindByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	profile = &models.Profile{ID: userID, Email: email}
	if err := s.repo.Create(ctx, profile); err != nil {
		// a concurrent first request may have created it already
		if existing, findErr := s.repo.FindByID(ctx, userID); findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}

	s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "profile created")
	s.notify.Welcome(ctx, profile)
	return profile, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*models.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FullName != nil {
		trimmed := strings.TrimSpace(*input.FullName)
		updates["full_name"] = trimmed
		profile.FullName = &trimmed
	}
	if input.Phone != nil {
		trimmed := strings.TrimSpace(*input.Phone)
		updates["phone"] = trimmed
		profile.Phone = &trimmed
	}
	if input.AvatarURL != nil {
		trimmed := strings.TrimSpace(*input.AvatarURL)
		updates["avatar_url"] = trimmed
		profile.AvatarURL = &trimmed
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return profile, nil
}
