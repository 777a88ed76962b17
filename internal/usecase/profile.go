package usecase

import (
	"context"

	owguides "github.com/creamtown0420/ow-guides"
	"github.com/creamtown0420/ow-guides/internal/domain"
)

// ProfileRepository defines persistence for display names.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (domain.Profile, error)
	Upsert(ctx context.Context, profile domain.Profile) error
}

type ProfileUsecase struct {
	repo ProfileRepository
}

func NewProfileUsecase(repo ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{repo: repo}
}

func (uc *ProfileUsecase) Get(ctx context.Context, userID string) (domain.Profile, error) {
	if userID == "" {
		return domain.Profile{}, domain.ErrSignInRequired
	}
	return uc.repo.Get(ctx, userID)
}

func (uc *ProfileUsecase) Set(ctx context.Context, userID, displayName string) (domain.Profile, error) {
	if userID == "" {
		return domain.Profile{}, domain.ErrSignInRequired
	}
	if !owguides.IsValidDisplayName(displayName) {
		return domain.Profile{}, domain.InvalidError{Reason: "display name must be 3-20 letters, digits, underscore or hyphen"}
	}

	profile := domain.Profile{UserID: userID, DisplayName: displayName}
	if err := uc.repo.Upsert(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}
