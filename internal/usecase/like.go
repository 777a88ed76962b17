package usecase

import (
	"context"

	"github.com/creamtown0420/ow-guides/internal/domain"
)

// LikeRepository defines persistence for per-(user, code) like rows.
// Create must fail with a ConflictError on a duplicate row.
type LikeRepository interface {
	Create(ctx context.Context, userID, codeID string) error
	Delete(ctx context.Context, userID, codeID string) error
	Counts(ctx context.Context) (map[string]int, error)
	ListByUser(ctx context.Context, userID string) ([]string, error)
}

type LikeUsecase struct {
	repo  LikeRepository
	codes CodeRepository
}

func NewLikeUsecase(repo LikeRepository, codes CodeRepository) *LikeUsecase {
	return &LikeUsecase{repo: repo, codes: codes}
}

func (uc *LikeUsecase) Like(ctx context.Context, userID, codeID string) error {
	if userID == "" {
		return domain.ErrSignInRequired
	}
	if _, err := uc.codes.Get(ctx, codeID); err != nil {
		return err
	}
	return uc.repo.Create(ctx, userID, codeID)
}

func (uc *LikeUsecase) Unlike(ctx context.Context, userID, codeID string) error {
	if userID == "" {
		return domain.ErrSignInRequired
	}
	return uc.repo.Delete(ctx, userID, codeID)
}

// Counts aggregates like totals per code id across all users.
func (uc *LikeUsecase) Counts(ctx context.Context) (map[string]int, error) {
	return uc.repo.Counts(ctx)
}

// Liked lists the code ids this user has liked.
func (uc *LikeUsecase) Liked(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, domain.ErrSignInRequired
	}
	return uc.repo.ListByUser(ctx, userID)
}
