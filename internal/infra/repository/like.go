package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/infra/database/models"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts one (user, code) like row. The composite primary key
// makes a duplicate insert a distinguishable conflict, matching the
// backing table's behavior.
func (r *LikeRepository) Create(ctx context.Context, userID, codeID string) error {
	row := models.Like{UserID: userID, CodeID: codeID}
	err := r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{Resource: "like"}
	}
	return err
}

func (r *LikeRepository) Delete(ctx context.Context, userID, codeID string) error {
	result := r.db.WithContext(ctx).
		Delete(&models.Like{}, "user_id = ? AND code_id = ?", userID, codeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "like"}
	}
	return nil
}

func (r *LikeRepository) Counts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		CodeID string
		Total  int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("code_id, count(*) as total").
		Group("code_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CodeID] = row.Total
	}
	return counts, nil
}

func (r *LikeRepository) ListByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("code_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
