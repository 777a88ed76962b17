package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/infra/database/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (domain.Profile, error) {
	var row models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Profile{}, domain.NotFoundError{Resource: "profile"}
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{UserID: row.UserID, DisplayName: row.DisplayName}, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile domain.Profile) error {
	row := models.Profile{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name"}),
	}).Create(&row).Error
}
