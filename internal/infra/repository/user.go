package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindOrCreateByEmail resolves the account for a verified e-mail address,
// creating it on first sign-in.
func (r *UserRepository) FindOrCreateByEmail(ctx context.Context, email string) (domain.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&row).Error
	if err == nil {
		return domain.User{ID: row.ID, Email: row.Email}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, err
	}

	row = models.User{ID: uuid.NewString(), Email: email}
	err = r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent first sign-in; read the winner.
		err = r.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error
	}
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: row.ID, Email: row.Email}, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (domain.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: row.ID, Email: row.Email}, nil
}
