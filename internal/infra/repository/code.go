package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/infra/database/models"
)

type CodeRepository struct {
	db *gorm.DB
}

func NewCodeRepository(db *gorm.DB) *CodeRepository {
	return &CodeRepository{db: db}
}

func (r *CodeRepository) List(ctx context.Context) ([]domain.Code, error) {
	var rows []models.Code
	err := r.db.WithContext(ctx).
		Order("updated DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	codes := make([]domain.Code, len(rows))
	for i, row := range rows {
		codes[i] = toDomainCode(row)
	}
	return codes, nil
}

func (r *CodeRepository) Get(ctx context.Context, id string) (domain.Code, error) {
	var row models.Code
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Code{}, domain.NotFoundError{Resource: "code"}
	}
	if err != nil {
		return domain.Code{}, err
	}
	return toDomainCode(row), nil
}

func (r *CodeRepository) Create(ctx context.Context, code domain.Code) error {
	row := toModelCode(code)
	err := r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{Resource: "code"}
	}
	return err
}

func (r *CodeRepository) Update(ctx context.Context, code domain.Code) error {
	row := toModelCode(code)
	result := r.db.WithContext(ctx).
		Model(&models.Code{}).
		Where("id = ?", code.ID).
		Updates(map[string]any{
			"code":        row.Code,
			"title":       row.Title,
			"description": row.Description,
			"heroes":      row.Heroes,
			"maps":        row.Maps,
			"tags":        row.Tags,
			"role":        row.Role,
			"mode":        row.Mode,
			"author":      row.Author,
			"updated":     row.Updated,
		})
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{Resource: "code"}
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "code"}
	}
	return nil
}

func (r *CodeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Code{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "code"}
	}
	return nil
}

func toDomainCode(row models.Code) domain.Code {
	return domain.Code{
		ID:          row.ID,
		Code:        row.Code,
		Title:       row.Title,
		Description: row.Description,
		Heroes:      row.Heroes,
		Maps:        row.Maps,
		Tags:        row.Tags,
		Role:        domain.Role(row.Role),
		Mode:        domain.Mode(row.Mode),
		Author:      row.Author,
		Updated:     row.Updated,
		OwnerID:     row.OwnerID,
	}
}

func toModelCode(code domain.Code) models.Code {
	return models.Code{
		ID:          code.ID,
		Code:        code.Code,
		Title:       code.Title,
		Description: code.Description,
		Heroes:      code.Heroes,
		Maps:        code.Maps,
		Tags:        code.Tags,
		Role:        string(code.Role),
		Mode:        string(code.Mode),
		Author:      code.Author,
		Updated:     code.Updated,
		OwnerID:     code.OwnerID,
	}
}
