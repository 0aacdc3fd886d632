package repository

import (
	"context"
	"errors"

	"github.com/quimicinter/billing/internal/profile/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "schema_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "full_name", "role", "status", "updated_at",
		}),
	}).Create(profile).Error
}

func (r *repo) FindAnyByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repo) FindByUserAndSchema(ctx context.Context, db *gorm.DB, userID, schemaName string) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.WithContext(ctx).
		Where("user_id = ? AND schema_name = ?", userID, schemaName).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repo) CountBySchema(ctx context.Context, db *gorm.DB, schemaName string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("schema_name = ?", schemaName).
		Count(&count).Error
	return count, err
}
