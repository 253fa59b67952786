package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tradedesk/internal/domain/review"
	"tradedesk/internal/infrastructure/persistence/mappers"
	"tradedesk/internal/infrastructure/persistence/models"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
)

type ReviewRepository struct {
	db     *gorm.DB
	mapper mappers.ReviewMapper
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		db:     db,
		mapper: mappers.NewReviewMapper(),
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := r.mapper.ToModel(rv)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return review.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if err := rv.SetID(model.ID); err != nil {
		return err
	}

	return nil
}

func (r *ReviewRepository) ListByMiddleman(ctx context.Context, middlemanID uint) ([]*review.Review, error) {
	var modelList []models.ReviewModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("middleman_id = ?", middlemanID).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*review.Review, 0, len(modelList))
	for i := range modelList {
		rv, err := r.mapper.ToDomain(&modelList[i])
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}

	return reviews, nil
}

func (r *ReviewRepository) AverageForMiddleman(ctx context.Context, middlemanID uint) (*review.RatingSummary, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var result struct {
		Average float64
		Count   int64
	}

	if err := tx.
		Model(&models.ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("middleman_id = ?", middlemanID).
		Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to compute rating average: %w", err)
	}

	return &review.RatingSummary{
		MiddlemanID: middlemanID,
		Average:     result.Average,
		Count:       result.Count,
	}, nil
}
