package mappers

import (
	"tradedesk/internal/domain/review"
	"tradedesk/internal/infrastructure/persistence/models"
)

// ReviewMapper handles the conversion between Review domain entities and persistence models.
type ReviewMapper interface {
	ToModel(r *review.Review) *models.ReviewModel
	ToDomain(model *models.ReviewModel) (*review.Review, error)
}

type ReviewMapperImpl struct{}

func NewReviewMapper() ReviewMapper {
	return &ReviewMapperImpl{}
}

func (m *ReviewMapperImpl) ToModel(r *review.Review) *models.ReviewModel {
	return &models.ReviewModel{
		ID:          r.ID(),
		TicketID:    r.TicketID(),
		ReviewerID:  r.ReviewerID(),
		MiddlemanID: r.MiddlemanID(),
		Rating:      r.Rating(),
		Comment:     r.Comment(),
		CreatedAt:   r.CreatedAt().UnixMilli(),
	}
}

func (m *ReviewMapperImpl) ToDomain(model *models.ReviewModel) (*review.Review, error) {
	return review.ReconstructReview(
		model.ID,
		model.TicketID,
		model.ReviewerID,
		model.MiddlemanID,
		model.Rating,
		model.Comment,
		millisToTime(model.CreatedAt),
	)
}
