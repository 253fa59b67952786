package mappers

import (
	"time"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/infrastructure/persistence/models"
)

// ClaimMapper handles the conversion between Claim domain entities and persistence models.
type ClaimMapper interface {
	ToModel(c *claim.Claim) *models.ClaimModel
	ToDomain(model *models.ClaimModel) (*claim.Claim, error)
}

type ClaimMapperImpl struct{}

func NewClaimMapper() ClaimMapper {
	return &ClaimMapperImpl{}
}

func (m *ClaimMapperImpl) ToModel(c *claim.Claim) *models.ClaimModel {
	model := &models.ClaimModel{
		TicketID:              c.TicketID(),
		MiddlemanID:           c.MiddlemanID(),
		ClaimedAt:             c.ClaimedAt().UnixMilli(),
		ForcedClose:           c.ForcedClose(),
		PanelMessageID:        c.PanelMessageID(),
		FinalizationMessageID: c.FinalizationMessageID(),
	}

	if c.ClosedAt() != nil {
		closed := c.ClosedAt().UnixMilli()
		model.ClosedAt = &closed
	}
	if c.ReviewRequestedAt() != nil {
		requested := c.ReviewRequestedAt().UnixMilli()
		model.ReviewRequestedAt = &requested
	}

	return model
}

func (m *ClaimMapperImpl) ToDomain(model *models.ClaimModel) (*claim.Claim, error) {
	var closedAt, reviewRequestedAt *time.Time
	if model.ClosedAt != nil {
		t := millisToTime(*model.ClosedAt)
		closedAt = &t
	}
	if model.ReviewRequestedAt != nil {
		t := millisToTime(*model.ReviewRequestedAt)
		reviewRequestedAt = &t
	}

	return claim.ReconstructClaim(
		model.TicketID,
		model.MiddlemanID,
		millisToTime(model.ClaimedAt),
		closedAt,
		model.ForcedClose,
		model.PanelMessageID,
		model.FinalizationMessageID,
		reviewRequestedAt,
	)
}
