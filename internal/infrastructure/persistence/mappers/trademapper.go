package mappers

import (
	"encoding/json"
	"fmt"

	"tradedesk/internal/domain/trade"
	vo "tradedesk/internal/domain/trade/valueobjects"
	"tradedesk/internal/infrastructure/persistence/models"
)

// TradeMapper handles the conversion between Trade domain entities and persistence models.
type TradeMapper interface {
	ToModel(t *trade.Trade) *models.TradeModel
	ToDomain(model *models.TradeModel) (*trade.Trade, error)
}

type TradeMapperImpl struct{}

func NewTradeMapper() TradeMapper {
	return &TradeMapperImpl{}
}

func (m *TradeMapperImpl) ToModel(t *trade.Trade) *models.TradeModel {
	model := &models.TradeModel{
		ID:         t.ID(),
		TicketID:   t.TicketID(),
		UserID:     t.UserID(),
		PartnerTag: t.PartnerTag(),
		PartnerID:  t.PartnerID(),
		Status:     t.Status().String(),
		Confirmed:  t.Confirmed(),
		CreatedAt:  t.CreatedAt().UnixMilli(),
		UpdatedAt:  t.UpdatedAt().UnixMilli(),
	}

	if len(t.Items()) > 0 {
		itemsJSON, _ := json.Marshal(t.Items())
		model.Items = string(itemsJSON)
	}

	return model
}

func (m *TradeMapperImpl) ToDomain(model *models.TradeModel) (*trade.Trade, error) {
	status, err := vo.NewTradeStatus(model.Status)
	if err != nil {
		return nil, err
	}

	var items []string
	if model.Items != "" {
		if err := json.Unmarshal([]byte(model.Items), &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trade items (id=%d): %w", model.ID, err)
		}
	}

	return trade.ReconstructTrade(
		model.ID,
		model.TicketID,
		model.UserID,
		model.PartnerTag,
		model.PartnerID,
		status,
		model.Confirmed,
		items,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	)
}
