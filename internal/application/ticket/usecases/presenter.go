package usecases

import (
	"context"

	"tradedesk/internal/application/panel"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/domain/trade"
)

// buildStatusView assembles the panel snapshot from committed state. Name
// lookups go through the gateway, which degrades to fallback labels on its
// own.
func buildStatusView(ctx context.Context, gateway ChatGateway, t *ticket.Ticket, trades []*trade.Trade, forced bool) panel.StatusView {
	view := panel.StatusView{
		TicketID:      t.ID(),
		ChannelID:     t.ChannelID(),
		TicketType:    t.Type().String(),
		Status:        t.Status().String(),
		OwnerName:     gateway.GetDisplayName(ctx, t.OwnerID()),
		ClosedByForce: forced,
	}
	if mm := t.MiddlemanID(); mm != nil {
		view.MiddlemanName = gateway.GetDisplayName(ctx, *mm)
	}

	for _, tr := range trades {
		view.Trades = append(view.Trades, panel.TradeLine{
			UserName:  gateway.GetDisplayName(ctx, tr.UserID()),
			Items:     tr.Items(),
			Confirmed: tr.Confirmed(),
		})
	}

	return view
}

// buildFinalizationView pairs quorum members with their confirmation state.
func buildFinalizationView(ctx context.Context, gateway ChatGateway, ticketID uint, members, confirmed []uint, satisfied bool) panel.FinalizationView {
	confirmedSet := make(map[uint]struct{}, len(confirmed))
	for _, id := range confirmed {
		confirmedSet[id] = struct{}{}
	}

	view := panel.FinalizationView{TicketID: ticketID, Satisfied: satisfied}
	for _, id := range members {
		_, ok := confirmedSet[id]
		view.Members = append(view.Members, panel.FinalizationMember{
			UserName:  gateway.GetDisplayName(ctx, id),
			Confirmed: ok,
		})
	}

	return view
}
