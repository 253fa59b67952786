package handlers

import (
	"context"

	"tradedesk/internal/application/ticket/usecases"
)

// Use case interfaces for TicketHandler

type openTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.OpenTicketCommand) (*usecases.OpenTicketResult, error)
}

type claimTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.ClaimTicketCommand) (*usecases.ClaimTicketResult, error)
}

type submitTradeUseCase interface {
	Execute(ctx context.Context, cmd usecases.SubmitTradeCommand) (*usecases.SubmitTradeResult, error)
}

type confirmTradeUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConfirmTradeCommand) (*usecases.ConfirmTradeResult, error)
}

type cancelTradeUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelTradeCommand) (*usecases.CancelTradeResult, error)
}

type requestClosureUseCase interface {
	Execute(ctx context.Context, cmd usecases.RequestClosureCommand) (*usecases.RequestClosureResult, error)
}

type confirmFinalizationUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConfirmFinalizationCommand) (*usecases.ConfirmFinalizationResult, error)
}

type revokeFinalizationUseCase interface {
	Execute(ctx context.Context, cmd usecases.RevokeFinalizationCommand) (*usecases.RevokeFinalizationResult, error)
}

type closeTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.CloseTicketCommand) (*usecases.CloseTicketResult, error)
}

type submitReviewUseCase interface {
	Execute(ctx context.Context, cmd usecases.SubmitReviewCommand) (*usecases.SubmitReviewResult, error)
}

type getTicketUseCase interface {
	Execute(ctx context.Context, query usecases.GetTicketQuery) (*usecases.TicketDTO, error)
}

type middlemanProfileUseCase interface {
	Execute(ctx context.Context, query usecases.MiddlemanProfileQuery) (*usecases.MiddlemanProfileResult, error)
}
