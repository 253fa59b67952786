package usecases

import (
	"context"
	stderrors "errors"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/review"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type SubmitReviewCommand struct {
	TicketID   uint
	ReviewerID uint
	Rating     int
	Comment    string
}

type SubmitReviewResult struct {
	TicketID      uint
	MiddlemanID   uint
	Rating        int
	AverageRating float64
	ReviewCount   int64
}

// SubmitReviewUseCase records a participant's rating of the middleman after
// the ticket closed. One review per reviewer per ticket; duplicates leave
// the original untouched.
type SubmitReviewUseCase struct {
	ticketRepo      ticket.TicketRepository
	participantRepo ticket.ParticipantRepository
	claimRepo       claim.ClaimRepository
	reviewRepo      review.ReviewRepository
	logger          logger.Interface
}

func NewSubmitReviewUseCase(
	ticketRepo ticket.TicketRepository,
	participantRepo ticket.ParticipantRepository,
	claimRepo claim.ClaimRepository,
	reviewRepo review.ReviewRepository,
	logger logger.Interface,
) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		claimRepo:       claimRepo,
		reviewRepo:      reviewRepo,
		logger:          logger,
	}
}

func (uc *SubmitReviewUseCase) Execute(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if !t.IsClosed() {
		return nil, errors.NewInvalidStateError("reviews open once the ticket is closed")
	}

	cl, err := uc.claimRepo.GetByTicketID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if cmd.ReviewerID == cl.MiddlemanID() {
		return nil, errors.NewForbiddenError("the middleman cannot review themselves")
	}

	isParty, err := uc.isParty(ctx, t, cmd.ReviewerID)
	if err != nil {
		return nil, err
	}
	if !isParty {
		return nil, errors.NewForbiddenError("only trade parties can leave a review")
	}

	rv, err := review.NewReview(cmd.TicketID, cmd.ReviewerID, cl.MiddlemanID(), cmd.Rating, cmd.Comment)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.reviewRepo.Create(ctx, rv); err != nil {
		if stderrors.Is(err, review.ErrDuplicateReview) {
			return nil, errors.NewConflictError("you already reviewed this ticket")
		}
		return nil, errors.NewInternalError("failed to save review")
	}

	summary, err := uc.reviewRepo.AverageForMiddleman(ctx, cl.MiddlemanID())
	if err != nil {
		return nil, errors.NewInternalError("failed to compute rating summary")
	}

	uc.logger.Infow("review submitted",
		"ticket_id", cmd.TicketID,
		"reviewer_id", cmd.ReviewerID,
		"middleman_id", cl.MiddlemanID(),
		"rating", cmd.Rating)

	return &SubmitReviewResult{
		TicketID:      cmd.TicketID,
		MiddlemanID:   cl.MiddlemanID(),
		Rating:        cmd.Rating,
		AverageRating: summary.Average,
		ReviewCount:   summary.Count,
	}, nil
}

func (uc *SubmitReviewUseCase) isParty(ctx context.Context, t *ticket.Ticket, userID uint) (bool, error) {
	if t.OwnerID() == userID {
		return true, nil
	}
	participants, err := uc.participantRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		return false, errors.NewInternalError("failed to load participants")
	}
	for _, p := range participants {
		if p.UserID() == userID {
			return true, nil
		}
	}
	return false, nil
}
