package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/review"
	"tradedesk/internal/domain/stats"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

func closedTicketFixture(id, ownerID, middlemanID uint) *ticket.Ticket {
	tk := confirmedTicketFixture(id, ownerID, middlemanID)
	if err := tk.Close(); err != nil {
		panic(err)
	}
	return tk
}

func newSubmitReviewUseCase(
	ticketRepo *mockTicketRepo,
	participantRepo *mockParticipantRepo,
	claimRepo *mockClaimRepo,
	reviewRepo *mockReviewRepo,
) *SubmitReviewUseCase {
	return NewSubmitReviewUseCase(ticketRepo, participantRepo, claimRepo, reviewRepo, logger.NewNop())
}

func TestSubmitReview_Success(t *testing.T) {
	tk := closedTicketFixture(1, 100, 500)
	var saved *review.Review

	ticketRepo := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	participantRepo := &mockParticipantRepo{
		ListByTicketFn: func(ctx context.Context, ticketID uint) ([]*ticket.Participant, error) {
			return quorumParticipants(ticketID), nil
		},
	}
	claimRepo := &mockClaimRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID uint) (*claim.Claim, error) {
			return claimFixture(1, 500), nil
		},
	}
	reviewRepo := &mockReviewRepo{
		CreateFn: func(ctx context.Context, rv *review.Review) error {
			saved = rv
			return nil
		},
		AverageForMiddlemanFn: func(ctx context.Context, middlemanID uint) (*review.RatingSummary, error) {
			return &review.RatingSummary{MiddlemanID: middlemanID, Average: 4.5, Count: 2}, nil
		},
	}

	uc := newSubmitReviewUseCase(ticketRepo, participantRepo, claimRepo, reviewRepo)
	result, err := uc.Execute(context.Background(), SubmitReviewCommand{
		TicketID: 1, ReviewerID: 200, Rating: 5, Comment: "smooth trade",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(500), result.MiddlemanID)
	assert.Equal(t, 4.5, result.AverageRating)
	assert.Equal(t, int64(2), result.ReviewCount)
	assert.Equal(t, uint(500), saved.MiddlemanID())
	assert.Equal(t, "smooth trade", saved.Comment())
}

func TestSubmitReview_RejectsOpenTicket(t *testing.T) {
	tk := confirmedTicketFixture(1, 100, 500)
	ticketRepo := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}

	uc := newSubmitReviewUseCase(ticketRepo, &mockParticipantRepo{}, &mockClaimRepo{}, &mockReviewRepo{})
	_, err := uc.Execute(context.Background(), SubmitReviewCommand{TicketID: 1, ReviewerID: 100, Rating: 5})

	assert.True(t, errors.IsInvalidStateError(err))
}

func TestSubmitReview_MiddlemanCannotSelfReview(t *testing.T) {
	tk := closedTicketFixture(1, 100, 500)
	ticketRepo := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	claimRepo := &mockClaimRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID uint) (*claim.Claim, error) {
			return claimFixture(1, 500), nil
		},
	}

	uc := newSubmitReviewUseCase(ticketRepo, &mockParticipantRepo{}, claimRepo, &mockReviewRepo{})
	_, err := uc.Execute(context.Background(), SubmitReviewCommand{TicketID: 1, ReviewerID: 500, Rating: 5})

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestSubmitReview_OutsiderForbidden(t *testing.T) {
	tk := closedTicketFixture(1, 100, 500)
	ticketRepo := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	participantRepo := &mockParticipantRepo{
		ListByTicketFn: func(ctx context.Context, ticketID uint) ([]*ticket.Participant, error) {
			return quorumParticipants(ticketID), nil
		},
	}
	claimRepo := &mockClaimRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID uint) (*claim.Claim, error) {
			return claimFixture(1, 500), nil
		},
	}

	uc := newSubmitReviewUseCase(ticketRepo, participantRepo, claimRepo, &mockReviewRepo{})
	_, err := uc.Execute(context.Background(), SubmitReviewCommand{TicketID: 1, ReviewerID: 999, Rating: 5})

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestSubmitReview_DuplicateKeepsOriginal(t *testing.T) {
	tk := closedTicketFixture(1, 100, 500)
	ticketRepo := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	participantRepo := &mockParticipantRepo{
		ListByTicketFn: func(ctx context.Context, ticketID uint) ([]*ticket.Participant, error) {
			return quorumParticipants(ticketID), nil
		},
	}
	claimRepo := &mockClaimRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID uint) (*claim.Claim, error) {
			return claimFixture(1, 500), nil
		},
	}
	reviewRepo := &mockReviewRepo{
		CreateFn: func(ctx context.Context, rv *review.Review) error {
			return review.ErrDuplicateReview
		},
	}

	uc := newSubmitReviewUseCase(ticketRepo, participantRepo, claimRepo, reviewRepo)
	_, err := uc.Execute(context.Background(), SubmitReviewCommand{TicketID: 1, ReviewerID: 100, Rating: 3})

	assert.True(t, errors.IsConflictError(err))
}

func TestSubmitReview_InvalidRating(t *testing.T) {
	tk := closedTicketFixture(1, 100, 500)
	ticketRepo := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	participantRepo := &mockParticipantRepo{
		ListByTicketFn: func(ctx context.Context, ticketID uint) ([]*ticket.Participant, error) {
			return quorumParticipants(ticketID), nil
		},
	}
	claimRepo := &mockClaimRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID uint) (*claim.Claim, error) {
			return claimFixture(1, 500), nil
		},
	}

	uc := newSubmitReviewUseCase(ticketRepo, participantRepo, claimRepo, &mockReviewRepo{})
	_, err := uc.Execute(context.Background(), SubmitReviewCommand{TicketID: 1, ReviewerID: 100, Rating: 6})

	assert.True(t, errors.IsValidationError(err))
}

func TestMiddlemanProfile_NoTradesYet(t *testing.T) {
	statsRepo := &mockStatsRepo{
		GetByUserFn: func(ctx context.Context, userID uint) (*stats.MemberTradeStats, error) {
			return nil, notFoundErr()
		},
	}
	reviewRepo := &mockReviewRepo{
		AverageForMiddlemanFn: func(ctx context.Context, middlemanID uint) (*review.RatingSummary, error) {
			return &review.RatingSummary{MiddlemanID: middlemanID}, nil
		},
	}

	uc := NewMiddlemanProfileUseCase(statsRepo, reviewRepo)
	result, err := uc.Execute(context.Background(), MiddlemanProfileQuery{UserID: 500})

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TradesCompleted)
	assert.Equal(t, int64(0), result.ReviewCount)
}

func TestMiddlemanProfile_CombinesStatsAndRatings(t *testing.T) {
	statsRepo := &mockStatsRepo{
		GetByUserFn: func(ctx context.Context, userID uint) (*stats.MemberTradeStats, error) {
			return &stats.MemberTradeStats{UserID: userID, TradesCompleted: 12, LastPartnerTag: "bob#2"}, nil
		},
	}
	reviewRepo := &mockReviewRepo{
		AverageForMiddlemanFn: func(ctx context.Context, middlemanID uint) (*review.RatingSummary, error) {
			return &review.RatingSummary{MiddlemanID: middlemanID, Average: 4.8, Count: 10}, nil
		},
	}

	uc := NewMiddlemanProfileUseCase(statsRepo, reviewRepo)
	result, err := uc.Execute(context.Background(), MiddlemanProfileQuery{UserID: 500})

	require.NoError(t, err)
	assert.Equal(t, int64(12), result.TradesCompleted)
	assert.Equal(t, "bob#2", result.LastPartnerTag)
	assert.Equal(t, 4.8, result.AverageRating)
}
