package review

import (
	"context"
	"errors"
)

// ErrDuplicateReview is returned when the (ticketID, reviewerID) uniqueness
// constraint rejects a second review from the same reviewer.
var ErrDuplicateReview = errors.New("reviewer has already reviewed this ticket")

// RatingSummary is the running average a middleman displays.
type RatingSummary struct {
	MiddlemanID uint
	Average     float64
	Count       int64
}

type ReviewRepository interface {
	// Create inserts the review; a duplicate (ticketID, reviewerID) pair is
	// translated to ErrDuplicateReview and the original review is left
	// unchanged.
	Create(ctx context.Context, review *Review) error
	ListByMiddleman(ctx context.Context, middlemanID uint) ([]*Review, error)
	// AverageForMiddleman recomputes the simple mean over all reviews.
	AverageForMiddleman(ctx context.Context, middlemanID uint) (*RatingSummary, error)
}
