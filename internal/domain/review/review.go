// Package review holds post-close middleman reviews: one per (ticket,
// reviewer) pair, rated 1 to 5.
package review

import (
	"fmt"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5

	// MaxCommentLength rejects oversized comments outright rather than
	// truncating them.
	MaxCommentLength = 500
)

type Review struct {
	id          uint
	ticketID    uint
	reviewerID  uint
	middlemanID uint
	rating      int
	comment     string
	createdAt   time.Time
}

func NewReview(ticketID, reviewerID, middlemanID uint, rating int, comment string) (*Review, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if reviewerID == 0 {
		return nil, fmt.Errorf("reviewer ID is required")
	}
	if middlemanID == 0 {
		return nil, fmt.Errorf("middleman ID is required")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	if len(comment) > MaxCommentLength {
		return nil, fmt.Errorf("comment exceeds maximum length of %d characters", MaxCommentLength)
	}

	return &Review{
		ticketID:    ticketID,
		reviewerID:  reviewerID,
		middlemanID: middlemanID,
		rating:      rating,
		comment:     comment,
		createdAt:   time.Now().UTC(),
	}, nil
}

func ReconstructReview(
	id uint,
	ticketID, reviewerID, middlemanID uint,
	rating int,
	comment string,
	createdAt time.Time,
) (*Review, error) {
	if id == 0 {
		return nil, fmt.Errorf("review ID cannot be zero")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}

	return &Review{
		id:          id,
		ticketID:    ticketID,
		reviewerID:  reviewerID,
		middlemanID: middlemanID,
		rating:      rating,
		comment:     comment,
		createdAt:   createdAt,
	}, nil
}

func (r *Review) ID() uint {
	return r.id
}

func (r *Review) TicketID() uint {
	return r.ticketID
}

func (r *Review) ReviewerID() uint {
	return r.reviewerID
}

func (r *Review) MiddlemanID() uint {
	return r.middlemanID
}

func (r *Review) Rating() int {
	return r.rating
}

func (r *Review) Comment() string {
	return r.comment
}

func (r *Review) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Review) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("review ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("review ID cannot be zero")
	}
	r.id = id
	return nil
}
