// Package finalization implements the pre-close confirmation round: the
// quorum of trading parties whose unanimous agreement gates the close
// transaction, and the per-ticket ledger of currently confirmed parties.
package finalization

import (
	"sort"

	"tradedesk/internal/domain/ticket"
)

// Quorum is the set of user ids whose finalization confirmation is required
// before a ticket can close. Membership is the ticket owner plus every
// participant whose role is on the quorum allowlist. The owner counts even
// when never recorded as a participant row.
type Quorum struct {
	members map[uint]struct{}
}

// NewQuorum derives quorum membership from the ticket owner and its
// participants.
func NewQuorum(ownerID uint, participants []*ticket.Participant) Quorum {
	members := make(map[uint]struct{})
	if ownerID != 0 {
		members[ownerID] = struct{}{}
	}
	for _, p := range participants {
		if p.CountsTowardQuorum() {
			members[p.UserID()] = struct{}{}
		}
	}
	return Quorum{members: members}
}

// Size returns the number of quorum members.
func (q Quorum) Size() int {
	return len(q.members)
}

// Contains reports whether the user is a quorum member.
func (q Quorum) Contains(userID uint) bool {
	_, ok := q.members[userID]
	return ok
}

// Members returns the member ids in ascending order for stable rendering.
func (q Quorum) Members() []uint {
	ids := make([]uint, 0, len(q.members))
	for id := range q.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RequiresUnanimity reports whether finalization gating applies at all. A
// quorum of one (or zero) has nothing to agree on.
func (q Quorum) RequiresUnanimity() bool {
	return len(q.members) > 1
}

// IsSatisfiedBy reports whether every quorum member id appears in the
// confirmed set and the quorum is non-empty. Solo quorums are always
// satisfied.
func (q Quorum) IsSatisfiedBy(confirmed []uint) bool {
	if len(q.members) == 0 {
		return false
	}
	if !q.RequiresUnanimity() {
		return true
	}

	confirmedSet := make(map[uint]struct{}, len(confirmed))
	for _, id := range confirmed {
		confirmedSet[id] = struct{}{}
	}

	for id := range q.members {
		if _, ok := confirmedSet[id]; !ok {
			return false
		}
	}
	return true
}

// Partition splits quorum members into confirmed and pending given the
// current ledger contents, preserving Members() ordering.
func (q Quorum) Partition(confirmed []uint) (done, pending []uint) {
	confirmedSet := make(map[uint]struct{}, len(confirmed))
	for _, id := range confirmed {
		confirmedSet[id] = struct{}{}
	}

	for _, id := range q.Members() {
		if _, ok := confirmedSet[id]; ok {
			done = append(done, id)
		} else {
			pending = append(pending, id)
		}
	}
	return done, pending
}
