package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParticipantRole(t *testing.T) {
	tests := []struct {
		input   string
		want    ParticipantRole
		wantErr bool
	}{
		{"owner", RoleOwner, false},
		{"OWNER", RoleOwner, false},
		{"Partner", RolePartner, false},
		{"TRADER", RoleTrader, false},
		{"observer", RoleObserver, false},
		{"", RoleUnspecified, false},
		{"bystander", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NewParticipantRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTicketStatusTransitions(t *testing.T) {
	assert.True(t, StatusOpen.CanTransitionTo(StatusClaimed))
	assert.False(t, StatusOpen.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusOpen.CanTransitionTo(StatusClosed))

	assert.True(t, StatusClaimed.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusClaimed.CanTransitionTo(StatusClosed))
	assert.False(t, StatusClaimed.CanTransitionTo(StatusOpen))

	assert.True(t, StatusConfirmed.CanTransitionTo(StatusClosed))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusClaimed))

	for _, target := range []TicketStatus{StatusOpen, StatusClaimed, StatusConfirmed, StatusClosed} {
		assert.False(t, StatusClosed.CanTransitionTo(target), "closed must be terminal")
	}
}

func TestNewTicketStatus(t *testing.T) {
	st, err := NewTicketStatus("claimed")
	require.NoError(t, err)
	assert.Equal(t, StatusClaimed, st)

	_, err = NewTicketStatus("reopened")
	require.Error(t, err)
}
