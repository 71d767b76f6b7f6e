package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allStatuses is every lifecycle state, used to verify that actions fail
// from every state their guard table row does not list.
var allStatuses = []BookingStatus{
	StatusHold, StatusPendingApproval, StatusPendingPayment, StatusConfirmed,
	StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusRefunded,
}

func TestTransitionGuardTable(t *testing.T) {
	cases := []struct {
		action BookingAction
		from   BookingStatus
		to     BookingStatus
	}{
		{ActionSubmitPayment, StatusHold, StatusPendingPayment},
		{ActionApprove, StatusPendingApproval, StatusPendingPayment},
		{ActionReject, StatusPendingApproval, StatusCancelled},
		{ActionCancel, StatusPendingPayment, StatusCancelled},
		{ActionConfirmPayment, StatusPendingPayment, StatusConfirmed},
		{ActionCheckIn, StatusConfirmed, StatusCheckedIn},
		{ActionCheckOut, StatusCheckedIn, StatusCheckedOut},
		{ActionProcessRefund, StatusCheckedOut, StatusRefunded},
	}

	allowed := make(map[BookingAction]map[BookingStatus]bool)
	for _, tc := range cases {
		if allowed[tc.action] == nil {
			allowed[tc.action] = make(map[BookingStatus]bool)
		}
		allowed[tc.action][tc.from] = true

		b := &Booking{Status: tc.from}
		require.NoError(t, b.Transition(tc.action), "%s from %s", tc.action, tc.from)
		assert.Equal(t, tc.to, b.Status)
	}

	// Every edge outside the table must fail and leave the status alone.
	actions := []BookingAction{
		ActionSubmitPayment, ActionApprove, ActionReject, ActionCancel,
		ActionConfirmPayment, ActionCheckIn, ActionCheckOut, ActionProcessRefund,
	}
	for _, a := range actions {
		for _, from := range allStatuses {
			if allowed[a][from] {
				continue
			}
			b := &Booking{Status: from}
			err := b.Transition(a)
			require.Error(t, err, "%s from %s should be rejected", a, from)

			var ite *InvalidTransitionError
			require.True(t, errors.As(err, &ite))
			assert.Equal(t, from, ite.Current)
			assert.Equal(t, a, ite.Action)
			assert.Equal(t, from, b.Status, "failed transition must not change status")
		}
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	b := &Booking{Status: StatusConfirmed}
	err := b.Transition(ActionApprove)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approve")
	assert.Contains(t, err.Error(), "confirmed")
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusHold, InitialStatus(TypeStandard))
	assert.Equal(t, StatusPendingApproval, InitialStatus(TypeSpecial))
}

func TestCanTransition(t *testing.T) {
	b := &Booking{Status: StatusPendingApproval}
	assert.True(t, b.CanTransition(ActionApprove))
	assert.True(t, b.CanTransition(ActionReject))
	assert.False(t, b.CanTransition(ActionCheckIn))
	assert.Equal(t, StatusPendingApproval, b.Status)
}

func TestAvailableActions(t *testing.T) {
	b := &Booking{Status: StatusPendingApproval}
	assert.Equal(t, []BookingAction{ActionApprove, ActionReject}, b.AvailableActions())

	b.Status = StatusPendingPayment
	assert.Equal(t, []BookingAction{ActionCancel, ActionConfirmPayment}, b.AvailableActions())

	b.Status = StatusRefunded
	assert.Empty(t, b.AvailableActions())
}

func TestTerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	for _, terminal := range []BookingStatus{StatusCancelled, StatusRefunded} {
		b := &Booking{Status: terminal}
		for a := range transitions {
			assert.False(t, b.CanTransition(a), "%s should not leave %s", a, terminal)
		}
	}
}
