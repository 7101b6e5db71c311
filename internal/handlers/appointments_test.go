package handlers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentverse/talentverse-backend/internal/models"
)

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv(t)
	f := env.setupExchange(t, models.ProposalStatusAccepted)

	meeting := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	w := env.request(t, "POST", fmt.Sprintf("/api/proposals/%d/appointments", f.proposal.ID), f.recipientToken, map[string]interface{}{
		"meetingTime": meeting.Format(time.RFC3339),
		"meetingLink": "https://meet.example.com/abc",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var appt models.Appointment
	decodeData(t, decodeEnvelope(t, w), &appt)
	assert.Equal(t, f.proposal.ID, appt.ProposalID)
	assert.True(t, appt.MeetingTime.Equal(meeting))
}

func TestCreateAppointment_RejectsPastTime(t *testing.T) {
	env := newTestEnv(t)
	f := env.setupExchange(t, models.ProposalStatusAccepted)

	w := env.request(t, "POST", fmt.Sprintf("/api/proposals/%d/appointments", f.proposal.ID), f.proposerToken, map[string]interface{}{
		"meetingTime": time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, 400, w.Code)
}

func TestCreateAppointment_AcceptedProposalsOnly(t *testing.T) {
	env := newTestEnv(t)
	f := env.setupExchange(t, models.ProposalStatusPending)

	w := env.request(t, "POST", fmt.Sprintf("/api/proposals/%d/appointments", f.proposal.ID), f.proposerToken, map[string]interface{}{
		"meetingTime": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, 400, w.Code)
}

func TestListMyAppointments(t *testing.T) {
	env := newTestEnv(t)
	f := env.setupExchange(t, models.ProposalStatusAccepted)
	outsider := env.createUser(t, "outsider", "outsider@x.com", "Secret1!", false)

	require.NoError(t, env.db.Create(&models.Appointment{
		ProposalID:  f.proposal.ID,
		MeetingTime: time.Now().Add(24 * time.Hour),
	}).Error)

	for _, token := range []string{f.proposerToken, f.recipientToken} {
		w := env.request(t, "GET", "/api/appointments", token, nil)
		require.Equal(t, 200, w.Code)
		var appts []models.Appointment
		decodeData(t, decodeEnvelope(t, w), &appts)
		assert.Len(t, appts, 1)
	}

	w := env.request(t, "GET", "/api/appointments", env.tokenFor(t, outsider), nil)
	require.Equal(t, 200, w.Code)
	var appts []models.Appointment
	decodeData(t, decodeEnvelope(t, w), &appts)
	assert.Empty(t, appts)
}
