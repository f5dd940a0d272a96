package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPatientAppointment(t *testing.T) {
	body, err := Render(TemplatePatientAppointment, map[string]any{
		"patientName":           "Sam Porter",
		"doctorName":            "Hall",
		"appointmentTime":       "2025-03-10 10:00:00",
		"meetingLink":           "https://meet.jit.si/health-abc1234def",
		"purposeOfConsultation": "follow-up",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Sam Porter")
	assert.Contains(t, body, "Dr. Hall")
	assert.Contains(t, body, "https://meet.jit.si/health-abc1234def")
	assert.Contains(t, body, "follow-up")
}

func TestRenderCancellationNamesBothParties(t *testing.T) {
	body, err := Render(TemplateAppointmentCancellation, map[string]any{
		"recipientName":      "Sam Porter",
		"cancelingPartyName": "Dr. Hall",
		"doctorName":         "Hall",
		"patientFullName":    "Sam Porter",
		"appointmentTime":    "2025-03-10 10:00:00",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "cancelled by Dr. Hall")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("no-such-template", nil)
	assert.Error(t, err)
}

func TestRenderEscapesHTML(t *testing.T) {
	body, err := Render(TemplatePatientAppointment, map[string]any{
		"patientName":     "<script>alert(1)</script>",
		"doctorName":      "Hall",
		"appointmentTime": "2025-03-10 10:00:00",
		"meetingLink":     "https://meet.jit.si/health-abc1234def",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
