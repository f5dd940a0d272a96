package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names referenced by producers.
const (
	TemplatePatientAppointment      = "patient-appointment"
	TemplateDoctorAppointment       = "doctor-appointment"
	TemplateAppointmentCancellation = "appointment-cancellation"
	TemplateAppointmentReminder     = "appointment-reminder"
)

var templates = template.Must(template.New("notify").Parse(`
{{define "patient-appointment"}}
<p>Dear {{.patientName}},</p>
<p>Your appointment with Dr. {{.doctorName}} is confirmed for {{.appointmentTime}}.</p>
{{if .purposeOfConsultation}}<p>Purpose: {{.purposeOfConsultation}}</p>{{end}}
<p>Join the consultation here: <a href="{{.meetingLink}}">{{.meetingLink}}</a></p>
{{end}}

{{define "doctor-appointment"}}
<p>Dear Dr. {{.doctorName}},</p>
<p>{{.patientFullName}} booked a consultation for {{.appointmentTime}}.</p>
{{if .initialSymptoms}}<p>Reported symptoms: {{.initialSymptoms}}</p>{{end}}
{{if .purposeOfConsultation}}<p>Purpose: {{.purposeOfConsultation}}</p>{{end}}
<p>Meeting link: <a href="{{.meetingLink}}">{{.meetingLink}}</a></p>
{{end}}

{{define "appointment-cancellation"}}
<p>Dear {{.recipientName}},</p>
<p>The appointment between Dr. {{.doctorName}} and {{.patientFullName}} on {{.appointmentTime}}
was cancelled by {{.cancelingPartyName}}.</p>
{{end}}

{{define "appointment-reminder"}}
<p>Dear {{.patientName}},</p>
<p>This is a reminder: your appointment with Dr. {{.doctorName}} starts at {{.appointmentTime}}.</p>
<p>Join here: <a href="{{.meetingLink}}">{{.meetingLink}}</a></p>
{{end}}
`))

// Render produces the HTML body for a named template.
func Render(name string, vars map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
