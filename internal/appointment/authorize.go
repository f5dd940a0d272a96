package appointment

import "github.com/google/uuid"

// CanCancel reports whether the acting user is a party to the appointment:
// either the user behind the patient profile or the user behind the doctor
// profile.
func CanCancel(doctor *Doctor, patient *Patient, actingUserID uuid.UUID) bool {
	return patient.UserID == actingUserID || doctor.UserID == actingUserID
}

// CanComplete reports whether the acting user is the assigned doctor.
// Patients cannot complete their own consultation.
func CanComplete(doctor *Doctor, actingUserID uuid.UUID) bool {
	return doctor.UserID == actingUserID
}
