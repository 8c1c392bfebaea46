package models

import "time"

// Emergency medication statuses
const (
	EmergencyPending               = "Pending"
	EmergencyApproved              = "Approved"
	EmergencyRejected              = "Rejected"
	EmergencyPendingDoctorApproval = "PendingDoctorApproval"
)

type EmergencyMedication struct {
	MedicationID      string          `json:"medicationId" bson:"medicationId"`
	PatientID         string          `json:"patientId" bson:"patientId"`
	AdmissionID       string          `json:"admissionId" bson:"admissionId"`
	Name              string          `json:"name" bson:"name"`
	Dosage            string          `json:"dosage" bson:"dosage"`
	Route             string          `json:"route,omitempty" bson:"route,omitempty"`
	Frequency         string          `json:"frequency,omitempty" bson:"frequency,omitempty"`
	Reason            string          `json:"reason" bson:"reason"`
	Status            string          `json:"status" bson:"status"`
	RequestedBy       StaffRef        `json:"requestedBy" bson:"requestedBy"`
	AdminReview       *Review         `json:"adminReview,omitempty" bson:"adminReview,omitempty"`
	DoctorApproval    *DoctorApproval `json:"doctorApproval,omitempty" bson:"doctorApproval,omitempty"`
	CopiedToAdmission bool            `json:"copiedToAdmission" bson:"copiedToAdmission"`
	CopiedItemID      string          `json:"copiedItemId,omitempty" bson:"copiedItemId,omitempty"`
	Revision          int64           `json:"revision" bson:"revision"`
	CreatedAt         time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt" bson:"updatedAt"`
}

type Review struct {
	ReviewedBy StaffRef  `json:"reviewedBy" bson:"reviewedBy"`
	Decision   string    `json:"decision" bson:"decision"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	ReviewedAt time.Time `json:"reviewedAt" bson:"reviewedAt"`
}

type DoctorApproval struct {
	Approved  bool      `json:"approved" bson:"approved"`
	Doctor    StaffRef  `json:"doctor" bson:"doctor"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	DecidedAt time.Time `json:"decidedAt" bson:"decidedAt"`
}

// ReadyForAdmission reports whether both approvals are in place.
func (m *EmergencyMedication) ReadyForAdmission() bool {
	return m.Status == EmergencyApproved && m.DoctorApproval != nil && m.DoctorApproval.Approved
}
