package models

import "time"

// Investigation statuses
const (
	InvestigationOrdered   = "Ordered"
	InvestigationCompleted = "Completed"
)

type Investigation struct {
	InvestigationID string    `json:"investigationId" bson:"investigationId"`
	PatientID       string    `json:"patientId" bson:"patientId"`
	AdmissionID     string    `json:"admissionId" bson:"admissionId"`
	Tests           []string  `json:"tests" bson:"tests"`
	Priority        string    `json:"priority" bson:"priority"`
	Notes           string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Status          string    `json:"status" bson:"status"`
	OrderedBy       StaffRef  `json:"orderedBy" bson:"orderedBy"`
	OrderedAt       time.Time `json:"orderedAt" bson:"orderedAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

type LabReport struct {
	ReportID        string    `json:"reportId" bson:"reportId"`
	InvestigationID string    `json:"investigationId,omitempty" bson:"investigationId,omitempty"`
	PatientID       string    `json:"patientId" bson:"patientId"`
	AdmissionID     string    `json:"admissionId" bson:"admissionId"`
	TestName        string    `json:"testName" bson:"testName"`
	Result          string    `json:"result" bson:"result"`
	Unit            string    `json:"unit,omitempty" bson:"unit,omitempty"`
	NormalRange     string    `json:"normalRange,omitempty" bson:"normalRange,omitempty"`
	FileURL         string    `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	ReportedBy      StaffRef  `json:"reportedBy" bson:"reportedBy"`
	ReportedAt      time.Time `json:"reportedAt" bson:"reportedAt"`
}

func (r LabReport) Snapshot() LabReportSnapshot {
	return LabReportSnapshot{
		ReportID:        r.ReportID,
		InvestigationID: r.InvestigationID,
		TestName:        r.TestName,
		Result:          r.Result,
		Unit:            r.Unit,
		NormalRange:     r.NormalRange,
		FileURL:         r.FileURL,
		ReportedBy:      r.ReportedBy.Name,
		ReportedAt:      r.ReportedAt,
	}
}

type Counter struct {
	Name string `json:"name" bson:"name"`
	Seq  int    `json:"seq" bson:"seq"`
}
