package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PatientHistory struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PatientID string             `json:"patientId" bson:"patientId"`
	Name      string             `json:"name" bson:"name"`
	History   []HistoryEntry     `json:"history" bson:"history"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (h *PatientHistory) Entry(admissionID string) *HistoryEntry {
	for i := range h.History {
		if h.History[i].AdmissionID == admissionID {
			return &h.History[i]
		}
	}
	return nil
}

// HistoryEntry is an inline snapshot of the discharged admission plus archival fields.
type HistoryEntry struct {
	AdmissionRecord         `bson:",inline"`
	PreviousRemainingAmount float64                   `json:"previousRemainingAmount" bson:"previousRemainingAmount"`
	LabReports              []LabReportSnapshot       `json:"labReports" bson:"labReports"`
	ArchivedSummary         *ArchivedDischargeSummary `json:"archivedDischargeSummary,omitempty" bson:"archivedDischargeSummary,omitempty"`
	ArchivedAt              time.Time                 `json:"archivedAt" bson:"archivedAt"`
}

type LabReportSnapshot struct {
	ReportID        string    `json:"reportId" bson:"reportId"`
	InvestigationID string    `json:"investigationId,omitempty" bson:"investigationId,omitempty"`
	TestName        string    `json:"testName" bson:"testName"`
	Result          string    `json:"result" bson:"result"`
	Unit            string    `json:"unit,omitempty" bson:"unit,omitempty"`
	NormalRange     string    `json:"normalRange,omitempty" bson:"normalRange,omitempty"`
	FileURL         string    `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	ReportedBy      string    `json:"reportedBy" bson:"reportedBy"`
	ReportedAt      time.Time `json:"reportedAt" bson:"reportedAt"`
}

type ArchivedDischargeSummary struct {
	DischargeSummary `bson:",inline"`
	ArchivedAt       time.Time `json:"archivedAt" bson:"archivedAt"`
	ArchivedAtIST    string    `json:"archivedAtIST" bson:"archivedAtIST"`
	ArchiveReason    string    `json:"archiveReason" bson:"archiveReason"`
}
