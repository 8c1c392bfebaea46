package models

import "time"

type DischargeSummaryFields struct {
	FinalDiagnosis       string `json:"finalDiagnosis" bson:"finalDiagnosis"`
	Complaints           string `json:"complaints" bson:"complaints"`
	ExaminationFindings  string `json:"examinationFindings" bson:"examinationFindings"`
	ConditionOnDischarge string `json:"conditionOnDischarge" bson:"conditionOnDischarge"`
	TreatmentGiven       string `json:"treatmentGiven,omitempty" bson:"treatmentGiven,omitempty"`
	Investigations       string `json:"investigations,omitempty" bson:"investigations,omitempty"`
	AdviceOnDischarge    string `json:"adviceOnDischarge,omitempty" bson:"adviceOnDischarge,omitempty"`
	FollowUpDate         string `json:"followUpDate,omitempty" bson:"followUpDate,omitempty"`
}

type DischargeSummary struct {
	IsGenerated            bool `json:"isGenerated" bson:"isGenerated"`
	DischargeSummaryFields `bson:",inline"`
	FileID                 string    `json:"fileId" bson:"fileId"`
	FileURL                string    `json:"fileUrl" bson:"fileUrl"`
	FileName               string    `json:"fileName" bson:"fileName"`
	Signature              string    `json:"signature" bson:"signature"`
	GeneratedBy            StaffRef  `json:"generatedBy" bson:"generatedBy"`
	GeneratedAt            time.Time `json:"generatedAt" bson:"generatedAt"`
}

// DischargeDraft is a rendered, uploaded preview waiting for the doctor's confirmation.
type DischargeDraft struct {
	DraftID     string                 `json:"draftId"`
	PatientID   string                 `json:"patientId"`
	AdmissionID string                 `json:"admissionId"`
	Doctor      StaffRef               `json:"doctor"`
	Fields      DischargeSummaryFields `json:"fields"`
	FileID      string                 `json:"fileId"`
	FileURL     string                 `json:"fileUrl"`
	FileName    string                 `json:"fileName"`
	PDFDigest   string                 `json:"pdfDigest"`
	Signature   string                 `json:"signature"`
	CreatedAt   time.Time              `json:"createdAt"`
	ExpiresAt   time.Time              `json:"expiresAt"`
}
