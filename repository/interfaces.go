package repository

import (
	"context"
	"errors"
	"time"

	"WardCare360/models"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrStaleRevision = errors.New("document revision is stale")
	ErrNotPending    = errors.New("treatment item is not pending")
)

type PatientQuery struct {
	Discharged *bool
	// DoctorID and SectionID match against the active admission.
	DoctorID  string
	SectionID string
	Active    bool
}

type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	Get(ctx context.Context, patientID string) (*models.Patient, error)
	List(ctx context.Context, query PatientQuery) ([]models.Patient, error)
	// Save replaces the document when the stored revision equals patient.Revision and
	// bumps patient.Revision on success.
	Save(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, patientID string) error
	// SetTreatmentStatus applies the transition only when the item is still Pending.
	SetTreatmentStatus(ctx context.Context, patientID, admissionID string, t models.TreatmentType, itemID string, tr models.TreatmentTransition) error
	PullTreatmentItem(ctx context.Context, patientID, admissionID string, t models.TreatmentType, itemID string) error
	ListAwaitingArchival(ctx context.Context) ([]models.Patient, error)
}

type HistoryRepository interface {
	Get(ctx context.Context, patientID string) (*models.PatientHistory, error)
	// AppendEntry is idempotent by admissionId and reports whether the entry was added.
	AppendEntry(ctx context.Context, patientID, name string, entry models.HistoryEntry) (bool, error)
}

type CounterRepository interface {
	Next(ctx context.Context, name string) (int, error)
}

type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	Get(ctx context.Context, sectionID string) (*models.Section, error)
	List(ctx context.Context) ([]models.Section, error)
}

type WardRepository interface {
	Create(ctx context.Context, ward *models.Ward) error
	Get(ctx context.Context, wardID string) (*models.Ward, error)
	List(ctx context.Context) ([]models.Ward, error)
	Save(ctx context.Context, ward *models.Ward) error
}

type EmergencyMedicationRepository interface {
	Create(ctx context.Context, med *models.EmergencyMedication) error
	Get(ctx context.Context, medicationID string) (*models.EmergencyMedication, error)
	List(ctx context.Context, status string) ([]models.EmergencyMedication, error)
	Save(ctx context.Context, med *models.EmergencyMedication) error
}

type InvestigationRepository interface {
	Create(ctx context.Context, inv *models.Investigation) error
	Get(ctx context.Context, investigationID string) (*models.Investigation, error)
	ListByAdmission(ctx context.Context, patientID, admissionID string) ([]models.Investigation, error)
	Save(ctx context.Context, inv *models.Investigation) error
}

type LabReportRepository interface {
	Create(ctx context.Context, report *models.LabReport) error
	ListByAdmission(ctx context.Context, admissionID string) ([]models.LabReport, error)
	ListByInvestigation(ctx context.Context, investigationID string) ([]models.LabReport, error)
}

type DraftRepository interface {
	Put(ctx context.Context, draft *models.DischargeDraft, ttl time.Duration) error
	Get(ctx context.Context, draftID string) (*models.DischargeDraft, error)
	Delete(ctx context.Context, draftID string) error
}

// Store bundles one implementation of every repository.
type Store struct {
	Patients       PatientRepository
	History        HistoryRepository
	Counters       CounterRepository
	Sections       SectionRepository
	Wards          WardRepository
	Emergency      EmergencyMedicationRepository
	Investigations InvestigationRepository
	LabReports     LabReportRepository
	Drafts         DraftRepository
}
