package services

import (
	"context"
	"testing"

	"WardCare360/models"
	"WardCare360/repository"
	"WardCare360/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestMedication(t *testing.T, patientID, admissionID string) *models.EmergencyMedication {
	t.Helper()
	med, err := RequestEmergencyMedication(context.Background(), nurse, EmergencyMedicationInput{
		PatientID:   patientID,
		AdmissionID: admissionID,
		Name:        "Adrenaline",
		Dosage:      "0.5mg",
		Route:       "IM",
		Reason:      "Anaphylaxis",
	})
	require.NoError(t, err)
	return med
}

func emergencyItems(t *testing.T, patientID string) []models.TreatmentItem {
	t.Helper()
	patient, err := loadPatient(context.Background(), patientID)
	require.NoError(t, err)
	out := []models.TreatmentItem{}
	for _, item := range patient.AdmissionRecords[0].Medications {
		if item.Source == models.SourceEmergency {
			out = append(out, item)
		}
	}
	return out
}

func TestRequestEmergencyMedication(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Emergency", 0)

	_, err := RequestEmergencyMedication(ctx, nurse, EmergencyMedicationInput{PatientID: patient.PatientID, AdmissionID: admissionID, Name: "x"})
	assertKind(t, err, util.KindValidation)

	med := requestMedication(t, patient.PatientID, admissionID)
	assert.Equal(t, models.EmergencyPending, med.Status)
	assert.Equal(t, nurse.ID, med.RequestedBy.ID)

	pending, err := ListEmergencyMedications(ctx, models.EmergencyPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	approved, err := ListEmergencyMedications(ctx, models.EmergencyApproved)
	require.NoError(t, err)
	assert.Empty(t, approved)

	sent := f.recorder.Sent()
	require.NotEmpty(t, sent)
	assert.Equal(t, "emergencyMedication.requested", sent[len(sent)-1].Event)
}

func TestReviewOnlyFromPending(t *testing.T) {
	setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Review", 0)
	med := requestMedication(t, patient.PatientID, admissionID)

	_, err := ReviewEmergencyMedication(ctx, admin, med.MedicationID, "Maybe", "")
	assertKind(t, err, util.KindValidation)

	reviewed, err := ReviewEmergencyMedication(ctx, admin, med.MedicationID, models.EmergencyRejected, "not needed")
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyRejected, reviewed.Status)
	require.NotNil(t, reviewed.AdminReview)

	_, err = ReviewEmergencyMedication(ctx, admin, med.MedicationID, models.EmergencyApproved, "")
	assertKind(t, err, util.KindConflict)

	_, err = DecideEmergencyMedication(ctx, doctor, med.MedicationID, true, "")
	assertKind(t, err, util.KindConflict)

	_, err = ReviewEmergencyMedication(ctx, admin, "missing", models.EmergencyApproved, "")
	assertKind(t, err, util.KindNotFound)
}

func TestDoctorApprovalCopiesOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "CopyOnce", 0)
	med := requestMedication(t, patient.PatientID, admissionID)

	_, err := ReviewEmergencyMedication(ctx, admin, med.MedicationID, models.EmergencyPendingDoctorApproval, "")
	require.NoError(t, err)
	events := []string{}
	for _, n := range f.recorder.Sent() {
		events = append(events, n.Event)
	}
	assert.Contains(t, events, "emergencyMedication.awaitingDoctor")
	assert.Empty(t, emergencyItems(t, patient.PatientID))

	decided, err := DecideEmergencyMedication(ctx, doctor, med.MedicationID, true, "go ahead")
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyApproved, decided.Status)
	assert.True(t, decided.CopiedToAdmission)

	items := emergencyItems(t, patient.PatientID)
	require.Len(t, items, 1)
	assert.Equal(t, decided.CopiedItemID, items[0].ItemID)
	assert.Equal(t, models.TreatmentPending, items[0].Status)
	assert.Equal(t, med.MedicationID, items[0].EmergencyMedicationID)

	_, err = DecideEmergencyMedication(ctx, doctor, med.MedicationID, true, "")
	assertKind(t, err, util.KindConflict)
	assert.Len(t, emergencyItems(t, patient.PatientID), 1)

	// A copy that landed before the medication save failed is reused.
	itemID, err := copyToAdmission(ctx, doctor, decided)
	require.NoError(t, err)
	assert.Equal(t, decided.CopiedItemID, itemID)
	assert.Len(t, emergencyItems(t, patient.PatientID), 1)
}

func TestDoctorDecisionAfterAdminApproval(t *testing.T) {
	setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "AdminFirst", 0)
	med := requestMedication(t, patient.PatientID, admissionID)

	_, err := ReviewEmergencyMedication(ctx, admin, med.MedicationID, models.EmergencyApproved, "")
	require.NoError(t, err)
	assert.Empty(t, emergencyItems(t, patient.PatientID))

	decided, err := DecideEmergencyMedication(ctx, doctor, med.MedicationID, true, "")
	require.NoError(t, err)
	assert.True(t, decided.ReadyForAdmission())
	assert.Len(t, emergencyItems(t, patient.PatientID), 1)
}

func TestDoctorRejection(t *testing.T) {
	setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Rejected", 0)
	med := requestMedication(t, patient.PatientID, admissionID)

	_, err := ReviewEmergencyMedication(ctx, admin, med.MedicationID, models.EmergencyPendingDoctorApproval, "")
	require.NoError(t, err)
	decided, err := DecideEmergencyMedication(ctx, doctor, med.MedicationID, false, "contraindicated")
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyRejected, decided.Status)
	assert.False(t, decided.CopiedToAdmission)
	assert.Empty(t, emergencyItems(t, patient.PatientID))
}

// interleavingEmergency lets another reviewer win the race right before the first Save.
type interleavingEmergency struct {
	repository.EmergencyMedicationRepository
	competing func(repo repository.EmergencyMedicationRepository)
}

func (e *interleavingEmergency) Save(ctx context.Context, med *models.EmergencyMedication) error {
	if e.competing != nil {
		competing := e.competing
		e.competing = nil
		competing(e.EmergencyMedicationRepository)
	}
	return e.EmergencyMedicationRepository.Save(ctx, med)
}

func TestReviewLosesToConcurrentReview(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Race", 0)
	med := requestMedication(t, patient.PatientID, admissionID)

	f.store.Emergency = &interleavingEmergency{
		EmergencyMedicationRepository: f.store.Emergency,
		competing: func(repo repository.EmergencyMedicationRepository) {
			current, err := repo.Get(ctx, med.MedicationID)
			require.NoError(t, err)
			current.Status = models.EmergencyRejected
			current.AdminReview = &models.Review{ReviewedBy: admin, Decision: models.EmergencyRejected}
			require.NoError(t, repo.Save(ctx, current))
		},
	}

	_, err := ReviewEmergencyMedication(ctx, admin, med.MedicationID, models.EmergencyApproved, "")
	assertKind(t, err, util.KindConflict)

	stored, err := f.store.Emergency.Get(ctx, med.MedicationID)
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyRejected, stored.Status)
}
