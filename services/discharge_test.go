package services

import (
	"context"
	"testing"
	"time"

	"WardCare360/models"
	"WardCare360/repository"
	"WardCare360/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyForDischarge(t *testing.T, patientID, admissionID string, amount interface{}) {
	t.Helper()
	_, err := SetDischargeCondition(context.Background(), doctor, patientID, admissionID, DischargeConditionInput{
		ConditionAtDischarge: models.ConditionDischarged,
		AmountToBePayed:      amount,
	})
	require.NoError(t, err)
}

func TestDischargeArchivesAdmission(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Priya", 1200)

	_, err := PromoteToInpatient(ctx, doctor, patient.PatientID, admissionID, "")
	require.NoError(t, err)
	_, err = AddClinicalEntry(ctx, nurse, patient.PatientID, admissionID, KindVitals, ClinicalEntryInput{Vital: &models.Vital{Temperature: "101F"}})
	require.NoError(t, err)
	_, err = AddClinicalEntry(ctx, doctor, patient.PatientID, admissionID, KindDoctorPrescriptions, ClinicalEntryInput{Medicine: &models.PrescribedMedicine{Name: "Dolo", Morning: "1", Days: 3}})
	require.NoError(t, err)
	med, err := OrderTreatment(ctx, doctor, patient.PatientID, admissionID, "medications", TreatmentInput{Name: "Dolo"})
	require.NoError(t, err)
	_, err = AddLabReport(ctx, nurse, LabReportInput{PatientID: patient.PatientID, AdmissionID: admissionID, TestName: "CBC", Result: "Normal"})
	require.NoError(t, err)
	readyForDischarge(t, patient.PatientID, admissionID, 500.0)

	before, err := loadPatient(ctx, patient.PatientID)
	require.NoError(t, err)
	live := before.AdmissionRecords[0]

	result, err := Discharge(ctx, doctor, patient.PatientID, admissionID)
	require.NoError(t, err)
	assert.True(t, result.Patient.Discharged)
	assert.Empty(t, result.Patient.AdmissionRecords)
	assert.Equal(t, live.OPDNumber, result.OPDNumber)
	assert.Equal(t, live.IPDNumber, result.IPDNumber)

	history, err := FetchHistory(ctx, patient.PatientID)
	require.NoError(t, err)
	require.Len(t, history.History, 1)
	entry := history.History[0]
	assert.Equal(t, admissionID, entry.AdmissionID)
	assert.Equal(t, 500.0, entry.AmountToBePayed)
	assert.Equal(t, 1200.0, entry.PreviousRemainingAmount)
	assert.Equal(t, models.AdmissionDischarged, entry.Status)
	assert.False(t, entry.IsActive)
	assert.NotNil(t, entry.DischargeDate)
	assert.Nil(t, entry.ArchivalBalance)
	assert.Equal(t, live.Vitals, entry.Vitals)
	assert.Equal(t, live.DoctorPrescriptions, entry.DoctorPrescriptions)
	require.Len(t, entry.Medications, 1)
	assert.Equal(t, med.ItemID, entry.Medications[0].ItemID)
	require.Len(t, entry.LabReports, 1)
	assert.Equal(t, "CBC", entry.LabReports[0].TestName)
	assert.Equal(t, nurse.Name, entry.LabReports[0].ReportedBy)

	sent := f.recorder.Sent()
	require.NotEmpty(t, sent)
	assert.Equal(t, "patient.discharged", sent[len(sent)-1].Event)
}

func TestDischargeRules(t *testing.T) {
	setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Rules", 0)

	_, err := Discharge(ctx, doctor, patient.PatientID, admissionID)
	assertKind(t, err, util.KindValidation)

	readyForDischarge(t, patient.PatientID, admissionID, 0.0)
	_, err = Discharge(ctx, other, patient.PatientID, admissionID)
	assertKind(t, err, util.KindNotAuthorized)

	_, err = Discharge(ctx, doctor, patient.PatientID, "missing")
	assertKind(t, err, util.KindNotFound)

	_, err = Discharge(ctx, doctor, patient.PatientID, admissionID)
	require.NoError(t, err)
	_, err = Discharge(ctx, doctor, patient.PatientID, admissionID)
	assertKind(t, err, util.KindNotFound)
}

func TestDischargeOneOfTwoAdmissionsKeepsPatientUndischarged(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Twice", 0)

	stored, err := f.store.Patients.Get(ctx, patient.PatientID)
	require.NoError(t, err)
	older := stored.AdmissionRecords[0]
	older.AdmissionID = "older-admission"
	older.IsActive = false
	stored.AdmissionRecords = append(stored.AdmissionRecords, older)
	require.NoError(t, f.store.Patients.Save(ctx, stored))

	readyForDischarge(t, patient.PatientID, admissionID, 10.0)
	result, err := Discharge(ctx, doctor, patient.PatientID, admissionID)
	require.NoError(t, err)
	assert.False(t, result.Patient.Discharged)
	require.Len(t, result.Patient.AdmissionRecords, 1)
	assert.Equal(t, "older-admission", result.Patient.AdmissionRecords[0].AdmissionID)
}

func TestReconcileArchivalCompletesHalfFinishedDischarge(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Halfway", 300)
	readyForDischarge(t, patient.PatientID, admissionID, 75.0)

	// Simulate a crash after the discharge mark was saved.
	stored, err := f.store.Patients.Get(ctx, patient.PatientID)
	require.NoError(t, err)
	dischargedAt := time.Now().UTC().Truncate(time.Millisecond)
	balance := stored.PendingAmount
	stored.AdmissionRecords[0].Status = models.AdmissionDischarged
	stored.AdmissionRecords[0].DischargeDate = &dischargedAt
	stored.AdmissionRecords[0].IsActive = false
	stored.AdmissionRecords[0].ArchivalBalance = &balance
	require.NoError(t, f.store.Patients.Save(ctx, stored))

	_, err = FetchHistory(ctx, patient.PatientID)
	assertKind(t, err, util.KindNotFound)

	report, err := ReconcileArchival(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Scanned: 1, Repaired: 1}, report)

	after, err := loadPatient(ctx, patient.PatientID)
	require.NoError(t, err)
	assert.True(t, after.Discharged)
	assert.Empty(t, after.AdmissionRecords)

	history, err := FetchHistory(ctx, patient.PatientID)
	require.NoError(t, err)
	require.Len(t, history.History, 1)
	assert.Equal(t, 300.0, history.History[0].PreviousRemainingAmount)
	assert.Equal(t, 75.0, history.History[0].AmountToBePayed)

	report, err = ReconcileArchival(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{}, report)
}

func TestReconcileSkipsAlreadyArchivedEntry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Spliced", 0)
	readyForDischarge(t, patient.PatientID, admissionID, 0.0)

	stored, err := f.store.Patients.Get(ctx, patient.PatientID)
	require.NoError(t, err)
	admission := stored.AdmissionRecords[0]
	dischargedAt := time.Now().UTC().Truncate(time.Millisecond)
	admission.Status = models.AdmissionDischarged
	admission.DischargeDate = &dischargedAt
	added, err := f.store.History.AppendEntry(ctx, stored.PatientID, stored.Name, models.HistoryEntry{AdmissionRecord: admission})
	require.NoError(t, err)
	require.True(t, added)
	stored.AdmissionRecords[0] = admission
	require.NoError(t, f.store.Patients.Save(ctx, stored))

	report, err := ReconcileArchival(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Repaired)

	history, err := FetchHistory(ctx, patient.PatientID)
	require.NoError(t, err)
	assert.Len(t, history.History, 1)
}

// reassigningPatients hands the admission to another doctor once the first read has happened.
type reassigningPatients struct {
	repository.PatientRepository
	reads    int
	reassign func(repo repository.PatientRepository)
}

func (r *reassigningPatients) Get(ctx context.Context, patientID string) (*models.Patient, error) {
	r.reads++
	if r.reads == 2 && r.reassign != nil {
		r.reassign(r.PatientRepository)
	}
	return r.PatientRepository.Get(ctx, patientID)
}

func TestDischargeRechecksDoctorOnSave(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, admissionID := admitPatient(t, "Handover", 0)
	readyForDischarge(t, patient.PatientID, admissionID, 0.0)

	other := models.StaffRef{ID: "D2", Name: "Dr. Iyer", UserType: "doctor"}
	f.store.Patients = &reassigningPatients{
		PatientRepository: f.store.Patients,
		reassign: func(repo repository.PatientRepository) {
			current, err := repo.Get(ctx, patient.PatientID)
			require.NoError(t, err)
			current.AdmissionRecords[0].Doctor = &other
			require.NoError(t, repo.Save(ctx, current))
		},
	}

	_, err := Discharge(ctx, doctor, patient.PatientID, admissionID)
	assertKind(t, err, util.KindNotAuthorized)

	stored, err := f.store.Patients.Get(ctx, patient.PatientID)
	require.NoError(t, err)
	require.Len(t, stored.AdmissionRecords, 1)
	assert.NotEqual(t, models.AdmissionDischarged, stored.AdmissionRecords[0].Status)
	assert.Equal(t, other.ID, stored.AdmissionRecords[0].Doctor.ID)
}
