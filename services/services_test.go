package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"WardCare360/models"
	"WardCare360/notification"
	"WardCare360/repository"
	"WardCare360/upload"
	"WardCare360/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin  = models.StaffRef{ID: "A1", Name: "Asha", UserType: "admin"}
	doctor = models.StaffRef{ID: "D1", Name: "Dr. Rao", UserType: "doctor"}
	other  = models.StaffRef{ID: "D2", Name: "Dr. Sen", UserType: "doctor"}
	nurse  = models.StaffRef{ID: "N1", Name: "Nisha", UserType: "nurse"}
)

type fakeRenderer struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4\n" + html), nil
}

type fixture struct {
	store    *repository.Store
	renderer *fakeRenderer
	uploader *upload.MemoryUploader
	recorder *notification.Recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    repository.NewMemoryStore(),
		renderer: &fakeRenderer{},
		uploader: upload.NewMemoryUploader("/files"),
		recorder: &notification.Recorder{},
	}
	err := Init(Dependencies{
		Store:    f.store,
		Renderer: f.renderer,
		Uploader: f.uploader,
		Notifier: f.recorder,
	})
	require.NoError(t, err)
	return f
}

func assertKind(t *testing.T, err error, kind util.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, util.KindOf(err), err.Error())
}

// admitPatient creates a patient with an open admission assigned to doctor.
func admitPatient(t *testing.T, name string, pending float64) (*models.Patient, string) {
	t.Helper()
	ctx := context.Background()
	patient, err := CreatePatient(ctx, admin, PatientInput{
		Name:          name,
		Age:           40,
		Gender:        "Female",
		PendingAmount: pending,
		Admission:     &AdmissionInput{Reason: "Fever", Symptoms: "High temperature"},
	})
	require.NoError(t, err)
	admissionID := patient.AdmissionRecords[0].AdmissionID
	_, err = AssignDoctor(ctx, admin, patient.PatientID, admissionID, doctor)
	require.NoError(t, err)
	return patient, admissionID
}

func TestInitRequiresStore(t *testing.T) {
	err := Init(Dependencies{})
	assert.Error(t, err)
}

func TestStoreErrorMapping(t *testing.T) {
	assert.NoError(t, storeError(nil, util.PATIENT_NOT_FOUND))
	assertKind(t, storeError(repository.ErrNotFound, util.PATIENT_NOT_FOUND), util.KindNotFound)
	assertKind(t, storeError(repository.ErrStaleRevision, util.PATIENT_NOT_FOUND), util.KindConflict)
	assertKind(t, storeError(errors.New("boom"), util.PATIENT_NOT_FOUND), util.KindInternal)

	conflict := util.Conflict(util.ALREADY_ADMITTED)
	assert.Same(t, conflict, storeError(conflict, util.PATIENT_NOT_FOUND))
}

// racingPatients makes the first n saves fail as if another writer got there first.
type racingPatients struct {
	repository.PatientRepository
	mu     sync.Mutex
	stales int
}

func (r *racingPatients) Save(ctx context.Context, patient *models.Patient) error {
	r.mu.Lock()
	if r.stales > 0 {
		r.stales--
		r.mu.Unlock()
		return repository.ErrStaleRevision
	}
	r.mu.Unlock()
	return r.PatientRepository.Save(ctx, patient)
}

func TestMutatePatientRetriesStaleRevision(t *testing.T) {
	f := setup(t)
	patient, _ := admitPatient(t, "Retry", 0)
	racing := &racingPatients{PatientRepository: f.store.Patients, stales: maxSaveAttempts - 1}
	f.store.Patients = racing

	calls := 0
	updated, err := mutatePatient(context.Background(), patient.PatientID, admin, func(p *models.Patient) error {
		calls++
		p.Address = "Ward road"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, maxSaveAttempts, calls)
	assert.Equal(t, "Ward road", updated.Address)
}

func TestMutatePatientGivesUpAfterRetries(t *testing.T) {
	f := setup(t)
	patient, _ := admitPatient(t, "Retry", 0)
	f.store.Patients = &racingPatients{PatientRepository: f.store.Patients, stales: maxSaveAttempts}

	_, err := mutatePatient(context.Background(), patient.PatientID, admin, func(p *models.Patient) error { return nil })
	assertKind(t, err, util.KindConflict)
	assert.True(t, strings.Contains(err.Error(), util.PATIENT_UPDATE_CONFLICT))
}
