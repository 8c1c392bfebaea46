package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"WardCare360/models"
	"WardCare360/repository"
	"WardCare360/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePatientValidation(t *testing.T) {
	setup(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input PatientInput
	}{
		{"missing name", PatientInput{Gender: "Male"}},
		{"bad gender", PatientInput{Name: "Ravi", Gender: "x"}},
		{"negative age", PatientInput{Name: "Ravi", Gender: "Male", Age: -1}},
		{"negative balance", PatientInput{Name: "Ravi", Gender: "Male", PendingAmount: -5}},
		{"admission without reason", PatientInput{Name: "Ravi", Gender: "Male", Admission: &AdmissionInput{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreatePatient(ctx, admin, tc.input)
			assertKind(t, err, util.KindValidation)
		})
	}
}

func TestCreatePatientGeneratesCodeAndRejectsDuplicate(t *testing.T) {
	setup(t)
	ctx := context.Background()

	first, err := CreatePatient(ctx, admin, PatientInput{Name: "Ravi", Gender: "Male"})
	require.NoError(t, err)
	assert.Equal(t, "P00001", first.PatientID)
	assert.Empty(t, first.AdmissionRecords)

	_, err = CreatePatient(ctx, admin, PatientInput{PatientID: "P00001", Name: "Ravi", Gender: "Male"})
	assertKind(t, err, util.KindConflict)
}

func TestOPDNumbersUniqueUnderConcurrency(t *testing.T) {
	setup(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	numbers := []int{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			patient, err := CreatePatient(ctx, admin, PatientInput{
				Name:      "Concurrent",
				Gender:    "Other",
				Admission: &AdmissionInput{Reason: "Checkup"},
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers = append(numbers, patient.AdmissionRecords[0].OPDNumber)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, n)
	sort.Ints(numbers)
	for i := 1; i < len(numbers); i++ {
		assert.Greater(t, numbers[i], numbers[i-1])
	}
}

func TestAdmitRejectsSecondActiveAdmission(t *testing.T) {
	setup(t)
	ctx := context.Background()
	patient, _ := admitPatient(t, "Meena", 0)

	_, err := Admit(ctx, admin, patient.PatientID, AdmissionInput{Reason: "Again"})
	assertKind(t, err, util.KindConflict)

	_, err = Admit(ctx, admin, "P99999", AdmissionInput{Reason: "Nobody"})
	assertKind(t, err, util.KindNotFound)
}

func TestFetchPatientUsesCacheUntilInvalidated(t *testing.T) {
	setup(t)
	ctx := context.Background()
	patient, _ := admitPatient(t, "Cached", 0)

	fetched, err := FetchPatient(ctx, patient.PatientID)
	require.NoError(t, err)
	assert.Equal(t, "Cached", fetched.Name)

	name := "Renamed"
	_, err = UpdatePatient(ctx, admin, patient.PatientID, PatientUpdate{Name: &name})
	require.NoError(t, err)

	fetched, err = FetchPatient(ctx, patient.PatientID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Name)
}

func TestUpdatePatientValidation(t *testing.T) {
	setup(t)
	ctx := context.Background()
	patient, _ := admitPatient(t, "Valid", 0)

	empty := " "
	_, err := UpdatePatient(ctx, admin, patient.PatientID, PatientUpdate{Name: &empty})
	assertKind(t, err, util.KindValidation)

	negative := -1.0
	_, err = UpdatePatient(ctx, admin, patient.PatientID, PatientUpdate{PendingAmount: &negative})
	assertKind(t, err, util.KindValidation)
}

func TestListDoctorPatients(t *testing.T) {
	setup(t)
	ctx := context.Background()
	admitPatient(t, "Mine", 0)
	_, err := CreatePatient(ctx, admin, PatientInput{Name: "Unassigned", Gender: "Male", Admission: &AdmissionInput{Reason: "Cough"}})
	require.NoError(t, err)

	patients, err := ListDoctorPatients(ctx, doctor)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Mine", patients[0].Name)

	all, err := ListPatients(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// writeDuringRead commits a rename right after the first read leaves the store, the way a
// concurrent UpdatePatient would.
type writeDuringRead struct {
	repository.PatientRepository
	done bool
}

func (w *writeDuringRead) Get(ctx context.Context, patientID string) (*models.Patient, error) {
	patient, err := w.PatientRepository.Get(ctx, patientID)
	if err != nil || w.done {
		return patient, err
	}
	w.done = true
	current, err := w.PatientRepository.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	current.Name = "Renamed"
	if err := w.PatientRepository.Save(ctx, current); err != nil {
		return nil, err
	}
	invalidatePatient(ctx, patientID)
	return patient, nil
}

func TestFetchPatientDoesNotCacheRacedRead(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patient, _ := admitPatient(t, "Original", 0)
	f.store.Patients = &writeDuringRead{PatientRepository: f.store.Patients}

	fetched, err := FetchPatient(ctx, patient.PatientID)
	require.NoError(t, err)
	assert.Equal(t, "Original", fetched.Name)

	fetched, err = FetchPatient(ctx, patient.PatientID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Name)
}
