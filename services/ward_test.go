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

func TestCreateSectionAndWardValidation(t *testing.T) {
	setup(t)
	ctx := context.Background()

	_, err := CreateSection(ctx, admin, SectionInput{Name: "", Beds: 2})
	assertKind(t, err, util.KindValidation)
	_, err = CreateSection(ctx, admin, SectionInput{Name: "ICU", Beds: 0})
	assertKind(t, err, util.KindValidation)

	_, err = CreateSection(ctx, admin, SectionInput{Name: "ICU", Type: "Critical", Beds: 6})
	require.NoError(t, err)
	_, err = CreateSection(ctx, admin, SectionInput{Name: "ICU", Type: "Critical", Beds: 6})
	assertKind(t, err, util.KindConflict)

	_, err = CreateWard(ctx, admin, WardInput{Name: "East", TotalBeds: 3, SectionID: "missing"})
	assertKind(t, err, util.KindNotFound)
	_, err = CreateWard(ctx, admin, WardInput{Name: "East", TotalBeds: -1})
	assertKind(t, err, util.KindValidation)
}

func TestSyncWardsWithSections(t *testing.T) {
	setup(t)
	ctx := context.Background()
	general, err := CreateSection(ctx, admin, SectionInput{Name: "General", Type: "General", Beds: 10})
	require.NoError(t, err)
	_, err = CreateSection(ctx, admin, SectionInput{Name: "ICU", Type: "Critical", Beds: 4})
	require.NoError(t, err)
	_, err = CreateWard(ctx, admin, WardInput{Name: "General", Type: "General", TotalBeds: 8, SectionID: general.SectionID})
	require.NoError(t, err)

	result, err := SyncWardsWithSections(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Created: 1, Updated: 1}, result)

	wards, err := ListWards(ctx)
	require.NoError(t, err)
	require.Len(t, wards, 2)
	for _, w := range wards {
		if w.Name == "General" {
			assert.Equal(t, 10, w.TotalBeds)
		}
	}

	result, err = SyncWardsWithSections(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, result)
}

func TestWardOccupancyMarksOccupiedBed(t *testing.T) {
	setup(t)
	ctx := context.Background()
	section, err := CreateSection(ctx, admin, SectionInput{Name: "W", Type: "General", Beds: 3})
	require.NoError(t, err)
	patient, admissionID := admitPatient(t, "Occupant", 0)
	_, err = AssignBed(ctx, doctor, patient.PatientID, admissionID, section.SectionID, 2)
	require.NoError(t, err)

	occupancy, err := WardOccupancy(ctx)
	require.NoError(t, err)
	require.Len(t, occupancy, 1)
	ward := occupancy[0]
	assert.Equal(t, 3, ward.TotalBeds)
	assert.Equal(t, 1, ward.Occupied)
	assert.Equal(t, 2, ward.Available)
	require.Len(t, ward.Beds, 3)
	assert.False(t, ward.Beds[0].Occupied)
	assert.True(t, ward.Beds[1].Occupied)
	assert.Equal(t, patient.PatientID, ward.Beds[1].PatientID)
	assert.Equal(t, admissionID, ward.Beds[1].AdmissionID)
	assert.False(t, ward.Beds[2].Occupied)
}

func TestWardOccupancyFirstMatchWins(t *testing.T) {
	setup(t)
	ctx := context.Background()
	section, err := CreateSection(ctx, admin, SectionInput{Name: "Shared", Beds: 2})
	require.NoError(t, err)
	first, firstAdmission := admitPatient(t, "First", 0)
	second, secondAdmission := admitPatient(t, "Second", 0)
	_, err = AssignBed(ctx, doctor, first.PatientID, firstAdmission, section.SectionID, 1)
	require.NoError(t, err)
	_, err = AssignBed(ctx, doctor, second.PatientID, secondAdmission, section.SectionID, 1)
	require.NoError(t, err)

	occupancy, err := WardOccupancy(ctx)
	require.NoError(t, err)
	require.Len(t, occupancy, 1)
	assert.Equal(t, 1, occupancy[0].Occupied)
	assert.Equal(t, first.PatientID, occupancy[0].Beds[0].PatientID)
}

func TestSyncLinksUnlinkedWardBySectionName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	section, err := CreateSection(ctx, admin, SectionInput{Name: "Maternity", Beds: 2})
	require.NoError(t, err)
	ward, err := CreateWard(ctx, admin, WardInput{Name: "Maternity", TotalBeds: 2})
	require.NoError(t, err)
	patient, admissionID := admitPatient(t, "Mother", 0)
	_, err = AssignBed(ctx, doctor, patient.PatientID, admissionID, section.SectionID, 2)
	require.NoError(t, err)

	occupancy, err := WardOccupancy(ctx)
	require.NoError(t, err)
	require.Len(t, occupancy, 1)
	assert.True(t, occupancy[0].Beds[1].Occupied)

	stored, err := f.store.Wards.Get(ctx, ward.WardID)
	require.NoError(t, err)
	assert.Equal(t, section.SectionID, stored.SectionID)
}

func TestNurseAssignments(t *testing.T) {
	setup(t)
	ctx := context.Background()
	ward, err := CreateWard(ctx, admin, WardInput{Name: "North", TotalBeds: 4})
	require.NoError(t, err)

	in := NurseAssignmentInput{NurseID: nurse.ID, NurseName: nurse.Name, Shift: models.ShiftMorning}
	_, err = AssignNurse(ctx, admin, ward.WardID, NurseAssignmentInput{NurseID: nurse.ID, Shift: "Noon"})
	assertKind(t, err, util.KindValidation)

	morning, err := AssignNurse(ctx, admin, ward.WardID, in)
	require.NoError(t, err)
	_, err = AssignNurse(ctx, admin, ward.WardID, in)
	assertKind(t, err, util.KindConflict)

	in.Shift = models.ShiftNight
	_, err = AssignNurse(ctx, admin, ward.WardID, in)
	require.NoError(t, err)

	wards, err := ListNurseWards(ctx, nurse.ID)
	require.NoError(t, err)
	assert.Len(t, wards, 2)

	ended, err := EndNurseAssignment(ctx, admin, ward.WardID, morning.AssignmentID)
	require.NoError(t, err)
	assert.False(t, ended.IsActive)
	assert.NotNil(t, ended.EndedAt)
	_, err = EndNurseAssignment(ctx, admin, ward.WardID, morning.AssignmentID)
	assertKind(t, err, util.KindNotFound)

	wards, err = ListNurseWards(ctx, nurse.ID)
	require.NoError(t, err)
	require.Len(t, wards, 1)
	assert.Equal(t, models.ShiftNight, wards[0].Shift)

	in.Shift = models.ShiftMorning
	_, err = AssignNurse(ctx, admin, ward.WardID, in)
	assert.NoError(t, err)
}

// interleavingWards runs a competing write right before the first Save reaches the store.
type interleavingWards struct {
	repository.WardRepository
	competing func(repo repository.WardRepository)
}

func (w *interleavingWards) Save(ctx context.Context, ward *models.Ward) error {
	if w.competing != nil {
		competing := w.competing
		w.competing = nil
		competing(w.WardRepository)
	}
	return w.WardRepository.Save(ctx, ward)
}

func TestAssignNurseKeepsConcurrentAssignment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ward, err := CreateWard(ctx, admin, WardInput{Name: "North", Type: "General", TotalBeds: 2})
	require.NoError(t, err)

	f.store.Wards = &interleavingWards{
		WardRepository: f.store.Wards,
		competing: func(repo repository.WardRepository) {
			current, err := repo.Get(ctx, ward.WardID)
			require.NoError(t, err)
			current.NurseAssignments = append(current.NurseAssignments, models.NurseAssignment{
				AssignmentID: "other", NurseID: "N2", Shift: models.ShiftNight, IsActive: true,
			})
			require.NoError(t, repo.Save(ctx, current))
		},
	}

	assignment, err := AssignNurse(ctx, admin, ward.WardID, NurseAssignmentInput{NurseID: nurse.ID, Shift: models.ShiftMorning})
	require.NoError(t, err)

	stored, err := f.store.Wards.Get(ctx, ward.WardID)
	require.NoError(t, err)
	require.Len(t, stored.NurseAssignments, 2)
	ids := []string{stored.NurseAssignments[0].AssignmentID, stored.NurseAssignments[1].AssignmentID}
	assert.ElementsMatch(t, []string{"other", assignment.AssignmentID}, ids)
}
