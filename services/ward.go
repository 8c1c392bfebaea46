package services

import (
	"context"
	"errors"
	"strings"

	"WardCare360/models"
	"WardCare360/repository"
	"WardCare360/util"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SectionInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Beds int    `json:"beds"`
}

type WardInput struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	TotalBeds int    `json:"totalBeds"`
	SectionID string `json:"sectionId"`
}

type NurseAssignmentInput struct {
	NurseID   string `json:"nurseId" binding:"required"`
	NurseName string `json:"nurseName"`
	Shift     string `json:"shift" binding:"required,oneof=Morning Evening Night"`
}

type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type NurseWard struct {
	WardID       string `json:"wardId"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	TotalBeds    int    `json:"totalBeds"`
	AssignmentID string `json:"assignmentId"`
	Shift        string `json:"shift"`
}

func CreateSection(ctx context.Context, actor models.StaffRef, input SectionInput) (*models.Section, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, util.ValidationError(util.NAME_REQUIRED)
	}
	if input.Beds <= 0 {
		return nil, util.ValidationError(util.INVALID_TOTAL_BEDS)
	}
	section := &models.Section{
		SectionID: primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(input.Name),
		Type:      input.Type,
		Beds:      input.Beds,
		CreatedAt: now(),
		CreatedBy: actor.ID,
	}
	if err := store.Sections.Create(ctx, section); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.SECTION_ALREADY_EXISTS)
		}
		log.Println("Error from sections.Create: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return section, nil
}

func ListSections(ctx context.Context) ([]models.Section, error) {
	sections, err := store.Sections.List(ctx)
	if err != nil {
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return sections, nil
}

func CreateWard(ctx context.Context, actor models.StaffRef, input WardInput) (*models.Ward, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, util.ValidationError(util.NAME_REQUIRED)
	}
	if input.TotalBeds <= 0 {
		return nil, util.ValidationError(util.INVALID_TOTAL_BEDS)
	}
	if input.SectionID != "" {
		if _, err := store.Sections.Get(ctx, input.SectionID); err != nil {
			return nil, storeError(err, util.SECTION_NOT_FOUND)
		}
	}
	created := now()
	ward := &models.Ward{
		WardID:           primitive.NewObjectID().Hex(),
		Name:             strings.TrimSpace(input.Name),
		Type:             input.Type,
		TotalBeds:        input.TotalBeds,
		SectionID:        input.SectionID,
		NurseAssignments: []models.NurseAssignment{},
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	if err := store.Wards.Create(ctx, ward); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.WARD_ALREADY_EXISTS)
		}
		log.Println("Error from wards.Create: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return ward, nil
}

func ListWards(ctx context.Context) ([]models.Ward, error) {
	wards, err := store.Wards.List(ctx)
	if err != nil {
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return wards, nil
}

/*
* Compare sections and wards by name
* Create a ward for every section that has none
* Correct totalBeds and the section link where they drifted
 */
func SyncWardsWithSections(ctx context.Context) (SyncResult, error) {
	result := SyncResult{}
	sections, err := store.Sections.List(ctx)
	if err != nil {
		return result, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	wards, err := store.Wards.List(ctx)
	if err != nil {
		return result, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	byName := map[string]*models.Ward{}
	for i := range wards {
		byName[strings.ToLower(wards[i].Name)] = &wards[i]
	}
	for _, section := range sections {
		ward, ok := byName[strings.ToLower(section.Name)]
		if !ok {
			created := now()
			ward = &models.Ward{
				WardID:           primitive.NewObjectID().Hex(),
				Name:             section.Name,
				Type:             section.Type,
				TotalBeds:        section.Beds,
				SectionID:        section.SectionID,
				NurseAssignments: []models.NurseAssignment{},
				CreatedAt:        created,
				UpdatedAt:        created,
			}
			err := store.Wards.Create(ctx, ward)
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			if err != nil {
				log.Println("Error from wards.Create while syncing: ", err)
				return result, util.Internal(util.SOMETHING_WENT_WRONG, err)
			}
			result.Created++
			continue
		}
		if ward.TotalBeds == section.Beds && ward.SectionID == section.SectionID {
			continue
		}
		_, err := mutateWard(ctx, ward.WardID, func(w *models.Ward) error {
			w.TotalBeds = section.Beds
			w.SectionID = section.SectionID
			return nil
		})
		if err != nil {
			log.Println("Error from wards.Save while syncing: ", err)
			return result, err
		}
		result.Updated++
	}
	if result.Created > 0 || result.Updated > 0 {
		log.WithFields(log.Fields{"created": result.Created, "updated": result.Updated}).Info("wards synced with sections")
	}
	return result, nil
}

// AssignNurse lets a nurse hold several shifts, but the same nurse and shift only once per ward.
func AssignNurse(ctx context.Context, actor models.StaffRef, wardID string, input NurseAssignmentInput) (*models.NurseAssignment, error) {
	if input.NurseID == "" {
		return nil, util.ValidationError(util.NURSE_ID_REQUIRED)
	}
	if !models.IsShift(input.Shift) {
		return nil, util.ValidationError(util.INVALID_SHIFT)
	}
	var assignment models.NurseAssignment
	_, err := mutateWard(ctx, wardID, func(ward *models.Ward) error {
		for _, a := range ward.NurseAssignments {
			if a.IsActive && a.NurseID == input.NurseID && a.Shift == input.Shift {
				return util.Conflict(util.NURSE_ALREADY_ASSIGNED)
			}
		}
		assignment = models.NurseAssignment{
			AssignmentID: uuid.NewString(),
			NurseID:      input.NurseID,
			NurseName:    input.NurseName,
			Shift:        input.Shift,
			IsActive:     true,
			AssignedBy:   actor.ID,
			AssignedAt:   now(),
		}
		ward.NurseAssignments = append(ward.NurseAssignments, assignment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func EndNurseAssignment(ctx context.Context, actor models.StaffRef, wardID string, assignmentID string) (*models.NurseAssignment, error) {
	var ended models.NurseAssignment
	_, err := mutateWard(ctx, wardID, func(ward *models.Ward) error {
		for i := range ward.NurseAssignments {
			a := &ward.NurseAssignments[i]
			if a.AssignmentID != assignmentID || !a.IsActive {
				continue
			}
			endedAt := now()
			a.IsActive = false
			a.EndedAt = &endedAt
			ended = *a
			return nil
		}
		return util.NotFound(util.ASSIGNMENT_NOT_FOUND)
	})
	if err != nil {
		return nil, err
	}
	return &ended, nil
}

func ListNurseWards(ctx context.Context, nurseID string) ([]NurseWard, error) {
	wards, err := store.Wards.List(ctx)
	if err != nil {
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	out := []NurseWard{}
	for _, w := range wards {
		for _, a := range w.NurseAssignments {
			if a.IsActive && a.NurseID == nurseID {
				out = append(out, NurseWard{
					WardID:       w.WardID,
					Name:         w.Name,
					Type:         w.Type,
					TotalBeds:    w.TotalBeds,
					AssignmentID: a.AssignmentID,
					Shift:        a.Shift,
				})
			}
		}
	}
	return out, nil
}

type bedKey struct {
	section string
	bed     int
}

/*
* Sync wards first so every section is represented
* Index non-discharged patients by the section and bed of their active admission, first match wins
* Walk beds 1..totalBeds of every ward against that index
 */
func WardOccupancy(ctx context.Context) ([]models.WardOccupancy, error) {
	if _, err := SyncWardsWithSections(ctx); err != nil {
		return nil, err
	}
	wards, err := store.Wards.List(ctx)
	if err != nil {
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	discharged := false
	patients, err := store.Patients.List(ctx, repository.PatientQuery{Discharged: &discharged, Active: true})
	if err != nil {
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}

	byID := map[bedKey]models.BedStatus{}
	byName := map[bedKey]models.BedStatus{}
	for i := range patients {
		admission := patients[i].ActiveAdmission()
		if admission == nil || admission.Section == nil || admission.BedNumber == 0 {
			continue
		}
		occupant := models.BedStatus{
			BedNumber:   admission.BedNumber,
			Occupied:    true,
			PatientID:   patients[i].PatientID,
			PatientName: patients[i].Name,
			AdmissionID: admission.AdmissionID,
		}
		idKey := bedKey{section: admission.Section.ID, bed: admission.BedNumber}
		if _, taken := byID[idKey]; !taken {
			byID[idKey] = occupant
		}
		nameKey := bedKey{section: strings.ToLower(admission.Section.Name), bed: admission.BedNumber}
		if _, taken := byName[nameKey]; !taken {
			byName[nameKey] = occupant
		}
	}

	out := make([]models.WardOccupancy, 0, len(wards))
	for _, w := range wards {
		view := models.WardOccupancy{
			WardID:       w.WardID,
			Name:         w.Name,
			Type:         w.Type,
			SectionID:    w.SectionID,
			TotalBeds:    w.TotalBeds,
			Beds:         make([]models.BedStatus, 0, w.TotalBeds),
			ActiveNurses: []models.NurseAssignment{},
		}
		for bed := 1; bed <= w.TotalBeds; bed++ {
			var occupant models.BedStatus
			var ok bool
			if w.SectionID != "" {
				occupant, ok = byID[bedKey{section: w.SectionID, bed: bed}]
			} else {
				occupant, ok = byName[bedKey{section: strings.ToLower(w.Name), bed: bed}]
			}
			if !ok {
				occupant = models.BedStatus{BedNumber: bed}
			} else {
				view.Occupied++
			}
			view.Beds = append(view.Beds, occupant)
		}
		view.Available = view.TotalBeds - view.Occupied
		for _, a := range w.NurseAssignments {
			if a.IsActive {
				view.ActiveNurses = append(view.ActiveNurses, a)
			}
		}
		out = append(out, view)
	}
	return out, nil
}
