package services

import (
	"context"
	"errors"
	"strings"

	"WardCare360/metrics"
	"WardCare360/models"
	"WardCare360/repository"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TreatmentInput struct {
	Name        string `json:"name"`
	Instruction string `json:"instruction"`
	Dosage      string `json:"dosage"`
	Quantity    string `json:"quantity"`
	Frequency   string `json:"frequency"`
	Route       string `json:"route"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

func parseTreatmentType(value string) (models.TreatmentType, error) {
	t, ok := models.ParseTreatmentType(value)
	if !ok {
		return "", util.ValidationError(util.INVALID_TREATMENT_TYPE)
	}
	return t, nil
}

func OrderTreatment(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, treatmentType string, input TreatmentInput) (*models.TreatmentItem, error) {
	t, err := parseTreatmentType(treatmentType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" && strings.TrimSpace(input.Instruction) == "" {
		return nil, util.ValidationError(util.TREATMENT_NAME_REQUIRED)
	}
	item := models.TreatmentItem{
		ItemID:      primitive.NewObjectID().Hex(),
		Name:        strings.TrimSpace(input.Name),
		Instruction: strings.TrimSpace(input.Instruction),
		Dosage:      input.Dosage,
		Quantity:    input.Quantity,
		Frequency:   input.Frequency,
		Route:       input.Route,
		Date:        input.Date,
		Time:        input.Time,
		Status:      models.TreatmentPending,
		OrderedBy:   actor,
		OrderedAt:   now(),
		Source:      models.SourceDoctor,
	}
	_, err = mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, admissionID)
		if err != nil {
			return err
		}
		if err := checkDoctor(admission, actor); err != nil {
			return err
		}
		items := admission.Items(t)
		*items = append(*items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func AdministerTreatment(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, treatmentType string, itemID string, notes string) (*models.TreatmentItem, error) {
	t, err := parseTreatmentType(treatmentType)
	if err != nil {
		return nil, err
	}
	return transitionTreatment(ctx, actor, patientID, admissionID, t, itemID, t.DoneStatus(), notes)
}

func SkipTreatment(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, treatmentType string, itemID string, notes string) (*models.TreatmentItem, error) {
	t, err := parseTreatmentType(treatmentType)
	if err != nil {
		return nil, err
	}
	return transitionTreatment(ctx, actor, patientID, admissionID, t, itemID, models.TreatmentSkipped, notes)
}

/*
* Reject closed admissions up front
* The status write itself is a single targeted update that only matches a Pending item,
* so concurrent transitions on other items of the same admission are never lost
 */
func transitionTreatment(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, t models.TreatmentType, itemID string, status string, notes string) (*models.TreatmentItem, error) {
	patient, err := loadPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if _, err := findOpenAdmission(patient, admissionID); err != nil {
		return nil, err
	}
	transition := models.TreatmentTransition{
		Status:  status,
		ActedBy: actor,
		ActedAt: now(),
		Notes:   notes,
	}
	err = store.Patients.SetTreatmentStatus(ctx, patientID, admissionID, t, itemID, transition)
	switch {
	case errors.Is(err, repository.ErrNotPending):
		return nil, util.Conflict(util.TREATMENT_ALREADY_FINALIZED)
	case errors.Is(err, repository.ErrNotFound):
		return nil, util.NotFound(util.TREATMENT_ITEM_NOT_FOUND)
	case err != nil:
		log.Println("Error from patients.SetTreatmentStatus: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	invalidatePatient(ctx, patientID)
	metrics.RecordTreatmentTransition(string(t), status)
	log.WithFields(log.Fields{"patientId": patientID, "admissionId": admissionID, "itemId": itemID, "status": status}).Info("treatment item finalized")

	return findTreatmentItem(ctx, patientID, admissionID, t, itemID)
}

func findTreatmentItem(ctx context.Context, patientID string, admissionID string, t models.TreatmentType, itemID string) (*models.TreatmentItem, error) {
	patient, err := loadPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	admission, err := findAdmission(patient, admissionID)
	if err != nil {
		return nil, err
	}
	for _, item := range *admission.Items(t) {
		if item.ItemID == itemID {
			return &item, nil
		}
	}
	return nil, util.NotFound(util.TREATMENT_ITEM_NOT_FOUND)
}

// DeleteTreatment removes the item outright. Nothing is kept for audit.
func DeleteTreatment(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, treatmentType string, itemID string) error {
	t, err := parseTreatmentType(treatmentType)
	if err != nil {
		return err
	}
	patient, err := loadPatient(ctx, patientID)
	if err != nil {
		return err
	}
	admission, err := findOpenAdmission(patient, admissionID)
	if err != nil {
		return err
	}
	if err := checkDoctor(admission, actor); err != nil {
		return err
	}
	if err := store.Patients.PullTreatmentItem(ctx, patientID, admissionID, t, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return util.NotFound(util.TREATMENT_ITEM_NOT_FOUND)
		}
		log.Println("Error from patients.PullTreatmentItem: ", err)
		return util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	invalidatePatient(ctx, patientID)
	return nil
}
