package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"WardCare360/metrics"
	"WardCare360/models"
	"WardCare360/repository"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
)

type DischargeConditionInput struct {
	ConditionAtDischarge string      `json:"conditionAtDischarge" binding:"required,oneof=Discharged Transferred D.A.M.A. Absconded Expired"`
	AmountToBePayed      interface{} `json:"amountToBePayed"`
}

type PendingDischarge struct {
	PatientID            string  `json:"patientId"`
	Name                 string  `json:"name"`
	AdmissionID          string  `json:"admissionId"`
	OPDNumber            int     `json:"opdNumber"`
	IPDNumber            int     `json:"ipdNumber"`
	ConditionAtDischarge string  `json:"conditionAtDischarge"`
	AmountToBePayed      float64 `json:"amountToBePayed"`
}

// parseAmount accepts JSON numbers and numeric strings. Negative, NaN and infinite values are rejected.
func parseAmount(value interface{}) (float64, bool) {
	var amount float64
	switch v := value.(type) {
	case float64:
		amount = v
	case float32:
		amount = float64(v)
	case int:
		amount = float64(v)
	case int64:
		amount = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		amount = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		amount = f
	default:
		return 0, false
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, false
	}
	return amount, true
}

func AssignDoctor(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, doctor models.StaffRef) (*models.AdmissionRecord, error) {
	if doctor.ID == "" {
		return nil, util.ValidationError(util.DOCTOR_ID_REQUIRED)
	}
	doctor.UserType = "doctor"
	patient, err := mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, admissionID)
		if err != nil {
			return err
		}
		admission.Doctor = &doctor
		return nil
	})
	if err != nil {
		return nil, err
	}
	admission, _ := patient.FindAdmission(admissionID)
	return admission, nil
}

/*
* Only the assigned doctor may promote, any doctor when none is assigned yet
* The caller becomes the assigned doctor in that case
* The IPD number is drawn once the admission is known to be promotable
 */
func PromoteToInpatient(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, admitNotes string) (*models.AdmissionRecord, error) {
	patient, err := mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, admissionID)
		if err != nil {
			return err
		}
		if err := checkDoctor(admission, actor); err != nil {
			return err
		}
		if admission.Status == models.AdmissionAdmitted {
			return util.Conflict(util.ALREADY_ADMITTED)
		}
		ipd, err := NextIPDNumber(ctx)
		if err != nil {
			return err
		}
		admittedAt := now()
		admission.Status = models.AdmissionAdmitted
		admission.IPDNumber = ipd
		admission.AdmitNotes = admitNotes
		admission.AdmittedAt = &admittedAt
		if admission.Doctor == nil {
			doctor := actor
			doctor.UserType = "doctor"
			admission.Doctor = &doctor
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	admission, _ := patient.FindAdmission(admissionID)
	metrics.RecordIPDPromotion()
	log.WithFields(log.Fields{"patientId": patientID, "admissionId": admissionID, "ipdNumber": admission.IPDNumber}).Info("admission promoted to inpatient")
	return admission, nil
}

// AssignBed does not detect two admissions holding the same bed. The last write wins.
func AssignBed(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, sectionID string, bedNumber int) (*models.AdmissionRecord, error) {
	section, err := store.Sections.Get(ctx, sectionID)
	if err != nil {
		return nil, storeError(err, util.SECTION_NOT_FOUND)
	}
	if bedNumber < 1 || bedNumber > section.Beds {
		return nil, util.ValidationError(util.INVALID_BED_NUMBER)
	}
	patient, err := mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, admissionID)
		if err != nil {
			return err
		}
		if err := checkDoctor(admission, actor); err != nil {
			return err
		}
		ref := section.Ref()
		admission.Section = &ref
		admission.BedNumber = bedNumber
		return nil
	})
	if err != nil {
		return nil, err
	}
	admission, _ := patient.FindAdmission(admissionID)
	return admission, nil
}

/*
* Validate the condition and amount before touching the store
* Both fields are written in the same save
 */
func SetDischargeCondition(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, input DischargeConditionInput) (*models.AdmissionRecord, error) {
	if !models.IsDischargeCondition(input.ConditionAtDischarge) {
		return nil, util.ValidationError(util.INVALID_CONDITION_AT_DISCHARGE)
	}
	amount, ok := parseAmount(input.AmountToBePayed)
	if !ok {
		return nil, util.ValidationError(util.INVALID_AMOUNT)
	}
	patient, err := mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, admissionID)
		if err != nil {
			return err
		}
		if err := requireAssignedDoctor(admission, actor); err != nil {
			return err
		}
		if admission.ConditionAtDischarge != "" {
			return util.Conflict(util.DISCHARGE_CONDITION_ALREADY_SET)
		}
		admission.ConditionAtDischarge = input.ConditionAtDischarge
		admission.AmountToBePayed = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	admission, _ := patient.FindAdmission(admissionID)
	return admission, nil
}

func SetAmountToBePayed(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, value interface{}) (*models.AdmissionRecord, error) {
	amount, ok := parseAmount(value)
	if !ok {
		return nil, util.ValidationError(util.INVALID_AMOUNT)
	}
	patient, err := mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, admissionID)
		if err != nil {
			return err
		}
		if err := requireAssignedDoctor(admission, actor); err != nil {
			return err
		}
		admission.AmountToBePayed = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	admission, _ := patient.FindAdmission(admissionID)
	return admission, nil
}

// MarkIPDDetailsUpdated records the nurse's confirmation that the inpatient paperwork is complete.
func MarkIPDDetailsUpdated(ctx context.Context, actor models.StaffRef, patientID string, admissionID string) (*models.AdmissionRecord, error) {
	patient, err := mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, admissionID)
		if err != nil {
			return err
		}
		admission.IPDDetailsUpdated = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	admission, _ := patient.FindAdmission(admissionID)
	return admission, nil
}

// ListPendingDischarges returns the caller's active admissions that are ready to be discharged.
func ListPendingDischarges(ctx context.Context, actor models.StaffRef) ([]PendingDischarge, error) {
	patients, err := store.Patients.List(ctx, repository.PatientQuery{DoctorID: actor.ID})
	if err != nil {
		log.Println("Error from patients.List: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	pending := []PendingDischarge{}
	for i := range patients {
		admission := patients[i].ActiveAdmission()
		if admission == nil || admission.ConditionAtDischarge == "" || !admission.IPDDetailsUpdated {
			continue
		}
		pending = append(pending, PendingDischarge{
			PatientID:            patients[i].PatientID,
			Name:                 patients[i].Name,
			AdmissionID:          admission.AdmissionID,
			OPDNumber:            admission.OPDNumber,
			IPDNumber:            admission.IPDNumber,
			ConditionAtDischarge: admission.ConditionAtDischarge,
			AmountToBePayed:      admission.AmountToBePayed,
		})
	}
	return pending, nil
}
