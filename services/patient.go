package services

import (
	"context"
	"errors"
	"strings"

	redis "WardCare360/config/redis"
	"WardCare360/metrics"
	"WardCare360/models"
	"WardCare360/repository"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdmissionInput struct {
	Reason   string           `json:"reason"`
	Symptoms string           `json:"symptoms"`
	Doctor   *models.StaffRef `json:"doctor"`
}

type PatientInput struct {
	PatientID     string          `json:"patientId"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	Gender        string          `json:"gender"`
	Contact       string          `json:"contact"`
	Address       string          `json:"address"`
	Dob           string          `json:"dob"`
	ImageURL      string          `json:"imageUrl"`
	PendingAmount float64         `json:"pendingAmount"`
	Admission     *AdmissionInput `json:"admission"`
}

type PatientUpdate struct {
	Name          *string  `json:"name"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	Contact       *string  `json:"contact"`
	Address       *string  `json:"address"`
	Dob           *string  `json:"dob"`
	ImageURL      *string  `json:"imageUrl"`
	PendingAmount *float64 `json:"pendingAmount"`
}

func validGender(gender string) bool {
	switch gender {
	case "", "Male", "Female", "Other":
		return true
	}
	return false
}

func validateAdmissionInput(input *AdmissionInput) error {
	if strings.TrimSpace(input.Reason) == "" {
		return util.ValidationError(util.REASON_REQUIRED)
	}
	if input.Doctor != nil && input.Doctor.ID == "" {
		return util.ValidationError(util.DOCTOR_ID_REQUIRED)
	}
	return nil
}

func newAdmission(input AdmissionInput, opdNumber int) models.AdmissionRecord {
	record := models.AdmissionRecord{
		AdmissionID:         primitive.NewObjectID().Hex(),
		OPDNumber:           opdNumber,
		AdmissionDate:       now(),
		Status:              models.AdmissionPending,
		IsActive:            true,
		ReasonForAdmission:  strings.TrimSpace(input.Reason),
		Symptoms:            input.Symptoms,
		Vitals:              []models.Vital{},
		DoctorNotes:         []models.ClinicalNote{},
		SymptomsByDoctor:    []models.ClinicalNote{},
		DiagnosisByDoctor:   []models.ClinicalNote{},
		DoctorPrescriptions: []models.Prescription{},
		DoctorConsulting:    []models.Consulting{},
		FollowUps:           []models.FollowUp{},
		FourHrFollowUps:     []models.FollowUp{},
		SurgicalNotes:       []models.ClinicalNote{},
		Medications:         []models.TreatmentItem{},
		IVFluids:            []models.TreatmentItem{},
		Procedures:          []models.TreatmentItem{},
		SpecialInstructions: []models.TreatmentItem{},
	}
	if input.Doctor != nil {
		doctor := *input.Doctor
		doctor.UserType = "doctor"
		record.Doctor = &doctor
	}
	return record
}

/*
* Validate demographics and the optional first admission
* Generate a patientId when none is given
* Take the OPD number only after validation so a rejected request does not burn one
 */
func CreatePatient(ctx context.Context, actor models.StaffRef, input PatientInput) (*models.Patient, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, util.ValidationError(util.NAME_REQUIRED)
	}
	if !validGender(input.Gender) {
		return nil, util.ValidationError(util.INVALID_GENDER)
	}
	if input.Age < 0 {
		return nil, util.ValidationError(util.INVALID_AGE)
	}
	if input.PendingAmount < 0 {
		return nil, util.ValidationError(util.INVALID_PENDING_AMOUNT)
	}
	if input.Admission != nil {
		if err := validateAdmissionInput(input.Admission); err != nil {
			return nil, err
		}
	}

	patientID := strings.TrimSpace(input.PatientID)
	if patientID == "" {
		code, err := nextPatientCode(ctx)
		if err != nil {
			return nil, err
		}
		patientID = code
	}
	created := now()
	patient := &models.Patient{
		PatientID:        patientID,
		Name:             strings.TrimSpace(input.Name),
		Age:              input.Age,
		Gender:           input.Gender,
		Contact:          input.Contact,
		Address:          input.Address,
		Dob:              input.Dob,
		ImageURL:         input.ImageURL,
		PendingAmount:    input.PendingAmount,
		AdmissionRecords: []models.AdmissionRecord{},
		CreatedAt:        created,
		CreatedBy:        actor.ID,
		UpdatedAt:        created,
		UpdatedBy:        actor.ID,
	}
	if input.Admission != nil {
		opd, err := NextOPDNumber(ctx)
		if err != nil {
			return nil, err
		}
		patient.AdmissionRecords = append(patient.AdmissionRecords, newAdmission(*input.Admission, opd))
	}

	if err := store.Patients.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.PATIENT_ALREADY_EXISTS)
		}
		log.Println("Error from patients.Create: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	if input.Admission != nil {
		metrics.RecordAdmissionCreated()
	}
	log.WithFields(log.Fields{"patientId": patientID, "createdBy": actor.ID}).Info("patient created")
	return patient, nil
}

// Admit opens a new OPD admission. A patient holds at most one active admission.
func Admit(ctx context.Context, actor models.StaffRef, patientID string, input AdmissionInput) (*models.AdmissionRecord, error) {
	if err := validateAdmissionInput(&input); err != nil {
		return nil, err
	}
	var admissionID string
	patient, err := mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		if p.ActiveAdmission() != nil {
			return util.Conflict(util.DUPLICATE_ACTIVE_ADMISSION)
		}
		opd, err := NextOPDNumber(ctx)
		if err != nil {
			return err
		}
		record := newAdmission(input, opd)
		admissionID = record.AdmissionID
		p.AdmissionRecords = append(p.AdmissionRecords, record)
		p.Discharged = false
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordAdmissionCreated()
	admission, _ := patient.FindAdmission(admissionID)
	log.WithFields(log.Fields{"patientId": patientID, "admissionId": admissionID, "opdNumber": admission.OPDNumber}).Info("admission created")
	return admission, nil
}

/*
* Serve from cache when present
* Otherwise read the store and cache the result
* A save that lands between the read and the cache write is caught by re-reading the revision
 */
func FetchPatient(ctx context.Context, patientID string) (*models.Patient, error) {
	if patientID == "" {
		return nil, util.ValidationError(util.PATIENT_ID_REQUIRED)
	}
	key := util.PatientKey + patientID
	cached := &models.Patient{}
	err := cache.GetCache(ctx, key, cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		log.Println("Error from getCache: ", err)
	}
	patient, err := loadPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if err := cache.SetCache(ctx, key, patient); err != nil {
		log.Println("Failed caching patient: ", err)
		return patient, nil
	}
	current, err := store.Patients.Get(ctx, patientID)
	if err != nil || current.Revision != patient.Revision {
		invalidatePatient(ctx, patientID)
	}
	return patient, nil
}

func ListPatients(ctx context.Context, discharged *bool) ([]models.Patient, error) {
	patients, err := store.Patients.List(ctx, repository.PatientQuery{Discharged: discharged})
	if err != nil {
		log.Println("Error from patients.List: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return patients, nil
}

// ListDoctorPatients returns patients whose active admission is assigned to the caller.
func ListDoctorPatients(ctx context.Context, actor models.StaffRef) ([]models.Patient, error) {
	patients, err := store.Patients.List(ctx, repository.PatientQuery{DoctorID: actor.ID})
	if err != nil {
		log.Println("Error from patients.List: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return patients, nil
}

func UpdatePatient(ctx context.Context, actor models.StaffRef, patientID string, update PatientUpdate) (*models.Patient, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, util.ValidationError(util.NAME_REQUIRED)
	}
	if update.Gender != nil && !validGender(*update.Gender) {
		return nil, util.ValidationError(util.INVALID_GENDER)
	}
	if update.Age != nil && *update.Age < 0 {
		return nil, util.ValidationError(util.INVALID_AGE)
	}
	if update.PendingAmount != nil && *update.PendingAmount < 0 {
		return nil, util.ValidationError(util.INVALID_PENDING_AMOUNT)
	}
	return mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		if update.Name != nil {
			p.Name = strings.TrimSpace(*update.Name)
		}
		if update.Age != nil {
			p.Age = *update.Age
		}
		if update.Gender != nil {
			p.Gender = *update.Gender
		}
		if update.Contact != nil {
			p.Contact = *update.Contact
		}
		if update.Address != nil {
			p.Address = *update.Address
		}
		if update.Dob != nil {
			p.Dob = *update.Dob
		}
		if update.ImageURL != nil {
			p.ImageURL = *update.ImageURL
		}
		if update.PendingAmount != nil {
			p.PendingAmount = *update.PendingAmount
		}
		return nil
	})
}
