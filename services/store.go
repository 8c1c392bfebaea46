package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"sync"
	"time"

	redis "WardCare360/config/redis"
	"WardCare360/models"
	"WardCare360/notification"
	"WardCare360/pdf"
	"WardCare360/repository"
	"WardCare360/upload"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
)

const (
	maxSaveAttempts  = 3
	defaultDraftTTL  = 30 * time.Minute
	defaultFolderID  = "discharge-summaries"
	defaultHospital  = "WardCare360"
	archiveReason    = "Patient discharged"
	istArchiveFormat = "02/01/2006 03:04 PM"
)

// Asia/Kolkata has no daylight saving, so a fixed zone avoids depending on tzdata.
var ist = time.FixedZone("IST", 5*60*60+30*60)

type Cache interface {
	SetCache(ctx context.Context, key string, value interface{}) error
	GetCache(ctx context.Context, key string, dest interface{}) error
	DeleteCache(ctx context.Context, key string) error
}

type Dependencies struct {
	Store             *repository.Store
	Cache             Cache
	Renderer          pdf.Renderer
	Uploader          upload.Uploader
	Notifier          notification.Notifier
	SigningKey        *rsa.PrivateKey
	DraftTTL          time.Duration
	DischargeFolderID string
	HospitalName      string
}

var (
	store        *repository.Store
	cache        Cache
	renderer     pdf.Renderer
	uploader     upload.Uploader
	notifier     notification.Notifier
	signingKey   *rsa.PrivateKey
	draftTTL     time.Duration
	folderID     string
	hospitalName string

	// now is truncated to milliseconds, the precision the store keeps.
	now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

	keyOnce    sync.Once
	defaultKey *rsa.PrivateKey
	keyErr     error
)

/*
* Store is mandatory, every other collaborator has an in-process default
* A signing key is generated once per process when none is configured
 */
func Init(deps Dependencies) error {
	if deps.Store == nil {
		return errors.New("services: store is required")
	}
	store = deps.Store
	cache = deps.Cache
	if cache == nil {
		cache = redis.NewMemoryCache()
	}
	renderer = deps.Renderer
	if renderer == nil {
		renderer = pdf.NewWkhtmltopdfRenderer("")
	}
	uploader = deps.Uploader
	if uploader == nil {
		uploader = upload.NewMemoryUploader("/files")
	}
	notifier = deps.Notifier
	if notifier == nil {
		notifier = notification.LogNotifier{}
	}
	draftTTL = deps.DraftTTL
	if draftTTL <= 0 {
		draftTTL = defaultDraftTTL
	}
	folderID = deps.DischargeFolderID
	if folderID == "" {
		folderID = defaultFolderID
	}
	hospitalName = deps.HospitalName
	if hospitalName == "" {
		hospitalName = defaultHospital
	}
	signingKey = deps.SigningKey
	if signingKey == nil {
		keyOnce.Do(func() {
			defaultKey, _, keyErr = GenerateKeyPair()
		})
		if keyErr != nil {
			return keyErr
		}
		signingKey = defaultKey
	}
	return nil
}

// storeError maps repository sentinels onto the error taxonomy. AppErrors pass through.
func storeError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *util.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return util.NotFound(notFound)
	case errors.Is(err, repository.ErrStaleRevision):
		return util.Conflict(util.PATIENT_UPDATE_CONFLICT)
	}
	return util.Internal(util.SOMETHING_WENT_WRONG, err)
}

func loadPatient(ctx context.Context, patientID string) (*models.Patient, error) {
	if patientID == "" {
		return nil, util.ValidationError(util.PATIENT_ID_REQUIRED)
	}
	patient, err := store.Patients.Get(ctx, patientID)
	if err != nil {
		log.Println("Error from patients.Get: ", err)
		return nil, storeError(err, util.PATIENT_NOT_FOUND)
	}
	return patient, nil
}

/*
* Load the latest revision, apply fn and save with the revision check
* A stale revision reloads and reapplies fn, up to maxSaveAttempts times
* fn errors abort without saving
 */
func mutatePatient(ctx context.Context, patientID string, actor models.StaffRef, fn func(p *models.Patient) error) (*models.Patient, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		patient, err := loadPatient(ctx, patientID)
		if err != nil {
			return nil, err
		}
		if err := fn(patient); err != nil {
			return nil, err
		}
		patient.UpdatedAt = now()
		if actor.ID != "" {
			patient.UpdatedBy = actor.ID
		}
		err = store.Patients.Save(ctx, patient)
		if err == nil {
			invalidatePatient(ctx, patientID)
			return patient, nil
		}
		if !errors.Is(err, repository.ErrStaleRevision) {
			log.Println("Error from patients.Save: ", err)
			return nil, storeError(err, util.PATIENT_NOT_FOUND)
		}
		log.WithFields(log.Fields{"patientId": patientID, "attempt": attempt}).Warn("stale patient revision, retrying")
	}
	return nil, util.Conflict(util.PATIENT_UPDATE_CONFLICT)
}

// mutateWard is mutatePatient for wards. Nurse assignments and section sync both rewrite the whole document.
func mutateWard(ctx context.Context, wardID string, fn func(w *models.Ward) error) (*models.Ward, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		ward, err := store.Wards.Get(ctx, wardID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Println("Error from wards.Get: ", err)
			}
			return nil, storeError(err, util.WARD_NOT_FOUND)
		}
		if err := fn(ward); err != nil {
			return nil, err
		}
		ward.UpdatedAt = now()
		err = store.Wards.Save(ctx, ward)
		if err == nil {
			return ward, nil
		}
		if !errors.Is(err, repository.ErrStaleRevision) {
			log.Println("Error from wards.Save: ", err)
			return nil, storeError(err, util.WARD_NOT_FOUND)
		}
		log.WithFields(log.Fields{"wardId": wardID, "attempt": attempt}).Warn("stale ward revision, retrying")
	}
	return nil, util.Conflict(util.WARD_UPDATE_CONFLICT)
}

func mutateEmergencyMedication(ctx context.Context, medicationID string, fn func(med *models.EmergencyMedication) error) (*models.EmergencyMedication, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		med, err := loadEmergencyMedication(ctx, medicationID)
		if err != nil {
			return nil, err
		}
		if err := fn(med); err != nil {
			return nil, err
		}
		med.UpdatedAt = now()
		err = store.Emergency.Save(ctx, med)
		if err == nil {
			return med, nil
		}
		if !errors.Is(err, repository.ErrStaleRevision) {
			log.Println("Error from emergency.Save: ", err)
			return nil, storeError(err, util.EMERGENCY_MEDICATION_NOT_FOUND)
		}
		log.WithFields(log.Fields{"medicationId": medicationID, "attempt": attempt}).Warn("stale emergency medication revision, retrying")
	}
	return nil, util.Conflict(util.EMERGENCY_MEDICATION_CONFLICT)
}

func invalidatePatient(ctx context.Context, patientID string) {
	if err := cache.DeleteCache(ctx, util.PatientKey+patientID); err != nil {
		log.Println("Failed invalidating cached patient: ", err)
	}
}

func findAdmission(p *models.Patient, admissionID string) (*models.AdmissionRecord, error) {
	if admissionID == "" {
		return nil, util.ValidationError(util.ADMISSION_ID_REQUIRED)
	}
	admission, _ := p.FindAdmission(admissionID)
	if admission == nil {
		return nil, util.NotFound(util.ADMISSION_NOT_FOUND)
	}
	return admission, nil
}

// findOpenAdmission also rejects admissions that have already been discharged.
func findOpenAdmission(p *models.Patient, admissionID string) (*models.AdmissionRecord, error) {
	admission, err := findAdmission(p, admissionID)
	if err != nil {
		return nil, err
	}
	if admission.Status == models.AdmissionDischarged {
		return nil, util.Conflict(util.ADMISSION_ALREADY_DISCHARGED)
	}
	return admission, nil
}

// checkDoctor passes when no doctor is assigned yet.
func checkDoctor(admission *models.AdmissionRecord, actor models.StaffRef) error {
	if admission.Doctor != nil && admission.Doctor.ID != actor.ID {
		return util.NotAuthorized(util.NOT_ASSIGNED_DOCTOR)
	}
	return nil
}

func requireAssignedDoctor(admission *models.AdmissionRecord, actor models.StaffRef) error {
	if !admission.AssignedTo(actor.ID) {
		return util.NotAuthorized(util.NOT_ASSIGNED_DOCTOR)
	}
	return nil
}
