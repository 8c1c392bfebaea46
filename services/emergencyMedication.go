package services

import (
	"context"
	"errors"
	"strings"

	"WardCare360/models"
	"WardCare360/notification"
	"WardCare360/repository"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmergencyMedicationInput struct {
	PatientID   string `json:"patientId"`
	AdmissionID string `json:"admissionId"`
	Name        string `json:"name"`
	Dosage      string `json:"dosage"`
	Route       string `json:"route"`
	Frequency   string `json:"frequency"`
	Reason      string `json:"reason"`
}

func RequestEmergencyMedication(ctx context.Context, actor models.StaffRef, input EmergencyMedicationInput) (*models.EmergencyMedication, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Dosage) == "" || strings.TrimSpace(input.Reason) == "" {
		return nil, util.ValidationError(util.EMERGENCY_FIELDS_REQUIRED)
	}
	patient, err := loadPatient(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	admission, err := findOpenAdmission(patient, input.AdmissionID)
	if err != nil {
		return nil, err
	}
	created := now()
	med := &models.EmergencyMedication{
		MedicationID: primitive.NewObjectID().Hex(),
		PatientID:    patient.PatientID,
		AdmissionID:  admission.AdmissionID,
		Name:         strings.TrimSpace(input.Name),
		Dosage:       strings.TrimSpace(input.Dosage),
		Route:        input.Route,
		Frequency:    input.Frequency,
		Reason:       strings.TrimSpace(input.Reason),
		Status:       models.EmergencyPending,
		RequestedBy:  actor,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if err := store.Emergency.Create(ctx, med); err != nil {
		log.Println("Error from emergency.Create: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	notifier.Notify(ctx, notification.Notification{
		RecipientType: "admin",
		Event:         "emergencyMedication.requested",
		PatientID:     med.PatientID,
		AdmissionID:   med.AdmissionID,
		Message:       "Emergency medication " + med.Name + " requested for " + patient.Name,
		CreatedAt:     created,
	})
	return med, nil
}

func ListEmergencyMedications(ctx context.Context, status string) ([]models.EmergencyMedication, error) {
	meds, err := store.Emergency.List(ctx, status)
	if err != nil {
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return meds, nil
}

func validReviewDecision(decision string) bool {
	return decision == models.EmergencyApproved || decision == models.EmergencyRejected || decision == models.EmergencyPendingDoctorApproval
}

func ReviewEmergencyMedication(ctx context.Context, actor models.StaffRef, medicationID string, decision string, notes string) (*models.EmergencyMedication, error) {
	if !validReviewDecision(decision) {
		return nil, util.ValidationError(util.INVALID_REVIEW_DECISION)
	}
	med, err := mutateEmergencyMedication(ctx, medicationID, func(med *models.EmergencyMedication) error {
		if med.Status != models.EmergencyPending {
			return util.Conflict(util.EMERGENCY_MEDICATION_NOT_PENDING)
		}
		med.Status = decision
		med.AdminReview = &models.Review{
			ReviewedBy: actor,
			Decision:   decision,
			Notes:      notes,
			ReviewedAt: now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if decision == models.EmergencyPendingDoctorApproval {
		notifyAssignedDoctor(ctx, med, "emergencyMedication.awaitingDoctor", "Emergency medication "+med.Name+" needs your approval")
	}
	notifier.Notify(ctx, notification.Notification{
		RecipientID:   med.RequestedBy.ID,
		RecipientType: "nurse",
		Event:         "emergencyMedication.reviewed",
		PatientID:     med.PatientID,
		AdmissionID:   med.AdmissionID,
		Message:       "Emergency medication " + med.Name + " reviewed: " + decision,
		CreatedAt:     med.UpdatedAt,
	})
	return med, nil
}

/*
* Doctor may decide while awaiting their approval, or after an admin approval with no doctor decision
* Approval from PendingDoctorApproval moves status to Approved, rejection always sets Rejected
* Once both approvals exist the medication is copied into the admission
 */
func DecideEmergencyMedication(ctx context.Context, actor models.StaffRef, medicationID string, approved bool, notes string) (*models.EmergencyMedication, error) {
	med, err := mutateEmergencyMedication(ctx, medicationID, func(med *models.EmergencyMedication) error {
		awaiting := med.Status == models.EmergencyPendingDoctorApproval ||
			(med.Status == models.EmergencyApproved && med.DoctorApproval == nil)
		if !awaiting {
			return util.Conflict(util.EMERGENCY_MEDICATION_NOT_AWAITING)
		}
		med.DoctorApproval = &models.DoctorApproval{
			Approved:  approved,
			Doctor:    actor,
			Notes:     notes,
			DecidedAt: now(),
		}
		if approved {
			med.Status = models.EmergencyApproved
		} else {
			med.Status = models.EmergencyRejected
		}
		if med.ReadyForAdmission() && !med.CopiedToAdmission {
			itemID, err := copyToAdmission(ctx, actor, med)
			if err != nil {
				return err
			}
			med.CopiedToAdmission = true
			med.CopiedItemID = itemID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	notifier.Notify(ctx, notification.Notification{
		RecipientID:   med.RequestedBy.ID,
		RecipientType: "nurse",
		Event:         "emergencyMedication.decided",
		PatientID:     med.PatientID,
		AdmissionID:   med.AdmissionID,
		Message:       "Emergency medication " + med.Name + " " + strings.ToLower(med.Status) + " by doctor",
		CreatedAt:     med.UpdatedAt,
	})
	return med, nil
}

// copyToAdmission appends a Pending medication once. A retry after a failed medication save
// finds the earlier copy by emergencyMedicationId and reuses it.
func copyToAdmission(ctx context.Context, actor models.StaffRef, med *models.EmergencyMedication) (string, error) {
	var itemID string
	_, err := mutatePatient(ctx, med.PatientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, med.AdmissionID)
		if err != nil {
			return err
		}
		for _, item := range admission.Medications {
			if item.EmergencyMedicationID == med.MedicationID {
				itemID = item.ItemID
				return nil
			}
		}
		item := models.TreatmentItem{
			ItemID:                primitive.NewObjectID().Hex(),
			Name:                  med.Name,
			Dosage:                med.Dosage,
			Frequency:             med.Frequency,
			Route:                 med.Route,
			Status:                models.TreatmentPending,
			Notes:                 med.Reason,
			OrderedBy:             actor,
			OrderedAt:             now(),
			Source:                models.SourceEmergency,
			EmergencyMedicationID: med.MedicationID,
		}
		admission.Medications = append(admission.Medications, item)
		itemID = item.ItemID
		return nil
	})
	if err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"patientId": med.PatientID, "admissionId": med.AdmissionID, "medicationId": med.MedicationID}).Info("emergency medication copied to admission")
	return itemID, nil
}

func notifyAssignedDoctor(ctx context.Context, med *models.EmergencyMedication, event string, message string) {
	patient, err := store.Patients.Get(ctx, med.PatientID)
	if err != nil {
		return
	}
	admission, _ := patient.FindAdmission(med.AdmissionID)
	if admission == nil || admission.Doctor == nil {
		return
	}
	notifier.Notify(ctx, notification.Notification{
		RecipientID:   admission.Doctor.ID,
		RecipientType: "doctor",
		Event:         event,
		PatientID:     med.PatientID,
		AdmissionID:   med.AdmissionID,
		Message:       message,
		CreatedAt:     now(),
	})
}

func loadEmergencyMedication(ctx context.Context, medicationID string) (*models.EmergencyMedication, error) {
	med, err := store.Emergency.Get(ctx, medicationID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Println("Error from emergency.Get: ", err)
		}
		return nil, storeError(err, util.EMERGENCY_MEDICATION_NOT_FOUND)
	}
	return med, nil
}
