package services

import (
	"context"

	"WardCare360/metrics"
	"WardCare360/models"
	"WardCare360/notification"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
)

type DischargeResult struct {
	Patient   *models.Patient        `json:"patient"`
	History   *models.PatientHistory `json:"history"`
	OPDNumber int                    `json:"opdNumber"`
	IPDNumber int                    `json:"ipdNumber"`
}

type ReconcileReport struct {
	Scanned  int `json:"scanned"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

/*
* Resolve the admission and check the assigned doctor
* Mark it Discharged and inactive, capturing the patient's balance, in one save
* Archive into history first, then splice the admission out of the live record
* An admission already marked Discharged resumes at the archival step
 */
func Discharge(ctx context.Context, actor models.StaffRef, patientID string, admissionID string) (*DischargeResult, error) {
	patient, err := loadPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	admission, err := findAdmission(patient, admissionID)
	if err != nil {
		return nil, err
	}
	if err := requireAssignedDoctor(admission, actor); err != nil {
		return nil, err
	}

	if !admission.AwaitingArchival() {
		if admission.ConditionAtDischarge == "" {
			return nil, util.ValidationError(util.DISCHARGE_CONDITION_NOT_SET)
		}
		patient, err = mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
			a, err := findAdmission(p, admissionID)
			if err != nil {
				return err
			}
			if err := requireAssignedDoctor(a, actor); err != nil {
				return err
			}
			if a.AwaitingArchival() {
				return nil
			}
			dischargedAt := now()
			balance := p.PendingAmount
			a.Status = models.AdmissionDischarged
			a.DischargeDate = &dischargedAt
			a.IsActive = false
			a.ArchivalBalance = &balance
			return nil
		})
		if err != nil {
			metrics.RecordDischarge("failed")
			return nil, err
		}
	}

	result, err := archiveAdmission(ctx, actor, patient, admissionID)
	if err != nil {
		metrics.RecordDischarge("pending_archival")
		return nil, err
	}
	metrics.RecordDischarge("archived")
	notifier.Notify(ctx, notification.Notification{
		RecipientID:   actor.ID,
		RecipientType: "doctor",
		Event:         "patient.discharged",
		PatientID:     patientID,
		AdmissionID:   admissionID,
		Message:       "Patient " + patient.Name + " has been discharged",
		CreatedAt:     now(),
	})
	log.WithFields(log.Fields{"patientId": patientID, "admissionId": admissionID, "doctorId": actor.ID}).Info("patient discharged")
	return result, nil
}

func buildHistoryEntry(ctx context.Context, admission models.AdmissionRecord) (models.HistoryEntry, error) {
	reports, err := store.LabReports.ListByAdmission(ctx, admission.AdmissionID)
	if err != nil {
		log.Println("Error from labReports.ListByAdmission: ", err)
		return models.HistoryEntry{}, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	archivedAt := now()
	entry := models.HistoryEntry{
		AdmissionRecord: admission,
		LabReports:      make([]models.LabReportSnapshot, 0, len(reports)),
		ArchivedAt:      archivedAt,
	}
	if admission.ArchivalBalance != nil {
		entry.PreviousRemainingAmount = *admission.ArchivalBalance
	}
	entry.ArchivalBalance = nil
	for _, r := range reports {
		entry.LabReports = append(entry.LabReports, r.Snapshot())
	}
	if admission.DischargeSummary != nil && admission.DischargeSummary.IsGenerated {
		entry.ArchivedSummary = &models.ArchivedDischargeSummary{
			DischargeSummary: *admission.DischargeSummary,
			ArchivedAt:       archivedAt,
			ArchivedAtIST:    archivedAt.In(ist).Format(istArchiveFormat),
			ArchiveReason:    archiveReason,
		}
	}
	return entry, nil
}

/*
* Append the history entry, a no-op when the admissionId is already archived
* Then remove the admission from the live record and recompute discharged
 */
func archiveAdmission(ctx context.Context, actor models.StaffRef, patient *models.Patient, admissionID string) (*DischargeResult, error) {
	admission, err := findAdmission(patient, admissionID)
	if err != nil {
		return nil, err
	}
	entry, err := buildHistoryEntry(ctx, *admission)
	if err != nil {
		return nil, err
	}
	added, err := store.History.AppendEntry(ctx, patient.PatientID, patient.Name, entry)
	if err != nil {
		log.WithFields(log.Fields{"patientId": patient.PatientID, "admissionId": admissionID}).Println("Error from history.AppendEntry: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	if !added {
		log.WithFields(log.Fields{"patientId": patient.PatientID, "admissionId": admissionID}).Info("history entry already present")
	}

	updated, err := mutatePatient(ctx, patient.PatientID, actor, func(p *models.Patient) error {
		p.RemoveAdmission(admissionID)
		p.Discharged = len(p.AdmissionRecords) == 0
		return nil
	})
	if err != nil {
		log.WithFields(log.Fields{"patientId": patient.PatientID, "admissionId": admissionID}).Println("Error while removing archived admission: ", err)
		return nil, err
	}
	history, err := store.History.Get(ctx, patient.PatientID)
	if err != nil {
		return nil, storeError(err, util.HISTORY_NOT_FOUND)
	}
	return &DischargeResult{
		Patient:   updated,
		History:   history,
		OPDNumber: admission.OPDNumber,
		IPDNumber: admission.IPDNumber,
	}, nil
}

// ReconcileArchival completes discharges that stopped between marking and splicing.
func ReconcileArchival(ctx context.Context) (ReconcileReport, error) {
	report := ReconcileReport{}
	patients, err := store.Patients.ListAwaitingArchival(ctx)
	if err != nil {
		log.Println("Error from patients.ListAwaitingArchival: ", err)
		return report, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	system := models.StaffRef{ID: "system", Name: "archival-reconciler", UserType: "system"}
	for i := range patients {
		pending := []string{}
		for _, a := range patients[i].AdmissionRecords {
			if a.AwaitingArchival() {
				pending = append(pending, a.AdmissionID)
			}
		}
		for _, admissionID := range pending {
			report.Scanned++
			current, err := loadPatient(ctx, patients[i].PatientID)
			if err == nil {
				_, err = archiveAdmission(ctx, system, current, admissionID)
			}
			if err != nil {
				report.Failed++
				log.WithFields(log.Fields{"patientId": patients[i].PatientID, "admissionId": admissionID}).Println("Error while reconciling archival: ", err)
				continue
			}
			report.Repaired++
			metrics.RecordArchivalRepair()
			log.WithFields(log.Fields{"patientId": patients[i].PatientID, "admissionId": admissionID}).Info("archival completed by reconciliation")
		}
	}
	return report, nil
}

func FetchHistory(ctx context.Context, patientID string) (*models.PatientHistory, error) {
	if patientID == "" {
		return nil, util.ValidationError(util.PATIENT_ID_REQUIRED)
	}
	history, err := store.History.Get(ctx, patientID)
	if err != nil {
		return nil, storeError(err, util.HISTORY_NOT_FOUND)
	}
	return history, nil
}
