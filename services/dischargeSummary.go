package services

import (
	"context"
	"errors"
	"strings"

	"WardCare360/models"
	"WardCare360/pdf"
	"WardCare360/repository"
	"WardCare360/util"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func validateSummaryFields(fields models.DischargeSummaryFields) error {
	required := []string{fields.FinalDiagnosis, fields.Complaints, fields.ExaminationFindings, fields.ConditionOnDischarge}
	for _, value := range required {
		if strings.TrimSpace(value) == "" {
			return util.ValidationError(util.SUMMARY_FIELDS_REQUIRED)
		}
	}
	return nil
}

func summaryWritable(admission *models.AdmissionRecord) error {
	if admission.Status == models.AdmissionDischarged {
		return util.Conflict(util.ADMISSION_ALREADY_DISCHARGED)
	}
	if admission.DischargeSummary != nil && admission.DischargeSummary.IsGenerated {
		return util.Conflict(util.SUMMARY_ALREADY_EXISTS)
	}
	return nil
}

/*
* Validate the clinical fields and the admission
* Render the pdf and upload it, both failures are upstream failures
* Sign the draft and keep it server side until it is confirmed or expires
* The patient document is not written
 */
func PreviewDischargeSummary(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, fields models.DischargeSummaryFields) (*models.DischargeDraft, error) {
	if err := validateSummaryFields(fields); err != nil {
		return nil, err
	}
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
	if err := summaryWritable(admission); err != nil {
		return nil, err
	}

	created := now()
	html, err := pdf.BuildDischargeHTML(pdf.DischargeData{
		HospitalName:         hospitalName,
		PatientID:            patient.PatientID,
		PatientName:          patient.Name,
		Age:                  patient.Age,
		Gender:               patient.Gender,
		OPDNumber:            admission.OPDNumber,
		IPDNumber:            admission.IPDNumber,
		AdmissionDate:        admission.AdmissionDate,
		DoctorName:           admission.Doctor.Name,
		FinalDiagnosis:       fields.FinalDiagnosis,
		Complaints:           fields.Complaints,
		ExaminationFindings:  fields.ExaminationFindings,
		ConditionOnDischarge: fields.ConditionOnDischarge,
		TreatmentGiven:       fields.TreatmentGiven,
		Investigations:       fields.Investigations,
		AdviceOnDischarge:    fields.AdviceOnDischarge,
		FollowUpDate:         fields.FollowUpDate,
		GeneratedAt:          created,
	})
	if err != nil {
		return nil, util.Upstream(util.PDF_RENDER_FAILED, err)
	}
	document, err := renderer.Render(ctx, html)
	if err != nil {
		log.Println("Error from renderer.Render: ", err)
		return nil, util.Upstream(util.PDF_RENDER_FAILED, err)
	}
	fileName := "discharge-summary-" + patientID + "-" + admissionID + ".pdf"
	ref, err := uploader.Upload(ctx, document, fileName, folderID)
	if err != nil {
		log.Println("Error from uploader.Upload: ", err)
		return nil, util.Upstream(util.FILE_UPLOAD_FAILED, err)
	}

	draft := &models.DischargeDraft{
		DraftID:     uuid.NewString(),
		PatientID:   patientID,
		AdmissionID: admissionID,
		Doctor:      actor,
		Fields:      fields,
		FileID:      ref.FileID,
		FileURL:     ref.URL,
		FileName:    ref.FileName,
		PDFDigest:   pdfDigest(document),
		CreatedAt:   created,
		ExpiresAt:   created.Add(draftTTL),
	}
	if err := signDraft(draft); err != nil {
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	if err := store.Drafts.Put(ctx, draft, draftTTL); err != nil {
		log.Println("Error from drafts.Put: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	log.WithFields(log.Fields{"patientId": patientID, "admissionId": admissionID, "draftId": draft.DraftID}).Info("discharge summary drafted")
	return draft, nil
}

/*
* Load the draft and check it was drafted by the caller and is intact
* Write the summary onto the admission unless one is already generated
* The draft stays until it expires, so a repeated confirm reports the existing summary
 */
func ConfirmDischargeSummary(ctx context.Context, actor models.StaffRef, draftID string) (*models.DischargeSummary, error) {
	draft, err := store.Drafts.Get(ctx, draftID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NotFound(util.DRAFT_NOT_FOUND)
	}
	if err != nil {
		log.Println("Error from drafts.Get: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	if draft.Doctor.ID != actor.ID {
		return nil, util.NotAuthorized(util.NOT_ASSIGNED_DOCTOR)
	}
	if err := verifyDraft(draft); err != nil {
		log.Println("Error from verifyDraft: ", err)
		return nil, util.ValidationError(util.DRAFT_SIGNATURE_INVALID)
	}

	summary := &models.DischargeSummary{
		IsGenerated:            true,
		DischargeSummaryFields: draft.Fields,
		FileID:                 draft.FileID,
		FileURL:                draft.FileURL,
		FileName:               draft.FileName,
		Signature:              draft.Signature,
		GeneratedBy:            draft.Doctor,
		GeneratedAt:            now(),
	}
	_, err = mutatePatient(ctx, draft.PatientID, actor, func(p *models.Patient) error {
		admission, err := findAdmission(p, draft.AdmissionID)
		if err != nil {
			return err
		}
		if err := requireAssignedDoctor(admission, actor); err != nil {
			return err
		}
		if err := summaryWritable(admission); err != nil {
			return err
		}
		stored := *summary
		admission.DischargeSummary = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"patientId": draft.PatientID, "admissionId": draft.AdmissionID, "draftId": draftID}).Info("discharge summary saved")
	return summary, nil
}
