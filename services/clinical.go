package services

import (
	"context"
	"strings"

	"WardCare360/models"
	"WardCare360/role"
	"WardCare360/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClinicalEntryInput carries the fields of every clinical record type. Each kind reads the fields it needs.
type ClinicalEntryInput struct {
	Text         string                     `json:"text"`
	Items        []string                   `json:"items"`
	Date         string                     `json:"date"`
	Time         string                     `json:"time"`
	Notes        string                     `json:"notes"`
	Vital        *models.Vital              `json:"vital"`
	Medicine     *models.PrescribedMedicine `json:"medicine"`
	Instructions string                     `json:"instructions"`
	Consultant   string                     `json:"consultant"`
	Speciality   string                     `json:"speciality"`
	Advice       string                     `json:"advice"`
	Observations map[string]string          `json:"observations"`
}

// Clinical record kinds, named after the admission fields they append to.
const (
	KindVitals              = "vitals"
	KindDoctorNotes         = "doctorNotes"
	KindSymptomsByDoctor    = "symptomsByDoctor"
	KindDiagnosisByDoctor   = "diagnosisByDoctor"
	KindDoctorPrescriptions = "doctorPrescriptions"
	KindDoctorConsulting    = "doctorConsulting"
	KindFollowUps           = "followUps"
	KindFourHrFollowUp      = "fourHrFollowUpSchema"
	KindSurgicalNotes       = "surgicalNotes"
)

var clinicalKindRoles = map[string][]string{
	KindVitals:              {role.Nurse, role.Doctor},
	KindDoctorNotes:         {role.Doctor},
	KindSymptomsByDoctor:    {role.Doctor},
	KindDiagnosisByDoctor:   {role.Doctor},
	KindDoctorPrescriptions: {role.Doctor},
	KindDoctorConsulting:    {role.Doctor},
	KindFollowUps:           {role.Doctor},
	KindFourHrFollowUp:      {role.Nurse},
	KindSurgicalNotes:       {role.Doctor},
}

func kindAllowed(kind string, usertype string) bool {
	for _, r := range clinicalKindRoles[kind] {
		if r == usertype {
			return true
		}
	}
	return false
}

func noteFrom(input ClinicalEntryInput) (models.ClinicalNote, bool) {
	note := models.ClinicalNote{
		Text:  strings.TrimSpace(input.Text),
		Items: input.Items,
		Date:  input.Date,
		Time:  input.Time,
	}
	return note, note.Text != "" || len(note.Items) > 0
}

func followUpFrom(input ClinicalEntryInput) (models.FollowUp, bool) {
	followUp := models.FollowUp{
		Date:         input.Date,
		Time:         input.Time,
		Notes:        strings.TrimSpace(input.Notes),
		Observations: input.Observations,
	}
	return followUp, followUp.Notes != "" || len(followUp.Observations) > 0
}

func vitalEmpty(v *models.Vital) bool {
	return v == nil || (v.Temperature == "" && v.Pulse == "" && v.BloodPressure == "" &&
		v.RespiratoryRate == "" && v.SpO2 == "" && v.BloodSugar == "" && v.Other == "")
}

/*
* Check the kind and the caller's role for it
* Doctors may only write to admissions assigned to them
* Entries are stamped with an id, the caller and the time
 */
func AddClinicalEntry(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, kind string, input ClinicalEntryInput) (*models.AdmissionRecord, error) {
	if _, ok := clinicalKindRoles[kind]; !ok {
		return nil, util.ValidationError(util.INVALID_CLINICAL_KIND)
	}
	if !kindAllowed(kind, actor.UserType) {
		return nil, util.NotAuthorized(util.ROLE_NOT_ALLOWED_FOR_KIND)
	}
	entryID := primitive.NewObjectID().Hex()
	recordedAt := now()

	addEntry := func(a *models.AdmissionRecord) error {
		switch kind {
		case KindVitals:
			if vitalEmpty(input.Vital) {
				return util.ValidationError(util.CLINICAL_ENTRY_EMPTY)
			}
			vital := *input.Vital
			vital.EntryID, vital.RecordedBy, vital.RecordedAt = entryID, actor, recordedAt
			a.Vitals = append(a.Vitals, vital)
		case KindDoctorNotes, KindSymptomsByDoctor, KindDiagnosisByDoctor, KindSurgicalNotes:
			note, ok := noteFrom(input)
			if !ok {
				return util.ValidationError(util.CLINICAL_ENTRY_EMPTY)
			}
			note.EntryID, note.RecordedBy, note.RecordedAt = entryID, actor, recordedAt
			switch kind {
			case KindDoctorNotes:
				a.DoctorNotes = append(a.DoctorNotes, note)
			case KindSymptomsByDoctor:
				a.SymptomsByDoctor = append(a.SymptomsByDoctor, note)
			case KindDiagnosisByDoctor:
				a.DiagnosisByDoctor = append(a.DiagnosisByDoctor, note)
			default:
				a.SurgicalNotes = append(a.SurgicalNotes, note)
			}
		case KindDoctorPrescriptions:
			if input.Medicine == nil || strings.TrimSpace(input.Medicine.Name) == "" {
				return util.ValidationError(util.CLINICAL_ENTRY_EMPTY)
			}
			a.DoctorPrescriptions = append(a.DoctorPrescriptions, models.Prescription{
				EntryID:      entryID,
				Medicine:     *input.Medicine,
				Instructions: input.Instructions,
				RecordedBy:   actor,
				RecordedAt:   recordedAt,
			})
		case KindDoctorConsulting:
			if strings.TrimSpace(input.Consultant) == "" {
				return util.ValidationError(util.CLINICAL_ENTRY_EMPTY)
			}
			a.DoctorConsulting = append(a.DoctorConsulting, models.Consulting{
				EntryID:    entryID,
				Consultant: strings.TrimSpace(input.Consultant),
				Speciality: input.Speciality,
				Advice:     input.Advice,
				Date:       input.Date,
				RecordedBy: actor,
				RecordedAt: recordedAt,
			})
		case KindFollowUps, KindFourHrFollowUp:
			followUp, ok := followUpFrom(input)
			if !ok {
				return util.ValidationError(util.CLINICAL_ENTRY_EMPTY)
			}
			followUp.EntryID, followUp.RecordedBy, followUp.RecordedAt = entryID, actor, recordedAt
			if kind == KindFollowUps {
				a.FollowUps = append(a.FollowUps, followUp)
			} else {
				a.FourHrFollowUps = append(a.FourHrFollowUps, followUp)
			}
		}
		return nil
	}

	patient, err := mutatePatient(ctx, patientID, actor, func(p *models.Patient) error {
		admission, err := findOpenAdmission(p, admissionID)
		if err != nil {
			return err
		}
		if actor.UserType == role.Doctor {
			if err := checkDoctor(admission, actor); err != nil {
				return err
			}
		}
		return addEntry(admission)
	})
	if err != nil {
		return nil, err
	}
	admission, _ := patient.FindAdmission(admissionID)
	return admission, nil
}
