package services

import (
	"context"
	"strings"

	"WardCare360/models"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PriorityRoutine = "Routine"
	PriorityUrgent  = "Urgent"
	PrioritySTAT    = "STAT"
)

type InvestigationInput struct {
	Tests    []string `json:"tests"`
	Priority string   `json:"priority"`
	Notes    string   `json:"notes"`
}

type LabReportInput struct {
	InvestigationID string `json:"investigationId"`
	PatientID       string `json:"patientId"`
	AdmissionID     string `json:"admissionId"`
	TestName        string `json:"testName"`
	Result          string `json:"result"`
	Unit            string `json:"unit"`
	NormalRange     string `json:"normalRange"`
	FileURL         string `json:"fileUrl"`
}

func cleanTests(tests []string) []string {
	out := make([]string, 0, len(tests))
	seen := map[string]bool{}
	for _, t := range tests {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}

func OrderInvestigation(ctx context.Context, actor models.StaffRef, patientID string, admissionID string, input InvestigationInput) (*models.Investigation, error) {
	tests := cleanTests(input.Tests)
	if len(tests) == 0 {
		return nil, util.ValidationError(util.INVESTIGATION_TESTS_REQUIRED)
	}
	priority := input.Priority
	if priority == "" {
		priority = PriorityRoutine
	}
	if priority != PriorityRoutine && priority != PriorityUrgent && priority != PrioritySTAT {
		return nil, util.ValidationError(util.INVALID_PRIORITY)
	}
	patient, err := loadPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	admission, err := findOpenAdmission(patient, admissionID)
	if err != nil {
		return nil, err
	}
	if err := checkDoctor(admission, actor); err != nil {
		return nil, err
	}
	ordered := now()
	inv := &models.Investigation{
		InvestigationID: primitive.NewObjectID().Hex(),
		PatientID:       patientID,
		AdmissionID:     admissionID,
		Tests:           tests,
		Priority:        priority,
		Notes:           input.Notes,
		Status:          models.InvestigationOrdered,
		OrderedBy:       actor,
		OrderedAt:       ordered,
		UpdatedAt:       ordered,
	}
	if err := store.Investigations.Create(ctx, inv); err != nil {
		log.Println("Error from investigations.Create: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return inv, nil
}

func ListInvestigations(ctx context.Context, patientID string, admissionID string) ([]models.Investigation, error) {
	if _, err := loadPatient(ctx, patientID); err != nil {
		return nil, err
	}
	invs, err := store.Investigations.ListByAdmission(ctx, patientID, admissionID)
	if err != nil {
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return invs, nil
}

/*
* Validate the report and the open admission it belongs to
* A linked investigation must be for the same admission
* The investigation is Completed once every ordered test has a report
 */
func AddLabReport(ctx context.Context, actor models.StaffRef, input LabReportInput) (*models.LabReport, error) {
	if strings.TrimSpace(input.TestName) == "" || strings.TrimSpace(input.Result) == "" {
		return nil, util.ValidationError(util.LAB_REPORT_FIELDS_REQUIRED)
	}
	var inv *models.Investigation
	if input.InvestigationID != "" {
		found, err := store.Investigations.Get(ctx, input.InvestigationID)
		if err != nil {
			return nil, storeError(err, util.INVESTIGATION_NOT_FOUND)
		}
		inv = found
		if input.PatientID == "" {
			input.PatientID = inv.PatientID
		}
		if input.AdmissionID == "" {
			input.AdmissionID = inv.AdmissionID
		}
		if inv.PatientID != input.PatientID || inv.AdmissionID != input.AdmissionID {
			return nil, util.NotFound(util.INVESTIGATION_NOT_FOUND)
		}
	}
	patient, err := loadPatient(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if _, err := findOpenAdmission(patient, input.AdmissionID); err != nil {
		return nil, err
	}
	report := &models.LabReport{
		ReportID:        primitive.NewObjectID().Hex(),
		InvestigationID: input.InvestigationID,
		PatientID:       input.PatientID,
		AdmissionID:     input.AdmissionID,
		TestName:        strings.TrimSpace(input.TestName),
		Result:          strings.TrimSpace(input.Result),
		Unit:            input.Unit,
		NormalRange:     input.NormalRange,
		FileURL:         input.FileURL,
		ReportedBy:      actor,
		ReportedAt:      now(),
	}
	if err := store.LabReports.Create(ctx, report); err != nil {
		log.Println("Error from labReports.Create: ", err)
		return nil, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	if inv != nil && inv.Status != models.InvestigationCompleted {
		if err := completeInvestigation(ctx, inv); err != nil {
			log.Println("Error while completing investigation: ", err)
		}
	}
	return report, nil
}

func completeInvestigation(ctx context.Context, inv *models.Investigation) error {
	reports, err := store.LabReports.ListByInvestigation(ctx, inv.InvestigationID)
	if err != nil {
		return err
	}
	reported := map[string]bool{}
	for _, r := range reports {
		reported[strings.ToLower(r.TestName)] = true
	}
	for _, test := range inv.Tests {
		if !reported[strings.ToLower(test)] {
			return nil
		}
	}
	inv.Status = models.InvestigationCompleted
	inv.UpdatedAt = now()
	return store.Investigations.Save(ctx, inv)
}
