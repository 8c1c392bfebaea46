package models

import "time"

const (
	AdmissionPending    = "Pending"
	AdmissionAdmitted   = "Admitted"
	AdmissionDischarged = "Discharged"
)

// Conditions at discharge
const (
	ConditionDischarged  = "Discharged"
	ConditionTransferred = "Transferred"
	ConditionDAMA        = "D.A.M.A."
	ConditionAbsconded   = "Absconded"
	ConditionExpired     = "Expired"
)

var DischargeConditions = []string{
	ConditionDischarged,
	ConditionTransferred,
	ConditionDAMA,
	ConditionAbsconded,
	ConditionExpired,
}

func IsDischargeCondition(value string) bool {
	for _, c := range DischargeConditions {
		if c == value {
			return true
		}
	}
	return false
}

// StaffRef is the denormalized id/name/usertype triple of a doctor, nurse or admin.
type StaffRef struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	UserType string `json:"usertype" bson:"usertype"`
}

type SectionRef struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Type string `json:"type" bson:"type"`
}

type AdmissionRecord struct {
	AdmissionID          string            `json:"admissionId" bson:"admissionId"`
	OPDNumber            int               `json:"opdNumber" bson:"opdNumber"`
	IPDNumber            int               `json:"ipdNumber,omitempty" bson:"ipdNumber,omitempty"`
	AdmissionDate        time.Time         `json:"admissionDate" bson:"admissionDate"`
	DischargeDate        *time.Time        `json:"dischargeDate" bson:"dischargeDate"`
	Status               string            `json:"status" bson:"status"`
	IsActive             bool              `json:"isActive" bson:"isActive"`
	ReasonForAdmission   string            `json:"reasonForAdmission" bson:"reasonForAdmission"`
	Symptoms             string            `json:"symptoms" bson:"symptoms"`
	AdmitNotes           string            `json:"admitNotes,omitempty" bson:"admitNotes,omitempty"`
	AdmittedAt           *time.Time        `json:"admittedAt,omitempty" bson:"admittedAt,omitempty"`
	ConditionAtDischarge string            `json:"conditionAtDischarge,omitempty" bson:"conditionAtDischarge,omitempty"`
	AmountToBePayed      float64           `json:"amountToBePayed" bson:"amountToBePayed"`
	Doctor               *StaffRef         `json:"doctor,omitempty" bson:"doctor,omitempty"`
	Section              *SectionRef       `json:"section,omitempty" bson:"section,omitempty"`
	BedNumber            int               `json:"bedNumber,omitempty" bson:"bedNumber,omitempty"`
	Vitals               []Vital           `json:"vitals" bson:"vitals"`
	DoctorNotes          []ClinicalNote    `json:"doctorNotes" bson:"doctorNotes"`
	SymptomsByDoctor     []ClinicalNote    `json:"symptomsByDoctor" bson:"symptomsByDoctor"`
	DiagnosisByDoctor    []ClinicalNote    `json:"diagnosisByDoctor" bson:"diagnosisByDoctor"`
	DoctorPrescriptions  []Prescription    `json:"doctorPrescriptions" bson:"doctorPrescriptions"`
	DoctorConsulting     []Consulting      `json:"doctorConsulting" bson:"doctorConsulting"`
	FollowUps            []FollowUp        `json:"followUps" bson:"followUps"`
	FourHrFollowUps      []FollowUp        `json:"fourHrFollowUpSchema" bson:"fourHrFollowUpSchema"`
	SurgicalNotes        []ClinicalNote    `json:"surgicalNotes" bson:"surgicalNotes"`
	Medications          []TreatmentItem   `json:"medications" bson:"medications"`
	IVFluids             []TreatmentItem   `json:"ivFluids" bson:"ivFluids"`
	Procedures           []TreatmentItem   `json:"procedures" bson:"procedures"`
	SpecialInstructions  []TreatmentItem   `json:"specialInstructions" bson:"specialInstructions"`
	DischargeSummary     *DischargeSummary `json:"dischargeSummary,omitempty" bson:"dischargeSummary,omitempty"`
	IPDDetailsUpdated    bool              `json:"ipdDetailsUpdated" bson:"ipdDetailsUpdated"`
	// ArchivalBalance is the patient's pendingAmount captured when archival starts, so a
	// resumed archival reports the balance from before the discharge.
	ArchivalBalance *float64 `json:"-" bson:"archivalBalance,omitempty"`
}

// AwaitingArchival is true for an admission that has been discharged but not yet spliced out.
func (a *AdmissionRecord) AwaitingArchival() bool {
	return a.Status == AdmissionDischarged && a.DischargeDate != nil
}

func (a *AdmissionRecord) AssignedTo(doctorID string) bool {
	return a.Doctor != nil && a.Doctor.ID == doctorID
}

// Items returns a pointer to the treatment list for the type.
func (a *AdmissionRecord) Items(t TreatmentType) *[]TreatmentItem {
	switch t {
	case TreatmentMedications:
		return &a.Medications
	case TreatmentIVFluids:
		return &a.IVFluids
	case TreatmentProcedures:
		return &a.Procedures
	case TreatmentSpecialInstructions:
		return &a.SpecialInstructions
	}
	return nil
}

type Vital struct {
	EntryID         string    `json:"entryId" bson:"entryId"`
	Temperature     string    `json:"temperature,omitempty" bson:"temperature,omitempty"`
	Pulse           string    `json:"pulse,omitempty" bson:"pulse,omitempty"`
	BloodPressure   string    `json:"bloodPressure,omitempty" bson:"bloodPressure,omitempty"`
	RespiratoryRate string    `json:"respiratoryRate,omitempty" bson:"respiratoryRate,omitempty"`
	SpO2            string    `json:"spo2,omitempty" bson:"spo2,omitempty"`
	BloodSugar      string    `json:"bloodSugar,omitempty" bson:"bloodSugar,omitempty"`
	Other           string    `json:"other,omitempty" bson:"other,omitempty"`
	RecordedBy      StaffRef  `json:"recordedBy" bson:"recordedBy"`
	RecordedAt      time.Time `json:"recordedAt" bson:"recordedAt"`
}

// ClinicalNote backs doctor notes, symptoms, diagnosis and surgical notes.
type ClinicalNote struct {
	EntryID    string    `json:"entryId" bson:"entryId"`
	Text       string    `json:"text,omitempty" bson:"text,omitempty"`
	Items      []string  `json:"items,omitempty" bson:"items,omitempty"`
	Date       string    `json:"date,omitempty" bson:"date,omitempty"`
	Time       string    `json:"time,omitempty" bson:"time,omitempty"`
	RecordedBy StaffRef  `json:"recordedBy" bson:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt" bson:"recordedAt"`
}

type PrescribedMedicine struct {
	Name      string `json:"name" bson:"name"`
	Morning   string `json:"morning,omitempty" bson:"morning,omitempty"`
	Afternoon string `json:"afternoon,omitempty" bson:"afternoon,omitempty"`
	Night     string `json:"night,omitempty" bson:"night,omitempty"`
	Dosage    string `json:"dosage,omitempty" bson:"dosage,omitempty"`
	Days      int    `json:"days,omitempty" bson:"days,omitempty"`
}

type Prescription struct {
	EntryID      string             `json:"entryId" bson:"entryId"`
	Medicine     PrescribedMedicine `json:"medicine" bson:"medicine"`
	Instructions string             `json:"instructions,omitempty" bson:"instructions,omitempty"`
	RecordedBy   StaffRef           `json:"recordedBy" bson:"recordedBy"`
	RecordedAt   time.Time          `json:"recordedAt" bson:"recordedAt"`
}

type Consulting struct {
	EntryID    string    `json:"entryId" bson:"entryId"`
	Consultant string    `json:"consultant" bson:"consultant"`
	Speciality string    `json:"speciality,omitempty" bson:"speciality,omitempty"`
	Advice     string    `json:"advice,omitempty" bson:"advice,omitempty"`
	Date       string    `json:"date,omitempty" bson:"date,omitempty"`
	RecordedBy StaffRef  `json:"recordedBy" bson:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt" bson:"recordedAt"`
}

type FollowUp struct {
	EntryID      string            `json:"entryId" bson:"entryId"`
	Date         string            `json:"date,omitempty" bson:"date,omitempty"`
	Time         string            `json:"time,omitempty" bson:"time,omitempty"`
	Notes        string            `json:"notes,omitempty" bson:"notes,omitempty"`
	Observations map[string]string `json:"observations,omitempty" bson:"observations,omitempty"`
	RecordedBy   StaffRef          `json:"recordedBy" bson:"recordedBy"`
	RecordedAt   time.Time         `json:"recordedAt" bson:"recordedAt"`
}
