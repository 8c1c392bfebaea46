package models

import "time"

type TreatmentType string

const (
	TreatmentMedications         TreatmentType = "medications"
	TreatmentIVFluids            TreatmentType = "ivFluids"
	TreatmentProcedures          TreatmentType = "procedures"
	TreatmentSpecialInstructions TreatmentType = "specialInstructions"
)

var TreatmentTypes = []TreatmentType{
	TreatmentMedications,
	TreatmentIVFluids,
	TreatmentProcedures,
	TreatmentSpecialInstructions,
}

func ParseTreatmentType(value string) (TreatmentType, bool) {
	for _, t := range TreatmentTypes {
		if string(t) == value {
			return t, true
		}
	}
	return "", false
}

// Treatment item statuses
const (
	TreatmentPending      = "Pending"
	TreatmentAdministered = "Administered"
	TreatmentCompleted    = "Completed"
	TreatmentSkipped      = "Skipped"
)

// DoneStatus is Administered for medications and IV fluids, Completed otherwise.
func (t TreatmentType) DoneStatus() string {
	if t == TreatmentMedications || t == TreatmentIVFluids {
		return TreatmentAdministered
	}
	return TreatmentCompleted
}

// Treatment item sources
const (
	SourceDoctor    = "doctor"
	SourceEmergency = "emergency"
)

type TreatmentItem struct {
	ItemID                string     `json:"itemId" bson:"itemId"`
	Name                  string     `json:"name,omitempty" bson:"name,omitempty"`
	Instruction           string     `json:"instruction,omitempty" bson:"instruction,omitempty"`
	Dosage                string     `json:"dosage,omitempty" bson:"dosage,omitempty"`
	Quantity              string     `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Frequency             string     `json:"frequency,omitempty" bson:"frequency,omitempty"`
	Route                 string     `json:"route,omitempty" bson:"route,omitempty"`
	Date                  string     `json:"date,omitempty" bson:"date,omitempty"`
	Time                  string     `json:"time,omitempty" bson:"time,omitempty"`
	Status                string     `json:"status" bson:"status"`
	ActedBy               *StaffRef  `json:"actedBy,omitempty" bson:"actedBy,omitempty"`
	ActedAt               *time.Time `json:"actedAt,omitempty" bson:"actedAt,omitempty"`
	Notes                 string     `json:"notes,omitempty" bson:"notes,omitempty"`
	OrderedBy             StaffRef   `json:"orderedBy" bson:"orderedBy"`
	OrderedAt             time.Time  `json:"orderedAt" bson:"orderedAt"`
	Source                string     `json:"source" bson:"source"`
	EmergencyMedicationID string     `json:"emergencyMedicationId,omitempty" bson:"emergencyMedicationId,omitempty"`
}

// TreatmentTransition is the stamp written when an item leaves Pending.
type TreatmentTransition struct {
	Status  string
	ActedBy StaffRef
	ActedAt time.Time
	Notes   string
}
