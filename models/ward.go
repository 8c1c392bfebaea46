package models

import "time"

// Shifts
const (
	ShiftMorning = "Morning"
	ShiftEvening = "Evening"
	ShiftNight   = "Night"
)

func IsShift(value string) bool {
	return value == ShiftMorning || value == ShiftEvening || value == ShiftNight
}

// Section is the bed-bearing hospital area doctors assign patients into.
type Section struct {
	SectionID string    `json:"sectionId" bson:"sectionId"`
	Name      string    `json:"name" bson:"name"`
	Type      string    `json:"type" bson:"type"`
	Beds      int       `json:"beds" bson:"beds"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	CreatedBy string    `json:"createdBy" bson:"createdBy"`
}

func (s Section) Ref() SectionRef {
	return SectionRef{ID: s.SectionID, Name: s.Name, Type: s.Type}
}

type Ward struct {
	WardID           string            `json:"wardId" bson:"wardId"`
	Name             string            `json:"name" bson:"name"`
	Type             string            `json:"type" bson:"type"`
	TotalBeds        int               `json:"totalBeds" bson:"totalBeds"`
	SectionID        string            `json:"sectionId,omitempty" bson:"sectionId,omitempty"`
	NurseAssignments []NurseAssignment `json:"nurseAssignments" bson:"nurseAssignments"`
	Revision         int64             `json:"revision" bson:"revision"`
	CreatedAt        time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt" bson:"updatedAt"`
}

type NurseAssignment struct {
	AssignmentID string     `json:"assignmentId" bson:"assignmentId"`
	NurseID      string     `json:"nurseId" bson:"nurseId"`
	NurseName    string     `json:"nurseName" bson:"nurseName"`
	Shift        string     `json:"shift" bson:"shift"`
	IsActive     bool       `json:"isActive" bson:"isActive"`
	AssignedBy   string     `json:"assignedBy" bson:"assignedBy"`
	AssignedAt   time.Time  `json:"assignedAt" bson:"assignedAt"`
	EndedAt      *time.Time `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

type BedStatus struct {
	BedNumber   int    `json:"bedNumber"`
	Occupied    bool   `json:"occupied"`
	PatientID   string `json:"patientId,omitempty"`
	PatientName string `json:"patientName,omitempty"`
	AdmissionID string `json:"admissionId,omitempty"`
}

type WardOccupancy struct {
	WardID       string            `json:"wardId"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	SectionID    string            `json:"sectionId,omitempty"`
	TotalBeds    int               `json:"totalBeds"`
	Occupied     int               `json:"occupied"`
	Available    int               `json:"available"`
	Beds         []BedStatus       `json:"beds"`
	ActiveNurses []NurseAssignment `json:"activeNurses"`
}
