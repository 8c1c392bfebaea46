package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Patient struct {
	ID               primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PatientID        string             `json:"patientId" bson:"patientId"`
	Name             string             `json:"name" bson:"name"`
	Age              int                `json:"age" bson:"age"`
	Gender           string             `json:"gender" bson:"gender"`
	Contact          string             `json:"contact" bson:"contact"`
	Address          string             `json:"address" bson:"address"`
	Dob              string             `json:"dob" bson:"dob"`
	ImageURL         string             `json:"imageUrl" bson:"imageUrl"`
	Discharged       bool               `json:"discharged" bson:"discharged"`
	PendingAmount    float64            `json:"pendingAmount" bson:"pendingAmount"`
	AdmissionRecords []AdmissionRecord  `json:"admissionRecords" bson:"admissionRecords"`
	Revision         int64              `json:"revision" bson:"revision"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy        string             `json:"createdBy" bson:"createdBy"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string             `json:"updatedBy" bson:"updatedBy"`
}

// ActiveAdmission returns the admission flagged as the current stay, or nil.
func (p *Patient) ActiveAdmission() *AdmissionRecord {
	for i := range p.AdmissionRecords {
		if p.AdmissionRecords[i].IsActive {
			return &p.AdmissionRecords[i]
		}
	}
	return nil
}

func (p *Patient) FindAdmission(admissionID string) (*AdmissionRecord, int) {
	for i := range p.AdmissionRecords {
		if p.AdmissionRecords[i].AdmissionID == admissionID {
			return &p.AdmissionRecords[i], i
		}
	}
	return nil, -1
}

// RemoveAdmission splices the admission out and reports whether it was present.
func (p *Patient) RemoveAdmission(admissionID string) bool {
	_, idx := p.FindAdmission(admissionID)
	if idx < 0 {
		return false
	}
	p.AdmissionRecords = append(p.AdmissionRecords[:idx], p.AdmissionRecords[idx+1:]...)
	return true
}
