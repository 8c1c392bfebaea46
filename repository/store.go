package repository

import "go.mongodb.org/mongo-driver/mongo"

// NewMongoStore wires every collection of database. Drafts default to memory
// and are replaced with the redis store when caching is enabled.
func NewMongoStore(database *mongo.Database) *Store {
	return &Store{
		Patients:       NewMongoPatients(database),
		History:        NewMongoHistory(database),
		Counters:       NewMongoCounters(database),
		Sections:       NewMongoSections(database),
		Wards:          NewMongoWards(database),
		Emergency:      NewMongoEmergency(database),
		Investigations: NewMongoInvestigations(database),
		LabReports:     NewMongoLabReports(database),
		Drafts:         NewMemoryDrafts(),
	}
}
