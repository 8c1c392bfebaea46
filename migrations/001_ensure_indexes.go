package migrations

import (
	"context"

	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type uniqueIndex struct {
	collection string
	field      string
}

// The repositories rely on these for duplicate detection.
var uniqueIndexes = []uniqueIndex{
	{util.PatientCollection, "patientId"},
	{util.PatientHistoryCollection, "patientId"},
	{util.CounterCollection, "name"},
	{util.SectionCollection, "sectionId"},
	{util.SectionCollection, "name"},
	{util.WardCollection, "wardId"},
	{util.WardCollection, "name"},
	{util.EmergencyMedicationCollection, "medicationId"},
	{util.InvestigationCollection, "investigationId"},
}

func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for _, idx := range uniqueIndexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: idx.field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		name, err := database.Collection(idx.collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			log.Println("Error while creating index on ", idx.collection, ": ", err)
			return err
		}
		log.Println("Index ensured: ", idx.collection, ".", name)
	}
	lookups := map[string]string{
		util.EmergencyMedicationCollection: "status",
		util.InvestigationCollection:       "admissionId",
		util.LabReportCollection:           "admissionId",
	}
	for collection, field := range lookups {
		model := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
		if _, err := database.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			log.Println("Error while creating index on ", collection, ": ", err)
			return err
		}
	}
	return nil
}
