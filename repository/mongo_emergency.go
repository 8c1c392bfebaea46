package repository

import (
	"context"
	"errors"

	db "WardCare360/config/db"
	"WardCare360/models"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEmergency struct {
	coll *mongo.Collection
}

func NewMongoEmergency(database *mongo.Database) EmergencyMedicationRepository {
	return &mongoEmergency{coll: database.Collection(util.EmergencyMedicationCollection)}
}

func (m *mongoEmergency) Create(ctx context.Context, med *models.EmergencyMedication) error {
	_, err := db.CreateOne(ctx, m.coll, med)
	return err
}

func (m *mongoEmergency) Get(ctx context.Context, medicationID string) (*models.EmergencyMedication, error) {
	med := &models.EmergencyMedication{}
	err := db.FindOne(ctx, m.coll, bson.M{"medicationId": medicationID}, med)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return med, nil
}

// List returns every request when status is empty.
func (m *mongoEmergency) List(ctx context.Context, status string) ([]models.EmergencyMedication, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	meds := []models.EmergencyMedication{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if err := db.FindAll(ctx, m.coll, filter, &meds, opts); err != nil {
		log.Println("Error from findAll while listing emergency medications: ", err)
		return nil, err
	}
	return meds, nil
}

func (m *mongoEmergency) Save(ctx context.Context, med *models.EmergencyMedication) error {
	expected := med.Revision
	med.Revision = expected + 1
	result, err := db.ReplaceOne(ctx, m.coll, bson.M{"medicationId": med.MedicationID, "revision": expected}, med)
	if err != nil {
		med.Revision = expected
		log.Println("Error from replaceOne while saving emergency medication: ", err)
		return err
	}
	if result.MatchedCount == 0 {
		med.Revision = expected
		if _, err := m.Get(ctx, med.MedicationID); err != nil {
			return err
		}
		return ErrStaleRevision
	}
	return nil
}
