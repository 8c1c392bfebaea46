package repository

import (
	"context"
	"errors"
	"time"

	db "WardCare360/config/db"
	"WardCare360/models"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoHistory struct {
	coll *mongo.Collection
}

func NewMongoHistory(database *mongo.Database) HistoryRepository {
	return &mongoHistory{coll: database.Collection(util.PatientHistoryCollection)}
}

func (m *mongoHistory) Get(ctx context.Context, patientID string) (*models.PatientHistory, error) {
	history := &models.PatientHistory{}
	err := db.FindOne(ctx, m.coll, bson.M{"patientId": patientID}, history)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}

/*
* Skip if an entry with this admissionId is already archived
* Upsert creates the history document on the first discharge
* A duplicate key on the unique patientId index means a concurrent writer already added it
 */
func (m *mongoHistory) AppendEntry(ctx context.Context, patientID, name string, entry models.HistoryEntry) (bool, error) {
	count, err := m.coll.CountDocuments(ctx, bson.M{"patientId": patientID, "history.admissionId": entry.AdmissionID})
	if err != nil {
		log.Println("Error from countDocuments while checking history: ", err)
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	now := time.Now()
	filter := bson.M{
		"patientId":           patientID,
		"history.admissionId": bson.M{"$ne": entry.AdmissionID},
	}
	update := bson.M{
		"$push":        bson.M{"history": entry},
		"$set":         bson.M{"name": name, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	result, err := db.UpdateOne(ctx, m.coll, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		log.Println("Error from updateOne while appending history: ", err)
		return false, err
	}
	return result.ModifiedCount == 1 || result.UpsertedCount == 1, nil
}
