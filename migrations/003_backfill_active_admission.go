package migrations

import (
	"context"
	"strconv"

	"WardCare360/models"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
* Patients with open admissions but none flagged active
* Flag the latest admission that is not yet discharged
 */
func BackfillActiveAdmission(ctx context.Context, database *mongo.Database) error {
	coll := database.Collection(util.PatientCollection)
	filter := bson.M{
		"discharged":       false,
		"admissionRecords": bson.M{"$not": bson.M{"$elemMatch": bson.M{"isActive": true}}, "$ne": bson.A{}},
	}
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		log.Println("Error from find while backfilling active admission: ", err)
		return err
	}
	defer cursor.Close(ctx)

	updated := 0
	for cursor.Next(ctx) {
		patient := models.Patient{}
		if err := cursor.Decode(&patient); err != nil {
			log.Println("Skipping undecodable patient: ", err)
			continue
		}
		index := latestOpenAdmission(patient.AdmissionRecords)
		if index < 0 {
			continue
		}
		_, err := coll.UpdateOne(ctx, bson.M{"patientId": patient.PatientID}, bson.M{
			"$set": bson.M{"admissionRecords." + strconv.Itoa(index) + ".isActive": true},
			"$inc": bson.M{"revision": 1},
		})
		if err != nil {
			log.Println("Error from updateOne while backfilling active admission: ", err)
			return err
		}
		updated++
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	log.Printf("Active admission backfill applied: %d patients updated", updated)
	return nil
}

func latestOpenAdmission(records []models.AdmissionRecord) int {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Status != models.AdmissionDischarged {
			return i
		}
	}
	return -1
}
