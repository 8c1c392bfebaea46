package migrations

import (
	"context"

	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BackfillRevision gives documents written before optimistic saves a starting revision.
func BackfillRevision(ctx context.Context, database *mongo.Database) error {
	for _, name := range []string{util.PatientCollection, util.WardCollection, util.EmergencyMedicationCollection} {
		result, err := database.Collection(name).UpdateMany(
			ctx,
			bson.M{"revision": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{"revision": int64(0)}},
		)
		if err != nil {
			log.Println("Revision backfill failed for "+name+": ", err)
			return err
		}
		log.Printf("Revision backfill applied to %s: %d documents updated", name, result.ModifiedCount)
	}
	return nil
}
