package repository

import (
	"context"

	"WardCare360/models"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCounters struct {
	coll *mongo.Collection
}

func NewMongoCounters(database *mongo.Database) CounterRepository {
	return &mongoCounters{coll: database.Collection(util.CounterCollection)}
}

// Next atomically increments the named sequence and returns the new value.
func (m *mongoCounters) Next(ctx context.Context, name string) (int, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	counter := models.Counter{}
	err := m.coll.FindOneAndUpdate(ctx, bson.M{"name": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		log.Println("Error from findOneAndUpdate while incrementing counter: ", err)
		return 0, err
	}
	return counter.Seq, nil
}
