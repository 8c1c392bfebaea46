package db

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

/*
* Connect to the uri and ping the primary
* Keep the client and database for the collection helpers
 */
func Connect(ctx context.Context, uri string, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Println("Error while connecting to mongo: ", err)
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Println("Error while pinging mongo: ", err)
		return nil, err
	}
	Client = client
	DB = client.Database(database)
	log.Println("Connected to mongo database: ", database)
	return DB, nil
}

func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

func Ping(ctx context.Context) error {
	if Client == nil {
		return mongo.ErrClientDisconnected
	}
	return Client.Ping(ctx, readpref.Primary())
}

func OpenCollections(name string) *mongo.Collection {
	return DB.Collection(name)
}

func FindOne(ctx context.Context, coll *mongo.Collection, filter interface{}, result interface{}) error {
	return coll.FindOne(ctx, filter).Decode(result)
}

// FindAll decodes every match into results, which must be a pointer to a slice.
func FindAll(ctx context.Context, coll *mongo.Collection, filter interface{}, results interface{}, opts ...*options.FindOptions) error {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, results)
}

func CreateOne(ctx context.Context, coll *mongo.Collection, document interface{}) (*mongo.InsertOneResult, error) {
	return coll.InsertOne(ctx, document)
}

func UpdateOne(ctx context.Context, coll *mongo.Collection, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return coll.UpdateOne(ctx, filter, update, opts...)
}

func ReplaceOne(ctx context.Context, coll *mongo.Collection, filter interface{}, document interface{}) (*mongo.UpdateResult, error) {
	return coll.ReplaceOne(ctx, filter, document)
}

func DeleteOne(ctx context.Context, coll *mongo.Collection, filter interface{}) (*mongo.DeleteResult, error) {
	return coll.DeleteOne(ctx, filter)
}
