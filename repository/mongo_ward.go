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

type mongoSections struct {
	coll *mongo.Collection
}

func NewMongoSections(database *mongo.Database) SectionRepository {
	return &mongoSections{coll: database.Collection(util.SectionCollection)}
}

// Create relies on the unique sectionId and name indexes.
func (m *mongoSections) Create(ctx context.Context, section *models.Section) error {
	_, err := db.CreateOne(ctx, m.coll, section)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *mongoSections) Get(ctx context.Context, sectionID string) (*models.Section, error) {
	section := &models.Section{}
	err := db.FindOne(ctx, m.coll, bson.M{"sectionId": sectionID}, section)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return section, nil
}

func (m *mongoSections) List(ctx context.Context) ([]models.Section, error) {
	sections := []models.Section{}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if err := db.FindAll(ctx, m.coll, bson.M{}, &sections, opts); err != nil {
		log.Println("Error from findAll while listing sections: ", err)
		return nil, err
	}
	return sections, nil
}

type mongoWards struct {
	coll *mongo.Collection
}

func NewMongoWards(database *mongo.Database) WardRepository {
	return &mongoWards{coll: database.Collection(util.WardCollection)}
}

func (m *mongoWards) Create(ctx context.Context, ward *models.Ward) error {
	_, err := db.CreateOne(ctx, m.coll, ward)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *mongoWards) Get(ctx context.Context, wardID string) (*models.Ward, error) {
	ward := &models.Ward{}
	err := db.FindOne(ctx, m.coll, bson.M{"wardId": wardID}, ward)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ward, nil
}

func (m *mongoWards) List(ctx context.Context) ([]models.Ward, error) {
	wards := []models.Ward{}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if err := db.FindAll(ctx, m.coll, bson.M{}, &wards, opts); err != nil {
		log.Println("Error from findAll while listing wards: ", err)
		return nil, err
	}
	return wards, nil
}

// Save follows the patient revision check, a concurrent nurse assignment must not be overwritten.
func (m *mongoWards) Save(ctx context.Context, ward *models.Ward) error {
	expected := ward.Revision
	ward.Revision = expected + 1
	result, err := db.ReplaceOne(ctx, m.coll, bson.M{"wardId": ward.WardID, "revision": expected}, ward)
	if err != nil {
		ward.Revision = expected
		log.Println("Error from replaceOne while saving ward: ", err)
		return err
	}
	if result.MatchedCount == 0 {
		ward.Revision = expected
		if _, err := m.Get(ctx, ward.WardID); err != nil {
			return err
		}
		return ErrStaleRevision
	}
	return nil
}
