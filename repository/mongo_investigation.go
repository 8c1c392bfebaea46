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

type mongoInvestigations struct {
	coll *mongo.Collection
}

func NewMongoInvestigations(database *mongo.Database) InvestigationRepository {
	return &mongoInvestigations{coll: database.Collection(util.InvestigationCollection)}
}

func (m *mongoInvestigations) Create(ctx context.Context, inv *models.Investigation) error {
	_, err := db.CreateOne(ctx, m.coll, inv)
	return err
}

func (m *mongoInvestigations) Get(ctx context.Context, investigationID string) (*models.Investigation, error) {
	inv := &models.Investigation{}
	err := db.FindOne(ctx, m.coll, bson.M{"investigationId": investigationID}, inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (m *mongoInvestigations) ListByAdmission(ctx context.Context, patientID, admissionID string) ([]models.Investigation, error) {
	invs := []models.Investigation{}
	filter := bson.M{"patientId": patientID, "admissionId": admissionID}
	opts := options.Find().SetSort(bson.D{{Key: "orderedAt", Value: 1}})
	if err := db.FindAll(ctx, m.coll, filter, &invs, opts); err != nil {
		log.Println("Error from findAll while listing investigations: ", err)
		return nil, err
	}
	return invs, nil
}

func (m *mongoInvestigations) Save(ctx context.Context, inv *models.Investigation) error {
	result, err := db.ReplaceOne(ctx, m.coll, bson.M{"investigationId": inv.InvestigationID}, inv)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoLabReports struct {
	coll *mongo.Collection
}

func NewMongoLabReports(database *mongo.Database) LabReportRepository {
	return &mongoLabReports{coll: database.Collection(util.LabReportCollection)}
}

func (m *mongoLabReports) Create(ctx context.Context, report *models.LabReport) error {
	_, err := db.CreateOne(ctx, m.coll, report)
	return err
}

func (m *mongoLabReports) list(ctx context.Context, filter bson.M) ([]models.LabReport, error) {
	reports := []models.LabReport{}
	opts := options.Find().SetSort(bson.D{{Key: "reportedAt", Value: 1}})
	if err := db.FindAll(ctx, m.coll, filter, &reports, opts); err != nil {
		log.Println("Error from findAll while listing lab reports: ", err)
		return nil, err
	}
	return reports, nil
}

func (m *mongoLabReports) ListByAdmission(ctx context.Context, admissionID string) ([]models.LabReport, error) {
	return m.list(ctx, bson.M{"admissionId": admissionID})
}

func (m *mongoLabReports) ListByInvestigation(ctx context.Context, investigationID string) ([]models.LabReport, error) {
	return m.list(ctx, bson.M{"investigationId": investigationID})
}
