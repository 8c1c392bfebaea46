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

type mongoPatients struct {
	coll *mongo.Collection
}

func NewMongoPatients(database *mongo.Database) PatientRepository {
	return &mongoPatients{coll: database.Collection(util.PatientCollection)}
}

func (m *mongoPatients) Create(ctx context.Context, patient *models.Patient) error {
	_, err := db.CreateOne(ctx, m.coll, patient)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *mongoPatients) Get(ctx context.Context, patientID string) (*models.Patient, error) {
	patient := &models.Patient{}
	err := db.FindOne(ctx, m.coll, bson.M{"patientId": patientID}, patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Println("Error from findOne while fetching patient: ", err)
		return nil, err
	}
	return patient, nil
}

func patientFilter(query PatientQuery) bson.M {
	filter := bson.M{}
	if query.Discharged != nil {
		filter["discharged"] = *query.Discharged
	}
	if query.Active || query.DoctorID != "" || query.SectionID != "" {
		match := bson.M{"isActive": true}
		if query.DoctorID != "" {
			match["doctor.id"] = query.DoctorID
		}
		if query.SectionID != "" {
			match["section.id"] = query.SectionID
		}
		filter["admissionRecords"] = bson.M{"$elemMatch": match}
	}
	return filter
}

func (m *mongoPatients) List(ctx context.Context, query PatientQuery) ([]models.Patient, error) {
	patients := []models.Patient{}
	opts := options.Find().SetSort(bson.D{{Key: "patientId", Value: 1}})
	if err := db.FindAll(ctx, m.coll, patientFilter(query), &patients, opts); err != nil {
		log.Println("Error from findAll while listing patients: ", err)
		return nil, err
	}
	return patients, nil
}

/*
* Replace only if the stored revision is the one we loaded
* On no match, look the patient up again to tell stale from missing
 */
func (m *mongoPatients) Save(ctx context.Context, patient *models.Patient) error {
	expected := patient.Revision
	patient.Revision = expected + 1
	filter := bson.M{"patientId": patient.PatientID, "revision": expected}
	result, err := db.ReplaceOne(ctx, m.coll, filter, patient)
	if err != nil {
		patient.Revision = expected
		log.Println("Error from replaceOne while saving patient: ", err)
		return err
	}
	if result.MatchedCount == 0 {
		patient.Revision = expected
		if _, err := m.Get(ctx, patient.PatientID); err != nil {
			return err
		}
		return ErrStaleRevision
	}
	return nil
}

func (m *mongoPatients) Delete(ctx context.Context, patientID string) error {
	result, err := db.DeleteOne(ctx, m.coll, bson.M{"patientId": patientID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

/*
* Single targeted write using array filters
* The item filter also requires status Pending, so a finalized item is never touched
* When nothing is modified, read the patient back to report why
 */
func (m *mongoPatients) SetTreatmentStatus(ctx context.Context, patientID, admissionID string, t models.TreatmentType, itemID string, tr models.TreatmentTransition) error {
	prefix := "admissionRecords.$[a]." + string(t) + ".$[t]."
	update := bson.M{
		"$set": bson.M{
			prefix + "status":  tr.Status,
			prefix + "actedBy": tr.ActedBy,
			prefix + "actedAt": tr.ActedAt,
			prefix + "notes":   tr.Notes,
		},
		"$inc": bson.M{"revision": 1},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"a.admissionId": admissionID},
			bson.M{"t.itemId": itemID, "t.status": models.TreatmentPending},
		},
	})
	filter := bson.M{
		"patientId": patientID,
		"admissionRecords": bson.M{"$elemMatch": bson.M{
			"admissionId": admissionID,
			string(t): bson.M{"$elemMatch": bson.M{"itemId": itemID, "status": models.TreatmentPending}},
		}},
	}
	result, err := db.UpdateOne(ctx, m.coll, filter, update, opts)
	if err != nil {
		log.Println("Error from updateOne while setting treatment status: ", err)
		return err
	}
	if result.ModifiedCount == 1 {
		return nil
	}
	return m.explainTreatmentMiss(ctx, patientID, admissionID, t, itemID)
}

func (m *mongoPatients) explainTreatmentMiss(ctx context.Context, patientID, admissionID string, t models.TreatmentType, itemID string) error {
	patient, err := m.Get(ctx, patientID)
	if err != nil {
		return err
	}
	admission, _ := patient.FindAdmission(admissionID)
	if admission == nil {
		return ErrNotFound
	}
	for _, item := range *admission.Items(t) {
		if item.ItemID == itemID {
			return ErrNotPending
		}
	}
	return ErrNotFound
}

func (m *mongoPatients) PullTreatmentItem(ctx context.Context, patientID, admissionID string, t models.TreatmentType, itemID string) error {
	update := bson.M{
		"$pull": bson.M{"admissionRecords.$[a]." + string(t): bson.M{"itemId": itemID}},
		"$inc":  bson.M{"revision": 1},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"a.admissionId": admissionID}},
	})
	filter := bson.M{
		"patientId": patientID,
		"admissionRecords": bson.M{"$elemMatch": bson.M{
			"admissionId":            admissionID,
			string(t) + ".itemId": itemID,
		}},
	}
	result, err := db.UpdateOne(ctx, m.coll, filter, update, opts)
	if err != nil {
		log.Println("Error from updateOne while pulling treatment item: ", err)
		return err
	}
	if result.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoPatients) ListAwaitingArchival(ctx context.Context) ([]models.Patient, error) {
	filter := bson.M{
		"admissionRecords": bson.M{"$elemMatch": bson.M{
			"status":        models.AdmissionDischarged,
			"dischargeDate": bson.M{"$ne": nil},
		}},
	}
	patients := []models.Patient{}
	if err := db.FindAll(ctx, m.coll, filter, &patients); err != nil {
		log.Println("Error from findAll while listing admissions awaiting archival: ", err)
		return nil, err
	}
	return patients, nil
}
