package mongo

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const measurementCollectionName = "measurements"

// mongoMeasurementRepository implements repository.MeasurementRepository
type mongoMeasurementRepository struct {
	collection *mongo.Collection
	clients    *mongo.Collection
}

// NewMongoMeasurementRepository creates a new Measurement repository backed by MongoDB.
func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
		clients:    db.Collection(clientCollectionName),
	}
}

// Create appends a measurement to the client's log.
func (r *mongoMeasurementRepository) Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error) {
	if measurement.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("measurement requires clientId")
	}

	measurement.ID = primitive.NewObjectID()
	measurement.CreatedAt = time.Now().UTC()

	inserted, err := insertOwned(ctx, r.clients, r.collection, measurement.ClientID, measurement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := inserted.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted measurement ID")
	}
	return insertedID, nil
}

// List retrieves measurements, newest first.
func (r *mongoMeasurementRepository) List(ctx context.Context, filter repository.MeasurementFilter) ([]domain.Measurement, error) {
	query := bson.M{}
	if filter.ClientID != nil {
		query["clientId"] = *filter.ClientID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	measurements := []domain.Measurement{}
	if err = cursor.All(ctx, &measurements); err != nil {
		return nil, err
	}
	return measurements, nil
}

func (r *mongoMeasurementRepository) CountByClient(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	return countByClient(ctx, r.collection)
}

// EnsureMeasurementIndexes creates necessary indexes for the measurements collection.
func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
