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

const clientCollectionName = "clients"

// mongoClientRepository implements the repository.ClientRepository interface using MongoDB.
type mongoClientRepository struct {
	collection   *mongo.Collection
	workouts     *mongo.Collection // Needed for the cascade on delete
	measurements *mongo.Collection
}

// NewMongoClientRepository creates a new instance of mongoClientRepository.
// It expects a connected *mongo.Database instance.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection:   db.Collection(clientCollectionName),
		workouts:     db.Collection(workoutCollectionName),
		measurements: db.Collection(measurementCollectionName),
	}
}

// Create inserts a new client into the database.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Name == "" || client.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client name and trainer ID are required")
	}

	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a client by its MongoDB ObjectID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// List retrieves all clients, newest first.
func (r *mongoClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []domain.Client{}
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Update overwrites the profile fields of a client.
// createdAt and trainerId are deliberately not part of the update document.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if client.ID == primitive.NilObjectID {
		return errors.New("client ID is required for update")
	}

	now := time.Now().UTC()
	set := bson.M{
		"name":      client.Name,
		"email":     client.Email,
		"phone":     client.Phone,
		"goals":     client.Goals,
		"notes":     client.Notes,
		"updatedAt": now,
	}
	update := bson.M{"$set": set}
	if client.DateOfBirth != nil {
		set["dateOfBirth"] = client.DateOfBirth
	} else {
		update["$unset"] = bson.M{"dateOfBirth": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": client.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	client.UpdatedAt = now
	return nil
}

// DeleteCascade removes the client, its workouts (with their embedded entries)
// and its measurements inside one multi-document transaction.
// Transactions need a replica set or sharded deployment.
func (r *mongoClientRepository) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.workouts.DeleteMany(sc, bson.M{"clientId": id}); err != nil {
			return nil, err
		}
		if _, err := r.measurements.DeleteMany(sc, bson.M{"clientId": id}); err != nil {
			return nil, err
		}
		result, err := r.collection.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			// Aborts the transaction, nothing above becomes visible.
			return nil, repository.ErrNotFound
		}
		return nil, nil
	})
	return err
}

// insertOwned inserts doc into coll in one transaction with a write to the
// owning client. That write conflicts with a concurrent DeleteCascade, so the
// document never outlives its client. A missing client is repository.ErrNotFound.
func insertOwned(ctx context.Context, clients, coll *mongo.Collection, clientID primitive.ObjectID, doc interface{}) (interface{}, error) {
	session, err := clients.Database().Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		touched, err := clients.UpdateOne(sc, bson.M{"_id": clientID}, bson.M{"$set": bson.M{"lastActivityAt": time.Now().UTC()}})
		if err != nil {
			return nil, err
		}
		if touched.MatchedCount == 0 {
			return nil, repository.ErrNotFound
		}
		result, err := coll.InsertOne(sc, doc)
		if err != nil {
			return nil, err
		}
		return result.InsertedID, nil
	})
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
// Call this once during application startup.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
