// internal/repository/mongo/workout_repo.go
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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository.
// Exercise entries are embedded in the workout document, so a single
// InsertOne/UpdateOne writes the header and every entry atomically.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
	clients    *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
		clients:    db.Collection(clientCollectionName),
	}
}

// Create inserts a new workout with its entries. It fails with
// repository.ErrNotFound when the client no longer exists.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.ClientID == primitive.NilObjectID || workout.TrainerID == primitive.NilObjectID || len(workout.Exercises) == 0 {
		return primitive.NilObjectID, errors.New("workout requires clientId, trainerId and at least one exercise")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	for i := range workout.Exercises {
		workout.Exercises[i].WorkoutID = workout.ID
		if workout.Exercises[i].ID == primitive.NilObjectID {
			workout.Exercises[i].ID = primitive.NewObjectID()
		}
	}

	inserted, err := insertOwned(ctx, r.clients, r.collection, workout.ClientID, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := inserted.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// List retrieves workouts matching the filter, newest date first.
func (r *mongoWorkoutRepository) List(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	query := bson.M{}
	if filter.ClientID != nil {
		query["clientId"] = *filter.ClientID
	}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		dateRange["$lt"] = *filter.To
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
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

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// ReplaceExercises writes the new entry set together with the recomputed total.
func (r *mongoWorkoutRepository) ReplaceExercises(ctx context.Context, workoutID primitive.ObjectID, exercises []domain.WorkoutExercise, totalVolume float64) error {
	if workoutID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}

	updateDoc := bson.M{
		"$set": bson.M{
			"exercises":   exercises,
			"totalVolume": totalVolume,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workoutID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) CountByClient(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	return countByClient(ctx, r.collection)
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Range queries per client for the period aggregates
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			// Fleet-wide range queries
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
