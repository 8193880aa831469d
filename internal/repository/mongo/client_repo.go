package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository. Workouts and
// the weekly plan are embedded in the client document.
type mongoClientRepository struct {
	collection *mongo.Collection
}

func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Save inserts a new client or replaces an existing one.
func (r *mongoClientRepository) Save(ctx context.Context, client *domain.Client) error {
	if client.Name == "" || client.TelegramHandle == "" {
		return errors.New("client name and telegram handle are required")
	}
	client.TelegramHandle = domain.NormalizeHandle(client.TelegramHandle)
	if client.CompletedWorkouts == nil {
		client.CompletedWorkouts = []domain.WorkoutRecord{}
	}
	if client.WeeklyPlan == nil {
		client.WeeklyPlan = domain.WeeklyPlan{}
	}
	now := time.Now().UTC()
	client.UpdatedAt = now

	if client.ID == primitive.NilObjectID {
		client.ID = primitive.NewObjectID()
		client.CreatedAt = now
		if _, err := r.collection.InsertOne(ctx, client); err != nil {
			client.ID = primitive.NilObjectID
			if mongo.IsDuplicateKeyError(err) {
				return repository.ErrDuplicate
			}
			return err
		}
		return nil
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": client.ID}, client)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoClientRepository) GetByHandle(ctx context.Context, handle string) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"telegramHandle": domain.NormalizeHandle(handle)})
}

func (r *mongoClientRepository) findOne(ctx context.Context, filter bson.M) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, filter).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetByTrainerID lists a trainer's clients ordered by name.
func (r *mongoClientRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
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

func (r *mongoClientRepository) SetTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	return r.updateOne(ctx, clientID, bson.M{"$set": bson.M{
		"trainerId": trainerID,
		"updatedAt": time.Now().UTC(),
	}})
}

// ReplacePlan swaps the whole weekly plan.
func (r *mongoClientRepository) ReplacePlan(ctx context.Context, clientID primitive.ObjectID, plan domain.WeeklyPlan) error {
	if plan == nil {
		plan = domain.WeeklyPlan{}
	}
	return r.updateOne(ctx, clientID, bson.M{"$set": bson.M{
		"weeklyPlan": plan,
		"updatedAt":  time.Now().UTC(),
	}})
}

// AppendWorkout pushes a completed workout; records are never rewritten.
func (r *mongoClientRepository) AppendWorkout(ctx context.Context, clientID primitive.ObjectID, workout domain.WorkoutRecord) error {
	return r.updateOne(ctx, clientID, bson.M{
		"$push": bson.M{"completedWorkouts": workout},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoClientRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureClientIndexes creates necessary indexes. Call during startup.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "telegramHandle", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
