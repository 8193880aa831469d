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

const (
	profileCollectionName = "profiles"
	chatCollectionName    = "telegram_chats"
)

type mongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{collection: db.Collection(profileCollectionName)}
}

func (r *mongoProfileRepository) Insert(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if profile.TelegramID == 0 {
		return primitive.NilObjectID, errors.New("profile requires a telegram id")
	}
	profile.ID = primitive.NewObjectID()
	profile.TelegramHandle = domain.NormalizeHandle(profile.TelegramHandle)
	profile.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return profile.ID, nil
}

func (r *mongoProfileRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.collection.FindOne(ctx, bson.M{"telegramId": telegramID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "telegramId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// mongoChatRepository keys chat bindings by the normalized handle.
type mongoChatRepository struct {
	collection *mongo.Collection
}

func NewMongoChatRepository(db *mongo.Database) repository.ChatRepository {
	return &mongoChatRepository{collection: db.Collection(chatCollectionName)}
}

func (r *mongoChatRepository) SaveChatID(ctx context.Context, handle string, chatID int64) error {
	handle = domain.NormalizeHandle(handle)
	if handle == "" || chatID == 0 {
		return errors.New("handle and chat id are required")
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": handle},
		bson.M{"$set": bson.M{"chatId": chatID, "updatedAt": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *mongoChatRepository) GetChatIDByHandle(ctx context.Context, handle string) (int64, error) {
	var binding domain.ChatBinding
	err := r.collection.FindOne(ctx, bson.M{"_id": domain.NormalizeHandle(handle)}).Decode(&binding)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return binding.ChatID, nil
}
