package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.UserRepository {
	collection := db.Collection(userCollectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &userRepository{collection: collection}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("user %q: %w", user.Email, repository.ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	objID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	user.ID = objID
	return objID.Hex(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var user entity.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":       user.Name,
		"phone":      user.Phone,
		"email":      user.Email,
		"updated_at": user.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %q: %w", user.Email, repository.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update user %s: %w", user.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"password":   passwordHash,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, params repository.ListUsersParams) (*repository.ListUsersResult, error) {
	if params.Page <= 0 {
		params.Page = 1
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if params.Limit > 0 {
		findOptions.SetSkip(int64((params.Page - 1) * params.Limit))
		findOptions.SetLimit(int64(params.Limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var users []entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &repository.ListUsersResult{
		Users:      users,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, params.Limit),
	}, nil
}
