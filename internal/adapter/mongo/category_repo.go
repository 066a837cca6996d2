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

const categoryCollectionName = "categories"

type categoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) repository.CategoryRepository {
	collection := db.Collection(categoryCollectionName)

	// Name uniqueness is enforced by the store, not by check-then-insert.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &categoryRepository{collection: collection}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) (string, error) {
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("category %q: %w", category.Name, repository.ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to create category: %w", err)
	}

	objID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	category.ID = objID
	return objID.Hex(), nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var category entity.Category
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	if err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by name %q: %w", name, err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByNames(ctx context.Context, names []string) ([]entity.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category names: %w", err)
	}
	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]entity.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) List(ctx context.Context, params repository.ListCategoriesParams) (*repository.ListCategoriesResult, error) {
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
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	return &repository.ListCategoriesResult{
		Categories: categories,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, params.Limit),
	}, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	category.UpdatedAt = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": category.ID}, bson.M{"$set": bson.M{
		"name":       category.Name,
		"updated_at": category.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("category %q: %w", category.Name, repository.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update category %s: %w", category.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
