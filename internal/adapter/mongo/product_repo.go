package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const productCollectionName = "products"

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productRepository{collection: db.Collection(productCollectionName)}
}

// refStages joins category name and seller name/email into every product
// document, mirroring the populate calls of the reference API.
func refStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         categoryCollectionName,
			"localField":   "category",
			"foreignField": "_id",
			"as":           "category_ref",
		}},
		{"$unwind": bson.M{"path": "$category_ref", "preserveNullAndEmptyArrays": true}},
		{"$lookup": bson.M{
			"from":         userCollectionName,
			"localField":   "seller",
			"foreignField": "_id",
			"as":           "seller_ref",
		}},
		{"$unwind": bson.M{"path": "$seller_ref", "preserveNullAndEmptyArrays": true}},
	}
}

func caseInsensitiveContains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) (string, error) {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	objID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	product.ID = objID
	return objID.Hex(), nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*repository.ProductWithRefs, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	pipeline := append([]bson.M{{"$match": bson.M{"_id": objID}}}, refStages()...)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	var products []repository.ProductWithRefs
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	if len(products) == 0 {
		return nil, repository.ErrNotFound
	}
	return &products[0], nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": product})
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func matchFromFilter(filter repository.ProductFilter) bson.M {
	match := bson.M{}
	if len(filter.CategoryIDs) > 0 {
		match["category"] = bson.M{"$in": filter.CategoryIDs}
	}
	if !filter.SellerID.IsZero() {
		match["seller"] = filter.SellerID
	}
	if filter.Search != "" {
		match["title"] = caseInsensitiveContains(filter.Search)
	}
	if !filter.Date.IsZero() {
		dayStart := filter.Date.UTC().Truncate(24 * time.Hour)
		match["created_at"] = bson.M{"$gte": dayStart, "$lt": dayStart.Add(24 * time.Hour)}
	}
	if len(filter.Conditions) > 0 {
		match["condition"] = bson.M{"$in": filter.Conditions}
	}
	return match
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) (*repository.ListProductsResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	match := matchFromFilter(filter)

	pipeline := []bson.M{
		{"$match": match},
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}
	if filter.Limit > 0 {
		pipeline = append(pipeline,
			bson.M{"$skip": int64((filter.Page - 1) * filter.Limit)},
			bson.M{"$limit": int64(filter.Limit)},
		)
	}
	pipeline = append(pipeline, refStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	var products []repository.ProductWithRefs
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &repository.ListProductsResult{
		Products:   products,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, filter.Limit),
	}, nil
}

func (r *productRepository) Search(ctx context.Context, query string) ([]repository.ProductWithRefs, error) {
	re := caseInsensitiveContains(query)
	pipeline := []bson.M{
		{"$match": bson.M{"$or": []bson.M{
			{"title": re},
			{"contact.name": re},
			{"description": re},
		}}},
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}
	pipeline = append(pipeline, refStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	var products []repository.ProductWithRefs
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return products, nil
}

func (r *productRepository) GroupedByCategory(ctx context.Context, perCategory int) ([]repository.CategoryGroup, error) {
	if perCategory <= 0 {
		perCategory = 8
	}

	// Top-N per category computed by the store instead of a full-table load.
	pipeline := []bson.M{
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}
	pipeline = append(pipeline, refStages()...)
	pipeline = append(pipeline,
		bson.M{"$match": bson.M{"category_ref": bson.M{"$ne": nil}}},
		bson.M{"$group": bson.M{
			"_id":      "$category_ref.name",
			"products": bson.M{"$push": "$$ROOT"},
		}},
		bson.M{"$project": bson.M{
			"_id":           0,
			"category_name": "$_id",
			"products":      bson.M{"$slice": []interface{}{"$products", perCategory}},
		}},
		bson.M{"$sort": bson.D{{Key: "category_name", Value: 1}}},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to group products by category: %w", err)
	}
	var groups []repository.CategoryGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode category groups: %w", err)
	}
	return groups, nil
}

func (r *productRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	objID, err := parseID(categoryID)
	if err != nil {
		return 0, err
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{"category": objID})
	if err != nil {
		return 0, fmt.Errorf("failed to count products in category %s: %w", categoryID, err)
	}
	return count, nil
}
