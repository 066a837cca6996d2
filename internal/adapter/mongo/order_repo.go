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

const orderCollectionName = "orders"

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &orderRepository{collection: db.Collection(orderCollectionName)}
}

func buyerRefStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         userCollectionName,
			"localField":   "buyer_id",
			"foreignField": "_id",
			"as":           "buyer_ref",
		}},
		{"$unwind": bson.M{"path": "$buyer_ref", "preserveNullAndEmptyArrays": true}},
	}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	order.CreatedAt = time.Now().UTC()

	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}
	objID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	order.ID = objID
	return objID.Hex(), nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*repository.OrderWithRefs, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	pipeline := append([]bson.M{{"$match": bson.M{"_id": objID}}}, buyerRefStages()...)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	var orders []repository.OrderWithRefs
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", id, err)
	}
	if len(orders) == 0 {
		return nil, repository.ErrNotFound
	}
	return &orders[0], nil
}

func (r *orderRepository) ListForUser(ctx context.Context, userID string) ([]repository.OrderWithRefs, error) {
	objID, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	pipeline := []bson.M{
		{"$match": bson.M{"$or": []bson.M{
			{"buyer_id": objID},
			{"seller_id": objID},
		}}},
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}
	pipeline = append(pipeline, buyerRefStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	var orders []repository.OrderWithRefs
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var order entity.Order
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update order %s status: %w", id, err)
	}
	return &order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
