package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// Mongo implements UserStore and ProductStore on top of the document
// database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) GetUser(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidID
	}

	var user models.User
	err = m.db.Collection("users").FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoSuchUser
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser writes the whole editable field set at the given id. It never
// creates a document: an absent target reports ErrNoSuchUser.
func (m *Mongo) UpdateUser(ctx context.Context, id string, fields models.UserFields) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return ErrInvalidID
	}

	res, err := m.db.Collection("users").UpdateByID(ctx, objectID, bson.M{
		"$set": bson.M{
			"firstName": fields.FirstName,
			"lastName":  fields.LastName,
			"email":     fields.Email,
			"phone":     fields.Phone,
			"state":     fields.State,
			"city":      fields.City,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoSuchUser
	}
	return nil
}

func (m *Mongo) ListUsers(ctx context.Context, page, limit int64) ([]models.User, int64, error) {
	filter := bson.M{}

	total, err := m.db.Collection("users").CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.db.Collection("users").Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0, limit)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CreateProduct assigns the creation timestamp from the server clock at
// insert time and returns the generated document id.
func (m *Mongo) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	product.CreatedAt = time.Now()

	res, err := m.db.Collection("products").InsertOne(ctx, product)
	if err != nil {
		return "", err
	}

	objectID := res.InsertedID.(primitive.ObjectID)
	product.ID = objectID
	return objectID.Hex(), nil
}

func (m *Mongo) ListProducts(ctx context.Context, page, limit int64) ([]models.Product, int64, error) {
	filter := bson.M{}

	total, err := m.db.Collection("products").CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.db.Collection("products").Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0, limit)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
