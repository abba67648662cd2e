package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	locationserrors "seatplan/internal/locations/errors"
	"seatplan/pkg/config"
	"seatplan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName       = "Locations"
	TablesCollectionName = "Tables"
)

type mongoLocationRepository struct {
	cfg       *config.Config
	locations *mongo.Collection
	tables    *mongo.Collection
}

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) error
	FindByID(ctx context.Context, companyID, id string) (*model.Location, error)
	List(ctx context.Context, companyID string) ([]*model.Location, error)
	Update(ctx context.Context, companyID, id string, location *model.Location) error

	CreateTable(ctx context.Context, table *model.Table) error
	FindTableByID(ctx context.Context, companyID, id string) (*model.Table, error)
	ListTables(ctx context.Context, companyID string) ([]*model.Table, error)
	UpdateTable(ctx context.Context, companyID, id string, table *model.Table) error
}

func NewMongoLocationRepository(cfg *config.Config) LocationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLocationRepository{
		cfg:       cfg,
		locations: db.Collection(CollectionName),
		tables:    db.Collection(TablesCollectionName),
	}
}

func (r *mongoLocationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLocationRepository) Create(ctx context.Context, location *model.Location) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	location.CreatedAt = now
	location.UpdatedAt = now

	result, err := r.locations.InsertOne(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		location.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLocationRepository) FindByID(ctx context.Context, companyID, id string) (*model.Location, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", locationserrors.ErrInvalidID, id)
	}

	var location model.Location
	err = r.locations.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&location)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, locationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find location: %w", err)
	}

	return &location, nil
}

func (r *mongoLocationRepository) List(ctx context.Context, companyID string) ([]*model.Location, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "public_name", Value: 1}})
	cursor, err := r.locations.Find(ctx, bson.M{"company_id": companyID, "is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locations []*model.Location
	if err = cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}

	return locations, nil
}

func (r *mongoLocationRepository) Update(ctx context.Context, companyID, id string, location *model.Location) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", locationserrors.ErrInvalidID, id)
	}

	location.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{
		"public_name":   location.PublicName,
		"internal_name": location.InternalName,
		"timezone":      location.Timezone,
		"phone":         location.Phone,
		"is_active":     location.IsActive,
		"updated_at":    location.UpdatedAt,
	}}

	result, err := r.locations.UpdateOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, update)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if result.MatchedCount == 0 {
		return locationserrors.ErrNotFound
	}
	return nil
}

func (r *mongoLocationRepository) CreateTable(ctx context.Context, table *model.Table) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	table.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.tables.InsertOne(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		table.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLocationRepository) FindTableByID(ctx context.Context, companyID, id string) (*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", locationserrors.ErrInvalidID, id)
	}

	var table model.Table
	err = r.tables.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&table)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, locationserrors.ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to find table: %w", err)
	}

	return &table, nil
}

// ListTables returns the company's active tables ordered by name, which is
// the order the booking form presents them in.
func (r *mongoLocationRepository) ListTables(ctx context.Context, companyID string) ([]*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.tables.Find(ctx, bson.M{"company_id": companyID, "is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var tables []*model.Table
	if err = cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}

	return tables, nil
}

func (r *mongoLocationRepository) UpdateTable(ctx context.Context, companyID, id string, table *model.Table) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", locationserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"name":      table.Name,
		"capacity":  table.Capacity,
		"location":  table.Location,
		"is_active": table.IsActive,
	}}

	result, err := r.tables.UpdateOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, update)
	if err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}
	if result.MatchedCount == 0 {
		return locationserrors.ErrTableNotFound
	}
	return nil
}
