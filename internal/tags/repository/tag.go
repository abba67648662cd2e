package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	tagserrors "seatplan/internal/tags/errors"
	"seatplan/pkg/config"
	"seatplan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName         = "Tags"
	BookingsCollectionName = "Bookings"
)

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	FindByID(ctx context.Context, companyID, id string) (*model.Tag, error)
	FindByIDs(ctx context.Context, companyID string, ids []string) ([]*model.Tag, error)
	List(ctx context.Context, companyID, category string) ([]*model.Tag, error)
	Update(ctx context.Context, companyID, id string, tag *model.Tag) error
	Delete(ctx context.Context, companyID, id string) error
	Reorder(ctx context.Context, companyID, category string, orderedIDs []string) error

	// FindBookingTagIDs reads the tag id array off a booking document so the
	// tag list for a booking can be hydrated without loading the booking.
	FindBookingTagIDs(ctx context.Context, companyID, bookingID string) ([]string, error)
	// RemoveFromBookings pulls a deleted tag out of every booking that
	// referenced it, keeping the association arrays free of dangling ids.
	RemoveFromBookings(ctx context.Context, companyID, tagID string) (int64, error)
}

type mongoTagRepository struct {
	cfg      *config.Config
	tags     *mongo.Collection
	bookings *mongo.Collection
}

func NewMongoTagRepository(cfg *config.Config) TagRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTagRepository{
		cfg:      cfg,
		tags:     db.Collection(CollectionName),
		bookings: db.Collection(BookingsCollectionName),
	}
}

func (r *mongoTagRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	tag.CreatedAt = now
	tag.UpdatedAt = now

	result, err := r.tags.InsertOne(ctx, tag)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tagserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tag.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTagRepository) FindByID(ctx context.Context, companyID, id string) (*model.Tag, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tagserrors.ErrInvalidID, id)
	}

	var tag model.Tag
	err = r.tags.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&tag)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tagserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}

	return &tag, nil
}

func (r *mongoTagRepository) FindByIDs(ctx context.Context, companyID string, ids []string) ([]*model.Tag, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", tagserrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, objectID)
	}
	if len(objectIDs) == 0 {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.tags.Find(ctx, bson.M{
		"_id":        bson.M{"$in": objectIDs},
		"company_id": companyID,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	defer cursor.Close(ctx)

	var tags []*model.Tag
	if err = cursor.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return tags, nil
}

// List returns the company's tags in drag order. An empty category returns
// both picker sets.
func (r *mongoTagRepository) List(ctx context.Context, companyID, category string) ([]*model.Tag, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"company_id": companyID}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "category", Value: 1},
		{Key: "sort_order", Value: 1},
	})
	cursor, err := r.tags.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer cursor.Close(ctx)

	var tags []*model.Tag
	if err = cursor.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return tags, nil
}

func (r *mongoTagRepository) Update(ctx context.Context, companyID, id string, tag *model.Tag) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tagserrors.ErrInvalidID, id)
	}

	tag.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{
		"name":       tag.Name,
		"color":      tag.Color,
		"icon":       tag.Icon,
		"updated_at": tag.UpdatedAt,
	}}

	result, err := r.tags.UpdateOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tagserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}
	if result.MatchedCount == 0 {
		return tagserrors.ErrNotFound
	}
	return nil
}

func (r *mongoTagRepository) Delete(ctx context.Context, companyID, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tagserrors.ErrInvalidID, id)
	}

	result, err := r.tags.DeleteOne(ctx, bson.M{"_id": objectID, "company_id": companyID})
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if result.DeletedCount == 0 {
		return tagserrors.ErrNotFound
	}
	return nil
}

// Reorder rewrites sort_order to match the given sequence. Ids missing from
// the sequence keep their old position values.
func (r *mongoTagRepository) Reorder(ctx context.Context, companyID, category string, orderedIDs []string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(orderedIDs))
	for index, id := range orderedIDs {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("%w: %s", tagserrors.ErrInvalidID, id)
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": objectID, "company_id": companyID, "category": category}).
			SetUpdate(bson.M{"$set": bson.M{"sort_order": index}}))
	}
	if len(models) == 0 {
		return nil
	}

	if _, err := r.tags.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("failed to reorder tags: %w", err)
	}
	return nil
}

func (r *mongoTagRepository) FindBookingTagIDs(ctx context.Context, companyID, bookingID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tagserrors.ErrInvalidID, bookingID)
	}

	var doc struct {
		Tags []string `bson:"tags"`
	}
	opts := options.FindOne().SetProjection(bson.M{"tags": 1})
	err = r.bookings.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tagserrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to read booking tags: %w", err)
	}

	return doc.Tags, nil
}

func (r *mongoTagRepository) RemoveFromBookings(ctx context.Context, companyID, tagID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.bookings.UpdateMany(ctx,
		bson.M{"company_id": companyID, "tags": tagID},
		bson.M{"$pull": bson.M{"tags": tagID}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to detach tag from bookings: %w", err)
	}
	return result.ModifiedCount, nil
}
