package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	contactserrors "seatplan/internal/contacts/errors"
	"seatplan/pkg/config"
	"seatplan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Contacts"
)

type mongoContactRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, companyID, id string) (*model.Contact, error)
	FindByEmail(ctx context.Context, companyID, email string) (*model.Contact, error)
	FindByMobile(ctx context.Context, companyID, mobile string) (*model.Contact, error)
	List(ctx context.Context, companyID, search string, skip, limit int64) ([]*model.Contact, error)
	CountList(ctx context.Context, companyID, search string) (int64, error)
}

func NewMongoContactRepository(cfg *config.Config) ContactRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoContactRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoContactRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	contact.CreatedAt = now
	contact.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, contact)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return contactserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		contact.ID = oid.Hex()
	}
	return nil
}

func (r *mongoContactRepository) FindByID(ctx context.Context, companyID, id string) (*model.Contact, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contactserrors.ErrInvalidID, id)
	}

	var contact model.Contact
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&contact)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contactserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return &contact, nil
}

func (r *mongoContactRepository) FindByEmail(ctx context.Context, companyID, email string) (*model.Contact, error) {
	return r.findOne(ctx, bson.M{"company_id": companyID, "email": email})
}

func (r *mongoContactRepository) FindByMobile(ctx context.Context, companyID, mobile string) (*model.Contact, error) {
	return r.findOne(ctx, bson.M{"company_id": companyID, "mobile": mobile})
}

func (r *mongoContactRepository) findOne(ctx context.Context, filter bson.M) (*model.Contact, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var contact model.Contact
	err := r.collection.FindOne(ctx, filter).Decode(&contact)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contactserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return &contact, nil
}

func (r *mongoContactRepository) List(ctx context.Context, companyID, search string, skip, limit int64) ([]*model.Contact, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, listFilter(companyID, search), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []*model.Contact
	if err = cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}

	return contacts, nil
}

func (r *mongoContactRepository) CountList(ctx context.Context, companyID, search string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, listFilter(companyID, search))
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// listFilter scopes to the tenant and, with a search term, ORs a literal
// case-insensitive match across name and email.
func listFilter(companyID, search string) bson.M {
	filter := bson.M{"company_id": companyID}
	if search == "" {
		return filter
	}

	regex := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	filter["$or"] = []bson.M{
		{"first_name": regex},
		{"last_name": regex},
		{"email": regex},
	}
	return filter
}
