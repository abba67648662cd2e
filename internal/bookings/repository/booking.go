package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "seatplan/internal/bookings/errors"
	"seatplan/pkg/config"
	mongotx "seatplan/pkg/db/mongo"
	"seatplan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName          = "Bookings"
	ContactsCollectionName  = "Contacts"
	LocationsCollectionName = "Locations"

	// FindDay is the diary feed; a single service day is bounded so one
	// runaway tenant cannot pull the whole collection.
	maxDayBookings = 200
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, companyID, id string) (*model.Booking, error)
	Query(ctx context.Context, companyID string, filters *model.BookingFilters, sortField string, sortDir int, skip, limit int64) ([]*model.Booking, error)
	CountQuery(ctx context.Context, companyID string, filters *model.BookingFilters) (int64, error)
	FindDay(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error)
	Update(ctx context.Context, companyID, id string, booking *model.Booking) error
	Delete(ctx context.Context, companyID, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless we are already inside a
// transaction. A SessionContext cannot be wrapped without breaking the
// transaction, so it passes through with a no-op cancel.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, companyID, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "company_id": companyID}

	var booking model.Booking
	err = r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Query(ctx context.Context, companyID string, filters *model.BookingFilters, sortField string, sortDir int, skip, limit int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := buildQueryPipeline(companyID, filters, sortField, sortDir, skip, limit)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountQuery(ctx context.Context, companyID string, filters *model.BookingFilters) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// A search term reaches into the joined contact, so counting has to run
	// the same pipeline. Without one, CountDocuments on the match alone is
	// cheaper and equivalent.
	if filters == nil || filters.SearchTerm == "" {
		count, err := r.collection.CountDocuments(ctx, buildMatchStage(companyID, filters))
		if err != nil {
			return 0, fmt.Errorf("failed to count bookings: %w", err)
		}
		return count, nil
	}

	cursor, err := r.collection.Aggregate(ctx, buildCountPipeline(companyID, filters))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode booking count: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (r *mongoBookingRepository) FindDay(ctx context.Context, companyID, locationID, date string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filters := &model.BookingFilters{
		LocationID: locationID,
		DateFrom:   date,
		DateTo:     date,
	}

	pipeline := basePipeline(companyID, filters)
	pipeline = append(pipeline,
		bson.M{"$sort": bson.D{{Key: "booking_seated_time", Value: 1}, {Key: "_id", Value: 1}}},
		bson.M{"$limit": maxDayBookings},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to find day bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode day bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, companyID, id string, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": objectID, "company_id": companyID}
	update := bson.M{
		"$set": bson.M{
			"location_id":         booking.LocationID,
			"table_id":            booking.TableID,
			"contact_id":          booking.ContactID,
			"booking_seated_date": booking.BookingSeatedDate,
			"booking_seated_time": booking.BookingSeatedTime,
			"duration":            booking.Duration,
			"datetime_of_slot":    booking.DatetimeOfSlot,
			"time_slot_iso":       booking.TimeSlotISO,
			"covers_adult":        booking.CoversAdult,
			"covers_child":        booking.CoversChild,
			"guests":              booking.Guests,
			"booking_source":      booking.BookingSource,
			"booking_type":        booking.BookingType,
			"booking_occasion":    booking.BookingOccasion,
			"booking_status":      booking.BookingStatus,
			"deposit_required":    booking.DepositRequired,
			"deposit_amount":      booking.DepositAmount,
			"deposit_paid":        booking.DepositPaid,
			"payment_amount":      booking.PaymentAmount,
			"arrived_guests":      booking.ArrivedGuests,
			"seated_time":         booking.SeatedTime,
			"left_time":           booking.LeftTime,
			"tags":                booking.Tags,
			"special_requests":    booking.SpecialRequests,
			"notes":               booking.Notes,
			"updated_at":          booking.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, companyID, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "company_id": companyID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
