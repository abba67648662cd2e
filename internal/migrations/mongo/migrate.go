package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"seatplan/internal/migrations/mongo/validators"
)

var (
	// The uniqueness indexes only cover documents that actually carry the
	// field. Two contacts without an email are not duplicates of each other.
	nonEmptyEmail  = bson.D{{Key: "email", Value: bson.D{{Key: "$gt", Value: ""}}}}
	nonEmptyMobile = bson.D{{Key: "mobile", Value: bson.D{{Key: "$gt", Value: ""}}}}

	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "company_id", Value: 1},
				{Key: "booking_reference", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "booking_seated_date", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "datetime_of_slot", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "guests", Value: 1},
		}},
	}

	ContactsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "company_id", Value: 1},
				{Key: "email", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(nonEmptyEmail),
		},
		{
			Keys: bson.D{
				{Key: "company_id", Value: 1},
				{Key: "mobile", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(nonEmptyMobile),
		},
		{Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "last_name", Value: 1},
			{Key: "first_name", Value: 1},
		}},
	}

	LocationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "is_active", Value: 1},
		}},
	}

	TablesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "is_active", Value: 1},
			{Key: "name", Value: 1},
		}},
	}

	TagsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "company_id", Value: 1},
				{Key: "category", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "category", Value: 1},
			{Key: "sort_order", Value: 1},
		}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running seatplan Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Contacts": {
			Indexes:   ContactsIndexes,
			Validator: validators.ContactValidator,
		},
		"Locations": {
			Indexes:   LocationsIndexes,
			Validator: validators.LocationValidator,
		},
		"Tables": {
			Indexes:   TablesIndexes,
			Validator: validators.TableValidator,
		},
		"Tags": {
			Indexes:   TagsIndexes,
			Validator: validators.TagValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
