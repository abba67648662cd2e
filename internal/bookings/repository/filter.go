package repository

import (
	"regexp"

	bookingserrors "seatplan/internal/bookings/errors"
	"seatplan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sortableFields whitelists the fields a query may sort on. Anything else is
// rejected before it reaches the pipeline.
var sortableFields = map[string]bool{
	"booking_seated_date": true,
	"booking_seated_time": true,
	"datetime_of_slot":    true,
	"booking_reference":   true,
	"booking_status":      true,
	"guests":              true,
	"created_at":          true,
	"updated_at":          true,
}

func ValidateSortField(field string) error {
	if field == "" {
		return nil
	}
	if !sortableFields[field] {
		return bookingserrors.ErrInvalidSortField
	}
	return nil
}

// buildMatchStage builds the first $match of the query pipeline. Only fields
// stored on the booking itself belong here; search terms that reach into the
// joined contact run after the lookups.
func buildMatchStage(companyID string, filters *model.BookingFilters) bson.M {
	match := bson.M{"company_id": companyID}
	if filters == nil {
		return match
	}

	if filters.LocationID != "" {
		match["location_id"] = filters.LocationID
	}

	if filters.DateFrom != "" || filters.DateTo != "" {
		dateRange := bson.M{}
		if filters.DateFrom != "" {
			dateRange["$gte"] = filters.DateFrom
		}
		if filters.DateTo != "" {
			dateRange["$lte"] = filters.DateTo
		}
		match["booking_seated_date"] = dateRange
	}

	if len(filters.Statuses) > 0 {
		match["booking_status"] = bson.M{"$in": filters.Statuses}
	}

	if filters.MinGuests != nil || filters.MaxGuests != nil {
		guests := bson.M{}
		if filters.MinGuests != nil {
			guests["$gte"] = *filters.MinGuests
		}
		if filters.MaxGuests != nil {
			guests["$lte"] = *filters.MaxGuests
		}
		match["guests"] = guests
	}

	return match
}

// buildSearchStage fans a free-text term out across the booking reference and
// the joined contact's name and email. The term is escaped with QuoteMeta so
// regex metacharacters match literally.
func buildSearchStage(term string) bson.M {
	pattern := regexp.QuoteMeta(term)
	regex := primitive.Regex{Pattern: pattern, Options: "i"}

	return bson.M{"$match": bson.M{"$or": []bson.M{
		{"booking_reference": regex},
		{"contact.first_name": regex},
		{"contact.last_name": regex},
		{"contact.email": regex},
	}}}
}

// lookupStages joins the contact and location summaries onto each booking.
// Stored ids are hex strings, so the join compares against $toString of the
// foreign _id.
func lookupStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from": ContactsCollectionName,
			"let":  bson.M{"cid": "$contact_id"},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{bson.M{"$toString": "$_id"}, "$$cid"}}}},
				{"$project": bson.M{"first_name": 1, "last_name": 1, "email": 1, "mobile": 1}},
			},
			"as": "contact",
		}},
		{"$unwind": bson.M{"path": "$contact", "preserveNullAndEmptyArrays": true}},
		{"$lookup": bson.M{
			"from": LocationsCollectionName,
			"let":  bson.M{"lid": "$location_id"},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{bson.M{"$toString": "$_id"}, "$$lid"}}}},
				{"$project": bson.M{"public_name": 1}},
			},
			"as": "location",
		}},
		{"$unwind": bson.M{"path": "$location", "preserveNullAndEmptyArrays": true}},
	}
}

// buildQueryPipeline assembles the full paginated query. sortDir is 1 or -1.
func buildQueryPipeline(companyID string, filters *model.BookingFilters, sortField string, sortDir int, skip, limit int64) []bson.M {
	pipeline := basePipeline(companyID, filters)

	if sortField == "" {
		sortField = "datetime_of_slot"
	}
	if sortDir != -1 {
		sortDir = 1
	}
	pipeline = append(pipeline,
		bson.M{"$sort": bson.D{{Key: sortField, Value: sortDir}, {Key: "_id", Value: 1}}},
		bson.M{"$skip": skip},
		bson.M{"$limit": limit},
	)

	return pipeline
}

// buildCountPipeline mirrors the query pipeline but ends in $count so totals
// honor the same filters, including the contact-field search.
func buildCountPipeline(companyID string, filters *model.BookingFilters) []bson.M {
	return append(basePipeline(companyID, filters), bson.M{"$count": "total"})
}

func basePipeline(companyID string, filters *model.BookingFilters) []bson.M {
	pipeline := []bson.M{{"$match": buildMatchStage(companyID, filters)}}
	pipeline = append(pipeline, lookupStages()...)
	if filters != nil && filters.SearchTerm != "" {
		pipeline = append(pipeline, buildSearchStage(filters.SearchTerm))
	}
	return pipeline
}
