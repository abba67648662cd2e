package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"company_id",
			"booking_reference",
			"booking_seated_date",
			"booking_seated_time",
			"datetime_of_slot",
			"duration",
			"covers_adult",
			"guests",
			"booking_source",
			"booking_type",
			"booking_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"company_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"booking_reference": bson.M{
				"bsonType":  "string",
				"minLength": 11,
				"maxLength": 11,
			},

			"location_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"table_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"contact_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"booking_seated_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"booking_seated_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"datetime_of_slot": bson.M{
				"bsonType": "date",
			},

			"duration": bson.M{
				"bsonType": "int",
				"minimum":  30,
				"maximum":  720,
			},

			"covers_adult": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  400,
			},

			"covers_child": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  400,
			},

			"guests": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  800,
			},

			"booking_source": bson.M{
				"enum": []string{"In house", "Online", "Phone", "Internal"},
			},

			"booking_status": bson.M{
				"enum": []string{"New", "Pending", "Enquiry", "No Show", "Arrived", "Complete", "Cancelled"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
