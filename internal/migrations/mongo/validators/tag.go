package validators

import "go.mongodb.org/mongo-driver/bson"

var TagValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"company_id",
			"name",
			"color",
			"category",
			"sort_order",
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

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"color": bson.M{
				"bsonType": "string",
				"pattern":  "^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$",
			},

			"icon": bson.M{
				"bsonType":  "string",
				"maxLength": 50,
			},

			"category": bson.M{
				"enum": []string{"contact", "booking"},
			},

			"sort_order": bson.M{
				"bsonType": "int",
				"minimum":  0,
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
