package validators

import "go.mongodb.org/mongo-driver/bson"

var TimeSlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"venue_id",
			"day_of_week",
			"start_time",
			"end_time",
			"step_minutes",
			"max_reservations",
			"active",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":      bson.M{"bsonType": "objectId"},
			"venue_id": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"day_of_week": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  6,
			},
			"start_time":       bson.M{"bsonType": "string", "pattern": `^\d{2}:\d{2}$`},
			"end_time":         bson.M{"bsonType": "string", "pattern": `^\d{2}:\d{2}$`},
			"step_minutes":     bson.M{"bsonType": "int", "minimum": 5, "maximum": 240},
			"max_reservations": bson.M{"bsonType": "int", "minimum": 1},
			"max_guests":       bson.M{"bsonType": "int", "minimum": 1},
			"active":           bson.M{"bsonType": "bool"},
		},
	},
}

var TableValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"venue_id",
			"label",
			"min_capacity",
			"max_capacity",
			"reservable",
			"active",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":               bson.M{"bsonType": "objectId"},
			"venue_id":          bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"label":             bson.M{"bsonType": "string", "minLength": 1, "maxLength": 50},
			"min_capacity":      bson.M{"bsonType": "int", "minimum": 1},
			"max_capacity":      bson.M{"bsonType": "int", "minimum": 1},
			"reservable":        bson.M{"bsonType": "bool"},
			"active":            bson.M{"bsonType": "bool"},
			"premium_surcharge": bson.M{"bsonType": []string{"double", "int", "long"}},
			"position":          bson.M{"bsonType": "int"},
		},
	},
}

var BlockedDateValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"venue_id",
			"start_date",
			"end_date",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"venue_id":   bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"start_date": bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"end_date":   bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"reason":     bson.M{"bsonType": "string", "maxLength": 200},
		},
	},
}
