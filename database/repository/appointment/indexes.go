package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"carebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries.
//
// The partial unique index on (serviceId, schedule.start) is what actually
// prevents double-booking when two confirms race past the read-then-check:
// the second insert fails with a duplicate key error. Cancelled appointments
// are excluded so a cancelled slot can be rebooked.
func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	activeStatuses := []string{
		models.AppointmentStatusPending,
		models.AppointmentStatusConfirmed,
		models.AppointmentStatusInProgress,
		models.AppointmentStatusCompleted,
		models.AppointmentStatusNoShow,
	}
	uniqueSlotOpts := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{
			"status": bson.M{"$in": activeStatuses},
		})

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{
				{Key: "serviceId", Value: 1},
				{Key: "schedule.start", Value: 1},
			},
			Options: uniqueSlotOpts,
		},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "schedule.start", Value: -1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "schedule.start", Value: 1}}},
		{Keys: bson.D{{Key: "schedule.start", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
