package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"silverarcade/database"
	"silverarcade/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReservationRepo implements Repository using one MongoDB collection per
// reservation kind.
type MongoReservationRepo struct {
	colls map[models.Kind]*mongo.Collection
}

// NewMongoReservationRepo creates a reservation repository over the per-kind
// collections.
func NewMongoReservationRepo() Repository {
	db := database.DB()
	repo := &MongoReservationRepo{
		colls: map[models.Kind]*mongo.Collection{
			models.KindAccommodation: db.Collection("accommodations"),
			models.KindRestaurant:    db.Collection("restaurantReservations"),
			models.KindMeeting:       db.Collection("meetingReservations"),
		},
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create reservation indexes: %v\n", err)
	}
	return repo
}

func (r *MongoReservationRepo) coll(kind models.Kind) (*mongo.Collection, error) {
	coll, ok := r.colls[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	return coll, nil
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// primaryDateField returns the bson field the kind's date-range filter and
// sorting apply to.
func primaryDateField(kind models.Kind) string {
	switch kind {
	case models.KindAccommodation:
		return "arrivalDate"
	case models.KindRestaurant:
		return "date"
	default:
		return "reservationDate"
	}
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	for kind, coll := range r.colls {
		indexModels := []mongo.IndexModel{
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: primaryDateField(kind), Value: -1}}},
			{Keys: bson.D{{Key: "guestInfo.email", Value: 1}}},
		}
		if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", kind, err)
		}
	}
	return nil
}
