package reservationRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"silverarcade/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert creates a new reservation document in its kind's collection.
func (r *MongoReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	coll, err := r.coll(res.Kind)
	if err != nil {
		return err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	res.CreatedAt = now
	res.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("failed to insert %s reservation: %w", res.Kind, err)
	}
	return nil
}

// GetByID retrieves a reservation by kind and id.
func (r *MongoReservationRepo) GetByID(ctx context.Context, kind models.Kind, id string) (*models.Reservation, error) {
	coll, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	err = coll.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s reservation %s: %w", kind, id, err)
	}
	return &res, nil
}

// List returns one page of reservations plus the total match count. Search is
// a case-insensitive substring match on guest name, email and phone number;
// the date range applies to the kind's primary date field.
func (r *MongoReservationRepo) List(ctx context.Context, kind models.Kind, filter models.ReservationFilter) ([]models.Reservation, int64, error) {
	coll, err := r.coll(kind)
	if err != nil {
		return nil, 0, err
	}
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		dateRange := bson.M{}
		if filter.StartDate != nil {
			dateRange["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			dateRange["$lte"] = *filter.EndDate
		}
		query[primaryDateField(kind)] = dateRange
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"guestInfo.name": pattern},
			bson.M{"guestInfo.email": pattern},
			bson.M{"guestInfo.phoneNumber": pattern},
		}
	}

	sort := bson.D{}
	switch filter.SortBy {
	case "date_asc":
		sort = append(sort, bson.E{Key: primaryDateField(kind), Value: 1})
	case "name":
		sort = append(sort, bson.E{Key: "guestInfo.name", Value: 1})
	default:
		sort = append(sort, bson.E{Key: primaryDateField(kind), Value: -1})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	skip := int64((page - 1) * limit)

	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(int64(limit))
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s reservations: %w", kind, err)
	}
	defer cursor.Close(ctx)

	var items []models.Reservation
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s reservations: %w", kind, err)
	}

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s reservations: %w", kind, err)
	}
	return items, total, nil
}

// UpdateStatus persists a new status and returns the updated document.
func (r *MongoReservationRepo) UpdateStatus(ctx context.Context, kind models.Kind, id string, status models.ReservationStatus) (*models.Reservation, error) {
	coll, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}

	var updated models.Reservation
	err = coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update %s reservation %s status: %w", kind, id, err)
	}
	return &updated, nil
}

// Replace overwrites a reservation document after a generic field patch.
func (r *MongoReservationRepo) Replace(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	coll, err := r.coll(res.Kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res.UpdatedAt = time.Now()
	result, err := coll.ReplaceOne(ctx, bson.M{"id": res.ID}, res)
	if err != nil {
		return nil, fmt.Errorf("failed to replace %s reservation %s: %w", res.Kind, res.ID, err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return res, nil
}

// Delete removes a reservation document.
func (r *MongoReservationRepo) Delete(ctx context.Context, kind models.Kind, id string) error {
	coll, err := r.coll(kind)
	if err != nil {
		return err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s reservation %s: %w", kind, id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
