package tableRepo

import (
	"context"
	"fmt"
	"time"

	"silverarcade/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert creates a new table document. The unique tableNumber index is the
// authority on duplicates.
func (r *MongoTableRepo) Insert(ctx context.Context, table *models.Table) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	table.CreatedAt = now
	table.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, table); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTableNumber
		}
		return fmt.Errorf("failed to insert table: %w", err)
	}
	return nil
}

// GetByID retrieves a table by its unique ID.
func (r *MongoTableRepo) GetByID(ctx context.Context, id string) (*models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var table models.Table
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&table)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", id, err)
	}
	return &table, nil
}

// List returns tables matching the filter, sorted by section then table number.
func (r *MongoTableRepo) List(ctx context.Context, filter models.TableFilter) ([]models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Section != "" {
		query["section"] = filter.Section
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Capacity != nil {
		query["capacity"] = bson.M{"$gte": *filter.Capacity}
	}

	opts := options.Find().SetSort(bson.D{{Key: "section", Value: 1}, {Key: "tableNumber", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var tables []models.Table
	if err := cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}
	return tables, nil
}

// UpdateMetadata patches non-lifecycle fields. When the patch carries
// status=reserved the write is conditional on the table not already being
// reserved or occupied, so the generic update endpoint cannot bypass the
// state machine's conflict check.
func (r *MongoTableRepo) UpdateMetadata(ctx context.Context, id string, patch models.TablePatch) (*models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if patch.TableNumber != nil {
		set["tableNumber"] = *patch.TableNumber
	}
	if patch.Section != nil {
		set["section"] = *patch.Section
	}
	if patch.Capacity != nil {
		set["capacity"] = *patch.Capacity
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Features != nil {
		set["features"] = *patch.Features
	}
	if patch.LocationDescription != nil {
		set["locationDescription"] = *patch.LocationDescription
	}
	if patch.Floor != nil {
		set["floor"] = *patch.Floor
	}
	if patch.Coordinates != nil {
		set["coordinates"] = *patch.Coordinates
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	if patch.SpecialNotes != nil {
		set["specialNotes"] = *patch.SpecialNotes
	}

	filter := bson.M{"id": id}
	if patch.Status != nil && *patch.Status == models.TableReserved {
		filter["status"] = bson.M{"$nin": bson.A{models.TableReserved, models.TableOccupied}}
	}

	var updated models.Table
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, r.missingOrBusy(ctx, id)
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateTableNumber
		}
		return nil, fmt.Errorf("failed to update table %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes a table unless it has an active assignment. The guard is the
// delete filter itself, not a separate read.
func (r *MongoTableRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$nin": bson.A{models.TableReserved, models.TableOccupied}},
		"$or": bson.A{
			bson.M{"currentReservation.reservationId": bson.M{"$exists": false}},
			bson.M{"currentReservation.reservationId": ""},
			bson.M{"currentReservation.reservationId": nil},
		},
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete table %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		if err := r.missingOrBusy(ctx, id); err == ErrNotAvailable {
			return ErrHasActiveAssignment
		} else if err != nil {
			return err
		}
		return ErrHasActiveAssignment
	}
	return nil
}

// FindBestFit returns the closest-fit available table for the requested
// seats: smallest sufficient capacity, then lowest table number.
func (r *MongoTableRepo) FindBestFit(ctx context.Context, seats int) (*models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":   models.TableAvailable,
		"isActive": true,
		"capacity": bson.M{"$gte": seats},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "capacity", Value: 1}, {Key: "tableNumber", Value: 1}})

	var table models.Table
	err := r.coll.FindOne(ctx, filter, opts).Decode(&table)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find best-fit table: %w", err)
	}
	return &table, nil
}

// FindByReservation returns every table whose active assignment points at the
// given reservation.
func (r *MongoTableRepo) FindByReservation(ctx context.Context, reservationID string) ([]models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"currentReservation.reservationId": reservationID})
	if err != nil {
		return nil, fmt.Errorf("failed to find tables for reservation %s: %w", reservationID, err)
	}
	defer cursor.Close(ctx)

	var tables []models.Table
	if err := cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}
	return tables, nil
}

// missingOrBusy distinguishes a not-found table from a conditional-write
// conflict after a zero-match update.
func (r *MongoTableRepo) missingOrBusy(ctx context.Context, id string) error {
	count, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to check table %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotAvailable
}
