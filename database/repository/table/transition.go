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

// Reserve atomically moves a table to reserved. The filter carries the
// state-machine precondition, so two concurrent reservations of the same
// table cannot both match: the loser observes MatchedCount==0 and gets
// ErrNotAvailable.
func (r *MongoTableRepo) Reserve(ctx context.Context, id string, res models.CurrentReservation, now time.Time) (*models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$nin": bson.A{models.TableReserved, models.TableOccupied}},
	}
	update := bson.M{"$set": bson.M{
		"status":             models.TableReserved,
		"currentReservation": res,
		"lastAssignedAt":     now,
		"updatedAt":          now,
	}}

	var updated models.Table
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, r.missingOrBusy(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reserve table %s: %w", id, err)
	}
	return &updated, nil
}

// MarkOccupied stamps lastOccupiedAt and sets status to occupied.
func (r *MongoTableRepo) MarkOccupied(ctx context.Context, id string, now time.Time) (*models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":         models.TableOccupied,
		"lastOccupiedAt": now,
		"updatedAt":      now,
	}}

	var updated models.Table
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark table %s occupied: %w", id, err)
	}
	return &updated, nil
}

// Free returns a table to available in a single pipeline update. The history
// entry is derived server-side from the live currentReservation, so a
// concurrent mutation cannot produce a stale audit record. A table with no
// active reservation gets no history entry but still has status and
// lastFreedAt updated.
func (r *MongoTableRepo) Free(ctx context.Context, id string, assignedAt *time.Time, notes, freedBy string, now time.Time) (*models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	noActive := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$currentReservation.reservationId", nil}}},
		bson.D{{Key: "$eq", Value: bson.A{"$currentReservation.reservationId", ""}}},
	}}}

	var assignedAtExpr interface{}
	if assignedAt != nil {
		assignedAtExpr = *assignedAt
	} else {
		assignedAtExpr = bson.D{{Key: "$ifNull", Value: bson.A{"$lastAssignedAt", now}}}
	}

	entry := bson.D{
		{Key: "reservationId", Value: "$currentReservation.reservationId"},
		{Key: "reservationType", Value: "$currentReservation.reservationType"},
		{Key: "guestName", Value: "$currentReservation.guestName"},
		{Key: "assignedAt", Value: assignedAtExpr},
		{Key: "freedAt", Value: now},
		{Key: "assignedBy", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$currentReservation.assignedBy", freedBy}}}},
		{Key: "notes", Value: notes},
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "assignmentHistory", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: noActive},
				{Key: "then", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$assignmentHistory", bson.A{}}}}},
				{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$assignmentHistory", bson.A{}}}},
					bson.A{entry},
				}}}},
			}}}},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: models.TableAvailable},
			{Key: "currentReservation", Value: bson.D{}},
			{Key: "lastFreedAt", Value: now},
			{Key: "updatedAt", Value: now},
		}}},
	}

	var updated models.Table
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to free table %s: %w", id, err)
	}
	return &updated, nil
}

// SetServiceStatus applies dirty, maintenance or out_of_service without
// touching the assignment or its history.
func (r *MongoTableRepo) SetServiceStatus(ctx context.Context, id string, status models.TableStatus) (*models.Table, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}

	var updated models.Table
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set table %s status %s: %w", id, status, err)
	}
	return &updated, nil
}

// Transfer moves the active assignment between two tables inside a Mongo
// session transaction. Both writes commit or neither does; the destination
// update is itself conditional on availability so a lost race aborts the
// transaction instead of double-booking.
func (r *MongoTableRepo) Transfer(ctx context.Context, fromID, toID, reason string, now time.Time) (*models.Table, *models.Table, error) {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var fromTable, toTable models.Table

	txnFn := func(sc mongo.SessionContext) error {
		var from models.Table
		if err := r.coll.FindOne(sc, bson.M{"id": fromID}).Decode(&from); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load source table: %w", err)
		}
		var to models.Table
		if err := r.coll.FindOne(sc, bson.M{"id": toID}).Decode(&to); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load destination table: %w", err)
		}

		if !from.CurrentReservation.Active() {
			return ErrNoActiveAssignment
		}
		if to.Status != models.TableAvailable {
			return ErrNotAvailable
		}
		if to.Capacity < from.Capacity {
			return ErrCapacityTooSmall
		}

		entry := models.AssignmentRecord{
			ReservationID:   from.CurrentReservation.ReservationID,
			ReservationType: from.CurrentReservation.ReservationType,
			GuestName:       from.CurrentReservation.GuestName,
			AssignedBy:      from.CurrentReservation.AssignedBy,
			Notes:           reason,
			FreedAt:         &now,
		}
		if from.LastAssignedAt != nil {
			entry.AssignedAt = *from.LastAssignedAt
		} else {
			entry.AssignedAt = now
		}

		freeUpdate := bson.M{
			"$set": bson.M{
				"status":             models.TableAvailable,
				"currentReservation": bson.M{},
				"lastFreedAt":        now,
				"updatedAt":          now,
			},
			"$push": bson.M{"assignmentHistory": entry},
		}
		if res, err := r.coll.UpdateOne(sc, bson.M{"id": fromID}, freeUpdate); err != nil {
			return fmt.Errorf("failed to free source table: %w", err)
		} else if res.MatchedCount == 0 {
			return ErrNotFound
		}

		assignUpdate := bson.M{"$set": bson.M{
			"status":             from.Status,
			"currentReservation": from.CurrentReservation,
			"lastAssignedAt":     now,
			"lastOccupiedAt":     from.LastOccupiedAt,
			"updatedAt":          now,
		}}
		res, err := r.coll.UpdateOne(sc, bson.M{"id": toID, "status": models.TableAvailable}, assignUpdate)
		if err != nil {
			return fmt.Errorf("failed to assign destination table: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotAvailable
		}

		if err := r.coll.FindOne(sc, bson.M{"id": fromID}).Decode(&fromTable); err != nil {
			return fmt.Errorf("failed to reload source table: %w", err)
		}
		if err := r.coll.FindOne(sc, bson.M{"id": toID}).Decode(&toTable); err != nil {
			return fmt.Errorf("failed to reload destination table: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return nil, nil, err
	}

	return &fromTable, &toTable, nil
}
