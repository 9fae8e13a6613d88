package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/automotive-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingCollection defines the interface for viewing-request storage.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) error
	FindBookings(ctx context.Context) ([]models.Booking, error)
	FindBookingsByVehicleNumber(ctx context.Context, n int64) ([]models.Booking, error)
}

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking stores a viewing request.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	booking.CreatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, booking)
	return err
}

// FindBookings returns all viewing requests, newest first.
func (c *MongoBookingCollection) FindBookings(ctx context.Context) ([]models.Booking, error) {
	return c.find(ctx, bson.M{})
}

// FindBookingsByVehicleNumber returns the viewing requests for one vehicle.
func (c *MongoBookingCollection) FindBookingsByVehicleNumber(ctx context.Context, n int64) ([]models.Booking, error) {
	return c.find(ctx, bson.M{"vehicle_number": n})
}

func (c *MongoBookingCollection) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
