package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking represents a visitor's request to view a vehicle in person.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleNumber int64              `bson:"vehicle_number" json:"vehicle_number"`
	VehicleName   string             `bson:"vehicle_name" json:"vehicle_name"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	Date          string             `bson:"date" json:"date"` // YYYY-MM-DD
	Time          string             `bson:"time" json:"time"` // HH:MM
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Validate checks the fields collected by the booking form.
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !strings.Contains(b.Email, "@") {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if strings.TrimSpace(b.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "must not be empty"}
	}
	if _, err := time.Parse("2006-01-02", b.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse("15:04", b.Time); err != nil {
		return &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	return nil
}
