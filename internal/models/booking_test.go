package models

import "testing"

func TestBooking_Validate(t *testing.T) {
	valid := Booking{
		VehicleNumber: 42,
		VehicleName:   "Tesla Model S",
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "+1 555 0100",
		Date:          "2026-09-15",
		Time:          "14:30",
	}

	tests := []struct {
		name   string
		mutate func(*Booking)
		field  string
	}{
		{"valid booking", func(b *Booking) {}, ""},
		{"missing name", func(b *Booking) { b.Name = "" }, "name"},
		{"bad email", func(b *Booking) { b.Email = "not-an-email" }, "email"},
		{"missing phone", func(b *Booking) { b.Phone = "  " }, "phone"},
		{"bad date", func(b *Booking) { b.Date = "15/09/2026" }, "date"},
		{"bad time", func(b *Booking) { b.Time = "2pm" }, "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			err := b.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected valid booking, got %v", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}
