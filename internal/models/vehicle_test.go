package models

import (
	"testing"
)

func TestVehicle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		vehicle Vehicle
		wantErr bool
		field   string
	}{
		{"valid vehicle", Vehicle{Name: "Tesla Model S", Price: 80000, Details: "Long range"}, false, ""},
		{"zero price is allowed", Vehicle{Name: "Freebie", Price: 0, Details: "promo listing"}, false, ""},
		{"missing name", Vehicle{Price: 80000, Details: "Long range"}, true, "name"},
		{"whitespace name", Vehicle{Name: "   ", Price: 80000, Details: "Long range"}, true, "name"},
		{"missing details", Vehicle{Name: "Tesla Model S", Price: 80000}, true, "details"},
		{"negative price", Vehicle{Name: "Tesla Model S", Price: -1, Details: "Long range"}, true, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vehicle.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				verr, ok := err.(*ValidationError)
				if !ok {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if verr.Field != tt.field {
					t.Errorf("expected field %q, got %q", tt.field, verr.Field)
				}
			}
		})
	}
}

func TestVehicle_DisplayPrice(t *testing.T) {
	tests := []struct {
		price    float64
		expected string
	}{
		{80000, "$80,000.00"},
		{999, "$999.00"},
		{1234567.5, "$1,234,567.50"},
		{0, "$0.00"},
	}

	for _, tt := range tests {
		v := Vehicle{Price: tt.price}
		if got := v.DisplayPrice(); got != tt.expected {
			t.Errorf("DisplayPrice(%v) = %q, want %q", tt.price, got, tt.expected)
		}
	}
}

func TestVehicle_DiscountedPrice(t *testing.T) {
	v := Vehicle{Price: 80000}
	if got := v.DiscountedPrice(); got != 64000 {
		t.Errorf("DiscountedPrice() = %v, want 64000", got)
	}
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"already embedded", "https://www.youtube.com/embed/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"non-youtube url", "https://example.com/video.mp4", "https://example.com/video.mp4"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmbedURL(tt.raw); got != tt.expected {
				t.Errorf("EmbedURL(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestVehicle_PreviewURL(t *testing.T) {
	// Video preview wins over a static image when both are present.
	v := Vehicle{
		ImageURL:   "https://example.com/car.jpg",
		YoutubeURL: "https://www.youtube.com/watch?v=abc123",
	}
	if got := v.PreviewURL(); got != "https://www.youtube.com/embed/abc123" {
		t.Errorf("PreviewURL() = %q, want embed url", got)
	}

	v.YoutubeURL = ""
	if got := v.PreviewURL(); got != "https://example.com/car.jpg" {
		t.Errorf("PreviewURL() = %q, want image url", got)
	}
}
