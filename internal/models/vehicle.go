package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Seller holds the contact details shown on a vehicle's detail view.
// It is all-or-nothing: a vehicle either carries a complete seller
// record or none at all.
type Seller struct {
	Name        string `bson:"name" json:"name"`
	Experience  string `bson:"experience" json:"experience"`
	Phone       string `bson:"phone" json:"phone"`
	Email       string `bson:"email" json:"email"`
	Location    string `bson:"location" json:"location"`
	Description string `bson:"description" json:"description"`
}

// Vehicle represents a catalog listing.
type Vehicle struct {
	ID             string            `bson:"_id,omitempty" json:"id"`
	VehicleNumber  int64             `bson:"vehicle_number" json:"vehicle_number"` // business key
	Name           string            `bson:"name" json:"name"`
	Price          float64           `bson:"price" json:"price"` // numeric, formatted at presentation time
	IsNew          bool              `bson:"is_new" json:"is_new"`
	ImageURL       string            `bson:"image_url,omitempty" json:"image_url,omitempty"`
	YoutubeURL     string            `bson:"youtube_url,omitempty" json:"youtube_url,omitempty"`
	Details        string            `bson:"details" json:"details"`
	Seller         *Seller           `bson:"seller,omitempty" json:"seller,omitempty"`
	Specifications map[string]string `bson:"specifications,omitempty" json:"specifications,omitempty"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
}

// ValidationError reports a rejected field before any store is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the required listing fields.
func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(v.Details) == "" {
		return &ValidationError{Field: "details", Reason: "must not be empty"}
	}
	if v.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// DisplayPrice formats the price for the card view, e.g. "$80,000.00".
func (v *Vehicle) DisplayPrice() string {
	return "$" + groupThousands(fmt.Sprintf("%.2f", v.Price))
}

// DiscountedPrice returns the promotional price shown next to the
// struck-through list price (20% off).
func (v *Vehicle) DiscountedPrice() float64 {
	return v.Price * 0.8
}

// PreviewURL picks the media reference for the card preview. A video
// takes priority over a static image.
func (v *Vehicle) PreviewURL() string {
	if v.YoutubeURL != "" {
		return EmbedURL(v.YoutubeURL)
	}
	return v.ImageURL
}

// EmbedURL rewrites a YouTube watch or share URL into its embeddable
// form. Unrecognized URLs pass through unchanged.
func EmbedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	switch {
	case strings.HasSuffix(u.Host, "youtube.com") && u.Path == "/watch":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	case u.Host == "youtu.be" && len(u.Path) > 1:
		return "https://www.youtube.com/embed/" + strings.TrimPrefix(u.Path, "/")
	}
	return raw
}

func groupThousands(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}
