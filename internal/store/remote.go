package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/automotive-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDocNotFound is returned when a remote document lookup has no match.
var ErrDocNotFound = errors.New("document not found")

// VehicleDoc is the flattened wire form of a vehicle in the remote
// collection: the opaque document id plus every declared field, with
// the seller record flattened to prefixed fields. Specifications stay
// a one-level string map.
type VehicleDoc struct {
	DocID             string
	VehicleNumber     int64
	Name              string
	Price             float64
	IsNew             bool
	ImageURL          string
	YoutubeURL        string
	Details           string
	SellerName        string
	SellerExperience  string
	SellerPhone       string
	SellerEmail       string
	SellerLocation    string
	SellerDescription string
	Specifications    map[string]string
	CreatedAt         time.Time
}

// ToVehicle maps a remote document to the canonical vehicle shape,
// defaulting absent optional fields to their empty values. The seller
// is reconstructed only when the document carries one.
func (d *VehicleDoc) ToVehicle() models.Vehicle {
	v := models.Vehicle{
		ID:             d.DocID,
		VehicleNumber:  d.VehicleNumber,
		Name:           d.Name,
		Price:          d.Price,
		IsNew:          d.IsNew,
		ImageURL:       d.ImageURL,
		YoutubeURL:     d.YoutubeURL,
		Details:        d.Details,
		Specifications: d.Specifications,
		CreatedAt:      d.CreatedAt,
	}
	if d.SellerName != "" {
		v.Seller = &models.Seller{
			Name:        d.SellerName,
			Experience:  d.SellerExperience,
			Phone:       d.SellerPhone,
			Email:       d.SellerEmail,
			Location:    d.SellerLocation,
			Description: d.SellerDescription,
		}
	}
	return v
}

// DocFromVehicle flattens a vehicle into its remote document form.
// The document id is left to the service.
func DocFromVehicle(v models.Vehicle) VehicleDoc {
	d := VehicleDoc{
		VehicleNumber:  v.VehicleNumber,
		Name:           v.Name,
		Price:          v.Price,
		IsNew:          v.IsNew,
		ImageURL:       v.ImageURL,
		YoutubeURL:     v.YoutubeURL,
		Details:        v.Details,
		Specifications: v.Specifications,
		CreatedAt:      v.CreatedAt,
	}
	if v.Seller != nil {
		d.SellerName = v.Seller.Name
		d.SellerExperience = v.Seller.Experience
		d.SellerPhone = v.Seller.Phone
		d.SellerEmail = v.Seller.Email
		d.SellerLocation = v.Seller.Location
		d.SellerDescription = v.Seller.Description
	}
	return d
}

// DocumentService is the remote document store boundary. The service
// assigns the opaque document id; the vehicle number business key is
// caller-supplied.
type DocumentService interface {
	List(ctx context.Context) ([]VehicleDoc, error)
	Create(ctx context.Context, doc VehicleDoc) (string, error)
	FindByVehicleNumber(ctx context.Context, n int64) (*VehicleDoc, error)
	Update(ctx context.Context, docID string, doc VehicleDoc) error
	Delete(ctx context.Context, docID string) error
}

// vehicleDocRecord is the BSON shape persisted by the Mongo implementation.
type vehicleDocRecord struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	VehicleNumber     int64              `bson:"vehicle_number"`
	Name              string             `bson:"name"`
	Price             float64            `bson:"price"`
	IsNew             bool               `bson:"is_new"`
	ImageURL          string             `bson:"image_url,omitempty"`
	YoutubeURL        string             `bson:"youtube_url,omitempty"`
	Details           string             `bson:"details"`
	SellerName        string             `bson:"seller_name,omitempty"`
	SellerExperience  string             `bson:"seller_experience,omitempty"`
	SellerPhone       string             `bson:"seller_phone,omitempty"`
	SellerEmail       string             `bson:"seller_email,omitempty"`
	SellerLocation    string             `bson:"seller_location,omitempty"`
	SellerDescription string             `bson:"seller_description,omitempty"`
	Specifications    map[string]string  `bson:"specifications,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
}

func (r *vehicleDocRecord) toDoc() VehicleDoc {
	return VehicleDoc{
		DocID:             r.ID.Hex(),
		VehicleNumber:     r.VehicleNumber,
		Name:              r.Name,
		Price:             r.Price,
		IsNew:             r.IsNew,
		ImageURL:          r.ImageURL,
		YoutubeURL:        r.YoutubeURL,
		Details:           r.Details,
		SellerName:        r.SellerName,
		SellerExperience:  r.SellerExperience,
		SellerPhone:       r.SellerPhone,
		SellerEmail:       r.SellerEmail,
		SellerLocation:    r.SellerLocation,
		SellerDescription: r.SellerDescription,
		Specifications:    r.Specifications,
		CreatedAt:         r.CreatedAt,
	}
}

func recordFromDoc(d VehicleDoc) vehicleDocRecord {
	return vehicleDocRecord{
		VehicleNumber:     d.VehicleNumber,
		Name:              d.Name,
		Price:             d.Price,
		IsNew:             d.IsNew,
		ImageURL:          d.ImageURL,
		YoutubeURL:        d.YoutubeURL,
		Details:           d.Details,
		SellerName:        d.SellerName,
		SellerExperience:  d.SellerExperience,
		SellerPhone:       d.SellerPhone,
		SellerEmail:       d.SellerEmail,
		SellerLocation:    d.SellerLocation,
		SellerDescription: d.SellerDescription,
		Specifications:    d.Specifications,
		CreatedAt:         d.CreatedAt,
	}
}

// VehicleCollection implements DocumentService on a MongoDB collection.
type VehicleCollection struct {
	Collection *mongo.Collection
}

// List returns all vehicle documents, newest first.
func (c *VehicleCollection) List(ctx context.Context) ([]VehicleDoc, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []vehicleDocRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	docs := make([]VehicleDoc, 0, len(records))
	for i := range records {
		docs = append(docs, records[i].toDoc())
	}
	return docs, nil
}

// Create inserts a vehicle document and returns the assigned id.
func (c *VehicleCollection) Create(ctx context.Context, doc VehicleDoc) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}

	record := recordFromDoc(doc)
	result, err := c.Collection.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByVehicleNumber looks a document up by its business key. When
// duplicates exist the most recently created one wins.
func (c *VehicleCollection) FindByVehicleNumber(ctx context.Context, n int64) (*VehicleDoc, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var record vehicleDocRecord
	err := c.Collection.FindOne(ctx, bson.M{"vehicle_number": n}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrDocNotFound
		}
		return nil, err
	}

	doc := record.toDoc()
	return &doc, nil
}

// Update replaces the stored fields of docID. Identity fields are not
// part of the update.
func (c *VehicleCollection) Update(ctx context.Context, docID string, doc VehicleDoc) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}

	record := recordFromDoc(doc)
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": record})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrDocNotFound
	}
	return nil
}

// Delete removes the document with docID.
func (c *VehicleCollection) Delete(ctx context.Context, docID string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrDocNotFound
	}
	return nil
}
