package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/automotive-catalog/internal/catalog"
	"github.com/ukydev/automotive-catalog/internal/models"
	"github.com/ukydev/automotive-catalog/internal/notify"
	"github.com/ukydev/automotive-catalog/internal/store"
)

// MockBookingCollection is a mock implementation of store.BookingCollection
type MockBookingCollection struct {
	mock.Mock
}

func (m *MockBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingCollection) FindBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingCollection) FindBookingsByVehicleNumber(ctx context.Context, n int64) ([]models.Booking, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

// MockPublisher is a mock implementation of notify.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(topic string, event interface{}) error {
	args := m.Called(topic, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() {}

func validBookingBody() []byte {
	body, _ := json.Marshal(models.Booking{
		VehicleNumber: 42,
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "+1 555 0100",
		Date:          "2026-09-15",
		Time:          "14:30",
	})
	return body
}

func TestBookingHandler_Create(t *testing.T) {
	bookings := new(MockBookingCollection)
	bookings.On("InsertBooking", mock.Anything, mock.Anything).Return(nil)
	publisher := new(MockPublisher)
	publisher.On("Publish", notify.TopicBookings, mock.Anything).Return(nil)

	repo := catalog.NewRepository(catalog.ModeLocal, store.NewMemStore(), nil)
	handler := NewBookingHandler(bookings, repo, publisher)

	req := httptest.NewRequest("POST", "/api/bookings", bytes.NewBuffer(validBookingBody()))
	w := httptest.NewRecorder()
	handler.Bookings(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	bookings.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestBookingHandler_CreateInvalid(t *testing.T) {
	bookings := new(MockBookingCollection)
	repo := catalog.NewRepository(catalog.ModeLocal, store.NewMemStore(), nil)
	handler := NewBookingHandler(bookings, repo, notify.NopPublisher{})

	body, _ := json.Marshal(models.Booking{Name: "Jane"})
	req := httptest.NewRequest("POST", "/api/bookings", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Bookings(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	bookings.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_PublishFailureStillCreated(t *testing.T) {
	bookings := new(MockBookingCollection)
	bookings.On("InsertBooking", mock.Anything, mock.Anything).Return(nil)
	publisher := new(MockPublisher)
	publisher.On("Publish", notify.TopicBookings, mock.Anything).
		Return(errors.New("broker down"))

	repo := catalog.NewRepository(catalog.ModeLocal, store.NewMemStore(), nil)
	handler := NewBookingHandler(bookings, repo, publisher)

	req := httptest.NewRequest("POST", "/api/bookings", bytes.NewBuffer(validBookingBody()))
	w := httptest.NewRecorder()
	handler.Bookings(w, req)

	// Notification failures are invisible to the visitor.
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBookingHandler_List(t *testing.T) {
	bookings := new(MockBookingCollection)
	bookings.On("FindBookings", mock.Anything).Return([]models.Booking{
		{VehicleNumber: 42, Name: "Jane Doe"},
	}, nil)

	repo := catalog.NewRepository(catalog.ModeLocal, store.NewMemStore(), nil)
	handler := NewBookingHandler(bookings, repo, notify.NopPublisher{})

	req := httptest.NewRequest("GET", "/api/bookings", nil)
	w := httptest.NewRecorder()
	handler.Bookings(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Jane Doe", got[0].Name)
}

func TestBookingHandler_ListByVehicleNumber(t *testing.T) {
	bookings := new(MockBookingCollection)
	bookings.On("FindBookingsByVehicleNumber", mock.Anything, int64(42)).
		Return([]models.Booking{{VehicleNumber: 42}}, nil)

	repo := catalog.NewRepository(catalog.ModeLocal, store.NewMemStore(), nil)
	handler := NewBookingHandler(bookings, repo, notify.NopPublisher{})

	req := httptest.NewRequest("GET", "/api/bookings?vehicle_number=42", nil)
	w := httptest.NewRecorder()
	handler.Bookings(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	bookings.AssertExpectations(t)
}
