package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/automotive-catalog/internal/catalog"
	"github.com/ukydev/automotive-catalog/internal/models"
	"github.com/ukydev/automotive-catalog/internal/notify"
	"github.com/ukydev/automotive-catalog/internal/store"
)

// BookingHandler serves viewing-request submission and listing.
type BookingHandler struct {
	bookings  store.BookingCollection
	repo      *catalog.Repository
	publisher notify.Publisher
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookings store.BookingCollection, repo *catalog.Repository, publisher notify.Publisher) *BookingHandler {
	return &BookingHandler{bookings: bookings, repo: repo, publisher: publisher}
}

// Bookings handles POST (public submission) and GET (operator list)
// on /api/bookings.
func (h *BookingHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var booking models.Booking
	if err := json.Unmarshal(body, &booking); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := booking.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Fill the vehicle name from the catalog when the form left it out.
	if booking.VehicleName == "" {
		key := strconv.FormatInt(booking.VehicleNumber, 10)
		if vehicle, err := h.repo.GetByID(r.Context(), key); err == nil && vehicle != nil {
			booking.VehicleName = vehicle.Name
		}
	}

	if err := h.bookings.InsertBooking(r.Context(), booking); err != nil {
		log.WithError(err).Error("Failed to store booking")
		http.Error(w, "Failed to store booking", http.StatusInternalServerError)
		return
	}

	if err := h.publisher.Publish(notify.TopicBookings, booking); err != nil {
		log.WithError(err).Warn("Failed to publish booking event")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Booking requested"})
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		bookings []models.Booking
		err      error
	)
	if q := r.URL.Query().Get("vehicle_number"); q != "" {
		n, perr := strconv.ParseInt(q, 10, 64)
		if perr != nil {
			http.Error(w, "Invalid vehicle_number", http.StatusBadRequest)
			return
		}
		bookings, err = h.bookings.FindBookingsByVehicleNumber(r.Context(), n)
	} else {
		bookings, err = h.bookings.FindBookings(r.Context())
	}
	if err != nil {
		http.Error(w, "Failed to load bookings", http.StatusInternalServerError)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}
