package main

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/automotive-catalog/internal/auth"
	"github.com/ukydev/automotive-catalog/internal/catalog"
	"github.com/ukydev/automotive-catalog/internal/config"
	"github.com/ukydev/automotive-catalog/internal/handlers"
	"github.com/ukydev/automotive-catalog/internal/middleware"
	"github.com/ukydev/automotive-catalog/internal/notify"
	"github.com/ukydev/automotive-catalog/internal/store"
)

func main() {
	cfg := config.Load()

	kv, err := store.NewFileStore(cfg.StorePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open local store")
	}

	// The document store is optional: the catalog keeps working
	// local-only when it is unreachable at startup.
	var (
		remote   store.DocumentService
		users    store.UserCollection
		bookings store.BookingCollection
	)
	if cfg.MongoURI != "" {
		client, err := store.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.WithError(err).Error("MongoDB unreachable, catalog runs local-only")
		} else {
			db := client.Database(cfg.MongoDB)
			remote = &store.VehicleCollection{Collection: db.Collection("vehicles")}
			users = &store.MongoUserCollection{Collection: db.Collection("users")}
			bookings = &store.MongoBookingCollection{Collection: db.Collection("bookings")}
			log.Info("Connected to MongoDB")
		}
	}

	mode := catalog.ModeLocal
	if cfg.CatalogMode == string(catalog.ModeRemote) {
		if remote == nil {
			log.Fatal("CATALOG_MODE=remote requires a reachable MongoDB")
		}
		mode = catalog.ModeRemote
	}
	repo := catalog.NewRepository(mode, kv, remote)
	log.WithField("mode", mode).Info("Catalog repository ready")

	var publisher notify.Publisher = notify.NopPublisher{}
	if cfg.MQTTBroker != "" {
		p, err := notify.NewMQTTPublisher(cfg.MQTTBroker, "storefront-api")
		if err != nil {
			log.WithError(err).Warn("MQTT broker unreachable, notifications disabled")
		} else {
			publisher = p
			defer p.Close()
		}
	}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimit := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()

	vehicleHandler := handlers.NewVehicleHandler(repo, publisher)
	mux.HandleFunc("/api/vehicles", vehicleHandler.Collection)
	mux.HandleFunc("/api/vehicles/", vehicleHandler.Item)

	if users != nil {
		authHandler := handlers.NewAuthHandler(authService, users)
		mux.HandleFunc("/api/auth/login", authHandler.Login)
		mux.HandleFunc("/api/auth/register", authHandler.Register)
	}
	if bookings != nil {
		bookingHandler := handlers.NewBookingHandler(bookings, repo, publisher)
		mux.HandleFunc("/api/bookings", bookingHandler.Bookings)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := rateLimit.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.WithError(err).Fatal("HTTP server failed")
	}
}
