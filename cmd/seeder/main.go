// Command seeder fills the storefront with demo listings through the
// HTTP API, logging in as the seed operator first.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/automotive-catalog/internal/models"
)

var demoVehicles = []models.Vehicle{
	{
		VehicleNumber: 1001,
		Name:          "Tesla Model S",
		Price:         80000,
		IsNew:         true,
		YoutubeURL:    "https://www.youtube.com/watch?v=kzPa1lSybf4",
		Details:       "Long range, autopilot, single owner.",
		Seller: &models.Seller{
			Name:       "Jane Miller",
			Experience: "12 years",
			Phone:      "+1 555 0100",
			Email:      "jane@automotive.example",
			Location:   "San Francisco, CA",
		},
		Specifications: map[string]string{
			"engine":       "electric",
			"transmission": "automatic",
			"range":        "405 miles",
		},
	},
	{
		VehicleNumber: 1002,
		Name:          "BMW X5",
		Price:         61500,
		YoutubeURL:    "https://www.youtube.com/watch?v=GBcOmt2HsiA",
		Details:       "xDrive40i, panoramic roof, full service history.",
		Specifications: map[string]string{
			"engine":       "3.0L inline-6",
			"transmission": "automatic",
			"fuelType":     "petrol",
		},
	},
	{
		VehicleNumber: 1003,
		Name:          "Honda Civic",
		Price:         24900,
		IsNew:         true,
		ImageURL:      "https://images.automotive.example/civic.jpg",
		Details:       "Economical daily driver with low mileage.",
		Specifications: map[string]string{
			"engine":       "2.0L",
			"transmission": "CVT",
		},
	},
}

func login(apiURL, username, password string) (string, error) {
	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(apiURL+"/api/auth/login", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}

	var loginResp models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	return loginResp.Token, nil
}

func createVehicle(apiURL, token string, vehicle models.Vehicle) error {
	data, err := json.Marshal(vehicle)
	if err != nil {
		return fmt.Errorf("failed to marshal vehicle: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, apiURL+"/api/vehicles", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("vehicle creation failed with status: %d", resp.StatusCode)
	}

	var result struct {
		ID     string `json:"id"`
		Synced bool   `json:"synced"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	log.WithFields(log.Fields{
		"id":             result.ID,
		"vehicle_number": vehicle.VehicleNumber,
		"name":           vehicle.Name,
		"synced":         result.Synced,
	}).Info("Created vehicle")
	return nil
}

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	username := os.Getenv("SEED_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	token, err := login(apiURL, username, password)
	if err != nil {
		log.WithError(err).Fatal("Failed to log in")
	}

	for _, v := range demoVehicles {
		if err := createVehicle(apiURL, token, v); err != nil {
			log.WithError(err).WithField("name", v.Name).Error("Failed to seed vehicle")
		}
	}
	log.Info("Seeding complete")
}
