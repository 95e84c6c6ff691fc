package model

import "time"

// VehicleType enumerates rider vehicle kinds accepted by the platform.
type VehicleType string

const (
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleBicycle    VehicleType = "bicycle"
	VehicleCar        VehicleType = "car"
	VehicleVan        VehicleType = "van"
)

// Restaurant is the pickup location an order originates from.
type Restaurant struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsActive  bool     `json:"is_active"`
}

// Rider is the authenticated delivery rider profile.
type Rider struct {
	ID                        int64       `json:"id"`
	Name                      string      `json:"name"`
	CNIC                      string      `json:"cnic"`
	PhoneNumber               string      `json:"phone_number"`
	Address                   string      `json:"address"`
	VehicleType               VehicleType `json:"vehicle_type"`
	VehicleRegistrationNumber string      `json:"vehicle_registration_number"`
	IsActive                  bool        `json:"is_active"`
	RestaurantID              int64       `json:"restaurant_id"`
	Restaurant                *Restaurant `json:"restaurant,omitempty"`
	CreatedAt                 time.Time   `json:"created_at"`
	UpdatedAt                 time.Time   `json:"updated_at"`
}

// Location is a rider position report.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
