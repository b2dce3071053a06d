package models

import "time"

// Vehicle is a tracked fleet vehicle.
type Vehicle struct {
	ID          string    `json:"id"`
	PlateNumber string    `json:"plateNumber"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VehicleDetail is a vehicle with its most recent trips, newest first.
type VehicleDetail struct {
	Vehicle
	RecentTrips []TripInterval `json:"recentTrips"`
}

// CreateVehicleInput is the request body for creating a vehicle. The upper
// bound on Year depends on the current date and is checked by the service.
type CreateVehicleInput struct {
	PlateNumber string `json:"plateNumber" binding:"required,max=32"`
	Brand       string `json:"brand" binding:"required,max=64"`
	Model       string `json:"model" binding:"required,max=64"`
	Year        int    `json:"year" binding:"required,min=1900"`
	Color       string `json:"color" binding:"required,max=32"`
}

// UpdateVehicleInput is a partial update; nil fields are left unchanged.
type UpdateVehicleInput struct {
	PlateNumber *string `json:"plateNumber" binding:"omitempty,min=1,max=32"`
	Brand       *string `json:"brand" binding:"omitempty,min=1,max=64"`
	Model       *string `json:"model" binding:"omitempty,min=1,max=64"`
	Year        *int    `json:"year" binding:"omitempty,min=1900"`
	Color       *string `json:"color" binding:"omitempty,min=1,max=32"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// VehiclesResponse represents a paginated response of vehicles
type VehiclesResponse struct {
	Vehicles   []Vehicle  `json:"vehicles"`
	Pagination Pagination `json:"pagination"`
}
