package models

import "time"

// TripStatus is the state a vehicle was in during an interval.
type TripStatus string

// TripStatus constants
const (
	TripStatusTrip    TripStatus = "TRIP"
	TripStatusIdle    TripStatus = "IDLE"
	TripStatusStopped TripStatus = "STOPPED"
)

// Valid reports whether s is one of the three known states.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusTrip, TripStatusIdle, TripStatusStopped:
		return true
	}
	return false
}

// TripInterval is one contiguous period a vehicle spent in a single state.
// A nil EndTime means the interval is still ongoing.
type TripInterval struct {
	ID        string     `json:"id"`
	VehicleID string     `json:"vehicleId"`
	Status    TripStatus `json:"status"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`

	// Location, passthrough only
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ongoing reports whether the interval has no recorded end.
func (t TripInterval) Ongoing() bool {
	return t.EndTime == nil
}

// Duration returns the elapsed time of the interval, measured up to now when
// it is still ongoing.
func (t TripInterval) Duration(now time.Time) time.Duration {
	end := now
	if t.EndTime != nil {
		end = *t.EndTime
	}
	return end.Sub(t.StartTime)
}

// TripWithVehicle is a trip joined with the vehicle that made it.
type TripWithVehicle struct {
	TripInterval
	Vehicle Vehicle `json:"vehicle"`
}

// CreateTripInput is the request body for recording a trip interval.
type CreateTripInput struct {
	Status    TripStatus `json:"status" binding:"required,oneof=TRIP IDLE STOPPED"`
	StartTime time.Time  `json:"startTime" binding:"required"`
	EndTime   *time.Time `json:"endTime"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Address   *string    `json:"address" binding:"omitempty,max=255"`
}
