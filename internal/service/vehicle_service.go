package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/internal/repository"
	"github.com/jengzang/fleet-tracker-go/internal/spatial"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	recentTripsLimit = 10
	minVehicleYear   = 1900
	// maxPage keeps (page-1)*limit well inside int32.
	maxPage = math.MaxInt32 / maxPageLimit
)

// VehicleService handles business logic for vehicles and their trips
type VehicleService struct {
	vehicles *repository.VehicleRepository
	trips    *repository.TripRepository
	clock    Clock
	log      zerolog.Logger
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(vehicles *repository.VehicleRepository, trips *repository.TripRepository, clock Clock, log zerolog.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, trips: trips, clock: clock, log: log}
}

// List returns one page of vehicles, newest first
func (s *VehicleService) List(ctx context.Context, q models.PageQuery) (*models.VehiclesResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if q.Page > maxPage {
		return nil, invalidArgument("page must be at most %d", maxPage)
	}

	vehicles, total, err := s.vehicles.List(ctx, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, storeUnavailable("list vehicles", err)
	}

	totalPages := int(total) / q.Limit
	if int(total)%q.Limit > 0 {
		totalPages++
	}

	return &models.VehiclesResponse{
		Vehicles: vehicles,
		Pagination: models.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// Get returns a vehicle with its latest trips
func (s *VehicleService) Get(ctx context.Context, id string) (*models.VehicleDetail, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, storeUnavailable("get vehicle", err)
	}
	if v == nil {
		return nil, notFound("vehicle")
	}

	recent, err := s.trips.Recent(ctx, id, recentTripsLimit)
	if err != nil {
		return nil, storeUnavailable("recent trips", err)
	}
	return &models.VehicleDetail{Vehicle: *v, RecentTrips: recent}, nil
}

func (s *VehicleService) checkYear(year int) error {
	maxYear := s.clock.Now().Year() + 1
	if year < minVehicleYear || year > maxYear {
		return invalidArgument("year must be between %d and %d", minVehicleYear, maxYear)
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidArgument("%s is required", field)
	}
	return nil
}

// Create adds a vehicle
func (s *VehicleService) Create(ctx context.Context, in models.CreateVehicleInput) (*models.Vehicle, error) {
	for _, err := range []error{
		required("plateNumber", in.PlateNumber),
		required("brand", in.Brand),
		required("model", in.Model),
		required("color", in.Color),
	} {
		if err != nil {
			return nil, err
		}
	}
	if err := s.checkYear(in.Year); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	v := &models.Vehicle{
		ID:          uuid.NewString(),
		PlateNumber: in.PlateNumber,
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        in.Year,
		Color:       in.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("plate number is already registered")
		}
		return nil, storeUnavailable("create vehicle", err)
	}

	s.log.Info().Str("vehicle_id", v.ID).Str("plate", v.PlateNumber).Msg("vehicle created")
	return v, nil
}

// Update applies the non-nil fields of in
func (s *VehicleService) Update(ctx context.Context, id string, in models.UpdateVehicleInput) (*models.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, storeUnavailable("get vehicle", err)
	}
	if v == nil {
		return nil, notFound("vehicle")
	}

	for _, f := range []struct {
		name string
		in   *string
		dst  *string
	}{
		{"plateNumber", in.PlateNumber, &v.PlateNumber},
		{"brand", in.Brand, &v.Brand},
		{"model", in.Model, &v.Model},
		{"color", in.Color, &v.Color},
	} {
		if f.in == nil {
			continue
		}
		if err := required(f.name, *f.in); err != nil {
			return nil, err
		}
		*f.dst = *f.in
	}
	if in.Year != nil {
		if err := s.checkYear(*in.Year); err != nil {
			return nil, err
		}
		v.Year = *in.Year
	}
	v.UpdatedAt = s.clock.Now()

	ok, err := s.vehicles.Update(ctx, v)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("plate number is already registered")
		}
		return nil, storeUnavailable("update vehicle", err)
	}
	if !ok {
		return nil, notFound("vehicle")
	}

	s.log.Info().Str("vehicle_id", v.ID).Msg("vehicle updated")
	return v, nil
}

// Delete removes a vehicle and its trips
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	ok, err := s.vehicles.Delete(ctx, id)
	if err != nil {
		return storeUnavailable("delete vehicle", err)
	}
	if !ok {
		return notFound("vehicle")
	}
	s.log.Info().Str("vehicle_id", id).Msg("vehicle deleted")
	return nil
}

// RecordTrip stores a trip interval for an existing vehicle
func (s *VehicleService) RecordTrip(ctx context.Context, vehicleID string, in models.CreateTripInput) (*models.TripInterval, error) {
	if !in.Status.Valid() {
		return nil, invalidArgument("status must be one of TRIP, IDLE, STOPPED")
	}
	if in.StartTime.IsZero() {
		return nil, invalidArgument("startTime is required")
	}
	if in.EndTime != nil && in.EndTime.Before(in.StartTime) {
		return nil, invalidArgument("endTime must not be before startTime")
	}
	if in.EndTime == nil && in.StartTime.After(s.clock.Now()) {
		return nil, invalidArgument("an ongoing interval cannot start in the future")
	}
	if err := spatial.ValidateCoordinate(in.Latitude, in.Longitude); err != nil {
		return nil, invalidArgument("%v", err)
	}

	exists, err := s.vehicles.Exists(ctx, vehicleID)
	if err != nil {
		return nil, storeUnavailable("check vehicle", err)
	}
	if !exists {
		return nil, notFound("vehicle")
	}

	now := s.clock.Now()
	t := &models.TripInterval{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		Status:    in.Status,
		StartTime: in.StartTime.UTC(),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.EndTime != nil {
		end := in.EndTime.UTC()
		t.EndTime = &end
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return nil, storeUnavailable("create trip", err)
	}

	s.log.Info().Str("vehicle_id", vehicleID).Str("trip_id", t.ID).Str("status", string(t.Status)).Msg("trip recorded")
	return t, nil
}
