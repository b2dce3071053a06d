// Package seed loads demo accounts, vehicles and trip intervals.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/internal/service"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

const demoAddress = "Jakarta, Indonesia"

type demoUser struct {
	email, name, role string
}

var demoUsers = []demoUser{
	{"admin@example.com", "Admin User", models.RoleAdmin},
	{"user@example.com", "Regular User", models.RoleUser},
}

var demoVehicles = []models.CreateVehicleInput{
	{PlateNumber: "B1234ABC", Brand: "Toyota", Model: "Avanza", Year: 2020, Color: "White"},
	{PlateNumber: "B5678DEF", Brand: "Honda", Model: "Civic", Year: 2021, Color: "Black"},
	{PlateNumber: "B9012GHI", Brand: "Suzuki", Model: "Ertiga", Year: 2019, Color: "Silver"},
}

// Result counts what a run created.
type Result struct {
	Users    int
	Vehicles int
	Trips    int
}

// Seeder creates demo data through the services so the usual validation
// applies. Existing accounts and plates are left untouched.
type Seeder struct {
	auth     *service.AuthService
	vehicles *service.VehicleService
	log      zerolog.Logger
}

func New(auth *service.AuthService, vehicles *service.VehicleService, log zerolog.Logger) *Seeder {
	return &Seeder{auth: auth, vehicles: vehicles, log: log}
}

// Run seeds the database. Trip intervals are placed on the two days before
// now and only added to vehicles created by this run.
func (s *Seeder) Run(ctx context.Context, now time.Time) (Result, error) {
	var res Result

	for _, u := range demoUsers {
		_, err := s.auth.CreateUser(ctx, models.RegisterInput{Email: u.email, Password: DemoPassword, Name: u.name}, u.role)
		switch {
		case errors.Is(err, service.ErrConflict):
			s.log.Info().Str("email", u.email).Msg("user exists, skipped")
		case err != nil:
			return res, fmt.Errorf("seed user %s: %w", u.email, err)
		default:
			res.Users++
		}
	}

	yesterday := now.Add(-24 * time.Hour)
	twoDaysAgo := now.Add(-48 * time.Hour)
	for i, in := range demoVehicles {
		v, err := s.vehicles.Create(ctx, in)
		if errors.Is(err, service.ErrConflict) {
			s.log.Info().Str("plate", in.PlateNumber).Msg("vehicle exists, skipped")
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed vehicle %s: %w", in.PlateNumber, err)
		}
		res.Vehicles++

		offset := time.Duration(i) * time.Hour
		for _, t := range demoTrips(yesterday, twoDaysAgo, offset, i) {
			if _, err := s.vehicles.RecordTrip(ctx, v.ID, t); err != nil {
				return res, fmt.Errorf("seed trip for %s: %w", in.PlateNumber, err)
			}
			res.Trips++
		}
	}

	return res, nil
}

func demoTrips(yesterday, twoDaysAgo time.Time, offset time.Duration, i int) []models.CreateTripInput {
	at := func(base time.Time, d time.Duration) *time.Time {
		t := base.Add(d)
		return &t
	}
	lat := -6.2 + float64(i)*0.03
	lon := 106.8 + float64(i)*0.03
	addr := demoAddress
	trip := func(status models.TripStatus, start, end *time.Time) models.CreateTripInput {
		la, lo := lat, lon
		return models.CreateTripInput{
			Status:    status,
			StartTime: *start,
			EndTime:   end,
			Latitude:  &la,
			Longitude: &lo,
			Address:   &addr,
		}
	}

	return []models.CreateTripInput{
		trip(models.TripStatusTrip, at(yesterday, offset), at(yesterday, offset+2*time.Hour)),
		trip(models.TripStatusIdle, at(yesterday, 10*time.Hour), at(yesterday, 11*time.Hour)),
		trip(models.TripStatusStopped, at(twoDaysAgo, offset), at(twoDaysAgo, offset+4*time.Hour)),
	}
}
