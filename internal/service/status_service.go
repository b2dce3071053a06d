package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/internal/repository"
)

// TripStore is the read side the status computation needs.
type TripStore interface {
	VehicleExists(ctx context.Context, vehicleID string) (bool, error)
	// FindTripsInWindow returns intervals with startTime in [start, end),
	// ascending by startTime.
	FindTripsInWindow(ctx context.Context, vehicleID string, start, end time.Time) ([]models.TripInterval, error)
}

// StatusObserver is notified of every status computation outcome.
type StatusObserver interface {
	ObserveStatusComputation(outcome string)
}

// Status computation outcomes reported to the StatusObserver.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidArgument  = "invalid_argument"
	OutcomeNotFound         = "not_found"
	OutcomeStoreUnavailable = "store_unavailable"
)

// StatusService computes per-day time accounting for a vehicle.
type StatusService struct {
	store    TripStore
	clock    Clock
	loc      *time.Location
	observer StatusObserver
	log      zerolog.Logger
}

// StatusOption customises a StatusService.
type StatusOption func(*StatusService)

// WithStatusObserver reports outcomes to o.
func WithStatusObserver(o StatusObserver) StatusOption {
	return func(s *StatusService) { s.observer = o }
}

// WithStatusLogger sets the service logger.
func WithStatusLogger(l zerolog.Logger) StatusOption {
	return func(s *StatusService) { s.log = l }
}

// NewStatusService creates a status service. Dates are interpreted in loc;
// a nil loc means UTC.
func NewStatusService(store TripStore, clock Clock, loc *time.Location, opts ...StatusOption) *StatusService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	s := &StatusService{store: store, clock: clock, loc: loc, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeStatus returns the minutes vehicleID spent in each state during
// date. Intervals are attributed wholly to the day they start on, and an
// ongoing interval counts up to the current instant, so repeated calls can
// return growing totals.
func (s *StatusService) ComputeStatus(ctx context.Context, vehicleID, date string) (*models.StatusSummary, error) {
	summary, err := s.computeStatus(ctx, vehicleID, date)
	s.observe(err)
	return summary, err
}

func (s *StatusService) computeStatus(ctx context.Context, vehicleID, date string) (*models.StatusSummary, error) {
	day, err := ParseDate(date, s.loc)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.VehicleExists(ctx, vehicleID)
	if err != nil {
		return nil, storeUnavailable("check vehicle", err)
	}
	if !exists {
		return nil, notFound("vehicle")
	}

	start, end := DayWindow(day)
	trips, err := s.store.FindTripsInWindow(ctx, vehicleID, start, end)
	if err != nil {
		return nil, storeUnavailable("find trips", err)
	}
	if trips == nil {
		trips = []models.TripInterval{}
	}

	now := s.clock.Now()
	var tripMs, idleMs, stoppedMs int64
	for _, t := range trips {
		ms := t.Duration(now).Milliseconds()
		switch t.Status {
		case models.TripStatusTrip:
			tripMs += ms
		case models.TripStatusIdle:
			idleMs += ms
		case models.TripStatusStopped:
			stoppedMs += ms
		default:
			s.log.Warn().Str("trip_id", t.ID).Str("status", string(t.Status)).Msg("ignoring trip with unknown status")
		}
	}

	s.log.Debug().
		Str("vehicle_id", vehicleID).
		Str("date", date).
		Int("trips", len(trips)).
		Msg("computed vehicle status")

	return &models.StatusSummary{
		Date:  date,
		Trips: trips,
		Summary: models.StatusMinutes{
			Trip:    msToMinutes(tripMs),
			Idle:    msToMinutes(idleMs),
			Stopped: msToMinutes(stoppedMs),
		},
	}, nil
}

func (s *StatusService) observe(err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveStatusComputation(outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidArgument):
		return OutcomeInvalidArgument
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeStoreUnavailable
	}
}

// msToMinutes rounds half away from zero.
func msToMinutes(ms int64) int64 {
	return int64(math.Round(float64(ms) / float64(time.Minute/time.Millisecond)))
}

// sqlTripStore serves TripStore from the SQLite repositories.
type sqlTripStore struct {
	vehicles *repository.VehicleRepository
	trips    *repository.TripRepository
}

// NewSQLTripStore adapts the repositories to TripStore.
func NewSQLTripStore(vehicles *repository.VehicleRepository, trips *repository.TripRepository) TripStore {
	return &sqlTripStore{vehicles: vehicles, trips: trips}
}

func (s *sqlTripStore) VehicleExists(ctx context.Context, vehicleID string) (bool, error) {
	return s.vehicles.Exists(ctx, vehicleID)
}

func (s *sqlTripStore) FindTripsInWindow(ctx context.Context, vehicleID string, start, end time.Time) ([]models.TripInterval, error) {
	return s.trips.FindInWindow(ctx, vehicleID, start, end)
}
